package speech

import (
	"strings"

	"golang.org/x/text/language"
)

const DefaultLocale = "en-US"

var localeTable = map[string]string{
	"en":    "en-US",
	"es":    "es-ES",
	"fr":    "fr-FR",
	"de":    "de-DE",
	"it":    "it-IT",
	"ja":    "ja-JP",
	"pt":    "pt-BR",
	"ru":    "ru-RU",
	"zh-CN": "zh-CN",
	"ko":    "ko-KR",
	"ar":    "ar-SA",
}

// LocaleFor maps a target language selection to the synthesizer locale.
// Exact table keys win; otherwise the canonical form is looked up once.
// Unmapped languages fall back to DefaultLocale.
func LocaleFor(target string) string {
	target = strings.TrimSpace(target)
	if locale, ok := localeTable[target]; ok {
		return locale
	}
	tag, err := language.Parse(target)
	if err != nil {
		return DefaultLocale
	}
	if locale, ok := localeTable[tag.String()]; ok {
		return locale
	}
	return DefaultLocale
}
