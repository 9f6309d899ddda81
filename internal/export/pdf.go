// Package export lays out translated text as a paginated PDF document.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"voxbridge/internal/domain"
)

// ErrEmptyDocument is returned when there is no text to lay out.
var ErrEmptyDocument = errors.New("document text is empty")

const (
	pageMargin   = 20.0
	bodyFontSize = 12.0
	bodyLeading  = 6.0
	fontFamily   = "body"
)

// Renderer implements ports.DocumentRenderer with go-pdf/fpdf.
type Renderer struct {
	title    string
	fontPath string
	now      func() time.Time
}

type Option func(*Renderer)

// WithUTF8Font embeds a TrueType font so non-Latin scripts render.
func WithUTF8Font(path string) Option {
	return func(r *Renderer) {
		r.fontPath = strings.TrimSpace(path)
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{title: "Voice Translation", now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FileName returns the download name for a language pair.
func FileName(languages domain.LanguagePair) string {
	return fmt.Sprintf("translation_%s_to_%s.pdf", fileToken(languages.Source), fileToken(languages.Target))
}

func (r *Renderer) Render(text string, languages domain.LanguagePair) (domain.Document, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Document{}, ErrEmptyDocument
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("")

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", r.fontPath)
		pdf.AddUTF8Font(fontFamily, "B", r.fontPath)
		family = fontFamily
		tr = func(s string) string { return s }
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(family, "", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 12, tr(r.title), "", 1, "C", false, 0, "")

	pdf.SetFont(family, "", 11)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 7, tr(languageLine(languages)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, r.now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")

	pdf.Ln(3)
	y := pdf.GetY()
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(pageMargin, y, pageWidth-pageMargin, y)
	pdf.Ln(6)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(family, "B", 13)
	pdf.CellFormat(0, 8, tr("Translated text"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "", bodyFontSize)
	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			pdf.Ln(bodyLeading)
			continue
		}
		pdf.MultiCell(0, bodyLeading, tr(paragraph), "", "L", false)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return domain.Document{}, fmt.Errorf("failed to render pdf: %w", err)
	}
	return domain.Document{
		FileName: FileName(languages),
		Data:     out.Bytes(),
		Pages:    pdf.PageCount(),
	}, nil
}

func languageLine(languages domain.LanguagePair) string {
	return fmt.Sprintf("%s to %s", DisplayName(languages.Source), DisplayName(languages.Target))
}

// DisplayName returns the English name of a language code, or the code itself
// when it cannot be parsed.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return code
	}
	return name
}

func fileToken(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "unknown"
	}
	return strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(code)
}
