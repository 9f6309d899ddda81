// Package translate calls public text translation APIs with a single fallback.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// ErrAllProvidersFailed is returned by Chain when no provider produced a translation.
var ErrAllProvidersFailed = errors.New("all translation providers failed")

// Provider is one translation backend.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text string, source string, target string) (string, error)
}

// Translation is a successful Chain result.
type Translation struct {
	Text     string
	Provider string
}

// Chain asks each provider in order and returns the first success. Provider
// errors are joined into the returned error when every provider fails.
func Chain(ctx context.Context, text string, source string, target string, providers ...Provider) (Translation, error) {
	var errs []error
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		translated, err := provider.Translate(ctx, text, source, target)
		if err == nil {
			return Translation{Text: translated, Provider: provider.Name()}, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return Translation{}, ErrAllProvidersFailed
	}
	return Translation{}, fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
}

// Client implements ports.Translator over a primary and a secondary provider.
// It never fails: when both providers fail the input text is returned.
type Client struct {
	primary   Provider
	secondary Provider
	log       zerolog.Logger
}

func NewClient(primary Provider, secondary Provider, log zerolog.Logger) *Client {
	return &Client{primary: primary, secondary: secondary, log: log}
}

func (c *Client) Translate(ctx context.Context, text string, source string, target string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	src := BaseLanguage(source)
	result, err := Chain(ctx, text, src, target, c.primary, c.secondary)
	if err != nil {
		c.log.Warn().Err(err).Str("source", src).Str("target", target).Msg("translation unavailable, passing text through")
		return text
	}
	if c.primary != nil && result.Provider != c.primary.Name() {
		c.log.Debug().Str("provider", result.Provider).Msg("translated with fallback provider")
	}
	return result.Text
}

// BaseLanguage reduces a BCP 47 tag to its base language ("pt-PT" -> "pt").
// Unparseable input is returned trimmed and unchanged.
func BaseLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return code
	}
	tag, err := language.Parse(code)
	if err != nil {
		if i := strings.IndexAny(code, "-_"); i > 0 {
			return code[:i]
		}
		return code
	}
	base, _ := tag.Base()
	return base.String()
}
