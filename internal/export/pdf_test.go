package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"voxbridge/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)
}

func TestRenderProducesPDF(t *testing.T) {
	t.Parallel()

	doc, err := NewRenderer(WithClock(fixedClock)).Render("Hello world, this is a test.", domain.LanguagePair{Source: "pt-PT", Target: "en"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(doc.Data, []byte("%PDF")) {
		t.Fatalf("expected pdf header, got %q", doc.Data[:8])
	}
	if doc.FileName != "translation_pt-PT_to_en.pdf" {
		t.Fatalf("unexpected file name: %q", doc.FileName)
	}
	if doc.Pages != 1 {
		t.Fatalf("expected single page, got %d", doc.Pages)
	}
}

func TestRenderPaginatesLongText(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog near the river bank.\n")
	}

	doc, err := NewRenderer(WithClock(fixedClock)).Render(b.String(), domain.LanguagePair{Source: "es", Target: "en"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if doc.Pages < 2 {
		t.Fatalf("expected multiple pages, got %d", doc.Pages)
	}
}

func TestRenderHandlesLatinAccents(t *testing.T) {
	t.Parallel()

	if _, err := NewRenderer().Render("Olá, coração. Ça va? Größe.", domain.LanguagePair{Source: "en", Target: "pt"}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
}

func TestRenderRejectsBlankText(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer().Render("  \n\t ", domain.LanguagePair{Source: "en", Target: "es"})
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestRenderReportsMissingFont(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer(WithUTF8Font("/nonexistent/font.ttf")).Render("text", domain.LanguagePair{Source: "en", Target: "es"})
	if err == nil {
		t.Fatalf("expected font error")
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	if got := FileName(domain.LanguagePair{Source: "en", Target: "zh-CN"}); got != "translation_en_to_zh-CN.pdf" {
		t.Fatalf("unexpected file name: %q", got)
	}
	if got := FileName(domain.LanguagePair{}); got != "translation_unknown_to_unknown.pdf" {
		t.Fatalf("unexpected file name: %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := DisplayName("en"); got != "English" {
		t.Fatalf("DisplayName(en) = %q", got)
	}
	if got := DisplayName("es"); got != "Spanish" {
		t.Fatalf("DisplayName(es) = %q", got)
	}
	if got := DisplayName("not a tag!"); got != "not a tag!" {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}
