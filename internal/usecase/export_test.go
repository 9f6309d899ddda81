package usecase

import (
	"errors"
	"testing"

	"voxbridge/internal/domain"
)

func TestExporterRejectsEmptyTextBeforeLayout(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{}
	exporter := NewExporter(renderer)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := exporter.Export(text, testLanguages); !errors.Is(err, ErrNothingToExport) {
			t.Fatalf("expected ErrNothingToExport for %q, got %v", text, err)
		}
	}
	if renderer.calls != 0 {
		t.Fatalf("renderer must not be called, got %d calls", renderer.calls)
	}
}

func TestExporterRendersText(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{}
	doc, err := NewExporter(renderer).Export("hello world", testLanguages)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if renderer.calls != 1 || renderer.text != "hello world" || renderer.languages != testLanguages {
		t.Fatalf("unexpected render call: %+v", renderer)
	}
	if doc.FileName != "doc.pdf" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestExporterWrapsRendererError(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("font missing")
	_, err := NewExporter(&fakeRenderer{err: renderErr}).Export("text", testLanguages)
	if !errors.Is(err, renderErr) {
		t.Fatalf("expected wrapped renderer error, got %v", err)
	}
}

type fakeRenderer struct {
	calls     int
	text      string
	languages domain.LanguagePair
	err       error
}

func (f *fakeRenderer) Render(text string, languages domain.LanguagePair) (domain.Document, error) {
	f.calls++
	f.text = text
	f.languages = languages
	if f.err != nil {
		return domain.Document{}, f.err
	}
	return domain.Document{FileName: "doc.pdf", Data: []byte("%PDF"), Pages: 1}, nil
}
