package usecase

import (
	"errors"
	"fmt"
	"strings"

	"voxbridge/internal/domain"
	"voxbridge/internal/ports"
)

var ErrNothingToExport = errors.New("no translated text to export")

// Exporter guards document rendering against empty transcripts.
type Exporter struct {
	renderer ports.DocumentRenderer
}

func NewExporter(renderer ports.DocumentRenderer) *Exporter {
	return &Exporter{renderer: renderer}
}

// Export lays out text for the language pair. Blank text never reaches the
// renderer.
func (e *Exporter) Export(text string, languages domain.LanguagePair) (domain.Document, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, ErrNothingToExport
	}
	doc, err := e.renderer.Render(text, languages)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to export document: %w", err)
	}
	return doc, nil
}
