package usecase

import (
	"strings"
	"sync"

	"voxbridge/internal/domain"
)

// pendingSegment is an accepted recognition event waiting for its translation.
type pendingSegment struct {
	kind       domain.TranscriptKind
	text       string
	index      int
	revision   uint64
	generation uint64
}

// Transcript reconciles interim and final recognition results into the
// accumulated original and translated text of one recording session. Finals
// are append-only and each utterance index is committed at most once; interim
// results only ever touch the preview.
type Transcript struct {
	mu sync.Mutex

	segments  []domain.Segment
	committed map[int]struct{}
	interim   string
	preview   string

	revision   uint64
	generation uint64
}

func NewTranscript() *Transcript {
	return &Transcript{committed: make(map[int]struct{})}
}

// Accept registers a recognition event. It reports false for blank text and
// for finals whose index was already committed.
func (t *Transcript) Accept(event domain.TranscriptEvent) (pendingSegment, bool) {
	text := strings.TrimSpace(event.Text)
	if text == "" {
		return pendingSegment{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if event.Kind == domain.TranscriptKindFinal {
		if _, seen := t.committed[event.Index]; seen {
			return pendingSegment{}, false
		}
	} else {
		t.interim = text
	}
	t.revision++
	return pendingSegment{
		kind:       event.Kind,
		text:       text,
		index:      event.Index,
		revision:   t.revision,
		generation: t.generation,
	}, true
}

// CommitFinal appends a final segment and its translation and clears the
// preview. It reports false when the segment is stale or already committed.
func (t *Transcript) CommitFinal(p pendingSegment, translated string) bool {
	if p.kind != domain.TranscriptKindFinal {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if p.generation != t.generation {
		return false
	}
	if _, seen := t.committed[p.index]; seen {
		return false
	}
	t.committed[p.index] = struct{}{}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		translated = p.text
	}
	t.segments = append(t.segments, domain.Segment{Original: p.text, Translated: translated})
	t.interim = ""
	t.preview = ""
	t.revision++
	return true
}

// ApplyPreview shows an interim translation if no newer event arrived since
// the interim was accepted.
func (t *Transcript) ApplyPreview(p pendingSegment, translated string) bool {
	if p.kind != domain.TranscriptKindPartial {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if p.generation != t.generation || p.revision != t.revision {
		return false
	}
	t.preview = strings.TrimSpace(translated)
	return true
}

func (t *Transcript) Original() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return joinSegments(t.segments, func(s domain.Segment) string { return s.Original })
}

func (t *Transcript) Translated() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return joinSegments(t.segments, func(s domain.Segment) string { return s.Translated })
}

// Segments returns a copy of the committed segments.
func (t *Transcript) Segments() []domain.Segment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

func (t *Transcript) View() domain.TranscriptView {
	t.mu.Lock()
	defer t.mu.Unlock()

	original := joinSegments(t.segments, func(s domain.Segment) string { return s.Original })
	translated := joinSegments(t.segments, func(s domain.Segment) string { return s.Translated })
	return domain.TranscriptView{
		Original:   joinNonEmpty(original, t.interim),
		Translated: translated,
		Preview:    t.preview,
		Display:    joinNonEmpty(translated, t.preview),
		Segments:   len(t.segments),
	}
}

// Reset discards all text and invalidates any result still in flight.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.segments = nil
	t.committed = make(map[int]struct{})
	t.interim = ""
	t.preview = ""
	t.generation++
	t.revision++
}

func joinSegments(segments []domain.Segment, pick func(domain.Segment) string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, pick(segment))
	}
	return strings.Join(parts, " ")
}

func joinNonEmpty(a string, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
