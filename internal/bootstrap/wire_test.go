package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"voxbridge/internal/domain"
)

func TestBuildSuccess(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DEEPGRAM_API_KEY", "test-key")

	services, err := Build(context.Background(), noopEventSink{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Close()

	if services.Session == nil || services.Speech == nil || services.Exporter == nil || services.Preferences == nil {
		t.Fatalf("expected all controllers wired: %+v", services)
	}
	if !services.History.Enabled() {
		t.Fatalf("expected history enabled by default")
	}
	if _, err := os.Stat(filepath.Join(home, ".local", "share", "voxbridge", "history.db")); err != nil {
		t.Fatalf("expected history database created: %v", err)
	}
	if services.Session.Mode() != domain.CaptureModeStream {
		t.Fatalf("expected stream mode by default, got %s", services.Session.Mode())
	}

	prefs := services.Preferences.Restore()
	if prefs.Languages.Source != "pt-PT" || prefs.Languages.Target != "en" || prefs.Rate != 1 {
		t.Fatalf("unexpected default preferences: %+v", prefs)
	}
}

func TestBuildWithHistoryDisabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VOXBRIDGE_HISTORY_FILE", "off")
	t.Setenv("VOXBRIDGE_MODE", "upload")

	services, err := Build(context.Background(), noopEventSink{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Close()

	if services.History.Enabled() {
		t.Fatalf("expected history disabled")
	}
	if services.Session.Mode() != domain.CaptureModeUpload {
		t.Fatalf("expected upload mode, got %s", services.Session.Mode())
	}
}

func TestBuildFailsOnInvalidGlossary(t *testing.T) {
	home := t.TempDir()
	glossary := filepath.Join(home, "glossary.yaml")
	if err := os.WriteFile(glossary, []byte("terms:\n  - from: a\n    pattern: b\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	t.Setenv("HOME", home)
	t.Setenv("VOXBRIDGE_GLOSSARY_FILE", glossary)
	t.Setenv("VOXBRIDGE_HISTORY_FILE", "off")

	if _, err := Build(context.Background(), noopEventSink{}); err == nil {
		t.Fatalf("expected build error due to invalid glossary")
	}
}

func TestBuildFailsOnInvalidSpeechCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VOXBRIDGE_HISTORY_FILE", "off")
	t.Setenv("VOXBRIDGE_TTS_COMMAND", `espeak-ng "unterminated`)

	if _, err := Build(context.Background(), noopEventSink{}); err == nil {
		t.Fatalf("expected build error due to invalid speech command")
	}
}

type noopEventSink struct{}

func (noopEventSink) SessionStateChanged(domain.SessionState, domain.StatusReason) {}
func (noopEventSink) SpeechStateChanged(domain.SpeechState, domain.StatusReason)   {}
func (noopEventSink) TranscriptChanged(domain.TranscriptView)                      {}
func (noopEventSink) ThemeChanged(bool)                                            {}
func (noopEventSink) SessionError(domain.ErrorCode, string)                        {}
