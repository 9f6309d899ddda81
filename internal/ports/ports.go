package ports

import (
	"context"
	"io"

	"voxbridge/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate       int
	Channels         int
	InputFormat      string
	InputDevice      string
	EchoCancellation bool
	EchoCancelSource string
}

// AudioSession is a live capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// StreamingConfig describes provider-agnostic streaming settings.
type StreamingConfig struct {
	SampleRate     int
	Channels       int
	Encoding       string
	Language       string
	InterimResults bool
}

// StreamingSession is an active provider websocket session.
type StreamingSession interface {
	SendAudio(chunk []byte) error
	CloseSend() error
	Events() <-chan domain.TranscriptEvent
	Wait() error
	Close() error
}

// TranscriptionProvider starts streaming recognition sessions.
type TranscriptionProvider interface {
	StartStreaming(ctx context.Context, cfg StreamingConfig) (StreamingSession, error)
}

// Translator turns text into the target language. Implementations degrade to
// returning the input rather than failing.
type Translator interface {
	Translate(ctx context.Context, text string, source string, target string) string
}

// AudioUploader posts a recorded clip to the translation backend.
type AudioUploader interface {
	Upload(ctx context.Context, clip domain.AudioClip) (domain.UploadResult, error)
}

// ClipEncoder packages raw PCM into an uploadable container.
type ClipEncoder interface {
	Encode(pcm []byte) ([]byte, error)
	ContentType() string
	Extension() string
}

// Playback is one utterance being spoken.
type Playback interface {
	Wait() error
	Cancel() error
}

// Synthesizer speaks text aloud.
type Synthesizer interface {
	Speak(ctx context.Context, utterance domain.Utterance) (Playback, error)
}

// DocumentRenderer lays out translated text into a document.
type DocumentRenderer interface {
	Render(text string, languages domain.LanguagePair) (domain.Document, error)
}

// GlossaryEngine rewrites translated text using fixed terminology rules.
type GlossaryEngine interface {
	Apply(text string) (string, error)
}

// PreferencesStore persists user preferences.
type PreferencesStore interface {
	Load() (domain.Preferences, error)
	Save(prefs domain.Preferences) error
}

// HistoryStore records finalized segments.
type HistoryStore interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

// Clipboard writes text into the system clipboard.
type Clipboard interface {
	SetText(ctx context.Context, text string) error
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	SessionStateChanged(state domain.SessionState, reason domain.StatusReason)
	SpeechStateChanged(state domain.SpeechState, reason domain.StatusReason)
	TranscriptChanged(view domain.TranscriptView)
	ThemeChanged(dark bool)
	SessionError(code domain.ErrorCode, detail string)
}
