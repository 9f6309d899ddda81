package domain

// SessionState models the recording lifecycle.
type SessionState string

const (
	SessionStateIdle      SessionState = "idle"
	SessionStateRecording SessionState = "recording"
	SessionStateStopping  SessionState = "stopping"
	SessionStateError     SessionState = "error"
)

// SpeechState models the playback lifecycle of translated text.
type SpeechState string

const (
	SpeechStateReady    SpeechState = "ready"
	SpeechStateSpeaking SpeechState = "speaking"
	SpeechStateError    SpeechState = "error"
)

// StatusReason provides a structured reason for state transitions.
type StatusReason string

const (
	ReasonReady             StatusReason = "ready"
	ReasonRecordingStarted  StatusReason = "recording_started"
	ReasonListening         StatusReason = "listening"
	ReasonTranslated        StatusReason = "translated"
	ReasonStopping          StatusReason = "stopping"
	ReasonRecordingStopped  StatusReason = "recording_stopped"
	ReasonRecognitionEnded  StatusReason = "recognition_ended"
	ReasonRecognitionFailed StatusReason = "recognition_failed"
	ReasonMicrophoneFailed  StatusReason = "microphone_failed"
	ReasonSpeaking          StatusReason = "speaking"
	ReasonSpeechFinished    StatusReason = "speech_finished"
	ReasonSpeechInterrupted StatusReason = "speech_interrupted"
	ReasonSpeechFailed      StatusReason = "speech_failed"
	ReasonCleared           StatusReason = "cleared"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup     ErrorCode = "startup"
	ErrorCodeMicrophone  ErrorCode = "microphone"
	ErrorCodeAudioStop   ErrorCode = "audio_stop"
	ErrorCodeAudioStream ErrorCode = "audio_stream"
	ErrorCodeRecognition ErrorCode = "recognition"
	ErrorCodeUpload      ErrorCode = "upload"
	ErrorCodeSpeech      ErrorCode = "speech"
	ErrorCodeExport      ErrorCode = "export"
	ErrorCodePreferences ErrorCode = "preferences"
	ErrorCodeClipboard   ErrorCode = "clipboard"
	ErrorCodeHistory     ErrorCode = "history"
)

// CaptureMode selects how recorded audio reaches a translator.
type CaptureMode string

const (
	// CaptureModeStream sends audio to a streaming recognizer and translates each utterance.
	CaptureModeStream CaptureMode = "stream"
	// CaptureModeUpload posts buffered audio to the translation backend on an interval.
	CaptureModeUpload CaptureMode = "upload"
)

// TranscriptKind identifies whether a stream event is partial or final text.
type TranscriptKind string

const (
	TranscriptKindPartial TranscriptKind = "partial"
	TranscriptKindFinal   TranscriptKind = "final"
)

// TranscriptEvent represents incremental recognition output from a provider.
// Index is the utterance ordinal; it advances after every final result.
type TranscriptEvent struct {
	Kind          TranscriptKind `json:"kind"`
	Text          string         `json:"text"`
	Index         int            `json:"index"`
	IsSpeechFinal bool           `json:"isSpeechFinal"`
}

// Segment is one finalized utterance and its translation.
type Segment struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// TranscriptView is what the UI renders.
type TranscriptView struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Preview    string `json:"preview"`
	Display    string `json:"display"`
	Segments   int    `json:"segments"`
}

// LanguagePair is a source/target language selection.
type LanguagePair struct {
	Source string `json:"source" yaml:"source_lang" validate:"required"`
	Target string `json:"target" yaml:"target_lang" validate:"required"`
}

// Preferences are user settings that survive restarts.
type Preferences struct {
	Languages LanguagePair `json:"languages" yaml:",inline"`
	Rate      float64      `json:"rate" yaml:"rate" validate:"gte=0.5,lte=2"`
	DarkMode  bool         `json:"darkMode" yaml:"dark_mode"`
}

// AudioClip is one packaged slice of recorded audio ready for upload.
type AudioClip struct {
	Data        []byte
	FileName    string
	ContentType string
	Languages   LanguagePair
}

// UploadResult is the backend's answer for one uploaded clip.
type UploadResult struct {
	Original   string
	Translated string
	Partial    bool
}

// Utterance is text to be spoken by a synthesizer.
type Utterance struct {
	Text   string
	Locale string
	Rate   float64
}

// Document is a rendered export ready to be saved.
type Document struct {
	FileName string
	Data     []byte
	Pages    int
}

// HistoryEntry is a persisted final segment.
type HistoryEntry struct {
	SessionID  string `json:"sessionId"`
	Index      int    `json:"index"`
	Original   string `json:"original"`
	Translated string `json:"translated"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
	CreatedAt  int64  `json:"createdAt"`
}

// Status summarizes the current runtime status.
type Status struct {
	State    SessionState `json:"state"`
	Speech   SpeechState  `json:"speech"`
	Active   bool         `json:"active"`
	Speaking bool         `json:"speaking"`
	Mode     CaptureMode  `json:"mode,omitempty"`
	Message  string       `json:"message,omitempty"`
}
