package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voxbridge/internal/domain"
	"voxbridge/internal/ports"
)

var (
	ErrNoActiveSession  = errors.New("no active recording session")
	ErrAlreadyRecording = errors.New("recording already in progress")
)

const (
	streamCloseTimeout = 4 * time.Second
	historyTimeout     = 2 * time.Second
)

// Config controls recording behavior.
type Config struct {
	Mode           domain.CaptureMode
	Audio          ports.AudioConfig
	Streaming      ports.StreamingConfig
	ChunkSize      int
	StreamingGrace time.Duration
	UploadInterval time.Duration
}

// SessionDeps are the adapters a SessionController drives. Provider is only
// needed in stream mode; Uploader and Encoder only in upload mode. Glossary
// and History are optional.
type SessionDeps struct {
	Audio      ports.AudioCapture
	Provider   ports.TranscriptionProvider
	Uploader   ports.AudioUploader
	Encoder    ports.ClipEncoder
	Translator ports.Translator
	Glossary   ports.GlossaryEngine
	History    ports.HistoryStore
	Events     ports.EventSink
	NewID      func() string
}

// SessionController orchestrates recording, recognition and translation.
type SessionController struct {
	deps       SessionDeps
	cfg        Config
	log        zerolog.Logger
	transcript *Transcript

	// lifecycle serializes Start, Stop and Abort.
	lifecycle sync.Mutex

	mu      sync.Mutex
	current *activeSession
}

func NewSessionController(deps SessionDeps, transcript *Transcript, cfg Config, log zerolog.Logger) *SessionController {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	if cfg.Mode == "" {
		cfg.Mode = domain.CaptureModeStream
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if transcript == nil {
		transcript = NewTranscript()
	}
	return &SessionController{
		deps:       deps,
		cfg:        cfg,
		log:        log,
		transcript: transcript,
	}
}

// Transcript exposes the accumulated text shared with export and speech.
func (c *SessionController) Transcript() *Transcript {
	return c.transcript
}

// Mode returns the configured capture mode.
func (c *SessionController) Mode() domain.CaptureMode {
	return c.cfg.Mode
}

// Start begins a new recording session with an empty transcript.
func (c *SessionController) Start(ctx context.Context, languages domain.LanguagePair) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	busy := c.current != nil
	c.mu.Unlock()
	if busy {
		return ErrAlreadyRecording
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	active := &activeSession{
		id:        c.deps.NewID(),
		mode:      c.cfg.Mode,
		languages: languages,
		cancel:    cancel,
		state:     domain.SessionStateRecording,
		audioDone: make(chan struct{}),
		finished:  make(chan struct{}),
	}
	c.transcript.Reset()
	c.deps.Events.TranscriptChanged(c.transcript.View())

	var err error
	switch active.mode {
	case domain.CaptureModeUpload:
		err = c.startUpload(sessionCtx, active)
	default:
		err = c.startStream(sessionCtx, active)
	}
	if err != nil {
		cancel()
		return err
	}
	return nil
}

// begin publishes the session before its goroutines can emit anything.
func (c *SessionController) begin(active *activeSession) {
	c.mu.Lock()
	c.current = active
	c.mu.Unlock()

	c.log.Info().
		Str("session", active.id).
		Str("mode", string(active.mode)).
		Str("source", active.languages.Source).
		Str("target", active.languages.Target).
		Msg("recording started")
	c.deps.Events.SessionStateChanged(domain.SessionStateRecording, domain.ReasonRecordingStarted)
}

func (c *SessionController) startStream(ctx context.Context, active *activeSession) error {
	if c.deps.Provider == nil {
		return errors.New("no recognition provider configured")
	}

	streamCfg := c.cfg.Streaming
	if source := strings.TrimSpace(active.languages.Source); source != "" {
		streamCfg.Language = source
	}
	stream, err := c.deps.Provider.StartStreaming(ctx, streamCfg)
	if err != nil {
		c.deps.Events.SessionStateChanged(domain.SessionStateError, domain.ReasonRecognitionFailed)
		return fmt.Errorf("failed to start recognition: %w", err)
	}

	audioSession, err := c.deps.Audio.Start(ctx, c.cfg.Audio)
	if err != nil {
		_ = stream.Close()
		c.deps.Events.SessionStateChanged(domain.SessionStateError, domain.ReasonMicrophoneFailed)
		return fmt.Errorf("failed to start microphone: %w", err)
	}

	active.audio = audioSession
	active.stream = stream
	active.eventsDone = make(chan struct{})
	c.begin(active)

	go c.consumeTranscriptionEvents(ctx, active)
	go c.pumpStream(active)
	return nil
}

func (c *SessionController) startUpload(ctx context.Context, active *activeSession) error {
	if c.deps.Uploader == nil || c.deps.Encoder == nil {
		return errors.New("no upload backend configured")
	}

	audioSession, err := c.deps.Audio.Start(ctx, c.cfg.Audio)
	if err != nil {
		c.deps.Events.SessionStateChanged(domain.SessionStateError, domain.ReasonMicrophoneFailed)
		return fmt.Errorf("failed to start microphone: %w", err)
	}

	buffer := &pcmBuffer{}
	active.audio = audioSession
	active.uploads = newUploadTicker(ctx, buffer, c.cfg.UploadInterval, func(ctx context.Context, pcm []byte) {
		c.uploadChunk(ctx, active, pcm)
	})
	c.begin(active)

	go active.uploads.Run()
	go c.pumpUpload(active, buffer)
	return nil
}

// Stop ends the active session and releases the microphone.
func (c *SessionController) Stop(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	active, err := c.getCurrent()
	if err != nil {
		return err
	}
	if !active.claimEnd() {
		<-active.finished
		return nil
	}

	active.setState(domain.SessionStateStopping)
	c.deps.Events.SessionStateChanged(domain.SessionStateStopping, domain.ReasonStopping)

	if active.mode == domain.CaptureModeUpload {
		c.stopUpload(active)
	} else {
		c.stopStream(ctx, active)
	}
	c.finishSession(active, domain.SessionStateIdle, domain.ReasonRecordingStopped)
	return nil
}

func (c *SessionController) stopStream(ctx context.Context, active *activeSession) {
	if err := active.audio.Stop(); err != nil {
		c.deps.Events.SessionError(domain.ErrorCodeAudioStop, "failed to stop audio capture cleanly")
	}

	if c.cfg.StreamingGrace > 0 {
		timer := time.NewTimer(c.cfg.StreamingGrace)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	_ = active.stream.CloseSend()
	streamErr := waitForStream(active.stream, streamCloseTimeout)
	<-active.eventsDone
	<-active.audioDone

	if streamErr != nil {
		c.log.Warn().Err(streamErr).Str("session", active.id).Msg("recognition ended with error")
		c.deps.Events.SessionError(domain.ErrorCodeRecognition, streamErr.Error())
	}
}

func (c *SessionController) stopUpload(active *activeSession) {
	active.uploads.Stop()
	if err := active.audio.Stop(); err != nil {
		c.deps.Events.SessionError(domain.ErrorCodeAudioStop, "failed to stop audio capture cleanly")
	}
	<-active.audioDone
	active.uploads.buffer.Drain()
}

// Abort discards the active session without waiting for pending results.
func (c *SessionController) Abort() error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	active, err := c.getCurrent()
	if err != nil {
		return err
	}
	if !active.claimEnd() {
		<-active.finished
		return nil
	}

	if active.uploads != nil {
		active.uploads.Stop()
	}
	active.cancel()
	_ = active.audio.Stop()
	if active.stream != nil {
		_ = active.stream.Close()
		<-active.eventsDone
	}
	<-active.audioDone
	c.finishSession(active, domain.SessionStateIdle, domain.ReasonRecordingStopped)
	return nil
}

// Clear resets the accumulated transcript.
func (c *SessionController) Clear() {
	c.transcript.Reset()
	c.deps.Events.TranscriptChanged(c.transcript.View())
	c.deps.Events.SessionStateChanged(c.Status().State, domain.ReasonCleared)
}

// Status returns the current recording status.
func (c *SessionController) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return domain.Status{State: domain.SessionStateIdle, Mode: c.cfg.Mode}
	}
	state := c.current.getState()
	return domain.Status{State: state, Active: state != domain.SessionStateIdle, Mode: c.cfg.Mode}
}

func (c *SessionController) consumeTranscriptionEvents(ctx context.Context, active *activeSession) {
	defer close(active.eventsDone)

	for event := range active.stream.Events() {
		p, ok := c.transcript.Accept(event)
		if !ok {
			continue
		}
		translated := c.translate(ctx, p.text, active.languages)
		c.apply(active, p, translated)
	}

	if active.claimEnd() {
		c.endStreamNaturally(active)
	}
}

// endStreamNaturally handles the recognizer closing the session on its own.
func (c *SessionController) endStreamNaturally(active *activeSession) {
	_ = active.audio.Stop()
	<-active.audioDone

	if err := waitForStream(active.stream, streamCloseTimeout); err != nil {
		c.log.Warn().Err(err).Str("session", active.id).Msg("recognition failed")
		c.deps.Events.SessionError(domain.ErrorCodeRecognition, err.Error())
		c.finishSession(active, domain.SessionStateIdle, domain.ReasonRecognitionFailed)
		return
	}
	c.finishSession(active, domain.SessionStateIdle, domain.ReasonRecognitionEnded)
}

func (c *SessionController) pumpStream(active *activeSession) {
	clean := pumpAudioChunks(active.audio, active.stream, c.cfg.ChunkSize, c.deps.Events, active.audioDone)
	if active.getState() != domain.SessionStateRecording {
		return
	}
	// Capture ended while recording; let the recognizer flush and close.
	if !clean {
		c.log.Warn().Str("session", active.id).Msg("audio capture ended unexpectedly")
	}
	_ = active.stream.CloseSend()
}

func (c *SessionController) pumpUpload(active *activeSession, buffer *pcmBuffer) {
	pumpAudioChunks(active.audio, buffer, c.cfg.ChunkSize, c.deps.Events, active.audioDone)
	if active.getState() != domain.SessionStateRecording || !active.claimEnd() {
		return
	}

	c.log.Warn().Str("session", active.id).Msg("audio capture ended unexpectedly")
	c.deps.Events.SessionError(domain.ErrorCodeMicrophone, "microphone capture ended unexpectedly")
	active.uploads.Stop()
	_ = active.audio.Stop()
	c.finishSession(active, domain.SessionStateIdle, domain.ReasonMicrophoneFailed)
}

// uploadChunk runs on the upload ticker goroutine, so results are applied in
// upload order.
func (c *SessionController) uploadChunk(ctx context.Context, active *activeSession, pcm []byte) {
	data, err := c.deps.Encoder.Encode(pcm)
	if err != nil {
		c.log.Warn().Err(err).Str("session", active.id).Msg("failed to encode audio chunk")
		c.deps.Events.SessionError(domain.ErrorCodeUpload, err.Error())
		return
	}

	seq := active.uploaded
	active.uploaded++
	clip := domain.AudioClip{
		Data:        data,
		FileName:    fmt.Sprintf("chunk_%03d%s", seq, c.deps.Encoder.Extension()),
		ContentType: c.deps.Encoder.ContentType(),
		Languages:   active.languages,
	}

	result, err := c.deps.Uploader.Upload(ctx, clip)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.log.Warn().Err(err).Str("session", active.id).Int("chunk", seq).Msg("audio upload failed")
		c.deps.Events.SessionError(domain.ErrorCodeUpload, err.Error())
		return
	}

	text := result.Original
	if text == "" {
		text = result.Translated
	}
	event := domain.TranscriptEvent{Kind: domain.TranscriptKindFinal, Text: text, Index: seq}
	if result.Partial {
		event.Kind = domain.TranscriptKindPartial
	}
	p, ok := c.transcript.Accept(event)
	if !ok {
		return
	}
	c.apply(active, p, c.applyGlossary(result.Translated))
}

func (c *SessionController) apply(active *activeSession, p pendingSegment, translated string) {
	if p.kind == domain.TranscriptKindFinal {
		if !c.transcript.CommitFinal(p, translated) {
			return
		}
		c.deps.Events.TranscriptChanged(c.transcript.View())
		c.deps.Events.SessionStateChanged(active.getState(), domain.ReasonTranslated)
		c.recordHistory(active, p, translated)
		return
	}

	if !c.transcript.ApplyPreview(p, translated) {
		return
	}
	c.deps.Events.TranscriptChanged(c.transcript.View())
	c.deps.Events.SessionStateChanged(active.getState(), domain.ReasonListening)
}

func (c *SessionController) translate(ctx context.Context, text string, languages domain.LanguagePair) string {
	translated := c.deps.Translator.Translate(ctx, text, languages.Source, languages.Target)
	return c.applyGlossary(translated)
}

func (c *SessionController) applyGlossary(text string) string {
	if c.deps.Glossary == nil || text == "" {
		return text
	}
	out, err := c.deps.Glossary.Apply(text)
	if err != nil {
		c.log.Warn().Err(err).Msg("glossary failed; keeping translation")
		return text
	}
	return out
}

func (c *SessionController) recordHistory(active *activeSession, p pendingSegment, translated string) {
	if c.deps.History == nil {
		return
	}
	translated = strings.TrimSpace(translated)
	if translated == "" {
		translated = p.text
	}

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	err := c.deps.History.Append(ctx, domain.HistoryEntry{
		SessionID:  active.id,
		Index:      p.index,
		Original:   p.text,
		Translated: translated,
		SourceLang: active.languages.Source,
		TargetLang: active.languages.Target,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("session", active.id).Msg("failed to record history")
		c.deps.Events.SessionError(domain.ErrorCodeHistory, err.Error())
	}
}

func (c *SessionController) getCurrent() (*activeSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, ErrNoActiveSession
	}
	return c.current, nil
}

func (c *SessionController) finishSession(active *activeSession, state domain.SessionState, reason domain.StatusReason) {
	active.cancel()
	active.setState(state)

	c.mu.Lock()
	if c.current == active {
		c.current = nil
	}
	c.mu.Unlock()
	close(active.finished)

	c.log.Info().Str("session", active.id).Str("reason", string(reason)).Msg("recording finished")
	c.deps.Events.SessionStateChanged(state, reason)
}
