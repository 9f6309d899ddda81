package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"voxbridge/internal/bootstrap"
	"voxbridge/internal/domain"
	"voxbridge/internal/ports"
	"voxbridge/internal/usecase"
)

const (
	eventSession    = "voxbridge:session"
	eventSpeech     = "voxbridge:speech"
	eventTranscript = "voxbridge:transcript"
	eventTheme      = "voxbridge:theme"
	eventError      = "voxbridge:error"
)

const defaultHistoryLimit = 50

// App is the Wails application root.
type App struct {
	ctx context.Context

	services  bootstrap.Services
	clipboard ports.Clipboard
	log       zerolog.Logger
	bootErr   error
	ready     bool
}

func NewApp() *App {
	return &App{log: zerolog.Nop(), clipboard: &wailsClipboard{}}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(ctx, a)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		a.alert("Startup failed", err.Error())
		return
	}

	a.services = services
	a.log = services.Log
	a.ready = true
	a.services.Preferences.Restore()
	a.SessionStateChanged(domain.SessionStateIdle, domain.ReasonReady)
	a.SpeechStateChanged(domain.SpeechStateReady, domain.ReasonReady)
}

func (a *App) shutdown(_ context.Context) {
	if !a.ready {
		return
	}
	if err := a.services.Session.Abort(); err != nil && !errors.Is(err, usecase.ErrNoActiveSession) {
		a.log.Warn().Err(err).Msg("abort on shutdown failed")
	}
	_ = a.services.Speech.StopSpeaking()
	if err := a.services.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close on shutdown failed")
	}
}

// StartRecording opens the microphone and starts translating in the
// configured capture mode.
func (a *App) StartRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	languages := a.services.Preferences.Current().Languages
	if err := a.services.Session.Start(a.ctx, languages); err != nil {
		if !errors.Is(err, usecase.ErrAlreadyRecording) {
			a.alert("Could not start recording", err.Error())
		}
		return a.GetStatus(), err
	}
	return a.GetStatus(), nil
}

// StopRecording ends the active recording session.
func (a *App) StopRecording() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.services.Session.Stop(a.ctx); err != nil {
		if errors.Is(err, usecase.ErrNoActiveSession) {
			return a.GetStatus(), nil
		}
		a.SessionError(domain.ErrorCodeAudioStop, err.Error())
		return a.GetStatus(), err
	}
	return a.GetStatus(), nil
}

// Speak reads the accumulated translation aloud in the target language.
func (a *App) Speak() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	prefs := a.services.Preferences.Current()
	text := a.services.Session.Transcript().Translated()
	err := a.services.Speech.Speak(a.ctx, text, prefs.Languages.Target, prefs.Rate)
	switch {
	case errors.Is(err, usecase.ErrNothingToSpeak):
		a.alert("Nothing to speak", "There is no translated text to read aloud yet.")
		return err
	case err != nil:
		a.alert("Speech failed", err.Error())
		return err
	}
	return nil
}

// StopSpeaking interrupts the current utterance.
func (a *App) StopSpeaking() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.services.Speech.StopSpeaking()
}

// Clear empties both transcript panes.
func (a *App) Clear() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.services.Session.Clear()
	return nil
}

// ExportPDF renders the translation and writes it where the user chooses.
// It returns the saved path, or "" when the dialog was cancelled.
func (a *App) ExportPDF() (string, error) {
	if err := a.requireReady(); err != nil {
		return "", err
	}
	prefs := a.services.Preferences.Current()
	doc, err := a.services.Exporter.Export(a.services.Session.Transcript().Translated(), prefs.Languages)
	if err != nil {
		if errors.Is(err, usecase.ErrNothingToExport) {
			a.alert("Nothing to export", "There is no translated text to export yet.")
			return "", err
		}
		a.SessionError(domain.ErrorCodeExport, err.Error())
		a.alert("Export failed", err.Error())
		return "", err
	}

	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Save translation",
		DefaultFilename: doc.FileName,
		Filters:         []runtime.FileFilter{{DisplayName: "PDF documents (*.pdf)", Pattern: "*.pdf"}},
	})
	if err != nil {
		a.SessionError(domain.ErrorCodeExport, err.Error())
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		err = fmt.Errorf("write %s: %w", path, err)
		a.SessionError(domain.ErrorCodeExport, err.Error())
		a.alert("Export failed", err.Error())
		return "", err
	}
	a.log.Info().Str("path", path).Int("pages", doc.Pages).Msg("exported translation")
	return path, nil
}

// CopyTranslation places the translated text on the clipboard.
func (a *App) CopyTranslation() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	text := a.services.Session.Transcript().Translated()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := a.clipboard.SetText(a.ctx, text); err != nil {
		a.SessionError(domain.ErrorCodeClipboard, err.Error())
		return err
	}
	return nil
}

// ToggleDarkMode flips and persists the theme.
func (a *App) ToggleDarkMode() (bool, error) {
	if err := a.requireReady(); err != nil {
		return false, err
	}
	dark, err := a.services.Preferences.ToggleDarkMode()
	if err != nil {
		a.SessionError(domain.ErrorCodePreferences, err.Error())
	}
	return dark, err
}

// SetLanguages stores the language pair used by the next recording.
func (a *App) SetLanguages(source string, target string) (domain.Preferences, error) {
	if err := a.requireReady(); err != nil {
		return domain.Preferences{}, err
	}
	prefs, err := a.services.Preferences.SetLanguages(domain.LanguagePair{Source: source, Target: target})
	if err != nil && !errors.Is(err, usecase.ErrInvalidLanguage) {
		a.SessionError(domain.ErrorCodePreferences, err.Error())
	}
	return prefs, err
}

// SetRate stores the speech rate.
func (a *App) SetRate(rate float64) (domain.Preferences, error) {
	if err := a.requireReady(); err != nil {
		return domain.Preferences{}, err
	}
	prefs, err := a.services.Preferences.SetRate(rate)
	if err != nil {
		a.SessionError(domain.ErrorCodePreferences, err.Error())
	}
	return prefs, err
}

// SpeedLabel names a slider rate.
func (a *App) SpeedLabel(rate float64) string {
	return domain.SpeedLabel(rate)
}

// GetStatus returns recording and speech status together.
func (a *App) GetStatus() domain.Status {
	if !a.ready {
		if a.bootErr != nil {
			return domain.Status{State: domain.SessionStateError, Speech: domain.SpeechStateError, Message: a.bootErr.Error()}
		}
		return domain.Status{State: domain.SessionStateIdle, Speech: domain.SpeechStateReady}
	}
	status := a.services.Session.Status()
	status.Speech = a.services.Speech.State()
	status.Speaking = a.services.Speech.Speaking()
	return status
}

func (a *App) GetPreferences() (domain.Preferences, error) {
	if err := a.requireReady(); err != nil {
		return domain.Preferences{}, err
	}
	return a.services.Preferences.Current(), nil
}

func (a *App) GetTranscript() (domain.TranscriptView, error) {
	if err := a.requireReady(); err != nil {
		return domain.TranscriptView{}, err
	}
	return a.services.Session.Transcript().View(), nil
}

// RecentHistory lists stored segments, newest first.
func (a *App) RecentHistory(limit int) ([]domain.HistoryEntry, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	entries, err := a.services.History.Recent(a.ctx, limit)
	if err != nil {
		a.SessionError(domain.ErrorCodeHistory, err.Error())
		return nil, err
	}
	return entries, nil
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}
	if !a.ready {
		return map[string]string{}
	}

	cfg := a.services.Config
	info := map[string]string{
		"mode":             string(cfg.Mode),
		"audioInput":       cfg.Audio.InputDevice,
		"audioInputFormat": cfg.Audio.InputFormat,
		"speechCommand":    cfg.Speech.Command,
		"glossaryFile":     cfg.Glossary.Path,
		"historyFile":      cfg.History.Path,
	}
	if cfg.Mode == domain.CaptureModeUpload {
		info["provider"] = "Backend"
		info["backend"] = cfg.Backend.URL
		info["uploadInterval"] = cfg.Backend.UploadInterval.String()
	} else {
		info["provider"] = "Deepgram"
		info["model"] = cfg.Deepgram.Model
	}
	return info
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if !a.ready {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

func (a *App) alert(title string, message string) {
	if a.ctx == nil {
		return
	}
	_, _ = runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:    runtime.ErrorDialog,
		Title:   title,
		Message: message,
	})
}

// SessionStateChanged emits recording lifecycle updates to the frontend.
func (a *App) SessionStateChanged(state domain.SessionState, reason domain.StatusReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSession, sessionPayload(state, reason))
}

// SpeechStateChanged emits playback updates; the avatar animates while speaking.
func (a *App) SpeechStateChanged(state domain.SpeechState, reason domain.StatusReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSpeech, speechPayload(state, reason))
}

// TranscriptChanged emits the text both panes render.
func (a *App) TranscriptChanged(view domain.TranscriptView) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventTranscript, view)
}

// ThemeChanged applies the window theme and tells the frontend.
func (a *App) ThemeChanged(dark bool) {
	if a.ctx == nil {
		return
	}
	if dark {
		runtime.WindowSetDarkTheme(a.ctx)
	} else {
		runtime.WindowSetLightTheme(a.ctx)
	}
	runtime.EventsEmit(a.ctx, eventTheme, map[string]bool{"dark": dark})
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

// sessionPayload carries the state the frontend uses to enable and disable the
// recording buttons.
func sessionPayload(state domain.SessionState, reason domain.StatusReason) map[string]string {
	return map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": reasonMessage(reason),
	}
}

func speechPayload(state domain.SpeechState, reason domain.StatusReason) map[string]any {
	return map[string]any{
		"state":     string(state),
		"reason":    string(reason),
		"message":   reasonMessage(reason),
		"animating": state == domain.SpeechStateSpeaking,
	}
}

func reasonMessage(reason domain.StatusReason) string {
	switch reason {
	case domain.ReasonReady:
		return "Ready"
	case domain.ReasonRecordingStarted:
		return "Recording..."
	case domain.ReasonListening:
		return "Listening..."
	case domain.ReasonTranslated:
		return "Translated"
	case domain.ReasonStopping:
		return "Stopping..."
	case domain.ReasonRecordingStopped:
		return "Recording stopped"
	case domain.ReasonRecognitionEnded:
		return "Recognition ended"
	case domain.ReasonRecognitionFailed:
		return "Speech recognition failed"
	case domain.ReasonMicrophoneFailed:
		return "Microphone unavailable"
	case domain.ReasonSpeaking:
		return "Speaking..."
	case domain.ReasonSpeechFinished:
		return "Ready"
	case domain.ReasonSpeechInterrupted:
		return "Speech interrupted"
	case domain.ReasonSpeechFailed:
		return "Speech failed"
	case domain.ReasonCleared:
		return "Ready"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeMicrophone:
		return "Microphone error"
	case domain.ErrorCodeAudioStop:
		return "Audio stop issue"
	case domain.ErrorCodeAudioStream:
		return "Audio streaming issue"
	case domain.ErrorCodeRecognition:
		return "Speech recognition error"
	case domain.ErrorCodeUpload:
		return "Upload failed"
	case domain.ErrorCodeSpeech:
		return "Speech synthesis error"
	case domain.ErrorCodeExport:
		return "Export failed"
	case domain.ErrorCodePreferences:
		return "Could not save preferences"
	case domain.ErrorCodeClipboard:
		return "Clipboard write failed"
	case domain.ErrorCodeHistory:
		return "History write failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}

type wailsClipboard struct{}

func (c *wailsClipboard) SetText(ctx context.Context, text string) error {
	return runtime.ClipboardSetText(ctx, text)
}
