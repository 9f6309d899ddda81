package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"voxbridge/internal/domain"
	"voxbridge/internal/ports"
)

var ErrNothingToSpeak = errors.New("no translated text to speak")

// SpeechController plays translated text through a synthesizer. Only one
// utterance plays at a time; a new Speak cancels the previous one.
type SpeechController struct {
	synth    ports.Synthesizer
	localeOf func(target string) string
	events   ports.EventSink
	log      zerolog.Logger

	mu      sync.Mutex
	current *utterance
	state   domain.SpeechState
}

type utterance struct {
	playback ports.Playback
}

func NewSpeechController(synth ports.Synthesizer, localeOf func(string) string, events ports.EventSink, log zerolog.Logger) *SpeechController {
	if localeOf == nil {
		localeOf = func(string) string { return "" }
	}
	return &SpeechController{
		synth:    synth,
		localeOf: localeOf,
		events:   events,
		log:      log,
		state:    domain.SpeechStateReady,
	}
}

// Speak starts speaking text in the locale mapped from the target language.
func (c *SpeechController) Speak(ctx context.Context, text string, target string, rate float64) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrNothingToSpeak
	}

	c.mu.Lock()
	previous := c.current
	c.current = nil
	c.mu.Unlock()
	if previous != nil {
		_ = previous.playback.Cancel()
	}

	playback, err := c.synth.Speak(ctx, domain.Utterance{
		Text:   text,
		Locale: c.localeOf(target),
		Rate:   domain.ClampRate(rate),
	})
	if err != nil {
		c.setState(domain.SpeechStateError)
		c.events.SpeechStateChanged(domain.SpeechStateError, domain.ReasonSpeechFailed)
		return fmt.Errorf("failed to start speech: %w", err)
	}

	u := &utterance{playback: playback}
	c.mu.Lock()
	c.current = u
	c.state = domain.SpeechStateSpeaking
	c.mu.Unlock()
	c.events.SpeechStateChanged(domain.SpeechStateSpeaking, domain.ReasonSpeaking)

	go c.watch(u)
	return nil
}

// StopSpeaking interrupts the current utterance. It is a no-op when idle.
func (c *SpeechController) StopSpeaking() error {
	c.mu.Lock()
	u := c.current
	c.current = nil
	if u != nil {
		c.state = domain.SpeechStateReady
	}
	c.mu.Unlock()

	if u == nil {
		return nil
	}
	if err := u.playback.Cancel(); err != nil {
		return fmt.Errorf("failed to stop speech: %w", err)
	}
	c.events.SpeechStateChanged(domain.SpeechStateReady, domain.ReasonSpeechInterrupted)
	return nil
}

func (c *SpeechController) State() domain.SpeechState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *SpeechController) Speaking() bool {
	return c.State() == domain.SpeechStateSpeaking
}

// watch reports the end of an utterance unless it was superseded or stopped.
func (c *SpeechController) watch(u *utterance) {
	err := u.playback.Wait()

	c.mu.Lock()
	if c.current != u {
		c.mu.Unlock()
		return
	}
	c.current = nil
	if err != nil {
		c.state = domain.SpeechStateError
	} else {
		c.state = domain.SpeechStateReady
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn().Err(err).Msg("speech playback failed")
		c.events.SpeechStateChanged(domain.SpeechStateError, domain.ReasonSpeechFailed)
		c.events.SessionError(domain.ErrorCodeSpeech, err.Error())
		return
	}
	c.events.SpeechStateChanged(domain.SpeechStateReady, domain.ReasonSpeechFinished)
}

func (c *SpeechController) setState(state domain.SpeechState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}
