package usecase

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"voxbridge/internal/domain"
	"voxbridge/internal/ports"
)

var ErrInvalidLanguage = errors.New("source and target languages are required")

// PreferencesController owns the in-memory preferences and writes every
// change through to the store.
type PreferencesController struct {
	store  ports.PreferencesStore
	events ports.EventSink
	log    zerolog.Logger

	mu    sync.Mutex
	prefs domain.Preferences
}

func NewPreferencesController(store ports.PreferencesStore, defaults domain.Preferences, events ports.EventSink, log zerolog.Logger) *PreferencesController {
	defaults.Rate = domain.ClampRate(defaults.Rate)
	return &PreferencesController{store: store, events: events, log: log, prefs: defaults}
}

// Restore loads stored preferences and re-applies the theme. Load failures
// keep the defaults and are reported as non-fatal errors.
func (c *PreferencesController) Restore() domain.Preferences {
	loaded, err := c.store.Load()
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to load preferences; using defaults")
		c.events.SessionError(domain.ErrorCodePreferences, err.Error())
	}

	c.mu.Lock()
	if err == nil {
		loaded.Rate = domain.ClampRate(loaded.Rate)
		c.prefs = loaded
	}
	prefs := c.prefs
	c.mu.Unlock()

	c.events.ThemeChanged(prefs.DarkMode)
	return prefs
}

func (c *PreferencesController) Current() domain.Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

// ToggleDarkMode flips the theme. The new theme applies even when saving fails.
func (c *PreferencesController) ToggleDarkMode() (bool, error) {
	prefs, err := c.update(func(p *domain.Preferences) {
		p.DarkMode = !p.DarkMode
	})
	c.events.ThemeChanged(prefs.DarkMode)
	return prefs.DarkMode, err
}

// SetLanguages changes the language pair used by the next recording session.
func (c *PreferencesController) SetLanguages(languages domain.LanguagePair) (domain.Preferences, error) {
	languages.Source = strings.TrimSpace(languages.Source)
	languages.Target = strings.TrimSpace(languages.Target)
	if languages.Source == "" || languages.Target == "" {
		return c.Current(), ErrInvalidLanguage
	}
	return c.update(func(p *domain.Preferences) {
		p.Languages = languages
	})
}

// SetRate stores a speech rate clamped to the supported range.
func (c *PreferencesController) SetRate(rate float64) (domain.Preferences, error) {
	return c.update(func(p *domain.Preferences) {
		p.Rate = domain.ClampRate(rate)
	})
}

func (c *PreferencesController) update(mutate func(*domain.Preferences)) (domain.Preferences, error) {
	c.mu.Lock()
	next := c.prefs
	mutate(&next)
	c.prefs = next
	c.mu.Unlock()

	if err := c.store.Save(next); err != nil {
		c.log.Warn().Err(err).Msg("failed to save preferences")
		return next, fmt.Errorf("failed to save preferences: %w", err)
	}
	return next, nil
}
