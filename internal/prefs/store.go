// Package prefs persists user preferences as a YAML file.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"voxbridge/internal/domain"
)

// FileStore implements ports.PreferencesStore.
type FileStore struct {
	path     string
	defaults domain.Preferences
	validate *validator.Validate

	mu sync.Mutex
}

func NewFileStore(path string, defaults domain.Preferences) *FileStore {
	if defaults.Rate == 0 {
		defaults.Rate = domain.DefaultSpeechRate
	}
	return &FileStore{
		path:     strings.TrimSpace(path),
		defaults: defaults,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Defaults returns the preferences used when nothing is stored.
func (s *FileStore) Defaults() domain.Preferences {
	return s.defaults
}

// Load returns stored preferences, or defaults when the file does not exist.
// Missing fields in the file keep their default values.
func (s *FileStore) Load() (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return s.defaults, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.defaults, nil
	}
	if err != nil {
		return s.defaults, fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := s.defaults
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return s.defaults, fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	if err := s.validate.Struct(prefs); err != nil {
		return s.defaults, fmt.Errorf("invalid preferences %s: %w", s.path, err)
	}
	return prefs, nil
}

// Save validates and writes preferences atomically.
func (s *FileStore) Save(prefs domain.Preferences) error {
	if err := s.validate.Struct(prefs); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace preferences: %w", err)
	}
	return nil
}
