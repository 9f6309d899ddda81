package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"voxbridge/internal/domain"
)

// Config stores runtime configuration for the translator client.
type Config struct {
	Mode        domain.CaptureMode
	Deepgram    DeepgramConfig
	Audio       AudioConfig
	Backend     BackendConfig
	Translation TranslationConfig
	Speech      SpeechConfig
	Export      ExportConfig
	Preferences PreferencesConfig
	Glossary    GlossaryConfig
	History     HistoryConfig
	Session     SessionConfig
	Log         LogConfig
}

type DeepgramConfig struct {
	APIKey      string
	APIBaseURL  string
	Model       string
	SmartFormat bool
}

type AudioConfig struct {
	RecorderCommand  string
	InputFormat      string
	InputDevice      string
	SampleRate       int
	Channels         int
	EchoCancellation bool
	EchoCancelSource string
}

type BackendConfig struct {
	URL            string
	UploadInterval time.Duration
	Timeout        time.Duration
}

type TranslationConfig struct {
	PrimaryURL   string
	SecondaryURL string
	Email        string
	Timeout      time.Duration
}

type SpeechConfig struct {
	Command string
}

type ExportConfig struct {
	FontPath string
}

type PreferencesConfig struct {
	Path          string
	DefaultSource string
	DefaultTarget string
}

type GlossaryConfig struct {
	Path           string
	IterationLimit int
}

type HistoryConfig struct {
	Path string
}

type SessionConfig struct {
	ChunkSize      int
	StreamingGrace time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

const minUploadInterval = 200 * time.Millisecond

// Load resolves configuration from an optional .env file, environment variables
// and sensible defaults.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.New("could not determine home directory")
	}
	configDir := filepath.Join(home, ".config", "voxbridge")
	dataDir := filepath.Join(home, ".local", "share", "voxbridge")

	cfg := Config{
		Mode: parseMode(os.Getenv("VOXBRIDGE_MODE")),
		Deepgram: DeepgramConfig{
			APIKey:      strings.TrimSpace(os.Getenv("DEEPGRAM_API_KEY")),
			APIBaseURL:  envOrDefault("DEEPGRAM_API_BASE", "https://api.deepgram.com/v1"),
			Model:       envOrDefault("DEEPGRAM_MODEL", "nova-2"),
			SmartFormat: envOrDefaultBool("DEEPGRAM_SMART_FORMAT", true),
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("VOXBRIDGE_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("VOXBRIDGE_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice: firstNonEmpty(
				os.Getenv("VOXBRIDGE_AUDIO_INPUT_DEVICE"),
				os.Getenv("PULSE_SOURCE"),
				"default",
			),
			SampleRate:       envOrDefaultInt("VOXBRIDGE_SAMPLE_RATE", 16000),
			Channels:         envOrDefaultInt("VOXBRIDGE_CHANNELS", 1),
			EchoCancellation: envOrDefaultBool("VOXBRIDGE_ECHO_CANCELLATION", true),
			EchoCancelSource: strings.TrimSpace(os.Getenv("VOXBRIDGE_ECHO_CANCEL_SOURCE")),
		},
		Backend: BackendConfig{
			URL:            envOrDefault("VOXBRIDGE_BACKEND_URL", "http://127.0.0.1:5000/translate_audio"),
			UploadInterval: time.Duration(envOrDefaultInt("VOXBRIDGE_UPLOAD_INTERVAL_MS", 5000)) * time.Millisecond,
			Timeout:        time.Duration(envOrDefaultInt("VOXBRIDGE_BACKEND_TIMEOUT_MS", 30000)) * time.Millisecond,
		},
		Translation: TranslationConfig{
			PrimaryURL:   envOrDefault("VOXBRIDGE_MYMEMORY_URL", "https://api.mymemory.translated.net"),
			SecondaryURL: envOrDefault("VOXBRIDGE_GOOGLE_TRANSLATE_URL", "https://translate.googleapis.com"),
			Email:        strings.TrimSpace(os.Getenv("VOXBRIDGE_MYMEMORY_EMAIL")),
			Timeout:      time.Duration(envOrDefaultInt("VOXBRIDGE_TRANSLATE_TIMEOUT_MS", 8000)) * time.Millisecond,
		},
		Speech: SpeechConfig{
			Command: envOrDefault("VOXBRIDGE_TTS_COMMAND", "espeak-ng --stdin -v {voice} -s {wpm}"),
		},
		Export: ExportConfig{
			FontPath: strings.TrimSpace(os.Getenv("VOXBRIDGE_PDF_FONT")),
		},
		Preferences: PreferencesConfig{
			Path:          envOrDefault("VOXBRIDGE_PREFERENCES_FILE", filepath.Join(configDir, "preferences.yaml")),
			DefaultSource: envOrDefault("VOXBRIDGE_SOURCE_LANG", "pt-PT"),
			DefaultTarget: envOrDefault("VOXBRIDGE_TARGET_LANG", "en"),
		},
		Glossary: GlossaryConfig{
			Path:           envOrDefault("VOXBRIDGE_GLOSSARY_FILE", filepath.Join(configDir, "glossary.yaml")),
			IterationLimit: envOrDefaultInt("VOXBRIDGE_GLOSSARY_ITERATION_LIMIT", 30),
		},
		History: HistoryConfig{
			Path: historyPath(filepath.Join(dataDir, "history.db")),
		},
		Session: SessionConfig{
			ChunkSize:      envOrDefaultInt("VOXBRIDGE_AUDIO_CHUNK_SIZE", 4096),
			StreamingGrace: time.Duration(firstNonNegativeInt("VOXBRIDGE_STREAMING_GRACE_MS", "DEEPGRAM_STREAMING_GRACE_MS", 1000)) * time.Millisecond,
		},
		Log: LogConfig{
			Level:  envOrDefault("VOXBRIDGE_LOG_LEVEL", "info"),
			Format: envOrDefault("VOXBRIDGE_LOG_FORMAT", "console"),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Backend.UploadInterval < minUploadInterval {
		cfg.Backend.UploadInterval = 5 * time.Second
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 30 * time.Second
	}
	if cfg.Translation.Timeout <= 0 {
		cfg.Translation.Timeout = 8 * time.Second
	}
	if cfg.Glossary.IterationLimit <= 0 {
		cfg.Glossary.IterationLimit = 30
	}
	if cfg.Session.ChunkSize < 256 {
		cfg.Session.ChunkSize = 4096
	}

	return cfg, nil
}

// loadDotEnv reads VOXBRIDGE_ENV_FILE or ./.env when present. Variables that are
// already set win over file values.
func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("VOXBRIDGE_ENV_FILE"))
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

func parseMode(value string) domain.CaptureMode {
	switch domain.CaptureMode(strings.ToLower(strings.TrimSpace(value))) {
	case domain.CaptureModeUpload:
		return domain.CaptureModeUpload
	default:
		return domain.CaptureModeStream
	}
}

// historyPath returns "" when history is switched off with VOXBRIDGE_HISTORY_FILE=off.
func historyPath(fallback string) string {
	value := strings.TrimSpace(os.Getenv("VOXBRIDGE_HISTORY_FILE"))
	switch strings.ToLower(value) {
	case "":
		return fallback
	case "off", "none", "false":
		return ""
	default:
		return value
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func firstNonNegativeInt(primary string, secondary string, fallback int) int {
	for _, key := range []string{primary, secondary} {
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}
