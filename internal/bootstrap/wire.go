package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"voxbridge/internal/audio"
	"voxbridge/internal/config"
	"voxbridge/internal/domain"
	"voxbridge/internal/export"
	"voxbridge/internal/glossary"
	"voxbridge/internal/history"
	"voxbridge/internal/logging"
	"voxbridge/internal/ports"
	"voxbridge/internal/prefs"
	"voxbridge/internal/providers/backend"
	"voxbridge/internal/providers/deepgram"
	"voxbridge/internal/providers/translate"
	"voxbridge/internal/speech"
	"voxbridge/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Session     *usecase.SessionController
	Speech      *usecase.SpeechController
	Exporter    *usecase.Exporter
	Preferences *usecase.PreferencesController
	History     *history.Store
	Config      config.Config
	Log         zerolog.Logger
}

// Close releases resources owned by the graph.
func (s Services) Close() error {
	if s.History == nil {
		return nil
	}
	return s.History.Close()
}

// Build wires all backend dependencies for the current runtime.
func Build(ctx context.Context, eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	log := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	glossaryEngine, err := glossary.Load(cfg.Glossary.Path, cfg.Glossary.IterationLimit)
	if err != nil {
		return Services{}, err
	}

	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		return Services{}, err
	}

	synth, err := speech.NewExecSynthesizer(cfg.Speech.Command)
	if err != nil {
		_ = store.Close()
		return Services{}, fmt.Errorf("invalid speech command: %w", err)
	}

	translateHTTP := &http.Client{Timeout: cfg.Translation.Timeout}
	translator := translate.NewClient(
		translate.NewMyMemory(cfg.Translation.PrimaryURL, cfg.Translation.Email, translateHTTP),
		translate.NewGoogleFree(cfg.Translation.SecondaryURL, translateHTTP),
		logging.Component(log, "translate"),
	)

	session := usecase.NewSessionController(
		usecase.SessionDeps{
			Audio: audio.NewFFMPEGCapture(cfg.Audio.RecorderCommand),
			Provider: deepgram.NewProvider(deepgram.Config{
				APIKey:      cfg.Deepgram.APIKey,
				APIBaseURL:  cfg.Deepgram.APIBaseURL,
				Model:       cfg.Deepgram.Model,
				SmartFormat: cfg.Deepgram.SmartFormat,
			}),
			Uploader:   backend.NewUploader(cfg.Backend.URL, &http.Client{Timeout: cfg.Backend.Timeout}),
			Encoder:    audio.NewWAVEncoder(cfg.Audio.SampleRate, cfg.Audio.Channels),
			Translator: translator,
			Glossary:   glossaryEngine,
			History:    historyPort(store),
			Events:     eventSink,
			NewID:      history.NewSessionID,
		},
		nil,
		usecase.Config{
			Mode: cfg.Mode,
			Audio: ports.AudioConfig{
				SampleRate:       cfg.Audio.SampleRate,
				Channels:         cfg.Audio.Channels,
				InputFormat:      cfg.Audio.InputFormat,
				InputDevice:      cfg.Audio.InputDevice,
				EchoCancellation: cfg.Audio.EchoCancellation,
				EchoCancelSource: cfg.Audio.EchoCancelSource,
			},
			Streaming: ports.StreamingConfig{
				SampleRate:     cfg.Audio.SampleRate,
				Channels:       cfg.Audio.Channels,
				Encoding:       "linear16",
				InterimResults: true,
			},
			ChunkSize:      cfg.Session.ChunkSize,
			StreamingGrace: cfg.Session.StreamingGrace,
			UploadInterval: cfg.Backend.UploadInterval,
		},
		logging.Component(log, "session"),
	)

	defaults := domain.Preferences{
		Languages: domain.LanguagePair{Source: cfg.Preferences.DefaultSource, Target: cfg.Preferences.DefaultTarget},
		Rate:      domain.DefaultSpeechRate,
	}

	log.Info().
		Str("mode", string(cfg.Mode)).
		Int("glossary_terms", glossaryEngine.Len()).
		Bool("history", store.Enabled()).
		Msg("services ready")

	return Services{
		Session:     session,
		Speech:      usecase.NewSpeechController(synth, speech.LocaleFor, eventSink, logging.Component(log, "speech")),
		Exporter:    usecase.NewExporter(export.NewRenderer(export.WithUTF8Font(cfg.Export.FontPath))),
		Preferences: usecase.NewPreferencesController(prefs.NewFileStore(cfg.Preferences.Path, defaults), defaults, eventSink, logging.Component(log, "preferences")),
		History:     store,
		Config:      cfg,
		Log:         log,
	}, nil
}

// historyPort keeps a disabled store out of the controller so segments are not
// written anywhere.
func historyPort(store *history.Store) ports.HistoryStore {
	if !store.Enabled() {
		return nil
	}
	return store
}
