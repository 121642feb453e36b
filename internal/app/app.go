// Package app wires the pipeline together from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"subtitle-generator/internal/config"
	"subtitle-generator/internal/convert"
	"subtitle-generator/internal/engine"
	"subtitle-generator/internal/engine/fake"
	"subtitle-generator/internal/engine/google"
	"subtitle-generator/internal/engine/openai"
	"subtitle-generator/internal/events"
	"subtitle-generator/internal/media"
	"subtitle-generator/internal/model"
	"subtitle-generator/internal/observability"
	"subtitle-generator/internal/observability/logging"
	"subtitle-generator/internal/session"
)

// Application holds process-wide state for the tool.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config

	Engine     engine.Engine
	Publisher  *events.Publisher
	Controller *session.Controller
	Resolver   *model.Resolver

	metricsServer *observability.Server
}

// New constructs the application from the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})

	a := &Application{
		Cfg:    cfg,
		Logger: logging.WithComponent("application"),
	}

	eng, err := buildEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Engine = eng

	a.Publisher = events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicState:   cfg.Kafka.TopicState,
		TopicSegment: cfg.Kafka.TopicSegment,
		Principal:    cfg.Kafka.Principal,
	})

	transcoder := &media.Transcoder{
		FFmpegPath: cfg.Transcode.FFmpegPath,
		TempDir:    cfg.Transcode.TempDir,
	}
	a.Controller = session.NewController(eng, transcoder, a.Publisher, cfg.Engine.Provider)

	a.Resolver = &model.Resolver{
		Dir:      cfg.Models.Dir,
		BaseURL:  cfg.Models.BaseURL,
		Progress: cfg.Models.Progress,
	}

	if cfg.Observability.MetricsAddr != "" {
		a.metricsServer = observability.NewServer(cfg.Observability.MetricsAddr)
	}

	a.Logger.Info().
		Str("engineProvider", cfg.Engine.Provider).
		Msg("Application created")
	return a, nil
}

func buildEngine(ctx context.Context, cfg *config.Config) (engine.Engine, error) {
	switch cfg.Engine.Provider {
	case "openai", "":
		return openai.New(openai.Config{
			BaseURL: cfg.Engine.BaseURL,
			APIKey:  cfg.Engine.APIKey,
			Model:   cfg.Engine.Model,
		}), nil
	case "google":
		return google.New(ctx)
	case "fake":
		return &fake.Engine{Language: "en"}, nil
	default:
		return nil, fmt.Errorf("unknown engine provider %q", cfg.Engine.Provider)
	}
}

// Strategy builds the configured decoding strategy.
func (a *Application) Strategy() engine.Strategy {
	switch a.Cfg.Engine.Strategy {
	case "greedy":
		return engine.GreedyStrategy{BestOf: a.Cfg.Engine.BestOf}
	case "beam_search":
		return engine.BeamSearchStrategy{BeamWidth: a.Cfg.Engine.BeamWidth}
	default:
		return engine.DefaultStrategy{}
	}
}

// SessionOptions builds session options for inputPath from configuration.
func (a *Application) SessionOptions(inputPath string) (session.Options, error) {
	output, err := session.ParseOutputFormat(a.Cfg.Output.Format)
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		InputPath:   inputPath,
		Language:    a.Cfg.Engine.Language,
		Translate:   a.Cfg.Engine.Translate,
		Strategy:    a.Strategy(),
		Model:       a.Cfg.Engine.Model,
		Output:      output,
		ConvertMode: convert.ParseMode(a.Cfg.Output.ConvertMode),
	}, nil
}

// Start performs startup work before a session runs.
func (a *Application) Start() error {
	a.StartupTime = time.Now().UTC()
	if a.metricsServer != nil {
		a.metricsServer.Start()
	}
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Application starting")
	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	a.Logger.Info().Msg("Application shutting down")

	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}
	if a.Engine != nil {
		if err := a.Engine.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Engine close failed")
		}
	}
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Publisher close failed")
		}
	}
}
