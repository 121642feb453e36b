// Command subgen turns media files and capture replays into subtitles.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"subtitle-generator/internal/app"
	"subtitle-generator/internal/capture"
	"subtitle-generator/internal/config"
	"subtitle-generator/internal/model"
	"subtitle-generator/internal/observability/metrics"
	"subtitle-generator/internal/session"
)

func main() {
	// A missing .env is fine; the environment wins anyway.
	_ = godotenv.Load()
	cfg := config.Load()

	captureMode := flag.Bool("capture", false, "feed the input through the live capture window instead of transcribing it whole")
	detect := flag.Bool("detect-language", false, "report the spoken language and exit")
	skipConversion := flag.Bool("skip-conversion", false, "treat the input as mono 16 kHz WAV and bypass ffmpeg")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	input := flag.Arg(0)
	if input == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := application.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer application.Shutdown()

	// First signal cancels the session so partial output survives; a second
	// one aborts the process.
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Warn().Msg("Cancelling session, press again to abort")
		application.Controller.Cancel()
		<-sig
		os.Exit(1)
	}()

	if model.Known(cfg.Engine.Model) {
		start := time.Now()
		if _, err := application.Resolver.Resolve(ctx, cfg.Engine.Model); err != nil {
			log.Error().Err(err).Str("model", cfg.Engine.Model).Msg("Model resolution failed")
			os.Exit(1)
		}
		metrics.DefaultMetrics.RecordModelDownload(time.Since(start).Seconds())
	}

	opts, err := application.SessionOptions(input)
	if err != nil {
		log.Error().Err(err).Msg("Invalid options")
		os.Exit(1)
	}
	opts.SkipConversion = *skipConversion

	if err := run(ctx, application, opts, *captureMode, *detect); err != nil {
		log.Error().Err(err).Msg("Session failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, application *app.Application, opts session.Options, captureMode, detect bool) error {
	switch {
	case detect:
		lang, err := application.Controller.DetectLanguage(ctx, opts.InputPath, opts)
		if err != nil {
			return err
		}
		fmt.Println(lang)
		return nil

	case captureMode:
		cc := application.Cfg.Capture
		dev := &capture.FileDevice{
			Path:          opts.InputPath,
			ChunkDuration: cc.ChunkDuration,
		}
		res, err := application.Controller.TranscribeCapture(ctx, dev,
			capture.WindowConfig{
				Capacity:           cc.WindowCapacity,
				SilenceThresholdDB: cc.SilenceThresholdDB,
			},
			capture.Tuning{
				DropStartSilence: cc.DropStartSilence,
				MinDuration:      cc.MinDuration,
				MaxDuration:      cc.MaxDuration,
				PauseDuration:    cc.PauseDuration,
				Stereo:           cc.Stereo,
			}, opts)
		if err != nil {
			return err
		}
		report(res)
		return nil

	default:
		res, err := application.Controller.TranscribeFile(ctx, opts)
		if err != nil {
			return err
		}
		report(res)
		return nil
	}
}

func report(res *session.Result) {
	for _, p := range res.OutputPaths {
		fmt.Println(p)
	}
	log.Info().
		Str("sessionId", res.SessionID).
		Str("state", res.State.String()).
		Int("segments", res.Segments).
		Msg("Session finished")
}
