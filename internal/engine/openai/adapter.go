// Package openai provides a transcription engine adapter for
// OpenAI-compatible audio endpoints.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	goopenai "github.com/sashabaranov/go-openai"

	"subtitle-generator/internal/engine"
	"subtitle-generator/internal/media"
	"subtitle-generator/internal/models"
)

// Config holds the connection settings for an OpenAI-compatible endpoint.
type Config struct {
	// BaseURL points at the API root; empty uses the official endpoint.
	BaseURL string
	// APIKey authenticates requests; local servers often accept any value.
	APIKey string
	// Model is the default model when a request does not name one.
	Model string
}

// Adapter implements engine.Engine against an OpenAI-compatible API.
type Adapter struct {
	client *goopenai.Client
	model  string
}

// New creates an adapter for the configured endpoint.
func New(cfg Config) *Adapter {
	cc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &Adapter{
		client: goopenai.NewClientWithConfig(cc),
		model:  cfg.Model,
	}
}

// Transcribe submits the request's audio and forwards every recognized
// segment on out in engine order.
func (a *Adapter) Transcribe(ctx context.Context, req engine.Request, out chan<- models.Segment) error {
	audioReq, err := a.buildRequest(req)
	if err != nil {
		return err
	}

	log.Debug().
		Str("component", "engine-openai").
		Str("model", audioReq.Model).
		Str("strategy", strategyName(req.Strategy)).
		Bool("translate", req.Translate).
		Msg("Submitting audio")

	var resp goopenai.AudioResponse
	if req.Translate {
		resp, err = a.client.CreateTranslation(ctx, audioReq)
	} else {
		resp, err = a.client.CreateTranscription(ctx, audioReq)
	}
	if err != nil {
		return fmt.Errorf("openai engine: %w", err)
	}

	for _, s := range resp.Segments {
		seg := models.Segment{
			Start:          time.Duration(s.Start * float64(time.Second)),
			End:            time.Duration(s.End * float64(time.Second)),
			Text:           strings.TrimSpace(s.Text),
			Language:       resp.Language,
			Probability:    probability(s.AvgLogprob),
			HasProbability: true,
			Channel:        models.ChannelNotApplicable,
		}
		select {
		case out <- seg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// DetectLanguage transcribes the audio and reports the language the engine
// identified.
func (a *Adapter) DetectLanguage(ctx context.Context, req engine.Request) (string, error) {
	audioReq, err := a.buildRequest(req)
	if err != nil {
		return "", err
	}
	audioReq.Language = ""

	resp, err := a.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return "", fmt.Errorf("openai engine: detect language: %w", err)
	}
	if resp.Language == "" {
		return "", fmt.Errorf("openai engine: no language reported")
	}
	return resp.Language, nil
}

// Close releases adapter resources. The underlying HTTP client needs none.
func (a *Adapter) Close() error { return nil }

func (a *Adapter) buildRequest(req engine.Request) (goopenai.AudioRequest, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}

	audioReq := goopenai.AudioRequest{
		Model:    model,
		Language: req.Language,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
	}

	switch {
	case req.AudioPath != "":
		audioReq.FilePath = req.AudioPath
	case len(req.Samples) > 0:
		// Window submissions arrive as raw samples; the API wants a
		// containerized upload.
		doc, err := media.EncodeWAV(req.Samples, req.SampleRate)
		if err != nil {
			return goopenai.AudioRequest{}, fmt.Errorf("openai engine: %w", err)
		}
		audioReq.Reader = bytes.NewReader(doc)
		audioReq.FilePath = "window.wav"
	default:
		return goopenai.AudioRequest{}, fmt.Errorf("openai engine: request carries no audio")
	}

	return audioReq, nil
}

// probability converts the segment's average token log-probability to [0,1].
func probability(avgLogprob float64) float64 {
	p := math.Exp(avgLogprob)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

func strategyName(s engine.Strategy) string {
	if s == nil {
		return engine.DefaultStrategy{}.String()
	}
	return s.String()
}
