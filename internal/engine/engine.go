// Package engine defines the interface for transcription engine adapters.
package engine

import (
	"context"
	"fmt"

	"subtitle-generator/internal/models"
)

// Strategy selects the engine's decoding behavior. Exactly one concrete
// strategy is carried per request.
type Strategy interface {
	fmt.Stringer
	isStrategy()
}

// DefaultStrategy leaves decoding to the engine's defaults.
type DefaultStrategy struct{}

func (DefaultStrategy) isStrategy()    {}
func (DefaultStrategy) String() string { return "default" }

// GreedyStrategy requests greedy decoding.
type GreedyStrategy struct {
	// BestOf is the number of candidates sampled; zero means engine default.
	BestOf int
}

func (GreedyStrategy) isStrategy() {}
func (s GreedyStrategy) String() string {
	return fmt.Sprintf("greedy(best_of=%d)", s.BestOf)
}

// BeamSearchStrategy requests beam-search decoding.
type BeamSearchStrategy struct {
	// BeamWidth is the beam size; zero means 5.
	BeamWidth int
	// Patience adjusts beam pruning; zero means engine default.
	Patience float64
}

func (BeamSearchStrategy) isStrategy() {}
func (s BeamSearchStrategy) String() string {
	return fmt.Sprintf("beam_search(width=%d)", s.BeamWidth)
}

// Request describes one transcription submission. Exactly one of AudioPath
// or Samples is set: a file-backed submission carries the path of a
// normalized WAV artifact, a window submission carries raw samples.
type Request struct {
	AudioPath  string
	Samples    []float32
	SampleRate int

	// Language is the expected spoken language code; empty requests
	// detection by the engine.
	Language string
	// Translate asks the engine to translate the transcript to English.
	Translate bool
	// Strategy is the decoding strategy; nil means DefaultStrategy.
	Strategy Strategy
	// Model names the engine model to run.
	Model string
}

// Engine is the transcription provider boundary. Transcribe sends recognized
// segments on out in the order the engine produced them and returns when the
// submission is fully processed or fails. The caller owns out and must keep
// draining it until Transcribe returns; Transcribe never closes it.
type Engine interface {
	Transcribe(ctx context.Context, req Request, out chan<- models.Segment) error

	// DetectLanguage identifies the spoken language of the request's audio
	// without producing segments.
	DetectLanguage(ctx context.Context, req Request) (string, error)

	// Close releases the adapter's resources.
	Close() error
}
