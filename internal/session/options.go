package session

import (
	"errors"
	"fmt"

	"subtitle-generator/internal/convert"
	"subtitle-generator/internal/engine"
	"subtitle-generator/internal/subtitle"
)

// OutputFormat selects which subtitle documents a session writes.
type OutputFormat int

const (
	// OutputSubRip writes a single .srt document.
	OutputSubRip OutputFormat = iota
	// OutputWebVTT writes a single .vtt document.
	OutputWebVTT
	// OutputBoth writes one document per format.
	OutputBoth
)

// Formats expands the selection into concrete serializer formats.
func (f OutputFormat) Formats() []subtitle.Format {
	switch f {
	case OutputWebVTT:
		return []subtitle.Format{subtitle.FormatWebVTT}
	case OutputBoth:
		return []subtitle.Format{subtitle.FormatSubRip, subtitle.FormatWebVTT}
	default:
		return []subtitle.Format{subtitle.FormatSubRip}
	}
}

// ParseOutputFormat maps a config string to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "srt":
		return OutputSubRip, nil
	case "vtt":
		return OutputWebVTT, nil
	case "both":
		return OutputBoth, nil
	default:
		return OutputSubRip, fmt.Errorf("unknown output format %q", s)
	}
}

// Options configures one transcription session.
type Options struct {
	// InputPath is the media file to transcribe. Required for file sessions,
	// ignored for capture sessions.
	InputPath string
	// SkipConversion treats the input as already-normalized mono 16 kHz WAV
	// and bypasses the transcoder. The input file is never deleted.
	SkipConversion bool

	// Language is the expected spoken language; empty lets the engine detect.
	Language string
	// Translate asks the engine for an English translation.
	Translate bool
	// Strategy is the decoding strategy; nil means the engine default.
	Strategy engine.Strategy
	// Model names the engine model.
	Model string

	// Output selects the serialized formats.
	Output OutputFormat
	// ConvertMode applies script conversion at serialization time.
	ConvertMode convert.Mode
}

// Validate checks the options for a file session.
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return errors.New("input path is required")
	}
	return nil
}
