// Package models defines the data structures shared across the pipeline.
package models

import (
	"fmt"
	"time"
)

// Channel classifies which speaker channel a segment was recognized on.
type Channel int

const (
	// ChannelUnknown - The engine could not attribute the segment to a channel.
	ChannelUnknown Channel = iota
	// ChannelLeft - Left stereo channel.
	ChannelLeft
	// ChannelRight - Right stereo channel.
	ChannelRight
	// ChannelMono - Source had no stereo data.
	ChannelMono
	// ChannelNotApplicable - Channel detection was not performed.
	ChannelNotApplicable
)

// String returns the string representation of the channel.
func (c Channel) String() string {
	switch c {
	case ChannelUnknown:
		return "UNKNOWN"
	case ChannelLeft:
		return "LEFT"
	case ChannelRight:
		return "RIGHT"
	case ChannelMono:
		return "MONO"
	case ChannelNotApplicable:
		return "N/A"
	default:
		return fmt.Sprintf("CHANNEL(%d)", c)
	}
}

// Segment is one recognized utterance span emitted by the engine.
// Segments are immutable once created: script conversion at serialization
// time produces a new text value, it never mutates the stored segment.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string

	// Language is the detected or declared language code, empty when the
	// engine does not report one.
	Language string

	// Probability is the engine's confidence in [0,1]. Probability is
	// meaningful only when HasProbability is true.
	Probability    float64
	HasProbability bool

	Channel Channel
}
