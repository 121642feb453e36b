package capture

import (
	"context"
	"time"
)

// Tuning holds the capture parameters forwarded to the device.
type Tuning struct {
	// DropStartSilence is how much leading silence the device discards.
	DropStartSilence time.Duration
	// MinDuration and MaxDuration bound the device's internal segmenting.
	MinDuration time.Duration
	MaxDuration time.Duration
	// PauseDuration is the gap the device treats as a pause.
	PauseDuration time.Duration
	// Stereo requests two-channel capture when the device supports it.
	Stereo bool
}

// DefaultTuning returns the capture defaults.
func DefaultTuning() Tuning {
	return Tuning{
		DropStartSilence: 250 * time.Millisecond,
		MinDuration:      7 * time.Second,
		MaxDuration:      11 * time.Second,
		PauseDuration:    333 * time.Millisecond,
		Stereo:           true,
	}
}

// Device is the capture-hardware boundary. Implementations deliver
// fixed-duration chunks on their own thread until the context is cancelled
// or the stream ends, then close the channel.
type Device interface {
	// Start opens the device and begins delivering chunks.
	Start(ctx context.Context, tuning Tuning) (<-chan Chunk, error)

	// SampleRate reports the rate of the delivered chunks in Hz.
	SampleRate() int

	// Close releases the device.
	Close() error
}
