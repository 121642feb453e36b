// Package capture provides the live-capture chunk source boundary and the
// bounded sliding-window buffer that feeds a non-streaming engine growing
// context.
package capture

import (
	"math"
)

// Chunk is one fixed-duration run of normalized mono PCM samples in [-1, 1].
type Chunk []float32

// admissionLimit is the fraction of a chunk that may be silent before the
// chunk is dropped (1 - 1/12): a chunk is admitted only while its silent
// fraction stays below the limit.
const admissionLimit = 11.0 / 12.0

// DefaultSilenceThresholdDB is the instantaneous level below which a sample
// counts as silent.
const DefaultSilenceThresholdDB = -40.0

// WindowConfig configures a sliding window buffer.
type WindowConfig struct {
	// Capacity is the maximum number of chunks held; inserting beyond it
	// evicts the oldest chunk first.
	Capacity int
	// SilenceThresholdDB is the per-sample silence level in dBFS.
	// Zero means DefaultSilenceThresholdDB.
	SilenceThresholdDB float64
}

// Window is a fixed-capacity FIFO of audio chunks with silence-gated
// admission. It is owned by a single capture loop and is not safe for
// concurrent use.
type Window struct {
	capacity    int
	thresholdDB float64
	chunks      []Chunk
}

// NewWindow creates an empty sliding window.
func NewWindow(cfg WindowConfig) *Window {
	threshold := cfg.SilenceThresholdDB
	if threshold == 0 {
		threshold = DefaultSilenceThresholdDB
	}
	capacity := cfg.Capacity
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		capacity:    capacity,
		thresholdDB: threshold,
		chunks:      make([]Chunk, 0, capacity),
	}
}

// Admit applies the silence gate to chunk and, if it passes, appends it,
// evicting the oldest chunk when the window is at capacity. It reports
// whether the chunk was admitted; a rejected chunk leaves the window
// untouched and must not trigger a re-inference.
func (w *Window) Admit(chunk Chunk) bool {
	if len(chunk) == 0 {
		return false
	}
	if SilentFraction(chunk, w.thresholdDB) >= admissionLimit {
		return false
	}

	if len(w.chunks) == w.capacity {
		copy(w.chunks, w.chunks[1:])
		w.chunks = w.chunks[:w.capacity-1]
	}
	w.chunks = append(w.chunks, chunk)
	return true
}

// Len returns the number of chunks currently held.
func (w *Window) Len() int {
	return len(w.chunks)
}

// Concat returns a copy of the window's full contents as one contiguous
// sample run, oldest chunk first. The copy is safe to hand to an engine
// submission that outlives later window mutations.
func (w *Window) Concat() []float32 {
	total := 0
	for _, c := range w.chunks {
		total += len(c)
	}
	out := make([]float32, 0, total)
	for _, c := range w.chunks {
		out = append(out, c...)
	}
	return out
}

// SilentFraction returns the fraction of samples whose instantaneous level
// falls below thresholdDB.
func SilentFraction(chunk Chunk, thresholdDB float64) float64 {
	if len(chunk) == 0 {
		return 1
	}
	silent := 0
	for _, s := range chunk {
		if sampleDB(s) < thresholdDB {
			silent++
		}
	}
	return float64(silent) / float64(len(chunk))
}

// sampleDB converts a normalized amplitude to dBFS. A zero amplitude has no
// defined level and is treated as arbitrarily quiet.
func sampleDB(s float32) float64 {
	amp := math.Abs(float64(s))
	if amp == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(amp)
}
