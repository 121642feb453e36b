package capture

import (
	"context"
	"time"

	"subtitle-generator/internal/media"
)

// FileDevice replays a WAV file through the capture interface in
// fixed-duration chunks. It stands in for loopback hardware and lets capture
// sessions run against recorded audio.
type FileDevice struct {
	Path string
	// ChunkDuration is the length of each delivered chunk; zero means 1s.
	ChunkDuration time.Duration

	rate int
}

// Start decodes the file and begins delivering chunks. Leading audio covered
// by tuning.DropStartSilence is skipped.
func (d *FileDevice) Start(ctx context.Context, tuning Tuning) (<-chan Chunk, error) {
	samples, rate, err := media.DecodeWAV(d.Path)
	if err != nil {
		return nil, err
	}
	d.rate = rate

	if skip := int(float64(rate) * tuning.DropStartSilence.Seconds()); skip > 0 && skip < len(samples) {
		samples = samples[skip:]
	}

	chunkDur := d.ChunkDuration
	if chunkDur <= 0 {
		chunkDur = time.Second
	}
	chunkLen := int(float64(rate) * chunkDur.Seconds())
	if chunkLen < 1 {
		chunkLen = 1
	}

	ch := make(chan Chunk)
	go func() {
		defer close(ch)
		for off := 0; off < len(samples); off += chunkLen {
			end := off + chunkLen
			if end > len(samples) {
				end = len(samples)
			}
			select {
			case ch <- Chunk(samples[off:end]):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// SampleRate reports the decoded file's sample rate.
func (d *FileDevice) SampleRate() int {
	if d.rate == 0 {
		return 16000
	}
	return d.rate
}

// Close releases nothing; the file is fully decoded at Start.
func (d *FileDevice) Close() error { return nil }
