package media

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeWAV reads a PCM WAV file into normalized mono float32 samples in
// [-1, 1] and returns them with the source sample rate. Multi-channel audio
// is downmixed by averaging.
func DecodeWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("decode wav %s: not a valid wav file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, fmt.Errorf("decode wav %s: no channels", path)
	}

	scale := float64(int(1) << (buf.SourceBitDepth - 1))
	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch])
		}
		samples[i] = float32(sum / float64(channels) / scale)
	}

	return samples, buf.Format.SampleRate, nil
}

// EncodeWAV renders normalized mono samples as a 16-bit PCM WAV document in
// memory, for re-submitting a capture window to an engine that only accepts
// containerized audio.
func EncodeWAV(samples []float32, sampleRate int) ([]byte, error) {
	ws := &memWriteSeeker{}

	enc := wav.NewEncoder(ws, sampleRate, 16, 1, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}

	return ws.buf.Bytes(), nil
}

// memWriteSeeker satisfies the encoder's io.WriteSeeker over a byte buffer.
// The wav encoder only seeks backwards to patch the header lengths.
type memWriteSeeker struct {
	buf bytes.Buffer
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if m.pos < m.buf.Len() {
		n := copy(m.buf.Bytes()[m.pos:], p)
		if n < len(p) {
			m.buf.Write(p[n:])
		}
	} else {
		m.buf.Write(p)
	}
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case io.SeekStart:
		next = int(offset)
	case io.SeekCurrent:
		next = m.pos + int(offset)
	case io.SeekEnd:
		next = m.buf.Len() + int(offset)
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("seek: negative position %d", next)
	}
	m.pos = next
	return int64(next), nil
}
