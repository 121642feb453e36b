// Package media handles decoding of input files into the normalized audio
// the engine consumes.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Transcoder converts arbitrary audio/video files into mono 16 kHz WAV
// artifacts via an external ffmpeg binary.
type Transcoder struct {
	// FFmpegPath is the ffmpeg executable; empty means "ffmpeg" on PATH.
	FFmpegPath string
	// TempDir is where intermediate artifacts are written; empty means the
	// OS temp directory.
	TempDir string
}

// Decode transcodes inputPath into a temporary mono 16 kHz WAV file and
// returns its path. The caller owns the artifact and must delete it.
func (t *Transcoder) Decode(ctx context.Context, inputPath string) (string, error) {
	ffmpeg := t.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	tmpDir := t.TempDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(tmpDir, fmt.Sprintf("%s_%d.wav", base, time.Now().UnixMilli()))

	// ffmpeg -y -i input -vn -ar 16000 -ac 1 -ab 32k -af volume=1.75 -f wav out
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-y", "-i", inputPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-ab", "32k",
		"-af", "volume=1.75",
		"-f", "wav",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Debug().
		Str("component", "transcoder").
		Str("input", inputPath).
		Str("output", outPath).
		Msg("Starting ffmpeg conversion")

	start := time.Now()
	if err := cmd.Run(); err != nil {
		// A partially written artifact is useless; remove it eagerly so the
		// session does not have to track a failed decode.
		os.Remove(outPath)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	log.Info().
		Str("component", "transcoder").
		Str("output", outPath).
		Dur("elapsed", time.Since(start)).
		Msg("Conversion finished")

	return outPath, nil
}
