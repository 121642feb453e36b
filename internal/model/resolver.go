// Package model resolves engine model identifiers to local files, downloading
// them on first use.
package model

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// DefaultBaseURL is where model artifacts are fetched from when the resolver
// is not given another source.
const DefaultBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// catalogue maps model identifiers to artifact file names.
var catalogue = map[string]string{
	"tiny":      "ggml-tiny.bin",
	"tiny.en":   "ggml-tiny.en.bin",
	"base":      "ggml-base.bin",
	"base.en":   "ggml-base.en.bin",
	"small":     "ggml-small.bin",
	"small.en":  "ggml-small.en.bin",
	"medium":    "ggml-medium.bin",
	"medium.en": "ggml-medium.en.bin",
	"large":     "ggml-large.bin",
}

// Known reports whether id names a catalogued model.
func Known(id string) bool {
	_, ok := catalogue[id]
	return ok
}

// Resolver locates model artifacts in a local directory and downloads missing
// ones from a remote base URL.
type Resolver struct {
	// Dir is the local model directory; created on demand.
	Dir string
	// BaseURL overrides DefaultBaseURL when non-empty.
	BaseURL string
	// Client overrides http.DefaultClient when non-nil.
	Client *http.Client
	// Progress enables a terminal progress bar during downloads.
	Progress bool
}

// Resolve returns the local path of the artifact for id, downloading it first
// if it is not already present. A partially downloaded artifact is removed so
// a later call retries from scratch.
func (r *Resolver) Resolve(ctx context.Context, id string) (string, error) {
	name, ok := catalogue[id]
	if !ok {
		return "", fmt.Errorf("unknown model %q", id)
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}

	path := filepath.Join(r.Dir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat model %s: %w", path, err)
	}

	if err := r.download(ctx, name, path); err != nil {
		return "", err
	}
	return path, nil
}

func (r *Resolver) download(ctx context.Context, name, path string) error {
	base := r.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	url := base + "/" + name

	log.Info().
		Str("component", "model-resolver").
		Str("model", name).
		Str("url", url).
		Msg("Downloading model")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", name, resp.Status)
	}

	tmp := path + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("download %s: %w", name, err)
	}

	var dst io.Writer = out
	if r.Progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, name)
		dst = io.MultiWriter(out, bar)
	}

	_, copyErr := io.Copy(dst, resp.Body)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmp)
		if copyErr != nil {
			return fmt.Errorf("download %s: %w", name, copyErr)
		}
		return fmt.Errorf("download %s: %w", name, closeErr)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("download %s: %w", name, err)
	}

	log.Info().
		Str("component", "model-resolver").
		Str("model", name).
		Str("path", path).
		Msg("Model ready")

	return nil
}
