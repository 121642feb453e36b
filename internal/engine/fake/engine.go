// Package fake provides a scripted engine for testing without a real
// transcription backend.
package fake

import (
	"context"
	"sync"
	"time"

	"subtitle-generator/internal/engine"
	"subtitle-generator/internal/models"
)

var _ engine.Engine = (*Engine)(nil)

// Engine implements engine.Engine with scripted responses.
type Engine struct {
	// Segments are emitted in order on every Transcribe call.
	Segments []models.Segment
	// Language is returned by DetectLanguage.
	Language string
	// Err, when set, is returned by Transcribe after emitting ErrAfter
	// segments.
	Err      error
	ErrAfter int
	// Delay is slept before each emitted segment, for exercising
	// cancellation mid-stream.
	Delay time.Duration

	mu       sync.Mutex
	requests []engine.Request
	closed   bool
}

// Transcribe emits the scripted segments, honoring Delay, Err and the
// context.
func (e *Engine) Transcribe(ctx context.Context, req engine.Request, out chan<- models.Segment) error {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	for i, seg := range e.Segments {
		if e.Err != nil && i == e.ErrAfter {
			return e.Err
		}
		if e.Delay > 0 {
			select {
			case <-time.After(e.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		select {
		case out <- seg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if e.Err != nil && e.ErrAfter >= len(e.Segments) {
		return e.Err
	}
	return nil
}

// DetectLanguage returns the scripted language.
func (e *Engine) DetectLanguage(ctx context.Context, req engine.Request) (string, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	if e.Err != nil {
		return "", e.Err
	}
	if e.Language == "" {
		return "en", nil
	}
	return e.Language, nil
}

// Close records that the engine was released.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}

// Requests returns a copy of every request received so far.
func (e *Engine) Requests() []engine.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.Request(nil), e.requests...)
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
