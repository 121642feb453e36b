package fake

import (
	"context"
	"errors"
	"testing"
	"time"

	"subtitle-generator/internal/engine"
	"subtitle-generator/internal/models"
)

func TestTranscribe_EmitsScriptedSegments(t *testing.T) {
	e := &Engine{Segments: []models.Segment{
		{Text: "one"},
		{Text: "two"},
	}}

	out := make(chan models.Segment, 4)
	if err := e.Transcribe(context.Background(), engine.Request{AudioPath: "x.wav"}, out); err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	close(out)

	var texts []string
	for seg := range out {
		texts = append(texts, seg.Text)
	}
	if len(texts) != 2 || texts[0] != "one" || texts[1] != "two" {
		t.Errorf("unexpected segments: %v", texts)
	}

	if reqs := e.Requests(); len(reqs) != 1 || reqs[0].AudioPath != "x.wav" {
		t.Errorf("unexpected recorded requests: %v", reqs)
	}
}

func TestTranscribe_ErrorInjection(t *testing.T) {
	boom := errors.New("boom")
	e := &Engine{
		Segments: []models.Segment{{Text: "one"}, {Text: "two"}},
		Err:      boom,
		ErrAfter: 1,
	}

	out := make(chan models.Segment, 4)
	if err := e.Transcribe(context.Background(), engine.Request{}, out); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	close(out)

	count := 0
	for range out {
		count++
	}
	if count != 1 {
		t.Errorf("expected 1 segment before the fault, got %d", count)
	}
}

func TestTranscribe_Cancellation(t *testing.T) {
	e := &Engine{
		Segments: []models.Segment{{Text: "slow"}},
		Delay:    time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan models.Segment, 1)
	if err := e.Transcribe(ctx, engine.Request{}, out); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDetectLanguage(t *testing.T) {
	e := &Engine{Language: "ja"}
	lang, err := e.DetectLanguage(context.Background(), engine.Request{})
	if err != nil {
		t.Fatalf("DetectLanguage failed: %v", err)
	}
	if lang != "ja" {
		t.Errorf("expected ja, got %q", lang)
	}

	// Default language when unset.
	e = &Engine{}
	if lang, _ := e.DetectLanguage(context.Background(), engine.Request{}); lang != "en" {
		t.Errorf("expected default en, got %q", lang)
	}
}

func TestClose(t *testing.T) {
	e := &Engine{}
	if e.Closed() {
		t.Error("expected engine to start open")
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if !e.Closed() {
		t.Error("expected engine to be closed")
	}
}
