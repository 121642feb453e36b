package events

import (
	"context"
	"testing"

	"subtitle-generator/internal/models"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
		{"nil config", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerState != nil {
				t.Error("expected nil state writer when disabled")
			}
			if p.writerSegment != nil {
				t.Error("expected nil segment writer when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	cfg := &Config{
		Enabled:      false,
		Brokers:      []string{"localhost:9092"},
		TopicState:   "subtitle.session.state",
		TopicSegment: "subtitle.session.segment",
		Principal:    "subtitle-generator",
	}

	p := New(cfg)

	if p.principal != "subtitle-generator" {
		t.Errorf("expected principal 'subtitle-generator', got %s", p.principal)
	}
	if p.topicState != "subtitle.session.state" {
		t.Errorf("expected state topic 'subtitle.session.state', got %s", p.topicState)
	}
	if p.topicSegment != "subtitle.session.segment" {
		t.Errorf("expected segment topic 'subtitle.session.segment', got %s", p.topicSegment)
	}
}

func TestPublisher_PublishState_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := models.SessionStateEvent{
		EventType: "subtitle.session.state",
		SessionID: "s-123",
		State:     "TRANSCRIBING",
	}
	if err := p.PublishState(context.Background(), "s-123", event); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishSegment_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := models.SegmentEvent{
		EventType: "subtitle.session.segment",
		SessionID: "s-123",
		Index:     1,
		Text:      "hello world",
	}
	if err := p.PublishSegment(context.Background(), "s-123", event); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_Publish_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// Channels are unmarshalable.
	event := make(chan int)
	if err := p.PublishState(context.Background(), "s-123", event); err == nil {
		t.Error("expected error for unmarshalable state event")
	}
	if err := p.PublishSegment(context.Background(), "s-123", event); err == nil {
		t.Error("expected error for unmarshalable segment event")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}

func TestPublisher_Close_NilWriters(t *testing.T) {
	p := &Publisher{
		writerState:   nil,
		writerSegment: nil,
	}

	if err := p.Close(); err != nil {
		t.Errorf("expected no error closing publisher with nil writers, got %v", err)
	}
}
