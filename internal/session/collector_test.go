package session

import (
	"testing"
	"time"

	"subtitle-generator/internal/models"
)

func seg(text string, start time.Duration) models.Segment {
	return models.Segment{Start: start, End: start + time.Second, Text: text}
}

func TestCollector_PreservesArrivalOrder(t *testing.T) {
	c := NewCollector()

	// Deliberately out of timestamp order; the collector must not re-sort.
	c.Append(seg("second", 5*time.Second))
	c.Append(seg("first", 1*time.Second))
	c.Append(seg("third", 9*time.Second))

	got := c.Snapshot()
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	want := []string{"second", "first", "third"}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("segment %d: expected %q, got %q", i, w, got[i].Text)
		}
	}
}

func TestCollector_SnapshotIsACopy(t *testing.T) {
	c := NewCollector()
	c.Append(seg("one", 0))

	snap := c.Snapshot()
	c.Append(seg("two", time.Second))

	if len(snap) != 1 {
		t.Errorf("snapshot mutated by later append: %v", snap)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 collected segments, got %d", c.Len())
	}
}

func TestCollector_Replace(t *testing.T) {
	c := NewCollector()
	c.Append(seg("stale", 0))
	c.Append(seg("stale too", time.Second))

	c.Replace([]models.Segment{seg("fresh", 0)})

	got := c.Snapshot()
	if len(got) != 1 || got[0].Text != "fresh" {
		t.Errorf("expected replaced contents, got %v", got)
	}
}

func TestCollector_DrainReturnsAndClears(t *testing.T) {
	c := NewCollector()
	c.Append(seg("one", 0))
	c.Append(seg("two", time.Second))

	got := c.Drain()
	if len(got) != 2 || got[0].Text != "one" || got[1].Text != "two" {
		t.Errorf("unexpected drained segments: %v", got)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty collector after drain, got %d", c.Len())
	}
	if again := c.Drain(); len(again) != 0 {
		t.Errorf("expected second drain to be empty, got %v", again)
	}
}

func TestCollector_Empty(t *testing.T) {
	c := NewCollector()
	if c.Len() != 0 {
		t.Errorf("expected empty collector, got %d", c.Len())
	}
	if got := c.Snapshot(); len(got) != 0 {
		t.Errorf("expected empty snapshot, got %v", got)
	}
}
