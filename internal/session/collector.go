package session

import (
	"sync"

	"subtitle-generator/internal/models"
)

// Collector accumulates segments in arrival order. The serializer relies on
// that order; segments are never re-sorted by timestamp.
type Collector struct {
	mu       sync.Mutex
	segments []models.Segment
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Append adds a segment at the end.
func (c *Collector) Append(seg models.Segment) {
	c.mu.Lock()
	c.segments = append(c.segments, seg)
	c.mu.Unlock()
}

// Replace swaps the full contents. Used by capture sessions where the latest
// whole-window result supersedes earlier ones.
func (c *Collector) Replace(segments []models.Segment) {
	c.mu.Lock()
	c.segments = append(c.segments[:0:0], segments...)
	c.mu.Unlock()
}

// Len returns the number of collected segments.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.segments)
}

// Snapshot returns a copy of the collected segments in arrival order.
func (c *Collector) Snapshot() []models.Segment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Segment(nil), c.segments...)
}

// Drain returns the collected segments in arrival order and clears the
// collector. Called once, at finalization.
func (c *Collector) Drain() []models.Segment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.segments
	c.segments = nil
	return out
}
