package models

// SessionStateEvent is published whenever a session changes state.
type SessionStateEvent struct {
	EventType string `json:"eventType"`
	SessionID string `json:"sessionId"`
	State     string `json:"state"`
	Cause     string `json:"cause,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// SegmentEvent is published for every segment accepted by the collector.
type SegmentEvent struct {
	EventType   string  `json:"eventType"`
	SessionID   string  `json:"sessionId"`
	Index       int     `json:"index"`
	StartMs     int64   `json:"startMs"`
	EndMs       int64   `json:"endMs"`
	Text        string  `json:"text"`
	Language    string  `json:"language,omitempty"`
	Probability float64 `json:"probability,omitempty"`
	Channel     string  `json:"channel"`
	Timestamp   int64   `json:"timestamp"`
}
