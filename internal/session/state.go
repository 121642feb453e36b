// Package session orchestrates transcription sessions: lifecycle, segment
// collection and subtitle serialization.
package session

import (
	"fmt"
	"sync"
)

// State represents the lifecycle state of a session.
type State int

const (
	// StateIdle - Session created, nothing started yet.
	StateIdle State = iota
	// StatePreparing - Input is being transcoded or the capture device opened.
	StatePreparing
	// StateTranscribing - Audio is flowing through the engine.
	StateTranscribing
	// StateFinalizing - Engine work ended, output is being serialized.
	StateFinalizing
	// StateCompleted - Output written. Terminal.
	StateCompleted
	// StateCancelled - Session cancelled by the operator. Terminal.
	StateCancelled
	// StateFailed - Session failed. Terminal.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePreparing:
		return "PREPARING"
	case StateTranscribing:
		return "TRANSCRIBING"
	case StateFinalizing:
		return "FINALIZING"
	case StateCompleted:
		return "COMPLETED"
	case StateCancelled:
		return "CANCELLED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if the state is terminal.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// allowedTransitions lists every legal state edge.
//
//	IDLE → PREPARING → TRANSCRIBING → FINALIZING → COMPLETED
//	          │              │             ├────── CANCELLED
//	          │              │             └────── FAILED
//	          ├──────────────┴── CANCELLED / FAILED
var allowedTransitions = map[State][]State{
	StateIdle:         {StatePreparing},
	StatePreparing:    {StateTranscribing, StateCancelled, StateFailed},
	StateTranscribing: {StateFinalizing, StateCancelled, StateFailed},
	StateFinalizing:   {StateCompleted, StateCancelled, StateFailed},
}

// Lifecycle manages the state machine for a single session.
// Thread-safe for concurrent access.
type Lifecycle struct {
	mu        sync.RWMutex
	sessionID string
	state     State
}

// NewLifecycle creates a new session lifecycle in IDLE state.
func NewLifecycle(sessionID string) *Lifecycle {
	return &Lifecycle{
		sessionID: sessionID,
		state:     StateIdle,
	}
}

// SessionID returns the session ID.
func (l *Lifecycle) SessionID() string {
	return l.sessionID
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// IsTerminal returns true if the session has reached a terminal state.
func (l *Lifecycle) IsTerminal() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.IsTerminal()
}

// Transition moves the session to next, validating the edge. A terminal
// state never transitions again.
func (l *Lifecycle) Transition(next State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range allowedTransitions[l.state] {
		if s == next {
			l.state = next
			return nil
		}
	}
	return fmt.Errorf("invalid transition %v -> %v", l.state, next)
}
