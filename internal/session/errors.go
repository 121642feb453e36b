package session

import (
	"errors"
	"fmt"
)

// ErrSessionActive is returned when a new session is requested while another
// one is still running.
var ErrSessionActive = errors.New("another session is active")

// FailureKind classifies which stage a session failed in.
type FailureKind int

const (
	// FailurePreparation - Transcode or device open failed; no output exists.
	FailurePreparation FailureKind = iota
	// FailureEngine - The engine faulted mid-session; no output is written.
	FailureEngine
	// FailureSerialization - Segments existed but writing the subtitle failed.
	FailureSerialization
)

// String returns the string representation of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailurePreparation:
		return "PREPARATION"
	case FailureEngine:
		return "ENGINE"
	case FailureSerialization:
		return "SERIALIZATION"
	default:
		return fmt.Sprintf("FAILURE(%d)", k)
	}
}

// Cause describes why a session reached FAILED.
type Cause struct {
	Kind FailureKind
	Err  error
}

// Error implements the error interface.
func (c *Cause) Error() string {
	return fmt.Sprintf("%s: %v", c.Kind, c.Err)
}

// Unwrap exposes the underlying error.
func (c *Cause) Unwrap() error {
	return c.Err
}
