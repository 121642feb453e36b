// Package convert provides per-segment script conversion between written
// variants of the same language. Conversion is a pure text transform applied
// at serialization time; it has no error channel and never mutates stored
// segments.
package convert

import (
	"fmt"
	"sync"
)

// Mode selects the script conversion direction.
type Mode int

const (
	// ModeNone - Identity, no conversion.
	ModeNone Mode = iota
	// ModeS2TWP - Simplified to Traditional (Taiwan) with phrase conversion.
	ModeS2TWP
	// ModeTW2SP - Traditional (Taiwan) to Simplified with phrase conversion.
	ModeTW2SP
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case ModeS2TWP:
		return "S2TWP"
	case ModeTW2SP:
		return "TW2SP"
	default:
		return fmt.Sprintf("MODE(%d)", m)
	}
}

// ParseMode parses a mode name. Unknown values map to ModeNone.
func ParseMode(value string) Mode {
	switch value {
	case "S2TWP", "s2twp":
		return ModeS2TWP
	case "TW2SP", "tw2sp":
		return ModeTW2SP
	default:
		return ModeNone
	}
}

// Func is a pure, total text transform.
type Func func(string) string

// Identity returns its input unchanged.
func Identity(text string) string { return text }

var (
	mu         sync.RWMutex
	converters = map[Mode]Func{}
)

// Register installs the converter for a mode. Dictionary-backed converters
// are loaded by the caller; this package only routes by mode.
func Register(mode Mode, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	converters[mode] = fn
}

// ForMode returns the converter registered for the mode. ModeNone and any
// mode without a registered converter fall back to Identity.
func ForMode(mode Mode) Func {
	if mode == ModeNone {
		return Identity
	}
	mu.RLock()
	defer mu.RUnlock()
	if fn, ok := converters[mode]; ok && fn != nil {
		return fn
	}
	return Identity
}
