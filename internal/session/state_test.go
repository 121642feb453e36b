package session

import "testing"

func TestLifecycle_HappyPath(t *testing.T) {
	lc := NewLifecycle("s-1")

	if lc.State() != StateIdle {
		t.Fatalf("expected IDLE, got %v", lc.State())
	}

	steps := []State{StatePreparing, StateTranscribing, StateFinalizing, StateCompleted}
	for _, next := range steps {
		if err := lc.Transition(next); err != nil {
			t.Fatalf("transition to %v failed: %v", next, err)
		}
		if lc.State() != next {
			t.Fatalf("expected %v, got %v", next, lc.State())
		}
	}

	if !lc.IsTerminal() {
		t.Error("expected COMPLETED to be terminal")
	}
}

func TestLifecycle_CancelPaths(t *testing.T) {
	// Cancel during preparation.
	lc := NewLifecycle("s-1")
	lc.Transition(StatePreparing)
	if err := lc.Transition(StateCancelled); err != nil {
		t.Errorf("expected PREPARING -> CANCELLED to be legal: %v", err)
	}

	// Cancel after finalizing partial output.
	lc = NewLifecycle("s-2")
	lc.Transition(StatePreparing)
	lc.Transition(StateTranscribing)
	lc.Transition(StateFinalizing)
	if err := lc.Transition(StateCancelled); err != nil {
		t.Errorf("expected FINALIZING -> CANCELLED to be legal: %v", err)
	}
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from []State
		next State
	}{
		{"idle to transcribing", nil, StateTranscribing},
		{"idle to completed", nil, StateCompleted},
		{"preparing to completed", []State{StatePreparing}, StateCompleted},
		{"transcribing to completed", []State{StatePreparing, StateTranscribing}, StateCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := NewLifecycle("s-1")
			for _, s := range tt.from {
				if err := lc.Transition(s); err != nil {
					t.Fatalf("setup transition to %v failed: %v", s, err)
				}
			}
			if err := lc.Transition(tt.next); err == nil {
				t.Errorf("expected transition to %v to be rejected", tt.next)
			}
		})
	}
}

func TestLifecycle_TerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []State{StateCompleted, StateCancelled, StateFailed} {
		lc := NewLifecycle("s-1")
		lc.Transition(StatePreparing)
		lc.Transition(StateTranscribing)
		lc.Transition(StateFinalizing)
		if err := lc.Transition(terminal); err != nil {
			t.Fatalf("transition to %v failed: %v", terminal, err)
		}
		for _, next := range []State{StateIdle, StatePreparing, StateTranscribing, StateCompleted} {
			if err := lc.Transition(next); err == nil {
				t.Errorf("expected %v -> %v to be rejected", terminal, next)
			}
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "IDLE"},
		{StatePreparing, "PREPARING"},
		{StateTranscribing, "TRANSCRIBING"},
		{StateFinalizing, "FINALIZING"},
		{StateCompleted, "COMPLETED"},
		{StateCancelled, "CANCELLED"},
		{StateFailed, "FAILED"},
		{State(42), "UNKNOWN(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
