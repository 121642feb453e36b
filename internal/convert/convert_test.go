package convert

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		value string
		want  Mode
	}{
		{"S2TWP", ModeS2TWP},
		{"s2twp", ModeS2TWP},
		{"TW2SP", ModeTW2SP},
		{"tw2sp", ModeTW2SP},
		{"None", ModeNone},
		{"", ModeNone},
		{"garbage", ModeNone},
	}

	for _, tt := range tests {
		if got := ParseMode(tt.value); got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeNone, "None"},
		{ModeS2TWP, "S2TWP"},
		{ModeTW2SP, "TW2SP"},
		{Mode(42), "MODE(42)"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestForMode_FallsBackToIdentity(t *testing.T) {
	if got := ForMode(ModeNone)("text"); got != "text" {
		t.Errorf("ModeNone converter changed text: %q", got)
	}
	// No converter registered for TW2SP yet.
	if got := ForMode(ModeTW2SP)("text"); got != "text" {
		t.Errorf("unregistered mode converter changed text: %q", got)
	}
}

func TestForMode_UsesRegisteredConverter(t *testing.T) {
	Register(ModeS2TWP, func(s string) string { return s + "!" })
	defer Register(ModeS2TWP, nil)

	if got := ForMode(ModeS2TWP)("hi"); got != "hi!" {
		t.Errorf("expected registered converter output, got %q", got)
	}

	// ModeNone is always identity, even with converters registered.
	if got := ForMode(ModeNone)("hi"); got != "hi" {
		t.Errorf("ModeNone converter changed text: %q", got)
	}
}
