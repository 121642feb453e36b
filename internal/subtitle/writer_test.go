package subtitle

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"subtitle-generator/internal/models"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		d      time.Duration
		format Format
		want   string
	}{
		{0, FormatSubRip, "00:00:00,000"},
		{0, FormatWebVTT, "00:00:00.000"},
		{2500 * time.Millisecond, FormatSubRip, "00:00:02,500"},
		{2500 * time.Millisecond, FormatWebVTT, "00:00:02.500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond, FormatSubRip, "01:02:03,004"},
		{99*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond, FormatSubRip, "99:59:59,999"},
		// Sub-millisecond precision is truncated, not rounded.
		{time.Second + 999*time.Microsecond, FormatSubRip, "00:00:01,000"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.d, tt.format); got != tt.want {
			t.Errorf("FormatTimestamp(%v, %v) = %q, want %q", tt.d, tt.format, got, tt.want)
		}
	}
}

func TestParseTimestamp_RoundTrip(t *testing.T) {
	durations := []time.Duration{
		0,
		1 * time.Millisecond,
		999 * time.Millisecond,
		2500 * time.Millisecond,
		59*time.Second + 999*time.Millisecond,
		59*time.Minute + 59*time.Second + 999*time.Millisecond,
		time.Hour,
		12*time.Hour + 34*time.Minute + 56*time.Second + 789*time.Millisecond,
		99*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond,
	}

	for _, f := range []Format{FormatSubRip, FormatWebVTT} {
		for _, d := range durations {
			s := FormatTimestamp(d, f)
			got, err := ParseTimestamp(s, f)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q, %v): %v", s, f, err)
			}
			if got != d {
				t.Errorf("round trip %v via %q = %v, want %v", d, s, got, d)
			}
		}
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	tests := []struct {
		input  string
		format Format
	}{
		{"", FormatSubRip},
		{"00:00:00.000", FormatSubRip}, // wrong separator
		{"00:00:00,000", FormatWebVTT}, // wrong separator
		{"00:00,000", FormatSubRip},
		{"00:61:00,000", FormatSubRip},
		{"00:00:75,000", FormatSubRip},
		{"00:00:00,12", FormatSubRip},
		{"aa:bb:cc,ddd", FormatSubRip},
	}

	for _, tt := range tests {
		if _, err := ParseTimestamp(tt.input, tt.format); err == nil {
			t.Errorf("ParseTimestamp(%q, %v): expected error", tt.input, tt.format)
		}
	}
}

func TestRender_SubRip(t *testing.T) {
	segments := []models.Segment{
		{Start: 0, End: 2500 * time.Millisecond, Text: "hello"},
		{Start: 2500 * time.Millisecond, End: 4 * time.Second, Text: "world"},
	}

	var buf bytes.Buffer
	if err := Render(&buf, segments, FormatSubRip, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:02,500\n" +
		"hello\n" +
		"\n" +
		"2\n" +
		"00:00:02,500 --> 00:00:04,000\n" +
		"world\n" +
		"\n"
	if buf.String() != want {
		t.Errorf("SubRip document mismatch:\ngot:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestRender_WebVTT(t *testing.T) {
	segments := []models.Segment{
		{Start: 0, End: 2500 * time.Millisecond, Text: "hello"},
		{Start: 2500 * time.Millisecond, End: 4 * time.Second, Text: "world"},
	}

	var buf bytes.Buffer
	if err := Render(&buf, segments, FormatWebVTT, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Errorf("expected WEBVTT header + blank line, got %q", out)
	}
	if !strings.Contains(out, "00:00:02.500 --> 00:00:04.000") {
		t.Errorf("expected dot separators in cue line, got %q", out)
	}

	// The two documents differ only in header and millisecond separator.
	var srt bytes.Buffer
	Render(&srt, segments, FormatSubRip, nil)
	normalized := strings.ReplaceAll(strings.TrimPrefix(out, "WEBVTT\n\n"), ".", ",")
	if normalized != srt.String() {
		t.Errorf("formats diverge beyond separator:\nvtt: %q\nsrt: %q", normalized, srt.String())
	}
}

func TestRender_CueIndexing(t *testing.T) {
	for _, n := range []int{0, 1, 3, 10} {
		segments := make([]models.Segment, n)
		for i := range segments {
			segments[i] = models.Segment{
				Start: time.Duration(i) * time.Second,
				End:   time.Duration(i+1) * time.Second,
			}
		}

		var buf bytes.Buffer
		if err := Render(&buf, segments, FormatSubRip, nil); err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}

		// Each cue is 4 lines: index, times, text (empty here), blank.
		// Indexes must run 1..n with no gaps even for empty texts.
		lines := strings.Split(buf.String(), "\n")
		for i := 0; i < n; i++ {
			got := lines[i*4]
			want := strconv.Itoa(i + 1)
			if got != want {
				t.Errorf("n=%d: cue %d index line = %q, want %q", n, i, got, want)
			}
		}
		if n == 0 && buf.Len() != 0 {
			t.Errorf("expected empty document for zero segments, got %q", buf.String())
		}
	}
}

func TestRender_TransformDoesNotMutateSegments(t *testing.T) {
	segments := []models.Segment{
		{Start: 0, End: time.Second, Text: "original"},
	}

	var buf bytes.Buffer
	upper := func(s string) string { return strings.ToUpper(s) }
	if err := Render(&buf, segments, FormatSubRip, upper); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "ORIGINAL") {
		t.Errorf("expected transformed text in output, got %q", buf.String())
	}
	if segments[0].Text != "original" {
		t.Errorf("stored segment was mutated: %q", segments[0].Text)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in     string
		format Format
		want   string
	}{
		{"/data/movie.mp4", FormatSubRip, "/data/movie.srt"},
		{"/data/movie.mp4", FormatWebVTT, "/data/movie.vtt"},
		{"/data/talk.final.wav", FormatSubRip, "/data/talk.final.srt"},
		{"/data/noext", FormatWebVTT, "/data/noext.vtt"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.in, tt.format); got != tt.want {
			t.Errorf("OutputPath(%q, %v) = %q, want %q", tt.in, tt.format, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mkv")

	segments := []models.Segment{
		{Start: 0, End: time.Second, Text: "one"},
	}

	outPath, err := WriteFile(input, segments, FormatSubRip, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outPath != filepath.Join(dir, "clip.srt") {
		t.Errorf("unexpected output path %q", outPath)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "00:00:00,000 --> 00:00:01,000") {
		t.Errorf("unexpected file contents %q", data)
	}
}
