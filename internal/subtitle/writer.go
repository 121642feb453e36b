// Package subtitle renders ordered segment sequences into SubRip or WebVTT
// documents.
package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"subtitle-generator/internal/models"
)

// Format selects the subtitle document grammar.
type Format int

const (
	// FormatSubRip - .srt, comma millisecond separator.
	FormatSubRip Format = iota
	// FormatWebVTT - .vtt, WEBVTT header, dot millisecond separator.
	FormatWebVTT
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatSubRip:
		return "SubRip"
	case FormatWebVTT:
		return "WebVTT"
	default:
		return fmt.Sprintf("FORMAT(%d)", f)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	if f == FormatWebVTT {
		return ".vtt"
	}
	return ".srt"
}

func (f Format) separator() byte {
	if f == FormatWebVTT {
		return '.'
	}
	return ','
}

// FormatTimestamp renders a duration as HH:MM:SS<sep>mmm. Hours, minutes and
// seconds are always two digits, milliseconds always three. Sub-millisecond
// precision is truncated, not rounded.
func FormatTimestamp(d time.Duration, f Format) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d%c%03d",
		ms/3600000, (ms/60000)%60, (ms/1000)%60, f.separator(), ms%1000)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string, f Format) (time.Duration, error) {
	secPart, msPart, ok := strings.Cut(s, string(f.separator()))
	if !ok {
		return 0, fmt.Errorf("parse timestamp %q: missing %q separator", s, f.separator())
	}

	fields := strings.Split(secPart, ":")
	if len(fields) != 3 || len(msPart) != 3 {
		return 0, fmt.Errorf("parse timestamp %q: want HH:MM:SS%cmmm", s, f.separator())
	}

	var parts [4]int64
	for i, field := range append(fields, msPart) {
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse timestamp %q: bad field %q", s, field)
		}
		parts[i] = n
	}

	h, m, sec, ms := parts[0], parts[1], parts[2], parts[3]
	if m > 59 || sec > 59 {
		return 0, fmt.Errorf("parse timestamp %q: field out of range", s)
	}
	total := ((h*60+m)*60+sec)*1000 + ms
	return time.Duration(total) * time.Millisecond, nil
}

// TextTransform is applied to each segment's text at render time. The stored
// segments are never mutated.
type TextTransform func(string) string

// Render writes the subtitle document for segments to w in the given format.
// Cues are indexed from 1 with no gaps, including cues with empty text.
// Segments are rendered in the order given; no re-sorting by start time.
func Render(w io.Writer, segments []models.Segment, f Format, transform TextTransform) error {
	bw := bufio.NewWriter(w)

	if f == FormatWebVTT {
		fmt.Fprintln(bw, "WEBVTT")
		fmt.Fprintln(bw)
	}

	for i, seg := range segments {
		text := seg.Text
		if transform != nil {
			text = transform(text)
		}

		fmt.Fprintln(bw, i+1)
		fmt.Fprintf(bw, "%s --> %s\n",
			FormatTimestamp(seg.Start, f), FormatTimestamp(seg.End, f))
		fmt.Fprintln(bw, text)
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

// OutputPath returns inputPath with its extension replaced by the format's.
func OutputPath(inputPath string, f Format) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + f.Extension()
}

// WriteFile renders the document next to inputPath and returns the path of
// the written subtitle file.
func WriteFile(inputPath string, segments []models.Segment, f Format, transform TextTransform) (string, error) {
	outPath := OutputPath(inputPath, f)

	file, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create subtitle file: %w", err)
	}

	if err := Render(file, segments, f, transform); err != nil {
		file.Close()
		return "", fmt.Errorf("write subtitle file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close subtitle file: %w", err)
	}
	return outPath, nil
}
