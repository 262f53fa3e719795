// Package tracklist turns free-text, timestamped track listings into ordered
// tracks.
package tracklist

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jaki95/tracklist-cue/internal/domain"
	"github.com/jaki95/tracklist-cue/internal/timecode"
)

// Skipped describes a listing line that did not become a track.
type Skipped struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason error  `json:"-"`
}

// Blank reports whether the skipped line held only whitespace.
func (s Skipped) Blank() bool {
	return strings.TrimSpace(s.Text) == ""
}

func (s Skipped) String() string {
	return fmt.Sprintf("line %d %q skipped: %v", s.Line, s.Text, s.Reason)
}

// Result is the outcome of building tracks from a listing.
type Result struct {
	Tracks  []domain.Track
	Skipped []Skipped
}

// Warnings returns the skipped lines that looked like tracks but carried an
// unusable timestamp.
func (r *Result) Warnings() []Skipped {
	var out []Skipped
	for _, s := range r.Skipped {
		if errors.Is(s.Reason, timecode.ErrInvalidFormat) {
			out = append(out, s)
		}
	}
	return out
}

// LineFunc is called after each line is processed with the number of lines
// seen so far, the line count and the tracks built so far.
type LineFunc func(processed, total, tracks int)

// Build extracts tracks from lines in order. Lines that cannot be used are
// recorded in Result.Skipped with their 1-based line number and reason.
// ErrNoTracksFound is returned, together with the result, when no line
// produced a track.
func Build(lines []string, onLine LineFunc) (*Result, error) {
	result := &Result{}

	for i, line := range lines {
		lineNum := i + 1

		track, err := buildTrack(line)
		if err != nil {
			skip := Skipped{Line: lineNum, Text: line, Reason: err}
			result.Skipped = append(result.Skipped, skip)
			logSkip(skip)
		} else {
			result.Tracks = append(result.Tracks, track)
		}

		if onLine != nil {
			onLine(lineNum, len(lines), len(result.Tracks))
		}
	}

	if len(result.Tracks) == 0 {
		return result, ErrNoTracksFound
	}

	slog.Debug("Built tracklist", "tracks", len(result.Tracks), "skipped", len(result.Skipped))
	return result, nil
}

func buildTrack(line string) (domain.Track, error) {
	e, ok := Extract(line)
	if !ok {
		return domain.Track{}, ErrNoStructuralMatch
	}

	tc, err := timecode.Parse(e.Timestamp)
	if err != nil {
		return domain.Track{}, err
	}

	return domain.Track{Title: e.Title, Timecode: tc}, nil
}

func logSkip(s Skipped) {
	switch {
	case s.Blank():
		slog.Debug("Skipping blank line", "line", s.Line)
	case errors.Is(s.Reason, timecode.ErrInvalidFormat):
		slog.Warn("Skipping line", "line", s.Line, "text", s.Text, "error", s.Reason)
	default:
		slog.Info("Skipping line", "line", s.Line, "text", s.Text, "reason", s.Reason)
	}
}

// SplitLines splits text into lines, accepting LF, CRLF and lone CR endings.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// FormatReview lists tracks for confirmation, one "NN. [MM:SS:FF] Title" per
// line.
func FormatReview(tracks []domain.Track) string {
	var b strings.Builder
	for i, t := range tracks {
		fmt.Fprintf(&b, "%2d. [%s] %s\n", i+1, t.Timecode, t.Title)
	}
	return b.String()
}
