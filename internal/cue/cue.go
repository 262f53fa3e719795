// Package cue renders CUE sheets for a single audio file.
package cue

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jaki95/tracklist-cue/internal/domain"
)

const (
	DefaultGenre      = "Unknown"
	DefaultOutputName = "output.cue"
	Extension         = ".cue"
)

// Renderer builds CUE sheet text. The clock supplies REM DATE when the album
// has no year.
type Renderer struct {
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// NewRendererWithClock returns a Renderer that reads the current year from now.
func NewRendererWithClock(now func() time.Time) *Renderer {
	return &Renderer{now: now}
}

// Render returns the CUE sheet for tracks in order. Tracks are numbered from
// 01 and every track repeats the album performer.
func (r *Renderer) Render(album domain.Album, tracks []domain.Track) string {
	genre := album.Genre
	if genre == "" {
		genre = DefaultGenre
	}
	year := album.Year
	if year == "" {
		year = strconv.Itoa(r.now().Year())
	}

	lines := make([]string, 0, 6+4*len(tracks))
	lines = append(lines,
		fmt.Sprintf("REM GENRE %s", quote(genre)),
		fmt.Sprintf("REM DATE %s", year),
		fmt.Sprintf("REM COMMENT %s", quote(album.Comment)),
		fmt.Sprintf("PERFORMER %s", quote(album.Performer)),
		fmt.Sprintf("TITLE %s", quote(album.Title)),
		fmt.Sprintf("FILE %s WAVE", quote(album.AudioFile)),
	)

	for i, t := range tracks {
		lines = append(lines,
			fmt.Sprintf("  TRACK %02d AUDIO", i+1),
			fmt.Sprintf("    TITLE %s", quote(t.Title)),
			fmt.Sprintf("    PERFORMER %s", quote(album.Performer)),
			fmt.Sprintf("    INDEX 01 %s", t.Timecode),
		)
	}

	return strings.Join(lines, "\n")
}

// Render renders with the system clock.
func Render(album domain.Album, tracks []domain.Track) string {
	return NewRenderer().Render(album, tracks)
}

// quote wraps s in double quotes. CUE has no escape for an embedded double
// quote, so those become single quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}

// OutputName returns the sheet file name for name, defaulting to output.cue
// and appending the .cue extension when it is missing.
func OutputName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultOutputName
	}
	if !strings.HasSuffix(strings.ToLower(name), Extension) {
		name += Extension
	}
	return name
}
