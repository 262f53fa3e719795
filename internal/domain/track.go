package domain

import (
	"strings"

	"github.com/jaki95/tracklist-cue/internal/timecode"
)

// Track represents an individual entry of a track listing.
type Track struct {
	Title    string            `json:"title"`
	Timecode timecode.Timecode `json:"timecode"`
}

// Album holds the sheet-level metadata rendered into the CUE header.
// Year and Genre are optional.
type Album struct {
	Performer string `json:"performer" yaml:"performer"`
	Title     string `json:"title" yaml:"album"`
	AudioFile string `json:"audio_file" yaml:"audio_file"`
	Year      string `json:"year,omitempty" yaml:"year"`
	Genre     string `json:"genre,omitempty" yaml:"genre"`
	Comment   string `json:"comment,omitempty" yaml:"comment"`
}

// WithDefaults returns a copy of a where every empty field is taken from d.
// A year that is not made of digits only is dropped before the fallback.
func (a Album) WithDefaults(d Album) Album {
	if !IsYear(a.Year) {
		a.Year = ""
	}
	if a.Performer == "" {
		a.Performer = d.Performer
	}
	if a.Title == "" {
		a.Title = d.Title
	}
	if a.AudioFile == "" {
		a.AudioFile = d.AudioFile
	}
	if a.Year == "" && IsYear(d.Year) {
		a.Year = d.Year
	}
	if a.Genre == "" {
		a.Genre = d.Genre
	}
	if a.Comment == "" {
		a.Comment = d.Comment
	}
	return a
}

// IsYear reports whether s is a non-empty string of ASCII digits.
func IsYear(s string) bool {
	if s == "" {
		return false
	}
	return strings.Trim(s, "0123456789") == ""
}
