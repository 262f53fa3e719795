package server

import (
	"github.com/jaki95/tracklist-cue/internal/domain"
	"github.com/jaki95/tracklist-cue/internal/job"
	"github.com/jaki95/tracklist-cue/internal/tracklist"
)

// TracksRequest carries a raw track listing
type TracksRequest struct {
	Tracklist string `json:"tracklist" binding:"required"`
}

// TracksResponse lists the tracks found in a listing and the lines skipped
type TracksResponse struct {
	Tracks  []domain.Track `json:"tracks"`
	Skipped []SkippedLine  `json:"skipped"`
}

// SkippedLine is a listing line that did not become a track
type SkippedLine = job.SkippedLine

// ConvertRequest renders a listing into a CUE sheet
type ConvertRequest struct {
	Tracklist string       `json:"tracklist" binding:"required"`
	Album     domain.Album `json:"album"`
	Save      bool         `json:"save"`
	Output    string       `json:"output"`
}

// ConvertResponse is a rendered CUE sheet
type ConvertResponse struct {
	Name     string         `json:"name"`
	Cue      string         `json:"cue"`
	Album    domain.Album   `json:"album"`
	Tracks   []domain.Track `json:"tracks"`
	Skipped  []SkippedLine  `json:"skipped"`
	Location string         `json:"location,omitempty"`
}

// JobRequest starts a background conversion of a web page listing
type JobRequest struct {
	URL      string       `json:"url" binding:"required,url"`
	Selector string       `json:"selector"`
	Album    domain.Album `json:"album"`
	Output   string       `json:"output"`
}

// JobResponse acknowledges a queued job
type JobResponse struct {
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SheetsResponse lists stored sheets
type SheetsResponse struct {
	Sheets []string `json:"sheets"`
}

// MessageResponse represents a generic message payload used for success responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a generic error payload used for error responses.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Skipped []SkippedLine `json:"skipped,omitempty"`
}

func skippedLines(skipped []tracklist.Skipped) []SkippedLine {
	out := make([]SkippedLine, 0, len(skipped))
	for _, s := range skipped {
		out = append(out, SkippedLine{Line: s.Line, Text: s.Text, Reason: s.Reason.Error()})
	}
	return out
}
