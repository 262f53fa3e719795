// Package job keeps track of conversions running in the background.
package job

import (
	"context"
	"time"

	"github.com/jaki95/tracklist-cue/internal/progress"
)

// Status represents the current state of a conversion job
type Status struct {
	ID        string           `json:"id"`
	Source    string           `json:"source"`
	Status    string           `json:"status"`
	Progress  float64          `json:"progress"`
	Message   string           `json:"message"`
	Error     string           `json:"error,omitempty"`
	Location  string           `json:"location,omitempty"`
	Tracks    int              `json:"tracks,omitempty"`
	Skipped   []SkippedLine    `json:"skipped,omitempty"`
	Events    []progress.Event `json:"events"`
	StartTime time.Time        `json:"startTime"`
	EndTime   *time.Time       `json:"endTime,omitempty"`

	seq        uint64
	cancelFunc context.CancelFunc
}

// SkippedLine is a listing line that did not become a track
type SkippedLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Done reports whether the job reached a final state.
func (s *Status) Done() bool {
	switch s.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Response is a page of jobs
type Response struct {
	Jobs       []*Status `json:"jobs"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalJobs  int       `json:"totalJobs"`
	TotalPages int       `json:"totalPages"`
}

// Constants for job status
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// Constants for pagination
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
