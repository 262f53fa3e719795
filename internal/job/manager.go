package job

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jaki95/tracklist-cue/internal/progress"
)

// Manager handles job management. Callers always receive copies of the
// stored statuses.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Status
	seq  atomic.Uint64
}

// NewManager creates a new job manager
func NewManager() *Manager {
	return &Manager{
		jobs: make(map[string]*Status),
	}
}

// CreateJob registers a pending job. The returned context is cancelled by
// CancelJob.
func (m *Manager) CreateJob(parent context.Context, source string) (*Status, context.Context) {
	seq := m.seq.Add(1)
	jobID := fmt.Sprintf("%d-%d", time.Now().UnixNano(), seq)
	ctx, cancel := context.WithCancel(parent)

	job := &Status{
		ID:         jobID,
		Source:     source,
		Status:     StatusPending,
		Message:    "Job created",
		Events:     []progress.Event{},
		StartTime:  time.Now(),
		seq:        seq,
		cancelFunc: cancel,
	}

	m.mu.Lock()
	m.jobs[jobID] = job
	m.mu.Unlock()

	return job.snapshot(), ctx
}

// GetJob retrieves a job by ID
func (m *Manager) GetJob(jobID string) (*Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return job.snapshot(), nil
}

// Record applies a progress event to the job. Events for finished jobs are
// dropped.
func (m *Manager) Record(jobID string, event progress.Event) error {
	return m.update(jobID, func(job *Status) {
		if job.Done() {
			return
		}
		if event.Stage != progress.StageError {
			job.Status = StatusProcessing
		}
		job.Progress = event.Progress
		job.Message = event.Message
		job.Events = append(job.Events, event)
	})
}

// RecordSkipped stores the listing lines the job could not turn into tracks.
func (m *Manager) RecordSkipped(jobID string, skipped []SkippedLine) error {
	return m.update(jobID, func(job *Status) {
		if job.Done() {
			return
		}
		job.Skipped = append([]SkippedLine(nil), skipped...)
	})
}

// Complete marks the job as completed.
func (m *Manager) Complete(jobID, location string, tracks int) error {
	return m.update(jobID, func(job *Status) {
		if job.Done() {
			return
		}
		job.Status = StatusCompleted
		job.Progress = 100
		job.Message = "Conversion completed"
		job.Location = location
		job.Tracks = tracks
		job.finish()
	})
}

// Fail marks the job as failed unless it was already cancelled.
func (m *Manager) Fail(jobID string, err error) error {
	return m.update(jobID, func(job *Status) {
		if job.Done() {
			return
		}
		job.Status = StatusFailed
		job.Error = err.Error()
		job.Message = "Conversion failed"
		job.finish()
	})
}

// CancelJob cancels a job
func (m *Manager) CancelJob(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}

	if job.Status != StatusProcessing && job.Status != StatusPending {
		return fmt.Errorf("%w: %s", ErrInvalidState, job.Status)
	}

	job.cancelFunc()
	job.Status = StatusCancelled
	job.Message = "Job cancelled by user"
	job.finish()

	return nil
}

// ListJobs lists all jobs with pagination, oldest first
func (m *Manager) ListJobs(page, pageSize int) *Response {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	m.mu.RLock()
	jobs := make([]*Status, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job.snapshot())
	}
	m.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].seq < jobs[j].seq
	})

	resp := &Response{
		Jobs:       []*Status{},
		Page:       page,
		PageSize:   pageSize,
		TotalJobs:  len(jobs),
		TotalPages: (len(jobs) + pageSize - 1) / pageSize,
	}

	start := (page - 1) * pageSize
	if start >= len(jobs) {
		return resp
	}

	end := start + pageSize
	if end > len(jobs) {
		end = len(jobs)
	}
	resp.Jobs = jobs[start:end]
	return resp
}

func (m *Manager) update(jobID string, fn func(job *Status)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	fn(job)
	return nil
}

func (s *Status) finish() {
	endTime := time.Now()
	s.EndTime = &endTime
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
}

func (s *Status) snapshot() *Status {
	c := *s
	c.Events = append([]progress.Event(nil), s.Events...)
	c.Skipped = append([]SkippedLine(nil), s.Skipped...)
	if s.EndTime != nil {
		end := *s.EndTime
		c.EndTime = &end
	}
	c.cancelFunc = nil
	return &c
}
