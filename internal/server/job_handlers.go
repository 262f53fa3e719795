package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jaki95/tracklist-cue/internal/job"
	"github.com/jaki95/tracklist-cue/internal/progress"
	"github.com/jaki95/tracklist-cue/internal/service"
)

// createJob queues a conversion of a web page listing
func (s *Server) createJob(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	// Jobs outlive the request
	status, ctx := s.jobManager.CreateJob(context.Background(), req.URL)
	go s.runJob(ctx, status.ID, req)

	c.JSON(http.StatusAccepted, JobResponse{
		JobID:   status.ID,
		Status:  status.Status,
		Message: "Conversion started",
	})
}

// runJob performs a queued conversion and records its outcome
func (s *Server) runJob(ctx context.Context, jobID string, req JobRequest) {
	pt := progress.NewProgressTracker()
	pt.AddListener(func(e progress.Event) {
		// per-line updates would flood the event history
		if e.LineDetails != nil {
			return
		}
		if err := s.jobManager.Record(jobID, e); err != nil {
			slog.Warn("Failed to record job progress", "jobId", jobID, "error", err)
		}
	})

	parsed, err := s.converter.Parse(ctx, s.newWebSource(req.URL, req.Selector), pt)
	if parsed != nil {
		_ = s.jobManager.RecordSkipped(jobID, skippedLines(parsed.Skipped))
	}
	if err != nil {
		slog.Error("Job failed", "jobId", jobID, "error", err)
		_ = s.jobManager.Fail(jobID, err)
		return
	}

	res, err := s.converter.Render(ctx, parsed, service.Request{
		Album:    req.Album,
		Output:   req.Output,
		Save:     true,
		Progress: pt,
	})
	if err != nil {
		slog.Error("Job failed", "jobId", jobID, "error", err)
		_ = s.jobManager.Fail(jobID, err)
		return
	}

	slog.Info("Job completed", "jobId", jobID, "location", res.Location, "tracks", len(res.Tracks))
	_ = s.jobManager.Complete(jobID, res.Location, len(res.Tracks))
}

// getJob returns the status of a job
func (s *Server) getJob(c *gin.Context) {
	status, err := s.jobManager.GetJob(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// listJobs returns a page of jobs
func (s *Server) listJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(job.DefaultPageSize)))

	c.JSON(http.StatusOK, s.jobManager.ListJobs(page, pageSize))
}

// cancelJob cancels a pending or processing job
func (s *Server) cancelJob(c *gin.Context) {
	jobID := c.Param("id")
	if err := s.jobManager.CancelJob(jobID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Job cancelled"})
}
