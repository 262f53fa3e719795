package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/tracklist-cue/internal/domain"
	"github.com/jaki95/tracklist-cue/internal/job"
	"github.com/jaki95/tracklist-cue/internal/progress"
)

func newListingPage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><head><title>Sunday Session</title></head><body><div id="description">%s</div></body></html>`, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitForJob(t *testing.T, server *testServer, jobID string) *job.Status {
	t.Helper()

	var status *job.Status
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID, nil)
		rr := httptest.NewRecorder()
		server.Handler().ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			return false
		}
		var current job.Status
		if err := json.Unmarshal(rr.Body.Bytes(), &current); err != nil {
			return false
		}
		status = &current
		return status.Done()
	}, 5*time.Second, 20*time.Millisecond)
	return status
}

func TestJobLifecycle(t *testing.T) {
	page := newListingPage(t, "Tracklist:<br>0:00 Intro<br>3:30 Second Song<br>Third Song 7:15")
	server := newTestServer(t)

	rr := server.do(t, http.MethodPost, "/api/v1/jobs", JobRequest{
		URL:      page.URL,
		Selector: "#description",
		Album:    domain.Album{Performer: "DJ"},
		Output:   "sunday",
	})
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	accepted := decode[JobResponse](t, rr)
	require.NotEmpty(t, accepted.JobID)
	assert.Equal(t, job.StatusPending, accepted.Status)

	status := waitForJob(t, server, accepted.JobID)
	require.Equal(t, job.StatusCompleted, status.Status, status.Error)
	assert.Equal(t, 3, status.Tracks)
	assert.Equal(t, float64(100), status.Progress)
	assert.Equal(t, page.URL, status.Source)
	assert.Equal(t, []job.SkippedLine{
		{Line: 1, Text: "Tracklist:", Reason: "no structural match"},
	}, status.Skipped)

	var stages []progress.Stage
	for _, e := range status.Events {
		stages = append(stages, e.Stage)
	}
	assert.Equal(t, []progress.Stage{
		progress.StageImporting,
		progress.StageParsing,
		progress.StageRendering,
		progress.StageSaving,
		progress.StageComplete,
	}, stages)

	data, err := os.ReadFile(status.Location)
	require.NoError(t, err)
	assert.Contains(t, string(data), `TITLE "Sunday Session"`)
	assert.Contains(t, string(data), `PERFORMER "DJ"`)
	assert.Contains(t, string(data), "INDEX 01 07:15:00")

	// Finished jobs cannot be cancelled
	rr = server.do(t, http.MethodDelete, "/api/v1/jobs/"+accepted.JobID, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestJobFailure(t *testing.T) {
	page := newListingPage(t, "nothing useful here")
	server := newTestServer(t)

	rr := server.do(t, http.MethodPost, "/api/v1/jobs", JobRequest{URL: page.URL, Selector: "#description"})
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	status := waitForJob(t, server, decode[JobResponse](t, rr).JobID)
	assert.Equal(t, job.StatusFailed, status.Status)
	assert.Contains(t, status.Error, "no valid timestamps found")
	require.Len(t, status.Skipped, 1)
	assert.Equal(t, "nothing useful here", status.Skipped[0].Text)
	assert.Equal(t, "no structural match", status.Skipped[0].Reason)
}

func TestJobValidation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing url", JobRequest{}},
		{"not a url", JobRequest{URL: "not a url"}},
		{"invalid json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := server.do(t, http.MethodPost, "/api/v1/jobs", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestJobNotFound(t *testing.T) {
	server := newTestServer(t)

	rr := server.do(t, http.MethodGet, "/api/v1/jobs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = server.do(t, http.MethodDelete, "/api/v1/jobs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCancelJob(t *testing.T) {
	server := newTestServer(t)

	// Registered directly so the job stays pending
	status, ctx := server.jobManager.CreateJob(context.Background(), "https://example.com")

	rr := server.do(t, http.MethodDelete, "/api/v1/jobs/"+status.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Error(t, ctx.Err())

	rr = server.do(t, http.MethodGet, "/api/v1/jobs/"+status.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, job.StatusCancelled, decode[*job.Status](t, rr).Status)
}

func TestListJobs(t *testing.T) {
	server := newTestServer(t)
	for i := 0; i < 3; i++ {
		server.jobManager.CreateJob(context.Background(), fmt.Sprintf("https://example.com/%d", i))
	}

	rr := server.do(t, http.MethodGet, "/api/v1/jobs?page=1&pageSize=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[job.Response](t, rr)
	assert.Len(t, resp.Jobs, 2)
	assert.Equal(t, 3, resp.TotalJobs)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, "https://example.com/0", resp.Jobs[0].Source)
}
