package server

import (
	"errors"
	"net/http"

	"github.com/jaki95/tracklist-cue/internal/job"
	"github.com/jaki95/tracklist-cue/internal/storage"
	"github.com/jaki95/tracklist-cue/internal/tracklist"
)

var ErrSheetNotFound = errors.New("sheet not found")

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tracklist.ErrNoTracksFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, ErrSheetNotFound), errors.Is(err, job.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, job.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
