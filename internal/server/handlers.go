package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaki95/tracklist-cue/internal/service"
	"github.com/jaki95/tracklist-cue/internal/tracklist"
)

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "tracklist-cue",
	})
}

// parseTracks extracts the tracks of a listing without rendering a sheet
func (s *Server) parseTracks(c *gin.Context) {
	var req TracksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	parsed, err := s.converter.Parse(c.Request.Context(), tracklist.NewTextSource(req.Tracklist, "request"), nil)
	if err != nil {
		s.writeParseError(c, parsed, err)
		return
	}

	c.JSON(http.StatusOK, TracksResponse{
		Tracks:  parsed.Tracks,
		Skipped: skippedLines(parsed.Skipped),
	})
}

// convert renders a listing into a CUE sheet and optionally stores it
func (s *Server) convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	parsed, err := s.converter.Parse(ctx, tracklist.NewTextSource(req.Tracklist, "request"), nil)
	if err != nil {
		s.writeParseError(c, parsed, err)
		return
	}

	res, err := s.converter.Render(ctx, parsed, service.Request{
		Album:  req.Album,
		Output: req.Output,
		Save:   req.Save,
	})
	if err != nil {
		slog.Error("Conversion failed", "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ConvertResponse{
		Name:     res.Name,
		Cue:      res.Sheet,
		Album:    res.Album,
		Tracks:   res.Tracks,
		Skipped:  skippedLines(res.Skipped),
		Location: res.Location,
	})
}

func (s *Server) writeParseError(c *gin.Context, parsed *service.Parsed, err error) {
	resp := ErrorResponse{Error: err.Error()}
	if parsed != nil && errors.Is(err, tracklist.ErrNoTracksFound) {
		resp.Skipped = skippedLines(parsed.Skipped)
	}
	c.JSON(statusFor(err), resp)
}
