package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const cueContentType = "application/x-cue"

// listSheets lists the stored sheets, optionally filtered by prefix
func (s *Server) listSheets(c *gin.Context) {
	sheets, err := s.storage.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		slog.Error("Failed to list sheets", "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	if sheets == nil {
		sheets = []string{}
	}
	c.JSON(http.StatusOK, SheetsResponse{Sheets: sheets})
}

// getSheet serves a stored sheet as a download
func (s *Server) getSheet(c *gin.Context) {
	ctx := c.Request.Context()
	name := strings.TrimPrefix(c.Param("name"), "/")

	exists, err := s.storage.Exists(ctx, name)
	if err == nil && !exists {
		err = fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	rc, err := s.storage.Open(ctx, name)
	if err != nil {
		slog.Error("Failed to open sheet", "name", name, "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	defer rc.Close()

	// Read fully before writing headers so a failing read still yields JSON
	data, err := io.ReadAll(rc)
	if err != nil {
		slog.Error("Failed to read sheet", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(name)))
	c.Data(http.StatusOK, cueContentType, data)
}
