// Package server exposes the converter over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaki95/tracklist-cue/config"
	"github.com/jaki95/tracklist-cue/internal/job"
	"github.com/jaki95/tracklist-cue/internal/service"
	"github.com/jaki95/tracklist-cue/internal/storage"
	"github.com/jaki95/tracklist-cue/internal/tracklist"
)

const shutdownTimeout = 10 * time.Second

// Server handles HTTP requests for the converter
type Server struct {
	cfg        *config.Config
	converter  *service.Converter
	storage    storage.Storage
	jobManager *job.Manager
	router     *gin.Engine

	// newWebSource builds the source for background jobs
	newWebSource func(url, selector string) tracklist.Source
}

// New creates a new HTTP server instance
func New(cfg *config.Config, converter *service.Converter, store storage.Storage) *Server {
	server := &Server{
		cfg:        cfg,
		converter:  converter,
		storage:    store,
		jobManager: job.NewManager(),
		router:     gin.New(),
		newWebSource: func(url, selector string) tracklist.Source {
			return service.NewWebSource(cfg, url, selector)
		},
	}

	server.setupRoutes(server.router)
	return server
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery(), requestLogger())

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/health", s.healthCheck)

	// API endpoints
	api := router.Group("/api/v1")
	{
		api.POST("/tracks", s.parseTracks)
		api.POST("/convert", s.convert)

		api.GET("/sheets", s.listSheets)
		api.GET("/sheets/*name", s.getSheet)

		api.POST("/jobs", s.createJob)
		api.GET("/jobs", s.listJobs)
		api.GET("/jobs/:id", s.getJob)
		api.DELETE("/jobs/:id", s.cancelJob)
	}
}

// Handler returns the router, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
