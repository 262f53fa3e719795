package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/jaki95/tracklist-cue/config"
	"github.com/jaki95/tracklist-cue/internal/server"
	"github.com/jaki95/tracklist-cue/internal/service"
	"github.com/jaki95/tracklist-cue/internal/storage"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the YAML configuration")
	port := flag.String("port", "", "Server port (overrides server.port)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)
	if slog.Level(cfg.LogLevel) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to create storage", "type", cfg.Storage.Type, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := server.New(cfg, service.NewConverter(cfg, store), store)

	slog.Info("Starting tracklist-cue API server", "port", cfg.Server.Port, "storage", cfg.Storage.Type)
	if err := srv.Start(ctx, cfg.Server.Port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
