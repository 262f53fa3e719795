package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jaki95/tracklist-cue/config"
)

var (
	ErrInvalidName        = errors.New("invalid object name")
	ErrUnknownStorageType = errors.New("unknown storage type")
)

// Storage defines the interface for persisting rendered CUE sheets.
// Names are slash separated and relative to the storage root.
type Storage interface {
	// Save writes content under name and returns where it ended up.
	Save(ctx context.Context, name string, content []byte) (string, error)

	Open(ctx context.Context, name string) (io.ReadCloser, error)

	Exists(ctx context.Context, name string) (bool, error)

	// List returns the names of stored sheets starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	Close() error
}

// New builds the storage backend selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.OutputDir)
	case "gcs":
		return NewGCSStorage(ctx, cfg.GCS.Bucket, cfg.GCS.ObjectPrefix, cfg.GCS.CredentialsFile)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageType, cfg.Type)
	}
}

func cleanName(name string) (string, error) {
	name = filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
	if name == "." || !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}
