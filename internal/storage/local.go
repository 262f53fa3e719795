package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStorage implements the Storage interface for local filesystem
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a new local storage rooted at outputDir
func NewLocalStorage(outputDir string) (*LocalStorage, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	return &LocalStorage{outputDir: outputDir}, nil
}

// Dir returns the root directory of the storage.
func (s *LocalStorage) Dir() string {
	return s.outputDir
}

func (s *LocalStorage) path(name string) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.outputDir, filepath.FromSlash(name)), nil
}

// Save writes the sheet to disk, creating parent directories as needed
func (s *LocalStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Open returns a reader for the specified sheet
func (s *LocalStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Exists checks if a sheet exists
func (s *LocalStorage) Exists(ctx context.Context, name string) (bool, error) {
	path, err := s.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// List walks the output directory and returns the sheets matching prefix
func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var results []string
	err := filepath.WalkDir(s.outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.outputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		// Match pattern (simple prefix for now)
		if prefix != "" && !strings.HasPrefix(rel, prefix) {
			return nil
		}
		results = append(results, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	sort.Strings(results)
	return results, nil
}

func (s *LocalStorage) Close() error {
	return nil
}
