package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary directory for test files
	tempDir := t.TempDir()

	// Create a test config file
	configPath := filepath.Join(tempDir, "test_config.yaml")
	configContent := `
log_level: -4
comment: "Made by hand"
output_file: mix.cue
encoding: windows-1252
max_concurrent_tasks: 2
defaults:
  performer: Some DJ
  album: Live Set
  audio_file: set.flac
  genre: Techno
  year: "2020"
storage:
  type: gcs
  gcs:
    bucket: sheets
    object_prefix: cue
web:
  selector: "#description"
  timeout: 5s
  max_retries: 3
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	// Test loading the config
	cfg, err := Load(configPath)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, -4, cfg.LogLevel)
	assert.Equal(t, "Made by hand", cfg.Comment)
	assert.Equal(t, "mix.cue", cfg.OutputFile)
	assert.Equal(t, "windows-1252", cfg.Encoding)
	assert.Equal(t, 2, cfg.MaxConcurrentTasks)
	assert.Equal(t, "Some DJ", cfg.Defaults.Performer)
	assert.Equal(t, "Live Set", cfg.Defaults.Title)
	assert.Equal(t, "set.flac", cfg.Defaults.AudioFile)
	assert.Equal(t, "Techno", cfg.Defaults.Genre)
	assert.Equal(t, "2020", cfg.Defaults.Year)
	assert.Equal(t, "Made by hand", cfg.Defaults.Comment)
	assert.Equal(t, "gcs", cfg.Storage.Type)
	assert.Equal(t, "sheets", cfg.Storage.GCS.Bucket)
	assert.Equal(t, "cue", cfg.Storage.GCS.ObjectPrefix)
	assert.Equal(t, "output", cfg.Storage.OutputDir)
	assert.Equal(t, "#description", cfg.Web.Selector)
	assert.Equal(t, 5*time.Second, cfg.Web.Timeout)
	assert.Equal(t, 3, cfg.Web.MaxRetries)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(""), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Unknown Artist", cfg.Defaults.Performer)
	assert.Equal(t, "Unknown Album", cfg.Defaults.Title)
	assert.Equal(t, "audio.wav", cfg.Defaults.AudioFile)
	assert.Equal(t, "Generated by tracklist-cue", cfg.Defaults.Comment)
	assert.Equal(t, "output.cue", cfg.OutputFile)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, 4, cfg.MaxConcurrentTasks)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "body", cfg.Web.Selector)
}

func TestLoadNonExistentFile(t *testing.T) {
	// Test loading a non-existent config file
	cfg, err := Load("non_existent_file.yaml")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	// Create a temporary directory for test files
	tempDir := t.TempDir()

	// Create an invalid YAML file
	configPath := filepath.Join(tempDir, "invalid_config.yaml")
	configContent := `
log_level: -4
invalid_yaml: [this is not valid yaml
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	// Test loading the invalid config
	cfg, err := Load(configPath)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, cfg)

	_, err = LoadOrDefault(configPath)
	assert.Error(t, err)
}
