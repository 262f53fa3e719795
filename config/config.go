package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jaki95/tracklist-cue/internal/domain"
)

const DefaultPath = "./config/config.yaml"

type Config struct {
	LogLevel           int    `yaml:"log_level"`
	Comment            string `yaml:"comment"`
	OutputFile         string `yaml:"output_file"`
	Encoding           string `yaml:"encoding"`
	MaxConcurrentTasks int    `yaml:"max_concurrent_tasks"`

	Defaults domain.Album  `yaml:"defaults"`
	Server   ServerConfig  `yaml:"server"`
	Storage  StorageConfig `yaml:"storage"`
	Web      WebConfig     `yaml:"web"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Type of storage: "local" or "gcs"
	Type string `yaml:"type"`

	// Local storage options
	OutputDir string `yaml:"output_dir"`

	GCS GCSConfig `yaml:"gcs"`
}

type GCSConfig struct {
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

type WebConfig struct {
	Selector   string        `yaml:"selector"`
	UserAgent  string        `yaml:"user_agent"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	CacheDir   string        `yaml:"cache_dir"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	config.setDefaults()
	return config, nil
}

// LoadOrDefault behaves like Load but falls back to the defaults when the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Comment == "" {
		c.Comment = "Generated by tracklist-cue"
	}
	if c.OutputFile == "" {
		c.OutputFile = "output.cue"
	}
	if c.Encoding == "" {
		c.Encoding = "utf-8"
	}
	if c.MaxConcurrentTasks == 0 {
		c.MaxConcurrentTasks = 4
	}

	if c.Defaults.Performer == "" {
		c.Defaults.Performer = "Unknown Artist"
	}
	if c.Defaults.Title == "" {
		c.Defaults.Title = "Unknown Album"
	}
	if c.Defaults.AudioFile == "" {
		c.Defaults.AudioFile = "audio.wav"
	}
	if c.Defaults.Comment == "" {
		c.Defaults.Comment = c.Comment
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}

	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "output"
	}

	if c.Web.Selector == "" {
		c.Web.Selector = "body"
	}
	if c.Web.Timeout == 0 {
		c.Web.Timeout = 30 * time.Second
	}
}
