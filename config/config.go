// Package config provides configuration loading and management for slidegraph.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/slidegraph/graph"
)

// Config represents the complete slidegraph configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Batch   BatchConfig   `yaml:"batch"`
	Header  HeaderConfig  `yaml:"header"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
	Log     LogConfig     `yaml:"log"`
}

// PathsConfig locates the input and output trees
type PathsConfig struct {
	// SlideDir holds the whole-slide images
	SlideDir string `yaml:"slide_dir"`
	// ResultsDir holds one prediction CSV per slide
	ResultsDir string `yaml:"results_dir"`
	// OutputDir receives one Turtle document per slide
	OutputDir string `yaml:"output_dir"`
}

// BatchConfig controls slide discovery and parallelism
type BatchConfig struct {
	// SlidePattern is the doublestar glob matching slide files
	SlidePattern string `yaml:"slide_pattern"`
	// Workers is the number of slides processed in parallel
	Workers int `yaml:"workers"`
	// Compress gzips output documents (.ttl.gz)
	Compress bool `yaml:"compress"`
	// NoFindingClass names the probability column excluded from emission
	NoFindingClass string `yaml:"no_finding_class"`
}

// HeaderConfig fills the provenance header of every document
type HeaderConfig struct {
	Creator     string `yaml:"creator"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Instrument is the URL of the model that produced the predictions
	Instrument string   `yaml:"instrument"`
	ORCID      string   `yaml:"orcid"`
	License    string   `yaml:"license"`
	Keywords   []string `yaml:"keywords"`
	Publishers []string `yaml:"publishers"`
}

// NATSConfig configures the completion-event publisher
type NATSConfig struct {
	// URL is the NATS server URL (empty = no announcements)
	URL string `yaml:"url"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address (empty = no endpoint)
	Addr string `yaml:"addr"`
}

// WatchConfig configures results-directory watching
type WatchConfig struct {
	// Debounce is how long a changed file must stay quiet before it
	// is processed
	Debounce time.Duration `yaml:"debounce"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Batch: BatchConfig{
			SlidePattern:   "*.{svs,tif,tiff,ndpi}",
			Workers:        8,
			Compress:       false,
			NoFindingClass: "notumor",
		},
		Watch: WatchConfig{
			Debounce: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid. Violations wrap
// graph.ErrConfig.
func (c *Config) Validate() error {
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("%w: batch.workers must be positive", graph.ErrConfig)
	}
	if c.Batch.SlidePattern == "" {
		return fmt.Errorf("%w: batch.slide_pattern is required", graph.ErrConfig)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level must be one of debug, info, warn, error", graph.ErrConfig)
	}
	for _, k := range c.Header.Keywords {
		if strings.Contains(k, ",") {
			return fmt.Errorf("%w: keyword %q contains a comma", graph.ErrConfig, k)
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative", graph.ErrConfig)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Paths
	if other.Paths.SlideDir != "" {
		c.Paths.SlideDir = other.Paths.SlideDir
	}
	if other.Paths.ResultsDir != "" {
		c.Paths.ResultsDir = other.Paths.ResultsDir
	}
	if other.Paths.OutputDir != "" {
		c.Paths.OutputDir = other.Paths.OutputDir
	}

	// Batch
	if other.Batch.SlidePattern != "" {
		c.Batch.SlidePattern = other.Batch.SlidePattern
	}
	if other.Batch.Workers != 0 {
		c.Batch.Workers = other.Batch.Workers
	}
	if other.Batch.Compress {
		c.Batch.Compress = true
	}
	if other.Batch.NoFindingClass != "" {
		c.Batch.NoFindingClass = other.Batch.NoFindingClass
	}

	// Header
	if other.Header.Creator != "" {
		c.Header.Creator = other.Header.Creator
	}
	if other.Header.Name != "" {
		c.Header.Name = other.Header.Name
	}
	if other.Header.Description != "" {
		c.Header.Description = other.Header.Description
	}
	if other.Header.Instrument != "" {
		c.Header.Instrument = other.Header.Instrument
	}
	if other.Header.ORCID != "" {
		c.Header.ORCID = other.Header.ORCID
	}
	if other.Header.License != "" {
		c.Header.License = other.Header.License
	}
	if len(other.Header.Keywords) > 0 {
		c.Header.Keywords = other.Header.Keywords
	}
	if len(other.Header.Publishers) > 0 {
		c.Header.Publishers = other.Header.Publishers
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
