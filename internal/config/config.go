// Package config provides configuration management for threaddigest.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/thebtf/threaddigest/pkg/hdbscan"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "THREADDIGEST_"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

// Config holds the application configuration.
type Config struct {
	// Clustering settings
	Cluster hdbscan.Config `yaml:"cluster" json:"cluster"`

	// Fallback picks heuristic representatives when clustering finds none.
	Fallback bool `yaml:"fallback" json:"fallback"`

	// Details adds per-cluster selection details to the output document.
	Details bool `yaml:"details" json:"details"`

	// Logging
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// ConfigDir returns the directory holding the default config file
// (~/.config/threaddigest).
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".threaddigest")
	}
	return filepath.Join(dir, "threaddigest")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Cluster:  hdbscan.DefaultConfig(),
		LogLevel: DefaultLogLevel,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// THREADDIGEST_* environment overrides. A missing file is not an error.
// An empty path means DefaultPath().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is user-supplied config location
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv maps THREADDIGEST_* variables onto cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "MIN_CLUSTER_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMIN_CLUSTER_SIZE: %w", EnvPrefix, err)
		}
		cfg.Cluster.MinClusterSize = n
	}
	if v, ok := lookup(EnvPrefix + "MIN_SAMPLES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMIN_SAMPLES: %w", EnvPrefix, err)
		}
		cfg.Cluster.MinSamples = n
	}
	if v, ok := lookup(EnvPrefix + "METRIC"); ok && v != "" {
		cfg.Cluster.Metric = hdbscan.Metric(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(EnvPrefix + "SELECTION_METHOD"); ok && v != "" {
		cfg.Cluster.SelectionMethod = hdbscan.SelectionMethod(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(EnvPrefix + "ALLOW_SINGLE_CLUSTER"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sALLOW_SINGLE_CLUSTER: %w", EnvPrefix, err)
		}
		cfg.Cluster.AllowSingleCluster = b
	}
	if v, ok := lookup(EnvPrefix + "FALLBACK"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sFALLBACK: %w", EnvPrefix, err)
		}
		cfg.Fallback = b
	}
	if v, ok := lookup(EnvPrefix + "DETAILS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDETAILS: %w", EnvPrefix, err)
		}
		cfg.Details = b
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate checks the clustering parameters and the log level.
func (c *Config) Validate() error {
	if err := c.Cluster.Validate(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level means DefaultLogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	name := c.LogLevel
	if name == "" {
		name = DefaultLogLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
