// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/memtree/internal/domain/distance"
)

// Config contains process configuration shared by the server and the CLI.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// TreePath points at a YAML/JSON hierarchy file. Empty uses the built-in tree.
	TreePath string `koanf:"tree_path"`

	// DefaultMetric is used when a request names none.
	DefaultMetric string `koanf:"default_metric"`

	// RecommendLimit is the list size when a request gives no limit.
	RecommendLimit int `koanf:"recommend_limit"`

	// MaxRecommendLimit caps GET /users/{name}/recommendations?limit.
	MaxRecommendLimit int `koanf:"max_recommend_limit"`

	// WorkerCount sets the number of ranking workers; zero picks a CPU-based default.
	WorkerCount int `koanf:"worker_count"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		TreePath:          "",
		DefaultMetric:     distance.Euclidean.String(),
		RecommendLimit:    10,
		MaxRecommendLimit: 100,
		WorkerCount:       0,
	}
}

// Metric returns the parsed default metric.
func (c *Config) Metric() distance.Metric {
	m, err := distance.ParseMetric(c.DefaultMetric)
	if err != nil {
		return distance.Euclidean
	}
	return m
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := distance.ParseMetric(c.DefaultMetric); err != nil {
		return fmt.Errorf("%w: default_metric: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q must be text or json", ErrInvalidConfig, c.LogFormat)
	}
	if c.RecommendLimit < 1 {
		return fmt.Errorf("%w: recommend_limit must be positive", ErrInvalidConfig)
	}
	if c.MaxRecommendLimit < 1 {
		return fmt.Errorf("%w: max_recommend_limit must be positive", ErrInvalidConfig)
	}
	if c.RecommendLimit > c.MaxRecommendLimit {
		return fmt.Errorf("%w: recommend_limit %d exceeds max_recommend_limit %d",
			ErrInvalidConfig, c.RecommendLimit, c.MaxRecommendLimit)
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("%w: worker_count must not be negative", ErrInvalidConfig)
	}
	return nil
}
