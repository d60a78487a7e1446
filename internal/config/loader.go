package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix = "MEMTREE_"
	EnvConfig = EnvPrefix + "CONFIG"
)

// Load layers, lowest precedence first: defaults from New, the YAML file
// named by MEMTREE_CONFIG (if set), then MEMTREE_* variables.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, os.Getenv(EnvConfig))
}

// LoadFrom is Load with an explicit file path. An empty path skips the file layer.
func LoadFrom(_ context.Context, path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MEMTREE_WORKER_COUNT -> worker_count. Keys are flat, so underscores stay.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
