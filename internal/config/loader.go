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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if DRAIN_CONFIG is set
//  3. env (prefix DRAIN_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("DRAIN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: DRAIN_ADDR, DRAIN_CLEANINGS_CSV, ...
	// Map env keys like DRAIN_CLEANINGS_CSV -> cleanings_csv (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("DRAIN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "drain_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.CleaningsCSV == "":
		return nil, fmt.Errorf("%w: cleanings_csv must not be empty", ErrInvalidConfig)
	case cfg.TopVolunteersLimit < 1:
		return nil, fmt.Errorf("%w: top_volunteers_limit must be positive", ErrInvalidConfig)
	case cfg.ReloadIntervalSeconds < 0:
		return nil, fmt.Errorf("%w: reload_interval_seconds must not be negative", ErrInvalidConfig)
	case cfg.MaxMapPoints < 1:
		return nil, fmt.Errorf("%w: max_map_points must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
