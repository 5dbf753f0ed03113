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
//  1. defaults (New(ctx))
//  2. file (YAML) if ADMITCAST_CONFIG is set
//  3. env (prefix ADMITCAST_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ADMITCAST_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ADMITCAST_ADDR, ADMITCAST_DATABASE_URL, ...
	// Map env keys like ADMITCAST_CACHE_TTL_SECONDS -> cache_ttl_seconds.
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ADMITCAST_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "admitcast_")
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
	case cfg.DatabaseURL == "":
		return nil, fmt.Errorf("%w: database_url must not be empty", ErrInvalidConfig)
	case cfg.CandidateLimit < 1:
		return nil, fmt.Errorf("%w: candidate_limit must be positive", ErrInvalidConfig)
	case cfg.MaxCandidateLimit < cfg.CandidateLimit:
		return nil, fmt.Errorf("%w: max_candidate_limit must be >= candidate_limit", ErrInvalidConfig)
	case cfg.CacheTTLSeconds < 1:
		return nil, fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	case cfg.ProjectionYears < 1:
		return nil, fmt.Errorf("%w: projection_years must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
