// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL is the lib/pq DSN for the cutoff store.
	DatabaseURL string `koanf:"database_url"`

	// DBMaxOpenConns and DBMaxIdleConns bound the connection pool.
	DBMaxOpenConns int `koanf:"db_max_open_conns"`
	DBMaxIdleConns int `koanf:"db_max_idle_conns"`

	// CandidateLimit is the default number of rows fetched per predict call.
	CandidateLimit int `koanf:"candidate_limit"`

	// MaxCandidateLimit caps GET /predict?limit.
	MaxCandidateLimit int `koanf:"max_candidate_limit"`

	// CacheEnabled toggles the response cache.
	CacheEnabled bool `koanf:"cache_enabled"`

	// CacheTTLSeconds sets the response cache entry TTL.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CacheDir points badger at a directory; empty runs in-memory.
	CacheDir string `koanf:"cache_dir"`

	// ProjectionYears is the number of recent years used by the projector.
	ProjectionYears int `koanf:"projection_years"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DatabaseURL:       "postgres://localhost:5432/admitcast?sslmode=disable",
		DBMaxOpenConns:    16,
		DBMaxIdleConns:    8,
		CandidateLimit:    500,
		MaxCandidateLimit: 2000,
		CacheEnabled:      true,
		CacheTTLSeconds:   600,
		CacheDir:          "",
		ProjectionYears:   5,
	}
	return c
}
