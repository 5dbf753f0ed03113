// Package repository defines the cutoff store interface and errors.
package repository

import "github.com/svyas/admitcast/pkg/logger"

// Option applies a configuration option to the PostgresStore.
type Option func(*PostgresStore)

// WithMaxOpenConns bounds the connection pool size.
func WithMaxOpenConns(n int) Option {
	return func(s *PostgresStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns bounds the idle connection count.
func WithMaxIdleConns(n int) Option {
	return func(s *PostgresStore) {
		if n > 0 {
			s.maxIdleConns = n
		}
	}
}

// WithPingRetries sets how many times startup pings the database before
// giving up.
func WithPingRetries(n int) Option {
	return func(s *PostgresStore) {
		if n > 0 {
			s.pingRetries = n
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *PostgresStore) {
		if l != nil {
			s.log = l
		}
	}
}
