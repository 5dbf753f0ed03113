package cache

import "github.com/svyas/admitcast/pkg/logger"

// Option applies a configuration option to the badger cache.
type Option func(*badgerCache)

// WithDir stores cache entries on disk under dir instead of in memory.
func WithDir(dir string) Option {
	return func(c *badgerCache) {
		c.dir = dir
	}
}

// WithLogger sets a custom logger for the cache.
func WithLogger(l logger.Logger) Option {
	return func(c *badgerCache) {
		if l != nil {
			c.log = l
		}
	}
}
