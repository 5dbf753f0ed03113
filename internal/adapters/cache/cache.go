// Package cache provides the best-effort TTL response cache.
//
// The cache is a side channel: a read miss or a write failure must never
// block or fail the core computation. Both methods are therefore total —
// internal errors are logged and counted, never returned.
package cache

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/svyas/admitcast/pkg/logger"
	"github.com/svyas/admitcast/pkg/metrics"
)

// Cache is the fail-open key-value collaborator.
type Cache interface {
	// Get returns the cached value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with a TTL. Best-effort; entries are
	// immutable once written and expire by TTL only. Concurrent writers of
	// the same key race harmlessly (last-write-wins, idempotent).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	Close() error
}

// badgerCache implements Cache on a badger key-value store, in-memory
// unless a directory is configured.
type badgerCache struct {
	db  *badger.DB
	log logger.Logger
	dir string
}

// New opens the badger-backed cache.
func New(opts ...Option) (Cache, error) {
	c := &badgerCache{}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("cache")
	}

	options := badger.DefaultOptions(c.dir).WithLogger(nil)
	if c.dir == "" {
		options = options.WithInMemory(true)
	}
	db, err := badger.Open(options)
	if err != nil {
		return nil, err
	}
	c.db = db
	return c, nil
}

func (c *badgerCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	switch {
	case err == nil:
		metrics.RecordCacheHit()
		return value, true
	case errors.Is(err, badger.ErrKeyNotFound):
		metrics.RecordCacheMiss()
		return nil, false
	default:
		// Degrade to a miss; a cache failure never becomes a wrong answer.
		metrics.RecordCacheReadError()
		c.log.Warn(ctx, "cache read failed", logger.Error(err))
		return nil, false
	}
}

func (c *badgerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		metrics.RecordCacheWriteError()
		c.log.Warn(ctx, "cache write failed", logger.Error(err))
	}
}

func (c *badgerCache) Close() error {
	return c.db.Close()
}
