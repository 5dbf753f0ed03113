package cache

import (
	"context"
	"time"
)

// noop is the disabled cache: every read misses, writes vanish.
type noop struct{}

// Noop returns a Cache that caches nothing. Used when the response cache is
// disabled in config.
func Noop() Cache { return noop{} }

func (noop) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (noop) Set(context.Context, string, []byte, time.Duration) {}

func (noop) Close() error { return nil }
