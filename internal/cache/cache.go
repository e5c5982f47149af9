// Package cache defines the low-level byte-oriented interface the
// remote Cache Structure backend is built against, so it can be
// exercised against a real Redis client or a fake in tests without
// either side depending on the other's concrete type.
package cache

import (
	"context"
	"time"
)

type Interface interface {
	MGet(ctx context.Context, keys []string) (map[string][]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
