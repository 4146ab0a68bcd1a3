package cache

import (
	"context"
	"time"
)

// Cache is an opaque get/set with TTL. Both operations are best-effort from
// the aggregator's point of view: a miss or a failed store just means
// recomputing.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}
