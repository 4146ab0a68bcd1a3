package counter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis gives atomic cross-instance counters (INCR is atomic server-side),
// which the in-memory store cannot.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(addr string) *Redis {
	return &Redis{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *Redis) Incr(ctx context.Context, key string, resetAt time.Time) (int64, error) {
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 && !resetAt.IsZero() {
		// First hit in this window owns the expiry.
		_ = s.rdb.ExpireAt(ctx, key, resetAt).Err()
	}
	return n, nil
}

func (s *Redis) Get(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}
