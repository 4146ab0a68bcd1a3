package counter

import (
	"context"
	"time"
)

// Store is the injected counter abstraction behind daily budgets and
// per-caller rate windows. Callers bake the window into the key (one key
// per UTC day, per minute bucket, etc.) and pass the moment the window
// ends; the store may evict the counter any time after that. A zero
// resetAt means the counter never expires.
//
// The memory backend is only consistent within one process; that limit is
// inherent to single-instance deployments, and the redis backend exists
// for the multi-instance case.
type Store interface {
	Incr(ctx context.Context, key string, resetAt time.Time) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
}

// DayKey returns the UTC day bucket for a base key and when it resets.
func DayKey(base string, now time.Time) (string, time.Time) {
	now = now.UTC()
	key := base + ":" + now.Format("2006-01-02")
	reset := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return key, reset
}

// MinuteKey returns the per-minute bucket for a base key and when it resets.
func MinuteKey(base string, now time.Time) (string, time.Time) {
	now = now.UTC()
	key := base + ":" + now.Format("2006-01-02T15:04")
	reset := now.Truncate(time.Minute).Add(time.Minute)
	return key, reset
}
