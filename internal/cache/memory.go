package cache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	val     []byte
	expires time.Time
}

// Memory is the single-instance fallback when no redis address is
// configured. Expired entries are dropped lazily on read.
type Memory struct {
	mu sync.Mutex
	m  map[string]memEntry
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]memEntry)}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.m, key)
		return nil, false
	}
	return e.val, true
}

func (c *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.m[key] = memEntry{val: val, expires: time.Now().Add(ttl)}
	c.mu.Unlock()
}
