package counter

import (
	"context"
	"sync"
	"time"
)

type memCounter struct {
	n       int64
	resetAt time.Time // zero means never expires
}

// Memory keeps counters in process memory. Fine for one instance; counts
// are not shared across replicas.
type Memory struct {
	mu sync.Mutex
	m  map[string]*memCounter
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]*memCounter)}
}

func (s *Memory) Incr(_ context.Context, key string, resetAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(key)
	if c == nil {
		c = &memCounter{resetAt: resetAt}
		s.m[key] = c
	}
	c.n++
	return c.n, nil
}

func (s *Memory) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(key)
	if c == nil {
		return 0, nil
	}
	return c.n, nil
}

// live returns the counter, evicting it if its window has passed.
// Callers hold the lock.
func (s *Memory) live(key string) *memCounter {
	c, ok := s.m[key]
	if !ok {
		return nil
	}
	if !c.resetAt.IsZero() && time.Now().After(c.resetAt) {
		delete(s.m, key)
		return nil
	}
	return c
}
