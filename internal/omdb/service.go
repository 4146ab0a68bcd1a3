package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"scout-engine/internal/counter"
)

var (
	// ErrNoServerKey: no OMDb key configured server-side (503).
	ErrNoServerKey = errors.New("omdb api key not configured")
	// ErrBadCallerKey: caller key gate enabled and the header didn't match (401).
	ErrBadCallerKey = errors.New("invalid api key")
	// ErrBudgetExceeded: daily upstream budget burned (429, no upstream call).
	ErrBudgetExceeded = errors.New("daily request budget exceeded")
	// ErrMissingParams: the caller supplied none of t, s, i (400).
	ErrMissingParams = errors.New("one of t, s or i is required")
)

// RateLimitedError carries the Retry-After for 429 responses.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// Params is the caller's query: exactly one of Title/Search/ID is expected;
// the service forwards whichever are set.
type Params struct {
	Title  string // t
	Search string // s
	ID     string // i
}

func (p Params) empty() bool {
	return p.Title == "" && p.Search == "" && p.ID == ""
}

// UsageStats is the counters-only view behind usage=1. Reading it never
// touches the upstream or the daily counter.
type UsageStats struct {
	Today    int64  `json:"today"`
	Budget   int    `json:"budget"`
	Total    int64  `json:"total"`
	ResetsAt string `json:"resetsAt"`
}

// Service wraps the OMDb client with the call policy: caller key gate,
// per-caller rate window, daily budget with UTC-midnight reset.
type Service struct {
	Client        *Client
	Counters      counter.Store
	APIKey        func() string // resolved lazily so key rotation needs no restart
	CallerKey     string        // empty disables the gate
	Budget        int
	RatePerMinute int

	Now func() time.Time // tests pin this
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) Usage(ctx context.Context) (UsageStats, error) {
	now := s.now()
	dayKey, reset := counter.DayKey("omdb:daily", now)

	today, err := s.Counters.Get(ctx, dayKey)
	if err != nil {
		return UsageStats{}, err
	}
	total, err := s.Counters.Get(ctx, "omdb:total")
	if err != nil {
		return UsageStats{}, err
	}
	return UsageStats{
		Today:    today,
		Budget:   s.Budget,
		Total:    total,
		ResetsAt: reset.Format(time.RFC3339),
	}, nil
}

// Lookup enforces the policy, calls upstream, and reshapes OMDb's
// Response:"False" convention into {"error": "Not found"} — still a
// successful proxy response, not a server failure.
func (s *Service) Lookup(ctx context.Context, caller string, p Params) (map[string]any, error) {
	apiKey := s.APIKey()
	if apiKey == "" {
		return nil, ErrNoServerKey
	}
	if p.empty() {
		return nil, ErrMissingParams
	}

	now := s.now()

	if s.RatePerMinute > 0 {
		rateKey, reset := counter.MinuteKey("omdb:rate:"+callerID(caller), now)
		n, err := s.Counters.Incr(ctx, rateKey, reset)
		if err != nil {
			return nil, err
		}
		if n > int64(s.RatePerMinute) {
			return nil, &RateLimitedError{RetryAfter: reset.Sub(now)}
		}
	}

	dayKey, reset := counter.DayKey("omdb:daily", now)
	used, err := s.Counters.Get(ctx, dayKey)
	if err != nil {
		return nil, err
	}
	if s.Budget > 0 && used >= int64(s.Budget) {
		return nil, ErrBudgetExceeded
	}

	q := url.Values{}
	if p.Title != "" {
		q.Set("t", p.Title)
	}
	if p.Search != "" {
		q.Set("s", p.Search)
	}
	if p.ID != "" {
		q.Set("i", p.ID)
	}

	payload, err := s.Client.Query(ctx, apiKey, q)
	if err != nil {
		return nil, err
	}

	// Count only calls that reached the upstream.
	if _, err := s.Counters.Incr(ctx, dayKey, reset); err != nil {
		return nil, err
	}
	if _, err := s.Counters.Incr(ctx, "omdb:total", time.Time{}); err != nil {
		return nil, err
	}

	if resp, ok := payload["Response"].(string); ok && strings.EqualFold(resp, "False") {
		return map[string]any{"error": "Not found"}, nil
	}
	return payload, nil
}

// CheckCallerKey applies the optional caller key gate.
func (s *Service) CheckCallerKey(got string) error {
	if s.CallerKey == "" {
		return nil
	}
	if got != s.CallerKey {
		return ErrBadCallerKey
	}
	return nil
}

func callerID(caller string) string {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return "anon"
	}
	return caller
}
