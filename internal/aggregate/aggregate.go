package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"scout-engine/internal/cache"
	"scout-engine/internal/domain"
	"scout-engine/internal/normalize"
	"scout-engine/internal/rank"
	"scout-engine/internal/source/types"
)

// Request is one aggregation call, already parsed but not yet clamped.
type Request struct {
	Query string
	Days  int
	Limit int
	Force bool // bypass the cache read
}

// Response is the aggregator's JSON contract.
type Response struct {
	Query        string           `json:"query"`
	Days         int              `json:"days"`
	Limit        int              `json:"limit"`
	Count        int              `json:"count"`
	Sources      []string         `json:"sources"`
	SourceCounts map[string]int   `json:"sourceCounts"`
	Cached       bool             `json:"cached"`
	GeneratedAt  time.Time        `json:"generatedAt"`
	Listings     []domain.Listing `json:"listings"`
}

// Limits are the server-side clamps for caller-supplied parameters.
type Limits struct {
	DefaultDays  int
	MaxDays      int
	DefaultLimit int
	MaxLimit     int
}

// Aggregator fans out to every configured fetcher, merges what came back in
// fetcher order, and runs the rank/filter/dedup pipeline. Every fetch is
// best-effort: one dead source loses only its own listings.
type Aggregator struct {
	Fetchers []types.Fetcher
	Scorer   rank.Scorer
	Limits   Limits

	Cache cache.Cache // nil disables caching
	TTL   time.Duration

	FetchTimeout time.Duration // slow fetchers override this via types.SlowFetcher

	Now func() time.Time
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Clamp applies defaults and ceilings to the caller's parameters.
func (a *Aggregator) Clamp(req Request) Request {
	if req.Days <= 0 {
		req.Days = a.Limits.DefaultDays
	}
	if a.Limits.MaxDays > 0 && req.Days > a.Limits.MaxDays {
		req.Days = a.Limits.MaxDays
	}
	if req.Limit <= 0 {
		req.Limit = a.Limits.DefaultLimit
	}
	if a.Limits.MaxLimit > 0 && req.Limit > a.Limits.MaxLimit {
		req.Limit = a.Limits.MaxLimit
	}
	return req
}

func (a *Aggregator) Run(ctx context.Context, req Request) (Response, error) {
	req = a.Clamp(req)
	key := cacheKey(req)

	if a.Cache != nil && !req.Force {
		if b, ok := a.Cache.Get(ctx, key); ok {
			var resp Response
			if err := json.Unmarshal(b, &resp); err == nil {
				resp.Cached = true
				return resp, nil
			}
		}
	}

	merged := a.fetchAll(ctx, req.Query)

	now := a.now()
	listings := normalize.Records(merged, now)
	listings = rank.Pipeline(a.Scorer, listings, rank.Options{
		Days:  req.Days,
		Limit: req.Limit,
		Now:   now,
	})

	resp := Response{
		Query:        req.Query,
		Days:         req.Days,
		Limit:        req.Limit,
		Count:        len(listings),
		GeneratedAt:  now,
		Listings:     listings,
		Sources:      []string{},
		SourceCounts: map[string]int{},
	}
	for _, l := range listings {
		if resp.SourceCounts[l.Source] == 0 {
			resp.Sources = append(resp.Sources, l.Source)
		}
		resp.SourceCounts[l.Source]++
	}

	if a.Cache != nil {
		if b, err := json.Marshal(resp); err == nil {
			a.Cache.Set(ctx, key, b, a.TTL)
		}
	}
	return resp, nil
}

// fetchAll runs every fetcher concurrently with its own timeout and its own
// failure domain, then merges results in configured fetcher order so the
// same inputs always produce the same merge order (first-occurrence dedup
// depends on this).
func (a *Aggregator) fetchAll(ctx context.Context, query string) []domain.RawRecord {
	results := make([]types.FetchResult, len(a.Fetchers))

	var g errgroup.Group
	for i, f := range a.Fetchers {
		i, f := i, f
		g.Go(func() error {
			timeout := a.FetchTimeout
			if sf, ok := f.(types.SlowFetcher); ok {
				if d := sf.Timeout(); d > 0 {
					timeout = d
				}
			}
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			res, err := f.Fetch(fctx, query)
			if err != nil {
				log.Printf("[%s] fetch error: %v", f.Name(), err)
				return nil // best-effort: don't cancel siblings
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var merged []domain.RawRecord
	for _, res := range results {
		merged = append(merged, res.Records...)
	}
	return merged
}

func cacheKey(req Request) string {
	return fmt.Sprintf("jobs:%s:%d:%d", req.Query, req.Days, req.Limit)
}
