package types

import (
	"context"
	"time"

	"scout-engine/internal/domain"
)

// FetchResult is what one source contributes to an aggregation.
type FetchResult struct {
	Source  string
	Records []domain.RawRecord
}

// Fetcher is one upstream origin: a JSON API, an RSS feed, an HTML board,
// or a headless-browser scrape. Fetch returns whatever it could extract;
// a broken upstream yields an empty result, not a fatal error, so the
// aggregator only ever loses one source at a time.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, query string) (FetchResult, error)
}

// SlowFetcher is a Fetcher that needs more time than the aggregator's
// default fetch window. Headless rendering is the current case; a zero
// Timeout keeps the default.
type SlowFetcher interface {
	Fetcher
	Timeout() time.Duration
}
