package rss

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"scout-engine/internal/domain"
	"scout-engine/internal/source/types"
	"scout-engine/internal/source/util"
)

type FeedConfig struct {
	Name string
	URL  string
}

type Config struct {
	Feeds    []FeedConfig
	MaxItems int // per feed
	Timeout  time.Duration
	Limiter  *util.HostLimiter
}

// Fetcher pulls every configured feed and flattens the results. One dead
// feed costs only its own items.
type Fetcher struct {
	cfg Config
	hc  *http.Client
}

func New(cfg Config) *Fetcher {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 30
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Fetcher{cfg: cfg, hc: util.NewClient(cfg.Timeout)}
}

func (f *Fetcher) Name() string { return "rss" }

func (f *Fetcher) Fetch(ctx context.Context, query string) (types.FetchResult, error) {
	var out []domain.RawRecord
	for _, feed := range f.cfg.Feeds {
		items, err := f.fetchFeed(ctx, feed)
		if err != nil {
			log.Printf("[rss] feed=%s err=%v", feed.Name, err)
			continue
		}
		out = append(out, items...)
	}
	if query != "" {
		out = filterByQuery(out, query)
	}
	return types.FetchResult{Source: f.Name(), Records: out}, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feed FeedConfig) ([]domain.RawRecord, error) {
	if f.cfg.Limiter != nil {
		if err := f.cfg.Limiter.WaitURL(ctx, feed.URL); err != nil {
			return nil, err
		}
	}

	body, err := util.GetBody(ctx, f.hc, feed.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	items := Extract(string(body), f.cfg.MaxItems)

	out := make([]domain.RawRecord, 0, len(items))
	for i, it := range items {
		title, company := splitFeedTitle(it.Title)
		out = append(out, domain.RawRecord{
			ID:          fmt.Sprintf("%s-%d", feed.Name, i+1),
			Title:       title,
			Company:     company,
			URL:         it.Link,
			Description: util.Truncate(it.Description, 500),
			Source:      feed.Name,
			DateText:    it.Date,
		})
	}
	return out, nil
}

// splitFeedTitle handles the "Company: Job Title" convention most job feeds
// use. No separator means no company.
func splitFeedTitle(t string) (title, company string) {
	if i := strings.Index(t, ": "); i > 0 && i < 60 {
		return strings.TrimSpace(t[i+2:]), strings.TrimSpace(t[:i])
	}
	return strings.TrimSpace(t), ""
}

func filterByQuery(records []domain.RawRecord, query string) []domain.RawRecord {
	words := strings.Fields(strings.ToLower(query))
	out := records[:0]
	for _, r := range records {
		blob := strings.ToLower(r.Title + " " + r.Description)
		hit := false
		for _, w := range words {
			if strings.Contains(blob, w) {
				hit = true
				break
			}
		}
		if hit {
			out = append(out, r)
		}
	}
	return out
}
