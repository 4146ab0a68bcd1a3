package source

import (
	"time"

	"scout-engine/internal/config"
	"scout-engine/internal/source/arbeitnow"
	"scout-engine/internal/source/board"
	"scout-engine/internal/source/browser"
	"scout-engine/internal/source/jobicy"
	"scout-engine/internal/source/remotive"
	"scout-engine/internal/source/rss"
	"scout-engine/internal/source/types"
	"scout-engine/internal/source/util"
)

// Build assembles the enabled fetchers in config order. That order is also
// the merge order, which makes first-occurrence dedup deterministic, so
// keep API sources ahead of scraped ones.
func Build(cfg config.Config, limiter *util.HostLimiter) []types.Fetcher {
	agg := cfg.Aggregate
	timeout := time.Duration(agg.FetchTimeoutSec) * time.Second

	var fetchers []types.Fetcher

	if cfg.Sources.Remotive.Enabled {
		fetchers = append(fetchers, remotive.New(remotive.Config{
			MaxItems: agg.PerSourceCap,
			Timeout:  timeout,
			Limiter:  limiter,
		}))
	}
	if cfg.Sources.Arbeitnow.Enabled {
		fetchers = append(fetchers, arbeitnow.New(arbeitnow.Config{
			MaxItems: agg.PerSourceCap,
			Timeout:  timeout,
			Limiter:  limiter,
		}))
	}
	if cfg.Sources.Jobicy.Enabled {
		fetchers = append(fetchers, jobicy.New(jobicy.Config{
			MaxItems: agg.PerSourceCap,
			Timeout:  timeout,
			Limiter:  limiter,
		}))
	}
	if cfg.Sources.Feeds.Enabled && len(cfg.Sources.Feeds.Items) > 0 {
		feeds := make([]rss.FeedConfig, 0, len(cfg.Sources.Feeds.Items))
		for _, f := range cfg.Sources.Feeds.Items {
			feeds = append(feeds, rss.FeedConfig{Name: f.Name, URL: f.URL})
		}
		fetchers = append(fetchers, rss.New(rss.Config{
			Feeds:    feeds,
			MaxItems: agg.PerSourceCap,
			Timeout:  timeout,
			Limiter:  limiter,
		}))
	}
	if cfg.Sources.Boards.Enabled && len(cfg.Sources.Boards.Items) > 0 {
		boards := make([]board.BoardConfig, 0, len(cfg.Sources.Boards.Items))
		for _, b := range cfg.Sources.Boards.Items {
			boards = append(boards, board.BoardConfig{Name: b.Name, URL: b.URL})
		}
		fetchers = append(fetchers, board.New(board.Config{
			Boards:   boards,
			MaxItems: agg.PerSourceCap,
			Timeout:  timeout,
		}))
	}
	if cfg.Sources.Browser.Enabled && len(cfg.Sources.Browser.Items) > 0 {
		boards := make([]browser.BoardConfig, 0, len(cfg.Sources.Browser.Items))
		for _, b := range cfg.Sources.Browser.Items {
			boards = append(boards, browser.BoardConfig{Name: b.Name, URL: b.URL})
		}
		fetchers = append(fetchers, browser.New(browser.Config{
			Boards:      boards,
			MaxItems:    agg.PerSourceCap,
			Timeout:     time.Duration(agg.BrowserTimeoutSec) * time.Second,
			Concurrency: agg.BrowserConcurrency,
		}))
	}
	return fetchers
}
