package board

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"scout-engine/internal/domain"
	"scout-engine/internal/source/types"
	"scout-engine/internal/source/util"
)

// cardSelectors are tried in order until one matches. Board markup is not
// ours and changes without notice, so the alternates are intentionally
// redundant.
var cardSelectors = []string{
	"div.job_seen_beacon",
	"article.job",
	"li.job-listing",
	"div.jobTuple",
	"div[class*='job-card']",
	"li[class*='job']",
}

type BoardConfig struct {
	Name string
	URL  string
}

type Config struct {
	Boards   []BoardConfig
	MaxItems int // per board
	Timeout  time.Duration
}

// Fetcher scrapes plain-HTML job boards (no JS rendering). JS-heavy boards
// belong to the browser fetcher.
type Fetcher struct {
	cfg Config
}

func New(cfg Config) *Fetcher {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 30
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Fetcher{cfg: cfg}
}

func (f *Fetcher) Name() string { return "board" }

func (f *Fetcher) Fetch(ctx context.Context, query string) (types.FetchResult, error) {
	var out []domain.RawRecord
	for _, b := range f.cfg.Boards {
		select {
		case <-ctx.Done():
			return types.FetchResult{Source: f.Name(), Records: out}, ctx.Err()
		default:
		}
		records, err := f.scrapeBoard(b)
		if err != nil {
			log.Printf("[board] board=%s err=%v", b.Name, err)
			continue
		}
		out = append(out, records...)
	}
	return types.FetchResult{Source: f.Name(), Records: out}, nil
}

func (f *Fetcher) scrapeBoard(b BoardConfig) ([]domain.RawRecord, error) {
	c := colly.NewCollector(
		colly.UserAgent(util.UserAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(f.cfg.Timeout)

	var out []domain.RawRecord
	seen := make(map[string]bool)

	handler := func(e *colly.HTMLElement) {
		if len(out) >= f.cfg.MaxItems {
			return
		}

		link := firstAttr(e, "a[href]", "href")
		if link == "" {
			return
		}
		link = e.Request.AbsoluteURL(link)
		if link == "" || seen[link] {
			return
		}

		title := firstText(e,
			"h2 a", "h2", "h3 a", "h3",
			"a.title", "[class*='title']",
		)
		if title == "" {
			return
		}
		seen[link] = true

		out = append(out, domain.RawRecord{
			ID:      fmt.Sprintf("%s-%d", b.Name, len(out)+1),
			Title:   title,
			Company: firstText(e, ".companyName", ".company", "[class*='company']"),
			Location: firstText(e,
				".companyLocation", ".location", "[class*='location']",
			),
			URL:         link,
			Description: util.Truncate(firstText(e, ".job-snippet", ".snippet", "[class*='description']"), 400),
			Source:      b.Name,
			DateText:    firstText(e, ".date", "time", "[class*='posted']"),
		})
	}
	for _, sel := range cardSelectors {
		c.OnHTML(sel, handler)
	}

	if err := c.Visit(b.URL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", b.URL, err)
	}
	c.Wait()
	return out, nil
}

func firstText(e *colly.HTMLElement, selectors ...string) string {
	for _, sel := range selectors {
		if t := util.CleanText(e.DOM.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func firstAttr(e *colly.HTMLElement, selector, attr string) string {
	v, _ := e.DOM.Find(selector).First().Attr(attr)
	return strings.TrimSpace(v)
}
