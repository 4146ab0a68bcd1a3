package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"scout-engine/internal/domain"
	"scout-engine/internal/source/types"
	"scout-engine/internal/source/util"
)

type BoardConfig struct {
	Name string
	URL  string
}

type Config struct {
	Boards      []BoardConfig
	MaxItems    int // per board
	Timeout     time.Duration
	Concurrency int // bounded pool; headless pages are memory-hungry
}

// Fetcher renders JS-heavy boards (LinkedIn, Naukri, Indeed) in headless
// Chrome. One allocator is shared; every task gets its own page context and
// releases it when done.
type Fetcher struct {
	cfg Config
}

func New(cfg Config) *Fetcher {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 30
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Fetcher{cfg: cfg}
}

func (f *Fetcher) Name() string { return "browser" }

// Timeout asks the aggregator for the render window instead of the plain
// HTTP fetch window.
func (f *Fetcher) Timeout() time.Duration { return f.cfg.Timeout }

// scrapedCard mirrors what the in-page extraction JS returns.
type scrapedCard struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
	Date     string `json:"date"`
}

func (f *Fetcher) Fetch(ctx context.Context, query string) (types.FetchResult, error) {
	if len(f.cfg.Boards) == 0 {
		return types.FetchResult{Source: f.Name()}, nil
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Warm up once so the first board doesn't pay browser startup cost.
	if err := chromedp.Run(browserCtx); err != nil {
		return types.FetchResult{Source: f.Name()}, fmt.Errorf("browser start: %w", err)
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, f.cfg.Concurrency)
		out []domain.RawRecord
	)

	for _, b := range f.cfg.Boards {
		wg.Add(1)
		sem <- struct{}{}
		go func(b BoardConfig) {
			defer wg.Done()
			defer func() { <-sem }()

			cards, err := f.scrapeBoard(browserCtx, b)
			if err != nil {
				log.Printf("[browser] board=%s err=%v", b.Name, err)
				return
			}

			mu.Lock()
			for i, c := range cards {
				out = append(out, domain.RawRecord{
					ID:       fmt.Sprintf("%s-%d", b.Name, i+1),
					Title:    util.CleanText(c.Title),
					Company:  util.CleanText(c.Company),
					Location: util.CleanText(c.Location),
					URL:      c.URL,
					Source:   b.Name,
					DateText: util.CleanText(c.Date),
				})
			}
			mu.Unlock()
		}(b)
	}
	wg.Wait()

	return types.FetchResult{Source: f.Name(), Records: out}, nil
}

func (f *Fetcher) scrapeBoard(browserCtx context.Context, b BoardConfig) ([]scrapedCard, error) {
	// Own page per task; the timeout also tears the page down.
	pageCtx, cancelPage := chromedp.NewContext(browserCtx)
	defer cancelPage()

	ctx, cancel := context.WithTimeout(pageCtx, f.cfg.Timeout)
	defer cancel()

	var raw string
	err := chromedp.Run(ctx,
		chromedp.Navigate(b.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(extractJS(f.cfg.MaxItems), &raw),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", b.URL, err)
	}

	var cards []scrapedCard
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	return cards, nil
}

// extractJS runs inside the page. Selector alternates are redundant on
// purpose; board markup changes without notice and no match means zero
// results, not an error.
func extractJS(maxItems int) string {
	return fmt.Sprintf(`(function () {
  var cardSelectors = [
    "div.base-card",
    "li.jobs-search-results__list-item",
    "article.jobTuple",
    "div.srp-jobtuple-wrapper",
    "div.job_seen_beacon",
    "div[class*='job-card']"
  ];

  var cards = [];
  for (var i = 0; i < cardSelectors.length; i++) {
    cards = Array.prototype.slice.call(document.querySelectorAll(cardSelectors[i]));
    if (cards.length > 0) break;
  }

  function pick(el, selectors) {
    for (var i = 0; i < selectors.length; i++) {
      var n = el.querySelector(selectors[i]);
      if (n && n.innerText && n.innerText.trim()) return n.innerText.trim();
    }
    return "";
  }

  var out = [];
  for (var j = 0; j < cards.length && out.length < %d; j++) {
    var el = cards[j];
    var a = el.querySelector("a[href]");
    if (!a || !a.href) continue;
    var title = pick(el, ["h3", "h2", "a.title", "[class*='title']"]);
    if (!title) continue;
    out.push({
      title: title,
      company: pick(el, ["h4", ".comp-name", ".company", "[class*='company']"]),
      location: pick(el, [".job-search-card__location", ".locWdth", ".location", "[class*='location']"]),
      url: a.href,
      date: pick(el, ["time", ".job-post-day", ".date", "[class*='posted']"])
    });
  }
  return JSON.stringify(out);
})();`, maxItems)
}
