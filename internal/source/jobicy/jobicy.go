package jobicy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scout-engine/internal/domain"
	"scout-engine/internal/source/types"
	"scout-engine/internal/source/util"
)

const apiURL = "https://jobicy.com/api/v2/remote-jobs"

type Config struct {
	MaxItems int
	Timeout  time.Duration
	Limiter  *util.HostLimiter
}

type Fetcher struct {
	cfg Config
	hc  *http.Client
}

func New(cfg Config) *Fetcher {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 40
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Fetcher{cfg: cfg, hc: util.NewClient(cfg.Timeout)}
}

func (f *Fetcher) Name() string { return "jobicy" }

type jobicyJob struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	JobTitle    string   `json:"jobTitle"`
	CompanyName string   `json:"companyName"`
	JobGeo      string   `json:"jobGeo"`
	JobExcerpt  string   `json:"jobExcerpt"`
	PubDate     string   `json:"pubDate"` // "2024-05-02 10:00:00"
	JobIndustry []string `json:"jobIndustry"`
}

type jobicyResponse struct {
	Jobs []jobicyJob `json:"jobs"`
}

func (f *Fetcher) Fetch(ctx context.Context, query string) (types.FetchResult, error) {
	u := fmt.Sprintf("%s?count=%d", apiURL, f.cfg.MaxItems)
	if q := strings.TrimSpace(query); q != "" {
		// jobicy tags are single keywords; first word carries the role
		u += "&tag=" + url.QueryEscape(strings.Fields(q)[0])
	}

	if f.cfg.Limiter != nil {
		if err := f.cfg.Limiter.WaitURL(ctx, u); err != nil {
			return types.FetchResult{Source: f.Name()}, err
		}
	}

	body, err := util.GetBody(ctx, f.hc, u)
	if err != nil {
		return types.FetchResult{Source: f.Name()}, fmt.Errorf("jobicy: %w", err)
	}

	var resp jobicyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.FetchResult{Source: f.Name()}, fmt.Errorf("jobicy decode: %w", err)
	}

	jobs := resp.Jobs
	if len(jobs) > f.cfg.MaxItems {
		jobs = jobs[:f.cfg.MaxItems]
	}

	out := make([]domain.RawRecord, 0, len(jobs))
	for _, j := range jobs {
		loc := j.JobGeo
		if strings.EqualFold(loc, "anywhere") {
			loc = "Remote"
		}
		out = append(out, domain.RawRecord{
			ID:          fmt.Sprintf("jobicy-%d", j.ID),
			Title:       j.JobTitle,
			Company:     j.CompanyName,
			Location:    loc,
			URL:         j.URL,
			Description: util.StripTags(j.JobExcerpt),
			Source:      f.Name(),
			DateText:    j.PubDate,
			Tags:        j.JobIndustry,
		})
	}
	return types.FetchResult{Source: f.Name(), Records: out}, nil
}
