package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	UserAgent    = "ScoutEngine/1.0 (+local)"
	maxBodyBytes = 2 << 20 // 2MB; upstream pages should never be bigger
)

// NewClient returns an http.Client with the per-source timeout every
// fetcher is expected to use.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// GetBody issues a GET and returns the response body, capped at 2MB.
// Non-2xx statuses are errors; callers treat any error as "no results".
func GetBody(ctx context.Context, hc *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	res, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: status %d", url, res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return b, nil
}
