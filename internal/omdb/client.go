package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"scout-engine/internal/source/util"
)

const defaultBaseURL = "https://www.omdbapi.com/"

// Client issues keyed queries against the OMDb API and returns the decoded
// payload untouched; reshaping is the service's job.
type Client struct {
	hc      *http.Client
	baseURL string
}

func NewClient() *Client {
	return &Client{
		hc:      util.NewClient(10 * time.Second),
		baseURL: defaultBaseURL,
	}
}

func (c *Client) Query(ctx context.Context, apiKey string, params url.Values) (map[string]any, error) {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("apikey", apiKey)

	body, err := util.GetBody(ctx, c.hc, c.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("omdb: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("omdb decode: %w", err)
	}
	return payload, nil
}
