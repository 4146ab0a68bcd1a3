package poster

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"scout-engine/internal/source/util"
)

const (
	baseURL    = "https://www.cinematerial.com"
	maxPosters = 24
)

// ErrBadID: the i parameter must look like an IMDb title ID.
var ErrBadID = errors.New("invalid title id, expected tt followed by 7-8 digits")

var (
	imdbIDRe    = regexp.MustCompile(`^tt\d{7,8}$`)
	posterURLRe = regexp.MustCompile(`^https?://[^\s"']*cinematerial[^\s"']*\.(?:jpg|jpeg|png|webp)`)
)

// Result is the poster-scrape response shape.
type Result struct {
	Query   string   `json:"query"`
	PageURL string   `json:"pageUrl"`
	Posters []string `json:"posters"`
}

type Scraper struct {
	hc *http.Client
}

func New() *Scraper {
	return &Scraper{hc: util.NewClient(15 * time.Second)}
}

// TargetURL builds the deterministic page URL for an ID or a title+type
// search. IDs are validated against the IMDb pattern; anything else is a
// caller error.
func TargetURL(id, title, mediaType string) (string, string, error) {
	if id != "" {
		if !imdbIDRe.MatchString(id) {
			return "", "", ErrBadID
		}
		return baseURL + "/search?q=" + url.QueryEscape(id), id, nil
	}
	if strings.TrimSpace(title) == "" {
		return "", "", errors.New("i or title is required")
	}
	q := title
	if mediaType != "" {
		q += " " + mediaType
	}
	return baseURL + "/search?q=" + url.QueryEscape(q), q, nil
}

// Scrape fetches the target page and pattern-extracts poster image URLs.
// Upstream or parse failures yield an empty poster list, not an error:
// the page not being there is the same as the page having no posters.
func (s *Scraper) Scrape(ctx context.Context, id, title, mediaType string) (Result, error) {
	pageURL, query, err := TargetURL(id, title, mediaType)
	if err != nil {
		return Result{}, err
	}

	res := Result{Query: query, PageURL: pageURL, Posters: []string{}}

	body, err := util.GetBody(ctx, s.hc, pageURL)
	if err != nil {
		return res, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return res, nil
	}

	seen := make(map[string]bool)
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if len(res.Posters) >= maxPosters {
			return
		}
		for _, attr := range []string{"data-src", "src"} {
			v, ok := img.Attr(attr)
			if !ok {
				continue
			}
			v = strings.TrimSpace(v)
			if !posterURLRe.MatchString(v) || seen[v] {
				continue
			}
			seen[v] = true
			res.Posters = append(res.Posters, v)
			break
		}
	})
	return res, nil
}
