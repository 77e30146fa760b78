// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/pdiddy/research-atlas/internal/httputil"
	"github.com/pdiddy/research-atlas/pkg/types"
)

// worksBase is the OpenAlex Works endpoint. Declared as a var so tests
// can substitute an httptest server.
var worksBase = "https://api.openalex.org/works"

// CursorStart is the cursor token for the first page of a query.
const CursorStart = "*"

// Client queries the OpenAlex Works API. Requests are paced by a rate
// limiter derived from the configured page pause, and each request is
// retried per the configured retry policy.
type Client struct {
	httpClient *http.Client
	cfg        types.FetchConfig
	limiter    *rate.Limiter
	policy     httputil.RetryPolicy
}

// NewClient builds a Client from cfg, filling stage defaults.
func NewClient(cfg types.FetchConfig) *Client {
	cfg = cfg.WithDefaults()
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Every(cfg.PagePause), 1),
		policy: httputil.RetryPolicy{
			MaxAttempts:       cfg.MaxAttempts,
			RateLimitCooldown: cfg.RateLimitCooldown,
			RetryDelay:        cfg.RetryDelay,
		},
	}
}

// Page is one page of a cursor-paginated Works query. An empty
// NextCursor signals the end of results.
type Page struct {
	Works      []Work
	NextCursor string
}

type worksResponse struct {
	Meta    worksMeta `json:"meta"`
	Results []Work    `json:"results"`
}

type worksMeta struct {
	Count      int    `json:"count"`
	NextCursor string `json:"next_cursor"`
}

// FetchPage retrieves one page of works matching filter. Pass
// CursorStart for the first page and the returned NextCursor for
// subsequent pages; an empty cursor requests a plain (non-cursor) page.
func (c *Client) FetchPage(ctx context.Context, filter Filter, perPage int, cursor string) (Page, error) {
	if perPage <= 0 {
		perPage = c.cfg.PageSize
	}

	params := url.Values{
		"filter":   {filter.String()},
		"per-page": {strconv.Itoa(perPage)},
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if c.cfg.Email != "" {
		params.Set("mailto", c.cfg.Email)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, worksBase+"?"+params.Encode(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.policy)
	if err != nil {
		return Page{}, fmt.Errorf("OpenAlex works request: %w", err)
	}
	defer resp.Body.Close()

	var wr worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return Page{}, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	return Page{Works: wr.Results, NextCursor: wr.Meta.NextCursor}, nil
}

// TestConnection issues a one-result probe against the Works endpoint
// and reports the sample work to w. It returns an error when the API
// is unreachable or returns no results.
func (c *Client) TestConnection(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "Testing OpenAlex API connection...")

	page, err := c.FetchPage(ctx, Filter{CountryCode: TargetCountryCode}, 1, "")
	if err != nil {
		return fmt.Errorf("connection test: %w", err)
	}
	if len(page.Works) == 0 {
		return fmt.Errorf("connection test: no results returned")
	}

	work := page.Works[0]
	fmt.Fprintf(w, "API connection successful\n  sample: %s\n", firstN(work.Title, 60))
	for _, authorship := range work.Authorships {
		for _, inst := range authorship.Institutions {
			if inst.CountryCode == TargetCountryCode {
				fmt.Fprintf(w, "  institution: %s\n", inst.DisplayName)
				return nil
			}
		}
	}
	return nil
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return truncate(s, n) + "..."
}
