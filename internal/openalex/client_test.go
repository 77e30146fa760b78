// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/research-atlas/pkg/types"
)

func fastFetchConfig() types.FetchConfig {
	return types.FetchConfig{
		Email:             "tests@example.com",
		PageSize:          2,
		MaxAttempts:       3,
		RateLimitCooldown: time.Millisecond,
		RetryDelay:        time.Millisecond,
		PagePause:         time.Millisecond,
		InstitutionPause:  time.Millisecond,
	}
}

const pageJSON = `{
	"meta": {"count": 3, "next_cursor": %q},
	"results": [
		{
			"id": "https://openalex.org/W%d",
			"title": "Work %d",
			"publication_year": 2022,
			"authorships": [{
				"author": {"display_name": "Author %d"},
				"institutions": [{"display_name": "Universitas Indonesia", "country_code": "ID"}]
			}],
			"abstract_inverted_index": {"Sample": [0], "abstract": [1]}
		}
	]
}`

func TestFetchPagePagination(t *testing.T) {
	var cursors []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("cursor")
		cursors = append(cursors, cursor)

		if got := r.URL.Query().Get("mailto"); got != "tests@example.com" {
			t.Errorf("mailto = %q", got)
		}
		if got := r.URL.Query().Get("filter"); !strings.Contains(got, "institutions.country_code:ID") {
			t.Errorf("filter = %q", got)
		}

		next := "page2"
		n := 1
		if cursor == "page2" {
			next = "" // last page
			n = 2
		}
		fmt.Fprintf(w, pageJSON, next, n, n, n)
	}))
	defer ts.Close()

	oldBase := worksBase
	worksBase = ts.URL
	defer func() { worksBase = oldBase }()

	client := NewClient(fastFetchConfig())
	filter := Filter{CountryCode: TargetCountryCode, YearFrom: 2020, YearTo: 2024, HasAbstract: true}

	page, err := client.FetchPage(context.Background(), filter, 2, CursorStart)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	if len(page.Works) != 1 || page.Works[0].Title != "Work 1" {
		t.Fatalf("unexpected first page: %+v", page)
	}
	if page.NextCursor != "page2" {
		t.Fatalf("NextCursor = %q", page.NextCursor)
	}

	page, err = client.FetchPage(context.Background(), filter, 2, page.NextCursor)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	if page.NextCursor != "" {
		t.Errorf("final NextCursor = %q, want empty", page.NextCursor)
	}
	if len(cursors) != 2 || cursors[0] != CursorStart || cursors[1] != "page2" {
		t.Errorf("cursors sent = %v", cursors)
	}
}

func TestFetchPageRetriesOnRateLimit(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprintf(w, pageJSON, "", 1, 1, 1)
	}))
	defer ts.Close()

	oldBase := worksBase
	worksBase = ts.URL
	defer func() { worksBase = oldBase }()

	client := NewClient(fastFetchConfig())
	page, err := client.FetchPage(context.Background(), Filter{CountryCode: "ID"}, 1, CursorStart)
	if err != nil {
		t.Fatalf("FetchPage() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(page.Works) != 1 {
		t.Errorf("got %d works", len(page.Works))
	}
}

func TestFetchPageSurfacesFailure(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	oldBase := worksBase
	worksBase = ts.URL
	defer func() { worksBase = oldBase }()

	client := NewClient(fastFetchConfig())
	_, err := client.FetchPage(context.Background(), Filter{CountryCode: "ID"}, 1, CursorStart)
	if err == nil {
		t.Fatal("FetchPage() error = nil, want failure after retries")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want the full attempt budget of 3", calls)
	}
}

func TestTestConnection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, pageJSON, "", 1, 1, 1)
	}))
	defer ts.Close()

	oldBase := worksBase
	worksBase = ts.URL
	defer func() { worksBase = oldBase }()

	client := NewClient(fastFetchConfig())
	var out strings.Builder
	if err := client.TestConnection(context.Background(), &out); err != nil {
		t.Fatalf("TestConnection() error: %v", err)
	}
	if !strings.Contains(out.String(), "Work 1") {
		t.Errorf("output missing sample title: %q", out.String())
	}
	if !strings.Contains(out.String(), "Universitas Indonesia") {
		t.Errorf("output missing institution: %q", out.String())
	}
}
