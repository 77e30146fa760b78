// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest drives verified publication retrieval from OpenAlex:
// a country-wide cursor-paginated strategy with inline affiliation
// verification and quality gating, plus a per-institution fallback when
// the country-wide pass under-yields.
package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/research-atlas/internal/affiliation"
	"github.com/pdiddy/research-atlas/internal/openalex"
	"github.com/pdiddy/research-atlas/pkg/types"
)

// fallbackYieldRatio triggers the per-institution fallback when the
// country-wide pass returns fewer than this fraction of the target.
const fallbackYieldRatio = 0.3

// pageCeilingBuffer is added to limit/pageSize to bound pagination.
const pageCeilingBuffer = 5

// institutionPageSize is the per-page size for direct ROR queries.
const institutionPageSize = 50

// Options bound one fetch operation.
type Options struct {
	// Limit is the target publication count (default 500).
	Limit int

	// YearFrom and YearTo bound the publication years, inclusive.
	// YearTo defaults to the current year.
	YearFrom int
	YearTo   int

	// Institutions optionally restricts results to these registry tags.
	Institutions []string

	// Fields optionally restricts to these research-field names.
	// Names without an OpenAlex field ID are dropped.
	Fields []string
}

func (o Options) WithDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = 500
	}
	if o.YearFrom <= 0 {
		o.YearFrom = 2020
	}
	if o.YearTo <= 0 {
		o.YearTo = time.Now().Year()
	}
	return o
}

// Result is the outcome of one fetch operation: the deduplicated,
// verified, quality-passing publications (truncated to the target) and
// aggregate statistics. Stats lifetime is this one call.
type Result struct {
	Publications []types.ParsedPublication
	Stats        types.FetchStats
}

// PageFetcher is the slice of the OpenAlex client the fetch loop needs.
type PageFetcher interface {
	FetchPage(ctx context.Context, filter openalex.Filter, perPage int, cursor string) (openalex.Page, error)
}

// Fetcher retrieves verified national publications.
type Fetcher struct {
	client PageFetcher
	cfg    types.FetchConfig
}

// NewFetcher builds a Fetcher around an OpenAlex client.
func NewFetcher(client PageFetcher, cfg types.FetchConfig) *Fetcher {
	return &Fetcher{client: client, cfg: cfg.WithDefaults()}
}

// Fetch retrieves up to opts.Limit verified publications. The
// country-wide strategy runs first; when it yields under 30% of the
// target the per-institution fallback fills the remainder. Request
// failures end the current phase rather than the whole operation, so
// partial results are still returned. Progress is reported to w.
func (f *Fetcher) Fetch(ctx context.Context, opts Options, w io.Writer) (Result, error) {
	opts = opts.WithDefaults()

	fmt.Fprintf(w, "Fetching national publications: target %d, years %d-%d\n",
		opts.Limit, opts.YearFrom, opts.YearTo)
	if len(opts.Fields) > 0 {
		fmt.Fprintf(w, "  fields: %v\n", opts.Fields)
	}

	seen := make(map[string]struct{})
	verified := 0

	pubs := f.fetchCountryWide(ctx, opts, seen, &verified, w)

	if len(pubs) < int(float64(opts.Limit)*fallbackYieldRatio) {
		fmt.Fprintf(w, "\nCountry-wide pass returned only %d, trying per-institution fallback...\n", len(pubs))
		pubs = f.fetchByInstitutions(ctx, opts, pubs, seen, &verified, w)
	}

	if len(pubs) > opts.Limit {
		pubs = pubs[:opts.Limit]
	}

	stats := types.NewFetchStats()
	stats.Verified = verified
	for _, pub := range pubs {
		stats.Count(pub)
	}

	fmt.Fprintf(w, "\nFetch summary: %d publications, %d verified\n", stats.TotalFetched, stats.Verified)
	return Result{Publications: pubs, Stats: stats}, nil
}

// fetchCountryWide pages through the country-scoped query, keeping
// records that verify, match the institution subset (when set), parse,
// and pass the quality gate.
func (f *Fetcher) fetchCountryWide(ctx context.Context, opts Options, seen map[string]struct{}, verified *int, w io.Writer) []types.ParsedPublication {
	filter := openalex.Filter{
		CountryCode: openalex.TargetCountryCode,
		YearFrom:    opts.YearFrom,
		YearTo:      opts.YearTo,
		HasAbstract: true,
		FieldIDs:    openalex.MapFields(opts.Fields),
	}

	targetSet := make(map[string]struct{}, len(opts.Institutions))
	for _, tag := range opts.Institutions {
		targetSet[tag] = struct{}{}
	}

	var pubs []types.ParsedPublication
	cursor := openalex.CursorStart
	maxPages := opts.Limit/f.cfg.PageSize + pageCeilingBuffer

	for page := 0; len(pubs) < opts.Limit && cursor != "" && page < maxPages; page++ {
		fmt.Fprintf(w, "  page %d: fetching... (total: %d)\n", page+1, len(pubs))

		result, err := f.client.FetchPage(ctx, filter, f.cfg.PageSize, cursor)
		if err != nil {
			// An unrecoverable request failure ends this phase; what
			// was gathered so far is still returned.
			fmt.Fprintf(w, "  fetch error: %v\n", err)
			break
		}
		if len(result.Works) == 0 {
			fmt.Fprintln(w, "  no more results")
			break
		}

		for _, work := range result.Works {
			if !affiliation.Verify(work) {
				continue
			}
			inst := affiliation.PrimaryInstitution(work)
			if len(targetSet) > 0 {
				if _, ok := targetSet[inst]; !ok {
					continue
				}
			}
			pub, ok := openalex.ParseWork(work, inst)
			if !ok || !QualityOK(pub) {
				continue
			}
			if _, dup := seen[pub.Title]; dup {
				continue
			}
			seen[pub.Title] = struct{}{}
			pubs = append(pubs, pub)
			*verified++
		}

		cursor = result.NextCursor
	}

	fmt.Fprintf(w, "Verified publications (country-wide): %d\n", len(pubs))
	return pubs
}

// fetchByInstitutions queries each registry institution directly by ROR
// ID, merging results while skipping titles already accumulated. A
// pause is taken between institutions.
func (f *Fetcher) fetchByInstitutions(ctx context.Context, opts Options, pubs []types.ParsedPublication, seen map[string]struct{}, verified *int, w io.Writer) []types.ParsedPublication {
	entries := affiliation.Registry
	if len(opts.Institutions) > 0 {
		subset := make(map[string]struct{}, len(opts.Institutions))
		for _, tag := range opts.Institutions {
			subset[tag] = struct{}{}
		}
		var filtered []affiliation.RegistryEntry
		for _, entry := range entries {
			if _, ok := subset[entry.Tag]; ok {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	for i, entry := range entries {
		if len(pubs) >= opts.Limit {
			break
		}
		if i > 0 {
			select {
			case <-ctx.Done():
				return pubs
			case <-time.After(f.cfg.InstitutionPause):
			}
		}

		fmt.Fprintf(w, "  trying %s directly...\n", entry.Tag)

		filter := openalex.Filter{
			ROR:         entry.ROR,
			YearFrom:    opts.YearFrom,
			YearTo:      opts.YearTo,
			HasAbstract: true,
		}
		result, err := f.client.FetchPage(ctx, filter, institutionPageSize, "")
		if err != nil {
			fmt.Fprintf(w, "  %s: %v\n", entry.Tag, err)
			continue
		}
		fmt.Fprintf(w, "  found %d works\n", len(result.Works))

		for _, work := range result.Works {
			pub, ok := openalex.ParseWork(work, entry.Tag)
			if !ok || !QualityOK(pub) {
				continue
			}
			if _, dup := seen[pub.Title]; dup {
				continue
			}
			seen[pub.Title] = struct{}{}
			pubs = append(pubs, pub)
			*verified++
		}
	}
	return pubs
}
