// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-atlas
// pipeline: fetched publication records, fetch statistics, discovered
// topics, and per-stage configuration.
package types

// NoAbstract is the sentinel stored when a work carries no abstract.
// The quality filter and the topic modeler both treat it as absent text.
const NoAbstract = "No abstract available"

// AuthorRef pairs an author name with the affiliation observed for that
// author on a particular work. Keeping the pair together avoids the
// index-alignment bugs of parallel name/affiliation lists.
type AuthorRef struct {
	// Name is the author display name as returned by the source.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the institution display name for this author on
	// this work, or "Unknown" when the source lists none.
	Affiliation string `json:"affiliation" yaml:"affiliation"`
}

// ParsedPublication is a normalized publication record produced from a
// raw OpenAlex work. It is the unit passed through the quality filter
// and into the store; raw works are never persisted.
type ParsedPublication struct {
	// Title is the work title, always non-empty.
	Title string `json:"title" yaml:"title"`

	// Abstract is the reconstructed abstract text, or NoAbstract when
	// the work's inverted index was empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year, 0 when the source omits it.
	Year int `json:"year" yaml:"year"`

	// Authors lists authors with their affiliations in source order.
	Authors []AuthorRef `json:"authors" yaml:"authors"`

	// Source labels the provenance, e.g. "OpenAlex - IEEE Access".
	Source string `json:"source" yaml:"source"`

	// URL is the OpenAlex work URL.
	URL string `json:"url" yaml:"url"`

	// DOI is the work DOI when present.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PrimaryInstitution is the canonical tag of the first matched
	// national institution, or "Other Indonesian Institution".
	PrimaryInstitution string `json:"primary_institution" yaml:"primary_institution"`

	// Keywords holds up to five topic hints from the source.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// FetchStats aggregates the outcome of one fetch operation. It is built
// and returned by the fetch call; there is no process-wide accumulator.
type FetchStats struct {
	// TotalFetched is the number of publications in the final batch.
	TotalFetched int `json:"total_fetched" yaml:"total_fetched"`

	// Verified counts records that passed affiliation verification.
	Verified int `json:"verified" yaml:"verified"`

	// ByYear counts final publications per publication year.
	ByYear map[int]int `json:"by_year" yaml:"by_year"`

	// ByInstitution counts final publications per primary institution.
	ByInstitution map[string]int `json:"by_institution" yaml:"by_institution"`
}

// NewFetchStats returns a FetchStats with initialized maps.
func NewFetchStats() FetchStats {
	return FetchStats{
		ByYear:        make(map[int]int),
		ByInstitution: make(map[string]int),
	}
}

// Count records one publication in the aggregate maps.
func (s *FetchStats) Count(pub ParsedPublication) {
	s.TotalFetched++
	if pub.Year != 0 {
		s.ByYear[pub.Year]++
	}
	inst := pub.PrimaryInstitution
	if inst == "" {
		inst = "Unknown"
	}
	s.ByInstitution[inst]++
}
