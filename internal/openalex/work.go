// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex is a client for the OpenAlex Works API: filter
// construction, cursor-paginated retrieval, and conversion of raw works
// into normalized publication records.
package openalex

import (
	"sort"
	"strings"

	"github.com/pdiddy/research-atlas/pkg/types"
)

// maxAbstractLen bounds reconstructed abstracts to cap downstream cost.
const maxAbstractLen = 2000

// maxAuthorships bounds how many authorships are kept per work.
const maxAuthorships = 10

// maxKeywords bounds how many topic hints are kept per work.
const maxKeywords = 5

// Work is a raw OpenAlex work as returned by the API. It is ephemeral:
// works are parsed into types.ParsedPublication and never persisted.
type Work struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	DOI                   string           `json:"doi"`
	PublicationYear       int              `json:"publication_year"`
	Authorships           []Authorship     `json:"authorships"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	PrimaryLocation       *Location        `json:"primary_location"`
	Topics                []TopicHint      `json:"topics"`
}

// Authorship links an author to the institutions credited on a work.
type Authorship struct {
	Author       Author        `json:"author"`
	Institutions []Institution `json:"institutions"`
}

// Author identifies a work author.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Institution is an affiliated organization on an authorship.
type Institution struct {
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
	ROR         string `json:"ror"`
}

// Location is the primary hosting venue of a work.
type Location struct {
	Source *Source `json:"source"`
}

// Source is the venue (journal, repository) inside a location.
type Source struct {
	DisplayName string `json:"display_name"`
}

// TopicHint is a source-assigned topic label on a work.
type TopicHint struct {
	DisplayName string `json:"display_name"`
}

// ReconstructAbstract converts an abstract inverted index back to plain
// text: positions are flattened to (position, word) pairs, sorted
// ascending, and re-joined with single spaces. The result is truncated
// to maxAbstractLen. Empty or nil input yields ""; reconstruction never
// fails.
func ReconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return truncate(strings.Join(words, " "), maxAbstractLen)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}

// ParseWork converts a raw work into a ParsedPublication tagged with
// primaryInstitution. It returns false when the work has no usable
// title. For each kept author the affiliation is the author's first
// institution with the target country code, else the author's first
// listed institution, else "Unknown".
func ParseWork(work Work, primaryInstitution string) (types.ParsedPublication, bool) {
	title := strings.TrimSpace(work.Title)
	if title == "" {
		return types.ParsedPublication{}, false
	}

	abstract := ReconstructAbstract(work.AbstractInvertedIndex)
	if abstract == "" {
		abstract = types.NoAbstract
	}

	var authors []types.AuthorRef
	for i, authorship := range work.Authorships {
		if i >= maxAuthorships {
			break
		}
		name := authorship.Author.DisplayName
		if name == "" {
			continue
		}
		authors = append(authors, types.AuthorRef{
			Name:        name,
			Affiliation: pickAffiliation(authorship.Institutions),
		})
	}

	sourceName := "Unknown"
	if work.PrimaryLocation != nil && work.PrimaryLocation.Source != nil &&
		work.PrimaryLocation.Source.DisplayName != "" {
		sourceName = work.PrimaryLocation.Source.DisplayName
	}

	var keywords []string
	for i, hint := range work.Topics {
		if i >= maxKeywords {
			break
		}
		if hint.DisplayName != "" {
			keywords = append(keywords, hint.DisplayName)
		}
	}

	return types.ParsedPublication{
		Title:              title,
		Abstract:           abstract,
		Year:               work.PublicationYear,
		Authors:            authors,
		Source:             "OpenAlex - " + sourceName,
		URL:                work.ID,
		DOI:                work.DOI,
		PrimaryInstitution: primaryInstitution,
		Keywords:           keywords,
	}, true
}

// pickAffiliation selects the affiliation string for one authorship:
// the first institution in the target country, else the first
// institution, else "Unknown".
func pickAffiliation(institutions []Institution) string {
	for _, inst := range institutions {
		if strings.EqualFold(inst.CountryCode, TargetCountryCode) {
			return orUnknown(inst.DisplayName)
		}
	}
	if len(institutions) > 0 {
		return orUnknown(institutions[0].DisplayName)
	}
	return "Unknown"
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
