// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"fmt"
	"strings"
)

// TargetCountryCode is the ISO 3166-1 alpha-2 code scoping the fetch.
const TargetCountryCode = "ID"

// Filter describes a Works query. String renders it as the API's
// comma-joined filter expression.
type Filter struct {
	// CountryCode restricts to works with an institution in the country.
	CountryCode string

	// ROR restricts to works crediting the institution with this ROR ID.
	ROR string

	// YearFrom and YearTo bound the publication date range, inclusive.
	YearFrom int
	YearTo   int

	// HasAbstract requires works to carry an abstract.
	HasAbstract bool

	// FieldIDs restricts to these research-field IDs, joined as a
	// disjunction.
	FieldIDs []string
}

// String renders the filter expression, e.g.
// "institutions.country_code:ID,from_publication_date:2020-01-01,to_publication_date:2024-12-31,has_abstract:true".
func (f Filter) String() string {
	var clauses []string
	if f.CountryCode != "" {
		clauses = append(clauses, "institutions.country_code:"+f.CountryCode)
	}
	if f.ROR != "" {
		clauses = append(clauses, "authorships.institutions.ror:"+f.ROR)
	}
	if f.YearFrom > 0 {
		clauses = append(clauses, fmt.Sprintf("from_publication_date:%d-01-01", f.YearFrom))
	}
	if f.YearTo > 0 {
		clauses = append(clauses, fmt.Sprintf("to_publication_date:%d-12-31", f.YearTo))
	}
	if f.HasAbstract {
		clauses = append(clauses, "has_abstract:true")
	}
	if len(f.FieldIDs) > 0 {
		clauses = append(clauses, "primary_topic.field.id:"+strings.Join(f.FieldIDs, "|"))
	}
	return strings.Join(clauses, ",")
}

// fieldIDs maps human-readable research-field names to OpenAlex field
// identifiers. Kept as data so the table can grow without touching the
// query path.
var fieldIDs = map[string]string{
	"Computer Science":      "https://openalex.org/fields/17",
	"Medicine":              "https://openalex.org/fields/27",
	"Engineering":           "https://openalex.org/fields/22",
	"Biology":               "https://openalex.org/fields/86",
	"Physics":               "https://openalex.org/fields/31",
	"Chemistry":             "https://openalex.org/fields/23",
	"Mathematics":           "https://openalex.org/fields/33",
	"Environmental Science": "https://openalex.org/fields/23",
	"Agricultural Sciences": "https://openalex.org/fields/7",
}

// MapFields translates field names to OpenAlex field IDs. Names without
// a mapping are silently dropped.
func MapFields(names []string) []string {
	var ids []string
	for _, name := range names {
		if id, ok := fieldIDs[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
