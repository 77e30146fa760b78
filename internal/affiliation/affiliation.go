// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package affiliation decides whether a raw work is in national scope
// and identifies its primary institution. Both decisions are chains of
// independent rules over fixed data tables; extending coverage means
// extending the tables, not the control flow.
package affiliation

import (
	"strings"

	"github.com/pdiddy/research-atlas/internal/openalex"
)

// OtherInstitution is the fallback tag for verified works that match no
// registry entry or name rule.
const OtherInstitution = "Other Indonesian Institution"

// RegistryEntry maps a canonical institution tag to its ROR identifier.
type RegistryEntry struct {
	Tag string
	ROR string
}

// Registry lists the national institutions with verified ROR IDs, in
// fallback query order.
var Registry = []RegistryEntry{
	{"BRIN", "https://ror.org/018a7sn25"},
	{"UI", "https://ror.org/05v2pdr98"},
	{"ITB", "https://ror.org/00tq7fx95"},
	{"UGM", "https://ror.org/04q4f3q36"},
	{"IPB", "https://ror.org/00te3t702"},
	{"ITS", "https://ror.org/03v8tnc06"},
	{"UNAIR", "https://ror.org/00xvgzh62"},
	{"UNDIP", "https://ror.org/00xvgzh62"},
	{"UNPAD", "https://ror.org/02jp35r79"},
	{"UNS", "https://ror.org/05qj1jx13"},
	{"UNHAS", "https://ror.org/052jqgt73"},
	{"USU", "https://ror.org/042dyfs80"},
	{"UNAND", "https://ror.org/01phqxe34"},
	{"UB", "https://ror.org/0410hv376"},
	{"BINUS", "https://ror.org/03skew617"},
	{"TELKOM_U", "https://ror.org/03bg2mb49"},
}

// LookupROR returns the ROR ID for a registry tag.
func LookupROR(tag string) (string, bool) {
	for _, entry := range Registry {
		if entry.Tag == tag {
			return entry.ROR, true
		}
	}
	return "", false
}

// nameKeywords are case-insensitive substrings that mark an institution
// display name as Indonesian: the country, known national institutes,
// generic university/institute terms, and major city names.
var nameKeywords = []string{
	"indonesia", "indonesian", "brin", "lipi",
	"universitas", "institut teknologi", "university of indonesia",
	"gadjah mada", "bandung", "surabaya", "yogyakarta",
}

// Verify reports whether work has at least one Indonesian-affiliated
// authorship. Any single institution matching by country code, name
// keyword, or registry ROR is sufficient.
func Verify(work openalex.Work) bool {
	for _, authorship := range work.Authorships {
		for _, inst := range authorship.Institutions {
			if matchesCountry(inst) || matchesName(inst) || matchesRegistry(inst) {
				return true
			}
		}
	}
	return false
}

func matchesCountry(inst openalex.Institution) bool {
	return inst.CountryCode != "" &&
		strings.EqualFold(inst.CountryCode, openalex.TargetCountryCode)
}

func matchesName(inst openalex.Institution) bool {
	if inst.DisplayName == "" {
		return false
	}
	name := strings.ToLower(inst.DisplayName)
	for _, kw := range nameKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func matchesRegistry(inst openalex.Institution) bool {
	if inst.ROR == "" {
		return false
	}
	ror := strings.ToLower(inst.ROR)
	for _, entry := range Registry {
		if strings.Contains(ror, strings.ToLower(entry.ROR)) {
			return true
		}
	}
	return false
}

// nameRule maps institution-name evidence to a canonical tag. AnyOf
// matches when any substring occurs in the lowercased name; AllOf
// requires every substring; Prefix matches the raw display name.
type nameRule struct {
	Tag    string
	AnyOf  []string
	AllOf  []string
	Prefix string
}

// nameRules are evaluated in order; the first matching rule wins.
var nameRules = []nameRule{
	{Tag: "BRIN", AnyOf: []string{"brin", "national research"}},
	{Tag: "UI", AnyOf: []string{"universitas indonesia"}, Prefix: "UI"},
	{Tag: "ITB", AllOf: []string{"bandung", "institut"}},
	{Tag: "UGM", AnyOf: []string{"gadjah mada"}},
	{Tag: "IPB", AnyOf: []string{"bogor"}},
	{Tag: "ITS", AnyOf: []string{"sepuluh nopember", "surabaya"}},
	{Tag: "UNAIR", AnyOf: []string{"airlangga"}},
	{Tag: "UNDIP", AnyOf: []string{"diponegoro"}},
	{Tag: "BINUS", AnyOf: []string{"binus", "bina nusantara"}},
	{Tag: "TELKOM_U", AnyOf: []string{"telkom"}},
}

func (r nameRule) matches(displayName string) bool {
	name := strings.ToLower(displayName)
	for _, kw := range r.AnyOf {
		if strings.Contains(name, kw) {
			return true
		}
	}
	if len(r.AllOf) > 0 {
		all := true
		for _, kw := range r.AllOf {
			if !strings.Contains(name, kw) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return r.Prefix != "" && strings.HasPrefix(displayName, r.Prefix)
}

// PrimaryInstitution identifies the primary national institution of an
// already-verified work. Authorships and institutions are scanned in
// source order; per institution a registry ROR match is tried first,
// then the name rules; the first match anywhere wins. Works matching
// nothing are tagged OtherInstitution.
func PrimaryInstitution(work openalex.Work) string {
	for _, authorship := range work.Authorships {
		for _, inst := range authorship.Institutions {
			ror := strings.ToLower(inst.ROR)
			for _, entry := range Registry {
				if strings.Contains(ror, strings.ToLower(entry.ROR)) {
					return entry.Tag
				}
			}
			for _, rule := range nameRules {
				if rule.matches(inst.DisplayName) {
					return rule.Tag
				}
			}
		}
	}
	return OtherInstitution
}
