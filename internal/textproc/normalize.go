// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textproc normalizes free text for topic modeling.
package textproc

import "strings"

// DefaultMinTokenLen is the minimum token length kept by Normalize.
const DefaultMinTokenLen = 3

// stopwordsEN holds generic English function words.
var stopwordsEN = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "was": {},
	"are": {}, "been": {}, "be": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "must": {},
	"can": {}, "this": {}, "that": {}, "these": {}, "those": {},
}

// stopwordsID holds Indonesian function words. Abstracts from national
// venues mix both languages, so both sets are always applied.
var stopwordsID = map[string]struct{}{
	"yang": {}, "dan": {}, "di": {}, "dari": {}, "untuk": {},
	"pada": {}, "dengan": {}, "ini": {}, "itu": {}, "adalah": {},
	"akan": {}, "telah": {}, "atau": {}, "juga": {}, "serta": {},
	"oleh": {}, "ke": {}, "dalam": {},
}

// IsStopword reports whether token is in either the English or the
// Indonesian stopword set. Token must already be lowercase.
func IsStopword(token string) bool {
	if _, ok := stopwordsEN[token]; ok {
		return true
	}
	_, ok := stopwordsID[token]
	return ok
}

// Normalize lowercases text, maps every character outside [a-z0-9] to a
// space, collapses whitespace, and drops stopwords and tokens shorter
// than minTokenLen. The result is a space-joined token sequence; empty
// input yields "". Normalize is idempotent.
func Normalize(text string, minTokenLen int) string {
	if text == "" {
		return ""
	}
	if minTokenLen <= 0 {
		minTokenLen = DefaultMinTokenLen
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	var kept []string
	for _, tok := range strings.Fields(b.String()) {
		if len(tok) < minTokenLen || IsStopword(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// Tokens returns the normalized token slice for text.
func Tokens(text string, minTokenLen int) []string {
	norm := Normalize(text, minTokenLen)
	if norm == "" {
		return nil
	}
	return strings.Split(norm, " ")
}
