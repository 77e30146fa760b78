// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/mat"
)

// maxTopicNameLen caps persisted topic names.
const maxTopicNameLen = 100

// maxTopicKeywords is how many top terms are persisted per topic.
const maxTopicKeywords = 10

// genericTerms are corpus-wide filler words that make for useless
// topic labels.
var genericTerms = map[string]struct{}{
	"data":     {},
	"study":    {},
	"research": {},
	"analysis": {},
	"results":  {},
}

// topTerms returns vocabulary terms for topic row k of h in descending
// loading order, capped at limit.
func topTerms(h *mat.Dense, k int, vocab []string, limit int) []string {
	order := make([]int, len(vocab))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		wa, wb := h.At(k, order[a]), h.At(k, order[b])
		if wa != wb {
			return wa > wb
		}
		return vocab[order[a]] < vocab[order[b]]
	})
	if limit > len(order) {
		limit = len(order)
	}
	terms := make([]string, limit)
	for i := 0; i < limit; i++ {
		terms[i] = vocab[order[i]]
	}
	return terms
}

// topicKeywords filters a topic's top terms down to descriptive
// keywords, dropping generic filler and terms of three characters or
// fewer. If fewer than three terms survive the filter, the unfiltered
// top five are used instead so a topic never ends up unnamed.
func topicKeywords(terms []string) []string {
	var kept []string
	for _, term := range terms {
		if len(term) <= 3 {
			continue
		}
		if _, generic := genericTerms[term]; generic {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) < 3 {
		if len(terms) > 5 {
			return terms[:5]
		}
		return terms
	}
	if len(kept) > maxTopicKeywords {
		kept = kept[:maxTopicKeywords]
	}
	return kept
}

// topicName labels a topic from its keywords: the top three, each
// title-cased, joined with " / " and capped at maxTopicNameLen.
func topicName(keywords []string) string {
	n := len(keywords)
	if n > 3 {
		n = 3
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = titleCase(keywords[i])
	}
	name := strings.Join(parts, " / ")
	if len(name) > maxTopicNameLen {
		name = name[:maxTopicNameLen]
	}
	return name
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
