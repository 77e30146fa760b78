// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topics discovers latent research topics: it vectorizes the
// publication corpus with TF-IDF, factorizes the matrix into topics
// with non-negative matrix factorization, names the topics from their
// top terms, and persists thresholded per-publication assignments.
package topics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// termStats tracks corpus-wide counts for one term during vocabulary
// construction.
type termStats struct {
	term string
	df   int // documents containing the term
	tf   int // total occurrences across the corpus
}

// ngrams returns the unigrams and bigrams of a token sequence. Bigrams
// are space-joined, matching the vocabulary representation.
func ngrams(tokens []string) []string {
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// buildVocabulary selects the modeling vocabulary over unigrams and
// bigrams: a term must appear in at least minDF documents and in at
// most maxDFRatio of them, and the vocabulary is capped at maxFeatures
// terms by descending corpus frequency. The returned terms are in a
// deterministic order (frequency, then lexicographic).
func buildVocabulary(docs [][]string, minDF int, maxDFRatio float64, maxFeatures int) []string {
	stats := make(map[string]*termStats)
	for _, tokens := range docs {
		seen := make(map[string]struct{})
		for _, term := range ngrams(tokens) {
			st, ok := stats[term]
			if !ok {
				st = &termStats{term: term}
				stats[term] = st
			}
			st.tf++
			if _, dup := seen[term]; !dup {
				st.df++
				seen[term] = struct{}{}
			}
		}
	}

	maxDF := int(maxDFRatio * float64(len(docs)))
	var kept []*termStats
	for _, st := range stats {
		if st.df < minDF || st.df > maxDF {
			continue
		}
		kept = append(kept, st)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].tf != kept[j].tf {
			return kept[i].tf > kept[j].tf
		}
		return kept[i].term < kept[j].term
	})
	if len(kept) > maxFeatures {
		kept = kept[:maxFeatures]
	}

	vocab := make([]string, len(kept))
	for i, st := range kept {
		vocab[i] = st.term
	}
	return vocab
}

// tfidfMatrix builds the documents×terms TF-IDF matrix over vocab with
// smoothed inverse document frequency and L2-normalized rows.
func tfidfMatrix(docs [][]string, vocab []string) *mat.Dense {
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	n := len(docs)
	m := len(vocab)

	df := make([]int, m)
	counts := make([][]float64, n)
	for d, tokens := range docs {
		row := make([]float64, m)
		for _, term := range ngrams(tokens) {
			if j, ok := index[term]; ok {
				row[j]++
			}
		}
		for j, c := range row {
			if c > 0 {
				df[j]++
			}
		}
		counts[d] = row
	}

	idf := make([]float64, m)
	for j := range idf {
		idf[j] = math.Log(float64(1+n)/float64(1+df[j])) + 1
	}

	tfidf := mat.NewDense(n, m, nil)
	for d := 0; d < n; d++ {
		var norm float64
		row := counts[d]
		for j := range row {
			row[j] *= idf[j]
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		tfidf.SetRow(d, row)
	}
	return tfidf
}
