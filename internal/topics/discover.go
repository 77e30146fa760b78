// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/research-atlas/internal/store"
	"github.com/pdiddy/research-atlas/internal/textproc"
	"github.com/pdiddy/research-atlas/pkg/types"
)

// Repository is the slice of the store that topic discovery needs.
type Repository interface {
	QualifyingDocuments(ctx context.Context, minAbstractLen int, sentinel string) ([]store.Document, error)
	ReplaceTopics(ctx context.Context, topics []store.DiscoveredTopic) error
}

// Discover runs the full topic-modeling pass: it pulls qualifying
// publications, vectorizes them, factorizes the corpus into topics,
// and replaces the stored topic set with the new one. A corpus too
// small or too uniform to model is reported on w and left untouched;
// it is not an error.
func Discover(ctx context.Context, repo Repository, cfg types.TopicConfig, w io.Writer) error {
	cfg = cfg.WithDefaults()

	docs, err := repo.QualifyingDocuments(ctx, cfg.MinAbstractLen, types.NoAbstract)
	if err != nil {
		return fmt.Errorf("loading qualifying publications: %w", err)
	}
	if len(docs) < cfg.MinPublications {
		fmt.Fprintf(w, "topic discovery skipped: %d qualifying publications, need %d\n", len(docs), cfg.MinPublications)
		return nil
	}

	// Titles are repeated so they weigh more than the abstract body.
	var ids []int64
	var tokens [][]string
	for _, doc := range docs {
		text := doc.Title + " " + doc.Title + " " + doc.Abstract
		toks := textproc.Tokens(text, textproc.DefaultMinTokenLen)
		if len(toks) < cfg.MinDocTokens {
			continue
		}
		ids = append(ids, doc.PublicationID)
		tokens = append(tokens, toks)
	}
	if len(tokens) < cfg.MinPublications {
		fmt.Fprintf(w, "topic discovery skipped: %d usable documents after tokenization, need %d\n", len(tokens), cfg.MinPublications)
		return nil
	}

	vocab := buildVocabulary(tokens, cfg.MinDocFreq, cfg.MaxDocFreqRatio, cfg.MaxFeatures)
	if len(vocab) == 0 {
		fmt.Fprintf(w, "topic discovery skipped: corpus too uniform to build a vocabulary\n")
		return nil
	}

	k := len(tokens) / cfg.DocsPerTopic
	if k < cfg.MinTopics {
		k = cfg.MinTopics
	}
	if k > cfg.MaxTopics {
		k = cfg.MaxTopics
	}
	if k > len(vocab) {
		k = len(vocab)
	}
	if k > len(tokens) {
		k = len(tokens)
	}

	fmt.Fprintf(w, "modeling %d topics over %d documents (%d terms)\n", k, len(tokens), len(vocab))

	tfidf := tfidfMatrix(tokens, vocab)
	weights, loadings := factorize(tfidf, k, cfg.MaxIterations)

	discovered := make([]store.DiscoveredTopic, 0, k)
	for topic := 0; topic < k; topic++ {
		keywords := topicKeywords(topTerms(loadings, topic, vocab, maxTopicKeywords))
		var assignments []store.Assignment
		for d, id := range ids {
			if weight := weights.At(d, topic); weight > cfg.AssignmentThreshold {
				assignments = append(assignments, store.Assignment{
					PublicationID: id,
					Weight:        weight,
				})
			}
		}
		discovered = append(discovered, store.DiscoveredTopic{
			Name:        topicName(keywords),
			Keywords:    keywords,
			Assignments: assignments,
		})
	}

	if err := repo.ReplaceTopics(ctx, discovered); err != nil {
		return fmt.Errorf("replacing topics: %w", err)
	}
	fmt.Fprintf(w, "discovered %d topics\n", len(discovered))
	return nil
}
