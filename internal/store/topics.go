// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Assignment links a publication to a discovered topic with a weight.
type Assignment struct {
	PublicationID int64
	Weight        float64
}

// DiscoveredTopic is one topic produced by a modeling run, ready to be
// persisted together with its above-threshold assignments.
type DiscoveredTopic struct {
	Name        string
	Keywords    []string
	Assignments []Assignment
}

// ReplaceTopics atomically swaps the persisted topic set: all existing
// topics and assignments are deleted and the new ones inserted inside a
// single transaction, so readers never observe a half-replaced set.
func (s *Store) ReplaceTopics(ctx context.Context, topics []DiscoveredTopic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM publication_topics`); err != nil {
		return fmt.Errorf("clearing topic assignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM topics`); err != nil {
		return fmt.Errorf("clearing topics: %w", err)
	}

	for _, topic := range topics {
		keywordsJSON, _ := json.Marshal(topic.Keywords)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO topics (name, keywords) VALUES (?, ?)`,
			topic.Name, string(keywordsJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting topic %q: %w", topic.Name, err)
		}
		topicID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading topic id: %w", err)
		}

		for _, a := range topic.Assignments {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO publication_topics (publication_id, topic_id, probability) VALUES (?, ?, ?)`,
				a.PublicationID, topicID, a.Weight,
			); err != nil {
				return fmt.Errorf("inserting assignment: %w", err)
			}
		}
	}

	return tx.Commit()
}

// Document is a publication's text as input to topic modeling.
type Document struct {
	PublicationID int64
	Title         string
	Abstract      string
}

// QualifyingDocuments returns the publications eligible for topic
// modeling: abstract present, not the sentinel, and at least
// minAbstractLen characters long.
func (s *Store) QualifyingDocuments(ctx context.Context, minAbstractLen int, sentinel string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, abstract FROM publications
		 WHERE abstract IS NOT NULL AND abstract != '' AND abstract != ?
		   AND LENGTH(abstract) >= ?
		 ORDER BY id`,
		sentinel, minAbstractLen,
	)
	if err != nil {
		return nil, fmt.Errorf("querying qualifying publications: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.PublicationID, &d.Title, &d.Abstract); err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
