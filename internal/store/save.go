// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/research-atlas/pkg/types"
)

// SaveSummary holds counts from one save batch.
type SaveSummary struct {
	Saved   int
	Skipped int
}

// SavePublications merges a batch of parsed publications into the
// store. A record whose exact title already exists is skipped. Authors
// are created idempotently by exact name; an author's affiliation is
// stored only when the author row is first created and never
// overwritten. Work is committed every batchSize saves to bound
// transaction size; on failure the open transaction is rolled back and
// the error returned, leaving previously committed batches intact.
//
// Title and author matching is deliberately case- and
// whitespace-sensitive; near-duplicate records differing only in
// casing are kept as distinct rows.
func (s *Store) SavePublications(ctx context.Context, pubs []types.ParsedPublication, w io.Writer) (SaveSummary, error) {
	var summary SaveSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	for _, pub := range pubs {
		var existingID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM publications WHERE title = ?`, pub.Title,
		).Scan(&existingID)
		switch {
		case err == nil:
			summary.Skipped++
			continue
		case !errors.Is(err, sql.ErrNoRows):
			return summary, fmt.Errorf("looking up publication: %w", err)
		}

		if err := insertPublication(ctx, tx, pub); err != nil {
			return summary, err
		}
		summary.Saved++

		if summary.Saved%s.batchSize == 0 {
			if err := tx.Commit(); err != nil {
				tx = nil
				return summary, fmt.Errorf("committing batch: %w", err)
			}
			fmt.Fprintf(w, "  progress: %d saved, %d skipped\n", summary.Saved, summary.Skipped)
			tx, err = s.db.BeginTx(ctx, nil)
			if err != nil {
				return summary, fmt.Errorf("beginning transaction: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		tx = nil
		return summary, fmt.Errorf("committing batch: %w", err)
	}
	tx = nil

	fmt.Fprintf(w, "Saved %d new publications, skipped %d duplicates\n", summary.Saved, summary.Skipped)
	return summary, nil
}

func insertPublication(ctx context.Context, tx *sql.Tx, pub types.ParsedPublication) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO publications (title, abstract, year, source, url) VALUES (?, ?, ?, ?, ?)`,
		pub.Title, pub.Abstract, nullableYear(pub.Year), pub.Source, pub.URL,
	)
	if err != nil {
		return fmt.Errorf("inserting publication: %w", err)
	}
	pubID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading publication id: %w", err)
	}

	for _, author := range pub.Authors {
		if author.Name == "" || author.Name == "Unknown" {
			continue
		}
		authorID, err := findOrCreateAuthor(ctx, tx, author)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO publication_authors (publication_id, author_id) VALUES (?, ?)`,
			pubID, authorID,
		); err != nil {
			return fmt.Errorf("linking author: %w", err)
		}
	}
	return nil
}

// findOrCreateAuthor looks up an author by exact name, creating the row
// (with the sighted affiliation) when absent.
func findOrCreateAuthor(ctx context.Context, tx *sql.Tx, author types.AuthorRef) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM authors WHERE name = ?`, author.Name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("looking up author: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO authors (name, affiliation) VALUES (?, ?)`,
		author.Name, author.Affiliation,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting author: %w", err)
	}
	return res.LastInsertId()
}
