// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists publications, authors, topics, and topic
// assignments in SQLite, and serves the read-side queries over them.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-atlas/pkg/types"
)

const defaultBatchSize = 50

// Store manages the publication SQLite database.
type Store struct {
	db        *sql.DB
	batchSize int
}

// Open opens or creates the SQLite database at cfg.DatabasePath and
// creates the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DatabasePath
	if path == "" {
		path = filepath.Join("data", "atlas.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	s := &Store{db: db, batchSize: batchSize}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			abstract TEXT,
			year INTEGER,
			source TEXT,
			url TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_title ON publications(title)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_year ON publications(year)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			affiliation TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_name ON authors(name)`,
		`CREATE TABLE IF NOT EXISTS publication_authors (
			publication_id INTEGER NOT NULL REFERENCES publications(id),
			author_id INTEGER NOT NULL REFERENCES authors(id),
			PRIMARY KEY (publication_id, author_id)
		)`,
		`CREATE TABLE IF NOT EXISTS topics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			keywords TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS publication_topics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			publication_id INTEGER NOT NULL REFERENCES publications(id),
			topic_id INTEGER NOT NULL REFERENCES topics(id),
			probability REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publication_topics_topic ON publication_topics(topic_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// nullableYear maps the 0 "absent" year to NULL so year statistics and
// ordering skip it cleanly.
func nullableYear(year int) any {
	if year == 0 {
		return nil
	}
	return year
}
