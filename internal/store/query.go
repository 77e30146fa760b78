// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ListOptions filter and paginate the publication listing.
type ListOptions struct {
	// Page is 1-based; PerPage is clamped to [1, 100] (default 20).
	Page    int
	PerPage int

	// Year filters to one publication year when non-zero.
	Year int

	// TopicID filters to publications assigned to the topic when non-zero.
	TopicID int64

	// Search matches title or abstract, case-insensitive substring.
	Search string
}

// PublicationSummary is one row of the publication listing.
type PublicationSummary struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Year     int    `json:"year,omitempty"`
	Source   string `json:"source"`
	URL      string `json:"url"`
}

// PublicationPage is a paginated publication listing.
type PublicationPage struct {
	Items      []PublicationSummary `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PerPage    int                  `json:"per_page"`
	TotalPages int                  `json:"total_pages"`
	HasNext    bool                 `json:"has_next"`
	HasPrev    bool                 `json:"has_prev"`
}

// ListPublications returns a filtered page of publications ordered by
// year descending, then id descending.
func (s *Store) ListPublications(ctx context.Context, opts ListOptions) (PublicationPage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 {
		opts.PerPage = 20
	}
	if opts.PerPage > 100 {
		opts.PerPage = 100
	}

	var where []string
	var args []any
	join := ""
	if opts.Year != 0 {
		where = append(where, "p.year = ?")
		args = append(args, opts.Year)
	}
	if opts.TopicID != 0 {
		join = " JOIN publication_topics pt ON pt.publication_id = p.id"
		where = append(where, "pt.topic_id = ?")
		args = append(args, opts.TopicID)
	}
	if opts.Search != "" {
		where = append(where, "(p.title LIKE ? OR p.abstract LIKE ?)")
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT p.id) FROM publications p`+join+whereClause, args...,
	).Scan(&total)
	if err != nil {
		return PublicationPage{}, fmt.Errorf("counting publications: %w", err)
	}

	offset := (opts.Page - 1) * opts.PerPage
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT p.id, p.title, p.abstract, p.year, p.source, p.url
		 FROM publications p`+join+whereClause+`
		 ORDER BY p.year DESC, p.id DESC
		 LIMIT ? OFFSET ?`,
		append(args, opts.PerPage, offset)...,
	)
	if err != nil {
		return PublicationPage{}, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	items := []PublicationSummary{}
	for rows.Next() {
		item, err := scanSummary(rows)
		if err != nil {
			return PublicationPage{}, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return PublicationPage{}, err
	}

	totalPages := (total + opts.PerPage - 1) / opts.PerPage
	return PublicationPage{
		Items:      items,
		Total:      total,
		Page:       opts.Page,
		PerPage:    opts.PerPage,
		TotalPages: totalPages,
		HasNext:    opts.Page < totalPages,
		HasPrev:    opts.Page > 1,
	}, nil
}

func scanSummary(rows *sql.Rows) (PublicationSummary, error) {
	var item PublicationSummary
	var year sql.NullInt64
	var abstract, source, url sql.NullString
	if err := rows.Scan(&item.ID, &item.Title, &abstract, &year, &source, &url); err != nil {
		return item, fmt.Errorf("scanning publication: %w", err)
	}
	item.Abstract = abstract.String
	item.Year = int(year.Int64)
	item.Source = source.String
	item.URL = url.String
	return item, nil
}

// AuthorRecord is a persisted author.
type AuthorRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
}

// TopicRecord is a persisted topic with its ordered keyword list.
type TopicRecord struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Keywords         []string `json:"keywords"`
	PublicationCount int      `json:"publication_count"`
}

// PublicationDetail is a single publication with authors and topics.
type PublicationDetail struct {
	PublicationSummary
	Authors []AuthorRecord `json:"authors"`
	Topics  []TopicRecord  `json:"topics"`
}

// ErrNotFound is returned when a detail lookup misses.
var ErrNotFound = errors.New("not found")

// GetPublication returns one publication with its authors and topics.
func (s *Store) GetPublication(ctx context.Context, id int64) (PublicationDetail, error) {
	var detail PublicationDetail
	var year sql.NullInt64
	var abstract, source, url sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, abstract, year, source, url FROM publications WHERE id = ?`, id,
	).Scan(&detail.ID, &detail.Title, &abstract, &year, &source, &url)
	if errors.Is(err, sql.ErrNoRows) {
		return detail, fmt.Errorf("publication %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return detail, fmt.Errorf("loading publication: %w", err)
	}
	detail.Abstract = abstract.String
	detail.Year = int(year.Int64)
	detail.Source = source.String
	detail.URL = url.String

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.name, COALESCE(a.affiliation, '')
		 FROM authors a
		 JOIN publication_authors pa ON pa.author_id = a.id
		 WHERE pa.publication_id = ?
		 ORDER BY a.id`, id,
	)
	if err != nil {
		return detail, fmt.Errorf("loading authors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a AuthorRecord
		if err := rows.Scan(&a.ID, &a.Name, &a.Affiliation); err != nil {
			return detail, fmt.Errorf("scanning author: %w", err)
		}
		detail.Authors = append(detail.Authors, a)
	}
	if err := rows.Err(); err != nil {
		return detail, err
	}

	topicRows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, COALESCE(t.keywords, '')
		 FROM topics t
		 JOIN publication_topics pt ON pt.topic_id = t.id
		 WHERE pt.publication_id = ?
		 ORDER BY pt.probability DESC`, id,
	)
	if err != nil {
		return detail, fmt.Errorf("loading topics: %w", err)
	}
	defer topicRows.Close()
	for topicRows.Next() {
		var t TopicRecord
		var keywordsJSON string
		if err := topicRows.Scan(&t.ID, &t.Name, &keywordsJSON); err != nil {
			return detail, fmt.Errorf("scanning topic: %w", err)
		}
		t.Keywords = decodeKeywords(keywordsJSON)
		detail.Topics = append(detail.Topics, t)
	}
	return detail, topicRows.Err()
}

// AuthorCount pairs an author with their publication count.
type AuthorCount struct {
	Name         string `json:"name"`
	Affiliation  string `json:"affiliation,omitempty"`
	Publications int    `json:"publications"`
}

// Statistics is the aggregate view over the store.
type Statistics struct {
	TotalPublications int           `json:"total_publications"`
	TotalAuthors      int           `json:"total_authors"`
	TotalTopics       int           `json:"total_topics"`
	ByYear            map[int]int   `json:"publications_by_year"`
	TopAuthors        []AuthorCount `json:"top_authors"`
}

// Stats computes totals, per-year counts, and the top authors by
// publication count.
func (s *Store) Stats(ctx context.Context) (Statistics, error) {
	stats := Statistics{ByYear: make(map[int]int)}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM publications`, &stats.TotalPublications},
		{`SELECT COUNT(*) FROM authors`, &stats.TotalAuthors},
		{`SELECT COUNT(*) FROM topics`, &stats.TotalTopics},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return stats, fmt.Errorf("counting: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT year, COUNT(*) FROM publications WHERE year IS NOT NULL GROUP BY year`,
	)
	if err != nil {
		return stats, fmt.Errorf("counting by year: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var year, count int
		if err := rows.Scan(&year, &count); err != nil {
			return stats, fmt.Errorf("scanning year count: %w", err)
		}
		stats.ByYear[year] = count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	authorRows, err := s.db.QueryContext(ctx,
		`SELECT a.name, COALESCE(a.affiliation, ''), COUNT(pa.publication_id) AS pub_count
		 FROM authors a
		 JOIN publication_authors pa ON pa.author_id = a.id
		 GROUP BY a.id
		 ORDER BY pub_count DESC, a.id
		 LIMIT 10`,
	)
	if err != nil {
		return stats, fmt.Errorf("ranking authors: %w", err)
	}
	defer authorRows.Close()
	for authorRows.Next() {
		var ac AuthorCount
		if err := authorRows.Scan(&ac.Name, &ac.Affiliation, &ac.Publications); err != nil {
			return stats, fmt.Errorf("scanning author count: %w", err)
		}
		stats.TopAuthors = append(stats.TopAuthors, ac)
	}
	return stats, authorRows.Err()
}

// Topics lists all topics with their publication counts.
func (s *Store) Topics(ctx context.Context) ([]TopicRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name, COALESCE(t.keywords, ''), COUNT(pt.id)
		 FROM topics t
		 LEFT JOIN publication_topics pt ON pt.topic_id = t.id
		 GROUP BY t.id
		 ORDER BY t.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var topics []TopicRecord
	for rows.Next() {
		var t TopicRecord
		var keywordsJSON string
		if err := rows.Scan(&t.ID, &t.Name, &keywordsJSON, &t.PublicationCount); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		t.Keywords = decodeKeywords(keywordsJSON)
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// TrendPoint is one (year, topic, count) cell of the trends view.
type TrendPoint struct {
	Year  int    `json:"year"`
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// TopicTrends returns topic assignment counts grouped by publication
// year and topic, ordered by year then topic name.
func (s *Store) TopicTrends(ctx context.Context) ([]TrendPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.year, t.name, COUNT(pt.id)
		 FROM publications p
		 JOIN publication_topics pt ON pt.publication_id = p.id
		 JOIN topics t ON t.id = pt.topic_id
		 WHERE p.year IS NOT NULL
		 GROUP BY p.year, t.name
		 ORDER BY p.year, t.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying topic trends: %w", err)
	}
	defer rows.Close()

	var trends []TrendPoint
	for rows.Next() {
		var tp TrendPoint
		if err := rows.Scan(&tp.Year, &tp.Topic, &tp.Count); err != nil {
			return nil, fmt.Errorf("scanning trend: %w", err)
		}
		trends = append(trends, tp)
	}
	return trends, rows.Err()
}

func decodeKeywords(keywordsJSON string) []string {
	if keywordsJSON == "" {
		return nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(keywordsJSON), &keywords); err != nil {
		return nil
	}
	return keywords
}
