// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a log of past aggregation runs in SQLite so a
// researcher can recall which queries were tried and how they went.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

const defaultDBFile = "atlas/history.db"

// Entry is one recorded aggregation run.
type Entry struct {
	ID            int64
	QueryText     string
	Dimension     string
	FromYear      int
	Locations     []string
	Affiliations  []string
	Outcome       types.Outcome
	GroupCount    int
	UpstreamCount int
	RanAt         time.Time
}

// Store manages the query-history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at cfg.Path, creating
// parent directories and the schema as needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS queries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			query_text TEXT NOT NULL,
			dimension TEXT NOT NULL,
			from_year INTEGER,
			locations TEXT,
			affiliations TEXT,
			outcome TEXT NOT NULL,
			group_count INTEGER,
			upstream_count INTEGER,
			ran_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_ran_at ON queries(ran_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='queries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE queries_fts USING fts5(query_text, content=queries, content_rowid=rowid)`,
			`CREATE TRIGGER queries_ai AFTER INSERT ON queries BEGIN
				INSERT INTO queries_fts(rowid, query_text) VALUES (new.rowid, new.query_text);
			END`,
			`CREATE TRIGGER queries_ad AFTER DELETE ON queries BEGIN
				INSERT INTO queries_fts(queries_fts, rowid, query_text) VALUES('delete', old.rowid, old.query_text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Record appends one run to the history and returns its row id.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	ranAt := e.RanAt
	if ranAt.IsZero() {
		ranAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (query_text, dimension, from_year, locations, affiliations, outcome, group_count, upstream_count, ran_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.QueryText, e.Dimension, e.FromYear,
		strings.Join(e.Locations, ","), strings.Join(e.Affiliations, ","),
		string(e.Outcome), e.GroupCount, e.UpstreamCount,
		ranAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("recording query: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent entries, newest first. limit <= 0 means 20.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT rowid, query_text, dimension, from_year, locations, affiliations, outcome, group_count, upstream_count, ran_at
		 FROM queries ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Search finds entries whose query text matches an FTS5 expression,
// newest first. limit <= 0 means 20.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.rowid, q.query_text, q.dimension, q.from_year, q.locations, q.affiliations, q.outcome, q.group_count, q.upstream_count, q.ran_at
		 FROM queries q JOIN queries_fts f ON q.rowid = f.rowid
		 WHERE queries_fts MATCH ? ORDER BY q.rowid DESC LIMIT ?`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("searching history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var locations, affiliations, outcome, ranAt string
		if err := rows.Scan(&e.ID, &e.QueryText, &e.Dimension, &e.FromYear,
			&locations, &affiliations, &outcome, &e.GroupCount, &e.UpstreamCount, &ranAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Outcome = types.Outcome(outcome)
		e.Locations = splitList(locations)
		e.Affiliations = splitList(affiliations)
		if t, err := time.Parse(time.RFC3339, ranAt); err == nil {
			e.RanAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
