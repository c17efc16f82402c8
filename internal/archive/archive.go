// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists completed PaperSummary records in SQLite so
// earlier runs can be listed, shown and searched.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

const (
	dbFile       = "summaries.db"
	defaultLimit = 20
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("summary not found")

// Entry is the listing view of an archived summary.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Source    string    `json:"source" yaml:"source"`
	Keywords  []string  `json:"keywords" yaml:"keywords"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Record is an archived summary with its full payload.
type Record struct {
	Entry   `yaml:",inline"`
	Summary *types.PaperSummary `json:"summary" yaml:"summary"`
}

// Store is the SQLite summary archive.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the archive database at cfg.Dir/summaries.db.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(cfg.Dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
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
		`CREATE TABLE IF NOT EXISTS summaries (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			source TEXT,
			overall TEXT,
			keywords TEXT,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_created_at ON summaries(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save archives summary under a new id. source names the input file.
func (s *Store) Save(ctx context.Context, source string, summary *types.PaperSummary) (Entry, error) {
	if summary == nil {
		return Entry{}, fmt.Errorf("nil summary")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, fmt.Errorf("generating id: %w", err)
	}
	payload, err := yaml.Marshal(summary)
	if err != nil {
		return Entry{}, fmt.Errorf("marshaling summary: %w", err)
	}
	authors, _ := json.Marshal(summary.Authors)
	keywords, _ := json.Marshal(summary.OverallKeywords)

	e := Entry{
		ID:        id.String(),
		Title:     summary.Title,
		Source:    source,
		Keywords:  summary.OverallKeywords,
		CreatedAt: s.now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO summaries (id, title, authors, source, overall, keywords, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, string(authors), e.Source, summary.OverallSummary, string(keywords),
		string(payload), e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("inserting summary: %w", err)
	}
	return e, nil
}

// List returns the most recent entries, newest first. A limit <= 0 uses 20.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, "", limit)
}

// Search returns entries whose title, overall summary or keywords contain
// query, newest first. Matching is case-insensitive for ASCII.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, limit)
	}
	return s.query(ctx, query, limit)
}

func (s *Store) query(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT id, title, source, keywords, created_at FROM summaries`)
	if query != "" {
		pattern := "%" + escapeLike(query) + "%"
		qb.WriteString(` WHERE title LIKE ? ESCAPE '\' OR overall LIKE ? ESCAPE '\' OR keywords LIKE ? ESCAPE '\'`)
		args = append(args, pattern, pattern, pattern)
	}
	qb.WriteString(` ORDER BY created_at DESC, id DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			title    sql.NullString
			source   sql.NullString
			keywords sql.NullString
			created  string
		)
		if err := rows.Scan(&e.ID, &title, &source, &keywords, &created); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Title, e.Source = title.String, source.String
		if keywords.Valid {
			json.Unmarshal([]byte(keywords.String), &e.Keywords)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the archived record with id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	var (
		r        Record
		title    sql.NullString
		source   sql.NullString
		keywords sql.NullString
		payload  string
		created  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, source, keywords, payload, created_at FROM summaries WHERE id = ?`, id,
	).Scan(&r.ID, &title, &source, &keywords, &payload, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Record{}, fmt.Errorf("looking up summary: %w", err)
	}

	r.Title, r.Source = title.String, source.String
	if keywords.Valid {
		json.Unmarshal([]byte(keywords.String), &r.Keywords)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

	var summary types.PaperSummary
	if err := yaml.Unmarshal([]byte(payload), &summary); err != nil {
		return Record{}, fmt.Errorf("decoding summary %s: %w", id, err)
	}
	r.Summary = &summary
	return r, nil
}

// escapeLike escapes LIKE wildcards in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
