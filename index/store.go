// Package index keeps the query index: page metadata in SQLite, refreshed
// from a content source and served as query-index.json.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/eringen/contentflow/content"
)

// ErrNotFound reports a path with no index row.
var ErrNotFound = errors.New("index: not found")

// Store wraps a SQLite database holding one row per indexed page.
type Store struct {
	db *sql.DB
}

var _ content.EntrySource = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists and creates the schema. ":memory:" opens a private
// in-memory database.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("index: create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("index: open %s: %w", path, err)
	}
	if path == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		// WAL lets the page handlers read while the indexer writes.
		if _, err := db.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA busy_timeout=5000;
			PRAGMA synchronous=NORMAL;
		`); err != nil {
			db.Close()
			return nil, fmt.Errorf("index: pragmas: %w", err)
		}
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    path TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    audience TEXT NOT NULL DEFAULT '',
    last_modified INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS pages_last_modified ON pages(last_modified DESC);
`)
	if err != nil {
		return fmt.Errorf("index: schema: %w", err)
	}
	return nil
}

const columns = `path, title, description, image, audience, last_modified`

func scanEntry(sc interface{ Scan(...any) error }) (content.Entry, error) {
	var e content.Entry
	err := sc.Scan(&e.Path, &e.Title, &e.Description, &e.Image, &e.Audience, &e.LastModified)
	return e, err
}

// Upsert inserts or replaces the row for e.Path.
func (s *Store) Upsert(ctx context.Context, e content.Entry) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO pages (`+columns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Path, e.Title, e.Description, e.Image, e.Audience, e.LastModified)
	if err != nil {
		return fmt.Errorf("index: upsert %s: %w", e.Path, err)
	}
	return nil
}

// Delete removes the row for path.
func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete %s: %w", path, err)
	}
	return nil
}

// Get returns the row for path.
func (s *Store) Get(ctx context.Context, path string) (content.Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM pages WHERE path = ?`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return content.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return content.Entry{}, fmt.Errorf("index: get %s: %w", path, err)
	}
	return e, nil
}

// Query selects rows for a listing.
type Query struct {
	// Prefix keeps paths starting with it.
	Prefix string
	Offset int
	// Limit caps the rows returned; zero means no cap.
	Limit int
}

// List returns rows matching q ordered by path, and the total number of
// matching rows ignoring Offset and Limit.
func (s *Store) List(ctx context.Context, q Query) ([]content.Entry, int, error) {
	where := ""
	var args []any
	if q.Prefix != "" {
		where = ` WHERE substr(path, 1, ?) = ?`
		args = append(args, len(q.Prefix), q.Prefix)
	}
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM pages`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count: %w", err)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+columns+` FROM pages`+where+` ORDER BY path LIMIT ? OFFSET ?`,
		append(args, limit, max(q.Offset, 0))...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list: %w", err)
	}
	defer rows.Close()

	var out []content.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("index: scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("index: list: %w", err)
	}
	return out, total, nil
}

// Entries returns every row.
func (s *Store) Entries(ctx context.Context) ([]content.Entry, error) {
	out, _, err := s.List(ctx, Query{})
	return out, err
}

// Paths returns every indexed path.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM pages ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: paths: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("index: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
