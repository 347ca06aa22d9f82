// Package store is the SQLite cache of per-file analysis results. It lets
// repeated runs over a tree skip files whose content hash has not changed.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cbergh/pyfloor/internal/version"
)

// Store wraps the cache database.
type Store struct {
	db *sql.DB
}

// Result is one cached per-file outcome. Conflict marks files whose
// requirements exclude both major lines.
type Result struct {
	Path     string
	Hash     string
	Minimum  version.Pair
	Conflict bool
	Report   string
	Analyzed time.Time
}

// New opens the cache database at dbPath with WAL mode enabled.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS results (
  path          TEXT PRIMARY KEY,
  hash          TEXT NOT NULL,
  min_v2        TEXT NOT NULL,
  min_v3        TEXT NOT NULL,
  conflict      BOOLEAN NOT NULL DEFAULT FALSE,
  report        TEXT NOT NULL DEFAULT '',
  last_analyzed TIMESTAMP
);
`

// Migrate creates the results table. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Lookup returns the cached result for path when the stored hash matches
// the current content hash. A stale or missing entry returns nil.
func (s *Store) Lookup(path, hash string) (*Result, error) {
	row := s.db.QueryRow(
		`SELECT hash, min_v2, min_v3, conflict, report, last_analyzed
		   FROM results WHERE path = ?`, path)

	var r Result
	var v2, v3 string
	err := row.Scan(&r.Hash, &v2, &v3, &r.Conflict, &r.Report, &r.Analyzed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", path, err)
	}
	if r.Hash != hash {
		return nil, nil
	}
	if r.Minimum.V2, err = version.Parse(v2); err != nil {
		return nil, fmt.Errorf("lookup %s: %w", path, err)
	}
	if r.Minimum.V3, err = version.Parse(v3); err != nil {
		return nil, fmt.Errorf("lookup %s: %w", path, err)
	}
	r.Path = path
	return &r, nil
}

// Save upserts one per-file result.
func (s *Store) Save(r *Result) error {
	_, err := s.db.Exec(
		`INSERT INTO results (path, hash, min_v2, min_v3, conflict, report, last_analyzed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   hash = excluded.hash,
		   min_v2 = excluded.min_v2,
		   min_v3 = excluded.min_v3,
		   conflict = excluded.conflict,
		   report = excluded.report,
		   last_analyzed = excluded.last_analyzed`,
		r.Path, r.Hash, r.Minimum.V2.String(), r.Minimum.V3.String(),
		r.Conflict, r.Report, r.Analyzed)
	if err != nil {
		return fmt.Errorf("save %s: %w", r.Path, err)
	}
	return nil
}

// Forget drops the cached entry for path, if any.
func (s *Store) Forget(path string) error {
	if _, err := s.db.Exec(`DELETE FROM results WHERE path = ?`, path); err != nil {
		return fmt.Errorf("forget %s: %w", path, err)
	}
	return nil
}
