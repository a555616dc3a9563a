// Package store keeps a SQLite history of import and export runs.
//
// Only finished conversions are recorded. Dialog state, including the
// toggle groups, is never read back from here.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNoRun is returned by FinishRun for an unknown id.
var ErrNoRun = errors.New("store: no such run")

// Store handles SQLite persistence. NOT an interface - concrete type.
// All methods are safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Run is one operator execution.
type Run struct {
	ID       string
	Kind     string // "import", "export"
	Op       string // operator idname
	Path     string
	Keywords map[string]any
	Status   string // "", FINISHED, CANCELLED
	Err      string
	Started  time.Time
	Finished time.Time // zero while running
}

// Duration is how long a finished run took.
func (r Run) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Open creates a Store at dbPath, creating tables if needed. ":memory:"
// gives a private in-memory database.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every pooled connection to a shared-cache memory DB must be the same one.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		op TEXT NOT NULL,
		path TEXT NOT NULL,
		keywords TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		finished_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// RecordRun inserts a running entry and returns its id.
func (s *Store) RecordRun(kind, op, path string, keywords map[string]any, started time.Time) (string, error) {
	kw, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("encode keywords: %w", err)
	}
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT INTO runs (id, kind, op, path, keywords, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, kind, op, path, string(kw), started.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun stores the outcome of a run. runErr may be nil.
func (s *Store) FinishRun(id, status string, runErr error, finished time.Time) error {
	var msg string
	if runErr != nil {
		msg = runErr.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, msg, finished.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNoRun, id)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, kind, op, path, keywords, status, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			kw       string
			finished sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.Kind, &r.Op, &r.Path, &kw, &r.Status, &r.Err, &r.Started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(kw), &r.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords for %s: %w", r.ID, err)
		}
		if finished.Valid {
			r.Finished = finished.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
