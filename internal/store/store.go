// Package store persists per-run invocation records to a SQLite database so
// batch outcomes can be queried after the fact without grepping run logs.
// Tracking is best-effort: the pipeline degrades to log-only auditing when
// the database cannot be opened.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the tracking database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                 TEXT PRIMARY KEY,
	mode               TEXT NOT NULL,
	staging_dir        TEXT NOT NULL,
	started_at         DATETIME NOT NULL,
	finished_at        DATETIME,
	total_invocations  INTEGER,
	failed_invocations INTEGER
);
CREATE TABLE IF NOT EXISTS invocations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	target     TEXT NOT NULL,
	input      TEXT NOT NULL,
	extension  INTEGER NOT NULL,
	output     TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	detail     TEXT,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_run ON invocations(run_id);
`

// Open opens (or creates) the tracking database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open tracking db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tracking schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records a new batch run and returns its ID.
func (s *Store) BeginRun(mode, stagingDir string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, mode, staging_dir, started_at) VALUES (?, ?, ?, ?)`,
		id, mode, stagingDir, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// RecordInvocation stores one external call. extension is 0 in maghist mode,
// where the tool walks extensions itself. detail carries a short diagnostic
// excerpt for failed calls and is empty otherwise.
func (s *Store) RecordInvocation(runID, target, input string, extension int, output, outcome, detail string) error {
	_, err := s.db.Exec(
		`INSERT INTO invocations (run_id, target, input, extension, output, outcome, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, target, input, extension, output, outcome, detail, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record invocation: %w", err)
	}
	return nil
}

// FinishRun stamps the run's end time and aggregate counters. The counters
// are derived from the recorded invocations so the runs row always agrees
// with its detail rows.
func (s *Store) FinishRun(runID string) error {
	total, err := s.CountInvocations(runID, "")
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	failed, err := s.CountInvocations(runID, "failed")
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE runs SET finished_at = ?, total_invocations = ?, failed_invocations = ? WHERE id = ?`,
		time.Now().UTC(), total, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// CountInvocations returns the invocation count for one run, optionally
// filtered by outcome ("" counts all).
func (s *Store) CountInvocations(runID, outcome string) (int, error) {
	var n int
	var err error
	if outcome == "" {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM invocations WHERE run_id = ?`, runID).Scan(&n)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM invocations WHERE run_id = ? AND outcome = ?`, runID, outcome).Scan(&n)
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}
