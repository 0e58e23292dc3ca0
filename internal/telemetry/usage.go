// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/akinsokpah/fulltask-tui/internal/store"
)

const usageFile = "usage.db"

const schema = `
CREATE TABLE IF NOT EXISTS usage (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	ts               INTEGER NOT NULL,
	session_id       TEXT    NOT NULL,
	model            TEXT    NOT NULL,
	mode             TEXT    NOT NULL DEFAULT '',
	prompt_chars     INTEGER NOT NULL,
	completion_chars INTEGER NOT NULL,
	duration_ms      INTEGER NOT NULL,
	outcome          TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_usage_ts ON usage(ts);
`

// Exchange outcomes recorded in the ledger.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Record is one completed exchange.
type Record struct {
	Timestamp       time.Time
	SessionID       string
	Model           string
	Mode            string
	PromptChars     int
	CompletionChars int
	Duration        time.Duration
	Outcome         string
}

// Summary aggregates the ledger.
type Summary struct {
	Exchanges       int
	Errors          int
	PromptChars     int64
	CompletionChars int64
	TotalDuration   time.Duration
}

// UsageStore is the SQLite-backed exchange ledger.
type UsageStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger at path. An empty path selects
// the default location under the fulltask data directory.
func Open(path string) (*UsageStore, error) {
	if path == "" {
		dir, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, usageFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize usage schema: %w", err)
	}
	return &UsageStore{db: db}, nil
}

// Close closes the underlying database.
func (s *UsageStore) Close() error {
	return s.db.Close()
}

// Add appends one exchange to the ledger.
func (s *UsageStore) Add(r Record) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	if r.Outcome == "" {
		r.Outcome = OutcomeOK
	}
	_, err := s.db.Exec(
		`INSERT INTO usage (ts, session_id, model, mode, prompt_chars, completion_chars, duration_ms, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Timestamp.UnixMilli(), r.SessionID, r.Model, r.Mode,
		r.PromptChars, r.CompletionChars, r.Duration.Milliseconds(), r.Outcome,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Summarize aggregates all recorded exchanges.
func (s *UsageStore) Summarize() (Summary, error) {
	row := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN outcome != 'ok' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(prompt_chars), 0),
		       COALESCE(SUM(completion_chars), 0),
		       COALESCE(SUM(duration_ms), 0)
		FROM usage`)

	var sum Summary
	var durationMs int64
	if err := row.Scan(&sum.Exchanges, &sum.Errors, &sum.PromptChars, &sum.CompletionChars, &durationMs); err != nil {
		return Summary{}, fmt.Errorf("failed to summarize usage: %w", err)
	}
	sum.TotalDuration = time.Duration(durationMs) * time.Millisecond
	return sum, nil
}

// Recent returns the n most recent exchanges, newest first.
func (s *UsageStore) Recent(n int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT ts, session_id, model, mode, prompt_chars, completion_chars, duration_ms, outcome
		FROM usage ORDER BY ts DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var ts, durationMs int64
		if err := rows.Scan(&ts, &r.SessionID, &r.Model, &r.Mode,
			&r.PromptChars, &r.CompletionChars, &durationMs, &r.Outcome); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		r.Timestamp = time.UnixMilli(ts)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, r)
	}
	return records, rows.Err()
}
