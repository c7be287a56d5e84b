// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps a SQLite history of conversion runs and the files
// each run touched.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/webp2png/pkg/types"
)

const defaultMaxResults = 20

// Store manages the journal database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Run summarizes one recorded invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	Input     string
	Converted int
	Skipped   int
	Failed    int
}

// Entry is one recorded file conversion.
type Entry struct {
	RunID string
	types.FileResult
}

// Open opens or creates the journal database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.JournalConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			input TEXT NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS conversions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			destination TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			source_bytes INTEGER,
			output_bytes INTEGER,
			width INTEGER,
			height INTEGER,
			had_alpha INTEGER,
			deleted INTEGER,
			warnings TEXT,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_run_id ON conversions(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_source ON conversions(source)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run over input and its per-file results in a single
// transaction. It returns the generated run ID.
func (s *Store) Record(ctx context.Context, input string, files []types.FileResult) (string, error) {
	run := Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Input:     input,
	}
	for _, f := range files {
		switch f.Status {
		case types.ConversionDone:
			run.Converted++
		case types.ConversionSkipped:
			run.Skipped++
		case types.ConversionFailed:
			run.Failed++
		}
		if !f.ConvertedAt.IsZero() && f.ConvertedAt.Before(run.StartedAt) {
			run.StartedAt = f.ConvertedAt
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input, converted, skipped, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339Nano), run.Input, run.Converted, run.Skipped, run.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO conversions (run_id, source, destination, status, error, source_bytes, output_bytes,
			width, height, had_alpha, deleted, warnings, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		warningsJSON, _ := json.Marshal(f.Warnings)
		_, err := stmt.ExecContext(ctx,
			run.ID, f.Source, f.Destination, string(f.Status), f.Error,
			f.SourceBytes, f.OutputBytes, f.Width, f.Height,
			f.HadAlpha, f.Deleted, string(warningsJSON),
			f.ConvertedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return "", fmt.Errorf("inserting conversion %s: %w", f.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// Runs returns the most recent runs, newest first. A limit of zero or less
// uses the configured maximum.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input, converted, skipped, failed
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Input, &r.Converted, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Recent returns the most recent file conversions, newest first. A limit of
// zero or less uses the configured maximum.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, source, destination, status, COALESCE(error, ''),
			COALESCE(source_bytes, 0), COALESCE(output_bytes, 0), COALESCE(width, 0), COALESCE(height, 0),
			COALESCE(had_alpha, 0), COALESCE(deleted, 0), COALESCE(warnings, ''), converted_at
		 FROM conversions ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status, warnings, convertedAt string
		if err := rows.Scan(&e.RunID, &e.Source, &e.Destination, &status, &e.Error,
			&e.SourceBytes, &e.OutputBytes, &e.Width, &e.Height,
			&e.HadAlpha, &e.Deleted, &warnings, &convertedAt); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		e.Status = types.ConversionStatus(status)
		if warnings != "" && warnings != "null" {
			_ = json.Unmarshal([]byte(warnings), &e.Warnings)
		}
		e.ConvertedAt, _ = time.Parse(time.RFC3339Nano, convertedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
