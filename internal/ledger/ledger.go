// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists conversion run history in a SQLite database.
// Recording is strictly observational: the ledger is opt-in, never read
// during conversion, and a recording failure never fails a run.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/diagram-capture/pkg/types"
)

// DefaultFile is the database filename used inside the output directory
// when no explicit ledger path is configured.
const DefaultFile = ".diagram-capture.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			source_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			total INTEGER NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			output_path TEXT,
			width TEXT,
			height TEXT,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_run_id ON items(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunRecord is one conversion run to be recorded.
type RunRecord struct {
	StartedAt time.Time
	SourceDir string
	OutputDir string
	Converted int
	Skipped   int
	Failed    int
	Items     []types.DiagramResult
}

// RunSummary is one recorded run as returned by RecentRuns.
type RunSummary struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	SourceDir string    `json:"source_dir"`
	OutputDir string    `json:"output_dir"`
	Total     int       `json:"total"`
	Converted int       `json:"converted"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
}

// RecordRun inserts a run and its per-item results in one transaction and
// returns the run ID.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	total := rec.Converted + rec.Skipped + rec.Failed
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, source_dir, output_dir, total, converted, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339), rec.SourceDir, rec.OutputDir,
		total, rec.Converted, rec.Skipped, rec.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, item := range rec.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items (run_id, name, status, output_path, width, height, reason)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, item.Name, string(item.Status), item.OutputPath,
			item.Width, item.Height, item.Reason,
		); err != nil {
			return 0, fmt.Errorf("inserting item %s: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, source_dir, output_dir, total, converted, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started string
		if err := rows.Scan(&r.ID, &started, &r.SourceDir, &r.OutputDir,
			&r.Total, &r.Converted, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunItems returns the per-item results recorded for a run, in insertion
// order.
func (s *Store) RunItems(ctx context.Context, runID int64) ([]types.DiagramResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, status, output_path, width, height, reason
		 FROM items WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying items for run %d: %w", runID, err)
	}
	defer rows.Close()

	var items []types.DiagramResult
	for rows.Next() {
		var item types.DiagramResult
		var status string
		if err := rows.Scan(&item.Name, &status, &item.OutputPath,
			&item.Width, &item.Height, &item.Reason); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Status = types.ConversionStatus(status)
		items = append(items, item)
	}
	return items, rows.Err()
}

// PathFor resolves the ledger database path for a run configuration.
func PathFor(cfg types.ConvertConfig) string {
	if cfg.Ledger.Path != "" {
		return cfg.Ledger.Path
	}
	return filepath.Join(cfg.OutputDir, DefaultFile)
}
