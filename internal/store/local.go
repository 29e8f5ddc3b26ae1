// Package store keeps the run history of a vault in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"aimemo/internal/logging"

	_ "modernc.org/sqlite"
)

// LocalStore is the SQLite-backed run history.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore opens (creating if needed) the history database at path.
func NewLocalStore(path string) (*LocalStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; the CLI is single-threaded anyway.
	db.SetMaxOpenConns(1)

	store := &LocalStore{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.StoreDebug("History store opened at %s", path)
	return store, nil
}

func (s *LocalStore) initialize() error {
	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		memo TEXT NOT NULL,
		raw_label TEXT DEFAULT '',
		label TEXT,
		summary_outcome TEXT,
		diagnosis_outcome TEXT,
		exit_code INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_label ON runs(label);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	tracesTable := `
	CREATE TABLE IF NOT EXISTS traces (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		purpose TEXT,
		model TEXT,
		prompt TEXT NOT NULL,
		response TEXT,
		success BOOLEAN NOT NULL,
		error TEXT,
		duration_ms INTEGER,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_traces_run ON traces(run_id);
	`

	for _, table := range []string{runsTable, tracesTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if _, err := RunMigrations(s.db); err != nil {
		return fmt.Errorf("failed to migrate history: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *LocalStore) Path() string {
	return s.dbPath
}

// Close closes the database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}
