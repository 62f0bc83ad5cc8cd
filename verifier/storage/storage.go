package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists verification batches and their per-run results so past
// invocations stay inspectable after the ledger has been rewritten.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the tables and indexes.
func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			status TEXT NOT NULL,
			results_file TEXT NOT NULL,
			total_jobs INTEGER NOT NULL DEFAULT 0,
			succeeded INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			duration TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id INTEGER NOT NULL,
			tool TEXT NOT NULL,
			model TEXT NOT NULL,
			layer TEXT NOT NULL,
			conversion TEXT NOT NULL,
			app TEXT NOT NULL,
			run_index INTEGER NOT NULL,
			run_dir TEXT NOT NULL,
			symbol TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			duration TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			FOREIGN KEY(batch_id) REFERENCES batches(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_started_at ON batches(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_results_batch_id ON results(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_symbol ON results(symbol)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
