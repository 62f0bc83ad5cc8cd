package storage

import (
	"fmt"
	"time"
)

// RecordResult stores one run's terminal verdict under its batch.
func (s *Store) RecordResult(batchID int, r Result) error {
	_, err := s.db.Exec(
		`INSERT INTO results (batch_id, tool, model, layer, conversion, app, run_index, run_dir, symbol, error, duration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batchID, r.Tool, r.Model, r.Layer, r.Conversion, r.App,
		r.RunIndex, r.RunDir, r.Symbol, r.Error, r.Duration, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// GetResults retrieves all results for a batch in insertion order.
func (s *Store) GetResults(batchID int) ([]*Result, error) {
	rows, err := s.db.Query(
		`SELECT id, batch_id, tool, model, layer, conversion, app, run_index, run_dir, symbol, error, duration, created_at
		 FROM results WHERE batch_id = ? ORDER BY id ASC`, batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var r Result
		err := rows.Scan(&r.ID, &r.BatchID, &r.Tool, &r.Model, &r.Layer, &r.Conversion,
			&r.App, &r.RunIndex, &r.RunDir, &r.Symbol, &r.Error, &r.Duration, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, &r)
	}

	return results, rows.Err()
}
