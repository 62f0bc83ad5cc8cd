package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateBatch records the start of a verification batch.
func (s *Store) CreateBatch(resultsFile string, totalJobs int) (*Batch, error) {
	now := time.Now()
	result, err := s.db.Exec(
		"INSERT INTO batches (status, results_file, total_jobs, started_at) VALUES (?, ?, ?, ?)",
		"running", resultsFile, totalJobs, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get batch ID: %w", err)
	}

	return &Batch{
		ID:          int(id),
		Status:      "running",
		ResultsFile: resultsFile,
		TotalJobs:   totalJobs,
		StartedAt:   now,
	}, nil
}

// FinishBatch closes out a batch with its outcome counts.
func (s *Store) FinishBatch(batchID, succeeded, failed int, duration time.Duration) error {
	now := time.Now()
	_, err := s.db.Exec(
		"UPDATE batches SET status = ?, succeeded = ?, failed = ?, finished_at = ?, duration = ? WHERE id = ?",
		"completed", succeeded, failed, now, duration.String(), batchID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish batch: %w", err)
	}
	return nil
}

// GetBatches retrieves recent batches, most recent first.
func (s *Store) GetBatches(limit int) ([]*Batch, error) {
	rows, err := s.db.Query(
		`SELECT id, status, results_file, total_jobs, succeeded, failed, started_at, finished_at, duration
		 FROM batches ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []*Batch
	for rows.Next() {
		var b Batch
		var finishedAt sql.NullTime
		var duration sql.NullString

		err := rows.Scan(&b.ID, &b.Status, &b.ResultsFile, &b.TotalJobs, &b.Succeeded,
			&b.Failed, &b.StartedAt, &finishedAt, &duration)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}

		if finishedAt.Valid {
			b.FinishedAt = &finishedAt.Time
		}
		if duration.Valid {
			durationStr := duration.String
			b.Duration = &durationStr
		}

		batches = append(batches, &b)
	}

	return batches, rows.Err()
}

// GetBatch retrieves a single batch by ID.
func (s *Store) GetBatch(batchID int) (*Batch, error) {
	var b Batch
	var finishedAt sql.NullTime
	var duration sql.NullString

	err := s.db.QueryRow(
		`SELECT id, status, results_file, total_jobs, succeeded, failed, started_at, finished_at, duration
		 FROM batches WHERE id = ?`, batchID,
	).Scan(&b.ID, &b.Status, &b.ResultsFile, &b.TotalJobs, &b.Succeeded,
		&b.Failed, &b.StartedAt, &finishedAt, &duration)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	if finishedAt.Valid {
		b.FinishedAt = &finishedAt.Time
	}
	if duration.Valid {
		durationStr := duration.String
		b.Duration = &durationStr
	}

	return &b, nil
}
