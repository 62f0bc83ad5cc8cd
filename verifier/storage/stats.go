package storage

import "fmt"

// SymbolCounts aggregates a batch's results by persisted symbol.
func (s *Store) SymbolCounts(batchID int) (map[string]int, error) {
	rows, err := s.db.Query(
		"SELECT symbol, COUNT(*) FROM results WHERE batch_id = ? GROUP BY symbol", batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbol counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var symbol string
		var count int
		if err := rows.Scan(&symbol, &count); err != nil {
			return nil, fmt.Errorf("failed to scan symbol count: %w", err)
		}
		counts[symbol] = count
	}
	return counts, rows.Err()
}

// FailureBreakdown aggregates a batch's failed results by classification.
func (s *Store) FailureBreakdown(batchID int) (map[string]int, error) {
	rows, err := s.db.Query(
		"SELECT error, COUNT(*) FROM results WHERE batch_id = ? AND error != '' GROUP BY error ORDER BY COUNT(*) DESC",
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query failure breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan failure count: %w", err)
		}
		breakdown[kind] = count
	}
	return breakdown, rows.Err()
}
