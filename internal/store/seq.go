package store

import (
	"context"
	"fmt"
)

// GetLastSeq returns the highest seq number used in the store.
// The engine resumes its logical clock from here so that seq stays
// strictly increasing across processes sharing one database.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var maxSeq int64

	var runSeq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM runs
	`).Scan(&runSeq)
	if err != nil {
		return 0, fmt.Errorf("get last seq from runs: %w", err)
	}
	maxSeq = runSeq

	var outcomeSeq int64
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM outcomes
	`).Scan(&outcomeSeq)
	if err != nil {
		return 0, fmt.Errorf("get last seq from outcomes: %w", err)
	}
	if outcomeSeq > maxSeq {
		maxSeq = outcomeSeq
	}

	return maxSeq, nil
}

// ListSuites returns all distinct suite names with stored runs.
// Results ordered alphabetically.
func (s *Store) ListSuites(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT suite FROM runs ORDER BY suite COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list suites: %w", err)
	}
	defer rows.Close()

	suites := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan suite: %w", err)
		}
		suites = append(suites, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suites: %w", err)
	}
	return suites, nil
}
