package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/numcheck/internal/ir"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, suite, suite_hash, pass, case_count, seq, engine_version
		FROM runs
		WHERE id = ?
	`, id)

	return scanRun(row)
}

// ListRuns returns stored runs ordered by seq ASC, id ASC COLLATE BINARY.
// An empty suite lists every suite. A positive limit keeps only the most
// recent runs, still returned oldest first.
//
// Returns an empty slice (not nil) if no runs match.
func (s *Store) ListRuns(ctx context.Context, suite string, limit int) ([]ir.Run, error) {
	q := RunQuery{Limit: limit}
	if suite != "" {
		q.Filter = Equals{Field: "suite", Value: ir.IRString(suite)}
	}
	return s.QueryRuns(ctx, q)
}

// ReadOutcomes returns a run's outcomes ordered by seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) if the run has no outcomes.
func (s *Store) ReadOutcomes(ctx context.Context, runID string) ([]ir.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, case_id, seq, call, input, radix, expected, actual, pass
		FROM outcomes
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	return collectOutcomes(rows)
}

// ReadCaseHistory returns every stored outcome of one case across runs.
func (s *Store) ReadCaseHistory(ctx context.Context, caseID string) ([]ir.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, case_id, seq, call, input, radix, expected, actual, pass
		FROM outcomes
		WHERE case_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, caseID)
	if err != nil {
		return nil, fmt.Errorf("query case history: %w", err)
	}
	defer rows.Close()

	return collectOutcomes(rows)
}

func collectOutcomes(rows *sql.Rows) ([]ir.Outcome, error) {
	outcomes := []ir.Outcome{}
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// scanRun scans a row into a Run struct.
// sql.ErrNoRows is returned unwrapped so callers can test for it directly.
func scanRun(row scanner) (ir.Run, error) {
	var run ir.Run
	var pass int
	err := row.Scan(&run.ID, &run.Suite, &run.SuiteHash, &pass, &run.CaseCount, &run.Seq, &run.EngineVersion)
	if err == sql.ErrNoRows {
		return run, err
	}
	if err != nil {
		return run, fmt.Errorf("scan run: %w", err)
	}
	run.Pass = pass != 0
	return run, nil
}

// scanOutcome scans a row into an Outcome struct.
func scanOutcome(row scanner) (ir.Outcome, error) {
	var o ir.Outcome
	var expected, actual string
	var pass int

	if err := row.Scan(
		&o.ID, &o.RunID, &o.CaseID, &o.Seq, &o.Call, &o.Input, &o.Radix,
		&expected, &actual, &pass,
	); err != nil {
		return o, fmt.Errorf("scan outcome: %w", err)
	}

	var err error
	if o.Expected, err = unmarshalNumber(expected); err != nil {
		return o, fmt.Errorf("outcome %s expected: %w", o.ID, err)
	}
	if o.Actual, err = unmarshalNumber(actual); err != nil {
		return o, fmt.Errorf("outcome %s actual: %w", o.ID, err)
	}
	o.Pass = pass != 0
	return o, nil
}
