package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/numcheck/internal/ir"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteRun inserts a run record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteRun(ctx context.Context, run ir.Run) error {
	if err := writeRun(ctx, s.db, run); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteOutcome inserts an outcome record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteOutcome(ctx context.Context, o ir.Outcome) error {
	if err := writeOutcome(ctx, s.db, o); err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}
	return nil
}

// WriteRunAtomic writes a run and all of its outcomes in one transaction,
// so a crash never leaves a run with a partial outcome list.
func (s *Store) WriteRunAtomic(ctx context.Context, run ir.Run, outcomes []ir.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("atomic run write: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := writeRun(ctx, tx, run); err != nil {
		return fmt.Errorf("atomic run write: %w", err)
	}
	for _, o := range outcomes {
		if o.RunID != run.ID {
			return fmt.Errorf("atomic run write: outcome %s belongs to run %q, not %q", o.ID, o.RunID, run.ID)
		}
		if err := writeOutcome(ctx, tx, o); err != nil {
			return fmt.Errorf("atomic run write: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("atomic run write: commit: %w", err)
	}
	return nil
}

func writeRun(ctx context.Context, db execer, run ir.Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs
		(id, suite, suite_hash, pass, case_count, seq, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Suite,
		run.SuiteHash,
		boolToInt(run.Pass),
		run.CaseCount,
		run.Seq,
		run.EngineVersion,
	)
	return err
}

func writeOutcome(ctx context.Context, db execer, o ir.Outcome) error {
	expected, err := marshalNumber(o.Expected)
	if err != nil {
		return fmt.Errorf("expected: %w", err)
	}
	actual, err := marshalNumber(o.Actual)
	if err != nil {
		return fmt.Errorf("actual: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO outcomes
		(id, run_id, case_id, seq, call, input, radix, expected, actual, pass)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		o.ID,
		o.RunID,
		o.CaseID,
		o.Seq,
		o.Call,
		o.Input,
		o.Radix,
		expected,
		actual,
		boolToInt(o.Pass),
	)
	return err
}
