package engine

import (
	"context"
	"fmt"

	"github.com/roach88/numcheck/internal/ir"
)

// ReplayMismatch is a stored outcome that did not reproduce.
type ReplayMismatch struct {
	Seq          int64       `json:"seq"`
	CaseID       string      `json:"case_id"`
	Call         string      `json:"call"`
	Input        string      `json:"input"`
	StoredActual ir.IRNumber `json:"stored_actual"`
	ReplayActual ir.IRNumber `json:"replay_actual"`
	StoredPass   bool        `json:"stored_pass"`
	ReplayPass   bool        `json:"replay_pass"`
}

// ReplayReport summarises a replay of one stored run.
type ReplayReport struct {
	Run        ir.Run           `json:"run"`
	Replayed   int              `json:"replayed"`
	Mismatches []ReplayMismatch `json:"mismatches"`
}

// Identical reports whether every outcome reproduced exactly.
func (r *ReplayReport) Identical() bool {
	return len(r.Mismatches) == 0
}

// Replay re-evaluates every stored outcome of runID against the current
// call handlers. Nothing is written; the stored run is left as it was.
func (e *Engine) Replay(ctx context.Context, runID string) (*ReplayReport, error) {
	if e.store == nil {
		return nil, &RuntimeError{Code: ErrCodeNoStore, Message: "replay requires a store", RunID: runID}
	}

	run, err := e.store.ReadRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("replay %s: read run: %w", runID, err)
	}
	outcomes, err := e.store.ReadOutcomes(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", runID, err)
	}

	report := &ReplayReport{Run: run, Mismatches: []ReplayMismatch{}}
	for _, stored := range outcomes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("replay %s: %w", runID, err)
		}

		replayed, err := e.Evaluate(caseFromOutcome(stored))
		if err != nil {
			return nil, fmt.Errorf("replay %s: seq %d: %w", runID, stored.Seq, err)
		}
		report.Replayed++

		if replayed.Actual != stored.Actual || replayed.Pass != stored.Pass || replayed.CaseID != stored.CaseID {
			report.Mismatches = append(report.Mismatches, ReplayMismatch{
				Seq:          stored.Seq,
				CaseID:       stored.CaseID,
				Call:         stored.Call,
				Input:        stored.Input,
				StoredActual: stored.Actual,
				ReplayActual: replayed.Actual,
				StoredPass:   stored.Pass,
				ReplayPass:   replayed.Pass,
			})
		}
	}

	e.logger.Info("replay finished",
		"run_id", runID,
		"replayed", report.Replayed,
		"mismatches", len(report.Mismatches),
	)
	return report, nil
}

// caseFromOutcome rebuilds the case a stored outcome was evaluated from.
func caseFromOutcome(o ir.Outcome) ir.CaseSpec {
	c := ir.CaseSpec{
		Call:   o.Call,
		Input:  o.Input,
		Expect: string(o.Expected),
	}
	if o.Call == ir.CallParseInt && o.Radix != 0 {
		radix := o.Radix
		c.Radix = &radix
	}
	return c
}
