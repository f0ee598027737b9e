package harness

import "github.com/roach88/numcheck/internal/ir"

// TraceEvent is one evaluated case, in the order the engine ran it.
type TraceEvent struct {
	Case     int         `json:"case"` // 1-based position in the suite
	Seq      int64       `json:"seq"`
	Call     string      `json:"call"`
	Input    string      `json:"input"`
	Radix    int         `json:"radix"`
	Expected ir.IRNumber `json:"expected"`
	Actual   ir.IRNumber `json:"actual"`
	Pass     bool        `json:"pass"`
}

// Result is the outcome of running a suite.
type Result struct {
	// Pass is the folded flag: true only if every case passed.
	Pass bool `json:"pass"`

	// RunID identifies the run in the store it was written to.
	RunID string `json:"run_id"`

	// Trace has one event per case.
	Trace []TraceEvent `json:"trace"`

	// Errors has one line per failing case. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddOutcomeTrace appends an outcome as the next trace event.
func (r *Result) AddOutcomeTrace(o ir.Outcome) {
	r.Trace = append(r.Trace, TraceEvent{
		Case:     len(r.Trace) + 1,
		Seq:      o.Seq,
		Call:     o.Call,
		Input:    o.Input,
		Radix:    o.Radix,
		Expected: o.Expected,
		Actual:   o.Actual,
		Pass:     o.Pass,
	})
}

// DefaultRunID is the run ID Run assigns when no generator is given.
const DefaultRunID = "test-run-default"

// Normalized returns a copy of r as a default Run would have produced it:
// seqs renumbered from 1 and the run ID replaced by DefaultRunID. Golden
// comparison uses it so that runs recorded in a shared store still match.
func (r *Result) Normalized() *Result {
	n := &Result{
		Pass:   r.Pass,
		RunID:  DefaultRunID,
		Trace:  make([]TraceEvent, len(r.Trace)),
		Errors: append([]string{}, r.Errors...),
	}
	for i, ev := range r.Trace {
		ev.Seq = int64(i + 1)
		n.Trace[i] = ev
	}
	return n
}
