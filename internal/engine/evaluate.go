package engine

import (
	"github.com/roach88/numcheck/internal/ir"
	"github.com/roach88/numcheck/internal/numparse"
)

// Evaluate computes one case without stamping it into a run: the returned
// outcome has no ID, RunID or Seq.
//
// The expected literal is read with the same float parser the cases
// exercise, so "0.01" and ".01" expect the same float64. Only an explicit
// "NaN" expectation matches a NaN result.
func (e *Engine) Evaluate(c ir.CaseSpec) (ir.Outcome, error) {
	fn, ok := e.calls[c.Call]
	if !ok {
		return ir.Outcome{}, NewMissingCallError(c.Call)
	}

	expected, err := ir.ParseIRNumber(c.Expect)
	if err != nil {
		return ir.Outcome{}, NewInvalidExpectError(c.Expect, err)
	}

	radix := c.RadixOrDefault()
	caseID, err := ir.CaseID(c.Call, c.Input, radix)
	if err != nil {
		return ir.Outcome{}, err
	}

	actual := fn(c.Input, radix)

	return ir.Outcome{
		CaseID:   caseID,
		Call:     c.Call,
		Input:    c.Input,
		Radix:    radix,
		Expected: expected,
		Actual:   ir.NewIRNumber(actual),
		Pass:     matches(actual, expected),
	}, nil
}

func matches(actual float64, expected ir.IRNumber) bool {
	if expected.IsNaN() {
		return numparse.IsNaN(actual)
	}
	want, err := expected.Float64()
	if err != nil {
		return false
	}
	return numparse.Equal(actual, want)
}
