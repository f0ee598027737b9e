package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/numcheck/internal/ir"
)

// TraceSnapshot captures the complete trace for a suite execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	SuiteName string       `json:"suite_name"`
	RunID     string       `json:"run_id,omitempty"`
	Trace     []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles IR types and primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		traceList[i] = map[string]any{
			"case":     event.Case,
			"seq":      event.Seq,
			"call":     event.Call,
			"input":    event.Input,
			"radix":    event.Radix,
			"expected": event.Expected,
			"actual":   event.Actual,
			"pass":     event.Pass,
		}
	}

	result := map[string]any{
		"suite_name": s.SuiteName,
		"trace":      traceList,
	}
	if s.RunID != "" {
		result["run_id"] = s.RunID
	}
	return result
}

// Snapshot renders a result as canonical JSON, the golden file format.
func Snapshot(suiteName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		SuiteName: suiteName,
		RunID:     result.RunID,
		Trace:     result.Trace,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a suite and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{suite.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if suite execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, suite *ir.SuiteSpec, opts ...RunOption) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), suite, opts...)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, suite.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a suite and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, suiteName string, result *Result) error {
	t.Helper()

	traceJSON, err := Snapshot(suiteName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, suiteName, traceJSON)

	return nil
}
