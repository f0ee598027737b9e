package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/numcheck/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a test run with minimal required fields.
func createTestRun(id, suite string, seq int64) ir.Run {
	return ir.Run{
		ID:            id,
		Suite:         suite,
		SuiteHash:     "test-hash",
		Pass:          true,
		CaseCount:     1,
		Seq:           seq,
		EngineVersion: "0.1.0",
	}
}

// createTestOutcome creates a passing parseInt outcome.
func createTestOutcome(id, runID string, seq int64) ir.Outcome {
	return ir.Outcome{
		ID:       id,
		RunID:    runID,
		CaseID:   ir.MustCaseID(ir.CallParseInt, "0x100", 0),
		Seq:      seq,
		Call:     ir.CallParseInt,
		Input:    "0x100",
		Radix:    0,
		Expected: "256",
		Actual:   "256",
		Pass:     true,
	}
}
