package engine

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/numcheck/internal/ir"
	"github.com/roach88/numcheck/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(dir + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(n int) *int { return &n }

func hexSuite() *ir.SuiteSpec {
	return &ir.SuiteSpec{
		Name:        "hex",
		Description: "hex prefixes",
		Cases: []ir.CaseSpec{
			{Call: ir.CallParseInt, Input: "0x100", Expect: "256"},
			{Call: ir.CallParseInt, Input: "100", Radix: intPtr(16), Expect: "256"},
		},
	}
}

// parseNumbersSuite is the full regression table.
func parseNumbersSuite() *ir.SuiteSpec {
	return &ir.SuiteSpec{
		Name:        "parse_numbers",
		Description: "numeric string parsing",
		Cases: []ir.CaseSpec{
			{Call: ir.CallParseInt, Input: "0x100", Expect: "256"},
			{Call: ir.CallParseInt, Input: "100", Radix: intPtr(16), Expect: "256"},
			{Call: ir.CallParseInt, Input: "0x100", Radix: intPtr(16), Expect: "256"},
			{Call: ir.CallParseInt, Input: "0b101", Expect: "5"},
			{Call: ir.CallParseInt, Input: "101", Radix: intPtr(2), Expect: "5"},
			{Call: ir.CallParseInt, Input: "0b101", Radix: intPtr(2), Expect: "5"},
			{Call: ir.CallParseFloat, Input: "1.11", Expect: "1.11"},
			{Call: ir.CallParseFloat, Input: ".01", Expect: "0.01"},
			{Call: ir.CallParseFloat, Input: "100.", Expect: "100"},
			{Call: ir.CallParseFloat, Input: "100", Expect: "100"},
			{Call: ir.CallParseFloat, Input: "0.01", Expect: "0.01"},
			{Call: ir.CallParseFloat, Input: "1.11", Expect: "1.11"},
		},
	}
}

type recordingObserver struct {
	outcomes []ir.Outcome
	runs     []ir.Run
}

func (r *recordingObserver) ObserveOutcome(o ir.Outcome) { r.outcomes = append(r.outcomes, o) }
func (r *recordingObserver) ObserveRun(run ir.Run) { r.runs = append(r.runs, run) }

func TestEngine_New(t *testing.T) {
	e := New(nil, NewFixedGenerator("run-1"))

	assert.NotNil(t, e)
	assert.NotNil(t, e.clock)
	assert.Nil(t, e.store)
	assert.Contains(t, e.calls, ir.CallParseInt)
	assert.Contains(t, e.calls, ir.CallParseFloat)
}

func TestExecute_RegressionTablePasses(t *testing.T) {
	e := New(nil, NewFixedGenerator("run-1"))

	exec, err := e.Execute(context.Background(), parseNumbersSuite())
	require.NoError(t, err)

	assert.True(t, exec.Run.Pass)
	assert.Equal(t, 12, exec.Run.CaseCount)
	require.Len(t, exec.Outcomes, 12)
	for i, o := range exec.Outcomes {
		assert.True(t, o.Pass, "case %d: %s(%q) = %s, want %s", i+1, o.Call, o.Input, o.Actual, o.Expected)
	}
}

func TestExecute_StampsSeqAndIDs(t *testing.T) {
	e := New(nil, NewFixedGenerator("run-1"))

	exec, err := e.Execute(context.Background(), hexSuite())
	require.NoError(t, err)

	assert.Equal(t, "run-1", exec.Run.ID)
	assert.Equal(t, int64(1), exec.Outcomes[0].Seq)
	assert.Equal(t, int64(2), exec.Outcomes[1].Seq)
	assert.Equal(t, int64(3), exec.Run.Seq, "run seq follows its outcomes")

	wantID, err := ir.OutcomeID("run-1", exec.Outcomes[0].CaseID, 1)
	require.NoError(t, err)
	assert.Equal(t, wantID, exec.Outcomes[0].ID)
	assert.Equal(t, ir.MustCaseID(ir.CallParseInt, "100", 16), exec.Outcomes[1].CaseID)
	assert.Equal(t, ir.EngineVersion, exec.Run.EngineVersion)
	assert.NotEmpty(t, exec.Run.SuiteHash)
}

func TestExecute_FoldsFailure(t *testing.T) {
	suite := hexSuite()
	suite.Cases = append(suite.Cases,
		ir.CaseSpec{Call: ir.CallParseInt, Input: "0x100", Radix: intPtr(10), Expect: "256"},
		ir.CaseSpec{Call: ir.CallParseFloat, Input: "1.11", Expect: "1.11"},
	)

	exec, err := New(nil, NewFixedGenerator("run-1")).Execute(context.Background(), suite)
	require.NoError(t, err)

	assert.False(t, exec.Run.Pass)
	require.Len(t, exec.Outcomes, 4, "evaluation continues after a mismatch")
	assert.False(t, exec.Outcomes[2].Pass)
	assert.Equal(t, ir.IRNumber("0"), exec.Outcomes[2].Actual)
	assert.True(t, exec.Outcomes[3].Pass)
}

func TestExecute_EmptySuitePasses(t *testing.T) {
	suite := &ir.SuiteSpec{Name: "empty", Description: "no cases"}

	exec, err := New(nil, NewFixedGenerator("run-1")).Execute(context.Background(), suite)
	require.NoError(t, err)
	assert.True(t, exec.Run.Pass)
	assert.Empty(t, exec.Outcomes)
}

func TestExecute_MissingCall(t *testing.T) {
	suite := &ir.SuiteSpec{
		Name:        "bad",
		Description: "unknown call",
		Cases:       []ir.CaseSpec{{Call: "parseHex", Input: "1", Expect: "1"}},
	}

	_, err := New(nil, NewFixedGenerator("run-1")).Execute(context.Background(), suite)
	require.Error(t, err)
	assert.True(t, IsMissingCallError(err))
	assert.Contains(t, err.Error(), "run=run-1")
	assert.Contains(t, err.Error(), "case 1")
}

func TestExecute_Cancelled(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(s, NewFixedGenerator("run-1")).Execute(ctx, hexSuite())
	require.ErrorIs(t, err, context.Canceled)

	runs, err := s.ListRuns(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, runs, "cancelled run must not be persisted")
}

func TestExecute_Persists(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	exec, err := New(s, NewFixedGenerator("run-1")).Execute(ctx, hexSuite())
	require.NoError(t, err)

	run, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, exec.Run, run)

	outcomes, err := s.ReadOutcomes(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, exec.Outcomes, outcomes)
}

func TestExecute_CustomCall(t *testing.T) {
	suite := &ir.SuiteSpec{
		Name:        "custom",
		Description: "handler override",
		Cases:       []ir.CaseSpec{{Call: ir.CallParseFloat, Input: "anything", Expect: "42"}},
	}
	e := New(nil, NewFixedGenerator("run-1"), WithCall(ir.CallParseFloat, func(string, int) float64 { return 42 }))

	exec, err := e.Execute(context.Background(), suite)
	require.NoError(t, err)
	assert.True(t, exec.Run.Pass)
}

func TestExecute_Observers(t *testing.T) {
	obs := &recordingObserver{}
	e := New(nil, NewFixedGenerator("run-1"), WithObserver(obs))

	_, err := e.Execute(context.Background(), hexSuite())
	require.NoError(t, err)

	assert.Len(t, obs.outcomes, 2)
	require.Len(t, obs.runs, 1)
	assert.True(t, obs.runs[0].Pass)
}

func TestExecute_LogsMismatch(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	suite := &ir.SuiteSpec{
		Name:        "logged",
		Description: "one failing case",
		Cases:       []ir.CaseSpec{{Call: ir.CallParseInt, Input: "0x100", Radix: intPtr(10), Expect: "256"}},
	}
	_, err := New(nil, NewFixedGenerator("run-1"), WithLogger(logger)).Execute(context.Background(), suite)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "case mismatch")
	assert.Contains(t, out, "suite=logged")
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "run finished")
}
