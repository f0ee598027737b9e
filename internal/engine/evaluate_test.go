package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/numcheck/internal/ir"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		c          ir.CaseSpec
		wantActual ir.IRNumber
		wantPass   bool
	}{
		{"hex prefix", ir.CaseSpec{Call: ir.CallParseInt, Input: "0x100", Expect: "256"}, "256", true},
		{"explicit radix", ir.CaseSpec{Call: ir.CallParseInt, Input: "101", Radix: intPtr(2), Expect: "5"}, "5", true},
		{"leading dot", ir.CaseSpec{Call: ir.CallParseFloat, Input: ".01", Expect: "0.01"}, "0.01", true},
		{"expect written differently", ir.CaseSpec{Call: ir.CallParseFloat, Input: "100.", Expect: "100.0"}, "100", true},
		{"wrong expectation", ir.CaseSpec{Call: ir.CallParseFloat, Input: "1.11", Expect: "1.1"}, "1.11", false},
		{"explicit NaN expectation", ir.CaseSpec{Call: ir.CallParseInt, Input: "xyz", Expect: "NaN"}, ir.NumberNaN, true},
		{"NaN result vs number", ir.CaseSpec{Call: ir.CallParseInt, Input: "xyz", Expect: "0"}, ir.NumberNaN, false},
		{"number vs NaN expectation", ir.CaseSpec{Call: ir.CallParseInt, Input: "7", Expect: "NaN"}, "7", false},
		{"invalid radix", ir.CaseSpec{Call: ir.CallParseInt, Input: "10", Radix: intPtr(37), Expect: "NaN"}, ir.NumberNaN, true},
		{"infinity", ir.CaseSpec{Call: ir.CallParseFloat, Input: "-Infinity", Expect: "-Infinity"}, ir.NumberNegInf, true},
		{"overflow matches out-of-range expectation", ir.CaseSpec{Call: ir.CallParseFloat, Input: "1e400", Expect: "1e400"}, ir.NumberInf, true},
		{"lowercase infinity is NaN", ir.CaseSpec{Call: ir.CallParseFloat, Input: "infinity", Expect: "NaN"}, ir.NumberNaN, true},
		{"uppercase hex digit", ir.CaseSpec{Call: ir.CallParseInt, Input: "A", Radix: intPtr(16), Expect: "10"}, "10", true},
	}

	e := New(nil, NewFixedGenerator())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := e.Evaluate(tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantActual, o.Actual)
			assert.Equal(t, tt.wantPass, o.Pass)
			assert.Empty(t, o.ID, "Evaluate does not stamp outcomes")
			assert.Zero(t, o.Seq)
		})
	}
}

func TestEvaluate_CanonicalExpected(t *testing.T) {
	o, err := New(nil, NewFixedGenerator()).Evaluate(ir.CaseSpec{Call: ir.CallParseFloat, Input: "100", Expect: "100.00"})
	require.NoError(t, err)
	assert.Equal(t, ir.IRNumber("100"), o.Expected)
}

func TestEvaluate_Errors(t *testing.T) {
	e := New(nil, NewFixedGenerator())

	_, err := e.Evaluate(ir.CaseSpec{Call: "parseHex", Input: "1", Expect: "1"})
	require.Error(t, err)
	assert.True(t, IsMissingCallError(err))

	_, err = e.Evaluate(ir.CaseSpec{Call: ir.CallParseInt, Input: "1", Expect: "one"})
	require.Error(t, err)
	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidExpect, re.Code)
	assert.False(t, IsMissingCallError(err))
}

func TestRuntimeError_Format(t *testing.T) {
	err := NewMissingCallError("parseHex")
	assert.Equal(t, `MISSING_CALL: no handler registered for call "parseHex"`, err.Error())

	err.RunID = "run-9"
	assert.Equal(t, `MISSING_CALL: no handler registered for call "parseHex" (run=run-9)`, err.Error())
}
