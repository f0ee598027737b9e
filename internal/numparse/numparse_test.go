package numparse

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The regression table this package was written against.
func TestParseNumbersRegressionTable(t *testing.T) {
	pairs := []float64{
		ParseInt("100", 0), 100,
		ParseInt("0x100", 0), 256,
		ParseInt("0b101", 0), 5,
		ParseInt("1010", 2), 10,
		ParseInt("10", 8), 8,
		ParseInt("100", 16), 256,
		ParseInt("0x100", 16), 256,
		ParseInt("a", 16), 10,
		ParseInt("A", 16), 10,
		ParseFloat("1.11"), 1.11,
		ParseFloat(".01"), 0.01,
		ParseFloat("100."), 100.0,
	}

	result := true
	for i := 0; i < len(pairs); i += 2 {
		if !Equal(pairs[i], pairs[i+1]) {
			t.Errorf("pair %d: got %v, want %v", i/2, pairs[i], pairs[i+1])
			result = false
		}
	}
	assert.True(t, result)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		radix int
		want  float64
	}{
		{"decimal", "100", 0, 100},
		{"hex prefix", "0x100", 0, 256},
		{"upper hex prefix", "0X1f", 0, 31},
		{"binary prefix", "0b101", 0, 5},
		{"upper binary prefix", "0B11", 0, 3},
		{"explicit binary", "1010", 2, 10},
		{"explicit octal", "10", 8, 8},
		{"explicit hex", "100", 16, 256},
		{"redundant hex prefix", "0x100", 16, 256},
		{"redundant binary prefix", "0b101", 2, 5},
		{"b is a hex digit", "0b101", 16, 45313},
		{"lower letter digit", "a", 16, 10},
		{"upper letter digit", "A", 16, 10},
		{"base 36", "z", 36, 35},
		{"leading zero is not octal", "010", 0, 10},
		{"stops at invalid", "12px", 0, 12},
		{"digit too large for base", "129", 2, 1},
		{"leading whitespace", " \t\n42", 0, 42},
		{"unicode whitespace", "\u2003\u00a042", 0, 42},
		{"negative", "-42", 0, -42},
		{"explicit plus", "+7", 0, 7},
		{"negative hex", "-0x10", 0, -16},
		{"decimal point stops", "3.99", 0, 3},
		{"hex prefix ignored for decimal radix", "0x10", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInt(tt.input, tt.radix))
		})
	}
}

func TestParseIntNaN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		radix int
	}{
		{"empty", "", 0},
		{"only whitespace", "   ", 0},
		{"letters", "xyz", 0},
		{"prefix without digits", "0x", 0},
		{"sign only", "-", 0},
		{"radix too small", "12", 1},
		{"radix too large", "12", 37},
		{"negative radix", "12", -2},
		{"digit outside radix", "9", 8},
		{"zero width space is not whitespace", "\u200b1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsNaN(ParseInt(tt.input, tt.radix)))
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"fraction", "1.11", 1.11},
		{"leading point", ".01", 0.01},
		{"trailing point", "100.", 100.0},
		{"integer", "42", 42},
		{"exponent", "1e3", 1000},
		{"negative exponent", "25e-2", 0.25},
		{"signed exponent", "1.5E+2", 150},
		{"dangling exponent", "1e", 1},
		{"dangling exponent sign", "2e+", 2},
		{"negative fraction with junk", "-.5x", -0.5},
		{"whitespace", "\r\n 3.25 ", 3.25},
		{"stops at second point", "1.2.3", 1.2},
		{"infinity", "Infinity", math.Inf(1)},
		{"negative infinity", "-Infinityx", math.Inf(-1)},
		{"overflow", "1e400", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFloat(tt.input))
		})
	}
}

func TestParseFloatNaN(t *testing.T) {
	for _, input := range []string{"", ".", "e5", "-", "+.", "abc", "infinity", "x1"} {
		t.Run(input, func(t *testing.T) {
			assert.True(t, IsNaN(ParseFloat(input)))
		})
	}
}

func TestNaNNeverEqual(t *testing.T) {
	assert.False(t, Equal(NaN(), NaN()))
	assert.True(t, Equal(math.Copysign(0, -1), 0))
}

func TestScanIntDiagnostics(t *testing.T) {
	r, err := ScanInt("  -0x1fZZ", 0)
	require.NoError(t, err)

	assert.Equal(t, float64(-31), r.Value)
	assert.Equal(t, 16, r.Radix)
	assert.Equal(t, "-0x1f", r.Text)
	assert.Equal(t, "1f", r.Digits)
	assert.Equal(t, 2, r.Start)
	assert.Equal(t, 7, r.End)
}

func TestScanIntErrors(t *testing.T) {
	_, err := ScanInt("10", 40)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRadix))

	_, err = ScanInt("0xg", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDigits))

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "ScanInt", se.Func)
	assert.Equal(t, 2, se.Offset)
	assert.Contains(t, se.Error(), `"0xg"`)
}

func TestScanFloatDecimal(t *testing.T) {
	r, err := ScanFloat("1.10abc")
	require.NoError(t, err)

	assert.Equal(t, "1.10", r.Text)
	assert.Equal(t, 4, r.End)
	require.NotNil(t, r.Decimal)
	assert.Equal(t, "1.10", r.Decimal.String())

	r, err = ScanFloat(".01")
	require.NoError(t, err)
	assert.Equal(t, "0.01", r.Decimal.String())
}

func TestScanFloatErrors(t *testing.T) {
	_, err := ScanFloat("  .e1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDigits))

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "ScanFloat", se.Func)
	assert.Equal(t, 2, se.Offset)
}
