package ir

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// IRNumber is a decimal number held in canonical text form.
//
// Finite values are the reduced decimal (no trailing fractional zeros,
// no exponent for adjusted exponents in [-7, 21)); zero is always "0".
// Non-finite values are the words NaN, Infinity and -Infinity, which
// marshal as JSON strings.
type IRNumber string

// Non-finite IRNumber values.
const (
	NumberNaN    IRNumber = "NaN"
	NumberInf    IRNumber = "Infinity"
	NumberNegInf IRNumber = "-Infinity"
)

func (IRNumber) irValue() {}

// NewIRNumber converts f using its shortest round-trip decimal form.
func NewIRNumber(f float64) IRNumber {
	switch {
	case math.IsNaN(f):
		return NumberNaN
	case math.IsInf(f, 1):
		return NumberInf
	case math.IsInf(f, -1):
		return NumberNegInf
	}
	d, _, err := apd.NewFromString(strconv.FormatFloat(f, 'g', -1, 64))
	if err != nil {
		// FormatFloat output is always a valid decimal.
		panic(fmt.Sprintf("ir: decimal from %v: %v", f, err))
	}
	return NewIRNumberFromDecimal(d)
}

// NewIRNumberFromDecimal canonicalises an exact decimal.
func NewIRNumberFromDecimal(d *apd.Decimal) IRNumber {
	switch d.Form {
	case apd.NaN, apd.NaNSignaling:
		return NumberNaN
	case apd.Infinite:
		if d.Negative {
			return NumberNegInf
		}
		return NumberInf
	}

	var r apd.Decimal
	r.Reduce(d)
	if r.IsZero() {
		return "0"
	}
	digits := r.Coeff.String()
	adjusted := int64(len(digits)) + int64(r.Exponent) - 1

	var b strings.Builder
	if r.Negative {
		b.WriteByte('-')
	}
	if adjusted >= -7 && adjusted < 21 {
		writePlain(&b, digits, int(r.Exponent))
	} else {
		writeExponent(&b, digits, adjusted)
	}
	return IRNumber(b.String())
}

// writePlain writes digits × 10^exp without an exponent.
func writePlain(b *strings.Builder, digits string, exp int) {
	if exp >= 0 {
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", exp))
		return
	}
	point := len(digits) + exp
	if point > 0 {
		b.WriteString(digits[:point])
		b.WriteByte('.')
		b.WriteString(digits[point:])
		return
	}
	b.WriteString("0.")
	b.WriteString(strings.Repeat("0", -point))
	b.WriteString(digits)
}

// writeExponent writes d.ddd followed by e+N or e-N.
func writeExponent(b *strings.Builder, digits string, adjusted int64) {
	b.WriteByte(digits[0])
	if len(digits) > 1 {
		b.WriteByte('.')
		b.WriteString(digits[1:])
	}
	b.WriteByte('e')
	if adjusted >= 0 {
		b.WriteByte('+')
	}
	b.WriteString(strconv.FormatInt(adjusted, 10))
}

// ParseIRNumber parses decimal text, or exactly NaN, Infinity, +Infinity or
// -Infinity, into canonical form.
func ParseIRNumber(s string) (IRNumber, error) {
	switch s {
	case "NaN":
		return NumberNaN, nil
	case "Infinity", "+Infinity":
		return NumberInf, nil
	case "-Infinity":
		return NumberNegInf, nil
	}
	d, _, err := apd.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return "", fmt.Errorf("invalid number %q: %w", s, err)
	}
	// apd also reads spellings such as "inf" and "nan"; only the exact
	// words above name non-finite values.
	if d.Form != apd.Finite {
		return "", fmt.Errorf("invalid number %q: non-finite values are spelled NaN, Infinity or -Infinity", s)
	}
	return NewIRNumberFromDecimal(d), nil
}

// IsNaN reports whether n is NaN.
func (n IRNumber) IsNaN() bool {
	return n == NumberNaN
}

// Float64 returns the nearest float64. Magnitudes outside float64 range
// round to ±Inf or zero.
func (n IRNumber) Float64() (float64, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if errors.Is(err, strconv.ErrRange) {
		return f, nil
	}
	if err != nil {
		return 0, fmt.Errorf("IRNumber %q: %w", string(n), err)
	}
	return f, nil
}

// MarshalJSON writes finite values as JSON numbers and the rest as strings.
func (n IRNumber) MarshalJSON() ([]byte, error) {
	switch n {
	case NumberNaN, NumberInf, NumberNegInf:
		return []byte(`"` + string(n) + `"`), nil
	case "":
		return nil, fmt.Errorf("empty IRNumber")
	}
	return []byte(n), nil
}

// UnmarshalJSON accepts a JSON number or one of the strings NaN, Infinity
// and -Infinity, storing the canonical form.
func (n *IRNumber) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("IRNumber: %w", err)
		}
		switch v := IRNumber(s); v {
		case NumberNaN, NumberInf, NumberNegInf:
			*n = v
			return nil
		}
		return fmt.Errorf("IRNumber: unexpected string %q", s)
	}
	v, err := ParseIRNumber(string(data))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
