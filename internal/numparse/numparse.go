package numparse

import "math"

// NaN returns the not-a-number sentinel produced for unparseable input.
func NaN() float64 {
	return math.NaN()
}

// IsNaN reports whether f is the not-a-number sentinel.
func IsNaN(f float64) bool {
	return math.IsNaN(f)
}

// ParseInt converts the integer prefix of s. A radix of 0 auto-detects
// 0x (hex) and 0b (binary) prefixes and otherwise uses base 10.
// It returns NaN when no digit can be read or the radix is invalid.
func ParseInt(s string, radix int) float64 {
	r, err := ScanInt(s, radix)
	if err != nil {
		return NaN()
	}
	return r.Value
}

// ParseFloat converts the decimal literal prefix of s, returning NaN when
// there is none.
func ParseFloat(s string) float64 {
	r, err := ScanFloat(s)
	if err != nil {
		return NaN()
	}
	return r.Value
}

// Equal reports whether two parse results compare equal under the runtime's
// == operator: NaN is unequal to everything, and -0 equals 0.
func Equal(a, b float64) bool {
	return a == b
}
