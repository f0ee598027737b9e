package numparse

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// IntResult describes a successful integer scan.
type IntResult struct {
	Value  float64
	Radix  int    // base actually used after prefix detection
	Text   string // consumed text, sign and prefix included
	Digits string // consumed digits only
	Start  int    // byte offset of the sign, prefix or first digit
	End    int    // byte offset of the first unconsumed byte
}

// FloatResult describes a successful float scan.
type FloatResult struct {
	Value float64
	Text  string // consumed numeric prefix
	Start int
	End   int

	// Decimal is the exact value of Text, nil when the exponent is
	// outside the range apd can represent.
	Decimal *apd.Decimal
}

const infinity = "Infinity"

// ScanInt reads an integer prefix of s in the given radix, or detects the
// radix from a 0x/0b prefix when radix is 0.
func ScanInt(s string, radix int) (IntResult, error) {
	if radix != 0 && (radix < 2 || radix > 36) {
		return IntResult{}, &SyntaxError{Func: "ScanInt", Input: s, Offset: 0, Err: ErrInvalidRadix}
	}

	i := skipSpace(s)
	start := i

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	base := radix
	if base == 0 {
		base = 10
	}
	switch {
	case hasRadixPrefix(s[i:], 'x') && (radix == 0 || radix == 16):
		base = 16
		i += 2
	case hasRadixPrefix(s[i:], 'b') && (radix == 0 || radix == 2):
		base = 2
		i += 2
	}

	digitsStart := i
	var v float64
	for i < len(s) {
		d := digitValue(s[i])
		if d >= base {
			break
		}
		v = v*float64(base) + float64(d)
		i++
	}
	if i == digitsStart {
		return IntResult{Radix: base}, &SyntaxError{Func: "ScanInt", Input: s, Offset: i, Err: ErrNoDigits}
	}

	if neg {
		v = -v
	}
	return IntResult{
		Value:  v,
		Radix:  base,
		Text:   s[start:i],
		Digits: s[digitsStart:i],
		Start:  start,
		End:    i,
	}, nil
}

// ScanFloat reads the longest decimal literal prefix of s.
func ScanFloat(s string) (FloatResult, error) {
	i := skipSpace(s)
	start := i

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	if strings.HasPrefix(s[i:], infinity) {
		end := i + len(infinity)
		sign := 1
		if neg {
			sign = -1
		}
		return FloatResult{
			Value:   math.Inf(sign),
			Text:    s[start:end],
			Start:   start,
			End:     end,
			Decimal: &apd.Decimal{Form: apd.Infinite, Negative: neg},
		}, nil
	}

	intStart := i
	i = skipDecimalDigits(s, i)
	intDigits := s[intStart:i]

	var fracDigits string
	if i < len(s) && s[i] == '.' {
		fracEnd := skipDecimalDigits(s, i+1)
		fracDigits = s[i+1 : fracEnd]
		if intDigits != "" || fracDigits != "" {
			i = fracEnd
		}
	}
	if intDigits == "" && fracDigits == "" {
		return FloatResult{}, &SyntaxError{Func: "ScanFloat", Input: s, Offset: intStart, Err: ErrNoDigits}
	}

	exp := ""
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigitsStart := j
		j = skipDecimalDigits(s, j)
		if j > expDigitsStart {
			exp = s[i+1 : j]
			i = j
		}
	}

	text := s[start:i]
	lit := normalizedLiteral(neg, intDigits, fracDigits, exp)

	v, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return FloatResult{}, &SyntaxError{Func: "ScanFloat", Input: s, Offset: start, Err: err}
	}

	// apd rejects exponents beyond its range; the float value still stands.
	d, _, err := apd.NewFromString(lit)
	if err != nil {
		d = nil
	}

	return FloatResult{
		Value:   v,
		Text:    text,
		Start:   start,
		End:     i,
		Decimal: d,
	}, nil
}

// normalizedLiteral rebuilds the scanned pieces as "[-]int.frac[e±exp]" so
// both strconv and apd accept forms like ".01" and "100.".
func normalizedLiteral(neg bool, intDigits, fracDigits, exp string) string {
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if intDigits == "" {
		intDigits = "0"
	}
	b.WriteString(intDigits)
	if fracDigits != "" {
		b.WriteByte('.')
		b.WriteString(fracDigits)
	}
	if exp != "" {
		b.WriteByte('e')
		b.WriteString(exp)
	}
	return b.String()
}

// hasRadixPrefix reports whether s starts with '0' followed by c in either case.
func hasRadixPrefix(s string, c byte) bool {
	return len(s) >= 2 && s[0] == '0' && lower(s[1]) == c
}

func skipDecimalDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// digitValue returns the value of an ASCII digit or letter, or 36 for
// anything that is a digit in no base.
func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case lower(c) >= 'a' && lower(c) <= 'z':
		return int(lower(c)-'a') + 10
	}
	return 36
}

func lower(c byte) byte {
	return c | 0x20
}
