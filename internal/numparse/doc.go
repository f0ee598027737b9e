// Package numparse converts numeric strings to numbers with the semantics of
// a small JavaScript runtime's parseInt and parseFloat.
//
// Two entry-point families are provided:
//
//   - ParseInt and ParseFloat mirror the runtime: they never fail and return
//     the NaN sentinel when no numeric prefix can be read.
//   - ScanInt and ScanFloat return the same values together with scanning
//     diagnostics (radix used, consumed text, stop offset) and typed errors.
//
// # Integer rules
//
// Leading whitespace is skipped, then an optional sign. With radix 0 a "0x"
// prefix selects base 16 and a "0b" prefix selects base 2; otherwise base 10
// is used. A bare leading "0" does not select octal. With an explicit radix
// of 16 (or 2) the matching prefix is tolerated. Digits are case-insensitive
// and scanning stops at the first character that is not a digit of the base.
//
//	numparse.ParseInt("0x100", 0)  // 256
//	numparse.ParseInt("0x100", 16) // 256
//	numparse.ParseInt("A", 16)     // 10
//	numparse.ParseInt("12px", 0)   // 12
//	numparse.ParseInt("px", 0)     // NaN
//
// # Float rules
//
// Leading whitespace, optional sign, then digits with an optional decimal
// point and an optional exponent, or the literal "Infinity". Either the
// integer or the fraction part may be empty, not both.
//
//	numparse.ParseFloat(".01")  // 0.01
//	numparse.ParseFloat("100.") // 100
//	numparse.ParseFloat("1e")   // 1
package numparse
