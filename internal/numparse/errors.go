package numparse

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDigits indicates that no valid digit was found before the first
	// invalid character.
	ErrNoDigits = errors.New("no digits")

	// ErrInvalidRadix indicates a radix outside 2..36 (0 means auto-detect).
	ErrInvalidRadix = errors.New("invalid radix")
)

// SyntaxError records a failed scan.
type SyntaxError struct {
	Func   string // "ScanInt" or "ScanFloat"
	Input  string
	Offset int // byte offset where scanning stopped
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("numparse.%s: parsing %q at offset %d: %v", e.Func, e.Input, e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
