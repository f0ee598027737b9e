package store

import (
	"fmt"

	"github.com/roach88/numcheck/internal/ir"
)

// marshalNumber converts an IRNumber to its TEXT column form.
// Empty values are rejected so that a missing result never reads back as 0.
func marshalNumber(n ir.IRNumber) (string, error) {
	if n == "" {
		return "", fmt.Errorf("marshal number: empty value")
	}
	canonical, err := ir.ParseIRNumber(string(n))
	if err != nil {
		return "", fmt.Errorf("marshal number: %w", err)
	}
	return string(canonical), nil
}

// unmarshalNumber parses a TEXT column back into an IRNumber.
func unmarshalNumber(data string) (ir.IRNumber, error) {
	n, err := ir.ParseIRNumber(data)
	if err != nil {
		return "", fmt.Errorf("unmarshal number: %w", err)
	}
	return n, nil
}

// SQLite has no boolean type; pass columns are INTEGER 0/1.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
