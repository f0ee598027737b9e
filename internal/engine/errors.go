package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while evaluating a case.
//
// Runtime errors include:
//   - Missing call: the case names a call with no registered handler
//   - Invalid expectation: the expected literal is not a number
//   - Replay without store: replay needs stored history
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run, if one was started.
	RunID string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeMissingCall indicates no handler is registered for a call name.
	ErrCodeMissingCall RuntimeErrorCode = "MISSING_CALL"

	// ErrCodeInvalidExpect indicates an expected literal that is not a number.
	ErrCodeInvalidExpect RuntimeErrorCode = "INVALID_EXPECT"

	// ErrCodeNoStore indicates an operation that requires a store was called without one.
	ErrCodeNoStore RuntimeErrorCode = "NO_STORE"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("%s: %s (run=%s)", e.Code, e.Message, e.RunID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMissingCallError returns true if the error is a missing call error.
// Uses errors.As to handle wrapped errors.
func IsMissingCallError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMissingCall
	}
	return false
}

// NewMissingCallError creates a RuntimeError for an unregistered call.
func NewMissingCallError(call string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeMissingCall,
		Message: fmt.Sprintf("no handler registered for call %q", call),
		Details: map[string]string{"call": call},
	}
}

// NewInvalidExpectError creates a RuntimeError for a non-numeric expectation.
func NewInvalidExpectError(expect string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidExpect,
		Message: fmt.Sprintf("expected value %q is not a number: %v", expect, cause),
		Details: map[string]string{"expect": expect},
	}
}
