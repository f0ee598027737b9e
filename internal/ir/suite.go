package ir

import (
	"fmt"
	"strings"
)

// ValidCalls lists the call names a case may use.
var ValidCalls = map[string]bool{
	CallParseInt:   true,
	CallParseFloat: true,
}

// ValidationError is a field-scoped validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the suite and all of its cases.
// It returns every error rather than stopping at the first.
func (s *SuiteSpec) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(s.Description) == "" {
		errs = append(errs, ValidationError{Field: "description", Message: "description is required"})
	}
	if len(s.Cases) == 0 {
		errs = append(errs, ValidationError{Field: "cases", Message: "at least one case is required"})
	}

	for i, c := range s.Cases {
		for _, e := range c.Validate() {
			e.Field = fmt.Sprintf("cases[%d].%s", i, e.Field)
			errs = append(errs, e)
		}
	}
	return errs
}

// Validate checks a single case.
func (c *CaseSpec) Validate() []ValidationError {
	var errs []ValidationError

	if !ValidCalls[c.Call] {
		errs = append(errs, ValidationError{
			Field:   "call",
			Message: fmt.Sprintf("unknown call %q, must be one of: %s, %s", c.Call, CallParseInt, CallParseFloat),
		})
	}

	// Out-of-range radixes are allowed: they evaluate to NaN.
	if c.Radix != nil && c.Call != CallParseInt {
		errs = append(errs, ValidationError{Field: "radix", Message: "radix is only valid for " + CallParseInt})
	}

	if c.Expect == "" {
		errs = append(errs, ValidationError{Field: "expect", Message: "expect is required"})
	} else if _, err := ParseIRNumber(c.Expect); err != nil {
		errs = append(errs, ValidationError{Field: "expect", Message: fmt.Sprintf("expect %q is not a number", c.Expect)})
	}

	return errs
}
