package compiler

import (
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/numcheck/internal/ir"
)

// CompileSuite parses a CUE value into a SuiteSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the suite struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`suite: parse_numbers: { ... }`)
//	spec, err := CompileSuite(v.LookupPath(cue.ParsePath("suite.parse_numbers")))
func CompileSuite(v cue.Value) (*ir.SuiteSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.SuiteSpec{}

	// Suite name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	descVal := v.LookupPath(cue.ParsePath("description"))
	if !descVal.Exists() {
		return nil, &CompileError{
			Field:   "description",
			Message: "description is required",
			Pos:     v.Pos(),
		}
	}
	desc, err := descVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	spec.Description = desc

	spec.Cases, err = parseCases(v)
	if err != nil {
		return nil, err
	}
	if len(spec.Cases) == 0 {
		return nil, &CompileError{
			Field:   "cases",
			Message: "at least one case is required",
			Pos:     v.Pos(),
		}
	}

	return spec, nil
}

// CompileSuites compiles every struct under the top-level "suite" field,
// in declaration order. Compilation continues past failing suites.
func CompileSuites(v cue.Value) ([]*ir.SuiteSpec, []error) {
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	suitesVal := v.LookupPath(cue.ParsePath("suite"))
	if !suitesVal.Exists() {
		return nil, []error{&CompileError{
			Field:   "suite",
			Message: "no suite definitions found",
			Pos:     v.Pos(),
		}}
	}

	iter, err := suitesVal.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	var (
		specs []*ir.SuiteSpec
		errs  []error
	)
	for iter.Next() {
		spec, err := CompileSuite(iter.Value())
		if err != nil {
			errs = append(errs, fmt.Errorf("suite.%s: %w", iter.Label(), err))
			continue
		}
		specs = append(specs, spec)
	}
	return specs, errs
}

// CompileFile reads a single .cue file and compiles the suites it defines.
func CompileFile(path string) ([]*ir.SuiteSpec, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{fmt.Errorf("reading %s: %w", path, err)}
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	return CompileSuites(v)
}

// parseCases extracts the ordered case list.
func parseCases(v cue.Value) ([]ir.CaseSpec, error) {
	var cases []ir.CaseSpec

	casesVal := v.LookupPath(cue.ParsePath("cases"))
	if !casesVal.Exists() {
		return cases, nil
	}

	iter, err := casesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for i := 0; iter.Next(); i++ {
		c, err := parseCase(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	return cases, nil
}

func parseCase(v cue.Value, index int) (ir.CaseSpec, error) {
	var c ir.CaseSpec
	field := func(name string) string { return fmt.Sprintf("cases[%d].%s", index, name) }

	for _, req := range []struct {
		name string
		dst  *string
	}{
		{"call", &c.Call},
		{"input", &c.Input},
	} {
		fv := v.LookupPath(cue.ParsePath(req.name))
		if !fv.Exists() {
			return c, &CompileError{Field: field(req.name), Message: req.name + " is required", Pos: v.Pos()}
		}
		s, err := fv.String()
		if err != nil {
			return c, &CompileError{Field: field(req.name), Message: "must be a string", Pos: fv.Pos()}
		}
		*req.dst = s
	}

	if !ir.ValidCalls[c.Call] {
		return c, &CompileError{
			Field:   field("call"),
			Message: fmt.Sprintf("unknown call %q", c.Call),
			Pos:     v.LookupPath(cue.ParsePath("call")).Pos(),
		}
	}

	radixVal := v.LookupPath(cue.ParsePath("radix"))
	if radixVal.Exists() {
		r, err := radixVal.Int64()
		if err != nil {
			return c, &CompileError{Field: field("radix"), Message: "radix must be an integer", Pos: radixVal.Pos()}
		}
		radix := int(r)
		c.Radix = &radix
	}

	expectVal := v.LookupPath(cue.ParsePath("expect"))
	if !expectVal.Exists() {
		return c, &CompileError{Field: field("expect"), Message: "expect is required", Pos: v.Pos()}
	}
	expect, err := expectLiteral(expectVal)
	if err != nil {
		return c, &CompileError{Field: field("expect"), Message: err.Error(), Pos: expectVal.Pos()}
	}
	c.Expect = expect

	if errs := c.Validate(); len(errs) > 0 {
		return c, &CompileError{Field: field(errs[0].Field), Message: errs[0].Message, Pos: v.Pos()}
	}
	return c, nil
}

// expectLiteral accepts a string ("NaN", "0.01") or a CUE number, returned
// as decimal text.
func expectLiteral(v cue.Value) (string, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return v.String()
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case cue.FloatKind, cue.NumberKind:
		// CUE keeps number literals as exact decimals; %v prints them as written.
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return "", fmt.Errorf("expect must be concrete")
		}
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("expect must be a string or number, got %v", v.IncompleteKind())
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
