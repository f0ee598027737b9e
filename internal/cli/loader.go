package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/numcheck/internal/compiler"
	"github.com/roach88/numcheck/internal/harness"
	"github.com/roach88/numcheck/internal/ir"
)

// LoadMode controls how errors are handled during suite loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadedSuite is a suite together with the file it came from.
type LoadedSuite struct {
	Path  string
	Suite *ir.SuiteSpec
}

// LoadResult contains the suites loaded from a directory.
type LoadResult struct {
	Suites    []LoadedSuite
	FileCount int // Number of suite files found
}

// LoadError represents an error that occurred while loading suites.
type LoadError struct {
	Code    string
	Message string
	File    string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSuites loads every suite file under dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadSuites(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("suites directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing suites directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := harness.FindSuiteFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}

	result := &LoadResult{FileCount: len(files)}
	var errs []error
	for _, file := range files {
		suites, err := harness.LoadFile(file)
		if err != nil {
			errs = append(errs, convertLoadErrors(file, err)...)
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		for _, s := range suites {
			result.Suites = append(result.Suites, LoadedSuite{Path: file, Suite: s})
		}
	}

	if err := checkDuplicateNames(result.Suites); err != nil {
		errs = append(errs, err)
	}
	return result, errs
}

// checkDuplicateNames rejects two suites with the same name, which would
// share a golden file.
func checkDuplicateNames(suites []LoadedSuite) error {
	seen := make(map[string]string, len(suites))
	for _, s := range suites {
		if prev, ok := seen[s.Suite.Name]; ok {
			return &LoadError{
				Code:    ErrCodeDuplicate,
				File:    s.Path,
				Message: fmt.Sprintf("suite %q already defined in %s", s.Suite.Name, prev),
			}
		}
		seen[s.Suite.Name] = s.Path
	}
	return nil
}

// convertLoadErrors splits joined errors and converts each one to a
// LoadError with a code and, for CUE files, a position.
func convertLoadErrors(file string, err error) []error {
	var parts []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts = joined.Unwrap()
	} else {
		parts = []error{err}
	}

	out := make([]error, 0, len(parts))
	for _, e := range parts {
		out = append(out, convertLoadError(file, e))
	}
	return out
}

func convertLoadError(file string, err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			File:    file,
			Pos:     compileErr.Pos,
		}
	}
	msg := strings.TrimPrefix(err.Error(), file+": ")
	if errors.Is(err, harness.ErrSchemaViolation) {
		return &LoadError{Code: ErrCodeSchema, Message: msg, File: file}
	}
	var valErr ir.ValidationError
	if errors.As(err, &valErr) {
		return &LoadError{Code: MapFieldToErrorCode(valErr.Field), Message: valErr.Message, File: file}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: msg, File: file}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No suite files found
	ErrCodeLoadFailed  = "E004" // Suite file could not be read or parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeDuplicate   = "E008" // Two suites share a name
	ErrCodeStore       = "E009" // Run history database error

	// Suite validation errors
	ErrCodeSuiteDescription = "E101" // Missing description
	ErrCodeSuiteCases       = "E102" // No cases defined
	ErrCodeCaseCall         = "E103" // Unknown or missing call
	ErrCodeCaseInput        = "E104" // Missing or non-string input
	ErrCodeCaseRadix        = "E105" // Radix not an integer, or on parseFloat
	ErrCodeCaseExpect       = "E106" // Missing or non-numeric expectation
	ErrCodeSchema           = "E107" // Document does not match the suite schema
	ErrCodeSuiteName        = "E108" // Missing suite name
)

// MapFieldToErrorCode maps a compiler or validation error field to an
// error code. Case fields ("cases[3].expect") map by their last segment.
func MapFieldToErrorCode(field string) string {
	if strings.HasPrefix(field, "cases[") {
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
	}
	switch field {
	case "name":
		return ErrCodeSuiteName
	case "description":
		return ErrCodeSuiteDescription
	case "cases":
		return ErrCodeSuiteCases
	case "call":
		return ErrCodeCaseCall
	case "input":
		return ErrCodeCaseInput
	case "radix":
		return ErrCodeCaseRadix
	case "expect":
		return ErrCodeCaseExpect
	case "suite":
		return ErrCodeNoFiles
	case "cue":
		return ErrCodeBuildFailed
	default:
		return ErrCodeGeneric
	}
}

// suiteName returns the name a suite file would give its golden file
// when the suite itself could not be loaded.
func suiteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
