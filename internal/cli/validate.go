package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationIssue is one problem found in a suite file.
type ValidationIssue struct {
	Code    string `json:"code"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Suites []string          `json:"suites"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [suites-dir]",
		Short: "Validate suites without running them",
		Long: `Load and schema-check every suite file in a directory.

YAML files are checked against the suite JSON Schema, CUE files are
compiled, and every suite is validated. All errors are reported, each
with a code.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := rootOpts.config().Suites
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadSuites(dir, LoadModeCollectAll)

	// Directory not found, unreadable, etc.
	if loadResult == nil {
		var loadErr *LoadError
		if len(loadErrors) > 0 && errors.As(loadErrors[0], &loadErr) {
			return formatter.Fail(loadErr.Code, loadErr.Message, nil)
		}
		return formatter.Fail(ErrCodeGeneric, fmt.Sprintf("failed to load suites from %s", dir), nil)
	}
	if loadResult.FileCount == 0 {
		return formatter.Fail(ErrCodeNoFiles, fmt.Sprintf("no suite files found in %s", dir), nil)
	}

	formatter.VerboseLog("Found %d suite file(s) in %s", loadResult.FileCount, dir)

	result := ValidationResult{
		Valid:  len(loadErrors) == 0,
		Files:  loadResult.FileCount,
		Suites: make([]string, 0, len(loadResult.Suites)),
	}
	for _, s := range loadResult.Suites {
		formatter.VerboseLog("Validated suite: %s (%d cases)", s.Suite.Name, len(s.Suite.Cases))
		result.Suites = append(result.Suites, s.Suite.Name)
	}
	for _, err := range loadErrors {
		result.Errors = append(result.Errors, toIssue(err))
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

func toIssue(err error) ValidationIssue {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return ValidationIssue{Code: ErrCodeGeneric, Message: err.Error()}
	}
	issue := ValidationIssue{Code: loadErr.Code, File: loadErr.File, Message: loadErr.Message}
	if loadErr.Pos.IsValid() {
		issue.Line = loadErr.Pos.Line()
		issue.Column = loadErr.Pos.Column()
	}
	return issue
}

// outputValidateSuccess outputs a successful validation.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ All suites valid (%d suite(s) in %d file(s))\n", len(result.Suites), result.Files)
	return nil
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range errs {
		switch {
		case issue.Line > 0:
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", issue.File, issue.Line, issue.Column)
		case issue.File != "":
			fmt.Fprintln(formatter.Writer, issue.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
