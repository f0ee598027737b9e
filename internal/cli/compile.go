package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/numcheck/internal/compiler"
	"github.com/roach88/numcheck/internal/filelock"
	"github.com/roach88/numcheck/internal/harness"
	"github.com/roach88/numcheck/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledSuite is one suite in canonical IR form.
type CompiledSuite struct {
	Name string      `json:"name"`
	Hash string      `json:"suite_hash"`
	IR   ir.IRObject `json:"ir"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <suite-file|suites-dir>",
		Short: "Compile suites to canonical IR",
		Long: `Compile CUE or YAML suites to canonical JSON.

Each suite is printed on its own line as canonical JSON (sorted keys,
exact decimals) followed by nothing else, so the output can be hashed
or diffed directly. With --format json the suites and their hashes are
wrapped in the standard response envelope.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	suites, loadErrors := compileTargets(path)
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}
	if len(suites) == 0 {
		return formatter.Fail(ErrCodeNoFiles, fmt.Sprintf("no suites found in %s", path), nil)
	}

	compiled := make([]CompiledSuite, 0, len(suites))
	var canonical bytes.Buffer
	for _, s := range suites {
		formatter.VerboseLog("Compiling suite: %s (%d cases)", s.Name, len(s.Cases))

		obj, err := suiteToIR(s)
		if err != nil {
			return formatter.Fail(MapFieldToErrorCode("expect"), fmt.Sprintf("suite %s: %v", s.Name, err), nil)
		}
		data, err := ir.MarshalCanonical(obj)
		if err != nil {
			return formatter.Fail(ErrCodeGeneric, fmt.Sprintf("suite %s: %v", s.Name, err), nil)
		}
		hash, err := ir.SuiteHash(*s)
		if err != nil {
			return formatter.Fail(ErrCodeGeneric, fmt.Sprintf("suite %s: %v", s.Name, err), nil)
		}

		canonical.Write(data)
		canonical.WriteByte('\n')
		compiled = append(compiled, CompiledSuite{Name: s.Name, Hash: hash, IR: obj})
	}

	// Write to file if --output specified
	if opts.Output != "" {
		if err := filelock.AtomicWrite(opts.Output, canonical.Bytes()); err != nil {
			return formatter.Fail(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		formatter.VerboseLog("Wrote canonical IR to %s", opts.Output)
	}

	if formatter.IsJSON() {
		return formatter.Success(compiled)
	}
	_, err := formatter.Writer.Write(canonical.Bytes())
	return err
}

// compileTargets loads a single suite file, or every suite file in a directory.
func compileTargets(path string) ([]*ir.SuiteSpec, []error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}

	if !info.IsDir() {
		suites, err := harness.LoadFile(path)
		if err != nil {
			return nil, convertLoadErrors(path, err)
		}
		return suites, nil
	}

	loadResult, loadErrors := LoadSuites(path, LoadModeCollectAll)
	if len(loadErrors) > 0 {
		return nil, loadErrors
	}
	suites := make([]*ir.SuiteSpec, 0, len(loadResult.Suites))
	for _, s := range loadResult.Suites {
		suites = append(suites, s.Suite)
	}
	return suites, nil
}

// suiteToIR converts a suite to an IR object. Expectations become exact
// decimals; radix appears only on cases that set one.
func suiteToIR(s *ir.SuiteSpec) (ir.IRObject, error) {
	cases := make(ir.IRArray, len(s.Cases))
	for i, c := range s.Cases {
		expect, err := ir.ParseIRNumber(c.Expect)
		if err != nil {
			return nil, fmt.Errorf("cases[%d].expect: %w", i, err)
		}
		obj := ir.IRObject{
			"call":   ir.IRString(c.Call),
			"input":  ir.IRString(c.Input),
			"expect": expect,
		}
		if c.Radix != nil {
			obj["radix"] = ir.IRInt(*c.Radix)
		}
		cases[i] = obj
	}
	return ir.IRObject{
		"name":        ir.IRString(s.Name),
		"description": ir.IRString(s.Description),
		"cases":       cases,
	}, nil
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.IsJSON() {
		// JSON format - use CLIResponse with first error
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}

		// Compilation errors are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		var compileErr *compiler.CompileError
		switch {
		case errors.As(err, &loadErr) && loadErr.Pos.IsValid():
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		case errors.As(err, &compileErr) && compileErr.Pos.IsValid():
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", compileErr.Pos.Filename(), compileErr.Pos.Line(), compileErr.Pos.Column())
		case loadErr != nil && loadErr.File != "":
			fmt.Fprintln(formatter.Writer, loadErr.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	// Compilation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
