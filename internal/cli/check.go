package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/numcheck/internal/engine"
	"github.com/roach88/numcheck/internal/filelock"
	"github.com/roach88/numcheck/internal/harness"
	"github.com/roach88/numcheck/internal/metrics"
	"github.com/roach88/numcheck/internal/store"
)

// Golden comparison outcomes.
const (
	GoldenMatch    = "match"
	GoldenMismatch = "mismatch"
	GoldenMissing  = "missing"
	GoldenUpdated  = "updated"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Update      bool   // regenerate golden files
	Filter      string // suite filter (glob pattern on suite names)
	Database    string // record runs in this SQLite file
	Builtin     bool   // run the embedded suites instead of a directory
	MetricsFile string // write Prometheus metrics here
}

// SuiteResult holds the result of a single suite execution.
type SuiteResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file,omitempty"`
	Pass   bool     `json:"pass"`
	RunID  string   `json:"run_id,omitempty"`
	Cases  int      `json:"cases"`
	Golden string   `json:"golden,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Suites []SuiteResult `json:"suites"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [suites-dir]",
		Short: "Run regression suites",
		Long: `Run every suite in a directory and fold each one into pass/fail.

A suite whose directory has golden/<name>.golden must also reproduce that
trace exactly. Without a directory argument the configured suites
directory is used; --builtin runs the embedded parse_numbers suite.

Exit codes:
  0 - All suites passed
  1 - One or more suites failed
  2 - Command error (invalid paths, etc.)

Examples:
  numcheck check ./suites
  numcheck check ./suites --filter "hex*"
  numcheck check ./suites --update
  numcheck check --builtin --db runs.db
  numcheck check ./suites --metrics-file /var/lib/node_exporter/numcheck.prom`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runCheck(cmd.Context(), opts, dir, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suites by glob pattern")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")
	cmd.Flags().BoolVar(&opts.Builtin, "builtin", false, "run the embedded suites")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	return cmd
}

// checkTarget is one suite to run, or one file that failed to load.
type checkTarget struct {
	loaded  LoadedSuite
	loadErr *LoadError
}

func runCheck(ctx context.Context, opts *CheckOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cfg := opts.config()

	if _, err := filepath.Match(opts.Filter, ""); err != nil {
		return formatter.Fail(ErrCodeGeneric, fmt.Sprintf("invalid filter pattern: %v", err), nil)
	}

	targets, err := checkTargets(opts, dir, cfg.Suites, formatter)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		if formatter.IsJSON() {
			return outputCheckJSON(formatter, CheckResult{Suites: []SuiteResult{}})
		}
		fmt.Fprintln(formatter.Writer, "No suites found.")
		return nil
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.DB
	}
	runOpts := []harness.RunOption{harness.WithLogger(opts.logger())}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return formatter.Fail(ErrCodeStore, fmt.Sprintf("failed to open database: %v", err), nil)
		}
		defer st.Close()
		runOpts = append(runOpts, harness.WithStore(st), harness.WithRunIDs(engine.UUIDv7Generator{}))
		formatter.VerboseLog("Recording runs in %s", dbPath)
	}

	var collector *metrics.Collector
	if opts.MetricsFile != "" {
		collector = metrics.New()
		runOpts = append(runOpts, harness.WithObserver(collector))
	}

	pal := newPalette(formatter.Writer)
	result := CheckResult{
		Suites: make([]SuiteResult, 0, len(targets)),
		Total:  len(targets),
	}
	for _, target := range targets {
		var sr SuiteResult
		if target.loadErr != nil {
			sr = SuiteResult{
				Name:   suiteName(target.loadErr.File),
				File:   target.loadErr.File,
				Errors: []string{fmt.Sprintf("failed to load suite: %v", target.loadErr)},
			}
		} else {
			sr = checkSuite(ctx, opts, target.loaded, runOpts)
		}

		if !formatter.IsJSON() {
			printSuiteResult(formatter, pal, sr)
		}

		result.Suites = append(result.Suites, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if collector != nil {
		if err := writeMetrics(ctx, collector, opts.MetricsFile); err != nil {
			return formatter.Fail(ErrCodeWriteFailed, err.Error(), nil)
		}
		formatter.VerboseLog("Wrote metrics to %s", opts.MetricsFile)
	}

	if formatter.IsJSON() {
		return outputCheckJSON(formatter, result)
	}
	return outputCheckText(formatter, pal, result)
}

// checkTargets resolves what to run: the embedded suites, or every suite
// under dir (falling back to the configured directory).
func checkTargets(opts *CheckOptions, dir, defaultDir string, formatter *OutputFormatter) ([]checkTarget, error) {
	var targets []checkTarget

	if opts.Builtin {
		for _, name := range harness.BuiltinNames() {
			suite, err := harness.BuiltinSuite(name)
			if err != nil {
				return nil, formatter.Fail(ErrCodeGeneric, err.Error(), nil)
			}
			targets = append(targets, checkTarget{loaded: LoadedSuite{Suite: suite}})
		}
	} else {
		if dir == "" {
			dir = defaultDir
		}
		loadResult, loadErrors := LoadSuites(dir, LoadModeCollectAll)
		if loadResult == nil {
			var loadErr *LoadError
			if len(loadErrors) > 0 && errors.As(loadErrors[0], &loadErr) {
				return nil, formatter.Fail(loadErr.Code, loadErr.Message, nil)
			}
			return nil, formatter.Fail(ErrCodeGeneric, fmt.Sprintf("failed to load suites from %s", dir), nil)
		}
		formatter.VerboseLog("Found %d suite file(s) in %s", loadResult.FileCount, dir)

		for _, s := range loadResult.Suites {
			targets = append(targets, checkTarget{loaded: s})
		}
		for _, e := range loadErrors {
			var loadErr *LoadError
			if errors.As(e, &loadErr) {
				targets = append(targets, checkTarget{loadErr: loadErr})
			}
		}
	}

	if opts.Filter == "" {
		return targets, nil
	}
	filtered := targets[:0]
	for _, t := range targets {
		var name string
		if t.loadErr != nil {
			name = suiteName(t.loadErr.File)
		} else {
			name = t.loaded.Suite.Name
		}
		if ok, _ := filepath.Match(opts.Filter, name); ok {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// checkSuite runs one suite and compares it with its golden file.
func checkSuite(ctx context.Context, opts *CheckOptions, ls LoadedSuite, runOpts []harness.RunOption) SuiteResult {
	suite := ls.Suite
	sr := SuiteResult{Name: suite.Name, File: ls.Path, Cases: len(suite.Cases)}

	result, err := harness.Run(ctx, suite, runOpts...)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}
	sr.RunID = result.RunID
	sr.Pass = result.Pass
	sr.Errors = result.Errors

	if ls.Path == "" {
		return sr
	}

	goldenPath := goldenFilePath(ls.Path, suite.Name)
	snapshot, err := harness.Snapshot(suite.Name, result.Normalized())
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to marshal trace: %v", err))
		return sr
	}

	if opts.Update {
		if err := filelock.LockAndWrite(ctx, goldenPath, snapshot); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to update golden file: %v", err))
			return sr
		}
		sr.Golden = GoldenUpdated
		return sr
	}

	golden, err := os.ReadFile(goldenPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		sr.Golden = GoldenMissing
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to read golden file: %v", err))
	case string(golden) != string(snapshot):
		sr.Pass = false
		sr.Golden = GoldenMismatch
		sr.Errors = append(sr.Errors, "trace does not match golden file (run with --update to regenerate)")
	default:
		sr.Golden = GoldenMatch
	}
	return sr
}

// goldenFilePath returns the path to the golden file for a suite.
func goldenFilePath(suiteFile, name string) string {
	return filepath.Join(filepath.Dir(suiteFile), "golden", name+".golden")
}

// writeMetrics writes the textfile while holding its lock, so concurrent
// checks pointed at the same file do not interleave.
func writeMetrics(ctx context.Context, c *metrics.Collector, path string) error {
	lock := filelock.New(path + ".lock")
	if err := lock.Acquire(ctx); err != nil {
		return err
	}
	defer lock.Unlock()
	return c.WriteToTextfile(path)
}

func printSuiteResult(formatter *OutputFormatter, pal *palette, sr SuiteResult) {
	w := formatter.Writer
	suffix := fmt.Sprintf("(%d cases)", sr.Cases)
	if sr.Golden == GoldenUpdated {
		suffix = fmt.Sprintf("(%d cases, golden updated)", sr.Cases)
	}
	if sr.Cases == 0 {
		fmt.Fprintf(w, "%s %s\n", pal.mark(sr.Pass), sr.Name)
	} else {
		fmt.Fprintf(w, "%s %s %s\n", pal.mark(sr.Pass), sr.Name, suffix)
	}
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	if sr.Golden == GoldenMissing {
		formatter.VerboseLog("  no golden file for %s", sr.Name)
	}
	if sr.RunID != "" {
		formatter.VerboseLog("  run %s", sr.RunID)
	}
}

// outputCheckJSON outputs the check result as JSON.
func outputCheckJSON(formatter *OutputFormatter, result CheckResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_CHECK_FAILED",
			Message: fmt.Sprintf("%d suite(s) failed", result.Failed),
		}
	}

	if err := formatter.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d suite(s) failed", result.Failed))
	}
	return nil
}

// outputCheckText outputs the check summary as text.
func outputCheckText(formatter *OutputFormatter, pal *palette, result CheckResult) error {
	w := formatter.Writer

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Check Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d suite(s) failed", result.Failed))
	}

	fmt.Fprintf(w, "%s All suites passed\n", pal.mark(true))
	return nil
}
