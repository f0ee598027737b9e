package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/numcheck/internal/ir"
	"github.com/roach88/numcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Suite    string
	Limit    int
	Passed   bool
	Failed   bool
	Case     string
	Suites   bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded suite runs",
		Long: `List runs recorded by "numcheck check --db", oldest first.

With --case, list every recorded outcome of one case instead. Case IDs
are printed by "numcheck parse --verbose". With --suites, list the names
of the suites that have recorded runs.

Examples:
  numcheck history --db runs.db
  numcheck history --db runs.db --suite parse_numbers --limit 5
  numcheck history --db runs.db --failed
  numcheck history --db runs.db --case <case-id>
  numcheck history --db runs.db --suites`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to the configured db)")
	cmd.Flags().StringVar(&opts.Suite, "suite", "", "only list runs of this suite")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "only list the most recent N runs")
	cmd.Flags().BoolVar(&opts.Passed, "passed", false, "only list passing runs")
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "only list failing runs")
	cmd.Flags().StringVar(&opts.Case, "case", "", "list the outcomes of one case across runs")
	cmd.Flags().BoolVar(&opts.Suites, "suites", false, "list the suites that have recorded runs")
	cmd.MarkFlagsMutuallyExclusive("passed", "failed")
	cmd.MarkFlagsMutuallyExclusive("case", "suite", "suites")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Limit < 0 {
		return formatter.Fail(ErrCodeGeneric, "--limit must not be negative", nil)
	}

	st, err := openExistingStore(formatter, opts.Database, opts.config().DB)
	if err != nil {
		return err
	}
	defer st.Close()

	switch {
	case opts.Suites:
		return outputSuiteNames(formatter, st, cmd)
	case opts.Case != "":
		return outputCaseHistory(formatter, st, cmd, opts)
	}

	runs, err := st.QueryRuns(cmd.Context(), opts.query())
	if err != nil {
		return formatter.Fail(ErrCodeStore, fmt.Sprintf("failed to list runs: %v", err), nil)
	}

	if formatter.IsJSON() {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	pal := newPalette(formatter.Writer)
	w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tRUN\tSUITE\tCASES\tRESULT")
	for _, run := range runs {
		status := pal.ok.Sprint("PASS")
		if !run.Pass {
			status = pal.fail.Sprint("FAIL")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", run.Seq, run.ID, run.Suite, run.CaseCount, status)
	}
	return w.Flush()
}

func outputSuiteNames(formatter *OutputFormatter, st *store.Store, cmd *cobra.Command) error {
	names, err := st.ListSuites(cmd.Context())
	if err != nil {
		return formatter.Fail(ErrCodeStore, fmt.Sprintf("failed to list suites: %v", err), nil)
	}

	if formatter.IsJSON() {
		return formatter.Success(names)
	}
	if len(names) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(formatter.Writer, name)
	}
	return nil
}

func outputCaseHistory(formatter *OutputFormatter, st *store.Store, cmd *cobra.Command, opts *HistoryOptions) error {
	all, err := st.ReadCaseHistory(cmd.Context(), opts.Case)
	if err != nil {
		return formatter.Fail(ErrCodeStore, fmt.Sprintf("failed to read case history: %v", err), nil)
	}
	if len(all) == 0 {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("no outcomes recorded for case %s", opts.Case), nil)
	}
	outcomes := opts.filterOutcomes(all)

	if formatter.IsJSON() {
		return formatter.Success(outcomes)
	}

	first := all[0]
	fmt.Fprintf(formatter.Writer, "Case %s: %s(%q) radix %d\n", opts.Case, first.Call, first.Input, first.Radix)
	if len(outcomes) == 0 {
		fmt.Fprintln(formatter.Writer, "No matching outcomes.")
		return nil
	}

	pal := newPalette(formatter.Writer)
	w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tRUN\tEXPECTED\tACTUAL\tRESULT")
	for _, o := range outcomes {
		status := pal.ok.Sprint("PASS")
		if !o.Pass {
			status = pal.fail.Sprint("FAIL")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", o.Seq, o.RunID, o.Expected, o.Actual, status)
	}
	return w.Flush()
}

// filterOutcomes applies --passed, --failed and --limit to a case history
// ordered by seq.
func (o *HistoryOptions) filterOutcomes(all []ir.Outcome) []ir.Outcome {
	kept := make([]ir.Outcome, 0, len(all))
	for _, oc := range all {
		if (o.Passed && !oc.Pass) || (o.Failed && oc.Pass) {
			continue
		}
		kept = append(kept, oc)
	}
	if o.Limit > 0 && len(kept) > o.Limit {
		kept = kept[len(kept)-o.Limit:]
	}
	return kept
}

// query builds the run filter from the flags.
func (o *HistoryOptions) query() store.RunQuery {
	var preds []store.Predicate
	if o.Suite != "" {
		preds = append(preds, store.Equals{Field: "suite", Value: ir.IRString(o.Suite)})
	}
	if o.Passed || o.Failed {
		preds = append(preds, store.Equals{Field: "pass", Value: ir.IRBool(o.Passed)})
	}

	q := store.RunQuery{Limit: o.Limit}
	switch len(preds) {
	case 0:
	case 1:
		q.Filter = preds[0]
	default:
		q.Filter = store.And{Predicates: preds}
	}
	return q
}

// openExistingStore opens the run database named by flag, or fallback when
// the flag is empty. The file must already exist.
func openExistingStore(formatter *OutputFormatter, flag, fallback string) (*store.Store, error) {
	path := flag
	if path == "" {
		path = fallback
	}
	if path == "" {
		return nil, formatter.Fail(ErrCodeStore, "no database given (use --db or set db in the config)", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, formatter.Fail(ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, formatter.Fail(ErrCodeStore, fmt.Sprintf("failed to open database: %v", err), nil)
	}
	return st, nil
}
