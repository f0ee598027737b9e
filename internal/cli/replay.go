package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/numcheck/internal/engine"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Re-evaluate a recorded run and verify it reproduces",
		Long: `Re-evaluate every case of a recorded run with the current parsers and
compare each result with the stored outcome.

Exit codes:
  0 - Every outcome reproduced identically
  1 - At least one outcome differs
  2 - Command error (database or run not found, etc.)

Examples:
  numcheck replay 0192f0c4-7a1e-7cc3-9d1b-3f0f5e1f2a44 --db runs.db
  numcheck replay 0192f0c4-7a1e-7cc3-9d1b-3f0f5e1f2a44 --db runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to the configured db)")

	return cmd
}

func runReplay(opts *ReplayOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openExistingStore(formatter, opts.Database, opts.config().DB)
	if err != nil {
		return err
	}
	defer st.Close()

	eng := engine.New(st, engine.UUIDv7Generator{}, engine.WithLogger(opts.logger()))
	report, err := eng.Replay(cmd.Context(), runID)
	if errors.Is(err, sql.ErrNoRows) {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("run not found: %s", runID), nil)
	}
	if err != nil {
		return formatter.Fail(ErrCodeStore, fmt.Sprintf("replay failed: %v", err), nil)
	}

	if formatter.IsJSON() {
		if report.Identical() {
			return formatter.Success(report)
		}
		resp := CLIResponse{
			Status: "error",
			Data:   report,
			Error: &CLIError{
				Code:    "E_REPLAY_DRIFT",
				Message: fmt.Sprintf("%d of %d outcome(s) differ", len(report.Mismatches), report.Replayed),
			},
		}
		if err := formatter.Encode(resp); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "replay drift detected")
	}

	pal := newPalette(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "Run %s (%s, seq %d)\n", report.Run.ID, report.Run.Suite, report.Run.Seq)
	for _, m := range report.Mismatches {
		fmt.Fprintf(formatter.Writer, "  %s seq %d: %s(%q) stored %s (pass=%t), now %s (pass=%t)\n",
			pal.mark(false), m.Seq, m.Call, m.Input, m.StoredActual, m.StoredPass, m.ReplayActual, m.ReplayPass)
	}

	if !report.Identical() {
		fmt.Fprintf(formatter.Writer, "\n%s %d of %d outcome(s) differ\n", pal.mark(false), len(report.Mismatches), report.Replayed)
		return NewExitError(ExitFailure, "replay drift detected")
	}
	fmt.Fprintf(formatter.Writer, "%s All %d outcome(s) reproduced\n", pal.mark(true), report.Replayed)
	return nil
}
