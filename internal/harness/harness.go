package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/numcheck/internal/engine"
	"github.com/roach88/numcheck/internal/ir"
	"github.com/roach88/numcheck/internal/store"
	"github.com/roach88/numcheck/internal/testutil"
)

// runConfig collects what a Run may override.
type runConfig struct {
	store     *store.Store
	clock     engine.Sequencer
	runIDs    engine.RunIDGenerator
	observers []engine.Observer
	logger    *slog.Logger
}

// RunOption configures a single Run.
type RunOption func(*runConfig)

// WithStore persists the run in s instead of a throwaway in-memory
// database. The caller keeps ownership of s. Unless WithClock is also
// given, the clock resumes after the highest seq already in s.
func WithStore(s *store.Store) RunOption {
	return func(c *runConfig) {
		c.store = s
	}
}

// WithClock replaces the deterministic clock.
func WithClock(clock engine.Sequencer) RunOption {
	return func(c *runConfig) {
		c.clock = clock
	}
}

// WithRunIDs replaces the fixed run ID generator.
func WithRunIDs(g engine.RunIDGenerator) RunOption {
	return func(c *runConfig) {
		c.runIDs = g
	}
}

// WithObserver adds an engine observer, e.g. a metrics collector.
func WithObserver(o engine.Observer) RunOption {
	return func(c *runConfig) {
		c.observers = append(c.observers, o)
	}
}

// WithLogger routes engine logs to l. Logs are discarded by default.
func WithLogger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = l
	}
}

// Run executes a suite and returns the result.
//
// By default each suite runs in a fresh in-memory database with a
// deterministic clock starting at 0 and the run ID DefaultRunID,
// so two runs of the same suite produce identical traces.
//
// A returned error means the suite could not be executed at all. Failing
// cases are not errors: they show up in Result.Errors and clear Result.Pass.
func Run(ctx context.Context, suite *ir.SuiteSpec, opts ...RunOption) (*Result, error) {
	cfg := runConfig{
		runIDs: testutil.NewFixedRunIDGenerator(DefaultRunID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := cfg.store
	if st == nil {
		mem, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer mem.Close()
		st = mem
		if cfg.clock == nil {
			cfg.clock = testutil.NewDeterministicClock()
		}
	}
	if cfg.clock == nil {
		clock, err := engine.NewClockFromStore(ctx, st)
		if err != nil {
			return nil, err
		}
		cfg.clock = clock
	}

	engineOpts := []engine.Option{
		engine.WithClock(cfg.clock),
		engine.WithLogger(cfg.logger),
	}
	for _, o := range cfg.observers {
		engineOpts = append(engineOpts, engine.WithObserver(o))
	}
	eng := engine.New(st, cfg.runIDs, engineOpts...)

	exec, err := eng.Execute(ctx, suite)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.RunID = exec.Run.ID
	for i, o := range exec.Outcomes {
		result.AddOutcomeTrace(o)
		if !o.Pass {
			result.AddError(fmt.Sprintf("case %d: %s = %s, want %s",
				i+1, describeCall(suite.Cases[i]), o.Actual, o.Expected))
		}
	}
	// The engine's folded flag is authoritative.
	result.Pass = exec.Run.Pass

	return result, nil
}

// describeCall renders a case the way it would be written as code, e.g.
// parseInt("0x100", 16).
func describeCall(c ir.CaseSpec) string {
	if c.Radix != nil {
		return fmt.Sprintf("%s(%q, %d)", c.Call, c.Input, *c.Radix)
	}
	return fmt.Sprintf("%s(%q)", c.Call, c.Input)
}
