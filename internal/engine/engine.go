package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/numcheck/internal/ir"
	"github.com/roach88/numcheck/internal/numparse"
	"github.com/roach88/numcheck/internal/store"
)

// RunIDGenerator generates unique run IDs.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type RunIDGenerator interface {
	Generate() string
}

// CallFunc computes the actual value of a case from its input and radix.
// Calls that take no radix ignore it.
type CallFunc func(input string, radix int) float64

// Observer is notified of every outcome and every completed run.
// Metrics collection is the main implementation.
type Observer interface {
	ObserveOutcome(o ir.Outcome)
	ObserveRun(r ir.Run)
}

// DefaultCalls returns the built-in call registry.
func DefaultCalls() map[string]CallFunc {
	return map[string]CallFunc{
		ir.CallParseInt:   numparse.ParseInt,
		ir.CallParseFloat: parseFloatCall,
	}
}

func parseFloatCall(input string, _ int) float64 {
	return numparse.ParseFloat(input)
}

// Engine evaluates suites case by case.
//
// INVARIANTS:
//   - Cases are evaluated in declaration order
//   - Each outcome's seq is strictly greater than the previous one's
//   - A run's seq is greater than the seq of every one of its outcomes
type Engine struct {
	store     *store.Store // optional; nil disables persistence
	clock     Sequencer
	runIDs    RunIDGenerator
	calls     map[string]CallFunc
	observers []Observer
	logger    *slog.Logger
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithClock replaces the default clock starting at 0.
func WithClock(c Sequencer) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithCall registers or replaces a call handler.
func WithCall(name string, fn CallFunc) Option {
	return func(e *Engine) {
		e.calls[name] = fn
	}
}

// WithObserver adds an observer notified after each outcome and run.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine with the given store and run ID generator.
//
// s may be nil, in which case runs are evaluated but not persisted.
func New(s *store.Store, runIDs RunIDGenerator, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		clock:  NewClock(),
		runIDs: runIDs,
		calls:  DefaultCalls(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Execution is a completed run together with its outcomes in seq order.
type Execution struct {
	Run      ir.Run
	Outcomes []ir.Outcome
}

// Execute runs every case of suite in declaration order and folds the
// results into Run.Pass. When the engine has a store, the run and all of
// its outcomes are written atomically after the last case.
//
// Context cancellation is checked between cases; a cancelled execution
// writes nothing.
func (e *Engine) Execute(ctx context.Context, suite *ir.SuiteSpec) (*Execution, error) {
	suiteHash, err := ir.SuiteHash(*suite)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", suite.Name, err)
	}

	runID := e.runIDs.Generate()
	log := e.logger.With("suite", suite.Name, "run_id", runID)
	log.Info("run starting", "cases", len(suite.Cases))

	exec := &Execution{
		Run: ir.Run{
			ID:            runID,
			Suite:         suite.Name,
			SuiteHash:     suiteHash,
			Pass:          true,
			CaseCount:     len(suite.Cases),
			EngineVersion: ir.EngineVersion,
		},
		Outcomes: make([]ir.Outcome, 0, len(suite.Cases)),
	}

	for i, c := range suite.Cases {
		if err := ctx.Err(); err != nil {
			log.Info("run cancelled", "after_cases", i)
			return nil, fmt.Errorf("execute %s: %w", suite.Name, err)
		}

		outcome, err := e.Evaluate(c)
		if err != nil {
			var re *RuntimeError
			if errors.As(err, &re) {
				re.RunID = runID
			}
			return nil, fmt.Errorf("execute %s: case %d: %w", suite.Name, i+1, err)
		}

		outcome.RunID = runID
		outcome.Seq = e.clock.Next()
		outcome.ID, err = ir.OutcomeID(runID, outcome.CaseID, outcome.Seq)
		if err != nil {
			return nil, fmt.Errorf("execute %s: case %d: %w", suite.Name, i+1, err)
		}

		log.Debug("case evaluated",
			"seq", outcome.Seq,
			"call", outcome.Call,
			"input", outcome.Input,
			"actual", string(outcome.Actual),
			"expected", string(outcome.Expected),
		)
		if !outcome.Pass {
			log.Warn("case mismatch",
				"case", i+1,
				"call", outcome.Call,
				"input", outcome.Input,
				"actual", string(outcome.Actual),
				"expected", string(outcome.Expected),
			)
		}

		exec.Run.Pass = exec.Run.Pass && outcome.Pass
		exec.Outcomes = append(exec.Outcomes, outcome)
		for _, o := range e.observers {
			o.ObserveOutcome(outcome)
		}
	}

	exec.Run.Seq = e.clock.Next()

	if e.store != nil {
		if err := e.store.WriteRunAtomic(ctx, exec.Run, exec.Outcomes); err != nil {
			return nil, fmt.Errorf("execute %s: %w", suite.Name, err)
		}
	}

	for _, o := range e.observers {
		o.ObserveRun(exec.Run)
	}
	log.Info("run finished", "pass", exec.Run.Pass, "seq", exec.Run.Seq)

	return exec, nil
}
