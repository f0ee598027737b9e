package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/numcheck/internal/ir"
)

// Predicate is a filter over run columns.
//
// This is a sealed interface; Equals and And are the only implementations.
type Predicate interface {
	predicateNode()
}

// Equals matches rows whose Field equals Value.
type Equals struct {
	Field string
	Value ir.IRValue
}

func (Equals) predicateNode() {}

// And matches rows satisfying every predicate. An empty And matches all rows.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// RunQuery selects stored runs.
type RunQuery struct {
	Filter Predicate // nil matches every run
	Limit  int       // keep only the most recent N runs; 0 keeps all
}

// runColumns are the fields a RunQuery may filter on. Field names are
// written into the SQL, so anything else is rejected.
var runColumns = map[string]bool{
	"id":             true,
	"suite":          true,
	"suite_hash":     true,
	"pass":           true,
	"case_count":     true,
	"seq":            true,
	"engine_version": true,
}

const selectRuns = `SELECT id, suite, suite_hash, pass, case_count, seq, engine_version FROM runs`

// compileRunQuery converts q to parameterized SQL.
//
// Every query ends in ORDER BY seq ASC, id ASC COLLATE BINARY. A limit
// picks the newest runs first and then restores that order.
func compileRunQuery(q RunQuery) (string, []any, error) {
	if q.Limit < 0 {
		return "", nil, fmt.Errorf("negative limit %d", q.Limit)
	}

	var b strings.Builder
	b.WriteString(selectRuns)

	var params []any
	if q.Filter != nil {
		where, whereParams, err := compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
		params = whereParams
	}

	if q.Limit == 0 {
		b.WriteString(" ORDER BY seq ASC, id COLLATE BINARY ASC")
		return b.String(), params, nil
	}

	b.WriteString(" ORDER BY seq DESC, id COLLATE BINARY DESC LIMIT ?")
	params = append(params, q.Limit)
	return "SELECT * FROM (" + b.String() + ") ORDER BY seq ASC, id COLLATE BINARY ASC", params, nil
}

// compilePredicate compiles p to a WHERE fragment. Values are never
// interpolated.
func compilePredicate(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case Equals:
		return compileEquals(pred)
	case *Equals:
		return compileEquals(*pred)
	case And:
		return compileAnd(pred)
	case *And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileEquals(eq Equals) (string, []any, error) {
	if !runColumns[eq.Field] {
		return "", nil, fmt.Errorf("unknown run field %q", eq.Field)
	}
	param, err := valueToParam(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", eq.Field, err)
	}
	return eq.Field + " = ?", []any{param}, nil
}

func compileAnd(and And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, predParams...)
	}
	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}

// valueToParam converts an IR value to a SQL parameter. Booleans become
// 0/1 to match the INTEGER pass column.
func valueToParam(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	case ir.IRBool:
		return boolToInt(bool(val)), nil
	case ir.IRNumber:
		return marshalNumber(val)
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}

// QueryRuns returns the runs matching q.
//
// Returns an empty slice (not nil) if no runs match.
func (s *Store) QueryRuns(ctx context.Context, q RunQuery) ([]ir.Run, error) {
	query, args, err := compileRunQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
