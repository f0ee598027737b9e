package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadRun() error = %v, want sql.ErrNoRows", err)
	}
}

func TestReadOutcomes_Empty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadOutcomes(context.Background(), "nope")
	if err != nil {
		t.Fatalf("ReadOutcomes() failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ReadOutcomes() = %#v, want empty non-nil slice", got)
	}
}

func TestReadOutcomes_DeterministicOrdering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteRun(ctx, createTestRun("run-1", "s", 10)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	// Written out of order, with a seq tie broken by id.
	for _, o := range []struct {
		id  string
		seq int64
	}{{"c", 3}, {"b", 1}, {"a", 3}} {
		if err := s.WriteOutcome(ctx, createTestOutcome(o.id, "run-1", o.seq)); err != nil {
			t.Fatalf("WriteOutcome(%s) failed: %v", o.id, err)
		}
	}

	got, err := s.ReadOutcomes(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadOutcomes() failed: %v", err)
	}
	var ids []string
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	want := []string{"b", "a", "c"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, want %v", ids, want)
			break
		}
	}
}

func TestListRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, r := range []struct {
		id, suite string
		seq       int64
	}{
		{"r3", "hex", 30},
		{"r1", "parse_numbers", 10},
		{"r2", "parse_numbers", 20},
		{"r4", "parse_numbers", 40},
	} {
		if err := s.WriteRun(ctx, createTestRun(r.id, r.suite, r.seq)); err != nil {
			t.Fatalf("WriteRun(%s) failed: %v", r.id, err)
		}
	}

	tests := []struct {
		name  string
		suite string
		limit int
		want  []string
	}{
		{"all", "", 0, []string{"r1", "r2", "r3", "r4"}},
		{"by suite", "parse_numbers", 0, []string{"r1", "r2", "r4"}},
		{"latest two", "parse_numbers", 2, []string{"r2", "r4"}},
		{"latest overall", "", 1, []string{"r4"}},
		{"unknown suite", "nope", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := s.ListRuns(ctx, tt.suite, tt.limit)
			if err != nil {
				t.Fatalf("ListRuns() failed: %v", err)
			}
			ids := []string{}
			for _, r := range runs {
				ids = append(ids, r.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("ListRuns() ids = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("ListRuns() ids = %v, want %v", ids, tt.want)
					break
				}
			}
		})
	}
}

func TestReadCaseHistory(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i, runID := range []string{"run-1", "run-2"} {
		seq := int64(i*10 + 1)
		if err := s.WriteRun(ctx, createTestRun(runID, "s", seq+1)); err != nil {
			t.Fatalf("WriteRun() failed: %v", err)
		}
		if err := s.WriteOutcome(ctx, createTestOutcome("out-"+runID, runID, seq)); err != nil {
			t.Fatalf("WriteOutcome() failed: %v", err)
		}
	}

	o := createTestOutcome("x", "run-1", 1)
	history, err := s.ReadCaseHistory(ctx, o.CaseID)
	if err != nil {
		t.Fatalf("ReadCaseHistory() failed: %v", err)
	}
	if len(history) != 2 || history[0].RunID != "run-1" || history[1].RunID != "run-2" {
		t.Errorf("ReadCaseHistory() = %+v", history)
	}
}

func TestReadOutcomes_CorruptNumber(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteRun(ctx, createTestRun("run-1", "s", 2)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	if _, err := s.db.Exec(`
		INSERT INTO outcomes (id, run_id, case_id, seq, call, input, radix, expected, actual, pass)
		VALUES ('o1', 'run-1', 'c', 1, 'parseInt', '1', 0, '1', 'garbage', 0)
	`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if _, err := s.ReadOutcomes(ctx, "run-1"); err == nil {
		t.Error("ReadOutcomes() succeeded on corrupt actual column")
	}
}
