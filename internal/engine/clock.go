package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/roach88/numcheck/internal/store"
)

// Sequencer hands out strictly increasing logical sequence numbers.
// Implemented by Clock (production) and testutil.DeterministicClock (tests).
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock for run and outcome ordering.
//
// Every outcome and run is stamped with a seq from this clock. Stored
// history is ordered by seq, never by wall time, so reading it back is
// deterministic.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// NewClockFromStore resumes the clock after the highest seq already in s,
// so runs appended by this process sort after earlier ones.
func NewClockFromStore(ctx context.Context, s *store.Store) (*Clock, error) {
	last, err := s.GetLastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume clock: %w", err)
	}
	return NewClockAt(last), nil
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
