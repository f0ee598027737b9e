package testutil

import "sync/atomic"

// DeterministicClock stamps outcome seq values for harness runs. It satisfies
// engine.Sequencer and, unlike engine.Clock, can be rewound so repeated runs
// of one suite write identical seq values into their golden snapshots.
type DeterministicClock struct {
	seq atomic.Int64
}

// NewDeterministicClock returns a clock whose first Next is 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next advances the clock and returns the new value.
func (c *DeterministicClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out, or 0 before the first Next.
func (c *DeterministicClock) Current() int64 {
	return c.seq.Load()
}

// Reset rewinds the clock to 0.
func (c *DeterministicClock) Reset() {
	c.seq.Store(0)
}
