package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockStart(t *testing.T) {
	assert.Equal(t, int64(0), NewClock().Current())
	assert.Equal(t, int64(100), NewClockAt(100).Current())
	assert.Equal(t, int64(101), NewClockAt(100).Next())
}

func TestClockNextAdvancesCurrent(t *testing.T) {
	c := NewClock()
	for want := int64(1); want <= 3; want++ {
		assert.Equal(t, want, c.Next())
		assert.Equal(t, want, c.Current(), "Current must not advance the clock")
	}
}

func TestClockConcurrentNext(t *testing.T) {
	c := NewClock()
	const goroutines, calls = 64, 100

	seqs := make(chan int64, goroutines*calls)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				seqs <- c.Next()
			}
		}()
	}
	wg.Wait()
	close(seqs)

	seen := make(map[int64]struct{})
	for seq := range seqs {
		seen[seq] = struct{}{}
	}
	assert.Len(t, seen, goroutines*calls)
	assert.Equal(t, int64(goroutines*calls), c.Current())
}

func TestNewClockFromStore_ResumesAfterHistory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := New(s, NewFixedGenerator("run-1"))
	_, err := first.Execute(ctx, hexSuite())
	require.NoError(t, err)

	clock, err := NewClockFromStore(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, int64(3), clock.Current(), "two outcomes plus the run")

	second := New(s, NewFixedGenerator("run-2"), WithClock(clock))
	exec, err := second.Execute(ctx, hexSuite())
	require.NoError(t, err)
	assert.Equal(t, int64(4), exec.Outcomes[0].Seq)
}
