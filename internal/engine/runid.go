package engine

import (
	"sync"

	"github.com/google/uuid"
)

// UUIDv7Generator mints hyphenated UUIDv7 run IDs. The leading timestamp
// bits make IDs from successive runs sort in creation order.
type UUIDv7Generator struct{}

// Generate panics only if the system entropy source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator hands out a fixed list of run IDs, for tests that assert
// on stored rows.
type FixedGenerator struct {
	mu   sync.Mutex
	ids  []string
	next int
}

// NewFixedGenerator returns a generator yielding ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate panics once the list is used up: the test ran more suites than
// it declared IDs for.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.next]
	g.next++
	return id
}
