package cooldown

import (
	"context"
	"sync"
)

// LifetimeCounter tracks a non-resettable per-visitor counter bounding costly
// side effects (real message sends). It is not reset by day boundaries or by
// demo-reset tooling, and increments only when the side effect actually
// executes, never on blocked attempts.
type LifetimeCounter interface {
	// Increment bumps the counter and returns the new value.
	Increment(ctx context.Context, visitorID string) (int64, error)

	// Count returns the current value.
	Count(ctx context.Context, visitorID string) (int64, error)
}

// InMemoryLifetimeCounter keeps lifetime counts in process memory.
type InMemoryLifetimeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewInMemoryLifetimeCounter() *InMemoryLifetimeCounter {
	return &InMemoryLifetimeCounter{counts: make(map[string]int64)}
}

func (c *InMemoryLifetimeCounter) Increment(_ context.Context, visitorID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[visitorID]++
	return c.counts[visitorID], nil
}

func (c *InMemoryLifetimeCounter) Count(_ context.Context, visitorID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[visitorID], nil
}
