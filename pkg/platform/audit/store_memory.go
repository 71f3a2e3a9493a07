package audit

import (
	"context"
	"sync"
)

// InMemoryPublisher collects events in memory. Used as a test double and as
// the default sink in demo mode.
type InMemoryPublisher struct {
	mu     sync.RWMutex
	events []SecurityEvent
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Emit(_ context.Context, event SecurityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *InMemoryPublisher) Close() {}

// Events returns a copy of all emitted events.
func (p *InMemoryPublisher) Events() []SecurityEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]SecurityEvent{}, p.events...)
}

// Clear drops all recorded events. Use between tests.
func (p *InMemoryPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
