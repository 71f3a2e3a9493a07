package history

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore keeps search history in process memory.
type InMemoryStore struct {
	mu    sync.RWMutex
	terms map[string][]*SearchTerm // keyed by visitorID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{terms: make(map[string][]*SearchTerm)}
}

func (s *InMemoryStore) Save(_ context.Context, term *SearchTerm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *term
	s.terms[term.VisitorID] = append(s.terms[term.VisitorID], &copied)
	return nil
}

func (s *InMemoryStore) ListByVisitor(_ context.Context, visitorID string) ([]*SearchTerm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.terms[visitorID]
	result := make([]*SearchTerm, 0, len(stored))
	for _, term := range stored {
		copied := *term
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result, nil
}
