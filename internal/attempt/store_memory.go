package attempt

import (
	"context"
	"slices"
	"sync"
	"time"
)

// InMemoryStore keeps attempt history in process memory. Suitable for tests
// and single-instance demo deployments; use PostgresStore in production.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string][]*Record // keyed by visitorID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string][]*Record)}
}

func (s *InMemoryStore) Record(_ context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records[record.VisitorID] = append(s.records[record.VisitorID], &copied)
	return nil
}

func (s *InMemoryStore) CountSince(_ context.Context, visitorID string, action Action, since time.Time, excluded []Outcome) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, record := range s.records[visitorID] {
		if record.Action != action {
			continue
		}
		if record.Timestamp.Before(since) {
			continue
		}
		if slices.Contains(excluded, record.Outcome) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *InMemoryStore) MostRecent(_ context.Context, visitorID string, action Action, excluded []Outcome) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *Record
	for _, record := range s.records[visitorID] {
		if record.Action != action {
			continue
		}
		if slices.Contains(excluded, record.Outcome) {
			continue
		}
		if latest == nil || record.Timestamp.After(latest.Timestamp) {
			latest = record
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}
