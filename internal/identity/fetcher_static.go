package identity

import (
	"context"
	"sync"
	"time"

	dErrors "fraudguard/pkg/domain-errors"
)

// StaticFetcher serves identity records from memory, keyed by request ID.
// Used in tests and demo mode where no verification backend is available.
type StaticFetcher struct {
	mu      sync.RWMutex
	records map[string]*VerifiedIdentity
}

func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{records: make(map[string]*VerifiedIdentity)}
}

// Put registers a record under its request ID.
func (f *StaticFetcher) Put(record *VerifiedIdentity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.RequestID] = record
}

func (f *StaticFetcher) Fetch(_ context.Context, requestID string, _ string) (*VerifiedIdentity, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	record, ok := f.records[requestID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeVerificationFailed, "unknown request ID")
	}
	copied := *record
	return &copied, nil
}

// DemoFetcher accepts any request ID and returns a synthetic identity
// stamped at fetch time. Lets the server run without a verification backend
// configured; never use it outside local exploration.
type DemoFetcher struct {
	origin string
}

func NewDemoFetcher(origin string) *DemoFetcher {
	return &DemoFetcher{origin: origin}
}

func (f *DemoFetcher) Fetch(_ context.Context, requestID string, _ string) (*VerifiedIdentity, error) {
	return &VerifiedIdentity{
		VisitorID:       "demo-visitor",
		RequestID:       requestID,
		Timestamp:       time.Now(),
		ConfidenceScore: 1,
		Visits:          1,
		Signals: Signals{
			CountryCode: "US",
			CountryName: "United States",
			OriginURL:   f.origin,
		},
	}, nil
}
