package attempt

import (
	"context"
	"time"
)

// Store is the append-only attempt history.
//
// There is deliberately no unfiltered "count all" operation: every count is
// time-windowed and outcome-filtered per the caller's policy, which keeps
// queries bounded on any backing store.
type Store interface {
	// Record appends an attempt. Records are never updated or deleted.
	Record(ctx context.Context, record *Record) error

	// CountSince counts attempts for a visitor and action at or after the
	// given time, skipping any outcome in excluded.
	CountSince(ctx context.Context, visitorID string, action Action, since time.Time, excluded []Outcome) (int, error)

	// MostRecent returns the latest attempt for a visitor and action,
	// skipping any outcome in excluded, or nil when none exists.
	MostRecent(ctx context.Context, visitorID string, action Action, excluded []Outcome) (*Record, error)
}
