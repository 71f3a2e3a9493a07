// Package cooldown computes allowed-attempt counts and mandatory wait times
// from attempt history, using tiered cooldown schedules with a daily hard cap.
package cooldown

import (
	"time"

	dErrors "fraudguard/pkg/domain-errors"
)

// DefaultTolerance shaves a second off required waits so a client refreshing
// right at the boundary is not told to wait zero seconds.
const DefaultTolerance = time.Second

// Schedule maps the attempt ordinal within the current day to the wait
// required before the next attempt, plus a hard cap on attempts per day.
type Schedule struct {
	// Waits[n-1] is the wait imposed after the nth attempt. Ordinals past
	// the end reuse the last entry.
	Waits []time.Duration

	// DailyCap is the hard ceiling on attempts per day. Reaching it denies
	// for the rest of the day regardless of elapsed time.
	DailyCap int

	// Tolerance is subtracted from the required wait when comparing elapsed
	// time. Zero means DefaultTolerance.
	Tolerance time.Duration
}

// DefaultSchedule is the stock SMS cooldown policy: escalating waits and five
// attempts per day.
func DefaultSchedule() Schedule {
	return Schedule{
		Waits: []time.Duration{
			30 * time.Second,
			2 * time.Minute,
			5 * time.Minute,
			10 * time.Minute,
		},
		DailyCap:  5,
		Tolerance: DefaultTolerance,
	}
}

// Validate enforces the schedule invariants: at least one tier, a positive
// cap, and waits monotonically non-decreasing with the attempt ordinal.
func (s Schedule) Validate() error {
	if len(s.Waits) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "cooldown schedule needs at least one tier")
	}
	if s.DailyCap <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "daily cap must be positive")
	}
	for i := 1; i < len(s.Waits); i++ {
		if s.Waits[i] < s.Waits[i-1] {
			return dErrors.New(dErrors.CodeInvalidInput, "cooldown waits must be non-decreasing")
		}
	}
	return nil
}

// WaitFor returns the wait imposed after the given attempt ordinal (1-based).
func (s Schedule) WaitFor(ordinal int) time.Duration {
	if ordinal < 1 || len(s.Waits) == 0 {
		return 0
	}
	if ordinal > len(s.Waits) {
		return s.Waits[len(s.Waits)-1]
	}
	return s.Waits[ordinal-1]
}

func (s Schedule) tolerance() time.Duration {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return DefaultTolerance
}
