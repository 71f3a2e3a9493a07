package cooldown

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fraudguard/internal/attempt"
	dErrors "fraudguard/pkg/domain-errors"
	"fraudguard/pkg/requestcontext"
)

// Status is the result of a cooldown check.
type Status struct {
	Allowed bool

	// WaitRequired is the remaining mandatory wait when denied by cooldown.
	WaitRequired time.Duration

	// AttemptsUsedToday counts attempts since local midnight.
	AttemptsUsedToday int

	// AttemptsRemaining counts attempts left after the current one executes.
	AttemptsRemaining int
}

// Service applies a cooldown schedule to a visitor's attempt history.
//
// The check-then-act window between reading the count and recording the
// attempt is accepted at demo scale; a production deployment closes it with a
// transactional increment-and-check keyed by visitor ID.
type Service struct {
	store    attempt.Store
	schedule Schedule
	ignored  []attempt.Outcome
	logger   *slog.Logger
}

// DefaultIgnored lists outcomes that never consume the schedule: a retry
// that was itself refused by the cooldown must not extend the lockout.
var DefaultIgnored = []attempt.Outcome{attempt.OutcomeTooManyAttempts}

func New(store attempt.Store, schedule Schedule, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "attempt store is required")
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &Service{store: store, schedule: schedule, ignored: DefaultIgnored, logger: logger}, nil
}

// Schedule returns the active cooldown schedule.
func (s *Service) Schedule() Schedule { return s.schedule }

// Check decides whether the visitor may perform the action now.
// Storage faults surface as errors (fail closed), never as an allow.
func (s *Service) Check(ctx context.Context, visitorID string, action attempt.Action) (*Status, error) {
	now := requestcontext.Now(ctx)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		usedToday  int
		mostRecent *attempt.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.store.CountSince(gctx, visitorID, action, midnight, s.ignored)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeStorage, "failed to count attempts for cooldown")
		}
		usedToday = count
		return nil
	})
	g.Go(func() error {
		record, err := s.store.MostRecent(gctx, visitorID, action, s.ignored)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeStorage, "failed to read most recent attempt")
		}
		mostRecent = record
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Day-level lockout overrides any cooldown math.
	if usedToday >= s.schedule.DailyCap {
		return &Status{
			Allowed:           false,
			AttemptsUsedToday: usedToday,
			AttemptsRemaining: 0,
		}, nil
	}

	if usedToday > 0 && mostRecent != nil {
		required := s.schedule.WaitFor(usedToday)
		elapsed := now.Sub(mostRecent.Timestamp)
		if elapsed < required-s.schedule.tolerance() {
			return &Status{
				Allowed:           false,
				WaitRequired:      required - elapsed,
				AttemptsUsedToday: usedToday,
				AttemptsRemaining: s.schedule.DailyCap - usedToday,
			}, nil
		}
	}

	return &Status{
		Allowed:           true,
		AttemptsUsedToday: usedToday,
		AttemptsRemaining: s.schedule.DailyCap - usedToday - 1,
	}, nil
}
