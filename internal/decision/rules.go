package decision

import (
	"context"
	"net/url"
	"slices"
	"time"

	"fraudguard/internal/attempt"
	"fraudguard/internal/identity"
	dErrors "fraudguard/pkg/domain-errors"
	"fraudguard/pkg/requestcontext"
)

// DefaultFreshnessWindow bounds how old an identification event may be before
// it is treated as a replayed token.
const DefaultFreshnessWindow = 3000 * time.Millisecond

// FreshnessRule rejects forged or replayed identification tokens.
type FreshnessRule struct {
	MaxAge time.Duration
}

func (r FreshnessRule) Name() string { return "freshness" }

func (r FreshnessRule) Check(ctx context.Context, ident *identity.VerifiedIdentity) (*Verdict, error) {
	// The verifier must have matched this exact request ID. Zero visits means
	// the client forged identification data.
	if ident.Visits == 0 {
		return NewVerdict(attempt.OutcomeRequestIDMismatch), nil
	}

	maxAge := r.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultFreshnessWindow
	}
	if ident.Age(requestcontext.Now(ctx)) > maxAge {
		return NewVerdict(attempt.OutcomeOldTimestamp), nil
	}
	return nil, nil
}

// ConfidenceRule routes low-confidence identifications to step-up
// verification instead of silently passing them.
type ConfidenceRule struct {
	Threshold float64
}

func (r ConfidenceRule) Name() string { return "confidence" }

func (r ConfidenceRule) Check(_ context.Context, ident *identity.VerifiedIdentity) (*Verdict, error) {
	if ident.ConfidenceScore < r.Threshold {
		return NewVerdict(attempt.OutcomeLowConfidence), nil
	}
	return nil, nil
}

// VelocityRule blocks visitors with too many recent non-ignored attempts.
//
// The ignore set keeps prior Passed, Challenged and TooManyAttempts records
// from counting, so a visitor is not double-punished for successful logins or
// for attempts that were already blocked.
type VelocityRule struct {
	Store   attempt.Store
	Action  attempt.Action
	Window  time.Duration
	Cap     int
	Ignored []attempt.Outcome
}

// DefaultVelocityIgnored is the standard ignore set for unsuccessful-attempt
// counting.
var DefaultVelocityIgnored = []attempt.Outcome{
	attempt.OutcomePassed,
	attempt.OutcomeChallenged,
	attempt.OutcomeTooManyAttempts,
}

func (r VelocityRule) Name() string { return "velocity" }

func (r VelocityRule) Check(ctx context.Context, ident *identity.VerifiedIdentity) (*Verdict, error) {
	now := requestcontext.Now(ctx)
	since := now.Add(-r.Window)

	count, err := r.Store.CountSince(ctx, ident.VisitorID, r.Action, since, r.Ignored)
	if err != nil {
		// Fail closed: a storage fault aborts the evaluation rather than
		// skipping the check.
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to count prior attempts")
	}
	if count > r.Cap {
		return NewVerdict(attempt.OutcomeTooManyAttempts), nil
	}
	return nil, nil
}

// OriginRule rejects requests whose declared origin, or whose
// verifier-reported identification origin, falls outside the allow-list.
type OriginRule struct {
	Allowed []string
}

func (r OriginRule) Name() string { return "origin" }

func (r OriginRule) Check(ctx context.Context, ident *identity.VerifiedIdentity) (*Verdict, error) {
	reported := originOf(ident.Signals.OriginURL)
	declared := requestcontext.Origin(ctx)

	if !slices.Contains(r.Allowed, reported) || !slices.Contains(r.Allowed, declared) {
		return NewVerdict(attempt.OutcomeForeignOrigin), nil
	}
	return nil, nil
}

// originOf reduces a URL to its origin (scheme://host[:port]).
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// IPIntegrityRule rejects requests arriving from a different IP address than
// the identification event. Useful against phished tokens, though NATs and
// mobile networks make it unsuitable as a default.
type IPIntegrityRule struct{}

func (r IPIntegrityRule) Name() string { return "ip_integrity" }

func (r IPIntegrityRule) Check(ctx context.Context, ident *identity.VerifiedIdentity) (*Verdict, error) {
	if requestcontext.ClientIP(ctx) != ident.Signals.IP {
		return NewVerdict(attempt.OutcomeIPMismatch), nil
	}
	return nil, nil
}

// SignalRule blocks identities carrying hostile network signals. Callers that
// honor a demo override construct the rule with BlockBots disabled.
type SignalRule struct {
	BlockBots bool
	BlockTor  bool
	BlockVPN  bool
}

func (r SignalRule) Name() string { return "signals" }

func (r SignalRule) Check(_ context.Context, ident *identity.VerifiedIdentity) (*Verdict, error) {
	if r.BlockBots && ident.Signals.Bot == identity.BotBad {
		return NewVerdict(attempt.OutcomeBotDetected), nil
	}
	if r.BlockTor && ident.Signals.Tor {
		return NewVerdict(attempt.OutcomeTorNetwork), nil
	}
	if r.BlockVPN && ident.Signals.VPN {
		return NewVerdict(attempt.OutcomeVPNDetected), nil
	}
	return nil, nil
}
