// Package reporter records evaluation outcomes and raises the
// suspicious-activity side channel for denied verdicts.
package reporter

import (
	"context"
	"log/slog"
	"time"

	"fraudguard/internal/attempt"
	"fraudguard/internal/decision"
	dErrors "fraudguard/pkg/domain-errors"
	"fraudguard/pkg/platform/audit"
	"fraudguard/pkg/requestcontext"
)

// Reporter persists exactly one attempt record per completed evaluation and,
// on non-allow verdicts, emits a security event. Emission is fire-and-forget:
// it can neither block nor fail the response.
type Reporter struct {
	store     attempt.Store
	publisher audit.Publisher
	messages  Messages
	logger    *slog.Logger
}

type Option func(*Reporter)

// WithMessages overrides the default message template table.
func WithMessages(messages Messages) Option {
	return func(r *Reporter) {
		r.messages = messages
	}
}

// WithPublisher sets the security event sink.
func WithPublisher(publisher audit.Publisher) Option {
	return func(r *Reporter) {
		r.publisher = publisher
	}
}

func New(store attempt.Store, logger *slog.Logger, opts ...Option) (*Reporter, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "attempt store is required")
	}

	r := &Reporter{
		store:     store,
		publisher: audit.NopPublisher{},
		messages:  DefaultMessages(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Store exposes the attempt history backing this reporter.
func (r *Reporter) Store() attempt.Store { return r.store }

// Report persists the verdict as an attempt record, resolves the user-facing
// message, and reports suspicious activity for denials. Returns the resolved
// verdict message.
func (r *Reporter) Report(ctx context.Context, action attempt.Action, visitorID string, verdict *decision.Verdict) (string, error) {
	return r.ReportWithRecord(ctx, action, visitorID, verdict, nil)
}

// ReportWithRecord is Report with flow-specific record fields (contact hash,
// meta payload) supplied by the caller.
func (r *Reporter) ReportWithRecord(ctx context.Context, action attempt.Action, visitorID string, verdict *decision.Verdict, customize func(*attempt.Record)) (string, error) {
	message := verdict.Message
	if message == "" {
		message = r.messages.Resolve(verdict.Outcome)
	}

	now := requestcontext.Now(ctx)
	record, err := attempt.NewRecord(visitorID, action, verdict.Outcome, now)
	if err != nil {
		return "", err
	}
	if customize != nil {
		customize(record)
	}

	if err := r.store.Record(ctx, record); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeStorage, "failed to record attempt")
	}

	if !verdict.Allow {
		r.reportSuspiciousActivity(ctx, action, visitorID, verdict, message, now)
	}

	return message, nil
}

// reportSuspiciousActivity emits the security side channel for a denial.
// Failures are logged, never propagated.
func (r *Reporter) reportSuspiciousActivity(ctx context.Context, action attempt.Action, visitorID string, verdict *decision.Verdict, message string, now time.Time) {
	event := audit.SecurityEvent{
		Timestamp: now,
		VisitorID: visitorID,
		Action:    string(action),
		Outcome:   string(verdict.Outcome),
		Reason:    message,
		IP:        requestcontext.ClientIP(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Severity:  audit.SeverityWarning,
	}
	if verdict.Outcome == attempt.OutcomeTooManyAttempts {
		event.Severity = audit.SeverityCritical
	}

	if err := r.publisher.Emit(ctx, event); err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "failed to emit security event",
			"action", action,
			"outcome", verdict.Outcome,
			"error", err,
		)
	}
}
