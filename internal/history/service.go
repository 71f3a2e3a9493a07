package history

import (
	"context"
	"log/slog"

	"fraudguard/internal/attempt"
	"fraudguard/internal/decision"
	"fraudguard/internal/identity"
	"fraudguard/internal/platform/metrics"
	"fraudguard/internal/reporter"
	dErrors "fraudguard/pkg/domain-errors"
	"fraudguard/pkg/requestcontext"
)

// Request carries one history lookup. Query, when present, is recorded
// before the history is returned.
type Request struct {
	RequestID string `json:"requestId"`
	Query     string `json:"query,omitempty"`
}

// Result is the visitor's search history, most recent first.
type Result struct {
	Verdict *decision.Verdict
	Terms   []*SearchTerm
}

// Service returns personalized search history keyed by visitor ID.
type Service struct {
	verifier identity.Verifier
	store    Store
	reporter *reporter.Reporter
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(verifier identity.Verifier, store Store, rep *reporter.Reporter, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		verifier: verifier,
		store:    store,
		reporter: rep,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search records the query term (when given) and returns the visitor's
// history. Personalization is low stakes, so a weak identification match is
// accepted.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	ident, err := s.verifier.Verify(ctx, req.RequestID, identity.VerifyOptions{
		MinConfidence: identity.LowStakesConfidence,
	})
	if err != nil {
		return nil, err
	}

	if req.Query != "" {
		term, err := NewSearchTerm(ident.VisitorID, req.Query, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		if err := s.store.Save(ctx, term); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to save search term")
		}
	}

	terms, err := s.store.ListByVisitor(ctx, ident.VisitorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to load search history")
	}

	verdict := decision.NewVerdict(attempt.OutcomePassed)
	if _, err := s.reporter.Report(ctx, attempt.ActionSearch, ident.VisitorID, verdict); err != nil {
		return nil, err
	}
	s.metrics.ObserveVerdict(string(attempt.ActionSearch), string(verdict.Outcome))

	return &Result{Verdict: verdict, Terms: terms}, nil
}
