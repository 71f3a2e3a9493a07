package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"fraudguard/internal/attempt"
	"fraudguard/internal/decision"
	"fraudguard/internal/identity"
	"fraudguard/internal/platform/metrics"
	"fraudguard/internal/reporter"
)

// Request carries one regional pricing activation.
type Request struct {
	RequestID    string `json:"requestId"`
	SealedResult string `json:"sealedResult,omitempty"`
}

// Result is the outcome of an activation. Discount is set only on allow.
type Result struct {
	Verdict  *decision.Verdict
	Discount float64
}

// Service activates regional pricing for verified locations.
type Service struct {
	verifier       identity.Verifier
	reporter       *reporter.Reporter
	allowedOrigins []string
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(verifier identity.Verifier, rep *reporter.Reporter, allowedOrigins []string, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		verifier:       verifier,
		reporter:       rep,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Activate verifies the device, requires a determinable country, refuses VPN
// users with the concrete evidence, and otherwise grants the PPP discount.
func (s *Service) Activate(ctx context.Context, req Request) (*Result, error) {
	ident, err := s.verifier.Verify(ctx, req.RequestID, identity.VerifyOptions{
		MaxAge:         decision.DefaultFreshnessWindow,
		AllowedOrigins: s.allowedOrigins,
		SealedResult:   req.SealedResult,
	})
	if err != nil {
		return nil, err
	}

	verdict, discount := s.evaluate(ident)
	if _, err := s.reporter.Report(ctx, attempt.ActionPricing, ident.VisitorID, verdict); err != nil {
		return nil, err
	}
	s.metrics.ObserveVerdict(string(attempt.ActionPricing), string(verdict.Outcome))

	return &Result{Verdict: verdict, Discount: discount}, nil
}

func (s *Service) evaluate(ident *identity.VerifiedIdentity) (*decision.Verdict, float64) {
	signals := ident.Signals

	if signals.CountryCode == "" {
		return decision.NewVerdict(attempt.OutcomeLocationUnknown).WithMessage(
			"Location could not be determined, please try a different browser or internet connection."), 0
	}

	if signals.VPN {
		return decision.NewVerdict(attempt.OutcomeVPNDetected).
			WithMessage(vpnMessage(signals)), 0
	}

	discount := RegionalDiscount(signals.CountryCode)
	message := fmt.Sprintf(
		"Success! We have applied a regional discount of %s%%. With this discount your purchase will be restricted to %s.",
		strconv.FormatFloat(discount, 'f', -1, 64), signals.CountryName)
	return decision.NewVerdict(attempt.OutcomePassed).WithMessage(message), discount
}

// vpnMessage names the strongest piece of evidence, in the same precedence
// the detection signals are reported.
func vpnMessage(signals identity.Signals) string {
	var reason string
	if signals.VPNMethods.PublicVPN {
		reason = fmt.Sprintf("Your IP address appears to be in %s but it's a known VPN IP address.",
			signals.CountryName)
	}
	if signals.VPNMethods.TimezoneMismatch && signals.OriginTimezone != "" {
		reason = fmt.Sprintf("Your IP address appears to be in %s, but your timezone is %s.",
			signals.CountryName, signals.OriginTimezone)
	}
	if signals.VPNMethods.AuxiliaryMobile {
		reason = fmt.Sprintf("Your IP address appears to be in %s, but your phone is not.",
			signals.CountryName)
	}
	return "It seems you are using a VPN. Please turn it off and use a regular local internet connection before activating regional pricing. " + reason
}
