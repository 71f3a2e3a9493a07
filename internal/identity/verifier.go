package identity

import (
	"context"
	"net/url"
	"time"

	dErrors "fraudguard/pkg/domain-errors"
	"fraudguard/pkg/requestcontext"
)

// Confidence thresholds tuned to the stakes of the protected operation.
// Account access demands near-certain identification; read-only
// personalization tolerates much weaker matches.
const (
	HighStakesConfidence = 0.98
	LowStakesConfidence  = 0.3
)

// VerifyOptions selects the content filters applied during verification.
// A zero options value fetches and authenticity-checks the record without
// filtering; flows that run their own rule chain use that mode.
type VerifyOptions struct {
	// MinConfidence rejects identities below this confidence score.
	MinConfidence float64

	// MaxAge rejects identification events older than this. Guards against
	// replayed request tokens.
	MaxAge time.Duration

	// BlockBots rejects identities with a "bad" bot signal.
	BlockBots bool

	// BlockTor rejects identities originating from the Tor network.
	BlockTor bool

	// AllowedOrigins, when set, requires both the request origin and the
	// verifier-reported origin to be on the list.
	AllowedOrigins []string

	// SealedResult is an optional client-provided sealed payload that can be
	// decoded locally instead of calling the verification API.
	SealedResult string
}

// Verifier returns a validated identity record for a request token.
type Verifier interface {
	Verify(ctx context.Context, requestID string, opts VerifyOptions) (*VerifiedIdentity, error)
}

// Fetcher retrieves the raw identity record from the verification backend.
type Fetcher interface {
	Fetch(ctx context.Context, requestID string, sealedResult string) (*VerifiedIdentity, error)
}

// Service wraps a Fetcher with filter validation. All errors carry the
// VerificationFailed code so callers deny without running any rule.
type Service struct {
	fetcher Fetcher
}

// NewService constructs a verifier backed by the given fetcher.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Verify fetches the identity record and applies the configured filters.
func (s *Service) Verify(ctx context.Context, requestID string, opts VerifyOptions) (*VerifiedIdentity, error) {
	if requestID == "" {
		return nil, dErrors.New(dErrors.CodeVerificationFailed, "Request ID is missing.")
	}

	record, err := s.fetcher.Fetch(ctx, requestID, opts.SealedResult)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeVerificationFailed, "Identity could not be verified.")
	}

	if record.VisitorID == "" || record.Visits == 0 {
		return nil, dErrors.New(dErrors.CodeVerificationFailed,
			"Identification data not found, potential spoofing detected.")
	}

	now := requestcontext.Now(ctx)
	if opts.MaxAge > 0 && record.Age(now) > opts.MaxAge {
		return nil, dErrors.New(dErrors.CodeVerificationFailed,
			"Old identification request detected, potential replay attack.")
	}

	if opts.MinConfidence > 0 && record.ConfidenceScore < opts.MinConfidence {
		return nil, dErrors.New(dErrors.CodeVerificationFailed,
			"Identification confidence score too low, potential spoofing detected.")
	}

	if opts.BlockBots && record.Signals.Bot == BotBad {
		return nil, dErrors.New(dErrors.CodeVerificationFailed,
			"Malicious bot detected, action blocked.")
	}

	if opts.BlockTor && record.Signals.Tor {
		return nil, dErrors.New(dErrors.CodeVerificationFailed,
			"Tor network detected, action blocked.")
	}

	if len(opts.AllowedOrigins) > 0 {
		if err := checkOrigins(ctx, record, opts.AllowedOrigins); err != nil {
			return nil, err
		}
	}

	return record, nil
}

func checkOrigins(ctx context.Context, record *VerifiedIdentity, allowed []string) error {
	reportedOrigin := originOf(record.Signals.OriginURL)
	requestOrigin := requestcontext.Origin(ctx)

	if !contains(allowed, reportedOrigin) || !contains(allowed, requestOrigin) {
		return dErrors.New(dErrors.CodeVerificationFailed,
			"Origin mismatch, potential phishing attempt.")
	}
	return nil
}

// originOf reduces a URL to its origin (scheme://host[:port]).
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
