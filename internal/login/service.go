// Package login implements password login hardened with device
// identification. Stolen credentials presented from an unknown or suspicious
// browser are challenged or refused even when the password is correct.
package login

import (
	"context"
	"log/slog"
	"time"

	"fraudguard/internal/attempt"
	"fraudguard/internal/decision"
	"fraudguard/internal/identity"
	"fraudguard/internal/platform/metrics"
	"fraudguard/internal/reporter"
	dErrors "fraudguard/pkg/domain-errors"
)

const (
	// velocityWindow bounds how far back failed logins count against a
	// browser.
	velocityWindow = 24 * time.Hour
	// velocityCap is the number of failed logins tolerated inside the window.
	velocityCap = 5

	sessionTTL = 30 * time.Minute
)

// Request carries one login attempt.
type Request struct {
	RequestID string `json:"requestId"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Result is the outcome of a login attempt. Token is set only when the
// attempt passed outright.
type Result struct {
	Verdict *decision.Verdict
	Token   string
}

// Service evaluates login attempts through the decision chain.
type Service struct {
	verifier       identity.Verifier
	users          UserStore
	reporter       *reporter.Reporter
	tokens         *TokenIssuer
	chain          *decision.Chain
	allowedOrigins []string
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(
	verifier identity.Verifier,
	users UserStore,
	attempts attempt.Store,
	rep *reporter.Reporter,
	tokens *TokenIssuer,
	allowedOrigins []string,
	opts ...Option,
) *Service {
	s := &Service{
		verifier:       verifier,
		users:          users,
		reporter:       rep,
		tokens:         tokens,
		allowedOrigins: allowedOrigins,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.chain = decision.NewChain("login",
		&decision.FreshnessRule{MaxAge: decision.DefaultFreshnessWindow},
		&decision.ConfidenceRule{Threshold: identity.HighStakesConfidence},
		&decision.VelocityRule{
			Store:   attempts,
			Action:  attempt.ActionLogin,
			Window:  velocityWindow,
			Cap:     velocityCap,
			Ignored: decision.DefaultVelocityIgnored,
		},
		&decision.OriginRule{Allowed: allowedOrigins},
		&credentialsRule{users: users},
	)
	return s
}

// Login verifies the device identity, runs the decision chain, records the
// attempt, and issues a session token when the attempt passed.
func (s *Service) Login(ctx context.Context, req Request) (*Result, error) {
	if req.Username == "" || req.Password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username and password are required")
	}

	ident, err := s.verifier.Verify(ctx, req.RequestID, identity.VerifyOptions{})
	if err != nil {
		return nil, err
	}

	verdict, err := s.chain.Evaluate(credentialsContext(ctx, req), ident)
	if err != nil {
		return nil, err
	}

	message, err := s.reporter.Report(ctx, attempt.ActionLogin, ident.VisitorID, verdict)
	if err != nil {
		return nil, err
	}
	verdict = verdict.WithMessage(message)
	s.metrics.ObserveVerdict(string(attempt.ActionLogin), string(verdict.Outcome))

	result := &Result{Verdict: verdict}
	if verdict.Outcome == attempt.OutcomePassed {
		if err := s.users.RememberVisitor(req.Username, ident.VisitorID); err != nil {
			s.logger.Warn("failed to remember visitor for user",
				"username", req.Username, "error", err)
		}
		token, err := s.tokens.Issue(req.Username, ident.VisitorID, time.Now(), sessionTTL)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
		}
		result.Token = token
	}
	return result, nil
}

type credentialsKey struct{}

type credentialsAttempt struct {
	username string
	password string
}

func credentialsContext(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, credentialsKey{}, credentialsAttempt{
		username: req.Username,
		password: req.Password,
	})
}

// credentialsRule is the terminal rule of the login chain. It always returns
// a verdict: a correct password from a known browser passes, a correct
// password from an unknown browser is challenged, and anything else is
// refused without revealing whether the account exists.
type credentialsRule struct {
	users UserStore
}

func (r *credentialsRule) Name() string { return "credentials" }

func (r *credentialsRule) Check(ctx context.Context, ident *identity.VerifiedIdentity) (*decision.Verdict, error) {
	creds, ok := ctx.Value(credentialsKey{}).(credentialsAttempt)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInternal, "login credentials missing from request context")
	}

	user, err := r.users.Lookup(creds.username)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to look up user")
	}
	if user == nil || !user.CheckPassword(creds.password) {
		return decision.NewVerdict(attempt.OutcomeIncorrectCredentials), nil
	}
	if !user.KnowsVisitor(ident.VisitorID) {
		return decision.NewVerdict(attempt.OutcomeChallenged), nil
	}
	return decision.NewVerdict(attempt.OutcomePassed), nil
}
