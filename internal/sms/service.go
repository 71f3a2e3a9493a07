// Package sms implements phone verification guarded against SMS pumping:
// per-visitor cooldowns, a daily cap, and a non-resettable limit on real
// messages sent.
package sms

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"

	"fraudguard/internal/attempt"
	"fraudguard/internal/cooldown"
	"fraudguard/internal/decision"
	"fraudguard/internal/identity"
	"fraudguard/internal/platform/metrics"
	"fraudguard/internal/reporter"
	dErrors "fraudguard/pkg/domain-errors"
)

const (
	// TestPhoneNumber bypasses real dispatch and the lifetime cap so the demo
	// stays explorable after the limit is reached.
	TestPhoneNumber = "+1234567890"

	// DefaultLifetimeSendCap bounds real messages per visitor, forever.
	DefaultLifetimeSendCap = 5
)

// SendRequest carries one verification-code request.
type SendRequest struct {
	RequestID           string `json:"requestId"`
	PhoneNumber         string `json:"phoneNumber"`
	Email               string `json:"email"`
	DisableBotDetection bool   `json:"disableBotDetection,omitempty"`
}

// SubmitRequest carries one code-verification attempt.
type SubmitRequest struct {
	RequestID   string `json:"requestId"`
	PhoneNumber string `json:"phoneNumber"`
	Code        int    `json:"code"`
}

// Result is the outcome of a send or submit call.
type Result struct {
	Verdict           *decision.Verdict
	RemainingAttempts int

	// Code echoes the generated verification code so the demo UI can display
	// it for the test phone number. Zero when not applicable.
	Code int
}

// Service runs the SMS verification flows.
type Service struct {
	verifier       identity.Verifier
	cooldowns      *cooldown.Service
	lifetime       cooldown.LifetimeCounter
	sender         Sender
	reporter       *reporter.Reporter
	allowedOrigins []string
	lifetimeCap    int64
	demoMode       bool
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLifetimeCap overrides the default real-send cap.
func WithLifetimeCap(limit int64) Option {
	return func(s *Service) { s.lifetimeCap = limit }
}

// WithDemoMode allows callers to switch off bot detection per request.
func WithDemoMode(enabled bool) Option {
	return func(s *Service) { s.demoMode = enabled }
}

func New(
	verifier identity.Verifier,
	cooldowns *cooldown.Service,
	lifetime cooldown.LifetimeCounter,
	sender Sender,
	rep *reporter.Reporter,
	allowedOrigins []string,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		verifier:       verifier,
		cooldowns:      cooldowns,
		lifetime:       lifetime,
		sender:         sender,
		reporter:       rep,
		allowedOrigins: allowedOrigins,
		lifetimeCap:    DefaultLifetimeSendCap,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send verifies the device, applies the cooldown schedule and the lifetime
// cap, then generates and dispatches a six-digit code.
func (s *Service) Send(ctx context.Context, req SendRequest) (*Result, error) {
	if req.PhoneNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "phone number is required")
	}

	blockBots := true
	if req.DisableBotDetection && s.demoMode {
		blockBots = false
	}
	ident, err := s.verifier.Verify(ctx, req.RequestID, identity.VerifyOptions{
		MaxAge:         decision.DefaultFreshnessWindow,
		BlockBots:      blockBots,
		BlockTor:       true,
		AllowedOrigins: s.allowedOrigins,
	})
	if err != nil {
		return nil, err
	}

	status, err := s.cooldowns.Check(ctx, ident.VisitorID, attempt.ActionSMSSend)
	if err != nil {
		return nil, err
	}
	if !status.Allowed {
		s.metrics.ObserveCooldownDenial(string(attempt.ActionSMSSend))
		verdict := decision.NewVerdict(attempt.OutcomeTooManyAttempts).
			WithMessage(cooldownMessage(status, s.cooldowns.Schedule().DailyCap))
		if _, err := s.report(ctx, attempt.ActionSMSSend, ident.VisitorID, verdict, req.PhoneNumber, ""); err != nil {
			return nil, err
		}
		return &Result{Verdict: verdict, RemainingAttempts: status.AttemptsRemaining}, nil
	}

	if req.PhoneNumber != TestPhoneNumber {
		sent, err := s.lifetime.Count(ctx, ident.VisitorID)
		if err != nil {
			return nil, err
		}
		if sent >= s.lifetimeCap {
			if s.metrics != nil {
				s.metrics.LifetimeCapHits.Inc()
			}
			verdict := decision.NewVerdict(attempt.OutcomeTooManyAttempts).
				WithMessage(lifetimeCapMessage(s.lifetimeCap))
			if _, err := s.report(ctx, attempt.ActionSMSSend, ident.VisitorID, verdict, req.PhoneNumber, ""); err != nil {
				return nil, err
			}
			return &Result{Verdict: verdict, RemainingAttempts: status.AttemptsRemaining}, nil
		}
	}

	code, err := randomSixDigitCode()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate verification code")
	}
	body := fmt.Sprintf("Your verification code is %d.", code)

	if req.PhoneNumber == TestPhoneNumber {
		s.logger.Info("test phone number detected, simulated message sent", "body", body)
	} else {
		if err := s.sender.Send(ctx, req.PhoneNumber, body); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal,
				"An error occurred while sending the verification SMS message.")
		}
		if _, err := s.lifetime.Increment(ctx, ident.VisitorID); err != nil {
			// The message already went out; a miscount must not fail the send.
			s.logger.Error("failed to increment lifetime send counter",
				"visitorId", ident.VisitorID, "error", err)
		}
		if s.metrics != nil {
			s.metrics.SMSSent.Inc()
		}
	}

	verdict := decision.NewVerdict(attempt.OutcomePassed).
		WithMessage(sentMessage(req.PhoneNumber, status.AttemptsRemaining))
	if _, err := s.report(ctx, attempt.ActionSMSSend, ident.VisitorID, verdict, req.PhoneNumber, strconv.Itoa(code)); err != nil {
		return nil, err
	}
	s.metrics.ObserveVerdict(string(attempt.ActionSMSSend), string(verdict.Outcome))

	return &Result{Verdict: verdict, RemainingAttempts: status.AttemptsRemaining, Code: code}, nil
}

// SubmitCode compares the submitted code against the most recently sent one.
func (s *Service) SubmitCode(ctx context.Context, req SubmitRequest) (*Result, error) {
	ident, err := s.verifier.Verify(ctx, req.RequestID, identity.VerifyOptions{
		MaxAge:         decision.DefaultFreshnessWindow,
		AllowedOrigins: s.allowedOrigins,
	})
	if err != nil {
		return nil, err
	}

	lastSent, err := s.lastSentCode(ctx, ident.VisitorID)
	if err != nil {
		return nil, err
	}

	var verdict *decision.Verdict
	if lastSent != "" && lastSent == strconv.Itoa(req.Code) {
		verdict = decision.NewVerdict(attempt.OutcomePassed).
			WithMessage("The code is correct, welcome back!")
	} else {
		verdict = decision.NewVerdict(attempt.OutcomeIncorrectCode)
	}

	if _, err := s.report(ctx, attempt.ActionCodeSubmit, ident.VisitorID, verdict, req.PhoneNumber, ""); err != nil {
		return nil, err
	}
	s.metrics.ObserveVerdict(string(attempt.ActionCodeSubmit), string(verdict.Outcome))

	return &Result{Verdict: verdict}, nil
}

// lastSentCode reads the code attached to the visitor's latest successful
// send. Empty when the visitor never completed a send.
func (s *Service) lastSentCode(ctx context.Context, visitorID string) (string, error) {
	record, err := s.reporter.Store().MostRecent(ctx, visitorID, attempt.ActionSMSSend,
		[]attempt.Outcome{attempt.OutcomeTooManyAttempts})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeStorage, "failed to load most recent SMS send")
	}
	if record == nil {
		return "", nil
	}
	return record.Meta, nil
}

func (s *Service) report(ctx context.Context, action attempt.Action, visitorID string, verdict *decision.Verdict, phone, code string) (string, error) {
	return s.reporter.ReportWithRecord(ctx, action, visitorID, verdict, func(record *attempt.Record) {
		record.ContactHash = hashContact(phone)
		record.Meta = code
	})
}

func cooldownMessage(status *cooldown.Status, dailyCap int) string {
	if status.AttemptsUsedToday >= dailyCap {
		return fmt.Sprintf(
			"You have sent %d verification codes today, no more are allowed. Try again tomorrow.",
			status.AttemptsUsedToday)
	}
	return fmt.Sprintf(
		"You have sent %d verification codes today. Max allowed is %d. Please wait %s to send another one.",
		status.AttemptsUsedToday, dailyCap, cooldown.Readable(status.WaitRequired))
}

func lifetimeCapMessage(limit int64) string {
	return fmt.Sprintf(
		"You hit the hard limit of %d real SMS messages per visitor. This cannot be reset. Please use the simulated phone number %s to continue exploring.",
		limit, TestPhoneNumber)
}

func sentMessage(phone string, remaining int) string {
	suffix := "messages"
	if remaining == 1 {
		suffix = "message"
	}
	return fmt.Sprintf("We sent a verification code to %s. You can send %d more %s today.",
		phone, remaining, suffix)
}

func randomSixDigitCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 100000, nil
}

// hashContact stores phone numbers as a digest, never in the clear.
func hashContact(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
