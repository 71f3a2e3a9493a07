// Package attempt persists the history of evaluated actions per visitor.
// Records are append-only; the only read operations are time-windowed,
// outcome-filtered counts and most-recent lookups, which is all the policy
// layer needs.
package attempt

import (
	"time"

	"github.com/google/uuid"

	dErrors "fraudguard/pkg/domain-errors"
)

// Action identifies the protected flow an attempt belongs to.
type Action string

const (
	ActionLogin      Action = "login"
	ActionSMSSend    Action = "sms_send"
	ActionCodeSubmit Action = "sms_code_submit"
	ActionPricing    Action = "pricing_activation"
	ActionSearch     Action = "search_history"
)

// Outcome is the terminal result of one evaluation. Values form a closed
// enumeration per flow; counting queries include or exclude specific outcomes
// by policy.
type Outcome string

const (
	OutcomePassed               Outcome = "Passed"
	OutcomeChallenged           Outcome = "Challenged"
	OutcomeIncorrectCredentials Outcome = "IncorrectCredentials"
	OutcomeTooManyAttempts      Outcome = "TooManyAttempts"
	OutcomeLowConfidence        Outcome = "LowConfidenceScore"
	OutcomeRequestIDMismatch    Outcome = "RequestIdMismatch"
	OutcomeOldTimestamp         Outcome = "OldTimestamp"
	OutcomeForeignOrigin        Outcome = "ForeignOrigin"
	OutcomeIPMismatch           Outcome = "IpMismatch"
	OutcomeBotDetected          Outcome = "BotDetected"
	OutcomeTorNetwork           Outcome = "TorNetwork"
	OutcomeVPNDetected          Outcome = "VpnDetected"
	OutcomeIncorrectCode        Outcome = "IncorrectCode"
	OutcomeLocationUnknown      Outcome = "LocationUnknown"
)

// Allowed reports whether the outcome permits the action to proceed.
// Only Passed and Challenged are whitelisted; every other terminal outcome
// denies and triggers suspicious-activity reporting.
func (o Outcome) Allowed() bool {
	return o == OutcomePassed || o == OutcomeChallenged
}

// Record is one historical action attempt tied to an identity.
// Immutable once written.
type Record struct {
	ID        string
	VisitorID string
	Action    Action
	Outcome   Outcome
	Timestamp time.Time

	// ContactHash is a privacy-preserving hash of a phone number or email.
	// The raw contact value is never stored.
	ContactHash string

	// Meta carries flow-specific payload, e.g. the SMS verification code.
	Meta string
}

// NewRecord creates an attempt record with invariant validation.
func NewRecord(visitorID string, action Action, outcome Outcome, at time.Time) (*Record, error) {
	if visitorID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "visitor ID cannot be empty")
	}
	if action == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "action cannot be empty")
	}
	if outcome == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "outcome cannot be empty")
	}
	return &Record{
		ID:        uuid.NewString(),
		VisitorID: visitorID,
		Action:    action,
		Outcome:   outcome,
		Timestamp: at,
	}, nil
}
