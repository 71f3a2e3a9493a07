// Package decision evaluates ordered rule chains against verified identities.
// Each rule either has no opinion or produces a terminal verdict; the first
// verdict wins and evaluation stops. Policy denials are data (a Verdict), not
// errors; only infrastructure faults surface as errors.
package decision

import (
	"fraudguard/internal/attempt"
	"fraudguard/pkg/platform/httputil"
)

// Verdict is the terminal decision for one evaluation.
type Verdict struct {
	Outcome  attempt.Outcome
	Severity httputil.Severity

	// Message is the user-facing reason. Rules may leave it empty, in which
	// case the reporter resolves it from the message template table.
	Message string

	// Allow is true only for explicitly whitelisted outcomes.
	Allow bool
}

// NewVerdict builds a verdict with severity and allow derived from the outcome.
func NewVerdict(outcome attempt.Outcome) *Verdict {
	return &Verdict{
		Outcome:  outcome,
		Severity: severityOf(outcome),
		Allow:    outcome.Allowed(),
	}
}

// WithMessage overrides the templated message, for rules whose reason depends
// on runtime data.
func (v *Verdict) WithMessage(message string) *Verdict {
	v.Message = message
	return v
}

func severityOf(outcome attempt.Outcome) httputil.Severity {
	switch outcome {
	case attempt.OutcomePassed:
		return httputil.SeveritySuccess
	case attempt.OutcomeChallenged:
		return httputil.SeverityWarning
	default:
		return httputil.SeverityError
	}
}
