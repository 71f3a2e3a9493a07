package reporter

import "fraudguard/internal/attempt"

// Messages maps terminal outcomes to user-facing copy. The table is injected
// so presentation can change without touching policy logic. Every denial
// states its concrete reason; thresholds that would aid evasion are not
// included in the copy.
type Messages map[attempt.Outcome]string

// DefaultMessages is the stock copy for all flows.
func DefaultMessages() Messages {
	return Messages{
		attempt.OutcomePassed:               "We logged you in successfully.",
		attempt.OutcomeChallenged:           "Provided credentials are correct but we have never seen you log in from this device. Prove your identity with a second factor.",
		attempt.OutcomeIncorrectCredentials: "Incorrect credentials, try again.",
		attempt.OutcomeTooManyAttempts:      "You had too many unsuccessful attempts during the last 24 hours. This attempt was not performed.",
		attempt.OutcomeLowConfidence:        "Low identification confidence score, we would rather verify you with a second factor.",
		attempt.OutcomeRequestIDMismatch:    "Forged identification data detected, the attempt was not performed.",
		attempt.OutcomeOldTimestamp:         "Old identification request detected. The attempt was ignored and logged.",
		attempt.OutcomeForeignOrigin:        "Origin mismatch. An attacker might have tried to phish the victim.",
		attempt.OutcomeIPMismatch:           "IP mismatch. An attacker might have tried to phish the victim.",
		attempt.OutcomeBotDetected:          "Malicious bot detected, the attempt was blocked.",
		attempt.OutcomeTorNetwork:           "Tor network detected, the attempt was blocked.",
		attempt.OutcomeVPNDetected:          "VPN detected, please use a regular local internet connection.",
		attempt.OutcomeIncorrectCode:        "Incorrect verification code, please try again.",
		attempt.OutcomeLocationUnknown:      "Location could not be determined, please try a different browser or internet connection.",
	}
}

// Resolve returns the copy for an outcome, falling back to a generic denial.
func (m Messages) Resolve(outcome attempt.Outcome) string {
	if msg, ok := m[outcome]; ok {
		return msg
	}
	return "The action was not permitted."
}
