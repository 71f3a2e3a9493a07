// Package audit defines the security event model used by the verdict reporter.
// Events are transport-agnostic so stores and publishers can fan out.
package audit

import "time"

// Severity levels for security events, used for SIEM routing.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SecurityEvent captures a suspicious-activity observation tied to a visitor.
// Emission is fire-and-forget: a failed emit never fails the originating
// request.
type SecurityEvent struct {
	Timestamp time.Time `json:"timestamp"`
	VisitorID string    `json:"visitor_id"`
	Action    string    `json:"action"`  // which flow: login, sms_send, ...
	Outcome   string    `json:"outcome"` // terminal verdict outcome
	Reason    string    `json:"reason"`  // user-facing denial reason
	IP        string    `json:"ip,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Severity  Severity  `json:"severity"`
}

// Event action names emitted by the reporter.
const (
	ActionSuspiciousActivity = "suspicious_activity_reported"
	ActionRateLimited        = "rate_limit_exceeded"
	ActionLifetimeCapReached = "lifetime_cap_reached"
)
