// Package identity consumes the external device-identification API. It fetches
// a trust-scored identity record for a request token and validates it before
// any policy logic runs. Client-supplied copies of identification data are
// never trusted: the record is always re-fetched by request ID.
package identity

import "time"

// BotResult classifies the bot-detection signal.
type BotResult string

const (
	BotNotDetected BotResult = "notDetected"
	BotGood        BotResult = "good"
	BotBad         BotResult = "bad"
)

// VPNMethods names the detection methods that flagged a VPN.
type VPNMethods struct {
	PublicVPN        bool
	TimezoneMismatch bool
	AuxiliaryMobile  bool
}

// Signals carries the trust signals attached to a verified identity.
type Signals struct {
	Bot            BotResult
	VPN            bool
	VPNMethods     VPNMethods
	OriginTimezone string
	Tor            bool
	Proxy          bool
	Incognito      bool
	Tampering      bool
	IPBlocklist    bool

	// Geolocation, from IP intelligence.
	CountryCode string
	CountryName string

	IP        string
	OriginURL string
}

// VerifiedIdentity is the result of identity verification for one request.
// It is created fresh per inbound action, consumed by the rule chain, and
// discarded; only the resulting verdict is persisted.
type VerifiedIdentity struct {
	VisitorID       string
	RequestID       string
	Timestamp       time.Time
	ConfidenceScore float64

	// Visits counts identification events the verifier matched against the
	// request ID. Zero means the client forged or mangled the token.
	Visits int

	Signals Signals
}

// Age reports how long ago the identification occurred.
func (v *VerifiedIdentity) Age(now time.Time) time.Duration {
	return now.Sub(v.Timestamp)
}
