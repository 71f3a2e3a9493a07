package pricing

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fraudguard/internal/attempt"
	"fraudguard/internal/identity"
	"fraudguard/internal/reporter"
	"fraudguard/pkg/platform/audit"
	"fraudguard/pkg/requestcontext"
)

const testOrigin = "https://example.com"

func TestRegionalDiscount(t *testing.T) {
	assert.Equal(t, 0.0, RegionalDiscount("US"))
	assert.Equal(t, 74.0, RegionalDiscount("IN"))
	assert.Equal(t, 19.0, RegionalDiscount("DE"))

	// Unlisted countries use the default coefficient.
	assert.InDelta(t, 20.0, RegionalDiscount("XX"), 0.0001)
}

type ServiceSuite struct {
	suite.Suite
	fetcher   *identity.StaticFetcher
	store     *attempt.InMemoryStore
	publisher *audit.InMemoryPublisher
	service   *Service
	now       time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.fetcher = identity.NewStaticFetcher()
	s.store = attempt.NewInMemoryStore()
	s.publisher = audit.NewInMemoryPublisher()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	rep, err := reporter.New(s.store, logger, reporter.WithPublisher(s.publisher))
	require.NoError(s.T(), err)

	s.service = New(identity.NewService(s.fetcher), rep, []string{testOrigin}, logger)
	s.now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) ctx() context.Context {
	ctx := requestcontext.WithTime(context.Background(), s.now)
	return requestcontext.WithOrigin(ctx, testOrigin)
}

func (s *ServiceSuite) putIdentity(mutate ...func(*identity.VerifiedIdentity)) {
	record := &identity.VerifiedIdentity{
		VisitorID:       "visitor-1",
		RequestID:       "req-1",
		Timestamp:       s.now.Add(-time.Second),
		ConfidenceScore: 0.99,
		Visits:          1,
		Signals: identity.Signals{
			OriginURL:   testOrigin + "/pricing",
			CountryCode: "IN",
			CountryName: "India",
		},
	}
	for _, m := range mutate {
		m(record)
	}
	s.fetcher.Put(record)
}

func (s *ServiceSuite) activate() (*Result, error) {
	return s.service.Activate(s.ctx(), Request{RequestID: "req-1"})
}

func (s *ServiceSuite) TestDiscountGranted() {
	s.putIdentity()

	result, err := s.activate()
	s.Require().NoError(err)

	s.Equal(attempt.OutcomePassed, result.Verdict.Outcome)
	s.Equal(74.0, result.Discount)
	s.Contains(result.Verdict.Message, "74%")
	s.Contains(result.Verdict.Message, "India")
}

func (s *ServiceSuite) TestUnknownLocationDenied() {
	s.putIdentity(func(r *identity.VerifiedIdentity) {
		r.Signals.CountryCode = ""
		r.Signals.CountryName = ""
	})

	result, err := s.activate()
	s.Require().NoError(err)

	s.Equal(attempt.OutcomeLocationUnknown, result.Verdict.Outcome)
	s.False(result.Verdict.Allow)
	s.Zero(result.Discount)
}

func (s *ServiceSuite) TestPublicVPNDenied() {
	s.putIdentity(func(r *identity.VerifiedIdentity) {
		r.Signals.VPN = true
		r.Signals.VPNMethods.PublicVPN = true
	})

	result, err := s.activate()
	s.Require().NoError(err)

	s.Equal(attempt.OutcomeVPNDetected, result.Verdict.Outcome)
	s.Contains(result.Verdict.Message, "known VPN IP address")
	s.Contains(result.Verdict.Message, "India")
}

func (s *ServiceSuite) TestTimezoneMismatchNamesTimezone() {
	s.putIdentity(func(r *identity.VerifiedIdentity) {
		r.Signals.VPN = true
		r.Signals.VPNMethods.TimezoneMismatch = true
		r.Signals.OriginTimezone = "Europe/Berlin"
	})

	result, err := s.activate()
	s.Require().NoError(err)

	s.Equal(attempt.OutcomeVPNDetected, result.Verdict.Outcome)
	s.Contains(result.Verdict.Message, "Europe/Berlin")
}

func (s *ServiceSuite) TestAuxiliaryMobileDenied() {
	s.putIdentity(func(r *identity.VerifiedIdentity) {
		r.Signals.VPN = true
		r.Signals.VPNMethods.AuxiliaryMobile = true
	})

	result, err := s.activate()
	s.Require().NoError(err)

	s.Equal(attempt.OutcomeVPNDetected, result.Verdict.Outcome)
	s.Contains(result.Verdict.Message, "your phone is not")
}

func (s *ServiceSuite) TestVPNDenialEmitsEvent() {
	s.putIdentity(func(r *identity.VerifiedIdentity) {
		r.Signals.VPN = true
		r.Signals.VPNMethods.PublicVPN = true
	})

	_, err := s.activate()
	s.Require().NoError(err)

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal(string(attempt.OutcomeVPNDetected), events[0].Outcome)
}
