package history

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fraudguard/internal/attempt"
	"fraudguard/internal/identity"
	"fraudguard/internal/reporter"
	dErrors "fraudguard/pkg/domain-errors"
	"fraudguard/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	fetcher *identity.StaticFetcher
	store   *InMemoryStore
	service *Service
	now     time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.fetcher = identity.NewStaticFetcher()
	s.store = NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	rep, err := reporter.New(attempt.NewInMemoryStore(), logger)
	require.NoError(s.T(), err)

	s.service = New(identity.NewService(s.fetcher), s.store, rep, logger)
	s.now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) putIdentity(confidence float64) {
	s.fetcher.Put(&identity.VerifiedIdentity{
		VisitorID:       "visitor-1",
		RequestID:       "req-1",
		Timestamp:       s.now.Add(-time.Second),
		ConfidenceScore: confidence,
		Visits:          1,
	})
}

func (s *ServiceSuite) TestQueryIsRecordedAndReturned() {
	s.putIdentity(0.9)

	result, err := s.service.Search(s.ctx(), Request{RequestID: "req-1", Query: "wool socks"})
	s.Require().NoError(err)

	s.Equal(attempt.OutcomePassed, result.Verdict.Outcome)
	s.Require().Len(result.Terms, 1)
	s.Equal("wool socks", result.Terms[0].Query)
	s.Equal("visitor-1", result.Terms[0].VisitorID)
}

func (s *ServiceSuite) TestHistoryMostRecentFirst() {
	s.putIdentity(0.9)

	for i, query := range []string{"first", "second", "third"} {
		term, err := NewSearchTerm("visitor-1", query, s.now.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(err)
		s.Require().NoError(s.store.Save(context.Background(), term))
	}

	result, err := s.service.Search(s.ctx(), Request{RequestID: "req-1"})
	s.Require().NoError(err)

	s.Require().Len(result.Terms, 3)
	s.Equal("third", result.Terms[0].Query)
	s.Equal("second", result.Terms[1].Query)
	s.Equal("first", result.Terms[2].Query)
}

func (s *ServiceSuite) TestEmptyQueryJustLists() {
	s.putIdentity(0.9)

	result, err := s.service.Search(s.ctx(), Request{RequestID: "req-1"})
	s.Require().NoError(err)
	s.Empty(result.Terms)

	terms, err := s.store.ListByVisitor(context.Background(), "visitor-1")
	s.Require().NoError(err)
	s.Empty(terms, "nothing recorded without a query")
}

func (s *ServiceSuite) TestWeakMatchStillAccepted() {
	// Personalization tolerates low-confidence matches.
	s.putIdentity(0.35)

	_, err := s.service.Search(s.ctx(), Request{RequestID: "req-1", Query: "socks"})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestBelowThresholdRejected() {
	s.putIdentity(0.1)

	_, err := s.service.Search(s.ctx(), Request{RequestID: "req-1", Query: "socks"})
	s.Require().Error(err)
	s.Equal(dErrors.CodeVerificationFailed, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestVisitorsIsolated() {
	s.putIdentity(0.9)

	other, err := NewSearchTerm("visitor-2", "secret", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(context.Background(), other))

	result, err := s.service.Search(s.ctx(), Request{RequestID: "req-1"})
	s.Require().NoError(err)
	s.Empty(result.Terms)
}
