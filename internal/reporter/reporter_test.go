package reporter

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fraudguard/internal/attempt"
	"fraudguard/internal/decision"
	"fraudguard/pkg/platform/audit"
	"fraudguard/pkg/requestcontext"
)

type ReporterSuite struct {
	suite.Suite
	store     *attempt.InMemoryStore
	publisher *audit.InMemoryPublisher
	reporter  *Reporter
	now       time.Time
}

func (s *ReporterSuite) SetupTest() {
	s.store = attempt.NewInMemoryStore()
	s.publisher = audit.NewInMemoryPublisher()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	rep, err := New(s.store, logger, WithPublisher(s.publisher))
	require.NoError(s.T(), err)
	s.reporter = rep

	s.now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func TestReporterSuite(t *testing.T) {
	suite.Run(t, new(ReporterSuite))
}

func (s *ReporterSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func (s *ReporterSuite) TestAllowedVerdictRecordsWithoutEvent() {
	verdict := decision.NewVerdict(attempt.OutcomePassed)

	message, err := s.reporter.Report(s.ctx(), attempt.ActionLogin, "visitor-1", verdict)
	s.Require().NoError(err)
	s.NotEmpty(message)

	record, err := s.store.MostRecent(s.ctx(), "visitor-1", attempt.ActionLogin, nil)
	s.Require().NoError(err)
	s.Require().NotNil(record)
	s.Equal(attempt.OutcomePassed, record.Outcome)
	s.Equal(s.now, record.Timestamp)

	s.Empty(s.publisher.Events(), "allowed verdicts stay off the side channel")
}

func (s *ReporterSuite) TestDeniedVerdictEmitsEvent() {
	verdict := decision.NewVerdict(attempt.OutcomeIncorrectCredentials)

	message, err := s.reporter.Report(s.ctx(), attempt.ActionLogin, "visitor-1", verdict)
	s.Require().NoError(err)
	s.Equal("Incorrect credentials, try again.", message)

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal("visitor-1", events[0].VisitorID)
	s.Equal(string(attempt.ActionLogin), events[0].Action)
	s.Equal(string(attempt.OutcomeIncorrectCredentials), events[0].Outcome)
	s.Equal(audit.SeverityWarning, events[0].Severity)
}

func (s *ReporterSuite) TestRateLimitEventIsCritical() {
	verdict := decision.NewVerdict(attempt.OutcomeTooManyAttempts)

	_, err := s.reporter.Report(s.ctx(), attempt.ActionSMSSend, "visitor-1", verdict)
	s.Require().NoError(err)

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.SeverityCritical, events[0].Severity)
}

func (s *ReporterSuite) TestCustomMessageWins() {
	verdict := decision.NewVerdict(attempt.OutcomeTooManyAttempts).
		WithMessage("Please wait 25 seconds to send another one.")

	message, err := s.reporter.Report(s.ctx(), attempt.ActionSMSSend, "visitor-1", verdict)
	s.Require().NoError(err)
	s.Equal("Please wait 25 seconds to send another one.", message)
}

func (s *ReporterSuite) TestReportWithRecordCustomizesFields() {
	verdict := decision.NewVerdict(attempt.OutcomePassed)

	_, err := s.reporter.ReportWithRecord(s.ctx(), attempt.ActionSMSSend, "visitor-1", verdict,
		func(record *attempt.Record) {
			record.ContactHash = "abc123"
			record.Meta = "654321"
		})
	s.Require().NoError(err)

	record, err := s.store.MostRecent(s.ctx(), "visitor-1", attempt.ActionSMSSend, nil)
	s.Require().NoError(err)
	s.Equal("abc123", record.ContactHash)
	s.Equal("654321", record.Meta)
}

func (s *ReporterSuite) TestExactlyOneRecordPerReport() {
	verdict := decision.NewVerdict(attempt.OutcomeIncorrectCredentials)

	_, err := s.reporter.Report(s.ctx(), attempt.ActionLogin, "visitor-1", verdict)
	s.Require().NoError(err)

	count, err := s.store.CountSince(s.ctx(), "visitor-1", attempt.ActionLogin, s.now.Add(-time.Hour), nil)
	s.Require().NoError(err)
	s.Equal(1, count)
}
