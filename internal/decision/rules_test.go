package decision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudguard/internal/attempt"
	"fraudguard/internal/identity"
	dErrors "fraudguard/pkg/domain-errors"
	"fraudguard/pkg/requestcontext"
)

func freshIdentity(now time.Time) *identity.VerifiedIdentity {
	return &identity.VerifiedIdentity{
		VisitorID:       "visitor-1",
		RequestID:       "req-1",
		Timestamp:       now.Add(-time.Second),
		ConfidenceScore: 1,
		Visits:          1,
	}
}

func ctxAt(now time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), now)
}

func TestFreshnessRule(t *testing.T) {
	now := time.Now()
	rule := FreshnessRule{}

	verdict, err := rule.Check(ctxAt(now), freshIdentity(now))
	require.NoError(t, err)
	assert.Nil(t, verdict, "fresh identity passes through")

	forged := freshIdentity(now)
	forged.Visits = 0
	verdict, err = rule.Check(ctxAt(now), forged)
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeRequestIDMismatch, verdict.Outcome)

	stale := freshIdentity(now)
	stale.Timestamp = now.Add(-10 * time.Second)
	verdict, err = rule.Check(ctxAt(now), stale)
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeOldTimestamp, verdict.Outcome)
}

func TestConfidenceRule(t *testing.T) {
	now := time.Now()
	rule := ConfidenceRule{Threshold: identity.HighStakesConfidence}

	confident := freshIdentity(now)
	confident.ConfidenceScore = 0.99
	verdict, err := rule.Check(context.Background(), confident)
	require.NoError(t, err)
	assert.Nil(t, verdict)

	weak := freshIdentity(now)
	weak.ConfidenceScore = 0.5
	verdict, err = rule.Check(context.Background(), weak)
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeLowConfidence, verdict.Outcome)
}

func TestVelocityRule(t *testing.T) {
	now := time.Now()
	ctx := ctxAt(now)
	store := attempt.NewInMemoryStore()
	rule := VelocityRule{
		Store:   store,
		Action:  attempt.ActionLogin,
		Window:  24 * time.Hour,
		Cap:     5,
		Ignored: DefaultVelocityIgnored,
	}

	addRecord := func(outcome attempt.Outcome, at time.Time) {
		record, err := attempt.NewRecord("visitor-1", attempt.ActionLogin, outcome, at)
		require.NoError(t, err)
		require.NoError(t, store.Record(ctx, record))
	}

	// Five failures stay at the cap.
	for i := 0; i < 5; i++ {
		addRecord(attempt.OutcomeIncorrectCredentials, now.Add(-time.Duration(i+1)*time.Minute))
	}
	verdict, err := rule.Check(ctx, freshIdentity(now))
	require.NoError(t, err)
	assert.Nil(t, verdict)

	// Ignored outcomes never push a visitor over.
	addRecord(attempt.OutcomePassed, now.Add(-10*time.Minute))
	addRecord(attempt.OutcomeChallenged, now.Add(-11*time.Minute))
	addRecord(attempt.OutcomeTooManyAttempts, now.Add(-12*time.Minute))
	verdict, err = rule.Check(ctx, freshIdentity(now))
	require.NoError(t, err)
	assert.Nil(t, verdict)

	// A sixth failure crosses it.
	addRecord(attempt.OutcomeIncorrectCredentials, now.Add(-13*time.Minute))
	verdict, err = rule.Check(ctx, freshIdentity(now))
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeTooManyAttempts, verdict.Outcome)

	// Failures outside the window do not count.
	fresh := attempt.NewInMemoryStore()
	rule.Store = fresh
	for i := 0; i < 10; i++ {
		record, err := attempt.NewRecord("visitor-1", attempt.ActionLogin,
			attempt.OutcomeIncorrectCredentials, now.Add(-25*time.Hour))
		require.NoError(t, err)
		require.NoError(t, fresh.Record(ctx, record))
	}
	verdict, err = rule.Check(ctx, freshIdentity(now))
	require.NoError(t, err)
	assert.Nil(t, verdict)
}

// failingStore simulates a backend outage.
type failingStore struct{}

func (failingStore) Record(context.Context, *attempt.Record) error { return errors.New("down") }
func (failingStore) CountSince(context.Context, string, attempt.Action, time.Time, []attempt.Outcome) (int, error) {
	return 0, errors.New("down")
}
func (failingStore) MostRecent(context.Context, string, attempt.Action, []attempt.Outcome) (*attempt.Record, error) {
	return nil, errors.New("down")
}

func TestVelocityRuleFailsClosed(t *testing.T) {
	now := time.Now()
	rule := VelocityRule{Store: failingStore{}, Action: attempt.ActionLogin, Window: time.Hour, Cap: 5}

	verdict, err := rule.Check(ctxAt(now), freshIdentity(now))
	require.Error(t, err)
	assert.Nil(t, verdict)
	assert.Equal(t, dErrors.CodeStorage, dErrors.CodeOf(err))
}

func TestOriginRule(t *testing.T) {
	now := time.Now()
	rule := OriginRule{Allowed: []string{"https://example.com"}}

	ident := freshIdentity(now)
	ident.Signals.OriginURL = "https://example.com/login"

	ctx := requestcontext.WithOrigin(context.Background(), "https://example.com")
	verdict, err := rule.Check(ctx, ident)
	require.NoError(t, err)
	assert.Nil(t, verdict)

	// Declared origin off the list.
	ctx = requestcontext.WithOrigin(context.Background(), "https://phish.example")
	verdict, err = rule.Check(ctx, ident)
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeForeignOrigin, verdict.Outcome)

	// Reported origin off the list, declared one fine.
	ident.Signals.OriginURL = "https://phish.example/login"
	ctx = requestcontext.WithOrigin(context.Background(), "https://example.com")
	verdict, err = rule.Check(ctx, ident)
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeForeignOrigin, verdict.Outcome)
}

func TestIPIntegrityRule(t *testing.T) {
	now := time.Now()
	rule := IPIntegrityRule{}

	ident := freshIdentity(now)
	ident.Signals.IP = "203.0.113.5"

	ctx := requestcontext.WithClientIP(context.Background(), "203.0.113.5")
	verdict, err := rule.Check(ctx, ident)
	require.NoError(t, err)
	assert.Nil(t, verdict)

	ctx = requestcontext.WithClientIP(context.Background(), "198.51.100.7")
	verdict, err = rule.Check(ctx, ident)
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeIPMismatch, verdict.Outcome)
}

func TestSignalRule(t *testing.T) {
	now := time.Now()

	bot := freshIdentity(now)
	bot.Signals.Bot = identity.BotBad

	verdict, err := SignalRule{BlockBots: true}.Check(context.Background(), bot)
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeBotDetected, verdict.Outcome)

	// Override lets the bot through.
	verdict, err = SignalRule{BlockBots: false}.Check(context.Background(), bot)
	require.NoError(t, err)
	assert.Nil(t, verdict)

	tor := freshIdentity(now)
	tor.Signals.Tor = true
	verdict, err = SignalRule{BlockTor: true}.Check(context.Background(), tor)
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeTorNetwork, verdict.Outcome)

	vpn := freshIdentity(now)
	vpn.Signals.VPN = true
	verdict, err = SignalRule{BlockVPN: true}.Check(context.Background(), vpn)
	require.NoError(t, err)
	require.NotNil(t, verdict)
	assert.Equal(t, attempt.OutcomeVPNDetected, verdict.Outcome)
}
