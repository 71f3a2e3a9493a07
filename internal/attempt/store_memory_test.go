package attempt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, store *InMemoryStore, visitorID string, action Action, outcome Outcome, at time.Time) *Record {
	t.Helper()
	record, err := NewRecord(visitorID, action, outcome, at)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), record))
	return record
}

func TestNewRecordValidation(t *testing.T) {
	now := time.Now()

	_, err := NewRecord("", ActionLogin, OutcomePassed, now)
	assert.Error(t, err)

	_, err = NewRecord("v1", "", OutcomePassed, now)
	assert.Error(t, err)

	_, err = NewRecord("v1", ActionLogin, "", now)
	assert.Error(t, err)

	record, err := NewRecord("v1", ActionLogin, OutcomePassed, now)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, now, record.Timestamp)
}

func TestCountSinceFiltersWindowAndOutcome(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now()

	mustRecord(t, store, "v1", ActionLogin, OutcomeIncorrectCredentials, now.Add(-2*time.Hour))
	mustRecord(t, store, "v1", ActionLogin, OutcomeIncorrectCredentials, now.Add(-30*time.Minute))
	mustRecord(t, store, "v1", ActionLogin, OutcomePassed, now.Add(-10*time.Minute))
	mustRecord(t, store, "v1", ActionSMSSend, OutcomePassed, now.Add(-5*time.Minute))
	mustRecord(t, store, "v2", ActionLogin, OutcomeIncorrectCredentials, now.Add(-5*time.Minute))

	count, err := store.CountSince(ctx, "v1", ActionLogin, now.Add(-time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "window excludes the two-hour-old record")

	count, err = store.CountSince(ctx, "v1", ActionLogin, now.Add(-time.Hour), []Outcome{OutcomePassed})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "excluded outcomes are skipped")

	count, err = store.CountSince(ctx, "v3", ActionLogin, now.Add(-time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "unknown visitor counts zero")
}

func TestMostRecent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now()

	latest, err := store.MostRecent(ctx, "v1", ActionSMSSend, nil)
	require.NoError(t, err)
	assert.Nil(t, latest, "no records yet")

	mustRecord(t, store, "v1", ActionSMSSend, OutcomePassed, now.Add(-time.Hour))
	want := mustRecord(t, store, "v1", ActionSMSSend, OutcomePassed, now.Add(-time.Minute))
	mustRecord(t, store, "v1", ActionSMSSend, OutcomeTooManyAttempts, now.Add(-time.Second))

	latest, err = store.MostRecent(ctx, "v1", ActionSMSSend, []Outcome{OutcomeTooManyAttempts})
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, want.ID, latest.ID, "excluded outcome is skipped over")

	latest, err = store.MostRecent(ctx, "v1", ActionSMSSend, nil)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, OutcomeTooManyAttempts, latest.Outcome)
}

func TestRecordCopiesInAndOut(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now()

	original := mustRecord(t, store, "v1", ActionSMSSend, OutcomePassed, now)

	// Mutating the caller's copy must not change what is stored.
	original.Meta = "changed"

	latest, err := store.MostRecent(ctx, "v1", ActionSMSSend, nil)
	require.NoError(t, err)
	assert.Empty(t, latest.Meta)

	// Mutating what we read back must not change the store either.
	latest.Outcome = OutcomeTooManyAttempts
	again, err := store.MostRecent(ctx, "v1", ActionSMSSend, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomePassed, again.Outcome)
}

func TestOutcomeAllowed(t *testing.T) {
	assert.True(t, OutcomePassed.Allowed())
	assert.True(t, OutcomeChallenged.Allowed())
	assert.False(t, OutcomeTooManyAttempts.Allowed())
	assert.False(t, OutcomeIncorrectCredentials.Allowed())
	assert.False(t, OutcomeBotDetected.Allowed())
}
