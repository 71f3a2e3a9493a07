package decision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudguard/internal/attempt"
	"fraudguard/internal/identity"
	dErrors "fraudguard/pkg/domain-errors"
)

// stubRule records whether it ran and returns a canned result.
type stubRule struct {
	name    string
	verdict *Verdict
	err     error
	calls   int
}

func (r *stubRule) Name() string { return r.name }

func (r *stubRule) Check(_ context.Context, _ *identity.VerifiedIdentity) (*Verdict, error) {
	r.calls++
	return r.verdict, r.err
}

func TestChainFirstVerdictWins(t *testing.T) {
	silent := &stubRule{name: "silent"}
	deny := &stubRule{name: "deny", verdict: NewVerdict(attempt.OutcomeBotDetected)}
	never := &stubRule{name: "never", verdict: NewVerdict(attempt.OutcomePassed)}

	chain := NewChain("test", silent, deny, never)
	verdict, err := chain.Evaluate(context.Background(), &identity.VerifiedIdentity{})
	require.NoError(t, err)

	assert.Equal(t, attempt.OutcomeBotDetected, verdict.Outcome)
	assert.Equal(t, 1, silent.calls)
	assert.Equal(t, 1, deny.calls)
	assert.Equal(t, 0, never.calls, "rules after the first verdict must not run")
}

func TestChainErrorAborts(t *testing.T) {
	boom := &stubRule{name: "boom", err: dErrors.New(dErrors.CodeStorage, "store down")}
	after := &stubRule{name: "after", verdict: NewVerdict(attempt.OutcomePassed)}

	chain := NewChain("test", boom, after)
	verdict, err := chain.Evaluate(context.Background(), &identity.VerifiedIdentity{})

	require.Error(t, err)
	assert.Nil(t, verdict)
	assert.Equal(t, dErrors.CodeStorage, dErrors.CodeOf(err))
	assert.Equal(t, 0, after.calls)
}

func TestChainExhausted(t *testing.T) {
	chain := NewChain("test", &stubRule{name: "a"}, &stubRule{name: "b"})
	verdict, err := chain.Evaluate(context.Background(), &identity.VerifiedIdentity{})

	require.Error(t, err)
	assert.Nil(t, verdict)
	assert.Equal(t, dErrors.CodeExhausted, dErrors.CodeOf(err))
}

func TestVerdictDerivation(t *testing.T) {
	passed := NewVerdict(attempt.OutcomePassed)
	assert.True(t, passed.Allow)
	assert.Equal(t, "success", string(passed.Severity))

	challenged := NewVerdict(attempt.OutcomeChallenged)
	assert.True(t, challenged.Allow)
	assert.Equal(t, "warning", string(challenged.Severity))

	denied := NewVerdict(attempt.OutcomeTooManyAttempts)
	assert.False(t, denied.Allow)
	assert.Equal(t, "error", string(denied.Severity))
}
