package decision

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fraudguard/internal/identity"
	dErrors "fraudguard/pkg/domain-errors"
)

// Rule is a single-responsibility check over a verified identity. Request
// metadata (origin, client IP) is read from the context. A nil verdict means
// "no opinion" and the chain continues; an error means an infrastructure
// fault and aborts the whole evaluation.
type Rule interface {
	Name() string
	Check(ctx context.Context, ident *identity.VerifiedIdentity) (*Verdict, error)
}

// Chain is an ordered list of rules evaluated with short-circuit semantics.
type Chain struct {
	name   string
	rules  []Rule
	tracer trace.Tracer
}

// NewChain constructs a named rule chain. The name labels traces and metrics.
func NewChain(name string, rules ...Rule) *Chain {
	return &Chain{
		name:   name,
		rules:  rules,
		tracer: otel.Tracer("fraudguard/decision"),
	}
}

// Evaluate runs the rules strictly in order. The first non-nil verdict wins
// and later rules never run. If every rule stays silent, the chain is
// misconfigured and an Exhausted error is returned: a chain must always end
// in a rule that produces a terminal verdict.
func (c *Chain) Evaluate(ctx context.Context, ident *identity.VerifiedIdentity) (*Verdict, error) {
	ctx, span := c.tracer.Start(ctx, "decision.Evaluate",
		trace.WithAttributes(attribute.String("chain", c.name)),
	)
	defer span.End()

	for _, rule := range c.rules {
		verdict, err := rule.Check(ctx, ident)
		if err != nil {
			span.SetAttributes(attribute.String("failed_rule", rule.Name()))
			return nil, err
		}
		if verdict != nil {
			span.SetAttributes(
				attribute.String("matched_rule", rule.Name()),
				attribute.String("outcome", string(verdict.Outcome)),
				attribute.Bool("allow", verdict.Allow),
			)
			return verdict, nil
		}
	}

	return nil, dErrors.Newf(dErrors.CodeExhausted, "rule chain %q produced no verdict", c.name)
}
