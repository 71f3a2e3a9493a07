package audit

import "context"

// Publisher emits security events to an external sink.
type Publisher interface {
	Emit(ctx context.Context, event SecurityEvent) error
	Close()
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, SecurityEvent) error { return nil }
func (NopPublisher) Close()                                    {}
