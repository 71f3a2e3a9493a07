package sms

import (
	"context"
	"log/slog"
)

// Sender dispatches one SMS message.
type Sender interface {
	Send(ctx context.Context, phone, body string) error
}

// SimulatedSender logs the message instead of dispatching it. Used when no
// SMS provider is configured and for the test phone number.
type SimulatedSender struct {
	logger *slog.Logger
}

func NewSimulatedSender(logger *slog.Logger) *SimulatedSender {
	return &SimulatedSender{logger: logger}
}

func (s *SimulatedSender) Send(_ context.Context, phone, body string) error {
	s.logger.Info("simulated SMS message sent", "phone", phone, "body", body)
	return nil
}
