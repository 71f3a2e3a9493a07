package sms

import (
	"context"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	dErrors "fraudguard/pkg/domain-errors"
)

// TwilioConfig carries the credentials for real SMS dispatch.
type TwilioConfig struct {
	APIKeySID    string
	APIKeySecret string
	AccountSID   string
	FromNumber   string
}

func (c TwilioConfig) complete() bool {
	return c.APIKeySID != "" && c.APIKeySecret != "" && c.AccountSID != "" && c.FromNumber != ""
}

// TwilioSender sends real SMS messages through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	logger *slog.Logger
}

func NewTwilioSender(cfg TwilioConfig, logger *slog.Logger) (*TwilioSender, error) {
	if !cfg.complete() {
		return nil, dErrors.New(dErrors.CodeInternal, "incomplete Twilio configuration")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   cfg.APIKeySID,
		Password:   cfg.APIKeySecret,
		AccountSid: cfg.AccountSID,
	})
	return &TwilioSender{client: client, from: cfg.FromNumber, logger: logger}, nil
}

func (s *TwilioSender) Send(_ context.Context, phone, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(body)

	message, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to send SMS message")
	}
	if message.Sid != nil {
		s.logger.Info("SMS message sent", "sid", *message.Sid)
	}
	return nil
}
