package notify

import (
	"context"

	"github.com/medibook/hospital-booking/pkg/logging"
)

// EmailMessage is a single outbound email.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// EmailSender sends one-way emails. Implementations can be swapped
// (SES, stub) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMSSender sends one-way text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// StubEmailSender logs instead of sending. Used when email is not
// configured.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}

// StubSMSSender logs instead of sending.
type StubSMSSender struct {
	logger *logging.Logger
}

func NewStubSMSSender(logger *logging.Logger) *StubSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSMSSender{logger: logger}
}

func (s *StubSMSSender) SendSMS(ctx context.Context, to, body string) error {
	s.logger.Info("stub sms sender: would send sms", "to", to)
	return nil
}

var (
	_ EmailSender = (*StubEmailSender)(nil)
	_ SMSSender   = (*StubSMSSender)(nil)
)
