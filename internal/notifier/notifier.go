package notifier

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is a single outbound email. Delivery is always best-effort: a
// failed send must never fail the workflow transition that triggered it.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func NewSMTPMailer(host string, port int, username, password, from string, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notifier.smtp")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notifier.smtp")
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: l,
	}
}

func (m *smtpMailer) Send(_ context.Context, msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(mail); err != nil {
		m.logger.Error("send mail failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return err
	}

	m.logger.Debug("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// NopMailer discards every message. Used in tests and when SMTP is not configured.
type NopMailer struct{}

func (NopMailer) Send(context.Context, Message) error { return nil }
