package alert

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// EmailOptions holds SMTP delivery settings.
type EmailOptions struct {
	Server   string
	Port     int
	From     string
	Password string
	To       []string
}

// EmailSink mails one message per alert.
type EmailSink struct {
	opts EmailOptions
	send func(mail *email.Email, addr string, auth smtp.Auth) error
}

var _ ports.AlertSink = (*EmailSink)(nil)

// NewEmailSink sends through the configured SMTP server.
func NewEmailSink(opts EmailOptions) *EmailSink {
	return &EmailSink{
		opts: opts,
		send: func(mail *email.Email, addr string, auth smtp.Auth) error {
			return mail.Send(addr, auth)
		},
	}
}

// Publish sends the message, retrying without AUTH for relays that lack it.
func (e *EmailSink) Publish(_ context.Context, record domain.AlertRecord) error {
	if e.opts.Server == "" || e.opts.From == "" || len(e.opts.To) == 0 {
		return fmt.Errorf("email sink misconfigured")
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("DealHunter <%s>", e.opts.From)
	mail.To = e.opts.To
	mail.Subject = FormatRecord(record)
	mail.Text = []byte(Detail(record) + "\n")

	addr := fmt.Sprintf("%s:%d", e.opts.Server, e.opts.Port)

	var auth smtp.Auth
	if e.opts.Password != "" {
		auth = smtp.PlainAuth("", e.opts.From, e.opts.Password, e.opts.Server)
	}

	err := e.send(mail, addr, auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = e.send(mail, addr, nil)
	}
	if err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}
