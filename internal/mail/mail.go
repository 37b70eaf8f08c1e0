// Package mail sends birthday greetings over per-company SMTP transports.
package mail

import (
	"context"

	"gopkg.in/gomail.v2"

	"github.com/parabens-app/parabens-server/internal/domain"
)

// Message is one outbound email with both body variants.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a message using a company's SMTP settings.
// Each call dials a fresh connection; credentials are never shared
// or cached across companies. Exactly one delivery attempt is made.
type Sender interface {
	Send(ctx context.Context, settings *domain.Settings, msg *Message) error
}

// GomailSender is the production Sender backed by gomail.
type GomailSender struct{}

// NewGomailSender creates the SMTP sender.
func NewGomailSender() *GomailSender {
	return &GomailSender{}
}

// Send dials the company's SMTP server and delivers the message.
// Implicit TLS is used exactly when the port is 465; other ports
// follow gomail's STARTTLS negotiation.
func (s *GomailSender) Send(ctx context.Context, settings *domain.Settings, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dialer := gomail.NewDialer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUser, settings.SMTPPass)
	dialer.SSL = settings.SMTPPort == 465

	m := gomail.NewMessage()
	m.SetHeader("From", settings.SMTPUser)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	m.AddAlternative("text/html", msg.HTMLBody)

	return dialer.DialAndSend(m)
}
