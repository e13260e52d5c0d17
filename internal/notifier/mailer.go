// Package notifier composes and dispatches the run's emails: one OnePage
// mail per store manager and one summary mail to management. The transport
// sits behind the Mailer interface; production uses SMTP with a session
// dialed once per run and closed on all exit paths.
package notifier

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"onepage/internal/config"
)

// Message is one outbound email
type Message struct {
	To          string
	ToName      string
	Subject     string
	HTMLBody    string
	Attachments []string
}

// Mailer dispatches messages. Implementations own a live session and must be
// closed after the run.
type Mailer interface {
	Send(msg Message) error
	Close() error
}

// SMTPMailer sends messages over a single SMTP session
type SMTPMailer struct {
	from       string
	senderName string
	sender     gomail.SendCloser
}

// NewSMTPMailer dials the configured SMTP server and returns a ready mailer
func NewSMTPMailer(cfg config.SMTPConfig, senderName string) (*SMTPMailer, error) {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	sender, err := dialer.Dial()
	if err != nil {
		return nil, fmt.Errorf("failed to dial SMTP server %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &SMTPMailer{from: cfg.From, senderName: senderName, sender: sender}, nil
}

// Send dispatches one message over the open session
func (m *SMTPMailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.senderName)
	if msg.ToName != "" {
		gm.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		gm.SetHeader("To", msg.To)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)
	for _, attachment := range msg.Attachments {
		gm.Attach(attachment)
	}

	if err := gomail.Send(m.sender, gm); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

// Close releases the SMTP session
func (m *SMTPMailer) Close() error {
	return m.sender.Close()
}
