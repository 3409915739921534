package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text mail. Handlers treat sends as best-effort side
// channels: a failed send is logged, never surfaced to the user.
type Mailer interface {
	Send(to []string, subject, body string) error
}

type smtpMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer wires a Mailer to an SMTP relay. user may be empty for
// relays that don't require auth (e.g. a local postfix).
func NewSMTPMailer(addr, user, pass, from string) Mailer {
	var auth smtp.Auth
	if user != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &smtpMailer{addr: addr, from: from, auth: auth}
}

func (m *smtpMailer) Send(to []string, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.from, strings.Join(to, ", "), subject, body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, to, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
