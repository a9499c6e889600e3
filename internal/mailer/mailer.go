// Package mailer sends transactional email using the SMTP credentials
// stored in platform settings.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/solera-market/solera/internal/settings"
)

// ErrNotConfigured is returned when email is disabled or the SMTP
// settings are incomplete.
var ErrNotConfigured = errors.New("mailer: email is not configured")

// Mailer resolves SMTP configuration per send, so admin changes take
// effect without a restart.
type Mailer struct {
	settings *settings.Service

	// send is swappable for tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func New(svc *settings.Service) *Mailer {
	return &Mailer{
		settings: svc,
		send:     smtp.SendMail,
	}
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	cfg, err := m.settings.Email(ctx)
	if err != nil {
		return fmt.Errorf("resolving email settings: %w", err)
	}
	if !cfg.Enabled || !cfg.IsConfigured {
		return ErrNotConfigured
	}

	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	if err := m.send(cfg.Addr(), auth, cfg.FromAddress, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}
