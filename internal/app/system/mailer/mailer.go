// Package mailer sends transactional email: contribution receipts and
// volunteer assignment notices. Messages are built as
// multipart/alternative with both text and HTML bodies so they render
// in any client.
package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Email is one outbound message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP settings. When DryRun is set the mailer logs the
// message instead of dialing, which is how dev and test environments
// run.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	DryRun   bool
}

// Mailer sends Email over SMTP.
type Mailer struct {
	config Config
	logger *zap.Logger
}

// New returns a Mailer. logger must not be nil.
func New(config Config, logger *zap.Logger) (*Mailer, error) {
	if !config.DryRun {
		if config.Host == "" {
			return nil, fmt.Errorf("mailer: host is required")
		}
		if config.From == "" {
			return nil, fmt.Errorf("mailer: from address is required")
		}
	}
	return &Mailer{config: config, logger: logger}, nil
}

// Send delivers msg. In dry-run mode it logs and returns nil.
func (m *Mailer) Send(msg Email) error {
	if msg.To == "" {
		return fmt.Errorf("mailer: recipient is required")
	}

	if m.config.DryRun {
		m.logger.Info("dry-run email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	raw := buildMIME(m.config.From, msg)
	if err := smtp.SendMail(addr, auth, m.config.From, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	m.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// buildMIME assembles a multipart/alternative message. The text part
// comes first so clients that understand both prefer the HTML part.
func buildMIME(from string, msg Email) []byte {
	boundary := fmt.Sprintf("part-%d", time.Now().UnixNano())

	var b strings.Builder
	write := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
	}

	write("From: %s\r\n", from)
	write("To: %s\r\n", msg.To)
	write("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTMLBody == "":
		write("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		write("%s\r\n", msg.TextBody)
	case msg.TextBody == "":
		write("Content-Type: text/html; charset=utf-8\r\n\r\n")
		write("%s\r\n", msg.HTMLBody)
	default:
		write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		write("--%s\r\n", boundary)
		write("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		write("%s\r\n", msg.TextBody)
		write("--%s\r\n", boundary)
		write("Content-Type: text/html; charset=utf-8\r\n\r\n")
		write("%s\r\n", msg.HTMLBody)
		write("--%s--\r\n", boundary)
	}

	return []byte(b.String())
}
