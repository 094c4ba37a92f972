// Package mail sends HTML notifications over SMTP.
package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"assessly-backend/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Template names.
const (
	TemplateCodeInvite    = "code_invite.html"
	TemplateGameCompleted = "game_completed.html"
)

// ErrDisabled is returned by the no-op sender.
var ErrDisabled = errors.New("mail disabled")

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Render executes a named template into an HTML body.
func Render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// SMTPSender delivers through an SMTP relay, one connection per message.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	timeout  time.Duration
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
		timeout:  30 * time.Second,
	}
}

// Send gives up when ctx is done; the dial itself cannot be interrupted, so
// the goroutine finishes in the background.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NopSender is used when mail is disabled in the configuration.
type NopSender struct{}

func (NopSender) Send(context.Context, Message) error { return ErrDisabled }

// NewSender picks the SMTP sender when mail is enabled.
func NewSender(cfg config.MailConfig) Sender {
	if !cfg.Enabled {
		return NopSender{}
	}
	return NewSMTPSender(cfg)
}
