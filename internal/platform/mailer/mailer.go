// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"time"

	"github.com/wneessen/go-mail"
)

var ErrDisabled = errors.New("mail delivery is not configured")

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetLink string, expiresIn time.Duration) error
}

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTP struct {
	opts Options
	send func(ctx context.Context, msg *mail.Msg) error
}

func NewSMTP(opts Options) *SMTP {
	s := &SMTP{opts: opts}
	s.send = s.dialAndSend
	return s
}

// New returns an SMTP mailer, or Disabled when no host is configured.
func New(opts Options) Mailer {
	if opts.Host == "" {
		return Disabled{}
	}
	return NewSMTP(opts)
}

func (s *SMTP) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	clientOpts := []mail.Option{
		mail.WithPort(s.opts.Port),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	}
	if s.opts.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.opts.Username),
			mail.WithPassword(s.opts.Password),
		)
	}
	client, err := mail.NewClient(s.opts.Host, clientOpts...)
	if err != nil {
		return fmt.Errorf("mailer: client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func (s *SMTP) SendPasswordReset(ctx context.Context, to, name, resetLink string, expiresIn time.Duration) error {
	body, err := renderPasswordReset(name, resetLink, expiresIn)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.opts.From); err != nil {
		return fmt.Errorf("mailer: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailer: to: %w", err)
	}
	msg.Subject("Password Reset Request")
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := s.send(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// Disabled fails every delivery.
type Disabled struct{}

func (Disabled) SendPasswordReset(ctx context.Context, to, name, resetLink string, expiresIn time.Duration) error {
	return ErrDisabled
}

var passwordResetTmpl = template.Must(template.New("reset").Parse(`<h1>Password Reset</h1>
<p>Hello {{.Name}},</p>
<p>You requested a password reset. Please click the link below to reset your password:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>This link will expire in {{.Expiry}}.</p>
<p>If you didn't request this, please ignore this email.</p>
`))

// renderPasswordReset fills the reset template. Stored names are already
// entity-escaped by the input sanitizer, so they are decoded before the
// template escapes them again.
func renderPasswordReset(name, link string, expiresIn time.Duration) (string, error) {
	var buf bytes.Buffer
	err := passwordResetTmpl.Execute(&buf, struct{ Name, Link, Expiry string }{
		Name:   html.UnescapeString(name),
		Link:   link,
		Expiry: humanDuration(expiresIn),
	})
	if err != nil {
		return "", fmt.Errorf("mailer: render: %w", err)
	}
	return buf.String(), nil
}

// humanDuration spells d in whole hours when it divides evenly, else in minutes.
func humanDuration(d time.Duration) string {
	n, unit := int64(d/time.Minute), "minute"
	if d >= time.Hour && d%time.Hour == 0 {
		n, unit = int64(d/time.Hour), "hour"
	}
	if n != 1 {
		unit += "s"
	}
	return strconv.FormatInt(n, 10) + " " + unit
}
