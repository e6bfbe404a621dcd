// Package notifxsmtp delivers notifx emails over SMTP with net/smtp.
package notifxsmtp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/Abraxas-365/activemail/pkg/errx"
	"github.com/Abraxas-365/activemail/pkg/notifx"
)

var smtpErrors = errx.NewRegistry("NOTIFX_SMTP")

var (
	ErrConfig       = smtpErrors.Register("CONFIG", errx.TypeValidation, 400, "SMTP host and port are required")
	ErrNoRecipients = smtpErrors.Register("NO_RECIPIENTS", errx.TypeValidation, 400, "No recipients provided")
	ErrNoSender     = smtpErrors.Register("NO_SENDER", errx.TypeValidation, 400, "No sender provided")
	ErrSendFailed   = smtpErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "SMTP send failed")
)

// Config configures the SMTP provider.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the default sender when a message has none.
	From string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPProvider implements notifx.EmailSender over SMTP.
type SMTPProvider struct {
	addr        string
	defaultFrom string
	auth        smtp.Auth
	send        SendFunc
}

// NewSMTPProvider constructs an SMTP provider. Authentication is used only
// when both username and password are set.
func NewSMTPProvider(cfg Config) (*SMTPProvider, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, smtpErrors.New(ErrConfig)
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPProvider{
		addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		defaultFrom: cfg.From,
		auth:        auth,
		send:        smtp.SendMail,
	}, nil
}

// WithSendFunc replaces smtp.SendMail, mainly for tests.
func (p *SMTPProvider) WithSendFunc(send SendFunc) *SMTPProvider {
	p.send = send
	return p
}

// SendEmail delivers msg over SMTP.
func (p *SMTPProvider) SendEmail(ctx context.Context, msg notifx.EmailMessage, _ ...notifx.Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	recipients := msg.Recipients()
	if len(recipients) == 0 {
		return smtpErrors.New(ErrNoRecipients)
	}

	from := msg.From
	if from == "" {
		from = p.defaultFrom
	}
	if from == "" {
		return smtpErrors.New(ErrNoSender)
	}

	raw := Build(from, msg)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.send(p.addr, p.auth, from, recipients, raw); err != nil {
		return smtpErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("addr", p.addr).
			WithDetail("to", msg.To)
	}
	return nil
}

// Build renders msg as a MIME document. Messages with both bodies become
// multipart/alternative.
func Build(from string, msg notifx.EmailMessage) []byte {
	body, contentType := buildBody(msg)

	headers := []string{
		"From: " + from,
		"To: " + strings.Join(msg.To, ", "),
	}
	if len(msg.CC) > 0 {
		headers = append(headers, "Cc: "+strings.Join(msg.CC, ", "))
	}
	if msg.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+msg.ReplyTo)
	}
	headers = append(headers,
		"Subject: "+mime.QEncoding.Encode("utf-8", msg.Subject),
		"MIME-Version: 1.0",
		"Content-Type: "+contentType,
	)

	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body)
}

func buildBody(msg notifx.EmailMessage) (body string, contentType string) {
	if msg.HTMLBody != "" && msg.TextBody != "" {
		boundary := multipartBoundary()
		var sb strings.Builder
		sb.WriteString("This is a multipart message in MIME format.\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		sb.WriteString(msg.TextBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		sb.WriteString(msg.HTMLBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s--", boundary)
		return sb.String(), fmt.Sprintf("multipart/alternative; boundary=%s", boundary)
	}

	if msg.HTMLBody != "" {
		return msg.HTMLBody, "text/html; charset=UTF-8"
	}
	return msg.TextBody, "text/plain; charset=UTF-8"
}

func multipartBoundary() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "activemail-boundary"
	}
	return "activemail-" + hex.EncodeToString(b[:])
}
