package notifxconsole

import (
	"context"
	"strings"

	"github.com/Abraxas-365/activemail/pkg/logx"
	"github.com/Abraxas-365/activemail/pkg/notifx"
)

// ConsoleProvider prints emails via logx instead of delivering them. Intended
// for development and testing.
type ConsoleProvider struct {
	logger *logx.Logger
}

// NewConsoleProvider creates a console provider writing to logger, or to the
// package logger when logger is nil.
func NewConsoleProvider(logger *logx.Logger) *ConsoleProvider {
	return &ConsoleProvider{logger: logger}
}

// SendEmail logs the email details instead of sending it.
func (p *ConsoleProvider) SendEmail(_ context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	entry := logx.Component("notifx/console")
	if p.logger != nil {
		entry = p.logger.Component("notifx/console")
	}

	fields := logx.Fields{
		"from":    msg.From,
		"to":      strings.Join(msg.To, ", "),
		"subject": msg.Subject,
	}
	if msg.ReplyTo != "" {
		fields["reply_to"] = msg.ReplyTo
	}
	if so := notifx.ApplySendOptions(opts); so.ConfigID != "" {
		fields["config_id"] = so.ConfigID
	}
	entry.WithFields(fields).Info("email sent (dev mode)")

	if msg.TextBody != "" {
		entry.Debugf("text body:\n%s", msg.TextBody)
	}
	if msg.HTMLBody != "" {
		entry.Debugf("html body:\n%s", msg.HTMLBody)
	}

	return nil
}
