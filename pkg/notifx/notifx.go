package notifx

import (
	"context"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/logx"
)

// EmailSender sends a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error
}

// Mailer composes active messages through its views and delivers them with
// an EmailSender. It implements activemsg.Mailer.
type Mailer struct {
	provider EmailSender
	views    *ViewRegistry
	sendOpts []Option
	logger   *logx.Logger
}

var _ activemsg.Mailer = (*Mailer)(nil)

// MailerOption configures a Mailer.
type MailerOption func(*Mailer)

// WithViews replaces the view registry.
func WithViews(views *ViewRegistry) MailerOption {
	return func(m *Mailer) {
		m.views = views
	}
}

// WithDefaultSendOptions applies opts to every delivery.
func WithDefaultSendOptions(opts ...Option) MailerOption {
	return func(m *Mailer) {
		m.sendOpts = append(m.sendOpts, opts...)
	}
}

// WithLogger sets the logger used to report delivery failures.
func WithLogger(l *logx.Logger) MailerOption {
	return func(m *Mailer) {
		m.logger = l
	}
}

// NewMailer creates a mailer delivering through provider.
func NewMailer(provider EmailSender, opts ...MailerOption) *Mailer {
	m := &Mailer{
		provider: provider,
		views:    NewViewRegistry(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Views returns the registry used by Compose.
func (m *Mailer) Views() *ViewRegistry {
	return m.views
}

// RegisterView parses and stores a named html/text view.
func (m *Mailer) RegisterView(name, htmlSrc, textSrc string) error {
	return m.views.Register(name, htmlSrc, textSrc)
}

// Compose renders view with data into a new EmailMessage.
func (m *Mailer) Compose(_ context.Context, view string, data map[string]any) (activemsg.TransportMessage, error) {
	htmlBody, textBody, err := m.views.Render(view, data)
	if err != nil {
		return nil, err
	}
	msg := &EmailMessage{HTMLBody: htmlBody, TextBody: textBody}
	if am, ok := data[activemsg.DataKeyActiveMessage].(*activemsg.Message); ok {
		msg.Tags = map[string]string{TagTemplate: am.TemplateName()}
	}
	return msg, nil
}

// Send delivers a message built by Compose. Failures are logged and reported
// as false.
func (m *Mailer) Send(ctx context.Context, msg activemsg.TransportMessage) bool {
	email, ok := msg.(*EmailMessage)
	if !ok {
		m.log().Errorf("unsupported transport message %T", msg)
		return false
	}

	if err := m.SendEmail(ctx, *email); err != nil {
		m.log().
			WithError(err).
			WithField("to", email.To).
			WithField("subject", email.Subject).
			Error("email delivery failed")
		return false
	}
	return true
}

// SendEmail validates msg and sends it through the configured provider.
func (m *Mailer) SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error {
	if m.provider == nil {
		return notifxErrors.New(ErrNoProvider)
	}
	if len(msg.To) == 0 {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "no recipients")
	}
	if msg.Subject == "" {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "empty subject")
	}

	all := append([]Option{}, m.sendOpts...)
	if len(msg.Tags) > 0 {
		all = append(all, WithTags(msg.Tags))
	}
	all = append(all, opts...)
	return m.provider.SendEmail(ctx, msg, all...)
}

func (m *Mailer) log() *logx.Entry {
	if m.logger == nil {
		return logx.Component("notifx")
	}
	return m.logger.Component("notifx")
}
