package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/errx"
)

// TransactionalView wraps a message body with the account footer.
const TransactionalView = "transactional"

const (
	transactionalHTML = `<!DOCTYPE html>
<html><body style="font-family:sans-serif">
{{raw .activeMessage.BodyHTML}}
<hr><p style="color:#888;font-size:12px">You received this email because of activity on your account.</p>
</body></html>`
	transactionalText = `{{.activeMessage.BodyText}}

--
You received this email because of activity on your account.`
)

// WelcomeMessage greets a newly registered user.
type WelcomeMessage struct {
	from     string
	Name     string
	Email    string
	LoginURL string
}

func (m *WelcomeMessage) DefaultFrom() string    { return m.from }
func (m *WelcomeMessage) DefaultTo() []string    { return recipients(m.Email) }
func (m *WelcomeMessage) DefaultSubject() string { return "Welcome aboard, {name}" }
func (m *WelcomeMessage) DefaultBodyHTML() string {
	return `<p>Hi {name},</p><p>Your account is ready. Sign in at <a href="{login_url}">{login_url}</a>.</p>`
}

func (m *WelcomeMessage) Attributes() map[string]any {
	return map[string]any{
		"name":      m.Name,
		"login_url": m.LoginURL,
	}
}

func (m *WelcomeMessage) TemplateDataHints() map[string]string {
	return map[string]string{
		"name":      "Display name of the new user",
		"login_url": "Link to the sign-in page",
	}
}

// PasswordResetMessage sends a time-limited reset link.
type PasswordResetMessage struct {
	from      string
	Email     string
	ResetURL  string
	ExpiresIn time.Duration
}

func (m *PasswordResetMessage) DefaultFrom() string    { return m.from }
func (m *PasswordResetMessage) DefaultTo() []string    { return recipients(m.Email) }
func (m *PasswordResetMessage) DefaultSubject() string { return "Reset your password" }
func (m *PasswordResetMessage) DefaultBodyHTML() string {
	return `<p>Someone asked to reset the password for {to}.</p><p><a href="{reset_url}">Choose a new password</a>. The link expires in {expires_in}.</p>`
}

func (m *PasswordResetMessage) DefaultBodyText() string {
	return "Someone asked to reset the password for {to}.\n\nChoose a new password: {reset_url}\nThe link expires in {expires_in}."
}

func (m *PasswordResetMessage) ViewName() string { return TransactionalView }

func (m *PasswordResetMessage) Attributes() map[string]any {
	return map[string]any{
		"reset_url":  m.ResetURL,
		"expires_in": m.ExpiresIn.String(),
	}
}

func (m *PasswordResetMessage) TemplateDataHints() map[string]string {
	return map[string]string{
		"to":         "Recipient address",
		"reset_url":  "One-time reset link",
		"expires_in": "How long the link stays valid, e.g. 1h0m0s",
	}
}

// TemplateFields lets a stored template change the link lifetime.
func (m *PasswordResetMessage) TemplateFields() map[string]activemsg.FieldSetter {
	return map[string]activemsg.FieldSetter{
		"expires_in": func(value any) error {
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("expected duration text, got %T", value)
			}
			d, err := time.ParseDuration(s)
			if err != nil {
				return err
			}
			m.ExpiresIn = d
			return nil
		},
	}
}

// BeforeSend refuses to mail a link that is already expired.
func (m *PasswordResetMessage) BeforeSend(_ context.Context, _ activemsg.ComposeEvent) bool {
	return m.ExpiresIn > 0
}

// registerMessages adds the service's message types to reg. from is the
// default sender of every message.
func registerMessages(reg *activemsg.Registry, from string) {
	reg.Register("welcome", func(params map[string]any) (activemsg.Variant, error) {
		m := &WelcomeMessage{from: from}
		var err error
		if m.Name, err = stringParam(params, "name"); err != nil {
			return nil, err
		}
		if m.Email, err = stringParam(params, "email"); err != nil {
			return nil, err
		}
		if m.LoginURL, err = stringParam(params, "login_url"); err != nil {
			return nil, err
		}
		return m, nil
	})

	reg.Register("password_reset", func(params map[string]any) (activemsg.Variant, error) {
		m := &PasswordResetMessage{from: from, ExpiresIn: time.Hour}
		var err error
		if m.Email, err = stringParam(params, "email"); err != nil {
			return nil, err
		}
		if m.ResetURL, err = stringParam(params, "reset_url"); err != nil {
			return nil, err
		}
		expires, err := stringParam(params, "expires_in")
		if err != nil {
			return nil, err
		}
		if expires != "" {
			if m.ExpiresIn, err = time.ParseDuration(expires); err != nil {
				return nil, errx.Wrap(err, "expires_in is not a duration", errx.TypeValidation)
			}
		}
		return m, nil
	})
}

func recipients(email string) []string {
	if email == "" {
		return nil
	}
	return []string{email}
}

// stringParam reads an optional text parameter. Missing values are left for
// message validation to report.
func stringParam(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errx.New(fmt.Sprintf("%s must be text, got %T", key, v), errx.TypeValidation)
	}
	return s, nil
}
