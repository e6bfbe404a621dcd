package activemsg_test

import (
	"context"
	"errors"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
)

// welcomeMessage is a variant with mutable defaults so tests can observe memoization.
type welcomeMessage struct {
	from    string
	to      []string
	subject string
	html    string
	name    string

	subjectCalls int
}

func newWelcome() *welcomeMessage {
	return &welcomeMessage{
		from:    "noreply@example.com",
		to:      []string{"ann@example.com"},
		subject: "Welcome {name}",
		html:    "<p>Hello {name}</p>",
		name:    "Ann",
	}
}

func (w *welcomeMessage) DefaultFrom() string { return w.from }
func (w *welcomeMessage) DefaultTo() []string { return w.to }
func (w *welcomeMessage) DefaultSubject() string {
	w.subjectCalls++
	return w.subject
}
func (w *welcomeMessage) DefaultBodyHTML() string { return w.html }

func (w *welcomeMessage) Attributes() map[string]any {
	return map[string]any{"name": w.name}
}

// bareMessage implements only the required defaults.
type bareMessage struct{}

func (bareMessage) DefaultFrom() string     { return "from@example.com" }
func (bareMessage) DefaultTo() []string     { return []string{"to@example.com"} }
func (bareMessage) DefaultSubject() string  { return "subject" }
func (bareMessage) DefaultBodyHTML() string { return "<b>html</b>" }

// campaignMessage declares an extra overridable field.
type campaignMessage struct {
	bareMessage
	campaign string
}

func (c *campaignMessage) TemplateFields() map[string]activemsg.FieldSetter {
	return map[string]activemsg.FieldSetter{
		"campaign": func(v any) error {
			s, ok := v.(string)
			if !ok {
				return errors.New("campaign must be text")
			}
			c.campaign = s
			return nil
		},
	}
}

func (c *campaignMessage) ViewName() string { return "campaign" }

func (c *campaignMessage) DefaultBodyText() string { return "plain campaign" }

func (c *campaignMessage) TemplateDataHints() map[string]string {
	return map[string]string{"campaign": "Campaign identifier"}
}

// wrappedMessage is a generic variant.
type wrappedMessage[T any] struct {
	bareMessage
	payload T
}

// composingMessage rewrites its substitution data.
type composingMessage struct{ bareMessage }

func (composingMessage) DefaultSubject() string  { return "Order {order} for {name}" }
func (composingMessage) DefaultBodyHTML() string { return "<p>{order}</p>" }

func (composingMessage) Attributes() map[string]any {
	return map[string]any{"name": "Ann"}
}

func (composingMessage) ComposeTemplateData(data map[string]any) map[string]any {
	delete(data, "name")
	data["order"] = "A-17"
	return data
}

// vetoingMessage refuses to be sent.
type vetoingMessage struct{ bareMessage }

func (vetoingMessage) BeforeSend(context.Context, activemsg.ComposeEvent) bool { return false }

type fakeTransport struct {
	subject string
	to      []string
	from    string
	replyTo string
}

func (f *fakeTransport) SetSubject(s string) activemsg.TransportMessage { f.subject = s; return f }
func (f *fakeTransport) SetTo(to ...string) activemsg.TransportMessage  { f.to = to; return f }
func (f *fakeTransport) SetFrom(s string) activemsg.TransportMessage    { f.from = s; return f }
func (f *fakeTransport) SetReplyTo(s string) activemsg.TransportMessage { f.replyTo = s; return f }

type fakeMailer struct {
	result     bool
	composeErr error

	views    []string
	data     map[string]any
	composed []*fakeTransport
	sent     []*fakeTransport
}

func (m *fakeMailer) Compose(_ context.Context, view string, data map[string]any) (activemsg.TransportMessage, error) {
	m.views = append(m.views, view)
	m.data = data
	if m.composeErr != nil {
		return nil, m.composeErr
	}
	tm := &fakeTransport{}
	m.composed = append(m.composed, tm)
	return tm, nil
}

func (m *fakeMailer) Send(_ context.Context, msg activemsg.TransportMessage) bool {
	m.sent = append(m.sent, msg.(*fakeTransport))
	return m.result
}

type fakeStore struct {
	overrides map[string]activemsg.TemplateOverride
	err       error
	lookups   []string
}

func (s *fakeStore) Template(_ context.Context, name string) (activemsg.TemplateOverride, error) {
	s.lookups = append(s.lookups, name)
	if s.err != nil {
		return nil, s.err
	}
	return s.overrides[name], nil
}
