package activemsg

import "context"

// EventBeforeSend names the event hooks receive.
const EventBeforeSend = "beforeSend"

// ComposeEvent is passed to pre-send hooks once the mailer has composed the
// transport message.
type ComposeEvent struct {
	Name    string
	Message TransportMessage
	Active  *Message
}

// PreSendHook returns false to veto delivery.
type PreSendHook func(ctx context.Context, ev ComposeEvent) bool

// Hooks runs in order and stops at the first veto.
type Hooks []PreSendHook

// Run reports whether every hook let the message proceed.
func (h Hooks) Run(ctx context.Context, ev ComposeEvent) bool {
	for _, hook := range h {
		if !hook(ctx, ev) {
			return false
		}
	}
	return true
}

func (m *Message) beforeSend(ctx context.Context, tm TransportMessage) bool {
	ev := ComposeEvent{Name: EventBeforeSend, Message: tm, Active: m}

	if bs, ok := m.variant.(BeforeSender); ok && !bs.BeforeSend(ctx, ev) {
		return false
	}
	return m.client.hooks.Run(ctx, ev)
}
