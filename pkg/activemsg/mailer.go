package activemsg

import "context"

// TransportMessage is the mailer's own message type. Setters mutate and return
// the receiver.
type TransportMessage interface {
	SetSubject(subject string) TransportMessage
	SetTo(to ...string) TransportMessage
	SetFrom(from string) TransportMessage
	SetReplyTo(replyTo string) TransportMessage
}

// Mailer renders and delivers messages.
type Mailer interface {
	// Compose renders view with data into a new transport message.
	Compose(ctx context.Context, view string, data map[string]any) (TransportMessage, error)
	// Send delivers msg and reports whether the transport accepted it.
	Send(ctx context.Context, msg TransportMessage) bool
}
