package notifx

import (
	"slices"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
)

// EmailMessage represents an email to be sent. *EmailMessage is the transport
// message the Mailer composes for active messages.
type EmailMessage struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	CC       []string `json:"cc,omitempty"`
	BCC      []string `json:"bcc,omitempty"`
	ReplyTo  string   `json:"reply_to,omitempty"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body,omitempty"`
	HTMLBody string   `json:"html_body,omitempty"`
	// Tags are sent as provider tags, under any per-call tags.
	Tags map[string]string `json:"tags,omitempty"`
}

var _ activemsg.TransportMessage = (*EmailMessage)(nil)

func (m *EmailMessage) SetSubject(subject string) activemsg.TransportMessage {
	m.Subject = subject
	return m
}

func (m *EmailMessage) SetTo(to ...string) activemsg.TransportMessage {
	m.To = slices.Clone(to)
	return m
}

func (m *EmailMessage) SetFrom(from string) activemsg.TransportMessage {
	m.From = from
	return m
}

func (m *EmailMessage) SetReplyTo(replyTo string) activemsg.TransportMessage {
	m.ReplyTo = replyTo
	return m
}

// Recipients returns To, CC and BCC in that order.
func (m *EmailMessage) Recipients() []string {
	return slices.Concat(m.To, m.CC, m.BCC)
}
