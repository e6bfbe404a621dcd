package activemsg

import "github.com/Abraxas-365/activemail/pkg/logx"

// Client carries the collaborators every Message it creates uses. A Client
// is read-only after construction and safe for concurrent use; the Messages
// it creates are not.
type Client struct {
	mailer    Mailer
	store     TemplateStore
	validator Validator
	hooks     Hooks
	logger    *logx.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTemplateStore sets the store consulted by ApplyTemplate.
func WithTemplateStore(store TemplateStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithValidator replaces the default RequiredValidator.
func WithValidator(v Validator) Option {
	return func(c *Client) {
		c.validator = v
	}
}

// WithHooks appends pre-send hooks. They run in the order given.
func WithHooks(hooks ...PreSendHook) Option {
	return func(c *Client) {
		c.hooks = append(c.hooks, hooks...)
	}
}

// WithLogger sets the logger; defaults to logx's package logger.
func WithLogger(l *logx.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client delivering through mailer. mailer may be nil
// for clients that only compose.
func NewClient(mailer Mailer, opts ...Option) *Client {
	c := &Client{mailer: mailer}
	for _, o := range opts {
		o(c)
	}
	return c
}

// New wraps v in a Message for one send attempt.
func (c *Client) New(v Variant) *Message {
	return newMessage(c, v)
}

func (c *Client) validatorOrDefault() Validator {
	if c.validator == nil {
		return RequiredValidator{}
	}
	return c.validator
}

func (c *Client) log() *logx.Entry {
	if c.logger == nil {
		return logx.Component("activemsg")
	}
	return c.logger.Component("activemsg")
}
