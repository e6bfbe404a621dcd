package notifx

import "github.com/samber/lo"

// TagTemplate is the tag carrying the active message template name.
const TagTemplate = "template"

// SendOptions holds optional configuration for a send operation.
type SendOptions struct {
	Tags     map[string]string
	ConfigID string
}

// Option is a functional option for send operations.
type Option func(*SendOptions)

// WithTags adds metadata tags to the send operation. Later tags win.
func WithTags(tags map[string]string) Option {
	return func(o *SendOptions) {
		o.Tags = lo.Assign(o.Tags, tags)
	}
}

// WithTag adds a single tag.
func WithTag(key, value string) Option {
	return WithTags(map[string]string{key: value})
}

// WithConfigID sets a provider-specific configuration set identifier.
func WithConfigID(id string) Option {
	return func(o *SendOptions) {
		o.ConfigID = id
	}
}

// ApplySendOptions folds opts into a SendOptions value for providers.
func ApplySendOptions(opts []Option) SendOptions {
	var so SendOptions
	for _, o := range opts {
		o(&so)
	}
	return so
}
