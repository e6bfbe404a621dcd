package activemsg

import "context"

// Variant is implemented by every concrete message type. The four defaults
// have no fallback: a type that does not provide them is not a Variant.
type Variant interface {
	DefaultFrom() string
	DefaultTo() []string
	DefaultSubject() string
	DefaultBodyHTML() string
}

// TextDefaulter overrides the plain-text body default (DefaultBodyText).
type TextDefaulter interface {
	DefaultBodyText() string
}

// ViewNamer overrides the rendering view used by the mailer (DefaultViewName).
type ViewNamer interface {
	ViewName() string
}

// HintProvider describes the substitution tokens a variant understands, for
// template editing tools. The pipeline never reads it.
type HintProvider interface {
	TemplateDataHints() map[string]string
}

// DataComposer adjusts the substitution data before it is used. It receives
// the attribute map and returns the map to use.
type DataComposer interface {
	ComposeTemplateData(data map[string]any) map[string]any
}

// Attributer exposes extra variant attributes. They join the substitution
// data and are validated as required like the built-in fields.
type Attributer interface {
	Attributes() map[string]any
}

// FieldSetter assigns a template override value to a variant field.
type FieldSetter func(value any) error

// FieldRegistrar declares which variant fields a template override may set,
// beyond the five built-in ones.
type FieldRegistrar interface {
	TemplateFields() map[string]FieldSetter
}

// BeforeSender lets a variant veto its own delivery. It runs before the
// client's hooks.
type BeforeSender interface {
	BeforeSend(ctx context.Context, ev ComposeEvent) bool
}
