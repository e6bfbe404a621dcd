package activemsg

import (
	"reflect"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	// DefaultViewName is the view the mailer renders unless a variant implements ViewNamer.
	DefaultViewName = "active-message"

	// DefaultBodyText is the plain-text body used when a variant has no TextDefaulter.
	DefaultBodyText = "plain-text alternative unavailable"

	// DataKeyActiveMessage is the data key under which Send exposes the Message to the mailer view.
	DataKeyActiveMessage = "activeMessage"
)

// Names of the built-in fields, as used by template overrides, substitution
// data and validation errors.
const (
	FieldFrom     = "from"
	FieldTo       = "to"
	FieldSubject  = "subject"
	FieldBodyText = "bodyText"
	FieldBodyHTML = "bodyHtml"
)

var builtinFields = []string{FieldFrom, FieldTo, FieldSubject, FieldBodyText, FieldBodyHTML}

// Message is one send attempt of a Variant. It is owned by a single goroutine
// and normally discarded after Send.
type Message struct {
	variant Variant
	client  *Client

	from     field[string]
	to       field[[]string]
	subject  field[string]
	bodyText field[string]
	bodyHTML field[string]

	errors   FieldErrors
	warnings []string
	vetoed   bool
}

// New creates a Message with no collaborators. Fields, parsing and validation
// work; Send fails with ErrNoMailer. Use Client.New to send.
func New(v Variant) *Message {
	return NewClient(nil).New(v)
}

func newMessage(c *Client, v Variant) *Message {
	return &Message{
		variant:  v,
		client:   c,
		from:     textField(),
		to:       listField(),
		subject:  textField(),
		bodyText: textField(),
		bodyHTML: textField(),
	}
}

// Variant returns the wrapped message type.
func (m *Message) Variant() Variant {
	return m.variant
}

// ============================================================================
// Field accessors
// ============================================================================

func (m *Message) SetFrom(from string)       { m.from.set(from) }
func (m *Message) SetTo(to ...string)        { m.to.set(slices.Clone(to)) }
func (m *Message) SetSubject(subject string) { m.subject.set(subject) }
func (m *Message) SetBodyText(body string)   { m.bodyText.set(body) }
func (m *Message) SetBodyHTML(body string)   { m.bodyHTML.set(body) }
func (m *Message) From() string              { return m.from.get(m.variant.DefaultFrom) }
func (m *Message) Subject() string           { return m.subject.get(m.variant.DefaultSubject) }
func (m *Message) BodyHTML() string          { return m.bodyHTML.get(m.variant.DefaultBodyHTML) }
func (m *Message) BodyText() string          { return m.bodyText.get(m.defaultBodyText) }

// To returns a copy of the recipients.
func (m *Message) To() []string {
	return slices.Clone(m.to.get(m.variant.DefaultTo))
}

func (m *Message) defaultBodyText() string {
	if td, ok := m.variant.(TextDefaulter); ok {
		return td.DefaultBodyText()
	}
	return DefaultBodyText
}

// ============================================================================
// Naming
// ============================================================================

// TemplateName is the key used to look up template overrides: the
// unqualified type name of the variant.
func (m *Message) TemplateName() string {
	return TemplateName(m.variant)
}

// TemplateName returns the unqualified type name of v, ignoring pointers
// and type arguments. Unnamed types have no template name.
func TemplateName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	name, _, _ := strings.Cut(t.Name(), "[")
	return name
}

// ViewName is the view the mailer renders the final body with.
func (m *Message) ViewName() string {
	if vn, ok := m.variant.(ViewNamer); ok {
		return vn.ViewName()
	}
	return DefaultViewName
}

// TemplateDataHints returns the variant's token hints, or an empty map.
func (m *Message) TemplateDataHints() map[string]string {
	if hp, ok := m.variant.(HintProvider); ok {
		return hp.TemplateDataHints()
	}
	return map[string]string{}
}

// ============================================================================
// Attributes and substitution data
// ============================================================================

// Attributes lists every exposed attribute in declaration order: the built-in
// fields, then the variant's extra attributes sorted by name. Reading them
// resolves defaults.
func (m *Message) Attributes() []Attribute {
	attrs := []Attribute{
		{Name: FieldFrom, Value: m.From(), Rules: RuleRequired},
		{Name: FieldTo, Value: m.To(), Rules: RuleRequired},
		{Name: FieldSubject, Value: m.Subject(), Rules: RuleRequired},
		{Name: FieldBodyText, Value: m.BodyText(), Rules: RuleRequired},
		{Name: FieldBodyHTML, Value: m.BodyHTML(), Rules: RuleRequired},
	}

	extra := m.extraAttributes()
	for _, name := range sortedKeys(extra) {
		attrs = append(attrs, Attribute{Name: name, Value: extra[name], Rules: RuleRequired})
	}

	return attrs
}

// ComposeTemplateData returns a fresh map of attribute name to value, passed
// through the variant's DataComposer when it has one.
func (m *Message) ComposeTemplateData() map[string]any {
	attrs := m.Attributes()
	data := make(map[string]any, len(attrs))
	for _, a := range attrs {
		data[a.Name] = a.Value
	}

	if dc, ok := m.variant.(DataComposer); ok {
		data = dc.ComposeTemplateData(data)
	}
	return data
}

func (m *Message) extraAttributes() map[string]any {
	a, ok := m.variant.(Attributer)
	if !ok {
		return nil
	}
	return lo.OmitByKeys(a.Attributes(), builtinFields)
}

// attributeNames returns the declared attribute names without resolving any field.
func (m *Message) attributeNames() []string {
	return append(slices.Clone(builtinFields), sortedKeys(m.extraAttributes())...)
}

// Vetoed reports whether the last Send was stopped by the variant or a
// pre-send hook.
func (m *Message) Vetoed() bool {
	return m.vetoed
}

// Warnings returns the configuration warnings collected by ApplyTemplate.
func (m *Message) Warnings() []string {
	return slices.Clone(m.warnings)
}

func sortedKeys[V any](in map[string]V) []string {
	keys := lo.Keys(in)
	slices.Sort(keys)
	return keys
}
