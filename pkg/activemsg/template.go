package activemsg

import (
	"context"
	"fmt"
	"slices"
)

// TemplateOverride maps field names to values stored for a message type.
type TemplateOverride map[string]any

// TemplateStore looks up the stored override for a template name. A missing
// template is reported as an empty override, not an error.
type TemplateStore interface {
	Template(ctx context.Context, name string) (TemplateOverride, error)
}

// ApplyTemplate overlays the stored override for TemplateName onto the
// message. Built-in fields are set through their setters and variant fields
// through the variant's FieldRegistrar. Any other name is skipped with a
// warning. Unnamed variant types have nothing to look up.
func (m *Message) ApplyTemplate(ctx context.Context) error {
	store := m.client.store
	name := m.TemplateName()
	if store == nil || name == "" {
		return nil
	}

	override, err := store.Template(ctx, name)
	if err != nil {
		return activemsgErrors.NewWithCause(ErrTemplateLookup, err).WithDetail("template", name)
	}
	if len(override) == 0 {
		return nil
	}

	setters := m.fieldSetters()
	for _, key := range sortedKeys(override) {
		set, ok := setters[key]
		if !ok {
			m.warnings = append(m.warnings, fmt.Sprintf("template %q sets undeclared field %q", name, key))
			m.client.log().
				WithField("template", name).
				WithField("field", key).
				Warn("activemsg: template override targets an undeclared field, skipped")
			continue
		}

		if err := set(override[key]); err != nil {
			return activemsgErrors.NewWithCause(ErrInvalidOverride, err).
				WithDetail("template", name).
				WithDetail("field", key)
		}
	}

	return nil
}

func (m *Message) fieldSetters() map[string]FieldSetter {
	setters := map[string]FieldSetter{
		FieldFrom:     textSetter(m.SetFrom),
		FieldSubject:  textSetter(m.SetSubject),
		FieldBodyText: textSetter(m.SetBodyText),
		FieldBodyHTML: textSetter(m.SetBodyHTML),
		FieldTo: func(v any) error {
			to, err := toList(v)
			if err != nil {
				return err
			}
			m.SetTo(to...)
			return nil
		},
	}

	if r, ok := m.variant.(FieldRegistrar); ok {
		for name, set := range r.TemplateFields() {
			if _, builtin := setters[name]; !builtin && set != nil {
				setters[name] = set
			}
		}
	}

	return setters
}

func textSetter(set func(string)) FieldSetter {
	return func(v any) error {
		s, err := toText(v)
		if err != nil {
			return err
		}
		set(s)
		return nil
	}
}

func toText(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("expected text, got %T", v)
	}
}

func toList(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		return []string{t}, nil
	case []string:
		return slices.Clone(t), nil
	case []any:
		out := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected text at index %d, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected text or list of text, got %T", v)
	}
}
