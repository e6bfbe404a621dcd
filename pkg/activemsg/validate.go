package activemsg

import (
	"fmt"
	"reflect"
	"strings"
)

// RuleRequired is the only rule a Message declares: every attribute must be non-empty.
const RuleRequired = "required"

// Attribute is one named value of a Message together with its validation rules,
// written in go-playground/validator tag syntax.
type Attribute struct {
	Name  string
	Value any
	Rules string
}

// FieldErrors maps attribute names to the validation messages reported for them.
type FieldErrors map[string][]string

// HasErrors reports whether any attribute has at least one message.
func (fe FieldErrors) HasErrors() bool {
	for _, msgs := range fe {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}

// Validator checks attributes against their rules.
type Validator interface {
	Validate(attrs []Attribute) FieldErrors
}

// RequiredValidator enforces RuleRequired and ignores any other rule. It is
// the Client default when no Validator is configured.
type RequiredValidator struct{}

// Validate implements Validator.
func (RequiredValidator) Validate(attrs []Attribute) FieldErrors {
	errs := make(FieldErrors)
	for _, a := range attrs {
		if hasRule(a.Rules, RuleRequired) && IsBlank(a.Value) {
			errs[a.Name] = append(errs[a.Name], fmt.Sprintf("%s cannot be blank.", a.Name))
		}
	}
	return errs
}

func hasRule(rules, rule string) bool {
	for _, r := range strings.Split(rules, ",") {
		if strings.TrimSpace(r) == rule {
			return true
		}
	}
	return false
}

// IsBlank reports whether v is nil, an empty string, or an empty slice or map.
func IsBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Validate runs the client's Validator over Attributes and keeps the result
// for Errors and ErrorSummary.
func (m *Message) Validate() bool {
	m.errors = m.client.validatorOrDefault().Validate(m.Attributes())
	if m.errors == nil {
		m.errors = make(FieldErrors)
	}
	return !m.errors.HasErrors()
}

// Errors returns the result of the last Validate call.
func (m *Message) Errors() FieldErrors {
	return m.errors
}

// DefaultGlue separates messages in the summary carried by a failed Send.
const DefaultGlue = "\n"

// ErrorSummary joins every validation message with glue.
// Attributes come in declaration order, messages in reported order; errors
// for undeclared names follow, sorted by name.
func (m *Message) ErrorSummary(glue string) string {
	var parts []string
	seen := make(map[string]bool, len(m.errors))
	for _, name := range m.attributeNames() {
		parts = append(parts, m.errors[name]...)
		seen[name] = true
	}
	for _, name := range sortedKeys(m.errors) {
		if !seen[name] {
			parts = append(parts, m.errors[name]...)
		}
	}

	return strings.Join(parts, glue)
}
