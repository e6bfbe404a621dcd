package activemsg

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Factory builds a variant from loosely typed parameters, typically decoded
// from JSON by an HTTP handler or a queue worker.
type Factory func(params map[string]any) (Variant, error)

// Registry maps message names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Build instantiates the variant registered under name.
func (r *Registry) Build(name string, params map[string]any) (Variant, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, activemsgErrors.New(ErrUnknownMessage).WithDetail("message", name)
	}

	v, err := f(params)
	if err != nil {
		return nil, activemsgErrors.NewWithCause(ErrInvalidParams, err).WithDetail("message", name)
	}
	return v, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.factories)
	slices.Sort(names)
	return names
}

// Fields carries explicit values for the built-in fields. Empty values are
// left unset so the variant defaults apply.
type Fields struct {
	From     string   `json:"from,omitempty"`
	To       []string `json:"to,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	BodyText string   `json:"body_text,omitempty"`
	BodyHTML string   `json:"body_html,omitempty"`
}

// ApplyTo sets every non-empty value on m.
func (f Fields) ApplyTo(m *Message) {
	if f.From != "" {
		m.SetFrom(f.From)
	}
	if len(f.To) > 0 {
		m.SetTo(f.To...)
	}
	if f.Subject != "" {
		m.SetSubject(f.Subject)
	}
	if f.BodyText != "" {
		m.SetBodyText(f.BodyText)
	}
	if f.BodyHTML != "" {
		m.SetBodyHTML(f.BodyHTML)
	}
}
