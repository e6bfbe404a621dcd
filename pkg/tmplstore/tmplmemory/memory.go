package tmplmemory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/tmplstore"
)

// MemoryStore keeps overrides in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string]activemsg.TemplateOverride
}

var _ tmplstore.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store seeded with initial, which is copied.
func NewMemoryStore(initial map[string]activemsg.TemplateOverride) *MemoryStore {
	s := &MemoryStore{templates: make(map[string]activemsg.TemplateOverride, len(initial))}
	for name, o := range initial {
		s.templates[name] = maps.Clone(o)
	}
	return s
}

// Template returns a copy of the stored override, or nil.
func (s *MemoryStore) Template(_ context.Context, name string) (activemsg.TemplateOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.templates[name]), nil
}

func (s *MemoryStore) Save(_ context.Context, name string, override activemsg.TemplateOverride) error {
	if err := tmplstore.ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[name] = maps.Clone(override)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.templates, name)
	return nil
}

func (s *MemoryStore) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.templates)), nil
}
