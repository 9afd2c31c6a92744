package hook

import (
	"fmt"
	"sync"
)

// Set is a named, inert container of handlers, bundles, and nested sets.
// Sets register nothing themselves; they are flattened when passed to a
// registration call. A set's priority, when declared, overrides the
// priority of every directly contained item, bundles included. Nested
// sets keep their own declared priority for their own members.
type Set struct {
	name     string
	priority *int
	items    []Registrable

	mu      sync.Mutex
	scopeID string
}

// NewSet creates a set containing the given items.
func NewSet(name string, items ...Registrable) *Set {
	return &Set{name: name, items: items}
}

// WithPriority sets the priority override applied to directly contained
// items. Returns the set for chaining.
func (s *Set) WithPriority(p int) *Set {
	s.priority = &p
	return s
}

// Add appends items to the set. Returns the set for chaining.
func (s *Set) Add(items ...Registrable) *Set {
	s.items = append(s.items, items...)
	return s
}

// Name returns the set name.
func (s *Set) Name() string { return s.name }

// Len returns the number of directly contained items.
func (s *Set) Len() int { return len(s.items) }

// flatten recursively expands the set. The incoming override is ignored:
// an enclosing set does not reach through a nested set's members.
func (s *Set) flatten(_ *int) ([]flatHandler, error) {
	var out []flatHandler
	for _, item := range s.items {
		if item == nil {
			return nil, fmt.Errorf("set %s: %w", s.name, ErrNilHandler)
		}
		flat, err := item.flatten(s.priority)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", s.name, err)
		}
		out = append(out, flat...)
	}
	return out, nil
}

func (s *Set) acquire(scopeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scopeID != "" {
		return fmt.Errorf("%w: set %s", ErrScopeActive, s.name)
	}
	s.scopeID = scopeID
	return nil
}

func (s *Set) release() {
	s.mu.Lock()
	s.scopeID = ""
	s.mu.Unlock()
}
