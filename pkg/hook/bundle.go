package hook

import (
	"fmt"
	"sync"
)

// Bundle groups multiple handlers under one name with an optional shared
// priority. The capability table is built explicitly at construction via
// Handle; there is no runtime discovery. When the bundle declares a
// priority it overrides every member's individually declared priority.
//
// Bundles can be registered globally, registered under a scope, or opened
// as a scope handle via Manager.OpenScope.
type Bundle struct {
	name     string
	priority *int
	members  []*Handler

	mu      sync.Mutex
	scopeID string
}

// NewBundle creates an empty bundle with the given name.
func NewBundle(name string) *Bundle {
	return &Bundle{name: name}
}

// WithPriority sets the bundle priority, overriding every member's own
// priority. Returns the bundle for chaining.
func (b *Bundle) WithPriority(p int) *Bundle {
	b.priority = &p
	return b
}

// Handle adds a handler for the given kind to the bundle's capability
// table. The member's name is derived as "<bundle>.<kind>" unless
// WithName overrides it; further members on the same kind get a sequence
// suffix. Returns the bundle for chaining.
func (b *Bundle) Handle(kind Kind, fn Func, opts ...Option) *Bundle {
	h := On(kind, fn, opts...)
	if h.name == "" {
		name := fmt.Sprintf("%s.%s", b.name, kind)
		for n := 2; b.hasMember(name); n++ {
			name = fmt.Sprintf("%s.%s#%d", b.name, kind, n)
		}
		h.name = name
	}
	b.members = append(b.members, h)
	return b
}

func (b *Bundle) hasMember(name string) bool {
	for _, h := range b.members {
		if h.name == name {
			return true
		}
	}
	return false
}

// Name returns the bundle name.
func (b *Bundle) Name() string { return b.name }

func (b *Bundle) flatten(override *int) ([]flatHandler, error) {
	eff := override
	if eff == nil {
		eff = b.priority
	}
	out := make([]flatHandler, 0, len(b.members))
	for _, h := range b.members {
		if err := h.validate(); err != nil {
			return nil, fmt.Errorf("bundle %s: %w", b.name, err)
		}
		out = append(out, flatHandler{handler: h, override: eff})
	}
	return out, nil
}

// acquire marks the bundle as active under the given scope. Reentrant
// opens fail until the scope is released.
func (b *Bundle) acquire(scopeID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.scopeID != "" {
		return fmt.Errorf("%w: bundle %s", ErrScopeActive, b.name)
	}
	b.scopeID = scopeID
	return nil
}

func (b *Bundle) release() {
	b.mu.Lock()
	b.scopeID = ""
	b.mu.Unlock()
}
