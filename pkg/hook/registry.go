package hook

import (
	"fmt"
	"slices"
	"sync"
)

// record is one registered handler with its effective priority resolved.
type record struct {
	name     string
	kind     Kind
	mode     Mode
	priority int
	fn       Func
	scope    string
	seq      int
}

// RecordInfo is the introspection view of one registered handler.
type RecordInfo struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Mode     string `json:"mode"`
	Priority int    `json:"priority"`
	Scope    string `json:"scope,omitempty"`
}

// registry stores handler records grouped by kind, sorted on insert by
// (priority, registration order), plus the scope membership map.
// Thread-safe: registrations take the write lock, dispatch resolution the
// read lock.
type registry struct {
	mu     sync.RWMutex
	byKind map[Kind][]*record
	byName map[string]*record
	scopes map[string][]string
	seq    int
	total  int
}

func newRegistry() *registry {
	return &registry{
		byKind: make(map[Kind][]*record),
		byName: make(map[string]*record),
		scopes: make(map[string][]string),
	}
}

// add inserts one record and returns the name it was registered under.
// Explicitly named duplicates are rejected; derived-name collisions get a
// sequence suffix.
func (r *registry) add(f flatHandler, scope string) (string, error) {
	h := f.handler

	r.mu.Lock()
	defer r.mu.Unlock()

	name := h.name
	if name == "" {
		name = h.defaultName()
		if _, taken := r.byName[name]; taken {
			name = fmt.Sprintf("%s#%d", name, r.seq)
		}
	}
	if _, taken := r.byName[name]; taken {
		return "", fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	rec := &record{
		name:     name,
		kind:     h.kind,
		mode:     h.mode,
		priority: f.effectivePriority(),
		fn:       h.fn,
		scope:    scope,
		seq:      r.seq,
	}
	r.seq++
	r.total++

	r.byName[name] = rec
	r.byKind[rec.kind] = append(r.byKind[rec.kind], rec)
	slices.SortStableFunc(r.byKind[rec.kind], func(a, b *record) int {
		if a.priority != b.priority {
			return a.priority - b.priority
		}
		return a.seq - b.seq
	})

	if scope != "" {
		r.scopes[scope] = append(r.scopes[scope], name)
	}
	return name, nil
}

// remove deletes one record by name. Reports whether it existed.
func (r *registry) remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(name)
}

func (r *registry) removeLocked(name string) bool {
	rec, ok := r.byName[name]
	if !ok {
		return false
	}
	delete(r.byName, name)
	r.total--

	recs := r.byKind[rec.kind]
	recs = slices.DeleteFunc(slices.Clone(recs), func(c *record) bool { return c == rec })
	if len(recs) == 0 {
		delete(r.byKind, rec.kind)
	} else {
		r.byKind[rec.kind] = recs
	}

	if rec.scope != "" {
		if names, ok := r.scopes[rec.scope]; ok {
			names = slices.DeleteFunc(slices.Clone(names), func(n string) bool { return n == name })
			if len(names) == 0 {
				delete(r.scopes, rec.scope)
			} else {
				r.scopes[rec.scope] = names
			}
		}
	}
	return true
}

// removeScope deletes every record registered under the scope id.
func (r *registry) removeScope(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := r.scopes[scope]
	delete(r.scopes, scope)
	for _, name := range names {
		r.removeLocked(name)
	}
}

// handlersFor returns the sorted records for a kind. The slice is a copy:
// a dispatch in progress keeps its resolved chain even when a handler
// unregisters records (or closes a scope) for the same kind mid-dispatch.
func (r *registry) handlersFor(kind Kind) []*record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byKind[kind])
}

// hasHandlers is the dispatch entry guard: a cheap check that avoids all
// resolution work when nothing is registered for the kind.
func (r *registry) hasHandlers(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.total == 0 {
		return false
	}
	return len(r.byKind[kind]) > 0
}

// size returns the total number of registered records.
func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// clear drops all records and scopes.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKind = make(map[Kind][]*record)
	r.byName = make(map[string]*record)
	r.scopes = make(map[string][]string)
	r.total = 0
}

// snapshot returns introspection views of all records sorted by kind,
// priority, and registration order.
func (r *registry) snapshot() []RecordInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RecordInfo, 0, r.total)
	for _, kind := range kinds {
		for _, rec := range r.byKind[kind] {
			out = append(out, RecordInfo{
				Name:     rec.name,
				Kind:     rec.kind,
				Mode:     rec.mode.String(),
				Priority: rec.priority,
				Scope:    rec.scope,
			})
		}
	}
	return out
}

// countByKind returns the number of registered handlers per kind.
func (r *registry) countByKind() map[Kind]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Kind]int, len(r.byKind))
	for kind, recs := range r.byKind {
		out[kind] = len(recs)
	}
	return out
}
