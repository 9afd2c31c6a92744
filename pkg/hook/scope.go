package hook

import (
	"sync"

	"github.com/google/uuid"
)

// scopeGuard is implemented by registrables that refuse to be opened
// twice concurrently (bundles and sets).
type scopeGuard interface {
	acquire(scopeID string) error
	release()
}

// Scope is a handle to a transient registration. Closing it deregisters
// every handler the OpenScope call registered, exactly once; global
// handlers and other scopes are unaffected. After Close the same bundle
// or set instances may be opened again.
type Scope struct {
	id      string
	manager *Manager
	guards  []scopeGuard

	mu     sync.Mutex
	closed bool
}

// OpenScope registers the items under a freshly generated scope id and
// returns the handle. Opening a bundle or set that is already active in
// another open scope fails with ErrScopeActive; nothing is registered in
// that case. Scopes nest freely and close independently.
func (m *Manager) OpenScope(items ...Registrable) (*Scope, error) {
	if m.shut.Load() {
		return nil, ErrShutdown
	}

	s := &Scope{
		id:      uuid.NewString(),
		manager: m,
	}

	for _, item := range items {
		g, ok := item.(scopeGuard)
		if !ok {
			continue
		}
		if err := g.acquire(s.id); err != nil {
			for _, held := range s.guards {
				held.release()
			}
			return nil, err
		}
		s.guards = append(s.guards, g)
	}

	if err := m.register(s.id, items); err != nil {
		for _, held := range s.guards {
			held.release()
		}
		return nil, err
	}
	return s, nil
}

// ID returns the generated scope identifier.
func (s *Scope) ID() string { return s.id }

// Close deregisters the scope's handlers and releases its bundles and
// sets for reuse. Safe to call on every exit path; only the first call
// does work.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.manager.DeregisterScope(s.id)
	for _, g := range s.guards {
		g.release()
	}
}
