// Package hooktest provides test doubles for the hook package.
package hooktest

import (
	"context"
	"sync"

	"github.com/davrell/graft/pkg/hook"
)

// MockHandler builds a configurable hook.Handler for tests. The zero
// value records calls and continues unchanged at hook.DefaultPriority.
type MockHandler struct {
	Kind hook.Kind
	Mode hook.Mode

	// Priority orders the mock among other handlers. Zero means
	// hook.DefaultPriority; set an explicit lower value to run earlier.
	Priority int

	Name string

	// Func, when set, supplies the handler behavior after the call is
	// recorded.
	Func hook.Func

	mu    sync.Mutex
	calls int
}

// Handler returns the registrable handler record for the mock.
func (m *MockHandler) Handler() *hook.Handler {
	priority := m.Priority
	if priority == 0 {
		priority = hook.DefaultPriority
	}
	opts := []hook.Option{
		hook.WithMode(m.Mode),
		hook.WithPriority(priority),
	}
	if m.Name != "" {
		opts = append(opts, hook.WithName(m.Name))
	}
	return hook.On(m.Kind, m.execute, opts...)
}

func (m *MockHandler) execute(ctx context.Context, inv *hook.Invocation, p hook.Payload) (*hook.Result, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Func != nil {
		return m.Func(ctx, inv, p)
	}
	return nil, nil
}

// CallCount returns the number of times the handler executed.
func (m *MockHandler) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Recorder captures handler execution order across a dispatch.
type Recorder struct {
	mu    sync.Mutex
	names []string
}

// Handler returns a handler that records the given label and continues.
func (r *Recorder) Handler(kind hook.Kind, label string, opts ...hook.Option) *hook.Handler {
	fn := func(_ context.Context, _ *hook.Invocation, _ hook.Payload) (*hook.Result, error) {
		r.mu.Lock()
		r.names = append(r.names, label)
		r.mu.Unlock()
		return nil, nil
	}
	opts = append(opts, hook.WithName(label))
	return hook.On(kind, fn, opts...)
}

// Order returns the labels in execution order.
func (r *Recorder) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Reset clears the recorded order.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.names = nil
	r.mu.Unlock()
}
