package hook

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func countingBundle(name string, kind Kind, counter *int, mu *sync.Mutex) *Bundle {
	return NewBundle(name).Handle(kind, func(_ context.Context, _ *Invocation, _ Payload) (*Result, error) {
		mu.Lock()
		*counter++
		mu.Unlock()
		return nil, nil
	})
}

func TestScope_OpenDispatchClose(t *testing.T) {
	t.Parallel()

	m := New()
	var mu sync.Mutex
	var calls int
	b := countingBundle("guard", SessionPreInitKind, &calls, &mu)

	s, err := m.OpenScope(b)
	if err != nil {
		t.Fatalf("open scope: %v", err)
	}
	if s.ID() == "" {
		t.Error("scope id is empty")
	}

	if _, _, err := m.Invoke(context.Background(), SessionPreInitKind, SessionPreInit{}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	s.Close()
	if got := m.HandlerCount(); got != 0 {
		t.Fatalf("handlers after close = %d, want 0", got)
	}

	// Dispatch after close is a no-op for the scoped handlers.
	if _, _, err := m.Invoke(context.Background(), SessionPreInitKind, SessionPreInit{}); err != nil {
		t.Fatalf("invoke after close: %v", err)
	}
	if calls != 1 {
		t.Errorf("handler fired after scope close: calls = %d", calls)
	}
}

func TestScope_ReopenAfterClose(t *testing.T) {
	t.Parallel()

	m := New()
	var mu sync.Mutex
	var calls int
	b := countingBundle("reuse", SessionPreInitKind, &calls, &mu)

	for i := 0; i < 2; i++ {
		s, err := m.OpenScope(b)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if _, _, err := m.Invoke(context.Background(), SessionPreInitKind, SessionPreInit{}); err != nil {
			t.Fatalf("invoke %d: %v", i, err)
		}
		s.Close()
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestScope_ReentrantOpenFails(t *testing.T) {
	t.Parallel()

	m := New()
	var mu sync.Mutex
	var calls int
	b := countingBundle("exclusive", SessionPreInitKind, &calls, &mu)

	s, err := m.OpenScope(b)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, err := m.OpenScope(b); !errors.Is(err, ErrScopeActive) {
		t.Fatalf("second open = %v, want ErrScopeActive", err)
	}
	// The failed open must not have registered anything extra.
	if got := m.HandlerCount(); got != 1 {
		t.Errorf("handlers = %d, want 1", got)
	}
}

func TestScope_NestedScopesCloseIndependently(t *testing.T) {
	t.Parallel()

	m := New()
	var mu sync.Mutex
	var outer, inner int
	bo := countingBundle("outer", SessionPreInitKind, &outer, &mu)
	bi := countingBundle("inner", SessionPreInitKind, &inner, &mu)

	so, err := m.OpenScope(bo)
	if err != nil {
		t.Fatalf("open outer: %v", err)
	}
	si, err := m.OpenScope(bi)
	if err != nil {
		t.Fatalf("open inner: %v", err)
	}

	si.Close()
	if _, _, err := m.Invoke(context.Background(), SessionPreInitKind, SessionPreInit{}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if inner != 0 {
		t.Errorf("inner fired after its close: %d", inner)
	}
	if outer != 1 {
		t.Errorf("outer = %d, want 1", outer)
	}
	so.Close()
	if got := m.HandlerCount(); got != 0 {
		t.Errorf("handlers after both closes = %d", got)
	}
}

func TestScope_CloseIdempotent(t *testing.T) {
	t.Parallel()

	m := New()
	var mu sync.Mutex
	var calls int
	b := countingBundle("once", SessionPreInitKind, &calls, &mu)

	s1, err := m.OpenScope(b)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s1.Close()

	// Reopen, then close the stale handle again. It must not disturb the
	// new scope.
	s2, err := m.OpenScope(b)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s1.Close()

	if _, _, err := m.Invoke(context.Background(), SessionPreInitKind, SessionPreInit{}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (stale close removed the live scope)", calls)
	}
	s2.Close()
}

func TestScope_GlobalHandlersUnaffected(t *testing.T) {
	t.Parallel()

	m := New()
	var mu sync.Mutex
	var global, scoped int

	if err := m.Register(On(SessionPreInitKind, func(_ context.Context, _ *Invocation, _ Payload) (*Result, error) {
		mu.Lock()
		global++
		mu.Unlock()
		return nil, nil
	}, WithName("global"))); err != nil {
		t.Fatalf("register global: %v", err)
	}

	s, err := m.OpenScope(countingBundle("scoped", SessionPreInitKind, &scoped, &mu))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()

	if _, _, err := m.Invoke(context.Background(), SessionPreInitKind, SessionPreInit{}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if global != 1 {
		t.Errorf("global = %d, want 1", global)
	}
	if scoped != 0 {
		t.Errorf("scoped fired after close: %d", scoped)
	}
}

func TestScope_OpenAfterShutdown(t *testing.T) {
	t.Parallel()

	m := New()
	m.Shutdown()
	if _, err := m.OpenScope(NewBundle("late")); !errors.Is(err, ErrShutdown) {
		t.Fatalf("expected ErrShutdown, got %v", err)
	}
}

func TestRegisterScoped_ExplicitScopeID(t *testing.T) {
	t.Parallel()

	m := New()
	var mu sync.Mutex
	var calls int

	if err := m.RegisterScoped("session-7", countingBundle("sess", SessionPreInitKind, &calls, &mu)); err != nil {
		t.Fatalf("register scoped: %v", err)
	}
	if _, _, err := m.Invoke(context.Background(), SessionPreInitKind, SessionPreInit{}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	m.DeregisterScope("session-7")
	if _, _, err := m.Invoke(context.Background(), SessionPreInitKind, SessionPreInit{}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if err := m.RegisterScoped("", NewBundle("x")); err == nil {
		t.Error("empty scope id should fail")
	}
}
