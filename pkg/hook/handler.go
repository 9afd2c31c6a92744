package hook

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

// Func is the handler signature. Handlers receive the current payload and
// a dispatch-scoped Invocation carrying the side-channel state (session,
// backend, model context). Returning (nil, nil) means continue unchanged.
type Func func(ctx context.Context, inv *Invocation, p Payload) (*Result, error)

// Typed adapts a handler written against a concrete payload type. A
// payload of any other type yields an error naming the mismatch, which
// surfaces as a dispatch failure.
func Typed[T Payload](fn func(ctx context.Context, inv *Invocation, p T) (*Result, error)) Func {
	return func(ctx context.Context, inv *Invocation, p Payload) (*Result, error) {
		tp, ok := p.(T)
		if !ok {
			var want T
			return nil, fmt.Errorf("hook: %s payload is %T, handler expects %T",
				inv.Hook, p, want)
		}
		return fn(ctx, inv, tp)
	}
}

// Handler is one registered unit of extension logic: a callable bound to
// an extension point with an execution mode and a priority.
type Handler struct {
	kind     Kind
	fn       Func
	mode     Mode
	priority int
	name     string
}

// Option customizes a Handler at construction.
type Option func(*Handler)

// WithMode sets the execution mode. Default is Enforce.
func WithMode(m Mode) Option {
	return func(h *Handler) { h.mode = m }
}

// WithPriority sets the ordering key; lower runs earlier. Default is
// DefaultPriority.
func WithPriority(p int) Option {
	return func(h *Handler) { h.priority = p }
}

// WithName sets the handler name used in violations and introspection.
// When unset, the name is derived from the function symbol.
func WithName(name string) Option {
	return func(h *Handler) { h.name = name }
}

// On builds a handler record for the given extension point. Validation
// (known kind, non-nil func) happens at registration time.
func On(kind Kind, fn Func, opts ...Option) *Handler {
	h := &Handler{
		kind:     kind,
		fn:       fn,
		mode:     Enforce,
		priority: DefaultPriority,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name returns the declared handler name, possibly empty before
// registration assigns a derived one.
func (h *Handler) Name() string { return h.name }

// HookKind returns the extension point this handler subscribes to.
func (h *Handler) HookKind() Kind { return h.kind }

// Priority returns the declared priority.
func (h *Handler) Priority() int { return h.priority }

// Mode returns the declared execution mode.
func (h *Handler) Mode() Mode { return h.mode }

func (h *Handler) validate() error {
	if h == nil || h.fn == nil {
		return ErrNilHandler
	}
	if !h.kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, h.kind)
	}
	return nil
}

// defaultName derives a handler name from the function symbol, the same
// way a stack trace would render it.
func (h *Handler) defaultName() string {
	if h.name != "" {
		return h.name
	}
	if pc := reflect.ValueOf(h.fn).Pointer(); pc != 0 {
		if f := runtime.FuncForPC(pc); f != nil {
			return f.Name()
		}
	}
	return string(h.kind) + ".handler"
}

// flatHandler pairs a handler with the priority override applied by an
// enclosing bundle or set.
type flatHandler struct {
	handler  *Handler
	override *int
}

func (f flatHandler) effectivePriority() int {
	if f.override != nil {
		return *f.override
	}
	return f.handler.priority
}

// Registrable is the common shape accepted by registration calls: a
// *Handler, a *Bundle, or a *Set.
type Registrable interface {
	flatten(override *int) ([]flatHandler, error)
}

func (h *Handler) flatten(override *int) ([]flatHandler, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	return []flatHandler{{handler: h, override: override}}, nil
}
