package hook

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dispatch outcomes reported to the Observer.
const (
	OutcomeOK      = "ok"
	OutcomeBlocked = "blocked"
	OutcomeError   = "error"
)

// Observer receives dispatch telemetry. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveDispatch(kind Kind, outcome string, d time.Duration)
	ObserveViolation(kind Kind, code string)
}

const defaultTimeout = 5 * time.Second

// Manager owns the handler registry, the policy table, and the dispatch
// protocol. Construct one per process (or per test) with New and tear it
// down with Shutdown; there is no package-level singleton.
type Manager struct {
	reg      *registry
	policies *policyTable
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
	now      func() time.Time
	shut     atomic.Bool
}

// ManagerOption customizes a Manager at construction.
type ManagerOption func(*Manager)

// WithTimeout sets the per-handler execution ceiling. Handlers exceeding
// it are treated as failed, not retried. Zero disables the ceiling.
func WithTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.timeout = d }
}

// WithLogger sets the manager logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithPolicies replaces the built-in policy table.
func WithPolicies(policies map[Kind]Policy) ManagerOption {
	return func(m *Manager) { m.policies = newPolicyTable(policies, m.policies.defaultAllow) }
}

// WithDefaultAllow makes kinds absent from the policy table fully
// writable instead of observe-only. This matches the permissive behavior
// of older deployments; the default is deny.
func WithDefaultAllow() ManagerOption {
	return func(m *Manager) { m.policies.defaultAllow = true }
}

// WithObserver attaches dispatch telemetry.
func WithObserver(o Observer) ManagerOption {
	return func(m *Manager) { m.observer = o }
}

// WithTracer enables one trace span per dispatch.
func WithTracer(t trace.Tracer) ManagerOption {
	return func(m *Manager) { m.tracer = t }
}

// WithNow overrides the clock. Only for testing.
func WithNow(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// New creates a Manager with the built-in policy table and a 5s
// per-handler timeout.
func New(opts ...ManagerOption) *Manager {
	m := &Manager{
		reg:      newRegistry(),
		policies: newPolicyTable(DefaultPolicies(), false),
		timeout:  defaultTimeout,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "hook")
	return m
}

// Shutdown clears all handlers and scopes and disables dispatch. Invoke
// becomes a no-op afterwards; registration calls return ErrShutdown.
func (m *Manager) Shutdown() {
	m.shut.Store(true)
	m.reg.clear()
}

// Register adds handlers, bundles, or sets for process lifetime. Set
// priorities are applied during flattening.
func (m *Manager) Register(items ...Registrable) error {
	return m.register("", items)
}

// RegisterScoped adds handlers under a caller-managed scope identifier.
// A later DeregisterScope(scopeID) removes exactly these registrations.
func (m *Manager) RegisterScoped(scopeID string, items ...Registrable) error {
	if scopeID == "" {
		return fmt.Errorf("hook: empty scope id")
	}
	return m.register(scopeID, items)
}

func (m *Manager) register(scope string, items []Registrable) error {
	if m.shut.Load() {
		return ErrShutdown
	}
	var flat []flatHandler
	for _, item := range items {
		if item == nil {
			return ErrNilHandler
		}
		f, err := item.flatten(nil)
		if err != nil {
			return err
		}
		flat = append(flat, f...)
	}
	var added []string
	for _, f := range flat {
		name, err := m.reg.add(f, scope)
		if err != nil {
			// Roll back so a failed call leaves the registry unchanged.
			for _, n := range added {
				m.reg.remove(n)
			}
			return err
		}
		added = append(added, name)
	}
	return nil
}

// Unregister removes a single handler by name. Reports whether it existed.
func (m *Manager) Unregister(name string) bool {
	return m.reg.remove(name)
}

// DeregisterScope removes every handler registered under the scope id,
// leaving global handlers and other scopes untouched.
func (m *Manager) DeregisterScope(scopeID string) {
	m.reg.removeScope(scopeID)
}

// HandlerCount returns the total number of registered handlers.
func (m *Manager) HandlerCount() int { return m.reg.size() }

// Handlers returns introspection views of all registered handlers.
func (m *Manager) Handlers() []RecordInfo { return m.reg.snapshot() }

// CountByKind returns the number of registered handlers per kind.
func (m *Manager) CountByKind() map[Kind]int { return m.reg.countByKind() }

// Invoke dispatches the payload to every handler subscribed to kind. When
// an Enforce (or FireAndForget) handler blocks, the error is a
// *ViolationError; the returned payload reflects mutations accepted before
// the block. A nil result with a nil error means no handler fired.
func (m *Manager) Invoke(ctx context.Context, kind Kind, p Payload, opts ...InvokeOption) (*Result, Payload, error) {
	res, out, err := m.Dispatch(ctx, kind, p, opts...)
	if err != nil {
		return res, out, err
	}
	if res != nil && !res.Continue && res.Violation != nil {
		v := res.Violation
		return res, out, &ViolationError{
			Hook:    kind,
			Reason:  v.Reason,
			Code:    v.Code,
			Handler: v.Handler,
		}
	}
	return res, out, nil
}

// Dispatch is the no-raise dispatch path: a block is reported through the
// Result instead of an error. The error return is reserved for unexpected
// handler failures (including timeouts), which are never retried.
func (m *Manager) Dispatch(ctx context.Context, kind Kind, p Payload, opts ...InvokeOption) (*Result, Payload, error) {
	// Entry guard: keep the no-plugin-configured path near zero overhead.
	if m.shut.Load() || !m.reg.hasHandlers(kind) {
		return nil, p, nil
	}
	if pk := p.Kind(); pk != "" && pk != kind {
		return nil, p, fmt.Errorf("hook: %s dispatched with %T payload (belongs to %s)", kind, p, pk)
	}

	var o invokeOpts
	for _, opt := range opts {
		opt(&o)
	}

	p = m.stamp(kind, p, &o)
	inv := &Invocation{
		Hook:      kind,
		RequestID: p.base().RequestID,
		ScopeID:   o.scopeID,
		Logger:    m.logger.With("hook", string(kind)),
		state:     o.state,
	}

	start := m.now()
	if m.tracer != nil {
		var span trace.Span
		ctx, span = m.tracer.Start(ctx, "hook.dispatch",
			trace.WithAttributes(attribute.String("hook.kind", string(kind))))
		defer span.End()
		res, out, err := m.run(ctx, kind, p, inv)
		m.finishSpan(span, res, err)
		m.observe(kind, res, err, m.now().Sub(start))
		return res, out, err
	}

	res, out, err := m.run(ctx, kind, p, inv)
	m.observe(kind, res, err, m.now().Sub(start))
	return res, out, err
}

// stamp sets the dispatch-time base fields on a fresh copy: the hook name
// always, the request and session identifiers only when absent.
func (m *Manager) stamp(kind Kind, p Payload, o *invokeOpts) Payload {
	b := p.base()
	b.Hook = kind
	if b.RequestID == "" {
		b.RequestID = o.requestID
		if b.RequestID == "" {
			b.RequestID = uuid.NewString()
		}
	}
	if b.SessionID == "" {
		b.SessionID = o.sessionID
	}
	if b.Timestamp.IsZero() {
		b.Timestamp = m.now().UTC()
	}
	return p.withBase(b)
}

// run executes the handler chain for one dispatch. Handlers execute
// sequentially in ascending priority order; a later handler observes
// every mutation accepted from earlier ones.
func (m *Manager) run(ctx context.Context, kind Kind, p Payload, inv *Invocation) (*Result, Payload, error) {
	writable := m.policies.writable(kind)

	for _, rec := range m.reg.handlersFor(kind) {
		res, err := m.call(ctx, rec, inv, p)
		if err != nil {
			return nil, p, fmt.Errorf("hook %s: handler %s: %w", kind, rec.name, err)
		}
		if res == nil {
			continue
		}
		if res.Continue {
			if res.Payload != nil {
				p = mergePayload(p, res.Payload, writable)
			}
			continue
		}

		// Block. A violation from a blocking result never contributes
		// mutations, whatever the mode.
		v := res.Violation
		if v == nil {
			v = &Violation{Reason: "blocked", Description: "blocked"}
		}
		if v.Handler == "" {
			v.Handler = rec.name
		}

		if rec.mode == Permissive {
			inv.Logger.Warn("permissive handler blocked",
				"handler", rec.name,
				"reason", v.Reason,
				"code", v.Code,
			)
			if m.observer != nil {
				m.observer.ObserveViolation(kind, v.Code)
			}
			continue
		}

		// Enforce and FireAndForget halt the chain here.
		return &Result{Continue: false, Violation: v}, p, nil
	}

	return &Result{Continue: true}, p, nil
}

// call runs one handler under the per-handler timeout. The handler runs
// in its own goroutine only so the deadline holds even when the handler
// ignores its context; handlers still execute one at a time.
func (m *Manager) call(ctx context.Context, rec *record, inv *Invocation, p Payload) (*Result, error) {
	if m.timeout <= 0 {
		return rec.fn(ctx, inv, p)
	}

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := rec.fn(cctx, inv, p)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-cctx.Done():
		return nil, fmt.Errorf("timed out after %s: %w", m.timeout, cctx.Err())
	}
}

func (m *Manager) observe(kind Kind, res *Result, err error, d time.Duration) {
	if m.observer == nil {
		return
	}
	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeError
	case res != nil && !res.Continue:
		outcome = OutcomeBlocked
		if res.Violation != nil {
			m.observer.ObserveViolation(kind, res.Violation.Code)
		}
	}
	m.observer.ObserveDispatch(kind, outcome, d)
}

func (m *Manager) finishSpan(span trace.Span, res *Result, err error) {
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case res != nil && !res.Continue:
		span.SetAttributes(attribute.String("hook.outcome", OutcomeBlocked))
		if res.Violation != nil {
			span.SetAttributes(attribute.String("hook.violation_code", res.Violation.Code))
		}
	default:
		span.SetAttributes(attribute.String("hook.outcome", OutcomeOK))
	}
}
