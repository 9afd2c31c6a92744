package hook

import "log/slog"

// State keys used by the typed Invocation accessors.
const (
	stateSession      = "session"
	stateBackend      = "backend"
	stateModelContext = "context"
)

// Invocation is the dispatch-scoped side channel handed to every handler.
// Domain objects (session, backend, conversation context) ride here, not
// on the payload, so handlers can reach the live object graph without the
// payload policy getting involved.
type Invocation struct {
	// Hook is the extension point being dispatched.
	Hook Kind

	// RequestID is the dispatch request identifier, matching the
	// payload's stamped value.
	RequestID string

	// ScopeID is the caller-declared scope for this dispatch, if any.
	ScopeID string

	// Logger is the manager's logger scoped to this dispatch.
	Logger *slog.Logger

	state map[string]any
}

// State returns the side-channel value for key.
func (inv *Invocation) State(key string) (any, bool) {
	v, ok := inv.state[key]
	return v, ok
}

// Session returns the active session object, or nil.
func (inv *Invocation) Session() any {
	return inv.state[stateSession]
}

// Backend returns the active backend object, or nil.
func (inv *Invocation) Backend() any {
	return inv.state[stateBackend]
}

// ModelContext returns the active conversation context object, or nil.
func (inv *Invocation) ModelContext() any {
	return inv.state[stateModelContext]
}

// invokeOpts collects per-dispatch options.
type invokeOpts struct {
	requestID string
	scopeID   string
	sessionID string
	state     map[string]any
}

// InvokeOption customizes one dispatch call.
type InvokeOption func(*invokeOpts)

// WithSession exposes the session object to handlers and stamps the
// payload's session id when the session implements interface{ SessionID() string }.
func WithSession(session any) InvokeOption {
	return func(o *invokeOpts) {
		o.setState(stateSession, session)
		if s, ok := session.(interface{ SessionID() string }); ok {
			o.sessionID = s.SessionID()
		}
	}
}

// WithSessionID stamps the payload's session id without exposing a
// session object.
func WithSessionID(id string) InvokeOption {
	return func(o *invokeOpts) { o.sessionID = id }
}

// WithBackend exposes the backend object to handlers.
func WithBackend(backend any) InvokeOption {
	return func(o *invokeOpts) { o.setState(stateBackend, backend) }
}

// WithModelContext exposes the conversation context object to handlers.
func WithModelContext(mctx any) InvokeOption {
	return func(o *invokeOpts) { o.setState(stateModelContext, mctx) }
}

// WithRequestID sets the request id stamped on the payload when the
// payload does not already carry one.
func WithRequestID(id string) InvokeOption {
	return func(o *invokeOpts) { o.requestID = id }
}

// WithScopeID tags the dispatch with a scope identifier, visible to
// handlers on the Invocation.
func WithScopeID(id string) InvokeOption {
	return func(o *invokeOpts) { o.scopeID = id }
}

// WithState adds an arbitrary side-channel entry.
func WithState(key string, value any) InvokeOption {
	return func(o *invokeOpts) { o.setState(key, value) }
}

func (o *invokeOpts) setState(key string, value any) {
	if o.state == nil {
		o.state = make(map[string]any)
	}
	o.state[key] = value
}
