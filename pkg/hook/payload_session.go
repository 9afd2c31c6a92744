package hook

// SessionPreInit is the payload for session_pre_init, dispatched before
// backend initialization. The backend selection fields are writable, so a
// handler can redirect a session to a different backend or model.
type SessionPreInit struct {
	Base
	BackendName   string         `hook:"backend_name"`
	ModelID       string         `hook:"model_id"`
	ModelOptions  map[string]any `hook:"model_options"`
	BackendKwargs map[string]any `hook:"backend_kwargs"`
	ContextType   string         `hook:"context_type"`
}

func (p SessionPreInit) Kind() Kind { return SessionPreInitKind }
func (p SessionPreInit) withBase(b Base) Payload { p.Base = b; return p }

// SessionPostInit is the payload for session_post_init, dispatched after a
// session is fully initialized. Observe-only.
type SessionPostInit struct {
	Base
	Session any `hook:"session"`
}

func (p SessionPostInit) Kind() Kind { return SessionPostInitKind }
func (p SessionPostInit) withBase(b Base) Payload { p.Base = b; return p }

// SessionReset is the payload for session_reset, dispatched when the
// session context is reset. Observe-only.
type SessionReset struct {
	Base
	PreviousContext any `hook:"previous_context"`
}

func (p SessionReset) Kind() Kind { return SessionResetKind }
func (p SessionReset) withBase(b Base) Payload { p.Base = b; return p }

// SessionCleanup is the payload for session_cleanup, dispatched before
// session teardown. Observe-only.
type SessionCleanup struct {
	Base
	Context          any `hook:"context"`
	InteractionCount int `hook:"interaction_count"`
}

func (p SessionCleanup) Kind() Kind { return SessionCleanupKind }
func (p SessionCleanup) withBase(b Base) Payload { p.Base = b; return p }
