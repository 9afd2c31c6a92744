// Package hook implements the extension-point dispatch engine for graft.
// External code registers handlers against named kinds (extension points in
// an LLM generation pipeline); callers build an immutable payload and invoke
// a kind, and the manager runs the subscribed handlers in priority order,
// threading policy-filtered payload mutations from one handler to the next.
// A handler can observe, modify writable payload fields, or block the
// dispatch entirely depending on its execution mode.
package hook

// Kind identifies one extension point in the generation pipeline.
type Kind string

// Session lifecycle kinds.
const (
	SessionPreInitKind  Kind = "session_pre_init"
	SessionPostInitKind Kind = "session_post_init"
	SessionResetKind    Kind = "session_reset"
	SessionCleanupKind  Kind = "session_cleanup"
)

// Component lifecycle kinds.
const (
	ComponentPreCreateKind   Kind = "component_pre_create"
	ComponentPostCreateKind  Kind = "component_post_create"
	ComponentPreExecuteKind  Kind = "component_pre_execute"
	ComponentPostSuccessKind Kind = "component_post_success"
	ComponentPostErrorKind   Kind = "component_post_error"
)

// Generation pipeline kinds.
const (
	GenerationPreCallKind     Kind = "generation_pre_call"
	GenerationPostCallKind    Kind = "generation_post_call"
	GenerationStreamChunkKind Kind = "generation_stream_chunk"
)

// Validation kinds.
const (
	ValidationPreCheckKind  Kind = "validation_pre_check"
	ValidationPostCheckKind Kind = "validation_post_check"
)

// Sampling pipeline kinds.
const (
	SamplingLoopStartKind Kind = "sampling_loop_start"
	SamplingIterationKind Kind = "sampling_iteration"
	SamplingRepairKind    Kind = "sampling_repair"
	SamplingLoopEndKind   Kind = "sampling_loop_end"
)

// Tool invocation kinds.
const (
	ToolPreInvokeKind  Kind = "tool_pre_invoke"
	ToolPostInvokeKind Kind = "tool_post_invoke"
)

// Reserved kinds. These carry only the base Event envelope; no
// point-specific payload type is defined for them yet.
const (
	AdapterPreLoadKind    Kind = "adapter_pre_load"
	AdapterPostLoadKind   Kind = "adapter_post_load"
	AdapterPreUnloadKind  Kind = "adapter_pre_unload"
	AdapterPostUnloadKind Kind = "adapter_post_unload"
	ContextUpdateKind     Kind = "context_update"
	ContextPruneKind      Kind = "context_prune"
	ErrorOccurredKind     Kind = "error_occurred"
)

// kinds is the full catalog in declaration order.
var kinds = []Kind{
	SessionPreInitKind, SessionPostInitKind, SessionResetKind, SessionCleanupKind,
	ComponentPreCreateKind, ComponentPostCreateKind, ComponentPreExecuteKind,
	ComponentPostSuccessKind, ComponentPostErrorKind,
	GenerationPreCallKind, GenerationPostCallKind, GenerationStreamChunkKind,
	ValidationPreCheckKind, ValidationPostCheckKind,
	SamplingLoopStartKind, SamplingIterationKind, SamplingRepairKind, SamplingLoopEndKind,
	ToolPreInvokeKind, ToolPostInvokeKind,
	AdapterPreLoadKind, AdapterPostLoadKind, AdapterPreUnloadKind, AdapterPostUnloadKind,
	ContextUpdateKind, ContextPruneKind, ErrorOccurredKind,
}

var kindSet = func() map[Kind]struct{} {
	m := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		m[k] = struct{}{}
	}
	return m
}()

// Kinds returns the full extension-point catalog in declaration order.
// The returned slice is a copy.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Valid reports whether k is a known extension point.
func (k Kind) Valid() bool {
	_, ok := kindSet[k]
	return ok
}

// Mode governs how a handler's block affects the dispatch chain.
type Mode int

const (
	// Enforce stops the dispatch chain on a block and surfaces the
	// violation to the caller.
	Enforce Mode = iota

	// Permissive logs a block and continues with the next handler; the
	// caller never sees the violation as an error.
	Permissive

	// FireAndForget is executed inline and blocks like Enforce. The
	// distinct mode exists so registrations stay stable if a background
	// dispatch path is added later.
	FireAndForget
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case Enforce:
		return "enforce"
	case Permissive:
		return "permissive"
	case FireAndForget:
		return "fire_and_forget"
	default:
		return "unknown"
	}
}

// DefaultPriority is the priority assigned to handlers that do not declare
// one. Lower priorities run earlier.
const DefaultPriority = 50
