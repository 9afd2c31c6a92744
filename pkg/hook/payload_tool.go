package hook

// ToolPreInvoke is the payload for tool_pre_invoke, dispatched before a
// tool call. Arguments are writable so handlers can sanitize or rewrite
// them before execution.
type ToolPreInvoke struct {
	Base
	ToolName      string         `hook:"tool_name"`
	ToolArgs      map[string]any `hook:"tool_args"`
	ToolCallable  any            `hook:"tool_callable"`
	ModelToolCall any            `hook:"model_tool_call"`
}

func (p ToolPreInvoke) Kind() Kind { return ToolPreInvokeKind }
func (p ToolPreInvoke) withBase(b Base) Payload { p.Base = b; return p }

// ToolPostInvoke is the payload for tool_post_invoke, dispatched after a
// tool call returns. Only the output is writable.
type ToolPostInvoke struct {
	Base
	ToolName        string         `hook:"tool_name"`
	ToolArgs        map[string]any `hook:"tool_args"`
	ToolOutput      any            `hook:"tool_output"`
	ToolMessage     any            `hook:"tool_message"`
	ExecutionTimeMS int64          `hook:"execution_time_ms"`
	Success         bool           `hook:"success"`
	Err             error          `hook:"error"`
}

func (p ToolPostInvoke) Kind() Kind { return ToolPostInvokeKind }
func (p ToolPostInvoke) withBase(b Base) Payload { p.Base = b; return p }

// payloadPrototypes maps each kind to a zero payload of its concrete type.
// Reserved kinds map to the generic Event envelope.
var payloadPrototypes = map[Kind]Payload{
	SessionPreInitKind:        SessionPreInit{},
	SessionPostInitKind:       SessionPostInit{},
	SessionResetKind:          SessionReset{},
	SessionCleanupKind:        SessionCleanup{},
	ComponentPreCreateKind:    ComponentPreCreate{},
	ComponentPostCreateKind:   ComponentPostCreate{},
	ComponentPreExecuteKind:   ComponentPreExecute{},
	ComponentPostSuccessKind:  ComponentPostSuccess{},
	ComponentPostErrorKind:    ComponentPostError{},
	GenerationPreCallKind:     GenerationPreCall{},
	GenerationPostCallKind:    GenerationPostCall{},
	GenerationStreamChunkKind: GenerationStreamChunk{},
	ValidationPreCheckKind:    ValidationPreCheck{},
	ValidationPostCheckKind:   ValidationPostCheck{},
	SamplingLoopStartKind:     SamplingLoopStart{},
	SamplingIterationKind:     SamplingIteration{},
	SamplingRepairKind:        SamplingRepair{},
	SamplingLoopEndKind:       SamplingLoopEnd{},
	ToolPreInvokeKind:         ToolPreInvoke{},
	ToolPostInvokeKind:        ToolPostInvoke{},
	AdapterPreLoadKind:        Event{},
	AdapterPostLoadKind:       Event{},
	AdapterPreUnloadKind:      Event{},
	AdapterPostUnloadKind:     Event{},
	ContextUpdateKind:         Event{},
	ContextPruneKind:          Event{},
	ErrorOccurredKind:         Event{},
}

// Fields returns the payload field names declared for the given kind, in
// struct order. Returns nil for unknown kinds.
func Fields(kind Kind) []string {
	proto, ok := payloadPrototypes[kind]
	if !ok {
		return nil
	}
	return payloadFields(proto)
}
