package hook

// ComponentPreCreate is the payload for component_pre_create, dispatched
// before a component is built from its inputs. Most construction inputs
// are writable so handlers can rewrite prompts, inject requirements, or
// attach grounding context.
type ComponentPreCreate struct {
	Base
	ComponentType    string            `hook:"component_type"`
	Description      string            `hook:"description"`
	Images           []any             `hook:"images"`
	Requirements     []any             `hook:"requirements"`
	ICLExamples      []any             `hook:"icl_examples"`
	GroundingContext map[string]any    `hook:"grounding_context"`
	UserVariables    map[string]string `hook:"user_variables"`
	Prefix           any               `hook:"prefix"`
	TemplateID       string            `hook:"template_id"`
}

func (p ComponentPreCreate) Kind() Kind { return ComponentPreCreateKind }
func (p ComponentPreCreate) withBase(b Base) Payload { p.Base = b; return p }

// ComponentPostCreate is the payload for component_post_create, dispatched
// after a component is created and before it executes.
type ComponentPostCreate struct {
	Base
	ComponentType string `hook:"component_type"`
	Component     any    `hook:"component"`
}

func (p ComponentPostCreate) Kind() Kind { return ComponentPostCreateKind }
func (p ComponentPostCreate) withBase(b Base) Payload { p.Base = b; return p }

// ComponentPreExecute is the payload for component_pre_execute, dispatched
// before a component runs through the acting pipeline.
type ComponentPreExecute struct {
	Base
	ComponentType    string         `hook:"component_type"`
	Action           any            `hook:"action"`
	Context          any            `hook:"context"`
	ContextView      []any          `hook:"context_view"`
	Requirements     []any          `hook:"requirements"`
	ModelOptions     map[string]any `hook:"model_options"`
	Format           any            `hook:"format"`
	Strategy         any            `hook:"strategy"`
	ToolCallsEnabled bool           `hook:"tool_calls_enabled"`
}

func (p ComponentPreExecute) Kind() Kind { return ComponentPreExecuteKind }
func (p ComponentPreExecute) withBase(b Base) Payload { p.Base = b; return p }

// ComponentPostSuccess is the payload for component_post_success,
// dispatched after a component executed successfully. Only the result is
// writable.
type ComponentPostSuccess struct {
	Base
	ComponentType   string `hook:"component_type"`
	Action          any    `hook:"action"`
	Result          any    `hook:"result"`
	ContextBefore   any    `hook:"context_before"`
	ContextAfter    any    `hook:"context_after"`
	GenerateLog     any    `hook:"generate_log"`
	SamplingResults []any  `hook:"sampling_results"`
	LatencyMS       int64  `hook:"latency_ms"`
}

func (p ComponentPostSuccess) Kind() Kind { return ComponentPostSuccessKind }
func (p ComponentPostSuccess) withBase(b Base) Payload { p.Base = b; return p }

// ComponentPostError is the payload for component_post_error, dispatched
// after a component execution failed. Observe-only.
type ComponentPostError struct {
	Base
	ComponentType string         `hook:"component_type"`
	Action        any            `hook:"action"`
	Err           error          `hook:"error"`
	ErrorType     string         `hook:"error_type"`
	StackTrace    string         `hook:"stack_trace"`
	Context       any            `hook:"context"`
	ModelOptions  map[string]any `hook:"model_options"`
}

func (p ComponentPostError) Kind() Kind { return ComponentPostErrorKind }
func (p ComponentPostError) withBase(b Base) Payload { p.Base = b; return p }
