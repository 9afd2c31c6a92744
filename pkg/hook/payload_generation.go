package hook

// GenerationPreCall is the payload for generation_pre_call, dispatched
// before an LLM backend call. FormattedPrompt holds either a string or a
// message list depending on the backend.
type GenerationPreCall struct {
	Base
	Action          any            `hook:"action"`
	Context         any            `hook:"context"`
	FormattedPrompt any            `hook:"formatted_prompt"`
	ModelOptions    map[string]any `hook:"model_options"`
	Tools           map[string]any `hook:"tools"`
	Format          any            `hook:"format"`
}

func (p GenerationPreCall) Kind() Kind { return GenerationPreCallKind }
func (p GenerationPreCall) withBase(b Base) Payload { p.Base = b; return p }

// GenerationPostCall is the payload for generation_post_call, dispatched
// after an LLM response is received. Only the model output is writable.
type GenerationPostCall struct {
	Base
	Prompt          any            `hook:"prompt"`
	RawResponse     map[string]any `hook:"raw_response"`
	ProcessedOutput string         `hook:"processed_output"`
	ModelOutput     any            `hook:"model_output"`
	TokenUsage      map[string]any `hook:"token_usage"`
	LatencyMS       int64          `hook:"latency_ms"`
	FinishReason    string         `hook:"finish_reason"`
}

func (p GenerationPostCall) Kind() Kind { return GenerationPostCallKind }
func (p GenerationPostCall) withBase(b Base) Payload { p.Base = b; return p }

// GenerationStreamChunk is the payload for generation_stream_chunk,
// dispatched once per streaming chunk.
type GenerationStreamChunk struct {
	Base
	Chunk       string `hook:"chunk"`
	Accumulated string `hook:"accumulated"`
	ChunkIndex  int    `hook:"chunk_index"`
	IsFinal     bool   `hook:"is_final"`
}

func (p GenerationStreamChunk) Kind() Kind { return GenerationStreamChunkKind }
func (p GenerationStreamChunk) withBase(b Base) Payload { p.Base = b; return p }
