package hook

// SamplingLoopStart is the payload for sampling_loop_start, dispatched
// when a sampling strategy begins. The loop budget is writable so a
// handler can raise or cap the retry allowance.
type SamplingLoopStart struct {
	Base
	StrategyName string `hook:"strategy_name"`
	Action       any    `hook:"action"`
	Context      any    `hook:"context"`
	Requirements []any  `hook:"requirements"`
	LoopBudget   int    `hook:"loop_budget"`
}

func (p SamplingLoopStart) Kind() Kind { return SamplingLoopStartKind }
func (p SamplingLoopStart) withBase(b Base) Payload { p.Base = b; return p }

// SamplingIteration is the payload for sampling_iteration, dispatched
// after each sampling attempt. Observe-only.
type SamplingIteration struct {
	Base
	Iteration         int   `hook:"iteration"`
	Action            any   `hook:"action"`
	Result            any   `hook:"result"`
	ValidationResults []any `hook:"validation_results"`
	AllValid          bool  `hook:"all_valid"`
	ValidCount        int   `hook:"valid_count"`
	TotalCount        int   `hook:"total_count"`
}

func (p SamplingIteration) Kind() Kind { return SamplingIterationKind }
func (p SamplingIteration) withBase(b Base) Payload { p.Base = b; return p }

// SamplingRepair is the payload for sampling_repair, dispatched when
// repair is invoked after a validation failure.
type SamplingRepair struct {
	Base
	RepairType        string `hook:"repair_type"`
	FailedAction      any    `hook:"failed_action"`
	FailedResult      any    `hook:"failed_result"`
	FailedValidations []any  `hook:"failed_validations"`
	RepairAction      any    `hook:"repair_action"`
	RepairContext     any    `hook:"repair_context"`
	RepairIteration   int    `hook:"repair_iteration"`
}

func (p SamplingRepair) Kind() Kind { return SamplingRepairKind }
func (p SamplingRepair) withBase(b Base) Payload { p.Base = b; return p }

// SamplingLoopEnd is the payload for sampling_loop_end, dispatched when
// sampling completes. Only the final result is writable.
type SamplingLoopEnd struct {
	Base
	Success        bool    `hook:"success"`
	IterationsUsed int     `hook:"iterations_used"`
	FinalResult    any     `hook:"final_result"`
	FinalAction    any     `hook:"final_action"`
	FinalContext   any     `hook:"final_context"`
	FailureReason  string  `hook:"failure_reason"`
	AllResults     []any   `hook:"all_results"`
	AllValidations [][]any `hook:"all_validations"`
}

func (p SamplingLoopEnd) Kind() Kind { return SamplingLoopEndKind }
func (p SamplingLoopEnd) withBase(b Base) Payload { p.Base = b; return p }
