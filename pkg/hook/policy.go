package hook

// Policy whitelists the payload fields handlers may change at one
// extension point. Kinds absent from the manager's policy table are
// observe-only: every proposed field change is silently discarded.
type Policy struct {
	Writable []string
}

// policySet is the lookup form of a Policy.
type policySet map[string]struct{}

func (p Policy) set() policySet {
	s := make(policySet, len(p.Writable))
	for _, f := range p.Writable {
		s[f] = struct{}{}
	}
	return s
}

// DefaultPolicies returns the built-in policy table. Kinds not listed are
// observe-only by default: session_post_init, session_reset,
// session_cleanup, component_post_error, sampling_iteration, and every
// reserved kind.
func DefaultPolicies() map[Kind]Policy {
	return map[Kind]Policy{
		SessionPreInitKind: {Writable: []string{
			"backend_name", "model_id", "model_options", "backend_kwargs",
		}},
		ComponentPreCreateKind: {Writable: []string{
			"description", "images", "requirements", "icl_examples",
			"grounding_context", "user_variables", "prefix", "template_id",
		}},
		ComponentPostCreateKind: {Writable: []string{"component"}},
		ComponentPreExecuteKind: {Writable: []string{
			"action", "context", "context_view", "requirements",
			"model_options", "format", "strategy", "tool_calls_enabled",
		}},
		ComponentPostSuccessKind: {Writable: []string{"result"}},
		GenerationPreCallKind: {Writable: []string{
			"model_options", "tools", "format",
		}},
		GenerationPostCallKind:    {Writable: []string{"model_output"}},
		GenerationStreamChunkKind: {Writable: []string{"chunk", "accumulated"}},
		ValidationPreCheckKind: {Writable: []string{
			"requirements", "model_options",
		}},
		ValidationPostCheckKind: {Writable: []string{"results", "all_passed"}},
		SamplingLoopStartKind:   {Writable: []string{"loop_budget"}},
		SamplingRepairKind: {Writable: []string{
			"repair_action", "repair_context",
		}},
		SamplingLoopEndKind: {Writable: []string{"final_result"}},
		ToolPreInvokeKind:   {Writable: []string{"tool_args"}},
		ToolPostInvokeKind:  {Writable: []string{"tool_output"}},
	}
}

// policyTable is the manager's compiled, read-only policy lookup.
type policyTable struct {
	byKind       map[Kind]policySet
	defaultAllow bool
}

func newPolicyTable(policies map[Kind]Policy, defaultAllow bool) *policyTable {
	t := &policyTable{
		byKind:       make(map[Kind]policySet, len(policies)),
		defaultAllow: defaultAllow,
	}
	for k, p := range policies {
		t.byKind[k] = p.set()
	}
	return t
}

// writable returns the writable field set for a kind. For kinds absent
// from the table the default is deny (nil set); with defaultAllow the
// full declared field set of the kind's payload becomes writable, which
// matches the permissive behavior some deployments rely on.
func (t *policyTable) writable(kind Kind) policySet {
	if s, ok := t.byKind[kind]; ok {
		return s
	}
	if !t.defaultAllow {
		return nil
	}
	proto, ok := payloadPrototypes[kind]
	if !ok {
		return nil
	}
	s := make(policySet)
	for _, f := range payloadFields(proto) {
		s[f] = struct{}{}
	}
	return s
}
