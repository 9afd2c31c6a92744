package hook

// ValidationPreCheck is the payload for validation_pre_check, dispatched
// before requirement validation runs.
type ValidationPreCheck struct {
	Base
	Requirements []any          `hook:"requirements"`
	Target       any            `hook:"target"`
	Context      any            `hook:"context"`
	ModelOptions map[string]any `hook:"model_options"`
}

func (p ValidationPreCheck) Kind() Kind { return ValidationPreCheckKind }
func (p ValidationPreCheck) withBase(b Base) Payload { p.Base = b; return p }

// ValidationPostCheck is the payload for validation_post_check, dispatched
// after validation completes. Results and the aggregate flag are writable
// so a handler can veto or amend validation outcomes.
type ValidationPostCheck struct {
	Base
	Requirements []any `hook:"requirements"`
	Results      []any `hook:"results"`
	AllPassed    bool  `hook:"all_passed"`
	PassedCount  int   `hook:"passed_count"`
	FailedCount  int   `hook:"failed_count"`
}

func (p ValidationPostCheck) Kind() Kind { return ValidationPostCheckKind }
func (p ValidationPostCheck) withBase(b Base) Payload { p.Base = b; return p }
