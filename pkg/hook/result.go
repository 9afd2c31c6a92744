package hook

// Violation is the structured outcome of a blocking handler.
type Violation struct {
	// Reason is the short human-readable cause.
	Reason string

	// Code is the machine-readable violation code.
	Code string

	// Description elaborates on Reason; defaults to Reason when empty.
	Description string

	// Details carries optional structured context.
	Details map[string]any

	// Handler is the name of the blocking handler, filled in by the
	// manager during dispatch.
	Handler string
}

// Result is a handler's verdict on one dispatch step.
type Result struct {
	// Continue tells the manager whether to keep running the chain.
	Continue bool

	// Payload, when non-nil, is the handler's proposed replacement
	// payload. The manager accepts only changes to fields in the
	// extension point's writable set.
	Payload Payload

	// Violation is set when Continue is false.
	Violation *Violation
}

// Allow returns a continue-unchanged result. Returning nil from a handler
// means the same thing.
func Allow() *Result {
	return &Result{Continue: true}
}

// Modify returns a continue result proposing p as the new payload.
// Changes outside the extension point's writable field set are discarded
// without feedback; handlers do not need to know the whitelist to be safe.
func Modify(p Payload) *Result {
	return &Result{Continue: true, Payload: p}
}

// BlockOption customizes a blocking result.
type BlockOption func(*Violation)

// WithCode sets the machine-readable violation code.
func WithCode(code string) BlockOption {
	return func(v *Violation) { v.Code = code }
}

// WithDescription sets the long-form description.
func WithDescription(desc string) BlockOption {
	return func(v *Violation) { v.Description = desc }
}

// WithDetails attaches structured details to the violation.
func WithDetails(details map[string]any) BlockOption {
	return func(v *Violation) { v.Details = details }
}

// Block returns a blocking result with the given reason. Under Enforce
// (and FireAndForget) the manager halts the chain and surfaces the
// violation; under Permissive it is logged and the chain continues.
func Block(reason string, opts ...BlockOption) *Result {
	v := &Violation{Reason: reason}
	for _, opt := range opts {
		opt(v)
	}
	if v.Description == "" {
		v.Description = reason
	}
	return &Result{Continue: false, Violation: v}
}
