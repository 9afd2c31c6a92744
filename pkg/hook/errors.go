package hook

import (
	"errors"
	"fmt"
)

// Registration and scope errors.
var (
	// ErrUnknownKind is returned when a handler subscribes to an
	// extension point that is not in the catalog.
	ErrUnknownKind = errors.New("hook: unknown extension point")

	// ErrNilHandler is returned when a handler record has no callable.
	ErrNilHandler = errors.New("hook: nil handler func")

	// ErrDuplicateName is returned when a handler name is already
	// registered.
	ErrDuplicateName = errors.New("hook: duplicate handler name")

	// ErrScopeActive is returned when a bundle or set is opened as a
	// scope while a previous scope on the same instance is still open.
	ErrScopeActive = errors.New("hook: instance already active in an open scope")

	// ErrShutdown is returned by registration calls after Shutdown.
	ErrShutdown = errors.New("hook: manager is shut down")
)

// ViolationError surfaces a blocking handler's verdict to Invoke callers.
type ViolationError struct {
	Hook    Kind
	Reason  string
	Code    string
	Handler string
}

// Error implements error.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("hook %s blocked by %s: %s (code %s)",
		e.Hook, e.Handler, e.Reason, e.Code)
}

// AsViolation extracts a *ViolationError from err, if present.
func AsViolation(err error) (*ViolationError, bool) {
	var ve *ViolationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
