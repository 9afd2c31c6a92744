package hook

import (
	"reflect"
	"time"
)

// Payload is the immutable data envelope passed through handlers at one
// extension point. Concrete payloads are plain structs stored by value
// inside the interface: a handler that wants to propose a change asserts
// the concrete type (receiving a copy), edits the copy, and returns it via
// Modify. The original instance is never touched.
//
// Reference-typed fields (maps, slices, embedded domain objects) are shared
// between copies on purpose: handlers inspect and act on the live object
// graph, so retaining a payload keeps its referenced objects alive.
type Payload interface {
	// Kind returns the extension point this payload belongs to, or ""
	// for a generic Event that has not been stamped yet.
	Kind() Kind

	base() Base
	withBase(Base) Payload
}

// Base carries the fields present on every payload. The Hook field is
// stamped by the manager at dispatch time and is never handler-writable.
type Base struct {
	SessionID    string
	RequestID    string
	Timestamp    time.Time
	Hook         Kind
	UserMetadata map[string]any
}

// NewBase returns a Base stamped with the current time.
func NewBase() Base {
	return Base{Timestamp: time.Now().UTC()}
}

func (b Base) base() Base { return b }

// BaseOf returns the base fields of any payload.
func BaseOf(p Payload) Base { return p.base() }

// Event is the base-only payload used with reserved kinds (adapter
// lifecycle, context operations, generic errors) that have no dedicated
// payload type. Details is observe-only.
type Event struct {
	Base
	Details map[string]any `hook:"details"`
}

// Kind returns the stamped hook kind; empty before dispatch.
func (p Event) Kind() Kind { return p.Hook }

func (p Event) withBase(b Base) Payload { p.Base = b; return p }

// mergePayload builds the payload handed to the next handler: it starts
// from cur and copies over only the proposed values of fields whose
// hook tag is in the writable set. Base fields and untagged fields always
// keep their current values; a proposal of a different concrete type is
// ignored entirely.
//
// The merge is driven by the policy's explicit field-name set, never by
// value comparison: several fields carry reference-identity-sensitive
// domain objects with no equality defined.
func mergePayload(cur, proposed Payload, writable map[string]struct{}) Payload {
	if len(writable) == 0 {
		return cur
	}
	cv := reflect.ValueOf(cur)
	pv := reflect.ValueOf(proposed)
	if cv.Type() != pv.Type() || cv.Kind() != reflect.Struct {
		return cur
	}

	out := reflect.New(cv.Type()).Elem()
	out.Set(cv)

	t := cv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous {
			continue
		}
		name := f.Tag.Get("hook")
		if name == "" {
			continue
		}
		if _, ok := writable[name]; !ok {
			continue
		}
		out.Field(i).Set(pv.Field(i))
	}
	return out.Interface().(Payload)
}

// payloadFields returns the hook tag names declared by the payload's
// concrete type, in field order. Used by introspection surfaces.
func payloadFields(p Payload) []string {
	t := reflect.TypeOf(p)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Anonymous {
			continue
		}
		if name := f.Tag.Get("hook"); name != "" {
			names = append(names, name)
		}
	}
	return names
}
