package heap

import (
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/value"
)

// ErrorObject is the heap-resident Error value (spec.md §3 Error): kind,
// message, a stack snapshot captured at throw time, and an optional
// cause. Grounded on internal/interp/runtime/exception.go from the
// teacher (the name/message/stack trio), extended with spec.md's
// `cause` field.
type ErrorObject struct {
	meta value.RefMeta

	ErrKind errstack.Kind
	Message string
	Stack   []errstack.Frame
	Cause   value.Value // nil if no cause was supplied
	Proto   value.Value

	// Extra carries additional own properties assigned onto the error
	// object by script code (`err.code = "EBADF"`, etc).
	Extra *Object
}

// NewErrorObject creates an Error heap value with a stack snapshot
// already captured.
func NewErrorObject(kind errstack.Kind, message string, stack []errstack.Frame, proto value.Value) *ErrorObject {
	return &ErrorObject{ErrKind: kind, Message: message, Stack: stack, Proto: proto}
}

func (e *ErrorObject) Kind() value.Kind        { return value.KindObject }
func (e *ErrorObject) TypeTag() string         { return string(e.ErrKind) }
func (e *ErrorObject) RefMeta() *value.RefMeta { return &e.meta }

func (e *ErrorObject) String() string {
	if e.Message == "" {
		return string(e.ErrKind)
	}
	return string(e.ErrKind) + ": " + e.Message
}

// Format renders the full "<Name>: <message>\n  at ..." trace (spec.md
// §4.J), optionally with a source-context window.
func (e *ErrorObject) Format(ctx *errstack.SourceContext) string {
	se := &errstack.ScriptError{ErrKind: e.ErrKind, Message: e.Message, Stack: e.Stack, Context: ctx}
	return se.Format()
}

func (e *ErrorObject) Trace(yield func(value.Value)) {
	if e.Cause != nil {
		yield(e.Cause)
	}
	if e.Proto != nil {
		yield(e.Proto)
	}
	if e.Extra != nil {
		yield(e.Extra)
	}
}
