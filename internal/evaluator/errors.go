package evaluator

import (
	"fmt"

	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// throwf builds a tinyjs Error heap object of the given kind with a
// stack snapshot from it.Stack and returns it wrapped as a *ThrowSignal,
// ready to propagate through an error return (spec.md §4.J: "every
// throw site captures the call stack at the moment of the throw").
func (it *Interpreter) throwf(kind errstack.Kind, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	proto := it.Proto.Error[kind]
	eo := heap.NewErrorObject(kind, msg, it.Stack.Snapshot(), errProtoValue(proto))
	it.registerHeap(eo)
	return throwValue(eo)
}

// Throw is the exported form of throwf, for native functions defined
// outside this package (pkg/tinyjs's data-model constructors) that need
// to raise a catchable script error.
func (it *Interpreter) Throw(kind errstack.Kind, format string, args ...any) error {
	return it.throwf(kind, format, args...)
}

func errProtoValue(o *heap.Object) value.Value {
	if o == nil {
		return value.Null{}
	}
	return o
}

// registerHeap admits a freshly allocated heap value into the GC
// registry, surfacing ErrHeapLimitExceeded as a non-catchable RangeError
// rather than a script-catchable throw (spec.md §4.F/§7).
func (it *Interpreter) registerHeap(hv value.HeapValue) error {
	if err := it.GC.RegisterObject(hv); err != nil {
		return err // *gc.ErrHeapLimitExceeded: host-level, not a ThrowSignal
	}
	return nil
}
