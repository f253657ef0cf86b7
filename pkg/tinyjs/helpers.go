package tinyjs

import (
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// native builds and GC-registers a Function wrapping fn, the shape every
// install* helper in this package uses to populate a prototype object or
// the global environment (grounded on internal/evaluator/classes.go's
// evalClass native-constructor pattern).
func (it *Interpreter) native(name string, arity int, fn heap.NativeFunc) *heap.Function {
	f := heap.NewNative(name, arity, fn)
	f.Proto = it.Eval.Proto.Function
	it.Eval.GC.RegisterObject(f)
	return f
}

// method installs a native method named name onto proto.
func (it *Interpreter) method(proto *heap.Object, name string, arity int, fn heap.NativeFunc) {
	proto.Set(name, it.native(name, arity, fn))
}

// global binds name directly in the global environment.
func (it *Interpreter) global(name string, v value.Value) {
	it.Global.Define(name, v, false)
}

// newObject allocates and registers a plain Object linked to proto.
func (it *Interpreter) newObject(proto value.Value) *heap.Object {
	o := heap.NewObject(proto)
	it.Eval.GC.RegisterObject(o)
	return o
}

// newArray allocates and registers an Array.
func (it *Interpreter) newArray(elems ...value.Value) *heap.Array {
	a := heap.NewArray(it.Eval.Proto.Array, elems...)
	it.Eval.GC.RegisterObject(a)
	return a
}

// throwError raises a catchable script error of the given kind (native
// functions cannot reach the unexported evaluator.throwf helper directly).
func (it *Interpreter) throwError(kind errstack.Kind, format string, args ...any) error {
	return it.Eval.Throw(kind, format, args...)
}
