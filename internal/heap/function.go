package heap

import (
	"fmt"

	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/env"
	"github.com/cwbudde/tinyjs/internal/value"
)

// Caller is implemented by the evaluator and handed to native functions
// so they can call back into scripted Values (e.g. Array.prototype.map's
// callback argument) without heap importing internal/evaluator.
type Caller interface {
	Call(fn value.Value, this value.Value, args []value.Value) (value.Value, error)
}

// CallContext is what a NativeFunc receives on every invocation.
type CallContext struct {
	This   value.Value
	Args   []value.Value
	Caller Caller
	NewTarget value.Value // non-nil when invoked via `new`
}

// Arg returns ctx.Args[i], or undefined if the call was made with fewer
// arguments — native functions never index out of range directly.
func (c *CallContext) Arg(i int) value.Value {
	if i < 0 || i >= len(c.Args) {
		return value.Undefined{}
	}
	return c.Args[i]
}

// NativeFunc is a host-implemented callable (spec.md §3 Function:
// "native (host callable taking a Value vector)").
type NativeFunc func(ctx *CallContext) (value.Value, error)

// Function is either native or scripted (spec.md §3 Function).
// Grounded on internal/interp/runtime's callable conventions, generalized
// from DWScript's procedure/function split to ECMAScript's unified
// function value with {async, generator, arrow, constructor} flags.
type Function struct {
	meta value.RefMeta

	Name string

	Native NativeFunc // nil for scripted functions

	// Scripted function fields (unused when Native != nil).
	Params  []ast.Pattern
	Body    *ast.BlockStatement
	ExprBody ast.Expression // set instead of Body for arrow concise bodies
	Env     *env.Environment // captured lexical environment (spec.md invariant 5)

	Async     bool
	Generator bool
	Arrow     bool
	IsConstructor bool

	// Proto is the function object's own prototype link (typically
	// Function.prototype); PrototypeProperty is the `.prototype` object
	// new-expressions use as the constructed object's [[Prototype]].
	Proto             value.Value
	PrototypeProperty value.Value

	// HomeObject anchors `super.method()` resolution (spec.md §4.G) to
	// the class prototype this method was defined on.
	HomeObject value.Value

	// SuperCtor is the parent class's constructor Function, set when this
	// Function was built from a `class X extends Y` body. Construct walks
	// this chain (base class first) to run each class's own instance
	// field initializers before the constructor body executes.
	SuperCtor *Function

	// InstanceFields holds this class's own (non-static) field
	// initializers, evaluated against Env with `this` bound to the new
	// instance (spec.md §4.G class fields).
	InstanceFields []InstanceField

	ArityHint int // number of declared (non-rest) parameters, for .length
}

// InstanceField is one `class` body field declaration awaiting
// construction-time evaluation.
type InstanceField struct {
	Key  string
	Init ast.Expression // nil means "initialize to undefined"
}

func (f *Function) Kind() value.Kind        { return value.KindObject }
func (f *Function) TypeTag() string         { return "Function" }
func (f *Function) RefMeta() *value.RefMeta { return &f.meta }

func (f *Function) String() string {
	name := f.Name
	if name == "" {
		name = "anonymous"
	}
	if f.Native != nil {
		return fmt.Sprintf("function %s() { [native code] }", name)
	}
	return fmt.Sprintf("function %s() { ... }", name)
}

func (f *Function) Trace(yield func(value.Value)) {
	if f.Proto != nil {
		yield(f.Proto)
	}
	if f.PrototypeProperty != nil {
		yield(f.PrototypeProperty)
	}
	if f.HomeObject != nil {
		yield(f.HomeObject)
	}
	if f.SuperCtor != nil {
		yield(f.SuperCtor)
	}
	if f.Env != nil {
		f.Env.Range(func(_ string, v value.Value) bool {
			if v != nil {
				yield(v)
			}
			return true
		})
		// Captured environments form a chain; trace the whole chain so
		// that nothing reachable from this closure is collected early
		// (spec.md invariant 5).
		for outer := f.Env.Outer(); outer != nil; outer = outer.Outer() {
			outer.Range(func(_ string, v value.Value) bool {
				if v != nil {
					yield(v)
				}
				return true
			})
		}
	}
}

// NewNative wraps a Go function as a Function heap value.
func NewNative(name string, arity int, fn NativeFunc) *Function {
	return &Function{Name: name, Native: fn, ArityHint: arity}
}
