// Package env implements the lexical binding-frame Environment described
// in spec.md §4.E: parent-pointer chains, let/const/var scoping, the
// temporal dead zone, and const-rebind rejection.
//
// Grounded directly on internal/interp/runtime/environment.go from the
// teacher — the parent-chain Get/Set/Define/Has shape is kept nearly
// verbatim — generalized from DWScript's case-insensitive identifiers
// (backed by pkg/ident.Map) to ECMAScript's case-sensitive ones (backed
// by a plain Go map), and extended with const-flags and TDZ sentinels
// that DWScript's Object Pascal binding model has no equivalent for.
package env

import (
	"fmt"

	"github.com/cwbudde/tinyjs/internal/value"
)

// tdz is a private sentinel value stored for a let/const binding between
// its declaration entering scope and its initializer running. Reading it
// is a ReferenceError (spec.md §4.E temporal dead zone).
type tdz struct{}

func (tdz) Kind() value.Kind { return value.KindUndefined }
func (tdz) String() string   { return "<uninitialized>" }

// TDZ is the shared sentinel; callers compare bindings against it via
// IsTDZ rather than constructing their own.
var TDZ value.Value = tdz{}

// IsTDZ reports whether v is the temporal-dead-zone sentinel.
func IsTDZ(v value.Value) bool {
	_, ok := v.(tdz)
	return ok
}

type binding struct {
	value   value.Value
	isConst bool
}

// Environment is a single lexical binding frame, per spec.md §3/§4.E.
type Environment struct {
	store map[string]*binding
	outer *Environment
	// isFunctionScope marks frames created for a function body (as
	// opposed to a block); `var` declarations hoist to the nearest
	// isFunctionScope ancestor (spec.md §4.E).
	isFunctionScope bool
}

// NewGlobal creates a root frame with no outer scope. Host built-ins are
// installed into it by the caller (spec.md §6 createGlobal).
func NewGlobal() *Environment {
	return &Environment{store: make(map[string]*binding), isFunctionScope: true}
}

// NewChild creates a new block-scoped frame enclosed by e.
func (e *Environment) NewChild() *Environment {
	return &Environment{store: make(map[string]*binding), outer: e}
}

// NewFunctionChild creates a new function-scoped frame enclosed by e;
// `var` declarations anywhere inside its body hoist here.
func (e *Environment) NewFunctionChild() *Environment {
	return &Environment{store: make(map[string]*binding), outer: e, isFunctionScope: true}
}

// Outer returns the parent frame, or nil at the root.
func (e *Environment) Outer() *Environment { return e.outer }

// FunctionScope returns the nearest function-scoped frame starting at e
// (inclusive), the hoist target for `var` declarations.
func (e *Environment) FunctionScope() *Environment {
	for f := e; f != nil; f = f.outer {
		if f.isFunctionScope {
			return f
		}
	}
	return e
}

// Define creates name in this frame. Re-defining an existing name in the
// same frame overwrites it (used for `var` re-declaration, and for
// materializing a let/const's TDZ sentinel before its initializer runs).
func (e *Environment) Define(name string, v value.Value, isConst bool) {
	e.store[name] = &binding{value: v, isConst: isConst}
}

// DeclareTDZ pre-registers name in this frame as uninitialized, entering
// its temporal dead zone until Define/Set later supplies a real value.
func (e *Environment) DeclareTDZ(name string, isConst bool) {
	e.store[name] = &binding{value: TDZ, isConst: isConst}
}

// Get resolves name by walking from e outward. Returns an error if name
// is in its TDZ (ReferenceError territory; spec.md §4.E) or undefined in
// every frame of the chain.
func (e *Environment) Get(name string) (value.Value, error) {
	for f := e; f != nil; f = f.outer {
		if b, ok := f.store[name]; ok {
			if IsTDZ(b.value) {
				return nil, fmt.Errorf("cannot access %q before initialization", name)
			}
			return b.value, nil
		}
	}
	return nil, fmt.Errorf("%s is not defined", name)
}

// Has reports whether name is bound anywhere in the chain (TDZ bindings
// count as bound, matching ECMAScript's block-scoping: the name exists,
// reading it is the error, not resolving it).
func (e *Environment) Has(name string) bool {
	for f := e; f != nil; f = f.outer {
		if _, ok := f.store[name]; ok {
			return true
		}
	}
	return false
}

// Set assigns to an existing binding, walking outward to find it.
// Returns an error if name is not found, or if the found binding is
// const (spec.md invariant 6: "A const binding cannot be rewritten after
// initialization; rebind attempts fail without mutating the frame").
func (e *Environment) Set(name string, v value.Value) error {
	for f := e; f != nil; f = f.outer {
		if b, ok := f.store[name]; ok {
			if b.isConst && !IsTDZ(b.value) {
				return fmt.Errorf("assignment to constant variable %q", name)
			}
			b.value = v
			return nil
		}
	}
	return fmt.Errorf("%s is not defined", name)
}

// DefineVar implements `var` hoisting: it defines name in the nearest
// function-scoped frame starting at e, per spec.md §4.E ("the evaluator
// hoists var declarations to the enclosing function frame on entry").
// If name is already bound there, its value is left alone (hoisting
// declares the slot, it does not reset an already-assigned value) unless
// initialize is true.
func (e *Environment) DefineVar(name string, v value.Value, initialize bool) {
	fs := e.FunctionScope()
	if _, ok := fs.store[name]; ok && !initialize {
		return
	}
	fs.store[name] = &binding{value: v}
}

// Range iterates over bindings defined directly in this frame (not outer
// frames), yielding TDZ bindings as well; used by GC root and closure
// tracing.
func (e *Environment) Range(f func(name string, v value.Value) bool) {
	for k, b := range e.store {
		if !f(k, b.value) {
			return
		}
	}
}
