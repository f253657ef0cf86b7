package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/env"
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// AsyncHost is implemented by internal/async.Driver and wired onto the
// Interpreter by pkg/tinyjs, keeping the dependency edge one-directional
// (async depends on evaluator, not the reverse — spec.md §4.H).
type AsyncHost interface {
	// RunAsyncTask drives t to completion across microtask turns,
	// settling and returning a Promise bound to its outcome.
	RunAsyncTask(t *Task, promiseProto value.Value) *heap.Promise
}

// GeneratorHost is implemented by internal/genctl.Driver and wired the
// same way (spec.md §4.I).
type GeneratorHost interface {
	// NewGenerator wraps t as a Generator's Controller.
	NewGenerator(t *Task, proto value.Value, isAsync bool) *heap.Generator
}

// Call implements heap.Caller, letting native functions (and evaluator
// internals) invoke any callable Value uniformly.
func (it *Interpreter) Call(fn value.Value, this value.Value, args []value.Value) (value.Value, error) {
	f, ok := fn.(*heap.Function)
	if !ok {
		return nil, it.throwf(errstack.TypeError, "%s is not a function", describeValue(fn))
	}
	return it.callFunction(f, this, args, nil, false)
}

// Construct implements `new fn(...args)` (spec.md §4.G): allocates a
// fresh Object linked to fn.PrototypeProperty, invokes fn with that
// object as `this` and NewTarget set, and returns the constructor's own
// return value if it returned an object, else the allocated instance.
func (it *Interpreter) Construct(fn value.Value, args []value.Value) (value.Value, error) {
	f, ok := fn.(*heap.Function)
	if !ok {
		return nil, it.throwf(errstack.TypeError, "%s is not a constructor", describeValue(fn))
	}
	proto := f.PrototypeProperty
	if proto == nil {
		proto = it.Proto.Object
	}
	inst := heap.NewObject(proto)
	inst.ClassName = f.Name
	if err := it.registerHeap(inst); err != nil {
		return nil, err
	}
	if err := it.initInstanceFields(f, inst); err != nil {
		return nil, err
	}
	result, err := it.callFunction(f, inst, args, f, false)
	if err != nil {
		return nil, err
	}
	// A native constructor (Promise, Map, Set, Error, ...) builds its own
	// heap value rather than populating inst; honor it the same way a
	// scripted constructor returning an object overrides the allocated
	// instance. Every heap kind reports KindObject regardless of its
	// concrete Go type, so this check is not limited to *heap.Object.
	if result != nil && result.Kind() == value.KindObject {
		return result, nil
	}
	return inst, nil
}

// initInstanceFields runs every ancestor class's own field initializers
// against inst, base class first, mirroring ECMAScript's superclass-
// before-subclass field ordering. Each field's initializer evaluates
// against the declaring class's own closure environment with `this`
// bound to inst, not the constructor's call-time environment.
func (it *Interpreter) initInstanceFields(f *heap.Function, inst value.Value) error {
	var chain []*heap.Function
	for c := f; c != nil; c = c.SuperCtor {
		chain = append(chain, c)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		for _, fld := range c.InstanceFields {
			v := value.Value(value.Undefined{})
			if fld.Init != nil {
				fv, err := it.evalExpr(&execCtx{env: c.Env, this: inst, fn: c}, fld.Init)
				if err != nil {
					return err
				}
				v = fv
			}
			if err := it.setProperty(inst, fld.Key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func describeValue(v value.Value) string {
	if v == nil {
		return "undefined"
	}
	return v.String()
}

// callFunction is the shared entry for plain calls and `new` calls.
// newTarget is non-nil only for Construct. forceSync, when true, runs an
// async/generator body to completion synchronously instead of spawning a
// suspendable Task — used internally for non-suspending re-entrant
// calls (e.g. a generator's body calling another generator's .next()
// is still a plain call from the evaluator's point of view).
func (it *Interpreter) callFunction(f *heap.Function, this value.Value, args []value.Value, newTarget value.Value, forceSync bool) (value.Value, error) {
	if f.Native != nil {
		return f.Native(&heap.CallContext{This: this, Args: args, Caller: it, NewTarget: newTarget})
	}

	frame := errstack.Frame{Function: f.Name, File: it.sourceFile}
	if err := it.Stack.Push(frame); err != nil {
		it.Stack.Pop()
		return nil, it.throwf(errstack.RangeError, "Maximum call stack size exceeded")
	}
	defer it.Stack.Pop()

	callEnv := f.Env.NewFunctionChild()
	if !f.Arrow {
		argsArr := heap.NewArray(it.Proto.Array, append([]value.Value{}, args...)...)
		it.registerHeap(argsArr)
		callEnv.Define("arguments", argsArr, false)
	}
	if err := it.bindParams(callEnv, f.Params, args); err != nil {
		return nil, err
	}

	runBody := func(suspend Suspend) (value.Value, *ThrowSignal) {
		fctx := &execCtx{env: callEnv, this: this, newTarget: newTarget, suspend: suspend, fn: f}
		if !f.Arrow {
			fctx.this = this
		}
		if f.ExprBody != nil {
			v, err := it.evalExpr(fctx, f.ExprBody)
			if err != nil {
				if ts, ok := asThrow(err); ok {
					return nil, ts
				}
				return nil, &ThrowSignal{Value: hostErrAsValue(it, err)}
			}
			return v, nil
		}
		fl, err := it.evalBlock(fctx, f.Body)
		if err != nil {
			if fr, ok := asForcedReturn(err); ok {
				return fr.value, nil
			}
			if ts, ok := asThrow(err); ok {
				return nil, ts
			}
			return nil, &ThrowSignal{Value: hostErrAsValue(it, err)}
		}
		if fl.kind == flowReturn {
			return fl.value, nil
		}
		return value.Undefined{}, nil
	}

	if (f.Async || f.Generator) && !forceSync {
		it.pinEnv(callEnv)
		body := func(suspend Suspend) (value.Value, *ThrowSignal) {
			defer it.unpinEnv(callEnv)
			return runBody(suspend)
		}
		switch {
		case f.Generator:
			if it.GenHost == nil {
				it.unpinEnv(callEnv)
				return nil, it.throwf(errstack.Error, "generator support unavailable")
			}
			// Generator bodies must not run until the first next()/
			// return()/throw() call reaches them (spec.md §4.I), unlike
			// async bodies which run synchronously up to their first
			// await as soon as they are called.
			return it.GenHost.NewGenerator(NewLazyTask(body), it.Proto.Generator, f.Async), nil
		default:
			if it.Async == nil {
				it.unpinEnv(callEnv)
				return nil, it.throwf(errstack.Error, "async support unavailable")
			}
			return it.Async.RunAsyncTask(NewTask(body), it.Proto.Promise), nil
		}
	}

	v, ts := runBody(nil)
	if ts != nil {
		return nil, ts
	}
	return v, nil
}

// hostErrAsValue wraps a non-ThrowSignal Go error (e.g. an environment
// lookup failure) as a plain Error value so it can still unwind through
// the ThrowSignal channel uniformly; it is not registered with the GC
// since such errors are rare and short-lived (thrown once, immediately
// formatted or rethrown to the host).
func hostErrAsValue(it *Interpreter, err error) value.Value {
	return heap.NewErrorObject(errstack.Error, err.Error(), it.Stack.Snapshot(), errProtoValue(it.Proto.Error[errstack.Error]))
}

// bindParams destructures args onto callEnv per f's parameter patterns,
// applying defaults and rest collection (spec.md §4.E / ast.Pattern).
func (it *Interpreter) bindParams(callEnv *env.Environment, params []ast.Pattern, args []value.Value) error {
	for i, p := range params {
		if rest, ok := p.(*ast.RestElement); ok {
			var tail []value.Value
			if i < len(args) {
				tail = append([]value.Value{}, args[i:]...)
			}
			arr := heap.NewArray(it.Proto.Array, tail...)
			it.registerHeap(arr)
			if err := it.bindPattern(callEnv, rest.Target, arr); err != nil {
				return err
			}
			return nil
		}
		var v value.Value = value.Undefined{}
		if i < len(args) {
			v = args[i]
		}
		if err := it.bindPattern(callEnv, p, v); err != nil {
			return err
		}
	}
	return nil
}
