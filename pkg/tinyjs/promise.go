package tinyjs

import (
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// installPromise wires the Promise constructor and the instance/static
// methods spec.md §4.H's resolution algorithm builds on: .then/.catch/
// .finally and Promise.resolve/reject/all/race/allSettled/any. The
// settlement logic itself lives in internal/async.Driver; this file only
// projects that driver onto script-visible callables.
func (it *Interpreter) installPromise() {
	proto := it.Eval.Proto.Promise
	d := it.async

	it.method(proto, "then", 2, func(ctx *heap.CallContext) (value.Value, error) {
		p, ok := ctx.This.(*heap.Promise)
		if !ok {
			return nil, it.throwError("TypeError", "Promise.prototype.then called on non-Promise")
		}
		return d.Then(p, ctx.Arg(0), ctx.Arg(1)), nil
	})
	it.method(proto, "catch", 1, func(ctx *heap.CallContext) (value.Value, error) {
		p, ok := ctx.This.(*heap.Promise)
		if !ok {
			return nil, it.throwError("TypeError", "Promise.prototype.catch called on non-Promise")
		}
		return d.Then(p, nil, ctx.Arg(0)), nil
	})
	it.method(proto, "finally", 1, func(ctx *heap.CallContext) (value.Value, error) {
		p, ok := ctx.This.(*heap.Promise)
		if !ok {
			return nil, it.throwError("TypeError", "Promise.prototype.finally called on non-Promise")
		}
		onFinally := ctx.Arg(0)
		wrap := it.native("", 1, func(inner *heap.CallContext) (value.Value, error) {
			if fn, ok := onFinally.(*heap.Function); ok {
				if _, err := it.Eval.Call(fn, value.Undefined{}, nil); err != nil {
					return nil, err
				}
			}
			return inner.Arg(0), nil
		})
		rethrow := it.native("", 1, func(inner *heap.CallContext) (value.Value, error) {
			if fn, ok := onFinally.(*heap.Function); ok {
				if _, err := it.Eval.Call(fn, value.Undefined{}, nil); err != nil {
					return nil, err
				}
			}
			return nil, &rejectedValue{inner.Arg(0)}
		})
		return d.Then(p, wrap, rethrow), nil
	})

	ctor := it.native("Promise", 1, func(ctx *heap.CallContext) (value.Value, error) {
		executor, ok := ctx.Arg(0).(*heap.Function)
		if !ok {
			return nil, it.throwError("TypeError", "Promise resolver is not a function")
		}
		p := d.NewPromise()
		resolveFn := it.native("", 1, func(inner *heap.CallContext) (value.Value, error) {
			d.Resolve(p, inner.Arg(0))
			return value.Undefined{}, nil
		})
		rejectFn := it.native("", 1, func(inner *heap.CallContext) (value.Value, error) {
			d.Reject(p, inner.Arg(0))
			return value.Undefined{}, nil
		})
		if _, err := it.Eval.Call(executor, value.Undefined{}, []value.Value{resolveFn, rejectFn}); err != nil {
			d.Reject(p, errorArgument(err))
		}
		return p, nil
	})
	ctor.PrototypeProperty = proto
	ctor.IsConstructor = true
	proto.Set("constructor", ctor)

	statics := it.newObject(value.Null{})
	ctor.HomeObject = statics
	it.method(statics, "resolve", 1, func(ctx *heap.CallContext) (value.Value, error) {
		if p, ok := ctx.Arg(0).(*heap.Promise); ok {
			return p, nil
		}
		p := d.NewPromise()
		d.Resolve(p, ctx.Arg(0))
		return p, nil
	})
	it.method(statics, "reject", 1, func(ctx *heap.CallContext) (value.Value, error) {
		p := d.NewPromise()
		d.Reject(p, ctx.Arg(0))
		return p, nil
	})
	it.method(statics, "all", 1, func(ctx *heap.CallContext) (value.Value, error) {
		items, err := it.iterableToSlice(ctx.Arg(0))
		if err != nil {
			return nil, err
		}
		result := d.NewPromise()
		if len(items) == 0 {
			d.Resolve(result, it.newArray())
			return result, nil
		}
		values := make([]value.Value, len(items))
		remaining := len(items)
		for i, item := range items {
			i := i
			p := it.promiseOf(item)
			settled := false
			d.AttachSettle(p,
				func(v value.Value) {
					if settled {
						return
					}
					values[i] = v
					remaining--
					if remaining == 0 {
						d.Resolve(result, it.newArray(values...))
					}
				},
				func(v value.Value) {
					if settled {
						return
					}
					settled = true
					d.Reject(result, v)
				},
			)
		}
		return result, nil
	})
	it.method(statics, "race", 1, func(ctx *heap.CallContext) (value.Value, error) {
		items, err := it.iterableToSlice(ctx.Arg(0))
		if err != nil {
			return nil, err
		}
		result := d.NewPromise()
		for _, item := range items {
			p := it.promiseOf(item)
			d.AttachSettle(p,
				func(v value.Value) { d.Resolve(result, v) },
				func(v value.Value) { d.Reject(result, v) },
			)
		}
		return result, nil
	})
	it.method(statics, "allSettled", 1, func(ctx *heap.CallContext) (value.Value, error) {
		items, err := it.iterableToSlice(ctx.Arg(0))
		if err != nil {
			return nil, err
		}
		result := d.NewPromise()
		if len(items) == 0 {
			d.Resolve(result, it.newArray())
			return result, nil
		}
		values := make([]value.Value, len(items))
		remaining := len(items)
		finish := func() {
			remaining--
			if remaining == 0 {
				d.Resolve(result, it.newArray(values...))
			}
		}
		for i, item := range items {
			i := i
			p := it.promiseOf(item)
			d.AttachSettle(p,
				func(v value.Value) {
					o := it.newObject(it.Eval.Proto.Object)
					o.Set("status", value.NewString("fulfilled"))
					o.Set("value", v)
					values[i] = o
					finish()
				},
				func(v value.Value) {
					o := it.newObject(it.Eval.Proto.Object)
					o.Set("status", value.NewString("rejected"))
					o.Set("reason", v)
					values[i] = o
					finish()
				},
			)
		}
		return result, nil
	})
	it.method(statics, "any", 1, func(ctx *heap.CallContext) (value.Value, error) {
		items, err := it.iterableToSlice(ctx.Arg(0))
		if err != nil {
			return nil, err
		}
		result := d.NewPromise()
		if len(items) == 0 {
			d.Reject(result, it.newErrorValue("AggregateError", "All promises were rejected"))
			return result, nil
		}
		errs := make([]value.Value, len(items))
		remaining := len(items)
		for i, item := range items {
			i := i
			p := it.promiseOf(item)
			d.AttachSettle(p,
				func(v value.Value) { d.Resolve(result, v) },
				func(v value.Value) {
					errs[i] = v
					remaining--
					if remaining == 0 {
						agg := it.newErrorValue("AggregateError", "All promises were rejected")
						if eo, ok := agg.(*heap.ErrorObject); ok {
							if eo.Extra == nil {
								eo.Extra = it.newObject(value.Null{})
							}
							eo.Extra.Set("errors", it.newArray(errs...))
						}
						d.Reject(result, agg)
					}
				},
			)
		}
		return result, nil
	})

	it.global("Promise", ctor)
}

// rejectedValue is a sentinel error type Promise.prototype.finally uses
// to force its continuation promise to reject with a specific Value,
// distinct from an ordinary ThrowSignal since it never travels through
// the evaluator's own throw path.
type rejectedValue struct{ v value.Value }

func (r *rejectedValue) Error() string { return "promise rejected" }

func errorArgument(err error) value.Value {
	if rv, ok := err.(*rejectedValue); ok {
		return rv.v
	}
	return value.NewString(err.Error())
}

// promiseOf wraps v as a Promise if it is not already one, mirroring the
// Resolve algorithm's coercion step.
func (it *Interpreter) promiseOf(v value.Value) *heap.Promise {
	if p, ok := v.(*heap.Promise); ok {
		return p
	}
	p := it.async.NewPromise()
	it.async.Resolve(p, v)
	return p
}

// iterableToSlice drains v (an Array, for simplicity — the Promise
// combinators are defined over "an iterable", and tinyjs scripts
// overwhelmingly pass array literals) into a plain slice.
func (it *Interpreter) iterableToSlice(v value.Value) ([]value.Value, error) {
	arr, ok := v.(*heap.Array)
	if !ok {
		return nil, it.throwError("TypeError", "argument is not iterable")
	}
	return append([]value.Value{}, arr.Elements...), nil
}
