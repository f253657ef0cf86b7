package tinyjs

import (
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// installObjectAndFunction wires the Object/Function constructors and the
// handful of Object.prototype/Object.* members that are part of spec.md
// §3/§4.D's core data model (property enumeration, the prototype link)
// rather than a built-in method library — Object.keys/values/entries
// simply expose Object.OwnKeys, already part of the heap kind itself.
func (it *Interpreter) installObjectAndFunction() {
	proto := it.Eval.Proto.Object

	it.method(proto, "hasOwnProperty", 1, func(ctx *heap.CallContext) (value.Value, error) {
		o, ok := ctx.This.(*heap.Object)
		if !ok {
			return value.Boolean(false), nil
		}
		key, err := value.ToString(ctx.Arg(0))
		if err != nil {
			return nil, err
		}
		_, has := o.Get(key)
		if !has {
			_, has = o.Descriptor(key)
		}
		return value.Boolean(has), nil
	})
	it.method(proto, "isPrototypeOf", 1, func(ctx *heap.CallContext) (value.Value, error) {
		target, ok := ctx.Arg(0).(*heap.Object)
		if !ok {
			return value.Boolean(false), nil
		}
		for cur := target.Proto; cur != nil; {
			if cur == ctx.This {
				return value.Boolean(true), nil
			}
			next, ok := cur.(*heap.Object)
			if !ok {
				break
			}
			cur = next.Proto
		}
		return value.Boolean(false), nil
	})
	it.method(proto, "toString", 0, func(ctx *heap.CallContext) (value.Value, error) {
		if o, ok := ctx.This.(*heap.Object); ok {
			return value.NewString("[object " + o.ClassName + "]"), nil
		}
		return value.NewString("[object Object]"), nil
	})

	objectCtor := it.native("Object", 1, func(ctx *heap.CallContext) (value.Value, error) {
		if arg := ctx.Arg(0); arg != nil {
			if arg.Kind() == value.KindObject {
				return arg, nil
			}
		}
		return it.newObject(proto), nil
	})
	objectCtor.PrototypeProperty = proto
	objectCtor.IsConstructor = true
	proto.Set("constructor", objectCtor)

	keysOf := func(ctx *heap.CallContext) []string {
		o, ok := ctx.Arg(0).(*heap.Object)
		if !ok {
			return nil
		}
		return o.OwnKeys()
	}
	statics := it.newObject(value.Null{})
	objectCtor.HomeObject = statics
	it.method(statics, "keys", 1, func(ctx *heap.CallContext) (value.Value, error) {
		names := keysOf(ctx)
		out := make([]value.Value, len(names))
		for i, n := range names {
			out[i] = value.NewString(n)
		}
		return it.newArray(out...), nil
	})
	it.method(statics, "values", 1, func(ctx *heap.CallContext) (value.Value, error) {
		o, _ := ctx.Arg(0).(*heap.Object)
		names := keysOf(ctx)
		out := make([]value.Value, len(names))
		for i, n := range names {
			v, _ := o.Get(n)
			out[i] = v
		}
		return it.newArray(out...), nil
	})
	it.method(statics, "entries", 1, func(ctx *heap.CallContext) (value.Value, error) {
		o, _ := ctx.Arg(0).(*heap.Object)
		names := keysOf(ctx)
		out := make([]value.Value, len(names))
		for i, n := range names {
			v, _ := o.Get(n)
			out[i] = it.newArray(value.NewString(n), v)
		}
		return it.newArray(out...), nil
	})
	it.method(statics, "assign", 2, func(ctx *heap.CallContext) (value.Value, error) {
		target, ok := ctx.Arg(0).(*heap.Object)
		if !ok {
			return nil, it.throwError("TypeError", "Object.assign target must be an object")
		}
		for _, src := range ctx.Args[1:] {
			so, ok := src.(*heap.Object)
			if !ok {
				continue
			}
			for _, n := range so.OwnKeys() {
				v, _ := so.Get(n)
				target.Set(n, v)
			}
		}
		return target, nil
	})
	it.global("Object", objectCtor)

	funcProto := it.Eval.Proto.Function
	it.method(funcProto, "call", 1, func(ctx *heap.CallContext) (value.Value, error) {
		var this value.Value = value.Undefined{}
		var args []value.Value
		if len(ctx.Args) > 0 {
			this = ctx.Args[0]
			args = ctx.Args[1:]
		}
		return it.Eval.Call(ctx.This, this, args)
	})
	it.method(funcProto, "apply", 2, func(ctx *heap.CallContext) (value.Value, error) {
		var this value.Value = value.Undefined{}
		if len(ctx.Args) > 0 {
			this = ctx.Args[0]
		}
		var args []value.Value
		if arr, ok := ctx.Arg(1).(*heap.Array); ok {
			args = arr.Elements
		}
		return it.Eval.Call(ctx.This, this, args)
	})
	it.method(funcProto, "bind", 1, func(ctx *heap.CallContext) (value.Value, error) {
		target := ctx.This
		boundThis := ctx.Arg(0)
		rest := ctx.Args
		if len(rest) > 0 {
			rest = rest[1:]
		}
		bound := append([]value.Value{}, rest...)
		return it.native("bound", 0, func(inner *heap.CallContext) (value.Value, error) {
			return it.Eval.Call(target, boundThis, append(append([]value.Value{}, bound...), inner.Args...))
		}), nil
	})
}
