package tinyjs

import (
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// errorKinds lists every script-visible Error subtype spec.md §7 names,
// each getting its own prototype object and constructor chained to
// Error.prototype the way ECMAScript's Error hierarchy is laid out.
var errorKinds = []errstack.Kind{
	errstack.Error,
	errstack.TypeError,
	errstack.RangeError,
	errstack.ReferenceError,
	errstack.SyntaxError,
	errstack.URIError,
	errstack.EvalError,
	errstack.AggregateError,
}

// installErrorFamily builds one prototype + constructor pair per
// errorKinds entry, all but the base Error's prototype chaining to it
// (spec.md §7's taxonomy is a flat set of kinds; ECMAScript additionally
// makes TypeError etc. prototype-inherit from Error, which this mirrors
// since instanceof Error must hold for every subtype).
func (it *Interpreter) installErrorFamily() {
	base := it.newObject(it.Eval.Proto.Object)
	it.Eval.Proto.Error[errstack.Error] = base
	it.buildErrorCtor(errstack.Error, base)

	for _, kind := range errorKinds {
		if kind == errstack.Error {
			continue
		}
		proto := it.newObject(base)
		it.Eval.Proto.Error[kind] = proto
		it.buildErrorCtor(kind, proto)
	}
}

func (it *Interpreter) buildErrorCtor(kind errstack.Kind, proto *heap.Object) {
	proto.Set("name", value.NewString(string(kind)))
	proto.Set("message", value.NewString(""))
	it.method(proto, "toString", 0, func(ctx *heap.CallContext) (value.Value, error) {
		if eo, ok := ctx.This.(*heap.ErrorObject); ok {
			return value.NewString(eo.String()), nil
		}
		return value.NewString(string(kind)), nil
	})

	ctor := it.native(string(kind), 1, func(ctx *heap.CallContext) (value.Value, error) {
		msg := ""
		if m := ctx.Arg(0); m != nil {
			if _, isUndef := m.(value.Undefined); !isUndef {
				s, err := value.ToString(m)
				if err != nil {
					return nil, err
				}
				msg = s
			}
		}
		eo := heap.NewErrorObject(kind, msg, it.Eval.Stack.Snapshot(), proto)
		if opts, ok := ctx.Arg(1).(*heap.Object); ok {
			if cause, has := opts.Get("cause"); has {
				eo.Cause = cause
			}
		}
		it.Eval.GC.RegisterObject(eo)
		return eo, nil
	})
	ctor.PrototypeProperty = proto
	ctor.IsConstructor = true
	proto.Set("constructor", ctor)
	it.global(string(kind), ctor)
}

// newErrorValue builds a registered ErrorObject of the given kind without
// going through script-visible construction, for host-internal error
// values (Promise.any's AggregateError).
func (it *Interpreter) newErrorValue(kind errstack.Kind, message string) value.Value {
	proto := it.Eval.Proto.Error[kind]
	var protoVal value.Value = value.Null{}
	if proto != nil {
		protoVal = proto
	}
	eo := heap.NewErrorObject(kind, message, it.Eval.Stack.Snapshot(), protoVal)
	it.Eval.GC.RegisterObject(eo)
	return eo
}
