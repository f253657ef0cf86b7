package tinyjs

import (
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// installGenerator wires Generator.prototype.next/return/throw onto the
// Controller interface internal/genctl implements (spec.md §4.I). Async
// generators (Generator.Async) wrap every result in a Promise rather
// than returning the {value, done} record directly.
func (it *Interpreter) installGenerator() {
	proto := it.Eval.Proto.Generator

	it.method(proto, "next", 1, func(ctx *heap.CallContext) (value.Value, error) {
		return it.driveGenerator(ctx.This, func(g *heap.Generator) (heap.IterResult, error) {
			return g.Controller.Next(ctx.Arg(0))
		})
	})
	it.method(proto, "return", 1, func(ctx *heap.CallContext) (value.Value, error) {
		return it.driveGenerator(ctx.This, func(g *heap.Generator) (heap.IterResult, error) {
			return g.Controller.Return(ctx.Arg(0))
		})
	})
	it.method(proto, "throw", 1, func(ctx *heap.CallContext) (value.Value, error) {
		return it.driveGenerator(ctx.This, func(g *heap.Generator) (heap.IterResult, error) {
			return g.Controller.Throw(ctx.Arg(0))
		})
	})
	it.method(proto, "@@iterator", 0, func(ctx *heap.CallContext) (value.Value, error) {
		return ctx.This, nil
	})
}

func (it *Interpreter) iterResultObject(res heap.IterResult) *heap.Object {
	o := it.newObject(it.Eval.Proto.Object)
	o.Set("value", res.Value)
	o.Set("done", value.Boolean(res.Done))
	return o
}

// driveGenerator calls step against this's Controller, wrapping the
// {value, done} result in a resolved/rejected Promise when the
// Generator is async (spec.md §4.I).
func (it *Interpreter) driveGenerator(this value.Value, step func(*heap.Generator) (heap.IterResult, error)) (value.Value, error) {
	g, ok := this.(*heap.Generator)
	if !ok {
		return nil, it.throwError("TypeError", "Generator method called on non-Generator")
	}
	res, err := step(g)
	if !g.Async {
		if err != nil {
			return nil, err
		}
		return it.iterResultObject(res), nil
	}
	p := it.async.NewPromise()
	if err != nil {
		it.async.Reject(p, errorArgument(err))
	} else {
		it.async.Resolve(p, it.iterResultObject(res))
	}
	return p, nil
}
