package tinyjs

import (
	"fmt"

	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// installConsoleAndGlobals wires console.{log,info,warn,error,debug} onto
// Config.Stdout (spec.md §6, SPEC_FULL.md §10.1 — the evaluator and GC
// never log directly; console.log is the only host-visible sink), plus
// the handful of always-present global bindings (globalThis, NaN,
// Infinity, undefined, queueMicrotask).
func (it *Interpreter) installConsoleAndGlobals() {
	console := it.newObject(it.Eval.Proto.Object)
	logFn := func(prefix string) heap.NativeFunc {
		return func(ctx *heap.CallContext) (value.Value, error) {
			parts := make([]string, len(ctx.Args))
			for i, a := range ctx.Args {
				parts[i] = it.displayString(a)
			}
			line := fmt.Sprintln(toAnySlice(parts)...)
			if prefix != "" {
				fmt.Fprint(it.out, prefix+" ")
			}
			fmt.Fprint(it.out, line)
			return value.Undefined{}, nil
		}
	}
	it.method(console, "log", 0, logFn(""))
	it.method(console, "info", 0, logFn(""))
	it.method(console, "debug", 0, logFn(""))
	it.method(console, "warn", 0, logFn("[warn]"))
	it.method(console, "error", 0, logFn("[error]"))
	it.global("console", console)

	globalThis := it.newObject(it.Eval.Proto.Object)
	it.global("globalThis", globalThis)
	it.global("NaN", value.Number(nan()))
	it.global("Infinity", value.Number(inf()))
	it.global("undefined", value.Undefined{})

	qmFn := it.native("queueMicrotask", 1, func(ctx *heap.CallContext) (value.Value, error) {
		fn, ok := ctx.Arg(0).(*heap.Function)
		if !ok {
			return nil, it.throwError("TypeError", "callback is not a function")
		}
		it.async.Enqueue(func() {
			it.Eval.Call(fn, value.Undefined{}, nil)
		})
		return value.Undefined{}, nil
	})
	it.global("queueMicrotask", qmFn)
}

// displayString formats a Value the way console.log projects it:
// strings unquoted, plain objects, arrays and Error objects via
// heap.Inspect's JSON-shaped dump, everything else via its String form.
func (it *Interpreter) displayString(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return s.Go()
	}
	switch v.(type) {
	case *heap.Object, *heap.Array, *heap.ErrorObject:
		return heap.Inspect(v)
	}
	if v == nil {
		return "undefined"
	}
	return v.String()
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func nan() float64 { var z float64; return z / z }
func inf() float64 { var z float64; return 1 / z }
