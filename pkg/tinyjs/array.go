package tinyjs

import (
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// installArray wires only the Array constructor, Array.isArray,
// Array.from and Array.of —
// the core data-model pieces spec.md §3 Array needs to be constructible
// from script. Array.prototype's method library (map/filter/reduce/...)
// is explicitly out of scope.
func (it *Interpreter) installArray() {
	proto := it.Eval.Proto.Array

	arrayCtor := it.native("Array", 0, func(ctx *heap.CallContext) (value.Value, error) {
		if len(ctx.Args) == 1 {
			if n, ok := ctx.Args[0].(value.Number); ok {
				a := it.newArray()
				a.SetLength(int64(n))
				return a, nil
			}
		}
		return it.newArray(ctx.Args...), nil
	})
	arrayCtor.PrototypeProperty = proto
	arrayCtor.IsConstructor = true

	statics := it.newObject(value.Null{})
	arrayCtor.HomeObject = statics
	it.method(statics, "isArray", 1, func(ctx *heap.CallContext) (value.Value, error) {
		_, ok := ctx.Arg(0).(*heap.Array)
		return value.Boolean(ok), nil
	})
	it.method(statics, "from", 1, func(ctx *heap.CallContext) (value.Value, error) {
		switch src := ctx.Arg(0).(type) {
		case *heap.Array:
			return it.newArray(append([]value.Value{}, src.Elements...)...), nil
		case value.String:
			runes := []rune(src.Go())
			out := make([]value.Value, len(runes))
			for i, r := range runes {
				out[i] = value.NewString(string(r))
			}
			return it.newArray(out...), nil
		default:
			return it.newArray(), nil
		}
	})
	it.method(statics, "of", 0, func(ctx *heap.CallContext) (value.Value, error) {
		return it.newArray(ctx.Args...), nil
	})

	it.global("Array", arrayCtor)
}
