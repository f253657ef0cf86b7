package tinyjs

import (
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// installSymbol wires the Symbol factory function plus the two
// well-known symbols (Symbol.iterator, Symbol.asyncIterator) the
// iteration protocol (internal/evaluator/iterate.go) recognizes.
func (it *Interpreter) installSymbol() {
	ctor := it.native("Symbol", 1, func(ctx *heap.CallContext) (value.Value, error) {
		desc := ""
		if d := ctx.Arg(0); d != nil {
			if _, isUndef := d.(value.Undefined); !isUndef {
				s, err := value.ToString(d)
				if err != nil {
					return nil, err
				}
				desc = s
			}
		}
		return value.NewSymbol(desc), nil
	})
	statics := it.newObject(value.Null{})
	statics.Set("iterator", value.SymbolIterator)
	statics.Set("asyncIterator", value.SymbolAsyncIterator)
	ctor.HomeObject = statics
	it.global("Symbol", ctor)
}
