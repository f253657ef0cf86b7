package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// symbolIteratorKey is the sentinel own-property name tinyjs uses for
// Symbol.iterator-keyed methods. heap.Object only keys properties by
// string (spec.md §3 describes Object property names, not a parallel
// symbol-keyed table), so well-known symbols are projected onto a
// reserved "@@name" string key rather than tracked as a second keying
// scheme — the same trick engines without native symbol-keyed storage
// (early Babel/core-js) use.
const (
	symbolIteratorKey      = "@@iterator"
	symbolAsyncIteratorKey = "@@asyncIterator"
)

// propKey resolves a computed member-expression key Value to the string
// own-property name tinyjs stores it under.
func propKey(v value.Value) (string, error) {
	switch k := v.(type) {
	case value.Symbol:
		if k.Equal(value.SymbolIterator) {
			return symbolIteratorKey, nil
		}
		if k.Equal(value.SymbolAsyncIterator) {
			return symbolAsyncIteratorKey, nil
		}
		return k.String(), nil
	default:
		return value.ToString(v)
	}
}

// iterator is tinyjs's pull-based iteration cursor, used by for-of and
// array/object destructuring so that infinite generators and lazily
// produced values never need to be collected eagerly.
type iterator interface {
	Next() (val value.Value, done bool, err error)
}

type sliceIterator struct {
	vals []value.Value
	i    int
}

func (s *sliceIterator) Next() (value.Value, bool, error) {
	if s.i >= len(s.vals) {
		return value.Undefined{}, true, nil
	}
	v := s.vals[s.i]
	s.i++
	return v, false, nil
}

// genIterator drives a Generator's Controller directly (spec.md §4.I),
// used when for-of iterates a Generator value without going through the
// Symbol.iterator indirection (a Generator is its own iterator).
type genIterator struct{ gen *heap.Generator }

func (g *genIterator) Next() (value.Value, bool, error) {
	res, err := g.gen.Controller.Next(value.Undefined{})
	if err != nil {
		return nil, false, err
	}
	return res.Value, res.Done, nil
}

// objectIterator drives an arbitrary Symbol.iterator-protocol object by
// calling its iterator's .next() method and reading {value, done} off
// the returned object, per spec.md §4.G's iteration-protocol contract.
type objectIterator struct {
	it     *Interpreter
	iterObj value.Value
}

func (o *objectIterator) Next() (value.Value, bool, error) {
	nextFn, err := o.it.getProperty(o.iterObj, "next", nil)
	if err != nil {
		return nil, false, err
	}
	res, err := o.it.Call(nextFn, o.iterObj, nil)
	if err != nil {
		return nil, false, err
	}
	done, err := o.it.getProperty(res, "done", nil)
	if err != nil {
		return nil, false, err
	}
	val, err := o.it.getProperty(res, "value", nil)
	if err != nil {
		return nil, false, err
	}
	return val, value.ToBoolean(done), nil
}

// getIterator resolves v's iteration source (spec.md §4.G / §4.I):
// Array and string values iterate their elements/code points directly;
// Generators are their own iterator; Map/Set and any other object
// carrying an own or inherited "@@iterator" method go through the
// generic protocol; anything else is a TypeError.
func (it *Interpreter) getIterator(v value.Value) (iterator, error) {
	switch o := v.(type) {
	case *heap.Array:
		vals := append([]value.Value{}, o.Elements...)
		return &sliceIterator{vals: vals}, nil
	case value.String:
		runes := []rune(o.Go())
		vals := make([]value.Value, len(runes))
		for i, r := range runes {
			vals[i] = value.NewString(string(r))
		}
		return &sliceIterator{vals: vals}, nil
	case *heap.Generator:
		return &genIterator{gen: o}, nil
	case *heap.Map:
		vals := make([]value.Value, 0, o.Size())
		for _, e := range o.Entries() {
			pair := heap.NewArray(it.Proto.Array, e[0], e[1])
			it.registerHeap(pair)
			vals = append(vals, pair)
		}
		return &sliceIterator{vals: vals}, nil
	case *heap.Set:
		return &sliceIterator{vals: append([]value.Value{}, o.Values()...)}, nil
	}
	iterFnV, err := it.getProperty(v, symbolIteratorKey, nil)
	if err == nil {
		if iterFn, ok := iterFnV.(*heap.Function); ok {
			iterObj, err := it.Call(iterFn, v, nil)
			if err != nil {
				return nil, err
			}
			return &objectIterator{it: it, iterObj: iterObj}, nil
		}
	}
	return nil, it.throwf(errstack.TypeError, "%s is not iterable", describeValue(v))
}

// drainIterator pulls every remaining value, used by array spread and
// destructuring rest collection. Callers are responsible for bounding
// this to finite sources (array/string/Map/Set/a generator known to
// terminate) — spreading an infinite generator is a script bug, not one
// tinyjs needs to guard against specially.
func drainIterator(it iterator) ([]value.Value, error) {
	var out []value.Value
	for {
		v, done, err := it.Next()
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		out = append(out, v)
	}
}
