package tinyjs

import (
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// installCollections wires Map/Set/WeakMap/WeakSet onto the already-built
// heap.Map/heap.Set kinds (internal/heap/collections.go), the core
// data-model constructors spec.md §3/§4.C describe — insertion order,
// identity keying, and (for the Weak variants) keys that are not traced
// by the GC. Weak entries are not removed when their key becomes
// unreachable; they stay until deleted.
func (it *Interpreter) installCollections() {
	it.installMapLike()
	it.installSetLike()
}

func (it *Interpreter) installMapLike() {
	proto := it.Eval.Proto.Map

	it.method(proto, "get", 1, func(ctx *heap.CallContext) (value.Value, error) {
		m, ok := ctx.This.(*heap.Map)
		if !ok {
			return nil, it.throwError("TypeError", "Map.prototype.get called on non-Map")
		}
		if v, ok := m.Get(ctx.Arg(0)); ok {
			return v, nil
		}
		return value.Undefined{}, nil
	})
	it.method(proto, "set", 2, func(ctx *heap.CallContext) (value.Value, error) {
		m, ok := ctx.This.(*heap.Map)
		if !ok {
			return nil, it.throwError("TypeError", "Map.prototype.set called on non-Map")
		}
		if m.Weak {
			if _, ok := ctx.Arg(0).(value.HeapValue); !ok {
				return nil, it.throwError("TypeError", "Invalid value used as weak map key")
			}
		}
		m.Set(ctx.Arg(0), ctx.Arg(1))
		return m, nil
	})
	it.method(proto, "has", 1, func(ctx *heap.CallContext) (value.Value, error) {
		m, ok := ctx.This.(*heap.Map)
		if !ok {
			return nil, it.throwError("TypeError", "Map.prototype.has called on non-Map")
		}
		_, ok = m.Get(ctx.Arg(0))
		return value.Boolean(ok), nil
	})
	it.method(proto, "delete", 1, func(ctx *heap.CallContext) (value.Value, error) {
		m, ok := ctx.This.(*heap.Map)
		if !ok {
			return nil, it.throwError("TypeError", "Map.prototype.delete called on non-Map")
		}
		return value.Boolean(m.Delete(ctx.Arg(0))), nil
	})
	it.method(proto, "forEach", 1, func(ctx *heap.CallContext) (value.Value, error) {
		m, ok := ctx.This.(*heap.Map)
		if !ok {
			return nil, it.throwError("TypeError", "Map.prototype.forEach called on non-Map")
		}
		fn, ok := ctx.Arg(0).(*heap.Function)
		if !ok {
			return nil, it.throwError("TypeError", "callback is not a function")
		}
		for _, e := range m.Entries() {
			if _, err := it.Eval.Call(fn, ctx.Arg(1), []value.Value{e[1], e[0], m}); err != nil {
				return nil, err
			}
		}
		return value.Undefined{}, nil
	})

	mapCtor := it.native("Map", 0, func(ctx *heap.CallContext) (value.Value, error) {
		m := heap.NewMap(proto)
		it.Eval.GC.RegisterObject(m)
		it.seedMap(m, ctx.Arg(0))
		return m, nil
	})
	mapCtor.PrototypeProperty = proto
	mapCtor.IsConstructor = true
	proto.Set("constructor", mapCtor)
	it.global("Map", mapCtor)

	weakProto := it.newObject(it.Eval.Proto.Object)
	it.method(weakProto, "get", 1, func(ctx *heap.CallContext) (value.Value, error) {
		m := ctx.This.(*heap.Map)
		if v, ok := m.Get(ctx.Arg(0)); ok {
			return v, nil
		}
		return value.Undefined{}, nil
	})
	it.method(weakProto, "set", 2, func(ctx *heap.CallContext) (value.Value, error) {
		m := ctx.This.(*heap.Map)
		if _, ok := ctx.Arg(0).(value.HeapValue); !ok {
			return nil, it.throwError("TypeError", "Invalid value used as weak map key")
		}
		m.Set(ctx.Arg(0), ctx.Arg(1))
		return m, nil
	})
	it.method(weakProto, "has", 1, func(ctx *heap.CallContext) (value.Value, error) {
		m := ctx.This.(*heap.Map)
		_, ok := m.Get(ctx.Arg(0))
		return value.Boolean(ok), nil
	})
	it.method(weakProto, "delete", 1, func(ctx *heap.CallContext) (value.Value, error) {
		m := ctx.This.(*heap.Map)
		return value.Boolean(m.Delete(ctx.Arg(0))), nil
	})
	weakMapCtor := it.native("WeakMap", 0, func(ctx *heap.CallContext) (value.Value, error) {
		m := heap.NewWeakMap(weakProto)
		it.Eval.GC.RegisterObject(m)
		it.seedMap(m, ctx.Arg(0))
		return m, nil
	})
	weakMapCtor.PrototypeProperty = weakProto
	weakMapCtor.IsConstructor = true
	weakProto.Set("constructor", weakMapCtor)
	it.global("WeakMap", weakMapCtor)
}

func (it *Interpreter) seedMap(m *heap.Map, init value.Value) {
	arr, ok := init.(*heap.Array)
	if !ok {
		return
	}
	for _, e := range arr.Elements {
		pair, ok := e.(*heap.Array)
		if !ok || len(pair.Elements) < 2 {
			continue
		}
		m.Set(pair.Elements[0], pair.Elements[1])
	}
}

func (it *Interpreter) installSetLike() {
	proto := it.Eval.Proto.Set

	it.method(proto, "add", 1, func(ctx *heap.CallContext) (value.Value, error) {
		s, ok := ctx.This.(*heap.Set)
		if !ok {
			return nil, it.throwError("TypeError", "Set.prototype.add called on non-Set")
		}
		s.Add(ctx.Arg(0))
		return s, nil
	})
	it.method(proto, "has", 1, func(ctx *heap.CallContext) (value.Value, error) {
		s, ok := ctx.This.(*heap.Set)
		if !ok {
			return nil, it.throwError("TypeError", "Set.prototype.has called on non-Set")
		}
		return value.Boolean(s.Has(ctx.Arg(0))), nil
	})
	it.method(proto, "delete", 1, func(ctx *heap.CallContext) (value.Value, error) {
		s, ok := ctx.This.(*heap.Set)
		if !ok {
			return nil, it.throwError("TypeError", "Set.prototype.delete called on non-Set")
		}
		return value.Boolean(s.Delete(ctx.Arg(0))), nil
	})
	it.method(proto, "forEach", 1, func(ctx *heap.CallContext) (value.Value, error) {
		s, ok := ctx.This.(*heap.Set)
		if !ok {
			return nil, it.throwError("TypeError", "Set.prototype.forEach called on non-Set")
		}
		fn, ok := ctx.Arg(0).(*heap.Function)
		if !ok {
			return nil, it.throwError("TypeError", "callback is not a function")
		}
		for _, v := range s.Values() {
			if _, err := it.Eval.Call(fn, ctx.Arg(1), []value.Value{v, v, s}); err != nil {
				return nil, err
			}
		}
		return value.Undefined{}, nil
	})

	setCtor := it.native("Set", 0, func(ctx *heap.CallContext) (value.Value, error) {
		s := heap.NewSet(proto)
		it.Eval.GC.RegisterObject(s)
		it.seedSet(s, ctx.Arg(0))
		return s, nil
	})
	setCtor.PrototypeProperty = proto
	setCtor.IsConstructor = true
	proto.Set("constructor", setCtor)
	it.global("Set", setCtor)

	weakProto := it.newObject(it.Eval.Proto.Object)
	it.method(weakProto, "add", 1, func(ctx *heap.CallContext) (value.Value, error) {
		s := ctx.This.(*heap.Set)
		if _, ok := ctx.Arg(0).(value.HeapValue); !ok {
			return nil, it.throwError("TypeError", "Invalid value used in weak set")
		}
		s.Add(ctx.Arg(0))
		return s, nil
	})
	it.method(weakProto, "has", 1, func(ctx *heap.CallContext) (value.Value, error) {
		s := ctx.This.(*heap.Set)
		return value.Boolean(s.Has(ctx.Arg(0))), nil
	})
	it.method(weakProto, "delete", 1, func(ctx *heap.CallContext) (value.Value, error) {
		s := ctx.This.(*heap.Set)
		return value.Boolean(s.Delete(ctx.Arg(0))), nil
	})
	weakSetCtor := it.native("WeakSet", 0, func(ctx *heap.CallContext) (value.Value, error) {
		s := heap.NewWeakSet(weakProto)
		it.Eval.GC.RegisterObject(s)
		it.seedSet(s, ctx.Arg(0))
		return s, nil
	})
	weakSetCtor.PrototypeProperty = weakProto
	weakSetCtor.IsConstructor = true
	weakProto.Set("constructor", weakSetCtor)
	it.global("WeakSet", weakSetCtor)
}

func (it *Interpreter) seedSet(s *heap.Set, init value.Value) {
	arr, ok := init.(*heap.Array)
	if !ok {
		return
	}
	for _, e := range arr.Elements {
		s.Add(e)
	}
}
