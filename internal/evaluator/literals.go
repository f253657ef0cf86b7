package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

func (it *Interpreter) evalArrayLiteral(ctx *execCtx, n *ast.ArrayLiteral) (value.Value, error) {
	var elems []value.Value
	for _, e := range n.Elements {
		if e == nil {
			elems = append(elems, value.Undefined{})
			continue
		}
		if sp, ok := e.(*ast.SpreadElement); ok {
			sv, err := it.evalExpr(ctx, sp.Argument)
			if err != nil {
				return nil, err
			}
			iter, err := it.getIterator(sv)
			if err != nil {
				return nil, err
			}
			rest, err := drainIterator(iter)
			if err != nil {
				return nil, err
			}
			elems = append(elems, rest...)
			continue
		}
		v, err := it.evalExpr(ctx, e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	arr := heap.NewArray(it.Proto.Array, elems...)
	if err := it.registerHeap(arr); err != nil {
		return nil, err
	}
	return arr, nil
}

func (it *Interpreter) evalObjectLiteral(ctx *execCtx, n *ast.ObjectLiteral) (value.Value, error) {
	obj := heap.NewObject(it.Proto.Object)
	if err := it.registerHeap(obj); err != nil {
		return nil, err
	}
	for _, p := range n.Properties {
		if p.Kind == ast.PropertySpread {
			sv, err := it.evalExpr(ctx, p.Key)
			if err != nil {
				return nil, err
			}
			if src, ok := sv.(*heap.Object); ok {
				for _, k := range src.OwnKeys() {
					if v, ok := src.Get(k); ok {
						obj.Set(k, v)
					}
				}
			}
			continue
		}
		key, err := it.memberKey(ctx, p.Key, p.Computed)
		if err != nil {
			return nil, err
		}
		switch p.Kind {
		case ast.PropertyGet, ast.PropertySet:
			fn, err := it.makeFunction(ctx, p.Value, nameHint(key))
			if err != nil {
				return nil, err
			}
			fn.HomeObject = obj
			d, _ := obj.Descriptor(key)
			if d == nil {
				d = &heap.PropertyDescriptor{IsAccessor: true, Enumerable: true, Configurable: true}
			}
			if p.Kind == ast.PropertyGet {
				d.Get = fn
			} else {
				d.Set = fn
			}
			obj.SetDescriptor(key, d)
		case ast.PropertyMethod:
			fn, err := it.makeFunction(ctx, p.Value, nameHint(key))
			if err != nil {
				return nil, err
			}
			fn.HomeObject = obj
			obj.Set(key, fn)
		default:
			v, err := it.evalExpr(ctx, p.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
	}
	return obj, nil
}

func nameHint(key string) string { return key }

// makeFunction builds a heap.Function closing over ctx.env for a
// FunctionExpression or ArrowFunctionExpression node (spec.md §4.G: "a
// closure captures the defining environment by reference, not value").
func (it *Interpreter) makeFunction(ctx *execCtx, node ast.Node, name string) (*heap.Function, error) {
	var f *heap.Function
	switch fe := node.(type) {
	case *ast.FunctionExpression:
		n := name
		if fe.Name != nil {
			n = fe.Name.Name
		}
		f = &heap.Function{
			Name: n, Params: fe.Params, Body: fe.Body,
			Async: fe.Async, Generator: fe.Generator, Arrow: fe.Arrow,
			Env: ctx.env, ArityHint: countArity(fe.Params),
		}
	case *ast.ArrowFunctionExpression:
		f = &heap.Function{
			Name: name, Params: fe.Params, Arrow: true,
			Async: fe.Async, Env: ctx.env, ArityHint: countArity(fe.Params),
		}
		if fe.ExprBody {
			f.ExprBody = fe.Body.(ast.Expression)
		} else {
			f.Body = fe.Body.(*ast.BlockStatement)
		}
	default:
		return nil, it.throwf(errstack.SyntaxError, "not a function node")
	}
	f.Proto = it.Proto.Function
	if !f.Arrow {
		proto := heap.NewObject(it.Proto.Object)
		if err := it.registerHeap(proto); err != nil {
			return nil, err
		}
		proto.Set("constructor", f)
		f.PrototypeProperty = proto
	}
	if err := it.registerHeap(f); err != nil {
		return nil, err
	}
	return f, nil
}

func countArity(params []ast.Pattern) int {
	n := 0
	for _, p := range params {
		switch p.(type) {
		case *ast.RestElement, *ast.AssignmentPattern:
			return n
		}
		n++
	}
	return n
}
