package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/env"
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// bindPattern defines p's bindings into e (spec.md §4.E declarations,
// §4.G parameter binding): Identifier defines directly; ArrayPattern/
// ObjectPattern recursively destructure v; AssignmentPattern supplies a
// default when v is undefined; RestElement collects the remainder.
func (it *Interpreter) bindPattern(e *env.Environment, p ast.Pattern, v value.Value) error {
	switch pat := p.(type) {
	case *ast.Identifier:
		e.Define(pat.Name, v, false)
		return nil
	case *ast.AssignmentPattern:
		if _, ok := v.(value.Undefined); ok || v == nil {
			dv, err := it.evalExpr(it.topCtx().withEnv(e), pat.Default)
			if err != nil {
				return err
			}
			v = dv
		}
		return it.bindPattern(e, pat.Target, v)
	case *ast.ArrayPattern:
		iter, err := it.getIterator(v)
		if err != nil {
			return err
		}
		for i, elem := range pat.Elements {
			if rest, ok := elem.(*ast.RestElement); ok {
				remaining, err := drainIterator(iter)
				if err != nil {
					return err
				}
				arr := heap.NewArray(it.Proto.Array, remaining...)
				it.registerHeap(arr)
				if err := it.bindPattern(e, rest.Target, arr); err != nil {
					return err
				}
				break
			}
			val, done, err := iter.Next()
			if err != nil {
				return err
			}
			if done {
				val = value.Undefined{}
			}
			if elem == nil {
				continue
			}
			_ = i
			if err := it.bindPattern(e, elem, val); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectPattern:
		used := make(map[string]bool, len(pat.Properties))
		for _, prop := range pat.Properties {
			key, err := it.memberKey(it.topCtx().withEnv(e), prop.Key, prop.Computed)
			if err != nil {
				return err
			}
			used[key] = true
			pv, err := it.getProperty(v, key, nil)
			if err != nil {
				return err
			}
			if err := it.bindPattern(e, prop.Value, pv); err != nil {
				return err
			}
		}
		if pat.Rest != nil {
			rest := heap.NewObject(it.Proto.Object)
			it.registerHeap(rest)
			if o, ok := v.(*heap.Object); ok {
				for _, k := range o.OwnKeys() {
					if used[k] {
						continue
					}
					if rv, ok := o.Get(k); ok {
						rest.Set(k, rv)
					}
				}
			}
			if err := it.bindPattern(e, pat.Rest.Target, rest); err != nil {
				return err
			}
		}
		return nil
	case *ast.RestElement:
		return it.bindPattern(e, pat.Target, v)
	default:
		return it.throwf(errstack.SyntaxError, "unsupported binding pattern")
	}
}

// memberKey resolves a MemberExpression/Property key node to its string
// property name: Identifier keys are literal names unless Computed is
// set, in which case the key expression is evaluated.
func (it *Interpreter) memberKey(ctx *execCtx, key ast.Expression, computed bool) (string, error) {
	if !computed {
		if id, ok := key.(*ast.Identifier); ok {
			return id.Name, nil
		}
		if s, ok := key.(*ast.StringLiteral); ok {
			return s.Value, nil
		}
		if n, ok := key.(*ast.NumberLiteral); ok {
			return value.Number(n.Value).String(), nil
		}
	}
	kv, err := it.evalExpr(ctx, key)
	if err != nil {
		return "", err
	}
	return propKey(kv)
}

// assignTo assigns v to an arbitrary left-hand-side expression,
// supporting plain identifiers, member expressions, and destructuring
// targets reinterpreted from array/object literal syntax (spec.md §4.G:
// "assignment to a destructuring target behaves like a declaration's
// pattern binding, but resolves existing bindings instead of creating
// new ones").
func (it *Interpreter) assignTo(ctx *execCtx, target ast.Expression, v value.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		return ctx.env.Set(t.Name, v)
	case *ast.MemberExpression:
		obj, err := it.evalExpr(ctx, t.Object)
		if err != nil {
			return err
		}
		key, err := it.memberKey(ctx, t.Property, t.Computed)
		if err != nil {
			return err
		}
		return it.setProperty(obj, key, v)
	case *ast.ArrayLiteral:
		iter, err := it.getIterator(v)
		if err != nil {
			return err
		}
		for _, elem := range t.Elements {
			if spread, ok := elem.(*ast.SpreadElement); ok {
				remaining, err := drainIterator(iter)
				if err != nil {
					return err
				}
				arr := heap.NewArray(it.Proto.Array, remaining...)
				it.registerHeap(arr)
				if err := it.assignTo(ctx, spread.Argument, arr); err != nil {
					return err
				}
				break
			}
			val, done, err := iter.Next()
			if err != nil {
				return err
			}
			if done {
				val = value.Undefined{}
			}
			if elem == nil {
				continue
			}
			if err := it.assignDefaultable(ctx, elem, val); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectLiteral:
		used := make(map[string]bool, len(t.Properties))
		for _, prop := range t.Properties {
			if prop.Kind == ast.PropertySpread {
				rest := heap.NewObject(it.Proto.Object)
				it.registerHeap(rest)
				if o, ok := v.(*heap.Object); ok {
					for _, k := range o.OwnKeys() {
						if used[k] {
							continue
						}
						if rv, ok := o.Get(k); ok {
							rest.Set(k, rv)
						}
					}
				}
				if err := it.assignTo(ctx, prop.Key, rest); err != nil {
					return err
				}
				continue
			}
			key, err := it.memberKey(ctx, prop.Key, prop.Computed)
			if err != nil {
				return err
			}
			used[key] = true
			pv, err := it.getProperty(v, key, nil)
			if err != nil {
				return err
			}
			if err := it.assignDefaultable(ctx, prop.Value, pv); err != nil {
				return err
			}
		}
		return nil
	default:
		return it.throwf(errstack.SyntaxError, "invalid assignment target")
	}
}

// assignDefaultable handles an AssignmentExpression appearing as a
// destructuring element (`[a = 1] = arr`), which the parser represents
// as a nested AssignmentExpression rather than an ast.Pattern since
// these targets live in expression position.
func (it *Interpreter) assignDefaultable(ctx *execCtx, target ast.Expression, v value.Value) error {
	if ae, ok := target.(*ast.AssignmentExpression); ok && ae.Operator == "=" {
		if _, isUndef := v.(value.Undefined); isUndef {
			dv, err := it.evalExpr(ctx, ae.Value)
			if err != nil {
				return err
			}
			v = dv
		}
		return it.assignTo(ctx, ae.Target, v)
	}
	return it.assignTo(ctx, target, v)
}
