package evaluator

import (
	"math/big"

	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// evalExpr is the evaluator's expression dispatch (spec.md §4.G). Every
// ast.Expression kind the grammar produces is handled here or delegated
// to a helper in literals.go/classes.go/operators.go/patterns.go.
func (it *Interpreter) evalExpr(ctx *execCtx, n ast.Node) (value.Value, error) {
	switch e := n.(type) {
	case *ast.Identifier:
		v, err := ctx.env.Get(e.Name)
		if err != nil {
			return nil, it.throwf(errstack.ReferenceError, "%s", err.Error())
		}
		if mb, ok := v.(*heap.ModuleBinding); ok {
			rv, rerr := mb.Resolve()
			if rerr != nil {
				return nil, it.throwf(errstack.ReferenceError, "%s", rerr.Error())
			}
			return rv, nil
		}
		return v, nil
	case *ast.ThisExpression:
		if ctx.this == nil {
			return value.Undefined{}, nil
		}
		return ctx.this, nil
	case *ast.SuperExpression:
		// Bare `super` only appears as the callee/object of a
		// CallExpression/MemberExpression, both of which special-case it
		// before recursing here.
		return nil, it.throwf(errstack.SyntaxError, "'super' keyword is only valid inside a class")
	case *ast.NumberLiteral:
		return value.Number(e.Value), nil
	case *ast.BigIntLiteral:
		bi, ok := new(big.Int).SetString(e.Raw, 10)
		if !ok {
			return nil, it.throwf(errstack.SyntaxError, "invalid BigInt literal %q", e.Raw)
		}
		return value.BigInt{V: bi}, nil
	case *ast.StringLiteral:
		return value.NewString(e.Value), nil
	case *ast.BooleanLiteral:
		return value.Boolean(e.Value), nil
	case *ast.NullLiteral:
		return value.Null{}, nil
	case *ast.TemplateLiteral:
		return it.evalTemplateLiteral(ctx, e)
	case *ast.RegexLiteral:
		r, err := heap.NewRegex(e.Pattern, e.Flags, it.Proto.RegExp)
		if err != nil {
			return nil, it.throwf(errstack.SyntaxError, "Invalid regular expression: %s", err.Error())
		}
		if err := it.registerHeap(r); err != nil {
			return nil, err
		}
		return r, nil
	case *ast.ArrayLiteral:
		return it.evalArrayLiteral(ctx, e)
	case *ast.ObjectLiteral:
		return it.evalObjectLiteral(ctx, e)
	case *ast.FunctionExpression:
		return it.makeFunction(ctx, e, "")
	case *ast.ArrowFunctionExpression:
		return it.makeFunction(ctx, e, "")
	case *ast.ClassExpression:
		return it.evalClass(ctx, &e.ClassBody)
	case *ast.UnaryExpression:
		return it.evalUnary(ctx, e)
	case *ast.UpdateExpression:
		return it.evalUpdate(ctx, e)
	case *ast.BinaryExpression:
		return it.evalBinary(ctx, e)
	case *ast.LogicalExpression:
		return it.evalLogical(ctx, e)
	case *ast.AssignmentExpression:
		return it.evalAssignment(ctx, e)
	case *ast.ConditionalExpression:
		t, err := it.evalExpr(ctx, e.Test)
		if err != nil {
			return nil, err
		}
		if value.ToBoolean(t) {
			return it.evalExpr(ctx, e.Consequent)
		}
		return it.evalExpr(ctx, e.Alternate)
	case *ast.CallExpression:
		return it.evalCall(ctx, e)
	case *ast.NewExpression:
		return it.evalNew(ctx, e)
	case *ast.MemberExpression:
		v, _, err := it.evalMember(ctx, e)
		return v, err
	case *ast.SequenceExpression:
		var v value.Value = value.Undefined{}
		for _, sub := range e.Expressions {
			var err error
			v, err = it.evalExpr(ctx, sub)
			if err != nil {
				return nil, err
			}
		}
		return v, nil
	case *ast.YieldExpression:
		return it.evalYield(ctx, e)
	case *ast.AwaitExpression:
		return it.evalAwait(ctx, e)
	}
	return nil, it.throwf(errstack.SyntaxError, "unsupported expression %T", n)
}

func (it *Interpreter) evalTemplateLiteral(ctx *execCtx, n *ast.TemplateLiteral) (value.Value, error) {
	var b []byte
	b = append(b, n.Quasis[0]...)
	for i, expr := range n.Expressions {
		v, err := it.evalExpr(ctx, expr)
		if err != nil {
			return nil, err
		}
		s, err := it.toDisplayString(v)
		if err != nil {
			return nil, err
		}
		b = append(b, s...)
		if i+1 < len(n.Quasis) {
			b = append(b, n.Quasis[i+1]...)
		}
	}
	return value.NewString(string(b)), nil
}

// evalAssignment handles `=` (delegating to assignTo/destructuring) and
// the compound operators (`+=` etc, which read-modify-write through
// binaryOp before assigning).
func (it *Interpreter) evalAssignment(ctx *execCtx, n *ast.AssignmentExpression) (value.Value, error) {
	if n.Operator == "=" {
		v, err := it.evalExpr(ctx, n.Value)
		if err != nil {
			return nil, err
		}
		if err := it.assignTo(ctx, n.Target, v); err != nil {
			return nil, err
		}
		return v, nil
	}
	if n.Operator == "&&=" || n.Operator == "||=" || n.Operator == "??=" {
		cur, err := it.evalExpr(ctx, n.Target)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "&&=":
			if !value.ToBoolean(cur) {
				return cur, nil
			}
		case "||=":
			if value.ToBoolean(cur) {
				return cur, nil
			}
		case "??=":
			if _, isU := cur.(value.Undefined); !isU {
				if _, isN := cur.(value.Null); !isN {
					return cur, nil
				}
			}
		}
		v, err := it.evalExpr(ctx, n.Value)
		if err != nil {
			return nil, err
		}
		if err := it.assignTo(ctx, n.Target, v); err != nil {
			return nil, err
		}
		return v, nil
	}
	cur, err := it.evalExpr(ctx, n.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := it.evalExpr(ctx, n.Value)
	if err != nil {
		return nil, err
	}
	op := n.Operator[:len(n.Operator)-1] // "+=" -> "+"
	nv, err := it.binaryOp(op, cur, rhs)
	if err != nil {
		return nil, err
	}
	if err := it.assignTo(ctx, n.Target, nv); err != nil {
		return nil, err
	}
	return nv, nil
}

// evalMember resolves a MemberExpression, returning both the resolved
// value and the receiver it was read from (callers evaluating a method
// CallExpression need the receiver as `this`).
func (it *Interpreter) evalMember(ctx *execCtx, n *ast.MemberExpression) (value.Value, value.Value, error) {
	if _, ok := n.Object.(*ast.SuperExpression); ok {
		return it.evalSuperMember(ctx, n)
	}
	obj, err := it.evalExpr(ctx, n.Object)
	if err != nil {
		return nil, nil, err
	}
	if n.Optional {
		if _, isU := obj.(value.Undefined); isU {
			return value.Undefined{}, obj, nil
		}
		if _, isN := obj.(value.Null); isN {
			return value.Undefined{}, obj, nil
		}
	}
	key, err := it.memberKey(ctx, n.Property, n.Computed)
	if err != nil {
		return nil, nil, err
	}
	if n.Computed {
		v, err := it.getProperty(obj, key, nil)
		return v, obj, err
	}
	v, err := it.getProperty(obj, key, it.Shapes.Site(n))
	return v, obj, err
}

// evalSuperMember resolves `super.prop`: looked up starting at the
// current method's HomeObject's Proto (the superclass's prototype),
// with `this` (not the superclass prototype) bound as the receiver for
// accessor invocation, per spec.md §4.G's `super` binding rule.
func (it *Interpreter) evalSuperMember(ctx *execCtx, n *ast.MemberExpression) (value.Value, value.Value, error) {
	if ctx.fn == nil {
		return nil, nil, it.throwf(errstack.SyntaxError, "'super' keyword is only valid inside a method")
	}
	home, _ := ctx.fn.HomeObject.(*heap.Object)
	if home == nil {
		return nil, nil, it.throwf(errstack.SyntaxError, "'super' keyword is only valid inside a method")
	}
	key, err := it.memberKey(ctx, n.Property, n.Computed)
	if err != nil {
		return nil, nil, err
	}
	v, err := it.getFromObjectChainAsThis(home.Proto, key, ctx.this)
	return v, ctx.this, err
}

func (it *Interpreter) evalCall(ctx *execCtx, n *ast.CallExpression) (value.Value, error) {
	if _, ok := n.Callee.(*ast.SuperExpression); ok {
		return it.evalSuperCall(ctx, n)
	}
	var this value.Value = value.Undefined{}
	var fnv value.Value
	var err error
	if m, ok := n.Callee.(*ast.MemberExpression); ok {
		fnv, this, err = it.evalMember(ctx, m)
		if err != nil {
			return nil, err
		}
		if m.Optional {
			if _, isU := fnv.(value.Undefined); isU {
				return value.Undefined{}, nil
			}
		}
	} else {
		fnv, err = it.evalExpr(ctx, n.Callee)
		if err != nil {
			return nil, err
		}
	}
	if n.Optional {
		if _, isU := fnv.(value.Undefined); isU {
			return value.Undefined{}, nil
		}
		if _, isN := fnv.(value.Null); isN {
			return value.Undefined{}, nil
		}
	}
	args, err := it.evalArgs(ctx, n.Args)
	if err != nil {
		return nil, err
	}
	return it.Call(fnv, this, args)
}

// evalSuperCall handles `super(...)`, forwarding to the superclass
// constructor with the current `this` (spec.md §4.G: an explicit
// constructor's implicit this is initialized by its own super() call).
func (it *Interpreter) evalSuperCall(ctx *execCtx, n *ast.CallExpression) (value.Value, error) {
	if ctx.fn == nil || ctx.fn.SuperCtor == nil {
		return nil, it.throwf(errstack.SyntaxError, "'super' keyword is unexpected here")
	}
	args, err := it.evalArgs(ctx, n.Args)
	if err != nil {
		return nil, err
	}
	return it.callFunction(ctx.fn.SuperCtor, ctx.this, args, ctx.newTarget, false)
}

func (it *Interpreter) evalArgs(ctx *execCtx, nodes []ast.Expression) ([]value.Value, error) {
	var args []value.Value
	for _, a := range nodes {
		if sp, ok := a.(*ast.SpreadElement); ok {
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
			args = append(args, rest...)
			continue
		}
		v, err := it.evalExpr(ctx, a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (it *Interpreter) evalNew(ctx *execCtx, n *ast.NewExpression) (value.Value, error) {
	fnv, err := it.evalExpr(ctx, n.Callee)
	if err != nil {
		return nil, err
	}
	args, err := it.evalArgs(ctx, n.Args)
	if err != nil {
		return nil, err
	}
	return it.Construct(fnv, args)
}

func (it *Interpreter) evalYield(ctx *execCtx, n *ast.YieldExpression) (value.Value, error) {
	if ctx.suspend == nil {
		return nil, it.throwf(errstack.SyntaxError, "yield is only valid inside a generator")
	}
	var arg value.Value = value.Undefined{}
	if n.Argument != nil {
		v, err := it.evalExpr(ctx, n.Argument)
		if err != nil {
			return nil, err
		}
		arg = v
	}
	if n.Delegate {
		return it.evalYieldDelegate(ctx, arg)
	}
	resumed, isThrow, isForcedReturn := ctx.suspend(SuspendYield, arg)
	return it.settleResumption(resumed, isThrow, isForcedReturn)
}

// evalYieldDelegate implements `yield* iterable`: pumps the delegate's
// iterator, forwarding each produced value out through this generator's
// own suspension point, and returns the delegate's final return value
// once it reports done (spec.md §4.I yield* semantics). Values passed
// to this generator's next() while delegating are discarded rather than
// handed to the inner iterator, and this generator's throw()/return()
// take effect at the yield* expression itself: they are not forwarded
// to the inner iterator, which is left unclosed.
func (it *Interpreter) evalYieldDelegate(ctx *execCtx, iterable value.Value) (value.Value, error) {
	iter, err := it.getIterator(iterable)
	if err != nil {
		return nil, err
	}
	for {
		v, done, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if done {
			return v, nil
		}
		resumed, isThrow, isForcedReturn := ctx.suspend(SuspendYield, v)
		if isThrow || isForcedReturn {
			return it.settleResumption(resumed, isThrow, isForcedReturn)
		}
		_ = resumed
	}
}

func (it *Interpreter) evalAwait(ctx *execCtx, n *ast.AwaitExpression) (value.Value, error) {
	if ctx.suspend == nil {
		return nil, it.throwf(errstack.SyntaxError, "await is only valid inside an async function")
	}
	v, err := it.evalExpr(ctx, n.Argument)
	if err != nil {
		return nil, err
	}
	resumed, isThrow, isForcedReturn := ctx.suspend(SuspendAwait, v)
	return it.settleResumption(resumed, isThrow, isForcedReturn)
}

// settleResumption turns a coroutine resume signal into either a plain
// return value or a thrown/returned control-flow error, used by both
// await and yield (spec.md §4.H/§4.I: a generator's .throw()/.return()
// resumes the paused body as if the suspend expression itself had
// thrown or returned).
func (it *Interpreter) settleResumption(resumed value.Value, isThrow, isForcedReturn bool) (value.Value, error) {
	if isThrow {
		return nil, throwValue(resumed)
	}
	if isForcedReturn {
		return nil, &forcedReturn{value: resumed}
	}
	return resumed, nil
}

// getFromObjectChainAsThis is getFromObjectChain's sibling for `super`
// property reads: identical chain walk, but accessor getters are
// invoked with `this` bound to recvThis (the subclass instance) rather
// than the object the property was found on, per spec.md §4.G.
func (it *Interpreter) getFromObjectChainAsThis(start value.Value, key string, recvThis value.Value) (value.Value, error) {
	cur := start
	for {
		obj, ok := cur.(*heap.Object)
		if !ok {
			break
		}
		if d, ok := obj.Descriptor(key); ok {
			if d.IsAccessor {
				if d.Get == nil {
					return value.Undefined{}, nil
				}
				return it.Call(d.Get, recvThis, nil)
			}
			return d.Value, nil
		}
		if v, ok := obj.Get(key); ok {
			return v, nil
		}
		cur = obj.Proto
	}
	return value.Undefined{}, nil
}
