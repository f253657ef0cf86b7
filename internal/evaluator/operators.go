package evaluator

import (
	"math"
	"math/big"

	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

func (it *Interpreter) evalUnary(ctx *execCtx, n *ast.UnaryExpression) (value.Value, error) {
	if n.Operator == "typeof" {
		if id, ok := n.Argument.(*ast.Identifier); ok && !ctx.env.Has(id.Name) {
			return value.NewString("undefined"), nil
		}
		v, err := it.evalExpr(ctx, n.Argument)
		if err != nil {
			return nil, err
		}
		return value.NewString(typeofString(v)), nil
	}
	if n.Operator == "delete" {
		if m, ok := n.Argument.(*ast.MemberExpression); ok {
			obj, err := it.evalExpr(ctx, m.Object)
			if err != nil {
				return nil, err
			}
			key, err := it.memberKey(ctx, m.Property, m.Computed)
			if err != nil {
				return nil, err
			}
			if o, ok := obj.(*heap.Object); ok {
				o.Delete(key)
			}
			return value.Boolean(true), nil
		}
		return value.Boolean(true), nil
	}

	v, err := it.evalExpr(ctx, n.Argument)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "void":
		return value.Undefined{}, nil
	case "!":
		return value.Boolean(!value.ToBoolean(v)), nil
	case "-":
		if bi, ok := v.(value.BigInt); ok {
			return value.BigInt{V: new(big.Int).Neg(bi.V)}, nil
		}
		n, err := value.ToNumber(v)
		if err != nil {
			return nil, it.throwf(errstack.TypeError, "%s", err.Error())
		}
		return value.Number(-n), nil
	case "+":
		n, err := value.ToNumber(v)
		if err != nil {
			return nil, it.throwf(errstack.TypeError, "%s", err.Error())
		}
		return value.Number(n), nil
	case "~":
		if bi, ok := v.(value.BigInt); ok {
			return value.BigInt{V: new(big.Int).Not(bi.V)}, nil
		}
		n, err := value.ToNumber(v)
		if err != nil {
			return nil, it.throwf(errstack.TypeError, "%s", err.Error())
		}
		return value.Number(float64(^toInt32(n))), nil
	}
	return nil, it.throwf(errstack.SyntaxError, "unknown unary operator %q", n.Operator)
}

func typeofString(v value.Value) string {
	switch v.(type) {
	case value.Undefined:
		return "undefined"
	case value.Null:
		return "object"
	case value.Boolean:
		return "boolean"
	case value.Number:
		return "number"
	case value.BigInt:
		return "bigint"
	case value.Symbol:
		return "symbol"
	case value.String:
		return "string"
	case *heap.Function:
		return "function"
	default:
		return "object"
	}
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(f))
}

func (it *Interpreter) evalUpdate(ctx *execCtx, n *ast.UpdateExpression) (value.Value, error) {
	old, err := it.evalExpr(ctx, n.Argument)
	if err != nil {
		return nil, err
	}
	var nv value.Value
	if bi, ok := old.(value.BigInt); ok {
		delta := big.NewInt(1)
		if n.Operator == "--" {
			delta = big.NewInt(-1)
		}
		nv = value.BigInt{V: new(big.Int).Add(bi.V, delta)}
	} else {
		f, err := value.ToNumber(old)
		if err != nil {
			return nil, it.throwf(errstack.TypeError, "%s", err.Error())
		}
		if n.Operator == "++" {
			f++
		} else {
			f--
		}
		nv = value.Number(f)
	}
	if err := it.assignTo(ctx, n.Argument, nv); err != nil {
		return nil, err
	}
	if n.Prefix {
		return nv, nil
	}
	return old, nil
}

func (it *Interpreter) evalBinary(ctx *execCtx, n *ast.BinaryExpression) (value.Value, error) {
	l, err := it.evalExpr(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	r, err := it.evalExpr(ctx, n.Right)
	if err != nil {
		return nil, err
	}
	return it.binaryOp(n.Operator, l, r)
}

func (it *Interpreter) binaryOp(op string, l, r value.Value) (value.Value, error) {
	switch op {
	case "===":
		return value.Boolean(value.StrictEquals(l, r)), nil
	case "!==":
		return value.Boolean(!value.StrictEquals(l, r)), nil
	case "==":
		eq, err := value.LooseEquals(l, r)
		if err != nil {
			return nil, it.throwf(errstack.TypeError, "%s", err.Error())
		}
		return value.Boolean(eq), nil
	case "!=":
		eq, err := value.LooseEquals(l, r)
		if err != nil {
			return nil, it.throwf(errstack.TypeError, "%s", err.Error())
		}
		return value.Boolean(!eq), nil
	case "+":
		return it.addOp(l, r)
	case "-", "*", "/", "%", "**":
		return it.arithOp(op, l, r)
	case "<", ">", "<=", ">=":
		return it.compareOp(op, l, r)
	case "&", "|", "^", "<<", ">>", ">>>":
		return it.bitwiseOp(op, l, r)
	case "instanceof":
		return it.instanceOf(l, r)
	case "in":
		return it.inOp(l, r)
	}
	return nil, it.throwf(errstack.SyntaxError, "unknown binary operator %q", op)
}

// addOp implements `+`'s dual string-concat/numeric-add per spec.md
// §4.B: string wins if either operand is a string (after primitive
// coercion); BigInt mixed with Number is a TypeError; else numeric add.
func (it *Interpreter) addOp(l, r value.Value) (value.Value, error) {
	lb, lIsBig := l.(value.BigInt)
	rb, rIsBig := r.(value.BigInt)
	if lIsBig || rIsBig {
		if lIsBig != rIsBig {
			return nil, it.throwf(errstack.TypeError, "%s", value.ErrBigIntMix.Error())
		}
		return value.BigInt{V: new(big.Int).Add(lb.V, rb.V)}, nil
	}
	if _, ok := l.(value.String); ok {
		return it.concatString(l, r)
	}
	if _, ok := r.(value.String); ok {
		return it.concatString(l, r)
	}
	ln, lerr := value.ToNumber(l)
	rn, rerr := value.ToNumber(r)
	if lerr != nil || rerr != nil {
		return it.concatString(l, r)
	}
	return value.Number(ln + rn), nil
}

func (it *Interpreter) concatString(l, r value.Value) (value.Value, error) {
	ls, err := it.toDisplayString(l)
	if err != nil {
		return nil, err
	}
	rs, err := it.toDisplayString(r)
	if err != nil {
		return nil, err
	}
	return value.NewString(ls + rs), nil
}

// toDisplayString is the concatenation-context string coercion: like
// value.ToString but falls through to Value.String() for heap kinds
// (which have no single ToPrimitive hook yet — spec.md's built-in method
// libraries, where user-defined toString()/valueOf() live, are out of
// scope) instead of erroring.
func (it *Interpreter) toDisplayString(v value.Value) (string, error) {
	s, err := value.ToString(v)
	if err == nil {
		return s, nil
	}
	if v == nil {
		return "undefined", nil
	}
	return v.String(), nil
}

func (it *Interpreter) arithOp(op string, l, r value.Value) (value.Value, error) {
	lb, lIsBig := l.(value.BigInt)
	rb, rIsBig := r.(value.BigInt)
	if lIsBig || rIsBig {
		if lIsBig != rIsBig {
			return nil, it.throwf(errstack.TypeError, "%s", value.ErrBigIntMix.Error())
		}
		res := new(big.Int)
		switch op {
		case "-":
			res.Sub(lb.V, rb.V)
		case "*":
			res.Mul(lb.V, rb.V)
		case "/":
			if rb.V.Sign() == 0 {
				return nil, it.throwf(errstack.RangeError, "Division by zero")
			}
			res.Quo(lb.V, rb.V)
		case "%":
			if rb.V.Sign() == 0 {
				return nil, it.throwf(errstack.RangeError, "Division by zero")
			}
			res.Rem(lb.V, rb.V)
		case "**":
			res.Exp(lb.V, rb.V, nil)
		}
		return value.BigInt{V: res}, nil
	}
	ln, err := value.ToNumber(l)
	if err != nil {
		return nil, it.throwf(errstack.TypeError, "%s", err.Error())
	}
	rn, err := value.ToNumber(r)
	if err != nil {
		return nil, it.throwf(errstack.TypeError, "%s", err.Error())
	}
	switch op {
	case "-":
		return value.Number(ln - rn), nil
	case "*":
		return value.Number(ln * rn), nil
	case "/":
		return value.Number(ln / rn), nil
	case "%":
		return value.Number(math.Mod(ln, rn)), nil
	case "**":
		return value.Number(math.Pow(ln, rn)), nil
	}
	return nil, it.throwf(errstack.SyntaxError, "unknown arithmetic operator %q", op)
}

func (it *Interpreter) compareOp(op string, l, r value.Value) (value.Value, error) {
	ls, lIsStr := l.(value.String)
	rs, rIsStr := r.(value.String)
	if lIsStr && rIsStr {
		var res bool
		switch op {
		case "<":
			res = ls.Go() < rs.Go()
		case ">":
			res = ls.Go() > rs.Go()
		case "<=":
			res = ls.Go() <= rs.Go()
		case ">=":
			res = ls.Go() >= rs.Go()
		}
		return value.Boolean(res), nil
	}
	if lb, ok := l.(value.BigInt); ok {
		if rb, ok := r.(value.BigInt); ok {
			c := lb.V.Cmp(rb.V)
			return value.Boolean(compareFromCmp(op, c)), nil
		}
	}
	ln, lerr := value.ToNumber(l)
	rn, rerr := value.ToNumber(r)
	if lerr != nil || rerr != nil {
		return value.Boolean(false), nil
	}
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return value.Boolean(false), nil
	}
	var res bool
	switch op {
	case "<":
		res = ln < rn
	case ">":
		res = ln > rn
	case "<=":
		res = ln <= rn
	case ">=":
		res = ln >= rn
	}
	return value.Boolean(res), nil
}

func compareFromCmp(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case ">":
		return c > 0
	case "<=":
		return c <= 0
	default:
		return c >= 0
	}
}

func (it *Interpreter) bitwiseOp(op string, l, r value.Value) (value.Value, error) {
	if lb, ok := l.(value.BigInt); ok {
		if rb, ok := r.(value.BigInt); ok {
			res := new(big.Int)
			switch op {
			case "&":
				res.And(lb.V, rb.V)
			case "|":
				res.Or(lb.V, rb.V)
			case "^":
				res.Xor(lb.V, rb.V)
			case "<<":
				res.Lsh(lb.V, uint(rb.V.Int64()))
			case ">>":
				res.Rsh(lb.V, uint(rb.V.Int64()))
			default:
				return nil, it.throwf(errstack.TypeError, "BigInts have no unsigned right shift")
			}
			return value.BigInt{V: res}, nil
		}
	}
	ln, err := value.ToNumber(l)
	if err != nil {
		return nil, it.throwf(errstack.TypeError, "%s", err.Error())
	}
	rn, err := value.ToNumber(r)
	if err != nil {
		return nil, it.throwf(errstack.TypeError, "%s", err.Error())
	}
	a, b := toInt32(ln), toInt32(rn)
	switch op {
	case "&":
		return value.Number(float64(a & b)), nil
	case "|":
		return value.Number(float64(a | b)), nil
	case "^":
		return value.Number(float64(a ^ b)), nil
	case "<<":
		return value.Number(float64(a << (uint32(b) & 31))), nil
	case ">>":
		return value.Number(float64(a >> (uint32(b) & 31))), nil
	case ">>>":
		return value.Number(float64(toUint32(ln) >> (uint32(b) & 31))), nil
	}
	return nil, it.throwf(errstack.SyntaxError, "unknown bitwise operator %q", op)
}

// instanceOf walks l's prototype chain looking for r.prototype (spec.md
// §4.G instanceof semantics).
func (it *Interpreter) instanceOf(l, r value.Value) (value.Value, error) {
	f, ok := r.(*heap.Function)
	if !ok {
		return nil, it.throwf(errstack.TypeError, "Right-hand side of 'instanceof' is not callable")
	}
	proto := f.PrototypeProperty
	cur, ok := protoOf(l)
	if !ok {
		return value.Boolean(false), nil
	}
	for cur != nil {
		if cur == proto {
			return value.Boolean(true), nil
		}
		var ok bool
		cur, ok = protoOf(cur)
		if !ok {
			break
		}
	}
	return value.Boolean(false), nil
}

// protoOf returns the [[Prototype]] link of any heap kind that carries
// one. The second result is false for values with no prototype slot at
// all (primitives), distinct from a true Proto of value.Null{}.
func protoOf(v value.Value) (value.Value, bool) {
	switch o := v.(type) {
	case *heap.Object:
		return o.Proto, true
	case *heap.Array:
		return o.Proto, true
	case *heap.Function:
		return o.Proto, true
	case *heap.Promise:
		return o.Proto, true
	case *heap.Generator:
		return o.Proto, true
	case *heap.Map:
		return o.Proto, true
	case *heap.Set:
		return o.Proto, true
	case *heap.ErrorObject:
		return o.Proto, true
	case *heap.Regex:
		return o.Proto, true
	case *heap.TypedArray:
		return o.Proto, true
	}
	return nil, false
}

func (it *Interpreter) inOp(l, r value.Value) (value.Value, error) {
	key, err := value.ToString(l)
	if err != nil {
		return nil, it.throwf(errstack.TypeError, "%s", err.Error())
	}
	switch o := r.(type) {
	case *heap.Object:
		for cur := value.Value(o); cur != nil; {
			obj, ok := cur.(*heap.Object)
			if !ok {
				break
			}
			if _, ok := obj.Get(key); ok {
				return value.Boolean(true), nil
			}
			if _, ok := obj.Descriptor(key); ok {
				return value.Boolean(true), nil
			}
			cur = obj.Proto
		}
		return value.Boolean(false), nil
	case *heap.Array:
		if key == "length" {
			return value.Boolean(true), nil
		}
		if idx, ok := heap.IndexFromKey(key); ok {
			_, has := o.Get(idx)
			return value.Boolean(has), nil
		}
		return value.Boolean(false), nil
	default:
		return nil, it.throwf(errstack.TypeError, "Cannot use 'in' operator on non-object")
	}
}

func (it *Interpreter) evalLogical(ctx *execCtx, n *ast.LogicalExpression) (value.Value, error) {
	l, err := it.evalExpr(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "&&":
		if !value.ToBoolean(l) {
			return l, nil
		}
		return it.evalExpr(ctx, n.Right)
	case "||":
		if value.ToBoolean(l) {
			return l, nil
		}
		return it.evalExpr(ctx, n.Right)
	case "??":
		if _, isU := l.(value.Undefined); isU {
			return it.evalExpr(ctx, n.Right)
		}
		if _, isN := l.(value.Null); isN {
			return it.evalExpr(ctx, n.Right)
		}
		return l, nil
	}
	return nil, it.throwf(errstack.SyntaxError, "unknown logical operator %q", n.Operator)
}
