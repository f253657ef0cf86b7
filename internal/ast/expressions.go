package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// Identifier is both an Expression (variable reference) and a Pattern
// (simple binding target).
type Identifier struct {
	Position
	Name string
}

func (i *Identifier) String() string   { return i.Name }
func (*Identifier) expressionNode()    {}
func (*Identifier) patternNode()       {}

// NumberLiteral is an IEEE-754 double literal.
type NumberLiteral struct {
	Position
	Value float64
	Raw   string
}

func (n *NumberLiteral) String() string { return n.Raw }
func (*NumberLiteral) expressionNode()  {}

// BigIntLiteral is an arbitrary-precision integer literal, e.g. `10n`.
type BigIntLiteral struct {
	Position
	Raw string // digits without the trailing "n"
}

func (b *BigIntLiteral) String() string { return b.Raw + "n" }
func (*BigIntLiteral) expressionNode()  {}

// StringLiteral is a single- or double-quoted string literal.
type StringLiteral struct {
	Position
	Value string
}

func (s *StringLiteral) String() string { return fmt.Sprintf("%q", s.Value) }
func (*StringLiteral) expressionNode()  {}

// TemplateLiteral is a backtick string with interpolated expressions.
// Quasis has len(Expressions)+1 entries.
type TemplateLiteral struct {
	Position
	Quasis      []string
	Expressions []Expression
}

func (t *TemplateLiteral) String() string {
	var b strings.Builder
	b.WriteByte('`')
	for i, q := range t.Quasis {
		b.WriteString(q)
		if i < len(t.Expressions) {
			b.WriteString("${")
			b.WriteString(t.Expressions[i].String())
			b.WriteString("}")
		}
	}
	b.WriteByte('`')
	return b.String()
}
func (*TemplateLiteral) expressionNode() {}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Position
	Value bool
}

func (b *BooleanLiteral) String() string { return fmt.Sprintf("%t", b.Value) }
func (*BooleanLiteral) expressionNode()  {}

// NullLiteral is the `null` literal.
type NullLiteral struct{ Position }

func (*NullLiteral) String() string    { return "null" }
func (*NullLiteral) expressionNode()   {}

// ThisExpression is `this`.
type ThisExpression struct{ Position }

func (*ThisExpression) String() string  { return "this" }
func (*ThisExpression) expressionNode() {}

// SuperExpression is the bare `super` keyword used in `super.method()` /
// `super(...)` calls.
type SuperExpression struct{ Position }

func (*SuperExpression) String() string  { return "super" }
func (*SuperExpression) expressionNode() {}

// ArrayLiteral is `[a, b, ...rest]`.
type ArrayLiteral struct {
	Position
	Elements []Expression // may contain *SpreadElement; may contain nil for elisions
}

func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e == nil {
			continue
		}
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (*ArrayLiteral) expressionNode() {}

// PropertyKind distinguishes ordinary, getter, setter, and method
// properties in an object literal or class body.
type PropertyKind int

const (
	PropertyInit PropertyKind = iota
	PropertyGet
	PropertySet
	PropertyMethod
	PropertySpread
)

// Property is one entry of an ObjectLiteral.
type Property struct {
	Position
	Key       Expression // Identifier or StringLiteral/NumberLiteral, or the spread argument when Kind==PropertySpread
	Value     Expression
	Computed  bool
	Kind      PropertyKind
	Shorthand bool
}

func (p *Property) String() string {
	if p.Kind == PropertySpread {
		return "..." + p.Key.String()
	}
	return p.Key.String() + ": " + p.Value.String()
}

// ObjectLiteral is `{ a: 1, [b]: 2, ...rest }`.
type ObjectLiteral struct {
	Position
	Properties []*Property
}

func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (*ObjectLiteral) expressionNode() {}

// SpreadElement is `...expr` used in array/object literals and call args.
type SpreadElement struct {
	Position
	Argument Expression
}

func (s *SpreadElement) String() string { return "..." + s.Argument.String() }
func (*SpreadElement) expressionNode()  {}

// FunctionExpression is a `function` (or `function*`, `async function`)
// expression or declaration body shared by FunctionDeclaration.
type FunctionExpression struct {
	Position
	Name      *Identifier // nil for anonymous
	Params    []Pattern
	Body      *BlockStatement
	Async     bool
	Generator bool
	Arrow     bool // also used by ArrowFunctionExpression's shared shape
}

func (f *FunctionExpression) String() string {
	name := ""
	if f.Name != nil {
		name = f.Name.Name
	}
	return fmt.Sprintf("function %s(...)", name)
}
func (*FunctionExpression) expressionNode() {}

// ArrowFunctionExpression is `(a, b) => expr` or `(a) => { ... }`.
type ArrowFunctionExpression struct {
	Position
	Params     []Pattern
	Body       Node // *BlockStatement or an Expression (concise body)
	Async      bool
	ExprBody   bool
}

func (a *ArrowFunctionExpression) String() string { return "(...) => ..." }
func (*ArrowFunctionExpression) expressionNode()   {}

// ClassExpression/ClassDeclaration share this body shape; see classes.go.

// UnaryExpression is a prefix unary operator: `!x`, `-x`, `typeof x`,
// `void x`, `delete x.y`, `~x`.
type UnaryExpression struct {
	Position
	Operator string
	Argument Expression
}

func (u *UnaryExpression) String() string {
	return "(" + u.Operator + u.Argument.String() + ")"
}
func (*UnaryExpression) expressionNode() {}

// UpdateExpression is `++x`, `x++`, `--x`, `x--`.
type UpdateExpression struct {
	Position
	Operator string
	Argument Expression
	Prefix   bool
}

func (u *UpdateExpression) String() string {
	if u.Prefix {
		return u.Operator + u.Argument.String()
	}
	return u.Argument.String() + u.Operator
}
func (*UpdateExpression) expressionNode() {}

// BinaryExpression is an infix arithmetic/relational/bitwise operator.
type BinaryExpression struct {
	Position
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}
func (*BinaryExpression) expressionNode() {}

// LogicalExpression is `&&`, `||`, `??` — short-circuiting operators.
type LogicalExpression struct {
	Position
	Operator string
	Left     Expression
	Right    Expression
}

func (l *LogicalExpression) String() string {
	return "(" + l.Left.String() + " " + l.Operator + " " + l.Right.String() + ")"
}
func (*LogicalExpression) expressionNode() {}

// AssignmentExpression is `a = b`, `a += b`, destructuring assignment, etc.
type AssignmentExpression struct {
	Position
	Operator string // "=", "+=", "-=", ...
	Target   Expression // Identifier/MemberExpression, or a pattern-as-expression for destructuring
	Value    Expression
}

func (a *AssignmentExpression) String() string {
	return a.Target.String() + " " + a.Operator + " " + a.Value.String()
}
func (*AssignmentExpression) expressionNode() {}

// ConditionalExpression is `cond ? a : b`.
type ConditionalExpression struct {
	Position
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (c *ConditionalExpression) String() string {
	return "(" + c.Test.String() + " ? " + c.Consequent.String() + " : " + c.Alternate.String() + ")"
}
func (*ConditionalExpression) expressionNode() {}

// CallExpression is `callee(args)`. Optional marks an `?.()` call that
// short-circuits when callee resolved to null/undefined.
type CallExpression struct {
	Position
	Callee   Expression
	Args     []Expression // may contain *SpreadElement
	Optional bool
}

func (c *CallExpression) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (*CallExpression) expressionNode() {}

// NewExpression is `new Callee(args)`.
type NewExpression struct {
	Position
	Callee Expression
	Args   []Expression
}

func (n *NewExpression) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return "new " + n.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (*NewExpression) expressionNode() {}

// MemberExpression is `obj.prop` or `obj[expr]`, optionally `?.`.
type MemberExpression struct {
	Position
	Object   Expression
	Property Expression // Identifier when !Computed, any Expression when Computed
	Computed bool
	Optional bool
}

func (m *MemberExpression) String() string {
	if m.Computed {
		return m.Object.String() + "[" + m.Property.String() + "]"
	}
	return m.Object.String() + "." + m.Property.String()
}
func (*MemberExpression) expressionNode() {}

// SequenceExpression is the comma operator `a, b, c`.
type SequenceExpression struct {
	Position
	Expressions []Expression
}

func (s *SequenceExpression) String() string {
	var buf bytes.Buffer
	for i, e := range s.Expressions {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.String())
	}
	return buf.String()
}
func (*SequenceExpression) expressionNode() {}

// YieldExpression is `yield expr` or `yield* expr`.
type YieldExpression struct {
	Position
	Argument Expression // may be nil
	Delegate bool       // yield*
}

func (y *YieldExpression) String() string {
	if y.Delegate {
		return "yield* " + y.Argument.String()
	}
	if y.Argument == nil {
		return "yield"
	}
	return "yield " + y.Argument.String()
}
func (*YieldExpression) expressionNode() {}

// AwaitExpression is `await expr`.
type AwaitExpression struct {
	Position
	Argument Expression
}

func (a *AwaitExpression) String() string { return "await " + a.Argument.String() }
func (*AwaitExpression) expressionNode()  {}

// RegexLiteral is `/pattern/flags`.
type RegexLiteral struct {
	Position
	Pattern string
	Flags   string
}

func (r *RegexLiteral) String() string { return "/" + r.Pattern + "/" + r.Flags }
func (*RegexLiteral) expressionNode()  {}
