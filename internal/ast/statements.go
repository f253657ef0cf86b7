package ast

import "strings"

// VarKind distinguishes `var`, `let`, and `const` declarations, which
// differ in scoping and TDZ semantics (spec.md §4.E).
type VarKind int

const (
	VarVar VarKind = iota
	VarLet
	VarConst
)

func (k VarKind) String() string {
	switch k {
	case VarLet:
		return "let"
	case VarConst:
		return "const"
	default:
		return "var"
	}
}

// Declarator binds Target (a pattern, possibly destructuring) to Init
// (nil for an uninitialized `let x;`/`var x;`).
type Declarator struct {
	Position
	Target Pattern
	Init   Expression
}

// VarStatement is `var|let|const a = 1, b = 2;`.
type VarStatement struct {
	Position
	Kind         VarKind
	Declarations []*Declarator
}

func (v *VarStatement) String() string { return v.Kind.String() + " ..." }
func (*VarStatement) statementNode()   {}

// ExpressionStatement wraps an expression used for its side effect.
type ExpressionStatement struct {
	Position
	Expression Expression
}

func (e *ExpressionStatement) String() string { return e.Expression.String() + ";" }
func (*ExpressionStatement) statementNode()   {}

// BlockStatement is `{ ...statements }`. Introduces a new lexical
// Environment frame for `let`/`const`/function declarations in it.
type BlockStatement struct {
	Position
	Statements []Statement
}

func (b *BlockStatement) String() string {
	parts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
func (*BlockStatement) statementNode() {}

// EmptyStatement is a bare `;`.
type EmptyStatement struct{ Position }

func (*EmptyStatement) String() string { return ";" }
func (*EmptyStatement) statementNode()  {}

// IfStatement is `if (test) consequent else alternate`.
type IfStatement struct {
	Position
	Test       Expression
	Consequent Statement
	Alternate  Statement // nil if no else
}

func (s *IfStatement) String() string { return "if (" + s.Test.String() + ") ..." }
func (*IfStatement) statementNode()   {}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Position
	Test Expression
	Body Statement
	Label string
}

func (s *WhileStatement) String() string { return "while (" + s.Test.String() + ") ..." }
func (*WhileStatement) statementNode()   {}

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	Position
	Body  Statement
	Test  Expression
	Label string
}

func (s *DoWhileStatement) String() string { return "do ... while (" + s.Test.String() + ")" }
func (*DoWhileStatement) statementNode()   {}

// ForStatement is the classic C-style `for (init; test; update) body`.
// Init/Test/Update may each be nil.
type ForStatement struct {
	Position
	Init   Node // *VarStatement or Expression, or nil
	Test   Expression
	Update Expression
	Body   Statement
	Label  string
}

func (s *ForStatement) String() string { return "for (...) ..." }
func (*ForStatement) statementNode()   {}

// ForInStatement is `for (Kind Target in Right) body` (own+inherited
// string keys, spec.md §4.G).
type ForInStatement struct {
	Position
	Kind  VarKind // VarVar used for `for (x in y)` with no declaration
	Decl  bool    // true if Kind introduces a new binding
	Target Pattern
	Right Expression
	Body  Statement
	Label string
}

func (s *ForInStatement) String() string { return "for (... in " + s.Right.String() + ") ..." }
func (*ForInStatement) statementNode()   {}

// ForOfStatement is `for (Kind Target of Right) body`, requesting the
// iterator protocol (spec.md §4.G).
type ForOfStatement struct {
	Position
	Kind   VarKind
	Decl   bool
	Target Pattern
	Right  Expression
	Body   Statement
	Await  bool // for-await-of inside async functions/generators
	Label  string
}

func (s *ForOfStatement) String() string { return "for (... of " + s.Right.String() + ") ..." }
func (*ForOfStatement) statementNode()   {}

// BreakStatement is `break;` or `break label;`.
type BreakStatement struct {
	Position
	Label string
}

func (s *BreakStatement) String() string { return "break " + s.Label }
func (*BreakStatement) statementNode()   {}

// ContinueStatement is `continue;` or `continue label;`.
type ContinueStatement struct {
	Position
	Label string
}

func (s *ContinueStatement) String() string { return "continue " + s.Label }
func (*ContinueStatement) statementNode()   {}

// ReturnStatement is `return;` or `return expr;`.
type ReturnStatement struct {
	Position
	Argument Expression // nil for bare `return;`
}

func (s *ReturnStatement) String() string { return "return ...;" }
func (*ReturnStatement) statementNode()   {}

// ThrowStatement is `throw expr;`.
type ThrowStatement struct {
	Position
	Argument Expression
}

func (s *ThrowStatement) String() string { return "throw " + s.Argument.String() + ";" }
func (*ThrowStatement) statementNode()   {}

// CatchClause is the `catch (param) { body }` part of a TryStatement.
// Param may be nil for a parameterless `catch { }`.
type CatchClause struct {
	Position
	Param Pattern
	Body  *BlockStatement
}

// TryStatement is `try { } catch (e) { } finally { }`. Handler and
// Finalizer may each be nil (but not both).
type TryStatement struct {
	Position
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

func (s *TryStatement) String() string { return "try { ... }" }
func (*TryStatement) statementNode()   {}

// LabeledStatement is `label: statement`.
type LabeledStatement struct {
	Position
	Label string
	Body  Statement
}

func (s *LabeledStatement) String() string { return s.Label + ": " + s.Body.String() }
func (*LabeledStatement) statementNode()   {}

// FunctionDeclaration is a named `function`/`function*`/`async function`
// declaration in statement position.
type FunctionDeclaration struct {
	Position
	Function *FunctionExpression
}

func (s *FunctionDeclaration) String() string { return s.Function.String() }
func (*FunctionDeclaration) statementNode()   {}
