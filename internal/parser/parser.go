// Package parser implements the minimal recursive-descent/Pratt parser
// SPEC_FULL.md §12 describes: enough ECMAScript grammar to exercise the
// evaluator's contract (expressions, destructuring, classes with
// `super`, async/generator function syntax) — not a conformance-complete
// ES2020 parser.
//
// Grounded on the teacher's internal/parser (CWBudde-go-dws) for overall
// shape: a cursor over a token stream (cursor.go's lookahead discipline),
// a table of statement/expression parse functions keyed by token type
// (combinators.go), and errors collected onto the parser rather than
// panicking. The grammar itself is rebuilt from zero for ECMAScript's
// infix-operator-precedence expression language, which has no analog in
// DWScript's Pascal-derived statement/expression split.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/lexer"
)

// precedence levels, lowest to highest binding.
const (
	_ int = iota
	LOWEST
	COMMA
	ASSIGNP
	CONDITIONAL
	NULLISH
	LOGOR
	LOGAND
	BITOR
	BITXOR
	BITAND
	EQUALITY
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	EXPONENT
	UNARY
	POSTFIX
	CALLP
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN: ASSIGNP, lexer.PLUS_EQ: ASSIGNP, lexer.MINUS_EQ: ASSIGNP,
	lexer.STAR_EQ: ASSIGNP, lexer.SLASH_EQ: ASSIGNP, lexer.PERCENT_EQ: ASSIGNP,
	lexer.POW_EQ: ASSIGNP, lexer.AND_EQ: ASSIGNP, lexer.OR_EQ: ASSIGNP,
	lexer.QQ_EQ: ASSIGNP, lexer.AMP_EQ: ASSIGNP, lexer.PIPE_EQ: ASSIGNP,
	lexer.CARET_EQ: ASSIGNP, lexer.SHL_EQ: ASSIGNP, lexer.SHR_EQ: ASSIGNP,
	lexer.USHR_EQ: ASSIGNP,
	lexer.QUESTION: CONDITIONAL,
	lexer.QQ:       NULLISH,
	lexer.PIPE_PIPE: LOGOR,
	lexer.AMP_AMP:   LOGAND,
	lexer.PIPE:      BITOR,
	lexer.CARET:     BITXOR,
	lexer.AMP:       BITAND,
	lexer.EQ: EQUALITY, lexer.NEQ: EQUALITY, lexer.SEQ: EQUALITY, lexer.SNEQ: EQUALITY,
	lexer.LT: RELATIONAL, lexer.GT: RELATIONAL, lexer.LTE: RELATIONAL, lexer.GTE: RELATIONAL,
	lexer.INSTANCEOF: RELATIONAL, lexer.IN: RELATIONAL,
	lexer.SHL: SHIFT, lexer.SHR: SHIFT, lexer.USHR: SHIFT,
	lexer.PLUS: ADDITIVE, lexer.MINUS: ADDITIVE,
	lexer.STAR: MULTIPLICATIVE, lexer.SLASH: MULTIPLICATIVE, lexer.PERCENT: MULTIPLICATIVE,
	lexer.POW: EXPONENT,
	lexer.LPAREN: CALLP, lexer.DOT: CALLP, lexer.LBRACKET: CALLP, lexer.OPTCHAIN: CALLP,
}

// Parser consumes a lexer.Lexer's Token stream and builds an ast.Program.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	cur  lexer.Token
	peek lexer.Token

	inGenerator bool
	inAsync     bool
}

// New builds a Parser positioned before the first token of l's input.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Errors returns every parse error collected so far.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) pos() ast.Position { return ast.Position{Line: p.cur.Line, Column: p.cur.Column} }

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", p.cur.Line, p.cur.Column, fmt.Sprintf(format, args...)))
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	tok := p.cur
	if p.cur.Type != t {
		p.errorf("expected token %d, got %q", t, p.cur.Literal)
	}
	p.next()
	return tok
}

// consumeSemicolon implements just enough automatic-semicolon-insertion
// to parse real-world scripts: an explicit `;` is consumed; otherwise a
// following `}`, EOF, or a newline before the next token ends the
// statement silently.
func (p *Parser) consumeSemicolon() {
	if p.cur.Type == lexer.SEMI {
		p.next()
		return
	}
	if p.cur.Type == lexer.RBRACE || p.cur.Type == lexer.EOF || p.cur.NLBefore {
		return
	}
	p.errorf("expected ';', got %q", p.cur.Literal)
}

// ParseProgram parses the entire token stream into an ast.Program.
func ParseProgram(src string) (*ast.Program, []string) {
	p := New(lexer.New(src))
	prog := &ast.Program{Position: p.pos()}
	for p.cur.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog, p.errors
}

// ---- Statements ----

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.VAR, lexer.LET, lexer.CONST:
		s := p.parseVarStatement()
		p.consumeSemicolon()
		return s
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMI:
		pos := p.pos()
		p.next()
		return &ast.EmptyStatement{Position: pos}
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement("")
	case lexer.DO:
		return p.parseDoWhileStatement("")
	case lexer.FOR:
		return p.parseForStatement("")
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case lexer.ASYNC:
		if p.peek.Type == lexer.FUNCTION {
			p.next()
			return p.parseFunctionDeclaration(true)
		}
	case lexer.CLASS:
		return p.parseClassDeclaration()
	case lexer.IMPORT:
		return p.parseImportDeclaration()
	case lexer.EXPORT:
		return p.parseExportDeclaration()
	case lexer.IDENT:
		if p.peek.Type == lexer.COLON {
			return p.parseLabeledStatement()
		}
	}
	s := p.parseExpressionStatement()
	p.consumeSemicolon()
	return s
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	pos := p.pos()
	label := p.cur.Literal
	p.next() // ident
	p.next() // :
	switch p.cur.Type {
	case lexer.FOR:
		return p.parseForStatement(label)
	case lexer.WHILE:
		return p.parseWhileStatement(label)
	case lexer.DO:
		return p.parseDoWhileStatement(label)
	}
	return &ast.LabeledStatement{Position: pos, Label: label, Body: p.parseStatement()}
}

func (p *Parser) parseVarKind() ast.VarKind {
	switch p.cur.Type {
	case lexer.LET:
		return ast.VarLet
	case lexer.CONST:
		return ast.VarConst
	default:
		return ast.VarVar
	}
}

func (p *Parser) parseVarStatement() *ast.VarStatement {
	pos := p.pos()
	kind := p.parseVarKind()
	p.next()
	stmt := &ast.VarStatement{Position: pos, Kind: kind}
	for {
		d := &ast.Declarator{Position: p.pos(), Target: p.parseBindingTarget()}
		if p.cur.Type == lexer.ASSIGN {
			p.next()
			d.Init = p.parseAssignExpr()
		}
		stmt.Declarations = append(stmt.Declarations, d)
		if p.cur.Type != lexer.COMMA {
			break
		}
		p.next()
	}
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	pos := p.pos()
	p.expect(lexer.LBRACE)
	b := &ast.BlockStatement{Position: pos}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if s := p.parseStatement(); s != nil {
			b.Statements = append(b.Statements, s)
		}
	}
	p.expect(lexer.RBRACE)
	return b
}

func (p *Parser) parseIfStatement() ast.Statement {
	pos := p.pos()
	p.next()
	p.expect(lexer.LPAREN)
	test := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	cons := p.parseStatement()
	s := &ast.IfStatement{Position: pos, Test: test, Consequent: cons}
	if p.cur.Type == lexer.ELSE {
		p.next()
		s.Alternate = p.parseStatement()
	}
	return s
}

func (p *Parser) parseWhileStatement(label string) ast.Statement {
	pos := p.pos()
	p.next()
	p.expect(lexer.LPAREN)
	test := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	return &ast.WhileStatement{Position: pos, Test: test, Body: p.parseStatement(), Label: label}
}

func (p *Parser) parseDoWhileStatement(label string) ast.Statement {
	pos := p.pos()
	p.next()
	body := p.parseStatement()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	test := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	p.consumeSemicolon()
	return &ast.DoWhileStatement{Position: pos, Body: body, Test: test, Label: label}
}

func (p *Parser) parseForStatement(label string) ast.Statement {
	pos := p.pos()
	p.next()
	awaitFor := false
	if p.cur.Type == lexer.AWAIT {
		awaitFor = true
		p.next()
	}
	p.expect(lexer.LPAREN)

	var kind ast.VarKind
	decl := false
	if p.cur.Type == lexer.VAR || p.cur.Type == lexer.LET || p.cur.Type == lexer.CONST {
		decl = true
		kind = p.parseVarKind()
		p.next()
		target := p.parseBindingTarget()

		if p.cur.Type == lexer.IN {
			p.next()
			right := p.parseExpression(LOWEST)
			p.expect(lexer.RPAREN)
			return &ast.ForInStatement{Position: pos, Kind: kind, Decl: decl, Target: target, Right: right, Body: p.parseStatement(), Label: label}
		}
		if p.cur.Type == lexer.OF {
			p.next()
			right := p.parseAssignExpr()
			p.expect(lexer.RPAREN)
			return &ast.ForOfStatement{Position: pos, Kind: kind, Decl: decl, Target: target, Right: right, Body: p.parseStatement(), Await: awaitFor, Label: label}
		}

		stmt := &ast.VarStatement{Position: pos, Kind: kind}
		d := &ast.Declarator{Position: pos, Target: target}
		if p.cur.Type == lexer.ASSIGN {
			p.next()
			d.Init = p.parseAssignExpr()
		}
		stmt.Declarations = append(stmt.Declarations, d)
		for p.cur.Type == lexer.COMMA {
			p.next()
			d2 := &ast.Declarator{Position: p.pos(), Target: p.parseBindingTarget()}
			if p.cur.Type == lexer.ASSIGN {
				p.next()
				d2.Init = p.parseAssignExpr()
			}
			stmt.Declarations = append(stmt.Declarations, d2)
		}
		return p.finishClassicFor(pos, stmt, label)
	}

	if p.cur.Type == lexer.SEMI {
		return p.finishClassicFor(pos, nil, label)
	}

	first := p.parseExpression(LOWEST)
	if p.cur.Type == lexer.IN {
		p.next()
		right := p.parseExpression(LOWEST)
		p.expect(lexer.RPAREN)
		return &ast.ForInStatement{Position: pos, Target: exprToPattern(first), Right: right, Body: p.parseStatement(), Label: label}
	}
	if p.cur.Type == lexer.OF {
		p.next()
		right := p.parseAssignExpr()
		p.expect(lexer.RPAREN)
		return &ast.ForOfStatement{Position: pos, Target: exprToPattern(first), Right: right, Body: p.parseStatement(), Await: awaitFor, Label: label}
	}
	return p.finishClassicFor(pos, first, label)
}

// finishClassicFor parses the remaining `; test; update) body` of a
// C-style for loop, given the already-parsed init clause (a
// *ast.VarStatement, an Expression, or nil).
func (p *Parser) finishClassicFor(pos ast.Position, init ast.Node, label string) ast.Statement {
	p.expect(lexer.SEMI)
	var test ast.Expression
	if p.cur.Type != lexer.SEMI {
		test = p.parseExpression(LOWEST)
	}
	p.expect(lexer.SEMI)
	var update ast.Expression
	if p.cur.Type != lexer.RPAREN {
		update = p.parseExpression(LOWEST)
	}
	p.expect(lexer.RPAREN)
	return &ast.ForStatement{Position: pos, Init: init, Test: test, Update: update, Body: p.parseStatement(), Label: label}
}

func (p *Parser) parseBreakStatement() ast.Statement {
	pos := p.pos()
	p.next()
	s := &ast.BreakStatement{Position: pos}
	if p.cur.Type == lexer.IDENT && !p.cur.NLBefore {
		s.Label = p.cur.Literal
		p.next()
	}
	p.consumeSemicolon()
	return s
}

func (p *Parser) parseContinueStatement() ast.Statement {
	pos := p.pos()
	p.next()
	s := &ast.ContinueStatement{Position: pos}
	if p.cur.Type == lexer.IDENT && !p.cur.NLBefore {
		s.Label = p.cur.Literal
		p.next()
	}
	p.consumeSemicolon()
	return s
}

func (p *Parser) parseReturnStatement() ast.Statement {
	pos := p.pos()
	p.next()
	s := &ast.ReturnStatement{Position: pos}
	if p.cur.Type != lexer.SEMI && p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF && !p.cur.NLBefore {
		s.Argument = p.parseExpression(LOWEST)
	}
	p.consumeSemicolon()
	return s
}

func (p *Parser) parseThrowStatement() ast.Statement {
	pos := p.pos()
	p.next()
	s := &ast.ThrowStatement{Position: pos, Argument: p.parseExpression(LOWEST)}
	p.consumeSemicolon()
	return s
}

func (p *Parser) parseTryStatement() ast.Statement {
	pos := p.pos()
	p.next()
	s := &ast.TryStatement{Position: pos, Block: p.parseBlockStatement()}
	if p.cur.Type == lexer.CATCH {
		p.next()
		h := &ast.CatchClause{Position: p.pos()}
		if p.cur.Type == lexer.LPAREN {
			p.next()
			h.Param = p.parseBindingTarget()
			p.expect(lexer.RPAREN)
		}
		h.Body = p.parseBlockStatement()
		s.Handler = h
	}
	if p.cur.Type == lexer.FINALLY {
		p.next()
		s.Finalizer = p.parseBlockStatement()
	}
	return s
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	pos := p.pos()
	return &ast.ExpressionStatement{Position: pos, Expression: p.parseExpression(LOWEST)}
}

// ---- Functions & classes ----

func (p *Parser) parseFunctionDeclaration(async bool) ast.Statement {
	pos := p.pos()
	fn := p.parseFunctionRest(pos, async)
	return &ast.FunctionDeclaration{Position: pos, Function: fn}
}

// parseFunctionRest parses `function[*] name(params) { body }` after the
// leading `function`/`async function` keyword(s) have already set pos.
func (p *Parser) parseFunctionRest(pos ast.Position, async bool) *ast.FunctionExpression {
	p.expect(lexer.FUNCTION)
	gen := false
	if p.cur.Type == lexer.STAR {
		gen = true
		p.next()
	}
	fn := &ast.FunctionExpression{Position: pos, Async: async, Generator: gen}
	if p.cur.Type == lexer.IDENT {
		fn.Name = &ast.Identifier{Position: p.pos(), Name: p.cur.Literal}
		p.next()
	}
	savedGen, savedAsync := p.inGenerator, p.inAsync
	p.inGenerator, p.inAsync = gen, async
	fn.Params = p.parseParamList()
	fn.Body = p.parseBlockStatement()
	p.inGenerator, p.inAsync = savedGen, savedAsync
	return fn
}

func (p *Parser) parseParamList() []ast.Pattern {
	p.expect(lexer.LPAREN)
	var params []ast.Pattern
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.DOTDOTDOT {
			pos := p.pos()
			p.next()
			params = append(params, &ast.RestElement{Position: pos, Target: p.parseBindingTarget()})
		} else {
			target := p.parseBindingTarget()
			if p.cur.Type == lexer.ASSIGN {
				pos := p.pos()
				p.next()
				target = &ast.AssignmentPattern{Position: pos, Target: target, Default: p.parseAssignExpr()}
			}
			params = append(params, target)
		}
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseClassDeclaration() ast.Statement {
	return &ast.ClassDeclaration{ClassBody: p.parseClassBody()}
}

func (p *Parser) parseClassBody() ast.ClassBody {
	pos := p.pos()
	p.expect(lexer.CLASS)
	body := ast.ClassBody{Position: pos}
	if p.cur.Type == lexer.IDENT {
		body.Name = &ast.Identifier{Position: p.pos(), Name: p.cur.Literal}
		p.next()
	}
	if p.cur.Type == lexer.EXTENDS {
		p.next()
		body.SuperClass = p.parseUnary()
		body = p.parseClassMembersInto(body)
		return body
	}
	return p.parseClassMembersInto(body)
}

func (p *Parser) parseClassMembersInto(body ast.ClassBody) ast.ClassBody {
	p.expect(lexer.LBRACE)
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.SEMI {
			p.next()
			continue
		}
		body.Members = append(body.Members, p.parseClassMember())
	}
	p.expect(lexer.RBRACE)
	return body
}

func (p *Parser) parseClassMember() *ast.ClassMember {
	pos := p.pos()
	m := &ast.ClassMember{Position: pos}
	if p.cur.Type == lexer.STATIC && p.peek.Type != lexer.LPAREN && p.peek.Type != lexer.ASSIGN {
		m.Static = true
		p.next()
	}
	async := false
	gen := false
	kind := ast.PropertyMethod
	if p.cur.Type == lexer.ASYNC && p.peek.Type != lexer.LPAREN && p.peek.Type != lexer.ASSIGN {
		async = true
		p.next()
	}
	if p.cur.Type == lexer.STAR {
		gen = true
		p.next()
	}
	if (p.cur.Type == lexer.GET || p.cur.Type == lexer.SET) && p.peek.Type != lexer.LPAREN && p.peek.Type != lexer.ASSIGN {
		if p.cur.Type == lexer.GET {
			kind = ast.PropertyGet
		} else {
			kind = ast.PropertySet
		}
		p.next()
	}

	m.Key, m.Computed = p.parsePropertyKey()

	if p.cur.Type == lexer.LPAREN {
		m.Kind = kind
		fn := &ast.FunctionExpression{Position: pos, Async: async, Generator: gen}
		savedGen, savedAsync := p.inGenerator, p.inAsync
		p.inGenerator, p.inAsync = gen, async
		fn.Params = p.parseParamList()
		fn.Body = p.parseBlockStatement()
		p.inGenerator, p.inAsync = savedGen, savedAsync
		m.Value = fn
		return m
	}

	m.Kind = ast.PropertyInit
	if p.cur.Type == lexer.ASSIGN {
		p.next()
		m.Field = p.parseAssignExpr()
	}
	p.consumeSemicolon()
	return m
}

func (p *Parser) parsePropertyKey() (ast.Expression, bool) {
	if p.cur.Type == lexer.LBRACKET {
		p.next()
		key := p.parseAssignExpr()
		p.expect(lexer.RBRACKET)
		return key, true
	}
	pos := p.pos()
	switch p.cur.Type {
	case lexer.STRING:
		v := p.cur.Literal
		p.next()
		return &ast.StringLiteral{Position: pos, Value: v}, false
	case lexer.NUMBER:
		n, _ := strconv.ParseFloat(p.cur.Literal, 64)
		lit := p.cur.Literal
		p.next()
		return &ast.NumberLiteral{Position: pos, Value: n, Raw: lit}, false
	default:
		name := p.cur.Literal
		p.next()
		return &ast.Identifier{Position: pos, Name: name}, false
	}
}

// ---- Patterns ----

func (p *Parser) parseBindingTarget() ast.Pattern {
	switch p.cur.Type {
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	case lexer.LBRACE:
		return p.parseObjectPattern()
	default:
		pos := p.pos()
		switch p.cur.Type {
		case lexer.IDENT, lexer.GET, lexer.SET, lexer.OF, lexer.AS, lexer.FROM, lexer.STATIC, lexer.ASYNC:
		default:
			p.errorf("unexpected token %q in binding pattern", p.cur.Literal)
		}
		name := p.cur.Literal
		p.next()
		return &ast.Identifier{Position: pos, Name: name}
	}
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	pos := p.pos()
	p.expect(lexer.LBRACKET)
	pat := &ast.ArrayPattern{Position: pos}
	for p.cur.Type != lexer.RBRACKET && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.COMMA {
			pat.Elements = append(pat.Elements, nil)
			p.next()
			continue
		}
		if p.cur.Type == lexer.DOTDOTDOT {
			rpos := p.pos()
			p.next()
			pat.Elements = append(pat.Elements, &ast.RestElement{Position: rpos, Target: p.parseBindingTarget()})
			break
		}
		target := p.parseBindingTarget()
		if p.cur.Type == lexer.ASSIGN {
			apos := p.pos()
			p.next()
			target = &ast.AssignmentPattern{Position: apos, Target: target, Default: p.parseAssignExpr()}
		}
		pat.Elements = append(pat.Elements, target)
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RBRACKET)
	return pat
}

func (p *Parser) parseObjectPattern() *ast.ObjectPattern {
	pos := p.pos()
	p.expect(lexer.LBRACE)
	pat := &ast.ObjectPattern{Position: pos}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.DOTDOTDOT {
			rpos := p.pos()
			p.next()
			name := p.cur.Literal
			npos := p.pos()
			p.next()
			pat.Rest = &ast.RestElement{Position: rpos, Target: &ast.Identifier{Position: npos, Name: name}}
			break
		}
		key, computed := p.parsePropertyKey()
		prop := &ast.ObjectPatternProperty{Position: p.pos(), Key: key, Computed: computed}
		if p.cur.Type == lexer.COLON {
			p.next()
			prop.Value = p.parseBindingTarget()
		} else if id, ok := key.(*ast.Identifier); ok {
			prop.Value = &ast.Identifier{Position: id.Position, Name: id.Name}
		}
		if p.cur.Type == lexer.ASSIGN {
			apos := p.pos()
			p.next()
			prop.Value = &ast.AssignmentPattern{Position: apos, Target: prop.Value, Default: p.parseAssignExpr()}
		}
		pat.Properties = append(pat.Properties, prop)
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return pat
}

// exprToPattern reinterprets an already-parsed Expression as an
// assignment target, used by `for (x of y)`/`for (x in y)` where x was
// parsed as a generic expression before the `of`/`in` lookahead resolved.
func exprToPattern(e ast.Expression) ast.Pattern {
	switch v := e.(type) {
	case *ast.Identifier:
		return v
	case ast.Pattern:
		return v
	case *ast.ArrayLiteral:
		pat := &ast.ArrayPattern{Position: v.Position}
		for _, el := range v.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			if sp, ok := el.(*ast.SpreadElement); ok {
				pat.Elements = append(pat.Elements, &ast.RestElement{Position: sp.Position, Target: exprToPattern(sp.Argument)})
				continue
			}
			pat.Elements = append(pat.Elements, exprToPattern(el))
		}
		return pat
	case *ast.ObjectLiteral:
		pat := &ast.ObjectPattern{Position: v.Position}
		for _, prop := range v.Properties {
			if prop.Kind == ast.PropertySpread {
				pat.Rest = &ast.RestElement{Position: prop.Position, Target: exprToPattern(prop.Key)}
				continue
			}
			pat.Properties = append(pat.Properties, &ast.ObjectPatternProperty{
				Position: prop.Position, Key: prop.Key, Computed: prop.Computed, Value: exprToPattern(prop.Value),
			})
		}
		return pat
	case *ast.AssignmentExpression:
		// `[a = 1] of ...`/`{a = 1} of ...` destructuring defaults are
		// parsed as assignment expressions before the `of`/`in` lookahead
		// resolves; reinterpret as a pattern default.
		return &ast.AssignmentPattern{Position: v.Position, Target: exprToPattern(v.Target), Default: v.Value}
	default:
		// MemberExpression and other non-binding targets have no Pattern
		// representation in this grammar (spec.md §4.G scopes for-in/of
		// targets to identifiers and destructuring, not member stores).
		return &ast.Identifier{Position: e.Pos(), Name: e.String()}
	}
}

// ---- Imports / exports ----

func (p *Parser) parseImportDeclaration() ast.Statement {
	pos := p.pos()
	p.next()
	decl := &ast.ImportDeclaration{Position: pos}
	if p.cur.Type == lexer.STRING {
		decl.Source = p.cur.Literal
		p.next()
		p.consumeSemicolon()
		return decl
	}
	if p.cur.Type == lexer.IDENT {
		decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{Imported: "default", Local: p.cur.Literal})
		p.next()
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	if p.cur.Type == lexer.STAR {
		p.next()
		p.expect(lexer.AS)
		local := p.cur.Literal
		p.next()
		decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{Imported: "*", Local: local})
	} else if p.cur.Type == lexer.LBRACE {
		p.next()
		for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
			imported := p.cur.Literal
			p.next()
			local := imported
			if p.cur.Type == lexer.AS {
				p.next()
				local = p.cur.Literal
				p.next()
			}
			decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{Imported: imported, Local: local})
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RBRACE)
	}
	p.expect(lexer.FROM)
	decl.Source = p.cur.Literal
	p.next()
	p.consumeSemicolon()
	return decl
}

func (p *Parser) parseExportDeclaration() ast.Statement {
	pos := p.pos()
	p.next()
	if p.cur.Type == lexer.DEFAULT {
		p.next()
		var node ast.Node
		switch p.cur.Type {
		case lexer.FUNCTION:
			node = p.parseFunctionDeclaration(false)
		case lexer.CLASS:
			node = p.parseClassDeclaration()
		default:
			node = p.parseAssignExpr()
			p.consumeSemicolon()
		}
		return &ast.ExportDefaultDeclaration{Position: pos, Declaration: node}
	}
	if p.cur.Type == lexer.LBRACE {
		p.next()
		decl := &ast.ExportNamedDeclaration{Position: pos}
		for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
			local := p.cur.Literal
			p.next()
			exported := local
			if p.cur.Type == lexer.AS {
				p.next()
				exported = p.cur.Literal
				p.next()
			}
			decl.Specifiers = append(decl.Specifiers, ast.ExportSpecifier{Local: local, Exported: exported})
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RBRACE)
		if p.cur.Type == lexer.FROM {
			p.next()
			decl.Source = p.cur.Literal
			p.next()
		}
		p.consumeSemicolon()
		return decl
	}
	return &ast.ExportNamedDeclaration{Position: pos, Declaration: p.parseStatement()}
}

// ---- Expressions (Pratt) ----

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parseExpression(prec int) ast.Expression {
	left := p.parseAssignExpr()
	for p.cur.Type == lexer.COMMA && prec < COMMA {
		pos := p.pos()
		p.next()
		right := p.parseAssignExpr()
		if seq, ok := left.(*ast.SequenceExpression); ok {
			seq.Expressions = append(seq.Expressions, right)
		} else {
			left = &ast.SequenceExpression{Position: pos, Expressions: []ast.Expression{left, right}}
		}
	}
	return left
}

var assignOps = map[lexer.TokenType]string{
	lexer.ASSIGN: "=", lexer.PLUS_EQ: "+=", lexer.MINUS_EQ: "-=",
	lexer.STAR_EQ: "*=", lexer.SLASH_EQ: "/=", lexer.PERCENT_EQ: "%=",
	lexer.POW_EQ: "**=", lexer.AND_EQ: "&&=", lexer.OR_EQ: "||=",
	lexer.QQ_EQ: "??=", lexer.AMP_EQ: "&=", lexer.PIPE_EQ: "|=",
	lexer.CARET_EQ: "^=", lexer.SHL_EQ: "<<=", lexer.SHR_EQ: ">>=",
	lexer.USHR_EQ: ">>>=",
}

// parseAssignExpr parses one comma-free expression: an arrow function,
// a yield, or a right-associative assignment/binary/conditional chain.
func (p *Parser) parseAssignExpr() ast.Expression {
	if p.cur.Type == lexer.YIELD {
		return p.parseYield()
	}
	if fn := p.tryParseArrow(); fn != nil {
		return fn
	}
	left := p.parseBinary(LOWEST + 1)
	if p.cur.Type == lexer.QUESTION {
		pos := p.pos()
		p.next()
		cons := p.parseAssignExpr()
		p.expect(lexer.COLON)
		alt := p.parseAssignExpr()
		return &ast.ConditionalExpression{Position: pos, Test: left, Consequent: cons, Alternate: alt}
	}
	if op, ok := assignOps[p.cur.Type]; ok {
		pos := p.pos()
		p.next()
		value := p.parseAssignExpr()
		return &ast.AssignmentExpression{Position: pos, Operator: op, Target: left, Value: value}
	}
	return left
}

func (p *Parser) parseYield() ast.Expression {
	pos := p.pos()
	if !p.inGenerator {
		p.errorf("yield is only valid inside a generator function")
	}
	p.next()
	y := &ast.YieldExpression{Position: pos}
	if p.cur.Type == lexer.STAR {
		y.Delegate = true
		p.next()
	}
	if p.cur.Type != lexer.SEMI && p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.RBRACE &&
		p.cur.Type != lexer.RBRACKET && p.cur.Type != lexer.COMMA && p.cur.Type != lexer.EOF && !p.cur.NLBefore {
		y.Argument = p.parseAssignExpr()
	}
	return y
}

// tryParseArrow attempts to parse an arrow function at the current
// position, returning nil (without consuming input — via a lexer/parser
// snapshot) if the lookahead doesn't resolve to one. Arrow functions are
// the one construct in this grammar that needs unbounded lookahead past
// a parenthesized expression to find a following `=>`.
func (p *Parser) tryParseArrow() ast.Expression {
	if p.cur.Type == lexer.ASYNC && (p.peek.Type == lexer.LPAREN || p.peek.Type == lexer.IDENT) && !p.peek.NLBefore {
		// Only commit to async-arrow parsing once an actual arrow is
		// confirmed; snapshot before consuming `async`.
		snap := p.snapshot()
		p.next()
		if fn := p.tryParseArrowParams(true); fn != nil {
			return fn
		}
		p.restore(snap)
	}
	return p.tryParseArrowParams(false)
}

func (p *Parser) tryParseArrowParams(async bool) ast.Expression {
	pos := p.pos()
	if p.cur.Type == lexer.IDENT && p.peek.Type == lexer.ARROW {
		name := p.cur.Literal
		p.next()
		p.next() // =>
		return p.finishArrow(pos, []ast.Pattern{&ast.Identifier{Position: pos, Name: name}}, async)
	}
	if p.cur.Type != lexer.LPAREN {
		return nil
	}
	snap := p.snapshot()
	params, ok := p.tryParseParenParamList()
	if !ok || p.cur.Type != lexer.ARROW {
		p.restore(snap)
		return nil
	}
	p.next() // =>
	return p.finishArrow(pos, params, async)
}

// tryParseParenParamList speculatively parses `(params)` as an arrow
// function's parameter list. Syntax errors are recorded the usual way
// and ok is false only if parsing panicked; the caller restores the
// saved state when no `=>` follows.
func (p *Parser) tryParseParenParamList() (params []ast.Pattern, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			params, ok = nil, false
		}
	}()
	params = p.parseParamList()
	return params, true
}

func (p *Parser) finishArrow(pos ast.Position, params []ast.Pattern, async bool) ast.Expression {
	savedAsync := p.inAsync
	p.inAsync = async
	fn := &ast.ArrowFunctionExpression{Position: pos, Params: params, Async: async}
	if p.cur.Type == lexer.LBRACE {
		fn.Body = p.parseBlockStatement()
	} else {
		fn.ExprBody = true
		fn.Body = p.parseAssignExpr()
	}
	p.inAsync = savedAsync
	return fn
}

type parserSnapshot struct {
	lexState lexer.Lexer
	cur, peek lexer.Token
	errLen   int
}

func (p *Parser) snapshot() parserSnapshot {
	return parserSnapshot{lexState: *p.l, cur: p.cur, peek: p.peek, errLen: len(p.errors)}
}

func (p *Parser) restore(s parserSnapshot) {
	*p.l = s.lexState
	p.cur, p.peek = s.cur, s.peek
	p.errors = p.errors[:s.errLen]
}

func (p *Parser) parseBinary(prec int) ast.Expression {
	left := p.parseUnary()
	for {
		opPrec, ok := precedences[p.cur.Type]
		if !ok || opPrec < prec || p.cur.Type == lexer.LPAREN || p.cur.Type == lexer.DOT ||
			p.cur.Type == lexer.LBRACKET || p.cur.Type == lexer.OPTCHAIN || p.cur.Type == lexer.QUESTION ||
			precedences[p.cur.Type] <= ASSIGNP {
			break
		}
		left = p.parseInfix(left, opPrec)
	}
	return left
}

func (p *Parser) parseInfix(left ast.Expression, prec int) ast.Expression {
	pos := p.pos()
	tok := p.cur
	nextPrec := prec + 1
	if tok.Type == lexer.POW { // right-associative
		nextPrec = prec
	}
	p.next()
	right := p.parseBinary(nextPrec)
	switch tok.Type {
	case lexer.AMP_AMP, lexer.PIPE_PIPE, lexer.QQ:
		return &ast.LogicalExpression{Position: pos, Operator: tok.Literal, Left: left, Right: right}
	case lexer.INSTANCEOF:
		return &ast.BinaryExpression{Position: pos, Operator: "instanceof", Left: left, Right: right}
	case lexer.IN:
		return &ast.BinaryExpression{Position: pos, Operator: "in", Left: left, Right: right}
	default:
		return &ast.BinaryExpression{Position: pos, Operator: tok.Literal, Left: left, Right: right}
	}
}

var unaryOps = map[lexer.TokenType]string{
	lexer.BANG: "!", lexer.MINUS: "-", lexer.PLUS: "+", lexer.TILDE: "~",
	lexer.TYPEOF: "typeof", lexer.VOID: "void", lexer.DELETE: "delete",
}

func (p *Parser) parseUnary() ast.Expression {
	if op, ok := unaryOps[p.cur.Type]; ok {
		pos := p.pos()
		p.next()
		return &ast.UnaryExpression{Position: pos, Operator: op, Argument: p.parseUnary()}
	}
	if p.cur.Type == lexer.INC || p.cur.Type == lexer.DEC {
		pos := p.pos()
		op := p.cur.Literal
		p.next()
		return &ast.UpdateExpression{Position: pos, Operator: op, Argument: p.parseUnary(), Prefix: true}
	}
	if p.cur.Type == lexer.AWAIT {
		pos := p.pos()
		p.next()
		return &ast.AwaitExpression{Position: pos, Argument: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parseCallMember(p.parsePrimary())
	if (p.cur.Type == lexer.INC || p.cur.Type == lexer.DEC) && !p.cur.NLBefore {
		pos := p.pos()
		op := p.cur.Literal
		p.next()
		return &ast.UpdateExpression{Position: pos, Operator: op, Argument: expr, Prefix: false}
	}
	return expr
}

func (p *Parser) parseCallMember(expr ast.Expression) ast.Expression {
	for {
		switch p.cur.Type {
		case lexer.DOT:
			pos := p.pos()
			p.next()
			name := p.cur.Literal
			npos := p.pos()
			p.next()
			expr = &ast.MemberExpression{Position: pos, Object: expr, Property: &ast.Identifier{Position: npos, Name: name}}
		case lexer.OPTCHAIN:
			pos := p.pos()
			p.next()
			if p.cur.Type == lexer.LPAREN {
				expr = &ast.CallExpression{Position: pos, Callee: expr, Args: p.parseArgList(), Optional: true}
				continue
			}
			if p.cur.Type == lexer.LBRACKET {
				p.next()
				prop := p.parseExpression(LOWEST)
				p.expect(lexer.RBRACKET)
				expr = &ast.MemberExpression{Position: pos, Object: expr, Property: prop, Computed: true, Optional: true}
				continue
			}
			name := p.cur.Literal
			npos := p.pos()
			p.next()
			expr = &ast.MemberExpression{Position: pos, Object: expr, Property: &ast.Identifier{Position: npos, Name: name}, Optional: true}
		case lexer.LBRACKET:
			pos := p.pos()
			p.next()
			prop := p.parseExpression(LOWEST)
			p.expect(lexer.RBRACKET)
			expr = &ast.MemberExpression{Position: pos, Object: expr, Property: prop, Computed: true}
		case lexer.LPAREN:
			pos := p.pos()
			expr = &ast.CallExpression{Position: pos, Callee: expr, Args: p.parseArgList()}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgList() []ast.Expression {
	p.expect(lexer.LPAREN)
	var args []ast.Expression
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.DOTDOTDOT {
			pos := p.pos()
			p.next()
			args = append(args, &ast.SpreadElement{Position: pos, Argument: p.parseAssignExpr()})
		} else {
			args = append(args, p.parseAssignExpr())
		}
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.NUMBER:
		lit := p.cur.Literal
		n := parseNumberLiteral(lit)
		p.next()
		return &ast.NumberLiteral{Position: pos, Value: n, Raw: lit}
	case lexer.BIGINT:
		lit := p.cur.Literal
		p.next()
		return &ast.BigIntLiteral{Position: pos, Raw: lit}
	case lexer.STRING:
		v := p.cur.Literal
		p.next()
		return &ast.StringLiteral{Position: pos, Value: v}
	case lexer.TEMPLATE_STRING:
		raw := p.cur.Literal
		p.next()
		return p.parseTemplateLiteral(pos, raw)
	case lexer.REGEX:
		raw := p.cur.Literal
		p.next()
		return parseRegexLiteral(pos, raw)
	case lexer.TRUE:
		p.next()
		return &ast.BooleanLiteral{Position: pos, Value: true}
	case lexer.FALSE:
		p.next()
		return &ast.BooleanLiteral{Position: pos, Value: false}
	case lexer.NULL:
		p.next()
		return &ast.NullLiteral{Position: pos}
	case lexer.UNDEFINED:
		p.next()
		return &ast.Identifier{Position: pos, Name: "undefined"}
	case lexer.THIS:
		p.next()
		return &ast.ThisExpression{Position: pos}
	case lexer.SUPER:
		p.next()
		return &ast.SuperExpression{Position: pos}
	case lexer.IDENT, lexer.GET, lexer.SET, lexer.OF, lexer.AS, lexer.FROM, lexer.STATIC, lexer.ASYNC:
		name := p.cur.Literal
		p.next()
		return &ast.Identifier{Position: pos, Name: name}
	case lexer.LPAREN:
		p.next()
		expr := p.parseExpression(LOWEST)
		p.expect(lexer.RPAREN)
		return expr
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	case lexer.FUNCTION:
		return p.parseFunctionRest(pos, false)
	case lexer.NEW:
		return p.parseNewExpression()
	case lexer.CLASS:
		return &ast.ClassExpression{ClassBody: p.parseClassBody()}
	default:
		p.errorf("unexpected token %q in expression", p.cur.Literal)
		p.next()
		return &ast.Identifier{Position: pos, Name: "undefined"}
	}
}

func (p *Parser) parseNewExpression() ast.Expression {
	pos := p.pos()
	p.next()
	callee := p.parseCallMemberNoCall(p.parsePrimary())
	var args []ast.Expression
	if p.cur.Type == lexer.LPAREN {
		args = p.parseArgList()
	}
	return p.parseCallMember(&ast.NewExpression{Position: pos, Callee: callee, Args: args})
}

// parseCallMemberNoCall parses member access (`.`/`[]`) without
// consuming a trailing `(...)`, since that belongs to the `new` operand
// boundary rather than being called itself (`new a.b.C(args)`).
func (p *Parser) parseCallMemberNoCall(expr ast.Expression) ast.Expression {
	for {
		switch p.cur.Type {
		case lexer.DOT:
			pos := p.pos()
			p.next()
			name := p.cur.Literal
			npos := p.pos()
			p.next()
			expr = &ast.MemberExpression{Position: pos, Object: expr, Property: &ast.Identifier{Position: npos, Name: name}}
		case lexer.LBRACKET:
			pos := p.pos()
			p.next()
			prop := p.parseExpression(LOWEST)
			p.expect(lexer.RBRACKET)
			expr = &ast.MemberExpression{Position: pos, Object: expr, Property: prop, Computed: true}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	pos := p.pos()
	p.expect(lexer.LBRACKET)
	lit := &ast.ArrayLiteral{Position: pos}
	for p.cur.Type != lexer.RBRACKET && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.COMMA {
			lit.Elements = append(lit.Elements, nil)
			p.next()
			continue
		}
		if p.cur.Type == lexer.DOTDOTDOT {
			spos := p.pos()
			p.next()
			lit.Elements = append(lit.Elements, &ast.SpreadElement{Position: spos, Argument: p.parseAssignExpr()})
		} else {
			lit.Elements = append(lit.Elements, p.parseAssignExpr())
		}
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RBRACKET)
	return lit
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	pos := p.pos()
	p.expect(lexer.LBRACE)
	lit := &ast.ObjectLiteral{Position: pos}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		lit.Properties = append(lit.Properties, p.parseObjectProperty())
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	return lit
}

func (p *Parser) parseObjectProperty() *ast.Property {
	pos := p.pos()
	if p.cur.Type == lexer.DOTDOTDOT {
		p.next()
		return &ast.Property{Position: pos, Kind: ast.PropertySpread, Key: p.parseAssignExpr()}
	}
	async := false
	gen := false
	kind := ast.PropertyInit
	if p.cur.Type == lexer.ASYNC && p.peek.Type != lexer.COLON && p.peek.Type != lexer.COMMA && p.peek.Type != lexer.RBRACE {
		async = true
		p.next()
	}
	if p.cur.Type == lexer.STAR {
		gen = true
		p.next()
	}
	if (p.cur.Type == lexer.GET || p.cur.Type == lexer.SET) && p.peek.Type != lexer.COLON && p.peek.Type != lexer.COMMA && p.peek.Type != lexer.RBRACE && p.peek.Type != lexer.LPAREN {
		if p.cur.Type == lexer.GET {
			kind = ast.PropertyGet
		} else {
			kind = ast.PropertySet
		}
		p.next()
	}
	key, computed := p.parsePropertyKey()
	prop := &ast.Property{Position: pos, Key: key, Computed: computed, Kind: kind}

	if p.cur.Type == lexer.LPAREN {
		if kind == ast.PropertyInit {
			prop.Kind = ast.PropertyMethod
		}
		fn := &ast.FunctionExpression{Position: pos, Async: async, Generator: gen}
		savedGen, savedAsync := p.inGenerator, p.inAsync
		p.inGenerator, p.inAsync = gen, async
		fn.Params = p.parseParamList()
		fn.Body = p.parseBlockStatement()
		p.inGenerator, p.inAsync = savedGen, savedAsync
		prop.Value = fn
		return prop
	}
	if p.cur.Type == lexer.COLON {
		p.next()
		prop.Value = p.parseAssignExpr()
		return prop
	}
	// shorthand `{ a }` or `{ a = defaultExpr }` (the latter only valid
	// when this object literal is later reinterpreted as a pattern).
	if id, ok := key.(*ast.Identifier); ok {
		prop.Shorthand = true
		prop.Value = &ast.Identifier{Position: id.Position, Name: id.Name}
		if p.cur.Type == lexer.ASSIGN {
			p.next()
			_ = p.parseAssignExpr() // default only meaningful as a pattern; value discarded in expression position
		}
	}
	return prop
}

// parseTemplateLiteral re-lexes raw (the full backtick-delimited source
// lexer.Lexer handed back as one token) into quasis and `${}` expressions.
func (p *Parser) parseTemplateLiteral(pos ast.Position, raw string) ast.Expression {
	inner := raw
	if strings.HasPrefix(inner, "`") {
		inner = inner[1:]
	}
	if strings.HasSuffix(inner, "`") {
		inner = inner[:len(inner)-1]
	}
	t := &ast.TemplateLiteral{Position: pos}
	var quasi strings.Builder
	i := 0
	for i < len(inner) {
		if inner[i] == '\\' && i+1 < len(inner) {
			quasi.WriteByte(inner[i])
			quasi.WriteByte(inner[i+1])
			i += 2
			continue
		}
		if inner[i] == '$' && i+1 < len(inner) && inner[i+1] == '{' {
			depth := 1
			j := i + 2
			for j < len(inner) && depth > 0 {
				if inner[j] == '{' {
					depth++
				} else if inner[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			exprSrc := inner[i+2 : j]
			sub, errs := ParseProgram(exprSrc + ";")
			p.errors = append(p.errors, errs...)
			t.Quasis = append(t.Quasis, quasi.String())
			quasi.Reset()
			if len(sub.Statements) > 0 {
				if es, ok := sub.Statements[0].(*ast.ExpressionStatement); ok {
					t.Expressions = append(t.Expressions, es.Expression)
				}
			}
			i = j + 1
			continue
		}
		quasi.WriteByte(inner[i])
		i++
	}
	t.Quasis = append(t.Quasis, quasi.String())
	return t
}

func parseRegexLiteral(pos ast.Position, raw string) ast.Expression {
	end := strings.LastIndexByte(raw, '/')
	return &ast.RegexLiteral{Position: pos, Pattern: raw[1:end], Flags: raw[end+1:]}
}

func parseNumberLiteral(lit string) float64 {
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		n, _ := strconv.ParseInt(lit[2:], 16, 64)
		return float64(n)
	}
	if strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B") {
		n, _ := strconv.ParseInt(lit[2:], 2, 64)
		return float64(n)
	}
	if strings.HasPrefix(lit, "0o") || strings.HasPrefix(lit, "0O") {
		n, _ := strconv.ParseInt(lit[2:], 8, 64)
		return float64(n)
	}
	n, _ := strconv.ParseFloat(lit, 64)
	return n
}
