package lexer

// TokenType identifies the lexical category of a Token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	IDENT
	NUMBER
	BIGINT
	STRING
	TEMPLATE_STRING // raw backtick-delimited source; the parser re-lexes quasis/expressions
	REGEX

	// Punctuation / operators
	ASSIGN     // =
	PLUS_EQ    // +=
	MINUS_EQ   // -=
	STAR_EQ    // *=
	SLASH_EQ   // /=
	PERCENT_EQ // %=
	POW_EQ     // **=
	AND_EQ     // &&=
	OR_EQ      // ||=
	QQ_EQ      // ??=
	AMP_EQ     // &=
	PIPE_EQ    // |=
	CARET_EQ   // ^=
	SHL_EQ     // <<=
	SHR_EQ     // >>=
	USHR_EQ    // >>>=

	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	PERCENT
	POW // **

	EQ       // ==
	NEQ      // !=
	SEQ      // ===
	SNEQ     // !==
	LT       // <
	GT       // >
	LTE      // <=
	GTE      // >=

	AMP_AMP // &&
	PIPE_PIPE // ||
	QQ      // ??
	BANG    // !

	AMP   // &
	PIPE  // |
	CARET // ^
	TILDE // ~
	SHL   // <<
	SHR   // >>
	USHR  // >>>

	INC // ++
	DEC // --

	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]

	COMMA     // ,
	SEMI      // ;
	COLON     // :
	DOT       // .
	DOTDOTDOT // ...
	ARROW     // =>
	QUESTION  // ?
	OPTCHAIN  // ?.

	// Keywords
	VAR
	LET
	CONST
	FUNCTION
	RETURN
	IF
	ELSE
	WHILE
	DO
	FOR
	IN
	OF
	BREAK
	CONTINUE
	TRUE
	FALSE
	NULL
	UNDEFINED
	THIS
	SUPER
	NEW
	DELETE
	TYPEOF
	VOID
	INSTANCEOF
	CLASS
	EXTENDS
	STATIC
	GET
	SET
	TRY
	CATCH
	FINALLY
	THROW
	SWITCH
	CASE
	DEFAULT
	YIELD
	ASYNC
	AWAIT
	IMPORT
	EXPORT
	FROM
	AS
)

// Token is one lexed unit of source, the contract between Lexer and Parser.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	// NLBefore reports whether a line terminator appeared between this
	// token and the previous one, needed for automatic-semicolon
	// insertion and `return`/`break`/`continue`/postfix ++/-- restrictions.
	NLBefore bool
}

var keywords = map[string]TokenType{
	"var": VAR, "let": LET, "const": CONST, "function": FUNCTION,
	"return": RETURN, "if": IF, "else": ELSE, "while": WHILE, "do": DO,
	"for": FOR, "in": IN, "of": OF, "break": BREAK, "continue": CONTINUE,
	"true": TRUE, "false": FALSE, "null": NULL, "undefined": UNDEFINED,
	"this": THIS, "super": SUPER, "new": NEW, "delete": DELETE,
	"typeof": TYPEOF, "void": VOID, "instanceof": INSTANCEOF,
	"class": CLASS, "extends": EXTENDS, "static": STATIC,
	"get": GET, "set": SET, "try": TRY, "catch": CATCH, "finally": FINALLY,
	"throw": THROW, "switch": SWITCH, "case": CASE, "default": DEFAULT,
	"yield": YIELD, "async": ASYNC, "await": AWAIT,
	"import": IMPORT, "export": EXPORT, "from": FROM, "as": AS,
}

// LookupIdent resolves an identifier to its keyword TokenType, or IDENT.
func LookupIdent(s string) TokenType {
	if t, ok := keywords[s]; ok {
		return t
	}
	return IDENT
}

var tokenTypeNames = [...]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL",
	IDENT: "IDENT", NUMBER: "NUMBER", BIGINT: "BIGINT", STRING: "STRING",
	TEMPLATE_STRING: "TEMPLATE_STRING", REGEX: "REGEX",

	ASSIGN: "=", PLUS_EQ: "+=", MINUS_EQ: "-=", STAR_EQ: "*=", SLASH_EQ: "/=",
	PERCENT_EQ: "%=", POW_EQ: "**=", AND_EQ: "&&=", OR_EQ: "||=", QQ_EQ: "??=",
	AMP_EQ: "&=", PIPE_EQ: "|=", CARET_EQ: "^=", SHL_EQ: "<<=", SHR_EQ: ">>=", USHR_EQ: ">>>=",

	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", POW: "**",

	EQ: "==", NEQ: "!=", SEQ: "===", SNEQ: "!==",
	LT: "<", GT: ">", LTE: "<=", GTE: ">=",

	AMP_AMP: "&&", PIPE_PIPE: "||", QQ: "??", BANG: "!",

	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", SHL: "<<", SHR: ">>", USHR: ">>>",

	INC: "++", DEC: "--",

	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",

	COMMA: ",", SEMI: ";", COLON: ":", DOT: ".", DOTDOTDOT: "...",
	ARROW: "=>", QUESTION: "?", OPTCHAIN: "?.",

	VAR: "var", LET: "let", CONST: "const", FUNCTION: "function", RETURN: "return",
	IF: "if", ELSE: "else", WHILE: "while", DO: "do", FOR: "for", IN: "in", OF: "of",
	BREAK: "break", CONTINUE: "continue", TRUE: "true", FALSE: "false",
	NULL: "null", UNDEFINED: "undefined", THIS: "this", SUPER: "super",
	NEW: "new", DELETE: "delete", TYPEOF: "typeof", VOID: "void", INSTANCEOF: "instanceof",
	CLASS: "class", EXTENDS: "extends", STATIC: "static", GET: "get", SET: "set",
	TRY: "try", CATCH: "catch", FINALLY: "finally", THROW: "throw",
	SWITCH: "switch", CASE: "case", DEFAULT: "default",
	YIELD: "yield", ASYNC: "async", AWAIT: "await",
	IMPORT: "import", EXPORT: "export", FROM: "from", AS: "as",
}

// String returns the token type's name, for CLI/debug display
// (cmd/tinyjs's lex subcommand).
func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenTypeNames) && tokenTypeNames[tt] != "" {
		return tokenTypeNames[tt]
	}
	return "UNKNOWN"
}
