package ast

// ImportSpecifier is one binding of an import clause. Imported is the
// source module's export name ("default" for a default import, "*" for
// a namespace import); Local is the name it is bound to in this module.
type ImportSpecifier struct {
	Imported string
	Local    string
}

// ImportDeclaration is `import { a, b as c } from "./m.js"`, `import d
// from "./m.js"`, or `import * as ns from "./m.js"` (spec.md §4.K).
type ImportDeclaration struct {
	Position
	Specifiers []ImportSpecifier
	Source     string
}

func (s *ImportDeclaration) String() string { return "import ... from \"" + s.Source + "\"" }
func (*ImportDeclaration) statementNode()   {}

// ExportSpecifier is one `local [as exported]` binding of a named export
// clause.
type ExportSpecifier struct {
	Local    string
	Exported string
}

// ExportNamedDeclaration covers `export const/let/var/function/class
// ...`, `export { a, b as c }`, and the re-export form `export { a } from
// "./m.js"` (Source non-empty). Exactly one of Declaration or Specifiers
// is populated.
type ExportNamedDeclaration struct {
	Position
	Declaration Statement
	Specifiers  []ExportSpecifier
	Source      string
}

func (s *ExportNamedDeclaration) String() string { return "export ..." }
func (*ExportNamedDeclaration) statementNode()   {}

// ExportDefaultDeclaration is `export default <expr|function|class>`.
type ExportDefaultDeclaration struct {
	Position
	Declaration Node // Expression, *FunctionDeclaration, or *ClassDeclaration
}

func (s *ExportDefaultDeclaration) String() string { return "export default ..." }
func (*ExportDefaultDeclaration) statementNode()   {}
