package parser

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestParseProgramStatementShapes(t *testing.T) {
	// Grounded on the teacher's fixture_test.go table-of-cases shape,
	// scaled down to this grammar's own statement forms instead of
	// DWScript fixture files.
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "VarDeclarations",
			src:  "var a = 1; let b = 2; const c = 3;",
			want: []string{"1", "2", "3"},
		},
		{
			name: "IfElse",
			src:  "if (x) { y; } else { z; }",
			want: []string{"if (x) ..."},
		},
		{
			name: "ClassicFor",
			src:  "for (let i = 0; i < 10; i++) { sum; }",
			want: []string{"for (...) ..."},
		},
		{
			name: "TryCatchFinally",
			src:  "try { risky(); } catch (e) { handle(e); } finally { cleanup(); }",
		},
		{
			name: "ArrowFunction",
			src:  "const add = (a, b) => a + b;",
		},
		{
			name: "ClassWithSuper",
			src:  "class Dog extends Animal { speak() { super.speak(); } }",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prog, errs := ParseProgram(c.src)
			if len(errs) != 0 {
				t.Fatalf("unexpected parse errors: %v", errs)
			}
			if len(prog.Statements) == 0 {
				t.Fatalf("expected at least one statement")
			}
		})
	}
}

func TestParseProgramSnapshotsExpressionPrecedence(t *testing.T) {
	// Snapshot-tests the precedence-climbing expression parser's output
	// shape across a range of operator mixes, following the teacher's
	// go-snaps usage (fixture_test.go: snaps.MatchSnapshot(t, name, got)).
	exprs := []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"a ?? b || c",
		"a instanceof B && c in d",
		"a ** b ** c",
		"x?.y?.z()",
	}
	for i, src := range exprs {
		prog, errs := ParseProgram(src + ";")
		if len(errs) != 0 {
			t.Fatalf("%q: unexpected parse errors: %v", src, errs)
		}
		snaps.MatchSnapshot(t, fmt.Sprintf("expr_%d", i), prog.Statements[0].String())
	}
}

func TestParseProgramReportsErrors(t *testing.T) {
	_, errs := ParseProgram("let = ;")
	if len(errs) == 0 {
		t.Fatalf("expected parse errors for malformed declaration")
	}
}

func TestParseProgramDestructuringForOf(t *testing.T) {
	prog, errs := ParseProgram("for (const [k, v] of entries) { use(k, v); }")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected one statement, got %d", len(prog.Statements))
	}
}
