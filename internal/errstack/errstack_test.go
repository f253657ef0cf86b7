package errstack

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestScriptErrorFormat(t *testing.T) {
	stack := NewCallStack()
	stack.Push(Frame{Function: "inner", File: "script.js", Line: 4, Column: 3})
	stack.Push(Frame{Function: "", File: "script.js", Line: 10, Column: 1})

	err := New(TypeError, "x is not a function", stack)
	snaps.MatchSnapshot(t, "typeerror_two_frames", err.Format())
}

func TestScriptErrorFormatWithSourceContext(t *testing.T) {
	stack := NewCallStack()
	stack.Push(Frame{Function: "main", File: "script.js", Line: 2, Column: 7})

	err := New(RangeError, "too much recursion", stack)
	err.Context = &SourceContext{
		Lines:     []string{"function main() {", "  main();", "}"},
		ErrorLine: 1,
		Column:    2,
	}
	snaps.MatchSnapshot(t, "rangeerror_with_context", err.Format())
}

func TestCallStackDepthLimit(t *testing.T) {
	stack := NewCallStack()
	stack.SetDepthLimit(2)
	if err := stack.Push(Frame{Function: "a"}); err != nil {
		t.Fatalf("unexpected error on first push: %v", err)
	}
	if err := stack.Push(Frame{Function: "b"}); err != nil {
		t.Fatalf("unexpected error on second push: %v", err)
	}
	if err := stack.Push(Frame{Function: "c"}); err == nil {
		t.Fatalf("expected depth-limit error on third push")
	}
	if stack.Depth() != 3 {
		t.Fatalf("expected the overflowing frame to still be pushed, got depth %d", stack.Depth())
	}
}

func TestFrameStringAnonymous(t *testing.T) {
	f := Frame{File: "script.js", Line: 5, Column: 2}
	got := f.String()
	want := "  at <anonymous> (script.js:5:2)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
