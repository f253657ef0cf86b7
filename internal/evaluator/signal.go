package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/value"
)

// ThrowSignal carries a script-level thrown value up through Go's error
// return channel without allocating a Go error wrapper per throw site.
// It implements error only so it can travel through ordinary (Value,
// error) signatures alongside host-level failures.
type ThrowSignal struct {
	Value value.Value
}

func (t *ThrowSignal) Error() string { return "uncaught exception: " + t.Value.String() }

func throwValue(v value.Value) error { return &ThrowSignal{Value: v} }

// asThrow unwraps err into a *ThrowSignal if it is one.
func asThrow(err error) (*ThrowSignal, bool) {
	ts, ok := err.(*ThrowSignal)
	return ts, ok
}

// flowKind distinguishes the non-local exits a statement evaluation can
// produce (spec.md §4.G: "break/continue/return propagate as an internal
// control-flow signal distinct from thrown exceptions").
type flowKind int

const (
	flowNone flowKind = iota
	flowBreak
	flowContinue
	flowReturn
)

// flowSignal is returned alongside a nil error by statement evaluation to
// indicate a pending break/continue/return that must unwind through
// enclosing loops/blocks/functions before being consumed.
type flowSignal struct {
	kind  flowKind
	label string
	value value.Value // flowReturn's operand
}

var noFlow = flowSignal{kind: flowNone}

// forcedReturn unwinds a suspended generator body when its Controller's
// .return(v) is called while parked at a yield (spec.md §4.I): the body
// resumes as if a `return v;` had executed at that exact point, running
// any enclosing finally blocks on the way out. It is propagated as an
// error (like ThrowSignal) so it passes through ordinary (Value, error)
// signatures and the existing try/finally unwind path, but evalBlock's
// try/catch must never hand it to a catch clause the way it does a
// ThrowSignal.
type forcedReturn struct{ value value.Value }

func (f *forcedReturn) Error() string { return "generator forced return" }

func asForcedReturn(err error) (*forcedReturn, bool) {
	fr, ok := err.(*forcedReturn)
	return fr, ok
}
