package heap

import (
	"github.com/cwbudde/tinyjs/internal/env"
	"github.com/cwbudde/tinyjs/internal/value"
)

// IterResult is the `{value, done}` record the iterator protocol and
// Generator.next/return/throw all return (spec.md §4.G/§4.I).
type IterResult struct {
	Value value.Value
	Done  bool
}

// Controller is implemented by internal/genctl: it drives the paused
// evaluator continuation a Generator wraps. Kept as an interface here so
// internal/heap need not import internal/genctl (which in turn imports
// internal/evaluator).
type Controller interface {
	Next(sent value.Value) (IterResult, error)
	Return(val value.Value) (IterResult, error)
	Throw(thrown value.Value) (IterResult, error)
	// TraceRoots yields any Values the controller's suspended
	// continuation holds beyond the frozen Env (e.g. an in-flight
	// evaluator value stack), for the GC mark phase (spec.md §4.F root
	// set: "Generator continuations").
	TraceRoots(yield func(value.Value))
}

// Generator is the paused-evaluator-context heap kind (spec.md §3
// Generator): frozen local environment, a resumable continuation, and a
// completion flag that is never cleared once set (invariant 4).
type Generator struct {
	meta value.RefMeta

	Env        *env.Environment
	Controller Controller
	Done       bool
	Async      bool // async generator: Next/Return/Throw results are wrapped in Promises by pkg/tinyjs
	Proto      value.Value
}

func (g *Generator) Kind() value.Kind        { return value.KindObject }
func (g *Generator) TypeTag() string         { return "Generator" }
func (g *Generator) RefMeta() *value.RefMeta { return &g.meta }
func (g *Generator) String() string          { return "Generator {}" }

func (g *Generator) Trace(yield func(value.Value)) {
	if g.Env != nil {
		g.Env.Range(func(_ string, v value.Value) bool {
			if v != nil {
				yield(v)
			}
			return true
		})
	}
	if g.Controller != nil {
		g.Controller.TraceRoots(yield)
	}
	if g.Proto != nil {
		yield(g.Proto)
	}
}

// MarkDone sets Done irreversibly (invariant 4: "A Generator's
// completion flag, once set, is never cleared").
func (g *Generator) MarkDone() { g.Done = true }
