package evaluator

import (
	"sync"

	"github.com/cwbudde/tinyjs/internal/env"
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/gc"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/shape"
	"github.com/cwbudde/tinyjs/internal/value"
)

// Config holds the tunables spec.md §4.G/§6 exposes to the host, grounded
// on the teacher evaluator.Config (SourceFile/MaxRecursionDepth).
type Config struct {
	SourceFile        string
	MaxRecursionDepth int
}

// DefaultConfig mirrors the teacher's DefaultConfig, substituting
// errstack's DefaultDepthLimit for DWScript's call-depth default.
func DefaultConfig() *Config {
	return &Config{MaxRecursionDepth: errstack.DefaultDepthLimit}
}

// Prototypes bundles the well-known prototype objects every heap kind's
// constructor/literal evaluation links to (spec.md §4.C "objects carry a
// Proto pointer"). tinyjs.New (pkg/tinyjs) builds these once per
// Interpreter.
type Prototypes struct {
	Object    *heap.Object
	Array     *heap.Object
	Function  *heap.Object
	Promise   *heap.Object
	Generator *heap.Object
	Map       *heap.Object
	Set       *heap.Object
	RegExp    *heap.Object
	Error     map[errstack.Kind]*heap.Object
}

// Interpreter is the evaluator core of spec.md §4.G: the AST-walking
// evaluation engine plus everything it needs wired in — the GC, the
// shape/inline-cache registry, the call stack, and the global
// environment. One Interpreter per embedded script instance, matching
// spec.md §5 and the teacher's one-Interpreter-per-script convention.
type Interpreter struct {
	Global *env.Environment
	GC     *gc.GC
	Shapes *shape.Registry
	Stack  *errstack.CallStack
	Proto  Prototypes

	sourceFile string

	// Microtasks is an optional sink evaluator code uses to schedule work
	// (queueMicrotask, Promise reaction enqueueing) without importing
	// internal/async directly — avoiding an evaluator->async->evaluator
	// import cycle. Wired by pkg/tinyjs at startup.
	Microtasks MicrotaskQueue

	// Async and GenHost drive suspended Tasks produced by async/generator
	// function calls (spec.md §4.H/§4.I). Wired by pkg/tinyjs after
	// constructing the async.Driver/genctl.Driver, which both depend on
	// this package rather than the reverse.
	Async   AsyncHost
	GenHost GeneratorHost

	liveMu   sync.Mutex
	liveEnvs map[*env.Environment]int // refcounted: nested calls may share a frame pointer briefly during unwind
}

// pinEnv marks e (and its outer chain) as a GC root for as long as some
// in-flight call still has it live — needed because a suspended
// async/generator body's Environment is reachable only from a parked
// goroutine's local variables, not from Global, between suspensions.
func (it *Interpreter) pinEnv(e *env.Environment) {
	it.liveMu.Lock()
	defer it.liveMu.Unlock()
	if it.liveEnvs == nil {
		it.liveEnvs = make(map[*env.Environment]int)
	}
	for f := e; f != nil; f = f.Outer() {
		it.liveEnvs[f]++
	}
}

// unpinEnv reverses a prior pinEnv.
func (it *Interpreter) unpinEnv(e *env.Environment) {
	it.liveMu.Lock()
	defer it.liveMu.Unlock()
	for f := e; f != nil; f = f.Outer() {
		if n := it.liveEnvs[f]; n <= 1 {
			delete(it.liveEnvs, f)
		} else {
			it.liveEnvs[f] = n - 1
		}
	}
}

// MicrotaskQueue is the minimal surface the evaluator needs from the
// async driver (spec.md §4.H); implemented by *async.Driver.
type MicrotaskQueue interface {
	Enqueue(job func())
}

// New builds an Interpreter with fresh GC/shape registry/call stack and
// the given global environment and prototype set (spec.md §6 createGlobal
// composes these before running any script).
func New(cfg *Config, global *env.Environment, proto Prototypes) *Interpreter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	stack := errstack.NewCallStack()
	stack.SetDepthLimit(cfg.MaxRecursionDepth)
	it := &Interpreter{
		Global:     global,
		GC:         gc.New(),
		Shapes:     shape.NewRegistry(),
		Stack:      stack,
		Proto:      proto,
		sourceFile: cfg.SourceFile,
	}
	it.GC.AddRootProvider(it.traceRoots)
	return it
}

// traceRoots walks the live environment chain reachable from Global, the
// evaluator's own root set contribution to spec.md §4.F step 2. Frames
// currently on the Go call stack hold their own child Environments
// reachable transitively from Global via closures captured in heap
// Functions, so walking Global's Range plus every Function's Env
// (Function.Trace already does this) covers reachability without the
// evaluator needing a separate "value stack" — tinyjs has none, since Go's
// own call stack is the expression evaluation stack.
func (it *Interpreter) traceRoots(yield func(value.Value)) {
	var walk func(e *env.Environment)
	seen := make(map[*env.Environment]bool)
	walk = func(e *env.Environment) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		e.Range(func(_ string, v value.Value) bool {
			yield(v)
			return true
		})
	}
	walk(it.Global)

	it.liveMu.Lock()
	pinned := make([]*env.Environment, 0, len(it.liveEnvs))
	for e := range it.liveEnvs {
		pinned = append(pinned, e)
	}
	it.liveMu.Unlock()
	for _, e := range pinned {
		walk(e)
	}
}

// execCtx threads per-call evaluation state through the Eval* dispatch —
// the environment in scope, `this`/new.target, and (when evaluating
// inside a suspendable async/generator body) the Suspend hook await/yield
// call into. Grounded on the teacher's ExecutionContext, generalized to
// also carry the coroutine suspend hook tinyjs needs that DWScript never
// did.
type execCtx struct {
	env        *env.Environment
	this       value.Value
	newTarget  value.Value
	suspend    Suspend // nil outside an async/generator body
	fn         *heap.Function
	label      string // innermost enclosing loop/labeled-statement label, for break/continue matching
	isGenerator bool
}

func (it *Interpreter) topCtx() *execCtx {
	return &execCtx{env: it.Global}
}

func (c *execCtx) withEnv(e *env.Environment) *execCtx {
	n := *c
	n.env = e
	return &n
}
