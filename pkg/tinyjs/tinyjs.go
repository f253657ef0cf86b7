// Package tinyjs is the public embedding facade spec.md §6/§13 describes:
// New builds a ready-to-run environment (prototypes, the core
// data-model constructors, and the ambient globals a hosted script
// expects), and Interpreter.Run evaluates a script against it for the
// host program.
//
// Grounded on cmd/dwscript/cmd/run.go's pipeline (interp.New(w) then
// interpreter.Eval(program)) for the overall construction shape, since
// the teacher's own pkg/dwscript facade carries no implementation source
// in this retrieval pack (only tests) — the wiring below is written
// fresh from that usage pattern and from internal/evaluator's exported
// surface (New, Prototypes, AsyncHost/GeneratorHost/MicrotaskQueue).
package tinyjs

import (
	"io"
	"os"

	"github.com/cwbudde/tinyjs/internal/async"
	"github.com/cwbudde/tinyjs/internal/env"
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/evaluator"
	"github.com/cwbudde/tinyjs/internal/genctl"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// Config holds the host-tunable knobs New accepts, grounded
// on evaluator.Config (SourceFile/MaxRecursionDepth) and gc.Option
// (HeapLimit/Threshold).
type Config struct {
	Stdout            io.Writer
	SourceFile        string
	MaxRecursionDepth int
	HeapLimit         uint64 // 0 keeps gc.New's auto-selected ceiling
	OnUnhandledRejection func(reason value.Value)
}

// DefaultConfig returns a Config writing to os.Stdout with the
// evaluator's default recursion depth and the GC's auto-selected heap
// ceiling.
func DefaultConfig() *Config {
	return &Config{Stdout: os.Stdout, MaxRecursionDepth: errstack.DefaultDepthLimit}
}

// Interpreter is one embedded script instance: the evaluator core plus
// the async/generator drivers wired onto it, and the global environment
// built by New (spec.md §6 "one evaluator per instance").
type Interpreter struct {
	Eval   *evaluator.Interpreter
	Global *env.Environment

	async *async.Driver
	out   io.Writer
}

// New builds a fresh Interpreter: a global environment carrying every
// ambient global and data-model constructor spec.md §6/§13 names
// (console, Promise, Map/Set/WeakMap/WeakSet, Symbol, the Error family,
// Generator's prototype methods), wired to an evaluator.Interpreter whose
// Async/GenHost/Microtasks fields point at this package's drivers.
func New(cfg *Config) *Interpreter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Stdout
	if out == nil {
		out = os.Stdout
	}

	global := env.NewGlobal()
	proto := evaluator.Prototypes{
		Object:    heap.NewObject(value.Null{}),
		Error:     make(map[errstack.Kind]*heap.Object),
	}
	proto.Array = heap.NewObject(proto.Object)
	proto.Function = heap.NewObject(proto.Object)
	proto.Promise = heap.NewObject(proto.Object)
	proto.Generator = heap.NewObject(proto.Object)
	proto.Map = heap.NewObject(proto.Object)
	proto.Set = heap.NewObject(proto.Object)
	proto.RegExp = heap.NewObject(proto.Object)

	econf := &evaluator.Config{SourceFile: cfg.SourceFile, MaxRecursionDepth: cfg.MaxRecursionDepth}
	if econf.MaxRecursionDepth == 0 {
		econf.MaxRecursionDepth = errstack.DefaultDepthLimit
	}
	ev := evaluator.New(econf, global, proto)
	if cfg.HeapLimit > 0 {
		ev.GC.SetHeapLimit(cfg.HeapLimit)
	}

	it := &Interpreter{Eval: ev, Global: global, out: out}

	driver := async.NewDriver(ev)
	driver.OnUnhandled = cfg.OnUnhandledRejection
	it.async = driver
	ev.Async = driver
	ev.Microtasks = driver
	ev.GenHost = genctl.Driver{}

	for _, reg := range it.registerObjects() {
		ev.GC.RegisterObject(reg)
	}

	it.installErrorFamily()
	it.installObjectAndFunction()
	it.installArray()
	it.installPromise()
	it.installCollections()
	it.installSymbol()
	it.installGenerator()
	it.installConsoleAndGlobals()

	return it
}

// registerObjects lists the prototype objects built eagerly in New so
// they are admitted into the GC registry exactly once, before any script
// code or native constructor can reach them.
func (it *Interpreter) registerObjects() []value.HeapValue {
	p := it.Eval.Proto
	return []value.HeapValue{p.Object, p.Array, p.Function, p.Promise, p.Generator, p.Map, p.Set, p.RegExp}
}

// Call exposes the evaluator's callable invocation surface for hosts
// that already hold a Value (e.g. a callback returned from a finished
// script) and want to invoke it directly.
func (it *Interpreter) Call(fn value.Value, this value.Value, args []value.Value) (value.Value, error) {
	return it.Eval.Call(fn, this, args)
}

// DrainMicrotasks runs every queued microtask (and any it enqueues) to
// exhaustion (spec.md §4.H step 4), the same turn boundary a real event
// loop would run between host callbacks.
func (it *Interpreter) DrainMicrotasks() {
	it.async.Drain()
}
