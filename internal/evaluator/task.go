// Package evaluator implements the tree-walking evaluator of spec.md
// §4.G: the Task suspend/resume state machine, the control-flow signal,
// and the expression/statement semantics contracts.
//
// Grounded on internal/interp/evaluator/core_evaluator.go,
// internal/interp/evaluator/callstack.go, and the visitor_*.go files
// from the teacher for the AST-kind dispatch and call-stack discipline.
// The Task suspension machinery itself has no teacher analog (DWScript's
// evaluator is fully synchronous); it is grounded on spec.md §9's
// explicit re-architecture note, realized here with a goroutine +
// rendezvous-channel pair per suspended body — Go's own cooperative
// concurrency primitives standing in for the "portable state machine"
// the note calls for, rather than a foreign-runtime coroutine.
package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/value"
)

// TaskState is the three-way Task outcome of spec.md Glossary: "Task:
// ... terminal in Done(Value) / Threw(Value) or pausable as
// Suspended(ResumeToken)".
type TaskState int

const (
	TaskSuspended TaskState = iota
	TaskDone
	TaskThrew
)

// SuspendKind distinguishes why a Task parked: on `await` or on `yield`.
type SuspendKind int

const (
	SuspendAwait SuspendKind = iota
	SuspendYield
	SuspendYieldDelegate
)

// resumeOp tells a parked coroutine how to continue.
type resumeOp int

const (
	resumeWithValue resumeOp = iota // await settled, or generator .next(v)
	resumeWithThrow                 // await rejected, or generator .throw(e)
	resumeWithReturn                // generator .return(v): force completion as if `return v` ran here
)

type resumeSignal struct {
	op    resumeOp
	value value.Value
}

type coroEvent struct {
	suspended bool
	suspKind  SuspendKind
	suspValue value.Value // the awaited/yielded operand

	done    bool
	result  value.Value
	err     *ThrowSignal // non-nil if the body terminated via an uncaught throw
}

// coroutine runs one suspendable function body on its own goroutine,
// handing control back to the driver at every await/yield and blocking
// until resumed. Only one side is ever runnable at a time — the pair
// forms a strict rendezvous, preserving spec.md §5's single-threaded
// cooperative scheduling model even though two goroutines exist.
type coroutine struct {
	toBody   chan resumeSignal
	fromBody chan coroEvent
	started  bool
	finished bool
}

func newCoroutine() *coroutine {
	return &coroutine{
		toBody:   make(chan resumeSignal),
		fromBody: make(chan coroEvent),
	}
}

// Suspend is the hook AwaitExpression/YieldExpression evaluation calls
// into. It blocks the current goroutine and returns what the driver
// resumed it with (resumed value, isThrow, isForcedReturn).
type Suspend func(kind SuspendKind, v value.Value) (resumed value.Value, isThrow bool, isForcedReturn bool)

// start launches body on its own goroutine. body runs to completion
// (returning its final value, or a non-nil *ThrowSignal on an uncaught
// throw) using the given Suspend hook at every await/yield point.
func (c *coroutine) start(body func(Suspend) (value.Value, *ThrowSignal)) {
	if c.started {
		return
	}
	c.started = true
	suspend := func(kind SuspendKind, v value.Value) (value.Value, bool, bool) {
		c.fromBody <- coroEvent{suspended: true, suspKind: kind, suspValue: v}
		sig := <-c.toBody
		switch sig.op {
		case resumeWithThrow:
			return sig.value, true, false
		case resumeWithReturn:
			return sig.value, false, true
		default:
			return sig.value, false, false
		}
	}
	go func() {
		result, throwSig := body(suspend)
		c.finished = true
		c.fromBody <- coroEvent{done: true, result: result, err: throwSig}
	}()
}

// Task is the suspendable handle spec.md §4.G/§6 returns from evaluate().
type Task struct {
	coro  *coroutine
	body  func(Suspend) (value.Value, *ThrowSignal)
	state TaskState

	value    value.Value   // Done: the result; Threw: the thrown Value
	suspKind SuspendKind
	suspVal  value.Value
}

// Started reports whether the Task's body has begun running. A lazily
// constructed Task (NewLazyTask) reports false until its first Start
// call — generator bodies must not run any code until the first
// next()/return()/throw() call reaches them (spec.md §4.I).
func (t *Task) Started() bool { return t.coro.started }

// Start launches a lazily constructed Task's body and runs it to its
// first suspension or completion. A no-op once already started.
func (t *Task) Start() {
	if t.coro.started {
		return
	}
	t.coro.start(t.body)
	t.advance(<-t.coro.fromBody)
}

// IsDone reports whether the Task reached a terminal state (Done or
// Threw) — spec.md §6 Task.isDone().
func (t *Task) IsDone() bool { return t.state != TaskSuspended }

// State reports the current TaskState.
func (t *Task) State() TaskState { return t.state }

// Value returns the Done result or Threw value; meaningless while
// Suspended.
func (t *Task) Value() value.Value { return t.value }

// SuspendedOn reports what the Task is parked on while Suspended.
func (t *Task) SuspendedOn() (SuspendKind, value.Value) { return t.suspKind, t.suspVal }

// advance pulls the next event off the coroutine after it (or its
// initial launch) ran, updating Task state accordingly.
func (t *Task) advance(ev coroEvent) {
	if ev.suspended {
		t.state = TaskSuspended
		t.suspKind = ev.suspKind
		t.suspVal = ev.suspValue
		return
	}
	if ev.err != nil {
		t.state = TaskThrew
		t.value = ev.err.Value
		return
	}
	t.state = TaskDone
	t.value = ev.result
}

// Resume advances a Suspended Task: sends (value, isThrow) to the parked
// goroutine and blocks until it either suspends again or finishes
// (spec.md §6 Task.resume(): "the host loops until done").
func (t *Task) Resume(v value.Value, isThrow bool) {
	if t.state != TaskSuspended {
		return
	}
	op := resumeWithValue
	if isThrow {
		op = resumeWithThrow
	}
	t.coro.toBody <- resumeSignal{op: op, value: v}
	t.advance(<-t.coro.fromBody)
}

// ResumeReturn advances a Suspended generator Task as if `return v` ran
// at the suspension point.
func (t *Task) ResumeReturn(v value.Value) {
	if t.state != TaskSuspended {
		return
	}
	t.coro.toBody <- resumeSignal{op: resumeWithReturn, value: v}
	t.advance(<-t.coro.fromBody)
}

// NewTask launches body on its own goroutine and runs it up to its first
// suspension point or completion, returning the resulting Task. This is
// the evaluator's evaluate() entry point of spec.md §6 whenever body may
// contain await/yield (async function bodies, generator bodies, and
// top-level module evaluation).
func NewTask(body func(Suspend) (value.Value, *ThrowSignal)) *Task {
	t := &Task{coro: newCoroutine(), body: body}
	t.Start()
	return t
}

// NewLazyTask builds a Task that does not run body until Start is first
// called (Resume does not start it) — the generator-function-call case of spec.md §4.I:
// "produces a Generator whose body has not yet run".
func NewLazyTask(body func(Suspend) (value.Value, *ThrowSignal)) *Task {
	return &Task{coro: newCoroutine(), body: body, state: TaskSuspended}
}
