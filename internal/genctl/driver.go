// Package genctl implements spec.md §4.I: the Generator driver wrapping
// a lazily-started evaluator.Task as a heap.Controller. `yield*`
// delegation itself is evaluated in internal/evaluator (evalYieldDelegate).
//
// Grounded on internal/evaluator/task.go's suspend/resume rendezvous
// (there is no teacher analog — DWScript has no generators); the
// Next/Return/Throw state machine follows spec.md §4.I's suspendedStart/
// suspendedYield/completed state table directly.
package genctl

import (
	"github.com/cwbudde/tinyjs/internal/evaluator"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// Driver implements both heap.Controller (consumed by Generator.next/
// return/throw) and evaluator.GeneratorHost (consumed by callFunction
// when it builds a generator-function call).
type Driver struct {
	task *evaluator.Task
}

// NewGenerator implements evaluator.GeneratorHost: wraps a lazily
// constructed Task as a Generator heap value. The body does not run
// until the first Next/Return/Throw call (spec.md §4.I).
func (Driver) NewGenerator(t *evaluator.Task, proto value.Value, isAsync bool) *heap.Generator {
	return &heap.Generator{Controller: &Driver{task: t}, Async: isAsync, Proto: proto}
}

// Next implements heap.Controller.Next (spec.md §4.I next(value)):
// starts the body on the first call (value is discarded — nothing is
// parked to receive it yet), otherwise resumes the parked yield with
// value.
func (d *Driver) Next(sent value.Value) (heap.IterResult, error) {
	if !d.task.Started() {
		d.task.Start()
	} else if d.task.State() == evaluator.TaskSuspended {
		d.task.Resume(sent, false)
	}
	return d.result()
}

// Return implements heap.Controller.Return (spec.md §4.I return(value)):
// a generator that never started completes immediately with {value,
// done:true} without running any body code; one already parked at a
// yield unwinds as if `return value` executed there, running enclosing
// finally blocks.
func (d *Driver) Return(v value.Value) (heap.IterResult, error) {
	if !d.task.Started() {
		d.task = evaluator.NewTask(func(evaluator.Suspend) (value.Value, *evaluator.ThrowSignal) { return value.Undefined{}, nil })
		return heap.IterResult{Value: v, Done: true}, nil
	}
	if d.task.State() == evaluator.TaskSuspended {
		d.task.ResumeReturn(v)
	}
	return d.result()
}

// Throw implements heap.Controller.Throw (spec.md §4.I throw(error)): a
// generator that never started is closed and the error rethrown to the
// caller without running body code; one parked at a yield resumes as if
// `error` were thrown there, letting an enclosing try/catch handle it.
func (d *Driver) Throw(thrown value.Value) (heap.IterResult, error) {
	if !d.task.Started() {
		d.task = evaluator.NewTask(func(evaluator.Suspend) (value.Value, *evaluator.ThrowSignal) { return value.Undefined{}, nil })
		return heap.IterResult{Value: value.Undefined{}, Done: true}, &evaluator.ThrowSignal{Value: thrown}
	}
	if d.task.State() == evaluator.TaskSuspended {
		d.task.Resume(thrown, true)
	}
	return d.result()
}

// result translates the Task's post-resume state into the IterResult/
// error pair the iterator protocol and Generator methods return.
func (d *Driver) result() (heap.IterResult, error) {
	switch d.task.State() {
	case evaluator.TaskSuspended:
		_, v := d.task.SuspendedOn()
		return heap.IterResult{Value: v, Done: false}, nil
	case evaluator.TaskThrew:
		return heap.IterResult{Value: value.Undefined{}, Done: true}, &evaluator.ThrowSignal{Value: d.task.Value()}
	default: // TaskDone
		return heap.IterResult{Value: d.task.Value(), Done: true}, nil
	}
}

// TraceRoots implements heap.Controller.TraceRoots. The Task's suspended
// body's live Environment is already a GC root through the evaluator's
// pinEnv/liveEnvs mechanism (pinned from the generator call until the
// body finishes), so there is nothing additional to yield here.
func (d *Driver) TraceRoots(func(value.Value)) {}
