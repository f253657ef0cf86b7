// Package async implements spec.md §4.H: Promise resolution, the
// microtask queue, and the RunAsyncTask bridge that drives a suspended
// async-function Task across awaits to a settled Promise.
//
// There is no teacher analog (DWScript has no async model); this package
// is grounded on the joeycumines promisealttwo reference
// (other_examples/b4883041_joeycumines-go-utilpkg__eventloop-internal-
// promisealttwo-promise.go.go) for the reaction-list/microtask-drain
// shape, adapted from its lock-free multi-goroutine design to a single
// FIFO queue since tinyjs's evaluator already serializes everything
// through one coroutine rendezvous at a time (spec.md §5).
package async

import (
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/evaluator"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// Queue is a plain FIFO job list implementing evaluator.MicrotaskQueue.
// Enqueue only appends; Drain (called by the host after each synchronous
// turn, per spec.md §4.H step 4) runs jobs to exhaustion, including any
// jobs newly enqueued by jobs that ran earlier in the same drain.
type Queue struct {
	jobs []func()
}

func (q *Queue) Enqueue(job func()) {
	q.jobs = append(q.jobs, job)
}

// Drain runs every queued job, and any jobs those jobs enqueue, until the
// queue is empty (spec.md §4.H: "microtasks drain fully before any later
// synchronous work the host schedules").
func (q *Queue) Drain() {
	for len(q.jobs) > 0 {
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		job()
	}
}

// Pending reports whether any microtask is still queued.
func (q *Queue) Pending() bool { return len(q.jobs) > 0 }

// UnhandledRejection is invoked (if set) when a Promise settles to
// Rejected and still has no rejection reaction attached when a check
// microtask, queued at the moment of rejection, runs (spec.md §7). A
// handler attached by a microtask that runs after that check, even in
// the same drain, does not prevent the report.
type UnhandledRejection func(reason value.Value)

// Driver implements evaluator.AsyncHost, wiring Promise settlement onto
// it's Call/GetProperty surface and this package's microtask Queue.
type Driver struct {
	*Queue
	it         *evaluator.Interpreter
	OnUnhandled UnhandledRejection
}

// NewDriver builds a Driver bound to it. pkg/tinyjs constructs this once
// per embedded script and wires it onto it.Async and it.Microtasks.
func NewDriver(it *evaluator.Interpreter) *Driver {
	return &Driver{Queue: &Queue{}, it: it}
}

// NewPromise allocates a fresh pending Promise registered with the GC.
func (d *Driver) NewPromise() *heap.Promise {
	p := heap.NewPromise(d.it.Proto.Promise)
	d.it.GC.RegisterObject(p)
	return p
}

// Resolve implements the Promise Resolve algorithm (spec.md §4.H): a
// self-reference rejects with TypeError, a Promise adopts the other
// Promise's eventual state via a reaction, a thenable's `then` is
// invoked on the microtask queue, and anything else fulfills directly.
func (d *Driver) Resolve(p *heap.Promise, v value.Value) {
	if v == value.Value(p) {
		d.Reject(p, d.typeError("Chaining cycle detected for promise"))
		return
	}
	if other, ok := v.(*heap.Promise); ok {
		d.attach(other, &heap.Reaction{Kind: heap.OnFulfilled, Resume: func(settled value.Value, _ bool) {
			d.Resolve(p, settled)
		}})
		d.attach(other, &heap.Reaction{Kind: heap.OnRejected, Resume: func(settled value.Value, _ bool) {
			d.Reject(p, settled)
		}})
		return
	}
	then, thenable := d.thenOf(v)
	if thenable {
		d.Enqueue(func() {
			resolveOnce := newOnceGuard()
			resolveFn := heap.NewNative("", 1, func(ctx *heap.CallContext) (value.Value, error) {
				if resolveOnce.fire() {
					d.Resolve(p, ctx.Arg(0))
				}
				return value.Undefined{}, nil
			})
			rejectFn := heap.NewNative("", 1, func(ctx *heap.CallContext) (value.Value, error) {
				if resolveOnce.fire() {
					d.Reject(p, ctx.Arg(0))
				}
				return value.Undefined{}, nil
			})
			if _, err := d.it.Call(then, v, []value.Value{resolveFn, rejectFn}); err != nil {
				if resolveOnce.fire() {
					d.Reject(p, errValue(err))
				}
			}
		})
		return
	}
	d.fulfill(p, v)
}

// Reject settles p as Rejected with reason, unless already settled.
func (d *Driver) Reject(p *heap.Promise, reason value.Value) {
	if p.State != heap.Pending {
		return
	}
	p.State = heap.Rejected
	p.Result = reason
	reactions := p.RejectReactions
	p.FulfillReactions, p.RejectReactions = nil, nil
	for _, r := range reactions {
		d.schedule(r, reason, true)
	}
	if len(reactions) == 0 {
		d.watchUnhandled(p)
	}
}

func (d *Driver) fulfill(p *heap.Promise, v value.Value) {
	if p.State != heap.Pending {
		return
	}
	p.State = heap.Fulfilled
	p.Result = v
	reactions := p.FulfillReactions
	p.FulfillReactions, p.RejectReactions = nil, nil
	for _, r := range reactions {
		d.schedule(r, v, false)
	}
}

// watchUnhandled gives script code one more microtask turn to attach a
// rejection handler before reporting reason as unhandled, matching how
// real engines delay the unhandledrejection check past synchronous
// .catch() attachment in the same turn.
func (d *Driver) watchUnhandled(p *heap.Promise) {
	if d.OnUnhandled == nil {
		return
	}
	d.Enqueue(func() {
		if !p.Handled && len(p.RejectReactions) == 0 {
			d.OnUnhandled(p.Result)
		}
	})
}

// attach registers r on p, scheduling it immediately if p has already
// settled (spec.md §4.H ordering invariant: "reactions run in attachment
// order within a single settle").
func (d *Driver) attach(p *heap.Promise, r *heap.Reaction) {
	if r.Kind == heap.OnRejected {
		p.Handled = true
	}
	switch p.State {
	case heap.Pending:
		if r.Kind == heap.OnFulfilled {
			p.FulfillReactions = append(p.FulfillReactions, r)
		} else {
			p.RejectReactions = append(p.RejectReactions, r)
		}
	case heap.Fulfilled:
		if r.Kind == heap.OnFulfilled {
			d.schedule(r, p.Result, false)
		}
	case heap.Rejected:
		if r.Kind == heap.OnRejected {
			d.schedule(r, p.Result, true)
		}
	}
}

// schedule enqueues r to run on the microtask queue, never synchronously
// (spec.md §4.H step 3).
func (d *Driver) schedule(r *heap.Reaction, settled value.Value, isRejection bool) {
	d.Enqueue(func() { d.run(r, settled, isRejection) })
}

func (d *Driver) run(r *heap.Reaction, settled value.Value, isRejection bool) {
	if r.Resume != nil {
		r.Resume(settled, isRejection)
		return
	}
	cap := r.Capability
	if r.Handler == nil {
		if cap == nil {
			return
		}
		if isRejection {
			d.Reject(cap, settled)
		} else {
			d.Resolve(cap, settled)
		}
		return
	}
	result, err := d.it.Call(r.Handler, value.Undefined{}, []value.Value{settled})
	if cap == nil {
		return
	}
	if err != nil {
		d.Reject(cap, errValue(err))
		return
	}
	d.Resolve(cap, result)
}

// AttachSettle attaches plain Go callbacks to p's eventual fulfillment or
// rejection, for host code (pkg/tinyjs's Promise.all/race/allSettled/any)
// that needs to observe settlement without going through a script-level
// .then() capability promise.
func (d *Driver) AttachSettle(p *heap.Promise, onFulfilled, onRejected func(value.Value)) {
	d.attach(p, &heap.Reaction{Kind: heap.OnFulfilled, Resume: func(v value.Value, _ bool) { onFulfilled(v) }})
	d.attach(p, &heap.Reaction{Kind: heap.OnRejected, Resume: func(v value.Value, _ bool) { onRejected(v) }})
}

// Then implements Promise.prototype.then: returns a fresh capability
// Promise settled by onFulfilled/onRejected's outcome (nil handlers pass
// the settlement through unchanged).
func (d *Driver) Then(p *heap.Promise, onFulfilled, onRejected value.Value) *heap.Promise {
	capability := d.NewPromise()
	d.attach(p, &heap.Reaction{Kind: heap.OnFulfilled, Handler: callableOrNil(onFulfilled), Capability: capability})
	d.attach(p, &heap.Reaction{Kind: heap.OnRejected, Handler: callableOrNil(onRejected), Capability: capability})
	return capability
}

func callableOrNil(v value.Value) value.Value {
	if f, ok := v.(*heap.Function); ok {
		return f
	}
	return nil
}

// RunAsyncTask implements evaluator.AsyncHost (spec.md §4.H steps 1-4):
// allocates P, runs t to its first suspension or completion, and wires
// each subsequent await to resume t once the awaited value settles.
func (d *Driver) RunAsyncTask(t *evaluator.Task, promiseProto value.Value) *heap.Promise {
	p := heap.NewPromise(promiseProto)
	d.it.GC.RegisterObject(p)
	d.advance(t, p)
	return p
}

func (d *Driver) advance(t *evaluator.Task, p *heap.Promise) {
	for {
		switch t.State() {
		case evaluator.TaskDone:
			d.Resolve(p, t.Value())
			return
		case evaluator.TaskThrew:
			d.Reject(p, t.Value())
			return
		}
		kind, awaited := t.SuspendedOn()
		if kind != evaluator.SuspendAwait {
			// A bare yield inside a non-generator async body is a parse
			// error (the parser rejects `yield` outside function*);
			// treat defensively as awaiting undefined rather than
			// looping forever.
			awaited = value.Undefined{}
		}
		waiter := d.NewPromise()
		d.Resolve(waiter, awaited)
		settled := false
		d.attach(waiter, &heap.Reaction{Kind: heap.OnFulfilled, Resume: func(v value.Value, _ bool) {
			if settled {
				return
			}
			settled = true
			t.Resume(v, false)
			d.advance(t, p)
		}})
		d.attach(waiter, &heap.Reaction{Kind: heap.OnRejected, Resume: func(v value.Value, _ bool) {
			if settled {
				return
			}
			settled = true
			t.Resume(v, true)
			d.advance(t, p)
		}})
		return
	}
}

// thenOf reports whether v is a thenable (an Object/Function-kind Value
// exposing a callable "then"), per spec.md §4.H's "resolving to a
// thenable never deadlocks" clause.
func (d *Driver) thenOf(v value.Value) (value.Value, bool) {
	switch v.(type) {
	case value.Undefined, value.Null, nil:
		return nil, false
	}
	if _, isPrimitive := v.(value.Number); isPrimitive {
		return nil, false
	}
	if _, isPrimitive := v.(value.String); isPrimitive {
		return nil, false
	}
	if _, isPrimitive := v.(value.Boolean); isPrimitive {
		return nil, false
	}
	then, err := d.it.GetProperty(v, "then")
	if err != nil {
		return nil, false
	}
	f, ok := then.(*heap.Function)
	if !ok {
		return nil, false
	}
	return f, true
}

func (d *Driver) typeError(msg string) value.Value {
	eo := heap.NewErrorObject(errstack.TypeError, msg, d.it.Stack.Snapshot(), value.Null{})
	d.it.GC.RegisterObject(eo)
	return eo
}

// errValue unwraps a script-level throw into its carried Value, or wraps
// a host-level Go error as a plain string so it can still settle a
// Promise's rejection.
func errValue(err error) value.Value {
	if ts, ok := err.(*evaluator.ThrowSignal); ok {
		return ts.Value
	}
	return value.NewString(err.Error())
}

// onceGuard ensures a thenable's resolve/reject pair only ever fires
// once, per the Resolve/Reject capability functions ignoring every call
// after the first (spec.md §4.H "resolving to a thenable never
// deadlocks").
type onceGuard struct{ fired bool }

func newOnceGuard() *onceGuard { return &onceGuard{} }

func (g *onceGuard) fire() bool {
	if g.fired {
		return false
	}
	g.fired = true
	return true
}
