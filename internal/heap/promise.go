package heap

import "github.com/cwbudde/tinyjs/internal/value"

// PromiseState is the three-state Promise lifecycle of spec.md §3/§4.H.
type PromiseState int32

const (
	Pending PromiseState = iota
	Fulfilled
	Rejected
)

func (s PromiseState) String() string {
	switch s {
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// ReactionKind distinguishes fulfillment from rejection handlers within
// a Reaction record.
type ReactionKind int

const (
	OnFulfilled ReactionKind = iota
	OnRejected
)

// Reaction is a fulfillment/rejection continuation pair attached to a
// Promise (spec.md Glossary: "Reaction"). Handler may be nil (identity
// passthrough, used by bare .catch()/.then(onFulfilled) calls). Capability
// is the promise produced by the .then()/.catch() call that created this
// reaction; it is resolved/rejected with the handler's outcome once the
// reaction runs.
type Reaction struct {
	Kind       ReactionKind
	Handler    value.Value // *heap.Function or nil
	Capability *Promise
	// Resume, when non-nil, is invoked instead of Handler: it is how the
	// async driver (internal/async) resumes a parked `await` Task. Kept
	// as an opaque callback (not a traced Value) because it resumes
	// evaluator state whose Environment the evaluator roots itself by
	// pinning it (pinEnv), not through the Promise.
	Resume func(settled value.Value, isRejection bool)
}

// Promise is the heap-resident Promise state (spec.md §3 Promise). The
// reaction-running/microtask-scheduling logic lives in internal/async;
// this struct is the GC-traceable, state-holding half of it.
type Promise struct {
	meta value.RefMeta

	State  PromiseState
	Result value.Value // settled value or rejection reason; nil while Pending

	FulfillReactions []*Reaction
	RejectReactions  []*Reaction

	// Handled marks whether a rejection reaction has ever been attached,
	// for the "unhandled rejection" callback (spec.md §7).
	Handled bool

	Proto value.Value
}

// NewPromise creates a fresh Pending promise.
func NewPromise(proto value.Value) *Promise {
	return &Promise{State: Pending, Proto: proto}
}

func (p *Promise) Kind() value.Kind        { return value.KindObject }
func (p *Promise) TypeTag() string         { return "Promise" }
func (p *Promise) RefMeta() *value.RefMeta { return &p.meta }
func (p *Promise) String() string          { return "Promise { <" + p.State.String() + "> }" }

func (p *Promise) Trace(yield func(value.Value)) {
	if p.Result != nil {
		yield(p.Result)
	}
	for _, r := range p.FulfillReactions {
		traceReaction(r, yield)
	}
	for _, r := range p.RejectReactions {
		traceReaction(r, yield)
	}
	if p.Proto != nil {
		yield(p.Proto)
	}
}

func traceReaction(r *Reaction, yield func(value.Value)) {
	if r == nil {
		return
	}
	if r.Handler != nil {
		yield(r.Handler)
	}
	if r.Capability != nil {
		yield(r.Capability)
	}
}
