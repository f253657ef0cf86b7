package gc

import (
	"sync/atomic"

	"github.com/cwbudde/tinyjs/internal/value"
)

// approxSize is a rough per-object byte estimate used for accounting
// (spec.md §4.F byte accounting); real size varies by kind, but the
// ceiling check only needs an order-of-magnitude budget, not an exact
// sizeof.
const approxSize = 64

// RegisterObject admits a freshly allocated heap value into the
// registry, assigns its registry id, and accounts its estimated size
// against the heap-limit ceiling (spec.md §4.F, §6 registerObject).
// Triggers CollectIfNeeded, and if the ceiling is still exceeded after
// that forced collection, returns ErrHeapLimitExceeded — which the
// evaluator must surface as a non-catchable RangeError (spec.md §4.F/§7).
func (g *GC) RegisterObject(obj value.HeapValue) error {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	obj.RefMeta().ID = id
	obj.RefMeta().RefCount = 1
	g.registry[id] = obj
	g.stats.TotalAllocated++
	g.stats.CurrentAllocated++
	if g.stats.CurrentAllocated > g.stats.PeakAllocated {
		g.stats.PeakAllocated = g.stats.CurrentAllocated
	}
	g.bytesSinceScan += approxSize
	exceeded := uint64(g.stats.CurrentAllocated)*approxSize > g.heapLimit
	auto := g.autoCollect
	needsScan := g.bytesSinceScan >= g.threshold
	g.mu.Unlock()

	if exceeded {
		g.Collect()
		g.mu.Lock()
		stillExceeded := uint64(g.stats.CurrentAllocated)*approxSize > g.heapLimit
		if stillExceeded {
			g.stats.CeilingHits++
		}
		g.mu.Unlock()
		if stillExceeded {
			return &ErrHeapLimitExceeded{Ceiling: g.heapLimit}
		}
		return nil
	}
	if auto && needsScan {
		g.Collect()
	}
	return nil
}

// UnregisterObject removes obj from the registry directly, bypassing
// refcounting — used for objects freed immediately via the refcount
// path (IncrementRef/DecrementRef), not via a mark-sweep pass.
func (g *GC) UnregisterObject(obj value.HeapValue) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := obj.RefMeta().ID
	if _, ok := g.registry[id]; ok {
		delete(g.registry, id)
		g.stats.CurrentAllocated--
		g.stats.TotalFreed++
	}
}

// ReportAllocation accounts n additional bytes without registering a
// discrete object (e.g. a TypedArray's backing buffer growing), for
// spec.md §6's reportAllocation(n).
func (g *GC) ReportAllocation(n uint64) {
	g.mu.Lock()
	g.bytesSinceScan += n
	auto := g.autoCollect
	needsScan := g.bytesSinceScan >= g.threshold
	g.mu.Unlock()
	if auto && needsScan {
		g.Collect()
	}
}

// ReportDeallocation is the counterpart to ReportAllocation, for
// spec.md §6's reportDeallocation(n). It adjusts no ceiling-relevant
// counter directly since byte accounting here is advisory, not
// authoritative (CurrentAllocated tracks object counts, not bytes).
func (g *GC) ReportDeallocation(n uint64) {}

// IncrementRef bumps obj's reference count (spec.md §4.F tier 1).
// Returns obj for chaining, matching the teacher's
// RefCountManager.IncrementRef.
func (g *GC) IncrementRef(obj value.HeapValue) value.HeapValue {
	if obj == nil {
		return obj
	}
	atomic.AddInt64(&obj.RefMeta().RefCount, 1)
	return obj
}

// DecrementRef drops obj's reference count and, if it reaches zero and
// obj is not already destroyed, invokes the destructor callback and
// unregisters it — the "eligible for immediate release if it has no
// cycles" path of spec.md §4.F tier 1. Objects that are part of a
// reference cycle never reach zero this way; they are reclaimed only by
// the next Collect() pass.
func (g *GC) DecrementRef(obj value.HeapValue) {
	if obj == nil {
		return
	}
	meta := obj.RefMeta()
	if meta.Destroyed {
		return
	}
	n := atomic.AddInt64(&meta.RefCount, -1)
	if n < 0 {
		atomic.StoreInt64(&meta.RefCount, 0)
		n = 0
	}
	if n == 0 {
		g.release(obj)
	}
}

func (g *GC) release(obj value.HeapValue) {
	meta := obj.RefMeta()
	if meta.Destroyed {
		return
	}
	meta.Destroyed = true
	g.mu.Lock()
	cb := g.destructor
	g.mu.Unlock()
	if cb != nil {
		cb(obj)
	}
	g.UnregisterObject(obj)
}
