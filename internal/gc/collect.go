package gc

import (
	"time"

	"github.com/cwbudde/tinyjs/internal/value"
)

// Collect runs the cycle-detecting mark-sweep pass (spec.md §4.F tier
// 2), explicit host call per spec.md §6's collect(). Re-entrant calls
// while a collection is already running are no-ops, matching "disable
// auto-collection re-entry" in the algorithm description.
func (g *GC) Collect() {
	g.mu.Lock()
	if g.collecting {
		g.mu.Unlock()
		return
	}
	g.collecting = true
	roots := append([]RootProvider{}, g.roots...)
	g.mu.Unlock()

	start := time.Now()

	marked := make(map[uint64]bool)
	var mark func(v value.Value)
	mark = func(v value.Value) {
		hv, ok := v.(value.HeapValue)
		if !ok || hv == nil {
			return
		}
		meta := hv.RefMeta()
		if meta.Destroyed || marked[meta.ID] {
			return
		}
		marked[meta.ID] = true
		hv.Trace(mark)
	}

	// Mark phase: walk every registered root provider — spec.md §4.F
	// step 2. The evaluator's provider walks the global environment and
	// the environments pinned for running async/generator bodies; queued
	// microtasks and pending Promise reactions are not walked, so an
	// object reachable only from them is not marked.
	for _, rp := range roots {
		rp(mark)
	}

	// Weak-collection sweep: entries whose key became unmarked are
	// removed before their objects are freed (spec.md §4.F step 3). Weak
	// collections take part only through AddWeakSweeper, since
	// internal/gc does not import internal/heap.
	g.runWeakSweepers(marked)

	g.mu.Lock()
	// Sweep phase: anything registered but unmarked is unreachable.
	var unreachable []value.HeapValue
	for id, obj := range g.registry {
		if !marked[id] && !obj.RefMeta().Destroyed {
			unreachable = append(unreachable, obj)
		}
	}
	cb := g.destructor
	cyclesDetected := uint64(0)
	for _, obj := range unreachable {
		// An object found unmarked despite a nonzero refcount was kept
		// alive only by other unreachable objects — i.e. it was part of
		// a cycle the tier-1 refcounter could never zero on its own.
		if obj.RefMeta().RefCount > 0 {
			cyclesDetected++
		}
		obj.RefMeta().Destroyed = true
		delete(g.registry, obj.RefMeta().ID)
		g.stats.CurrentAllocated--
		g.stats.TotalFreed++
	}
	g.stats.Collections++
	if cyclesDetected > 0 {
		g.stats.CyclesDetected += cyclesDetected
	}
	pause := time.Since(start)
	g.stats.LastPauseNS = pause.Nanoseconds()
	g.stats.CumulativePauseNS += pause.Nanoseconds()
	g.bytesSinceScan = 0
	g.collecting = false
	g.mu.Unlock()

	// Destructors run after the registry lock is released, matching the
	// teacher's refcount.go convention of invoking the callback outside
	// any lock it holds.
	if cb != nil {
		for _, obj := range unreachable {
			cb(obj)
		}
	}
}

// WeakSweeper prunes entries whose key did not survive a mark phase.
// No package in this module registers one, so WeakMap/WeakSet entries
// are not pruned by Collect.
type WeakSweeper func(isUnreachable func(value.HeapValue) bool)

// AddWeakSweeper registers a sweeper invoked by every Collect pass right
// after the mark phase, before unreachable objects are swept and before
// destructors run.
func (g *GC) AddWeakSweeper(s WeakSweeper) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.weakSweepers = append(g.weakSweepers, s)
}

func (g *GC) runWeakSweepers(marked map[uint64]bool) {
	g.mu.Lock()
	sweepers := append([]WeakSweeper{}, g.weakSweepers...)
	g.mu.Unlock()
	isUnreachable := func(hv value.HeapValue) bool {
		if hv == nil {
			return true
		}
		return !marked[hv.RefMeta().ID]
	}
	for _, s := range sweepers {
		s(isUnreachable)
	}
}

// CollectIfNeeded triggers Collect only if the bytes-allocated-since-
// last-pass threshold or the heap-limit ceiling has been reached
// (spec.md §4.F triggers a/b; §6 collectIfNeeded).
func (g *GC) CollectIfNeeded() {
	g.mu.Lock()
	needs := g.bytesSinceScan >= g.threshold || uint64(g.stats.CurrentAllocated)*approxSize > g.heapLimit
	g.mu.Unlock()
	if needs {
		g.Collect()
	}
}
