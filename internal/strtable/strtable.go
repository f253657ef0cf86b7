// Package strtable implements the global string-interning table
// (spec.md §4.A). It is a process-wide, concurrency-safe singleton: two
// interned handles compare equal in O(1) via pointer identity, and usage
// statistics are tracked for observability the way the GC's stats are
// (internal/gc).
//
// Grounded on pkg/ident's case-insensitive normalizing map from the
// teacher, generalized here to case-sensitive identity interning: unlike
// DWScript, ECMAScript identifiers and string values are case-sensitive.
package strtable

import (
	"sync"
)

// Threshold is the maximum byte length of a string the lexer is expected
// to intern (spec.md §4.A consumer policy). Longer strings still work if
// interned directly, but callers should bypass interning for them.
const Threshold = 256

// Handle is the canonical, comparable reference to an interned string.
// Handle equality (==) is pointer identity on the underlying entry.
type Handle struct {
	entry *entry
}

type entry struct {
	s string
}

// String returns the interned string's contents.
func (h Handle) String() string {
	if h.entry == nil {
		return ""
	}
	return h.entry.s
}

// Valid reports whether h was produced by Intern (as opposed to the zero
// Handle value).
func (h Handle) Valid() bool { return h.entry != nil }

// Equal reports whether two handles reference the same interned string.
// This is the O(1) identity comparison spec.md §4.A and §8 require.
func (h Handle) Equal(other Handle) bool { return h.entry == other.entry }

// Stats snapshots the table's observability counters.
type Stats struct {
	Hits       uint64
	Misses     uint64
	UniqueKeys uint64
	Bytes      uint64
}

// Table is a concurrency-safe intern table. The zero value is not usable;
// construct with New. A process normally uses the package-level Default
// table (spec.md §9: "process-wide singletons... one-time-initialized,
// internally locked").
type Table struct {
	mu      sync.RWMutex
	entries map[string]*entry
	hits    uint64
	misses  uint64
	bytes   uint64
}

// New creates an independent intern table. Most embedders should use the
// package-level Default instead; New exists for test isolation.
func New() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// Intern returns the canonical Handle for s, creating it on first sight.
// Safe for concurrent use.
func (t *Table) Intern(s string) Handle {
	t.mu.RLock()
	if e, ok := t.entries[s]; ok {
		t.mu.RUnlock()
		t.mu.Lock()
		t.hits++
		t.mu.Unlock()
		return Handle{entry: e}
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	// Re-check under the write lock: another goroutine may have interned
	// s between our RUnlock and this Lock.
	if e, ok := t.entries[s]; ok {
		t.hits++
		return Handle{entry: e}
	}
	e := &entry{s: s}
	t.entries[s] = e
	t.misses++
	t.bytes += uint64(len(s))
	return Handle{entry: e}
}

// Lookup returns the Handle for s without creating one.
func (t *Table) Lookup(s string) (Handle, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[s]
	if !ok {
		return Handle{}, false
	}
	return Handle{entry: e}, true
}

// Stats returns a snapshot of the table's counters.
func (t *Table) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Stats{
		Hits:       t.hits,
		Misses:     t.misses,
		UniqueKeys: uint64(len(t.entries)),
		Bytes:      t.bytes,
	}
}

// ResetStats clears the hit/miss counters without discarding interned
// entries or invalidating outstanding Handles — identity is never reset
// (spec.md §9: test hooks "can reset counters but not identity").
func (t *Table) ResetStats() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hits = 0
	t.misses = 0
}

// Default is the process-wide intern table used unless an embedder
// constructs its own via New.
var Default = New()

// Intern interns s in the Default table.
func Intern(s string) Handle { return Default.Intern(s) }

// ShouldIntern reports whether s is short enough that the lexer's
// consumer policy should intern it (spec.md §4.A).
func ShouldIntern(s string) bool { return len(s) <= Threshold }
