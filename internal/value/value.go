// Package value implements the tagged Value sum type and its coercion
// rules (spec.md §3 Value, §4.B). Heap kinds (internal/heap) implement
// the Value interface so that Object/Array/Function/... handles can flow
// through the same Value slots as primitives without a separate wrapper
// layer.
//
// Grounded on internal/interp/runtime/value_interfaces.go's interface
// family (Value, NumericValue, ComparableValue, OrderableValue,
// ConvertibleValue) from the teacher.
package value

import (
	"fmt"
	"math/big"

	"github.com/cwbudde/tinyjs/internal/strtable"
)

// Kind identifies which variant of the tagged union a Value holds.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindBigInt
	KindSymbol
	KindString
	KindObject // any heap.Trace-able handle: Object, Array, Function, Promise, Generator, Map, Set, Error, TypedArray, Regex
	KindModule // a ModuleBinding: a late-bound reference into another module's exports (spec.md §3)
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	default:
		return "object"
	}
}

// Value is the self-describing tagged union every runtime datum
// implements (spec.md §3).
type Value interface {
	Kind() Kind
	// String returns the display form used by console.log / string
	// concatenation contexts; for BigInt this includes the trailing "n"
	// (spec.md §4.B toDisplayString) while ToString (below) does not.
	String() string
}

// HeapValue is implemented by every internal/heap kind: it is the
// Value variant that participates in GC tracing (spec.md invariant 1).
type HeapValue interface {
	Value
	// TypeTag names the heap kind for error messages (e.g. "Array").
	TypeTag() string
	// Trace yields every outgoing Value edge for the GC mark phase.
	Trace(yield func(Value))
	// RefMeta exposes the embedded refcount bookkeeping the GC uses.
	RefMeta() *RefMeta
}

// RefMeta is embedded by every heap kind; the GC (internal/gc) reads and
// mutates it directly. Kept here (rather than in internal/heap) so that
// internal/gc need not import internal/heap to manage refcounts.
type RefMeta struct {
	RefCount  int64
	Marked    bool
	Destroyed bool
	ID        uint64 // registry id assigned by the GC at registerObject time
}

// Undefined is the `undefined` primitive.
type Undefined struct{}

func (Undefined) Kind() Kind     { return KindUndefined }
func (Undefined) String() string { return "undefined" }

// Null is the `null` primitive.
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }

// Boolean is a primitive `true`/`false`.
type Boolean bool

func (b Boolean) Kind() Kind     { return KindBoolean }
func (b Boolean) String() string { return fmt.Sprintf("%t", bool(b)) }

// Number is an IEEE-754 double.
type Number float64

func (n Number) Kind() Kind     { return KindNumber }
func (n Number) String() string { return formatNumber(float64(n)) }

// BigInt is an arbitrary-precision integer.
type BigInt struct{ V *big.Int }

func NewBigInt(i int64) BigInt { return BigInt{V: big.NewInt(i)} }

func (b BigInt) Kind() Kind { return KindBigInt }

// String is the *display* form (spec.md §4.B): includes the trailing
// "n". ToString (coercion.go) omits it, matching `toDisplayString` vs
// `toString` being distinct operations.
func (b BigInt) String() string {
	if b.V == nil {
		return "0n"
	}
	return b.V.String() + "n"
}

// Symbol is a unique identity with an optional description. Two Symbol
// values are the same primitive only when they share the same *sym
// pointer.
type Symbol struct{ sym *symEntry }

type symEntry struct {
	description string
}

// NewSymbol creates a fresh, globally unique Symbol.
func NewSymbol(description string) Symbol {
	return Symbol{sym: &symEntry{description: description}}
}

func (s Symbol) Kind() Kind { return KindSymbol }
func (s Symbol) String() string {
	if s.sym == nil {
		return "Symbol()"
	}
	return "Symbol(" + s.sym.description + ")"
}

// Equal reports whether two Symbols share identity.
func (s Symbol) Equal(other Symbol) bool { return s.sym == other.sym }

// Well-known symbols used by the iterator protocol (spec.md §4.G, §4.I).
var (
	SymbolIterator      = NewSymbol("Symbol.iterator")
	SymbolAsyncIterator = NewSymbol("Symbol.asyncIterator")
)

// String is a string primitive. Short strings (per strtable.ShouldIntern)
// carry an interned Handle so that `===` between two such strings can,
// in principle, fast-path on handle identity before falling back to byte
// comparison (spec.md §4.A: "a non-interned string compares by bytes").
type String struct {
	s      string
	handle strtable.Handle
}

// NewString wraps s as a String Value, interning it through strtable if
// it is short enough per the lexer consumer policy.
func NewString(s string) String {
	v := String{s: s}
	if strtable.ShouldIntern(s) {
		v.handle = strtable.Intern(s)
	}
	return v
}

func (s String) Kind() Kind     { return KindString }
func (s String) String() string { return s.s }
func (s String) Go() string     { return s.s }

// Handle returns the interned handle backing s, or the zero Handle if s
// was not interned (e.g. longer than strtable.Threshold).
func (s String) Handle() strtable.Handle { return s.handle }
