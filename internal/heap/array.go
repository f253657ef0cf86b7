package heap

import (
	"strconv"
	"strings"

	"github.com/cwbudde/tinyjs/internal/value"
)

// Array is a contiguous Value sequence exposing a virtual `length`
// property with truncate/extend-on-set semantics (spec.md §3 Array).
// Grounded on internal/interp/runtime/array.go from the teacher.
type Array struct {
	meta     value.RefMeta
	Elements []value.Value
	Proto    value.Value
}

// NewArray creates an array with the given initial elements (may be
// nil/empty).
func NewArray(proto value.Value, elems ...value.Value) *Array {
	return &Array{Elements: elems, Proto: proto}
}

func (a *Array) Kind() value.Kind        { return value.KindObject }
func (a *Array) TypeTag() string         { return "Array" }
func (a *Array) RefMeta() *value.RefMeta { return &a.meta }

func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e != nil {
			s, err := value.ToString(e)
			if err == nil {
				parts[i] = s
			}
		}
	}
	return strings.Join(parts, ",")
}

// Length returns the current element count.
func (a *Array) Length() int64 { return int64(len(a.Elements)) }

// SetLength implements spec.md §3's "set length to N truncates/extends"
// rule: shrinking drops trailing elements, growing appends `undefined`.
func (a *Array) SetLength(n int64) {
	if n < 0 {
		n = 0
	}
	cur := int64(len(a.Elements))
	switch {
	case n < cur:
		a.Elements = a.Elements[:n]
	case n > cur:
		grown := make([]value.Value, n)
		copy(grown, a.Elements)
		for i := cur; i < n; i++ {
			grown[i] = value.Undefined{}
		}
		a.Elements = grown
	}
}

// Get returns the element at index, or (undefined, false) if out of
// range.
func (a *Array) Get(index int64) (value.Value, bool) {
	if index < 0 || index >= int64(len(a.Elements)) {
		return nil, false
	}
	return a.Elements[index], true
}

// Set writes the element at index, growing the array (filling the gap
// with undefined) if index is beyond the current length — ECMAScript's
// sparse-array-by-assignment behavior.
func (a *Array) Set(index int64, v value.Value) {
	if index < 0 {
		return
	}
	if index >= int64(len(a.Elements)) {
		a.SetLength(index + 1)
	}
	a.Elements[index] = v
}

// IndexFromKey parses a property-name string as an array index, the
// boundary the evaluator uses to route `arr["3"]`/`arr[3]` to element
// access versus a named own property on the backing object.
func IndexFromKey(key string) (int64, bool) {
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (a *Array) Trace(yield func(value.Value)) {
	for _, e := range a.Elements {
		if e != nil {
			yield(e)
		}
	}
	if a.Proto != nil {
		yield(a.Proto)
	}
}
