package heap

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/cwbudde/tinyjs/internal/value"
)

// ElemType enumerates the typed-array element kinds spec.md §4.C names.
type ElemType int

const (
	ElemInt8 ElemType = iota
	ElemUint8
	ElemUint8Clamped
	ElemInt16
	ElemUint16
	ElemInt32
	ElemUint32
	ElemFloat32
	ElemFloat64
	ElemBigInt64
	ElemBigUint64
)

// Size returns the element's width in bytes.
func (t ElemType) Size() int {
	switch t {
	case ElemInt8, ElemUint8, ElemUint8Clamped:
		return 1
	case ElemInt16, ElemUint16:
		return 2
	case ElemInt32, ElemUint32, ElemFloat32:
		return 4
	default:
		return 8
	}
}

// IsBigInt reports whether this element type reads/writes via the
// BigInt coercion path rather than Number (spec.md §4.C: "big-integer
// typed arrays honor BigInt read/write paths").
func (t ElemType) IsBigInt() bool { return t == ElemBigInt64 || t == ElemBigUint64 }

// TypedArray is a raw byte buffer viewed through ElemType (spec.md §4.C).
type TypedArray struct {
	meta    value.RefMeta
	Elem    ElemType
	Buffer  []byte
	Proto   value.Value
}

// NewTypedArray allocates a zeroed buffer for n elements of t.
func NewTypedArray(t ElemType, n int, proto value.Value) *TypedArray {
	return &TypedArray{Elem: t, Buffer: make([]byte, n*t.Size()), Proto: proto}
}

func (a *TypedArray) Kind() value.Kind        { return value.KindObject }
func (a *TypedArray) RefMeta() *value.RefMeta { return &a.meta }
func (a *TypedArray) TypeTag() string         { return "TypedArray" }
func (a *TypedArray) String() string          { return fmt.Sprintf("TypedArray(%d)", a.Length()) }

// Length returns the element count.
func (a *TypedArray) Length() int { return len(a.Buffer) / a.Elem.Size() }

// GetNumber reads element i through the Number path (invalid for
// BigInt64/BigUint64 — use GetBigInt instead).
func (a *TypedArray) GetNumber(i int) (float64, error) {
	if a.Elem.IsBigInt() {
		return 0, fmt.Errorf("cannot read a BigInt64Array element as Number")
	}
	off := i * a.Elem.Size()
	if off < 0 || off+a.Elem.Size() > len(a.Buffer) {
		return 0, fmt.Errorf("typed array index out of range: %d", i)
	}
	b := a.Buffer[off : off+a.Elem.Size()]
	switch a.Elem {
	case ElemInt8:
		return float64(int8(b[0])), nil
	case ElemUint8, ElemUint8Clamped:
		return float64(b[0]), nil
	case ElemInt16:
		return float64(int16(binary.LittleEndian.Uint16(b))), nil
	case ElemUint16:
		return float64(binary.LittleEndian.Uint16(b)), nil
	case ElemInt32:
		return float64(int32(binary.LittleEndian.Uint32(b))), nil
	case ElemUint32:
		return float64(binary.LittleEndian.Uint32(b)), nil
	case ElemFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	case ElemFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	}
	return 0, fmt.Errorf("unsupported element type")
}

// SetNumber writes element i through the Number path.
func (a *TypedArray) SetNumber(i int, v float64) error {
	if a.Elem.IsBigInt() {
		return fmt.Errorf("cannot write a BigInt64Array element as Number")
	}
	off := i * a.Elem.Size()
	if off < 0 || off+a.Elem.Size() > len(a.Buffer) {
		return fmt.Errorf("typed array index out of range: %d", i)
	}
	b := a.Buffer[off : off+a.Elem.Size()]
	switch a.Elem {
	case ElemInt8, ElemUint8, ElemUint8Clamped:
		b[0] = byte(int64(v))
	case ElemInt16, ElemUint16:
		binary.LittleEndian.PutUint16(b, uint16(int64(v)))
	case ElemInt32, ElemUint32:
		binary.LittleEndian.PutUint32(b, uint32(int64(v)))
	case ElemFloat32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case ElemFloat64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
	return nil
}

// GetBigInt reads a BigInt64/BigUint64 element.
func (a *TypedArray) GetBigInt(i int) (*big.Int, error) {
	if !a.Elem.IsBigInt() {
		return nil, fmt.Errorf("element type does not support BigInt access")
	}
	off := i * 8
	if off < 0 || off+8 > len(a.Buffer) {
		return nil, fmt.Errorf("typed array index out of range: %d", i)
	}
	u := binary.LittleEndian.Uint64(a.Buffer[off : off+8])
	if a.Elem == ElemBigUint64 {
		return new(big.Int).SetUint64(u), nil
	}
	return big.NewInt(int64(u)), nil
}

// SetBigInt writes a BigInt64/BigUint64 element.
func (a *TypedArray) SetBigInt(i int, v *big.Int) error {
	if !a.Elem.IsBigInt() {
		return fmt.Errorf("element type does not support BigInt access")
	}
	off := i * 8
	if off < 0 || off+8 > len(a.Buffer) {
		return fmt.Errorf("typed array index out of range: %d", i)
	}
	binary.LittleEndian.PutUint64(a.Buffer[off:off+8], v.Uint64())
	return nil
}

func (a *TypedArray) Trace(yield func(value.Value)) {
	if a.Proto != nil {
		yield(a.Proto)
	}
}
