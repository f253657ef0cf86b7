package value

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrBigIntMix is returned by arithmetic coercions when a BigInt is mixed
// with a Number, which spec.md §4.B requires to throw TypeError rather
// than coerce.
var ErrBigIntMix = errors.New("cannot mix BigInt and other types, use explicit conversions")

// caser performs the Unicode-aware case folding behind FoldCase.
// golang.org/x/text is a teacher-indirect dependency promoted to direct
// use here (SPEC_FULL.md §11) rather than reimplementing Unicode case
// folding by hand.
var caser = cases.Fold()

// FoldCase returns the Unicode default-case-folded form of s. No code in
// this module calls it; scripts have no case-insensitive comparison
// built on it.
func FoldCase(s string) string { return caser.String(s) }

// UpperCase returns the Unicode uppercase form of s for locale-neutral
// display, using the same golang.org/x/text entry point as FoldCase.
func UpperCase(s string) string { return cases.Upper(language.Und).String(s) }

// ToBoolean implements spec.md §4.B toBoolean.
func ToBoolean(v Value) bool {
	switch x := v.(type) {
	case Undefined:
		return false
	case Null:
		return false
	case Boolean:
		return bool(x)
	case Number:
		f := float64(x)
		return f != 0 && !math.IsNaN(f)
	case BigInt:
		return x.V != nil && x.V.Sign() != 0
	case String:
		return x.s != ""
	case Symbol:
		return true
	default:
		// Heap values (objects, arrays, functions, ...) are always truthy.
		return true
	}
}

// ToNumber implements spec.md §4.B toNumber. BigInt rejects coercion to
// Number with ErrBigIntMix per the TypeError rule.
func ToNumber(v Value) (float64, error) {
	switch x := v.(type) {
	case Undefined:
		return math.NaN(), nil
	case Null:
		return 0, nil
	case Boolean:
		if x {
			return 1, nil
		}
		return 0, nil
	case Number:
		return float64(x), nil
	case BigInt:
		return 0, ErrBigIntMix
	case String:
		s := strings.TrimSpace(x.s)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), nil
		}
		return f, nil
	default:
		return math.NaN(), fmt.Errorf("cannot convert %s to number", v.Kind())
	}
}

// ToString implements spec.md §4.B toString: primitive→canonical. Unlike
// Value.String() (the display form), BigInt's ToString omits the
// trailing "n" — spec.md is explicit that the "n" suffix is a display
// convention, not part of ToString.
func ToString(v Value) (string, error) {
	switch x := v.(type) {
	case Undefined:
		return "undefined", nil
	case Null:
		return "null", nil
	case Boolean:
		return fmt.Sprintf("%t", bool(x)), nil
	case Number:
		return formatNumber(float64(x)), nil
	case BigInt:
		if x.V == nil {
			return "0", nil
		}
		return x.V.String(), nil
	case String:
		return x.s, nil
	case Symbol:
		return "", fmt.Errorf("cannot convert a Symbol value to a string")
	default:
		return "", fmt.Errorf("cannot convert %s to string directly; invoke toString()/valueOf() via the evaluator", v.Kind())
	}
}

// ToBigInt implements spec.md §4.B toBigInt: from an integral-valued
// double, from a BigInt itself, or from a parseable string.
func ToBigInt(v Value) (BigInt, error) {
	switch x := v.(type) {
	case BigInt:
		return x, nil
	case Number:
		f := float64(x)
		if math.Trunc(f) != f || math.IsNaN(f) || math.IsInf(f, 0) {
			return BigInt{}, fmt.Errorf("cannot convert %v to a BigInt: not an integer", f)
		}
		bi, _ := big.NewFloat(f).Int(nil)
		return BigInt{V: bi}, nil
	case String:
		bi, ok := new(big.Int).SetString(strings.TrimSpace(x.s), 10)
		if !ok {
			return BigInt{}, fmt.Errorf("cannot convert %q to a BigInt", x.s)
		}
		return BigInt{V: bi}, nil
	case Boolean:
		if x {
			return NewBigInt(1), nil
		}
		return NewBigInt(0), nil
	default:
		return BigInt{}, fmt.Errorf("cannot convert %s to a BigInt", v.Kind())
	}
}

// formatNumber renders a float64 the way ECMAScript's Number::toString
// does for the common cases: integral values print without a decimal
// point, NaN/Infinity print their names.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// StrictEquals implements `===`: no coercion; NaN !== NaN; -0 === +0;
// heap values compare by handle identity (spec.md §4.B, §8).
func StrictEquals(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Undefined:
		return true
	case Null:
		return true
	case Boolean:
		return bool(x) == bool(b.(Boolean))
	case Number:
		y := float64(b.(Number))
		return float64(x) == y // Go's == already gives NaN!=NaN and -0==+0
	case BigInt:
		y := b.(BigInt)
		if x.V == nil || y.V == nil {
			return x.V == y.V
		}
		return x.V.Cmp(y.V) == 0
	case String:
		return x.s == b.(String).s
	case Symbol:
		return x.Equal(b.(Symbol))
	default:
		// Heap values: identity comparison via the shared pointer the
		// concrete heap kind wraps. Comparable because Go interface
		// equality on pointer-backed HeapValue implementations is
		// pointer-identity comparison.
		return a == b
	}
}

// LooseEquals implements `==` with ECMAScript's abstract equality
// coercion rules (spec.md §4.B).
func LooseEquals(a, b Value) (bool, error) {
	if a.Kind() == b.Kind() {
		return StrictEquals(a, b), nil
	}
	// null == undefined, and neither equals anything else loosely.
	if isNullish(a) && isNullish(b) {
		return true, nil
	}
	if isNullish(a) || isNullish(b) {
		return false, nil
	}
	// Number/String cross-coercion.
	if a.Kind() == KindNumber && b.Kind() == KindString {
		bn, err := ToNumber(b)
		if err != nil {
			return false, err
		}
		return float64(a.(Number)) == bn, nil
	}
	if a.Kind() == KindString && b.Kind() == KindNumber {
		return LooseEquals(b, a)
	}
	if a.Kind() == KindBoolean {
		an, _ := ToNumber(a)
		return LooseEquals(Number(an), b)
	}
	if b.Kind() == KindBoolean {
		bn, _ := ToNumber(b)
		return LooseEquals(a, Number(bn))
	}
	if a.Kind() == KindBigInt || b.Kind() == KindBigInt {
		abi, aerr := ToBigInt(a)
		bbi, berr := ToBigInt(b)
		if aerr != nil || berr != nil {
			return false, nil
		}
		return abi.V.Cmp(bbi.V) == 0, nil
	}
	return false, nil
}

func isNullish(v Value) bool {
	return v.Kind() == KindUndefined || v.Kind() == KindNull
}
