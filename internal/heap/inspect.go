package heap

import (
	"strconv"
	"strings"

	"github.com/cwbudde/tinyjs/internal/value"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Inspect renders v as a JSON-shaped string for console.log's object
// dumps (SPEC_FULL.md §11: the Value<->JSON bridge is ambient, distinct
// from the JSON.parse/stringify built-in, which is out of scope).
// Objects and Arrays are assembled with sjson.SetRaw, sjson's own idiom
// for building JSON text without marshaling through a Go-native tree;
// the result is pretty-printed with tidwall/pretty for display.
// Cyclic structures bottom out at a "[Circular]" marker.
func Inspect(v value.Value) string {
	seen := make(map[value.HeapValue]bool)
	raw := inspectRaw(v, seen)
	return string(pretty.PrettyOptions([]byte(raw), &pretty.Options{Indent: "  ", SortKeys: false}))
}

func inspectRaw(v value.Value, seen map[value.HeapValue]bool) string {
	switch o := v.(type) {
	case nil, value.Undefined, value.Null:
		return "null"
	case value.Boolean:
		return strconv.FormatBool(bool(o))
	case value.Number:
		return strconv.FormatFloat(float64(o), 'g', -1, 64)
	case value.String:
		return quoteJSON(o.Go())
	case *Object:
		return inspectObject(o, seen)
	case *Array:
		return inspectArray(o, seen)
	case *ErrorObject:
		return quoteJSON(o.String())
	default:
		return quoteJSON(v.String())
	}
}

func inspectObject(o *Object, seen map[value.HeapValue]bool) string {
	if seen[o] {
		return `"[Circular]"`
	}
	seen[o] = true
	defer delete(seen, o)

	doc := "{}"
	for _, k := range o.OwnKeys() {
		fv, _ := o.Get(k)
		var err error
		doc, err = sjson.SetRaw(doc, sjsonPath(k), inspectRaw(fv, seen))
		if err != nil {
			return doc
		}
	}
	return doc
}

func inspectArray(a *Array, seen map[value.HeapValue]bool) string {
	if seen[a] {
		return `"[Circular]"`
	}
	seen[a] = true
	defer delete(seen, a)

	doc := "[]"
	for i, el := range a.Elements {
		var err error
		doc, err = sjson.SetRaw(doc, strconv.Itoa(i), inspectRaw(el, seen))
		if err != nil {
			return doc
		}
	}
	return doc
}

// sjsonPath escapes a property name for use as an sjson path segment
// ('.', '*', '?', ':' are sjson path metacharacters).
func sjsonPath(key string) string {
	var b strings.Builder
	for _, r := range key {
		if r == '.' || r == '*' || r == '?' || r == ':' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
