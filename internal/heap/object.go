// Package heap implements the heap object kinds of spec.md §3/§4.C:
// Object, Array, Function, Promise, Generator, Map/Set, Error,
// TypedArray, Regex. Each kind implements value.HeapValue so the GC
// (internal/gc) can trace its outgoing edges uniformly.
//
// Grounded on internal/interp/runtime/object.go, array.go, record.go,
// exception.go, and interface_instance.go from the teacher — the
// struct-per-kind shape with an embedded RefCount/Destroyed pair
// (runtime/refcount.go) is kept, generalized from DWScript's class
// instances to ECMAScript's prototype-based objects with shapes.
package heap

import (
	"strings"

	"github.com/cwbudde/tinyjs/internal/shape"
	"github.com/cwbudde/tinyjs/internal/value"
)

// PropertyDescriptor carries the writable/enumerable/configurable flags
// and optional accessor pair spec.md §3 Object requires per property.
type PropertyDescriptor struct {
	Value        value.Value
	Get          value.Value // *Function or nil
	Set          value.Value // *Function or nil
	Writable     bool
	Enumerable   bool
	Configurable bool
	IsAccessor   bool
}

// Object is the general-purpose heap object (spec.md §3 Object).
// Shaped objects store properties in Slots, indexed by Shape's offsets;
// objects that have fallen into dictionary mode store them in Dict
// instead, in insertion order via DictOrder.
type Object struct {
	meta value.RefMeta

	Shape  *shape.Shape // nil when Dictionary is true
	Slots  []value.Value

	Dictionary bool
	Dict       map[string]value.Value
	DictOrder  []string // insertion order, since Dict's range order is not stable

	// Descriptors holds non-default property attributes (accessors,
	// non-writable/non-enumerable/non-configurable flags) keyed by name.
	// Properties absent here use the default {writable,enumerable,
	// configurable: true} data-property attributes.
	Descriptors map[string]*PropertyDescriptor

	Proto      value.Value // another *Object, or value.Null{}
	Extensible bool
	ClassName  string // for error messages / Object.prototype.toString tag
}

// NewObject creates an empty shaped object at the root shape with the
// given prototype (value.Null{} for Object.prototype-less objects).
func NewObject(proto value.Value) *Object {
	return &Object{
		Shape:      shape.Root,
		Proto:      proto,
		Extensible: true,
		ClassName:  "Object",
	}
}

func (o *Object) Kind() value.Kind  { return value.KindObject }
func (o *Object) TypeTag() string   { return "Object" }
func (o *Object) RefMeta() *value.RefMeta { return &o.meta }

func (o *Object) String() string {
	var b strings.Builder
	b.WriteByte('{')
	names := o.OwnKeys()
	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := o.Get(n)
		b.WriteString(n)
		b.WriteString(": ")
		if v != nil {
			b.WriteString(v.String())
		}
	}
	b.WriteByte('}')
	return b.String()
}

// OwnKeys returns own property names in insertion order (spec.md §3:
// "Insertion order is observable").
func (o *Object) OwnKeys() []string {
	if o.Dictionary {
		out := make([]string, len(o.DictOrder))
		copy(out, o.DictOrder)
		return out
	}
	return o.Shape.Names()
}

// Get reads an own data property, ignoring accessors and the prototype
// chain (callers needing full [[Get]] semantics, including accessor
// invocation and prototype walk, use the evaluator's getProperty path
// which calls this as its leaf step).
func (o *Object) Get(name string) (value.Value, bool) {
	if o.Dictionary {
		v, ok := o.Dict[name]
		return v, ok
	}
	off, ok := o.Shape.Offset(name)
	if !ok || off >= len(o.Slots) {
		return nil, false
	}
	return o.Slots[off], true
}

// Descriptor returns the explicit descriptor for name, if any.
func (o *Object) Descriptor(name string) (*PropertyDescriptor, bool) {
	d, ok := o.Descriptors[name]
	return d, ok
}

// SetDescriptor installs an explicit descriptor (used for accessors and
// non-default attribute flags).
func (o *Object) SetDescriptor(name string, d *PropertyDescriptor) {
	if o.Descriptors == nil {
		o.Descriptors = make(map[string]*PropertyDescriptor)
	}
	o.Descriptors[name] = d
}

// Set assigns an own data property, transitioning the shape if name is
// new (spec.md §4.D: "Assigning a new property to an object transitions
// its shape to the child produced by that property name").
func (o *Object) Set(name string, v value.Value) {
	if o.Dictionary {
		if _, exists := o.Dict[name]; !exists {
			o.DictOrder = append(o.DictOrder, name)
		}
		if o.Dict == nil {
			o.Dict = make(map[string]value.Value)
		}
		o.Dict[name] = v
		return
	}
	if off, ok := o.Shape.Offset(name); ok {
		o.Slots[off] = v
		return
	}
	o.Shape = o.Shape.Transition(name)
	o.Slots = append(o.Slots, v)
}

// Delete removes an own property. Shaped objects that delete a property
// fall back to dictionary mode (spec.md §4.D: "delete obj.prop on a
// shaped object transitions to dictionary mode if needed"), since a
// Shape can never lose a property by definition (invariant 2).
func (o *Object) Delete(name string) {
	if o.Dictionary {
		if _, ok := o.Dict[name]; !ok {
			return
		}
		delete(o.Dict, name)
		for i, n := range o.DictOrder {
			if n == name {
				o.DictOrder = append(o.DictOrder[:i], o.DictOrder[i+1:]...)
				break
			}
		}
		delete(o.Descriptors, name)
		return
	}
	if !o.Shape.Has(name) {
		return
	}
	o.convertToDictionary()
	o.Delete(name)
}

// ConvertToDictionary forces dictionary mode regardless of delete
// activity (spec.md §4.D "Dictionary-mode fallback"). Nothing in this
// module calls it; the evaluator does not detect adversarial mutation
// patterns, so dictionary mode is entered only through deletes.
func (o *Object) ConvertToDictionary() { o.convertToDictionary() }

func (o *Object) convertToDictionary() {
	if o.Dictionary {
		return
	}
	names := o.Shape.Names()
	dict := make(map[string]value.Value, len(names))
	order := make([]string, 0, len(names))
	for _, n := range names {
		if v, ok := o.Get(n); ok {
			dict[n] = v
			order = append(order, n)
		}
	}
	o.Dictionary = true
	o.Dict = dict
	o.DictOrder = order
	o.Shape = nil
	o.Slots = nil
}

// Trace yields every Value this object holds, for GC mark (spec.md
// §4.F). Descriptor accessor functions are traced too since they are
// live Function handles.
func (o *Object) Trace(yield func(value.Value)) {
	for _, n := range o.OwnKeys() {
		if v, ok := o.Get(n); ok && v != nil {
			yield(v)
		}
	}
	for _, d := range o.Descriptors {
		if d.Get != nil {
			yield(d.Get)
		}
		if d.Set != nil {
			yield(d.Set)
		}
	}
	if o.Proto != nil {
		yield(o.Proto)
	}
}
