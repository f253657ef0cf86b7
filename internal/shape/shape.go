// Package shape implements the object-shape (hidden-class) transition
// tree and the per-call-site inline cache described in spec.md §4.D.
//
// Grounded on internal/interp/types/class_registry.go's registry-of-
// named-definitions pattern from the teacher, generalized from named
// class registration to anonymous structural transitions keyed purely by
// the sequence of property names added to an object.
package shape

import "sync/atomic"

var nextID uint64

func allocID() uint64 { return atomic.AddUint64(&nextID, 1) }

// Shape is an immutable node in the transition tree (spec.md §3
// ObjectShape invariant 2: "a shape never loses properties; a shape
// mutation produces a new shape via transition").
type Shape struct {
	ID        uint64
	parent    *Shape
	propName  string         // the property this shape adds over parent, "" for the root
	offset    int            // slot offset of propName, -1 for the root
	names     []string       // ordered property-name vector (includes parent's)
	offsets   map[string]int // name -> slot offset, includes parent's
	transitions map[string]*Shape
}

// Root is the shared empty-object shape every new shaped object starts
// from.
var Root = &Shape{
	ID:          allocID(),
	offset:      -1,
	offsets:     map[string]int{},
	transitions: map[string]*Shape{},
}

// NumSlots is how many slot-vector entries an object of this shape
// needs.
func (s *Shape) NumSlots() int { return len(s.names) }

// Offset returns the slot offset for name and whether this shape (or an
// ancestor) defines it.
func (s *Shape) Offset(name string) (int, bool) {
	off, ok := s.offsets[name]
	return off, ok
}

// Names returns the ordered property-name vector in insertion order,
// which is also ECMAScript's own-property enumeration order for shaped
// objects (spec.md §3 Object: "Insertion order is observable").
func (s *Shape) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Transition returns the child shape produced by adding name, creating
// it (and caching it on s) if this is the first time name was added
// after s. Two objects that add properties in the same order therefore
// converge on the same shape chain (spec.md §8 Shape transitivity).
func (s *Shape) Transition(name string) *Shape {
	if child, ok := s.transitions[name]; ok {
		return child
	}
	child := &Shape{
		ID:          allocID(),
		parent:      s,
		propName:    name,
		offset:      len(s.names),
		names:       append(append([]string{}, s.names...), name),
		offsets:     make(map[string]int, len(s.offsets)+1),
		transitions: map[string]*Shape{},
	}
	for k, v := range s.offsets {
		child.offsets[k] = v
	}
	child.offsets[name] = child.offset
	s.transitions[name] = child
	return child
}

// Has reports whether this shape (including inherited ancestors) defines
// name.
func (s *Shape) Has(name string) bool {
	_, ok := s.offsets[name]
	return ok
}
