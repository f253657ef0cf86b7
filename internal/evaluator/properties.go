package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/shape"
	"github.com/cwbudde/tinyjs/internal/value"
)

// getProperty implements spec.md §3's [[Get]]: own-property lookup
// (through the shape/inline-cache fast path for plain Objects), falling
// back to a walk up the prototype chain, with accessor invocation when a
// descriptor marks the property as one. site is nil for property
// accesses that have no stable AST call site (computed-key reads),
// which always take the slow path.
func (it *Interpreter) getProperty(recv value.Value, key string, site *shape.Site) (value.Value, error) {
	switch o := recv.(type) {
	case *heap.Array:
		if key == "length" {
			return value.Number(o.Length()), nil
		}
		if idx, ok := heap.IndexFromKey(key); ok {
			if v, ok := o.Get(idx); ok {
				return v, nil
			}
			return value.Undefined{}, nil
		}
		return it.getFromObjectChain(o.Proto, key, nil)
	case *heap.Object:
		return it.getFromObjectChain(o, key, site)
	case value.String:
		if key == "length" {
			return value.Number(float64(len([]rune(o.Go())))), nil
		}
		if idx, ok := heap.IndexFromKey(key); ok {
			runes := []rune(o.Go())
			if idx >= 0 && idx < int64(len(runes)) {
				return value.NewString(string(runes[idx])), nil
			}
			return value.Undefined{}, nil
		}
		return it.getFromObjectChain(it.Proto.Object, key, nil)
	case *heap.Function:
		switch key {
		case "name":
			return value.NewString(o.Name), nil
		case "length":
			return value.Number(float64(o.ArityHint)), nil
		case "prototype":
			if o.PrototypeProperty != nil {
				return o.PrototypeProperty, nil
			}
			return value.Undefined{}, nil
		}
		// Static class members live on HomeObject (evalClass sets it to a
		// dedicated statics Object whose Proto chains to the superclass's
		// statics), so a static lookup walks that chain before falling
		// back to Function.prototype.
		if statics, ok := o.HomeObject.(*heap.Object); ok {
			if v, err := it.getFromObjectChain(statics, key, nil); err == nil {
				if _, isUndef := v.(value.Undefined); !isUndef {
					return v, nil
				}
			}
		}
		return it.getFromObjectChain(it.Proto.Function, key, nil)
	case *heap.Promise:
		return it.getFromObjectChain(o.Proto, key, nil)
	case *heap.Generator:
		return it.getFromObjectChain(o.Proto, key, nil)
	case *heap.Map:
		if key == "size" {
			return value.Number(o.Size()), nil
		}
		return it.getFromObjectChain(o.Proto, key, nil)
	case *heap.Set:
		if key == "size" {
			return value.Number(o.Size()), nil
		}
		return it.getFromObjectChain(o.Proto, key, nil)
	case *heap.ErrorObject:
		switch key {
		case "name":
			return value.NewString(string(o.ErrKind)), nil
		case "message":
			return value.NewString(o.Message), nil
		case "stack":
			return value.NewString(o.Format(nil)), nil
		}
		if o.Cause != nil && key == "cause" {
			return o.Cause, nil
		}
		if o.Extra != nil {
			if v, ok := o.Extra.Get(key); ok {
				return v, nil
			}
		}
		return it.getFromObjectChain(o.Proto, key, nil)
	case value.Undefined, value.Null, nil:
		return nil, it.throwf("TypeError", "Cannot read properties of %s (reading '%s')", recv.String(), key)
	default:
		return value.Undefined{}, nil
	}
}

// GetProperty is the exported form of getProperty for callers outside
// this package (internal/async's thenable detection, pkg/tinyjs's
// native methods) that need [[Get]] semantics without a shape call site.
func (it *Interpreter) GetProperty(recv value.Value, key string) (value.Value, error) {
	return it.getProperty(recv, key, nil)
}

// SetProperty is the exported form of setProperty, for the same callers.
func (it *Interpreter) SetProperty(recv value.Value, key string, v value.Value) error {
	return it.setProperty(recv, key, v)
}

// getFromObjectChain resolves key on start (a *heap.Object or
// value.Null{}), consulting site as a polymorphic inline cache on the
// shape of start itself and walking Proto links otherwise.
func (it *Interpreter) getFromObjectChain(start value.Value, key string, site *shape.Site) (value.Value, error) {
	cur := start
	first := true
	for {
		obj, ok := cur.(*heap.Object)
		if !ok {
			break
		}
		if first && site != nil && !obj.Dictionary {
			if off, hit := site.Lookup(obj.Shape); hit {
				return obj.Slots[off], nil
			}
		}
		if d, ok := obj.Descriptor(key); ok {
			if d.IsAccessor {
				if d.Get == nil {
					return value.Undefined{}, nil
				}
				return it.Call(d.Get, obj, nil)
			}
			return d.Value, nil
		}
		if v, ok := obj.Get(key); ok {
			if first && site != nil && !obj.Dictionary {
				if off, ok := obj.Shape.Offset(key); ok {
					site.Insert(obj.Shape, off)
				}
			}
			return v, nil
		}
		cur = obj.Proto
		first = false
	}
	return value.Undefined{}, nil
}

// setProperty implements spec.md §3's [[Set]]: shape-transitioning
// assignment on plain Objects, virtual length/index handling on Arrays,
// and accessor-setter invocation when an inherited descriptor marks the
// property as one.
func (it *Interpreter) setProperty(recv value.Value, key string, v value.Value) error {
	switch o := recv.(type) {
	case *heap.Array:
		if key == "length" {
			n, err := value.ToNumber(v)
			if err != nil {
				return it.throwf("RangeError", "Invalid array length")
			}
			o.SetLength(int64(n))
			return nil
		}
		if idx, ok := heap.IndexFromKey(key); ok {
			o.Set(idx, v)
			return nil
		}
		// Named (non-index, non-length) properties on Array values are
		// not supported: tinyjs Arrays are a dense element vector, not a
		// shaped Object, matching spec.md §3's Array/Object split.
		return nil
	case *heap.Object:
		if d, ok := it.findSetterDescriptor(o, key); ok {
			if d.Set == nil {
				return nil // non-writable accessor: silently ignored (no strict mode in scope)
			}
			_, err := it.Call(d.Set, o, []value.Value{v})
			return err
		}
		o.Set(key, v)
		return nil
	case *heap.ErrorObject:
		if o.Extra == nil {
			o.Extra = heap.NewObject(value.Null{})
		}
		o.Extra.Set(key, v)
		return nil
	case *heap.Function:
		if key == "prototype" {
			o.PrototypeProperty = v
			return nil
		}
		if statics, ok := o.HomeObject.(*heap.Object); ok {
			statics.Set(key, v)
		}
		return nil
	case value.Undefined, value.Null, nil:
		return it.throwf("TypeError", "Cannot set properties of %s (setting '%s')", recv.String(), key)
	default:
		return nil
	}
}

// findSetterDescriptor walks o's prototype chain looking for an
// inherited accessor descriptor for key; own data properties never reach
// here (Object.Set handles those directly).
func (it *Interpreter) findSetterDescriptor(o *heap.Object, key string) (*heap.PropertyDescriptor, bool) {
	if d, ok := o.Descriptor(key); ok && d.IsAccessor {
		return d, true
	}
	if _, ok := o.Get(key); ok {
		return nil, false // own data property: plain assignment
	}
	proto, ok := o.Proto.(*heap.Object)
	if !ok {
		return nil, false
	}
	return it.findSetterDescriptor(proto, key)
}
