package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// evalClass builds a class's constructor Function and prototype object
// (spec.md §4.G). Instance methods/accessors install onto the
// constructor's PrototypeProperty; static members install onto a
// dedicated "statics" Object stashed as the constructor's HomeObject —
// getProperty's *heap.Function case consults it for any key besides the
// fixed name/length/prototype triad, and `super` inside a static method
// resolves through its Proto chain, giving static inheritance across
// `extends` the same way instance inheritance works.
func (it *Interpreter) evalClass(ctx *execCtx, body *ast.ClassBody) (*heap.Function, error) {
	var superCtor *heap.Function
	var superProto value.Value
	if body.SuperClass != nil {
		sv, err := it.evalExpr(ctx, body.SuperClass)
		if err != nil {
			return nil, err
		}
		sf, ok := sv.(*heap.Function)
		if !ok {
			return nil, it.throwf(errstack.TypeError, "Class extends value is not a constructor")
		}
		superCtor = sf
		superProto = sf.PrototypeProperty
	}

	protoParent := it.Proto.Object
	if superProto != nil {
		protoParent = superProto
	}
	proto := heap.NewObject(protoParent)
	if err := it.registerHeap(proto); err != nil {
		return nil, err
	}

	staticsParent := value.Value(value.Null{})
	if superCtor != nil {
		if sh, ok := superCtor.HomeObject.(*heap.Object); ok {
			staticsParent = sh
		}
	}
	statics := heap.NewObject(staticsParent)
	if err := it.registerHeap(statics); err != nil {
		return nil, err
	}

	name := ""
	if body.Name != nil {
		name = body.Name.Name
	}

	var ctorNode *ast.FunctionExpression
	for _, m := range body.Members {
		if !m.Static && m.Kind == ast.PropertyMethod {
			if id, ok := m.Key.(*ast.Identifier); ok && id.Name == "constructor" {
				ctorNode = m.Value
			}
		}
	}

	classEnv := ctx.env.NewChild()
	ctorCtx := ctx.withEnv(classEnv)

	var ctor *heap.Function
	if ctorNode != nil {
		f, err := it.makeFunction(ctorCtx, ctorNode, name)
		if err != nil {
			return nil, err
		}
		ctor = f
	} else {
		// Implicit constructor: forwards all args to super() when a base
		// class exists (spec.md §4.G default constructor behavior).
		ctor = heap.NewNative(name, 0, func(cc *heap.CallContext) (value.Value, error) {
			if superCtor != nil {
				return it.callFunction(superCtor, cc.This, cc.Args, cc.NewTarget, false)
			}
			return value.Undefined{}, nil
		})
		if err := it.registerHeap(ctor); err != nil {
			return nil, err
		}
	}
	ctor.Name = name
	ctor.IsConstructor = true
	ctor.PrototypeProperty = proto
	ctor.Proto = it.Proto.Function
	ctor.HomeObject = statics
	ctor.SuperCtor = superCtor
	proto.Set("constructor", ctor)

	for _, m := range body.Members {
		if m.Kind == ast.PropertyMethod && !m.Static {
			if id, ok := m.Key.(*ast.Identifier); ok && id.Name == "constructor" {
				continue
			}
		}
		key, err := it.memberKey(ctorCtx, m.Key, m.Computed)
		if err != nil {
			return nil, err
		}
		target := proto
		if m.Static {
			target = statics
		}
		switch m.Kind {
		case ast.PropertyMethod:
			fn, err := it.makeFunction(ctorCtx, m.Value, key)
			if err != nil {
				return nil, err
			}
			fn.HomeObject = target
			target.Set(key, fn)
		case ast.PropertyGet, ast.PropertySet:
			fn, err := it.makeFunction(ctorCtx, m.Value, key)
			if err != nil {
				return nil, err
			}
			fn.HomeObject = target
			d, _ := target.Descriptor(key)
			if d == nil {
				d = &heap.PropertyDescriptor{IsAccessor: true, Enumerable: true, Configurable: true}
			}
			if m.Kind == ast.PropertyGet {
				d.Get = fn
			} else {
				d.Set = fn
			}
			target.SetDescriptor(key, d)
		default: // field
			if m.Static {
				// Static fields initialize once, immediately, against the
				// class itself (no `this` instance exists yet).
				v := value.Value(value.Undefined{})
				if m.Field != nil {
					fv, err := it.evalExpr(ctorCtx, m.Field)
					if err != nil {
						return nil, err
					}
					v = fv
				}
				statics.Set(key, v)
			} else {
				// Instance fields initialize per-construction, against
				// `this` bound to the new instance (see Construct), so
				// only the initializer expression is recorded here.
				ctor.InstanceFields = append(ctor.InstanceFields, heap.InstanceField{Key: key, Init: m.Field})
			}
		}
	}

	return ctor, nil
}
