package vershape

import (
	"reflect"

	"github.com/broady/vershape/internal/members"
	"github.com/broady/vershape/shape"
)

// Wrapper is implemented by generic containers that box a single type.
// SubstituteIfNecessary peels implementers the same way it peels slices.
type Wrapper interface {
	WrappedType() (shape.WrapperKind, reflect.Type)
}

// SingleResult boxes a single value of T, typically the result of fetching
// one entity.
type SingleResult[T any] struct {
	Value T `json:"value"`
}

func (SingleResult[T]) WrappedType() (shape.WrapperKind, reflect.Type) {
	return shape.WrapSingle, reflect.TypeFor[T]()
}

// Delta is a partial update of T. Only the properties named in Changed are
// meant to be applied.
type Delta[T any] struct {
	Value   T        `json:"value"`
	Changed []string `json:"changed,omitempty"`
}

func (Delta[T]) WrappedType() (shape.WrapperKind, reflect.Type) {
	return shape.WrapDelta, reflect.TypeFor[T]()
}

// ActionResult is the outcome of an operation producing T.
type ActionResult[T any] struct {
	Status int `json:"status"`
	Value  T   `json:"value"`
}

func (ActionResult[T]) WrappedType() (shape.WrapperKind, reflect.Type) {
	return shape.WrapResult, reflect.TypeFor[T]()
}

var wrapperType = reflect.TypeFor[Wrapper]()

// SubstituteIfNecessary returns the descriptor that describes candidate's
// wire shape in this registry's version.
//
// Known wrappers are peeled first: collections (slices, arrays and
// CollectionType), and Wrapper implementers or WrapperType descriptors. The
// innermost type is resolved to its schema type and projected. Collections
// and single-value boxes are put back around the projected type; patches
// and operation results are not, so Delta[T] yields T's descriptor alone.
//
// candidate is returned unchanged when the innermost type has no schema
// counterpart or already matches the schema.
func (r *Registry) SubstituteIfNecessary(candidate shape.Type) (shape.Type, error) {
	if candidate == nil {
		return nil, NewError(CodeInvalidArgument, "candidate type is required")
	}

	var stack []shape.WrapperKind
	inner := candidate
	for {
		kind, elem, ok := peel(inner)
		if !ok {
			break
		}
		if kind >= 0 {
			stack = append(stack, kind)
		}
		inner = elem
	}

	st, ok := r.Resolve(inner)
	if !ok {
		return candidate, nil
	}
	existing := origin(inner)
	if existing == nil {
		return candidate, nil
	}
	projected, err := r.Project(st, existing)
	if err != nil {
		return nil, err
	}
	if projected == inner {
		return candidate, nil
	}

	out := projected
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Rewraps() {
			out = shape.Wrap(stack[i], out)
		}
	}
	return out, nil
}

// SubstituteType is SubstituteIfNecessary for a Go type.
func (r *Registry) SubstituteType(t reflect.Type) (shape.Type, error) {
	if t == nil {
		return nil, NewError(CodeInvalidArgument, "candidate type is required")
	}
	return r.SubstituteIfNecessary(shape.Of(t))
}

// peel removes one layer from t. kind is -1 for a pointer, which is
// stripped without being remembered.
func peel(t shape.Type) (kind shape.WrapperKind, elem shape.Type, ok bool) {
	if kind, elem, ok := shape.Unwrap(t); ok {
		return kind, elem, true
	}
	rt := shape.Reflect(t)
	if rt == nil {
		return 0, nil, false
	}
	if rt.Kind() == reflect.Pointer {
		return -1, shape.Of(rt.Elem()), true
	}
	if rt.Implements(wrapperType) {
		kind, inner := reflect.Zero(rt).Interface().(Wrapper).WrappedType()
		return kind, shape.Of(inner), true
	}
	if e, ok := members.CollectionElem(rt); ok {
		return shape.WrapCollection, shape.Of(e), true
	}
	return 0, nil, false
}
