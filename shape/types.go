// Package shape defines the type descriptors produced by the projector.
//
// A descriptor is either an existing Go type (GoType), a type synthesized
// for one API version (StructType), or an expression over those
// (CollectionType, WrapperType). Documentation and serialization layers
// consume descriptors generically through the Type interface.
package shape

import "reflect"

// Kind identifies the category of a type descriptor.
type Kind int

const (
	KindGo         Kind = iota // Existing Go type, used unchanged
	KindStruct                 // Synthesized structured type
	KindCollection             // Ordered collection of Elem
	KindWrapper                // Single-value box, patch or operation result around Elem
)

// String returns the string representation of the descriptor kind.
func (k Kind) String() string {
	switch k {
	case KindGo:
		return "Go"
	case KindStruct:
		return "Struct"
	case KindCollection:
		return "Collection"
	case KindWrapper:
		return "Wrapper"
	default:
		return "Unknown"
	}
}

// Type is the base interface for all type descriptors.
//
// Descriptors compare with ==: two GoType values for the same reflect.Type
// are equal, and a StructType is identified by its pointer.
type Type interface {
	// Kind returns the descriptor kind for type switching.
	Kind() Kind

	// String returns a human-readable description of the type.
	String() string

	// Ensure only types in this package can implement Type.
	sealed()
}

// GoType is an existing Go type used as a descriptor.
type GoType struct {
	typ reflect.Type
}

// Of returns the descriptor for an existing Go type.
// Of returns nil for a nil reflect.Type.
func Of(t reflect.Type) Type {
	if t == nil {
		return nil
	}
	return GoType{typ: t}
}

// TypeFor returns the descriptor for the Go type T.
func TypeFor[T any]() Type {
	return Of(reflect.TypeFor[T]())
}

// Kind returns KindGo.
func (g GoType) Kind() Kind { return KindGo }

// Reflect returns the underlying reflect.Type.
func (g GoType) Reflect() reflect.Type { return g.typ }

// String returns the Go type's string form, e.g. "api.Order".
func (g GoType) String() string { return g.typ.String() }

func (GoType) sealed() {}

// exprBase provides the seal for expression descriptors.
type exprBase struct{}

func (exprBase) sealed() {}

// Reflect returns the reflect.Type behind t, or nil when t is not a GoType.
func Reflect(t Type) reflect.Type {
	if g, ok := t.(GoType); ok {
		return g.typ
	}
	return nil
}
