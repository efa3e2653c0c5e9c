// Package edm defines the versioned entity data model consumed by the
// structural projector: structured types, their properties, enum types and
// the explicit bindings between schema types and Go types.
//
// A Model describes exactly one API version. Loading a model from a
// document (see Load) and checking it for consistency (see Model.Validate)
// are provided here so that the projector can treat models as already
// validated input.
package edm

import (
	"strings"
)

// TypeKind distinguishes entity types (which have a key) from complex types.
type TypeKind int

const (
	KindEntity TypeKind = iota
	KindComplex
)

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// RefKind identifies the category of a property's type reference.
type RefKind int

const (
	RefPrimitive  RefKind = iota // Built-in scalar, e.g. Edm.Int32
	RefEnum                      // Reference to an EnumType
	RefStructured                // Reference to a StructuredType
	RefCollection                // Collection of Elem
)

// String returns the string representation of the reference kind.
func (k RefKind) String() string {
	switch k {
	case RefPrimitive:
		return "primitive"
	case RefEnum:
		return "enum"
	case RefStructured:
		return "structured"
	case RefCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// TypeRef is the declared type of a property.
type TypeRef struct {
	Kind RefKind

	// Name is the referenced type name. Primitive names use the "Edm."
	// namespace; enum and structured names may be simple or qualified.
	// Empty for collections.
	Name string

	// Elem is the element type. Only set for RefCollection.
	Elem *TypeRef
}

// Primitive returns a reference to a primitive type such as "Edm.String".
func Primitive(name string) TypeRef {
	return TypeRef{Kind: RefPrimitive, Name: name}
}

// Enum returns a reference to an enum type.
func Enum(name string) TypeRef {
	return TypeRef{Kind: RefEnum, Name: name}
}

// Structured returns a reference to an entity or complex type.
func Structured(name string) TypeRef {
	return TypeRef{Kind: RefStructured, Name: name}
}

// CollectionOf returns a collection of elem.
func CollectionOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefCollection, Elem: &elem}
}

// IsCollection reports whether the reference is a collection.
func (r TypeRef) IsCollection() bool { return r.Kind == RefCollection && r.Elem != nil }

// IsStructured reports whether the reference is a single structured value.
func (r TypeRef) IsStructured() bool { return r.Kind == RefStructured }

// Element returns the innermost non-collection reference.
func (r TypeRef) Element() TypeRef {
	for r.IsCollection() {
		r = *r.Elem
	}
	return r
}

// String returns the reference in document form, e.g. "Collection(Shop.Line)".
func (r TypeRef) String() string {
	if r.IsCollection() {
		return "Collection(" + r.Elem.String() + ")"
	}
	return r.Name
}

// Property is a named field of a structured type.
type Property struct {
	Name     string
	Type     TypeRef
	Nullable bool
}

// StructuredType is an entity or complex type in the model.
type StructuredType struct {
	Namespace string
	Name      string
	Kind      TypeKind

	// Key lists the key property names. Only meaningful for entities.
	Key []string

	// BaseType is the name of the type this one derives from, if any.
	// Inherited properties are listed by Model.Properties.
	BaseType string

	// Properties are the declared properties, in declaration order.
	Properties []Property
}

// FullName returns the namespace-qualified name, or Name when the type has
// no namespace.
func (t *StructuredType) FullName() string {
	return qualify(t.Namespace, t.Name)
}

// Property looks up a declared property by name, ignoring case.
// Returns nil if not found.
func (t *StructuredType) Property(name string) *Property {
	for i := range t.Properties {
		if strings.EqualFold(t.Properties[i].Name, name) {
			return &t.Properties[i]
		}
	}
	return nil
}

// String returns the qualified name.
func (t *StructuredType) String() string { return t.FullName() }

// EnumType is an enumeration. The projector treats enum-typed properties
// as scalars; the type exists so references can be validated.
type EnumType struct {
	Namespace string
	Name      string
	Members   []string
}

// FullName returns the namespace-qualified name.
func (e *EnumType) FullName() string {
	return qualify(e.Namespace, e.Name)
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
