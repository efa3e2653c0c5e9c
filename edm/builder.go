package edm

// Builder assembles a Model with a fluent API.
//
// Example:
//
//	b := edm.NewBuilder("Shop", edm.MustParseVersion("1.0"))
//	b.Entity("Order", "Id").
//	    Property("Id", edm.Primitive("Edm.Int32")).
//	    Property("Customer", edm.Primitive("Edm.String"))
//	model := b.Model()
type Builder struct {
	model *Model
}

// NewBuilder returns a Builder for a model in the given namespace and version.
func NewBuilder(namespace string, version Version) *Builder {
	return &Builder{model: NewModel(namespace, version)}
}

// Entity adds an entity type with the given key properties.
func (b *Builder) Entity(name string, key ...string) *TypeBuilder {
	t := &StructuredType{Name: name, Kind: KindEntity, Key: key}
	b.model.AddType(t)
	return &TypeBuilder{t: t}
}

// Complex adds a complex (keyless) type.
func (b *Builder) Complex(name string) *TypeBuilder {
	t := &StructuredType{Name: name, Kind: KindComplex}
	b.model.AddType(t)
	return &TypeBuilder{t: t}
}

// Enum adds an enum type.
func (b *Builder) Enum(name string, members ...string) *Builder {
	b.model.AddEnum(&EnumType{Name: name, Members: members})
	return b
}

// Model returns the model built so far. The builder keeps a reference to
// it, so further calls continue to modify the same model.
func (b *Builder) Model() *Model {
	return b.model
}

// TypeBuilder adds properties to one structured type.
type TypeBuilder struct {
	t *StructuredType
}

// Property adds a non-nullable property.
func (tb *TypeBuilder) Property(name string, ref TypeRef) *TypeBuilder {
	tb.t.Properties = append(tb.t.Properties, Property{Name: name, Type: ref})
	return tb
}

// NullableProperty adds a nullable property.
func (tb *TypeBuilder) NullableProperty(name string, ref TypeRef) *TypeBuilder {
	tb.t.Properties = append(tb.t.Properties, Property{Name: name, Type: ref, Nullable: true})
	return tb
}

// Base sets the base type.
func (tb *TypeBuilder) Base(name string) *TypeBuilder {
	tb.t.BaseType = name
	return tb
}

// Type returns the structured type under construction.
func (tb *TypeBuilder) Type() *StructuredType {
	return tb.t
}
