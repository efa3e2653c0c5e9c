// Package vershape projects existing Go types onto the per-version shapes
// of an evolving object schema.
//
// An API schema (an edm.Model) changes from version to version while the
// Go types application code works with stay the same. For each schema type
// and version, a Registry computes a descriptor whose fields are exactly
// the members the Go type and the schema have in common, with nested and
// collection members projected the same way:
//
//	model := edm.NewBuilder("Shop", edm.MustParseVersion("1.0")).
//		Entity("Order", "Id").
//		Property("Id", edm.Primitive("Edm.Int32")).
//		Property("Customer", edm.Primitive("Edm.String")).
//		Model()
//	_ = model.Bind(reflect.TypeFor[Order](), "Order")
//
//	reg, err := vershape.NewRegistry(model)
//	if err != nil {
//		return err
//	}
//	t, err := reg.SubstituteType(reflect.TypeFor[[]Order]())
//
// When a Go type already matches its schema type exactly, the Go type
// itself is the descriptor. Otherwise a shape.StructType is synthesized
// and cached. Schemas with cycles are supported: types that are still
// being built are referenced through pending dependencies that are
// resolved at the end of the generation pass.
//
// A Catalog serves several versions from one SchemaProvider and creates
// each version's registry on first use.
package vershape
