package shape

import (
	"reflect"
	"testing"

	"github.com/broady/vershape/edm"
)

const v1 = edm.Version("1.0")

func intField(name string) Field {
	return Field{Name: name, Type: TypeFor[int]()}
}

func TestKey(t *testing.T) {
	a := NewKey("Shop.Order", "1.0")
	b := NewKey("Shop.Order", "1.0")
	c := NewKey("Shop.Order", "2.0")
	d := NewKey("Shop.Order1", ".0")

	if a != b || a.Hash() != b.Hash() {
		t.Errorf("equal keys differ: %v %v", a, b)
	}
	if a == c {
		t.Errorf("keys for different versions are equal")
	}
	if a.Hash() == d.Hash() {
		t.Errorf("Hash() does not separate name and version")
	}
	if got := a.String(); got != "Shop.Order@1.0" {
		t.Errorf("String() = %q, want Shop.Order@1.0", got)
	}
}

func TestSignature_Equal(t *testing.T) {
	orig := TypeFor[struct{ ID int }]()
	a := NewSignature("Order", v1, orig, nil, []Field{intField("ID")})
	b := NewSignature("Order", v1, nil, nil, []Field{intField("ID")})
	c := NewSignature("Order", v1, orig, nil, []Field{{Name: "ID", Type: TypeFor[int64]()}})
	d := NewSignature("Order", "2.0", orig, nil, []Field{intField("ID")})

	if !a.Equal(&b) || a.Hash() != b.Hash() {
		t.Error("signatures differing only in provenance are not equal")
	}
	if a.Equal(&c) {
		t.Error("signatures with different field types are equal")
	}
	if a.Equal(&d) {
		t.Error("signatures with different versions are equal")
	}
	if v, ok := a.Annotations.Get(AnnotationDerivedFrom); !ok || v != orig.String() {
		t.Errorf("derived-from annotation = %q, %v; want %q", v, ok, orig.String())
	}
}

func TestMaterializer_Build(t *testing.T) {
	m := NewMaterializer(v1)
	sig := NewSignature("Shop.Order", v1, nil, nil, []Field{intField("ID")})

	a := m.Build(NewKey("Shop.Order", v1), sig)
	if !a.IsSealed() {
		t.Error("Build() returned an open type")
	}
	if again := m.Build(NewKey("Shop.Order", v1), sig); again != a {
		t.Error("Build() with the same key returned a new type")
	}

	// A different key with an equal signature shares the sealed type.
	shared := m.Build(NewKey("Shop.Alias", v1), sig)
	if shared != a {
		t.Error("Build() did not reuse a type with an equal signature")
	}

	other := m.Build(NewKey("Shop.Line", v1), NewSignature("Shop.Order", v1, nil, nil, []Field{intField("Qty")}))
	if other == a {
		t.Error("Build() reused a type with a different signature")
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}

func TestMaterializer_OpenSeal(t *testing.T) {
	m := NewMaterializer(v1)
	key := NewKey("Shop.Node", v1)
	node := m.Open(key, NewSignature("Shop.Node", v1, nil, nil, []Field{intField("ID")}))

	if node.IsSealed() {
		t.Fatal("Open() returned a sealed type")
	}
	if got := m.Open(key, Signature{}); got != node {
		t.Error("Open() with the same key returned a new type")
	}
	m.AddField(node, Field{Name: "Next", Type: node})
	if got := m.Unsealed(); len(got) != 1 || got[0] != node {
		t.Errorf("Unsealed() = %v, want [node]", got)
	}

	m.Seal(node)
	if !node.IsSealed() || len(m.Unsealed()) != 0 {
		t.Error("Seal() left the type open")
	}
	next, ok := node.Field("next")
	if !ok || next.Type != Type(node) {
		t.Errorf("Field(next) = %v, %v; want self reference", next, ok)
	}

	defer func() {
		if recover() == nil {
			t.Error("AddField() on a sealed type did not panic")
		}
	}()
	m.AddField(node, intField("Late"))
}

func TestMaterializer_Clone(t *testing.T) {
	m := NewMaterializer(v1)
	a := m.Build(NewKey("A", v1), NewSignature("A", v1, nil, nil, []Field{intField("X")}))

	c := m.Clone()
	c.Build(NewKey("B", v1), NewSignature("B", v1, nil, nil, nil))
	if _, ok := m.Lookup(NewKey("B", v1)); ok {
		t.Error("Build() on a clone changed the original")
	}
	if got, _ := c.Lookup(NewKey("A", v1)); got != a {
		t.Error("clone does not share existing types")
	}
}

func TestStructType_Fields(t *testing.T) {
	m := NewMaterializer(v1)
	orig := TypeFor[struct{ ID int }]()
	st := m.Build(NewKey("A", v1), NewSignature("A", v1, orig, nil, []Field{intField("ID")}))

	fields := st.Fields()
	fields[0].Name = "changed"
	if f, _ := st.Field("ID"); f.Name != "ID" {
		t.Error("Fields() exposed the internal slice")
	}
	if st.DerivedFrom() != orig {
		t.Errorf("DerivedFrom() = %v, want %v", st.DerivedFrom(), orig)
	}
	if st.String() != "A@1.0" || st.Kind() != KindStruct || st.NumField() != 1 {
		t.Errorf("unexpected StructType %v kind=%v fields=%d", st, st.Kind(), st.NumField())
	}
}

func TestEqual(t *testing.T) {
	intT := TypeFor[int]()
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same go type", intT, Of(reflect.TypeFor[int]()), true},
		{"different go types", intT, TypeFor[string](), false},
		{"collections", Collection(intT), Collection(intT), true},
		{"collection vs single", Collection(intT), Wrap(WrapSingle, intT), false},
		{"wrappers", Wrap(WrapDelta, intT), Wrap(WrapDelta, intT), true},
		{"nil", nil, nil, true},
		{"nil vs type", nil, intT, false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Equal() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	elem := TypeFor[int]()
	if _, ok := Wrap(WrapCollection, elem).(*CollectionType); !ok {
		t.Error("Wrap(WrapCollection) is not a CollectionType")
	}
	kind, got, ok := Unwrap(Wrap(WrapResult, elem))
	if !ok || kind != WrapResult || got != elem {
		t.Errorf("Unwrap() = %v, %v, %v", kind, got, ok)
	}
	if _, _, ok := Unwrap(elem); ok {
		t.Error("Unwrap(GoType) ok = true")
	}
	if WrapDelta.Rewraps() || WrapResult.Rewraps() || !WrapSingle.Rewraps() || !WrapCollection.Rewraps() {
		t.Error("Rewraps() policy mismatch")
	}
}
