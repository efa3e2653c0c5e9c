package shape

import (
	"reflect"
	"testing"
)

func TestFromStructTag(t *testing.T) {
	tag := reflect.StructTag(`json:"id,omitempty" validate:"required" yaml:"ignored" db:"order_id"`)

	got := FromStructTag(tag)
	want := Annotations{
		{Key: "json", Value: "id,omitempty"},
		{Key: "validate", Value: "required"},
		{Key: "db", Value: "order_id"},
	}
	if !got.Equal(want) {
		t.Errorf("FromStructTag() = %v, want %v", got, want)
	}

	got = FromStructTag(tag, "yaml")
	if v, _ := got.Get("yaml"); v != "ignored" || len(got) != 1 {
		t.Errorf("FromStructTag(yaml) = %v, want only yaml", got)
	}
}

func TestAnnotations_With(t *testing.T) {
	a := Annotations{{Key: "json", Value: "id"}}

	b := a.With("json", "ID").With("schema", "id,required")
	if v, _ := a.Get("json"); v != "id" {
		t.Errorf("With() modified receiver: json = %q", v)
	}
	if v, _ := b.Get("json"); v != "ID" {
		t.Errorf("With() json = %q, want ID", v)
	}
	if !b.Has("schema") || len(b) != 2 {
		t.Errorf("With() = %v, want json and schema", b)
	}
}

func TestAnnotations_StructTag(t *testing.T) {
	a := Annotations{
		{Key: "json", Value: "name"},
		{Key: "bad key", Value: "x"},
		{Key: "validate", Value: `oneof=a "b"`},
	}
	got := a.StructTag()
	if v := got.Get("json"); v != "name" {
		t.Errorf("StructTag().Get(json) = %q, want name", v)
	}
	if v := got.Get("validate"); v != `oneof=a "b"` {
		t.Errorf("StructTag().Get(validate) = %q, want quoted value back", v)
	}
	if _, ok := got.Lookup("bad key"); ok {
		t.Errorf("StructTag() = %q, want invalid key skipped", got)
	}
}
