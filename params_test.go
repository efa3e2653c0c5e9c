package vershape

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/broady/vershape/shape"
	"github.com/broady/vershape/testutil"
)

func searchParams() []Parameter {
	return []Parameter{
		{Name: "bindingParameter", Type: reflect.TypeFor[[]Order](), Binding: true},
		{Name: "top", Type: reflect.TypeFor[int](), Annotations: shape.Annotations{{Key: "validate", Value: "min=1,max=100"}}},
		{Name: "customer_name", Type: reflect.TypeFor[string](), Nullable: true},
		{Name: "includeClosed", Type: reflect.TypeFor[bool](), Nullable: true},
	}
}

func TestProjectParameters(t *testing.T) {
	r := newRegistry(t, orderModel(t, "1.0", false))

	p, err := r.ProjectParameters("Shop.Orders", "Search", searchParams())
	if err != nil {
		t.Fatalf("ProjectParameters() error = %v", err)
	}
	testutil.AssertFieldNames(t, p.Type, "Top", "CustomerName", "IncludeClosed")
	if p.Type.Name() != "Shop.Orders.Search" || p.Type.Version() != "1.0" {
		t.Errorf("parameter type = %v, want Shop.Orders.Search@1.0", p.Type)
	}

	top, _ := p.Type.Field("Top")
	if !top.Required {
		t.Error("non-nullable parameter top is not required")
	}
	if v, _ := top.Annotations.Get("schema"); v != "top,required" {
		t.Errorf("top schema annotation = %q, want top,required", v)
	}
	if name, _ := p.Type.Field("CustomerName"); name.Required {
		t.Error("nullable parameter customer_name is required")
	}

	goType := p.StructOf()
	if goType.NumField() != 3 {
		t.Fatalf("StructOf() has %d fields, want 3", goType.NumField())
	}
	if tag := goType.Field(0).Tag.Get("validate"); tag != "min=1,max=100" {
		t.Errorf("StructOf() Top validate tag = %q", tag)
	}
	if tag := goType.Field(1).Tag.Get("json"); tag != "customer_name" {
		t.Errorf("StructOf() CustomerName json tag = %q", tag)
	}
	if diff := cmp.Diff([]string{"top", "customer_name", "includeClosed"}, p.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	again, err := r.ProjectParameters("Shop.Orders", "Search", nil)
	if err != nil || again != p {
		t.Errorf("second ProjectParameters() = %p, %v; want cached %p", again, err, p)
	}
	if _, ok := r.Lookup(p.Type.Key()); ok {
		t.Error("parameter type leaked into the structural cache")
	}
}

func TestParameters_Decode(t *testing.T) {
	r := newRegistry(t, orderModel(t, "1.0", false))
	p, err := r.ProjectParameters("Shop.Orders", "Search", searchParams())
	if err != nil {
		t.Fatal(err)
	}

	got, err := p.Decode(url.Values{"top": {"10"}, "customer_name": {"ada"}, "unknown": {"x"}})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := map[string]any{"top": 10, "customer_name": "ada"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name   string
		values url.Values
		field  string
	}{
		{"missing required", url.Values{"customer_name": {"ada"}}, "top"},
		{"not a number", url.Values{"top": {"ten"}}, "top"},
		{"fails validation", url.Values{"top": {"500"}}, "Top"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Decode(tt.values)
			assertCode(t, err, CodeInvalidArgument)
			if _, ok := AsError(err).Details[tt.field]; !ok {
				t.Errorf("error details = %v, want an entry for %s", AsError(err).Details, tt.field)
			}
		})
	}
}

func TestProjectParameters_Errors(t *testing.T) {
	r := newRegistry(t, orderModel(t, "1.0", false))

	tests := []struct {
		name   string
		owner  string
		params []Parameter
	}{
		{"no owner", "", nil},
		{"nil type", "Shop.Orders", []Parameter{{Name: "top"}}},
		{"unusable name", "Shop.Orders", []Parameter{{Name: "$", Type: reflect.TypeFor[int]()}}},
		{"duplicate name", "Shop.Orders", []Parameter{
			{Name: "top", Type: reflect.TypeFor[int]()},
			{Name: "Top", Type: reflect.TypeFor[int]()},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ProjectParameters(tt.owner, "Op"+tt.name, tt.params)
			assertCode(t, err, CodeInvalidArgument)
		})
	}
}

func TestExportedName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"top", "Top"},
		{"customer_name", "CustomerName"},
		{"$filter", "Filter"},
		{"2fa", "Fa"},
		{"a1", "A1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := exportedName(tt.in); got != tt.want {
			t.Errorf("exportedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
