package vershape

import (
	"reflect"
	"testing"
	"time"

	"github.com/broady/vershape/edm"
)

// Application types shared by the tests. They never change between API
// versions; only the schema does.

type Order struct {
	ID           int
	Customer     string
	InternalFlag bool
}

type Customer struct {
	ID      int
	Name    string
	Address Address
	Tags    []string
}

type Address struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city"`
	Geo    string `json:"-"`
}

type Contact struct {
	ID   int
	Name string
}

type Node struct {
	ID   int
	Next *Node
}

type Basket struct {
	ID    int
	Items []Item
}

type Item struct {
	Sku   string
	Owner *Basket
}

type Shipment struct {
	ID       int
	Contacts []Contact
	Sent     time.Time
}

func orderModel(t *testing.T, version string, effectiveDate bool) *edm.Model {
	t.Helper()
	b := edm.NewBuilder("Shop", edm.MustParseVersion(version))
	order := b.Entity("Order", "Id").
		Property("Id", edm.Primitive("Edm.Int32")).
		Property("Customer", edm.Primitive("Edm.String"))
	if effectiveDate {
		order.Property("EffectiveDate", edm.Primitive("Edm.DateTimeOffset"))
	}
	m := b.Model()
	bind(t, m, reflect.TypeFor[Order](), "Order")
	return m
}

func shopModel(t *testing.T) *edm.Model {
	t.Helper()
	b := edm.NewBuilder("Shop", edm.MustParseVersion("1.0"))
	b.Entity("Contact", "Id").
		Property("Id", edm.Primitive("Edm.Int32")).
		Property("Name", edm.Primitive("Edm.String"))
	b.Complex("Address").
		Property("Street", edm.Primitive("Edm.String")).
		NullableProperty("City", edm.Primitive("Edm.String"))
	b.Entity("Customer", "Id").
		Property("Id", edm.Primitive("Edm.Int32")).
		Property("Name", edm.Primitive("Edm.String")).
		Property("Address", edm.Structured("Address")).
		Property("Tags", edm.CollectionOf(edm.Primitive("Edm.String")))
	b.Entity("Shipment", "Id").
		Property("Id", edm.Primitive("Edm.Int32")).
		Property("Contacts", edm.CollectionOf(edm.Structured("Contact"))).
		Property("Sent", edm.Primitive("Edm.DateTimeOffset"))
	b.Entity("Node", "Id").
		Property("Id", edm.Primitive("Edm.Int32")).
		NullableProperty("Next", edm.Structured("Node"))
	b.Entity("Basket", "Id").
		Property("Id", edm.Primitive("Edm.Int32")).
		Property("Items", edm.CollectionOf(edm.Structured("Item")))
	b.Complex("Item").
		Property("Sku", edm.Primitive("Edm.String")).
		Property("Owner", edm.Structured("Basket"))
	m := b.Model()

	bind(t, m, reflect.TypeFor[Contact](), "Contact")
	bind(t, m, reflect.TypeFor[Address](), "Address")
	bind(t, m, reflect.TypeFor[Customer](), "Customer")
	bind(t, m, reflect.TypeFor[Shipment](), "Shipment")
	bind(t, m, reflect.TypeFor[Node](), "Node")
	bind(t, m, reflect.TypeFor[Basket](), "Basket")
	bind(t, m, reflect.TypeFor[Item](), "Item")
	return m
}

func bind(t *testing.T, m *edm.Model, typ reflect.Type, name string) {
	t.Helper()
	if err := m.Bind(typ, name); err != nil {
		t.Fatalf("Bind(%v, %s) error = %v", typ, name, err)
	}
}

func newRegistry(t *testing.T, m *edm.Model, opts ...Option) *Registry {
	t.Helper()
	r, err := NewRegistry(m, opts...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func assertCode(t *testing.T, err error, want ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := CodeOf(err); got != want {
		t.Errorf("error code = %s, want %s (%v)", got, want, err)
	}
}
