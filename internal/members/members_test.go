package members

import (
	"reflect"
	"testing"

	"github.com/broady/vershape/edm"
)

type Audit struct {
	CreatedBy string
	UpdatedBy string
}

type Order struct {
	Audit
	ID       int     `json:"id"`
	Customer string  `json:"customer_name"`
	Internal bool    `json:"-"`
	Total    float64 `edm:"Amount"`
	Ignored  string  `edm:"-"`
	Meta     *Audit  `json:"meta"`
	secret   string
}

func names(ms []Member) []string {
	var out []string
	for _, m := range ms {
		out = append(out, m.Name)
	}
	return out
}

func TestMembers(t *testing.T) {
	got := Members(reflect.TypeFor[*Order]())
	want := []string{"CreatedBy", "UpdatedBy", "ID", "Customer", "Internal", "Total", "Ignored", "Meta"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("Members() = %v, want %v", names(got), want)
	}

	byName := make(map[string]Member)
	for _, m := range got {
		byName[m.Name] = m
	}
	if m := byName["CreatedBy"]; !reflect.DeepEqual(m.Index, []int{0, 0}) {
		t.Errorf("CreatedBy.Index = %v, want [0 0]", m.Index)
	}
	if !byName["Internal"].Skip || !byName["Ignored"].Skip {
		t.Error("json:\"-\" and edm:\"-\" members are not marked Skip")
	}
	if got := byName["Total"].Rename; got != "Amount" {
		t.Errorf("Total.Rename = %q, want Amount", got)
	}
	if got := byName["Customer"].JSONName; got != "customer_name" {
		t.Errorf("Customer.JSONName = %q, want customer_name", got)
	}

	if got := Members(reflect.TypeFor[int]()); got != nil {
		t.Errorf("Members(int) = %v, want nil", got)
	}
}

type Node struct {
	*Node
	Value int
}

func TestMembers_RecursiveEmbedding(t *testing.T) {
	got := names(Members(reflect.TypeFor[Node]()))
	if !reflect.DeepEqual(got, []string{"Node", "Value"}) {
		t.Errorf("Members(Node) = %v, want [Node Value]", got)
	}
}

func TestMap(t *testing.T) {
	props := []edm.Property{
		{Name: "Id", Type: edm.Primitive("Edm.Int32")},
		{Name: "Customer_Name", Type: edm.Primitive("Edm.String")},
		{Name: "Amount", Type: edm.Primitive("Edm.Decimal")},
		{Name: "Internal", Type: edm.Primitive("Edm.Boolean")},
		{Name: "Ignored", Type: edm.Primitive("Edm.String")},
		{Name: "EffectiveDate", Type: edm.Primitive("Edm.DateTimeOffset")},
	}
	m := Map(reflect.TypeFor[Order](), props)

	pairs := make(map[string]string)
	for _, p := range m.Pairs {
		pairs[p.Member.Name] = p.Property.Name
	}
	want := map[string]string{
		"ID":       "Id",
		"Customer": "Customer_Name",
		"Total":    "Amount",
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Map() pairs = %v, want %v", pairs, want)
	}
	dropped := names(m.Dropped)
	wantDropped := []string{"CreatedBy", "UpdatedBy", "Internal", "Ignored", "Meta"}
	if !reflect.DeepEqual(dropped, wantDropped) {
		t.Errorf("Map() dropped = %v, want %v", dropped, wantDropped)
	}
}

func TestMap_AmbiguousFirstWins(t *testing.T) {
	type dup struct {
		Name  string
		Alias string `json:"name"`
	}
	m := Map(reflect.TypeFor[dup](), []edm.Property{{Name: "name", Type: edm.Primitive("Edm.String")}})
	if len(m.Pairs) != 1 || m.Pairs[0].Member.Name != "Name" {
		t.Errorf("Map() pairs = %v, want only Name", m.Pairs)
	}
	if len(m.Dropped) != 1 || m.Dropped[0].Name != "Alias" {
		t.Errorf("Map() dropped = %v, want Alias", names(m.Dropped))
	}
}

func TestCollectionElem(t *testing.T) {
	tests := []struct {
		t    reflect.Type
		want reflect.Type
		ok   bool
	}{
		{reflect.TypeFor[[]Order](), reflect.TypeFor[Order](), true},
		{reflect.TypeFor[*[]*Order](), reflect.TypeFor[*Order](), true},
		{reflect.TypeFor[[3]int](), reflect.TypeFor[int](), true},
		{reflect.TypeFor[[]byte](), nil, false},
		{reflect.TypeFor[string](), nil, false},
		{nil, nil, false},
	}
	for _, tt := range tests {
		got, ok := CollectionElem(tt.t)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CollectionElem(%v) = %v, %v; want %v, %v", tt.t, got, ok, tt.want, tt.ok)
		}
	}
}
