// Package members enumerates the public members of existing Go types and
// maps them onto the properties of a schema type.
package members

import (
	"reflect"
	"strings"

	"github.com/broady/vershape/edm"
)

// Member is one exported field of a Go struct, including fields promoted
// from embedded structs.
type Member struct {
	// Name is the Go field name.
	Name string

	// Index is the field index sequence for reflect.Type.FieldByIndex.
	Index []int

	// Type is the field's Go type.
	Type reflect.Type

	// Tag is the field's struct tag.
	Tag reflect.StructTag

	// Rename is the schema property name from an `edm:"Name"` tag.
	Rename string

	// JSONName is the name from the json tag, or "" when there is none.
	JSONName string

	// Skip is set for `edm:"-"` and `json:"-"`; such members never map.
	Skip bool
}

// Members returns the exported fields of t in declaration order. Pointer
// types are dereferenced; non-struct types have no members.
//
// Embedded structs without a json name are flattened, as encoding/json
// does. An embedded field with a json name is a member in its own right.
func Members(t reflect.Type) []Member {
	t = Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var out []Member
	collect(t, nil, map[reflect.Type]bool{t: true}, &out)
	return out
}

func collect(t reflect.Type, prefix []int, seen map[reflect.Type]bool, out *[]Member) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		jsonTag := field.Tag.Get("json")
		jsonName, jsonSkip := parseJSONName(jsonTag)

		if field.Anonymous && jsonName == "" && !jsonSkip {
			embedded := Indirect(field.Type)
			if embedded.Kind() == reflect.Struct && !seen[embedded] {
				seen[embedded] = true
				collect(embedded, index, seen, out)
				delete(seen, embedded)
				continue
			}
		}

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		m := Member{
			Name:     field.Name,
			Index:    index,
			Type:     field.Type,
			Tag:      field.Tag,
			JSONName: jsonName,
			Skip:     jsonSkip,
		}
		if edmTag, ok := field.Tag.Lookup("edm"); ok {
			name, _, _ := strings.Cut(edmTag, ",")
			if name == "-" {
				m.Skip = true
			} else {
				m.Rename = name
			}
		}
		*out = append(*out, m)
	}
}

// parseJSONName returns the name part of a json tag and whether the tag
// says to skip the field.
func parseJSONName(tag string) (name string, skip bool) {
	if tag == "" {
		return "", false
	}
	name, opts, _ := strings.Cut(tag, ",")
	// "-" alone skips; "-," names a field literally "-"
	if name == "-" && opts == "" && !strings.Contains(tag, ",") {
		return "", true
	}
	return name, false
}

// Indirect strips any number of pointer levels from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// CollectionElem returns the element type of a slice or array type after
// stripping pointers. Byte slices are scalars, not collections.
func CollectionElem(t reflect.Type) (reflect.Type, bool) {
	t = Indirect(t)
	if t == nil {
		return nil, false
	}
	switch t.Kind() {
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		return t.Elem(), true
	case reflect.Array:
		return t.Elem(), true
	}
	return nil, false
}

// Pair is a member matched to a schema property.
type Pair struct {
	Member   Member
	Property edm.Property
}

// Mapping is the result of matching a Go type's members to a schema type.
type Mapping struct {
	// Pairs are the matched members, in member declaration order.
	Pairs []Pair

	// Dropped are members with no schema counterpart, members marked skip,
	// and members that lost an ambiguous match to an earlier member.
	Dropped []Member
}

// Map matches the members of t against props.
//
// A member with an `edm` rename matches only the property of that name.
// Otherwise the Go field name is tried, then the json name; both compare
// case-insensitively. When two members claim the same property, the first
// in declaration order wins and the rest are dropped.
func Map(t reflect.Type, props []edm.Property) Mapping {
	var m Mapping
	claimed := make(map[string]bool)
	for _, mem := range Members(t) {
		p, ok := match(mem, props)
		if !ok || claimed[strings.ToLower(p.Name)] {
			m.Dropped = append(m.Dropped, mem)
			continue
		}
		claimed[strings.ToLower(p.Name)] = true
		m.Pairs = append(m.Pairs, Pair{Member: mem, Property: p})
	}
	return m
}

func match(mem Member, props []edm.Property) (edm.Property, bool) {
	if mem.Skip {
		return edm.Property{}, false
	}
	if mem.Rename != "" {
		return find(props, mem.Rename)
	}
	if p, ok := find(props, mem.Name); ok {
		return p, true
	}
	if mem.JSONName != "" {
		return find(props, mem.JSONName)
	}
	return edm.Property{}, false
}

func find(props []edm.Property, name string) (edm.Property, bool) {
	for _, p := range props {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return edm.Property{}, false
}
