package edm

import (
	"fmt"
	"reflect"
	"strings"
)

// Model is the schema of one API version.
//
// A Model is built once (with a Builder, Load, or the Add methods) and then
// treated as read-only; it is safe for concurrent readers once nothing
// mutates it.
type Model struct {
	Version   Version
	Namespace string

	types []*StructuredType
	enums []*EnumType

	byName   map[string]*StructuredType   // qualified name -> type (first wins)
	bySimple map[string][]*StructuredType // simple name -> types
	enumByID map[string]*EnumType         // qualified and simple name -> enum

	bindings map[reflect.Type]*StructuredType
	bound    map[*StructuredType]reflect.Type
}

// NewModel returns an empty model for the given namespace and version.
func NewModel(namespace string, version Version) *Model {
	return &Model{
		Version:   version,
		Namespace: namespace,
		byName:    make(map[string]*StructuredType),
		bySimple:  make(map[string][]*StructuredType),
		enumByID:  make(map[string]*EnumType),
		bindings:  make(map[reflect.Type]*StructuredType),
		bound:     make(map[*StructuredType]reflect.Type),
	}
}

// AddType adds a structured type. An empty namespace is replaced by the
// model's namespace. Duplicate names are kept (the first one wins lookups)
// and reported by Validate.
func (m *Model) AddType(t *StructuredType) {
	if t.Namespace == "" {
		t.Namespace = m.Namespace
	}
	m.types = append(m.types, t)
	if _, exists := m.byName[t.FullName()]; !exists {
		m.byName[t.FullName()] = t
	}
	m.bySimple[t.Name] = append(m.bySimple[t.Name], t)
}

// AddEnum adds an enum type.
func (m *Model) AddEnum(e *EnumType) {
	if e.Namespace == "" {
		e.Namespace = m.Namespace
	}
	m.enums = append(m.enums, e)
	if _, exists := m.enumByID[e.FullName()]; !exists {
		m.enumByID[e.FullName()] = e
	}
	if _, exists := m.enumByID[e.Name]; !exists {
		m.enumByID[e.Name] = e
	}
}

// Types returns the structured types in declaration order.
func (m *Model) Types() []*StructuredType {
	return m.types
}

// Enums returns the enum types in declaration order.
func (m *Model) Enums() []*EnumType {
	return m.enums
}

// FindType looks up a structured type by qualified name, or by simple
// name when exactly one type has it. Returns nil if not found.
func (m *Model) FindType(name string) *StructuredType {
	if t, ok := m.byName[name]; ok {
		return t
	}
	if t, ok := m.byName[qualify(m.Namespace, name)]; ok {
		return t
	}
	if !strings.Contains(name, ".") {
		return m.FindTypeBySimpleName(name)
	}
	return nil
}

// FindTypeBySimpleName returns the single structured type with the given
// unqualified name. Returns nil if there is none or the name is ambiguous.
func (m *Model) FindTypeBySimpleName(name string) *StructuredType {
	if ts := m.bySimple[name]; len(ts) == 1 {
		return ts[0]
	}
	return nil
}

// FindEnum looks up an enum type by qualified or simple name.
func (m *Model) FindEnum(name string) *EnumType {
	if e, ok := m.enumByID[name]; ok {
		return e
	}
	return m.enumByID[qualify(m.Namespace, name)]
}

// Bind records that Go type t is the application type for the named
// structured type. Pointer types are bound by their element type.
// A Go type can be bound to one schema type; binding it again replaces
// the earlier binding.
func (m *Model) Bind(t reflect.Type, typeName string) error {
	st := m.FindType(typeName)
	if st == nil {
		return fmt.Errorf("bind %s: %w", t, ErrTypeNotFound(typeName))
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	m.bindings[t] = st
	if _, exists := m.bound[st]; !exists {
		m.bound[st] = t
	}
	return nil
}

// TypeFor returns the structured type explicitly bound to t, or nil.
func (m *Model) TypeFor(t reflect.Type) *StructuredType {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return m.bindings[t]
}

// BoundType returns the first Go type bound to st, or nil.
func (m *Model) BoundType(st *StructuredType) reflect.Type {
	return m.bound[st]
}

// Properties returns all properties of t including inherited ones, base
// type properties first. A property redeclared in a derived type replaces
// the inherited one in place.
func (m *Model) Properties(t *StructuredType) []Property {
	var chain []*StructuredType
	seen := make(map[*StructuredType]bool)
	for cur := t; cur != nil && !seen[cur]; {
		seen[cur] = true
		chain = append(chain, cur)
		if cur.BaseType == "" {
			break
		}
		cur = m.FindType(cur.BaseType)
	}

	if len(chain) == 1 {
		return t.Properties
	}

	var props []Property
	index := make(map[string]int)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, p := range chain[i].Properties {
			if at, ok := index[p.Name]; ok {
				props[at] = p
				continue
			}
			index[p.Name] = len(props)
			props = append(props, p)
		}
	}
	return props
}
