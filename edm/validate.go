package edm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is wrapped by lookups that fail to find a named type.
var ErrNotFound = errors.New("not found")

// ErrUnknownVersion is returned by a ModelSet asked for a version it does
// not hold.
var ErrUnknownVersion = errors.New("unknown api version")

// ErrTypeNotFound returns an ErrNotFound error naming the missing type.
func ErrTypeNotFound(name string) error {
	return fmt.Errorf("type %q: %w", name, ErrNotFound)
}

// ValidationError represents a model consistency error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the model for structural issues: duplicate type names,
// references to types that do not exist (dangling references), missing
// base types and circular inheritance.
// Returns all validation errors found (not just the first).
func (m *Model) Validate() []error {
	var errs []*ValidationError

	seen := make(map[string]bool)
	for _, t := range m.types {
		name := t.FullName()
		if seen[name] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_type",
				Message: "duplicate type name: " + name,
			})
		}
		seen[name] = true
	}
	for _, e := range m.enums {
		name := e.FullName()
		if seen[name] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_type",
				Message: "duplicate type name: " + name,
			})
		}
		seen[name] = true
	}

	for _, t := range m.types {
		if t.BaseType != "" && m.FindType(t.BaseType) == nil {
			errs = append(errs, &ValidationError{
				Code:    "missing_base_type",
				Message: "type " + t.FullName() + " derives from unknown type: " + t.BaseType,
			})
		}
		for _, p := range t.Properties {
			if err := m.validateRef(p.Type, t.FullName()+"."+p.Name); err != nil {
				errs = append(errs, err)
			}
		}
		if t.Kind == KindEntity {
			props := m.Properties(t)
			for _, k := range t.Key {
				if !hasProperty(props, k) {
					errs = append(errs, &ValidationError{
						Code:    "missing_key_property",
						Message: "entity " + t.FullName() + " key names unknown property: " + k,
					})
				}
			}
		}
	}

	errs = append(errs, m.detectCircularInheritance()...)

	var result []error
	for _, e := range errs {
		result = append(result, e)
	}
	return result
}

// DanglingReference returns the first property reference on t that does
// not resolve in the model, or nil if every reference resolves.
func (m *Model) DanglingReference(t *StructuredType) *ValidationError {
	for _, p := range m.Properties(t) {
		if err := m.validateRef(p.Type, t.FullName()+"."+p.Name); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) validateRef(r TypeRef, context string) *ValidationError {
	switch r.Kind {
	case RefCollection:
		if r.Elem == nil {
			return &ValidationError{
				Code:    "invalid_collection",
				Message: context + " is a collection without an element type",
			}
		}
		return m.validateRef(*r.Elem, context)
	case RefStructured:
		if m.FindType(r.Name) == nil {
			return &ValidationError{
				Code:    "dangling_reference",
				Message: context + " references unknown type: " + r.Name,
			}
		}
	case RefEnum:
		if m.FindEnum(r.Name) == nil {
			return &ValidationError{
				Code:    "dangling_reference",
				Message: context + " references unknown enum: " + r.Name,
			}
		}
	case RefPrimitive:
		if r.Name == "" {
			return &ValidationError{
				Code:    "invalid_primitive",
				Message: context + " has an empty primitive type name",
			}
		}
	}
	return nil
}

// detectCircularInheritance checks for cycles in BaseType chains.
func (m *Model) detectCircularInheritance() []*ValidationError {
	var errs []*ValidationError

	visited := make(map[*StructuredType]bool)
	inStack := make(map[*StructuredType]bool)

	var detect func(t *StructuredType, path []string)
	detect = func(t *StructuredType, path []string) {
		if inStack[t] {
			errs = append(errs, &ValidationError{
				Code:    "circular_inheritance",
				Message: "circular inheritance detected: " + strings.Join(append(path, t.FullName()), " -> "),
			})
			return
		}
		if visited[t] {
			return
		}
		visited[t] = true
		inStack[t] = true
		if t.BaseType != "" {
			if base := m.FindType(t.BaseType); base != nil {
				detect(base, append(path, t.FullName()))
			}
		}
		inStack[t] = false
	}

	for _, t := range m.types {
		detect(t, nil)
	}
	return errs
}

func hasProperty(props []Property, name string) bool {
	for _, p := range props {
		if p.Name == name {
			return true
		}
	}
	return false
}
