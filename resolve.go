package vershape

import (
	"reflect"

	"github.com/broady/vershape/edm"
	"github.com/broady/vershape/internal/members"
	"github.com/broady/vershape/shape"
)

// Resolve returns the schema type that t corresponds to in this registry's
// version.
//
// A Go type resolves through its model binding, or failing that through a
// schema type with the same simple name. A synthesized type resolves
// directly when it is this registry's descriptor for a schema type;
// otherwise its derived-from chain is followed back to the type it was
// synthesized from. Collections and wrappers do not resolve; unwrap them
// first.
func (r *Registry) Resolve(t shape.Type) (*edm.StructuredType, bool) {
	for t != nil {
		switch d := t.(type) {
		case shape.GoType:
			return r.resolveGo(d.Reflect())
		case *shape.StructType:
			if cached, ok := r.Lookup(d.Key()); ok && cached == d {
				if st := r.model.FindType(d.Key().Name); st != nil {
					return st, true
				}
			}
			t = d.DerivedFrom()
		default:
			return nil, false
		}
	}
	return nil, false
}

func (r *Registry) resolveGo(t reflect.Type) (*edm.StructuredType, bool) {
	t = members.Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false
	}
	if st := r.model.TypeFor(t); st != nil {
		return st, true
	}
	if t.Name() == "" {
		return nil, false
	}
	st := r.model.FindTypeBySimpleName(t.Name())
	return st, st != nil
}

// origin follows t's derived-from chain to the Go type it started from.
func origin(t shape.Type) reflect.Type {
	for t != nil {
		switch d := t.(type) {
		case shape.GoType:
			return d.Reflect()
		case *shape.StructType:
			t = d.DerivedFrom()
		default:
			return nil
		}
	}
	return nil
}
