package shape

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/broady/vershape/edm"
)

// Key identifies a descriptor within the projector's caches: a schema type
// name (or type reference name) paired with an API version.
//
// Keys are comparable and compare structurally, so they can be used
// directly as map keys. Hash is only a fast pre-filter.
type Key struct {
	Name    string
	Version edm.Version
}

// NewKey returns the key for a schema type name in an API version.
func NewKey(name string, version edm.Version) Key {
	return Key{Name: name, Version: version}
}

// Hash returns a stable 64-bit hash of the key.
func (k Key) Hash() uint64 {
	d := xxhash.New()
	d.WriteString(k.Name)
	d.Write([]byte{0})
	d.WriteString(string(k.Version))
	return d.Sum64()
}

// String returns "Name@Version".
func (k Key) String() string {
	return k.Name + "@" + string(k.Version)
}

// Field is one member of a synthesized type.
type Field struct {
	// Name is the field name, taken from the Go member it was projected from.
	Name string

	// Type is the resolved field type.
	Type Type

	// Annotations are carried over from the Go member (struct tags).
	Annotations Annotations

	// Required is set for fields that must be present, such as
	// non-nullable operation parameters.
	Required bool
}

// Equal reports whether f and g are structurally identical.
func (f Field) Equal(g Field) bool {
	return f.Name == g.Name &&
		f.Required == g.Required &&
		Equal(f.Type, g.Type) &&
		f.Annotations.Equal(g.Annotations)
}

// Signature is the blueprint for a synthesized type.
//
// Equality is structural (name, version, ordered fields); Hash is only a
// pre-filter for Equal. DerivedFrom records provenance and takes no part
// in identity.
type Signature struct {
	Name        string
	Annotations Annotations
	Fields      []Field
	Version     edm.Version
	DerivedFrom Type
}

// NewSignature returns a signature for a type derived from original. The
// annotations are copied and a derived-from annotation is appended.
func NewSignature(name string, version edm.Version, original Type, annotations Annotations, fields []Field) Signature {
	a := annotations.Clone()
	if original != nil {
		a = a.With(AnnotationDerivedFrom, original.String())
	}
	return Signature{
		Name:        name,
		Annotations: a,
		Fields:      fields,
		Version:     version,
		DerivedFrom: original,
	}
}

// Hash returns a 64-bit hash over the name, version and ordered field
// names and types.
func (s *Signature) Hash() uint64 {
	d := xxhash.New()
	d.WriteString(s.Name)
	d.Write([]byte{0})
	d.WriteString(string(s.Version))
	for _, f := range s.Fields {
		d.Write([]byte{0})
		d.WriteString(f.Name)
		d.Write([]byte{':'})
		if f.Type != nil {
			d.WriteString(f.Type.String())
		}
		d.WriteString(strconv.FormatBool(f.Required))
	}
	return d.Sum64()
}

// Equal reports whether s and o describe the same type.
func (s *Signature) Equal(o *Signature) bool {
	if s.Name != o.Name || s.Version != o.Version || len(s.Fields) != len(o.Fields) {
		return false
	}
	for i := range s.Fields {
		if !s.Fields[i].Equal(o.Fields[i]) {
			return false
		}
	}
	return true
}
