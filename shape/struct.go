package shape

import (
	"slices"
	"strings"

	"github.com/broady/vershape/edm"
)

// StructType is a structured type synthesized for one API version.
//
// A StructType starts open: it is already a valid type reference and may be
// used as another field's type, but its field list can still grow. Once
// sealed it never changes again. Only a Materializer opens, extends and
// seals StructTypes.
type StructType struct {
	key    Key
	sig    Signature
	frozen bool
}

// Kind returns KindStruct.
func (s *StructType) Kind() Kind { return KindStruct }

func (*StructType) sealed() {}

// Key returns the descriptor key the type was materialized under.
func (s *StructType) Key() Key { return s.key }

// Name returns the type name.
func (s *StructType) Name() string { return s.sig.Name }

// Version returns the API version the type belongs to.
func (s *StructType) Version() edm.Version { return s.sig.Version }

// String returns "Name@Version".
func (s *StructType) String() string { return s.sig.Name + "@" + string(s.sig.Version) }

// Fields returns a copy of the field list.
func (s *StructType) Fields() []Field { return slices.Clone(s.sig.Fields) }

// NumField returns the number of fields.
func (s *StructType) NumField() int { return len(s.sig.Fields) }

// Field looks up a field by name, ignoring case.
func (s *StructType) Field(name string) (Field, bool) {
	for _, f := range s.sig.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// Annotations returns the type-level annotations, including the
// derived-from annotation.
func (s *StructType) Annotations() Annotations { return s.sig.Annotations.Clone() }

// DerivedFrom returns the type this descriptor was synthesized from.
func (s *StructType) DerivedFrom() Type { return s.sig.DerivedFrom }

// Signature returns a copy of the type's signature.
func (s *StructType) Signature() Signature {
	sig := s.sig
	sig.Fields = slices.Clone(s.sig.Fields)
	sig.Annotations = s.sig.Annotations.Clone()
	return sig
}

// IsSealed reports whether the field list is final.
func (s *StructType) IsSealed() bool { return s.frozen }

func (s *StructType) addField(f Field) {
	if s.frozen {
		panic("shape: add field " + f.Name + " to sealed type " + s.String())
	}
	s.sig.Fields = append(s.sig.Fields, f)
}
