package shape

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// AnnotationDerivedFrom is the key of the synthetic annotation every
// synthesized type carries, naming the type it was derived from.
const AnnotationDerivedFrom = "derived-from"

// DefaultTagKeys are the struct tag keys copied onto synthesized fields.
var DefaultTagKeys = []string{"json", "validate", "edm", "schema", "xml", "db"}

// Annotation is one key/value piece of metadata on a type or field.
type Annotation struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Annotations is an ordered list of annotations. Keys are unique.
type Annotations []Annotation

// FromStructTag copies the given tag keys (DefaultTagKeys when none are
// given) from a struct tag, in key order.
func FromStructTag(tag reflect.StructTag, keys ...string) Annotations {
	if len(keys) == 0 {
		keys = DefaultTagKeys
	}
	var a Annotations
	for _, k := range keys {
		if v, ok := tag.Lookup(k); ok {
			a = append(a, Annotation{Key: k, Value: v})
		}
	}
	return a
}

// Get returns the value for key.
func (a Annotations) Get(key string) (string, bool) {
	for _, an := range a {
		if an.Key == key {
			return an.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (a Annotations) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// With returns a copy of a with key set to value, replacing an existing
// entry in place or appending a new one.
func (a Annotations) With(key, value string) Annotations {
	out := a.Clone()
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Annotation{Key: key, Value: value})
}

// Clone returns a copy of a.
func (a Annotations) Clone() Annotations {
	return slices.Clone(a)
}

// Equal reports whether a and b hold the same annotations in the same order.
func (a Annotations) Equal(b Annotations) bool {
	return slices.Equal(a, b)
}

// StructTag renders the annotations as a struct tag, e.g.
// `json:"id" validate:"required"`. Keys that are not valid tag keys are
// skipped.
func (a Annotations) StructTag() reflect.StructTag {
	var sb strings.Builder
	for _, an := range a {
		if !validTagKey(an.Key) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(an.Key)
		sb.WriteByte(':')
		sb.WriteString(strconv.Quote(an.Value))
	}
	return reflect.StructTag(sb.String())
}

func validTagKey(k string) bool {
	if k == "" {
		return false
	}
	for _, r := range k {
		if r <= ' ' || r == ':' || r == '"' || r == 0x7f {
			return false
		}
	}
	return true
}
