package shape

import "encoding/json"

// JSON serialization support for descriptors.
// All descriptors include a "kind" field for type discrimination. Struct
// types nested inside another descriptor are written as references
// ({"kind":"ref",...}) so that cyclic descriptors serialize finitely.

// MarshalJSON implements json.Marshaler for GoType.
func (g GoType) MarshalJSON() ([]byte, error) {
	return json.Marshal(refValue(g))
}

// MarshalJSON implements json.Marshaler for StructType.
func (s *StructType) MarshalJSON() ([]byte, error) {
	fields := make([]fieldJSON, len(s.sig.Fields))
	for i, f := range s.sig.Fields {
		fields[i] = fieldJSON{
			Name:        f.Name,
			Type:        refValue(f.Type),
			Required:    f.Required,
			Annotations: f.Annotations,
		}
	}
	return json.Marshal(&struct {
		Kind        string      `json:"kind"`
		Name        string      `json:"name"`
		Version     string      `json:"version"`
		Sealed      bool        `json:"sealed"`
		Annotations Annotations `json:"annotations,omitempty"`
		Fields      []fieldJSON `json:"fields"`
	}{
		Kind:        "struct",
		Name:        s.sig.Name,
		Version:     string(s.sig.Version),
		Sealed:      s.frozen,
		Annotations: s.sig.Annotations,
		Fields:      fields,
	})
}

// MarshalJSON implements json.Marshaler for CollectionType.
func (c *CollectionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(refValue(c))
}

// MarshalJSON implements json.Marshaler for WrapperType.
func (w *WrapperType) MarshalJSON() ([]byte, error) {
	return json.Marshal(refValue(w))
}

type fieldJSON struct {
	Name        string      `json:"name"`
	Type        any         `json:"type"`
	Required    bool        `json:"required,omitempty"`
	Annotations Annotations `json:"annotations,omitempty"`
}

type refJSON struct {
	Kind    string `json:"kind"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Wrapper string `json:"wrapper,omitempty"`
	Elem    any    `json:"elem,omitempty"`
}

// refValue converts t to a JSON value that never expands a StructType.
func refValue(t Type) any {
	switch d := t.(type) {
	case nil:
		return nil
	case GoType:
		return refJSON{Kind: "go", Name: d.typ.String()}
	case *StructType:
		return refJSON{Kind: "ref", Name: d.sig.Name, Version: string(d.sig.Version)}
	case *CollectionType:
		return refJSON{Kind: "collection", Elem: refValue(d.Elem)}
	case *WrapperType:
		return refJSON{Kind: "wrapper", Wrapper: d.Wrapper.String(), Elem: refValue(d.Elem)}
	default:
		return refJSON{Kind: "unknown"}
	}
}
