package edm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema documents are YAML (JSON is accepted too, being a YAML subset).
// One document describes one API version; a stream may hold several
// documents separated by "---".
//
//	version: "1.0"
//	namespace: Shop
//	types:
//	  - name: Order
//	    kind: entity
//	    key: [Id]
//	    properties:
//	      - {name: Id, type: Edm.Int32}
//	      - {name: Lines, type: Collection(Shop.OrderLine)}
//	enums:
//	  - {name: Status, members: [Open, Closed]}

type document struct {
	Version   string    `yaml:"version"`
	Namespace string    `yaml:"namespace"`
	Types     []typeDoc `yaml:"types"`
	Enums     []enumDoc `yaml:"enums"`
}

type typeDoc struct {
	Name       string        `yaml:"name"`
	Kind       string        `yaml:"kind"`
	Base       string        `yaml:"base"`
	Key        []string      `yaml:"key"`
	Properties []propertyDoc `yaml:"properties"`
}

type propertyDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
}

type enumDoc struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// Load reads every schema document in r and returns one model per document.
func Load(r io.Reader) ([]*Model, error) {
	dec := yaml.NewDecoder(r)
	var models []*Model
	for {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode schema document %d: %w", len(models)+1, err)
		}
		m, err := doc.model()
		if err != nil {
			return nil, fmt.Errorf("schema document %d: %w", len(models)+1, err)
		}
		models = append(models, m)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no schema documents found")
	}
	return models, nil
}

// LoadFile reads every schema document in the named file.
func LoadFile(path string) ([]*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	models, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return models, nil
}

func (d *document) model() (*Model, error) {
	v, err := ParseVersion(d.Version)
	if err != nil {
		return nil, err
	}
	m := NewModel(d.Namespace, v)

	// Enums first so that property types can be classified.
	for _, e := range d.Enums {
		if e.Name == "" {
			return nil, fmt.Errorf("enum without a name")
		}
		m.AddEnum(&EnumType{Name: e.Name, Members: e.Members})
	}

	for _, td := range d.Types {
		if td.Name == "" {
			return nil, fmt.Errorf("type without a name")
		}
		kind, err := parseKind(td.Kind)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", td.Name, err)
		}
		t := &StructuredType{
			Name:     td.Name,
			Kind:     kind,
			Key:      td.Key,
			BaseType: td.Base,
		}
		for _, pd := range td.Properties {
			ref, err := ParseTypeRef(pd.Type, func(name string) bool { return m.FindEnum(name) != nil })
			if err != nil {
				return nil, fmt.Errorf("type %s property %s: %w", td.Name, pd.Name, err)
			}
			t.Properties = append(t.Properties, Property{Name: pd.Name, Type: ref, Nullable: pd.Nullable})
		}
		m.AddType(t)
	}
	return m, nil
}

func parseKind(s string) (TypeKind, error) {
	switch strings.ToLower(s) {
	case "", "entity":
		return KindEntity, nil
	case "complex":
		return KindComplex, nil
	default:
		return 0, fmt.Errorf("unknown type kind %q", s)
	}
}

// ParseTypeRef parses a type reference in document form. Names in the
// "Edm" namespace are primitives, names for which isEnum reports true are
// enums, and anything else is a structured type reference (which
// Model.Validate reports if it does not resolve).
func ParseTypeRef(s string, isEnum func(string) bool) (TypeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeRef{}, fmt.Errorf("empty type")
	}
	if inner, ok := strings.CutPrefix(s, "Collection("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return TypeRef{}, fmt.Errorf("unterminated collection type %q", s)
		}
		elem, err := ParseTypeRef(inner, isEnum)
		if err != nil {
			return TypeRef{}, err
		}
		return CollectionOf(elem), nil
	}
	if strings.HasPrefix(s, "Edm.") {
		return Primitive(s), nil
	}
	if isEnum != nil && isEnum(s) {
		return Enum(s), nil
	}
	return Structured(s), nil
}
