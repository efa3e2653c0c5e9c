package vershape

import (
	"cmp"
	"errors"
	"reflect"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/broady/vershape/edm"
	"github.com/broady/vershape/shape"
)

// SchemaProvider supplies the schema of each API version.
// edm.ModelSet implements it.
type SchemaProvider interface {
	Versions() []edm.Version
	Model(v edm.Version) (*edm.Model, error)
}

// Catalog owns one Registry per API version, created and warmed on first
// use. Versions are independent: passes for different versions may run in
// parallel, while concurrent first requests for the same version share a
// single pass.
type Catalog struct {
	provider SchemaProvider
	opts     []Option

	mu         sync.RWMutex
	registries map[string]*Registry // by canonical version
	group      singleflight.Group
}

// NewCatalog returns a catalog over provider. The options apply to every
// registry the catalog creates.
func NewCatalog(provider SchemaProvider, opts ...Option) (*Catalog, error) {
	if provider == nil {
		return nil, NewError(CodeInvalidArgument, "schema provider is required")
	}
	if _, err := buildConfig(opts); err != nil {
		return nil, err
	}
	return &Catalog{
		provider:   provider,
		opts:       opts,
		registries: make(map[string]*Registry),
	}, nil
}

// Versions returns the versions the provider knows about.
func (c *Catalog) Versions() []edm.Version { return c.provider.Versions() }

// Registry returns the registry for v, creating and warming it on first
// use. "1", "1.0" and "v1.0.0" name the same registry.
func (c *Catalog) Registry(v edm.Version) (*Registry, error) {
	canon := v.Canonical()
	if canon == "" {
		return nil, Errorf(CodeUnknownVersion, "invalid api version %q", v)
	}

	c.mu.RLock()
	r, ok := c.registries[canon]
	c.mu.RUnlock()
	if ok {
		return r, nil
	}

	res, err, _ := c.group.Do(canon, func() (any, error) {
		c.mu.RLock()
		r, ok := c.registries[canon]
		c.mu.RUnlock()
		if ok {
			return r, nil
		}

		model, err := c.provider.Model(v)
		if err != nil {
			if errors.Is(err, edm.ErrUnknownVersion) {
				return nil, Errorf(CodeUnknownVersion, "unknown api version %s", v).WithDetail("version", v.String())
			}
			return nil, AsError(err)
		}
		r, err = NewRegistry(model, c.opts...)
		if err != nil {
			return nil, err
		}
		if err := r.Warm(); err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.registries[canon] = r
		c.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*Registry), nil
}

// Project projects existing onto the schema type named typeName in v.
// A nil existing type means the Go type bound to the schema type.
func (c *Catalog) Project(v edm.Version, typeName string, existing reflect.Type) (shape.Type, error) {
	r, err := c.Registry(v)
	if err != nil {
		return nil, err
	}
	return r.ProjectByName(typeName, existing)
}

// SubstituteIfNecessary substitutes candidate for its wire shape in v.
func (c *Catalog) SubstituteIfNecessary(v edm.Version, candidate shape.Type) (shape.Type, error) {
	r, err := c.Registry(v)
	if err != nil {
		return nil, err
	}
	return r.SubstituteIfNecessary(candidate)
}

// ProjectParameters returns the input shape of an operation in v.
func (c *Catalog) ProjectParameters(v edm.Version, owner, operation string, params []Parameter) (*Parameters, error) {
	r, err := c.Registry(v)
	if err != nil {
		return nil, err
	}
	return r.ProjectParameters(owner, operation, params)
}

// Resolve returns the schema type t corresponds to in v.
func (c *Catalog) Resolve(v edm.Version, t shape.Type) (*edm.StructuredType, bool, error) {
	r, err := c.Registry(v)
	if err != nil {
		return nil, false, err
	}
	st, ok := r.Resolve(t)
	return st, ok, nil
}

// Document describes every descriptor published for one version.
type Document struct {
	Version edm.Version `json:"version"`

	// Types lists each projected schema type with its descriptor, either a
	// synthesized type or a reused Go type.
	Types []DocumentEntry `json:"types"`
}

// DocumentEntry is one schema type of a Document.
type DocumentEntry struct {
	SchemaType string     `json:"schemaType"`
	Reused     bool       `json:"reused"`
	Type       shape.Type `json:"type"`
}

// Describe returns the published descriptors of v, sorted by schema type
// name.
func (c *Catalog) Describe(v edm.Version) (*Document, error) {
	r, err := c.Registry(v)
	if err != nil {
		return nil, err
	}
	return r.Describe(), nil
}

// Describe returns the registry's published descriptors, sorted by schema
// type name.
func (r *Registry) Describe() *Document {
	doc := &Document{Version: r.model.Version}
	for key, t := range r.Snapshot() {
		doc.Types = append(doc.Types, DocumentEntry{
			SchemaType: key.Name,
			Reused:     t.Kind() == shape.KindGo,
			Type:       t,
		})
	}
	slices.SortFunc(doc.Types, func(a, b DocumentEntry) int {
		return cmp.Compare(a.SchemaType, b.SchemaType)
	})
	return doc
}
