package vershape

import (
	"errors"
	"log/slog"
	"maps"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/broady/vershape/edm"
	"github.com/broady/vershape/internal/members"
	"github.com/broady/vershape/shape"
)

// Registry projects Go types onto the schema of one API version and caches
// the resulting descriptors.
//
// Descriptors are produced by generation passes. A pass runs to completion
// under the registry's write lock, then publishes an immutable snapshot of
// the cache; readers consult the published snapshot without locking. The
// first pass of a registry walks every schema type bound to a Go type
// (see WithEagerWalk); later passes only project what was requested and is
// not cached yet.
type Registry struct {
	model *edm.Model
	cfg   config

	mu     sync.Mutex // serializes generation passes
	mat    *shape.Materializer
	walked bool

	published atomic.Pointer[map[shape.Key]shape.Type]

	paramsMu sync.RWMutex
	params   map[shape.Key]*Parameters
	paramMat *shape.Materializer
}

// NewRegistry returns a registry for model. Nothing is projected until the
// first request (or Warm).
func NewRegistry(model *edm.Model, opts ...Option) (*Registry, error) {
	if model == nil {
		return nil, NewError(CodeInvalidArgument, "model is required")
	}
	if model.Version.IsZero() {
		return nil, NewError(CodeInvalidArgument, "model has no api version")
	}
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	if cfg.StrictModel {
		if errs := model.Validate(); len(errs) > 0 {
			return nil, AsError(errors.Join(errs...)).WithDetail("version", model.Version.String())
		}
	}

	r := &Registry{
		model:    model,
		cfg:      cfg,
		mat:      shape.NewMaterializer(model.Version),
		params:   make(map[shape.Key]*Parameters),
		paramMat: shape.NewMaterializer(model.Version),
	}
	empty := make(map[shape.Key]shape.Type)
	r.published.Store(&empty)
	return r, nil
}

// Model returns the schema the registry projects onto.
func (r *Registry) Model() *edm.Model { return r.model }

// Version returns the registry's API version.
func (r *Registry) Version() edm.Version { return r.model.Version }

// Warm runs the first generation pass if it has not run yet.
func (r *Registry) Warm() error {
	return r.generate(nil)
}

// Lookup returns the published descriptor for key without triggering a
// generation pass.
func (r *Registry) Lookup(key shape.Key) (shape.Type, bool) {
	t, ok := (*r.published.Load())[key]
	return t, ok
}

// Snapshot returns a copy of the published cache.
func (r *Registry) Snapshot() map[shape.Key]shape.Type {
	return maps.Clone(*r.published.Load())
}

// KeyFor returns the descriptor key of a schema type in this registry's version.
func (r *Registry) KeyFor(st *edm.StructuredType) shape.Key {
	return shape.NewKey(st.FullName(), r.model.Version)
}

// Project returns the descriptor for existing under schemaType: the
// existing type itself when its members already match the schema exactly,
// otherwise a synthesized StructType holding the intersection of the
// existing type's members and the schema's properties, with nested
// structured members re-derived the same way.
//
// Results are cached per schema type; asking again returns the identical
// descriptor.
func (r *Registry) Project(schemaType *edm.StructuredType, existing reflect.Type) (shape.Type, error) {
	if schemaType == nil {
		return nil, NewError(CodeInvalidArgument, "schema type is required")
	}
	existing = members.Indirect(existing)
	if existing == nil || existing.Kind() != reflect.Struct {
		return nil, Errorf(CodeUnsupportedType, "cannot project %v onto %s: not a struct type", existing, schemaType.FullName())
	}
	key := r.KeyFor(schemaType)
	if t, ok := r.Lookup(key); ok {
		return t, nil
	}
	if err := r.generate([]request{{schemaType: schemaType, existing: existing}}); err != nil {
		return nil, err
	}
	t, ok := r.Lookup(key)
	if !ok {
		return nil, Errorf(CodeInternal, "generation pass did not produce %s", key)
	}
	return t, nil
}

// ProjectByName is like Project but looks the schema type up by name and
// defaults the existing type to the Go type bound to it.
func (r *Registry) ProjectByName(typeName string, existing reflect.Type) (shape.Type, error) {
	st := r.model.FindType(typeName)
	if st == nil {
		return nil, Errorf(CodeInvalidArgument, "unknown schema type %q in version %s", typeName, r.model.Version)
	}
	if existing == nil {
		existing = r.model.BoundType(st)
	}
	return r.Project(st, existing)
}

type request struct {
	schemaType *edm.StructuredType
	existing   reflect.Type
}

// generate runs one generation pass and publishes its result. Nothing is
// published if the pass fails.
func (r *Registry) generate(reqs []request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	eager := !r.walked && r.cfg.EagerWalk
	if !eager {
		pending := reqs[:0:0]
		for _, req := range reqs {
			if _, ok := r.Lookup(r.KeyFor(req.schemaType)); !ok {
				pending = append(pending, req)
			}
		}
		if len(pending) == 0 {
			r.walked = true
			return nil
		}
		reqs = pending
	}

	start := time.Now()
	g := newGeneration(r)

	if eager {
		for _, st := range r.model.Types() {
			bound := r.model.BoundType(st)
			if bound == nil {
				continue
			}
			if _, err := g.project(st, bound); err != nil {
				return r.passFailed(err)
			}
		}
	}
	for _, req := range reqs {
		if _, err := g.project(req.schemaType, req.existing); err != nil {
			return r.passFailed(err)
		}
	}
	if err := g.resolve(); err != nil {
		return r.passFailed(err)
	}

	r.mat = g.mat
	r.published.Store(&g.cache)
	r.walked = true

	r.cfg.logger.Debug("generation pass finished",
		slog.String("version", r.model.Version.String()),
		slog.Bool("eager", eager),
		slog.Int("synthesized", g.synthesized),
		slog.Int("reused", g.reused),
		slog.Int("deferred", g.deferred),
		slog.Int("dropped", g.dropped),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (r *Registry) passFailed(err error) error {
	r.cfg.logger.Error("generation pass failed",
		slog.String("version", r.model.Version.String()),
		slog.Any("error", err))
	return err
}
