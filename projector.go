package vershape

import (
	"log/slog"
	"maps"
	"reflect"

	"github.com/broady/vershape/edm"
	"github.com/broady/vershape/internal/members"
	"github.com/broady/vershape/shape"
)

// generation is the state of one generation pass over a version's schema.
// It works on private copies of the registry's cache and materializer;
// the visited set and the dependency queue live only as long as the pass.
type generation struct {
	model   *edm.Model
	version edm.Version
	logger  *slog.Logger
	tagKeys []string

	cache   map[shape.Key]shape.Type
	mat     *shape.Materializer
	visited map[shape.Key]bool
	pending []pendingDependency

	synthesized, reused, deferred, dropped int
}

// pendingDependency records that a field of the open type owner must point
// to the descriptor for dependsOn, which was still under construction when
// the field was reached.
type pendingDependency struct {
	owner        shape.Key
	dependsOn    shape.Key
	isCollection bool
	fieldName    string
	annotations  shape.Annotations
	required     bool

	// memberType is the Go type of the member the field comes from. When
	// dependsOn resolves to the member's own (element) type, the member
	// type is used unchanged.
	memberType reflect.Type
}

func newGeneration(r *Registry) *generation {
	return &generation{
		model:   r.model,
		version: r.model.Version,
		logger:  r.cfg.logger,
		tagKeys: r.cfg.TagKeys,
		cache:   maps.Clone(*r.published.Load()),
		mat:     r.mat.Clone(),
		visited: make(map[shape.Key]bool),
	}
}

func (g *generation) key(st *edm.StructuredType) shape.Key {
	return shape.NewKey(st.FullName(), g.version)
}

// project returns the descriptor for existing under st, building it if
// needed. existing must be a struct type (pointers already stripped).
func (g *generation) project(st *edm.StructuredType, existing reflect.Type) (shape.Type, error) {
	key := g.key(st)
	if t, ok := g.cache[key]; ok {
		return t, nil
	}

	// Mark before recursing into members; a member that leads back here
	// sees the key and defers instead of recursing forever.
	g.visited[key] = true

	mapping := members.Map(existing, g.model.Properties(st))
	exactMatch := len(mapping.Dropped) == 0
	hasOpenDependencies := false
	for _, mem := range mapping.Dropped {
		g.dropped++
		g.logger.Debug("member dropped",
			slog.String("version", g.version.String()),
			slog.String("type", st.FullName()),
			slog.String("goType", existing.String()),
			slog.String("member", mem.Name))
	}

	var fields []shape.Field
	var deps []pendingDependency

	for _, pair := range mapping.Pairs {
		mem, prop := pair.Member, pair.Property
		field := shape.Field{
			Name:        mem.Name,
			Annotations: shape.FromStructTag(mem.Tag, g.tagKeys...),
			Required:    !prop.Nullable,
		}

		switch {
		case prop.Type.IsCollection() && prop.Type.Elem.IsStructured():
			elemSchema, err := g.structured(st, prop, prop.Type.Elem.Name)
			if err != nil {
				return nil, err
			}
			elemGo, ok := members.CollectionElem(mem.Type)
			if !ok || members.Indirect(elemGo).Kind() != reflect.Struct {
				g.dropMismatch(st, mem, prop)
				exactMatch = false
				continue
			}
			elemGo = members.Indirect(elemGo)
			elemKey := g.key(elemSchema)

			elem, cached := g.cache[elemKey]
			switch {
			case cached:
			case g.visited[elemKey]:
				deps = append(deps, g.deferDependency(key, elemKey, true, field, mem.Type))
				exactMatch = false
				hasOpenDependencies = true
				continue
			default:
				// The element key is marked here, ahead of the recursive
				// call marking it again. In a mutual cycle this decides
				// which side ends up holding the pending dependency.
				g.visited[elemKey] = true
				elem, err = g.project(elemSchema, elemGo)
				if err != nil {
					return nil, err
				}
			}
			if isOpen(elem) {
				hasOpenDependencies = true
			}
			if elem == shape.Of(elemGo) {
				field.Type = shape.Of(mem.Type)
			} else {
				field.Type = shape.Collection(elem)
				exactMatch = false
			}

		case prop.Type.IsStructured():
			target, err := g.structured(st, prop, prop.Type.Name)
			if err != nil {
				return nil, err
			}
			targetGo := members.Indirect(mem.Type)
			if targetGo.Kind() != reflect.Struct {
				g.dropMismatch(st, mem, prop)
				exactMatch = false
				continue
			}
			targetKey := g.key(target)

			t, cached := g.cache[targetKey]
			switch {
			case cached:
			case g.visited[targetKey]:
				deps = append(deps, g.deferDependency(key, targetKey, false, field, mem.Type))
				exactMatch = false
				hasOpenDependencies = true
				continue
			default:
				t, err = g.project(target, targetGo)
				if err != nil {
					return nil, err
				}
			}
			if isOpen(t) {
				hasOpenDependencies = true
			}
			if t == shape.Of(targetGo) {
				field.Type = shape.Of(mem.Type)
			} else {
				field.Type = t
				exactMatch = false
			}

		default:
			if err := g.checkScalar(st, prop); err != nil {
				return nil, err
			}
			field.Type = shape.Of(mem.Type)
		}

		fields = append(fields, field)
	}

	if exactMatch {
		t := shape.Of(existing)
		g.cache[key] = t
		g.reused++
		return t, nil
	}

	sig := shape.NewSignature(st.FullName(), g.version, shape.Of(existing), typeAnnotations(existing), fields)
	if hasOpenDependencies {
		t := g.mat.Open(key, sig)
		g.cache[key] = t
		g.pending = append(g.pending, deps...)
		g.synthesized++
		return t, nil
	}

	t := g.mat.Build(key, sig)
	g.cache[key] = t
	g.synthesized++
	return t, nil
}

func (g *generation) deferDependency(owner, dependsOn shape.Key, isCollection bool, field shape.Field, memberType reflect.Type) pendingDependency {
	g.deferred++
	return pendingDependency{
		owner:        owner,
		dependsOn:    dependsOn,
		isCollection: isCollection,
		fieldName:    field.Name,
		annotations:  field.Annotations,
		required:     field.Required,
		memberType:   memberType,
	}
}

// resolve drains the dependency queue onto the open types that recorded
// them, then seals every type still open.
func (g *generation) resolve() error {
	for _, dep := range g.pending {
		owner, ok := g.cache[dep.owner].(*shape.StructType)
		if !ok || owner.IsSealed() {
			return Errorf(CodeInternal, "pending dependency %s.%s has no open owner", dep.owner, dep.fieldName)
		}
		target, ok := g.cache[dep.dependsOn]
		if !ok {
			return Errorf(CodeDanglingReference, "%s.%s depends on %s, which was never resolved",
				dep.owner.Name, dep.fieldName, dep.dependsOn.Name).
				WithDetail("type", dep.owner.Name).
				WithDetail("property", dep.fieldName).
				WithDetail("reference", dep.dependsOn.Name)
		}
		g.mat.AddField(owner, shape.Field{
			Name:        dep.fieldName,
			Type:        dependencyType(dep, target),
			Annotations: dep.annotations,
			Required:    dep.required,
		})
	}
	g.pending = nil

	for _, t := range g.mat.Unsealed() {
		g.mat.Seal(t)
	}
	return nil
}

func dependencyType(dep pendingDependency, target shape.Type) shape.Type {
	if dep.isCollection {
		if elem, ok := members.CollectionElem(dep.memberType); ok && target == shape.Of(members.Indirect(elem)) {
			return shape.Of(dep.memberType)
		}
		return shape.Collection(target)
	}
	if target == shape.Of(members.Indirect(dep.memberType)) {
		return shape.Of(dep.memberType)
	}
	return target
}

// structured resolves a structured reference made by property prop of st.
// A reference that does not resolve is a defect in the schema and fails
// the pass.
func (g *generation) structured(st *edm.StructuredType, prop edm.Property, name string) (*edm.StructuredType, error) {
	target := g.model.FindType(name)
	if target == nil {
		return nil, danglingReference(g.version, st, prop, name)
	}
	return target, nil
}

func (g *generation) checkScalar(st *edm.StructuredType, prop edm.Property) error {
	ref := prop.Type.Element()
	if ref.Kind == edm.RefEnum && g.model.FindEnum(ref.Name) == nil {
		return danglingReference(g.version, st, prop, ref.Name)
	}
	if ref.Kind == edm.RefStructured && g.model.FindType(ref.Name) == nil {
		return danglingReference(g.version, st, prop, ref.Name)
	}
	return nil
}

func (g *generation) dropMismatch(st *edm.StructuredType, mem members.Member, prop edm.Property) {
	g.dropped++
	g.logger.Debug("member dropped: go type does not fit schema property",
		slog.String("version", g.version.String()),
		slog.String("type", st.FullName()),
		slog.String("member", mem.Name),
		slog.String("goType", mem.Type.String()),
		slog.String("property", prop.Type.String()))
}

func danglingReference(v edm.Version, st *edm.StructuredType, prop edm.Property, name string) *Error {
	return Errorf(CodeDanglingReference, "%s.%s references unknown type %s in version %s",
		st.FullName(), prop.Name, name, v).
		WithDetail("type", st.FullName()).
		WithDetail("property", prop.Name).
		WithDetail("reference", name)
}

func isOpen(t shape.Type) bool {
	s, ok := t.(*shape.StructType)
	return ok && !s.IsSealed()
}

// Annotator is implemented by Go types that carry type-level annotations.
// The annotations are copied onto every type synthesized from them.
type Annotator interface {
	Annotations() shape.Annotations
}

var annotatorType = reflect.TypeFor[Annotator]()

func typeAnnotations(t reflect.Type) shape.Annotations {
	switch {
	case t.Implements(annotatorType):
		return reflect.Zero(t).Interface().(Annotator).Annotations()
	case reflect.PointerTo(t).Implements(annotatorType):
		return reflect.New(t).Interface().(Annotator).Annotations()
	}
	return nil
}
