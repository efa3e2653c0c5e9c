package vershape

import (
	"net/url"
	"reflect"
	"strings"
	"unicode"

	"github.com/gorilla/schema"

	"github.com/broady/vershape/shape"
)

// Parameter is one parameter of a callable operation.
type Parameter struct {
	// Name is the wire name of the parameter.
	Name string

	// Type is the parameter's Go type.
	Type reflect.Type

	// Nullable parameters may be omitted. All others are required.
	Nullable bool

	// Binding marks the implicit parameter an operation is bound to, such
	// as the entity set of a bound function. Binding parameters are not
	// part of the described input.
	Binding bool

	// Annotations are copied onto the parameter's field. The json and
	// schema keys are always set from Name.
	Annotations shape.Annotations
}

// Parameters is the flat input shape of one operation.
type Parameters struct {
	// Type is the descriptor of the operation's input.
	Type *shape.StructType

	goType reflect.Type
	names  []string // wire names, in field order
}

// StructOf returns a Go struct type with one field per parameter, carrying
// the field annotations as struct tags.
func (p *Parameters) StructOf() reflect.Type { return p.goType }

// New returns a pointer to a zero value of StructOf().
func (p *Parameters) New() any { return reflect.New(p.goType).Interface() }

// Names returns the wire names of the parameters in field order.
func (p *Parameters) Names() []string { return append([]string(nil), p.names...) }

var paramDecoder = schema.NewDecoder()

func init() {
	paramDecoder.IgnoreUnknownKeys(true)
}

// Decode decodes query-style values into the operation's input and
// validates it. Missing required parameters and values that fail a
// validate annotation are reported as CodeInvalidArgument with one detail
// per field.
func (p *Parameters) Decode(values url.Values) (map[string]any, error) {
	ptr := reflect.New(p.goType)
	if err := paramDecoder.Decode(ptr.Interface(), values); err != nil {
		return nil, AsError(err)
	}
	if err := validate.Struct(ptr.Interface()); err != nil {
		return nil, AsError(err)
	}
	v := ptr.Elem()
	out := make(map[string]any, len(p.names))
	for i, name := range p.names {
		if _, ok := values[name]; !ok {
			continue
		}
		out[name] = v.Field(i).Interface()
	}
	return out, nil
}

// ProjectParameters returns the flat input shape of an operation. Results
// are cached per owner and operation, separately from structural
// projections.
func (r *Registry) ProjectParameters(owner, operation string, params []Parameter) (*Parameters, error) {
	if owner == "" || operation == "" {
		return nil, NewError(CodeInvalidArgument, "owner and operation are required")
	}
	key := shape.NewKey(owner+"."+operation, r.model.Version)

	r.paramsMu.RLock()
	p, ok := r.params[key]
	r.paramsMu.RUnlock()
	if ok {
		return p, nil
	}

	r.paramsMu.Lock()
	defer r.paramsMu.Unlock()
	if p, ok := r.params[key]; ok {
		return p, nil
	}

	fields := make([]shape.Field, 0, len(params))
	goFields := make([]reflect.StructField, 0, len(params))
	names := make([]string, 0, len(params))
	seen := make(map[string]bool)
	for _, param := range params {
		if param.Binding {
			continue
		}
		if param.Type == nil {
			return nil, Errorf(CodeInvalidArgument, "parameter %q of %s has no type", param.Name, key.Name)
		}
		fieldName := exportedName(param.Name)
		if fieldName == "" || seen[fieldName] {
			return nil, Errorf(CodeInvalidArgument, "parameter %q of %s has an invalid or duplicate name", param.Name, key.Name)
		}
		seen[fieldName] = true

		schemaTag := param.Name
		if !param.Nullable {
			schemaTag += ",required"
		}
		ann := param.Annotations.With("json", param.Name).With("schema", schemaTag)
		fields = append(fields, shape.Field{
			Name:        fieldName,
			Type:        shape.Of(param.Type),
			Annotations: ann,
			Required:    !param.Nullable,
		})
		goFields = append(goFields, reflect.StructField{
			Name: fieldName,
			Type: param.Type,
			Tag:  ann.StructTag(),
		})
		names = append(names, param.Name)
	}

	sig := shape.NewSignature(key.Name, r.model.Version, nil, nil, fields)
	p = &Parameters{
		Type:   r.paramMat.Build(key, sig),
		goType: reflect.StructOf(goFields),
		names:  names,
	}
	r.params[key] = p
	return p, nil
}

// exportedName turns a wire name into an exported Go identifier, or ""
// when nothing usable remains.
func exportedName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || (unicode.IsDigit(r) && b.Len() > 0):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		default:
			upper = true
		}
	}
	return b.String()
}
