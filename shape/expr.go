package shape

// WrapperKind identifies a known one-argument container around a type.
type WrapperKind int

const (
	WrapCollection WrapperKind = iota // Ordered collection ([]T)
	WrapSingle                        // Single-value box
	WrapDelta                         // Partial-update patch
	WrapResult                        // Operation-result box
)

// String returns the string representation of the wrapper kind.
func (k WrapperKind) String() string {
	switch k {
	case WrapCollection:
		return "Collection"
	case WrapSingle:
		return "Single"
	case WrapDelta:
		return "Delta"
	case WrapResult:
		return "Result"
	default:
		return "Unknown"
	}
}

// Rewraps reports whether a substituted inner type is put back inside this
// wrapper. Collections and single-value boxes are part of the described
// shape; patches and operation results are not.
func (k WrapperKind) Rewraps() bool {
	return k == WrapCollection || k == WrapSingle
}

// CollectionType is an ordered collection of Elem.
type CollectionType struct {
	exprBase

	// Elem is the element type.
	Elem Type
}

// Kind returns KindCollection.
func (c *CollectionType) Kind() Kind { return KindCollection }

// String returns "Collection(elem)".
func (c *CollectionType) String() string { return "Collection(" + c.Elem.String() + ")" }

// Collection returns a CollectionType of elem.
func Collection(elem Type) *CollectionType {
	return &CollectionType{Elem: elem}
}

// WrapperType is a single-value box, patch or operation result around Elem.
type WrapperType struct {
	exprBase

	// Wrapper is the container kind. Never WrapCollection; collections are
	// represented by CollectionType.
	Wrapper WrapperKind

	// Elem is the wrapped type.
	Elem Type
}

// Kind returns KindWrapper.
func (w *WrapperType) Kind() Kind { return KindWrapper }

// String returns "Wrapper(elem)", e.g. "Single(api.Order)".
func (w *WrapperType) String() string { return w.Wrapper.String() + "(" + w.Elem.String() + ")" }

// Wrap returns elem inside the given wrapper. WrapCollection produces a
// CollectionType.
func Wrap(kind WrapperKind, elem Type) Type {
	if kind == WrapCollection {
		return Collection(elem)
	}
	return &WrapperType{Wrapper: kind, Elem: elem}
}

// Unwrap returns the wrapper kind and element of a CollectionType or
// WrapperType. ok is false for any other descriptor.
func Unwrap(t Type) (kind WrapperKind, elem Type, ok bool) {
	switch d := t.(type) {
	case *CollectionType:
		return WrapCollection, d.Elem, true
	case *WrapperType:
		return d.Wrapper, d.Elem, true
	}
	return 0, nil, false
}

// Equal reports whether a and b describe the same type. Struct and Go
// descriptors compare by identity; collections and wrappers compare their
// element types.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	ka, ea, oka := Unwrap(a)
	kb, eb, okb := Unwrap(b)
	if !oka || !okb || ka != kb {
		return false
	}
	return Equal(ea, eb)
}
