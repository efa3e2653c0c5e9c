package shape

import (
	"maps"
	"slices"

	"github.com/broady/vershape/edm"
)

// Materializer turns signatures into StructType descriptors for one API
// version.
//
// Materialization is idempotent per key: asking again for a key that was
// already materialized returns the same *StructType. Sealed types with equal
// signatures are shared.
//
// A Materializer is not safe for concurrent use; the projector serializes
// writers and works on a Clone during a generation pass.
type Materializer struct {
	version edm.Version
	byKey   map[Key]*StructType
	bySig   map[uint64][]*StructType // sealed types by signature hash
}

// NewMaterializer returns an empty materializer for version.
func NewMaterializer(version edm.Version) *Materializer {
	return &Materializer{
		version: version,
		byKey:   make(map[Key]*StructType),
		bySig:   make(map[uint64][]*StructType),
	}
}

// Version returns the API version the materializer builds types for.
func (m *Materializer) Version() edm.Version { return m.version }

// Clone returns a materializer with the same entries. Types themselves are
// shared, not copied.
func (m *Materializer) Clone() *Materializer {
	c := &Materializer{
		version: m.version,
		byKey:   maps.Clone(m.byKey),
		bySig:   make(map[uint64][]*StructType, len(m.bySig)),
	}
	for h, ts := range m.bySig {
		c.bySig[h] = slices.Clone(ts)
	}
	return c
}

// Lookup returns the type materialized under key.
func (m *Materializer) Lookup(key Key) (*StructType, bool) {
	t, ok := m.byKey[key]
	return t, ok
}

// Open registers and returns a provisional descriptor for sig under key.
// If key was already materialized, the existing descriptor is returned and
// sig is ignored.
func (m *Materializer) Open(key Key, sig Signature) *StructType {
	if t, ok := m.byKey[key]; ok {
		return t
	}
	sig.Version = m.version
	sig.Fields = slices.Clone(sig.Fields)
	t := &StructType{key: key, sig: sig}
	m.byKey[key] = t
	return t
}

// AddField appends a field to an open descriptor. It panics if t is sealed.
func (m *Materializer) AddField(t *StructType, f Field) {
	t.addField(f)
}

// Seal finalizes t's field list. Sealing an already sealed type is a no-op.
func (m *Materializer) Seal(t *StructType) {
	if t.frozen {
		return
	}
	t.frozen = true
	h := t.sig.Hash()
	m.bySig[h] = append(m.bySig[h], t)
}

// Build returns a sealed descriptor for sig under key. If key was already
// materialized that descriptor is returned; otherwise, if a sealed type with
// an equal signature exists it is reused and recorded under key too.
func (m *Materializer) Build(key Key, sig Signature) *StructType {
	if t, ok := m.byKey[key]; ok {
		return t
	}
	sig.Version = m.version
	for _, t := range m.bySig[sig.Hash()] {
		if t.sig.Equal(&sig) {
			m.byKey[key] = t
			return t
		}
	}
	t := m.Open(key, sig)
	m.Seal(t)
	return t
}

// Unsealed returns the materialized types that are still open, in no
// particular order.
func (m *Materializer) Unsealed() []*StructType {
	var open []*StructType
	for _, t := range m.byKey {
		if !t.frozen {
			open = append(open, t)
		}
	}
	return open
}

// Len returns the number of keys materialized.
func (m *Materializer) Len() int { return len(m.byKey) }
