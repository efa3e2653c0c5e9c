package edm

import (
	"fmt"
	"slices"
)

// ModelSet holds the models of several API versions.
type ModelSet struct {
	models []*Model // sorted by version
}

// NewModelSet returns a set of the given models. Two models with versions
// that compare equal are rejected.
func NewModelSet(models ...*Model) (*ModelSet, error) {
	sorted := slices.Clone(models)
	slices.SortStableFunc(sorted, func(a, b *Model) int {
		return a.Version.Compare(b.Version)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Version.Compare(sorted[i].Version) == 0 {
			return nil, fmt.Errorf("duplicate model for api version %s", sorted[i].Version)
		}
	}
	return &ModelSet{models: sorted}, nil
}

// Versions returns the versions held by the set in ascending order.
func (s *ModelSet) Versions() []Version {
	versions := make([]Version, len(s.models))
	for i, m := range s.models {
		versions[i] = m.Version
	}
	return versions
}

// Model returns the model for version v. Versions are matched by
// comparison, so "1" finds a model declared as "1.0".
func (s *ModelSet) Model(v Version) (*Model, error) {
	for _, m := range s.models {
		if m.Version.Compare(v) == 0 {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, v)
}

// Latest returns the model with the highest version, or nil for an empty set.
func (s *ModelSet) Latest() *Model {
	if len(s.models) == 0 {
		return nil
	}
	return s.models[len(s.models)-1]
}
