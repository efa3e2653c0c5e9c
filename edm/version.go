package edm

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is an API version such as "1.0" or "2".
//
// Versions are stored without the leading "v" and compared with semantic
// version ordering, so "1" sorts before "1.1" and "1.1" before "2.0".
// Two versions that compare equal but are spelled differently ("1" and
// "1.0") are distinct map keys; callers that need a canonical spelling
// should use Canonical.
type Version string

// ParseVersion parses an API version. A leading "v" is optional.
// Accepted forms are whatever golang.org/x/mod/semver accepts after the
// "v" prefix: "1", "1.2", "1.2.3" and "1.2.3-beta.1".
func ParseVersion(s string) (Version, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if v == "" {
		return "", fmt.Errorf("api version cannot be empty")
	}
	if !semver.IsValid("v" + v) {
		return "", fmt.Errorf("invalid api version %q", s)
	}
	return Version(v), nil
}

// MustParseVersion is like ParseVersion but panics on error.
// It is intended for tests and package-level variables.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as written, without a "v" prefix.
func (v Version) String() string { return string(v) }

// IsZero reports whether the version is empty.
func (v Version) IsZero() bool { return v == "" }

// Canonical returns the full major.minor.patch form, e.g. "1.0.0".
func (v Version) Canonical() string {
	return strings.TrimPrefix(semver.Canonical(v.semver()), "v")
}

// Major returns the major component, e.g. "2" for "2.1".
func (v Version) Major() string {
	return strings.TrimPrefix(semver.Major(v.semver()), "v")
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal
// to, or after o.
func (v Version) Compare(o Version) int {
	return semver.Compare(v.semver(), o.semver())
}

// semver returns v in the "v"-prefixed form golang.org/x/mod/semver
// expects. Versions that were not parsed may already carry the prefix.
func (v Version) semver() string {
	return "v" + strings.TrimPrefix(string(v), "v")
}
