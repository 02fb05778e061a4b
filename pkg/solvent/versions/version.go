// Package versions provides the version and version-set algebra the solver's
// conflict reporting is built on. A Constraint is a possibly-empty set of
// semantic versions closed under intersection, union and difference; the
// textual forms produced here appear verbatim inside rendered explanations.
package versions

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is a single semantic version.
type Version struct {
	sv *semver.Version
}

// ParseVersion parses a semantic version such as "1.2.3". Partial versions
// are zero-filled, so "1.2" parses as 1.2.0.
func ParseVersion(text string) (Version, error) {
	sv, err := semver.NewVersion(text)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", text, err)
	}
	return Version{sv: sv}, nil
}

// MustParseVersion is ParseVersion for trusted input. It panics on error.
func MustParseVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 as v sorts below, equal to or above other.
// Pre-release versions sort below their release as usual.
func (v Version) Compare(other Version) int {
	return v.sv.Compare(other.sv)
}

func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

func (v Version) Equals(other Version) bool {
	return v.Compare(other) == 0
}

// NextBreaking returns the lowest version considered incompatible with v
// under caret semantics: the next major release, or the next minor release
// while the major component is still zero.
func (v Version) NextBreaking() Version {
	if v.sv.Major() == 0 {
		return Version{sv: semver.New(0, v.sv.Minor()+1, 0, "", "")}
	}
	return Version{sv: semver.New(v.sv.Major()+1, 0, 0, "", "")}
}

func (v Version) nextMinor() Version {
	return Version{sv: semver.New(v.sv.Major(), v.sv.Minor()+1, 0, "", "")}
}

func (v Version) String() string {
	return v.sv.String()
}
