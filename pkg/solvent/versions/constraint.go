package versions

import "fmt"

// Constraint is a set of versions. Implementations are immutable; the set
// operations return new values and never mutate their receivers.
//
// A Constraint is one of four shapes: the full set, the empty set, a single
// contiguous range (an exact version is a range of one element), or a union
// of two or more disjoint, non-adjacent ranges kept in ascending order.
// Constructors canonicalize, so equivalent sets share a shape.
type Constraint interface {
	fmt.Stringer

	// IsEmpty reports whether the constraint allows no versions at all.
	IsEmpty() bool

	// IsAny reports whether the constraint allows every version.
	IsAny() bool

	// Allows reports whether the constraint admits the given version.
	Allows(v Version) bool

	// AllowsAll reports whether every version allowed by other is also
	// allowed by the receiver.
	AllowsAll(other Constraint) bool

	// AllowsAny reports whether the receiver and other share at least one
	// version.
	AllowsAny(other Constraint) bool

	Intersect(other Constraint) Constraint
	Union(other Constraint) Constraint

	// Difference returns the versions allowed by the receiver but not by
	// other.
	Difference(other Constraint) Constraint
}

// Any returns the constraint allowing every version.
func Any() Constraint { return anyConstraint{} }

// Empty returns the constraint allowing no versions.
func Empty() Constraint { return emptyConstraint{} }

// Exact returns the constraint allowing only the given version.
func Exact(v Version) Constraint {
	return versionRange{min: &v, max: &v, includeMin: true, includeMax: true}
}

// Caret returns the constraint for "^v": at least v, below v.NextBreaking().
func Caret(v Version) Constraint {
	next := v.NextBreaking()
	return versionRange{min: &v, max: &next, includeMin: true}
}

// NewRange returns the constraint allowing versions between min and max. A
// nil bound leaves that side unbounded. Inverted or degenerate bounds
// canonicalize to Empty, a single fully-inclusive point to an exact version
// and two nil bounds to Any.
func NewRange(min, max *Version, includeMin, includeMax bool) Constraint {
	if min == nil && max == nil {
		return Any()
	}
	if min == nil {
		includeMin = false
	}
	if max == nil {
		includeMax = false
	}
	if min != nil && max != nil {
		switch cmp := min.Compare(*max); {
		case cmp > 0:
			return Empty()
		case cmp == 0:
			if !includeMin || !includeMax {
				return Empty()
			}
		}
	}
	return versionRange{min: min, max: max, includeMin: includeMin, includeMax: includeMax}
}

type anyConstraint struct{}

func (anyConstraint) IsEmpty() bool                     { return false }
func (anyConstraint) IsAny() bool                       { return true }
func (anyConstraint) Allows(Version) bool               { return true }
func (anyConstraint) AllowsAll(Constraint) bool         { return true }
func (anyConstraint) AllowsAny(o Constraint) bool       { return !o.IsEmpty() }
func (anyConstraint) Intersect(o Constraint) Constraint { return o }
func (a anyConstraint) Union(Constraint) Constraint     { return a }

func (a anyConstraint) Difference(other Constraint) Constraint {
	switch other.(type) {
	case emptyConstraint:
		return a
	case anyConstraint:
		return Empty()
	case versionRange, versionUnion:
		// The unbounded range is the full set; subtract from it.
		return versionRange{}.Difference(other)
	}
	panic(fmt.Sprintf("unknown constraint type %T", other))
}

func (anyConstraint) String() string { return "any" }

type emptyConstraint struct{}

func (emptyConstraint) IsEmpty() bool                      { return true }
func (emptyConstraint) IsAny() bool                        { return false }
func (emptyConstraint) Allows(Version) bool                { return false }
func (emptyConstraint) AllowsAll(o Constraint) bool        { return o.IsEmpty() }
func (emptyConstraint) AllowsAny(Constraint) bool          { return false }
func (e emptyConstraint) Intersect(Constraint) Constraint  { return e }
func (emptyConstraint) Union(o Constraint) Constraint      { return o }
func (e emptyConstraint) Difference(Constraint) Constraint { return e }

func (emptyConstraint) String() string { return "<empty>" }
