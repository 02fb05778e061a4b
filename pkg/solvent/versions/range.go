package versions

import (
	"fmt"
	"strings"
)

// versionRange is a contiguous span of versions. At least one bound is set;
// the unbounded-both-sides shape is anyConstraint. min == max implies both
// bounds inclusive (an exact version). The zero value is the full set and is
// used only internally, as a subtraction origin.
type versionRange struct {
	min, max               *Version
	includeMin, includeMax bool
}

func (r versionRange) IsEmpty() bool { return false }
func (r versionRange) IsAny() bool   { return false }

func (r versionRange) Allows(v Version) bool {
	if r.min != nil {
		if v.LessThan(*r.min) {
			return false
		}
		if !r.includeMin && v.Equals(*r.min) {
			return false
		}
	}
	if r.max != nil {
		if v.GreaterThan(*r.max) {
			return false
		}
		if !r.includeMax && v.Equals(*r.max) {
			return false
		}
	}
	return true
}

func (r versionRange) AllowsAll(other Constraint) bool {
	switch o := other.(type) {
	case emptyConstraint:
		return true
	case anyConstraint:
		return false
	case versionRange:
		return !allowsLower(o, r) && !allowsHigher(o, r)
	case versionUnion:
		for _, sub := range o.ranges {
			if !r.AllowsAll(sub) {
				return false
			}
		}
		return true
	}
	panic(fmt.Sprintf("unknown constraint type %T", other))
}

func (r versionRange) AllowsAny(other Constraint) bool {
	switch o := other.(type) {
	case emptyConstraint:
		return false
	case anyConstraint:
		return true
	case versionRange:
		return !strictlyLower(o, r) && !strictlyHigher(o, r)
	case versionUnion:
		for _, sub := range o.ranges {
			if r.AllowsAny(sub) {
				return true
			}
		}
		return false
	}
	panic(fmt.Sprintf("unknown constraint type %T", other))
}

func (r versionRange) Intersect(other Constraint) Constraint {
	switch o := other.(type) {
	case emptyConstraint:
		return o
	case anyConstraint:
		return r
	case versionUnion:
		return o.Intersect(r)
	case versionRange:
		var (
			min, max               *Version
			includeMin, includeMax bool
		)
		if allowsLower(r, o) {
			if strictlyLower(r, o) {
				return Empty()
			}
			min, includeMin = o.min, o.includeMin
		} else {
			if strictlyLower(o, r) {
				return Empty()
			}
			min, includeMin = r.min, r.includeMin
		}
		if allowsHigher(r, o) {
			max, includeMax = o.max, o.includeMax
		} else {
			max, includeMax = r.max, r.includeMax
		}
		return NewRange(min, max, includeMin, includeMax)
	}
	panic(fmt.Sprintf("unknown constraint type %T", other))
}

func (r versionRange) Union(other Constraint) Constraint {
	switch o := other.(type) {
	case emptyConstraint:
		return r
	case anyConstraint:
		return o
	case versionUnion:
		return UnionOf(r, o)
	case versionRange:
		edgesTouch := (r.max != nil && o.min != nil && r.max.Equals(*o.min) && (r.includeMax || o.includeMin)) ||
			(r.min != nil && o.max != nil && r.min.Equals(*o.max) && (r.includeMin || o.includeMax))
		if !edgesTouch && !r.AllowsAny(o) {
			return UnionOf(r, o)
		}
		var (
			min, max               *Version
			includeMin, includeMax bool
		)
		if allowsLower(r, o) {
			min, includeMin = r.min, r.includeMin
		} else {
			min, includeMin = o.min, o.includeMin
		}
		if allowsHigher(r, o) {
			max, includeMax = r.max, r.includeMax
		} else {
			max, includeMax = o.max, o.includeMax
		}
		return NewRange(min, max, includeMin, includeMax)
	}
	panic(fmt.Sprintf("unknown constraint type %T", other))
}

func (r versionRange) Difference(other Constraint) Constraint {
	switch o := other.(type) {
	case emptyConstraint:
		return r
	case anyConstraint:
		return Empty()
	case versionRange:
		if !r.AllowsAny(o) {
			return r
		}
		var pieces []versionRange
		if allowsLower(r, o) {
			pieces = append(pieces, rangeBelow(r, o))
		}
		if allowsHigher(r, o) {
			pieces = append(pieces, rangeAbove(r, o))
		}
		switch len(pieces) {
		case 0:
			return Empty()
		case 1:
			return pieces[0]
		}
		return versionUnion{ranges: pieces}
	case versionUnion:
		var pieces []versionRange
		current := r
		for _, their := range o.ranges {
			if strictlyLower(their, current) {
				continue
			}
			if strictlyHigher(their, current) {
				break
			}
			switch d := current.Difference(their).(type) {
			case emptyConstraint:
				return d
			case versionUnion:
				pieces = append(pieces, d.ranges[0])
				current = d.ranges[1]
			case versionRange:
				current = d
			}
		}
		if len(pieces) == 0 {
			return current
		}
		return versionUnion{ranges: append(pieces, current)}
	}
	panic(fmt.Sprintf("unknown constraint type %T", other))
}

// rangeBelow is the portion of r strictly below o. The caller guarantees
// allowsLower(r, o), so the result is never empty.
func rangeBelow(r, o versionRange) versionRange {
	return NewRange(r.min, o.min, r.includeMin, !o.includeMin).(versionRange)
}

// rangeAbove is the portion of r strictly above o. The caller guarantees
// allowsHigher(r, o), so the result is never empty.
func rangeAbove(r, o versionRange) versionRange {
	return NewRange(o.max, r.max, !o.includeMax, r.includeMax).(versionRange)
}

func (r versionRange) isExact() bool {
	return r.min != nil && r.max != nil && r.min.Equals(*r.max)
}

func (r versionRange) isCaret() bool {
	return r.min != nil && r.max != nil && r.includeMin && !r.includeMax &&
		r.max.Equals(r.min.NextBreaking())
}

func (r versionRange) String() string {
	if r.isExact() {
		return r.min.String()
	}
	if r.isCaret() {
		return "^" + r.min.String()
	}
	var sb strings.Builder
	if r.min != nil {
		sb.WriteString(">")
		if r.includeMin {
			sb.WriteString("=")
		}
		sb.WriteString(r.min.String())
	}
	if r.max != nil {
		if r.min != nil {
			sb.WriteString(" ")
		}
		sb.WriteString("<")
		if r.includeMax {
			sb.WriteString("=")
		}
		sb.WriteString(r.max.String())
	}
	return sb.String()
}

// allowsLower reports whether r1 allows versions below what r2 allows.
func allowsLower(r1, r2 versionRange) bool {
	if r1.min == nil {
		return r2.min != nil
	}
	if r2.min == nil {
		return false
	}
	switch cmp := r1.min.Compare(*r2.min); {
	case cmp < 0:
		return true
	case cmp > 0:
		return false
	}
	return r1.includeMin && !r2.includeMin
}

// allowsHigher reports whether r1 allows versions above what r2 allows.
func allowsHigher(r1, r2 versionRange) bool {
	if r1.max == nil {
		return r2.max != nil
	}
	if r2.max == nil {
		return false
	}
	switch cmp := r1.max.Compare(*r2.max); {
	case cmp > 0:
		return true
	case cmp < 0:
		return false
	}
	return r1.includeMax && !r2.includeMax
}

// strictlyLower reports whether every version in r1 is below every version
// in r2.
func strictlyLower(r1, r2 versionRange) bool {
	if r1.max == nil || r2.min == nil {
		return false
	}
	switch cmp := r1.max.Compare(*r2.min); {
	case cmp < 0:
		return true
	case cmp > 0:
		return false
	}
	return !r1.includeMax || !r2.includeMin
}

func strictlyHigher(r1, r2 versionRange) bool {
	return strictlyLower(r2, r1)
}
