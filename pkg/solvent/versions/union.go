package versions

import (
	"fmt"
	"sort"
	"strings"
)

// versionUnion is two or more disjoint, non-adjacent ranges in ascending
// order. UnionOf maintains that shape; a union collapsing to fewer than two
// ranges is returned as the simpler constraint instead.
type versionUnion struct {
	ranges []versionRange
}

// UnionOf returns the constraint allowing every version allowed by at least
// one of cs.
func UnionOf(cs ...Constraint) Constraint {
	var flattened []versionRange
	for _, c := range cs {
		switch cc := c.(type) {
		case emptyConstraint:
		case anyConstraint:
			return cc
		case versionRange:
			flattened = append(flattened, cc)
		case versionUnion:
			flattened = append(flattened, cc.ranges...)
		default:
			panic(fmt.Sprintf("unknown constraint type %T", c))
		}
	}
	if len(flattened) == 0 {
		return Empty()
	}
	sort.SliceStable(flattened, func(i, j int) bool {
		return compareRanges(flattened[i], flattened[j]) < 0
	})

	var merged []versionRange
	for _, r := range flattened {
		if len(merged) == 0 {
			merged = append(merged, r)
			continue
		}
		last := merged[len(merged)-1]
		if !last.AllowsAny(r) && !areAdjacent(last, r) {
			merged = append(merged, r)
			continue
		}
		switch joined := last.Union(r).(type) {
		case versionRange:
			merged[len(merged)-1] = joined
		case anyConstraint:
			return joined
		}
	}
	if len(merged) == 1 {
		return merged[0]
	}
	return versionUnion{ranges: merged}
}

// areAdjacent reports whether r1 ends exactly where r2 begins with no
// version in between and no overlap. The caller orders r1 below r2.
func areAdjacent(r1, r2 versionRange) bool {
	if r1.max == nil || r2.min == nil || !r1.max.Equals(*r2.min) {
		return false
	}
	return r1.includeMax != r2.includeMin
}

func (u versionUnion) IsEmpty() bool { return false }
func (u versionUnion) IsAny() bool   { return false }

func (u versionUnion) Allows(v Version) bool {
	for _, r := range u.ranges {
		if r.Allows(v) {
			return true
		}
	}
	return false
}

func (u versionUnion) AllowsAll(other Constraint) bool {
	switch other.(type) {
	case emptyConstraint:
		return true
	case anyConstraint:
		// Disjoint non-adjacent ranges always leave gaps.
		return false
	}
	ours, theirs := u.ranges, constraintRanges(other)
	i, j := 0, 0
	for i < len(ours) && j < len(theirs) {
		if ours[i].AllowsAll(theirs[j]) {
			j++
		} else {
			i++
		}
	}
	return j == len(theirs)
}

func (u versionUnion) AllowsAny(other Constraint) bool {
	switch other.(type) {
	case emptyConstraint:
		return false
	case anyConstraint:
		return true
	}
	ours, theirs := u.ranges, constraintRanges(other)
	i, j := 0, 0
	for i < len(ours) && j < len(theirs) {
		if ours[i].AllowsAny(theirs[j]) {
			return true
		}
		if allowsHigher(theirs[j], ours[i]) {
			i++
		} else {
			j++
		}
	}
	return false
}

func (u versionUnion) Intersect(other Constraint) Constraint {
	switch other.(type) {
	case emptyConstraint:
		return other
	case anyConstraint:
		return u
	}
	ours, theirs := u.ranges, constraintRanges(other)
	var out []versionRange
	i, j := 0, 0
	for i < len(ours) && j < len(theirs) {
		if x, ok := ours[i].Intersect(theirs[j]).(versionRange); ok {
			out = append(out, x)
		}
		if allowsHigher(theirs[j], ours[i]) {
			i++
		} else {
			j++
		}
	}
	switch len(out) {
	case 0:
		return Empty()
	case 1:
		return out[0]
	}
	return versionUnion{ranges: out}
}

func (u versionUnion) Union(other Constraint) Constraint {
	return UnionOf(u, other)
}

func (u versionUnion) Difference(other Constraint) Constraint {
	switch other.(type) {
	case emptyConstraint:
		return u
	case anyConstraint:
		return Empty()
	}
	theirs := constraintRanges(other)

	var out []versionRange
	i, j := 0, 0
	current := u.ranges[0]
	// Once their ranges run out, nothing further needs subtracting.
	keepRest := func() {
		out = append(out, current)
		out = append(out, u.ranges[i+1:]...)
	}

walk:
	for {
		switch {
		case strictlyLower(theirs[j], current):
			j++
			if j == len(theirs) {
				keepRest()
				break walk
			}
		case strictlyHigher(theirs[j], current):
			out = append(out, current)
			i++
			if i == len(u.ranges) {
				break walk
			}
			current = u.ranges[i]
		default:
			switch d := current.Difference(theirs[j]).(type) {
			case versionUnion:
				// Their range split current in two; only the upper half
				// can still intersect later ranges of theirs.
				out = append(out, d.ranges[0])
				current = d.ranges[1]
				j++
				if j == len(theirs) {
					keepRest()
					break walk
				}
			case emptyConstraint:
				i++
				if i == len(u.ranges) {
					break walk
				}
				current = u.ranges[i]
			case versionRange:
				current = d
				if allowsHigher(d, theirs[j]) {
					j++
					if j == len(theirs) {
						keepRest()
						break walk
					}
				} else {
					out = append(out, current)
					i++
					if i == len(u.ranges) {
						break walk
					}
					current = u.ranges[i]
				}
			}
		}
	}

	switch len(out) {
	case 0:
		return Empty()
	case 1:
		return out[0]
	}
	return versionUnion{ranges: out}
}

func (u versionUnion) String() string {
	parts := make([]string, len(u.ranges))
	for i, r := range u.ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, " || ")
}

// constraintRanges decomposes a constraint into its ordered ranges. Callers
// handle the empty and full sets before calling.
func constraintRanges(c Constraint) []versionRange {
	switch cc := c.(type) {
	case versionRange:
		return []versionRange{cc}
	case versionUnion:
		return cc.ranges
	}
	panic(fmt.Sprintf("unknown constraint type %T", c))
}

// compareRanges orders ranges by lower bound, then by upper bound.
func compareRanges(a, b versionRange) int {
	if a.min == nil {
		if b.min == nil {
			return compareMaxes(a, b)
		}
		return -1
	}
	if b.min == nil {
		return 1
	}
	if cmp := a.min.Compare(*b.min); cmp != 0 {
		return cmp
	}
	if a.includeMin != b.includeMin {
		if a.includeMin {
			return -1
		}
		return 1
	}
	return compareMaxes(a, b)
}

func compareMaxes(a, b versionRange) int {
	if a.max == nil {
		if b.max == nil {
			return 0
		}
		return 1
	}
	if b.max == nil {
		return -1
	}
	if cmp := a.max.Compare(*b.max); cmp != 0 {
		return cmp
	}
	if a.includeMax != b.includeMax {
		if a.includeMax {
			return 1
		}
		return -1
	}
	return 0
}
