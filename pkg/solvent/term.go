package solvent

import (
	"fmt"

	"github.com/go-solvent/solvent/pkg/solvent/versions"
)

// Term is a signed assertion about one package: positive terms assert that
// a version in the package's constraint is selected, negative terms assert
// that none is. Terms are immutable.
type Term struct {
	positive bool
	pkg      Package
}

// NewTerm builds a term over the given package. A nil constraint means the
// package is unconstrained.
func NewTerm(positive bool, pkg Package) Term {
	if pkg.Constraint == nil {
		pkg.Constraint = versions.Any()
	}
	return Term{positive: positive, pkg: pkg}
}

func (t Term) IsPositive() bool { return t.positive }

func (t Term) Package() Package { return t.pkg }

func (t Term) Constraint() versions.Constraint { return t.pkg.Constraint }

// Inverse returns the term with its polarity flipped.
func (t Term) Inverse() Term {
	return Term{positive: !t.positive, pkg: t.pkg}
}

// Relation describes how the set of assignments satisfying one term relates
// to another term's.
type Relation int

const (
	// RelationSubset means every assignment satisfying the receiver also
	// satisfies the other term.
	RelationSubset Relation = iota
	// RelationDisjoint means no assignment satisfies both terms.
	RelationDisjoint
	// RelationOverlapping means some but not all satisfying assignments are
	// shared.
	RelationOverlapping
)

// Relation computes how t relates to other, which must be a term for a
// package of the same name.
func (t Term) Relation(other Term) Relation {
	if t.pkg.Ref.Name != other.pkg.Ref.Name {
		panic(fmt.Sprintf("relating terms for different packages %q and %q", t.pkg.Ref.Name, other.pkg.Ref.Name))
	}
	if other.positive {
		if t.positive {
			if !t.compatiblePackage(other.pkg.Ref) {
				return RelationDisjoint
			}
			if other.Constraint().AllowsAll(t.Constraint()) {
				return RelationSubset
			}
			if !other.Constraint().AllowsAny(t.Constraint()) {
				return RelationDisjoint
			}
			return RelationOverlapping
		}
		if !t.compatiblePackage(other.pkg.Ref) {
			return RelationOverlapping
		}
		if t.Constraint().AllowsAll(other.Constraint()) {
			return RelationDisjoint
		}
		return RelationOverlapping
	}
	if t.positive {
		if !t.compatiblePackage(other.pkg.Ref) {
			return RelationSubset
		}
		if !other.Constraint().AllowsAny(t.Constraint()) {
			return RelationSubset
		}
		if other.Constraint().AllowsAll(t.Constraint()) {
			return RelationDisjoint
		}
		return RelationOverlapping
	}
	if !t.compatiblePackage(other.pkg.Ref) {
		return RelationOverlapping
	}
	if t.Constraint().AllowsAll(other.Constraint()) {
		return RelationSubset
	}
	return RelationOverlapping
}

// Satisfies reports whether every assignment satisfying t also satisfies
// other.
func (t Term) Satisfies(other Term) bool {
	return t.pkg.Ref.Name == other.pkg.Ref.Name && t.Relation(other) == RelationSubset
}

// Intersect returns the strongest term implied by both t and other, which
// must be a term for a package of the same name. The second result is false
// when the two terms cannot be combined.
func (t Term) Intersect(other Term) (Term, bool) {
	if t.pkg.Ref.Name != other.pkg.Ref.Name {
		panic(fmt.Sprintf("intersecting terms for different packages %q and %q", t.pkg.Ref.Name, other.pkg.Ref.Name))
	}
	if t.compatiblePackage(other.pkg.Ref) {
		switch {
		case t.positive != other.positive:
			pos, neg := t, other
			if !t.positive {
				pos, neg = other, t
			}
			return t.nonEmpty(pos.Constraint().Difference(neg.Constraint()), true)
		case t.positive:
			return t.nonEmpty(t.Constraint().Intersect(other.Constraint()), true)
		default:
			return t.nonEmpty(t.Constraint().Union(other.Constraint()), false)
		}
	}
	// Incompatible refs of the same name: a positive assertion about one
	// makes any statement about the other moot.
	if t.positive != other.positive {
		if t.positive {
			return t, true
		}
		return other, true
	}
	return Term{}, false
}

// compatiblePackage reports whether ref could describe the same selection
// as t's package. The root ref is compatible with every ref of its name.
func (t Term) compatiblePackage(ref Ref) bool {
	return t.pkg.Ref.Root || ref.Root || t.pkg.Ref == ref
}

func (t Term) nonEmpty(c versions.Constraint, positive bool) (Term, bool) {
	if c.IsEmpty() {
		return Term{}, false
	}
	return Term{positive: positive, pkg: Package{Ref: t.pkg.Ref, Constraint: c}}, true
}

// Display renders the term with the given verbosity hint applied, prefixing
// negated terms with "not".
func (t Term) Display(d Detail) string {
	if t.positive {
		return t.pkg.Display(d)
	}
	return "not " + t.pkg.Display(d)
}

func (t Term) String() string {
	return t.Display(Detail{})
}
