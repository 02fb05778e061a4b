package solvent

import "fmt"

// Incompatibility is a set of terms that cannot all hold at once, paired
// with the cause that produced it. The solver derives new incompatibilities
// from old ones; this type keeps each one canonical and renders the story
// of a derivation as text. Values are immutable once constructed and safe
// for concurrent readers.
type Incompatibility struct {
	terms []Term
	cause Cause
}

// NewIncompatibility builds the canonical incompatibility for the given
// terms: at most one term per package, positive terms superseding negative
// ones about the same package name, and positive root terms dropped from
// derived conflicts where they are noise.
//
// Asking for a contradictory combination of terms about one package is a
// bug in the calling solver and panics.
func NewIncompatibility(terms []Term, cause Cause) *Incompatibility {
	if _, derived := cause.(ConflictCause); derived && len(terms) != 1 && hasPositiveRoot(terms) {
		filtered := make([]Term, 0, len(terms))
		for _, t := range terms {
			if t.IsPositive() && t.Package().Ref.Root {
				continue
			}
			filtered = append(filtered, t)
		}
		terms = filtered
	}

	// With one term, or two terms about different packages, nothing can
	// coalesce.
	if len(terms) == 1 ||
		(len(terms) == 2 && terms[0].Package().Ref.Name != terms[1].Package().Ref.Name) {
		return &Incompatibility{terms: append([]Term(nil), terms...), cause: cause}
	}

	// Group by package name, then by exact ref. Both levels keep insertion
	// order so the canonical term sequence is deterministic.
	type refGroup struct {
		order []Ref
		byRef map[Ref]Term
	}
	var nameOrder []Name
	byName := map[Name]*refGroup{}
	for _, t := range terms {
		ref := t.Package().Ref
		group, ok := byName[ref.Name]
		if !ok {
			group = &refGroup{byRef: map[Ref]Term{}}
			byName[ref.Name] = group
			nameOrder = append(nameOrder, ref.Name)
		}
		existing, ok := group.byRef[ref]
		if !ok {
			group.byRef[ref] = t
			group.order = append(group.order, ref)
			continue
		}
		merged, ok := existing.Intersect(t)
		if !ok {
			panic(fmt.Sprintf("contradictory terms for %s in one incompatibility: %s, %s", ref, existing, t))
		}
		group.byRef[ref] = merged
	}

	normalized := make([]Term, 0, len(nameOrder))
	for _, name := range nameOrder {
		group := byName[name]
		var positives, all []Term
		for _, ref := range group.order {
			t := group.byRef[ref]
			all = append(all, t)
			if t.IsPositive() {
				positives = append(positives, t)
			}
		}
		// A positive assertion about a package supersedes any negative
		// facts recorded about the same name.
		if len(positives) > 0 {
			normalized = append(normalized, positives...)
		} else {
			normalized = append(normalized, all...)
		}
	}
	return &Incompatibility{terms: normalized, cause: cause}
}

func hasPositiveRoot(terms []Term) bool {
	for _, t := range terms {
		if t.IsPositive() && t.Package().Ref.Root {
			return true
		}
	}
	return false
}

// Terms returns the incompatibility's canonical term sequence. The slice is
// a copy; callers may reorder or filter it freely.
func (in *Incompatibility) Terms() []Term {
	return append([]Term(nil), in.terms...)
}

func (in *Incompatibility) Cause() Cause { return in.cause }

// IsFailure reports whether the incompatibility states that the overall
// request is unsatisfiable: it has no terms at all, or its only term is the
// root package itself.
func (in *Incompatibility) IsFailure() bool {
	if len(in.terms) == 0 {
		return true
	}
	return len(in.terms) == 1 && in.terms[0].IsPositive() && in.terms[0].Package().Ref.Root
}

func (in *Incompatibility) String() string {
	return in.Explain(nil)
}

// singleTermWhere returns the only term satisfying pred. The second result
// is false when no term, or more than one, matches.
func (in *Incompatibility) singleTermWhere(pred func(Term) bool) (Term, bool) {
	var found Term
	var ok bool
	for _, t := range in.terms {
		if !pred(t) {
			continue
		}
		if ok {
			return Term{}, false
		}
		found, ok = t, true
	}
	return found, ok
}

func isNegative(t Term) bool { return !t.IsPositive() }
