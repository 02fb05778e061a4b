package solvent

import (
	"fmt"
	"strings"
)

// Explain renders the incompatibility as one English clause, dispatching on
// its cause and then on its shape. The details map supplies per-package
// verbosity hints and may be nil.
//
// Reaching a cause-specific branch with a term shape the cause cannot
// produce is a bug in the calling solver and panics.
func (in *Incompatibility) Explain(details map[Name]Detail) string {
	switch in.cause.(type) {
	case DependencyCause:
		if len(in.terms) != 2 || !in.terms[0].IsPositive() || in.terms[1].IsPositive() {
			panic(fmt.Sprintf("malformed dependency incompatibility %v", in.terms))
		}
		depender, dependee := in.terms[0], in.terms[1]
		return terse(depender, details, true) + " depends on " + terse(dependee, details, false)

	case SDKCause:
		if len(in.terms) != 1 || !in.terms[0].IsPositive() {
			panic(fmt.Sprintf("malformed sdk incompatibility %v", in.terms))
		}
		t := in.terms[0]
		if t.Constraint().IsAny() {
			return fmt.Sprintf("no versions of %s are compatible with the current SDK", terseRef(t, details))
		}
		return fmt.Sprintf("%s is incompatible with the current SDK", terse(t, details, false))

	case NoVersionsCause:
		if len(in.terms) != 1 || !in.terms[0].IsPositive() {
			panic(fmt.Sprintf("malformed no-versions incompatibility %v", in.terms))
		}
		t := in.terms[0]
		return fmt.Sprintf("no versions of %s match %s", terseRef(t, details), t.Constraint())

	case RootCause:
		if len(in.terms) != 1 || in.terms[0].IsPositive() || !in.terms[0].Package().Ref.Root {
			panic(fmt.Sprintf("malformed root incompatibility %v", in.terms))
		}
		t := in.terms[0]
		return fmt.Sprintf("%s is %s", t.Package().Ref.Name, t.Constraint())

	case ConflictCause:
	default:
		panic(fmt.Sprintf("unknown incompatibility cause %T", in.cause))
	}

	if in.IsFailure() {
		return "version solving failed"
	}

	if len(in.terms) == 1 {
		t := in.terms[0]
		verb := "required"
		if t.IsPositive() {
			verb = "forbidden"
		}
		if t.Constraint().IsAny() {
			return fmt.Sprintf("%s is %s", terseRef(t, details), verb)
		}
		return fmt.Sprintf("%s is %s", terse(t, details, false), verb)
	}

	if len(in.terms) == 2 && in.terms[0].IsPositive() == in.terms[1].IsPositive() {
		first, second := terse(in.terms[0], details, false), terse(in.terms[1], details, false)
		if in.terms[0].IsPositive() {
			return fmt.Sprintf("%s is incompatible with %s", first, second)
		}
		return fmt.Sprintf("either %s or %s", first, second)
	}

	var positive, negative []string
	for _, t := range in.terms {
		if t.IsPositive() {
			positive = append(positive, terse(t, details, false))
		} else {
			negative = append(negative, terse(t, details, false))
		}
	}
	switch {
	case len(positive) > 0 && len(negative) > 0:
		if len(positive) == 1 {
			subject, _ := in.singleTermWhere(Term.IsPositive)
			return fmt.Sprintf("%s requires %s", terse(subject, details, true), strings.Join(negative, " or "))
		}
		return fmt.Sprintf("if %s then %s", strings.Join(positive, " and "), strings.Join(negative, " or "))
	case len(positive) > 0:
		return fmt.Sprintf("one of %s must be false", strings.Join(positive, " or "))
	default:
		return fmt.Sprintf("one of %s must be true", strings.Join(negative, " or "))
	}
}

// ExplainWith renders the conjunction of in and other as a single sentence
// describing one derivation step, phrasing the common shapes more naturally
// than a plain "and". The line arguments cite the numbered proof lines each
// incompatibility appeared on; zero means no citation.
func (in *Incompatibility) ExplainWith(other *Incompatibility, details map[Name]Detail, line, otherLine int) string {
	if s, ok := in.tryRequiresBoth(other, details, line, otherLine); ok {
		return s
	}
	if s, ok := in.tryRequiresThrough(other, details, line, otherLine); ok {
		return s
	}

	var sb strings.Builder
	sb.WriteString(in.Explain(details))
	if line > 0 {
		fmt.Fprintf(&sb, " %d", line)
	}
	sb.WriteString(" and ")
	sb.WriteString(other.Explain(details))
	if otherLine > 0 {
		fmt.Fprintf(&sb, " %d", otherLine)
	}
	return sb.String()
}

// tryRequiresBoth merges two incompatibilities whose unique positive terms
// name the same package: "a depends on both b and c".
func (in *Incompatibility) tryRequiresBoth(other *Incompatibility, details map[Name]Detail, line, otherLine int) (string, bool) {
	if len(in.terms) == 1 || len(other.terms) == 1 {
		return "", false
	}
	thisPositive, ok := in.singleTermWhere(Term.IsPositive)
	if !ok {
		return "", false
	}
	otherPositive, ok := other.singleTermWhere(Term.IsPositive)
	if !ok {
		return "", false
	}
	if thisPositive.Package().Ref.Name != otherPositive.Package().Ref.Name {
		return "", false
	}

	verb := "requires"
	if isDependency(in.cause) && isDependency(other.cause) {
		verb = "depends on"
	}

	var sb strings.Builder
	sb.WriteString(terse(thisPositive, details, true))
	sb.WriteString(" ")
	sb.WriteString(verb)
	sb.WriteString(" both ")
	sb.WriteString(in.joinNegatives(details))
	if line > 0 {
		fmt.Fprintf(&sb, " (%d)", line)
	}
	sb.WriteString(" and ")
	sb.WriteString(other.joinNegatives(details))
	if otherLine > 0 {
		fmt.Fprintf(&sb, " (%d)", otherLine)
	}
	return sb.String(), true
}

// tryRequiresThrough chains two incompatibilities where one forbids what
// the other's positive term asserts: "a depends on b which requires c". The
// incompatibility holding the shared negative term is the prior step; the
// one holding the matching positive term is the latter.
func (in *Incompatibility) tryRequiresThrough(other *Incompatibility, details map[Name]Detail, line, otherLine int) (string, bool) {
	if len(in.terms) == 1 || len(other.terms) == 1 {
		return "", false
	}

	thisNegative, hasThisNegative := in.singleTermWhere(isNegative)
	otherNegative, hasOtherNegative := other.singleTermWhere(isNegative)
	if !hasThisNegative && !hasOtherNegative {
		return "", false
	}
	thisPositive, hasThisPositive := in.singleTermWhere(Term.IsPositive)
	otherPositive, hasOtherPositive := other.singleTermWhere(Term.IsPositive)

	var (
		prior         *Incompatibility
		priorNegative Term
		priorLine     int
		latter        *Incompatibility
		latterLine    int
	)
	switch {
	case hasThisNegative && hasOtherPositive &&
		thisNegative.Package().Ref.Name == otherPositive.Package().Ref.Name &&
		thisNegative.Inverse().Satisfies(otherPositive):
		prior, priorNegative, priorLine = in, thisNegative, line
		latter, latterLine = other, otherLine
	case hasOtherNegative && hasThisPositive &&
		otherNegative.Package().Ref.Name == thisPositive.Package().Ref.Name &&
		otherNegative.Inverse().Satisfies(thisPositive):
		prior, priorNegative, priorLine = other, otherNegative, otherLine
		latter, latterLine = in, line
	default:
		return "", false
	}

	var priorPositives []Term
	for _, t := range prior.terms {
		if t.IsPositive() {
			priorPositives = append(priorPositives, t)
		}
	}

	var sb strings.Builder
	if len(priorPositives) > 1 {
		parts := make([]string, len(priorPositives))
		for i, t := range priorPositives {
			parts[i] = terse(t, details, false)
		}
		sb.WriteString("if ")
		sb.WriteString(strings.Join(parts, " or "))
		sb.WriteString(" then ")
	} else {
		verb := "requires"
		if isDependency(prior.cause) {
			verb = "depends on"
		}
		sb.WriteString(terse(priorPositives[0], details, true))
		sb.WriteString(" ")
		sb.WriteString(verb)
		sb.WriteString(" ")
	}

	sb.WriteString(terse(priorNegative, details, false))
	if priorLine > 0 {
		fmt.Fprintf(&sb, " (%d)", priorLine)
	}
	sb.WriteString(" which ")
	if isDependency(latter.cause) {
		sb.WriteString("depends on ")
	} else {
		sb.WriteString("requires ")
	}
	sb.WriteString(latter.joinNegatives(details))
	if latterLine > 0 {
		fmt.Fprintf(&sb, " (%d)", latterLine)
	}
	return sb.String(), true
}

func (in *Incompatibility) joinNegatives(details map[Name]Detail) string {
	var parts []string
	for _, t := range in.terms {
		if !t.IsPositive() {
			parts = append(parts, terse(t, details, false))
		}
	}
	return strings.Join(parts, " or ")
}

// terse renders a term for use inside a sentence; polarity is carried by
// the surrounding phrasing, not the text. With allowEvery, an unconstrained
// term reads "every version of <ref>", which suits sentence subjects.
func terse(t Term, details map[Name]Detail, allowEvery bool) string {
	d := details[t.Package().Ref.Name]
	if allowEvery && t.Constraint().IsAny() {
		return "every version of " + t.Package().Ref.Display(d)
	}
	return t.Package().Display(d)
}

func terseRef(t Term, details map[Name]Detail) string {
	return t.Package().Ref.Display(details[t.Package().Ref.Name])
}
