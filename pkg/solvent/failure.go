package solvent

import (
	"fmt"
	"strings"
)

// SolveFailure is the error reported when version solving is impossible.
// Its Error text is a full derivation proof: every external incompatibility
// involved, the conclusions derived from them, and line-number citations
// tying multiply-used steps together.
type SolveFailure struct {
	root     *Incompatibility
	details  map[Name]Detail
	emphasis func(string) string
}

// FailureOption configures how a SolveFailure renders its proof.
type FailureOption func(*SolveFailure)

// WithDetails supplies per-package verbosity hints for the rendered proof.
func WithDetails(details map[Name]Detail) FailureOption {
	return func(f *SolveFailure) {
		f.details = details
	}
}

// WithEmphasis styles each derived conclusion, typically with terminal
// bolding. The default leaves text unstyled.
func WithEmphasis(emphasis func(string) string) FailureOption {
	return func(f *SolveFailure) {
		f.emphasis = emphasis
	}
}

// NewSolveFailure builds the failure report for a failure incompatibility,
// usually the empty one the solver ends on. It panics if root does not
// report IsFailure.
func NewSolveFailure(root *Incompatibility, opts ...FailureOption) *SolveFailure {
	if !root.IsFailure() {
		panic(fmt.Sprintf("solve failure built from non-failure incompatibility %q", root))
	}
	f := &SolveFailure{
		root:     root,
		emphasis: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *SolveFailure) Error() string {
	return newProofWriter(f).write()
}

// Incompatibility returns the failure incompatibility the proof concludes
// with.
func (f *SolveFailure) Incompatibility() *Incompatibility {
	return f.root
}

// DetailHints scans a derivation tree and returns hints that render sources
// for any package name appearing under more than one source, so same-named
// packages stay distinguishable in the proof.
func DetailHints(root *Incompatibility) map[Name]Detail {
	sources := map[Name]map[string]struct{}{}
	seen := map[*Incompatibility]struct{}{}
	var walk func(in *Incompatibility)
	walk = func(in *Incompatibility) {
		if _, ok := seen[in]; ok {
			return
		}
		seen[in] = struct{}{}
		for _, t := range in.terms {
			ref := t.Package().Ref
			if ref.Root {
				continue
			}
			set, ok := sources[ref.Name]
			if !ok {
				set = map[string]struct{}{}
				sources[ref.Name] = set
			}
			set[ref.Source] = struct{}{}
		}
		if cc, ok := in.cause.(ConflictCause); ok {
			walk(cc.Conflict)
			walk(cc.Other)
		}
	}
	walk(root)

	hints := map[Name]Detail{}
	for name, set := range sources {
		if len(set) > 1 {
			hints[name] = Detail{ShowSource: true}
		}
	}
	return hints
}

type proofLine struct {
	message string
	number  int
}

// proofWriter assembles the numbered derivation proof for one failure.
// Incompatibilities used to derive more than one conclusion, and the
// conclusions of sub-proofs, get line numbers so later steps can cite them
// instead of restating them.
type proofWriter struct {
	root     *Incompatibility
	details  map[Name]Detail
	emphasis func(string) string

	derivations map[*Incompatibility]int
	lines       []proofLine
	lineNumbers map[*Incompatibility]int
}

func newProofWriter(f *SolveFailure) *proofWriter {
	w := &proofWriter{
		root:        f.root,
		details:     f.details,
		emphasis:    f.emphasis,
		derivations: map[*Incompatibility]int{},
		lineNumbers: map[*Incompatibility]int{},
	}
	w.countDerivations(f.root)
	return w
}

// countDerivations records how many conclusions each incompatibility in the
// tree participates in deriving.
func (w *proofWriter) countDerivations(in *Incompatibility) {
	if _, ok := w.derivations[in]; ok {
		w.derivations[in]++
		return
	}
	w.derivations[in] = 1
	if cc, ok := in.cause.(ConflictCause); ok {
		w.countDerivations(cc.Conflict)
		w.countDerivations(cc.Other)
	}
}

func (w *proofWriter) write() string {
	if isConflict(w.root) {
		w.visit(w.root, false)
	} else {
		w.writeLine(w.root, fmt.Sprintf("Because %s, version solving failed.", w.root.Explain(w.details)), false)
	}

	// The number column is only as wide as the largest citation, and absent
	// entirely when nothing is cited.
	padding := 0
	if n := len(w.lineNumbers); n > 0 {
		padding = len(fmt.Sprintf("(%d) ", n))
	}

	var sb strings.Builder
	lastWasEmpty := false
	for _, line := range w.lines {
		if line.message == "" {
			if !lastWasEmpty {
				sb.WriteString("\n")
			}
			lastWasEmpty = true
			continue
		}
		lastWasEmpty = false
		if line.number > 0 {
			prefix := fmt.Sprintf("(%d) ", line.number)
			sb.WriteString(prefix)
			sb.WriteString(strings.Repeat(" ", padding-len(prefix)))
		} else {
			sb.WriteString(strings.Repeat(" ", padding))
		}
		sb.WriteString(line.message)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// visit writes the proof of one derived incompatibility. With conclusion
// set, the incompatibility ends a linear chain of derivations and is
// phrased and numbered accordingly.
func (w *proofWriter) visit(in *Incompatibility, conclusion bool) {
	numbered := conclusion || w.derivations[in] > 1
	conjunction := "And"
	if conclusion || in == w.root {
		conjunction = "So,"
	}
	derived := w.emphasis(in.Explain(w.details))

	cc := in.cause.(ConflictCause)
	cause, other := cc.Conflict, cc.Other

	switch {
	case isConflict(cause) && isConflict(other):
		causeLine, otherLine := w.lineNumbers[cause], w.lineNumbers[other]
		switch {
		case causeLine > 0 && otherLine > 0:
			w.writeLine(in, fmt.Sprintf("Because %s, %s.",
				cause.ExplainWith(other, w.details, causeLine, otherLine), derived), numbered)

		case causeLine > 0 || otherLine > 0:
			withLine, withoutLine, line := cause, other, causeLine
			if otherLine > 0 {
				withLine, withoutLine, line = other, cause, otherLine
			}
			w.visit(withoutLine, false)
			w.writeLine(in, fmt.Sprintf("%s because %s (%d), %s.",
				conjunction, withLine.Explain(w.details), line, derived), numbered)

		default:
			singleCause := isSingleLine(cause.cause.(ConflictCause))
			singleOther := isSingleLine(other.cause.(ConflictCause))
			if singleCause || singleOther {
				// Put the single-line derivation immediately before the
				// conclusion it feeds.
				first, second := other, cause
				if singleOther {
					first, second = cause, other
				}
				w.visit(first, false)
				w.visit(second, false)
				w.writeLine(in, fmt.Sprintf("Thus, %s.", derived), numbered)
			} else {
				w.visit(cause, true)
				w.lines = append(w.lines, proofLine{})
				w.visit(other, false)
				w.writeLine(in, fmt.Sprintf("%s because %s (%d), %s.",
					conjunction, cause.Explain(w.details), w.lineNumbers[cause], derived), numbered)
			}
		}

	case isConflict(cause) || isConflict(other):
		derivedParent, external := cause, other
		if isConflict(other) {
			derivedParent, external = other, cause
		}
		switch derivedLine := w.lineNumbers[derivedParent]; {
		case derivedLine > 0:
			w.writeLine(in, fmt.Sprintf("Because %s, %s.",
				external.ExplainWith(derivedParent, w.details, 0, derivedLine), derived), numbered)

		case w.isCollapsible(derivedParent):
			dc := derivedParent.cause.(ConflictCause)
			collapsedDerived, collapsedExternal := dc.Conflict, dc.Other
			if !isConflict(collapsedDerived) {
				collapsedDerived, collapsedExternal = dc.Other, dc.Conflict
			}
			w.visit(collapsedDerived, false)
			w.writeLine(in, fmt.Sprintf("%s because %s, %s.",
				conjunction, collapsedExternal.ExplainWith(external, w.details, 0, 0), derived), numbered)

		default:
			w.visit(derivedParent, false)
			w.writeLine(in, fmt.Sprintf("%s because %s, %s.",
				conjunction, external.Explain(w.details), derived), numbered)
		}

	default:
		w.writeLine(in, fmt.Sprintf("Because %s, %s.",
			cause.ExplainWith(other, w.details, 0, 0), derived), numbered)
	}
}

// isCollapsible reports whether the derivation of in can be folded into the
// sentence for its sole consumer: in must derive exactly one conclusion,
// have one derived and one external parent, and its derived parent must not
// carry a line number of its own.
func (w *proofWriter) isCollapsible(in *Incompatibility) bool {
	if w.derivations[in] > 1 {
		return false
	}
	cc := in.cause.(ConflictCause)
	if isConflict(cc.Conflict) && isConflict(cc.Other) {
		return false
	}
	if !isConflict(cc.Conflict) && !isConflict(cc.Other) {
		return false
	}
	derivedParent := cc.Conflict
	if !isConflict(derivedParent) {
		derivedParent = cc.Other
	}
	_, numbered := w.lineNumbers[derivedParent]
	return !numbered
}

// isSingleLine reports whether a conflict's proof fits on one line, which
// holds when both parents are external.
func isSingleLine(cc ConflictCause) bool {
	return !isConflict(cc.Conflict) && !isConflict(cc.Other)
}

func (w *proofWriter) writeLine(in *Incompatibility, message string, numbered bool) {
	if numbered {
		number := len(w.lineNumbers) + 1
		w.lineNumbers[in] = number
		w.lines = append(w.lines, proofLine{message: message, number: number})
		return
	}
	w.lines = append(w.lines, proofLine{message: message})
}
