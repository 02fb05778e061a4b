// Package certify checks recorded derivations for soundness. Every
// conflict step of a derivation claims that its two parents make the
// derived incompatibility inevitable; certification rebuilds that claim as
// a propositional formula and hands it to a SAT solver, one fresh solver
// per step.
package certify

import (
	"fmt"
	"strings"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/go-solvent/solvent/internal/derivation"
	"github.com/go-solvent/solvent/pkg/solvent"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
	unknown       = 0
)

// Unsound is an error listing the conflict steps of a derivation that are
// not entailed by their recorded parents.
type Unsound []derivation.Step

func (e Unsound) Error() string {
	const msg = "derivation steps not entailed by their parents"
	if len(e) == 0 {
		return msg
	}
	s := make([]string, len(e))
	for i, step := range e {
		s[i] = fmt.Sprintf("%s: %s", step.ID, step.Incompatibility)
	}
	return fmt.Sprintf("%s:\n%s", msg, strings.Join(s, "\n"))
}

// Checker certifies derivations.
type Checker struct {
	tracer Tracer
}

func New(options ...Option) (*Checker, error) {
	c := &Checker{}
	for _, option := range append(options, defaults...) {
		if err := option(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type Option func(c *Checker) error

func WithTracer(t Tracer) Option {
	return func(c *Checker) error {
		c.tracer = t
		return nil
	}
}

var defaults = []Option{
	func(c *Checker) error {
		if c.tracer == nil {
			c.tracer = DefaultTracer{}
		}
		return nil
	},
}

// Check certifies every conflict step of the derivation, reporting each
// outcome to the tracer. It returns an Unsound error listing the steps
// whose parents do not entail them, or nil when the whole derivation holds
// up. Steps with any other cause are the derivation's axioms and are not
// checked.
func (c *Checker) Check(f *derivation.File) error {
	var unsound Unsound
	for _, step := range f.Steps() {
		cause, ok := step.Incompatibility.Cause().(solvent.ConflictCause)
		if !ok {
			continue
		}
		entailed := stepEntailed(step.Incompatibility, cause)
		c.tracer.Trace(stepPosition{step: step, cause: cause, entailed: entailed})
		if !entailed {
			unsound = append(unsound, step)
		}
	}
	if len(unsound) > 0 {
		return unsound
	}
	return nil
}

// stepEntailed encodes one conflict step: each parent contributes a clause
// saying its terms cannot all hold, the relations between the mentioned
// atoms contribute the version algebra, and the derived terms are assumed
// true. The parents entail the step exactly when the formula is
// unsatisfiable.
func stepEntailed(in *solvent.Incompatibility, cause solvent.ConflictCause) bool {
	g := gini.New()
	d := newLitMapping(g)

	for _, parent := range []*solvent.Incompatibility{cause.Conflict, cause.Other} {
		for _, t := range parent.Terms() {
			g.Add(d.LitOf(t).Not())
		}
		g.Add(z.LitNull)
	}

	assumptions := make([]z.Lit, 0, len(in.Terms()))
	for _, t := range in.Terms() {
		assumptions = append(assumptions, d.LitOf(t))
	}

	d.RelateAtoms()

	g.Assume(assumptions...)
	return g.Solve() == unsatisfiable
}
