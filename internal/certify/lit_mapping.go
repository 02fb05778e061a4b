package certify

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/go-solvent/solvent/pkg/solvent"
)

// litMapping performs translation between the terms mentioned by a
// derivation step and the variables that appear in the SAT formula used to
// check it. Terms are atoms: occurrences with the same polarity, ref and
// constraint share one variable.
type litMapping struct {
	g     *gini.Gini
	lits  map[atomKey]z.Lit
	atoms map[solvent.Name][]solvent.Term
}

type atomKey struct {
	positive   bool
	ref        solvent.Ref
	constraint string
}

func newLitMapping(g *gini.Gini) *litMapping {
	return &litMapping{
		g:     g,
		lits:  map[atomKey]z.Lit{},
		atoms: map[solvent.Name][]solvent.Term{},
	}
}

// LitOf returns the literal for the term's atom, allocating it on first
// use.
func (d *litMapping) LitOf(t solvent.Term) z.Lit {
	k := atomKey{
		positive:   t.IsPositive(),
		ref:        t.Package().Ref,
		constraint: t.Constraint().String(),
	}
	if m, ok := d.lits[k]; ok {
		return m
	}
	m := d.g.Lit()
	d.lits[k] = m
	name := t.Package().Ref.Name
	d.atoms[name] = append(d.atoms[name], t)
	return m
}

// RelateAtoms teaches the solver how the atoms about each package relate
// to one another: an atom satisfying another implies it, disjoint atoms
// exclude each other, and when an atom's inverse satisfies another, at
// least one of the two must hold. Positive atoms about the root are fixed
// true, since a derivation only ever mentions the root package as
// selected; that assumption is what lets derived steps drop root terms.
func (d *litMapping) RelateAtoms() {
	for _, atoms := range d.atoms {
		for i, a := range atoms {
			la := d.LitOf(a)
			if a.IsPositive() && a.Package().Ref.Root {
				d.g.Add(la)
				d.g.Add(z.LitNull)
			}
			for j, b := range atoms {
				if i == j {
					continue
				}
				lb := d.LitOf(b)
				if a.Satisfies(b) {
					d.g.Add(la.Not())
					d.g.Add(lb)
					d.g.Add(z.LitNull)
				}
				if a.Relation(b) == solvent.RelationDisjoint {
					d.g.Add(la.Not())
					d.g.Add(lb.Not())
					d.g.Add(z.LitNull)
				}
				if a.Inverse().Satisfies(b) {
					d.g.Add(la)
					d.g.Add(lb)
					d.g.Add(z.LitNull)
				}
			}
		}
	}
}
