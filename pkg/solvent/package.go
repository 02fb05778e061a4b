// Package solvent provides the conflict representation used by a
// dependency version solver: signed terms over package version sets, the
// canonical Incompatibility clause built from them, and the rendering of
// one, two or a whole derivation tree of incompatibilities as readable
// English.
package solvent

import (
	"strings"

	"github.com/go-solvent/solvent/pkg/solvent/versions"
)

// DefaultSource names the registry packages come from when nothing else is
// specified. It is elided from rendered text unless a Detail hint asks for
// sources.
const DefaultSource = "hosted"

// Name is the name of a package, the key explanations group by.
type Name string

// Ref identifies a package independent of any version constraint: its name,
// where it comes from, and whether it is the root of the dependency graph
// being solved. Refs compare by value.
type Ref struct {
	Name   Name
	Source string
	Root   bool
}

// Display renders the ref with the given verbosity hint applied.
func (r Ref) Display(d Detail) string {
	if !sourceShown(r, d) {
		return string(r.Name)
	}
	return string(r.Name) + " from " + r.Source
}

func (r Ref) String() string {
	return r.Display(Detail{})
}

func sourceShown(r Ref, d Detail) bool {
	if r.Root || r.Source == "" {
		return false
	}
	return d.ShowSource || r.Source != DefaultSource
}

// Package is a ref bound to a set of allowed versions.
type Package struct {
	Ref        Ref
	Constraint versions.Constraint
}

// Display renders the package with the given verbosity hint applied. The
// root package and unconstrained packages render as a bare ref.
func (p Package) Display(d Detail) string {
	var sb strings.Builder
	sb.WriteString(string(p.Ref.Name))
	if !p.Ref.Root && p.Constraint != nil && !p.Constraint.IsAny() {
		sb.WriteString(" ")
		sb.WriteString(p.Constraint.String())
	}
	if sourceShown(p.Ref, d) {
		sb.WriteString(" from ")
		sb.WriteString(p.Ref.Source)
	}
	return sb.String()
}

func (p Package) String() string {
	return p.Display(Detail{})
}

// Detail adjusts how one package is rendered inside explanations, keyed by
// package name in the maps the rendering operations accept. The zero value
// is the terse default.
type Detail struct {
	// ShowSource spells out the package's source even when it is the
	// default registry, disambiguating same-named packages.
	ShowSource bool
}
