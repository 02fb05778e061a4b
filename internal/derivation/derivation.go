// Package derivation reads recorded solver derivations from TOML files: the
// incompatibilities a version solver produced on its way to a failure, with
// each conflict step linked to the two parents it was derived from.
package derivation

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/go-solvent/solvent/pkg/solvent"
	"github.com/go-solvent/solvent/pkg/solvent/versions"
)

var (
	// ErrNoFailure indicates that a derivation never reaches a failure
	// incompatibility.
	ErrNoFailure = errors.New("derivation records no failure incompatibility")
	// ErrMultipleFailures indicates that a derivation reaches more than one
	// failure incompatibility.
	ErrMultipleFailures = errors.New("derivation records more than one failure incompatibility")
)

// Step is one recorded incompatibility, tagged with the id it carries in
// the file.
type Step struct {
	ID              string
	Incompatibility *solvent.Incompatibility
}

// File is a decoded derivation.
type File struct {
	root  solvent.Name
	steps []Step
}

// Root returns the name of the root package the derivation was recorded
// for.
func (f *File) Root() solvent.Name {
	return f.root
}

// Steps returns the derivation's incompatibilities in file order.
func (f *File) Steps() []Step {
	return append([]Step(nil), f.steps...)
}

// Goal returns the derivation's failure incompatibility. A well-formed
// derivation records exactly one.
func (f *File) Goal() (*solvent.Incompatibility, error) {
	var goal *solvent.Incompatibility
	for _, s := range f.steps {
		if !s.Incompatibility.IsFailure() {
			continue
		}
		if goal != nil {
			return nil, ErrMultipleFailures
		}
		goal = s.Incompatibility
	}
	if goal == nil {
		return nil, ErrNoFailure
	}
	return goal, nil
}

// fileDoc and entryDoc mirror the TOML schema:
//
//	root = "myapp"
//
//	[[incompatibility]]
//	id    = "app-foo"
//	cause = "dependency"          # dependency | sdk | no-versions | root | conflict
//	terms = ["myapp", "not foo ^1.0.0"]
//
//	[[incompatibility]]
//	id    = "goal"
//	cause = "conflict"
//	of    = ["app-foo", "no-foo"] # parent ids, conflict causes only
//	terms = []
type fileDoc struct {
	Root            string     `toml:"root"`
	Incompatibility []entryDoc `toml:"incompatibility"`
}

type entryDoc struct {
	ID    string   `toml:"id"`
	Cause string   `toml:"cause"`
	Terms []string `toml:"terms"`
	Of    []string `toml:"of"`
}

// Decode parses a TOML derivation from the given stream.
func Decode(r io.Reader) (*File, error) {
	var doc fileDoc
	meta, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("error reading derivation data: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("invalid derivation: unknown keys: %s", strings.Join(keys, ", "))
	}
	return build(doc)
}

// Load parses the TOML derivation file at path.
func Load(path string) (*File, error) {
	var doc fileDoc
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("error parsing derivation file (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("invalid derivation file (%s): unknown keys: %s", path, strings.Join(keys, ", "))
	}
	f, err := build(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid derivation file (%s): %w", path, err)
	}
	return f, nil
}

func build(doc fileDoc) (*File, error) {
	root := solvent.Name(strings.TrimSpace(doc.Root))
	if root == "" {
		return nil, fmt.Errorf("invalid derivation: missing root package name")
	}
	if len(doc.Incompatibility) == 0 {
		return nil, fmt.Errorf("invalid derivation: no incompatibilities found")
	}

	b := &builder{
		root:     root,
		parser:   versions.NewParser(),
		docs:     make(map[string]entryDoc, len(doc.Incompatibility)),
		built:    make(map[string]*solvent.Incompatibility, len(doc.Incompatibility)),
		visiting: map[string]bool{},
	}
	order := make([]string, 0, len(doc.Incompatibility))
	for _, entry := range doc.Incompatibility {
		if entry.ID == "" {
			return nil, fmt.Errorf("invalid incompatibility: missing id")
		}
		if _, ok := b.docs[entry.ID]; ok {
			return nil, fmt.Errorf("invalid incompatibility (%s): duplicate id", entry.ID)
		}
		b.docs[entry.ID] = entry
		order = append(order, entry.ID)
	}

	steps := make([]Step, 0, len(order))
	for _, id := range order {
		in, err := b.buildEntry(id)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{ID: id, Incompatibility: in})
	}
	return &File{root: root, steps: steps}, nil
}

type builder struct {
	root     solvent.Name
	parser   *versions.Parser
	docs     map[string]entryDoc
	built    map[string]*solvent.Incompatibility
	visiting map[string]bool
}

// buildEntry constructs one incompatibility, recursing into conflict
// parents first. Parents may be declared anywhere in the file; the visiting
// set catches derivations that loop back into themselves.
func (b *builder) buildEntry(id string) (*solvent.Incompatibility, error) {
	if in, ok := b.built[id]; ok {
		return in, nil
	}
	if b.visiting[id] {
		return nil, fmt.Errorf("invalid incompatibility (%s): parent ids form a cycle", id)
	}
	b.visiting[id] = true
	defer delete(b.visiting, id)

	entry := b.docs[id]
	terms, err := b.parseTerms(entry)
	if err != nil {
		return nil, err
	}

	var cause solvent.Cause
	if entry.Cause == "conflict" {
		if len(entry.Of) != 2 {
			return nil, fmt.Errorf("invalid incompatibility (%s): a conflict needs two parent ids, got %d", id, len(entry.Of))
		}
		var parents [2]*solvent.Incompatibility
		for i, parentID := range entry.Of {
			if parentID == id {
				return nil, fmt.Errorf("invalid incompatibility (%s): references itself", id)
			}
			if _, ok := b.docs[parentID]; !ok {
				return nil, fmt.Errorf("invalid incompatibility (%s): unknown parent id %q", id, parentID)
			}
			parent, err := b.buildEntry(parentID)
			if err != nil {
				return nil, err
			}
			parents[i] = parent
		}
		cause = solvent.ConflictCause{Conflict: parents[0], Other: parents[1]}
	} else {
		c, ok := causeFor(entry.Cause)
		if !ok {
			return nil, fmt.Errorf("invalid incompatibility (%s): unknown cause %q", id, entry.Cause)
		}
		if len(entry.Of) > 0 {
			return nil, fmt.Errorf("invalid incompatibility (%s): of is only valid for conflict causes", id)
		}
		cause = c
	}

	in, err := newIncompatibility(id, terms, cause)
	if err != nil {
		return nil, err
	}
	b.built[id] = in
	return in, nil
}

func causeFor(tag string) (solvent.Cause, bool) {
	switch tag {
	case "dependency":
		return solvent.DependencyCause{}, true
	case "sdk":
		return solvent.SDKCause{}, true
	case "no-versions":
		return solvent.NoVersionsCause{}, true
	case "root":
		return solvent.RootCause{}, true
	}
	return nil, false
}

// newIncompatibility converts the normalizer's contradiction panic, which
// signals a solver bug when hit in process, into a plain error here where
// the terms come from a file.
func newIncompatibility(id string, terms []solvent.Term, cause solvent.Cause) (in *solvent.Incompatibility, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid incompatibility (%s): %v", id, r)
		}
	}()
	return solvent.NewIncompatibility(terms, cause), nil
}

func (b *builder) parseTerms(entry entryDoc) ([]solvent.Term, error) {
	terms := make([]solvent.Term, 0, len(entry.Terms))
	for _, text := range entry.Terms {
		t, err := b.parseTerm(text)
		if err != nil {
			return nil, fmt.Errorf("invalid incompatibility (%s): %w", entry.ID, err)
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// parseTerm parses the term grammar:
//
//	[not] NAME [from SOURCE] [CONSTRAINT]
//
// An omitted constraint means any version. A term naming the file's root
// package with no explicit source refers to the root of the dependency
// graph; any other term with no explicit source comes from the default
// registry.
func (b *builder) parseTerm(text string) (solvent.Term, error) {
	fields := strings.Fields(text)
	positive := true
	if len(fields) > 0 && fields[0] == "not" {
		positive = false
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return solvent.Term{}, fmt.Errorf("invalid term %q: missing package name", text)
	}
	name := solvent.Name(fields[0])
	fields = fields[1:]

	source := ""
	if len(fields) > 0 && fields[0] == "from" {
		if len(fields) < 2 {
			return solvent.Term{}, fmt.Errorf("invalid term %q: 'from' without a source", text)
		}
		source = fields[1]
		fields = fields[2:]
	}

	constraint := versions.Any()
	if len(fields) > 0 {
		c, err := b.parser.Parse(strings.Join(fields, " "))
		if err != nil {
			return solvent.Term{}, fmt.Errorf("invalid term %q: %w", text, err)
		}
		constraint = c
	}

	ref := solvent.Ref{Name: name, Source: source}
	if source == "" {
		if name == b.root {
			ref.Root = true
		} else {
			ref.Source = solvent.DefaultSource
		}
	}
	return solvent.NewTerm(positive, solvent.Package{Ref: ref, Constraint: constraint}), nil
}
