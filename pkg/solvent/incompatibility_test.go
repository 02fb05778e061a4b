package solvent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-solvent/solvent/pkg/solvent/versions"
)

func hosted(name, constraint string) Package {
	return Package{
		Ref:        Ref{Name: Name(name), Source: DefaultSource},
		Constraint: versions.MustParseConstraint(constraint),
	}
}

func fromSource(name, source, constraint string) Package {
	return Package{
		Ref:        Ref{Name: Name(name), Source: source},
		Constraint: versions.MustParseConstraint(constraint),
	}
}

func rooted(name, version string) Package {
	return Package{
		Ref:        Ref{Name: Name(name), Root: true},
		Constraint: versions.MustParseConstraint(version),
	}
}

func pos(p Package) Term { return NewTerm(true, p) }
func neg(p Package) Term { return NewTerm(false, p) }

// conflictCause returns a derived cause with canned parents for tests that
// never write a proof.
func conflictCause() ConflictCause {
	return ConflictCause{
		Conflict: NewIncompatibility([]Term{pos(hosted("left", "^1.0.0"))}, NoVersionsCause{}),
		Other:    NewIncompatibility([]Term{pos(hosted("right", "^1.0.0"))}, NoVersionsCause{}),
	}
}

func derived(terms ...Term) *Incompatibility {
	return NewIncompatibility(terms, conflictCause())
}

func termStrings(in *Incompatibility) []string {
	terms := in.Terms()
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.String()
	}
	return out
}

func TestNewIncompatibility(t *testing.T) {
	type tc struct {
		Name     string
		Terms    []Term
		Cause    Cause
		Expected []string
	}
	for _, tt := range []tc{
		{
			Name:     "coalesces one package to one term",
			Terms:    []Term{pos(hosted("foo", ">=1.0.0")), pos(hosted("foo", "<1.9.0"))},
			Cause:    conflictCause(),
			Expected: []string{"foo >=1.0.0 <1.9.0"},
		},
		{
			Name:     "narrows a positive by a negative for the same ref",
			Terms:    []Term{pos(hosted("foo", "^1.0.0")), neg(hosted("foo", ">=1.5.0"))},
			Cause:    conflictCause(),
			Expected: []string{"foo >=1.0.0 <1.5.0"},
		},
		{
			Name:     "positive supersedes negatives across sources",
			Terms:    []Term{pos(hosted("foo", "^1.0.0")), neg(fromSource("foo", "git", ">=1.0.0"))},
			Cause:    conflictCause(),
			Expected: []string{"foo ^1.0.0"},
		},
		{
			Name:     "keeps all negatives when no positive exists",
			Terms:    []Term{neg(hosted("foo", "^1.0.0")), neg(fromSource("foo", "git", "^1.0.0"))},
			Cause:    conflictCause(),
			Expected: []string{"not foo ^1.0.0", "not foo ^1.0.0 from git"},
		},
		{
			Name:     "keeps distinct packages apart",
			Terms:    []Term{pos(hosted("foo", "^1.0.0")), neg(hosted("bar", "^2.0.0"))},
			Cause:    DependencyCause{},
			Expected: []string{"foo ^1.0.0", "not bar ^2.0.0"},
		},
		{
			Name: "preserves first-appearance order",
			Terms: []Term{
				pos(hosted("zeta", "^1.0.0")),
				pos(hosted("alpha", "^1.0.0")),
				pos(hosted("zeta", ">=1.2.0")),
			},
			Cause:    conflictCause(),
			Expected: []string{"zeta ^1.2.0", "alpha ^1.0.0"},
		},
		{
			Name:     "drops positive root terms from derived conflicts",
			Terms:    []Term{pos(rooted("myapp", "1.0.0")), neg(hosted("foo", "^1.0.0"))},
			Cause:    conflictCause(),
			Expected: []string{"not foo ^1.0.0"},
		},
		{
			Name:     "keeps a lone positive root term",
			Terms:    []Term{pos(rooted("myapp", "1.0.0"))},
			Cause:    conflictCause(),
			Expected: []string{"myapp"},
		},
		{
			Name:     "keeps root terms for direct causes",
			Terms:    []Term{pos(rooted("myapp", "1.0.0")), neg(hosted("foo", "^1.0.0"))},
			Cause:    DependencyCause{},
			Expected: []string{"myapp", "not foo ^1.0.0"},
		},
		{
			Name:     "builds the empty failure",
			Terms:    nil,
			Cause:    conflictCause(),
			Expected: []string{},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			in := NewIncompatibility(tt.Terms, tt.Cause)
			assert.Equal(t, tt.Expected, termStrings(in))
		})
	}
}

func TestNewIncompatibilityPanicsOnContradiction(t *testing.T) {
	type tc struct {
		Name  string
		Terms []Term
	}
	for _, tt := range []tc{
		{
			Name:  "positive and negative cancel out",
			Terms: []Term{pos(hosted("foo", "^1.0.0")), neg(hosted("foo", "^1.0.0"))},
		},
		{
			Name:  "disjoint positives",
			Terms: []Term{pos(hosted("foo", "^1.0.0")), pos(hosted("foo", "^2.0.0"))},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Panics(t, func() {
				NewIncompatibility(tt.Terms, conflictCause())
			})
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	type tc struct {
		Name  string
		Terms []Term
	}
	for _, tt := range []tc{
		{
			Name:  "after narrowing",
			Terms: []Term{pos(hosted("foo", "^1.0.0")), neg(hosted("foo", ">=1.5.0"))},
		},
		{
			Name:  "after positive-dominance",
			Terms: []Term{pos(hosted("foo", "^1.0.0")), neg(fromSource("foo", "git", ">=1.0.0"))},
		},
		{
			Name:  "after root elision",
			Terms: []Term{pos(rooted("myapp", "1.0.0")), neg(hosted("foo", "^1.0.0"))},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			once := NewIncompatibility(tt.Terms, conflictCause())
			twice := NewIncompatibility(once.Terms(), conflictCause())
			assert.Equal(t, termStrings(once), termStrings(twice))
		})
	}
}

func TestIsFailure(t *testing.T) {
	type tc struct {
		Name     string
		In       *Incompatibility
		Expected bool
	}
	for _, tt := range []tc{
		{
			Name:     "no terms",
			In:       derived(),
			Expected: true,
		},
		{
			Name:     "only the positive root term",
			In:       derived(pos(rooted("myapp", "1.0.0"))),
			Expected: true,
		},
		{
			Name:     "a negative root term",
			In:       NewIncompatibility([]Term{neg(rooted("myapp", "1.0.0"))}, RootCause{}),
			Expected: false,
		},
		{
			Name:     "a single non-root term",
			In:       NewIncompatibility([]Term{pos(hosted("foo", "^1.0.0"))}, NoVersionsCause{}),
			Expected: false,
		},
		{
			Name: "a dependency pair",
			In: NewIncompatibility([]Term{
				pos(rooted("myapp", "1.0.0")),
				neg(hosted("foo", "^1.0.0")),
			}, DependencyCause{}),
			Expected: false,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Expected, tt.In.IsFailure())
		})
	}
}

func TestTermsReturnsACopy(t *testing.T) {
	in := derived(neg(hosted("foo", "^1.0.0")))
	terms := in.Terms()
	terms[0] = pos(hosted("bar", "^1.0.0"))
	assert.Equal(t, []string{"not foo ^1.0.0"}, termStrings(in))
}
