package solvent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func depends(depender, dependee Package) *Incompatibility {
	return NewIncompatibility([]Term{pos(depender), neg(dependee)}, DependencyCause{})
}

func noVersionsOf(p Package) *Incompatibility {
	return NewIncompatibility([]Term{pos(p)}, NoVersionsCause{})
}

func TestExplain(t *testing.T) {
	type tc struct {
		Name     string
		In       *Incompatibility
		Expected string
	}
	for _, tt := range []tc{
		{
			Name:     "dependency from the root",
			In:       depends(rooted("app", "1.0.0"), hosted("foo", "^2.0.0")),
			Expected: "app depends on foo ^2.0.0",
		},
		{
			Name:     "dependency from every version",
			In:       depends(hosted("bar", "*"), hosted("foo", "^1.0.0")),
			Expected: "every version of bar depends on foo ^1.0.0",
		},
		{
			Name:     "dependency from a range",
			In:       depends(hosted("foo", "<2.0.0"), hosted("bar", "^1.0.0")),
			Expected: "foo <2.0.0 depends on bar ^1.0.0",
		},
		{
			Name: "sdk conflict for every version",
			In: NewIncompatibility(
				[]Term{pos(hosted("foo", "*"))}, SDKCause{}),
			Expected: "no versions of foo are compatible with the current SDK",
		},
		{
			Name: "sdk conflict for a range",
			In: NewIncompatibility(
				[]Term{pos(hosted("foo", "^1.0.0"))}, SDKCause{}),
			Expected: "foo ^1.0.0 is incompatible with the current SDK",
		},
		{
			Name:     "no matching versions",
			In:       noVersionsOf(hosted("foo", "^2.0.0")),
			Expected: "no versions of foo match ^2.0.0",
		},
		{
			Name: "root pin",
			In: NewIncompatibility(
				[]Term{neg(rooted("app", "1.0.0"))}, RootCause{}),
			Expected: "app is 1.0.0",
		},
		{
			Name:     "the empty failure",
			In:       derived(),
			Expected: "version solving failed",
		},
		{
			Name:     "the root-only failure",
			In:       derived(pos(rooted("app", "1.0.0"))),
			Expected: "version solving failed",
		},
		{
			Name:     "a forbidden range",
			In:       derived(pos(hosted("foo", "^1.0.0"))),
			Expected: "foo ^1.0.0 is forbidden",
		},
		{
			Name:     "a forbidden package",
			In:       derived(pos(hosted("foo", "*"))),
			Expected: "foo is forbidden",
		},
		{
			Name:     "a required range",
			In:       derived(neg(hosted("foo", "^1.0.0"))),
			Expected: "foo ^1.0.0 is required",
		},
		{
			Name:     "two positives",
			In:       derived(pos(hosted("foo", "^1.0.0")), pos(hosted("bar", "^2.0.0"))),
			Expected: "foo ^1.0.0 is incompatible with bar ^2.0.0",
		},
		{
			Name:     "two negatives",
			In:       derived(neg(hosted("foo", "1.0.0")), neg(hosted("bar", "2.0.0"))),
			Expected: "either foo 1.0.0 or bar 2.0.0",
		},
		{
			Name: "one positive with alternatives",
			In: derived(
				pos(hosted("foo", "^1.0.0")),
				neg(hosted("a", "^1.0.0")),
				neg(hosted("b", "^2.0.0")),
			),
			Expected: "foo ^1.0.0 requires a ^1.0.0 or b ^2.0.0",
		},
		{
			Name: "an unconstrained positive with alternatives",
			In: derived(
				pos(hosted("foo", "*")),
				neg(hosted("a", "^1.0.0")),
				neg(hosted("b", "^1.0.0")),
			),
			Expected: "every version of foo requires a ^1.0.0 or b ^1.0.0",
		},
		{
			Name: "several positives imply a negative",
			In: derived(
				pos(hosted("foo", "^1.0.0")),
				pos(hosted("bar", "^1.0.0")),
				neg(hosted("baz", "^1.0.0")),
			),
			Expected: "if foo ^1.0.0 and bar ^1.0.0 then baz ^1.0.0",
		},
		{
			Name: "only positives",
			In: derived(
				pos(hosted("a", "1.0.0")),
				pos(hosted("b", "1.0.0")),
				pos(hosted("c", "1.0.0")),
			),
			Expected: "one of a 1.0.0 or b 1.0.0 or c 1.0.0 must be false",
		},
		{
			Name: "only negatives",
			In: derived(
				neg(hosted("a", "1.0.0")),
				neg(hosted("b", "1.0.0")),
				neg(hosted("c", "1.0.0")),
			),
			Expected: "one of a 1.0.0 or b 1.0.0 or c 1.0.0 must be true",
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Expected, tt.In.Explain(nil))
			assert.Equal(t, tt.Expected, tt.In.String())
		})
	}
}

func TestExplainDetails(t *testing.T) {
	type tc struct {
		Name     string
		In       *Incompatibility
		Details  map[Name]Detail
		Expected string
	}
	for _, tt := range []tc{
		{
			Name:     "non-default source always shown",
			In:       depends(rooted("app", "1.0.0"), fromSource("foo", "git", "^1.0.0")),
			Expected: "app depends on foo ^1.0.0 from git",
		},
		{
			Name:     "default source shown when hinted",
			In:       depends(rooted("app", "1.0.0"), hosted("foo", "^1.0.0")),
			Details:  map[Name]Detail{"foo": {ShowSource: true}},
			Expected: "app depends on foo ^1.0.0 from hosted",
		},
		{
			Name:     "ref form carries the source",
			In:       noVersionsOf(fromSource("foo", "git", "^2.0.0")),
			Expected: "no versions of foo from git match ^2.0.0",
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Expected, tt.In.Explain(tt.Details))
		})
	}
}

type bogusCause struct{}

func (bogusCause) isCause() {}

func TestExplainPanicsOnMalformedShapes(t *testing.T) {
	type tc struct {
		Name string
		In   *Incompatibility
	}
	for _, tt := range []tc{
		{
			Name: "dependency with one term",
			In:   NewIncompatibility([]Term{pos(hosted("foo", "^1.0.0"))}, DependencyCause{}),
		},
		{
			Name: "dependency with inverted polarity",
			In: NewIncompatibility([]Term{
				neg(hosted("foo", "^1.0.0")),
				pos(hosted("bar", "^1.0.0")),
			}, DependencyCause{}),
		},
		{
			Name: "sdk with a negative term",
			In:   NewIncompatibility([]Term{neg(hosted("foo", "^1.0.0"))}, SDKCause{}),
		},
		{
			Name: "no-versions with two terms",
			In: NewIncompatibility([]Term{
				pos(hosted("foo", "^1.0.0")),
				pos(hosted("bar", "^1.0.0")),
			}, NoVersionsCause{}),
		},
		{
			Name: "root with a positive term",
			In:   NewIncompatibility([]Term{pos(rooted("app", "1.0.0"))}, RootCause{}),
		},
		{
			Name: "unknown cause",
			In:   NewIncompatibility([]Term{pos(hosted("foo", "^1.0.0"))}, bogusCause{}),
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Panics(t, func() {
				_ = tt.In.Explain(nil)
			})
		})
	}
}

func TestExplainWith(t *testing.T) {
	type tc struct {
		Name      string
		In, Other *Incompatibility
		Line      int
		OtherLine int
		Expected  string
	}
	for _, tt := range []tc{
		{
			Name:     "merges sibling dependencies",
			In:       depends(rooted("app", "1.0.0"), hosted("foo", "^1.0.0")),
			Other:    depends(rooted("app", "1.0.0"), hosted("bar", "^2.0.0")),
			Expected: "app depends on both foo ^1.0.0 and bar ^2.0.0",
		},
		{
			Name:      "cites both sides of a merge",
			In:        depends(rooted("app", "1.0.0"), hosted("foo", "^1.0.0")),
			Other:     depends(rooted("app", "1.0.0"), hosted("bar", "^2.0.0")),
			Line:      1,
			OtherLine: 2,
			Expected:  "app depends on both foo ^1.0.0 (1) and bar ^2.0.0 (2)",
		},
		{
			Name:     "merge verb weakens for mixed causes",
			In:       depends(hosted("shared", "^1.0.0"), hosted("a", "^1.0.0")),
			Other:    derived(pos(hosted("shared", "^1.0.0")), neg(hosted("b", "^1.0.0"))),
			Expected: "shared ^1.0.0 requires both a ^1.0.0 and b ^1.0.0",
		},
		{
			Name:     "merge subject covers every version",
			In:       depends(hosted("shared", "*"), hosted("a", "^1.0.0")),
			Other:    depends(hosted("shared", "*"), hosted("b", "^1.0.0")),
			Expected: "every version of shared depends on both a ^1.0.0 and b ^1.0.0",
		},
		{
			Name:     "chains a dependency through its dependee",
			In:       depends(hosted("a", "^1.0.0"), hosted("b", "^2.0.0")),
			Other:    depends(hosted("b", "^2.0.0"), hosted("c", "^3.0.0")),
			Expected: "a ^1.0.0 depends on b ^2.0.0 which depends on c ^3.0.0",
		},
		{
			Name:     "chains regardless of argument order",
			In:       depends(hosted("b", "^2.0.0"), hosted("c", "^3.0.0")),
			Other:    depends(hosted("a", "^1.0.0"), hosted("b", "^2.0.0")),
			Expected: "a ^1.0.0 depends on b ^2.0.0 which depends on c ^3.0.0",
		},
		{
			Name:      "cites both steps of a chain",
			In:        depends(hosted("a", "^1.0.0"), hosted("b", "^2.0.0")),
			Other:     depends(hosted("b", "^2.0.0"), hosted("c", "^3.0.0")),
			Line:      1,
			OtherLine: 2,
			Expected:  "a ^1.0.0 depends on b ^2.0.0 (1) which depends on c ^3.0.0 (2)",
		},
		{
			Name:      "citations stay with their steps when reversed",
			In:        depends(hosted("b", "^2.0.0"), hosted("c", "^3.0.0")),
			Other:     depends(hosted("a", "^1.0.0"), hosted("b", "^2.0.0")),
			Line:      5,
			OtherLine: 7,
			Expected:  "a ^1.0.0 depends on b ^2.0.0 (7) which depends on c ^3.0.0 (5)",
		},
		{
			Name: "ors alternative priors in a chain",
			In: derived(
				pos(hosted("x", "^1.0.0")),
				pos(hosted("y", "^1.0.0")),
				neg(hosted("b", "^2.0.0")),
			),
			Other:    depends(hosted("b", "^2.0.0"), hosted("c", "^3.0.0")),
			Expected: "if x ^1.0.0 or y ^1.0.0 then b ^2.0.0 which depends on c ^3.0.0",
		},
		{
			Name:     "chain verb follows the latter cause",
			In:       depends(hosted("a", "^1.0.0"), hosted("b", "^2.0.0")),
			Other:    derived(pos(hosted("b", "^2.0.0")), neg(hosted("c", "^3.0.0"))),
			Expected: "a ^1.0.0 depends on b ^2.0.0 which requires c ^3.0.0",
		},
		{
			Name:     "chain subject verb follows the prior cause",
			In:       derived(pos(hosted("a", "^1.0.0")), neg(hosted("b", "^2.0.0"))),
			Other:    depends(hosted("b", "^2.0.0"), hosted("c", "^3.0.0")),
			Expected: "a ^1.0.0 requires b ^2.0.0 which depends on c ^3.0.0",
		},
		{
			Name:     "falls back to a plain conjunction",
			In:       depends(rooted("app", "1.0.0"), hosted("foo", "^1.0.0")),
			Other:    noVersionsOf(hosted("foo", "^1.0.0")),
			Expected: "app depends on foo ^1.0.0 and no versions of foo match ^1.0.0",
		},
		{
			Name:      "fallback cites inline",
			In:        depends(rooted("app", "1.0.0"), hosted("foo", "^1.0.0")),
			Other:     noVersionsOf(hosted("foo", "^1.0.0")),
			Line:      3,
			OtherLine: 4,
			Expected:  "app depends on foo ^1.0.0 3 and no versions of foo match ^1.0.0 4",
		},
		{
			Name:     "no chain without structural satisfaction",
			In:       depends(hosted("a", "^1.0.0"), hosted("b", ">=1.0.0 <2.5.0")),
			Other:    depends(hosted("b", "^1.5.0"), hosted("c", "^1.0.0")),
			Expected: "a ^1.0.0 depends on b >=1.0.0 <2.5.0 and b ^1.5.0 depends on c ^1.0.0",
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			got := tt.In.ExplainWith(tt.Other, nil, tt.Line, tt.OtherLine)
			assert.Equal(t, tt.Expected, got)
		})
	}
}
