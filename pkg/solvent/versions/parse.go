package versions

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ParseConstraint parses the textual constraint grammar:
//
//	any, *           the full set
//	1.2.3, =1.2.3    an exact version
//	^1.2.3           at least 1.2.3, below the next breaking release
//	~1.2.3           at least 1.2.3, below the next minor release
//	>1.0.0 <=2.0.0   comparators, space-separated comparators intersect
//	<1.0.0 || ^2.0.0 alternatives joined with ||
func ParseConstraint(text string) (Constraint, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "*" || trimmed == "any" {
		return Any(), nil
	}
	var cs []Constraint
	for _, alt := range strings.Split(trimmed, "||") {
		c, err := parseAlternative(strings.TrimSpace(alt), text)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	if len(cs) == 1 {
		return cs[0], nil
	}
	return UnionOf(cs...), nil
}

// MustParseConstraint is ParseConstraint for trusted input. It panics on
// error.
func MustParseConstraint(text string) Constraint {
	c, err := ParseConstraint(text)
	if err != nil {
		panic(err)
	}
	return c
}

func parseAlternative(alt, full string) (Constraint, error) {
	if alt == "" {
		return nil, fmt.Errorf("invalid constraint %q: empty alternative", full)
	}
	result := Any()
	for _, tok := range strings.Fields(alt) {
		c, err := parseComparator(tok)
		if err != nil {
			return nil, err
		}
		result = result.Intersect(c)
	}
	return result, nil
}

func parseComparator(tok string) (Constraint, error) {
	op, rest := "", tok
	for _, prefix := range []string{">=", "<=", ">", "<", "^", "~", "="} {
		if strings.HasPrefix(tok, prefix) {
			op, rest = prefix, tok[len(prefix):]
			break
		}
	}
	v, err := ParseVersion(rest)
	if err != nil {
		return nil, fmt.Errorf("invalid constraint %q: %w", tok, err)
	}
	switch op {
	case "", "=":
		return Exact(v), nil
	case "^":
		return Caret(v), nil
	case "~":
		next := v.nextMinor()
		return NewRange(&v, &next, true, false), nil
	case ">":
		return NewRange(&v, nil, false, false), nil
	case ">=":
		return NewRange(&v, nil, true, false), nil
	case "<":
		return NewRange(nil, &v, false, false), nil
	case "<=":
		return NewRange(nil, &v, false, true), nil
	}
	panic("unreachable")
}

const parserCacheSize = 256

// Parser parses constraints through an LRU cache. Derivation files repeat
// the same handful of range strings many times over, so parse results are
// worth memoizing.
type Parser struct {
	cache *lru.Cache[string, Constraint]
}

func NewParser() *Parser {
	cache, err := lru.New[string, Constraint](parserCacheSize)
	if err != nil {
		// Only fails for a non-positive size.
		panic(err)
	}
	return &Parser{cache: cache}
}

func (p *Parser) Parse(text string) (Constraint, error) {
	if c, ok := p.cache.Get(text); ok {
		return c, nil
	}
	c, err := ParseConstraint(text)
	if err != nil {
		return nil, err
	}
	p.cache.Add(text, c)
	return c, nil
}
