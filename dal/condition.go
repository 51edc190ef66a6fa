package dal

import (
	"fmt"
	"strings"
)

// Cond is a WHERE predicate. Build one with Where/And (parameterized, the
// default) or Raw (verbatim text, the compatibility escape hatch).
type Cond interface {
	compile(g *paramGen) (string, Payload)
}

// paramGen hands out unique placeholder names so predicate parameters never
// collide with payload columns or with each other.
type paramGen struct {
	n int
}

func (g *paramGen) next(field string) string {
	name := fmt.Sprintf("w_%s_%d", strings.Map(identChar, field), g.n)
	g.n++
	return name
}

func identChar(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return r
	default:
		return '_'
	}
}

// rawCond is caller-supplied predicate text appended verbatim after WHERE.
type rawCond string

// Raw wraps raw predicate text. No escaping or parameterization is
// performed; this is a deliberate trust boundary kept for compatibility
// with statements that predate the structured predicate builder. Callers
// must pre-sanitize or parameterize values themselves; never interpolate
// untrusted input into a Raw condition. Prefer Where.
func Raw(condition string) Cond {
	return rawCond(condition)
}

func (c rawCond) compile(_ *paramGen) (string, Payload) {
	return string(c), nil
}

// fieldCond is a single field/operator/value predicate compiled to a
// %(name)s placeholder.
type fieldCond struct {
	field string
	op    string
	value any
}

// Where builds a parameterized predicate from a field, an operator and a
// value, e.g. Where("username", "=", name). This is the safe default path.
func Where(field, op string, value any) Cond {
	return fieldCond{field: field, op: op, value: value}
}

func (c fieldCond) compile(g *paramGen) (string, Payload) {
	name := g.next(c.field)
	return fmt.Sprintf("%s %s %%(%s)s", c.field, c.op, name), Payload{name: c.value}
}

// andCond joins predicates with AND.
type andCond []Cond

// And combines predicates; all must hold.
func And(conds ...Cond) Cond {
	return andCond(conds)
}

func (c andCond) compile(g *paramGen) (string, Payload) {
	parts := make([]string, 0, len(c))
	params := Payload{}
	for _, sub := range c {
		text, p := sub.compile(g)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		for k, v := range p {
			params[k] = v
		}
	}
	if len(params) == 0 {
		params = nil
	}
	return strings.Join(parts, " AND "), params
}

// compileCond resolves a possibly-nil condition to text and parameters.
func compileCond(c Cond) (string, Payload) {
	if c == nil {
		return "", nil
	}
	g := &paramGen{}
	return c.compile(g)
}
