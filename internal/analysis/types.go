package analysis

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"pyshrink/internal/parser"
)

// Function is basic information about one function definition.
type Function struct {
	Name string
	LOC  int
	Line int
	Node *sitter.Node
}

func (f Function) String() string {
	return fmt.Sprintf("%d :: %s (%d LOC)", f.Line, f.Name, f.LOC)
}

func functionFromNode(t *parser.Tree, node *sitter.Node) Function {
	return Function{
		Name: t.Text(node.ChildByFieldName("name")),
		LOC:  parser.BodyLines(node),
		Line: parser.Line(node),
		Node: node,
	}
}

// CacheCandidate is a symbol or attribute lookup that can be cached.
type CacheCandidate struct {
	CacheString string
	Amount      int
}

func (c CacheCandidate) String() string {
	return fmt.Sprintf("%s (%dx)", c.CacheString, c.Amount)
}

// SymbolUsageInFunction counts how many times a symbol is used in a function.
type SymbolUsageInFunction struct {
	Func   Function
	Usages int
}

// Counter is a tally that remembers first-encounter order of its keys,
// so results derived from it stay deterministic.
type Counter struct {
	order  []string
	counts map[string]int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

func (c *Counter) Inc(key string) {
	c.Add(key, 1)
}

func (c *Counter) Add(key string, n int) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *Counter) Get(key string) int {
	return c.counts[key]
}

func (c *Counter) Has(key string) bool {
	_, ok := c.counts[key]
	return ok
}

func (c *Counter) Len() int {
	return len(c.order)
}

// Keys returns the tallied keys in first-encounter order.
func (c *Counter) Keys() []string {
	return c.order
}

// AttrLookup is one (base, attribute) pair with its occurrence count.
type AttrLookup struct {
	Base      string
	Attribute string
	Count     int
}

// attrTally counts attribute lookups keyed by (base, attribute),
// preserving first-encounter order.
type attrTally struct {
	order  []attrKey
	counts map[attrKey]int
}

type attrKey struct {
	base string
	attr string
}

func newAttrTally() *attrTally {
	return &attrTally{counts: make(map[attrKey]int)}
}

func (t *attrTally) inc(base, attr string) {
	key := attrKey{base, attr}
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

func (t *attrTally) items() []AttrLookup {
	out := make([]AttrLookup, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, AttrLookup{Base: key.base, Attribute: key.attr, Count: t.counts[key]})
	}
	return out
}
