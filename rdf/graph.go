package rdf

import (
	"fmt"
	"sync"
)

// Graph is an insertion-ordered set of triples with an optional context IRI.
// It is safe for concurrent use.
type Graph struct {
	mu      sync.RWMutex
	context IRI
	triples map[uint64]Triple
	order   []uint64
	index   *graphIndex
}

// NewGraph returns an empty graph named by DefaultContext.
func NewGraph() *Graph {
	return &Graph{
		context: IRI{Value: DefaultContext},
		triples: make(map[uint64]Triple),
		index:   newGraphIndex(),
	}
}

// SetContext names the graph. An empty IRI restores DefaultContext.
func (g *Graph) SetContext(context IRI) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if context.Value == "" {
		context = IRI{Value: DefaultContext}
	}
	g.context = context
}

// Context returns the IRI naming the graph.
func (g *Graph) Context() IRI {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.context
}

// AddTriple adds t and reports whether it was not already present.
func (g *Graph) AddTriple(t Triple) bool {
	h := t.Hash()
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.triples[h]; ok {
		return false
	}
	g.triples[h] = t
	g.order = append(g.order, h)
	g.index.add(t, h)
	return true
}

// Add validates the positions and adds the resulting triple.
func (g *Graph) Add(s Term, p IRI, o Term) error {
	t, err := NewTriple(s, p, o)
	if err != nil {
		return err
	}
	g.AddTriple(t)
	return nil
}

// RemoveTriple removes t and reports whether it was present.
func (g *Graph) RemoveTriple(t Triple) bool {
	h := t.Hash()
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.triples[h]; !ok {
		return false
	}
	delete(g.triples, h)
	for i, candidate := range g.order {
		if candidate == h {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.index.remove(t, h)
	return true
}

// ContainsTriple reports whether t is in the graph.
func (g *Graph) ContainsTriple(t Triple) bool {
	h := t.Hash()
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.triples[h]
	return ok
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Triples returns a snapshot of the triples in insertion order.
func (g *Graph) Triples() []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Triple, len(g.order))
	for i, h := range g.order {
		out[i] = g.triples[h]
	}
	return out
}

// Range calls fn for each triple in insertion order until fn returns false.
// fn runs on a snapshot and may mutate the graph.
func (g *Graph) Range(fn func(Triple) bool) {
	for _, t := range g.Triples() {
		if !fn(t) {
			return
		}
	}
}

// Select returns the triples matching a pattern in insertion order. A nil
// position matches anything.
func (g *Graph) Select(s, p, o Term) []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	set, bound := g.index.candidates(s, p, o)
	var out []Triple
	for _, h := range g.order {
		if bound {
			if _, ok := set[h]; !ok {
				continue
			}
		}
		t := g.triples[h]
		if matches(t, s, p, o) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t Triple, s, p, o Term) bool {
	return (s == nil || s == t.S) && (p == nil || p == Term(t.P)) && (o == nil || o == t.O)
}

// BySubject returns the triples whose subject is s.
func (g *Graph) BySubject(s Term) []Triple { return g.Select(s, nil, nil) }

// ByPredicate returns the triples whose predicate is p.
func (g *Graph) ByPredicate(p IRI) []Triple { return g.Select(nil, p, nil) }

// ByObject returns the triples whose object is the resource o.
func (g *Graph) ByObject(o Term) []Triple { return g.Select(nil, nil, o) }

// ByLiteral returns the triples whose object is the literal l.
func (g *Graph) ByLiteral(l Literal) []Triple { return g.Select(nil, nil, l) }

// RebuildIndex recomputes the index from the triple table.
func (g *Graph) RebuildIndex() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.index = newGraphIndex()
	for _, h := range g.order {
		g.index.add(g.triples[h], h)
	}
}

// Merge adds every triple of other to g.
func (g *Graph) Merge(other *Graph) {
	for _, t := range other.Triples() {
		g.AddTriple(t)
	}
}

// Equal reports whether both graphs hold the same triples under the same
// context. Blank nodes are compared by identifier.
func (g *Graph) Equal(other *Graph) bool {
	if g.Context() != other.Context() || g.Len() != other.Len() {
		return false
	}
	for _, t := range other.Triples() {
		if !g.ContainsTriple(t) {
			return false
		}
	}
	return true
}

// String summarizes the graph.
func (g *Graph) String() string {
	return fmt.Sprintf("graph <%s> (%d triples)", g.Context().Value, g.Len())
}
