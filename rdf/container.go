package rdf

import (
	"sort"
	"strconv"
	"strings"
)

// ContainerKind distinguishes the RDF container types.
type ContainerKind uint8

const (
	// Bag is an unordered container.
	Bag ContainerKind = iota
	// Seq is an ordered container.
	Seq
	// Alt is a set of alternatives; duplicate items are dropped.
	Alt
)

// IRI returns rdf:Bag, rdf:Seq or rdf:Alt.
func (k ContainerKind) IRI() IRI {
	switch k {
	case Seq:
		return RDFSeq
	case Alt:
		return RDFAlt
	default:
		return RDFBag
	}
}

func (k ContainerKind) String() string {
	return strings.TrimPrefix(k.IRI().Value, rdfNS)
}

func containerKindOf(t Term) (ContainerKind, bool) {
	switch t {
	case RDFBag:
		return Bag, true
	case RDFSeq:
		return Seq, true
	case RDFAlt:
		return Alt, true
	}
	return Bag, false
}

// ContainerMember returns the membership predicate rdf:_n.
func ContainerMember(n int) IRI {
	return IRI{Value: rdfNS + "_" + strconv.Itoa(n)}
}

// memberIndex parses the position out of an rdf:_n predicate.
func memberIndex(p IRI) (int, bool) {
	rest, ok := strings.CutPrefix(p.Value, rdfNS+"_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Container is a Bag, Seq or Alt anchored at Node.
type Container struct {
	Kind  ContainerKind
	Node  Term
	Items []Term
}

// NewContainer returns an empty container anchored at a fresh blank node.
func NewContainer(kind ContainerKind) *Container {
	return &Container{Kind: kind, Node: NewAnonymousBlankNode()}
}

// Add appends item. Alt containers ignore items they already hold.
func (c *Container) Add(item Term) {
	if c.Kind == Alt {
		for _, existing := range c.Items {
			if existing == item {
				return
			}
		}
	}
	c.Items = append(c.Items, item)
}

// Triples reifies the container as an rdf:type triple followed by one rdf:_n
// triple per item.
func (c *Container) Triples() []Triple {
	out := make([]Triple, 0, len(c.Items)+1)
	out = append(out, Triple{S: c.Node, P: RDFType, O: c.Kind.IRI()})
	for i, item := range c.Items {
		out = append(out, Triple{S: c.Node, P: ContainerMember(i + 1), O: item})
	}
	return out
}

// Collection is an RDF list anchored at Node. When Typed is set each cell
// also carries rdf:type rdf:List.
type Collection struct {
	Node  Term
	Items []Term
	Typed bool
}

// NewCollection returns a collection over items anchored at a fresh blank node.
func NewCollection(items ...Term) *Collection {
	return &Collection{Node: NewAnonymousBlankNode(), Items: items}
}

// Head returns the term that stands for the list: its first cell, or rdf:nil
// when the list is empty.
func (c *Collection) Head() Term {
	if len(c.Items) == 0 {
		return RDFNil
	}
	return c.Node
}

// Triples reifies the collection as rdf:first/rdf:rest cells ending in rdf:nil.
func (c *Collection) Triples() []Triple {
	var out []Triple
	cell := c.Node
	for i, item := range c.Items {
		var next Term = RDFNil
		if i+1 < len(c.Items) {
			next = NewAnonymousBlankNode()
		}
		if c.Typed {
			out = append(out, Triple{S: cell, P: RDFType, O: RDFList})
		}
		out = append(out,
			Triple{S: cell, P: RDFFirst, O: item},
			Triple{S: cell, P: RDFRest, O: next},
		)
		cell = next
	}
	return out
}

// AddContainer materializes c into the graph and returns its anchor node.
func (g *Graph) AddContainer(c *Container) Term {
	if c.Node == nil {
		c.Node = NewAnonymousBlankNode()
	}
	for _, t := range c.Triples() {
		g.AddTriple(t)
	}
	return c.Node
}

// AddCollection materializes c into the graph and returns its head.
func (g *Graph) AddCollection(c *Collection) Term {
	if c.Node == nil {
		c.Node = NewAnonymousBlankNode()
	}
	for _, t := range c.Triples() {
		g.AddTriple(t)
	}
	return c.Head()
}

// Container reconstructs the container anchored at node, if node carries an
// rdf:type of rdf:Bag, rdf:Seq or rdf:Alt.
func (g *Graph) Container(node Term) (*Container, bool) {
	c := &Container{Node: node}
	found := false
	type member struct {
		n    int
		item Term
	}
	var members []member
	for _, t := range g.BySubject(node) {
		if t.P == RDFType {
			if kind, ok := containerKindOf(t.O); ok && !found {
				c.Kind, found = kind, true
			}
			continue
		}
		if n, ok := memberIndex(t.P); ok {
			members = append(members, member{n: n, item: t.O})
		}
	}
	if !found {
		return nil, false
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].n < members[j].n })
	for _, m := range members {
		c.Add(m.item)
	}
	return c, true
}

// Collection walks the rdf:first/rdf:rest chain starting at node. It fails
// when a cell is missing rdf:first or rdf:rest, or when the chain loops.
func (g *Graph) Collection(node Term) (*Collection, bool) {
	c := &Collection{Node: node, Typed: true}
	seen := make(map[Term]bool)
	for cell := node; cell != Term(RDFNil); {
		if seen[cell] {
			return nil, false
		}
		seen[cell] = true
		first := g.Select(cell, RDFFirst, nil)
		rest := g.Select(cell, RDFRest, nil)
		if len(first) != 1 || len(rest) != 1 {
			return nil, false
		}
		if len(g.Select(cell, RDFType, RDFList)) == 0 {
			c.Typed = false
		}
		c.Items = append(c.Items, first[0].O)
		cell = rest[0].O
	}
	if len(c.Items) == 0 {
		c.Typed = false
	}
	return c, true
}
