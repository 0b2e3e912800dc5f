package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerTriples(t *testing.T) {
	node, err := NewBlankNode("bag")
	require.NoError(t, err)
	c := &Container{Kind: Bag, Node: node}
	c.Add(alice)
	c.Add(bob)
	c.Add(alice)

	triples := c.Triples()
	require.Len(t, triples, 4)
	assert.Equal(t, Triple{S: node, P: RDFType, O: RDFBag}, triples[0])
	assert.Equal(t, ContainerMember(1), triples[1].P)
	assert.Equal(t, rdfNS+"_3", triples[3].P.Value)
	assert.Equal(t, "Bag", Bag.String())
}

func TestAltDropsDuplicates(t *testing.T) {
	c := NewContainer(Alt)
	c.Add(alice)
	c.Add(bob)
	c.Add(alice)
	assert.Equal(t, []Term{alice, bob}, c.Items)
	assert.Equal(t, RDFAlt, c.Kind.IRI())
}

func TestGraphContainerRoundTrip(t *testing.T) {
	g := NewGraph()
	c := NewContainer(Seq)
	for _, item := range []Term{bob, alice, Literal{Lexical: "third"}} {
		c.Add(item)
	}
	node := g.AddContainer(c)
	require.NoError(t, g.Add(alice, knows, node))

	got, ok := g.Container(node)
	require.True(t, ok)
	assert.Equal(t, Seq, got.Kind)
	assert.Equal(t, c.Items, got.Items)

	_, ok = g.Container(alice)
	assert.False(t, ok)
}

func TestGraphContainerOrdersByIndex(t *testing.T) {
	g := NewGraph()
	node := NewAnonymousBlankNode()
	require.NoError(t, g.Add(node, ContainerMember(2), bob))
	require.NoError(t, g.Add(node, ContainerMember(1), alice))
	require.NoError(t, g.Add(node, RDFType, RDFBag))

	got, ok := g.Container(node)
	require.True(t, ok)
	assert.Equal(t, []Term{alice, bob}, got.Items)
}

func TestCollection(t *testing.T) {
	g := NewGraph()
	c := NewCollection(alice, bob)
	c.Typed = true
	head := g.AddCollection(c)
	assert.Equal(t, c.Node, head)
	assert.Len(t, g.ByPredicate(RDFFirst), 2)
	assert.Len(t, g.Select(nil, RDFType, RDFList), 2)
	assert.Len(t, g.Select(nil, RDFRest, RDFNil), 1)

	got, ok := g.Collection(head)
	require.True(t, ok)
	assert.Equal(t, []Term{alice, bob}, got.Items)
	assert.True(t, got.Typed)

	empty := NewCollection()
	assert.Equal(t, Term(RDFNil), g.AddCollection(empty))
	assert.Empty(t, empty.Triples())
}

func TestCollectionRejectsBrokenChains(t *testing.T) {
	g := NewGraph()
	cell := NewAnonymousBlankNode()
	require.NoError(t, g.Add(cell, RDFFirst, alice))
	_, ok := g.Collection(cell)
	assert.False(t, ok, "missing rdf:rest")

	require.NoError(t, g.Add(cell, RDFRest, cell))
	_, ok = g.Collection(cell)
	assert.False(t, ok, "cycle")
}
