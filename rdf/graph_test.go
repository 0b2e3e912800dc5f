package rdf

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice    = iri("http://example.org/alice")
	bob      = iri("http://example.org/bob")
	knows    = iri("http://xmlns.com/foaf/0.1/knows")
	foafName = iri("http://xmlns.com/foaf/0.1/name")
)

func sampleGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	aliceName, err := NewPlainLiteral("Alice", "en")
	require.NoError(t, err)
	require.NoError(t, g.Add(alice, knows, bob))
	require.NoError(t, g.Add(alice, foafName, aliceName))
	require.NoError(t, g.Add(bob, foafName, Literal{Lexical: "Bob"}))
	require.NoError(t, g.Add(bob, knows, alice))
	return g
}

func TestGraphAddIsSetLike(t *testing.T) {
	g := NewGraph()
	assert.Equal(t, DefaultContext, g.Context().Value)

	tr := Triple{S: alice, P: knows, O: bob}
	assert.True(t, g.AddTriple(tr))
	assert.False(t, g.AddTriple(tr), "duplicate")
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.ContainsTriple(tr))

	err := g.Add(Literal{Lexical: "x"}, knows, bob)
	assert.ErrorIs(t, err, ErrInvalidTerm)
	err = g.Add(alice, IRI{}, bob)
	assert.ErrorIs(t, err, ErrEmptyValue)
	assert.Equal(t, 1, g.Len())
}

func TestGraphInsertionOrder(t *testing.T) {
	g := sampleGraph(t)
	triples := g.Triples()
	require.Len(t, triples, 4)
	assert.Equal(t, Triple{S: alice, P: knows, O: bob}, triples[0])
	assert.Equal(t, Triple{S: bob, P: knows, O: alice}, triples[3])

	require.True(t, g.RemoveTriple(triples[1]))
	assert.False(t, g.RemoveTriple(triples[1]))
	assert.Equal(t, []Triple{triples[0], triples[2], triples[3]}, g.Triples())

	var visited []Triple
	g.Range(func(tr Triple) bool {
		visited = append(visited, tr)
		return len(visited) < 2
	})
	assert.Len(t, visited, 2)
}

func TestGraphSelect(t *testing.T) {
	g := sampleGraph(t)

	assert.Len(t, g.Select(nil, nil, nil), 4)
	assert.Len(t, g.BySubject(alice), 2)
	assert.Len(t, g.ByPredicate(foafName), 2)
	assert.Len(t, g.ByObject(bob), 1)
	assert.Len(t, g.ByLiteral(Literal{Lexical: "Bob"}), 1)
	assert.Empty(t, g.ByLiteral(Literal{Lexical: "Alice"}), "language differs")

	got := g.Select(bob, knows, nil)
	require.Len(t, got, 1)
	assert.Equal(t, alice, got[0].O)

	assert.Empty(t, g.Select(alice, knows, alice))
	assert.Empty(t, g.BySubject(iri("http://example.org/nobody")))
}

func TestGraphSelectAfterRemove(t *testing.T) {
	g := sampleGraph(t)
	g.RemoveTriple(Triple{S: alice, P: knows, O: bob})
	assert.Len(t, g.BySubject(alice), 1)
	assert.Empty(t, g.ByObject(bob))

	g.RebuildIndex()
	assert.Len(t, g.BySubject(alice), 1)
	assert.Len(t, g.ByPredicate(knows), 1)
}

func TestGraphEqualAndMerge(t *testing.T) {
	a := sampleGraph(t)
	b := sampleGraph(t)
	assert.True(t, a.Equal(b))

	b.SetContext(iri("http://example.org/graph"))
	assert.False(t, a.Equal(b), "context differs")
	b.SetContext(IRI{})
	assert.Equal(t, DefaultContext, b.Context().Value)
	assert.True(t, a.Equal(b))

	other := NewGraph()
	require.NoError(t, other.Add(alice, knows, alice))
	require.NoError(t, other.Add(alice, knows, bob))
	a.Merge(other)
	assert.Equal(t, 5, a.Len())
	assert.False(t, a.Equal(b))
	assert.Equal(t, fmt.Sprintf("graph <%s> (5 triples)", DefaultContext), a.String())
}

func TestGraphConcurrentAccess(t *testing.T) {
	g := NewGraph()
	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				o := Literal{Lexical: fmt.Sprintf("%d-%d", worker, i)}
				assert.NoError(t, g.Add(alice, foafName, o))
				g.ByPredicate(foafName)
			}
		}(worker)
	}
	wg.Wait()
	assert.Equal(t, 400, g.Len())
	assert.Len(t, g.BySubject(alice), 400)
}
