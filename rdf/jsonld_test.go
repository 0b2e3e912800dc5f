package rdf

import (
	"encoding/json"
	"strings"
	"testing"

	ld "github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLDDeserialize(t *testing.T) {
	input := `{
  "@context": {
    "@base": "http://example.org/doc",
    "foaf": "http://xmlns.com/foaf/0.1/",
    "age": {"@id": "http://example.org/age", "@type": "http://www.w3.org/2001/XMLSchema#integer"}
  },
  "@id": "alice",
  "foaf:name": {"@value": "Alice", "@language": "en"},
  "foaf:nick": {"@value": "ali", "@type": "http://www.w3.org/2001/XMLSchema#string"},
  "age": "42",
  "foaf:knows": {"@id": "bob"}
}`
	g := deserialize(t, FormatJSONLD, input)
	assert.Equal(t, "http://example.org/doc", g.Context().Value)
	assert.Equal(t, 4, g.Len())

	assert.Len(t, g.Select(alice, foafName, Literal{Lexical: "Alice", Lang: "EN"}), 1)
	assert.Len(t, g.Select(alice, iri("http://xmlns.com/foaf/0.1/nick"), Literal{Lexical: "ali"}), 1)
	assert.Len(t, g.Select(alice, iri("http://example.org/age"), Literal{Lexical: "42", Datatype: XSDInteger.IRI()}), 1)
	assert.Len(t, g.Select(alice, knows, bob), 1)

	g = deserialize(t, FormatJSONLD, input, OptGraphContext("http://example.org/override"))
	assert.Equal(t, "http://example.org/override", g.Context().Value)
	assert.Len(t, g.Select(alice, knows, bob), 1, "the document base still resolves relative IRIs")
}

func TestJSONLDDeserializeNamedGraphsMerge(t *testing.T) {
	input := `{
  "@context": {"ex": "http://example.org/"},
  "@graph": [
    {"@id": "ex:g1", "@graph": [{"@id": "ex:a", "ex:p": {"@id": "ex:b"}}]},
    {"@id": "ex:c", "ex:p": {"@id": "ex:d"}}
  ]
}`
	g := deserialize(t, FormatJSONLD, input)
	assert.Equal(t, DefaultContext, g.Context().Value)
	assert.Len(t, g.ByPredicate(iri("http://example.org/p")), 2)
}

func TestJSONLDErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"not json", `{"@id": `, ErrSyntax},
		{"relative base", `{"@context": {"@base": "docs/"}, "@id": "a", "http://example.org/p": "v"}`, ErrInvalidIRI},
		{"remote context", `{"@context": "http://example.org/context.jsonld", "@id": "http://example.org/a"}`, ErrSyntax},
		{"invalid typed value", `{"@id": "http://example.org/a", "http://example.org/n": {"@value": "x", "@type": "http://www.w3.org/2001/XMLSchema#integer"}}`, ErrInvalidLiteral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(FormatJSONLD, strings.NewReader(tt.input), testOptions()...)
			require.ErrorIs(t, err, tt.err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "jsonld", perr.Format)
		})
	}
}

func TestJSONLDSerializeCompact(t *testing.T) {
	g := sampleGraph(t)
	g.SetContext(iri("http://example.org/people"))
	out := serialize(t, FormatJSONLD, g)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	context, ok := doc["@context"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "http://example.org/people", context["@base"])
	assert.Equal(t, "http://xmlns.com/foaf/0.1/", context["foaf"])
	assert.NotContains(t, context, "rdf", "unused prefixes are left out")
	assert.Contains(t, out, `"foaf:name"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))

	back := deserialize(t, FormatJSONLD, out)
	assert.True(t, g.Equal(back))
}

func TestJSONLDSerializeExpanded(t *testing.T) {
	g := sampleGraph(t)
	out := serialize(t, FormatJSONLD, g, OptJSONLDCompact(false))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "@graph")
	assert.Equal(t, map[string]interface{}{"@base": DefaultContext}, doc["@context"])
	assert.Contains(t, out, `"http://xmlns.com/foaf/0.1/name"`)

	back := deserialize(t, FormatJSONLD, out)
	assert.True(t, g.Equal(back))
}

func TestJSONLDBlankNodesAreRelabeled(t *testing.T) {
	g := NewGraph()
	node := BlankNode{ID: "person"}
	require.NoError(t, g.Add(alice, knows, node))
	require.NoError(t, g.Add(node, foafName, Literal{Lexical: "Someone"}))
	require.NoError(t, g.Add(node, iri("http://example.org/age"), Literal{Lexical: "7", Datatype: XSDInteger.IRI()}))

	back := deserialize(t, FormatJSONLD, serialize(t, FormatJSONLD, g))
	same, err := Isomorphic(g, back)
	require.NoError(t, err)
	assert.True(t, same)
	assert.Equal(t, 3, back.Len())
}

func TestIsomorphic(t *testing.T) {
	build := func(id string, label string) *Graph {
		g := NewGraph()
		node := BlankNode{ID: id}
		require.NoError(t, g.Add(alice, knows, node))
		require.NoError(t, g.Add(node, foafName, Literal{Lexical: label}))
		return g
	}
	a := build("x", "Bob")
	b := build("y", "Bob")
	c := build("x", "Carol")

	assert.False(t, a.Equal(b))
	same, err := Isomorphic(a, b)
	require.NoError(t, err)
	assert.True(t, same)

	same, err = Isomorphic(a, c)
	require.NoError(t, err)
	assert.False(t, same)

	canonical, err := Canonicalize(a)
	require.NoError(t, err)
	assert.Contains(t, canonical, "_:c14n0")
}

func TestFromLDNode(t *testing.T) {
	registry := NewRegistry()
	literal := ld.NewLiteral("5", "http://www.w3.org/2001/XMLSchema#integer", "")
	tests := []struct {
		name string
		node ld.Node
		want Term
	}{
		{"iri", ld.NewIRI("http://example.org/a"), iri("http://example.org/a")},
		{"iri pointer", &ld.IRI{Value: "http://example.org/a"}, iri("http://example.org/a")},
		{"blank node", ld.NewBlankNode("_:b0"), BlankNode{ID: "b0"}},
		{"blank node pointer", &ld.BlankNode{Attribute: "_:b1"}, BlankNode{ID: "b1"}},
		{"typed literal", literal, Literal{Lexical: "5", Datatype: XSDInteger.IRI()}},
		{"typed literal pointer", &literal, Literal{Lexical: "5", Datatype: XSDInteger.IRI()}},
		{"string literal", ld.NewLiteral("x", "", ""), Literal{Lexical: "x"}},
		{"language literal", ld.NewLiteral("x", rdfNS+"langString", "de"), Literal{Lexical: "x", Lang: "DE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fromLDNode(tt.node, registry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := fromLDNode(nil, registry)
	assert.ErrorIs(t, err, ErrInvalidTerm)
}

func TestJSONLDLiteralsFromIndentedDocument(t *testing.T) {
	input := `[
  {
    "@id": "http://example.org/alice",
    "http://xmlns.com/foaf/0.1/name": [
      {"@value": "Alice", "@language": "en"},
      {"@value": "Al"}
    ],
    "http://example.org/born": [
      {"@value": "1990-01-01T00:00:00Z", "@type": "http://www.w3.org/2001/XMLSchema#dateTime"}
    ],
    "http://example.org/active": [{"@value": true}],
    "http://example.org/score": [{"@value": 12}]
  }
]`
	g := deserialize(t, FormatJSONLD, input)
	assert.Equal(t, 5, g.Len())
	assert.Len(t, g.ByLiteral(Literal{Lexical: "Alice", Lang: "EN"}), 1)
	assert.Len(t, g.ByLiteral(Literal{Lexical: "Al"}), 1)
	assert.Len(t, g.ByLiteral(Literal{Lexical: "1990-01-01T00:00:00Z", Datatype: XSDDateTime.IRI()}), 1)
	assert.Len(t, g.ByLiteral(Literal{Lexical: "true", Datatype: XSDBoolean.IRI()}), 1)
	assert.Len(t, g.ByLiteral(Literal{Lexical: "12", Datatype: XSDInteger.IRI()}), 1)
}
