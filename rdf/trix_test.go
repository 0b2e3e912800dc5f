package rdf

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriXSerializeEmptyGraph(t *testing.T) {
	want := `<?xml version="1.0" encoding="UTF-8"?>
<TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/">
  <graph>
    <uri>http://www.geoknoesis.com/rdfgraph/default/</uri>
  </graph>
</TriX>
`
	assert.Equal(t, want, serialize(t, FormatTriX, NewGraph()))
}

func TestTriXSerializeTerms(t *testing.T) {
	g := NewGraph()
	g.SetContext(iri("http://example.org/graph?a=1&b=2"))
	node, err := NewBlankNode("n1")
	require.NoError(t, err)
	require.NoError(t, g.Add(alice, knows, node))
	require.NoError(t, g.Add(node, foafName, Literal{Lexical: "a < b & c", Lang: "EN"}))
	require.NoError(t, g.Add(node, iri("http://example.org/age"), Literal{Lexical: "42", Datatype: XSDInteger.IRI()}))

	want := `<?xml version="1.0" encoding="UTF-8"?>
<TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/">
  <graph>
    <uri>http://example.org/graph?a=1&amp;b=2</uri>
    <triple>
      <uri>http://example.org/alice</uri>
      <uri>http://xmlns.com/foaf/0.1/knows</uri>
      <id>bnode:n1</id>
    </triple>
    <triple>
      <id>bnode:n1</id>
      <uri>http://xmlns.com/foaf/0.1/name</uri>
      <plainLiteral xml:lang="EN">a &lt; b &amp; c</plainLiteral>
    </triple>
    <triple>
      <id>bnode:n1</id>
      <uri>http://example.org/age</uri>
      <typedLiteral datatype="http://www.w3.org/2001/XMLSchema#integer">42</typedLiteral>
    </triple>
  </graph>
</TriX>
`
	out := serialize(t, FormatTriX, g)
	assert.Equal(t, want, out)

	back := deserialize(t, FormatTriX, out)
	assert.True(t, g.Equal(back))
}

func TestTriXDeserialize(t *testing.T) {
	input := `<?xml version="1.0"?>
<!-- two graphs -->
<TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/">
  <graph>
    <uri>http://example.org/first</uri>
    <triple>
      <uri>http://example.org/alice</uri>
      <uri>http://xmlns.com/foaf/0.1/name</uri>
      <plainLiteral xml:lang="en">  Alice  </plainLiteral>
    </triple>
  </graph>
  <graph>
    <uri>http://example.org/second</uri>
    <triple>
      <id>_:b1</id>
      <uri>http://example.org/flag</uri>
      <typedLiteral datatype="http://www.w3.org/2001/XMLSchema#boolean">true</typedLiteral>
    </triple>
  </graph>
</TriX>`
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	g := deserialize(t, FormatTriX, input, OptLogger(logger))

	assert.Equal(t, "http://example.org/first", g.Context().Value)
	assert.Equal(t, 2, g.Len())
	assert.Len(t, g.ByLiteral(Literal{Lexical: "  Alice  ", Lang: "EN"}), 1)
	assert.Len(t, g.Select(BlankNode{ID: "b1"}, nil, Literal{Lexical: "true", Datatype: XSDBoolean.IRI()}), 1)
	assert.Contains(t, logs.String(), "merging TriX graphs into one")

	g = deserialize(t, FormatTriX, input, OptGraphContext("http://example.org/override"))
	assert.Equal(t, "http://example.org/override", g.Context().Value)
}

func TestTriXUnnamedGraph(t *testing.T) {
	input := `<TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/"><graph>
<triple><uri>http://example.org/s</uri><uri>http://example.org/p</uri><uri>http://example.org/o</uri></triple>
</graph></TriX>`
	g := deserialize(t, FormatTriX, input)
	assert.Equal(t, DefaultContext, g.Context().Value)
	assert.Equal(t, 1, g.Len())
}

func TestTriXErrors(t *testing.T) {
	const open = `<TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/"><graph><triple>`
	const closing = `</triple></graph></TriX>`
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty document", "", ErrInvalidRoot},
		{"graph name not an iri", `<TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/"><graph><uri>not an iri</uri></graph></TriX>`, ErrInvalidIRI},
		{"relative graph name", `<TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/"><graph><uri>graphs/g1</uri></graph></TriX>`, ErrInvalidIRI},
		{"lowercase root", `<trix xmlns="http://www.w3.org/2004/03/trix/trix-1/"/>`, ErrInvalidRoot},
		{"truncated namespace", `<TriX xmlns="http://www.w3.org/2004/03"/>`, ErrInvalidNamespace},
		{"no namespace", `<TriX/>`, ErrInvalidNamespace},
		{"malformed xml", `<TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/"><graph></TriX>`, ErrSyntax},
		{"two terms", open + `<uri>http://example.org/s</uri><uri>http://example.org/p</uri>` + closing, ErrSyntax},
		{"literal predicate", open + `<uri>http://example.org/s</uri><plainLiteral>p</plainLiteral><uri>http://example.org/o</uri>` + closing, ErrInvalidTerm},
		{"literal subject", open + `<plainLiteral>s</plainLiteral><uri>http://example.org/p</uri><uri>http://example.org/o</uri>` + closing, ErrInvalidTerm},
		{"relative uri", open + `<uri>s</uri><uri>http://example.org/p</uri><uri>http://example.org/o</uri>` + closing, ErrInvalidIRI},
		{"bad blank node", open + `<id>bnode:a b</id><uri>http://example.org/p</uri><uri>http://example.org/o</uri>` + closing, ErrBlankNodeSyntax},
		{"unknown element", open + `<uri>http://example.org/s</uri><uri>http://example.org/p</uri><literal>o</literal>` + closing, ErrSyntax},
		{"typed literal without datatype", open + `<uri>http://example.org/s</uri><uri>http://example.org/p</uri><typedLiteral>1</typedLiteral>` + closing, ErrEmptyValue},
		{"invalid typed value", open + `<uri>http://example.org/s</uri><uri>http://example.org/p</uri><typedLiteral datatype="http://www.w3.org/2001/XMLSchema#integer">one</typedLiteral>` + closing, ErrInvalidLiteral},
		{"bad language", open + `<uri>http://example.org/s</uri><uri>http://example.org/p</uri><plainLiteral xml:lang="e n">o</plainLiteral>` + closing, ErrInvalidLanguageTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(FormatTriX, strings.NewReader(tt.input), testOptions()...)
			require.ErrorIs(t, err, tt.err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "trix", perr.Format)
		})
	}
}
