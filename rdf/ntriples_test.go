package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNTriplesSerialize(t *testing.T) {
	g := NewGraph()
	node, err := NewBlankNode("n1")
	require.NoError(t, err)
	label, err := NewPlainLiteral("café \"quoted\"\n", "fr")
	require.NoError(t, err)
	age, err := NewTypedLiteral("42", XSDInteger)
	require.NoError(t, err)

	require.NoError(t, g.Add(alice, knows, node))
	require.NoError(t, g.Add(node, foafName, label))
	require.NoError(t, g.Add(node, iri("http://example.org/age"), age))

	want := "<http://example.org/alice> <http://xmlns.com/foaf/0.1/knows> _:n1 .\n" +
		`_:n1 <http://xmlns.com/foaf/0.1/name> "caf\u00E9 \"quoted\"\n"@FR .` + "\n" +
		`_:n1 <http://example.org/age> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .` + "\n"
	assert.Equal(t, want, serialize(t, FormatNTriples, g))
	assert.Empty(t, serialize(t, FormatNTriples, NewGraph()))
}

func TestNTriplesDeserialize(t *testing.T) {
	input := `# people
<http://example.org/alice> <http://xmlns.com/foaf/0.1/knows> _:b1 .

_:b1 <http://xmlns.com/foaf/0.1/name> "Bob"@en-GB . # trailing comment
_:b1 <http://example.org/note> "tab\there" .
<http://example.org/alice> <http://example.org/age> "30"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://example.org/café> <http://example.org/p> "\U0001F603" .
`
	g := deserialize(t, FormatNTriples, input)
	require.Equal(t, 5, g.Len())
	assert.Equal(t, DefaultContext, g.Context().Value)

	b1 := BlankNode{ID: "b1"}
	assert.Len(t, g.BySubject(b1), 2)
	assert.Len(t, g.ByLiteral(Literal{Lexical: "Bob", Lang: "EN-GB"}), 1)
	assert.Len(t, g.ByLiteral(Literal{Lexical: "tab\there"}), 1)
	assert.Len(t, g.ByLiteral(Literal{Lexical: "30", Datatype: XSDInteger.IRI()}), 1)
	assert.Len(t, g.BySubject(iri("http://example.org/café")), 1)
	assert.Len(t, g.ByLiteral(Literal{Lexical: "\U0001F603"}), 1)
}

func TestNTriplesRoundTrip(t *testing.T) {
	g := sampleGraph(t)
	text := serialize(t, FormatNTriples, g)
	back := deserialize(t, FormatNTriples, text)
	assert.True(t, g.Equal(back))
	assert.Equal(t, text, serialize(t, FormatNTriples, back))
}

func TestNTriplesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
		code  ErrorCode
	}{
		{"literal subject", `"x" <http://example.org/p> <http://example.org/o> .`, ErrSyntax, ErrCodeParseError},
		{"missing dot", `<http://example.org/s> <http://example.org/p> <http://example.org/o>`, ErrUnterminated, ErrCodeUnterminated},
		{"open IRI", `<http://example.org/s <http://example.org/p> <http://example.org/o> .`, ErrInvalidIRI, ErrCodeInvalidIRI},
		{"relative IRI", `<s> <http://example.org/p> <http://example.org/o> .`, ErrInvalidIRI, ErrCodeInvalidIRI},
		{"blank predicate", `<http://example.org/s> _:p <http://example.org/o> .`, ErrSyntax, ErrCodeParseError},
		{"open literal", `<http://example.org/s> <http://example.org/p> "open .`, ErrUnterminated, ErrCodeUnterminated},
		{"bad language", `<http://example.org/s> <http://example.org/p> "x"@ .`, ErrInvalidLanguageTag, ErrCodeInvalidLanguageTag},
		{"bad typed value", `<http://example.org/s> <http://example.org/p> "x"^^<http://www.w3.org/2001/XMLSchema#integer> .`, ErrInvalidLiteral, ErrCodeInvalidLiteral},
		{"trailing garbage", `<http://example.org/s> <http://example.org/p> <http://example.org/o> . extra`, ErrSyntax, ErrCodeParseError},
		{"bad blank label", `_:a~b <http://example.org/p> <http://example.org/o> .`, ErrBlankNodeSyntax, ErrCodeBlankNodeSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(FormatNTriples, strings.NewReader("\n"+tt.input+"\n"), testOptions()...)
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.code, Code(err))

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "ntriples", perr.Format)
			assert.Equal(t, 2, perr.Line)
			assert.Equal(t, tt.input, perr.Statement)
		})
	}
}

func TestNTriplesLineLimit(t *testing.T) {
	long := `<http://example.org/s> <http://example.org/p> "` + strings.Repeat("x", 100) + `" .`
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n" + long + "\n"

	_, err := Deserialize(FormatNTriples, strings.NewReader(input), testOptions(OptMaxLineBytes(80))...)
	require.ErrorIs(t, err, ErrLineTooLong)
	assert.Equal(t, ErrCodeLineTooLong, Code(err))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)

	g := deserialize(t, FormatNTriples, input, OptMaxLineBytes(0))
	assert.Equal(t, 2, g.Len())
}
