package rdf

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"nt":        FormatNTriples,
		"N-Triples": FormatNTriples,
		" ttl ":     FormatTurtle,
		"TriX":      FormatTriX,
		"rdf/xml":   FormatRDFXML,
		"owl":       FormatRDFXML,
		"json-ld":   FormatJSONLD,
	}
	for input, want := range tests {
		got, ok := ParseFormat(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}
	_, ok := ParseFormat("n3")
	assert.False(t, ok)
}

func TestFormatMetadata(t *testing.T) {
	for _, format := range Formats() {
		assert.NotEmpty(t, format.Extension(), format)
		assert.NotEmpty(t, format.ContentType(), format)

		fromPath, err := FormatFromPath("data/file" + strings.ToUpper(format.Extension()))
		require.NoError(t, err)
		assert.Equal(t, format, fromPath)

		fromType, err := FormatFromContentType(format.ContentType() + "; charset=utf-8")
		require.NoError(t, err)
		assert.Equal(t, format, fromType)
	}

	_, err := FormatFromPath("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatFromContentType("text/html")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, Format("n3").Extension())
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{"jsonld object", `  {"@id": "http://example.org/a"}`, FormatJSONLD},
		{"trix", `<?xml version="1.0"?><TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/"/>`, FormatTriX},
		{"rdfxml", `<?xml version="1.0"?><rdf:RDF/>`, FormatRDFXML},
		{"rdfxml without declaration", `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/>`, FormatRDFXML},
		{"turtle prefix", "@prefix ex: <http://example.org/>.", FormatTurtle},
		{"sparql prefix", "PREFIX ex: <http://example.org/>", FormatTurtle},
		{"turtle prefixed names", "ex:a ex:b ex:c .", FormatTurtle},
		{"ntriples", "# c\n<http://example.org/a> <http://example.org/b> \"c\" .\n_:x <http://example.org/b> <http://example.org/c> .", FormatNTriples},
		{"turtle property list", "<http://example.org/a> <http://example.org/b> [ <http://example.org/c> <http://example.org/d> ] .", FormatTurtle},
		{"bom", "\ufeff<http://example.org/a> <http://example.org/b> <http://example.org/c> .", FormatNTriples},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, replay, ok := DetectFormat(strings.NewReader(tt.input))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)

			data, err := io.ReadAll(replay)
			require.NoError(t, err)
			assert.Equal(t, tt.input, string(data), "replay returns the sampled bytes")
		})
	}

	_, _, ok := DetectFormat(strings.NewReader("   "))
	assert.False(t, ok)
	_, _, ok = DetectFormat(strings.NewReader("plain words only"))
	assert.False(t, ok)
}

func TestDetectFormatLongInput(t *testing.T) {
	line := "<http://example.org/a> <http://example.org/b> <http://example.org/c> .\n"
	input := strings.Repeat(line, 50)
	got, replay, ok := DetectFormat(strings.NewReader(input))
	require.True(t, ok)
	assert.Equal(t, FormatNTriples, got)

	g, err := Deserialize(got, replay, testOptions()...)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}
