package rdf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXMLDocumentNestedText(t *testing.T) {
	const depth = 40
	var doc strings.Builder
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&doc, "%s<level n=\"%d\">text %d\n", strings.Repeat("  ", i), i, i)
	}
	for i := depth - 1; i >= 0; i-- {
		fmt.Fprintf(&doc, "%s tail %d</level>\n", strings.Repeat("  ", i), i)
	}

	root, err := parseXMLDocument("test", strings.NewReader(doc.String()))
	require.NoError(t, err)

	node := root
	for i := 0; i < depth; i++ {
		require.Equal(t, "level", node.Name.Local)
		n, ok := node.attr("", "n")
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), n)
		assert.True(t, strings.HasPrefix(node.Text, fmt.Sprintf("text %d\n", i)), node.Text)
		assert.Contains(t, node.Text, fmt.Sprintf("tail %d", i))
		if i < depth-1 {
			require.Len(t, node.Children, 1)
			node = node.Children[0]
		}
	}
}

func TestParseXMLDocumentSiblingsKeepOwnText(t *testing.T) {
	input := `<root>
  <a>one<inner>deep</inner>two</a>
  <b>three</b>
</root>`
	root, err := parseXMLDocument("test", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "onetwo", root.Children[0].Text)
	assert.Equal(t, "deep", root.Children[0].Children[0].Text)
	assert.Equal(t, "three", root.Children[1].Text)
	assert.Equal(t, "\n  \n  \n", root.Text)
}

func TestParseXMLDocumentErrors(t *testing.T) {
	_, err := parseXMLDocument("test", strings.NewReader("<a></b>"))
	assert.ErrorIs(t, err, ErrSyntax)

	_, err = parseXMLDocument("test", strings.NewReader("  "))
	assert.ErrorIs(t, err, ErrInvalidRoot)
}
