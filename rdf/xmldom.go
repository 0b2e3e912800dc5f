package rdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// xmlNode is an element of a parsed XML document. Text holds the character
// data found directly inside the element.
type xmlNode struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*xmlNode
	Text     string
	Line     int
	Column   int
}

// parseXMLDocument reads a whole XML document and returns its root element.
func parseXMLDocument(format string, r io.Reader) (*xmlNode, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = true
	var root *xmlNode
	var stack []*xmlNode
	var text []*strings.Builder
	for {
		line, column := decoder.InputPos()
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				line = syntaxErr.Line
			}
			return nil, &ParseError{Format: format, Line: line, Offset: -1, Err: fmt.Errorf("%w: %v", ErrSyntax, err)}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{Name: t.Name, Attrs: append([]xml.Attr(nil), t.Attr...), Line: line, Column: column}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Format: format, Line: line, Column: column, Offset: -1, Err: fmt.Errorf("%w: multiple root elements", ErrSyntax)}
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			node := stack[len(stack)-1]
			node.Text = text[len(text)-1].String()
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}
	if root == nil {
		return nil, &ParseError{Format: format, Offset: -1, Err: fmt.Errorf("%w: document has no root element", ErrInvalidRoot)}
	}
	return root, nil
}

// attr returns the value of the attribute with the given namespace and local
// name.
func (n *xmlNode) attr(space, local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// rdfAttr looks up an RDF attribute written with the rdf namespace, with an
// undeclared rdf prefix, or unqualified.
func (n *xmlNode) rdfAttr(local string) (string, bool) {
	for _, space := range []string{rdfNS, "rdf", ""} {
		if v, ok := n.attr(space, local); ok {
			return v, true
		}
	}
	return "", false
}

// isRDF reports whether name is local in the RDF namespace, accepting the
// unprefixed and undeclared-prefix spellings.
func isRDF(name xml.Name, local string) bool {
	if name.Local != local {
		return false
	}
	return name.Space == rdfNS || name.Space == "rdf" || name.Space == ""
}

func (n *xmlNode) errorf(format string, sentinel error, msg string, args ...any) error {
	var existing *ParseError
	if errors.As(sentinel, &existing) {
		return sentinel
	}
	return &ParseError{
		Format: format,
		Line:   n.Line,
		Column: n.Column,
		Offset: -1,
		Err:    fmt.Errorf("%w: "+msg, append([]any{sentinel}, args...)...),
	}
}

var (
	xmlTextEscaper = strings.NewReplacer(
		`&`, "&amp;",
		`<`, "&lt;",
		`>`, "&gt;",
		"\r", "&#xD;",
	)
	xmlAttrEscaper = strings.NewReplacer(
		`&`, "&amp;",
		`<`, "&lt;",
		`>`, "&gt;",
		`"`, "&quot;",
		`'`, "&apos;",
		"\n", "&#xA;",
		"\r", "&#xD;",
		"\t", "&#x9;",
	)
)

func escapeXMLText(value string) string { return xmlTextEscaper.Replace(value) }

func escapeXMLAttr(value string) string { return xmlAttrEscaper.Replace(value) }
