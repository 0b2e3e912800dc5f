package rdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// TriXNamespace is the namespace of the TriX root element.
const TriXNamespace = "http://www.w3.org/2004/03/trix/trix-1/"

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

type trixCodec struct {
	opts Options
}

func (c *trixCodec) Format() Format { return FormatTriX }

// Serialize writes g as a single TriX graph named by its context.
func (c *trixCodec) Serialize(w io.Writer, g *Graph) error {
	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration + "\n")
	buf.WriteString(`<TriX xmlns="` + TriXNamespace + `">` + "\n")
	buf.WriteString("  <graph>\n")
	buf.WriteString("    <uri>" + escapeXMLText(g.Context().Value) + "</uri>\n")
	for _, t := range g.Triples() {
		buf.WriteString("    <triple>\n")
		for _, term := range []Term{t.S, t.P, t.O} {
			buf.WriteString("      ")
			writeTriXTerm(&buf, term)
			buf.WriteByte('\n')
		}
		buf.WriteString("    </triple>\n")
	}
	buf.WriteString("  </graph>\n")
	buf.WriteString("</TriX>\n")
	c.opts.Logger.Debug("serialized graph", "format", FormatTriX, "triples", g.Len(), "context", g.Context().Value)
	return writeAll(w, buf.Bytes())
}

func writeTriXTerm(buf *bytes.Buffer, term Term) {
	switch v := term.(type) {
	case IRI:
		buf.WriteString("<uri>" + escapeXMLText(v.Value) + "</uri>")
	case BlankNode:
		buf.WriteString("<id>" + v.URI() + "</id>")
	case Literal:
		switch {
		case v.IsTyped():
			fmt.Fprintf(buf, `<typedLiteral datatype="%s">%s</typedLiteral>`, escapeXMLAttr(v.Datatype.Value), escapeXMLText(v.Lexical))
		case v.Lang != "":
			fmt.Fprintf(buf, `<plainLiteral xml:lang="%s">%s</plainLiteral>`, escapeXMLAttr(v.Lang), escapeXMLText(v.Lexical))
		default:
			buf.WriteString("<plainLiteral>" + escapeXMLText(v.Lexical) + "</plainLiteral>")
		}
	}
}

// Deserialize reads a TriX document. Several graphs are merged into one; the
// first graph name becomes the context.
func (c *trixCodec) Deserialize(r io.Reader) (*Graph, error) {
	root, err := parseXMLDocument("trix", r)
	if err != nil {
		return nil, err
	}
	if root.Name.Local != "TriX" {
		return nil, root.errorf("trix", ErrInvalidRoot, "expected <TriX>, found <%s>", root.Name.Local)
	}
	if root.Name.Space != TriXNamespace {
		return nil, root.errorf("trix", ErrInvalidNamespace, "expected %q, found %q", TriXNamespace, root.Name.Space)
	}

	builder := newGraphBuilder(c.opts)
	graphs := 0
	for _, graphNode := range root.Children {
		if graphNode.Name.Local != "graph" {
			continue
		}
		graphs++
		if graphs == 2 {
			c.opts.Logger.Warn("merging TriX graphs into one", "line", graphNode.Line)
		}
		for i, child := range graphNode.Children {
			switch child.Name.Local {
			case "uri":
				if i == 0 && graphs == 1 {
					if err := builder.setContext(c.opts, strings.TrimSpace(child.Text)); err != nil {
						return nil, child.errorf("trix", err, "graph name")
					}
				}
			case "triple":
				t, err := c.decodeTriple(child)
				if err != nil {
					return nil, err
				}
				if err := builder.add(t); err != nil {
					return nil, child.errorf("trix", err, "triple")
				}
			}
		}
	}
	c.opts.Logger.Debug("deserialized graph", "format", FormatTriX, "triples", builder.graph.Len(), "context", builder.graph.Context().Value)
	return builder.graph, nil
}

func (c *trixCodec) decodeTriple(node *xmlNode) (Triple, error) {
	if len(node.Children) != 3 {
		return Triple{}, node.errorf("trix", ErrSyntax, "triple has %d terms, want 3", len(node.Children))
	}
	terms := make([]Term, 3)
	for i, child := range node.Children {
		term, err := c.decodeTerm(child)
		if err != nil {
			return Triple{}, child.errorf("trix", err, "<%s>", child.Name.Local)
		}
		terms[i] = term
	}
	p, ok := terms[1].(IRI)
	if !ok {
		return Triple{}, node.Children[1].errorf("trix", ErrInvalidTerm, "predicate must be a <uri>")
	}
	t, err := NewTriple(terms[0], p, terms[2])
	if err != nil {
		return Triple{}, node.errorf("trix", err, "triple")
	}
	return t, nil
}

func (c *trixCodec) decodeTerm(node *xmlNode) (Term, error) {
	switch node.Name.Local {
	case "uri":
		return NewIRI(strings.TrimSpace(node.Text))
	case "id":
		return NewBlankNode(strings.TrimSpace(node.Text))
	case "plainLiteral":
		lang, _ := node.attr(xmlNS, "lang")
		return NewPlainLiteral(node.Text, lang)
	case "typedLiteral":
		dt, ok := node.attr("", "datatype")
		if !ok {
			return nil, fmt.Errorf("%w: typedLiteral without datatype", ErrEmptyValue)
		}
		return c.opts.Registry.TypedLiteral(node.Text, dt)
	default:
		return nil, fmt.Errorf("%w: unknown term element", ErrSyntax)
	}
}
