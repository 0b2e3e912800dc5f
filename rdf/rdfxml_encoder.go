package rdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Serialize writes g as RDF/XML, one rdf:Description per subject. Blank-node
// containers referenced as objects are written inline.
func (c *rdfxmlCodec) Serialize(w io.Writer, g *Graph) error {
	e := &rdfxmlEncoder{
		graph:      g,
		namespaces: c.opts.Registry.Namespaces,
		prefixes:   make(map[string]string),
		used:       make(map[string]bool),
		inline:     make(map[Term]*Container),
	}
	e.declare(rdfNS, "rdf")
	subjects, bySubject := groupTriplesBySubject(g.Triples())
	e.findInlineContainers(g.Triples())

	var body bytes.Buffer
	for _, s := range subjects {
		if err := e.writeDescription(&body, s, bySubject[s]); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration + "\n")
	buf.WriteString("<rdf:RDF")
	for _, ns := range e.declared {
		fmt.Fprintf(&buf, ` xmlns:%s="%s"`, ns.Prefix, escapeXMLAttr(ns.URI))
	}
	fmt.Fprintf(&buf, ` xml:base="%s"`, escapeXMLAttr(g.Context().Value))
	if body.Len() == 0 {
		buf.WriteString("/>\n")
	} else {
		buf.WriteString(">\n")
		buf.Write(body.Bytes())
		buf.WriteString("</rdf:RDF>\n")
	}
	c.opts.Logger.Debug("serialized graph", "format", FormatRDFXML, "triples", g.Len(), "context", g.Context().Value)
	return writeAll(w, buf.Bytes())
}

type rdfxmlEncoder struct {
	graph      *Graph
	namespaces *NamespaceRegistry
	prefixes   map[string]string
	used       map[string]bool
	declared   []Namespace
	autoNS     int
	inline     map[Term]*Container
}

func groupTriplesBySubject(triples []Triple) ([]Term, map[Term][]Triple) {
	var order []Term
	groups := make(map[Term][]Triple)
	for _, t := range triples {
		if _, ok := groups[t.S]; !ok {
			order = append(order, t.S)
		}
		groups[t.S] = append(groups[t.S], t)
	}
	return order, groups
}

// findInlineContainers marks blank-node containers that an ordinary property
// points at and whose members are numbered 1..n without gaps.
func (e *rdfxmlEncoder) findInlineContainers(triples []Triple) {
	for _, t := range triples {
		node, ok := t.O.(BlankNode)
		if !ok {
			continue
		}
		if _, member := memberIndex(t.P); member || t.P == RDFType {
			continue
		}
		if _, done := e.inline[node]; done {
			continue
		}
		container, ok := e.graph.Container(node)
		if !ok || !contiguousMembers(e.graph, node, len(container.Items)) {
			continue
		}
		e.inline[node] = container
	}
}

func contiguousMembers(g *Graph, node Term, n int) bool {
	seen := make(map[int]bool)
	for _, t := range g.BySubject(node) {
		if i, ok := memberIndex(t.P); ok {
			if seen[i] || i > n {
				return false
			}
			seen[i] = true
		}
	}
	return len(seen) == n
}

// declare binds uri to a prefix for this document, reusing the registry's
// prefix when it has one. A prefix already bound to another URI in this
// document falls back to a generated autoNS name.
func (e *rdfxmlEncoder) declare(uri, hint string) string {
	if prefix, ok := e.prefixes[uri]; ok {
		return prefix
	}
	prefix := hint
	if prefix == "" {
		if ns, ok := e.namespaces.LookupByURI(uri); ok && isQNameLocal(ns.Prefix) {
			prefix = ns.Prefix
		}
	}
	if prefix == "" || e.used[prefix] || prefix == "xml" {
		for {
			e.autoNS++
			prefix = fmt.Sprintf("autoNS%d", e.autoNS)
			if _, taken := e.namespaces.LookupByPrefix(prefix); !taken && !e.used[prefix] {
				break
			}
		}
	}
	e.prefixes[uri] = prefix
	e.used[prefix] = true
	e.declared = append(e.declared, Namespace{Prefix: prefix, URI: uri})
	return prefix
}

// elementName reduces a predicate to a prefixed XML name.
func (e *rdfxmlEncoder) elementName(p IRI) (string, error) {
	ns, local, ok := splitXMLName(p.Value)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnreducibleNamespace, p.Value)
	}
	return e.declare(ns, "") + ":" + local, nil
}

func (e *rdfxmlEncoder) writeDescription(buf *bytes.Buffer, s Term, triples []Triple) error {
	if container, ok := e.inline[s]; ok {
		triples = withoutContainerTriples(triples, container)
		if len(triples) == 0 {
			return nil
		}
	}
	buf.WriteString("  <rdf:Description ")
	buf.WriteString(resourceAttr("about", s))
	buf.WriteString(">\n")
	for _, t := range triples {
		if err := e.writeProperty(buf, "    ", t.P, t.O, true); err != nil {
			return err
		}
	}
	buf.WriteString("  </rdf:Description>\n")
	return nil
}

func withoutContainerTriples(triples []Triple, c *Container) []Triple {
	var out []Triple
	for _, t := range triples {
		if t.P == RDFType && t.O == Term(c.Kind.IRI()) {
			continue
		}
		if _, ok := memberIndex(t.P); ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// resourceAttr renders rdf:about (or rdf:resource) for IRIs and rdf:nodeID
// for blank nodes.
func resourceAttr(iriAttr string, term Term) string {
	if b, ok := term.(BlankNode); ok {
		return `rdf:nodeID="` + escapeXMLAttr(b.ID) + `"`
	}
	return `rdf:` + iriAttr + `="` + escapeXMLAttr(term.String()) + `"`
}

func (e *rdfxmlEncoder) writeProperty(buf *bytes.Buffer, indent string, p IRI, o Term, expand bool) error {
	name, err := e.elementName(p)
	if err != nil {
		return err
	}
	buf.WriteString(indent + "<" + name)
	switch v := o.(type) {
	case IRI:
		buf.WriteString(" " + resourceAttr("resource", v) + "/>\n")
	case BlankNode:
		container, ok := e.inline[v]
		if !expand || !ok {
			buf.WriteString(" " + resourceAttr("resource", v) + "/>\n")
			return nil
		}
		buf.WriteString(">\n")
		if err := e.writeContainer(buf, indent+"  ", container); err != nil {
			return err
		}
		buf.WriteString(indent + "</" + name + ">\n")
	case Literal:
		switch {
		case v.IsTyped():
			if strings.HasPrefix(v.Datatype.Value, xsdNS) {
				e.declare(xsdNS, "xsd")
			}
			fmt.Fprintf(buf, ` rdf:datatype="%s"`, escapeXMLAttr(v.Datatype.Value))
		case v.Lang != "":
			fmt.Fprintf(buf, ` xml:lang="%s"`, escapeXMLAttr(v.Lang))
		}
		buf.WriteString(">" + escapeXMLText(v.Lexical) + "</" + name + ">\n")
	}
	return nil
}

func (e *rdfxmlEncoder) writeContainer(buf *bytes.Buffer, indent string, c *Container) error {
	element := "rdf:" + c.Kind.String()
	buf.WriteString(indent + "<" + element + " " + resourceAttr("about", c.Node) + ">\n")
	for i, item := range c.Items {
		if err := e.writeProperty(buf, indent+"  ", ContainerMember(i+1), item, false); err != nil {
			return err
		}
	}
	buf.WriteString(indent + "</" + element + ">\n")
	return nil
}
