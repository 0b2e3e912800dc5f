package rdf

import (
	"bytes"
	"io"
	"sort"
	"strings"
)

type turtleCodec struct {
	opts Options
}

func (c *turtleCodec) Format() Format { return FormatTurtle }

// predicateGroup holds the objects of one predicate under a subject, in
// first-seen order.
type predicateGroup struct {
	predicate IRI
	objects   []Term
}

type subjectGroup struct {
	subject    Term
	predicates []*predicateGroup
}

// groupBySubject groups triples by subject and then by predicate, keeping
// first-seen order at both levels.
func groupBySubject(triples []Triple) []*subjectGroup {
	var groups []*subjectGroup
	bySubject := make(map[Term]*subjectGroup)
	for _, t := range triples {
		sg, ok := bySubject[t.S]
		if !ok {
			sg = &subjectGroup{subject: t.S}
			bySubject[t.S] = sg
			groups = append(groups, sg)
		}
		var pg *predicateGroup
		for _, candidate := range sg.predicates {
			if candidate.predicate == t.P {
				pg = candidate
				break
			}
		}
		if pg == nil {
			pg = &predicateGroup{predicate: t.P}
			sg.predicates = append(sg.predicates, pg)
		}
		pg.objects = append(pg.objects, t.O)
	}
	return groups
}

type turtleWriter struct {
	namespaces *NamespaceRegistry
	used       map[string]bool
}

func (tw *turtleWriter) iri(value string) string {
	if qname, ok := tw.namespaces.qname(value); ok {
		prefix, _, _ := strings.Cut(qname, ":")
		tw.used[prefix] = true
		return qname
	}
	return renderIRIRef(value)
}

func (tw *turtleWriter) term(t Term) string {
	switch v := t.(type) {
	case IRI:
		return tw.iri(v.Value)
	case Literal:
		return renderTurtleLiteral(v)
	default:
		return renderNTriplesTerm(t)
	}
}

// renderTurtleLiteral renders a literal like N-Triples, switching to the
// triple-quoted form when the value holds a double quote.
func renderTurtleLiteral(l Literal) string {
	if !strings.Contains(l.Lexical, `"`) {
		return renderNTriplesLiteral(l)
	}
	out := `"""` + escapeLiteral(l.Lexical, true) + `"""`
	switch {
	case l.IsTyped():
		out += "^^" + renderIRIRef(l.Datatype.Value)
	case l.Lang != "":
		out += "@" + l.Lang
	}
	return out
}

// Serialize writes the prefixes used by the graph, the base, and one
// statement per subject. Predicate groups keep first-seen order except that
// rdf:type, written as "a", always comes last.
func (c *turtleCodec) Serialize(w io.Writer, g *Graph) error {
	tw := &turtleWriter{namespaces: c.opts.Registry.Namespaces, used: make(map[string]bool)}
	var body bytes.Buffer
	for _, sg := range groupBySubject(g.Triples()) {
		sort.SliceStable(sg.predicates, func(i, j int) bool {
			return sg.predicates[i].predicate != RDFType && sg.predicates[j].predicate == RDFType
		})
		subject := tw.term(sg.subject)
		indent := strings.Repeat(" ", len(subject)+1)
		body.WriteString("\n")
		body.WriteString(subject)
		body.WriteByte(' ')
		for i, pg := range sg.predicates {
			if i > 0 {
				body.WriteString(";\n")
				body.WriteString(indent)
			}
			if pg.predicate == RDFType {
				body.WriteString("a")
			} else {
				body.WriteString(tw.iri(pg.predicate.Value))
			}
			for j, object := range pg.objects {
				if j == 0 {
					body.WriteByte(' ')
				} else {
					body.WriteString(", ")
				}
				body.WriteString(tw.term(object))
			}
		}
		body.WriteString(".\n")
	}

	var out bytes.Buffer
	for _, ns := range c.opts.Registry.Namespaces.All() {
		if tw.used[ns.Prefix] {
			out.WriteString("@prefix " + ns.Prefix + ": " + renderIRIRef(ns.URI) + ".\n")
		}
	}
	out.WriteString("@base " + renderIRIRef(g.Context().Value) + ".\n")
	out.Write(body.Bytes())
	if g.Len() == 0 {
		out.WriteString("\n")
	}
	c.opts.Logger.Debug("serialized graph", "format", FormatTurtle, "triples", g.Len(), "context", g.Context().Value)
	return writeAll(w, out.Bytes())
}
