package rdf

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

type jsonldCodec struct {
	opts Options
}

func (c *jsonldCodec) Format() Format { return FormatJSONLD }

// offlineLoader refuses remote contexts so decoding never touches the network.
type offlineLoader struct{}

func (offlineLoader) LoadDocument(iri string) (*ld.RemoteDocument, error) {
	return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, fmt.Sprintf("remote document %s not loaded", iri))
}

func (c *jsonldCodec) goldOptions(base string) *ld.JsonLdOptions {
	opts := ld.NewJsonLdOptions(base)
	opts.DocumentLoader = offlineLoader{}
	return opts
}

// Serialize writes g as JSON-LD. With compaction enabled the document uses a
// context built from the namespaces the graph uses. The graph context is
// recorded as @base.
func (c *jsonldCodec) Serialize(w io.Writer, g *Graph) error {
	proc := ld.NewJsonLdProcessor()
	opts := c.goldOptions("")
	expanded, err := proc.FromRDF(toDataset(g), opts)
	if err != nil {
		return fmt.Errorf("jsonld: %w", err)
	}

	context := map[string]interface{}{}
	var doc map[string]interface{}
	if c.opts.JSONLDCompact {
		for _, ns := range usedNamespaces(g, c.opts.Registry.Namespaces) {
			context[ns.Prefix] = ns.URI
		}
		doc, err = proc.Compact(expanded, map[string]interface{}{"@context": context}, opts)
		if err != nil {
			return fmt.Errorf("jsonld: %w", err)
		}
		if existing, ok := doc["@context"].(map[string]interface{}); ok {
			context = existing
		}
	} else {
		doc = map[string]interface{}{"@graph": expanded}
	}
	context["@base"] = g.Context().Value
	doc["@context"] = context

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	c.opts.Logger.Debug("serialized graph", "format", FormatJSONLD, "triples", g.Len(), "context", g.Context().Value)
	return writeAll(w, data)
}

// Deserialize reads a JSON-LD document. Triples from every graph in the
// document land in one Graph; a top-level @base names its context.
func (c *jsonldCodec) Deserialize(r io.Reader) (*Graph, error) {
	var doc interface{}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, &ParseError{Format: "jsonld", Offset: int(decoder.InputOffset()), Err: fmt.Errorf("%w: %v", ErrSyntax, err)}
	}
	builder := newGraphBuilder(c.opts)
	if err := builder.setContext(c.opts, documentBase(doc)); err != nil {
		return nil, &ParseError{Format: "jsonld", Offset: -1, Err: err}
	}

	result, err := ld.NewJsonLdProcessor().ToRDF(doc, c.goldOptions(builder.graph.Context().Value))
	if err != nil {
		return nil, &ParseError{Format: "jsonld", Offset: -1, Err: fmt.Errorf("%w: %v", ErrSyntax, err)}
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}
	for _, name := range datasetGraphNames(dataset) {
		for _, quad := range dataset.Graphs[name] {
			t, err := fromQuad(quad, c.opts.Registry)
			if err != nil {
				return nil, &ParseError{Format: "jsonld", Offset: -1, Err: err}
			}
			if err := builder.add(t); err != nil {
				return nil, &ParseError{Format: "jsonld", Offset: -1, Err: err}
			}
		}
	}
	c.opts.Logger.Debug("deserialized graph", "format", FormatJSONLD, "triples", builder.graph.Len(), "context", builder.graph.Context().Value)
	return builder.graph, nil
}

func documentBase(doc interface{}) string {
	m, ok := doc.(map[string]interface{})
	if !ok {
		return ""
	}
	context, ok := m["@context"].(map[string]interface{})
	if !ok {
		return ""
	}
	base, _ := context["@base"].(string)
	return base
}

// datasetGraphNames lists the default graph first, then named graphs in
// sorted order.
func datasetGraphNames(dataset *ld.RDFDataset) []string {
	var named []string
	for name := range dataset.Graphs {
		if name != "@default" {
			named = append(named, name)
		}
	}
	sort.Strings(named)
	return append([]string{"@default"}, named...)
}

func toDataset(g *Graph) *ld.RDFDataset {
	dataset := ld.NewRDFDataset()
	quads := make([]*ld.Quad, 0, g.Len())
	for _, t := range g.Triples() {
		quads = append(quads, ld.NewQuad(toLDNode(t.S), ld.NewIRI(t.P.Value), toLDNode(t.O), "@default"))
	}
	dataset.Graphs["@default"] = quads
	return dataset
}

func toLDNode(term Term) ld.Node {
	switch v := term.(type) {
	case IRI:
		return ld.NewIRI(v.Value)
	case BlankNode:
		return ld.NewBlankNode("_:" + v.ID)
	case Literal:
		switch {
		case v.IsTyped():
			return ld.NewLiteral(v.Lexical, v.Datatype.Value, "")
		case v.Lang != "":
			return ld.NewLiteral(v.Lexical, rdfNS+"langString", strings.ToLower(v.Lang))
		default:
			return ld.NewLiteral(v.Lexical, XSDString.IRI().Value, "")
		}
	}
	return nil
}

func fromQuad(quad *ld.Quad, registry *Registry) (Triple, error) {
	s, err := fromLDNode(quad.Subject, registry)
	if err != nil {
		return Triple{}, fmt.Errorf("subject: %w", err)
	}
	p, err := NewIRI(quad.Predicate.GetValue())
	if err != nil {
		return Triple{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := fromLDNode(quad.Object, registry)
	if err != nil {
		return Triple{}, fmt.Errorf("object: %w", err)
	}
	return NewTriple(s, p, o)
}

// fromLDNode converts a json-gold node. xsd:string literals become plain
// literals.
func fromLDNode(node ld.Node, registry *Registry) (Term, error) {
	switch v := node.(type) {
	case ld.IRI:
		return NewIRI(v.Value)
	case *ld.IRI:
		return NewIRI(v.Value)
	case ld.BlankNode:
		return NewBlankNode(v.Attribute)
	case *ld.BlankNode:
		return NewBlankNode(v.Attribute)
	case ld.Literal:
		return fromLDLiteral(v, registry)
	case *ld.Literal:
		return fromLDLiteral(*v, registry)
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidTerm, node)
}

func fromLDLiteral(lit ld.Literal, registry *Registry) (Term, error) {
	switch {
	case lit.Language != "":
		return NewPlainLiteral(lit.Value, lit.Language)
	case lit.Datatype == "" || lit.Datatype == XSDString.IRI().Value:
		return NewPlainLiteral(lit.Value, "")
	default:
		return registry.TypedLiteral(lit.Value, lit.Datatype)
	}
}

// usedNamespaces returns the registered namespaces that abbreviate at least
// one IRI of g, in registry order.
func usedNamespaces(g *Graph, registry *NamespaceRegistry) []Namespace {
	used := make(map[string]bool)
	mark := func(term Term) {
		var iri string
		switch v := term.(type) {
		case IRI:
			iri = v.Value
		case Literal:
			iri = v.Datatype.Value
		}
		if ns, ok := registry.LongestMatch(iri); ok && iri != "" {
			used[ns.Prefix] = true
		}
	}
	g.Range(func(t Triple) bool {
		mark(t.S)
		mark(t.P)
		mark(t.O)
		return true
	})
	var out []Namespace
	for _, ns := range registry.All() {
		if used[ns.Prefix] {
			out = append(out, ns)
		}
	}
	return out
}

// Canonicalize returns the URDNA2015 canonical N-Quads form of g. Two graphs
// are isomorphic exactly when their canonical forms are equal.
func Canonicalize(g *Graph) (string, error) {
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	opts.Algorithm = ld.AlgorithmURDNA2015
	normalized, err := ld.NewJsonLdApi().Normalize(toDataset(g), opts)
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	value, ok := normalized.(string)
	if !ok {
		return "", fmt.Errorf("canonicalize: unexpected result %T", normalized)
	}
	return value, nil
}

// Isomorphic reports whether a and b hold the same triples up to blank node
// renaming. Contexts are not compared.
func Isomorphic(a, b *Graph) (bool, error) {
	ca, err := Canonicalize(a)
	if err != nil {
		return false, err
	}
	cb, err := Canonicalize(b)
	if err != nil {
		return false, err
	}
	return ca == cb, nil
}
