package rdf

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const (
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfsNS = "http://www.w3.org/2000/01/rdf-schema#"
	xsdNS  = "http://www.w3.org/2001/XMLSchema#"
	xmlNS  = "http://www.w3.org/XML/1998/namespace"

	// BlankScheme is the pseudo-scheme used when a blank node travels as a URI string.
	BlankScheme = "bnode:"
)

// Well-known RDF vocabulary terms.
var (
	RDFType  = IRI{Value: rdfNS + "type"}
	RDFFirst = IRI{Value: rdfNS + "first"}
	RDFRest  = IRI{Value: rdfNS + "rest"}
	RDFNil   = IRI{Value: rdfNS + "nil"}
	RDFList  = IRI{Value: rdfNS + "List"}
	RDFBag   = IRI{Value: rdfNS + "Bag"}
	RDFSeq   = IRI{Value: rdfNS + "Seq"}
	RDFAlt   = IRI{Value: rdfNS + "Alt"}
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents a named resource.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node.
	TermBlankNode
	// TermLiteral represents a plain or typed literal.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents a named RDF resource.
type IRI struct {
	// Value is the absolute IRI string.
	Value string
}

// NewIRI validates value as an absolute IRI.
func NewIRI(value string) (IRI, error) {
	if err := validateAbsoluteIRI(value); err != nil {
		return IRI{}, err
	}
	return IRI{Value: value}, nil
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the document-scoped identifier, without any "_:" or "bnode:" prefix.
	ID string
}

// NewBlankNode validates id and returns a blank node. A leading "_:" or
// "bnode:" is stripped.
func NewBlankNode(id string) (BlankNode, error) {
	id = strings.TrimPrefix(strings.TrimPrefix(id, "_:"), BlankScheme)
	if !isValidBlankNodeID(id) {
		return BlankNode{}, fmt.Errorf("%w: blank node identifier %q", ErrBlankNodeSyntax, id)
	}
	return BlankNode{ID: id}, nil
}

// NewAnonymousBlankNode returns a blank node with a fresh identifier.
func NewAnonymousBlankNode() BlankNode {
	return BlankNode{ID: "b" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// URI returns the blank node in its "bnode:" URI form.
func (b BlankNode) URI() string { return BlankScheme + b.ID }

// NewResource converts a URI string into a resource term. Strings using the
// "_:" or "bnode:" prefixes become blank nodes; everything else must be an
// absolute IRI.
func NewResource(value string) (Term, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: resource URI", ErrEmptyValue)
	}
	if strings.HasPrefix(value, "_:") || strings.HasPrefix(strings.ToLower(value), BlankScheme) {
		return NewBlankNode(value[strings.Index(value, ":")+1:])
	}
	return NewIRI(value)
}

// Literal represents an RDF literal. A literal with a non-empty Datatype is
// a typed literal; otherwise it is a plain literal with an optional language.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Lang is the upper-cased language tag of a plain literal.
	Lang string
	// Datatype is the datatype IRI of a typed literal.
	Datatype IRI
}

// NewPlainLiteral builds a plain literal. The language tag, when present,
// must match [a-zA-Z]+(-[a-zA-Z0-9]+)* and is normalized to upper case.
func NewPlainLiteral(value, lang string) (Literal, error) {
	if lang == "" {
		return Literal{Lexical: value}, nil
	}
	if !isValidLangTag(lang) {
		return Literal{}, fmt.Errorf("%w: %q", ErrInvalidLanguageTag, lang)
	}
	return Literal{Lexical: value, Lang: strings.ToUpper(lang)}, nil
}

// NewTypedLiteral builds a typed literal after validating value against the
// lexical space of dt.
func NewTypedLiteral(value string, dt Datatype) (Literal, error) {
	if dt.Namespace+dt.Name == "" {
		return Literal{}, fmt.Errorf("%w: datatype", ErrEmptyValue)
	}
	if err := ValidateLexical(value, dt); err != nil {
		return Literal{}, err
	}
	return Literal{Lexical: value, Datatype: dt.IRI()}, nil
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// IsTyped reports whether the literal carries a datatype.
func (l Literal) IsTyped() bool { return l.Datatype.Value != "" }

// String returns the N-Triples rendering of the literal.
func (l Literal) String() string {
	return renderNTriplesLiteral(l)
}

// Triple is an RDF statement. Subjects are IRIs or blank nodes.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// NewTriple validates the positions of a statement.
func NewTriple(s Term, p IRI, o Term) (Triple, error) {
	switch s.(type) {
	case IRI, BlankNode:
	case nil:
		return Triple{}, fmt.Errorf("%w: subject", ErrEmptyValue)
	default:
		return Triple{}, fmt.Errorf("%w: subject must be an IRI or blank node, got %s", ErrInvalidTerm, s)
	}
	if p.Value == "" {
		return Triple{}, fmt.Errorf("%w: predicate", ErrEmptyValue)
	}
	if o == nil {
		return Triple{}, fmt.Errorf("%w: object", ErrEmptyValue)
	}
	return Triple{S: s, P: p, O: o}, nil
}

// String returns the canonical N-Triples form of the statement without the
// terminating dot.
func (t Triple) String() string {
	return renderNTriplesTerm(t.S) + " " + renderNTriplesTerm(t.P) + " " + renderNTriplesTerm(t.O)
}

// Hash returns the identity of the triple used by the graph index.
func (t Triple) Hash() uint64 {
	return xxhash.Sum64String(t.String())
}

func termHash(term Term) uint64 {
	return xxhash.Sum64String(renderNTriplesTerm(term))
}

func isValidBlankNodeID(id string) bool {
	if id == "" || id[len(id)-1] == '.' {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '_':
		case (ch == '-' || ch == '.') && i > 0:
		default:
			return false
		}
	}
	return true
}

func isValidLangTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i, part := range strings.Split(tag, "-") {
		if part == "" {
			return false
		}
		for j := 0; j < len(part); j++ {
			ch := part[j]
			alpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
			if i == 0 && !alpha {
				return false
			}
			if !alpha && !(ch >= '0' && ch <= '9') {
				return false
			}
		}
	}
	return true
}
