package rdf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type rdfxmlCodec struct {
	opts Options
}

func (c *rdfxmlCodec) Format() Format { return FormatRDFXML }

// Deserialize parses an RDF/XML document rooted at rdf:RDF.
func (c *rdfxmlCodec) Deserialize(r io.Reader) (*Graph, error) {
	root, err := parseXMLDocument("rdfxml", r)
	if err != nil {
		return nil, err
	}
	if !isRDF(root.Name, "RDF") {
		return nil, root.errorf("rdfxml", ErrInvalidRoot, "expected <rdf:RDF>, found <%s>", root.Name.Local)
	}
	d := &rdfxmlDecoder{opts: c.opts, builder: newGraphBuilder(c.opts)}
	d.harvestNamespaces(root)

	if base, ok := root.attr(xmlNS, "base"); ok && base != "" {
		if err := d.builder.setContext(c.opts, base); err != nil {
			return nil, root.errorf("rdfxml", err, "xml:base")
		}
	}
	sc := xmlScope{base: d.builder.graph.Context().Value}.enter(root)
	for _, child := range root.Children {
		if _, err := d.decodeNode(child, sc); err != nil {
			return nil, err
		}
	}
	c.opts.Logger.Debug("deserialized graph", "format", FormatRDFXML, "triples", d.builder.graph.Len(), "context", d.builder.graph.Context().Value)
	return d.builder.graph, nil
}

// xmlScope carries the inherited xml:base and xml:lang.
type xmlScope struct {
	base string
	lang string
}

func (s xmlScope) enter(n *xmlNode) xmlScope {
	if base, ok := n.attr(xmlNS, "base"); ok && base != "" {
		s.base = resolveIRI(s.base, base)
	}
	if lang, ok := n.attr(xmlNS, "lang"); ok {
		s.lang = lang
	}
	return s
}

// subjectRole is the way a node element names its subject.
type subjectRole int

const (
	subjectNone subjectRole = iota
	subjectAbout
	subjectNodeID
	subjectID
	subjectAnonymous
)

// classifySubject decides how a node element names its subject. Elements
// other than rdf:Description need an explicit subject attribute.
func classifySubject(n *xmlNode) subjectRole {
	switch {
	case hasRDFAttr(n, "about"):
		return subjectAbout
	case hasRDFAttr(n, "nodeID"):
		return subjectNodeID
	case hasRDFAttr(n, "ID"):
		return subjectID
	case isRDF(n.Name, "Description"):
		return subjectAnonymous
	default:
		return subjectNone
	}
}

// propertyRole is the shape of a property element's object.
type propertyRole int

const (
	propLiteral propertyRole = iota
	propResource
	propNodeID
	propCollection
	propParseTypeResource
	propContainer
	propNested
	propAttributes
)

func (r propertyRole) String() string {
	switch r {
	case propLiteral:
		return "literal"
	case propResource:
		return "resource"
	case propNodeID:
		return "nodeID"
	case propCollection:
		return "collection"
	case propParseTypeResource:
		return "parseTypeResource"
	case propContainer:
		return "container"
	case propNested:
		return "nested"
	case propAttributes:
		return "attributes"
	}
	return fmt.Sprintf("propertyRole(%d)", int(r))
}

// classifyProperty decides what kind of object a property element carries.
func classifyProperty(n *xmlNode) (propertyRole, error) {
	if parseType, ok := n.rdfAttr("parseType"); ok {
		switch parseType {
		case "Collection":
			return propCollection, nil
		case "Resource":
			return propParseTypeResource, nil
		default:
			return 0, n.errorf("rdfxml", ErrSyntax, "unsupported rdf:parseType %q", parseType)
		}
	}
	switch {
	case hasRDFAttr(n, "resource"):
		return propResource, nil
	case hasRDFAttr(n, "nodeID"):
		return propNodeID, nil
	}
	if len(n.Children) > 0 {
		if len(n.Children) > 1 {
			return 0, n.errorf("rdfxml", ErrSyntax, "property <%s> has %d node elements", n.Name.Local, len(n.Children))
		}
		if _, ok := containerElementKind(n.Children[0]); ok {
			return propContainer, nil
		}
		return propNested, nil
	}
	if len(propertyAttrs(n)) > 0 {
		return propAttributes, nil
	}
	return propLiteral, nil
}

func hasRDFAttr(n *xmlNode, local string) bool {
	_, ok := n.rdfAttr(local)
	return ok
}

func containerElementKind(n *xmlNode) (ContainerKind, bool) {
	for _, kind := range []ContainerKind{Bag, Seq, Alt} {
		if isRDF(n.Name, kind.String()) {
			return kind, true
		}
	}
	return 0, false
}

var rdfSyntaxAttrs = map[string]bool{
	"about": true, "nodeID": true, "ID": true, "resource": true,
	"datatype": true, "parseType": true, "bagID": true, "aboutEach": true, "aboutEachPrefix": true,
}

// propertyAttrs returns the attributes of n that encode triples.
func propertyAttrs(n *xmlNode) []xml.Attr {
	var out []xml.Attr
	for _, a := range n.Attrs {
		switch {
		case a.Name.Space == "" || a.Name.Space == "xmlns" || a.Name.Space == xmlNS:
		case (a.Name.Space == rdfNS || a.Name.Space == "rdf") && rdfSyntaxAttrs[a.Name.Local]:
		default:
			out = append(out, a)
		}
	}
	return out
}

type rdfxmlDecoder struct {
	opts    Options
	builder *graphBuilder
}

// harvestNamespaces records the root's namespace declarations.
func (d *rdfxmlDecoder) harvestNamespaces(root *xmlNode) {
	for _, a := range root.Attrs {
		if a.Name.Space == "xmlns" {
			registerNamespace(d.opts, a.Name.Local, a.Value)
		}
	}
}

// nameIRI maps an element or attribute name to an IRI. Undeclared prefixes
// resolve through the namespace registry.
func (d *rdfxmlDecoder) nameIRI(name xml.Name) (IRI, error) {
	space := name.Space
	switch {
	case space == "":
		return IRI{}, fmt.Errorf("%w: <%s> has no namespace", ErrUnknownPrefix, name.Local)
	case !isAbsoluteIRI(space):
		ns, ok := d.opts.Registry.Namespaces.LookupByPrefix(space)
		if !ok {
			return IRI{}, fmt.Errorf("%w: %q", ErrUnknownPrefix, space)
		}
		space = ns.URI
	}
	return NewIRI(space + name.Local)
}

func (d *rdfxmlDecoder) add(n *xmlNode, s Term, p IRI, o Term) error {
	t, err := NewTriple(s, p, o)
	if err != nil {
		return n.errorf("rdfxml", err, "<%s>", n.Name.Local)
	}
	if err := d.builder.add(t); err != nil {
		return n.errorf("rdfxml", err, "<%s>", n.Name.Local)
	}
	return nil
}

// subject returns the term a node element describes, or nil when the element
// names no subject.
func (d *rdfxmlDecoder) subject(n *xmlNode, sc xmlScope) (Term, error) {
	var (
		term Term
		err  error
	)
	switch classifySubject(n) {
	case subjectAbout:
		about, _ := n.rdfAttr("about")
		term, err = NewIRI(resolveIRI(sc.base, about))
	case subjectNodeID:
		id, _ := n.rdfAttr("nodeID")
		term, err = NewBlankNode(id)
	case subjectID:
		id, _ := n.rdfAttr("ID")
		term, err = NewIRI(resolveIRI(sc.base, "#"+id))
	case subjectAnonymous:
		term = NewAnonymousBlankNode()
	default:
		return nil, nil
	}
	if err != nil {
		return nil, n.errorf("rdfxml", err, "subject of <%s>", n.Name.Local)
	}
	return term, nil
}

// decodeNode emits the triples of a node element and returns its subject.
// A non-Description element without a subject attribute is skipped.
func (d *rdfxmlDecoder) decodeNode(n *xmlNode, sc xmlScope) (Term, error) {
	sc = sc.enter(n)
	subject, err := d.subject(n, sc)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		d.opts.Logger.Warn("skipping node element without subject", "element", n.Name.Local, "line", n.Line)
		return nil, nil
	}
	if !isRDF(n.Name, "Description") {
		typ, err := d.nameIRI(n.Name)
		if err != nil {
			return nil, n.errorf("rdfxml", err, "node element")
		}
		if err := d.add(n, subject, RDFType, typ); err != nil {
			return nil, err
		}
	}
	if err := d.decodeAttributes(n, subject, sc); err != nil {
		return nil, err
	}
	li := 0
	for _, child := range n.Children {
		predicate, err := d.predicate(child, &li)
		if err != nil {
			return nil, err
		}
		if err := d.decodeProperty(child, subject, predicate, sc); err != nil {
			return nil, err
		}
	}
	return subject, nil
}

func (d *rdfxmlDecoder) predicate(n *xmlNode, li *int) (IRI, error) {
	if isRDF(n.Name, "li") {
		*li++
		return ContainerMember(*li), nil
	}
	p, err := d.nameIRI(n.Name)
	if err != nil {
		return IRI{}, n.errorf("rdfxml", err, "property element")
	}
	return p, nil
}

// decodeAttributes turns property attributes into plain literal triples.
// rdf:type attributes name a resource instead.
func (d *rdfxmlDecoder) decodeAttributes(n *xmlNode, subject Term, sc xmlScope) error {
	for _, a := range propertyAttrs(n) {
		p, err := d.nameIRI(a.Name)
		if err != nil {
			return n.errorf("rdfxml", err, "attribute %s", a.Name.Local)
		}
		var o Term
		if p == RDFType {
			o, err = NewIRI(resolveIRI(sc.base, a.Value))
		} else {
			o, err = NewPlainLiteral(a.Value, sc.lang)
		}
		if err != nil {
			return n.errorf("rdfxml", err, "attribute %s", a.Name.Local)
		}
		if err := d.add(n, subject, p, o); err != nil {
			return err
		}
	}
	return nil
}

func (d *rdfxmlDecoder) decodeProperty(n *xmlNode, subject Term, predicate IRI, sc xmlScope) error {
	sc = sc.enter(n)
	role, err := classifyProperty(n)
	if err != nil {
		return err
	}
	var object Term
	switch role {
	case propResource:
		resource, _ := n.rdfAttr("resource")
		object, err = NewIRI(resolveIRI(sc.base, resource))
	case propNodeID:
		id, _ := n.rdfAttr("nodeID")
		object, err = NewBlankNode(id)
	case propCollection:
		object, err = d.decodeCollection(n, sc)
	case propParseTypeResource:
		node := NewAnonymousBlankNode()
		li := 0
		for _, child := range n.Children {
			p, perr := d.predicate(child, &li)
			if perr != nil {
				return perr
			}
			if perr := d.decodeProperty(child, node, p, sc); perr != nil {
				return perr
			}
		}
		object = node
	case propContainer:
		object, err = d.decodeContainer(n.Children[0], sc)
	case propNested:
		object, err = d.decodeNode(n.Children[0], sc)
		if object == nil && err == nil {
			return nil
		}
	case propAttributes:
		node := NewAnonymousBlankNode()
		if err := d.decodeAttributes(n, node, sc); err != nil {
			return err
		}
		object = node
	default:
		object, err = d.literal(n, sc)
	}
	if err != nil {
		return n.errorf("rdfxml", err, "object of <%s>", n.Name.Local)
	}
	return d.add(n, subject, predicate, object)
}

func (d *rdfxmlDecoder) literal(n *xmlNode, sc xmlScope) (Term, error) {
	if dt, ok := n.rdfAttr("datatype"); ok {
		return d.opts.Registry.TypedLiteral(n.Text, resolveIRI(sc.base, dt))
	}
	return NewPlainLiteral(n.Text, sc.lang)
}

// item decodes one member of a collection or container.
func (d *rdfxmlDecoder) item(n *xmlNode, sc xmlScope) (Term, error) {
	inner := sc.enter(n)
	if resource, ok := n.rdfAttr("resource"); ok {
		return NewIRI(resolveIRI(inner.base, resource))
	}
	if len(n.Children) == 1 {
		return d.decodeNode(n.Children[0], inner)
	}
	switch classifySubject(n) {
	case subjectAbout, subjectNodeID, subjectID:
		return d.subject(n, inner)
	}
	return d.literal(n, inner)
}

// decodeCollection rebuilds an rdf:List from a parseType="Collection"
// property and returns its head.
func (d *rdfxmlDecoder) decodeCollection(n *xmlNode, sc xmlScope) (Term, error) {
	collection := NewCollection()
	collection.Typed = true
	for _, child := range n.Children {
		var item Term
		var err error
		if resource, ok := child.rdfAttr("resource"); ok {
			item, err = NewIRI(resolveIRI(sc.enter(child).base, resource))
		} else {
			item, err = d.decodeNode(child, sc)
		}
		if err != nil {
			return nil, err
		}
		if item != nil {
			collection.Items = append(collection.Items, item)
		}
	}
	if err := d.builder.addAll(collection.Triples()); err != nil {
		return nil, err
	}
	return collection.Head(), nil
}

// decodeContainer rebuilds a Bag, Seq or Alt element. Members are numbered
// in document order; Alt drops repeated values.
func (d *rdfxmlDecoder) decodeContainer(n *xmlNode, sc xmlScope) (Term, error) {
	kind, _ := containerElementKind(n)
	sc = sc.enter(n)
	container := NewContainer(kind)
	switch classifySubject(n) {
	case subjectAbout, subjectNodeID, subjectID:
		node, err := d.subject(n, sc)
		if err != nil {
			return nil, err
		}
		container.Node = node
	}
	for _, child := range n.Children {
		if !isRDF(child.Name, "li") && !isMemberName(child.Name) {
			return nil, child.errorf("rdfxml", ErrSyntax, "unexpected <%s> in container", child.Name.Local)
		}
		item, err := d.item(child, sc)
		if err != nil {
			return nil, err
		}
		if item != nil {
			container.Add(item)
		}
	}
	if err := d.builder.addAll(container.Triples()); err != nil {
		return nil, err
	}
	return container.Node, nil
}

func isMemberName(name xml.Name) bool {
	if !strings.HasPrefix(name.Local, "_") {
		return false
	}
	_, ok := memberIndex(IRI{Value: rdfNS + name.Local})
	return ok && (name.Space == rdfNS || name.Space == "rdf")
}
