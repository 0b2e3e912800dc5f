package rdf

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// DefaultContext names graphs that were not given an explicit context. It
// also serves as the base IRI of documents that declare none.
const DefaultContext = "http://www.geoknoesis.com/rdfgraph/default/"

// Namespace binds a prefix to a namespace IRI.
type Namespace struct {
	Prefix string
	URI    string
}

// DefaultNamespaces lists the prefixes every new registry starts with.
func DefaultNamespaces() []Namespace {
	return []Namespace{
		{Prefix: "rdf", URI: rdfNS},
		{Prefix: "rdfs", URI: rdfsNS},
		{Prefix: "xsd", URI: xsdNS},
		{Prefix: "owl", URI: "http://www.w3.org/2002/07/owl#"},
		{Prefix: "dc", URI: "http://purl.org/dc/elements/1.1/"},
		{Prefix: "dcterms", URI: "http://purl.org/dc/terms/"},
		{Prefix: "foaf", URI: "http://xmlns.com/foaf/0.1/"},
		{Prefix: "skos", URI: "http://www.w3.org/2004/02/skos/core#"},
		{Prefix: "prov", URI: "http://www.w3.org/ns/prov#"},
	}
}

// NamespaceRegistry is an append-only table of prefix bindings. Prefixes and
// URIs are unique. It is safe for concurrent use.
type NamespaceRegistry struct {
	mu       sync.RWMutex
	byPrefix map[string]Namespace
	byURI    map[string]Namespace
	order    []Namespace
}

// NewNamespaceRegistry returns a registry holding the given namespaces.
func NewNamespaceRegistry(initial ...Namespace) *NamespaceRegistry {
	r := &NamespaceRegistry{
		byPrefix: make(map[string]Namespace),
		byURI:    make(map[string]Namespace),
	}
	for _, ns := range initial {
		_ = r.Register(ns)
	}
	return r
}

// Register binds ns.Prefix to ns.URI. Registering an identical binding again
// is a no-op; rebinding a prefix or a URI already in use is an error.
func (r *NamespaceRegistry) Register(ns Namespace) error {
	if ns.Prefix == "" || ns.URI == "" {
		return fmt.Errorf("%w: namespace prefix and URI", ErrEmptyValue)
	}
	if !isValidPrefixName(ns.Prefix) {
		return fmt.Errorf("%w: %q", ErrBadPrefix, ns.Prefix)
	}
	if err := validateAbsoluteIRI(ns.URI); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byPrefix[ns.Prefix]; ok {
		if existing.URI == ns.URI {
			return nil
		}
		return fmt.Errorf("%w: prefix %q already bound to %s", ErrBadPrefix, ns.Prefix, existing.URI)
	}
	if existing, ok := r.byURI[ns.URI]; ok {
		return fmt.Errorf("%w: %s already bound to prefix %q", ErrBadPrefix, ns.URI, existing.Prefix)
	}
	r.insert(ns)
	return nil
}

func (r *NamespaceRegistry) insert(ns Namespace) {
	r.byPrefix[ns.Prefix] = ns
	r.byURI[ns.URI] = ns
	r.order = append(r.order, ns)
}

// RegisterOrGet returns the namespace already registered for uri, or
// registers it under prefixHint. When the hint is empty or taken, a numeric
// suffix is appended until a free prefix is found.
func (r *NamespaceRegistry) RegisterOrGet(prefixHint, uri string) (Namespace, error) {
	if err := validateAbsoluteIRI(uri); err != nil {
		return Namespace{}, err
	}
	if prefixHint != "" && !isValidPrefixName(prefixHint) {
		return Namespace{}, fmt.Errorf("%w: %q", ErrBadPrefix, prefixHint)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byURI[uri]; ok {
		return existing, nil
	}
	prefix := prefixHint
	if prefix == "" {
		prefix = "ns"
	}
	if _, taken := r.byPrefix[prefix]; taken || prefixHint == "" {
		base := prefix
		for n := 1; ; n++ {
			prefix = base + strconv.Itoa(n)
			if _, taken := r.byPrefix[prefix]; !taken {
				break
			}
		}
	}
	ns := Namespace{Prefix: prefix, URI: uri}
	r.insert(ns)
	return ns, nil
}

// LookupByPrefix finds the namespace bound to prefix.
func (r *NamespaceRegistry) LookupByPrefix(prefix string) (Namespace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.byPrefix[prefix]
	return ns, ok
}

// LookupByURI finds the namespace whose URI equals uri.
func (r *NamespaceRegistry) LookupByURI(uri string) (Namespace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.byURI[uri]
	return ns, ok
}

// LongestMatch finds the registered namespace with the longest URI that is
// a prefix of iri.
func (r *NamespaceRegistry) LongestMatch(iri string) (Namespace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best Namespace
	found := false
	for _, ns := range r.order {
		if len(ns.URI) > len(best.URI) && strings.HasPrefix(iri, ns.URI) {
			best, found = ns, true
		}
	}
	return best, found
}

// Abbreviate reduces iri to prefix:local when a registered namespace covers
// it and the remainder is a valid local name, and wraps it in angle brackets
// otherwise.
func (r *NamespaceRegistry) Abbreviate(iri string) string {
	if qname, ok := r.qname(iri); ok {
		return qname
	}
	return renderIRIRef(iri)
}

func (r *NamespaceRegistry) qname(iri string) (string, bool) {
	ns, ok := r.LongestMatch(iri)
	if !ok {
		return "", false
	}
	local := iri[len(ns.URI):]
	if !isTurtleLocalName(local) {
		return "", false
	}
	return ns.Prefix + ":" + local, true
}

// All returns the registered namespaces in registration order.
func (r *NamespaceRegistry) All() []Namespace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Namespace(nil), r.order...)
}

// Len returns the number of registered namespaces.
func (r *NamespaceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func isValidPrefixName(prefix string) bool {
	if prefix == "" {
		return true
	}
	if prefix[0] == '.' || prefix[len(prefix)-1] == '.' {
		return false
	}
	first := prefix[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z') || first == '_' || first >= 0x80) {
		return false
	}
	for i := 1; i < len(prefix); i++ {
		ch := prefix[i]
		if ch == '.' {
			continue
		}
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' || ch == '-' || ch >= 0x80 {
			continue
		}
		return false
	}
	return true
}

// isTurtleLocalName reports whether value can be written unescaped after a
// prefix. The empty local name is allowed.
func isTurtleLocalName(value string) bool {
	if value == "" {
		return true
	}
	if value[len(value)-1] == '.' {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_':
		case ch >= '0' && ch <= '9':
		case (ch == '-' || ch == '.') && i > 0:
		default:
			return false
		}
	}
	return true
}
