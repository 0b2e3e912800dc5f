package rdf

import (
	"fmt"
	"strings"
)

// Registry bundles the namespace and datatype tables consulted by codecs.
// Tests and tools construct their own; DefaultRegistry is shared by callers
// that do not inject one.
type Registry struct {
	Namespaces *NamespaceRegistry
	Datatypes  *DatatypeRegistry
}

// NewRegistry returns a registry seeded with the default namespaces and the
// built-in datatypes.
func NewRegistry() *Registry {
	return &Registry{
		Namespaces: NewNamespaceRegistry(DefaultNamespaces()...),
		Datatypes:  NewDatatypeRegistry(),
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// ResolveDatatype resolves a datatype token: a full IRI, an IRI in angle
// brackets, or a prefixed name such as xsd:integer. Unknown IRIs resolve to
// the string category without being registered.
func (r *Registry) ResolveDatatype(token string) (Datatype, error) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">") {
		return r.Datatypes.Resolve(token[1 : len(token)-1])
	}
	if prefix, local, ok := strings.Cut(token, ":"); ok && !strings.HasPrefix(local, "//") {
		if dt, found := r.Datatypes.LookupQName(prefix, local); found {
			return dt, nil
		}
		if ns, found := r.Namespaces.LookupByPrefix(prefix); found {
			return r.Datatypes.Resolve(ns.URI + local)
		}
	}
	if !isAbsoluteIRI(token) {
		return Datatype{}, fmt.Errorf("%w: datatype %q", ErrUnknownPrefix, token)
	}
	return r.Datatypes.Resolve(token)
}

// TypedLiteral resolves the datatype IRI and builds a validated literal.
func (r *Registry) TypedLiteral(value, datatypeIRI string) (Literal, error) {
	dt, err := r.Datatypes.Resolve(datatypeIRI)
	if err != nil {
		return Literal{}, err
	}
	return NewTypedLiteral(value, dt)
}
