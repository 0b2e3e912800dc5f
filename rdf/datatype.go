package rdf

import (
	"fmt"
	"strings"
	"sync"
)

// Category selects the lexical validation routine applied to a datatype.
type Category uint8

const (
	// CategoryString covers xsd:string and its derived types. Unrecognized
	// datatypes fall into this category and always validate.
	CategoryString Category = iota
	// CategoryBoolean covers xsd:boolean.
	CategoryBoolean
	// CategoryDateTime covers the date and time types.
	CategoryDateTime
	// CategoryTimeSpan covers the duration types.
	CategoryTimeSpan
	// CategoryNumeric covers decimal, integer and floating-point types.
	CategoryNumeric
)

var categoryNames = [...]string{
	CategoryString:   "string",
	CategoryBoolean:  "boolean",
	CategoryDateTime: "datetime",
	CategoryTimeSpan: "timespan",
	CategoryNumeric:  "numeric",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", c)
}

// ParseCategory parses a category name such as "numeric" or "datetime".
func ParseCategory(name string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range categoryNames {
		if candidate == normalized {
			return Category(i), nil
		}
	}
	return CategoryString, fmt.Errorf("unknown datatype category %q", name)
}

// Datatype describes a literal datatype.
type Datatype struct {
	Prefix    string
	Namespace string
	Name      string
	Category  Category
}

// IRI returns the datatype IRI.
func (d Datatype) IRI() IRI { return IRI{Value: d.Namespace + d.Name} }

// QName returns prefix:name, or the full IRI when the datatype has no prefix.
func (d Datatype) QName() string {
	if d.Prefix == "" {
		return d.Namespace + d.Name
	}
	return d.Prefix + ":" + d.Name
}

func (d Datatype) isXSD(names ...string) bool {
	if d.Namespace != xsdNS {
		return false
	}
	for _, name := range names {
		if d.Name == name {
			return true
		}
	}
	return false
}

func xsd(name string, category Category) Datatype {
	return Datatype{Prefix: "xsd", Namespace: xsdNS, Name: name, Category: category}
}

// Frequently used datatypes.
var (
	XSDString   = xsd("string", CategoryString)
	XSDBoolean  = xsd("boolean", CategoryBoolean)
	XSDInteger  = xsd("integer", CategoryNumeric)
	XSDDecimal  = xsd("decimal", CategoryNumeric)
	XSDDouble   = xsd("double", CategoryNumeric)
	XSDDateTime = xsd("dateTime", CategoryDateTime)
	XSDDuration = xsd("duration", CategoryTimeSpan)

	RDFXMLLiteral = Datatype{Prefix: "rdf", Namespace: rdfNS, Name: "XMLLiteral", Category: CategoryString}
)

func builtinDatatypes() []Datatype {
	out := []Datatype{RDFXMLLiteral}
	for _, name := range []string{
		"string", "normalizedString", "token", "language", "Name", "NCName", "NMTOKEN",
		"NMTOKENS", "ID", "IDREF", "IDREFS", "ENTITY", "ENTITIES", "QName", "NOTATION",
		"anyURI", "base64Binary", "hexBinary",
	} {
		out = append(out, xsd(name, CategoryString))
	}
	out = append(out, XSDBoolean)
	for _, name := range []string{
		"dateTime", "dateTimeStamp", "date", "time", "gYearMonth", "gYear", "gMonthDay", "gDay", "gMonth",
	} {
		out = append(out, xsd(name, CategoryDateTime))
	}
	for _, name := range []string{"duration", "dayTimeDuration", "yearMonthDuration"} {
		out = append(out, xsd(name, CategoryTimeSpan))
	}
	for _, name := range []string{
		"decimal", "integer", "long", "int", "short", "byte",
		"nonNegativeInteger", "positiveInteger", "nonPositiveInteger", "negativeInteger",
		"unsignedLong", "unsignedInt", "unsignedShort", "unsignedByte", "float", "double",
	} {
		out = append(out, xsd(name, CategoryNumeric))
	}
	return out
}

// DatatypeRegistry maps datatype IRIs and prefixed names to descriptors.
// It is safe for concurrent use; entries are never removed.
type DatatypeRegistry struct {
	mu      sync.RWMutex
	byIRI   map[string]Datatype
	byQName map[string]Datatype
	order   []Datatype
}

// NewDatatypeRegistry returns a registry seeded with the XSD built-in types
// and rdf:XMLLiteral.
func NewDatatypeRegistry() *DatatypeRegistry {
	r := &DatatypeRegistry{
		byIRI:   make(map[string]Datatype),
		byQName: make(map[string]Datatype),
	}
	for _, dt := range builtinDatatypes() {
		r.register(dt)
	}
	return r
}

// Register adds dt unless its IRI is already known, and returns the entry
// stored in the registry.
func (r *DatatypeRegistry) Register(dt Datatype) (Datatype, error) {
	if dt.Namespace+dt.Name == "" {
		return Datatype{}, fmt.Errorf("%w: datatype IRI", ErrEmptyValue)
	}
	if err := validateAbsoluteIRI(dt.IRI().Value); err != nil {
		return Datatype{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(dt), nil
}

func (r *DatatypeRegistry) register(dt Datatype) Datatype {
	key := dt.Namespace + dt.Name
	if existing, ok := r.byIRI[key]; ok {
		return existing
	}
	r.byIRI[key] = dt
	if dt.Prefix != "" {
		if _, ok := r.byQName[dt.QName()]; !ok {
			r.byQName[dt.QName()] = dt
		}
	}
	r.order = append(r.order, dt)
	return dt
}

// Lookup finds a datatype by IRI.
func (r *DatatypeRegistry) Lookup(iri string) (Datatype, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dt, ok := r.byIRI[iri]
	return dt, ok
}

// LookupQName finds a datatype by prefix and local name.
func (r *DatatypeRegistry) LookupQName(prefix, name string) (Datatype, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dt, ok := r.byQName[prefix+":"+name]
	return dt, ok
}

// GetOrRegister returns the datatype registered for iri, registering an
// unknown IRI with the string category.
func (r *DatatypeRegistry) GetOrRegister(iri string) (Datatype, error) {
	if dt, ok := r.Lookup(iri); ok {
		return dt, nil
	}
	namespace, name := splitIRI(iri)
	return r.Register(Datatype{Namespace: namespace, Name: name, Category: CategoryString})
}

// Resolve returns the datatype registered for iri. An unknown IRI yields a
// string-category descriptor that is not added to the registry, so parsing
// untrusted input never grows it.
func (r *DatatypeRegistry) Resolve(iri string) (Datatype, error) {
	if dt, ok := r.Lookup(iri); ok {
		return dt, nil
	}
	if err := validateAbsoluteIRI(iri); err != nil {
		return Datatype{}, err
	}
	namespace, name := splitIRI(iri)
	return Datatype{Namespace: namespace, Name: name, Category: CategoryString}, nil
}

// All returns the registered datatypes in registration order.
func (r *DatatypeRegistry) All() []Datatype {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Datatype(nil), r.order...)
}
