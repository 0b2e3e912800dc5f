package rdf

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatNTriples Format = "ntriples"
	FormatTurtle   Format = "turtle"
	FormatTriX     Format = "trix"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatNTriples, FormatTurtle, FormatTriX, FormatRDFXML, FormatJSONLD}
}

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, true
	case "turtle", "ttl":
		return FormatTurtle, true
	case "trix":
		return FormatTriX, true
	case "rdfxml", "rdf/xml", "rdf", "xml", "owl":
		return FormatRDFXML, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// Extension returns the conventional file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatNTriples:
		return ".nt"
	case FormatTurtle:
		return ".ttl"
	case FormatTriX:
		return ".trix"
	case FormatRDFXML:
		return ".rdf"
	case FormatJSONLD:
		return ".jsonld"
	default:
		return ""
	}
}

// ContentType returns the registered media type.
func (f Format) ContentType() string {
	switch f {
	case FormatNTriples:
		return "application/n-triples"
	case FormatTurtle:
		return "text/turtle"
	case FormatTriX:
		return "application/trix"
	case FormatRDFXML:
		return "application/rdf+xml"
	case FormatJSONLD:
		return "application/ld+json"
	default:
		return ""
	}
}

// FormatFromPath infers format from filename extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return FormatNTriples, nil
	case ".ttl":
		return FormatTurtle, nil
	case ".trix":
		return FormatTriX, nil
	case ".rdf", ".xml", ".owl":
		return FormatRDFXML, nil
	case ".jsonld", ".json":
		return FormatJSONLD, nil
	default:
		return "", fmt.Errorf("%w: no format for path %s", ErrUnsupportedFormat, path)
	}
}

// FormatFromContentType infers format from a content type.
func FormatFromContentType(contentType string) (Format, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "application/n-triples", "text/plain":
		return FormatNTriples, nil
	case "text/turtle", "application/x-turtle":
		return FormatTurtle, nil
	case "application/trix":
		return FormatTriX, nil
	case "application/rdf+xml", "application/xml", "text/xml":
		return FormatRDFXML, nil
	case "application/ld+json":
		return FormatJSONLD, nil
	default:
		return "", fmt.Errorf("%w: content type %s", ErrUnsupportedFormat, contentType)
	}
}
