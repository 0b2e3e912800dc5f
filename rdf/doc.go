// Package rdf provides an in-memory RDF graph with codecs for N-Triples,
// Turtle, TriX, RDF/XML and JSON-LD.
//
// A Graph is an indexed set of triples with a context IRI. Terms are IRIs,
// blank nodes and literals; typed literals are checked against the lexical
// space of their datatype when they are built, so an invalid value never
// reaches a graph.
//
// Namespaces and datatypes live in a Registry. Codecs use DefaultRegistry
// unless OptRegistry supplies an isolated one:
//
//	reg := rdf.NewRegistry()
//	g, err := rdf.DeserializeFile(rdf.FormatTurtle, "people.ttl", rdf.OptRegistry(reg))
//	if err != nil {
//	    // handle error
//	}
//	err = rdf.SerializeFile(rdf.FormatRDFXML, g, "people.rdf", rdf.OptRegistry(reg))
//
// Deserialization is all-or-nothing: a syntax error returns a *ParseError
// wrapping one of the package's sentinel errors and no graph. Serialization
// writes nothing when it fails.
//
// Containers (Bag, Seq, Alt) and collections are materialized as ordinary
// triples with AddContainer and AddCollection and read back with
// Graph.Container and Graph.Collection.
package rdf
