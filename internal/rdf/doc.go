// Package rdf defines the core RDF data model: terms, triples, graphs,
// datasets, and namespace bindings.
//
// Terms form a sealed variant set (IRI, Literal, BlankNode). All three are
// comparable value types, so triples can be used directly as map keys and
// graphs get set semantics for free. Term equality and the canonical
// N-Triples rendering are total over all variants.
//
// Graphs preserve insertion order. Query evaluation depends on a
// deterministic iteration order for a fixed graph, and insertion order is
// the one order every backend can reproduce.
package rdf
