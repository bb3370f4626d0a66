// Package codec parses and serializes RDF graphs.
//
// Two formats are supported: "nt" (N-Triples, one statement per line) and
// "xml" (RDF/XML). Both round-trip: parsing the serialization of a graph
// yields a graph with the same triple set, up to blank node relabeling.
// Asking for any other format is an UnsupportedFormatError, never a silent
// fallback.
package codec
