package rdf

import "fmt"

// Triple is a single RDF statement. Subjects are IRIs or blank nodes,
// predicates are IRIs, objects are any term. Construction through NewTriple
// enforces the positional constraints; a Triple literal bypasses them and is
// only appropriate where the positions are already known valid.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple creates a triple, validating term positions.
func NewTriple(s, p, o Term) (Triple, error) {
	switch s.(type) {
	case IRI, BlankNode:
	default:
		return Triple{}, fmt.Errorf("triple subject must be an IRI or blank node, got %s", s.NTriples())
	}
	if _, ok := p.(IRI); !ok {
		return Triple{}, fmt.Errorf("triple predicate must be an IRI, got %s", p.NTriples())
	}
	return Triple{Subject: s, Predicate: p, Object: o}, nil
}

// MustTriple creates a triple and panics on invalid positions.
// Intended for literals in tests and fixtures.
func MustTriple(s, p, o Term) Triple {
	t, err := NewTriple(s, p, o)
	if err != nil {
		panic(err)
	}
	return t
}

// NTriples returns the triple as a single N-Triples statement line,
// terminated by ".\n".
func (t Triple) NTriples() string {
	return fmt.Sprintf("%s %s %s.\n", t.Subject.NTriples(), t.Predicate.NTriples(), t.Object.NTriples())
}

// Equal reports positional term equality.
func (t Triple) Equal(other Triple) bool {
	return t.Subject.Equal(other.Subject) &&
		t.Predicate.Equal(other.Predicate) &&
		t.Object.Equal(other.Object)
}
