// Package testutil provides shared graph fixtures and term builders for
// tests across packages.
package testutil

import (
	"testing"

	"github.com/veldt/sparqlet/internal/rdf"
)

// Namespace constants shared by the fixtures.
const (
	FOAF     = "http://xmlns.com/foaf/0.1/"
	VCard    = "http://www.w3.org/2001/vcard-rdf/3.0#"
	PersonNS = "http://example.org/person#"
)

// Person returns an IRI in the fixture person namespace.
func Person(local string) rdf.IRI {
	return rdf.NewIRI(PersonNS + local)
}

// Foaf returns an IRI in the FOAF namespace.
func Foaf(local string) rdf.IRI {
	return rdf.NewIRI(FOAF + local)
}

// NameGraph builds a one-triple graph: person:alice foaf:name "Alice".
func NameGraph(t *testing.T) *rdf.Graph {
	t.Helper()
	g := rdf.NewGraph("")
	g.Add(rdf.MustTriple(Person("alice"), Foaf("name"), rdf.NewLiteral("Alice")))
	return g
}

// KnowsGraph builds the acquaintance fixture: a knows b, c, and d;
// b knows a and c; c knows a. Only a and b know at least two distinct
// others.
func KnowsGraph(t *testing.T) *rdf.Graph {
	t.Helper()
	g := rdf.NewGraph("")
	knows := Foaf("knows")
	add := func(from, to string) {
		g.Add(rdf.MustTriple(Person(from), knows, Person(to)))
	}
	add("a", "b")
	add("a", "c")
	add("a", "d")
	add("b", "a")
	add("b", "c")
	add("c", "a")
	return g
}

// Namespaces returns a prefix table with foaf, vcard, and ex bound to the
// fixture namespaces.
func Namespaces() *rdf.Namespaces {
	ns := rdf.NewNamespaces()
	ns.Bind("foaf", FOAF)
	ns.Bind("vcard", VCard)
	ns.Bind("ex", PersonNS)
	return ns
}
