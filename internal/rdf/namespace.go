package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// Well-known vocabulary IRIs.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// RDF terms the engine needs by name.
var (
	RDFType    = NewIRI(RDFNamespace + "type")
	XSDInteger = NewIRI(XSDNamespace + "integer")
	XSDBoolean = NewIRI(XSDNamespace + "boolean")
	XSDDecimal = NewIRI(XSDNamespace + "decimal")
	XSDString  = NewIRI(XSDNamespace + "string")
)

// Namespaces maps prefixes to namespace IRIs. The zero value is unusable;
// create with NewNamespaces, which pre-binds rdf, rdfs, and xsd.
type Namespaces struct {
	byPrefix map[string]string
}

// NewNamespaces creates a namespace map with the standard bindings.
func NewNamespaces() *Namespaces {
	ns := &Namespaces{byPrefix: make(map[string]string)}
	ns.Bind("rdf", RDFNamespace)
	ns.Bind("rdfs", RDFSNamespace)
	ns.Bind("xsd", XSDNamespace)
	return ns
}

// Bind associates a prefix with a namespace IRI, replacing any previous
// binding for the prefix.
func (ns *Namespaces) Bind(prefix, iri string) {
	ns.byPrefix[prefix] = iri
}

// Prefixes returns the bound prefixes, sorted.
func (ns *Namespaces) Prefixes() []string {
	out := make([]string, 0, len(ns.byPrefix))
	for p := range ns.byPrefix {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the namespace IRI for a prefix.
func (ns *Namespaces) Lookup(prefix string) (string, bool) {
	iri, ok := ns.byPrefix[prefix]
	return iri, ok
}

// Expand resolves a prefixed name ("foaf:name") to an IRI term.
func (ns *Namespaces) Expand(qname string) (IRI, error) {
	idx := strings.Index(qname, ":")
	if idx < 0 {
		return IRI{}, fmt.Errorf("not a prefixed name: %q", qname)
	}
	prefix, local := qname[:idx], qname[idx+1:]
	base, ok := ns.byPrefix[prefix]
	if !ok {
		return IRI{}, fmt.Errorf("unbound namespace prefix %q", prefix)
	}
	return NewIRI(base + local), nil
}

// Clone returns an independent copy. Per-query namespace maps are merged
// into a clone so a query cannot mutate the caller's bindings.
func (ns *Namespaces) Clone() *Namespaces {
	out := &Namespaces{byPrefix: make(map[string]string, len(ns.byPrefix))}
	for p, iri := range ns.byPrefix {
		out.byPrefix[p] = iri
	}
	return out
}
