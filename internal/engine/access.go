package engine

import "github.com/veldt/sparqlet/internal/rdf"

// GraphAccess is the read interface the evaluator consumes. A nil pattern
// slot is a wildcard; in the batched variant a nil set matches everything
// and an empty set matches nothing. Implementations must be safe for
// concurrent readers and must return triples in a stable order for
// unchanged data.
//
// rdf.Graph and rdf.Dataset satisfy this directly; storage backends return
// a StorageAccessError on failure, which the evaluator propagates
// unchanged.
type GraphAccess interface {
	TriplesMatching(s, p, o rdf.Term) ([]rdf.Triple, error)
	TriplesForAnyOf(subjects, predicates, objects []rdf.Term) ([]rdf.Triple, error)
}

// DatasetAccess extends GraphAccess with named graph lookup, enabling
// GRAPH clauses. Targets without named graphs (a single rdf.Graph) simply
// never match a GRAPH clause.
type DatasetAccess interface {
	GraphAccess

	// NamedGraph returns access scoped to one named graph.
	NamedGraph(name string) (GraphAccess, bool)

	// GraphNames returns the named graph identifiers in a stable order.
	GraphNames() []string
}

// DatasetSource adapts an rdf.Dataset to DatasetAccess. The merged view
// (default graph plus named graphs) serves queries outside GRAPH clauses.
func DatasetSource(d *rdf.Dataset) DatasetAccess {
	return datasetSource{d: d}
}

type datasetSource struct {
	d *rdf.Dataset
}

func (s datasetSource) TriplesMatching(subj, pred, obj rdf.Term) ([]rdf.Triple, error) {
	return s.d.TriplesMatching(subj, pred, obj)
}

func (s datasetSource) TriplesForAnyOf(subjects, predicates, objects []rdf.Term) ([]rdf.Triple, error) {
	return s.d.TriplesForAnyOf(subjects, predicates, objects)
}

func (s datasetSource) NamedGraph(name string) (GraphAccess, bool) {
	g, ok := s.d.Graph(name)
	if !ok {
		return nil, false
	}
	return g, true
}

func (s datasetSource) GraphNames() []string {
	return s.d.Names()
}
