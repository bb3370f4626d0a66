package rdf

import "fmt"

// Dataset is one default graph plus zero or more named graphs. Named graphs
// are held behind their identifier; components address a graph by name, not
// by shared reference, so ownership stays with the dataset.
type Dataset struct {
	defaultGraph *Graph
	named        map[string]*Graph
	order        []string
}

// NewDataset creates a dataset with an empty default graph.
func NewDataset() *Dataset {
	return &Dataset{
		defaultGraph: NewGraph(""),
		named:        make(map[string]*Graph),
	}
}

// Default returns the default graph.
func (d *Dataset) Default() *Graph {
	return d.defaultGraph
}

// Graph returns the named graph, or false if no graph has that name.
func (d *Dataset) Graph(name string) (*Graph, bool) {
	g, ok := d.named[name]
	return g, ok
}

// CreateGraph returns the named graph, creating it if needed.
func (d *Dataset) CreateGraph(name string) *Graph {
	if g, ok := d.named[name]; ok {
		return g
	}
	g := NewGraph(name)
	d.named[name] = g
	d.order = append(d.order, name)
	return g
}

// RemoveGraph deletes a named graph, returning false if absent.
func (d *Dataset) RemoveGraph(name string) bool {
	if _, ok := d.named[name]; !ok {
		return false
	}
	delete(d.named, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the named graph identifiers in creation order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// TriplesMatching queries the merged view: the default graph followed by the
// named graphs in creation order. Satisfies the evaluator's access
// interface, so a whole dataset can be queried as one graph.
func (d *Dataset) TriplesMatching(s, p, o Term) ([]Triple, error) {
	out, err := d.defaultGraph.TriplesMatching(s, p, o)
	if err != nil {
		return nil, err
	}
	for _, name := range d.order {
		ts, err := d.named[name].TriplesMatching(s, p, o)
		if err != nil {
			return nil, fmt.Errorf("graph %q: %w", name, err)
		}
		out = append(out, ts...)
	}
	return out, nil
}

// TriplesForAnyOf queries the merged view with set-membership slots.
func (d *Dataset) TriplesForAnyOf(subjects, predicates, objects []Term) ([]Triple, error) {
	out, err := d.defaultGraph.TriplesForAnyOf(subjects, predicates, objects)
	if err != nil {
		return nil, err
	}
	for _, name := range d.order {
		ts, err := d.named[name].TriplesForAnyOf(subjects, predicates, objects)
		if err != nil {
			return nil, fmt.Errorf("graph %q: %w", name, err)
		}
		out = append(out, ts...)
	}
	return out, nil
}
