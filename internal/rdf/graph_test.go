package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ex(local string) IRI {
	return NewIRI("http://example.org/" + local)
}

func TestGraph_AddDeduplicates(t *testing.T) {
	g := NewGraph("")
	tr := MustTriple(ex("a"), ex("p"), ex("b"))

	assert.True(t, g.Add(tr))
	assert.False(t, g.Add(tr), "duplicate add is a no-op")
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(tr))
}

func TestGraph_InsertionOrder(t *testing.T) {
	g := NewGraph("")
	t1 := MustTriple(ex("a"), ex("p"), ex("b"))
	t2 := MustTriple(ex("b"), ex("p"), ex("c"))
	t3 := MustTriple(ex("c"), ex("p"), ex("a"))
	g.Add(t2)
	g.Add(t1)
	g.Add(t3)

	assert.Equal(t, []Triple{t2, t1, t3}, g.Triples())
}

func TestGraph_Remove(t *testing.T) {
	g := NewGraph("")
	tr := MustTriple(ex("a"), ex("p"), ex("b"))
	g.Add(tr)

	assert.True(t, g.Remove(tr))
	assert.False(t, g.Remove(tr))
	assert.Equal(t, 0, g.Len())
}

func TestGraph_TriplesMatching(t *testing.T) {
	g := NewGraph("")
	t1 := MustTriple(ex("a"), ex("knows"), ex("b"))
	t2 := MustTriple(ex("a"), ex("knows"), ex("c"))
	t3 := MustTriple(ex("b"), ex("knows"), ex("a"))
	g.AddAll([]Triple{t1, t2, t3})

	got, err := g.TriplesMatching(ex("a"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []Triple{t1, t2}, got)

	got, err = g.TriplesMatching(nil, nil, ex("a"))
	require.NoError(t, err)
	assert.Equal(t, []Triple{t3}, got)

	got, err = g.TriplesMatching(nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = g.TriplesMatching(ex("missing"), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGraph_TriplesForAnyOf(t *testing.T) {
	g := NewGraph("")
	t1 := MustTriple(ex("a"), ex("knows"), ex("b"))
	t2 := MustTriple(ex("b"), ex("knows"), ex("a"))
	t3 := MustTriple(ex("c"), ex("knows"), ex("d"))
	g.AddAll([]Triple{t1, t2, t3})

	// All statements mentioning ex:a as subject.
	got, err := g.TriplesForAnyOf([]Term{ex("a")}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []Triple{t1}, got)

	// Membership over several subjects.
	got, err = g.TriplesForAnyOf([]Term{ex("a"), ex("c")}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []Triple{t1, t3}, got)

	// Empty (non-nil) set matches nothing.
	got, err = g.TriplesForAnyOf([]Term{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGraph_EqualTriples(t *testing.T) {
	a := NewGraph("")
	b := NewGraph("")
	t1 := MustTriple(ex("a"), ex("p"), ex("b"))
	t2 := MustTriple(ex("b"), ex("p"), ex("c"))
	a.AddAll([]Triple{t1, t2})
	b.AddAll([]Triple{t2, t1}) // different order, same set

	assert.True(t, a.EqualTriples(b))

	b.Add(MustTriple(ex("c"), ex("p"), ex("a")))
	assert.False(t, a.EqualTriples(b))
}

func TestGraph_Isomorphic(t *testing.T) {
	a := NewGraph("")
	a.Add(MustTriple(NewBlankNode("x"), ex("p"), ex("v")))
	a.Add(MustTriple(NewBlankNode("x"), ex("q"), NewBlankNode("y")))

	b := NewGraph("")
	b.Add(MustTriple(NewBlankNode("n1"), ex("p"), ex("v")))
	b.Add(MustTriple(NewBlankNode("n1"), ex("q"), NewBlankNode("n2")))

	assert.True(t, a.Isomorphic(b), "graphs equal up to blank node renaming")

	// Break the shared-subject structure: n3 != n1.
	c := NewGraph("")
	c.Add(MustTriple(NewBlankNode("n1"), ex("p"), ex("v")))
	c.Add(MustTriple(NewBlankNode("n3"), ex("q"), NewBlankNode("n2")))
	assert.False(t, a.Isomorphic(c))
}

func TestDataset_MergedView(t *testing.T) {
	d := NewDataset()
	t1 := MustTriple(ex("a"), ex("p"), ex("b"))
	t2 := MustTriple(ex("c"), ex("p"), ex("d"))
	d.Default().Add(t1)
	d.CreateGraph("http://example.org/g1").Add(t2)

	got, err := d.TriplesMatching(nil, ex("p"), nil)
	require.NoError(t, err)
	assert.Equal(t, []Triple{t1, t2}, got, "default graph first, then named graphs in creation order")

	g, ok := d.Graph("http://example.org/g1")
	require.True(t, ok)
	assert.Equal(t, 1, g.Len())

	assert.True(t, d.RemoveGraph("http://example.org/g1"))
	assert.False(t, d.RemoveGraph("http://example.org/g1"))
	assert.Empty(t, d.Names())
}

func TestNamespaces_Expand(t *testing.T) {
	ns := NewNamespaces()
	ns.Bind("foaf", "http://xmlns.com/foaf/0.1/")

	iri, err := ns.Expand("foaf:name")
	require.NoError(t, err)
	assert.Equal(t, "http://xmlns.com/foaf/0.1/name", iri.Value)

	iri, err = ns.Expand("rdf:type")
	require.NoError(t, err)
	assert.Equal(t, RDFType, iri)

	_, err = ns.Expand("nosuch:thing")
	assert.Error(t, err)

	_, err = ns.Expand("notaqname")
	assert.Error(t, err)
}

func TestNamespaces_CloneIsIndependent(t *testing.T) {
	ns := NewNamespaces()
	clone := ns.Clone()
	clone.Bind("ex", "http://example.org/")

	_, ok := ns.Lookup("ex")
	assert.False(t, ok, "binding on clone must not leak to original")
}
