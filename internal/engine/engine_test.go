package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veldt/sparqlet/internal/codec"
	"github.com/veldt/sparqlet/internal/rdf"
	"github.com/veldt/sparqlet/internal/testutil"
)

const (
	foaf = testutil.FOAF
	exNS = testutil.PersonNS
)

func setupNameGraph(t *testing.T) *rdf.Graph {
	t.Helper()
	return testutil.NameGraph(t)
}

func setupKnowsGraph(t *testing.T) *rdf.Graph {
	t.Helper()
	return testutil.KnowsGraph(t)
}

func TestQuery_ConstructNTriples(t *testing.T) {
	g := setupNameGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX vcard: <http://www.w3.org/2001/vcard-rdf/3.0#>
		PREFIX ex: <http://example.org/person#>
		CONSTRUCT { ex:Alice vcard:FN ?name } WHERE { ?x foaf:name ?name }
	`, g, nil)
	require.NoError(t, err)

	out, err := res.Serialize(codec.FormatNTriples)
	require.NoError(t, err)
	assert.Equal(t,
		"<http://example.org/person#Alice> <http://www.w3.org/2001/vcard-rdf/3.0#FN> \"Alice\".\n",
		string(out))
}

func TestQuery_ConstructIsIdempotent(t *testing.T) {
	g := setupNameGraph(t)
	q := `
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX vcard: <http://www.w3.org/2001/vcard-rdf/3.0#>
		PREFIX ex: <http://example.org/person#>
		CONSTRUCT { ex:Alice vcard:FN ?name } WHERE { ?x foaf:name ?name }
	`

	first, err := Query(q, g, nil)
	require.NoError(t, err)
	second, err := Query(q, g, nil)
	require.NoError(t, err)

	assert.True(t, first.Graph.EqualTriples(second.Graph))
	assert.Equal(t, 1, g.Len(), "queried graph must stay untouched")
}

// Template blank nodes are relabeled fresh for every solution, so two
// solutions never share a blank node across instantiations.
func TestQuery_ConstructBlankNodesFreshPerSolution(t *testing.T) {
	g := setupKnowsGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		CONSTRUCT { ?person foaf:knows _:someone } WHERE { ?person foaf:knows ?other }
	`, g, nil)
	require.NoError(t, err)

	subjects := map[rdf.Term]bool{}
	objects := map[rdf.Term]bool{}
	for _, tr := range res.Graph.Triples() {
		subjects[tr.Subject] = true
		objects[tr.Object] = true
		_, isBlank := tr.Object.(rdf.BlankNode)
		assert.True(t, isBlank)
	}
	assert.Len(t, subjects, 3)
	assert.Equal(t, res.Graph.Len(), len(objects), "one fresh blank node per solution")
}

func TestQuery_SelectDistinctKnowsTwoOthers(t *testing.T) {
	g := setupKnowsGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT DISTINCT ?person WHERE {
			?person foaf:knows ?a .
			?person foaf:knows ?b .
			FILTER(?a != ?b)
		}
	`, g, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"person"}, res.Vars)

	people := map[rdf.Term]bool{}
	for _, sol := range res.Solutions {
		people[sol["person"]] = true
	}
	assert.Equal(t, map[rdf.Term]bool{
		rdf.NewIRI(exNS + "a"): true,
		rdf.NewIRI(exNS + "b"): true,
	}, people)
}

func TestQuery_SelectStarUsesFirstAppearanceOrder(t *testing.T) {
	g := setupNameGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT * WHERE { ?x foaf:name ?name }
	`, g, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "name"}, res.Vars)
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, rdf.NewLiteral("Alice"), res.Solutions[0]["name"])
}

func TestQuery_Ask(t *testing.T) {
	g := setupNameGraph(t)

	yes, err := Query(`PREFIX foaf: <http://xmlns.com/foaf/0.1/> ASK { ?x foaf:name "Alice" }`, g, nil)
	require.NoError(t, err)
	assert.True(t, yes.Bool)

	no, err := Query(`PREFIX foaf: <http://xmlns.com/foaf/0.1/> ASK { ?x foaf:name "Bob" }`, g, nil)
	require.NoError(t, err)
	assert.False(t, no.Bool)
}

func TestQuery_OptionalLeavesVariableUnbound(t *testing.T) {
	g := setupNameGraph(t)
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"alice"),
		rdf.NewIRI(foaf+"mbox"),
		rdf.NewIRI("mailto:alice@example.org"),
	))
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"bob"),
		rdf.NewIRI(foaf+"name"),
		rdf.NewLiteral("Bob"),
	))

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name ?mbox WHERE {
			?x foaf:name ?name .
			OPTIONAL { ?x foaf:mbox ?mbox }
		}
	`, g, nil)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 2)

	byName := map[string]Solution{}
	for _, sol := range res.Solutions {
		byName[sol["name"].(rdf.Literal).Value] = sol
	}
	_, aliceBound := byName["Alice"]["mbox"]
	assert.True(t, aliceBound)
	_, bobBound := byName["Bob"]["mbox"]
	assert.False(t, bobBound, "no mbox triple for bob, so the variable stays unbound")
}

func TestQuery_Union(t *testing.T) {
	g := setupNameGraph(t)
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"bob"),
		rdf.NewIRI(foaf+"nick"),
		rdf.NewLiteral("Bobby"),
	))

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?label WHERE {
			{ ?x foaf:name ?label } UNION { ?x foaf:nick ?label }
		}
	`, g, nil)
	require.NoError(t, err)

	labels := map[string]bool{}
	for _, sol := range res.Solutions {
		labels[sol["label"].(rdf.Literal).Value] = true
	}
	assert.Equal(t, map[string]bool{"Alice": true, "Bobby": true}, labels)
}

func TestQuery_GraphClauseOverDataset(t *testing.T) {
	d := rdf.NewDataset()
	people := d.CreateGraph("http://example.org/graph/people")
	people.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"alice"),
		rdf.NewIRI(foaf+"name"),
		rdf.NewLiteral("Alice"),
	))
	places := d.CreateGraph("http://example.org/graph/places")
	places.Add(rdf.MustTriple(
		rdf.NewIRI("http://example.org/place#oslo"),
		rdf.NewIRI(foaf+"name"),
		rdf.NewLiteral("Oslo"),
	))

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?g ?name WHERE {
			GRAPH ?g { ?x foaf:name ?name }
		}
	`, DatasetSource(d), nil)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 2)

	byGraph := map[string]string{}
	for _, sol := range res.Solutions {
		byGraph[sol["g"].(rdf.IRI).Value] = sol["name"].(rdf.Literal).Value
	}
	assert.Equal(t, map[string]string{
		"http://example.org/graph/people": "Alice",
		"http://example.org/graph/places": "Oslo",
	}, byGraph)
}

// A GRAPH clause against a plain graph target matches nothing instead of
// erroring.
func TestQuery_GraphClauseWithoutNamedGraphs(t *testing.T) {
	g := setupNameGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name WHERE { GRAPH ?g { ?x foaf:name ?name } }
	`, g, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Solutions)
}

func TestQuery_InitialBindingsActAsConstants(t *testing.T) {
	g := setupKnowsGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?other WHERE { ?person foaf:knows ?other }
	`, g, &Options{
		Bindings: Solution{"person": rdf.NewIRI(exNS + "c")},
	})
	require.NoError(t, err)
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, rdf.NewIRI(exNS+"a"), res.Solutions[0]["other"])
}

func TestQuery_CallerNamespacesDoNotLeak(t *testing.T) {
	g := setupNameGraph(t)
	ns := rdf.NewNamespaces()
	ns.Bind("foaf", foaf)

	res, err := Query(`ASK { ?x foaf:name "Alice" }`, g, &Options{Namespaces: ns})
	require.NoError(t, err)
	assert.True(t, res.Bool)

	_, err = Query(`PREFIX foaf: <http://other/> ASK { ?x foaf:name "Alice" }`, g, &Options{Namespaces: ns})
	require.NoError(t, err)
	expanded, err := ns.Expand("foaf:name")
	require.NoError(t, err)
	assert.Equal(t, rdf.NewIRI(foaf+"name"), expanded)
}

func TestQuery_FilterUnboundVariableDropsSolution(t *testing.T) {
	g := setupNameGraph(t)
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"bob"),
		rdf.NewIRI(foaf+"name"),
		rdf.NewLiteral("Bob"),
	))
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"bob"),
		rdf.NewIRI(foaf+"nick"),
		rdf.NewLiteral("Bobby"),
	))

	// ?nick is unbound for alice, so the filter drops her solution but
	// keeps evaluating; bob survives.
	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name WHERE {
			?x foaf:name ?name .
			OPTIONAL { ?x foaf:nick ?nick }
			FILTER(?nick = "Bobby")
		}
	`, g, nil)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, rdf.NewLiteral("Bob"), res.Solutions[0]["name"])
}

func TestQuery_FilterBound(t *testing.T) {
	g := setupNameGraph(t)
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"bob"),
		rdf.NewIRI(foaf+"name"),
		rdf.NewLiteral("Bob"),
	))
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"bob"),
		rdf.NewIRI(foaf+"nick"),
		rdf.NewLiteral("Bobby"),
	))

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name WHERE {
			?x foaf:name ?name .
			OPTIONAL { ?x foaf:nick ?nick }
			FILTER(!BOUND(?nick))
		}
	`, g, nil)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, rdf.NewLiteral("Alice"), res.Solutions[0]["name"])
}

func TestQuery_FilterNumericComparison(t *testing.T) {
	g := rdf.NewGraph("")
	age := rdf.NewIRI(foaf + "age")
	g.Add(rdf.MustTriple(rdf.NewIRI(exNS+"alice"), age, rdf.NewTypedLiteral("9", rdf.XSDInteger)))
	g.Add(rdf.MustTriple(rdf.NewIRI(exNS+"bob"), age, rdf.NewTypedLiteral("30", rdf.XSDInteger)))

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?x WHERE { ?x foaf:age ?age . FILTER(?age > 10) }
	`, g, nil)
	require.NoError(t, err)
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, rdf.NewIRI(exNS+"bob"), res.Solutions[0]["x"])
}

func TestQuery_ExtensionFunction(t *testing.T) {
	g := setupNameGraph(t)
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"bob"),
		rdf.NewIRI(foaf+"name"),
		rdf.NewLiteral("Bob"),
	))

	reg := NewRegistry()
	reg.Register("http://example.org/fn#isAlice", func(args []rdf.Term, _ Solution) (rdf.Term, error) {
		lit, ok := args[0].(rdf.Literal)
		if !ok {
			return nil, errors.New("expected a literal")
		}
		return rdf.NewTypedLiteral(fmt.Sprintf("%t", lit.Value == "Alice"), rdf.XSDBoolean), nil
	})

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX fn: <http://example.org/fn#>
		SELECT ?x WHERE { ?x foaf:name ?name . FILTER(fn:isAlice(?name)) }
	`, g, &Options{Extensions: reg})
	require.NoError(t, err)
	require.Len(t, res.Solutions, 1)
	assert.Equal(t, rdf.NewIRI(exNS+"alice"), res.Solutions[0]["x"])
}

func TestQuery_ExtensionFunctionFailureIsFatal(t *testing.T) {
	g := setupKnowsGraph(t)

	boom := errors.New("boom")
	reg := NewRegistry()
	reg.Register("http://example.org/fn#explode", func([]rdf.Term, Solution) (rdf.Term, error) {
		return nil, boom
	})

	_, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX fn: <http://example.org/fn#>
		SELECT ?x WHERE { ?x foaf:knows ?y . FILTER(fn:explode(?y)) }
	`, g, &Options{Extensions: reg})
	require.Error(t, err)
	assert.True(t, IsExtensionFunctionError(err))
	assert.ErrorIs(t, err, boom)
}

func TestQuery_UnregisteredExtensionFunctionIsFatal(t *testing.T) {
	g := setupKnowsGraph(t)

	_, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX fn: <http://example.org/fn#>
		ASK { ?x foaf:knows ?y . FILTER(fn:missing(?y)) }
	`, g, nil)
	require.Error(t, err)
	assert.True(t, IsExtensionFunctionError(err))
}

func TestQuery_DescribeDefaultDegreeOneClosure(t *testing.T) {
	g := setupNameGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		DESCRIBE ?x WHERE { ?x foaf:name "Alice" }
	`, g, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Graph.Len())
}

func TestQuery_DescribeIncludesIncomingTriples(t *testing.T) {
	g := setupKnowsGraph(t)

	res, err := Query(`PREFIX ex: <http://example.org/person#> DESCRIBE ex:c`, g, nil)
	require.NoError(t, err)

	// c knows a; a and b know c.
	assert.Equal(t, 3, res.Graph.Len())
}

// Each distinct term is described exactly once even when it resolves from
// multiple solutions.
func TestQuery_DescribeTermDescribedOnce(t *testing.T) {
	g := setupKnowsGraph(t)

	calls := 0
	reg := NewRegistry()
	reg.RegisterDescribe(func(terms []rdf.Term, _ Solution, _ GraphAccess) (*rdf.Graph, error) {
		calls += len(terms)
		out := rdf.NewGraph("")
		for _, term := range terms {
			out.Add(rdf.MustTriple(term, rdf.NewIRI(exNS+"seen"), rdf.NewLiteral("yes")))
		}
		return out, nil
	})

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		DESCRIBE ?other WHERE { ?person foaf:knows ?other }
	`, g, &Options{Extensions: reg})
	require.NoError(t, err)
	assert.Equal(t, 4, calls, "a, b, c, d each described once")
	assert.Equal(t, 4, res.Graph.Len())
}

// A registered describe callable replaces the default entirely; none of
// the default closure triples appear.
func TestQuery_DescribeOverrideReplacesDefault(t *testing.T) {
	g := setupKnowsGraph(t)

	reg := NewRegistry()
	reg.RegisterDescribe(func(terms []rdf.Term, _ Solution, _ GraphAccess) (*rdf.Graph, error) {
		out := rdf.NewGraph("")
		for _, term := range terms {
			out.Add(rdf.MustTriple(term, rdf.NewIRI(exNS+"kind"), rdf.NewLiteral("person")))
		}
		return out, nil
	})

	res, err := Query(`PREFIX ex: <http://example.org/person#> DESCRIBE ex:a`, g, &Options{Extensions: reg})
	require.NoError(t, err)
	require.Equal(t, 1, res.Graph.Len())
	assert.True(t, res.Graph.Has(rdf.MustTriple(
		rdf.NewIRI(exNS+"a"),
		rdf.NewIRI(exNS+"kind"),
		rdf.NewLiteral("person"),
	)))
}

func TestQuery_DescribeOverrideFailureIsFatal(t *testing.T) {
	g := setupKnowsGraph(t)

	boom := errors.New("describe failed")
	reg := NewRegistry()
	reg.RegisterDescribe(func([]rdf.Term, Solution, GraphAccess) (*rdf.Graph, error) {
		return nil, boom
	})

	_, err := Query(`PREFIX ex: <http://example.org/person#> DESCRIBE ex:a`, g, &Options{Extensions: reg})
	require.Error(t, err)
	assert.True(t, IsExtensionFunctionError(err))
	assert.ErrorIs(t, err, boom)
}

func TestQuery_ParseErrorSurfaces(t *testing.T) {
	g := setupNameGraph(t)

	_, err := Query(`SELECT ?x WHERE { ?x `, g, nil)
	require.Error(t, err)
}

// failingAccess fails every read with a StorageAccessError.
type failingAccess struct {
	err error
}

func (f failingAccess) TriplesMatching(_, _, _ rdf.Term) ([]rdf.Triple, error) {
	return nil, &StorageAccessError{Op: "match", Err: f.err}
}

func (f failingAccess) TriplesForAnyOf(_, _, _ []rdf.Term) ([]rdf.Triple, error) {
	return nil, &StorageAccessError{Op: "batch match", Err: f.err}
}

func TestQuery_StorageErrorPropagatesUnchanged(t *testing.T) {
	disk := errors.New("disk gone")

	_, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?x WHERE { ?x foaf:name ?name }
	`, failingAccess{err: disk}, nil)
	require.Error(t, err)
	assert.True(t, IsStorageAccessError(err))
	assert.ErrorIs(t, err, disk)
}

func TestQuery_StorageErrorFailsDescribe(t *testing.T) {
	disk := errors.New("disk gone")

	_, err := Query(`DESCRIBE <http://example.org/person#a>`, failingAccess{err: disk}, nil)
	require.Error(t, err)
	assert.True(t, IsStorageAccessError(err))
}

func TestResult_SerializeUnknownFormat(t *testing.T) {
	g := setupNameGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		PREFIX vcard: <http://www.w3.org/2001/vcard-rdf/3.0#>
		PREFIX ex: <http://example.org/person#>
		CONSTRUCT { ex:Alice vcard:FN ?name } WHERE { ?x foaf:name ?name }
	`, g, nil)
	require.NoError(t, err)

	out, err := res.Serialize("yaml")
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, codec.IsUnsupportedFormat(err))
}

func TestResult_SerializeSelectRejectsRDFFormats(t *testing.T) {
	g := setupNameGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name WHERE { ?x foaf:name ?name }
	`, g, nil)
	require.NoError(t, err)

	_, err = res.Serialize(codec.FormatNTriples)
	require.Error(t, err)
	assert.True(t, codec.IsUnsupportedFormat(err))
}
