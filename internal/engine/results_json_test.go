package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veldt/sparqlet/internal/rdf"
)

func TestSerialize_SelectJSONShape(t *testing.T) {
	g := setupNameGraph(t)
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"alice"),
		rdf.NewIRI(foaf+"age"),
		rdf.NewTypedLiteral("30", rdf.XSDInteger),
	))

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT DISTINCT ?x ?name ?age WHERE {
			?x foaf:name ?name .
			OPTIONAL { ?x foaf:age ?age }
		}
	`, g, nil)
	require.NoError(t, err)

	out, err := res.Serialize(FormatJSON)
	require.NoError(t, err)

	var doc struct {
		Head struct {
			Vars []string `json:"vars"`
		} `json:"head"`
		Results struct {
			Ordered  bool                        `json:"ordered"`
			Distinct bool                        `json:"distinct"`
			Bindings []map[string]map[string]any `json:"bindings"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, []string{"x", "name", "age"}, doc.Head.Vars)
	assert.False(t, doc.Results.Ordered)
	assert.True(t, doc.Results.Distinct)
	require.Len(t, doc.Results.Bindings, 1)

	binding := doc.Results.Bindings[0]
	assert.Equal(t, "uri", binding["x"]["type"])
	assert.Equal(t, exNS+"alice", binding["x"]["value"])
	assert.Equal(t, "literal", binding["name"]["type"])
	assert.Equal(t, "Alice", binding["name"]["value"])
	assert.Equal(t, "typed-literal", binding["age"]["type"])
	assert.Equal(t, rdf.XSDInteger.Value, binding["age"]["datatype"])
}

// Unbound projected variables stay absent from the binding object.
func TestSerialize_SelectJSONOmitsUnbound(t *testing.T) {
	g := setupNameGraph(t)

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name ?age WHERE {
			?x foaf:name ?name .
			OPTIONAL { ?x foaf:age ?age }
		}
	`, g, nil)
	require.NoError(t, err)

	out, err := res.Serialize(FormatJSON)
	require.NoError(t, err)

	var doc struct {
		Results struct {
			Bindings []map[string]json.RawMessage `json:"bindings"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	require.Len(t, doc.Results.Bindings, 1)
	assert.Contains(t, doc.Results.Bindings[0], "name")
	assert.NotContains(t, doc.Results.Bindings[0], "age")
}

func TestSerialize_SelectJSONLanguageTag(t *testing.T) {
	g := rdf.NewGraph("")
	g.Add(rdf.MustTriple(
		rdf.NewIRI(exNS+"oslo"),
		rdf.NewIRI(foaf+"name"),
		rdf.NewLangLiteral("Oslo", "no"),
	))

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name WHERE { ?x foaf:name ?name }
	`, g, nil)
	require.NoError(t, err)

	out, err := res.Serialize(FormatJSON)
	require.NoError(t, err)

	var doc struct {
		Results struct {
			Bindings []map[string]map[string]string `json:"bindings"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	require.Len(t, doc.Results.Bindings, 1)
	assert.Equal(t, "no", doc.Results.Bindings[0]["name"]["xml:lang"])
}

func TestSerialize_AskJSON(t *testing.T) {
	g := setupNameGraph(t)

	res, err := Query(`PREFIX foaf: <http://xmlns.com/foaf/0.1/> ASK { ?x foaf:name "Alice" }`, g, nil)
	require.NoError(t, err)

	out, err := res.Serialize(FormatJSON)
	require.NoError(t, err)

	var doc struct {
		Head    map[string]any `json:"head"`
		Boolean bool           `json:"boolean"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.NotNil(t, doc.Head)
	assert.Empty(t, doc.Head)
	assert.True(t, doc.Boolean)
}

func TestSerialize_SelectJSONEmptyResult(t *testing.T) {
	g := rdf.NewGraph("")

	res, err := Query(`
		PREFIX foaf: <http://xmlns.com/foaf/0.1/>
		SELECT ?name WHERE { ?x foaf:name ?name }
	`, g, nil)
	require.NoError(t, err)

	out, err := res.Serialize(FormatJSON)
	require.NoError(t, err)

	var doc struct {
		Head struct {
			Vars []string `json:"vars"`
		} `json:"head"`
		Results struct {
			Bindings []map[string]any `json:"bindings"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, []string{"name"}, doc.Head.Vars)
	assert.NotNil(t, doc.Results.Bindings)
	assert.Empty(t, doc.Results.Bindings)
}
