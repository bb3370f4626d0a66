package engine

import (
	"encoding/json"
	"fmt"

	"github.com/veldt/sparqlet/internal/rdf"
)

type selectDocument struct {
	Head    selectHead    `json:"head"`
	Results selectResults `json:"results"`
}

type selectHead struct {
	Vars []string `json:"vars"`
}

type selectResults struct {
	Ordered  bool                       `json:"ordered"`
	Distinct bool                       `json:"distinct"`
	Bindings []map[string]boundTermJSON `json:"bindings"`
}

type boundTermJSON struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Language string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

type askDocument struct {
	Head    struct{} `json:"head"`
	Boolean bool     `json:"boolean"`
}

// encodeSelectJSON renders a SELECT result in the SPARQL results JSON
// shape. Unbound variables are absent from their binding object rather
// than serialized with a placeholder.
func encodeSelectJSON(r *Result) ([]byte, error) {
	doc := selectDocument{
		Head: selectHead{Vars: r.Vars},
		Results: selectResults{
			Ordered:  false,
			Distinct: r.Distinct,
			Bindings: make([]map[string]boundTermJSON, 0, len(r.Solutions)),
		},
	}
	if doc.Head.Vars == nil {
		doc.Head.Vars = []string{}
	}
	for _, sol := range r.Solutions {
		binding := make(map[string]boundTermJSON, len(sol))
		for _, name := range r.Vars {
			term, ok := sol[name]
			if !ok {
				continue
			}
			encoded, err := encodeTermJSON(term)
			if err != nil {
				return nil, err
			}
			binding[name] = encoded
		}
		doc.Results.Bindings = append(doc.Results.Bindings, binding)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeAskJSON(r *Result) ([]byte, error) {
	return json.MarshalIndent(askDocument{Boolean: r.Bool}, "", "  ")
}

func encodeTermJSON(term rdf.Term) (boundTermJSON, error) {
	switch t := term.(type) {
	case rdf.IRI:
		return boundTermJSON{Type: "uri", Value: t.Value}, nil
	case rdf.BlankNode:
		return boundTermJSON{Type: "bnode", Value: t.ID}, nil
	case rdf.Literal:
		out := boundTermJSON{Type: "literal", Value: t.Value, Language: t.Language}
		if t.Datatype.Value != "" {
			out.Type = "typed-literal"
			out.Datatype = t.Datatype.Value
		}
		return out, nil
	default:
		return boundTermJSON{}, fmt.Errorf("serialize binding: unsupported term %T", term)
	}
}
