package harness

import (
	"fmt"

	"github.com/veldt/sparqlet/internal/algebra"
	"github.com/veldt/sparqlet/internal/codec"
	"github.com/veldt/sparqlet/internal/engine"
	"github.com/veldt/sparqlet/internal/rdf"
	"github.com/veldt/sparqlet/internal/sparql"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Form is the query form that ran.
	Form algebra.QueryForm

	// Output is the serialized result. Nil when the scenario expects an
	// error and evaluation failed as expected.
	Output []byte
}

// Run executes a scenario: assembles the dataset, evaluates the query,
// and serializes the result in the scenario's format.
//
// When the scenario expects an error, Run succeeds only if evaluation or
// serialization fails with that error kind.
func Run(scenario *Scenario, extensions *engine.Registry) (*Result, error) {
	dataset, err := buildDataset(&scenario.Dataset)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	ns := rdf.NewNamespaces()
	for prefix, iri := range scenario.Prefixes {
		ns.Bind(prefix, iri)
	}

	form, output, runErr := evaluate(scenario, dataset, ns, extensions)

	if scenario.ExpectError != "" {
		if runErr == nil {
			return nil, fmt.Errorf("scenario %s: expected %s error, query succeeded", scenario.Name, scenario.ExpectError)
		}
		if !matchesErrorKind(scenario.ExpectError, runErr) {
			return nil, fmt.Errorf("scenario %s: expected %s error, got: %w", scenario.Name, scenario.ExpectError, runErr)
		}
		return &Result{}, nil
	}

	if runErr != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, runErr)
	}
	return &Result{Form: form, Output: output}, nil
}

func evaluate(scenario *Scenario, dataset *rdf.Dataset, ns *rdf.Namespaces, extensions *engine.Registry) (algebra.QueryForm, []byte, error) {
	result, err := engine.Query(scenario.Query, engine.DatasetSource(dataset), &engine.Options{
		Namespaces: ns,
		Extensions: extensions,
	})
	if err != nil {
		return "", nil, err
	}
	out, err := result.Serialize(scenario.Format)
	return result.Form, out, err
}

// buildDataset parses the scenario's inline N-Triples graphs.
func buildDataset(spec *DatasetSpec) (*rdf.Dataset, error) {
	d := rdf.NewDataset()

	if spec.Default != "" {
		g, err := codec.Parse([]byte(spec.Default), codec.FormatNTriples)
		if err != nil {
			return nil, fmt.Errorf("default graph: %w", err)
		}
		d.Default().Merge(g)
	}

	for name, content := range spec.Graphs {
		g, err := codec.Parse([]byte(content), codec.FormatNTriples)
		if err != nil {
			return nil, fmt.Errorf("graph %s: %w", name, err)
		}
		d.CreateGraph(name).Merge(g)
	}

	return d, nil
}

// matchesErrorKind maps expect_error kinds to the error taxonomy.
func matchesErrorKind(kind string, err error) bool {
	switch kind {
	case ExpectParseError:
		return sparql.IsParseError(err)
	case ExpectUnsupportedFormat:
		return codec.IsUnsupportedFormat(err)
	case ExpectExtensionFailure:
		return engine.IsExtensionFunctionError(err)
	}
	return false
}
