// Package harness provides conformance testing for query evaluation.
//
// The harness loads a scenario, assembles its dataset, runs the query,
// and serializes the result for golden file comparison.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	prefixes:
//	  foaf: "http://xmlns.com/foaf/0.1/"
//	dataset:
//	  default: |
//	    <http://example.org/a> <http://xmlns.com/foaf/0.1/name> "Alice".
//	  graphs:
//	    "http://example.org/g": |
//	      <http://example.org/b> <http://xmlns.com/foaf/0.1/name> "Bob".
//	query: |
//	  SELECT ?name WHERE { ?x foaf:name ?name }
//	format: json
//	expect_error: ""
//
// Graph content is inline N-Triples. The format field selects the result
// serialization ("json", "nt", "xml") compared against the golden file.
// When expect_error names an error kind ("parse", "unsupported_format",
// "extension"), the scenario passes only if evaluation fails that way.
//
// # Deterministic Output
//
// Evaluation order follows dataset insertion order, so a scenario's
// serialized result is identical across runs as long as its graphs avoid
// blank nodes (blank node labels are freshly generated).
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/ask_alice.yaml")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	harness.RunWithGolden(t, scenario)
package harness
