package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a dataset, a query, and
// the serialization whose bytes the golden file pins down.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Prefixes maps prefix labels to namespace IRIs available to the
	// query without PREFIX declarations.
	Prefixes map[string]string `yaml:"prefixes,omitempty"`

	// Dataset holds the graphs to query, as inline N-Triples.
	Dataset DatasetSpec `yaml:"dataset,omitempty"`

	// Query is the query text.
	Query string `yaml:"query"`

	// Format selects the result serialization compared against the
	// golden file: "json", "nt", or "xml".
	Format string `yaml:"format"`

	// ExpectError names an error kind the evaluation must fail with:
	// "parse", "unsupported_format", or "extension". Empty means the
	// scenario must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// DatasetSpec describes the scenario's dataset as inline N-Triples.
type DatasetSpec struct {
	// Default is the default graph's content.
	Default string `yaml:"default,omitempty"`

	// Graphs maps named graph IRIs to their content.
	Graphs map[string]string `yaml:"graphs,omitempty"`
}

// Error kind constants for ExpectError.
const (
	ExpectParseError        = "parse"
	ExpectUnsupportedFormat = "unsupported_format"
	ExpectExtensionFailure  = "extension"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expected_error:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Query == "" {
		return fmt.Errorf("query is required")
	}

	if s.Format == "" {
		return fmt.Errorf("format is required")
	}

	switch s.ExpectError {
	case "", ExpectParseError, ExpectUnsupportedFormat, ExpectExtensionFailure:
	default:
		return fmt.Errorf("unknown expect_error kind %q", s.ExpectError)
	}

	if s.ExpectError == "" && s.Dataset.Default == "" && len(s.Dataset.Graphs) == 0 {
		return fmt.Errorf("dataset is required unless an error is expected")
	}

	return nil
}
