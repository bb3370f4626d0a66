package engine

import (
	"github.com/veldt/sparqlet/internal/rdf"
	"github.com/veldt/sparqlet/internal/sparql"
)

// Options configures a single query evaluation. The zero value is valid.
type Options struct {
	// Bindings seeds the evaluation with initial variable bindings. Seeded
	// variables behave as constants throughout the query.
	Bindings Solution

	// Namespaces supplies prefix bindings available to the query text in
	// addition to its own PREFIX declarations. The query's declarations
	// win on collision and never leak back into this set.
	Namespaces *rdf.Namespaces

	// Extensions resolves operator IRIs in filter expressions and, when a
	// callable is bound under DescribeOperator, replaces the default
	// DESCRIBE behavior.
	Extensions *Registry
}

// Query parses and evaluates a query against the target. The target is any
// GraphAccess; passing a DatasetAccess additionally enables GRAPH clauses
// over its named graphs. Evaluation is single-pass and produces the
// complete result before returning.
//
// Query never mutates the target. Failures surface as typed errors:
// sparql.ParseError for malformed text, StorageAccessError when the target
// fails, ExtensionFunctionError when a registered callable fails.
func Query(text string, target GraphAccess, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	q, err := sparql.Parse(text, opts.Namespaces)
	if err != nil {
		return nil, err
	}
	init := opts.Bindings
	if init == nil {
		init = Solution{}
	}
	e := &evaluator{registry: opts.Extensions}
	return e.dispatch(q, init, target)
}
