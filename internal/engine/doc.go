// Package engine evaluates parsed SPARQL queries against RDF graphs.
//
// The evaluator walks the algebra pattern tree and produces a lazy,
// single-pass stream of solutions: nested-loop joins with binding
// propagation, filters with SPARQL's filter-local unbound semantics,
// OPTIONAL as a left outer join, and GRAPH scoping over datasets. The
// result-form dispatcher consumes the stream and produces a Result tagged
// SELECT, ASK, CONSTRUCT, or DESCRIBE; CONSTRUCT and DESCRIBE results own a
// freshly created graph, independent of the source data.
//
// Evaluation is synchronous and deterministic for a fixed query and a fixed
// iteration order of the underlying graph. Concurrent queries over the same
// data are safe as long as the graph access read path is; the engine takes
// no locks and provides no snapshot isolation. Callers serialize mutations
// against in-flight queries externally.
package engine
