// Package algebra defines the parsed SPARQL query algebra: a root query
// tagged by form (SELECT, ASK, CONSTRUCT, DESCRIBE), a pattern tree over
// basic graph patterns, and filter expressions.
//
// A Query is built once by the parser and immutable thereafter; the
// evaluator walks it without modifying it. Pattern and Expr are sealed
// variant sets so the evaluator's dispatch is closed.
package algebra
