// Package sparql parses SPARQL query text into the algebra the evaluator
// executes.
//
// The grammar covered is the subset the engine evaluates: PREFIX
// declarations, the four query forms (SELECT with DISTINCT and projection,
// ASK, CONSTRUCT with a template, DESCRIBE with term or variable targets),
// basic graph patterns with ';' and ',' lists, FILTER expressions
// (comparisons, && || !, BOUND, extension-function calls by IRI), OPTIONAL,
// UNION, and GRAPH. Anything outside that subset is a ParseError, reported
// with line and column.
package sparql
