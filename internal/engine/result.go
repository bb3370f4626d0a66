package engine

import (
	"github.com/veldt/sparqlet/internal/algebra"
	"github.com/veldt/sparqlet/internal/codec"
	"github.com/veldt/sparqlet/internal/rdf"
)

// Result is a completed query result, tagged by form. Exactly one of the
// form-specific fields is meaningful:
//
//   - SELECT: Vars and Solutions
//   - ASK: Bool
//   - CONSTRUCT, DESCRIBE: Graph
//
// The graph is created during dispatch, owned exclusively by the Result,
// and never mutated after the Result is returned.
type Result struct {
	Form     algebra.QueryForm
	Distinct bool

	Vars      []string
	Solutions []Solution

	Bool bool

	Graph *rdf.Graph
}

// Serialize renders the result. SELECT and ASK accept the results encoding
// "json"; CONSTRUCT and DESCRIBE accept the RDF serializations ("nt",
// "xml") and delegate to the owned graph's codec. Unknown formats are an
// UnsupportedFormatError, never a fallback.
func (r *Result) Serialize(format string) ([]byte, error) {
	switch r.Form {
	case algebra.FormSelect:
		if format != FormatJSON {
			return nil, &codec.UnsupportedFormatError{Format: format}
		}
		return encodeSelectJSON(r)
	case algebra.FormAsk:
		if format != FormatJSON {
			return nil, &codec.UnsupportedFormatError{Format: format}
		}
		return encodeAskJSON(r)
	default:
		return codec.Serialize(r.Graph, format)
	}
}

// FormatJSON is the SPARQL-results-JSON encoding for SELECT and ASK.
const FormatJSON = "json"
