package codec

import (
	"errors"
	"fmt"

	"github.com/veldt/sparqlet/internal/rdf"
)

// Graph serialization format identifiers.
const (
	// FormatNTriples is line-oriented N-Triples.
	FormatNTriples = "nt"

	// FormatRDFXML is RDF/XML.
	FormatRDFXML = "xml"
)

// UnsupportedFormatError reports a format string no codec recognizes.
type UnsupportedFormatError struct {
	Format string
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported serialization format %q", e.Format)
}

// IsUnsupportedFormat reports whether err is an UnsupportedFormatError.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedFormat(err error) bool {
	var ue *UnsupportedFormatError
	return errors.As(err, &ue)
}

// Serialize renders a graph in the given format.
func Serialize(g *rdf.Graph, format string) ([]byte, error) {
	switch format {
	case FormatNTriples:
		return encodeNTriples(g), nil
	case FormatRDFXML:
		return encodeRDFXML(g)
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

// Parse decodes a graph from data in the given format.
func Parse(data []byte, format string) (*rdf.Graph, error) {
	switch format {
	case FormatNTriples:
		return decodeNTriples(data)
	case FormatRDFXML:
		return decodeRDFXML(data)
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}
