package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/veldt/sparqlet/internal/rdf"
)

// encodeRDFXML renders the graph as RDF/XML: one rdf:Description per
// subject, properties in insertion order. Predicate IRIs are split into a
// namespace and an XML local name; every namespace gets a generated prefix
// declared on the root element.
func encodeRDFXML(g *rdf.Graph) ([]byte, error) {
	triples := g.Triples()

	// Assign prefixes to predicate namespaces in first-appearance order.
	prefixes := map[string]string{}
	var nsOrder []string
	for _, t := range triples {
		pred := t.Predicate.(rdf.IRI)
		ns, _, err := splitIRI(pred.Value)
		if err != nil {
			return nil, err
		}
		if _, ok := prefixes[ns]; !ok {
			prefixes[ns] = fmt.Sprintf("ns%d", len(prefixes)+1)
			nsOrder = append(nsOrder, ns)
		}
	}

	// Group triples by subject, preserving subject first-appearance order.
	subjectKey := func(t rdf.Term) string { return t.NTriples() }
	grouped := map[string][]rdf.Triple{}
	var subjOrder []rdf.Term
	for _, t := range triples {
		k := subjectKey(t.Subject)
		if _, ok := grouped[k]; !ok {
			subjOrder = append(subjOrder, t.Subject)
		}
		grouped[k] = append(grouped[k], t)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<rdf:RDF xmlns:rdf="` + rdf.RDFNamespace + `"`)
	for _, ns := range nsOrder {
		buf.WriteString(fmt.Sprintf(" xmlns:%s=%q", prefixes[ns], ns))
	}
	buf.WriteString(">\n")

	for _, subj := range subjOrder {
		switch s := subj.(type) {
		case rdf.IRI:
			buf.WriteString(`  <rdf:Description rdf:about="`)
			escapeXML(&buf, s.Value)
			buf.WriteString("\">\n")
		case rdf.BlankNode:
			buf.WriteString(`  <rdf:Description rdf:nodeID="`)
			escapeXML(&buf, s.ID)
			buf.WriteString("\">\n")
		}
		for _, t := range grouped[subjectKey(subj)] {
			if err := writeProperty(&buf, t, prefixes); err != nil {
				return nil, err
			}
		}
		buf.WriteString("  </rdf:Description>\n")
	}
	buf.WriteString("</rdf:RDF>\n")
	return buf.Bytes(), nil
}

// writeProperty emits one property element for a triple.
func writeProperty(buf *bytes.Buffer, t rdf.Triple, prefixes map[string]string) error {
	pred := t.Predicate.(rdf.IRI)
	ns, local, err := splitIRI(pred.Value)
	if err != nil {
		return err
	}
	tag := prefixes[ns] + ":" + local

	switch o := t.Object.(type) {
	case rdf.IRI:
		buf.WriteString("    <" + tag + ` rdf:resource="`)
		escapeXML(buf, o.Value)
		buf.WriteString("\"/>\n")
	case rdf.BlankNode:
		buf.WriteString("    <" + tag + ` rdf:nodeID="`)
		escapeXML(buf, o.ID)
		buf.WriteString("\"/>\n")
	case rdf.Literal:
		buf.WriteString("    <" + tag)
		if o.Language != "" {
			buf.WriteString(` xml:lang="`)
			escapeXML(buf, o.Language)
			buf.WriteString(`"`)
		} else if o.Datatype.Value != "" {
			buf.WriteString(` rdf:datatype="`)
			escapeXML(buf, o.Datatype.Value)
			buf.WriteString(`"`)
		}
		buf.WriteString(">")
		escapeXML(buf, o.Value)
		buf.WriteString("</" + tag + ">\n")
	}
	return nil
}

func escapeXML(buf *bytes.Buffer, s string) {
	// EscapeText never fails on a bytes.Buffer.
	_ = xml.EscapeText(buf, []byte(s))
}

// splitIRI splits an IRI into a namespace and an XML-safe local name.
// The split point is after the last '#' or '/'. RDF/XML cannot express a
// predicate whose local part is not a valid NCName.
func splitIRI(iri string) (ns, local string, err error) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx < 0 || idx == len(iri)-1 {
		return "", "", &ParseError{Message: fmt.Sprintf("predicate IRI %q has no XML-serializable local name", iri)}
	}
	ns, local = iri[:idx+1], iri[idx+1:]
	if !isNCName(local) {
		return "", "", &ParseError{Message: fmt.Sprintf("predicate local name %q is not an XML name", local)}
	}
	return ns, local, nil
}

func isNCName(s string) bool {
	for i, r := range s {
		alpha := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_' || r > 127
		digit := r >= '0' && r <= '9'
		if i == 0 && !alpha {
			return false
		}
		if !alpha && !digit && r != '-' && r != '.' {
			return false
		}
	}
	return len(s) > 0
}

// decodeRDFXML parses the RDF/XML subset the encoder produces, plus typed
// node elements (element name in place of rdf:Description, yielding an
// rdf:type triple).
func decodeRDFXML(data []byte) (*rdf.Graph, error) {
	g := rdf.NewGraph("")
	dec := xml.NewDecoder(bytes.NewReader(data))

	// Find the rdf:RDF root.
	root, err := nextStartElement(dec)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("reading RDF/XML root: %v", err)}
	}
	if root.Name.Space != rdf.RDFNamespace || root.Name.Local != "RDF" {
		return nil, &ParseError{Message: fmt.Sprintf("expected rdf:RDF root, got %s", root.Name.Local)}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Message: err.Error()}
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if err := decodeNodeElement(dec, g, el); err != nil {
				return nil, err
			}
		case xml.EndElement:
			// closing rdf:RDF
		}
	}
	return g, nil
}

// decodeNodeElement parses one subject node element and its properties.
func decodeNodeElement(dec *xml.Decoder, g *rdf.Graph, el xml.StartElement) error {
	var subject rdf.Term
	for _, attr := range el.Attr {
		if attr.Name.Space != rdf.RDFNamespace {
			continue
		}
		switch attr.Name.Local {
		case "about":
			subject = rdf.NewIRI(attr.Value)
		case "nodeID":
			subject = rdf.NewBlankNode(attr.Value)
		}
	}
	if subject == nil {
		subject = rdf.NewAnonNode()
	}

	// Typed node element: the element name is the rdf:type.
	if !(el.Name.Space == rdf.RDFNamespace && el.Name.Local == "Description") {
		t, err := rdf.NewTriple(subject, rdf.RDFType, rdf.NewIRI(el.Name.Space+el.Name.Local))
		if err != nil {
			return &ParseError{Message: err.Error()}
		}
		g.Add(t)
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return &ParseError{Message: err.Error()}
		}
		switch prop := tok.(type) {
		case xml.StartElement:
			if err := decodeProperty(dec, g, subject, prop); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// decodeProperty parses one property element into a triple.
func decodeProperty(dec *xml.Decoder, g *rdf.Graph, subject rdf.Term, el xml.StartElement) error {
	predicate := rdf.NewIRI(el.Name.Space + el.Name.Local)

	var object rdf.Term
	var lang, datatype string
	for _, attr := range el.Attr {
		switch {
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "resource":
			object = rdf.NewIRI(attr.Value)
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "nodeID":
			object = rdf.NewBlankNode(attr.Value)
		case attr.Name.Space == rdf.RDFNamespace && attr.Name.Local == "datatype":
			datatype = attr.Value
		case attr.Name.Local == "lang":
			lang = attr.Value
		}
	}

	// Consume element content; character data becomes the literal object
	// unless a resource/nodeID attribute already named one.
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return &ParseError{Message: err.Error()}
		}
		switch inner := tok.(type) {
		case xml.CharData:
			text.Write(inner)
		case xml.EndElement:
			if object == nil {
				switch {
				case lang != "":
					object = rdf.NewLangLiteral(text.String(), lang)
				case datatype != "":
					object = rdf.NewTypedLiteral(text.String(), rdf.NewIRI(datatype))
				default:
					object = rdf.NewLiteral(text.String())
				}
			}
			t, err := rdf.NewTriple(subject, predicate, object)
			if err != nil {
				return &ParseError{Message: err.Error()}
			}
			g.Add(t)
			return nil
		case xml.StartElement:
			return &ParseError{Message: fmt.Sprintf("nested element %s in property %s is not supported", inner.Name.Local, el.Name.Local)}
		}
	}
}

// nextStartElement skips tokens until the first start element.
func nextStartElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if el, ok := tok.(xml.StartElement); ok {
			return el, nil
		}
	}
}
