package codec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/veldt/sparqlet/internal/rdf"
)

// ParseError reports malformed RDF input.
type ParseError struct {
	Line    int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// encodeNTriples writes one statement per line, each terminated ".\n".
func encodeNTriples(g *rdf.Graph) []byte {
	var buf bytes.Buffer
	for _, t := range g.Triples() {
		buf.WriteString(t.NTriples())
	}
	return buf.Bytes()
}

// decodeNTriples parses line-oriented N-Triples. Blank lines and lines
// starting with '#' are skipped.
func decodeNTriples(data []byte) (*rdf.Graph, error) {
	g := rdf.NewGraph("")
	for i, line := range strings.Split(string(data), "\n") {
		lineNo := i + 1
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := parseStatement(line, lineNo)
		if err != nil {
			return nil, err
		}
		g.Add(t)
	}
	return g, nil
}

// parseStatement parses a single "<s> <p> <o>." line.
func parseStatement(line string, lineNo int) (rdf.Triple, error) {
	p := &ntParser{input: line, line: lineNo}

	subject, err := p.readTerm()
	if err != nil {
		return rdf.Triple{}, err
	}
	predicate, err := p.readTerm()
	if err != nil {
		return rdf.Triple{}, err
	}
	object, err := p.readTerm()
	if err != nil {
		return rdf.Triple{}, err
	}
	if err := p.readTerminator(); err != nil {
		return rdf.Triple{}, err
	}

	t, err := rdf.NewTriple(subject, predicate, object)
	if err != nil {
		return rdf.Triple{}, &ParseError{Line: lineNo, Message: err.Error()}
	}
	return t, nil
}

// ntParser is a cursor over a single N-Triples statement.
type ntParser struct {
	input string
	pos   int
	line  int
}

func (p *ntParser) errf(format string, args ...any) error {
	return &ParseError{Line: p.line, Message: fmt.Sprintf(format, args...)}
}

func (p *ntParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *ntParser) readTerm() (rdf.Term, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, p.errf("unexpected end of statement")
	}
	switch p.input[p.pos] {
	case '<':
		return p.readIRI()
	case '_':
		return p.readBlankNode()
	case '"':
		return p.readLiteral()
	default:
		return nil, p.errf("unexpected character %q", p.input[p.pos])
	}
}

func (p *ntParser) readIRI() (rdf.IRI, error) {
	end := strings.IndexByte(p.input[p.pos:], '>')
	if end < 0 {
		return rdf.IRI{}, p.errf("unterminated IRI")
	}
	iri := p.input[p.pos+1 : p.pos+end]
	p.pos += end + 1
	return rdf.NewIRI(iri), nil
}

func (p *ntParser) readBlankNode() (rdf.BlankNode, error) {
	if !strings.HasPrefix(p.input[p.pos:], "_:") {
		return rdf.BlankNode{}, p.errf("malformed blank node")
	}
	p.pos += 2
	start := p.pos
	for p.pos < len(p.input) && isLabelChar(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return rdf.BlankNode{}, p.errf("empty blank node label")
	}
	return rdf.NewBlankNode(p.input[start:p.pos]), nil
}

func (p *ntParser) readLiteral() (rdf.Literal, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for {
		if p.pos >= len(p.input) {
			return rdf.Literal{}, p.errf("unterminated literal")
		}
		c := p.input[p.pos]
		if c == '"' {
			p.pos++
			break
		}
		if c == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			switch p.input[p.pos] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(p.input[p.pos])
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
	value := b.String()

	if strings.HasPrefix(p.input[p.pos:], "@") {
		p.pos++
		start := p.pos
		for p.pos < len(p.input) && isLangChar(p.input[p.pos]) {
			p.pos++
		}
		if p.pos == start {
			return rdf.Literal{}, p.errf("empty language tag")
		}
		return rdf.NewLangLiteral(value, p.input[start:p.pos]), nil
	}
	if strings.HasPrefix(p.input[p.pos:], "^^") {
		p.pos += 2
		if p.pos >= len(p.input) || p.input[p.pos] != '<' {
			return rdf.Literal{}, p.errf("datatype must be an IRI")
		}
		dt, err := p.readIRI()
		if err != nil {
			return rdf.Literal{}, err
		}
		return rdf.NewTypedLiteral(value, dt), nil
	}
	return rdf.NewLiteral(value), nil
}

// readTerminator accepts optional whitespace followed by the final '.'.
func (p *ntParser) readTerminator() error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '.' {
		return p.errf("missing statement terminator")
	}
	p.pos++
	p.skipSpace()
	if p.pos != len(p.input) {
		return p.errf("trailing content after terminator")
	}
	return nil
}

func isLabelChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

func isLangChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}
