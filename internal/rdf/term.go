package rdf

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Term is a sealed interface over the RDF term variants.
// Only IRI, Literal, and BlankNode implement it. All three are comparable
// value types, so Term values can participate in map keys.
type Term interface {
	// NTriples returns the canonical N-Triples rendering of the term.
	NTriples() string

	// Equal reports whether the term is equal to another.
	Equal(Term) bool

	term() // sealed
}

// IRI is an IRI reference term.
type IRI struct {
	Value string
}

func (IRI) term() {}

// NewIRI creates an IRI term.
func NewIRI(value string) IRI {
	return IRI{Value: value}
}

// NTriples returns the IRI in angle brackets.
func (t IRI) NTriples() string {
	return "<" + t.Value + ">"
}

// Equal reports whether other is an IRI with the same value.
func (t IRI) Equal(other Term) bool {
	o, ok := other.(IRI)
	return ok && t.Value == o.Value
}

// Literal is a literal term: a lexical value with an optional language tag
// or datatype IRI. A zero Datatype means the literal is plain.
type Literal struct {
	Value    string
	Language string
	Datatype IRI
}

func (Literal) term() {}

// NewLiteral creates a plain literal. The lexical form is NFC normalized so
// that equality over literals is insensitive to Unicode composition.
func NewLiteral(value string) Literal {
	return Literal{Value: norm.NFC.String(value)}
}

// NewLangLiteral creates a language-tagged literal.
func NewLangLiteral(value, language string) Literal {
	return Literal{Value: norm.NFC.String(value), Language: language}
}

// NewTypedLiteral creates a datatyped literal.
func NewTypedLiteral(value string, datatype IRI) Literal {
	return Literal{Value: norm.NFC.String(value), Datatype: datatype}
}

// NTriples returns the quoted, escaped literal with any language tag or
// datatype suffix.
func (t Literal) NTriples() string {
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(escapeLiteral(t.Value))
	b.WriteByte('"')
	if t.Language != "" {
		b.WriteByte('@')
		b.WriteString(t.Language)
	} else if t.Datatype.Value != "" {
		b.WriteString("^^")
		b.WriteString(t.Datatype.NTriples())
	}
	return b.String()
}

// Equal reports whether other is a literal with the same lexical form,
// language, and datatype.
func (t Literal) Equal(other Term) bool {
	o, ok := other.(Literal)
	return ok && t == o
}

// BlankNode is a scoped blank node term identified by a local label.
type BlankNode struct {
	ID string
}

func (BlankNode) term() {}

// NewBlankNode creates a blank node with the given label.
func NewBlankNode(id string) BlankNode {
	return BlankNode{ID: id}
}

// NewAnonNode creates a blank node with a fresh label. Labels are unique
// across a process run; they are not stable between runs.
func NewAnonNode() BlankNode {
	return BlankNode{ID: "b" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

// NTriples returns the blank node label with the "_:" prefix.
func (t BlankNode) NTriples() string {
	return "_:" + t.ID
}

// Equal reports whether other is a blank node with the same label.
func (t BlankNode) Equal(other Term) bool {
	o, ok := other.(BlankNode)
	return ok && t.ID == o.ID
}

// escapeLiteral applies the N-Triples string escapes.
func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
