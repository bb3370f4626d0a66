package sparql

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ParseError reports malformed query text with its position.
type ParseError struct {
	Line    int
	Col     int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Message)
}

// IsParseError reports whether err is a ParseError.
// Uses errors.As to handle wrapped errors.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokKeyword
	tokIRIRef   // <...>
	tokPName    // prefix:local (or prefix:)
	tokVar      // ?x or $x
	tokBlank    // _:label
	tokString   // "..."
	tokLangTag  // @en
	tokInteger  // 42 / -7
	tokPunct    // { } ( ) . ; , *
	tokOperator // = != < > <= >= && || ! ^^
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// queryKeywords are recognized case-insensitively and normalized upper.
var queryKeywords = map[string]bool{
	"SELECT": true, "DISTINCT": true, "WHERE": true, "ASK": true,
	"CONSTRUCT": true, "DESCRIBE": true, "PREFIX": true, "FILTER": true,
	"OPTIONAL": true, "UNION": true, "GRAPH": true, "BOUND": true,
	"TRUE": true, "FALSE": true, "A": true,
}

type lexer struct {
	input string
	pos   int
	line  int
	col   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, col: 1}
}

func (l *lexer) errf(format string, args ...any) error {
	return &ParseError{Line: l.line, Col: l.col, Message: fmt.Sprintf(format, args...)}
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.advance(1)
			continue
		}
		if c == '#' {
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance(1)
			}
			continue
		}
		return
	}
}

// next scans one token.
func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, line: l.line, col: l.col}, nil
	}
	start := token{line: l.line, col: l.col}
	c := l.input[l.pos]

	switch {
	case c == '<' && l.looksLikeIRI():
		end := strings.IndexByte(l.input[l.pos:], '>')
		start.kind, start.text = tokIRIRef, l.input[l.pos+1:l.pos+end]
		l.advance(end + 1)
		return start, nil

	case c == '?' || c == '$':
		l.advance(1)
		name := l.readWhile(isNameChar)
		if name == "" {
			return token{}, l.errf("empty variable name")
		}
		start.kind, start.text = tokVar, name
		return start, nil

	case c == '"':
		value, err := l.readQuoted()
		if err != nil {
			return token{}, err
		}
		start.kind, start.text = tokString, value
		return start, nil

	case c == '@':
		l.advance(1)
		tag := l.readWhile(func(r byte) bool { return isAlpha(r) || r == '-' })
		if tag == "" {
			return token{}, l.errf("empty language tag")
		}
		start.kind, start.text = tokLangTag, tag
		return start, nil

	case strings.HasPrefix(l.input[l.pos:], "_:"):
		l.advance(2)
		label := l.readWhile(isNameChar)
		if label == "" {
			return token{}, l.errf("empty blank node label")
		}
		start.kind, start.text = tokBlank, label
		return start, nil

	case c >= '0' && c <= '9' || (c == '-' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
		neg := ""
		if c == '-' {
			neg = "-"
			l.advance(1)
		}
		start.kind, start.text = tokInteger, neg+l.readWhile(isDigit)
		return start, nil

	case strings.ContainsRune("{}().;,*", rune(c)):
		start.kind, start.text = tokPunct, string(c)
		l.advance(1)
		return start, nil

	case c == '^':
		if strings.HasPrefix(l.input[l.pos:], "^^") {
			start.kind, start.text = tokOperator, "^^"
			l.advance(2)
			return start, nil
		}
		return token{}, l.errf("unexpected character %q", c)

	case c == '&' || c == '|':
		op := string(c) + string(c)
		if !strings.HasPrefix(l.input[l.pos:], op) {
			return token{}, l.errf("unexpected character %q", c)
		}
		start.kind, start.text = tokOperator, op
		l.advance(2)
		return start, nil

	case c == '!' || c == '<' || c == '>' || c == '=':
		op := string(c)
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == '=' {
			op += "="
		}
		start.kind, start.text = tokOperator, op
		l.advance(len(op))
		return start, nil

	default:
		word := l.readWhile(func(r byte) bool { return isNameChar(r) || r == ':' || r == '.' || r == '-' })
		if word == "" {
			return token{}, l.errf("unexpected character %q", c)
		}
		// A trailing '.' is the statement terminator, not part of the name.
		for strings.HasSuffix(word, ".") {
			word = word[:len(word)-1]
			l.pos--
			l.col--
		}
		// Prefixed names contain a colon; bare words must be keywords.
		if strings.Contains(word, ":") {
			start.kind, start.text = tokPName, word
			return start, nil
		}
		upper := strings.ToUpper(word)
		if !queryKeywords[upper] {
			return token{}, &ParseError{Line: start.line, Col: start.col, Message: fmt.Sprintf("unexpected token %q", word)}
		}
		start.kind, start.text = tokKeyword, upper
		return start, nil
	}
}

// looksLikeIRI disambiguates '<' between an IRI reference and the less-than
// operator: an IRI reference closes with '>' before any whitespace.
func (l *lexer) looksLikeIRI() bool {
	rest := l.input[l.pos:]
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return false
	}
	if ws := strings.IndexAny(rest, " \t\r\n"); ws >= 0 && ws < end {
		return false
	}
	return true
}

func (l *lexer) readWhile(pred func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.input) && pred(l.input[l.pos]) {
		l.advance(1)
	}
	return l.input[start:l.pos]
}

func (l *lexer) readQuoted() (string, error) {
	l.advance(1) // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.input) {
			return "", l.errf("unterminated string literal")
		}
		c := l.input[l.pos]
		if c == '"' {
			l.advance(1)
			return b.String(), nil
		}
		if c == '\\' && l.pos+1 < len(l.input) {
			l.advance(1)
			switch l.input[l.pos] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(l.input[l.pos])
			}
			l.advance(1)
			continue
		}
		b.WriteByte(c)
		l.advance(1)
	}
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c > 127 && unicode.IsLetter(rune(c))
}
