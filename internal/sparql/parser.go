package sparql

import (
	"fmt"

	"github.com/veldt/sparqlet/internal/algebra"
	"github.com/veldt/sparqlet/internal/rdf"
)

// Parse compiles query text into algebra. The supplied namespaces seed the
// prefix table; PREFIX declarations in the query extend a private clone, so
// parsing never mutates the caller's bindings.
func Parse(text string, ns *rdf.Namespaces) (*algebra.Query, error) {
	if ns == nil {
		ns = rdf.NewNamespaces()
	}
	p := &parser{lex: newLexer(text), ns: ns.Clone()}
	if err := p.bump(); err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if err := algebra.Validate(q); err != nil {
		return nil, &ParseError{Line: 1, Col: 1, Message: err.Error()}
	}
	return q, nil
}

type parser struct {
	lex *lexer
	ns  *rdf.Namespaces
	cur token

	// inTemplate keeps blank nodes concrete inside CONSTRUCT templates;
	// in WHERE patterns they act as non-projectable variables.
	inTemplate bool
}

func (p *parser) bump() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errf(format string, args ...any) error {
	return &ParseError{Line: p.cur.line, Col: p.cur.col, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) atKeyword(kw string) bool {
	return p.cur.kind == tokKeyword && p.cur.text == kw
}

func (p *parser) atPunct(s string) bool {
	return p.cur.kind == tokPunct && p.cur.text == s
}

func (p *parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return p.errf("expected %q, got %q", s, p.cur.text)
	}
	return p.bump()
}

func (p *parser) parseQuery() (*algebra.Query, error) {
	for p.atKeyword("PREFIX") {
		if err := p.parsePrefix(); err != nil {
			return nil, err
		}
	}
	switch {
	case p.atKeyword("SELECT"):
		return p.parseSelect()
	case p.atKeyword("ASK"):
		return p.parseAsk()
	case p.atKeyword("CONSTRUCT"):
		return p.parseConstruct()
	case p.atKeyword("DESCRIBE"):
		return p.parseDescribe()
	default:
		return nil, p.errf("expected SELECT, ASK, CONSTRUCT, or DESCRIBE")
	}
}

// parsePrefix handles: PREFIX foo: <http://...>
func (p *parser) parsePrefix() error {
	if err := p.bump(); err != nil {
		return err
	}
	if p.cur.kind != tokPName {
		return p.errf("expected prefix declaration")
	}
	name := p.cur.text
	if name[len(name)-1] != ':' {
		return p.errf("prefix declaration must end with ':'")
	}
	prefix := name[:len(name)-1]
	if err := p.bump(); err != nil {
		return err
	}
	if p.cur.kind != tokIRIRef {
		return p.errf("expected IRI after PREFIX %s:", prefix)
	}
	p.ns.Bind(prefix, p.cur.text)
	return p.bump()
}

func (p *parser) parseSelect() (*algebra.Query, error) {
	q := &algebra.Query{Form: algebra.FormSelect}
	if err := p.bump(); err != nil {
		return nil, err
	}
	if p.atKeyword("DISTINCT") {
		q.Distinct = true
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
	if p.atPunct("*") {
		if err := p.bump(); err != nil {
			return nil, err
		}
	} else {
		for p.cur.kind == tokVar {
			q.Vars = append(q.Vars, algebra.Var{Name: p.cur.text})
			if err := p.bump(); err != nil {
				return nil, err
			}
		}
		if len(q.Vars) == 0 {
			return nil, p.errf("SELECT requires '*' or at least one variable")
		}
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	q.Where = where
	return q, p.expectEOF()
}

func (p *parser) parseAsk() (*algebra.Query, error) {
	if err := p.bump(); err != nil {
		return nil, err
	}
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	return &algebra.Query{Form: algebra.FormAsk, Where: where}, p.expectEOF()
}

func (p *parser) parseConstruct() (*algebra.Query, error) {
	q := &algebra.Query{Form: algebra.FormConstruct}
	if err := p.bump(); err != nil {
		return nil, err
	}
	p.inTemplate = true
	template, err := p.parseTriplesBlock()
	p.inTemplate = false
	if err != nil {
		return nil, err
	}
	q.Template = template
	where, err := p.parseWhere()
	if err != nil {
		return nil, err
	}
	q.Where = where
	return q, p.expectEOF()
}

func (p *parser) parseDescribe() (*algebra.Query, error) {
	q := &algebra.Query{Form: algebra.FormDescribe}
	if err := p.bump(); err != nil {
		return nil, err
	}
	for {
		switch p.cur.kind {
		case tokVar:
			q.Describe = append(q.Describe, algebra.Var{Name: p.cur.text})
		case tokIRIRef:
			q.Describe = append(q.Describe, algebra.Constant{Term: rdf.NewIRI(p.cur.text)})
		case tokPName:
			iri, err := p.ns.Expand(p.cur.text)
			if err != nil {
				return nil, p.errf("%v", err)
			}
			q.Describe = append(q.Describe, algebra.Constant{Term: iri})
		default:
			if len(q.Describe) == 0 {
				return nil, p.errf("DESCRIBE requires at least one IRI or variable")
			}
			// Optional WHERE clause.
			if p.atKeyword("WHERE") || p.atPunct("{") {
				where, err := p.parseWhere()
				if err != nil {
					return nil, err
				}
				q.Where = where
			}
			return q, p.expectEOF()
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) expectEOF() error {
	if p.cur.kind != tokEOF {
		return p.errf("unexpected trailing token %q", p.cur.text)
	}
	return nil
}

// parseWhere accepts an optional WHERE keyword followed by a group pattern.
func (p *parser) parseWhere() (algebra.Pattern, error) {
	if p.atKeyword("WHERE") {
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
	return p.parseGroup()
}

// parseGroup parses '{' ... '}', combining sibling elements left to right.
// FILTER expressions collected in the group apply to the whole group.
func (p *parser) parseGroup() (algebra.Pattern, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	var result algebra.Pattern
	var filters []algebra.Expr

	join := func(next algebra.Pattern) {
		if result == nil {
			result = next
		} else {
			result = algebra.Join{Left: result, Right: next}
		}
	}

	for !p.atPunct("}") {
		switch {
		case p.cur.kind == tokEOF:
			return nil, p.errf("unterminated group pattern")

		case p.atKeyword("FILTER"):
			if err := p.bump(); err != nil {
				return nil, err
			}
			expr, err := p.parseBrackettedExpr()
			if err != nil {
				return nil, err
			}
			filters = append(filters, expr)

		case p.atKeyword("OPTIONAL"):
			if err := p.bump(); err != nil {
				return nil, err
			}
			right, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			if result == nil {
				return nil, p.errf("OPTIONAL requires a preceding pattern")
			}
			result = algebra.Optional{Left: result, Right: right}

		case p.atKeyword("GRAPH"):
			if err := p.bump(); err != nil {
				return nil, err
			}
			name, err := p.parseVarOrIRI()
			if err != nil {
				return nil, err
			}
			inner, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			join(algebra.GraphPattern{Graph: name, Inner: inner})

		case p.atPunct("{"):
			sub, err := p.parseGroupOrUnion()
			if err != nil {
				return nil, err
			}
			join(sub)

		case p.atPunct("."):
			if err := p.bump(); err != nil {
				return nil, err
			}

		default:
			patterns, err := p.parseTriplesLine()
			if err != nil {
				return nil, err
			}
			join(algebra.BGP{Patterns: patterns})
		}
	}
	if err := p.bump(); err != nil { // consume '}'
		return nil, err
	}
	if result == nil {
		return nil, p.errf("empty group pattern")
	}
	for _, f := range filters {
		result = algebra.Filter{Inner: result, Expr: f}
	}
	return result, nil
}

// parseGroupOrUnion parses '{...} (UNION {...})*'.
func (p *parser) parseGroupOrUnion() (algebra.Pattern, error) {
	left, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("UNION") {
		if err := p.bump(); err != nil {
			return nil, err
		}
		right, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		left = algebra.Union{Left: left, Right: right}
	}
	return left, nil
}

// parseTriplesBlock parses '{ triples }' for CONSTRUCT templates.
func (p *parser) parseTriplesBlock() ([]algebra.TriplePattern, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var out []algebra.TriplePattern
	for !p.atPunct("}") {
		if p.cur.kind == tokEOF {
			return nil, p.errf("unterminated template")
		}
		if p.atPunct(".") {
			if err := p.bump(); err != nil {
				return nil, err
			}
			continue
		}
		patterns, err := p.parseTriplesLine()
		if err != nil {
			return nil, err
		}
		out = append(out, patterns...)
	}
	return out, p.bump()
}

// parseTriplesLine parses one subject with its predicate-object list:
// s p o (';' p o)* (',' o)*
func (p *parser) parseTriplesLine() ([]algebra.TriplePattern, error) {
	subject, err := p.parsePatternTerm()
	if err != nil {
		return nil, err
	}
	var out []algebra.TriplePattern
	for {
		predicate, err := p.parseVerb()
		if err != nil {
			return nil, err
		}
		for {
			object, err := p.parsePatternTerm()
			if err != nil {
				return nil, err
			}
			out = append(out, algebra.TriplePattern{Subject: subject, Predicate: predicate, Object: object})
			if !p.atPunct(",") {
				break
			}
			if err := p.bump(); err != nil {
				return nil, err
			}
		}
		if !p.atPunct(";") {
			break
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// parseVerb parses a predicate position: variable, IRI, qname, or 'a'.
func (p *parser) parseVerb() (algebra.PatternTerm, error) {
	if p.atKeyword("A") {
		if err := p.bump(); err != nil {
			return nil, err
		}
		return algebra.Constant{Term: rdf.RDFType}, nil
	}
	return p.parseVarOrIRI()
}

func (p *parser) parseVarOrIRI() (algebra.PatternTerm, error) {
	switch p.cur.kind {
	case tokVar:
		v := algebra.Var{Name: p.cur.text}
		return v, p.bump()
	case tokIRIRef:
		c := algebra.Constant{Term: rdf.NewIRI(p.cur.text)}
		return c, p.bump()
	case tokPName:
		iri, err := p.ns.Expand(p.cur.text)
		if err != nil {
			return nil, p.errf("%v", err)
		}
		return algebra.Constant{Term: iri}, p.bump()
	default:
		return nil, p.errf("expected variable or IRI, got %q", p.cur.text)
	}
}

// parsePatternTerm parses any term position: var, IRI, qname, blank node,
// or literal.
func (p *parser) parsePatternTerm() (algebra.PatternTerm, error) {
	switch p.cur.kind {
	case tokVar, tokIRIRef, tokPName:
		return p.parseVarOrIRI()

	case tokBlank:
		label := p.cur.text
		if err := p.bump(); err != nil {
			return nil, err
		}
		if p.inTemplate {
			return algebra.Constant{Term: rdf.NewBlankNode(label)}, nil
		}
		// In a WHERE pattern a blank node is a non-projectable variable.
		return algebra.Var{Name: "_:" + label}, nil

	case tokString:
		return p.parseLiteral()

	case tokInteger:
		lit := rdf.NewTypedLiteral(p.cur.text, rdf.XSDInteger)
		return algebra.Constant{Term: lit}, p.bump()

	case tokKeyword:
		switch p.cur.text {
		case "TRUE":
			return algebra.Constant{Term: rdf.NewTypedLiteral("true", rdf.XSDBoolean)}, p.bump()
		case "FALSE":
			return algebra.Constant{Term: rdf.NewTypedLiteral("false", rdf.XSDBoolean)}, p.bump()
		}
		return nil, p.errf("unexpected keyword %q in pattern", p.cur.text)

	default:
		return nil, p.errf("expected term, got %q", p.cur.text)
	}
}

// parseLiteral parses "value" with an optional @lang or ^^datatype suffix.
func (p *parser) parseLiteral() (algebra.PatternTerm, error) {
	value := p.cur.text
	if err := p.bump(); err != nil {
		return nil, err
	}
	if p.cur.kind == tokLangTag {
		lit := rdf.NewLangLiteral(value, p.cur.text)
		return algebra.Constant{Term: lit}, p.bump()
	}
	if p.cur.kind == tokOperator && p.cur.text == "^^" {
		if err := p.bump(); err != nil {
			return nil, err
		}
		dt, err := p.parseVarOrIRI()
		if err != nil {
			return nil, err
		}
		c, ok := dt.(algebra.Constant)
		if !ok {
			return nil, p.errf("datatype must be an IRI")
		}
		iri, ok := c.Term.(rdf.IRI)
		if !ok {
			return nil, p.errf("datatype must be an IRI")
		}
		return algebra.Constant{Term: rdf.NewTypedLiteral(value, iri)}, nil
	}
	return algebra.Constant{Term: rdf.NewLiteral(value)}, nil
}

// parseBrackettedExpr parses '(' expression ')'.
func (p *parser) parseBrackettedExpr() (algebra.Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	expr, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseOrExpr() (algebra.Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOperator && p.cur.text == "||" {
		if err := p.bump(); err != nil {
			return nil, err
		}
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = algebra.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAndExpr() (algebra.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOperator && p.cur.text == "&&" {
		if err := p.bump(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = algebra.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseRelational() (algebra.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokOperator {
		var op algebra.CompareOp
		switch p.cur.text {
		case "=":
			op = algebra.OpEQ
		case "!=":
			op = algebra.OpNE
		case "<":
			op = algebra.OpLT
		case ">":
			op = algebra.OpGT
		case "<=":
			op = algebra.OpLE
		case ">=":
			op = algebra.OpGE
		default:
			return left, nil
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return algebra.Compare{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseUnary() (algebra.Expr, error) {
	if p.cur.kind == tokOperator && p.cur.text == "!" {
		if err := p.bump(); err != nil {
			return nil, err
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return algebra.Not{Inner: inner}, nil
	}
	return p.parsePrimaryExpr()
}

func (p *parser) parsePrimaryExpr() (algebra.Expr, error) {
	switch {
	case p.atPunct("("):
		return p.parseBrackettedExpr()

	case p.atKeyword("BOUND"):
		if err := p.bump(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		if p.cur.kind != tokVar {
			return nil, p.errf("BOUND requires a variable argument")
		}
		v := algebra.Var{Name: p.cur.text}
		if err := p.bump(); err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return algebra.Bound{Var: v}, nil

	case p.cur.kind == tokIRIRef || p.cur.kind == tokPName:
		// An IRI followed by '(' is an extension-function call;
		// otherwise it is a constant operand.
		var iri rdf.IRI
		if p.cur.kind == tokIRIRef {
			iri = rdf.NewIRI(p.cur.text)
		} else {
			expanded, err := p.ns.Expand(p.cur.text)
			if err != nil {
				return nil, p.errf("%v", err)
			}
			iri = expanded
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
		if !p.atPunct("(") {
			return algebra.TermExpr{Term: algebra.Constant{Term: iri}}, nil
		}
		if err := p.bump(); err != nil {
			return nil, err
		}
		call := algebra.Call{Operator: iri.Value}
		for !p.atPunct(")") {
			arg, err := p.parseOrExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.atPunct(",") {
				if err := p.bump(); err != nil {
					return nil, err
				}
			}
		}
		return call, p.bump()

	case p.cur.kind == tokVar:
		v := algebra.Var{Name: p.cur.text}
		return algebra.TermExpr{Term: v}, p.bump()

	case p.cur.kind == tokString, p.cur.kind == tokInteger,
		p.atKeyword("TRUE"), p.atKeyword("FALSE"):
		term, err := p.parsePatternTerm()
		if err != nil {
			return nil, err
		}
		return algebra.TermExpr{Term: term}, nil

	default:
		return nil, p.errf("expected expression, got %q", p.cur.text)
	}
}
