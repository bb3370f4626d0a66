package algebra

import (
	"fmt"

	"github.com/veldt/sparqlet/internal/rdf"
)

// Validate checks structural invariants the parser and evaluator rely on.
// A query failing validation would otherwise surface as a confusing
// evaluation error, so callers validate right after parsing.
func Validate(q *Query) error {
	switch q.Form {
	case FormSelect, FormAsk:
		if q.Where == nil {
			return fmt.Errorf("%s query requires a WHERE pattern", q.Form)
		}
	case FormConstruct:
		if q.Where == nil {
			return fmt.Errorf("CONSTRUCT query requires a WHERE pattern")
		}
		if len(q.Template) == 0 {
			return fmt.Errorf("CONSTRUCT query requires a non-empty template")
		}
		for i, tp := range q.Template {
			if err := validateTriplePattern(tp); err != nil {
				return fmt.Errorf("template pattern %d: %w", i, err)
			}
		}
	case FormDescribe:
		if len(q.Describe) == 0 {
			return fmt.Errorf("DESCRIBE query requires at least one target")
		}
		for _, target := range q.Describe {
			if _, ok := target.(Var); ok && q.Where == nil {
				return fmt.Errorf("DESCRIBE with variable targets requires a WHERE pattern")
			}
		}
	default:
		return fmt.Errorf("unknown query form %q", q.Form)
	}
	if q.Where != nil {
		if err := validatePattern(q.Where); err != nil {
			return err
		}
	}
	return nil
}

func validatePattern(p Pattern) error {
	switch n := p.(type) {
	case BGP:
		if len(n.Patterns) == 0 {
			return fmt.Errorf("empty basic graph pattern")
		}
		for i, tp := range n.Patterns {
			if err := validateTriplePattern(tp); err != nil {
				return fmt.Errorf("triple pattern %d: %w", i, err)
			}
		}
	case Join:
		if err := validatePattern(n.Left); err != nil {
			return err
		}
		return validatePattern(n.Right)
	case Filter:
		return validatePattern(n.Inner)
	case Optional:
		if err := validatePattern(n.Left); err != nil {
			return err
		}
		return validatePattern(n.Right)
	case Union:
		if err := validatePattern(n.Left); err != nil {
			return err
		}
		return validatePattern(n.Right)
	case GraphPattern:
		switch g := n.Graph.(type) {
		case Var:
		case Constant:
			if _, ok := g.Term.(rdf.IRI); !ok {
				return fmt.Errorf("GRAPH name must be an IRI or variable")
			}
		}
		return validatePattern(n.Inner)
	default:
		return fmt.Errorf("unknown pattern node %T", p)
	}
	return nil
}

func validateTriplePattern(tp TriplePattern) error {
	if c, ok := tp.Subject.(Constant); ok {
		if _, isLit := c.Term.(rdf.Literal); isLit {
			return fmt.Errorf("subject cannot be a literal")
		}
	}
	if c, ok := tp.Predicate.(Constant); ok {
		if _, isIRI := c.Term.(rdf.IRI); !isIRI {
			return fmt.Errorf("predicate must be an IRI or variable")
		}
	}
	if tp.Subject == nil || tp.Predicate == nil || tp.Object == nil {
		return fmt.Errorf("triple pattern has an empty slot")
	}
	return nil
}
