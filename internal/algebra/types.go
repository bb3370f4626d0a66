package algebra

import "github.com/veldt/sparqlet/internal/rdf"

// QueryForm tags the top-level result shape of a query.
type QueryForm string

const (
	FormSelect    QueryForm = "SELECT"
	FormAsk       QueryForm = "ASK"
	FormConstruct QueryForm = "CONSTRUCT"
	FormDescribe  QueryForm = "DESCRIBE"
)

// PatternTerm is a sealed interface over the two things a triple pattern
// slot can hold: a query variable or a concrete RDF term.
type PatternTerm interface {
	patternTerm()
}

// Var is a query variable.
type Var struct {
	Name string
}

func (Var) patternTerm() {}

// Constant wraps a concrete RDF term in a pattern slot.
type Constant struct {
	Term rdf.Term
}

func (Constant) patternTerm() {}

// TriplePattern is one subject/predicate/object pattern within a basic
// graph pattern or a CONSTRUCT template.
type TriplePattern struct {
	Subject   PatternTerm
	Predicate PatternTerm
	Object    PatternTerm
}

// Pattern is the sealed interface over pattern tree nodes.
type Pattern interface {
	pattern()
}

// BGP is a basic graph pattern: a conjunction of triple patterns evaluated
// left to right with binding propagation.
type BGP struct {
	Patterns []TriplePattern
}

func (BGP) pattern() {}

// Join evaluates Left, then Right once per left solution.
type Join struct {
	Left  Pattern
	Right Pattern
}

func (Join) pattern() {}

// Filter keeps only the inner solutions for which Expr evaluates truthy.
type Filter struct {
	Inner Pattern
	Expr  Expr
}

func (Filter) pattern() {}

// Optional is a left outer join: left solutions survive even when the
// right pattern has no consistent match.
type Optional struct {
	Left  Pattern
	Right Pattern
}

func (Optional) pattern() {}

// Union yields the solutions of Left followed by those of Right.
type Union struct {
	Left  Pattern
	Right Pattern
}

func (Union) pattern() {}

// GraphPattern restricts Inner to a specific named graph. Graph is either
// a Constant IRI or a Var ranging over the dataset's named graphs.
type GraphPattern struct {
	Graph PatternTerm
	Inner Pattern
}

func (GraphPattern) pattern() {}

// Query is a parsed, immutable query.
type Query struct {
	Form     QueryForm
	Distinct bool

	// Vars is the SELECT projection; empty means SELECT * (all variables
	// in first-appearance order).
	Vars []Var

	// Where is the pattern tree. Nil is valid only for DESCRIBE with
	// concrete targets.
	Where Pattern

	// Template holds the CONSTRUCT triple patterns.
	Template []TriplePattern

	// Describe holds the DESCRIBE targets: constants or variables.
	Describe []PatternTerm
}

// PatternVars returns the variables of a pattern tree in first-appearance
// order (filter expressions excluded, per SELECT * semantics).
func PatternVars(p Pattern) []Var {
	var out []Var
	seen := map[string]bool{}
	collect := func(pt PatternTerm) {
		if v, ok := pt.(Var); ok && !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch n := p.(type) {
		case nil:
		case BGP:
			for _, tp := range n.Patterns {
				collect(tp.Subject)
				collect(tp.Predicate)
				collect(tp.Object)
			}
		case Join:
			walk(n.Left)
			walk(n.Right)
		case Filter:
			walk(n.Inner)
		case Optional:
			walk(n.Left)
			walk(n.Right)
		case Union:
			walk(n.Left)
			walk(n.Right)
		case GraphPattern:
			collect(n.Graph)
			walk(n.Inner)
		}
	}
	walk(p)
	return out
}
