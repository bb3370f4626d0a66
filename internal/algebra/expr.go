package algebra

// CompareOp identifies a comparison operator in a filter expression.
type CompareOp string

const (
	OpEQ CompareOp = "="
	OpNE CompareOp = "!="
	OpLT CompareOp = "<"
	OpGT CompareOp = ">"
	OpLE CompareOp = "<="
	OpGE CompareOp = ">="
)

// Expr is the sealed interface over filter expression nodes.
type Expr interface {
	expr()
}

// TermExpr is an operand: a variable reference or a constant term.
type TermExpr struct {
	Term PatternTerm
}

func (TermExpr) expr() {}

// Compare applies a comparison operator to two operands.
type Compare struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (Compare) expr() {}

// And is logical conjunction (&&).
type And struct {
	Left  Expr
	Right Expr
}

func (And) expr() {}

// Or is logical disjunction (||).
type Or struct {
	Left  Expr
	Right Expr
}

func (Or) expr() {}

// Not is logical negation (!).
type Not struct {
	Inner Expr
}

func (Not) expr() {}

// Bound is the BOUND(?v) builtin: true iff the variable is bound in the
// current solution. Unlike comparisons, it never raises on unbound.
type Bound struct {
	Var Var
}

func (Bound) expr() {}

// Call invokes an extension function registered under Operator (an IRI).
type Call struct {
	Operator string
	Args     []Expr
}

func (Call) expr() {}
