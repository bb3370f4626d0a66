package engine

import (
	"strconv"

	"github.com/veldt/sparqlet/internal/algebra"
	"github.com/veldt/sparqlet/internal/rdf"
)

// exprValue is the result of evaluating a filter expression: either a term
// or a boolean.
type exprValue struct {
	term   rdf.Term
	b      bool
	isBool bool
}

func boolValue(b bool) exprValue {
	return exprValue{b: b, isBool: true}
}

func termValue(t rdf.Term) exprValue {
	return exprValue{term: t}
}

// truthy evaluates a filter expression to its effective boolean value.
// Errors are either filter-local (unbound variable, unorderable values),
// which drop the current solution, or fatal (extension function failure).
func (e *evaluator) truthy(expr algebra.Expr, sol Solution) (bool, error) {
	v, err := e.evalExpr(expr, sol)
	if err != nil {
		return false, err
	}
	return ebv(v)
}

func (e *evaluator) evalExpr(expr algebra.Expr, sol Solution) (exprValue, error) {
	switch n := expr.(type) {
	case algebra.TermExpr:
		switch t := n.Term.(type) {
		case algebra.Constant:
			return termValue(t.Term), nil
		case algebra.Var:
			bound, ok := sol[t.Name]
			if !ok {
				return exprValue{}, &UnboundVariableError{Var: t.Name}
			}
			return termValue(bound), nil
		}
		return exprValue{}, errFilterValue

	case algebra.Compare:
		left, err := e.evalExpr(n.Left, sol)
		if err != nil {
			return exprValue{}, err
		}
		right, err := e.evalExpr(n.Right, sol)
		if err != nil {
			return exprValue{}, err
		}
		ok, err := compareValues(n.Op, left, right)
		if err != nil {
			return exprValue{}, err
		}
		return boolValue(ok), nil

	case algebra.And:
		// SPARQL three-valued logic: a false operand makes the
		// conjunction false even if the other errors.
		left, lerr := e.truthy(n.Left, sol)
		if lerr != nil && !filterLocal(lerr) {
			return exprValue{}, lerr
		}
		if lerr == nil && !left {
			return boolValue(false), nil
		}
		right, rerr := e.truthy(n.Right, sol)
		if rerr != nil && !filterLocal(rerr) {
			return exprValue{}, rerr
		}
		if rerr == nil && !right {
			return boolValue(false), nil
		}
		if lerr != nil {
			return exprValue{}, lerr
		}
		if rerr != nil {
			return exprValue{}, rerr
		}
		return boolValue(true), nil

	case algebra.Or:
		// A true operand makes the disjunction true even if the other
		// errors.
		left, lerr := e.truthy(n.Left, sol)
		if lerr != nil && !filterLocal(lerr) {
			return exprValue{}, lerr
		}
		if lerr == nil && left {
			return boolValue(true), nil
		}
		right, rerr := e.truthy(n.Right, sol)
		if rerr != nil && !filterLocal(rerr) {
			return exprValue{}, rerr
		}
		if rerr == nil && right {
			return boolValue(true), nil
		}
		if lerr != nil {
			return exprValue{}, lerr
		}
		if rerr != nil {
			return exprValue{}, rerr
		}
		return boolValue(false), nil

	case algebra.Not:
		v, err := e.truthy(n.Inner, sol)
		if err != nil {
			return exprValue{}, err
		}
		return boolValue(!v), nil

	case algebra.Bound:
		_, ok := sol[n.Var.Name]
		return boolValue(ok), nil

	case algebra.Call:
		fn, ok := e.registry.Resolve(n.Operator)
		if !ok {
			return exprValue{}, &ExtensionFunctionError{
				Operator: n.Operator,
				Err:      errUnknownOperator,
			}
		}
		args := make([]rdf.Term, len(n.Args))
		for i, argExpr := range n.Args {
			v, err := e.evalExpr(argExpr, sol)
			if err != nil {
				return exprValue{}, err
			}
			args[i] = v.asTerm()
		}
		result, err := fn(args, sol)
		if err != nil {
			return exprValue{}, &ExtensionFunctionError{Operator: n.Operator, Err: err}
		}
		return termValue(result), nil

	default:
		return exprValue{}, errFilterValue
	}
}

// asTerm converts a boolean expression value to an xsd:boolean literal so
// extension functions receive uniform term arguments.
func (v exprValue) asTerm() rdf.Term {
	if !v.isBool {
		return v.term
	}
	return rdf.NewTypedLiteral(strconv.FormatBool(v.b), rdf.XSDBoolean)
}

// ebv computes the SPARQL effective boolean value.
func ebv(v exprValue) (bool, error) {
	if v.isBool {
		return v.b, nil
	}
	lit, ok := v.term.(rdf.Literal)
	if !ok {
		return false, errFilterValue
	}
	switch lit.Datatype {
	case rdf.XSDBoolean:
		return lit.Value == "true" || lit.Value == "1", nil
	case rdf.XSDInteger, rdf.XSDDecimal:
		return lit.Value != "0" && lit.Value != "", nil
	}
	return lit.Value != "", nil
}

// compareValues applies a comparison operator. Equality is term equality;
// ordering requires literals and compares numerically when both operands
// parse as integers, lexically otherwise. Ordering over IRIs or blank
// nodes is a filter-local error.
func compareValues(op algebra.CompareOp, left, right exprValue) (bool, error) {
	lt := left.asTerm()
	rt := right.asTerm()

	switch op {
	case algebra.OpEQ:
		return lt.Equal(rt), nil
	case algebra.OpNE:
		return !lt.Equal(rt), nil
	}

	ll, lok := lt.(rdf.Literal)
	rl, rok := rt.(rdf.Literal)
	if !lok || !rok {
		return false, errFilterValue
	}

	var cmp int
	li, lerr := strconv.ParseInt(ll.Value, 10, 64)
	ri, rerr := strconv.ParseInt(rl.Value, 10, 64)
	switch {
	case lerr == nil && rerr == nil:
		switch {
		case li < ri:
			cmp = -1
		case li > ri:
			cmp = 1
		}
	default:
		switch {
		case ll.Value < rl.Value:
			cmp = -1
		case ll.Value > rl.Value:
			cmp = 1
		}
	}

	switch op {
	case algebra.OpLT:
		return cmp < 0, nil
	case algebra.OpGT:
		return cmp > 0, nil
	case algebra.OpLE:
		return cmp <= 0, nil
	case algebra.OpGE:
		return cmp >= 0, nil
	}
	return false, errFilterValue
}
