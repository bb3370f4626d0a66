package engine

import (
	"fmt"

	"github.com/veldt/sparqlet/internal/algebra"
	"github.com/veldt/sparqlet/internal/rdf"
)

// dispatch consumes the solution stream for a query and produces the
// result object for its form.
func (e *evaluator) dispatch(q *algebra.Query, init Solution, g GraphAccess) (*Result, error) {
	switch q.Form {
	case algebra.FormSelect:
		return e.dispatchSelect(q, init, g)
	case algebra.FormAsk:
		return e.dispatchAsk(q, init, g)
	case algebra.FormConstruct:
		return e.dispatchConstruct(q, init, g)
	case algebra.FormDescribe:
		return e.dispatchDescribe(q, init, g)
	default:
		return nil, fmt.Errorf("dispatch: unknown query form %q", q.Form)
	}
}

// dispatchSelect projects each solution onto the output variable list,
// preserving solution order; DISTINCT keeps the first occurrence of each
// projected row. Unbound projected variables stay absent from the
// projected solution.
func (e *evaluator) dispatchSelect(q *algebra.Query, init Solution, g GraphAccess) (*Result, error) {
	vars := q.Vars
	if len(vars) == 0 {
		vars = algebra.PatternVars(q.Where)
	}
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}

	result := &Result{Form: algebra.FormSelect, Vars: names, Distinct: q.Distinct}
	seen := map[string]bool{}
	for sol, err := range e.eval(q.Where, init, g) {
		if err != nil {
			return nil, err
		}
		projected := make(Solution, len(names))
		for _, name := range names {
			if t, ok := sol[name]; ok {
				projected[name] = t
			}
		}
		if q.Distinct {
			k := projected.key()
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		result.Solutions = append(result.Solutions, projected)
	}
	return result, nil
}

// dispatchAsk short-circuits after the first solution.
func (e *evaluator) dispatchAsk(q *algebra.Query, init Solution, g GraphAccess) (*Result, error) {
	result := &Result{Form: algebra.FormAsk}
	for _, err := range e.eval(q.Where, init, g) {
		if err != nil {
			return nil, err
		}
		result.Bool = true
		break
	}
	return result, nil
}

// dispatchConstruct instantiates the template once per solution. Template
// blank nodes are relabeled fresh per solution; instantiated triples with
// any unbound variable or invalid term position are discarded. The owned
// graph deduplicates by set semantics.
func (e *evaluator) dispatchConstruct(q *algebra.Query, init Solution, g GraphAccess) (*Result, error) {
	out := rdf.NewGraph("")
	for sol, err := range e.eval(q.Where, init, g) {
		if err != nil {
			return nil, err
		}
		blanks := map[string]rdf.BlankNode{}
		for _, tp := range q.Template {
			s, ok := instantiate(tp.Subject, sol, blanks)
			if !ok {
				continue
			}
			p, ok := instantiate(tp.Predicate, sol, blanks)
			if !ok {
				continue
			}
			o, ok := instantiate(tp.Object, sol, blanks)
			if !ok {
				continue
			}
			t, err := rdf.NewTriple(s, p, o)
			if err != nil {
				continue // a binding landed in an invalid position
			}
			out.Add(t)
		}
	}
	return &Result{Form: algebra.FormConstruct, Graph: out}, nil
}

// instantiate substitutes a template slot under a solution. Unbound
// variables fail the triple; blank node labels map to fresh nodes scoped
// to the current solution.
func instantiate(pt algebra.PatternTerm, sol Solution, blanks map[string]rdf.BlankNode) (rdf.Term, bool) {
	switch slot := pt.(type) {
	case algebra.Var:
		t, ok := sol[slot.Name]
		return t, ok
	case algebra.Constant:
		if b, ok := slot.Term.(rdf.BlankNode); ok {
			fresh, seen := blanks[b.ID]
			if !seen {
				fresh = rdf.NewAnonNode()
				blanks[b.ID] = fresh
			}
			return fresh, true
		}
		return slot.Term, true
	}
	return nil, false
}
