package engine

import (
	"github.com/veldt/sparqlet/internal/algebra"
	"github.com/veldt/sparqlet/internal/rdf"
)

// dispatchDescribe resolves the DESCRIBE targets against each solution and
// invokes the active describe function once per batch of newly resolved
// terms, with that solution as the representative. Each distinct term is
// described exactly once; all returned graphs merge into the owned result
// graph.
//
// The active function is the registry's override when one is bound under
// DescribeOperator, otherwise DefaultDescribe.
func (e *evaluator) dispatchDescribe(q *algebra.Query, init Solution, g GraphAccess) (*Result, error) {
	describe, overridden := e.registry.DescribeOverride()
	if !overridden {
		describe = DefaultDescribe
	}

	out := rdf.NewGraph("")
	seen := map[rdf.Term]bool{}

	describeBatch := func(sol Solution) error {
		var fresh []rdf.Term
		for _, target := range q.Describe {
			term := resolveSlot(target, sol)
			if term == nil || seen[term] {
				continue
			}
			seen[term] = true
			fresh = append(fresh, term)
		}
		if len(fresh) == 0 {
			return nil
		}
		described, err := describe(fresh, sol, g)
		if err != nil {
			if overridden && !IsExtensionFunctionError(err) && !IsStorageAccessError(err) {
				err = &ExtensionFunctionError{Operator: DescribeOperator, Err: err}
			}
			return err
		}
		out.Merge(described)
		return nil
	}

	if q.Where == nil {
		if err := describeBatch(init); err != nil {
			return nil, err
		}
		return &Result{Form: algebra.FormDescribe, Graph: out}, nil
	}

	for sol, err := range e.eval(q.Where, init, g) {
		if err != nil {
			return nil, err
		}
		if err := describeBatch(sol); err != nil {
			return nil, err
		}
	}
	return &Result{Form: algebra.FormDescribe, Graph: out}, nil
}

// DefaultDescribe is the built-in describe function: the symmetric closure
// of degree one. For each term it adds every triple with the term as
// subject and every triple with the term as object, using the batched
// lookup so one pass covers all terms.
func DefaultDescribe(terms []rdf.Term, _ Solution, g GraphAccess) (*rdf.Graph, error) {
	out := rdf.NewGraph("")
	outgoing, err := g.TriplesForAnyOf(terms, nil, nil)
	if err != nil {
		return nil, err
	}
	out.AddAll(outgoing)
	incoming, err := g.TriplesForAnyOf(nil, nil, terms)
	if err != nil {
		return nil, err
	}
	out.AddAll(incoming)
	return out, nil
}
