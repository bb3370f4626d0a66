package engine

import (
	"iter"

	"github.com/veldt/sparqlet/internal/algebra"
	"github.com/veldt/sparqlet/internal/rdf"
)

// solutions is a lazy, single-pass stream. A non-nil error terminates the
// stream; it is not resumable afterwards. Restart by re-evaluating.
type solutions = iter.Seq2[Solution, error]

// evaluator holds the per-query evaluation state. It is created once per
// query and never mutated during evaluation.
type evaluator struct {
	registry *Registry
}

// eval produces the solution stream for a pattern, seeded with the initial
// bindings, reading from g.
func (e *evaluator) eval(p algebra.Pattern, init Solution, g GraphAccess) solutions {
	switch n := p.(type) {
	case algebra.BGP:
		return e.evalBGP(n.Patterns, init, g)
	case algebra.Join:
		return e.evalJoin(n, init, g)
	case algebra.Filter:
		return e.evalFilter(n, init, g)
	case algebra.Optional:
		return e.evalOptional(n, init, g)
	case algebra.Union:
		return e.evalUnion(n, init, g)
	case algebra.GraphPattern:
		return e.evalGraph(n, init, g)
	default:
		return func(yield func(Solution, error) bool) {}
	}
}

// evalBGP evaluates triple patterns left to right; each pattern is matched
// once per solution of the prior ones, restricted to consistent bindings.
func (e *evaluator) evalBGP(patterns []algebra.TriplePattern, init Solution, g GraphAccess) solutions {
	return func(yield func(Solution, error) bool) {
		e.matchAll(patterns, init, g, yield)
	}
}

// matchAll recursively matches the pattern list, yielding fully extended
// solutions. Returns false once the consumer stops.
func (e *evaluator) matchAll(patterns []algebra.TriplePattern, sol Solution, g GraphAccess, yield func(Solution, error) bool) bool {
	if len(patterns) == 0 {
		return yield(sol, nil)
	}
	tp := patterns[0]
	triples, err := g.TriplesMatching(
		resolveSlot(tp.Subject, sol),
		resolveSlot(tp.Predicate, sol),
		resolveSlot(tp.Object, sol),
	)
	if err != nil {
		yield(nil, err)
		return false
	}
	for _, t := range triples {
		extended, ok := unify(tp, t, sol)
		if !ok {
			continue
		}
		if !e.matchAll(patterns[1:], extended, g, yield) {
			return false
		}
	}
	return true
}

func (e *evaluator) evalJoin(n algebra.Join, init Solution, g GraphAccess) solutions {
	return func(yield func(Solution, error) bool) {
		for left, err := range e.eval(n.Left, init, g) {
			if err != nil {
				yield(nil, err)
				return
			}
			for right, err := range e.eval(n.Right, left, g) {
				if !yield(right, err) {
					return
				}
				if err != nil {
					return
				}
			}
		}
	}
}

func (e *evaluator) evalFilter(n algebra.Filter, init Solution, g GraphAccess) solutions {
	return func(yield func(Solution, error) bool) {
		for sol, err := range e.eval(n.Inner, init, g) {
			if err != nil {
				yield(nil, err)
				return
			}
			keep, err := e.truthy(n.Expr, sol)
			if err != nil {
				if filterLocal(err) {
					continue // drop the solution, keep evaluating
				}
				yield(nil, err)
				return
			}
			if !keep {
				continue
			}
			if !yield(sol, nil) {
				return
			}
		}
	}
}

// evalOptional is a left outer join: left solutions survive with no
// right-side match, leaving right-side variables unbound.
func (e *evaluator) evalOptional(n algebra.Optional, init Solution, g GraphAccess) solutions {
	return func(yield func(Solution, error) bool) {
		for left, err := range e.eval(n.Left, init, g) {
			if err != nil {
				yield(nil, err)
				return
			}
			matched := false
			for right, err := range e.eval(n.Right, left, g) {
				if err != nil {
					yield(nil, err)
					return
				}
				matched = true
				if !yield(right, nil) {
					return
				}
			}
			if !matched {
				if !yield(left, nil) {
					return
				}
			}
		}
	}
}

func (e *evaluator) evalUnion(n algebra.Union, init Solution, g GraphAccess) solutions {
	return func(yield func(Solution, error) bool) {
		for sol, err := range e.eval(n.Left, init, g) {
			if !yield(sol, err) {
				return
			}
			if err != nil {
				return
			}
		}
		for sol, err := range e.eval(n.Right, init, g) {
			if !yield(sol, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// evalGraph restricts the inner pattern to a named graph. With a variable
// graph name, the pattern runs once per named graph, binding the variable
// to the graph's identifier. Targets without named graphs yield nothing.
func (e *evaluator) evalGraph(n algebra.GraphPattern, init Solution, g GraphAccess) solutions {
	return func(yield func(Solution, error) bool) {
		ds, ok := g.(DatasetAccess)
		if !ok {
			return
		}
		switch name := n.Graph.(type) {
		case algebra.Constant:
			iri, ok := name.Term.(rdf.IRI)
			if !ok {
				return
			}
			scoped, ok := ds.NamedGraph(iri.Value)
			if !ok {
				return
			}
			for sol, err := range e.eval(n.Inner, init, scoped) {
				if !yield(sol, err) {
					return
				}
				if err != nil {
					return
				}
			}
		case algebra.Var:
			for _, graphName := range ds.GraphNames() {
				scoped, ok := ds.NamedGraph(graphName)
				if !ok {
					continue
				}
				seed, ok := init.Bind(name.Name, rdf.NewIRI(graphName))
				if !ok {
					continue
				}
				for sol, err := range e.eval(n.Inner, seed, scoped) {
					if !yield(sol, err) {
						return
					}
					if err != nil {
						return
					}
				}
			}
		}
	}
}

// resolveSlot turns a pattern slot into a concrete term or a wildcard:
// constants are themselves, bound variables resolve to their binding, and
// unbound variables are wildcards.
func resolveSlot(pt algebra.PatternTerm, sol Solution) rdf.Term {
	switch slot := pt.(type) {
	case algebra.Constant:
		return slot.Term
	case algebra.Var:
		if t, ok := sol[slot.Name]; ok {
			return t
		}
	}
	return nil
}

// unify extends sol with the variable bindings a matched triple implies.
// A repeated variable within the pattern must bind consistently.
func unify(tp algebra.TriplePattern, t rdf.Triple, sol Solution) (Solution, bool) {
	slots := [3]struct {
		pt   algebra.PatternTerm
		term rdf.Term
	}{
		{tp.Subject, t.Subject},
		{tp.Predicate, t.Predicate},
		{tp.Object, t.Object},
	}
	out := sol
	for _, s := range slots {
		v, ok := s.pt.(algebra.Var)
		if !ok {
			continue
		}
		out, ok = out.Bind(v.Name, s.term)
		if !ok {
			return nil, false
		}
	}
	return out, true
}
