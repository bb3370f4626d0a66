package rdf

// Graph is an identified, mutable set of triples with deterministic
// (insertion) iteration order. Adding a duplicate triple is a no-op.
//
// Graph is safe for concurrent readers. Mutation during concurrent reads is
// undefined; callers serialize writes against reads externally.
type Graph struct {
	name    string
	triples []Triple
	index   map[Triple]struct{}
}

// NewGraph creates an empty graph. The name identifies the graph within a
// dataset and may be empty for anonymous or default graphs.
func NewGraph(name string) *Graph {
	return &Graph{
		name:  name,
		index: make(map[Triple]struct{}),
	}
}

// Name returns the graph identifier.
func (g *Graph) Name() string {
	return g.name
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Add inserts a triple, returning false if it was already present.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.index[t]; ok {
		return false
	}
	g.index[t] = struct{}{}
	g.triples = append(g.triples, t)
	return true
}

// AddAll inserts every triple from ts.
func (g *Graph) AddAll(ts []Triple) {
	for _, t := range ts {
		g.Add(t)
	}
}

// Merge inserts every triple of other into g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	g.AddAll(other.triples)
}

// Remove deletes a triple, returning false if it was not present.
func (g *Graph) Remove(t Triple) bool {
	if _, ok := g.index[t]; !ok {
		return false
	}
	delete(g.index, t)
	for i, existing := range g.triples {
		if existing == t {
			g.triples = append(g.triples[:i], g.triples[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether the triple is present.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.index[t]
	return ok
}

// Triples returns the triples in insertion order. The returned slice is a
// copy; mutating it does not affect the graph.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// TriplesMatching returns triples matching the pattern in insertion order.
// A nil slot is a wildcard. The error return is always nil for in-memory
// graphs; it exists so Graph satisfies the evaluator's access interface,
// which other backends can fail on.
func (g *Graph) TriplesMatching(s, p, o Term) ([]Triple, error) {
	var out []Triple
	for _, t := range g.triples {
		if matchesSlot(t.Subject, s) && matchesSlot(t.Predicate, p) && matchesSlot(t.Object, o) {
			out = append(out, t)
		}
	}
	return out, nil
}

// TriplesForAnyOf returns triples where each non-nil slot's term is a member
// of the given set. Used for batched "all statements mentioning any of these
// terms" lookups.
func (g *Graph) TriplesForAnyOf(subjects, predicates, objects []Term) ([]Triple, error) {
	var out []Triple
	for _, t := range g.triples {
		if memberOf(t.Subject, subjects) && memberOf(t.Predicate, predicates) && memberOf(t.Object, objects) {
			out = append(out, t)
		}
	}
	return out, nil
}

// EqualTriples reports strict set equality of the two graphs' triples.
func (g *Graph) EqualTriples(other *Graph) bool {
	if g.Len() != other.Len() {
		return false
	}
	for t := range g.index {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Isomorphic reports whether the two graphs hold the same triple set up to a
// bijective renaming of blank node labels. Ground triples must match
// exactly; triples containing blank nodes are matched by backtracking over
// candidate label mappings. Intended for round-trip checks, not large
// graphs.
func (g *Graph) Isomorphic(other *Graph) bool {
	if g.Len() != other.Len() {
		return false
	}
	var groundA, bnodeA []Triple
	for _, t := range g.triples {
		if hasBlank(t) {
			bnodeA = append(bnodeA, t)
		} else {
			groundA = append(groundA, t)
		}
	}
	var bnodeB []Triple
	groundCount := 0
	for _, t := range other.triples {
		if hasBlank(t) {
			bnodeB = append(bnodeB, t)
		} else {
			if !g.Has(t) {
				return false
			}
			groundCount++
		}
	}
	if groundCount != len(groundA) || len(bnodeA) != len(bnodeB) {
		return false
	}
	return matchBlankTriples(bnodeA, bnodeB, map[string]string{})
}

func matchBlankTriples(remaining, candidates []Triple, mapping map[string]string) bool {
	if len(remaining) == 0 {
		return true
	}
	t := remaining[0]
	for i, c := range candidates {
		next, ok := extendMapping(t, c, mapping)
		if !ok {
			continue
		}
		rest := make([]Triple, 0, len(candidates)-1)
		rest = append(rest, candidates[:i]...)
		rest = append(rest, candidates[i+1:]...)
		if matchBlankTriples(remaining[1:], rest, next) {
			return true
		}
	}
	return false
}

// extendMapping attempts to unify triple a with triple b under the current
// blank label mapping, returning the extended mapping.
func extendMapping(a, b Triple, mapping map[string]string) (map[string]string, bool) {
	next := mapping
	cloned := false
	unify := func(x, y Term) bool {
		bx, okx := x.(BlankNode)
		by, oky := y.(BlankNode)
		if okx != oky {
			return false
		}
		if !okx {
			return x.Equal(y)
		}
		if mapped, ok := next[bx.ID]; ok {
			return mapped == by.ID
		}
		// One-to-one: reject if by.ID already targeted.
		for _, v := range next {
			if v == by.ID {
				return false
			}
		}
		if !cloned {
			clone := make(map[string]string, len(next)+1)
			for k, v := range next {
				clone[k] = v
			}
			next = clone
			cloned = true
		}
		next[bx.ID] = by.ID
		return true
	}
	if unify(a.Subject, b.Subject) && unify(a.Predicate, b.Predicate) && unify(a.Object, b.Object) {
		return next, true
	}
	return nil, false
}

func hasBlank(t Triple) bool {
	if _, ok := t.Subject.(BlankNode); ok {
		return true
	}
	if _, ok := t.Object.(BlankNode); ok {
		return true
	}
	return false
}

// matchesSlot reports whether term matches a pattern slot; nil is a wildcard.
func matchesSlot(term, pattern Term) bool {
	return pattern == nil || term.Equal(pattern)
}

// memberOf reports whether term is in set; a nil set matches everything.
func memberOf(term Term, set []Term) bool {
	if set == nil {
		return true
	}
	for _, t := range set {
		if term.Equal(t) {
			return true
		}
	}
	return false
}
