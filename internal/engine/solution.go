package engine

import (
	"sort"
	"strings"

	"github.com/veldt/sparqlet/internal/rdf"
)

// Solution maps variable names to bound terms. Absence from the map is the
// unbound marker; projecting an unbound variable is never an error.
type Solution map[string]rdf.Term

// Value returns the binding for a variable.
func (s Solution) Value(name string) (rdf.Term, bool) {
	t, ok := s[name]
	return t, ok
}

// Bind returns a copy of s extended with name bound to term. If name is
// already bound to a different term the binding is inconsistent and Bind
// returns false. Solutions are copied on extension so sibling branches of
// the evaluation never see each other's bindings.
func (s Solution) Bind(name string, term rdf.Term) (Solution, bool) {
	if existing, ok := s[name]; ok {
		if existing.Equal(term) {
			return s, true
		}
		return nil, false
	}
	next := make(Solution, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	next[name] = term
	return next, true
}

// Clone returns an independent copy.
func (s Solution) Clone() Solution {
	out := make(Solution, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// key returns a canonical rendering used for DISTINCT deduplication.
func (s Solution) key() string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(s[name].NTriples())
		b.WriteByte(';')
	}
	return b.String()
}
