package engine

import "github.com/veldt/sparqlet/internal/rdf"

// DescribeOperator is the reserved operator identifier. Binding a describe
// callable to it replaces the default describe behavior for the query.
const DescribeOperator = "http://veldt.dev/sparqlet/op#describe"

// Func is an extension function invoked from filter expressions. It
// receives the evaluated arguments and the current solution and returns a
// term; truthiness in a filter position follows the effective boolean
// value rules. Callables must not mutate the queried data.
type Func func(args []rdf.Term, sol Solution) (rdf.Term, error)

// DescribeFunc produces the description graph for resolved DESCRIBE
// targets. The contract matches the built-in: it receives the terms to
// describe, one representative solution, and the graph access, and returns
// a graph owned by the caller.
type DescribeFunc func(terms []rdf.Term, sol Solution, g GraphAccess) (*rdf.Graph, error)

// Registry resolves operator IRIs to callables. A registry is supplied per
// query and treated as immutable once passed, so concurrent queries cannot
// interfere through it.
type Registry struct {
	funcs    map[string]Func
	describe DescribeFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register binds a filter/expression callable to an operator IRI.
func (r *Registry) Register(operator string, fn Func) {
	r.funcs[operator] = fn
}

// RegisterDescribe binds a describe callable under DescribeOperator,
// replacing the default describe function entirely.
func (r *Registry) RegisterDescribe(fn DescribeFunc) {
	r.describe = fn
}

// Resolve returns the callable bound to an operator IRI.
func (r *Registry) Resolve(operator string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.funcs[operator]
	return fn, ok
}

// DescribeOverride returns the describe callable, if one is bound.
func (r *Registry) DescribeOverride() (DescribeFunc, bool) {
	if r == nil || r.describe == nil {
		return nil, false
	}
	return r.describe, true
}
