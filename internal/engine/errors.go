package engine

import (
	"errors"
	"fmt"
)

// UnboundVariableError reports a filter expression referencing an unbound
// variable in a context requiring a bound value. It is filter-local: the
// evaluator drops the enclosing solution and continues; it never fails the
// query.
type UnboundVariableError struct {
	Var string
}

// Error implements the error interface.
func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("variable ?%s is unbound", e.Var)
}

// ExtensionFunctionError reports a user-supplied callable failing. It is
// fatal to the whole query: a partial CONSTRUCT or DESCRIBE graph would be
// misleading about completeness.
type ExtensionFunctionError struct {
	Operator string
	Err      error
}

// Error implements the error interface.
func (e *ExtensionFunctionError) Error() string {
	return fmt.Sprintf("extension function <%s>: %v", e.Operator, e.Err)
}

// Unwrap returns the callable's error.
func (e *ExtensionFunctionError) Unwrap() error {
	return e.Err
}

// IsExtensionFunctionError reports whether err is an ExtensionFunctionError.
// Uses errors.As to handle wrapped errors.
func IsExtensionFunctionError(err error) bool {
	var ee *ExtensionFunctionError
	return errors.As(err, &ee)
}

// StorageAccessError reports a failing graph access backend. The evaluator
// propagates it unchanged; no retries.
type StorageAccessError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StorageAccessError) Error() string {
	return fmt.Sprintf("storage access during %s: %v", e.Op, e.Err)
}

// Unwrap returns the backend's error.
func (e *StorageAccessError) Unwrap() error {
	return e.Err
}

// IsStorageAccessError reports whether err is a StorageAccessError.
func IsStorageAccessError(err error) bool {
	var se *StorageAccessError
	return errors.As(err, &se)
}

// filterLocal reports whether a filter evaluation error drops only the
// current solution rather than failing the query.
func filterLocal(err error) bool {
	var ue *UnboundVariableError
	if errors.As(err, &ue) {
		return true
	}
	return errors.Is(err, errFilterValue)
}

// errFilterValue marks comparisons over values the operator cannot order
// (e.g. relational comparison of IRIs). Like unbound variables, it drops
// the solution.
var errFilterValue = errors.New("filter value error")

// errUnknownOperator marks a Call whose operator IRI has no registered
// callable.
var errUnknownOperator = errors.New("no extension function registered")
