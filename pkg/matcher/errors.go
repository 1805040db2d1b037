package matcher

import (
	"errors"
	"fmt"

	"digital.vasic.setmatch/pkg/inspect"
)

// ErrEmptyCollection is returned when an items predicate is
// applied to a collection with no elements.
var ErrEmptyCollection = errors.New(
	"empty collection cannot satisfy an items predicate",
)

// PredicateError records why a predicate criterion rejected an
// actual element. It only ever lives inside a Rejected cell.
type PredicateError struct {
	Actual    int
	Criterion int
	Err       error
}

// Error returns the predicate's own message.
func (e *PredicateError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying predicate error.
func (e *PredicateError) Unwrap() error {
	return e.Err
}

// MismatchError records a literal criterion that did not match.
type MismatchError struct {
	Actual   any
	Expected any
}

// Error describes the expected literal.
func (e *MismatchError) Error() string {
	return "should satisfy " + inspect.Value(e.Expected, inspect.Default())
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("predicate panicked: %w", err)
	}
	return fmt.Errorf("predicate panicked: %v", r)
}
