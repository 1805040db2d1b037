// Package matcher decides whether an unordered collection of
// actual elements satisfies a list of expected criteria. Every
// (actual, criterion) pair is evaluated so that a failed match can
// be explained element by element.
package matcher

import (
	"context"
	"errors"

	"digital.vasic.setmatch/pkg/inspect"
)

// Kind distinguishes literal criteria from predicates.
type Kind int

const (
	// KindLiteral criteria are compared with a deep match.
	KindLiteral Kind = iota
	// KindPredicate criteria are invoked with the actual element.
	KindPredicate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindPredicate:
		return "predicate"
	default:
		return "unknown"
	}
}

// Predicate checks one actual element. A nil error means the
// element satisfies it. The error text should read as an
// annotation on the element, e.g. "should be a number".
type Predicate func(ctx context.Context, actual any) error

// Criterion is one expected-side item: either a literal value or a
// predicate.
type Criterion struct {
	kind        Kind
	value       any
	predicate   Predicate
	description string
}

// Literal creates a criterion matched by deep comparison.
func Literal(v any) Criterion {
	return Criterion{kind: KindLiteral, value: v}
}

// Satisfies creates a predicate criterion.
func Satisfies(p Predicate) Criterion {
	return Criterion{kind: KindPredicate, predicate: p}
}

// Describe creates a predicate criterion with a description used
// when the predicate cannot be run to produce a message.
func Describe(description string, p Predicate) Criterion {
	return Criterion{
		kind:        KindPredicate,
		predicate:   p,
		description: description,
	}
}

// CriterionFor resolves a raw expected value. Criterion values are
// kept, predicate-shaped functions become predicates, and anything
// else is a literal.
func CriterionFor(v any) Criterion {
	switch x := v.(type) {
	case Criterion:
		return x
	case Predicate:
		if x == nil {
			return Literal(nil)
		}
		return Satisfies(x)
	case func(context.Context, any) error:
		if x == nil {
			return Literal(nil)
		}
		return Satisfies(x)
	case func(any) error:
		if x == nil {
			return Literal(nil)
		}
		return Satisfies(func(_ context.Context, actual any) error {
			return x(actual)
		})
	case func(any) bool:
		if x == nil {
			return Literal(nil)
		}
		return Satisfies(func(_ context.Context, actual any) error {
			if x(actual) {
				return nil
			}
			return errUnsatisfied
		})
	}
	return Literal(v)
}

// Criteria resolves each value with CriterionFor.
func Criteria(values ...any) []Criterion {
	out := make([]Criterion, len(values))
	for i, v := range values {
		out[i] = CriterionFor(v)
	}
	return out
}

var errUnsatisfied = errors.New("should satisfy the predicate")

// Kind returns the criterion kind.
func (c Criterion) Kind() Kind { return c.kind }

// IsPredicate reports whether c is a predicate criterion.
func (c Criterion) IsPredicate() bool { return c.kind == KindPredicate }

// Value returns the literal value; nil for predicates.
func (c Criterion) Value() any { return c.value }

// Description returns the predicate description, if any.
func (c Criterion) Description() string { return c.description }

// Inspect renders a literal as its value and a predicate by its
// description.
func (c Criterion) Inspect(depth int, cfg inspect.Config) string {
	if c.kind == KindLiteral {
		return inspect.At(c.value, depth, cfg)
	}
	if c.description != "" {
		return "<" + c.description + ">"
	}
	return "<predicate>"
}

// Check runs the criterion against one actual element using the
// default subset deep match for literals.
func (c Criterion) Check(ctx context.Context, actual any) error {
	return c.check(ctx, actual, defaultDeep(false))
}

func (c Criterion) check(ctx context.Context, actual any, deep deepFunc) (err error) {
	if c.kind == KindPredicate {
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
			}
		}()
		return c.predicate(ctx, actual)
	}
	if deep(ctx, actual, c.value) {
		return nil
	}
	return &MismatchError{Actual: actual, Expected: c.value}
}
