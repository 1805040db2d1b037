package matcher

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"digital.vasic.setmatch/pkg/logging"
)

// Options configures one evaluation.
type Options struct {
	// Exhaustive requires every actual element to be claimed by
	// some criterion. It also makes literal comparison exhaustive
	// unless DeepMatch is set.
	Exhaustive bool

	// DeepMatch overrides literal comparison.
	DeepMatch DeepMatchFunc

	// Logger receives a debug entry per evaluation. Nil
	// discards.
	Logger logging.Logger
}

// Result is a settled compatibility matrix and its verdict.
type Result struct {
	Matrix     *Matrix
	Exhaustive bool
	Passed     bool
}

// Evaluate checks every actual element against every criterion
// concurrently, waits for all checks to settle, and derives the
// verdict. Failing or panicking predicates are recorded as
// rejected cells; they never abort the evaluation. An empty
// actual with criteria fails as missing criteria; only
// EvaluateItems reports ErrEmptyCollection.
func Evaluate(
	ctx context.Context,
	actual []any,
	criteria []Criterion,
	opts Options,
) *Result {
	start := time.Now()
	m := settle(ctx, actual, criteria, opts)

	result := &Result{
		Matrix:     m,
		Exhaustive: opts.Exhaustive,
		Passed:     Verdict(m, opts.Exhaustive),
	}

	logging.OrNull(opts.Logger).Debug("matrix evaluated",
		logging.IntField("actual", len(actual)),
		logging.IntField("criteria", len(criteria)),
		logging.BoolField("exhaustive", opts.Exhaustive),
		logging.BoolField("passed", result.Passed),
		logging.DurationField("took_us", time.Since(start)),
	)

	return result
}

// EvaluateItems checks that every actual element satisfies
// criterion. An empty collection fails with ErrEmptyCollection
// before any check runs.
func EvaluateItems(
	ctx context.Context,
	actual []any,
	criterion Criterion,
	opts Options,
) (*Result, error) {
	if len(actual) == 0 {
		return nil, ErrEmptyCollection
	}

	m := settle(ctx, actual, []Criterion{criterion}, opts)

	result := &Result{
		Matrix:     m,
		Exhaustive: opts.Exhaustive,
		Passed:     Verdict(m, true),
	}

	logging.OrNull(opts.Logger).Debug("items evaluated",
		logging.IntField("actual", len(actual)),
		logging.BoolField("passed", result.Passed),
	)

	return result, nil
}

func settle(
	ctx context.Context,
	actual []any,
	criteria []Criterion,
	opts Options,
) *Matrix {
	deep := defaultDeep(opts.Exhaustive)
	if opts.DeepMatch != nil {
		custom := opts.DeepMatch
		deep = func(_ context.Context, a, e any) bool {
			return custom(a, e)
		}
	}

	m := NewMatrix(len(actual), len(criteria))

	var g errgroup.Group
	for i, a := range actual {
		for j, c := range criteria {
			i, j, a, c := i, j, a, c
			g.Go(func() error {
				m.Set(i, j, check(ctx, i, j, a, c, deep))
				return nil
			})
		}
	}
	// Cells never return errors; Wait is only the settle barrier.
	_ = g.Wait()

	return m
}

func check(
	ctx context.Context,
	i, j int,
	actual any,
	c Criterion,
	deep deepFunc,
) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				State:  StateRejected,
				Reason: &PredicateError{Actual: i, Criterion: j, Err: panicError(r)},
			}
		}
	}()

	err := c.check(ctx, actual, deep)
	if err == nil {
		return Outcome{State: StateFulfilled}
	}
	if c.IsPredicate() {
		err = &PredicateError{Actual: i, Criterion: j, Err: err}
	}
	return Outcome{State: StateRejected, Reason: err}
}
