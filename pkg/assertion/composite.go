package assertion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"digital.vasic.setmatch/pkg/matcher"
)

// AllPassComposite evaluates every definition and passes only if
// all of them pass.
func AllPassComposite(
	ctx context.Context,
	engine Engine,
	defs []Definition,
	values map[string]any,
) Result {
	results := engine.EvaluateAll(ctx, defs, values)

	for _, r := range results {
		if !r.Passed {
			return Result{
				Phrase: "all pass",
				Passed: false,
				Message: fmt.Sprintf(
					"assertion '%s' on target '%s' failed: %s",
					r.Phrase, r.Target, r.Message,
				),
				Diff: r.Diff,
			}
		}
	}

	return Result{
		Phrase: "all pass",
		Passed: true,
		Message: fmt.Sprintf(
			"all %d assertions passed", len(results),
		),
	}
}

// AnyPassComposite evaluates the definitions and passes if at
// least one of them passes.
func AnyPassComposite(
	ctx context.Context,
	engine Engine,
	defs []Definition,
	values map[string]any,
) Result {
	results := engine.EvaluateAll(ctx, defs, values)

	for _, r := range results {
		if r.Passed {
			return Result{
				Phrase: "any pass",
				Passed: true,
				Message: fmt.Sprintf(
					"assertion '%s' on target '%s' passed",
					r.Phrase, r.Target,
				),
			}
		}
	}

	return Result{
		Phrase: "any pass",
		Passed: false,
		Message: fmt.Sprintf(
			"none of %d assertions passed",
			len(results),
		),
	}
}

// CompositeAllPass returns an Evaluator that runs a fixed set of
// sub-assertions against the subject and requires all to pass.
// Targets are ignored; every definition sees the subject.
func CompositeAllPass(engine Engine, defs []Definition) Evaluator {
	return func(ctx context.Context, call Call, subject any) error {
		r := AllPassComposite(ctx, engine, defs, subjectValues(defs, subject))
		if r.Passed {
			return nil
		}
		return call.FailWith(nil, errors.New(r.Message))
	}
}

// CompositeAnyPass returns an Evaluator that runs a fixed set of
// sub-assertions against the subject and requires at least one
// to pass.
func CompositeAnyPass(engine Engine, defs []Definition) Evaluator {
	return func(ctx context.Context, call Call, subject any) error {
		r := AnyPassComposite(ctx, engine, defs, subjectValues(defs, subject))
		if r.Passed {
			return nil
		}
		return call.FailWith(nil, errors.New(r.Message))
	}
}

func subjectValues(defs []Definition, subject any) map[string]any {
	values := make(map[string]any, len(defs))
	for _, d := range defs {
		values[d.Target] = subject
	}
	return values
}

// AllOf returns a criterion that holds when every given criterion
// holds.
func AllOf(criteria ...matcher.Criterion) matcher.Criterion {
	return matcher.Describe(describe("all of", criteria),
		func(ctx context.Context, actual any) error {
			for _, c := range criteria {
				if err := c.Check(ctx, actual); err != nil {
					return err
				}
			}
			return nil
		})
}

// AnyOf returns a criterion that holds when at least one given
// criterion holds.
func AnyOf(criteria ...matcher.Criterion) matcher.Criterion {
	return matcher.Describe(describe("any of", criteria),
		func(ctx context.Context, actual any) error {
			var errs []string
			for _, c := range criteria {
				err := c.Check(ctx, actual)
				if err == nil {
					return nil
				}
				errs = append(errs, err.Error())
			}
			if len(errs) == 0 {
				return errors.New("should satisfy one of no criteria")
			}
			return errors.New(strings.Join(errs, "\nor "))
		})
}

func describe(label string, criteria []matcher.Criterion) string {
	parts := make([]string, len(criteria))
	for i, c := range criteria {
		if c.IsPredicate() {
			parts[i] = c.Description()
		} else {
			parts[i] = fmt.Sprint(c.Value())
		}
	}
	return label + " (" + strings.Join(parts, ", ") + ")"
}
