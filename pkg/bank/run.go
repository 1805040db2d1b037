package bank

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"digital.vasic.setmatch/pkg/assertion"
)

// CaseResult is the outcome of running one case.
type CaseResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phrase string `json:"phrase"`

	// Passed reports whether the assertion itself held.
	Passed bool `json:"passed"`

	// Matched reports whether the outcome was the expected one:
	// a pass, or a failure (with the expected diff) for cases
	// marked expect_failure.
	Matched bool `json:"matched"`

	// Failure is the assertion failure text.
	Failure string `json:"failure,omitempty"`

	// Diff is the rendered report of the failure.
	Diff string `json:"diff,omitempty"`

	// Error is set when the case could not be evaluated, e.g.
	// for an unknown phrase or invalid arguments.
	Error string `json:"error,omitempty"`

	Duration time.Duration `json:"duration"`
}

// Run evaluates every loaded case with at most parallel cases in
// flight. Results are returned in load order.
func (b *Bank) Run(
	ctx context.Context,
	engine assertion.Engine,
	parallel int,
) []CaseResult {
	if parallel <= 0 {
		parallel = 1
	}

	cases := b.All()
	results := make([]CaseResult, len(cases))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			results[i] = RunCase(ctx, engine, c)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// RunCase evaluates one case.
func RunCase(ctx context.Context, engine assertion.Engine, c *Case) CaseResult {
	start := time.Now()
	result := CaseResult{ID: c.ID, Name: c.Name, Phrase: c.Phrase}

	subject, err := c.BuildSubject()
	if err != nil {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	err = engine.Expect(ctx, subject, c.Phrase, c.Args...)
	var ae *assertion.Error
	switch {
	case err == nil:
		result.Passed = true
		result.Matched = !c.ExpectFailure
	case errors.As(err, &ae):
		result.Failure = ae.Message
		result.Diff = ae.Diff()
		if ae.Report == nil && ae.Cause != nil {
			result.Failure = ae.Error()
		}
		result.Matched = c.ExpectFailure && diffMatches(c.ExpectDiff, result.Diff)
	default:
		result.Error = err.Error()
	}

	result.Duration = time.Since(start)
	return result
}

func diffMatches(want, got string) bool {
	if want == "" {
		return true
	}
	return strings.TrimSpace(want) == strings.TrimSpace(got)
}
