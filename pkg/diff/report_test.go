package diff

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.setmatch/pkg/inspect"
	"digital.vasic.setmatch/pkg/matcher"
	"digital.vasic.setmatch/pkg/set"
)

func evaluate(
	t *testing.T, actual []any, criteria []matcher.Criterion, exhaustive bool,
) *matcher.Result {
	t.Helper()
	r := matcher.Evaluate(context.Background(), actual, criteria,
		matcher.Options{Exhaustive: exhaustive})
	require.False(t, r.Passed)
	return r
}

func isNumber(_ context.Context, v any) error {
	switch v.(type) {
	case int, float64:
		return nil
	}
	return errors.New("should be a number")
}

func TestRender_MissingLiteral(t *testing.T) {
	actual := []any{1, 2, 3}
	criteria := matcher.Criteria(1, 2, 4)
	r := evaluate(t, actual, criteria, false)

	report := Render(actual, criteria, r.Matrix, Options{})

	expected := []Line{
		{Kind: KindUnchanged, Index: 0, Value: 1},
		{Kind: KindUnchanged, Index: 1, Value: 2},
		{Kind: KindUnchanged, Index: 2, Value: 3},
		{Kind: KindMissing, Index: 2, Value: 4},
	}
	if d := cmp.Diff(expected, report.Lines); d != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", d)
	}

	assert.Equal(t,
		"Set([\n  1,\n  2,\n  3\n  // missing 4\n])",
		report.Format(inspect.DefaultConfig()),
	)
}

func TestRender_ExhaustiveShouldBeRemoved(t *testing.T) {
	actual := []any{1, 2}
	criteria := matcher.Criteria(3)
	r := evaluate(t, actual, criteria, true)

	report := Render(actual, criteria, r.Matrix, Options{Exhaustive: true})

	assert.Len(t, report.Removed(), 2)
	assert.Len(t, report.Missing(), 1)
	assert.Equal(t,
		"Set([\n  1, // should be removed\n  2 // should be removed\n  // missing 3\n])",
		report.Format(inspect.DefaultConfig()),
	)
}

func TestRender_NonExhaustiveNeverRemoves(t *testing.T) {
	actual := []any{1, 2}
	criteria := matcher.Criteria(3)
	r := evaluate(t, actual, criteria, false)

	report := Render(actual, criteria, r.Matrix, Options{})

	assert.Empty(t, report.Removed())
	assert.Equal(t,
		"Set([\n  1,\n  2\n  // missing 3\n])",
		report.Format(inspect.DefaultConfig()),
	)
}

func TestRender_OnlyExtrasWhenExhaustive(t *testing.T) {
	actual := []any{1, 2}
	criteria := matcher.Criteria(1)
	r := evaluate(t, actual, criteria, true)

	report := Render(actual, criteria, r.Matrix, Options{Exhaustive: true})

	assert.Equal(t,
		"Set([\n  1,\n  2 // should be removed\n])",
		report.Format(inspect.DefaultConfig()),
	)
}

func TestRender_MissingPredicateUsesFirstActualMessage(t *testing.T) {
	actual := []any{1}
	criteria := []matcher.Criterion{
		matcher.Literal(1),
		matcher.Satisfies(func(_ context.Context, v any) error {
			if v == 2 {
				return nil
			}
			return errors.New("should equal 2")
		}),
	}
	r := evaluate(t, actual, criteria, false)

	report := Render(actual, criteria, r.Matrix, Options{})

	missing := report.Missing()
	require.Len(t, missing, 1)
	assert.True(t, missing[0].Predicate)
	assert.Equal(t, "should equal 2", missing[0].Annotation)
	assert.Equal(t,
		"Set([\n  1\n  // missing: should equal 2\n])",
		report.Format(inspect.DefaultConfig()),
	)
}

func TestRender_MissingPredicateWithoutActual(t *testing.T) {
	criteria := []matcher.Criterion{
		matcher.Describe("should be even", func(context.Context, any) error { return nil }),
		matcher.Satisfies(func(context.Context, any) error { return nil }),
	}
	r := evaluate(t, nil, criteria, false)

	report := Render(nil, criteria, r.Matrix, Options{})

	assert.Equal(t,
		"Set([\n  // missing: should be even\n  // missing: should satisfy the predicate\n])",
		report.Format(inspect.DefaultConfig()),
	)
}

func TestRender_ItemsAnnotatesRejectedElements(t *testing.T) {
	actual := []any{1, 2, "foo"}
	r, err := matcher.EvaluateItems(context.Background(), actual,
		matcher.Satisfies(isNumber), matcher.Options{})
	require.NoError(t, err)
	require.False(t, r.Passed)

	report := Render(actual, []matcher.Criterion{matcher.Satisfies(isNumber)},
		r.Matrix, Options{Mode: ModeItems})

	assert.Empty(t, report.Missing())
	assert.Empty(t, report.Lines[0].Annotation)
	assert.Empty(t, report.Lines[1].Annotation)
	assert.Equal(t, "should be a number", report.Lines[2].Annotation)
	assert.Equal(t,
		"Set([\n  1,\n  2,\n  \"foo\" // should be a number\n])",
		report.Format(inspect.DefaultConfig()),
	)
}

func TestRender_Deterministic(t *testing.T) {
	actual := []any{"b", "a", 3, []int{1}}
	criteria := matcher.Criteria("a", 9, "z", matcher.Satisfies(isNumber))
	r := evaluate(t, actual, criteria, true)
	opts := Options{Exhaustive: true}

	first := Render(actual, criteria, r.Matrix, opts).Format(inspect.DefaultConfig())
	for i := 0; i < 5; i++ {
		again := Render(actual, criteria, r.Matrix, opts).Format(inspect.DefaultConfig())
		assert.Equal(t, first, again)
	}
}

func TestRender_IndentDisabled(t *testing.T) {
	actual := []any{1}
	criteria := matcher.Criteria(2)
	r := evaluate(t, actual, criteria, false)

	cfg := inspect.DefaultConfig()
	cfg.Indent = false

	assert.Equal(t,
		"Set([\n1\n// missing 2\n])",
		Render(actual, criteria, r.Matrix, Options{}).Format(cfg),
	)
}

func TestSets(t *testing.T) {
	report := Sets(set.New(1, 2, 3), set.New(3, 4, 1))

	assert.Equal(t,
		"Set([\n  1,\n  2, // should be removed\n  3\n  // missing 4\n])",
		report.Format(inspect.DefaultConfig()),
	)
}

func TestAnnotate_MultiLine(t *testing.T) {
	assert.Equal(t, "// a\n// b", annotate("a\nb"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unchanged", KindUnchanged.String())
	assert.Equal(t, "should be removed", KindRemoved.String())
	assert.Equal(t, "missing", KindMissing.String())
	assert.Equal(t, "unknown", Kind(7).String())
}
