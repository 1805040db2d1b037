package assertion

import (
	"context"
	"math"
	"regexp"
	"strings"

	"digital.vasic.setmatch/pkg/diff"
	"digital.vasic.setmatch/pkg/matcher"
	"digital.vasic.setmatch/pkg/set"
)

type builtin struct {
	phrase      string
	subjectType string
	evaluator   Evaluator
}

var builtins = []builtin{
	{"to equal", TypeAny, evaluateEqual},
	{"to satisfy", TypeAny, evaluateSatisfy},
	{"to be a number", TypeAny, evaluateIs(TypeNumber)},
	{"to be a string", TypeAny, evaluateIs(TypeString)},
	{"to be a boolean", TypeAny, evaluateIs(TypeBoolean)},
	{"to be greater than", TypeAny, evaluateGreaterThan},
	{"to match", TypeAny, evaluateMatch},
	{"to contain", TypeString, evaluateSubstring},
	{"not to contain", TypeString, evaluateNoSubstring},
	{"to have items satisfying", TypeArrayLike, evaluateItemsSatisfying},
	{"to have size", TypeArrayLike, evaluateSize},
	{"to be empty", TypeArrayLike, evaluateEmpty},
	{"to satisfy", TypeSet, evaluateSetSatisfy},
	{"to have items satisfying", TypeSet, evaluateItemsSatisfying},
	{"to contain", TypeSet, evaluateMembers},
	{"not to contain", TypeSet, evaluateNoMembers},
	{"to have size", TypeSet, evaluateSize},
	{"to be empty", TypeSet, evaluateEmpty},
}

// registerDefaults registers the built-in assertions.
func (e *DefaultEngine) registerDefaults() {
	for _, b := range builtins {
		if err := e.Register(b.phrase, b.subjectType, b.evaluator); err != nil {
			panic(err)
		}
	}
}

// evaluateEqual compares with the subject type's equality, or a
// strict deep match when the type has none.
func evaluateEqual(_ context.Context, call Call, subject any) error {
	expected, err := oneArg(call)
	if err != nil {
		return err
	}

	if call.Type.Equal != nil {
		if call.Type.Equal(subject, expected) {
			return nil
		}
	} else if matcher.DeepMatchExhaustive(subject, expected) {
		return nil
	}

	var report *diff.Report
	if call.Type.Diff != nil {
		report = call.Type.Diff(subject, expected)
	}
	return call.FailWith(report, nil)
}

// evaluateSatisfy deep-matches any subject against a value that
// may contain nested criteria.
func evaluateSatisfy(_ context.Context, call Call, subject any) error {
	expected, err := oneArg(call)
	if err != nil {
		return err
	}

	match := matcher.DeepMatch
	if call.Phrase.Exhaustive {
		match = matcher.DeepMatchExhaustive
	}
	if match(subject, expected) {
		return nil
	}
	return call.Fail()
}

// evaluateSetSatisfy matches a Set against a Set or array-like of
// criteria, ignoring order.
func evaluateSetSatisfy(ctx context.Context, call Call, subject any) error {
	expected, err := oneArg(call)
	if err != nil {
		return err
	}

	var want []any
	if s, ok := expected.(*set.Set); ok {
		want = s.Values()
	} else if want, ok = elements(expected); !ok {
		return call.Invalid("expected a Set or array-like value, got %T", expected)
	}

	actual := subject.(*set.Set).Values()
	criteria := matcher.Criteria(want...)
	exhaustive := call.Phrase.Exhaustive

	res := matcher.Evaluate(ctx, actual, criteria, matcher.Options{
		Exhaustive: exhaustive,
		Logger:     call.engine.logger,
	})
	if res.Passed {
		return nil
	}

	report := diff.Render(actual, criteria, res.Matrix, diff.Options{
		Exhaustive: exhaustive,
		Mode:       diff.ModeSatisfy,
	})
	return call.FailWith(frame(report, call.Type), nil)
}

// evaluateItemsSatisfying requires every item of a non-empty
// collection to pass one criterion: a nested assertion phrase
// with its arguments, a predicate, or a literal.
func evaluateItemsSatisfying(ctx context.Context, call Call, subject any) error {
	criterion, err := itemCriterion(call)
	if err != nil {
		return err
	}

	actual := items(subject)
	res, err := matcher.EvaluateItems(ctx, actual, criterion, matcher.Options{
		Exhaustive: call.Phrase.Exhaustive,
		Logger:     call.engine.logger,
	})
	if err != nil {
		return call.FailWith(nil, err)
	}
	if res.Passed {
		return nil
	}

	report := diff.Render(actual, []matcher.Criterion{criterion}, res.Matrix,
		diff.Options{Mode: diff.ModeItems})
	return call.FailWith(frame(report, call.Type), nil)
}

func itemCriterion(call Call) (matcher.Criterion, error) {
	if len(call.Args) == 0 {
		return matcher.Criterion{}, call.Invalid("missing item criterion")
	}
	if phrase, ok := call.Args[0].(string); ok && call.engine.HasEvaluator(phrase) {
		return call.engine.It(phrase, call.Args[1:]...), nil
	}
	if len(call.Args) != 1 {
		return matcher.Criterion{}, call.Invalid(
			"expected 1 argument, got %d", len(call.Args))
	}
	return matcher.CriterionFor(call.Args[0]), nil
}

// evaluateMembers passes when the Set holds every argument.
func evaluateMembers(_ context.Context, call Call, subject any) error {
	if len(call.Args) == 0 {
		return call.Invalid("missing value")
	}
	s := subject.(*set.Set)
	for _, v := range call.Args {
		if !s.Has(v) {
			return call.Fail()
		}
	}
	return nil
}

// evaluateNoMembers passes when the Set holds none of the
// arguments.
func evaluateNoMembers(_ context.Context, call Call, subject any) error {
	if len(call.Args) == 0 {
		return call.Invalid("missing value")
	}
	s := subject.(*set.Set)
	for _, v := range call.Args {
		if s.Has(v) {
			return call.Fail()
		}
	}
	return nil
}

func evaluateSize(_ context.Context, call Call, subject any) error {
	expected, err := oneArg(call)
	if err != nil {
		return err
	}
	n, ok := toNumber(expected)
	if !ok || n < 0 || n != math.Trunc(n) {
		return call.Invalid("size must be a non-negative integer, got %v", expected)
	}
	if len(items(subject)) == int(n) {
		return nil
	}
	return call.Fail()
}

func evaluateEmpty(_ context.Context, call Call, subject any) error {
	if len(call.Args) != 0 {
		return call.Invalid("takes no arguments")
	}
	if len(items(subject)) == 0 {
		return nil
	}
	return call.Fail()
}

// evaluateIs checks that the subject is of the named type.
func evaluateIs(typeName string) Evaluator {
	return func(_ context.Context, call Call, subject any) error {
		call.engine.mu.RLock()
		t := call.engine.types[typeName]
		call.engine.mu.RUnlock()

		if t.Identify != nil && t.Identify(subject) {
			return nil
		}
		return call.Fail()
	}
}

func evaluateGreaterThan(_ context.Context, call Call, subject any) error {
	expected, err := oneArg(call)
	if err != nil {
		return err
	}
	bound, ok := toNumber(expected)
	if !ok {
		return call.Invalid("bound must be a number, got %T", expected)
	}
	if n, ok := toNumber(subject); ok && n > bound {
		return nil
	}
	return call.Fail()
}

func evaluateMatch(_ context.Context, call Call, subject any) error {
	expected, err := oneArg(call)
	if err != nil {
		return err
	}
	pattern, ok := expected.(string)
	if !ok {
		return call.Invalid("pattern must be a string, got %T", expected)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return call.Invalid("invalid pattern %q: %v", pattern, err)
	}
	if str, ok := subject.(string); ok && re.MatchString(str) {
		return nil
	}
	return call.Fail()
}

// evaluateSubstring passes when the string contains every
// argument.
func evaluateSubstring(_ context.Context, call Call, subject any) error {
	subs, err := stringArgs(call)
	if err != nil {
		return err
	}
	str := subject.(string)
	for _, sub := range subs {
		if !strings.Contains(str, sub) {
			return call.Fail()
		}
	}
	return nil
}

// evaluateNoSubstring passes when the string contains none of the
// arguments.
func evaluateNoSubstring(_ context.Context, call Call, subject any) error {
	subs, err := stringArgs(call)
	if err != nil {
		return err
	}
	str := subject.(string)
	for _, sub := range subs {
		if strings.Contains(str, sub) {
			return call.Fail()
		}
	}
	return nil
}

func oneArg(call Call) (any, error) {
	if len(call.Args) != 1 {
		return nil, call.Invalid("expected 1 argument, got %d", len(call.Args))
	}
	return call.Args[0], nil
}

func stringArgs(call Call) ([]string, error) {
	if len(call.Args) == 0 {
		return nil, call.Invalid("missing substring")
	}
	out := make([]string, len(call.Args))
	for i, a := range call.Args {
		s, ok := a.(string)
		if !ok {
			return nil, call.Invalid("substring must be a string, got %T", a)
		}
		out[i] = s
	}
	return out, nil
}

// items lists the members of a Set or the elements of an
// array-like subject.
func items(subject any) []any {
	if s, ok := subject.(*set.Set); ok {
		return s.Values()
	}
	out, _ := elements(subject)
	return out
}

// frame applies the subject type's delimiters to a report.
func frame(r *diff.Report, t Type) *diff.Report {
	if t.Prefix != "" {
		r.Prefix, r.Suffix = t.Prefix, t.Suffix
	}
	return r
}
