package assertion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"digital.vasic.setmatch/pkg/diff"
	"digital.vasic.setmatch/pkg/inspect"
	"digital.vasic.setmatch/pkg/logging"
	"digital.vasic.setmatch/pkg/matcher"
	"digital.vasic.setmatch/pkg/metrics"
	"digital.vasic.setmatch/pkg/set"
)

// Engine defines the interface for assertion engines.
type Engine interface {
	// Expect asserts that subject satisfies phrase with args.
	// It returns nil on success and an *Error on failure.
	Expect(
		ctx context.Context,
		subject any,
		phrase string,
		args ...any,
	) error

	// It returns a criterion that holds for values passing the
	// assertion, for use inside sets and items assertions.
	It(phrase string, args ...any) matcher.Criterion

	// Evaluate checks a single definition against the given
	// value.
	Evaluate(ctx context.Context, def Definition, value any) Result

	// EvaluateAll checks multiple definitions against a map of
	// named values. Each definition's Target field is used as
	// the key into the values map.
	EvaluateAll(
		ctx context.Context,
		defs []Definition,
		values map[string]any,
	) []Result

	// Register adds an evaluator for phrase on subjects of the
	// named type. Returns an error if the pair is already
	// registered.
	Register(phrase, subjectType string, evaluator Evaluator) error

	// RegisterType adds a subject type.
	RegisterType(t Type) error

	// HasEvaluator reports whether phrase is registered for any
	// subject type.
	HasEvaluator(phrase string) bool
}

// Option configures a DefaultEngine.
type Option func(*DefaultEngine)

// WithLogger sets the logger that receives one evaluation entry
// per Expect call.
func WithLogger(l logging.Logger) Option {
	return func(e *DefaultEngine) { e.logger = logging.OrNull(l) }
}

// WithMetrics sets the recorder that counts top-level
// evaluations.
func WithMetrics(r metrics.Recorder) Option {
	return func(e *DefaultEngine) { e.metrics = metrics.OrNoop(r) }
}

// WithConfig sets the rendering configuration used for messages
// and diffs.
func WithConfig(cfg inspect.Config) Option {
	return func(e *DefaultEngine) { e.config = cfg }
}

// DefaultEngine is the standard Engine implementation. It is
// safe for concurrent use.
type DefaultEngine struct {
	mu      sync.RWMutex
	types   map[string]Type
	order   []string
	phrases map[string]map[string]Evaluator

	logger  logging.Logger
	metrics metrics.Recorder
	config  inspect.Config
}

// NewEngine creates a DefaultEngine with the built-in types and
// assertions registered.
func NewEngine(opts ...Option) *DefaultEngine {
	e := &DefaultEngine{
		types:   make(map[string]Type),
		phrases: make(map[string]map[string]Evaluator),
		logger:  logging.NullLogger{},
		metrics: metrics.NoopMetrics{},
		config:  inspect.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, t := range builtinTypes() {
		if err := e.RegisterType(t); err != nil {
			panic(err)
		}
	}
	e.registerDefaults()
	return e
}

// RegisterType adds a subject type. Types registered later take
// precedence when more than one identifies a subject.
func (e *DefaultEngine) RegisterType(t Type) error {
	if t.Name == "" {
		return fmt.Errorf("%w: type name is empty", ErrInvalidArgument)
	}
	if t.Identify == nil {
		return fmt.Errorf(
			"%w: type %s has no Identify function",
			ErrInvalidArgument, t.Name,
		)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.types[t.Name]; exists {
		return fmt.Errorf("type already registered: %s", t.Name)
	}
	if t.Base == "" && len(e.order) > 0 {
		t.Base = TypeAny
	}
	if _, exists := e.types[t.Base]; t.Base != "" && !exists {
		return fmt.Errorf(
			"%w: type %s has unknown base %s",
			ErrInvalidArgument, t.Name, t.Base,
		)
	}

	e.types[t.Name] = t
	e.order = append(e.order, t.Name)
	return nil
}

// TypeOf returns the most recently registered type that
// identifies v.
func (e *DefaultEngine) TypeOf(v any) Type {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.typeOf(v)
}

func (e *DefaultEngine) typeOf(v any) Type {
	for i := len(e.order) - 1; i >= 0; i-- {
		t := e.types[e.order[i]]
		if t.Identify(v) {
			return t
		}
	}
	return e.types[TypeAny]
}

// Register adds an evaluator for phrase on subjects of the named
// type. A negated phrase such as "not to contain" registers an
// evaluator that handles negation itself; otherwise negation
// inverts the plain evaluator.
func (e *DefaultEngine) Register(
	phrase, subjectType string,
	evaluator Evaluator,
) error {
	p, err := ParsePhrase(phrase)
	if err != nil {
		return err
	}
	if p.SetSemantics || p.Exhaustive {
		return fmt.Errorf(
			"%w: register %q without flags", ErrInvalidArgument, phrase,
		)
	}
	key := phraseKey(p)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.types[subjectType]; !exists {
		return fmt.Errorf(
			"%w: type %s", ErrUnknownAssertion, subjectType,
		)
	}
	byType, ok := e.phrases[key]
	if !ok {
		byType = make(map[string]Evaluator)
		e.phrases[key] = byType
	}
	if _, exists := byType[subjectType]; exists {
		return fmt.Errorf(
			"assertion already registered: %s for %s",
			key, subjectType,
		)
	}

	byType[subjectType] = evaluator
	return nil
}

// HasEvaluator reports whether phrase is registered for any
// subject type.
func (e *DefaultEngine) HasEvaluator(phrase string) bool {
	p, err := ParsePhrase(phrase)
	if err != nil {
		return false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, exists := e.phrases[p.Name]; exists {
		return true
	}
	_, exists := e.phrases[phraseKey(p)]
	return exists
}

func phraseKey(p Phrase) string {
	if p.Negated {
		return notPrefix + p.Name
	}
	return p.Name
}

// lookup walks the type chain. negates is true when the found
// evaluator handles the negation itself.
func (e *DefaultEngine) lookup(p Phrase, t Type) (Evaluator, bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for name := t.Name; name != ""; name = e.types[name].Base {
		if p.Negated {
			if ev, ok := e.phrases[phraseKey(p)][name]; ok {
				return ev, true, nil
			}
		}
		if ev, ok := e.phrases[p.Name][name]; ok {
			return ev, false, nil
		}
	}

	return nil, false, fmt.Errorf(
		"%w: %q for subject type %s",
		ErrUnknownAssertion, p.String(), t.Name,
	)
}

// Expect asserts that subject satisfies phrase with args.
func (e *DefaultEngine) Expect(
	ctx context.Context,
	subject any,
	phrase string,
	args ...any,
) error {
	start := time.Now()

	p, err := ParsePhrase(phrase)
	if err == nil {
		err = e.expect(ctx, subject, p, args)
	}

	took := time.Since(start)
	normalized := strings.Join(strings.Fields(phrase), " ")
	e.metrics.RecordEvaluation(normalized, err == nil, took)

	entry := logging.EvaluationLog{
		Timestamp:  start.UTC().Format(time.RFC3339Nano),
		Phrase:     normalized,
		Subject:    e.render(subject),
		Actual:     sizeOf(subject),
		Criteria:   len(args),
		Exhaustive: p.Exhaustive,
		Passed:     err == nil,
		DurationUs: took.Microseconds(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	e.logger.LogEvaluation(entry)

	return err
}

func (e *DefaultEngine) expect(
	ctx context.Context,
	subject any,
	p Phrase,
	args []any,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.SetSemantics {
		return e.expectSetSemantics(ctx, subject, p, args)
	}

	t := e.TypeOf(subject)
	evaluator, negates, err := e.lookup(p, t)
	if err != nil {
		return err
	}

	call := Call{Phrase: p, Args: args, Subject: subject, Type: t, engine: e}
	err = evaluator(ctx, call, subject)
	if !p.Negated || negates {
		return err
	}

	switch {
	case err == nil:
		return call.Fail()
	case errors.Is(err, matcher.ErrEmptyCollection):
		return err
	case errors.Is(err, ErrAssertionFailed):
		return nil
	default:
		return err
	}
}

// expectSetSemantics converts an array-like subject into a Set and
// runs the rest of the phrase on it. Failures still name the
// original subject and phrase.
func (e *DefaultEngine) expectSetSemantics(
	ctx context.Context,
	subject any,
	p Phrase,
	args []any,
) error {
	s, ok := asSet(subject)
	if !ok {
		return fmt.Errorf(
			"%w: %q needs an array-like subject, got %T",
			ErrInvalidArgument, p.Raw, subject,
		)
	}

	inner := p
	inner.SetSemantics = false
	inner.Raw = strings.TrimPrefix(p.Raw, setSemanticsPrefix)

	err := e.expect(ctx, s, inner, args)
	if ae, ok := err.(*Error); ok {
		ae.Subject = subject
		ae.Phrase = p.Raw
		ae.Message = e.message(subject, p.Raw, args)
	}
	return err
}

// It returns a criterion that holds for values passing the
// assertion. Its failures read as "should ..." annotations.
func (e *DefaultEngine) It(phrase string, args ...any) matcher.Criterion {
	p, err := ParsePhrase(phrase)
	if err != nil {
		return matcher.Describe(phrase, func(context.Context, any) error {
			return err
		})
	}

	text := shouldText(p, e.argsText(args))
	return matcher.Describe(text, func(ctx context.Context, actual any) error {
		err := e.expect(ctx, actual, p, args)
		ae, ok := err.(*Error)
		if !ok {
			return err
		}

		msg := text
		switch {
		case ae.Report != nil:
			msg += "\n" + ae.Diff()
		case ae.Cause != nil:
			msg += "\n" + ae.Cause.Error()
		}
		return &shouldError{text: msg, cause: ae}
	})
}

// Evaluate runs a single definition against the provided value.
func (e *DefaultEngine) Evaluate(
	ctx context.Context,
	def Definition,
	value any,
) Result {
	result := Result{
		Phrase:   def.Phrase,
		Target:   def.Target,
		Expected: def.Args,
		Actual:   value,
	}

	err := e.Expect(ctx, value, def.Phrase, def.Args...)
	if err == nil {
		result.Passed = true
		result.Message = "assertion passed"
		return result
	}

	var ae *Error
	if errors.As(err, &ae) {
		result.Message = ae.Message
		result.Diff = ae.Diff()
		if ae.Report == nil && ae.Cause != nil {
			result.Message = ae.Error()
		}
	} else {
		result.Message = err.Error()
	}
	if def.Message != "" {
		result.Message = def.Message + ": " + result.Message
	}
	return result
}

// EvaluateAll runs multiple definitions against a map of named
// values. If a target is missing, the assertion fails.
func (e *DefaultEngine) EvaluateAll(
	ctx context.Context,
	defs []Definition,
	values map[string]any,
) []Result {
	results := make([]Result, 0, len(defs))

	for _, d := range defs {
		value, exists := values[d.Target]
		if !exists {
			results = append(results, Result{
				Phrase:   d.Phrase,
				Target:   d.Target,
				Expected: d.Args,
				Passed:   false,
				Message: fmt.Sprintf(
					"target not found: %s", d.Target,
				),
			})
			continue
		}

		results = append(results, e.Evaluate(ctx, d, value))
	}

	return results
}

func (e *DefaultEngine) newError(
	subject any,
	phrase string,
	args []any,
	report *diff.Report,
	cause error,
) *Error {
	return &Error{
		Subject: subject,
		Phrase:  phrase,
		Args:    args,
		Message: e.message(subject, phrase, args),
		Report:  report,
		Cause:   cause,
		config:  e.config,
	}
}

// message builds "expected <subject> <phrase> <args>".
func (e *DefaultEngine) message(subject any, phrase string, args []any) string {
	msg := "expected " + e.render(subject) + " " + phrase
	if a := e.argsText(args); a != "" {
		msg += " " + a
	}
	return msg
}

// argsText renders arguments. A string naming a registered
// assertion is written as-is and followed by its own arguments.
func (e *DefaultEngine) argsText(args []any) string {
	var b strings.Builder
	sep := ""
	for _, a := range args {
		b.WriteString(sep)
		if s, ok := a.(string); ok && e.HasEvaluator(s) {
			b.WriteString(s)
			sep = " "
			continue
		}
		b.WriteString(e.render(a))
		sep = ", "
	}
	return b.String()
}

func (e *DefaultEngine) render(v any) string {
	t := e.TypeOf(v)
	if t.Inspect != nil {
		return t.Inspect(v, e.config.Depth, e.config)
	}
	return inspect.Value(v, e.config)
}

func sizeOf(v any) int {
	if s, ok := v.(*set.Set); ok {
		return s.Size()
	}
	if items, ok := elements(v); ok {
		return len(items)
	}
	return 1
}
