package assertion

import (
	"context"
	"fmt"

	"digital.vasic.setmatch/pkg/diff"
	"digital.vasic.setmatch/pkg/inspect"
)

// Evaluator implements one assertion phrase for one subject
// type. It returns nil on success, an error built with Call.Fail
// or Call.FailWith when the assertion does not hold, and any
// other error for misuse.
type Evaluator func(ctx context.Context, call Call, subject any) error

// Call carries one assertion invocation to its Evaluator.
type Call struct {
	Phrase  Phrase
	Args    []any
	Subject any
	Type    Type

	engine *DefaultEngine
}

// Fail reports the assertion as failed without a diff.
func (c Call) Fail() error {
	return c.FailWith(nil, nil)
}

// FailWith reports the assertion as failed with an optional
// report and cause.
func (c Call) FailWith(report *diff.Report, cause error) error {
	return c.engine.newError(c.Subject, c.Phrase.Raw, c.Args, report, cause)
}

// Invalid reports a misuse of the assertion.
func (c Call) Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s",
		ErrInvalidArgument, c.Phrase.Raw, fmt.Sprintf(format, args...))
}

// Expect runs a nested assertion. Nested assertions are not
// logged.
func (c Call) Expect(
	ctx context.Context,
	subject any,
	phrase string,
	args ...any,
) error {
	p, err := ParsePhrase(phrase)
	if err != nil {
		return err
	}
	return c.engine.expect(ctx, subject, p, args)
}

// Config returns the rendering configuration of the engine.
func (c Call) Config() inspect.Config {
	return c.engine.config
}
