package assertion

import (
	"errors"
	"strings"

	"digital.vasic.setmatch/pkg/diff"
	"digital.vasic.setmatch/pkg/inspect"
)

var (
	// ErrAssertionFailed is matched by every assertion failure.
	ErrAssertionFailed = errors.New("assertion failed")

	// ErrUnknownAssertion is returned for phrases or subject
	// types with no registered evaluator.
	ErrUnknownAssertion = errors.New("unknown assertion")

	// ErrInvalidArgument is returned when an assertion is called
	// with arguments it cannot use. It is a usage error, not a
	// failed assertion, so negation never turns it into a pass.
	ErrInvalidArgument = errors.New("invalid assertion argument")
)

// Error is a failed assertion. Report holds the diff, when the
// assertion produces one.
type Error struct {
	Subject any
	Phrase  string
	Args    []any
	Message string
	Report  *diff.Report
	Cause   error

	config inspect.Config
}

// Error returns the message followed by the rendered diff or the
// underlying cause.
func (e *Error) Error() string {
	switch {
	case e.Report != nil:
		return e.Message + "\n\n" + e.Diff()
	case e.Cause != nil:
		return e.Message + "\n  " +
			strings.ReplaceAll(e.Cause.Error(), "\n", "\n  ")
	default:
		return e.Message
	}
}

// Diff renders the report, or returns "" when there is none.
func (e *Error) Diff() string {
	if e.Report == nil {
		return ""
	}
	return e.Report.Format(e.config)
}

// Unwrap exposes ErrAssertionFailed and the cause.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrAssertionFailed}
	}
	return []error{ErrAssertionFailed, e.Cause}
}

// shouldError is the subject-less form of a nested failure, used
// as an annotation inside a parent report.
type shouldError struct {
	text  string
	cause error
}

func (e *shouldError) Error() string { return e.text }

func (e *shouldError) Unwrap() error { return e.cause }
