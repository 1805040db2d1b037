// Package assertion hosts the set assertions. An Engine keeps a
// registry of subject types and assertion phrases, dispatches
// Expect calls to the evaluator registered for the subject's
// type, and turns failures into errors carrying a rendered diff.
package assertion

// Definition describes a single assertion to evaluate against
// a named value.
type Definition struct {
	// Phrase is the assertion phrase (e.g., "to satisfy",
	// "to have items satisfying").
	Phrase string `json:"phrase" yaml:"phrase"`

	// Target is the name of the value to check.
	Target string `json:"target" yaml:"target"`

	// Args are the assertion arguments.
	Args []any `json:"args,omitempty" yaml:"args,omitempty"`

	// Message is a human-readable description shown on
	// failure.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Result captures the outcome of evaluating a single assertion.
type Result struct {
	// Phrase is the assertion phrase that was evaluated.
	Phrase string `json:"phrase"`

	// Target is the name of the value checked.
	Target string `json:"target"`

	// Expected holds the assertion arguments.
	Expected []any `json:"expected,omitempty"`

	// Actual is the value that was observed.
	Actual any `json:"actual"`

	// Passed indicates whether the assertion succeeded.
	Passed bool `json:"passed"`

	// Message is a human-readable description of the outcome.
	Message string `json:"message"`

	// Diff is the rendered report of a failed assertion.
	Diff string `json:"diff,omitempty"`
}
