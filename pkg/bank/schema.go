package bank

import (
	"fmt"

	"digital.vasic.setmatch/pkg/set"
)

// Subject kinds.
const (
	KindSet   = "set"
	KindArray = "array"
)

// File represents the structure of a case bank file.
type File struct {
	Version  string         `json:"version" yaml:"version"`
	Name     string         `json:"name" yaml:"name"`
	Cases    []Case         `json:"cases" yaml:"cases"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Case is one assertion to run: a subject, a phrase with its
// arguments, and the expected outcome.
type Case struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Subject holds the subject's elements.
	Subject []any `json:"subject" yaml:"subject"`

	// Kind is "set" (default) or "array". Array subjects are
	// passed as slices, e.g. for "with set semantics" phrases.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	Phrase string `json:"phrase" yaml:"phrase"`
	Args   []any  `json:"args,omitempty" yaml:"args,omitempty"`

	// ExpectFailure marks cases whose assertion must fail.
	ExpectFailure bool `json:"expect_failure,omitempty" yaml:"expect_failure,omitempty"`

	// ExpectDiff, when set, must equal the rendered diff of the
	// failure, ignoring surrounding whitespace.
	ExpectDiff string `json:"expect_diff,omitempty" yaml:"expect_diff,omitempty"`
}

// BuildSubject returns the value the assertion runs against.
func (c *Case) BuildSubject() (any, error) {
	switch c.Kind {
	case "", KindSet:
		if c.Subject == nil {
			return set.New(), nil
		}
		return set.FromSlice(c.Subject)
	case KindArray:
		if c.Subject == nil {
			return []any{}, nil
		}
		return c.Subject, nil
	default:
		return nil, fmt.Errorf("case %s: unknown kind %q", c.ID, c.Kind)
	}
}
