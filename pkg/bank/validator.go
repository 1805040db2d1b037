package bank

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"digital.vasic.setmatch/pkg/assertion"
)

// PhraseChecker reports whether an assertion phrase is known.
// assertion.Engine satisfies it.
type PhraseChecker interface {
	HasEvaluator(phrase string) bool
}

// ValidationError represents a validation issue found in a bank file.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not applicable
}

func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("cases[%d].%s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateFile reads and validates a bank file. All problems are
// returned together as a *multierror.Error.
func ValidateFile(path string, phrases PhraseChecker) error {
	file, err := ReadFile(path)
	if err != nil {
		return multierror.Append(nil, ValidationError{
			Field: "file", Message: err.Error(), Index: -1,
		})
	}
	if err := Validate(file, phrases); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Validate checks a decoded bank file. phrases may be nil, in
// which case phrases are only parsed.
func Validate(file *File, phrases PhraseChecker) error {
	var result *multierror.Error

	if file.Version == "" {
		result = multierror.Append(result, ValidationError{
			Field: "version", Message: "version is required", Index: -1,
		})
	}

	ids := make(map[string]bool)
	for i := range file.Cases {
		c := &file.Cases[i]

		switch {
		case c.ID == "":
			result = multierror.Append(result, ValidationError{
				Field: "id", Message: "case ID is required", Index: i,
			})
		case ids[c.ID]:
			result = multierror.Append(result, ValidationError{
				Field: "id", Message: fmt.Sprintf("duplicate ID: %s", c.ID), Index: i,
			})
		default:
			ids[c.ID] = true
		}

		if c.Phrase == "" {
			result = multierror.Append(result, ValidationError{
				Field: "phrase", Message: "phrase is required", Index: i,
			})
		} else if _, err := assertion.ParsePhrase(c.Phrase); err != nil {
			result = multierror.Append(result, ValidationError{
				Field: "phrase", Message: err.Error(), Index: i,
			})
		} else if phrases != nil && !phrases.HasEvaluator(c.Phrase) {
			result = multierror.Append(result, ValidationError{
				Field:   "phrase",
				Message: fmt.Sprintf("unknown assertion: %s", c.Phrase),
				Index:   i,
			})
		}

		if c.Kind != "" && c.Kind != KindSet && c.Kind != KindArray {
			result = multierror.Append(result, ValidationError{
				Field:   "kind",
				Message: fmt.Sprintf("unknown kind %q", c.Kind),
				Index:   i,
			})
		}

		if c.ExpectDiff != "" && !c.ExpectFailure {
			result = multierror.Append(result, ValidationError{
				Field:   "expect_diff",
				Message: "expect_diff requires expect_failure",
				Index:   i,
			})
		}
	}

	return result.ErrorOrNil()
}
