// Package diff turns a settled compatibility matrix into an
// annotated, line-oriented failure report.
package diff

import (
	"errors"

	"digital.vasic.setmatch/pkg/matcher"
	"digital.vasic.setmatch/pkg/set"
)

// Kind tags one report line.
type Kind int

const (
	// KindUnchanged is an actual element kept as is, possibly
	// carrying an annotation.
	KindUnchanged Kind = iota
	// KindRemoved is an actual element no criterion claimed.
	KindRemoved
	// KindMissing is a criterion no actual element satisfied.
	KindMissing
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUnchanged:
		return "unchanged"
	case KindRemoved:
		return "should be removed"
	case KindMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Line is one entry of a Report.
type Line struct {
	Kind Kind
	// Index is the actual index for element lines and the
	// criterion index for missing lines.
	Index int
	// Value is the actual element, or the missing literal.
	Value any
	// Annotation is the failure message attached to the line.
	Annotation string
	// Predicate marks a missing line produced by a predicate
	// criterion; Annotation then holds its message.
	Predicate bool
}

// Report is the ordered list of annotated lines: actual elements
// first, then missing criteria.
type Report struct {
	Prefix string
	Suffix string
	Lines  []Line
}

// Mode selects which assertion form a report explains.
type Mode int

const (
	// ModeSatisfy explains a collection "to satisfy" match.
	ModeSatisfy Mode = iota
	// ModeItems explains an "items satisfying" match.
	ModeItems
)

// Options configures Render.
type Options struct {
	Exhaustive bool
	Mode       Mode
}

// Render builds the report for a failed match. m must be settled.
func Render(
	actual []any,
	criteria []matcher.Criterion,
	m *matcher.Matrix,
	opts Options,
) *Report {
	r := &Report{
		Prefix: set.Prefix,
		Suffix: set.Suffix,
		Lines:  make([]Line, 0, len(actual)+len(criteria)),
	}

	for i, v := range actual {
		line := Line{Kind: KindUnchanged, Index: i, Value: v}

		switch opts.Mode {
		case ModeItems:
			if reason, ok := m.FirstRejection(i); ok {
				line.Annotation = message(reason)
			}
		default:
			if opts.Exhaustive && !m.Claimed(i) {
				line.Kind = KindRemoved
			}
		}

		r.Lines = append(r.Lines, line)
	}

	if opts.Mode == ModeItems {
		return r
	}

	for j, c := range criteria {
		if m.Satisfied(j) {
			continue
		}

		line := Line{Kind: KindMissing, Index: j}
		if c.IsPredicate() {
			line.Predicate = true
			if len(actual) > 0 {
				line.Annotation = message(m.At(0, j).Reason)
			} else if line.Annotation = c.Description(); line.Annotation == "" {
				line.Annotation = "should satisfy the predicate"
			}
		} else {
			line.Value = c.Value()
		}

		r.Lines = append(r.Lines, line)
	}

	return r
}

// Sets builds the equality report between two sets: actual
// members absent from expected should be removed, expected
// members absent from actual are missing.
func Sets(actual, expected *set.Set) *Report {
	r := &Report{Prefix: set.Prefix, Suffix: set.Suffix}

	i := 0
	actual.ForEach(func(v any) bool {
		kind := KindUnchanged
		if !expected.Has(v) {
			kind = KindRemoved
		}
		r.Lines = append(r.Lines, Line{Kind: kind, Index: i, Value: v})
		i++
		return true
	})

	j := 0
	expected.ForEach(func(v any) bool {
		if !actual.Has(v) {
			r.Lines = append(r.Lines, Line{Kind: KindMissing, Index: j, Value: v})
		}
		j++
		return true
	})

	return r
}

// Missing returns the missing lines.
func (r *Report) Missing() []Line {
	return r.filter(KindMissing)
}

// Removed returns the lines marked "should be removed".
func (r *Report) Removed() []Line {
	return r.filter(KindRemoved)
}

func (r *Report) filter(kind Kind) []Line {
	var out []Line
	for _, l := range r.Lines {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

func message(err error) string {
	if err == nil {
		return ""
	}
	var predErr *matcher.PredicateError
	if errors.As(err, &predErr) {
		return predErr.Err.Error()
	}
	return err.Error()
}
