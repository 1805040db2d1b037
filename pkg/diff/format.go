package diff

import (
	"strings"

	"digital.vasic.setmatch/pkg/inspect"
)

// Format renders the report as text:
//
//	Set([
//	  1,
//	  2 // should be removed
//	  // missing 3
//	])
func (r *Report) Format(cfg inspect.Config) string {
	out := inspect.NewOutput(cfg)
	out.Line(r.Prefix)
	out.IndentLines()

	elements := 0
	for _, l := range r.Lines {
		if l.Kind != KindMissing {
			elements++
		}
	}

	seen := 0
	for _, l := range r.Lines {
		if l.Kind == KindMissing {
			out.Line(missingText(l, cfg))
			continue
		}

		seen++
		text := inspect.At(l.Value, cfg.Depth-1, cfg)
		if seen < elements {
			text += ","
		}
		switch {
		case l.Kind == KindRemoved:
			text += " " + annotate("should be removed")
		case l.Annotation != "":
			text += " " + annotate(l.Annotation)
		}
		out.Line(text)
	}

	out.OutdentLines()
	out.Line(r.Suffix)
	return out.String()
}

// String renders the report with the process-wide defaults.
func (r *Report) String() string {
	return r.Format(inspect.Default())
}

func missingText(l Line, cfg inspect.Config) string {
	if l.Predicate {
		return annotate("missing: " + l.Annotation)
	}
	return annotate("missing " + inspect.At(l.Value, cfg.Depth-1, cfg))
}

// annotate turns text into a line comment, continuing the comment
// marker onto every line of multi-line text.
func annotate(text string) string {
	return "// " + strings.ReplaceAll(text, "\n", "\n// ")
}
