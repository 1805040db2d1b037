// Package report renders bank run results as JSON, Markdown and HTML
// and keeps a run history.
package report

import (
	"io"

	"digital.vasic.setmatch/pkg/bank"
)

// Reporter defines the interface for generating case reports.
type Reporter interface {
	// GenerateReport creates a report for a single case result.
	GenerateReport(result bank.CaseResult) ([]byte, error)

	// GenerateSummary creates a report of a whole run.
	GenerateSummary(summary *Summary) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, result bank.CaseResult) error
}
