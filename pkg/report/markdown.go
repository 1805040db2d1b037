package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"digital.vasic.setmatch/pkg/bank"
)

// MarkdownReporter generates Markdown reports from case results.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

// GenerateReport creates a Markdown report for a single case
// result.
func (r *MarkdownReporter) GenerateReport(result bank.CaseResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateSummary creates a Markdown report of a whole run.
func (r *MarkdownReporter) GenerateSummary(summary *Summary) ([]byte, error) {
	return []byte(generateSummaryMarkdown(summary)), nil
}

// WriteReport writes a Markdown report to the specified writer.
func (r *MarkdownReporter) WriteReport(w io.Writer, result bank.CaseResult) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", caseTitle(result.ID, result.Name))
	fmt.Fprintf(&sb, "**Phrase:** `%s`\n\n", result.Phrase)
	fmt.Fprintf(&sb, "**Status:** %s\n\n", strings.ToUpper(Status(result)))
	fmt.Fprintf(&sb, "**Duration:** %v\n", result.Duration)

	if result.Error != "" {
		fmt.Fprintf(&sb, "\n**Error:** %s\n", result.Error)
	}
	if result.Failure != "" {
		fmt.Fprintf(&sb, "\n```\n%s\n```\n", result.Failure)
	}
	if result.Diff != "" {
		fmt.Fprintf(&sb, "\n```\n%s\n```\n", result.Diff)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func caseTitle(id, name string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}

// generateSummaryMarkdown creates markdown from a summary.
func generateSummaryMarkdown(summary *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Set Assertion Run - Summary\n\n")
	fmt.Fprintf(&sb, "**Summary ID:** %s\n\n", summary.ID)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		summary.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Case | Phrase | Status | Duration |\n")
	sb.WriteString("|------|--------|--------|----------|\n")
	for _, c := range summary.Cases {
		fmt.Fprintf(&sb, "| %s | `%s` | %s | %v |\n",
			escapeCell(caseTitle(c.ID, c.Name)),
			escapeCell(c.Phrase),
			strings.ToUpper(c.Status),
			c.Duration,
		)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total Cases | %d |\n", summary.TotalCases)
	fmt.Fprintf(&sb, "| Passed | %d |\n", summary.PassedCases)
	fmt.Fprintf(&sb, "| Failed | %d |\n", summary.FailedCases)
	fmt.Fprintf(&sb, "| Errors | %d |\n", summary.ErroredCases)
	fmt.Fprintf(&sb, "| Pass Rate | %.0f%% |\n", summary.PassRate*100)
	fmt.Fprintf(&sb, "| Total Duration | %v |\n", summary.TotalDuration)

	var failures []CaseSummary
	for _, c := range summary.Cases {
		if c.Detail != "" {
			failures = append(failures, c)
		}
	}
	if len(failures) > 0 {
		sb.WriteString("\n## Failures\n")
		for _, c := range failures {
			fmt.Fprintf(&sb, "\n### %s\n\n```\n%s\n```\n",
				caseTitle(c.ID, c.Name), c.Detail)
		}
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
