package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"digital.vasic.setmatch/pkg/bank"
)

// HTMLReporter generates HTML reports from case results.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a single case result.
func (r *HTMLReporter) GenerateReport(result bank.CaseResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(w io.Writer, result bank.CaseResult) error {
	title := "Case Report: " + caseTitle(result.ID, result.Name)
	r.writeHeader(w, title)

	fmt.Fprintf(w, "<h1>%s</h1>\n", html.EscapeString(title))
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Field</th><th>Value</th></tr>")
	fmt.Fprintf(w, "<tr><td>Phrase</td><td><code>%s</code></td></tr>\n",
		html.EscapeString(result.Phrase))
	status := Status(result)
	fmt.Fprintf(w, "<tr><td>Status</td><td class=\"%s\">%s</td></tr>\n",
		statusClass(status), strings.ToUpper(status))
	fmt.Fprintf(w, "<tr><td>Duration</td><td>%v</td></tr>\n", result.Duration)
	if result.Error != "" {
		fmt.Fprintf(w, "<tr><td>Error</td><td class=\"status-failed\">%s</td></tr>\n",
			html.EscapeString(result.Error))
	}
	fmt.Fprintln(w, "</table>")

	if result.Failure != "" {
		fmt.Fprintf(w, "<h2>Failure</h2>\n<pre>%s</pre>\n", html.EscapeString(result.Failure))
	}
	if result.Diff != "" {
		fmt.Fprintf(w, "<h2>Expected Diff</h2>\n<pre>%s</pre>\n", html.EscapeString(result.Diff))
	}

	r.writeFooter(w)
	return nil
}

// GenerateSummary creates an HTML report of a whole run.
func (r *HTMLReporter) GenerateSummary(summary *Summary) ([]byte, error) {
	var buf bytes.Buffer
	r.writeSummary(&buf, summary)
	return buf.Bytes(), nil
}

func (r *HTMLReporter) writeSummary(w io.Writer, summary *Summary) {
	const title = "Set Assertion Run - Summary"
	r.writeHeader(w, title)

	fmt.Fprintf(w, "<h1>%s</h1>\n", title)
	fmt.Fprintf(w, "<p><strong>Summary ID:</strong> %s</p>\n", html.EscapeString(summary.ID))
	fmt.Fprintf(w, "<p><strong>Generated:</strong> %s</p>\n",
		summary.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintln(w, "<h2>Overview</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Case</th><th>Phrase</th><th>Status</th><th>Duration</th></tr>")
	for _, c := range summary.Cases {
		fmt.Fprintf(w,
			"<tr><td>%s</td><td><code>%s</code></td>"+
				"<td class=\"%s\">%s</td><td>%v</td></tr>\n",
			html.EscapeString(caseTitle(c.ID, c.Name)),
			html.EscapeString(c.Phrase),
			statusClass(c.Status), strings.ToUpper(c.Status),
			c.Duration,
		)
	}
	fmt.Fprintln(w, "</table>")

	fmt.Fprintln(w, "<h2>Statistics</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(w, "<tr><td>Total Cases</td><td>%d</td></tr>\n", summary.TotalCases)
	fmt.Fprintf(w, "<tr><td>Passed</td><td>%d</td></tr>\n", summary.PassedCases)
	fmt.Fprintf(w, "<tr><td>Failed</td><td>%d</td></tr>\n", summary.FailedCases)
	fmt.Fprintf(w, "<tr><td>Errors</td><td>%d</td></tr>\n", summary.ErroredCases)
	fmt.Fprintf(w, "<tr><td>Pass Rate</td><td>%.0f%%</td></tr>\n", summary.PassRate*100)
	fmt.Fprintf(w, "<tr><td>Total Duration</td><td>%v</td></tr>\n", summary.TotalDuration)
	fmt.Fprintln(w, "</table>")

	var failures []CaseSummary
	for _, c := range summary.Cases {
		if c.Detail != "" {
			failures = append(failures, c)
		}
	}
	if len(failures) > 0 {
		fmt.Fprintln(w, "<h2>Failures</h2>")
		for _, c := range failures {
			fmt.Fprintf(w, "<h3>%s</h3>\n<pre>%s</pre>\n",
				html.EscapeString(caseTitle(c.ID, c.Name)),
				html.EscapeString(c.Detail))
		}
	}

	r.writeFooter(w)
}

func statusClass(status string) string {
	if status == StatusPassed {
		return "status-passed"
	}
	return "status-failed"
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 0 auto; padding: 20px; color: #333; }
h1 { border-bottom: 2px solid #3498db; padding-bottom: 10px; }
table { border-collapse: collapse; width: 100%%; margin: 10px 0; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
th { background: #3498db; color: #fff; }
pre { background: #f4f4f4; padding: 10px; overflow-x: auto; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer><p>Generated by setcheck</p></footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
