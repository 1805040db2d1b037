package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"digital.vasic.setmatch/pkg/bank"
)

// Case statuses.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
	StatusError  = "error"
)

// Summary aggregates the results of one bank run.
type Summary struct {
	ID            string        `json:"id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Cases         []CaseSummary `json:"cases"`
	TotalCases    int           `json:"total_cases"`
	PassedCases   int           `json:"passed_cases"`
	FailedCases   int           `json:"failed_cases"`
	ErroredCases  int           `json:"errored_cases"`
	TotalDuration time.Duration `json:"total_duration"`
	PassRate      float64       `json:"pass_rate"`
}

// CaseSummary is one row of a Summary. A case passes when its
// outcome matched its expectation.
type CaseSummary struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Phrase   string        `json:"phrase"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
	Detail   string        `json:"detail,omitempty"`
}

// Status classifies a case result.
func Status(r bank.CaseResult) string {
	switch {
	case r.Error != "":
		return StatusError
	case r.Matched:
		return StatusPassed
	default:
		return StatusFailed
	}
}

// BuildSummary creates a summary from case results.
func BuildSummary(results []bank.CaseResult) *Summary {
	now := time.Now()
	summary := &Summary{
		ID:          fmt.Sprintf("summary_%s", now.Format("20060102_150405")),
		GeneratedAt: now,
		Cases:       make([]CaseSummary, 0, len(results)),
	}

	for _, r := range results {
		cs := CaseSummary{
			ID:       r.ID,
			Name:     r.Name,
			Phrase:   r.Phrase,
			Status:   Status(r),
			Duration: r.Duration,
		}

		switch cs.Status {
		case StatusPassed:
			summary.PassedCases++
		case StatusFailed:
			summary.FailedCases++
			cs.Detail = failureDetail(r)
		case StatusError:
			summary.ErroredCases++
			cs.Detail = r.Error
		}

		summary.Cases = append(summary.Cases, cs)
		summary.TotalCases++
		summary.TotalDuration += r.Duration
	}

	if summary.TotalCases > 0 {
		summary.PassRate = float64(summary.PassedCases) /
			float64(summary.TotalCases)
	}

	return summary
}

func failureDetail(r bank.CaseResult) string {
	if r.Passed {
		return "expected the assertion to fail"
	}
	if r.Diff != "" {
		return r.Failure + "\n\n" + r.Diff
	}
	return r.Failure
}

// OK reports whether every case passed.
func (s *Summary) OK() bool {
	return s.PassedCases == s.TotalCases
}

// WriteJSON writes the summary as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteMarkdown writes the summary as Markdown.
func (s *Summary) WriteMarkdown(w io.Writer) error {
	_, err := io.WriteString(w, generateSummaryMarkdown(s))
	return err
}

// WriteHTML writes the summary as a standalone HTML page.
func (s *Summary) WriteHTML(w io.Writer) error {
	NewHTMLReporter().writeSummary(w, s)
	return nil
}

// Save writes the summary to JSON, Markdown and HTML files in the
// given output directory, and points latest_summary.* at them.
func Save(summary *Summary, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(outputDir, fmt.Sprintf("summary_%s.json", ts))
	if err := writeFile(jsonPath, summary.WriteJSON); err != nil {
		return fmt.Errorf("failed to write JSON summary: %w", err)
	}

	mdPath := filepath.Join(outputDir, fmt.Sprintf("summary_%s.md", ts))
	if err := writeFile(mdPath, summary.WriteMarkdown); err != nil {
		return fmt.Errorf("failed to write Markdown summary: %w", err)
	}

	htmlPath := filepath.Join(outputDir, fmt.Sprintf("summary_%s.html", ts))
	if err := writeFile(htmlPath, summary.WriteHTML); err != nil {
		return fmt.Errorf("failed to write HTML summary: %w", err)
	}

	for _, path := range []string{jsonPath, mdPath, htmlPath} {
		latest := filepath.Join(outputDir, "latest_summary"+filepath.Ext(path))
		_ = os.Remove(latest)
		_ = os.Symlink(filepath.Base(path), latest)
	}

	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
