package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.setmatch/pkg/bank"
)

func sampleResults() []bank.CaseResult {
	return []bank.CaseResult{
		{ID: "c-1", Name: "size", Phrase: "to have size", Passed: true, Matched: true, Duration: time.Millisecond},
		{
			ID:       "c-2",
			Name:     "missing",
			Phrase:   "to satisfy",
			Failure:  "expected Set([ 1 ]) to satisfy [ 2 ]",
			Diff:     "Set([\n  1\n  // missing 2\n])",
			Duration: 2 * time.Millisecond,
		},
		{ID: "c-3", Phrase: "to frobnicate", Error: "unknown assertion", Duration: time.Millisecond},
		{ID: "c-4", Phrase: "to be empty", Passed: true, Duration: time.Millisecond},
	}
}

func TestStatus(t *testing.T) {
	results := sampleResults()
	assert.Equal(t, StatusPassed, Status(results[0]))
	assert.Equal(t, StatusFailed, Status(results[1]))
	assert.Equal(t, StatusError, Status(results[2]))
	assert.Equal(t, StatusFailed, Status(results[3]))
}

func TestBuildSummary(t *testing.T) {
	s := BuildSummary(sampleResults())

	assert.True(t, strings.HasPrefix(s.ID, "summary_"))
	assert.Equal(t, 4, s.TotalCases)
	assert.Equal(t, 1, s.PassedCases)
	assert.Equal(t, 2, s.FailedCases)
	assert.Equal(t, 1, s.ErroredCases)
	assert.Equal(t, 5*time.Millisecond, s.TotalDuration)
	assert.InDelta(t, 0.25, s.PassRate, 1e-9)
	assert.False(t, s.OK())

	require.Len(t, s.Cases, 4)
	assert.Empty(t, s.Cases[0].Detail)
	assert.Equal(t,
		"expected Set([ 1 ]) to satisfy [ 2 ]\n\nSet([\n  1\n  // missing 2\n])",
		s.Cases[1].Detail)
	assert.Equal(t, "unknown assertion", s.Cases[2].Detail)
	assert.Equal(t, "expected the assertion to fail", s.Cases[3].Detail)
}

func TestBuildSummary_Empty(t *testing.T) {
	s := BuildSummary(nil)
	assert.Equal(t, 0, s.TotalCases)
	assert.Zero(t, s.PassRate)
	assert.True(t, s.OK())
}

func TestSummary_WriteJSON(t *testing.T) {
	s := BuildSummary(sampleResults())

	var buf bytes.Buffer
	require.NoError(t, s.WriteJSON(&buf))

	var decoded Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, s.ID, decoded.ID)
	assert.Equal(t, 4, decoded.TotalCases)
	assert.Len(t, decoded.Cases, 4)
}

func TestSummary_WriteMarkdown(t *testing.T) {
	s := BuildSummary(sampleResults())

	var buf bytes.Buffer
	require.NoError(t, s.WriteMarkdown(&buf))
	md := buf.String()

	assert.Contains(t, md, "# Set Assertion Run - Summary")
	assert.Contains(t, md, "| size (c-1) | `to have size` | PASSED |")
	assert.Contains(t, md, "| missing (c-2) | `to satisfy` | FAILED |")
	assert.Contains(t, md, "| c-3 | `to frobnicate` | ERROR |")
	assert.Contains(t, md, "| Pass Rate | 25% |")
	assert.Contains(t, md, "## Failures")
	assert.Contains(t, md, "// missing 2")
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	s := BuildSummary(sampleResults())

	require.NoError(t, Save(s, dir))

	ts := s.GeneratedAt.Format("20060102_150405")
	assert.FileExists(t, filepath.Join(dir, "summary_"+ts+".json"))
	assert.FileExists(t, filepath.Join(dir, "summary_"+ts+".md"))
	assert.FileExists(t, filepath.Join(dir, "summary_"+ts+".html"))
	assert.FileExists(t, filepath.Join(dir, "latest_summary.html"))

	data, err := os.ReadFile(filepath.Join(dir, "latest_summary.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), s.ID)
}

func TestAppendToHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s := BuildSummary(sampleResults())

	require.NoError(t, AppendToHistory(path, s, []string{"sets.yaml"}))
	require.NoError(t, AppendToHistory(path, s, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry HistoricalEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, s.ID, entry.SummaryID)
	assert.Equal(t, []string{"sets.yaml"}, entry.Sources)
	assert.Equal(t, 4, entry.TotalCases)
	assert.Equal(t, 1, entry.PassedCases)
	assert.Equal(t, "5ms", entry.Duration)
}

func TestAppendToHistory_BadPath(t *testing.T) {
	err := AppendToHistory("/nonexistent/dir/history.jsonl", BuildSummary(nil), nil)
	assert.Error(t, err)
}
