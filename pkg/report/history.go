package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// HistoricalEntry represents a single run in the historical log.
type HistoricalEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	SummaryID   string    `json:"summary_id"`
	Sources     []string  `json:"sources,omitempty"`
	TotalCases  int       `json:"total_cases"`
	PassedCases int       `json:"passed_cases"`
	Duration    string    `json:"duration"`
}

// AppendToHistory adds an entry for summary to the historical log
// stored at historyPath. Each entry is a single JSON line.
func AppendToHistory(
	historyPath string,
	summary *Summary,
	sources []string,
) error {
	entry := HistoricalEntry{
		Timestamp:   summary.GeneratedAt,
		SummaryID:   summary.ID,
		Sources:     sources,
		TotalCases:  summary.TotalCases,
		PassedCases: summary.PassedCases,
		Duration:    summary.TotalDuration.String(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}
