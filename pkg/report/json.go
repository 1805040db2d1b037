package report

import (
	"encoding/json"
	"io"

	"digital.vasic.setmatch/pkg/bank"
)

// JSONReporter generates JSON reports from case results.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// GenerateReport creates a JSON report for a single case result.
func (r *JSONReporter) GenerateReport(result bank.CaseResult) ([]byte, error) {
	return r.marshal(result)
}

// GenerateSummary creates a JSON report of a whole run.
func (r *JSONReporter) GenerateSummary(summary *Summary) ([]byte, error) {
	return r.marshal(summary)
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(w io.Writer, result bank.CaseResult) error {
	data, err := r.GenerateReport(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (r *JSONReporter) marshal(v any) ([]byte, error) {
	if r.pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
