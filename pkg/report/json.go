package report

import (
	"encoding/json"
	"io"
	"time"
)

// JSONReporter generates JSON reports.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// GenerateReport creates a JSON report for a single form pass.
func (r *JSONReporter) GenerateReport(report *Report) ([]byte, error) {
	return r.marshal(report)
}

// jsonMasterSummary is the JSON structure for a master summary.
type jsonMasterSummary struct {
	GeneratedAt   time.Time     `json:"generated_at"`
	TotalForms    int           `json:"total_forms"`
	Valid         int           `json:"valid"`
	Invalid       int           `json:"invalid"`
	TotalDuration time.Duration `json:"total_duration"`
	Reports       []*Report     `json:"reports"`
}

// GenerateMasterSummary creates a JSON summary of several form
// passes.
func (r *JSONReporter) GenerateMasterSummary(
	reports []*Report,
) ([]byte, error) {
	summary := jsonMasterSummary{
		GeneratedAt: time.Now(),
		TotalForms:  len(reports),
		Reports:     reports,
	}

	for _, rep := range reports {
		if rep.Valid() {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		summary.TotalDuration += rep.Duration
	}
	return r.marshal(summary)
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(w io.Writer, report *Report) error {
	data, err := r.GenerateReport(report)
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
