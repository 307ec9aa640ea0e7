// Package report renders form validation results as JSON,
// Markdown and HTML documents.
package report

import (
	"fmt"
	"io"
	"time"

	"digital.vasic.constraints/pkg/field"
	"digital.vasic.constraints/pkg/form"

	"github.com/google/uuid"
)

// Reporter defines the interface for generating validation
// reports.
type Reporter interface {
	// GenerateReport creates a report for a single form pass.
	GenerateReport(report *Report) ([]byte, error)

	// GenerateMasterSummary creates a summary of several form
	// passes.
	GenerateMasterSummary(reports []*Report) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, report *Report) error
}

// Report is the presentation form of a form pass.
type Report struct {
	ID          string        `json:"id"`
	Form        string        `json:"form"`
	Status      string        `json:"status"`
	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration"`
	Fields      []FieldReport `json:"fields"`
}

// Valid reports whether the form passed.
func (r *Report) Valid() bool {
	return r.Status == field.StatusValid.String()
}

// FieldReport is the state of one field after the pass.
type FieldReport struct {
	Field    string          `json:"field"`
	Status   string          `json:"status"`
	Failures []FailureReport `json:"failures,omitempty"`
}

// FailureReport describes one failing constraint.
type FailureReport struct {
	Constraint   string `json:"constraint"`
	Requirements any    `json:"requirements,omitempty"`
	Kind         string `json:"kind"`
	Value        string `json:"value"`
	Error        string `json:"error,omitempty"`
}

// BuildReport creates a report from the result of a pass over
// frm. Fields that did not fail are reported with their last
// committed status.
func BuildReport(
	frm *form.Form,
	res form.Result,
	duration time.Duration,
) *Report {
	r := &Report{
		ID:          uuid.NewString(),
		Form:        frm.Name(),
		Status:      res.Status.String(),
		GeneratedAt: time.Now(),
		Duration:    duration,
	}

	for _, f := range frm.Fields() {
		fr := f.ValidationResult()
		if o, ok := res.Failure(f.Name()); ok {
			fr = o.Result
		}
		r.Fields = append(r.Fields, fieldReport(f.Name(), fr))
	}
	return r
}

func fieldReport(name string, res field.Result) FieldReport {
	fr := FieldReport{Field: name, Status: res.Status.String()}
	for _, v := range res.Failures {
		fail := FailureReport{
			Constraint:   v.Constraint.Name,
			Requirements: v.Constraint.Raw,
			Kind:         v.Kind(),
			Value:        v.Value.String(),
		}
		if v.Err != nil {
			fail.Error = v.Err.Error()
		}
		fr.Failures = append(fr.Failures, fail)
	}
	return fr
}

// FailureCount returns the number of failing constraints
// across all fields.
func (r *Report) FailureCount() int {
	n := 0
	for _, f := range r.Fields {
		n += len(f.Failures)
	}
	return n
}

func requirementString(v any) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}
