package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MasterSummary aggregates several form reports.
type MasterSummary struct {
	ID            string        `json:"id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Forms         []FormSummary `json:"forms"`
	TotalForms    int           `json:"total_forms"`
	ValidForms    int           `json:"valid_forms"`
	InvalidForms  int           `json:"invalid_forms"`
	TotalDuration time.Duration `json:"total_duration"`
	ValidRate     float64       `json:"valid_rate"`
}

// FormSummary is one row of a master summary.
type FormSummary struct {
	Form          string        `json:"form"`
	Status        string        `json:"status"`
	Duration      time.Duration `json:"duration"`
	FieldsFailing int           `json:"fields_failing"`
	FieldsTotal   int           `json:"fields_total"`
}

// BuildMasterSummary creates a master summary from reports.
func BuildMasterSummary(reports []*Report) *MasterSummary {
	summary := &MasterSummary{
		ID: fmt.Sprintf(
			"summary_%s",
			time.Now().Format("20060102_150405"),
		),
		GeneratedAt: time.Now(),
		Forms:       make([]FormSummary, 0, len(reports)),
	}

	for _, r := range reports {
		failing := 0
		for _, f := range r.Fields {
			if len(f.Failures) > 0 {
				failing++
			}
		}
		summary.Forms = append(summary.Forms, FormSummary{
			Form:          r.Form,
			Status:        r.Status,
			Duration:      r.Duration,
			FieldsFailing: failing,
			FieldsTotal:   len(r.Fields),
		})
		summary.TotalForms++
		summary.TotalDuration += r.Duration
		if r.Valid() {
			summary.ValidForms++
		} else {
			summary.InvalidForms++
		}
	}

	if summary.TotalForms > 0 {
		summary.ValidRate = float64(summary.ValidForms) /
			float64(summary.TotalForms)
	}
	return summary
}

// SaveMasterSummary saves the master summary to both JSON and
// Markdown files in the given output directory.
func SaveMasterSummary(summary *MasterSummary, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	jsonPath := filepath.Join(
		outputDir, fmt.Sprintf("master_summary_%s.json", ts),
	)
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON summary: %w", err)
	}

	mdPath := filepath.Join(
		outputDir, fmt.Sprintf("master_summary_%s.md", ts),
	)
	md := generateSummaryMarkdown(summary)
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}
	return nil
}

func generateSummaryMarkdown(summary *MasterSummary) string {
	var sb strings.Builder

	sb.WriteString("# Validation Summary\n\n")
	fmt.Fprintf(&sb, "**Summary ID:** %s\n\n", summary.ID)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		summary.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Form | Status | Duration | Failing Fields |\n")
	sb.WriteString("|------|--------|----------|----------------|\n")
	for _, f := range summary.Forms {
		fmt.Fprintf(&sb, "| %s | %s | %v | %d/%d |\n",
			f.Form, strings.ToUpper(f.Status), f.Duration,
			f.FieldsFailing, f.FieldsTotal)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total Forms | %d |\n", summary.TotalForms)
	fmt.Fprintf(&sb, "| Valid | %d |\n", summary.ValidForms)
	fmt.Fprintf(&sb, "| Invalid | %d |\n", summary.InvalidForms)
	fmt.Fprintf(&sb, "| Valid Rate | %.0f%% |\n",
		summary.ValidRate*100)
	fmt.Fprintf(&sb, "| Total Duration | %v |\n",
		summary.TotalDuration)

	return sb.String()
}

// MarkdownReporter renders reports as Markdown tables.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

// GenerateReport creates a Markdown report for a form pass.
func (r *MarkdownReporter) GenerateReport(report *Report) ([]byte, error) {
	var sb strings.Builder
	if err := r.WriteReport(&sb, report); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// GenerateMasterSummary creates a Markdown summary of several
// form passes.
func (r *MarkdownReporter) GenerateMasterSummary(
	reports []*Report,
) ([]byte, error) {
	return []byte(generateSummaryMarkdown(
		BuildMasterSummary(reports),
	)), nil
}

// WriteReport writes a Markdown report to w.
func (r *MarkdownReporter) WriteReport(w io.Writer, report *Report) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Form: %s\n\n", report.Form)
	fmt.Fprintf(&sb, "**Status:** %s\n\n",
		strings.ToUpper(report.Status))
	fmt.Fprintf(&sb, "**Duration:** %v\n\n", report.Duration)

	sb.WriteString("| Field | Status | Constraint | Requirements | Kind |\n")
	sb.WriteString("|-------|--------|------------|--------------|------|\n")
	for _, f := range report.Fields {
		if len(f.Failures) == 0 {
			fmt.Fprintf(&sb, "| %s | %s | - | - | - |\n",
				f.Field, f.Status)
			continue
		}
		for _, fail := range f.Failures {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				f.Field, f.Status, fail.Constraint,
				requirementString(fail.Requirements), fail.Kind)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
