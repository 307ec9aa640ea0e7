package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"
)

// HTMLReporter generates standalone HTML reports.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a form pass.
func (r *HTMLReporter) GenerateReport(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(w io.Writer, report *Report) error {
	var buf bytes.Buffer
	r.writeHeader(&buf, "Form Report: "+report.Form)

	fmt.Fprintf(&buf, "<h1>Form Report: %s</h1>\n",
		html.EscapeString(report.Form))
	fmt.Fprintf(&buf, "<p><strong>Report ID:</strong> %s</p>\n",
		html.EscapeString(report.ID))
	fmt.Fprintf(&buf, "<p><strong>Generated:</strong> %s</p>\n",
		report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "<p><strong>Status:</strong> "+
		"<span class=\"%s\">%s</span></p>\n",
		statusClass(report.Status), strings.ToUpper(report.Status))

	r.writeFieldsTable(&buf, report)
	r.writeFooter(&buf)

	_, err := w.Write(buf.Bytes())
	return err
}

func (r *HTMLReporter) writeFieldsTable(w io.Writer, report *Report) {
	fmt.Fprintln(w, "<h2>Fields</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Field</th><th>Status</th>"+
		"<th>Constraint</th><th>Requirements</th>"+
		"<th>Value</th><th>Kind</th></tr>")

	for _, f := range report.Fields {
		cls := statusClass(f.Status)
		if len(f.Failures) == 0 {
			fmt.Fprintf(w, "<tr><td>%s</td>"+
				"<td class=\"%s\">%s</td>"+
				"<td colspan=\"4\">-</td></tr>\n",
				html.EscapeString(f.Field), cls, f.Status)
			continue
		}
		for _, fail := range f.Failures {
			kind := fail.Kind
			if fail.Error != "" {
				kind += ": " + fail.Error
			}
			fmt.Fprintf(w, "<tr><td>%s</td>"+
				"<td class=\"%s\">%s</td>"+
				"<td>%s</td><td><code>%s</code></td>"+
				"<td><code>%s</code></td><td>%s</td></tr>\n",
				html.EscapeString(f.Field), cls, f.Status,
				html.EscapeString(fail.Constraint),
				html.EscapeString(requirementString(fail.Requirements)),
				html.EscapeString(fail.Value),
				html.EscapeString(kind))
		}
	}
	fmt.Fprintln(w, "</table>")
}

// GenerateMasterSummary creates an HTML summary of several
// form passes.
func (r *HTMLReporter) GenerateMasterSummary(
	reports []*Report,
) ([]byte, error) {
	summary := BuildMasterSummary(reports)

	var buf bytes.Buffer
	r.writeHeader(&buf, "Validation Summary")
	fmt.Fprintln(&buf, "<h1>Validation Summary</h1>")
	fmt.Fprintf(&buf, "<p><strong>Generated:</strong> %s</p>\n",
		summary.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintln(&buf, "<h2>Overview</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf, "<tr><th>Form</th><th>Status</th>"+
		"<th>Duration</th><th>Failing Fields</th></tr>")
	for _, f := range summary.Forms {
		fmt.Fprintf(&buf, "<tr><td>%s</td>"+
			"<td class=\"%s\">%s</td>"+
			"<td>%v</td><td>%d/%d</td></tr>\n",
			html.EscapeString(f.Form),
			statusClass(f.Status), strings.ToUpper(f.Status),
			f.Duration, f.FieldsFailing, f.FieldsTotal)
	}
	fmt.Fprintln(&buf, "</table>")

	fmt.Fprintln(&buf, "<h2>Statistics</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(&buf, "<tr><td>Total Forms</td><td>%d</td></tr>\n",
		summary.TotalForms)
	fmt.Fprintf(&buf, "<tr><td>Valid</td><td>%d</td></tr>\n",
		summary.ValidForms)
	fmt.Fprintf(&buf, "<tr><td>Invalid</td><td>%d</td></tr>\n",
		summary.InvalidForms)
	fmt.Fprintf(&buf, "<tr><td>Valid Rate</td><td>%.0f%%</td></tr>\n",
		summary.ValidRate*100)
	fmt.Fprintln(&buf, "</table>")

	r.writeFooter(&buf)
	return buf.Bytes(), nil
}

func statusClass(status string) string {
	switch status {
	case "valid":
		return "status-valid"
	case "invalid":
		return "status-invalid"
	default:
		return "status-skipped"
	}
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 0 auto; padding: 20px; color: #333; }
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
table { border-collapse: collapse; width: 100%%; margin: 10px 0; }
th, td { border: 1px solid #ddd; padding: 8px 12px; text-align: left; }
th { background: #3498db; color: #fff; }
.status-valid { color: #27ae60; font-weight: bold; }
.status-invalid { color: #e74c3c; font-weight: bold; }
.status-skipped { color: #7f8c8d; }
code { background: #ecf0f1; padding: 2px 6px; border-radius: 3px; }
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
