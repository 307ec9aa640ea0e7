package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// HistoricalEntry is one form pass in the history log.
type HistoricalEntry struct {
	Timestamp time.Time `json:"timestamp"`
	ReportID  string    `json:"report_id"`
	Form      string    `json:"form"`
	Status    string    `json:"status"`
	Duration  string    `json:"duration"`
	Failures  int       `json:"failures"`
}

// AppendToHistory adds an entry for report to the log stored
// at historyPath. Each entry is a single JSON line.
func AppendToHistory(historyPath string, report *Report) error {
	entry := HistoricalEntry{
		Timestamp: report.GeneratedAt,
		ReportID:  report.ID,
		Form:      report.Form,
		Status:    report.Status,
		Duration:  report.Duration.String(),
		Failures:  report.FailureCount(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf(
			"failed to marshal history entry: %w", err,
		)
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
