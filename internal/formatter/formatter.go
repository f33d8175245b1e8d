// package formatter renders batch results and ledger records to various
// formats (plain text, Markdown, CSV, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/shared"
)

// ReportText renders a batch result as plain text with per-item failure lines.
func ReportText(result *models.BatchResult) []byte {
	var buf bytes.Buffer

	if result.RunID != "" {
		buf.WriteString(fmt.Sprintf("Run: %s\n", result.RunID))
	}
	buf.WriteString(fmt.Sprintf("Total: %d\n", result.Total()))
	buf.WriteString(fmt.Sprintf("Succeeded: %d\n", len(result.Succeeded)))
	buf.WriteString(fmt.Sprintf("Failed: %d\n", len(result.Failed)))
	buf.WriteString(fmt.Sprintf("Skipped: %d\n", len(result.Skipped)))

	if len(result.Failed) > 0 {
		buf.WriteString("\nFailures:\n")
		for _, failure := range result.Failed {
			buf.WriteString(fmt.Sprintf("  %s: %v\n", failure.ItemID, failure.Err))
		}
	}

	return buf.Bytes()
}

// ReportMarkdown renders a batch result as a Markdown summary.
func ReportMarkdown(result *models.BatchResult) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Download Report\n\n")
	if result.RunID != "" {
		buf.WriteString(fmt.Sprintf("**Run**: %s\n", result.RunID))
	}
	buf.WriteString(fmt.Sprintf("**Total**: %d\n", result.Total()))
	buf.WriteString(fmt.Sprintf("**Succeeded**: %d\n", len(result.Succeeded)))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n", len(result.Failed)))
	buf.WriteString(fmt.Sprintf("**Skipped**: %d\n\n", len(result.Skipped)))

	if len(result.Succeeded) > 0 {
		buf.WriteString("## Succeeded\n\n")
		for i, id := range result.Succeeded {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, id))
		}
		buf.WriteString("\n")
	}

	if len(result.Failed) > 0 {
		buf.WriteString("## Failed\n\n")
		for i, failure := range result.Failed {
			buf.WriteString(fmt.Sprintf("%d. %s: %v\n", i+1, failure.ItemID, failure.Err))
		}
		buf.WriteString("\n")
	}

	if len(result.Skipped) > 0 {
		buf.WriteString("## Skipped\n\n")
		for i, id := range result.Skipped {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, id))
		}
	}

	return buf.Bytes()
}

// RecordsToCSV converts ledger records to CSV with columns: ItemID, Status,
// AttemptedAt, Error, OutputPath
func RecordsToCSV(records []models.AttemptRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ItemID", "Status", "AttemptedAt", "Error", "OutputPath"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.ItemID,
			record.Status.String(),
			record.AttemptedAt.Format(time.RFC3339),
			record.LastError,
			record.OutputPath,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// batchReportJSON is the serialized shape of a batch report. Errors are
// flattened to strings so the file round-trips.
type batchReportJSON struct {
	RunID     string            `json:"run_id,omitempty"`
	Total     int               `json:"total"`
	Succeeded []string          `json:"succeeded"`
	Failed    []itemFailureJSON `json:"failed,omitempty"`
	Skipped   []string          `json:"skipped,omitempty"`
}

type itemFailureJSON struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// ReportJSON renders a batch result as indented JSON.
func ReportJSON(result *models.BatchResult) ([]byte, error) {
	report := batchReportJSON{
		RunID:     result.RunID,
		Total:     result.Total(),
		Succeeded: result.Succeeded,
		Skipped:   result.Skipped,
	}
	for _, failure := range result.Failed {
		report.Failed = append(report.Failed, itemFailureJSON{
			ItemID: failure.ItemID,
			Error:  failure.Err.Error(),
		})
	}
	return shared.MarshalJSON(report, true)
}

// WriteBatchReport writes a batch result to path in the requested format
// (text, markdown, or json; json is the default). Returns the written path.
func WriteBatchReport(result *models.BatchResult, format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("download_report_%d.%s", time.Now().Unix(), reportExtension(format))
	}

	var data []byte
	var err error

	switch format {
	case "text", "txt":
		data = ReportText(result)
	case "markdown", "md":
		data = ReportMarkdown(result)
	case "json":
		fallthrough
	default:
		data, err = ReportJSON(result)
		if err != nil {
			return "", fmt.Errorf("failed to generate JSON report: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

func reportExtension(format string) string {
	switch format {
	case "text", "txt":
		return "txt"
	case "markdown", "md":
		return "md"
	default:
		return "json"
	}
}
