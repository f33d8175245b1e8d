package formatter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytarc/internal/models"
)

func sampleResult() *models.BatchResult {
	return &models.BatchResult{
		RunID:     "run-1234",
		Succeeded: []string{"vid1", "vid2"},
		Failed: []models.ItemFailure{
			{ItemID: "vid3", Err: errors.New("access denied")},
		},
		Skipped: []string{"vid4"},
	}
}

func TestReportText(t *testing.T) {
	out := string(ReportText(sampleResult()))

	for _, want := range []string{"Run: run-1234", "Total: 4", "Succeeded: 2", "Failed: 1", "Skipped: 1", "vid3: access denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}

	t.Run("NoFailureSection", func(t *testing.T) {
		clean := &models.BatchResult{Succeeded: []string{"vid1"}}
		if strings.Contains(string(ReportText(clean)), "Failures:") {
			t.Error("clean run should not list failures")
		}
	})
}

func TestReportMarkdown(t *testing.T) {
	out := string(ReportMarkdown(sampleResult()))

	for _, want := range []string{"# Download Report", "## Succeeded", "## Failed", "## Skipped", "1. vid3: access denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q:\n%s", want, out)
		}
	}
}

func TestReportJSON(t *testing.T) {
	data, err := ReportJSON(sampleResult())
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	var parsed struct {
		RunID     string   `json:"run_id"`
		Total     int      `json:"total"`
		Succeeded []string `json:"succeeded"`
		Failed    []struct {
			ItemID string `json:"item_id"`
			Error  string `json:"error"`
		} `json:"failed"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("report should be valid JSON: %v", err)
	}

	if parsed.Total != 4 {
		t.Errorf("expected total 4, got %d", parsed.Total)
	}
	if parsed.RunID != "run-1234" {
		t.Errorf("expected run ID run-1234, got %q", parsed.RunID)
	}
	if len(parsed.Failed) != 1 || parsed.Failed[0].Error != "access denied" {
		t.Errorf("failure should flatten to a string: %+v", parsed.Failed)
	}
}

func TestRecordsToCSV(t *testing.T) {
	records := []models.AttemptRecord{
		{ItemID: "vid1", Status: models.StatusSucceeded, AttemptedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), OutputPath: "/downloads/vid1.mp4"},
		{ItemID: "vid2", Status: models.StatusFailed, AttemptedAt: time.Date(2026, 8, 1, 12, 5, 0, 0, time.UTC), LastError: "timeout"},
	}

	data, err := RecordsToCSV(records)
	if err != nil {
		t.Fatalf("csv failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "ItemID,Status,AttemptedAt,Error,OutputPath" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "timeout") {
		t.Errorf("failed row should carry the error, got %q", lines[2])
	}
}

func TestWriteBatchReport(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"json", "json", "\"total\""},
		{"text", "text", "Total: 4"},
		{"markdown", "markdown", "# Download Report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report."+tt.format)

			written, err := WriteBatchReport(sampleResult(), tt.format, path)
			if err != nil {
				t.Fatalf("write failed: %v", err)
			}
			if written != path {
				t.Errorf("expected path %q, got %q", path, written)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if !strings.Contains(string(raw), tt.want) {
				t.Errorf("report missing %q:\n%s", tt.want, raw)
			}
		})
	}
}
