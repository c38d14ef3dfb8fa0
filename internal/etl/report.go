package etl

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"student-etl/internal/model"
	"student-etl/pkg/utils"
)

// ------------------- Run Report -------------------

// ReportWriter persists per-run artifacts: a machine-readable summary and
// the rejected-row feedback an external writer can apply back to the
// source sheet.
type ReportWriter struct {
	outputs *utils.OutputManager
}

// NewReportWriter writes artifacts under baseDir/<runID>/.
func NewReportWriter(baseDir string) *ReportWriter {
	return &ReportWriter{outputs: utils.NewOutputManager(baseDir)}
}

// Write stores run_report.json and, when there are rejected rows,
// rejected_rows.csv. Returns the paths written.
func (rw *ReportWriter) Write(report model.RunReport, rejected []model.RejectedRow) ([]string, error) {
	var written []string

	reportPath, err := rw.outputs.GetOutputFilePath(report.RunID, "run_report.json")
	if err != nil {
		return nil, err
	}
	if err := writeJSON(reportPath, report); err != nil {
		return nil, fmt.Errorf("write run report: %w", err)
	}
	written = append(written, reportPath)

	if len(rejected) > 0 {
		rejectedPath, err := rw.outputs.GetOutputFilePath(report.RunID, "rejected_rows.csv")
		if err != nil {
			return nil, err
		}
		if err := writeRejectedCSV(rejectedPath, rejected); err != nil {
			return nil, fmt.Errorf("write rejected rows: %w", err)
		}
		written = append(written, rejectedPath)
	}

	fmt.Printf("💾 Report: %d artifact(s) written for run %s\n", len(written), report.RunID)
	return written, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRejectedCSV emits one line per rejected row: source line, status
// marker, and the joined human-readable error list.
func writeRejectedCSV(path string, rejected []model.RejectedRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"line", "status", "errors"}); err != nil {
		return err
	}
	for _, row := range rejected {
		record := []string{
			strconv.Itoa(row.Line),
			"error",
			strings.Join(row.Messages(), "; "),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
