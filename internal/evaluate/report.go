package evaluate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

// Report is the persisted outcome of one family's dataset evaluation.
type Report struct {
	RunID     uuid.UUID               `json:"run_id"`
	Timestamp time.Time               `json:"timestamp"`
	Family    domain.Family           `json:"family"`
	Summary   Summary                 `json:"summary"`
	Results   []domain.LabeledVerdict `json:"results"`
}

// NewReport builds a report for a completed run.
func NewReport(family domain.Family, verdicts []domain.LabeledVerdict) *Report {
	return &Report{
		RunID:     uuid.New(),
		Timestamp: time.Now().UTC(),
		Family:    family,
		Summary:   Summarize(verdicts),
		Results:   verdicts,
	}
}

// ReportPath is the well-known location of a family's report inside the
// output directory. The orchestrator reads this path as its fallback
// when a task's stdout cannot be parsed.
func ReportPath(outputDir string, family domain.Family) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s_evaluation.json", family))
}

// WriteFile persists the report as indented JSON under outputDir,
// creating the directory if needed, and returns the written path.
func (r *Report) WriteFile(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := ReportPath(outputDir, r.Family)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// ReadReportFile loads a previously persisted report.
func ReadReportFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}
