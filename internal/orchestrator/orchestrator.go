// Package orchestrator runs the per-family evaluation tasks concurrently
// and merges their reports into one combined document.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/evaluate"
)

// DefaultWidth is the number of tasks run concurrently. One slot per
// detector family.
const DefaultWidth = 4

// Task is one family's dataset evaluation, runnable in-process or as a
// child process.
type Task interface {
	Family() domain.Family
	Run(ctx context.Context) (*evaluate.Report, error)
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc struct {
	family domain.Family
	fn     func(ctx context.Context) (*evaluate.Report, error)
}

// NewTaskFunc wraps fn as a task for the given family.
func NewTaskFunc(family domain.Family, fn func(ctx context.Context) (*evaluate.Report, error)) *TaskFunc {
	return &TaskFunc{family: family, fn: fn}
}

func (t *TaskFunc) Family() domain.Family { return t.family }

func (t *TaskFunc) Run(ctx context.Context) (*evaluate.Report, error) {
	return t.fn(ctx)
}

// Orchestrator fans tasks out over a fixed-width worker pool.
type Orchestrator struct {
	width  int
	logger *slog.Logger
}

// New builds an orchestrator. A non-positive width falls back to
// DefaultWidth.
func New(width int, logger *slog.Logger) *Orchestrator {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Orchestrator{width: width, logger: logger}
}

// Run executes all tasks concurrently and collects one entry per family.
// A task that errors or panics contributes a nil report; no task failure
// affects any other task.
func (o *Orchestrator) Run(ctx context.Context, tasks []Task) CombinedReport {
	type outcome struct {
		family domain.Family
		report *evaluate.Report
	}

	taskCh := make(chan Task)
	results := make(chan outcome)

	width := o.width
	if len(tasks) < width {
		width = len(tasks)
	}

	var wg sync.WaitGroup
	for i := 0; i < width; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				results <- outcome{family: task.Family(), report: o.runOne(ctx, task)}
			}
		}()
	}

	go func() {
		for _, task := range tasks {
			taskCh <- task
		}
		close(taskCh)
		wg.Wait()
		close(results)
	}()

	reports := make(map[domain.Family]*evaluate.Report, len(tasks))
	for out := range results {
		reports[out.family] = out.report
	}
	return CombinedReport{Reports: reports}
}

// runOne executes a single task, converting errors and panics into a nil
// report.
func (o *Orchestrator) runOne(ctx context.Context, task Task) (report *evaluate.Report) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("task panicked", "family", task.Family(), "panic", r)
			report = nil
		}
	}()

	o.logger.Info("task started", "family", task.Family())
	rep, err := task.Run(ctx)
	if err != nil {
		o.logger.Error("task failed", "family", task.Family(), "error", err)
		return nil
	}
	o.logger.Info("task finished", "family", task.Family(),
		"accuracy", rep.Summary.Accuracy)
	return rep
}

// CombinedReport maps each evaluated family to its report, nil for a
// family whose task failed entirely.
type CombinedReport struct {
	Reports map[domain.Family]*evaluate.Report
}

// MarshalJSON writes the families in their fixed reporting order,
// emitting null for failed ones. Families without a task are omitted.
func (c CombinedReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, family := range domain.Families() {
		report, ok := c.Reports[family]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(string(family))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if report == nil {
			buf.WriteString("null")
			continue
		}
		value, err := json.Marshal(report)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteFile persists the combined report under outputDir and returns the
// written path.
func (c CombinedReport) WriteFile(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal combined report: %w", err)
	}
	path := filepath.Join(outputDir, "combined_report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write combined report: %w", err)
	}
	return path, nil
}
