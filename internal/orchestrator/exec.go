package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/evaluate"
)

// ExecTask runs one family's evaluation as a child process. The child
// prints its report as JSON on stdout and also persists it under the
// output directory; the task reads stdout first and falls back to the
// persisted file only when stdout does not parse. A non-zero exit is a
// task failure.
type ExecTask struct {
	family    domain.Family
	bin       string
	args      []string
	outputDir string
	logger    *slog.Logger
}

// NewExecTask builds an exec task. The family name is appended to args
// so the child knows which detector to run.
func NewExecTask(family domain.Family, bin string, args []string, outputDir string, logger *slog.Logger) *ExecTask {
	return &ExecTask{
		family:    family,
		bin:       bin,
		args:      append(args, string(family)),
		outputDir: outputDir,
		logger:    logger,
	}
}

func (t *ExecTask) Family() domain.Family { return t.family }

// Run spawns the child and retrieves its report through the dual-source
// protocol.
func (t *ExecTask) Run(ctx context.Context) (*evaluate.Report, error) {
	cmd := exec.CommandContext(ctx, t.bin, t.args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s task: %w", t.family, err)
	}

	var report evaluate.Report
	if err := json.Unmarshal(stdout.Bytes(), &report); err == nil {
		return &report, nil
	}

	// Stdout was polluted or truncated; the persisted file is the
	// secondary source.
	path := evaluate.ReportPath(t.outputDir, t.family)
	t.logger.Warn("stdout not parseable, reading report file",
		"family", t.family, "path", path)

	fromFile, err := evaluate.ReadReportFile(path)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s report: %w", t.family, err)
	}
	return fromFile, nil
}
