// The orchestrate command runs all four detector families concurrently
// and prints the combined report on stdout. With EVALUATE_BIN set, each
// family runs as a child evaluate process; otherwise everything runs
// in-process.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/saturnino-fabrica-de-software/veriface/internal/config"
	"github.com/saturnino-fabrica-de-software/veriface/internal/detector"
	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/evaluate"
	"github.com/saturnino-fabrica-de-software/veriface/internal/face"
	"github.com/saturnino-fabrica-de-software/veriface/internal/orchestrator"
	"github.com/saturnino-fabrica-de-software/veriface/internal/video"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting orchestration",
		slog.String("environment", cfg.Environment),
		slog.Int("workers", cfg.Workers),
		slog.Bool("exec_mode", cfg.EvaluateBin != ""),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks, err := buildTasks(cfg, logger)
	if err != nil {
		return err
	}

	combined := orchestrator.New(cfg.Workers, logger).Run(ctx, tasks)

	path, err := combined.WriteFile(cfg.OutputDir)
	if err != nil {
		return err
	}
	logger.Info("combined report written", slog.String("path", path))

	return json.NewEncoder(os.Stdout).Encode(combined)
}

func buildTasks(cfg *config.Config, logger *slog.Logger) ([]orchestrator.Task, error) {
	var tasks []orchestrator.Task

	if cfg.EvaluateBin != "" {
		for _, family := range domain.Families() {
			tasks = append(tasks,
				orchestrator.NewExecTask(family, cfg.EvaluateBin, nil, cfg.OutputDir, logger))
		}
		return tasks, nil
	}

	model, err := face.NewModelProvider(cfg)
	if err != nil {
		return nil, err
	}
	opener := video.NewFFmpegOpener(cfg.FFmpegBin)

	for _, family := range domain.Families() {
		analyzer, err := detector.New(family, model, opener, logger)
		if err != nil {
			return nil, err
		}

		evaluator := evaluate.NewEvaluator(analyzer, evaluate.Config{
			FakeDir: cfg.FakeDir,
			RealDir: cfg.RealDir,
		}, logger)

		family := family
		tasks = append(tasks, orchestrator.NewTaskFunc(family,
			func(ctx context.Context) (*evaluate.Report, error) {
				verdicts, err := evaluator.Run(ctx)
				if err != nil {
					return nil, err
				}
				report := evaluate.NewReport(family, verdicts)
				if _, err := report.WriteFile(cfg.OutputDir); err != nil {
					return nil, err
				}
				return report, nil
			}))
	}
	return tasks, nil
}
