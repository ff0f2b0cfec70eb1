// The evaluate command runs one detector family over a labeled dataset.
// It prints the report JSON on stdout and persists it under the output
// directory; everything else (logs, progress) goes to stderr.
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
	"github.com/saturnino-fabrica-de-software/veriface/internal/database"
	"github.com/saturnino-fabrica-de-software/veriface/internal/detector"
	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/evaluate"
	"github.com/saturnino-fabrica-de-software/veriface/internal/face"
	"github.com/saturnino-fabrica-de-software/veriface/internal/repository"
	"github.com/saturnino-fabrica-de-software/veriface/internal/video"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: evaluate <family> (one of %v)", domain.Families())
	}
	family := domain.Family(os.Args[1])
	if !family.Valid() {
		return fmt.Errorf("unknown family %q (one of %v)", os.Args[1], domain.Families())
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting evaluation",
		slog.String("family", string(family)),
		slog.String("environment", cfg.Environment),
	)

	model, err := face.NewModelProvider(cfg)
	if err != nil {
		return err
	}
	opener := video.NewFFmpegOpener(cfg.FFmpegBin)

	analyzer, err := detector.New(family, model, opener, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	evaluator := evaluate.NewEvaluator(analyzer, evaluate.Config{
		FakeDir:      cfg.FakeDir,
		RealDir:      cfg.RealDir,
		ShowProgress: true,
	}, logger)

	verdicts, err := evaluator.Run(ctx)
	if err != nil {
		return fmt.Errorf("evaluation aborted: %w", err)
	}

	report := evaluate.NewReport(family, verdicts)

	path, err := report.WriteFile(cfg.OutputDir)
	if err != nil {
		return err
	}
	logger.Info("report written",
		slog.String("path", path),
		slog.Float64("accuracy", report.Summary.Accuracy),
	)

	if cfg.PersistenceEnabled() {
		if err := persist(ctx, cfg.DatabaseURL, report); err != nil {
			// The report is already on disk and stdout; losing the
			// database copy is not fatal.
			logger.Error("report persistence failed", slog.Any("error", err))
		}
	}

	return json.NewEncoder(os.Stdout).Encode(report)
}

func persist(ctx context.Context, dsn string, report *evaluate.Report) error {
	pool, err := database.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	return repository.NewRunRepository(pool).SaveReport(ctx, report)
}
