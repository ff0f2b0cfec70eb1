// Package evaluate runs one detector family over a labeled dataset and
// reduces the per-video verdicts to accuracy statistics.
package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/saturnino-fabrica-de-software/veriface/internal/detector"
	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/verdict"
)

// videoExtensions is the accepted container whitelist, matched by
// extension only.
var videoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".mkv": true,
	".flv": true,
}

// CollectVideos lists the video files in dir in lexicographic order. A
// missing or unreadable directory yields an empty batch, not an error;
// the caller decides whether an empty batch matters.
func CollectVideos(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if videoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths
}

// Config holds the dataset layout for one evaluation run.
type Config struct {
	FakeDir      string
	RealDir      string
	ShowProgress bool
}

// Evaluator runs a single detector family over the fake and real batches.
type Evaluator struct {
	analyzer detector.Analyzer
	cfg      Config
	logger   *slog.Logger
}

// NewEvaluator wires an evaluator for the given analyzer.
func NewEvaluator(analyzer detector.Analyzer, cfg Config, logger *slog.Logger) *Evaluator {
	return &Evaluator{analyzer: analyzer, cfg: cfg, logger: logger}
}

// Run evaluates the FAKE batch, then the REAL batch, producing one
// labeled verdict per file in directory listing order. A video that
// fails or panics is recorded with its error and never aborts the batch.
func (e *Evaluator) Run(ctx context.Context) ([]domain.LabeledVerdict, error) {
	fakes := CollectVideos(e.cfg.FakeDir)
	reals := CollectVideos(e.cfg.RealDir)

	e.logger.Info("starting evaluation",
		"family", e.analyzer.Family(),
		"fake_videos", len(fakes),
		"real_videos", len(reals))

	var bar *progressbar.ProgressBar
	if e.cfg.ShowProgress {
		// Progress goes to stderr; stdout carries the report JSON.
		bar = progressbar.NewOptions(len(fakes)+len(reals),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(string(e.analyzer.Family())),
			progressbar.OptionShowCount(),
		)
	}

	batches := []struct {
		groundTruth domain.Prediction
		paths       []string
	}{
		{domain.PredictionFake, fakes},
		{domain.PredictionReal, reals},
	}

	verdicts := make([]domain.LabeledVerdict, 0, len(fakes)+len(reals))
	for _, batch := range batches {
		for _, path := range batch.paths {
			if err := ctx.Err(); err != nil {
				return verdicts, err
			}

			v := e.evaluateOne(ctx, path)
			verdicts = append(verdicts, domain.LabeledVerdict{
				Verdict:     v,
				GroundTruth: batch.groundTruth,
			})

			e.logger.Debug("video evaluated",
				"path", path,
				"ground_truth", batch.groundTruth,
				"prediction", v.Prediction,
				"confidence", v.Confidence)
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	}
	return verdicts, nil
}

// evaluateOne analyzes a single video, isolating errors and panics into
// the returned verdict.
func (e *Evaluator) evaluateOne(ctx context.Context, path string) (v domain.Verdict) {
	v.VideoPath = path
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("analysis panicked", "path", path, "panic", r)
			v = domain.Verdict{VideoPath: path, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	result, err := e.analyzer.Analyze(ctx, path)
	if err != nil {
		e.logger.Error("analysis failed", "path", path, "error", err)
		v.Error = err.Error()
		return v
	}

	prediction, confidence, err := verdict.Decide(e.analyzer.Family(), result)
	if err != nil {
		v.Detector = &result
		v.Error = err.Error()
		return v
	}

	v.Detector = &result
	v.Prediction = prediction
	v.Confidence = confidence
	return v
}
