package detector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/montanaflynn/stats"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
	"github.com/saturnino-fabrica-de-software/veriface/internal/video"
)

// TextureConfig holds the texture aggregation parameters.
type TextureConfig struct {
	FrameSkip int     // score every n-th decoded frame
	Threshold float64 // scores above count toward the fake ratio
}

// DefaultTextureConfig returns the production defaults.
func DefaultTextureConfig() TextureConfig {
	return TextureConfig{
		FrameSkip: 5,
		Threshold: 0.5,
	}
}

// TextureDetector aggregates per-face authenticity scores from the
// external texture classifier. It carries no suspicion heuristic of its
// own; the decision wrapper thresholds the average score.
type TextureDetector struct {
	cfg    TextureConfig
	scorer provider.TextureScorer
	open   video.Opener
	logger *slog.Logger
}

// NewTextureDetector wires a texture detector.
func NewTextureDetector(cfg TextureConfig, scorer provider.TextureScorer, open video.Opener, logger *slog.Logger) *TextureDetector {
	return &TextureDetector{cfg: cfg, scorer: scorer, open: open, logger: logger}
}

func (d *TextureDetector) Family() domain.Family { return domain.FamilyTexture }

// Analyze samples every FrameSkip-th frame and reduces the collected
// scores to an average and a fake-frame ratio.
func (d *TextureDetector) Analyze(ctx context.Context, videoPath string) (domain.DetectorResult, error) {
	src, err := d.open(videoPath)
	if err != nil {
		d.logger.Warn("cannot open video", "path", videoPath, "error", err)
		return domain.Failure(domain.ReasonCannotOpenVideo), nil
	}
	defer func() {
		_ = src.Close()
	}()

	var scores []float64

	for {
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.DetectorResult{}, fmt.Errorf("read frame: %w", err)
		}

		if frame.Index%d.cfg.FrameSkip != 0 {
			continue
		}

		frameScores, err := d.scorer.Scores(ctx, frame.JPEG)
		if err != nil {
			return domain.DetectorResult{}, fmt.Errorf("texture score at frame %d: %w", frame.Index, err)
		}
		scores = append(scores, frameScores...)
	}

	if len(scores) == 0 {
		return domain.Failure(domain.ReasonNoFacesDetected), nil
	}

	avgScore, _ := stats.Mean(scores)
	above := 0
	for _, s := range scores {
		if s > d.cfg.Threshold {
			above++
		}
	}
	fakeRatio := float64(above) / float64(len(scores))

	return domain.Flagged(map[string]float64{
		"frames_analyzed": float64(len(scores)),
		"avg_score":       avgScore,
		"fake_ratio":      fakeRatio,
	}, nil), nil
}
