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

// EmotionConfig holds the emotion diversity thresholds.
type EmotionConfig struct {
	FrameInterval    int     // classify every n-th decoded frame
	MaxFrames        int     // stop after this many processed frames
	MinFaces         int     // diversity heuristic needs at least this many readings
	MinDiversity     int     // fewer distinct emotions is suspicious
	MinAvgConfidence float64 // percent; lower average is suspicious
}

// DefaultEmotionConfig returns the production defaults.
func DefaultEmotionConfig() EmotionConfig {
	return EmotionConfig{
		FrameInterval:    3,
		MaxFrames:        100,
		MinFaces:         5,
		MinDiversity:     2,
		MinAvgConfidence: 30,
	}
}

// Emotion reason codes.
const (
	ReasonLowEmotionDiversity  = "low_emotion_diversity"
	ReasonLowEmotionConfidence = "low_emotion_confidence"
)

// EmotionDetector classifies a video by the diversity and confidence of
// the facial expressions the external classifier reads per sampled frame.
// Synthetic faces tend to hold a single flat expression.
type EmotionDetector struct {
	cfg        EmotionConfig
	classifier provider.EmotionClassifier
	open       video.Opener
	logger     *slog.Logger
}

// NewEmotionDetector wires an emotion detector.
func NewEmotionDetector(cfg EmotionConfig, classifier provider.EmotionClassifier, open video.Opener, logger *slog.Logger) *EmotionDetector {
	return &EmotionDetector{cfg: cfg, classifier: classifier, open: open, logger: logger}
}

func (d *EmotionDetector) Family() domain.Family { return domain.FamilyEmotion }

// Analyze aggregates per-frame emotion readings into frequency, diversity
// and confidence metrics.
func (d *EmotionDetector) Analyze(ctx context.Context, videoPath string) (domain.DetectorResult, error) {
	src, err := d.open(videoPath)
	if err != nil {
		d.logger.Warn("cannot open video", "path", videoPath, "error", err)
		return domain.Failure(domain.ReasonCannotOpenVideo), nil
	}
	defer func() {
		_ = src.Close()
	}()

	frequency := make(map[string]int)
	var confidences []float64
	frameCount := 0
	processed := 0

	for processed < d.cfg.MaxFrames {
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.DetectorResult{}, fmt.Errorf("read frame: %w", err)
		}

		frameCount++
		if frameCount%d.cfg.FrameInterval != 0 {
			continue
		}

		reading, err := d.classifier.Emotion(ctx, frame.JPEG)
		if err != nil {
			return domain.DetectorResult{}, fmt.Errorf("emotion at frame %d: %w", frameCount, err)
		}
		if reading == nil {
			processed++
			continue
		}

		frequency[reading.Label]++
		confidences = append(confidences, reading.Confidence)
		processed++
	}

	totalFaces := len(confidences)
	if totalFaces == 0 {
		return domain.Failure(domain.ReasonNoFacesDetected), nil
	}

	avgConfidence, _ := stats.Mean(confidences)
	diversity := len(frequency)

	var reasons []string
	if totalFaces >= d.cfg.MinFaces && diversity < d.cfg.MinDiversity {
		reasons = append(reasons, ReasonLowEmotionDiversity)
	}
	if avgConfidence < d.cfg.MinAvgConfidence {
		reasons = append(reasons, ReasonLowEmotionConfidence)
	}

	return domain.Flagged(map[string]float64{
		"total_faces":       float64(totalFaces),
		"emotion_diversity": float64(diversity),
		"avg_confidence":    avgConfidence,
		"processed_frames":  float64(processed),
	}, reasons), nil
}
