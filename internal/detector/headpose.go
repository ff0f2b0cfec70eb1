package detector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
	"github.com/saturnino-fabrica-de-software/veriface/internal/video"
)

// HeadposeConfig holds the head-pose motion thresholds.
type HeadposeConfig struct {
	TooSmoothVariance float64 // speed variance below this is suspicious
	JitteryVariance   float64 // speed variance above this is suspicious
}

// DefaultHeadposeConfig returns the tuned production thresholds.
func DefaultHeadposeConfig() HeadposeConfig {
	return HeadposeConfig{
		TooSmoothVariance: 1e-6,
		JitteryVariance:   0.01,
	}
}

// Headpose reason codes.
const (
	ReasonTooSmoothMotion = "too_smooth_motion"
	ReasonJitteryMotion   = "jittery_motion"
)

// HeadposeDetector classifies a video by the variance of its
// frame-to-frame head motion. Unlike the blink detector it processes
// every decoded frame and keeps the full pose history.
type HeadposeDetector struct {
	cfg       HeadposeConfig
	landmarks provider.LandmarkProvider
	open      video.Opener
	logger    *slog.Logger
}

// NewHeadposeDetector wires a head-pose detector.
func NewHeadposeDetector(cfg HeadposeConfig, landmarks provider.LandmarkProvider, open video.Opener, logger *slog.Logger) *HeadposeDetector {
	return &HeadposeDetector{cfg: cfg, landmarks: landmarks, open: open, logger: logger}
}

func (d *HeadposeDetector) Family() domain.Family { return domain.FamilyHeadpose }

// Analyze extracts an approximate (pitch, yaw, roll) per frame and reduces
// the full history to pose- and speed-variance metrics. The angles are a
// normalized-coordinate approximation, not a 3-D pose solve.
func (d *HeadposeDetector) Analyze(ctx context.Context, videoPath string) (domain.DetectorResult, error) {
	src, err := d.open(videoPath)
	if err != nil {
		d.logger.Warn("cannot open video", "path", videoPath, "error", err)
		return domain.Failure(domain.ReasonCannotOpenVideo), nil
	}
	defer func() {
		_ = src.Close()
	}()

	var pitch, yaw, roll []float64
	totalFrames := 0

	for {
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.DetectorResult{}, fmt.Errorf("read frame: %w", err)
		}

		totalFrames++

		pts, err := d.landmarks.Landmarks(ctx, frame.JPEG)
		if err != nil {
			return domain.DetectorResult{}, fmt.Errorf("landmarks at frame %d: %w", totalFrames, err)
		}
		if len(pts) == 0 {
			continue
		}

		nose := pts[provider.NoseTip]
		leftEye := pts[provider.LeftEyeOuter]
		rightEye := pts[provider.RightEyeOuter]

		roll = append(roll, math.Atan2(rightEye.Y-leftEye.Y, rightEye.X-leftEye.X))
		yaw = append(yaw, nose.X-0.5)
		pitch = append(pitch, nose.Y-0.5)
	}

	if len(pitch) == 0 {
		return domain.Failure(domain.ReasonNoFaceDetected), nil
	}

	pitchVar, _ := stats.PopulationVariance(pitch)
	yawVar, _ := stats.PopulationVariance(yaw)
	rollVar, _ := stats.PopulationVariance(roll)
	poseVariance := pitchVar + yawVar + rollVar

	speeds := make([]float64, 0, len(pitch)-1)
	for i := 1; i < len(pitch); i++ {
		dp := pitch[i] - pitch[i-1]
		dy := yaw[i] - yaw[i-1]
		dr := roll[i] - roll[i-1]
		speeds = append(speeds, math.Sqrt(dp*dp+dy*dy+dr*dr))
	}

	var avgSpeed, speedVariance float64
	var reasons []string
	// A single pose sample yields no motion signal, so neither threshold
	// can fire.
	if len(speeds) > 0 {
		avgSpeed, _ = stats.Mean(speeds)
		speedVariance, _ = stats.PopulationVariance(speeds)

		if speedVariance < d.cfg.TooSmoothVariance {
			reasons = append(reasons, ReasonTooSmoothMotion)
		}
		if speedVariance > d.cfg.JitteryVariance {
			reasons = append(reasons, ReasonJitteryMotion)
		}
	}

	avgPitch, _ := stats.Mean(pitch)
	avgYaw, _ := stats.Mean(yaw)
	avgRoll, _ := stats.Mean(roll)

	return domain.Flagged(map[string]float64{
		"frames_analyzed":    float64(len(pitch)),
		"total_video_frames": float64(totalFrames),
		"avg_pitch":          avgPitch,
		"avg_yaw":            avgYaw,
		"avg_roll":           avgRoll,
		"pose_variance":      poseVariance,
		"avg_speed":          avgSpeed,
		"speed_variance":     speedVariance,
	}, reasons), nil
}
