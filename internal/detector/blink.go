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

// BlinkConfig holds the blink detector thresholds.
type BlinkConfig struct {
	EARThreshold  float64 // eye closed below this ratio
	ConsecFrames  int     // closed frames required for one blink
	FrameInterval int     // analyze every n-th decoded frame
	MaxFrames     int     // stop after this many processed frames
	AssumedFPS    float64 // decoder frame rate assumed for rate math
	WindowSize    int     // rolling EAR window driving the heuristics

	MinBlinkRate float64 // per minute, below is suspicious
	MaxBlinkRate float64 // per minute, above is suspicious
	MinEARStdDev float64 // window std-dev below is suspicious
	MinAvgEAR    float64 // window mean outside [MinAvgEAR, MaxAvgEAR] is suspicious
	MaxAvgEAR    float64
}

// DefaultBlinkConfig returns the tuned production thresholds.
func DefaultBlinkConfig() BlinkConfig {
	return BlinkConfig{
		EARThreshold:  0.25,
		ConsecFrames:  2,
		FrameInterval: 3,
		MaxFrames:     100,
		AssumedFPS:    30,
		WindowSize:    5,
		MinBlinkRate:  5,
		MaxBlinkRate:  50,
		MinEARStdDev:  0.008,
		MinAvgEAR:     0.12,
		MaxAvgEAR:     0.38,
	}
}

// Blink reason codes.
const (
	ReasonLowBlinkRate   = "low_blink_rate"
	ReasonHighBlinkRate  = "high_blink_rate"
	ReasonLowEARVariance = "low_ear_variance"
	ReasonAbnormalEAR    = "abnormal_ear"
)

// BlinkDetector classifies a video by its eye-blink dynamics.
type BlinkDetector struct {
	cfg       BlinkConfig
	landmarks provider.LandmarkProvider
	open      video.Opener
	logger    *slog.Logger
}

// NewBlinkDetector wires a blink detector.
func NewBlinkDetector(cfg BlinkConfig, landmarks provider.LandmarkProvider, open video.Opener, logger *slog.Logger) *BlinkDetector {
	return &BlinkDetector{cfg: cfg, landmarks: landmarks, open: open, logger: logger}
}

func (d *BlinkDetector) Family() domain.Family { return domain.FamilyBlink }

// Analyze runs the debounced blink state machine over the sampled frames.
func (d *BlinkDetector) Analyze(ctx context.Context, videoPath string) (domain.DetectorResult, error) {
	src, err := d.open(videoPath)
	if err != nil {
		d.logger.Warn("cannot open video", "path", videoPath, "error", err)
		return domain.Failure(domain.ReasonCannotOpenVideo), nil
	}
	defer func() {
		_ = src.Close()
	}()

	counter := blinkCounter{threshold: d.cfg.EARThreshold, consec: d.cfg.ConsecFrames}
	window := newRollingWindow(d.cfg.WindowSize)
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

		pts, err := d.landmarks.Landmarks(ctx, frame.JPEG)
		if err != nil {
			return domain.DetectorResult{}, fmt.Errorf("landmarks at frame %d: %w", frameCount, err)
		}
		if len(pts) == 0 {
			processed++
			continue
		}

		left := eyeAspectRatio(pts, provider.LeftEyeContour)
		right := eyeAspectRatio(pts, provider.RightEyeContour)
		ear := (left + right) / 2
		window.Push(ear)

		if counter.Observe(ear) {
			d.logger.Debug("blink detected",
				"path", videoPath,
				"blink", counter.blinks,
				"frame", frameCount,
			)
		}

		processed++
	}

	if window.Len() == 0 {
		return domain.Failure(domain.ReasonNoFacesDetected), nil
	}

	avgEAR, _ := stats.Mean(window.Values())
	stdEAR, _ := stats.StdDevP(window.Values())

	durationSeconds := float64(processed*d.cfg.FrameInterval) / d.cfg.AssumedFPS
	blinkRate := 0.0
	if durationSeconds > 0 {
		blinkRate = float64(counter.blinks) / durationSeconds * 60
	}

	var reasons []string
	if blinkRate < d.cfg.MinBlinkRate {
		reasons = append(reasons, ReasonLowBlinkRate)
	} else if blinkRate > d.cfg.MaxBlinkRate {
		reasons = append(reasons, ReasonHighBlinkRate)
	}
	if stdEAR < d.cfg.MinEARStdDev {
		reasons = append(reasons, ReasonLowEARVariance)
	}
	if avgEAR < d.cfg.MinAvgEAR || avgEAR > d.cfg.MaxAvgEAR {
		reasons = append(reasons, ReasonAbnormalEAR)
	}

	return domain.Flagged(map[string]float64{
		"blink_count":           float64(counter.blinks),
		"blink_rate_per_minute": blinkRate,
		"avg_ear":               avgEAR,
		"std_ear":               stdEAR,
		"processed_frames":      float64(processed),
	}, reasons), nil
}

// blinkCounter is the debounced OPEN -> CLOSING -> OPEN state machine. A
// blink is emitted on the closing-to-open transition only after the eye
// stayed closed for at least consec consecutive samples.
type blinkCounter struct {
	threshold float64
	consec    int
	counter   int
	blinks    int
}

// Observe feeds one EAR sample and reports whether a blink was emitted.
func (c *blinkCounter) Observe(ear float64) bool {
	if ear < c.threshold {
		c.counter++
		return false
	}
	emitted := c.counter >= c.consec
	if emitted {
		c.blinks++
	}
	c.counter = 0
	return emitted
}

// rollingWindow keeps the most recent n values.
type rollingWindow struct {
	capacity int
	values   []float64
}

func newRollingWindow(capacity int) *rollingWindow {
	return &rollingWindow{capacity: capacity}
}

func (w *rollingWindow) Push(v float64) {
	w.values = append(w.values, v)
	if len(w.values) > w.capacity {
		w.values = w.values[1:]
	}
}

func (w *rollingWindow) Len() int          { return len(w.values) }
func (w *rollingWindow) Values() []float64 { return w.values }
