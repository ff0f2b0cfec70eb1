// Package detector implements the per-video behavioral detectors: blink
// dynamics, head-pose motion, texture authenticity and emotion diversity.
// Each detector consumes frames from a video.Opener and measurements from
// an external model provider, and reduces a whole video to one
// domain.DetectorResult.
package detector

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
	"github.com/saturnino-fabrica-de-software/veriface/internal/video"
)

// Analyzer is one detector family's per-video entry point. Structured
// failures (unopenable video, no faces) come back as a failed
// DetectorResult with a nil error; a non-nil error means the external
// model call itself failed and the video could not be assessed.
type Analyzer interface {
	Family() domain.Family
	Analyze(ctx context.Context, videoPath string) (domain.DetectorResult, error)
}

// New builds the analyzer for a family with default thresholds, wired to
// the given model and video opener.
func New(family domain.Family, model provider.FaceModel, open video.Opener, logger *slog.Logger) (Analyzer, error) {
	switch family {
	case domain.FamilyBlink:
		return NewBlinkDetector(DefaultBlinkConfig(), model, open, logger), nil
	case domain.FamilyHeadpose:
		return NewHeadposeDetector(DefaultHeadposeConfig(), model, open, logger), nil
	case domain.FamilyTexture:
		return NewTextureDetector(DefaultTextureConfig(), model, open, logger), nil
	case domain.FamilyEmotion:
		return NewEmotionDetector(DefaultEmotionConfig(), model, open, logger), nil
	}
	return nil, fmt.Errorf("unknown detector family %q", family)
}

func distance(a, b provider.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// eyeAspectRatio computes (‖p2−p6‖+‖p3−p5‖) / (2·‖p1−p4‖) over a six-point
// eye contour.
func eyeAspectRatio(pts []provider.Point, contour [6]int) float64 {
	a := distance(pts[contour[1]], pts[contour[5]])
	b := distance(pts[contour[2]], pts[contour[4]])
	c := distance(pts[contour[0]], pts[contour[3]])
	if c == 0 {
		return 0
	}
	return (a + b) / (2 * c)
}
