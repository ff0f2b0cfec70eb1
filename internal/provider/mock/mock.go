// Package mock provides a deterministic, offline implementation of the
// face-analysis provider contracts for tests and development runs. All
// outputs are derived from a hash of the frame bytes, so the same frame
// always yields the same measurements.
package mock

import (
	"context"
	"crypto/sha256"

	"github.com/saturnino-fabrica-de-software/veriface/internal/provider"
)

// Provider implements every provider contract deterministically.
type Provider struct{}

// New creates a mock provider instance.
func New() *Provider {
	return &Provider{}
}

// frameSeed folds the frame hash into a few floats in [0,1).
func frameSeed(frame []byte) [4]float64 {
	hash := sha256.Sum256(frame)
	var seed [4]float64
	for i := range seed {
		seed[i] = float64(hash[i*2])/256.0 + float64(hash[i*2+1])/65536.0
	}
	return seed
}

// Landmarks synthesizes a full face-mesh whose eye contours encode a
// plausible eye-aspect ratio and whose nose tip wobbles around the frame
// center. An empty frame means no face.
func (p *Provider) Landmarks(ctx context.Context, frameJPEG []byte) ([]provider.Point, error) {
	if len(frameJPEG) == 0 {
		return nil, nil
	}

	seed := frameSeed(frameJPEG)
	ear := 0.20 + seed[0]*0.15 // 0.20..0.35, around the blink threshold
	noseX := 0.5 + (seed[1]-0.5)*0.05
	noseY := 0.5 + (seed[2]-0.5)*0.05

	pts := make([]provider.Point, provider.MinLandmarks)
	for i := range pts {
		pts[i] = provider.Point{X: 0.5, Y: 0.5}
	}
	pts[provider.NoseTip] = provider.Point{X: noseX, Y: noseY}

	placeEye(pts, provider.LeftEyeContour, 0.35, 0.4, ear)
	placeEye(pts, provider.RightEyeContour, 0.65, 0.4, ear)

	return pts, nil
}

// placeEye writes a six-point contour around (cx, cy) with horizontal
// width w such that the eye-aspect ratio equals ear.
func placeEye(pts []provider.Point, contour [6]int, cx, cy, ear float64) {
	const w = 0.1
	v := ear * w // (v+v)/(2w) == ear

	pts[contour[0]] = provider.Point{X: cx - w/2, Y: cy}       // p1
	pts[contour[3]] = provider.Point{X: cx + w/2, Y: cy}       // p4
	pts[contour[1]] = provider.Point{X: cx - w/4, Y: cy - v/2} // p2
	pts[contour[5]] = provider.Point{X: cx - w/4, Y: cy + v/2} // p6
	pts[contour[2]] = provider.Point{X: cx + w/4, Y: cy - v/2} // p3
	pts[contour[4]] = provider.Point{X: cx + w/4, Y: cy + v/2} // p5
}

// Scores returns a single hash-derived authenticity score in [0,1].
func (p *Provider) Scores(ctx context.Context, frameJPEG []byte) ([]float64, error) {
	if len(frameJPEG) == 0 {
		return nil, nil
	}
	seed := frameSeed(frameJPEG)
	return []float64{seed[3]}, nil
}

var emotionLabels = []string{"neutral", "happy", "sad", "angry", "surprise"}

// Emotion returns a hash-derived expression reading.
func (p *Provider) Emotion(ctx context.Context, frameJPEG []byte) (*provider.EmotionReading, error) {
	if len(frameJPEG) == 0 {
		return nil, nil
	}
	seed := frameSeed(frameJPEG)
	label := emotionLabels[int(seed[0]*float64(len(emotionLabels)))%len(emotionLabels)]
	return &provider.EmotionReading{
		Label:      label,
		Confidence: 40 + seed[1]*60, // 40..100 percent
	}, nil
}

var (
	_ provider.LandmarkProvider  = (*Provider)(nil)
	_ provider.TextureScorer     = (*Provider)(nil)
	_ provider.EmotionClassifier = (*Provider)(nil)
)
