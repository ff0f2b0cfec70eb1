// Package provider defines the contracts for the external face-analysis
// models the detectors consume. Every provider works on a single JPEG
// frame and commits to at most one face.
package provider

import "context"

// Point is a normalized 2-D landmark coordinate in [0,1]^2.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EmotionReading is one per-face emotion classification.
type EmotionReading struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"` // percent, 0-100
}

// LandmarkProvider localizes face-mesh landmarks on a frame.
// An empty slice with a nil error means no face was found.
type LandmarkProvider interface {
	Landmarks(ctx context.Context, frameJPEG []byte) ([]Point, error)
}

// TextureScorer returns one authenticity score in [0,1] per detected face
// crop; higher means more authentic. The face detection, crop, resize to a
// fixed square resolution and [0,1] pixel normalization happen on the
// scoring side of this contract. An empty slice means no face was found.
type TextureScorer interface {
	Scores(ctx context.Context, frameJPEG []byte) ([]float64, error)
}

// EmotionClassifier classifies the dominant facial expression on a frame.
// A nil reading with a nil error means no face was found.
type EmotionClassifier interface {
	Emotion(ctx context.Context, frameJPEG []byte) (*EmotionReading, error)
}

// FaceModel bundles the three model contracts a full provider offers.
type FaceModel interface {
	LandmarkProvider
	TextureScorer
	EmotionClassifier
}

// Face-mesh landmark indices the detectors depend on. These are fixed by
// the landmark contract (MediaPipe face-mesh topology).
const (
	// NoseTip is the nose tip landmark.
	NoseTip = 1
	// LeftEyeOuter and RightEyeOuter are the outer eye corners used for roll.
	LeftEyeOuter  = 33
	RightEyeOuter = 263
)

// LeftEyeContour and RightEyeContour are the six-point eye contours used
// for the eye-aspect ratio, ordered p1..p6.
var (
	LeftEyeContour  = [6]int{33, 160, 158, 133, 153, 144}
	RightEyeContour = [6]int{263, 387, 385, 362, 380, 373}
)

// MinLandmarks is the smallest landmark sequence the detectors accept; it
// must cover every index referenced above.
const MinLandmarks = 388
