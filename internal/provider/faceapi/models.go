package faceapi

import "github.com/saturnino-fabrica-de-software/veriface/internal/provider"

// LandmarksRequest is the payload for POST /landmarks.
type LandmarksRequest struct {
	Img      string `json:"img"` // base64-encoded JPEG
	Detector string `json:"detector"`
	MaxFaces int    `json:"max_faces"`
}

// LandmarksResponse carries zero or more detected faces; the pipeline only
// ever uses the first one.
type LandmarksResponse struct {
	Faces []LandmarkFace `json:"faces"`
}

// LandmarkFace is the normalized face-mesh for one detected face.
type LandmarkFace struct {
	Landmarks []provider.Point `json:"landmarks"`
}

// TextureRequest is the payload for POST /texture/score. Size and Normalize
// tell the service how to preprocess each face crop before classification.
type TextureRequest struct {
	Img       string `json:"img"`
	Size      int    `json:"size"`      // square crop resolution, e.g. 256
	Normalize bool   `json:"normalize"` // scale pixels to [0,1]
}

// TextureResponse carries one authenticity score per detected face.
type TextureResponse struct {
	Scores []float64 `json:"scores"`
}

// EmotionRequest is the payload for POST /emotion.
type EmotionRequest struct {
	Img      string `json:"img"`
	Detector string `json:"detector"`
}

// EmotionResponse carries per-face emotion classifications.
type EmotionResponse struct {
	Faces []EmotionFace `json:"faces"`
}

// EmotionFace is the dominant emotion for one detected face.
type EmotionFace struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"` // percent, 0-100
}
