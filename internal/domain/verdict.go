package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Prediction is the binary authenticity call for a video. The zero value
// means no prediction could be made (detector absent or failed).
type Prediction string

const (
	PredictionFake Prediction = "FAKE"
	PredictionReal Prediction = "REAL"
	PredictionNone Prediction = ""
)

var jsonNull = []byte("null")

// MarshalJSON serializes the none prediction as JSON null, matching the
// persisted report format.
func (p Prediction) MarshalJSON() ([]byte, error) {
	if p == PredictionNone {
		return jsonNull, nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts "FAKE", "REAL" and null.
func (p *Prediction) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*p = PredictionNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Prediction(s) {
	case PredictionFake, PredictionReal, PredictionNone:
		*p = Prediction(s)
		return nil
	}
	return fmt.Errorf("invalid prediction %q", s)
}

// Verdict is the per-video output of a decision wrapper: the raw detector
// result plus the binary prediction derived from it. Detector is nil when
// the analysis failed before producing a structured result.
type Verdict struct {
	VideoPath  string          `json:"video_path"`
	Detector   *DetectorResult `json:"detector"`
	Prediction Prediction      `json:"prediction"`
	Confidence float64         `json:"confidence"`
	Error      string          `json:"error,omitempty"`
}

// LabeledVerdict is a Verdict paired with the dataset ground truth.
type LabeledVerdict struct {
	Verdict
	GroundTruth Prediction `json:"ground_truth"`
}

// Correct reports whether the prediction matches the ground truth. A none
// prediction is never correct.
func (v LabeledVerdict) Correct() bool {
	return v.Prediction != PredictionNone && v.Prediction == v.GroundTruth
}
