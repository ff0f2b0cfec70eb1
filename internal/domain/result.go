package domain

// Failure reason codes shared by the detectors.
const (
	ReasonCannotOpenVideo = "cannot_open_video"
	ReasonNoFacesDetected = "no_faces_detected"
	// ReasonNoFaceDetected is the headpose variant of the code above.
	// The two detectors historically report different strings.
	ReasonNoFaceDetected = "no_face_detected"
)

// DetectorResult is the outcome of running one detector over one video.
// It is created once per video per detector and never mutated afterwards.
//
// Invariants:
//   - Success == false implies Metrics is empty and Suspicious == false.
//   - Reasons is non-empty iff Suspicious == true.
type DetectorResult struct {
	Success    bool               `json:"success"`
	Reason     string             `json:"reason,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Suspicious bool               `json:"suspicious"`
	Reasons    []string           `json:"reasons,omitempty"`
}

// Failure builds a failed result for the given reason code.
func Failure(reason string) DetectorResult {
	return DetectorResult{Success: false, Reason: reason}
}

// Flagged builds a successful result. The suspicious flag is derived from
// the reasons so the Reasons/Suspicious invariant holds by construction.
func Flagged(metrics map[string]float64, reasons []string) DetectorResult {
	return DetectorResult{
		Success:    true,
		Metrics:    metrics,
		Suspicious: len(reasons) > 0,
		Reasons:    reasons,
	}
}
