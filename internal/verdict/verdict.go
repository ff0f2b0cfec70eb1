// Package verdict turns raw detector results into binary predictions.
// Each detector family carries its own decision rule and confidence
// constants. The rules are deliberately not unified: the constants were
// tuned per family and collapsing them would change behavior.
package verdict

import (
	"fmt"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

// Per-family confidence constants.
const (
	blinkFakeConfidence    = 0.8
	blinkRealConfidence    = 0.9
	headposeFakeConfidence = 0.8
	headposeRealConfidence = 0.9
	emotionFakeConfidence  = 0.85
	emotionRealConfidence  = 0.80

	// A texture average below this marks the video as fake.
	textureFakeThreshold = 0.8
)

// Decide maps a detector result to a prediction and confidence for the
// given family. A failed result always yields no prediction with zero
// confidence. Unknown families are a programming error.
func Decide(family domain.Family, result domain.DetectorResult) (domain.Prediction, float64, error) {
	if !result.Success {
		return domain.PredictionNone, 0, nil
	}

	switch family {
	case domain.FamilyBlink:
		if result.Suspicious {
			return domain.PredictionFake, blinkFakeConfidence, nil
		}
		return domain.PredictionReal, blinkRealConfidence, nil

	case domain.FamilyHeadpose:
		if result.Suspicious {
			return domain.PredictionFake, headposeFakeConfidence, nil
		}
		return domain.PredictionReal, headposeRealConfidence, nil

	case domain.FamilyEmotion:
		if result.Suspicious {
			return domain.PredictionFake, emotionFakeConfidence, nil
		}
		return domain.PredictionReal, emotionRealConfidence, nil

	case domain.FamilyTexture:
		// Higher texture score means more authentic. If the upstream
		// classifier ever inverts its convention this rule flips with it.
		avg := result.Metrics["avg_score"]
		if avg < textureFakeThreshold {
			return domain.PredictionFake, avg, nil
		}
		return domain.PredictionReal, 1 - avg, nil
	}

	return domain.PredictionNone, 0, fmt.Errorf("unknown detector family %q", family)
}
