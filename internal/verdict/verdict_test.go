package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name           string
		family         domain.Family
		result         domain.DetectorResult
		wantPrediction domain.Prediction
		wantConfidence float64
	}{
		{
			name:           "blink suspicious",
			family:         domain.FamilyBlink,
			result:         domain.Flagged(nil, []string{"low_blink_rate"}),
			wantPrediction: domain.PredictionFake,
			wantConfidence: 0.8,
		},
		{
			name:           "blink clean",
			family:         domain.FamilyBlink,
			result:         domain.Flagged(nil, nil),
			wantPrediction: domain.PredictionReal,
			wantConfidence: 0.9,
		},
		{
			name:           "headpose suspicious",
			family:         domain.FamilyHeadpose,
			result:         domain.Flagged(nil, []string{"too_smooth_motion"}),
			wantPrediction: domain.PredictionFake,
			wantConfidence: 0.8,
		},
		{
			name:           "headpose clean",
			family:         domain.FamilyHeadpose,
			result:         domain.Flagged(nil, nil),
			wantPrediction: domain.PredictionReal,
			wantConfidence: 0.9,
		},
		{
			name:           "emotion suspicious",
			family:         domain.FamilyEmotion,
			result:         domain.Flagged(nil, []string{"low_emotion_diversity"}),
			wantPrediction: domain.PredictionFake,
			wantConfidence: 0.85,
		},
		{
			name:           "emotion clean",
			family:         domain.FamilyEmotion,
			result:         domain.Flagged(nil, nil),
			wantPrediction: domain.PredictionReal,
			wantConfidence: 0.80,
		},
		{
			name:           "texture below threshold is fake with score as confidence",
			family:         domain.FamilyTexture,
			result:         domain.Flagged(map[string]float64{"avg_score": 0.6}, nil),
			wantPrediction: domain.PredictionFake,
			wantConfidence: 0.6,
		},
		{
			name:           "texture at threshold is real",
			family:         domain.FamilyTexture,
			result:         domain.Flagged(map[string]float64{"avg_score": 0.8}, nil),
			wantPrediction: domain.PredictionReal,
			wantConfidence: 0.2,
		},
		{
			name:           "texture high score is real with inverted confidence",
			family:         domain.FamilyTexture,
			result:         domain.Flagged(map[string]float64{"avg_score": 0.95}, nil),
			wantPrediction: domain.PredictionReal,
			wantConfidence: 0.05,
		},
		{
			name:           "failed result yields no prediction",
			family:         domain.FamilyBlink,
			result:         domain.Failure(domain.ReasonCannotOpenVideo),
			wantPrediction: domain.PredictionNone,
			wantConfidence: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, conf, err := Decide(tt.family, tt.result)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrediction, pred)
			assert.InDelta(t, tt.wantConfidence, conf, 1e-9)
		})
	}
}

func TestDecide_UnknownFamily(t *testing.T) {
	_, _, err := Decide(domain.Family("gait"), domain.Flagged(nil, nil))
	require.Error(t, err)
}

func TestDecide_FailureIgnoresFamilyRule(t *testing.T) {
	for _, f := range domain.Families() {
		pred, conf, err := Decide(f, domain.Failure(domain.ReasonNoFacesDetected))
		require.NoError(t, err)
		assert.Equal(t, domain.PredictionNone, pred)
		assert.Zero(t, conf)
	}
}
