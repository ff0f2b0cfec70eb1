package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

func labeled(gt, pred domain.Prediction) domain.LabeledVerdict {
	return domain.LabeledVerdict{
		Verdict:     domain.Verdict{Prediction: pred},
		GroundTruth: gt,
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Accuracy)
	assert.Zero(t, s.Precision)
	assert.Zero(t, s.Recall)
	assert.Zero(t, s.F1Score)
	assert.Zero(t, s.TotalVideos)
}

func TestSummarize_ZeroDenominators(t *testing.T) {
	// An all-REAL batch where nothing is predicted FAKE: precision has a
	// zero denominator and reports 0 rather than erroring.
	verdicts := []domain.LabeledVerdict{
		labeled(domain.PredictionReal, domain.PredictionReal),
		labeled(domain.PredictionReal, domain.PredictionReal),
	}
	s := Summarize(verdicts)
	assert.Zero(t, s.Precision)
	assert.Zero(t, s.Recall)
	assert.Zero(t, s.F1Score)
	assert.InDelta(t, 100, s.Accuracy, 1e-9)
}

func TestSummarize_NonePredictionsExcludedFromMatrix(t *testing.T) {
	verdicts := []domain.LabeledVerdict{
		labeled(domain.PredictionFake, domain.PredictionFake),
		labeled(domain.PredictionFake, domain.PredictionNone),
		labeled(domain.PredictionReal, domain.PredictionReal),
	}
	s := Summarize(verdicts)
	assert.Equal(t, 3, s.TotalVideos)
	assert.Equal(t, 2, s.ConfusionMatrix.Total())
	assert.Less(t, s.ConfusionMatrix.Total(), s.TotalVideos)
	assert.InDelta(t, 100, s.Accuracy, 1e-9)
}

func TestSummarize_MixedBatch(t *testing.T) {
	verdicts := []domain.LabeledVerdict{
		labeled(domain.PredictionFake, domain.PredictionFake), // TP
		labeled(domain.PredictionFake, domain.PredictionReal), // FN
		labeled(domain.PredictionReal, domain.PredictionReal), // TN
		labeled(domain.PredictionReal, domain.PredictionFake), // FP
	}
	s := Summarize(verdicts)
	assert.Equal(t, domain.ConfusionMatrix{TP: 1, TN: 1, FP: 1, FN: 1}, s.ConfusionMatrix)
	assert.InDelta(t, 50, s.Accuracy, 1e-9)
	assert.InDelta(t, 50, s.Precision, 1e-9)
	assert.InDelta(t, 50, s.Recall, 1e-9)
	assert.InDelta(t, 50, s.F1Score, 1e-9)
}

func TestSummarize_BoundedPercentages(t *testing.T) {
	verdicts := []domain.LabeledVerdict{
		labeled(domain.PredictionFake, domain.PredictionFake),
		labeled(domain.PredictionReal, domain.PredictionFake),
		labeled(domain.PredictionFake, domain.PredictionNone),
	}
	s := Summarize(verdicts)
	for name, v := range map[string]float64{
		"accuracy": s.Accuracy, "precision": s.Precision,
		"recall": s.Recall, "f1": s.F1Score,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 100.0, name)
	}
}
