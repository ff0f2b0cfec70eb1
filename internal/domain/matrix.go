package domain

// ConfusionMatrix counts predicted vs. ground-truth labels, with FAKE as
// the positive class. Verdicts without a prediction contribute to no cell.
type ConfusionMatrix struct {
	TP int `json:"TP"`
	TN int `json:"TN"`
	FP int `json:"FP"`
	FN int `json:"FN"`
}

// Add records one labeled prediction.
func (m *ConfusionMatrix) Add(groundTruth, prediction Prediction) {
	switch {
	case prediction == PredictionNone:
	case groundTruth == PredictionFake && prediction == PredictionFake:
		m.TP++
	case groundTruth == PredictionReal && prediction == PredictionReal:
		m.TN++
	case groundTruth == PredictionReal && prediction == PredictionFake:
		m.FP++
	case groundTruth == PredictionFake && prediction == PredictionReal:
		m.FN++
	}
}

// Total is the number of verdicts counted in any cell.
func (m ConfusionMatrix) Total() int {
	return m.TP + m.TN + m.FP + m.FN
}
