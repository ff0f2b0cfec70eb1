package evaluate

import (
	"github.com/saturnino-fabrica-de-software/veriface/internal/domain"
)

// Summary is the dataset-level outcome of one family's run. Percentages
// are in [0,100]; any metric with a zero denominator reports 0.
type Summary struct {
	Accuracy        float64                `json:"accuracy"`
	Precision       float64                `json:"precision"`
	Recall          float64                `json:"recall"`
	F1Score         float64                `json:"f1_score"`
	ConfusionMatrix domain.ConfusionMatrix `json:"confusion_matrix"`
	TotalVideos     int                    `json:"total_videos"`
}

// Summarize reduces a completed run to its confusion matrix and derived
// metrics. Verdicts without a prediction stay in the results list but
// contribute to no matrix cell.
func Summarize(verdicts []domain.LabeledVerdict) Summary {
	var matrix domain.ConfusionMatrix
	correct := 0
	for _, v := range verdicts {
		matrix.Add(v.GroundTruth, v.Prediction)
		if v.Correct() {
			correct++
		}
	}

	precision := percent(matrix.TP, matrix.TP+matrix.FP)
	recall := percent(matrix.TP, matrix.TP+matrix.FN)

	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return Summary{
		Accuracy:        percent(correct, matrix.Total()),
		Precision:       precision,
		Recall:          recall,
		F1Score:         f1,
		ConfusionMatrix: matrix,
		TotalVideos:     len(verdicts),
	}
}

func percent(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
