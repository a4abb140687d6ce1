package backtest

import (
	"errors"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// ErrEmptyEvaluationSet is returned when no prediction carries a defined
// ground truth, leaving accuracy undefined.
var ErrEmptyEvaluationSet = errors.New("no predictions with a defined target to evaluate")

// Accuracy computes the fraction of correct predictions over the rows
// whose actual target is defined. Season-ending games carry the sentinel
// and are excluded, never counted as wrong or imputed to a class.
func Accuracy(predictions []models.PredictionRow) (float64, error) {
	total := 0
	correct := 0
	for _, p := range predictions {
		if p.Actual == models.TargetNone {
			continue
		}
		total++
		if p.Predicted == p.Actual {
			correct++
		}
	}
	if total == 0 {
		return 0, ErrEmptyEvaluationSet
	}
	return float64(correct) / float64(total), nil
}

// MajorityBaseline returns the accuracy a constant majority-class
// predictor would score on the same filtered rows, the floor any useful
// model has to clear.
func MajorityBaseline(predictions []models.PredictionRow) (float64, error) {
	wins := 0
	total := 0
	for _, p := range predictions {
		if p.Actual == models.TargetNone {
			continue
		}
		total++
		if p.Actual == models.TargetWin {
			wins++
		}
	}
	if total == 0 {
		return 0, ErrEmptyEvaluationSet
	}
	majority := wins
	if total-wins > majority {
		majority = total - wins
	}
	return float64(majority) / float64(total), nil
}
