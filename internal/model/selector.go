package model

import (
	"context"
	"fmt"
)

// SequentialSelector picks a fixed-size feature subset by greedy forward
// selection: starting empty, it repeatedly adds the single candidate
// column that most improves cross-validated accuracy. Cross-validation
// respects temporal order: the data is cut into contiguous blocks, each
// fold trains on a prefix and validates on the next block, and nothing is
// ever shuffled.
type SequentialSelector struct {
	NFeatures int
	Splits    int
	New       Factory
}

// NewSequentialSelector builds a selector with the given subset size and
// fold count.
func NewSequentialSelector(nFeatures, splits int, factory Factory) (*SequentialSelector, error) {
	if nFeatures <= 0 {
		return nil, fmt.Errorf("selector: feature count must be positive")
	}
	if splits <= 0 {
		return nil, fmt.Errorf("selector: split count must be positive")
	}
	if factory == nil {
		return nil, fmt.Errorf("selector: classifier factory is required")
	}
	return &SequentialSelector{NFeatures: nFeatures, Splits: splits, New: factory}, nil
}

type fold struct {
	trainEnd int
	valEnd   int
}

// timeSeriesFolds cuts n time-ordered rows into Splits expanding-window
// folds: the validation blocks are the last Splits equal-size blocks, and
// each fold trains on everything before its block.
func timeSeriesFolds(n, splits int) ([]fold, error) {
	size := n / (splits + 1)
	if size == 0 {
		return nil, fmt.Errorf("selector: %d rows cannot support %d temporal folds", n, splits)
	}
	folds := make([]fold, splits)
	for i := 0; i < splits; i++ {
		valStart := n - (splits-i)*size
		folds[i] = fold{trainEnd: valStart, valEnd: valStart + size}
	}
	return folds, nil
}

// Select runs forward selection over the candidate columns of X (already
// rescaled, time-ordered, sentinel-free) and returns the chosen column
// indices in selection order. Ties break toward the earlier candidate so
// the result is deterministic.
func (s *SequentialSelector) Select(ctx context.Context, X [][]float64, y []int) ([]int, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("selector: empty selection set")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("selector: %d rows but %d targets", len(X), len(y))
	}
	candidates := len(X[0])
	if s.NFeatures > candidates {
		return nil, fmt.Errorf("selector: requested %d features from %d candidates", s.NFeatures, candidates)
	}

	folds, err := timeSeriesFolds(len(X), s.Splits)
	if err != nil {
		return nil, err
	}

	selected := make([]int, 0, s.NFeatures)
	inUse := make([]bool, candidates)

	for len(selected) < s.NFeatures {
		bestCol := -1
		bestScore := -1.0
		for col := 0; col < candidates; col++ {
			if inUse[col] {
				continue
			}
			score, err := s.crossValidate(ctx, X, y, folds, append(selected, col))
			if err != nil {
				return nil, err
			}
			if score > bestScore {
				bestScore = score
				bestCol = col
			}
		}
		if bestCol < 0 {
			return nil, fmt.Errorf("selector: no candidate improved the score")
		}
		selected = append(selected, bestCol)
		inUse[bestCol] = true
	}
	return selected, nil
}

// crossValidate returns mean validation accuracy over the temporal folds
// for the given column subset.
func (s *SequentialSelector) crossValidate(ctx context.Context, X [][]float64, y []int, folds []fold, cols []int) (float64, error) {
	total := 0.0
	for _, f := range folds {
		trainX := project(X[:f.trainEnd], cols)
		valX := project(X[f.trainEnd:f.valEnd], cols)

		clf := s.New()
		if err := clf.Fit(ctx, trainX, y[:f.trainEnd]); err != nil {
			return 0, err
		}
		preds, err := clf.Predict(ctx, valX)
		if err != nil {
			return 0, err
		}

		correct := 0
		for i, p := range preds {
			if p == y[f.trainEnd+i] {
				correct++
			}
		}
		total += float64(correct) / float64(len(preds))
	}
	return total / float64(len(folds)), nil
}

// project extracts the given columns from each row of X.
func project(X [][]float64, cols []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		sub := make([]float64, len(cols))
		for j, c := range cols {
			sub[j] = row[c]
		}
		out[i] = sub
	}
	return out
}
