package model

import "fmt"

// MinMaxScaler rescales each column to [0, 1] using the minimum and
// maximum observed at fit time. Fit statistics are immutable after
// fitting; the backtester receives the fitted scaler by reference and
// never refits it with future-season data.
type MinMaxScaler struct {
	min []float64
	max []float64
}

// Fit records per-column minima and maxima over X.
func (s *MinMaxScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("scaler: empty fit set")
	}
	cols := len(X[0])
	s.min = make([]float64, cols)
	s.max = make([]float64, cols)
	copy(s.min, X[0])
	copy(s.max, X[0])

	for _, row := range X[1:] {
		if len(row) != cols {
			return fmt.Errorf("scaler: ragged fit matrix")
		}
		for j, v := range row {
			if v < s.min[j] {
				s.min[j] = v
			}
			if v > s.max[j] {
				s.max[j] = v
			}
		}
	}
	return nil
}

// Transform returns a new matrix with every column rescaled by the fitted
// statistics. A constant column maps to 0. Values outside the fitted range
// extrapolate past [0, 1] rather than clamping, matching min-max scaling
// semantics.
func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.min == nil {
		return nil, fmt.Errorf("scaler: not fitted")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.min) {
			return nil, fmt.Errorf("scaler: row %d has %d columns, fitted on %d", i, len(row), len(s.min))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			span := s.max[j] - s.min[j]
			if span == 0 {
				scaled[j] = 0
				continue
			}
			scaled[j] = (v - s.min[j]) / span
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits on X and returns the rescaled matrix.
func (s *MinMaxScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
