package model

import (
	"context"
	"fmt"
)

// RidgeClassifier is a least-squares linear classifier with an L2 penalty:
// binary targets are mapped to -1/+1, the regularized normal equations are
// solved in closed form, and prediction thresholds the decision value at
// zero. The intercept is not penalized.
type RidgeClassifier struct {
	Alpha float64

	weights []float64 // len = features + 1, intercept last
}

// NewRidgeClassifier returns a ridge classifier with the given penalty.
func NewRidgeClassifier(alpha float64) *RidgeClassifier {
	if alpha <= 0 {
		alpha = 1.0
	}
	return &RidgeClassifier{Alpha: alpha}
}

// Fit solves (Z'Z + aI)w = Z'b where Z is X with a bias column appended
// and b holds the -1/+1 targets.
func (r *RidgeClassifier) Fit(_ context.Context, X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("ridge: empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("ridge: %d rows but %d targets", len(X), len(y))
	}
	features := len(X[0])
	dim := features + 1

	// Normal equations: A = Z'Z + alpha*I (bias unpenalized), v = Z'b.
	A := make([][]float64, dim)
	for i := range A {
		A[i] = make([]float64, dim)
	}
	v := make([]float64, dim)

	for n, row := range X {
		if len(row) != features {
			return fmt.Errorf("ridge: ragged row %d", n)
		}
		b := -1.0
		if y[n] == 1 {
			b = 1.0
		}
		for i := 0; i < dim; i++ {
			zi := 1.0
			if i < features {
				zi = row[i]
			}
			v[i] += zi * b
			for j := i; j < dim; j++ {
				zj := 1.0
				if j < features {
					zj = row[j]
				}
				A[i][j] += zi * zj
			}
		}
	}
	for i := 0; i < dim; i++ {
		for j := 0; j < i; j++ {
			A[i][j] = A[j][i]
		}
	}
	for i := 0; i < features; i++ {
		A[i][i] += r.Alpha
	}

	w, err := solve(A, v)
	if err != nil {
		return fmt.Errorf("ridge: %w", err)
	}
	r.weights = w
	return nil
}

// Predict returns the class for each row: 1 when the decision value is
// positive, 0 otherwise.
func (r *RidgeClassifier) Predict(_ context.Context, X [][]float64) ([]int, error) {
	if r.weights == nil {
		return nil, fmt.Errorf("ridge: model is not fitted")
	}
	features := len(r.weights) - 1
	out := make([]int, len(X))
	for n, row := range X {
		if len(row) != features {
			return nil, fmt.Errorf("ridge: row %d has %d features, model expects %d", n, len(row), features)
		}
		score := r.weights[features] // intercept
		for i, v := range row {
			score += r.weights[i] * v
		}
		if score > 0 {
			out[n] = 1
		}
	}
	return out, nil
}

// DecisionValues exposes the raw linear scores, mainly for diagnostics.
func (r *RidgeClassifier) DecisionValues(X [][]float64) ([]float64, error) {
	if r.weights == nil {
		return nil, fmt.Errorf("ridge: model is not fitted")
	}
	features := len(r.weights) - 1
	out := make([]float64, len(X))
	for n, row := range X {
		score := r.weights[features]
		for i := 0; i < features && i < len(row); i++ {
			score += r.weights[i] * row[i]
		}
		out[n] = score
	}
	return out, nil
}

// solve performs Gaussian elimination with partial pivoting on a copy of
// the inputs. The systems here are small (selected features + 1), so no
// external linear algebra dependency is warranted.
func solve(A [][]float64, b []float64) ([]float64, error) {
	n := len(A)
	m := make([][]float64, n)
	for i := range m {
		m[i] = append(append([]float64{}, A[i]...), b[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if abs(m[row][col]) > abs(m[pivot][col]) {
				pivot = row
			}
		}
		if abs(m[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular system at column %d", col)
		}
		m[col], m[pivot] = m[pivot], m[col]

		for row := col + 1; row < n; row++ {
			factor := m[row][col] / m[col][col]
			if factor == 0 {
				continue
			}
			for k := col; k <= n; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := m[row][n]
		for k := row + 1; k < n; k++ {
			sum -= m[row][k] * x[k]
		}
		x[row] = sum / m[row][row]
	}
	return x, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
