package backtest

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// BootstrapConfig configures the resampled accuracy estimate.
type BootstrapConfig struct {
	Iterations      int
	ConfidenceLevel float64
	Seed            int64
}

// BootstrapResult summarizes the bootstrap distribution of accuracy over
// the filtered prediction table.
type BootstrapResult struct {
	Iterations   int     `json:"iterations"`
	MeanAccuracy float64 `json:"mean_accuracy"`
	StdAccuracy  float64 `json:"std_accuracy"`
	Lower        float64 `json:"lower"`
	Upper        float64 `json:"upper"`
}

// RunBootstrap resamples the defined-target predictions with replacement
// and reports the accuracy distribution, giving a confidence interval
// around the point accuracy from Accuracy.
func RunBootstrap(ctx context.Context, predictions []models.PredictionRow, cfg BootstrapConfig) (BootstrapResult, error) {
	_ = ctx
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.ConfidenceLevel <= 0 || cfg.ConfidenceLevel >= 1 {
		cfg.ConfidenceLevel = 0.95
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	scored := make([]bool, 0, len(predictions))
	for _, p := range predictions {
		if p.Actual == models.TargetNone {
			continue
		}
		scored = append(scored, p.Predicted == p.Actual)
	}
	if len(scored) == 0 {
		return BootstrapResult{}, ErrEmptyEvaluationSet
	}

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)
	for i := 0; i < cfg.Iterations; i++ {
		correct := 0
		for range scored {
			if scored[rng.Intn(len(scored))] {
				correct++
			}
		}
		distribution[i] = float64(correct) / float64(len(scored))
	}

	mean, std := meanStd(distribution)
	tail := (1 - cfg.ConfidenceLevel) / 2
	return BootstrapResult{
		Iterations:   cfg.Iterations,
		MeanAccuracy: mean,
		StdAccuracy:  std,
		Lower:        percentile(distribution, tail),
		Upper:        percentile(distribution, 1-tail),
	}, nil
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	index := int(math.Floor(p * float64(len(sorted))))
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
