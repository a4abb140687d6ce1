// Package backtest implements the expanding-window evaluation protocol:
// train on all seasons strictly before season S, predict season S, for
// increasing S. No model ever sees a future season's rows, directly or
// through jointly fitted statistics.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/model"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// Sample is one matchup row ready for modeling: the already-scaled,
// already-selected predictor vector plus the identity needed to report
// the prediction.
type Sample struct {
	Season   int
	Team     string
	GameDate time.Time
	Features []float64
	Target   int
}

// Engine runs the walk-forward loop with a pluggable classifier.
type Engine struct {
	config  Config
	factory model.Factory
	logger  *logrus.Logger
}

// NewEngine creates a walk-forward engine.
func NewEngine(cfg Config, factory model.Factory, logger *logrus.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("classifier factory is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{config: cfg, factory: factory, logger: logger}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Run walks the seasons in ascending order. For each tested season it
// fits a fresh classifier on every earlier-season sample with a defined
// target, predicts the tested season, and emits one PredictionRow per
// test sample. Output order follows season order, then the input order of
// samples within a season.
func (e *Engine) Run(ctx context.Context, samples []Sample) ([]models.PredictionRow, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to backtest")
	}
	seasons := distinctSeasons(samples)
	if e.config.Start >= len(seasons) {
		return nil, fmt.Errorf("backtest start %d is beyond the %d available seasons", e.config.Start, len(seasons))
	}

	predictions := []models.PredictionRow{}
	for i := e.config.Start; i < len(seasons); i += e.config.Step {
		season := seasons[i]

		trainX := [][]float64{}
		trainY := []int{}
		test := []Sample{}
		for _, s := range samples {
			switch {
			case s.Season < season:
				// Sentinel targets never enter training.
				if s.Target != models.TargetNone {
					trainX = append(trainX, s.Features)
					trainY = append(trainY, s.Target)
				}
			case s.Season == season:
				test = append(test, s)
			}
		}
		if len(trainX) == 0 || len(test) == 0 {
			e.logger.WithFields(logrus.Fields{
				"season": season,
				"train":  len(trainX),
				"test":   len(test),
			}).Warn("Skipping season with empty train or test set")
			continue
		}

		clf := e.factory()
		if err := clf.Fit(ctx, trainX, trainY); err != nil {
			return nil, fmt.Errorf("failed to fit season %d: %w", season, err)
		}
		testX := make([][]float64, len(test))
		for j, s := range test {
			testX[j] = s.Features
		}
		preds, err := clf.Predict(ctx, testX)
		if err != nil {
			return nil, fmt.Errorf("failed to predict season %d: %w", season, err)
		}

		for j, s := range test {
			predictions = append(predictions, models.PredictionRow{
				Season:    s.Season,
				Team:      s.Team,
				GameDate:  s.GameDate,
				Actual:    s.Target,
				Predicted: preds[j],
			})
		}
		e.logger.WithFields(logrus.Fields{
			"season": season,
			"train":  len(trainX),
			"test":   len(test),
		}).Info("Backtested season")
	}
	return predictions, nil
}

func distinctSeasons(samples []Sample) []int {
	seen := map[int]struct{}{}
	for _, s := range samples {
		seen[s.Season] = struct{}{}
	}
	seasons := make([]int, 0, len(seen))
	for s := range seen {
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)
	return seasons
}
