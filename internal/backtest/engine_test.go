package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/model"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// spyClassifier records the training targets it saw and predicts a
// constant class.
type spyClassifier struct {
	answer  int
	trainY  []int
	fitRows [][]float64
}

func (s *spyClassifier) Fit(_ context.Context, X [][]float64, y []int) error {
	s.fitRows = X
	s.trainY = append([]int{}, y...)
	return nil
}

func (s *spyClassifier) Predict(_ context.Context, X [][]float64) ([]int, error) {
	out := make([]int, len(X))
	for i := range out {
		out[i] = s.answer
	}
	return out, nil
}

// seasonSamples builds games rows per season; the feature encodes the
// season so training leakage is detectable.
func seasonSamples(seasons []int, perSeason int) []Sample {
	var samples []Sample
	for _, season := range seasons {
		for g := 0; g < perSeason; g++ {
			target := models.TargetWin
			if g == perSeason-1 {
				target = models.TargetNone
			} else if g%2 == 0 {
				target = models.TargetLoss
			}
			samples = append(samples, Sample{
				Season:   season,
				Team:     "BOS",
				GameDate: time.Date(season, time.January, g+1, 0, 0, 0, 0, time.UTC),
				Features: []float64{float64(season)},
				Target:   target,
			})
		}
	}
	return samples
}

func TestEngineTrainsOnlyOnEarlierSeasons(t *testing.T) {
	seasons := []int{2019, 2020, 2021, 2022, 2023}
	samples := seasonSamples(seasons, 4)

	var spies []*spyClassifier
	factory := func() model.Classifier {
		spy := &spyClassifier{answer: models.TargetWin}
		spies = append(spies, spy)
		return spy
	}

	engine, err := NewEngine(DefaultConfig(), factory, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if _, err := engine.Run(context.Background(), samples); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Seasons 2021, 2022, 2023 are tested, one classifier each.
	if len(spies) != 3 {
		t.Fatalf("expected 3 fitted classifiers, got %d", len(spies))
	}
	for i, spy := range spies {
		tested := seasons[DefaultConfig().Start+i]
		for _, row := range spy.fitRows {
			if int(row[0]) >= tested {
				t.Errorf("classifier for season %d trained on season %d", tested, int(row[0]))
			}
		}
	}
}

func TestEngineExcludesSentinelsFromTraining(t *testing.T) {
	samples := seasonSamples([]int{2019, 2020, 2021}, 4)

	spy := &spyClassifier{answer: models.TargetWin}
	factory := func() model.Classifier { return spy }

	engine, err := NewEngine(DefaultConfig(), factory, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if _, err := engine.Run(context.Background(), samples); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, target := range spy.trainY {
		if target == models.TargetNone {
			t.Fatal("sentinel target leaked into training")
		}
	}
}

func TestEngineEmitsSentinelRowsInOutput(t *testing.T) {
	samples := seasonSamples([]int{2019, 2020, 2021}, 4)

	factory := func() model.Classifier { return &spyClassifier{answer: models.TargetWin} }
	engine, err := NewEngine(DefaultConfig(), factory, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	predictions, err := engine.Run(context.Background(), samples)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Every 2021 sample is scored, including the season-final sentinel.
	if len(predictions) != 4 {
		t.Fatalf("expected 4 predictions, got %d", len(predictions))
	}
	sentinels := 0
	for _, p := range predictions {
		if p.Season != 2021 {
			t.Errorf("unexpected season %d in output", p.Season)
		}
		if p.Actual == models.TargetNone {
			sentinels++
		}
	}
	if sentinels != 1 {
		t.Errorf("expected 1 sentinel row in output, got %d", sentinels)
	}
}

func TestEngineStartBeyondSeasons(t *testing.T) {
	samples := seasonSamples([]int{2019, 2020}, 3)
	factory := func() model.Classifier { return &spyClassifier{} }

	engine, err := NewEngine(DefaultConfig(), factory, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if _, err := engine.Run(context.Background(), samples); err == nil {
		t.Fatal("expected error when start offset exceeds available seasons")
	}
}

func TestEngineStep(t *testing.T) {
	samples := seasonSamples([]int{2018, 2019, 2020, 2021, 2022}, 3)
	factory := func() model.Classifier { return &spyClassifier{answer: models.TargetWin} }

	cfg := Config{Start: 2, Step: 2, FitScope: FitScopePretrain}
	engine, err := NewEngine(cfg, factory, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	predictions, err := engine.Run(context.Background(), samples)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	seasons := map[int]bool{}
	for _, p := range predictions {
		seasons[p.Season] = true
	}
	if !seasons[2020] || !seasons[2022] || seasons[2021] {
		t.Errorf("step 2 should test 2020 and 2022 only, got %v", seasons)
	}
}
