package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/backtest"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/dataset"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/metrics"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/model"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// Options configures one end-to-end pipeline run.
type Options struct {
	RollingWindow    int
	SelectedFeatures int
	CVSplits         int
	Backtest         backtest.Config
	ImputedMetrics   []string
}

// DefaultOptions mirrors the historical run parameters: 10-game trailing
// window, 30 selected features, 3 temporal folds.
func DefaultOptions() Options {
	return Options{
		RollingWindow:    10,
		SelectedFeatures: 30,
		CVSplits:         3,
		Backtest:         backtest.DefaultConfig(),
	}
}

// Result is the output of a full pipeline run: the prediction table in
// season order plus the artifacts a reporting collaborator wants alongside
// it.
type Result struct {
	Predictions     []models.PredictionRow
	Accuracy        float64
	Baseline        float64
	SelectedColumns []string
	DroppedMetrics  []string
	Matchups        int
}

// Pipeline wires the feature engineering stages to the selector and the
// walk-forward backtester. It is single-threaded and batch-oriented:
// every stage fully materializes its output before the next begins.
type Pipeline struct {
	opts    Options
	factory model.Factory
	logger  *logrus.Logger
}

// New creates a pipeline.
func New(opts Options, factory model.Factory, logger *logrus.Logger) (*Pipeline, error) {
	if opts.RollingWindow <= 0 {
		return nil, fmt.Errorf("rolling window must be positive")
	}
	if opts.SelectedFeatures <= 0 {
		return nil, fmt.Errorf("selected feature count must be positive")
	}
	if opts.CVSplits <= 0 {
		return nil, fmt.Errorf("cross-validation split count must be positive")
	}
	if err := opts.Backtest.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("classifier factory is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{opts: opts, factory: factory, logger: logger}, nil
}

// Run executes the full pipeline on the game record store. The table is
// modified by the imputation and column-drop policies; everything after
// that derives new tables from immutable inputs, so running twice on the
// same loaded table produces identical prediction output.
func (p *Pipeline) Run(ctx context.Context, table *dataset.Table) (*Result, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, fmt.Errorf("game record store is empty")
	}

	result := &Result{}

	// Missing-value policy: rescue the enumerated percentage metrics,
	// then drop every remaining column with any missing value.
	imputed := table.ImputePercentages(p.opts.ImputedMetrics...)
	result.DroppedMetrics = table.DropIncompleteMetrics()
	metrics.MetricsDroppedTotal.Add(float64(len(result.DroppedMetrics)))
	p.logger.WithFields(logrus.Fields{
		"rows":            len(table.Rows),
		"metrics":         len(table.Metrics),
		"imputed_cells":   imputed,
		"dropped_metrics": len(result.DroppedMetrics),
	}).Info("Prepared game record store")

	labeled := p.timed("label_targets", func() []*Row {
		return LabelTargets(table)
	})
	sentinels := CountSentinels(labeled)
	metrics.RowsDroppedTotal.WithLabelValues(metrics.ReasonUndefinedTarget).Add(float64(sentinels))

	var droppedHistory int
	rolled := p.timedRows("rolling_features", func() ([]*Row, int) {
		return AddRollingFeatures(labeled, table.Metrics, p.opts.RollingWindow)
	}, &droppedHistory)
	metrics.RowsDroppedTotal.WithLabelValues(metrics.ReasonMissingHistory).Add(float64(droppedHistory))

	var withoutNext int
	linked := p.timedRows("link_next_game", func() ([]*Row, int) {
		return LinkNextGame(rolled)
	}, &withoutNext)

	start := time.Now()
	matchups, unmatched := LinkMatchups(linked)
	metrics.StageDuration.WithLabelValues("link_matchups").Observe(time.Since(start).Seconds())
	metrics.RowsDroppedTotal.WithLabelValues(metrics.ReasonUnmatchedMatchup).Add(float64(unmatched))
	result.Matchups = len(matchups)
	p.logger.WithFields(logrus.Fields{
		"labeled":   len(labeled),
		"rolled":    len(rolled),
		"matchups":  len(matchups),
		"unmatched": unmatched,
	}).Info("Linked matchups")
	if len(matchups) == 0 {
		return nil, fmt.Errorf("no matchups survived linking")
	}

	featureSet := NewFeatureSet(table.Metrics, p.opts.RollingWindow)
	X, err := featureSet.Matrix(matchups, featureSet.Columns)
	if err != nil {
		return nil, err
	}

	// Scaling and selection use only the fit scope: by default the
	// seasons strictly before the first backtested season, so neither
	// ever sees data the walk-forward loop treats as future.
	fitEnd, err := p.fitScopeEnd(matchups)
	if err != nil {
		return nil, err
	}

	scaler := &model.MinMaxScaler{}
	if err := scaler.Fit(X[:fitEnd]); err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}
	scaled, err := scaler.Transform(X)
	if err != nil {
		return nil, fmt.Errorf("failed to rescale features: %w", err)
	}

	selX, selY := trainingSubset(scaled[:fitEnd], matchups[:fitEnd])
	selector, err := model.NewSequentialSelector(p.opts.SelectedFeatures, p.opts.CVSplits, p.factory)
	if err != nil {
		return nil, err
	}
	start = time.Now()
	cols, err := selector.Select(ctx, selX, selY)
	if err != nil {
		return nil, fmt.Errorf("feature selection failed: %w", err)
	}
	metrics.StageDuration.WithLabelValues("feature_selection").Observe(time.Since(start).Seconds())

	result.SelectedColumns = make([]string, len(cols))
	for i, c := range cols {
		result.SelectedColumns[i] = featureSet.Columns[c]
	}
	p.logger.WithField("columns", result.SelectedColumns).Info("Selected predictors")

	samples := make([]backtest.Sample, len(matchups))
	for i, m := range matchups {
		features := make([]float64, len(cols))
		for j, c := range cols {
			features[j] = scaled[i][c]
		}
		samples[i] = backtest.Sample{
			Season:   m.Self.Game.Season,
			Team:     m.Self.Game.Team,
			GameDate: m.Self.NextDate,
			Features: features,
			Target:   m.Self.Target,
		}
	}

	engine, err := backtest.NewEngine(p.opts.Backtest, p.factory, p.logger)
	if err != nil {
		return nil, err
	}
	start = time.Now()
	predictions, err := engine.Run(ctx, samples)
	if err != nil {
		return nil, err
	}
	metrics.StageDuration.WithLabelValues("walk_forward").Observe(time.Since(start).Seconds())
	result.Predictions = predictions

	accuracy, err := backtest.Accuracy(predictions)
	if err != nil {
		return nil, err
	}
	result.Accuracy = accuracy
	metrics.BacktestAccuracy.Set(accuracy)

	if baseline, err := backtest.MajorityBaseline(predictions); err == nil {
		result.Baseline = baseline
	}

	p.logger.WithFields(logrus.Fields{
		"predictions": len(predictions),
		"accuracy":    accuracy,
		"baseline":    result.Baseline,
	}).Info("Pipeline complete")
	return result, nil
}

// fitScopeEnd returns the exclusive end index of the scaler/selector fit
// scope within the matchup slice. Matchups are in chronological table
// order, but season boundaries interleave only at the edges, so the scope
// is defined by season membership rather than position.
func (p *Pipeline) fitScopeEnd(matchups []*Matchup) (int, error) {
	if p.opts.Backtest.FitScope == backtest.FitScopeFull {
		return len(matchups), nil
	}

	seasons := map[int]struct{}{}
	for _, m := range matchups {
		seasons[m.Self.Game.Season] = struct{}{}
	}
	ordered := make([]int, 0, len(seasons))
	for s := range seasons {
		ordered = append(ordered, s)
	}
	sort.Ints(ordered)
	if p.opts.Backtest.Start >= len(ordered) {
		return 0, fmt.Errorf("backtest start %d is beyond the %d available seasons", p.opts.Backtest.Start, len(ordered))
	}
	firstTested := ordered[p.opts.Backtest.Start]

	// Matchups are chronological, so the pretrain scope is a prefix.
	end := 0
	for i, m := range matchups {
		if m.Self.Game.Season < firstTested {
			end = i + 1
		}
	}
	if end == 0 {
		return 0, fmt.Errorf("no matchups before the first backtested season %d", firstTested)
	}
	return end, nil
}

// trainingSubset filters sentinel-target rows out of the selection data.
func trainingSubset(X [][]float64, matchups []*Matchup) ([][]float64, []int) {
	outX := make([][]float64, 0, len(X))
	outY := make([]int, 0, len(X))
	for i, m := range matchups {
		if m.Self.Target == models.TargetNone {
			continue
		}
		outX = append(outX, X[i])
		outY = append(outY, m.Self.Target)
	}
	return outX, outY
}

func (p *Pipeline) timed(stage string, fn func() []*Row) []*Row {
	start := time.Now()
	rows := fn()
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return rows
}

func (p *Pipeline) timedRows(stage string, fn func() ([]*Row, int), dropped *int) []*Row {
	start := time.Now()
	rows, n := fn()
	*dropped = n
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return rows
}
