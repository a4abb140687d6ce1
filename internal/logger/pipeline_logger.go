// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for pipeline operations.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogStageCompleted logs the completion of a pipeline stage.
func (pl *PipelineLogger) LogStageCompleted(stage string, rowsIn, rowsOut int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"stage":       stage,
		"rows_in":     rowsIn,
		"rows_out":    rowsOut,
		"duration_ms": durationMs,
	}).Info("Pipeline stage completed")
}

// LogSeasonBacktest logs the result of a single tested season.
func (pl *PipelineLogger) LogSeasonBacktest(season, trainRows, testRows int, accuracy float64) {
	pl.WithFields(logrus.Fields{
		"season":     season,
		"train_rows": trainRows,
		"test_rows":  testRows,
		"accuracy":   accuracy,
	}).Info("Season backtest completed")
}

// LogFeatureSelection logs the outcome of feature selection.
func (pl *PipelineLogger) LogFeatureSelection(candidates, selected int, cvAccuracy float64) {
	pl.WithFields(logrus.Fields{
		"candidate_features": candidates,
		"selected_features":  selected,
		"cv_accuracy":        cvAccuracy,
	}).Info("Feature selection completed")
}

// LogBacktestSummary logs the final accuracy of a backtest run.
func (pl *PipelineLogger) LogBacktestSummary(runID string, predictions int, accuracy, baseline float64) {
	pl.WithFields(logrus.Fields{
		"run_id":      runID,
		"predictions": predictions,
		"accuracy":    accuracy,
		"baseline":    baseline,
	}).Info("Backtest run completed")
}
