// Package metrics provides the centralized Prometheus metrics registry
// for the prediction pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drop reasons used as label values on RowsDroppedTotal. These mirror the
// data-quality taxonomy: every one is a filtering condition, not an error.
const (
	ReasonMissingHistory   = "missing_history"
	ReasonUnmatchedMatchup = "unmatched_matchup"
	ReasonUndefinedTarget  = "undefined_target"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RowsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nba_predictor",
		Name:      "rows_dropped_total",
		Help:      "Rows excluded by a pipeline stage, by reason",
	}, []string{"reason"})
	MetricsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nba_predictor",
		Name:      "metric_columns_dropped_total",
		Help:      "Metric columns excluded for containing missing values",
	})
	PagesFetchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nba_predictor",
		Name:      "pages_fetched_total",
		Help:      "Raw pages fetched by the data source",
	})
	GamesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nba_predictor",
		Name:      "games_ingested_total",
		Help:      "Game rows loaded into the record store",
	})
	RemotePredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nba_predictor",
		Name:      "remote_predictions_total",
		Help:      "Predictions requested from the remote scoring service",
	})
)

// Gauge metrics
var (
	BacktestAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nba_predictor",
		Name:      "backtest_accuracy",
		Help:      "Accuracy of the most recent walk-forward backtest",
	})
	PredictionCacheHitRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nba_predictor",
		Name:      "prediction_cache_hit_rate",
		Help:      "Hit rate of the remote prediction cache",
	})
)

// Histogram metrics
var (
	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nba_predictor",
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"stage"})
	FetchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nba_predictor",
		Name:      "fetch_latency_seconds",
		Help:      "Latency of raw page fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RowsDroppedTotal)
		registry.MustRegister(MetricsDroppedTotal)
		registry.MustRegister(PagesFetchedTotal)
		registry.MustRegister(GamesIngestedTotal)
		registry.MustRegister(RemotePredictionsTotal)

		registry.MustRegister(BacktestAccuracy)
		registry.MustRegister(PredictionCacheHitRate)

		registry.MustRegister(StageDuration)
		registry.MustRegister(FetchLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
