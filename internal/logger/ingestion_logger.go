// Package logger provides ingestion-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// IngestionLogger provides dedicated logging for data ingestion.
type IngestionLogger struct {
	*logrus.Entry
}

// NewIngestionLogger creates a new ingestion logger.
func NewIngestionLogger(baseLogger *logrus.Logger) *IngestionLogger {
	return &IngestionLogger{
		Entry: baseLogger.WithField("component", "ingestion"),
	}
}

// LogSeasonSync logs the outcome of a season page sync.
func (il *IngestionLogger) LogSeasonSync(season, pagesFetched, pagesSkipped int, durationMs float64) {
	il.WithFields(logrus.Fields{
		"season":        season,
		"pages_fetched": pagesFetched,
		"pages_skipped": pagesSkipped,
		"duration_ms":   durationMs,
	}).Info("Season sync completed")
}

// LogGamesLoaded logs a batch of game rows written to the record store.
func (il *IngestionLogger) LogGamesLoaded(source string, rows int) {
	il.WithFields(logrus.Fields{
		"source": source,
		"rows":   rows,
	}).Info("Game rows loaded")
}
