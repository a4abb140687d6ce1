// Package ml provides a client for the remote scoring service.
package ml

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/config"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/model"
)

// CachedClient wraps the remote scoring client with a prediction cache.
// Identical feature vectors scored against the same model are answered
// locally without a network round trip.
type CachedClient struct {
	client *Client
	cache  *PredictionCache
	logger *logrus.Logger
}

// compile-time interface check
var _ model.Classifier = (*CachedClient)(nil)

// NewCachedClient creates a scoring client with caching enabled
func NewCachedClient(cfg *config.MLServiceConfig, logger *logrus.Logger) (*CachedClient, error) {
	client, err := NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	return &CachedClient{
		client: client,
		cache:  NewPredictionCache(ttl, cfg.CacheMaxSize),
		logger: logger,
	}, nil
}

// Fit trains the remote model and invalidates cached predictions, which
// were produced by the previous model.
func (cc *CachedClient) Fit(ctx context.Context, X [][]float64, y []int) error {
	if err := cc.client.Fit(ctx, X, y); err != nil {
		return err
	}
	cc.cache.Clear()
	return nil
}

// Predict scores the matrix, answering repeated vectors from cache
func (cc *CachedClient) Predict(ctx context.Context, X [][]float64) ([]int, error) {
	modelID := cc.client.ModelID()
	if modelID == "" {
		return nil, ErrNotTrained
	}

	predictions := make([]int, len(X))
	var missing [][]float64
	var missingIdx []int

	for i, row := range X {
		key := CacheKey{ModelID: modelID, Features: row}
		if pred, found := cc.cache.Get(key); found {
			predictions[i] = pred
			continue
		}
		missing = append(missing, row)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		remote, err := cc.client.Predict(ctx, missing)
		if err != nil {
			return nil, err
		}
		for j, pred := range remote {
			i := missingIdx[j]
			predictions[i] = pred
			cc.cache.Set(CacheKey{ModelID: modelID, Features: X[i]}, pred)
		}
	}

	hits, misses, ratio := cc.cache.Stats()
	cc.logger.WithFields(logrus.Fields{
		"hits":   hits,
		"misses": misses,
		"ratio":  ratio,
	}).Debug("Prediction cache usage")

	return predictions, nil
}

// CacheStats exposes cache statistics
func (cc *CachedClient) CacheStats() (hits, misses uint64, ratio float64) {
	return cc.cache.Stats()
}
