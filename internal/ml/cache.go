// Package ml provides a client for the remote scoring service.
package ml

import (
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/metrics"
)

// CacheKey identifies a single scored feature vector
type CacheKey struct {
	ModelID  string
	Features []float64
}

// String returns string representation of cache key. Feature vectors
// are hashed so keys stay bounded regardless of dimensionality.
func (k CacheKey) String() string {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range k.Features {
		bits := math.Float64bits(v)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("%s:%x", k.ModelID, h.Sum64())
}

// PredictionCache provides in-memory caching for remote predictions
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction
func (pc *PredictionCache) Get(key CacheKey) (int, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if result, found := pc.cache.Get(key.String()); found {
		if pred, ok := result.(int); ok {
			pc.hitCount++
			pc.updateMetrics()
			return pred, true
		}
	}

	pc.missCount++
	pc.updateMetrics()
	return 0, false
}

// Set stores a prediction in cache
func (pc *PredictionCache) Set(key CacheKey, prediction int) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	// Check size limit
	if pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
	}

	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.Flush()
	pc.hitCount = 0
	pc.missCount = 0
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.stats()
}

func (pc *PredictionCache) stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount
	misses = pc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics updates Prometheus metrics. Callers hold pc.mu.
func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.stats()
	metrics.PredictionCacheHitRate.Set(ratio)
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
