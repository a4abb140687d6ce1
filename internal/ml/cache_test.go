package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/config"
)

func TestCacheKeyDistinguishesVectors(t *testing.T) {
	a := CacheKey{ModelID: "m1", Features: []float64{1, 2, 3}}
	b := CacheKey{ModelID: "m1", Features: []float64{1, 2, 4}}
	c := CacheKey{ModelID: "m2", Features: []float64{1, 2, 3}}

	if a.String() == b.String() {
		t.Error("different vectors should produce different keys")
	}
	if a.String() == c.String() {
		t.Error("different models should produce different keys")
	}
	if a.String() != (CacheKey{ModelID: "m1", Features: []float64{1, 2, 3}}).String() {
		t.Error("equal keys should produce equal strings")
	}
}

func TestPredictionCacheHitMiss(t *testing.T) {
	pc := NewPredictionCache(time.Minute, 100)
	key := CacheKey{ModelID: "m1", Features: []float64{1, 2}}

	if _, found := pc.Get(key); found {
		t.Fatal("empty cache should miss")
	}
	pc.Set(key, 1)
	pred, found := pc.Get(key)
	if !found || pred != 1 {
		t.Fatalf("expected cached prediction 1, got %d found=%v", pred, found)
	}

	hits, misses, ratio := pc.Stats()
	if hits != 1 || misses != 1 || ratio != 0.5 {
		t.Errorf("expected 1 hit, 1 miss, ratio 0.5; got %d/%d/%v", hits, misses, ratio)
	}
}

func TestPredictionCacheClear(t *testing.T) {
	pc := NewPredictionCache(time.Minute, 100)
	key := CacheKey{ModelID: "m1", Features: []float64{1}}
	pc.Set(key, 1)
	pc.Clear()

	if _, found := pc.Get(key); found {
		t.Error("cleared cache should miss")
	}
	if pc.ItemCount() != 0 {
		t.Errorf("cleared cache should be empty, has %d items", pc.ItemCount())
	}
}

// countingServer returns a scoring stub that counts predict round trips.
func countingServer(t *testing.T, predictCalls *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/train":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"model_id": "m1"})
		case "/v1/predict":
			atomic.AddInt64(predictCalls, 1)
			var req struct {
				Features [][]float64 `json:"features"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			preds := make([]int, len(req.Features))
			for i := range preds {
				preds[i] = 1
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"predictions": preds})
		}
	}))
}

func testCachedClient(t *testing.T, url string) *CachedClient {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	cc, err := NewCachedClient(&config.MLServiceConfig{
		URL:             url,
		TimeoutSeconds:  5,
		CacheTTLSeconds: 60,
		CacheMaxSize:    100,
	}, logger)
	if err != nil {
		t.Fatalf("NewCachedClient failed: %v", err)
	}
	return cc
}

func TestCachedClientAnswersRepeatsLocally(t *testing.T) {
	var predictCalls int64
	server := countingServer(t, &predictCalls)
	defer server.Close()

	ctx := context.Background()
	cc := testCachedClient(t, server.URL)
	if err := cc.Fit(ctx, [][]float64{{1}, {2}}, []int{1, 0}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	X := [][]float64{{1, 2}, {3, 4}}
	if _, err := cc.Predict(ctx, X); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	preds, err := cc.Predict(ctx, X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if preds[0] != 1 || preds[1] != 1 {
		t.Errorf("cached predictions should match remote answers, got %v", preds)
	}

	if calls := atomic.LoadInt64(&predictCalls); calls != 1 {
		t.Errorf("second identical batch should be served from cache, got %d round trips", calls)
	}
	hits, _, _ := cc.CacheStats()
	if hits != 2 {
		t.Errorf("expected 2 cache hits, got %d", hits)
	}
}

func TestCachedClientBatchesOnlyMisses(t *testing.T) {
	var predictCalls int64
	server := countingServer(t, &predictCalls)
	defer server.Close()

	ctx := context.Background()
	cc := testCachedClient(t, server.URL)
	if err := cc.Fit(ctx, [][]float64{{1}}, []int{1}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, err := cc.Predict(ctx, [][]float64{{1, 1}}); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	// One known vector, one new: only the new one crosses the wire.
	preds, err := cc.Predict(ctx, [][]float64{{1, 1}, {2, 2}})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(preds))
	}
	if calls := atomic.LoadInt64(&predictCalls); calls != 2 {
		t.Errorf("expected 2 round trips, got %d", calls)
	}
}

func TestCachedClientFitClearsCache(t *testing.T) {
	var predictCalls int64
	server := countingServer(t, &predictCalls)
	defer server.Close()

	ctx := context.Background()
	cc := testCachedClient(t, server.URL)
	if err := cc.Fit(ctx, [][]float64{{1}}, []int{1}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	X := [][]float64{{1, 2}}
	if _, err := cc.Predict(ctx, X); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if err := cc.Fit(ctx, [][]float64{{1}}, []int{1}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := cc.Predict(ctx, X); err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// Retraining invalidates the cache, so the same vector goes remote again.
	if calls := atomic.LoadInt64(&predictCalls); calls != 2 {
		t.Errorf("expected 2 round trips after retrain, got %d", calls)
	}
}

func TestCachedClientPredictBeforeFit(t *testing.T) {
	var predictCalls int64
	server := countingServer(t, &predictCalls)
	defer server.Close()

	cc := testCachedClient(t, server.URL)
	if _, err := cc.Predict(context.Background(), [][]float64{{1}}); err != ErrNotTrained {
		t.Errorf("expected ErrNotTrained, got %v", err)
	}
}
