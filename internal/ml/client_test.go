package ml

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/config"
	"github.com/armaan-grewal/NBA-Game-Predictor/test/helpers"
)

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	client, err := NewClient(&config.MLServiceConfig{URL: url, TimeoutSeconds: 5}, logger)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestClientFitStoresModelID(t *testing.T) {
	server := helpers.MockScoringServer(t, 1)
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.Fit(context.Background(), [][]float64{{1, 2}, {3, 4}}, []int{1, 0})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if client.ModelID() != "model-test-001" {
		t.Errorf("expected trained model id, got %q", client.ModelID())
	}
}

func TestClientPredict(t *testing.T) {
	server := helpers.MockScoringServer(t, 1)
	defer server.Close()

	ctx := context.Background()
	client := testClient(t, server.URL)
	if err := client.Fit(ctx, [][]float64{{1}, {2}}, []int{1, 0}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := client.Predict(ctx, [][]float64{{1}, {2}, {3}})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if len(preds) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(preds))
	}
	for i, p := range preds {
		if p != 1 {
			t.Errorf("prediction %d: expected 1, got %d", i, p)
		}
	}
}

func TestClientPredictBeforeFit(t *testing.T) {
	server := helpers.MockScoringServer(t, 1)
	defer server.Close()

	client := testClient(t, server.URL)
	if _, err := client.Predict(context.Background(), [][]float64{{1}}); !errors.Is(err, ErrNotTrained) {
		t.Errorf("expected ErrNotTrained, got %v", err)
	}
}

func TestClientFitValidation(t *testing.T) {
	server := helpers.MockScoringServer(t, 1)
	defer server.Close()

	client := testClient(t, server.URL)
	if err := client.Fit(context.Background(), nil, nil); !errors.Is(err, ErrTrainingFailed) {
		t.Errorf("expected ErrTrainingFailed for empty training set, got %v", err)
	}
	if err := client.Fit(context.Background(), [][]float64{{1}}, []int{1, 0}); !errors.Is(err, ErrTrainingFailed) {
		t.Errorf("expected ErrTrainingFailed for length mismatch, got %v", err)
	}
}

func TestClientPredictLengthMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/train":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"model_id": "m1"})
		case "/v1/predict":
			// Fewer predictions than requested rows.
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"predictions": []int{1}})
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := testClient(t, server.URL)
	if err := client.Fit(ctx, [][]float64{{1}}, []int{1}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := client.Predict(ctx, [][]float64{{1}, {2}}); !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestClientEmptyModelID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"model_id": ""})
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.Fit(context.Background(), [][]float64{{1}}, []int{1})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse for empty model id, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	logger := logrus.New()
	if _, err := NewClient(nil, logger); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewClient(&config.MLServiceConfig{URL: "http://localhost"}, nil); err == nil {
		t.Error("expected error for nil logger")
	}
	if _, err := NewClient(&config.MLServiceConfig{}, logger); err == nil {
		t.Error("expected error for missing URL")
	}
}
