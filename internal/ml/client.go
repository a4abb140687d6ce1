// Package ml provides a client for the remote scoring service.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/config"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/metrics"
)

// trainRequest is the payload for the /v1/train endpoint
type trainRequest struct {
	Features     [][]float64 `json:"features"`
	Targets      []int       `json:"targets"`
	ModelVersion string      `json:"model_version,omitempty"`
}

// trainResponse is the response from the /v1/train endpoint
type trainResponse struct {
	ModelID string `json:"model_id"`
}

// predictRequest is the payload for the /v1/predict endpoint
type predictRequest struct {
	ModelID  string      `json:"model_id"`
	Features [][]float64 `json:"features"`
}

// predictResponse is the response from the /v1/predict endpoint
type predictResponse struct {
	Predictions []int `json:"predictions"`
}

// Client scores matchups against a remote model service over HTTP. It
// satisfies the same Fit/Predict contract as the in-process classifier,
// so the backtest engine can use either interchangeably.
type Client struct {
	httpClient *retryablehttp.Client
	baseURL    string
	version    string
	modelID    string
	logger     *logrus.Logger
}

// NewClient creates a new scoring service client
func NewClient(cfg *config.MLServiceConfig, logger *logrus.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ml service config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("scoring service URL is required")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.RetryWaitMin = 500 * time.Millisecond
	httpClient.RetryWaitMax = 5 * time.Second
	httpClient.HTTPClient.Timeout = timeout
	httpClient.Logger = nil

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.URL,
		version:    cfg.ModelVersion,
		logger:     logger,
	}, nil
}

// Fit trains a remote model on the given matrix and targets. The
// returned model ID is retained for subsequent Predict calls.
func (c *Client) Fit(ctx context.Context, X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("%w: %d rows, %d targets", ErrTrainingFailed, len(X), len(y))
	}

	var resp trainResponse
	err := c.post(ctx, "/v1/train", trainRequest{
		Features:     X,
		Targets:      y,
		ModelVersion: c.version,
	}, &resp)
	if err != nil {
		c.logger.WithError(err).Error("Failed to train remote model")
		return fmt.Errorf("%w: %v", ErrTrainingFailed, err)
	}
	if resp.ModelID == "" {
		return fmt.Errorf("%w: empty model id", ErrInvalidResponse)
	}

	c.modelID = resp.ModelID
	c.logger.WithFields(logrus.Fields{
		"model_id": resp.ModelID,
		"rows":     len(X),
	}).Debug("Trained remote model")
	return nil
}

// Predict scores the given matrix against the most recently trained model
func (c *Client) Predict(ctx context.Context, X [][]float64) ([]int, error) {
	if c.modelID == "" {
		return nil, ErrNotTrained
	}

	var resp predictResponse
	err := c.post(ctx, "/v1/predict", predictRequest{
		ModelID:  c.modelID,
		Features: X,
	}, &resp)
	if err != nil {
		c.logger.WithError(err).Error("Failed to get remote predictions")
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if len(resp.Predictions) != len(X) {
		return nil, fmt.Errorf("%w: expected %d predictions, got %d",
			ErrInvalidResponse, len(X), len(resp.Predictions))
	}

	metrics.RemotePredictionsTotal.Add(float64(len(resp.Predictions)))
	return resp.Predictions, nil
}

// ModelID returns the identifier of the most recently trained model,
// or an empty string before the first successful Fit.
func (c *Client) ModelID() string {
	return c.modelID
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
