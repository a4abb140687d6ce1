// Package ml provides a client for the remote scoring service.
package ml

import "errors"

var (
	// ErrServiceUnavailable indicates the scoring service is unreachable
	ErrServiceUnavailable = errors.New("scoring service unavailable")

	// ErrTrainingFailed indicates the remote training call failed
	ErrTrainingFailed = errors.New("remote training failed")

	// ErrInvalidResponse indicates an invalid response from the scoring service
	ErrInvalidResponse = errors.New("invalid response from scoring service")

	// ErrNotTrained indicates Predict was called before a successful Fit
	ErrNotTrained = errors.New("model has not been trained")
)
