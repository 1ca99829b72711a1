package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrModelNotLoaded means the classifier or scaler artifact failed to
	// load at startup; the service is degraded until restart.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrInvalidTransaction means a request carried non-finite features.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrPredictionFailed means scaling or inference failed for a request.
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrPersistFailed means the feedback append did not reach durable
	// storage; the matching alert stays queued.
	ErrPersistFailed = errors.New("feedback persist failed")
)
