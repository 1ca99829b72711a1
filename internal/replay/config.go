// Package replay streams transactions from a historical dataset through the
// prediction API. It exists to load-test the service and to sanity-check a
// deployed model against known labels.
package replay

import (
	"time"

	"fraudtriage/internal/domain/model"
)

// Config holds configuration for one replay run.
type Config struct {
	BaseURL   string        // Base URL of the service
	DataPath  string        // CSV dataset to replay
	Limit     int           // Max transactions to submit (0 = all)
	Workers   int           // Concurrent submitters in single mode
	Timeout   time.Duration // HTTP request timeout
	Batch     bool          // Use /predict_batch instead of /predict
	BatchSize int           // Rows per batch request
}

// predictionResponse mirrors the response of POST /predict.
type predictionResponse struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
	Confidence  string  `json:"confidence"`
}

// batchRequest mirrors the request of POST /predict_batch.
type batchRequest struct {
	Transactions []model.Transaction `json:"transactions"`
}

// batchResponse mirrors the response of POST /predict_batch.
type batchResponse struct {
	Predictions []int `json:"predictions"`
}

// healthResponse mirrors the response of GET /health.
type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Stats holds replay statistics.
type Stats struct {
	Submitted    int
	Flagged      int
	Failed       int
	AgreeWithTag int // predictions matching the dataset label
	StartTime    time.Time
	Duration     time.Duration
}
