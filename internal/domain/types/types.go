// Package types contains common types used across the application
package types

// Confidence bands for a fraud probability. Thresholds are fixed policy
// constants, not learned.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"

	highThreshold   = 0.8
	mediumThreshold = 0.5
)

// PredictionResult is the outcome of classifying one transaction.
type PredictionResult struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
	Confidence  string  `json:"confidence"`
}

// ConfidenceBand buckets a probability: >0.8 High, >0.5 Medium, else Low.
func ConfidenceBand(probability float64) string {
	switch {
	case probability > highThreshold:
		return ConfidenceHigh
	case probability > mediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
