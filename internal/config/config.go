// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// ModelPath locates the serialized classifier artifact.
	ModelPath string `koanf:"model_path"`

	// ScalerPath locates the serialized scaler artifact.
	ScalerPath string `koanf:"scaler_path"`

	// FeedbackPath locates the append-only feedback log.
	FeedbackPath string `koanf:"feedback_path"`

	// HistoricalPath locates the labeled historical dataset.
	HistoricalPath string `koanf:"historical_path"`

	// HistoricalSampleSize caps the sampled rows held in memory.
	HistoricalSampleSize int `koanf:"historical_sample_size"`

	// HistoricalTimeoutMS bounds one historical load attempt.
	HistoricalTimeoutMS int `koanf:"historical_timeout_ms"`
}

// New creates a Config with defaults matching the reference deployment.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":8000",
		ModelPath:            "models/fraud_model.json",
		ScalerPath:           "models/scaler.json",
		FeedbackPath:         "feedback_data.csv",
		HistoricalPath:       "data/creditcard_cleaned.csv",
		HistoricalSampleSize: 10_000,
		HistoricalTimeoutMS:  5_000,
	}
}
