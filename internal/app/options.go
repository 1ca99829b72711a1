package service

import (
	"time"

	"fraudtriage/internal/adapters/alertqueue"
	"fraudtriage/internal/adapters/feedback"
	"fraudtriage/internal/adapters/historical"
	"fraudtriage/internal/domain/classifier"
	"fraudtriage/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithModelPath sets the classifier artifact location.
func WithModelPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithScalerPath sets the scaler artifact location.
func WithScalerPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.scalerPath = path
		}
	}
}

// WithFeedbackPath sets the feedback log location.
func WithFeedbackPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.feedbackPath = path
		}
	}
}

// WithHistoricalPath sets the historical dataset location.
func WithHistoricalPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.historicalPath = path
		}
	}
}

// WithSampleSize caps the historical sample held in memory.
func WithSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// WithHistoricalTimeout bounds one historical load attempt.
func WithHistoricalTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.historicalTimeout = d
		}
	}
}

// WithClassifier injects a pre-built classifier, skipping the artifact load.
func WithClassifier(c classifier.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.model = c
		}
	}
}

// WithScaler injects a pre-built scaler, skipping the artifact load.
func WithScaler(sc classifier.Scaler) Option {
	return func(s *Service) {
		if sc != nil {
			s.scaler = sc
		}
	}
}

// WithQueue injects a custom alert queue.
func WithQueue(q alertqueue.Queue) Option {
	return func(s *Service) {
		if q != nil {
			s.queue = q
		}
	}
}

// WithRecorder injects a custom feedback recorder.
func WithRecorder(r feedback.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithHistoricalProvider injects a custom historical data provider.
func WithHistoricalProvider(h historical.Provider) Option {
	return func(s *Service) {
		if h != nil {
			s.historical = h
		}
	}
}
