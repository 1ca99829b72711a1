package historical

import (
	"time"

	"fraudtriage/pkg/logger"
)

// Option applies a configuration option to the CSVProvider.
type Option func(*CSVProvider)

// WithSampleSize caps the number of rows kept in memory.
func WithSampleSize(n int) Option {
	return func(p *CSVProvider) {
		if n > 0 {
			p.sampleSize = n
		}
	}
}

// WithSeed fixes the sampling seed for reproducible samples.
func WithSeed(seed int64) Option {
	return func(p *CSVProvider) {
		p.seed = seed
	}
}

// WithLoadTimeout bounds how long one load attempt may take.
func WithLoadTimeout(d time.Duration) Option {
	return func(p *CSVProvider) {
		if d > 0 {
			p.loadTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the provider.
func WithLogger(l logger.Logger) Option {
	return func(p *CSVProvider) {
		if l != nil {
			p.logger = l
		}
	}
}
