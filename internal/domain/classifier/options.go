package classifier

// Option applies a configuration option to the BoostedTrees classifier.
type Option func(*BoostedTrees)

// WithDecisionThreshold overrides the probability at which the binary label
// flips to 1. The default matches the training-time evaluation threshold.
func WithDecisionThreshold(threshold float64) Option {
	return func(c *BoostedTrees) {
		if threshold > 0 && threshold < 1 {
			c.threshold = threshold
		}
	}
}
