package alertqueue

import "time"

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithInitialCapacity pre-sizes the backing slice.
func WithInitialCapacity(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.initCap = n
		}
	}
}

// WithIDFunc overrides the synthetic ID generator. Used by tests that need
// deterministic alert IDs.
func WithIDFunc(fn func() string) Option {
	return func(q *InMemoryQueue) {
		if fn != nil {
			q.newID = fn
		}
	}
}

// WithClock overrides the CreatedAt timestamp source.
func WithClock(now func() time.Time) Option {
	return func(q *InMemoryQueue) {
		if now != nil {
			q.now = now
		}
	}
}
