// Package alertqueue holds fraud alerts that are pending analyst review.
//
// The queue is advisory: unbounded, memory-only, and discarded on process
// restart. One mutex guards all mutation so concurrent request handlers
// cannot interleave enqueue and removal.
package alertqueue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fraudtriage/internal/domain/model"
	"fraudtriage/pkg/metrics"
)

// defaultInitialCapacity pre-sizes the backing slice; the queue itself is
// unbounded.
const defaultInitialCapacity = 64

// Queue provides ordered access to pending alerts. Insertion order is
// triage order: analysts review oldest-first.
type Queue interface {
	// Enqueue appends an alert to the tail and returns its assigned ID.
	// No dedup is performed here; duplicates are swept at removal time.
	Enqueue(ctx context.Context, a model.Alert) string

	// ListAll returns a snapshot of pending alerts in insertion order.
	ListAll(ctx context.Context) []model.Alert

	// RemoveByIdentity removes every alert whose (Time, Amount) matches
	// exactly and returns the number removed (0 or more).
	RemoveByIdentity(ctx context.Context, txTime, amount float64) int

	// Remove deletes the alert with the given ID, if present.
	Remove(ctx context.Context, id string) bool

	// PopFront removes and returns the oldest alert, if any.
	PopFront(ctx context.Context) (model.Alert, bool)

	// Len returns the current number of pending alerts.
	Len(ctx context.Context) int
}

// InMemoryQueue implements Queue with a mutex-guarded slice.
type InMemoryQueue struct {
	mu      sync.Mutex
	alerts  []model.Alert
	newID   func() string
	now     func() time.Time
	initCap int
}

// NewInMemoryQueue creates an empty in-memory alert queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		newID:   func() string { return uuid.NewString() },
		now:     time.Now,
		initCap: defaultInitialCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.alerts = make([]model.Alert, 0, q.initCap)
	metrics.UpdateAlertQueueSize(0)
	return q
}

// Enqueue appends an alert to the tail and assigns it a synthetic ID.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a model.Alert) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if a.ID == "" {
		a.ID = q.newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = q.now()
	}
	q.alerts = append(q.alerts, a)

	metrics.RecordAlertEnqueued()
	metrics.UpdateAlertQueueSize(len(q.alerts))
	return a.ID
}

// ListAll returns a copy of the pending alerts, oldest first.
func (q *InMemoryQueue) ListAll(ctx context.Context) []model.Alert {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]model.Alert, len(q.alerts))
	copy(out, q.alerts)
	return out
}

// RemoveByIdentity removes every alert matching (txTime, amount) exactly.
func (q *InMemoryQueue) RemoveByIdentity(ctx context.Context, txTime, amount float64) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.alerts[:0]
	removed := 0
	for _, a := range q.alerts {
		if a.Matches(txTime, amount) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	q.alerts = kept

	if removed > 0 {
		metrics.RecordAlertsResolved(removed)
		metrics.UpdateAlertQueueSize(len(q.alerts))
	}
	return removed
}

// Remove deletes the alert with the given synthetic ID.
func (q *InMemoryQueue) Remove(ctx context.Context, id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, a := range q.alerts {
		if a.ID == id {
			q.alerts = append(q.alerts[:i], q.alerts[i+1:]...)
			metrics.RecordAlertsResolved(1)
			metrics.UpdateAlertQueueSize(len(q.alerts))
			return true
		}
	}
	return false
}

// PopFront removes and returns the oldest alert.
func (q *InMemoryQueue) PopFront(ctx context.Context) (model.Alert, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.alerts) == 0 {
		return model.Alert{}, false
	}
	a := q.alerts[0]
	q.alerts = q.alerts[1:]
	metrics.UpdateAlertQueueSize(len(q.alerts))
	return a, true
}

// Len returns the number of pending alerts.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.alerts)
}
