// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fraudtriage/internal/adapters/alertqueue"
	"fraudtriage/internal/adapters/feedback"
	"fraudtriage/internal/adapters/historical"
	"fraudtriage/internal/domain/classifier"
	"fraudtriage/internal/domain/model"
	"fraudtriage/internal/domain/types"
	"fraudtriage/pkg/logger"
	"fraudtriage/pkg/metrics"
)

// Default artifact and data locations, overridable via options.
const (
	defaultModelPath      = "models/fraud_model.json"
	defaultScalerPath     = "models/scaler.json"
	defaultFeedbackPath   = "feedback_data.csv"
	defaultHistoricalPath = "data/creditcard_cleaned.csv"
)

// Service wires the classifier, the alert queue, the feedback log and the
// historical data provider behind the operations the HTTP API needs.
type Service struct {
	mu sync.RWMutex

	// Core components
	model      classifier.Classifier
	scaler     classifier.Scaler
	queue      alertqueue.Queue
	recorder   feedback.Recorder
	historical historical.Provider

	// Configuration
	modelPath         string
	scalerPath        string
	feedbackPath      string
	historicalPath    string
	sampleSize        int
	historicalTimeout time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelPath:      defaultModelPath,
		scalerPath:     defaultScalerPath,
		feedbackPath:   defaultFeedbackPath,
		historicalPath: defaultHistoricalPath,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components. Model or scaler load failure
// does not fail startup: the service comes up degraded and reports
// ErrModelNotLoaded on every prediction until the process is restarted.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting fraud triage service...")

	if s.queue == nil {
		s.queue = alertqueue.NewInMemoryQueue()
	}
	if s.recorder == nil {
		s.recorder = feedback.NewCSVRecorder(s.feedbackPath)
	}
	if s.historical == nil {
		histOpts := []historical.Option{historical.WithLogger(s.logger.Named("historical"))}
		if s.sampleSize > 0 {
			histOpts = append(histOpts, historical.WithSampleSize(s.sampleSize))
		}
		if s.historicalTimeout > 0 {
			histOpts = append(histOpts, historical.WithLoadTimeout(s.historicalTimeout))
		}
		s.historical = historical.NewCSVProvider(s.historicalPath, histOpts...)
	}

	if s.model == nil || s.scaler == nil {
		s.loadArtifactsLocked(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "fraud triage service started",
		logger.Any("modelLoaded", s.model != nil && s.scaler != nil),
		logger.String("feedbackPath", s.feedbackPath),
	)
	return nil
}

// loadArtifactsLocked loads the model and scaler once. There is no retry
// loop: a load failure leaves the prediction path degraded until restart.
func (s *Service) loadArtifactsLocked(ctx context.Context) {
	m, err := classifier.LoadBoostedTrees(s.modelPath)
	if err != nil {
		s.logger.Error(ctx, "model artifact load failed, predictions disabled",
			logger.String("path", s.modelPath),
			logger.Error(err),
		)
		metrics.RecordErrorByComponent("classifier", "model_load")
		return
	}

	sc, err := classifier.LoadStandardScaler(s.scalerPath)
	if err != nil {
		s.logger.Error(ctx, "scaler artifact load failed, predictions disabled",
			logger.String("path", s.scalerPath),
			logger.Error(err),
		)
		metrics.RecordErrorByComponent("classifier", "scaler_load")
		return
	}

	s.model = m
	s.scaler = sc
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "fraud triage service stopped")
}

// components returns the prediction collaborators under a read lock.
func (s *Service) components() (classifier.Classifier, classifier.Scaler, alertqueue.Queue) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model, s.scaler, s.queue
}

// classify scales Time/Amount and evaluates the model on one transaction.
func classify(ctx context.Context, m classifier.Classifier, sc classifier.Scaler, tx model.Transaction) (classifier.Prediction, error) {
	vec := tx.Vector()
	vec[0], vec[model.NumFeatures-1] = sc.Transform(tx.Time, tx.Amount)

	start := time.Now()
	pred, err := m.Predict(ctx, vec)
	metrics.RecordInferenceLatency(float64(time.Since(start).Milliseconds()))
	return pred, err
}

// Predict classifies one transaction and, when the verdict is fraud,
// appends an alert to the pending queue. Duplicate submissions of the same
// (Time, Amount) produce duplicate alerts on purpose; the sweep happens at
// feedback time.
func (s *Service) Predict(ctx context.Context, tx model.Transaction) (types.PredictionResult, error) {
	m, sc, q := s.components()
	if m == nil || sc == nil {
		return types.PredictionResult{}, ErrModelNotLoaded
	}

	if err := tx.Validate(); err != nil {
		return types.PredictionResult{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	pred, err := classify(ctx, m, sc, tx)
	if err != nil {
		metrics.RecordPredictionError()
		metrics.RecordErrorByComponent("classifier", "inference")
		return types.PredictionResult{}, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}

	if pred.Label == 1 {
		id := q.Enqueue(ctx, model.Alert{
			Transaction:     tx,
			ModelPrediction: pred.Label,
			PredictionScore: pred.Probability,
		})
		metrics.RecordPrediction("fraud")
		s.logger.Info(ctx, "fraud alert enqueued",
			logger.String("alertID", id),
			logger.Float64("score", pred.Probability),
			logger.Float64("amount", tx.Amount),
		)
	} else {
		metrics.RecordPrediction("legitimate")
	}

	return types.PredictionResult{
		Prediction:  pred.Label,
		Probability: pred.Probability,
		Confidence:  types.ConfidenceBand(pred.Probability),
	}, nil
}

// PredictBatch classifies transactions row-wise and returns one label per
// input, in input order. Batch mode never mutates the alert queue: bulk
// reclassification of historical data must not flood the live triage queue.
func (s *Service) PredictBatch(ctx context.Context, txs []model.Transaction) ([]int, error) {
	m, sc, _ := s.components()
	if m == nil || sc == nil {
		return nil, ErrModelNotLoaded
	}

	labels := make([]int, 0, len(txs))
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrInvalidTransaction, i, err)
		}
		pred, err := classify(ctx, m, sc, tx)
		if err != nil {
			metrics.RecordPredictionError()
			metrics.RecordErrorByComponent("classifier", "inference")
			return nil, fmt.Errorf("%w: row %d: %w", ErrPredictionFailed, i, err)
		}
		labels = append(labels, pred.Label)
	}

	metrics.RecordBatchRows(len(labels))
	return labels, nil
}

// Alerts returns the pending alerts in triage (oldest-first) order.
func (s *Service) Alerts(ctx context.Context) []model.Alert {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	return q.ListAll(ctx)
}

// NextAlert pops the oldest pending alert for one-at-a-time triage.
func (s *Service) NextAlert(ctx context.Context) (model.Alert, bool) {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	return q.PopFront(ctx)
}

// RecordFeedback appends the analyst verdict to the durable log and then
// removes every matching alert from the queue. The two effects are
// sequenced, not atomic: when the append fails the queue is left untouched
// so the unresolved alert stays visible for a retry.
func (s *Service) RecordFeedback(ctx context.Context, tx model.Transaction, modelPrediction, userFeedback int) (int, error) {
	s.mu.RLock()
	rec := s.recorder
	q := s.queue
	s.mu.RUnlock()

	record := model.FeedbackRecord{
		Transaction:     tx,
		ModelPrediction: modelPrediction,
		UserFeedback:    userFeedback,
	}
	if err := rec.Append(ctx, record); err != nil {
		metrics.RecordErrorByComponent("feedback", "append")
		return 0, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	removed := q.RemoveByIdentity(ctx, tx.Time, tx.Amount)
	s.logger.Info(ctx, "feedback recorded",
		logger.Int("userFeedback", userFeedback),
		logger.Int("alertsRemoved", removed),
	)
	return removed, nil
}

// HistoricalSample returns the sampled historical dataset. Errors are
// returned together with whatever cached data exists so the API layer can
// fail soft.
func (s *Service) HistoricalSample(ctx context.Context) ([]model.LabeledTransaction, error) {
	s.mu.RLock()
	h := s.historical
	s.mu.RUnlock()
	return h.Sample(ctx)
}

// Explain names the feature of tx that deviates most from the historical
// sample.
func (s *Service) Explain(ctx context.Context, tx model.Transaction) (historical.Attribution, error) {
	s.mu.RLock()
	h := s.historical
	s.mu.RUnlock()

	if err := tx.Validate(); err != nil {
		return historical.Attribution{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	return h.MostAnomalousFeature(ctx, tx)
}

// ModelLoaded reports whether the prediction path is operational.
func (s *Service) ModelLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model != nil && s.scaler != nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"modelLoaded": s.model != nil && s.scaler != nil,
	}

	if s.started {
		pending := s.queue.Len(ctx)
		stats["pendingAlerts"] = pending
		metrics.UpdateAlertQueueSize(pending)

		if rows, err := s.recorder.Count(ctx); err == nil {
			stats["feedbackRecords"] = rows
		}
	}

	return stats
}
