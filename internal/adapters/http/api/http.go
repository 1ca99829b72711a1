// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"fraudtriage/internal/adapters/historical"
	"fraudtriage/internal/domain/model"
	"fraudtriage/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Predict classifies one transaction; a fraud verdict enqueues an alert.
	Predict(ctx context.Context, tx model.Transaction) (types.PredictionResult, error)

	// PredictBatch classifies transactions row-wise without touching the queue.
	PredictBatch(ctx context.Context, txs []model.Transaction) ([]int, error)

	// Alerts returns pending alerts oldest-first.
	Alerts(ctx context.Context) []model.Alert

	// NextAlert pops the oldest pending alert.
	NextAlert(ctx context.Context) (model.Alert, bool)

	// RecordFeedback durably appends a verdict, then dequeues matching alerts.
	RecordFeedback(ctx context.Context, tx model.Transaction, modelPrediction, userFeedback int) (int, error)

	// HistoricalSample returns the sampled historical dataset.
	HistoricalSample(ctx context.Context) ([]model.LabeledTransaction, error)

	// Explain names the most anomalous feature of a transaction.
	Explain(ctx context.Context, tx model.Transaction) (historical.Attribution, error)

	// ModelLoaded reports whether the prediction path is operational.
	ModelLoaded() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	predictHandler    *PredictHandler
	alertsHandler     *AlertsHandler
	feedbackHandler   *FeedbackHandler
	historicalHandler *HistoricalHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(statsProvider),
		predictHandler:    NewPredictHandler(deps),
		alertsHandler:     NewAlertsHandler(deps),
		feedbackHandler:   NewFeedbackHandler(deps),
		historicalHandler: NewHistoricalHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/predict_batch", MetricsMiddleware(s.predictHandler.HandlePredictBatch, "predict_batch"))
	mux.HandleFunc("/alerts", MetricsMiddleware(s.alertsHandler.HandleListAlerts, "alerts"))
	mux.HandleFunc("/alerts/next", MetricsMiddleware(s.alertsHandler.HandleNextAlert, "alerts_next"))
	mux.HandleFunc("/alert", MetricsMiddleware(s.feedbackHandler.HandleRecordFeedback, "alert"))
	mux.HandleFunc("/historical_data", MetricsMiddleware(s.historicalHandler.HandleHistoricalData, "historical_data"))
	mux.HandleFunc("/explain", MetricsMiddleware(s.historicalHandler.HandleExplain, "explain"))
}

// batchRequest mirrors the request schema for POST /predict_batch.
type batchRequest struct {
	Transactions []model.Transaction `json:"transactions"`
}

// batchResponse mirrors the response schema for POST /predict_batch.
type batchResponse struct {
	Predictions []int `json:"predictions"`
}

// feedbackRequest mirrors the request schema for POST /alert.
type feedbackRequest struct {
	Transaction     model.Transaction `json:"transaction"`
	ModelPrediction int               `json:"model_prediction"`
	UserFeedback    int               `json:"user_feedback"`
}

func (f feedbackRequest) validate() error {
	if f.ModelPrediction != 0 && f.ModelPrediction != 1 {
		return NewKind("api.feedback", ErrBadRequest)
	}
	if f.UserFeedback != 0 && f.UserFeedback != 1 {
		return NewKind("api.feedback", ErrBadRequest)
	}
	return f.Transaction.Validate()
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
