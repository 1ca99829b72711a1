// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "fraudtriage/internal/app"
	"fraudtriage/internal/domain/model"
)

// PredictHandler handles single and batch prediction requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new prediction handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var tx model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.Predict(r.Context(), tx)
	if err != nil {
		writePredictError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandlePredictBatch handles POST /predict_batch requests.
func (h *PredictHandler) HandlePredictBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	labels, err := h.deps.PredictBatch(r.Context(), req.Transactions)
	if err != nil {
		writePredictError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Predictions: labels})
}

// writePredictError maps service errors to the documented status codes:
// 503 while the model is unloaded, 400 for malformed features, 500 for
// inference failures.
func writePredictError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrModelNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "model_not_loaded", Wrap(op, err))
	case errors.Is(err, service.ErrInvalidTransaction):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "prediction_failed", Wrap(op, err))
	}
}
