// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "fraudtriage/internal/app"
	"fraudtriage/internal/domain/model"
)

// HistoricalHandler handles historical data and anomaly attribution
// requests.
type HistoricalHandler struct {
	deps Dependencies
}

// NewHistoricalHandler creates a new historical data handler.
func NewHistoricalHandler(deps Dependencies) *HistoricalHandler {
	return &HistoricalHandler{deps: deps}
}

// historicalResponse mirrors the response schema for GET /historical_data.
type historicalResponse struct {
	Data []model.LabeledTransaction `json:"data"`
}

// HandleHistoricalData handles GET /historical_data requests. The provider
// fails soft: cached data is served even when a reload failed, and only a
// load failure with nothing cached becomes a 500.
func (h *HistoricalHandler) HandleHistoricalData(w http.ResponseWriter, r *http.Request) {
	const op = "api.historical_data"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	data, err := h.deps.HistoricalSample(r.Context())
	if err != nil && len(data) == 0 {
		writeError(w, http.StatusInternalServerError, "historical_unavailable", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, historicalResponse{Data: data})
}

// HandleExplain handles POST /explain requests: it reports which feature
// of the submitted transaction deviates most from the historical sample.
func (h *HistoricalHandler) HandleExplain(w http.ResponseWriter, r *http.Request) {
	const op = "api.explain"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var tx model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	attribution, err := h.deps.Explain(r.Context(), tx)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransaction) {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "historical_unavailable", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, attribution)
}
