// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "fraudtriage/internal/app"
)

// FeedbackHandler handles analyst feedback submissions.
type FeedbackHandler struct {
	deps Dependencies
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(deps Dependencies) *FeedbackHandler {
	return &FeedbackHandler{deps: deps}
}

// HandleRecordFeedback handles POST /alert requests: the verdict is
// appended to the durable log, then matching alerts leave the queue. A
// persist failure returns 500 and leaves the queue untouched so the
// analyst can retry.
func (h *FeedbackHandler) HandleRecordFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_feedback"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if _, err := h.deps.RecordFeedback(r.Context(), req.Transaction, req.ModelPrediction, req.UserFeedback); err != nil {
		if errors.Is(err, service.ErrPersistFailed) {
			writeError(w, http.StatusInternalServerError, "persist_failed", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "success",
		Message: "feedback recorded and alert dequeued",
	})
}
