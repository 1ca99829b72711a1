// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"fraudtriage/internal/domain/model"
)

// AlertsHandler handles pending-alert requests.
type AlertsHandler struct {
	deps Dependencies
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(deps Dependencies) *AlertsHandler {
	return &AlertsHandler{deps: deps}
}

// alertsResponse mirrors the response schema for GET /alerts.
type alertsResponse struct {
	Alerts []model.Alert `json:"alerts"`
}

// HandleListAlerts handles GET /alerts requests. Alerts are returned in
// insertion order, oldest first.
func (h *AlertsHandler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	alerts := h.deps.Alerts(r.Context())
	if alerts == nil {
		alerts = []model.Alert{}
	}
	writeJSON(w, http.StatusOK, alertsResponse{Alerts: alerts})
}

// HandleNextAlert handles POST /alerts/next requests: it pops the oldest
// alert for one-at-a-time triage. Popping mutates the queue, hence POST.
func (h *AlertsHandler) HandleNextAlert(w http.ResponseWriter, r *http.Request) {
	const op = "api.next_alert"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	alert, ok := h.deps.NextAlert(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "queue_empty", NewKind(op, ErrQueueEmpty))
		return
	}
	writeJSON(w, http.StatusOK, alert)
}
