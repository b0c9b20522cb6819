// FilePath: api/resources/api.resource.alerts.go
package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/hubservice"
	"github.com/insightpulse/scout-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// AlertHandlers encapsulates the alert HTTP handlers
type AlertHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary List alerts
// @Description Get a filtered list of device alerts
// @Tags alerts
// @Produce json
// @Param device_id query string false "Filter by device"
// @Param status query string false "Filter by alert status"
// @Param severity query string false "Filter by severity"
// @Param alert_type query string false "Filter by alert type"
// @Success 200 {array} models.Alert
// @Router /alerts [get]
func (h *AlertHandlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	offset, limit := getPaginationParams(r)

	var filters models.AlertFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	alerts, err := h.hubservice.ListAlerts(r.Context(), filters, offset, limit)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, alerts)
}

// @Summary Acknowledge an alert
// @Description Mark an alert as seen; the same condition may alert again afterwards
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /alerts/{id}/acknowledge [post]
// @Security BearerAuth
func (h *AlertHandlers) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.AcknowledgeAlert(r.Context(), id); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Resolve an alert
// @Description Close an alert
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /alerts/{id}/resolve [post]
// @Security BearerAuth
func (h *AlertHandlers) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.ResolveAlert(r.Context(), id); err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
