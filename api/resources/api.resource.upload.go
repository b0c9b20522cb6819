// FilePath: api/resources/api.resource.upload.go
package resources

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

// UploadHandlers encapsulates the device ingest HTTP handlers
type UploadHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Upload a device batch
// @Description Ingest one batch of transactions plus optional health metrics from an edge device
// @Tags iot
// @Accept json
// @Produce json
// @Param batch body hubservice.UploadRequest true "Batch payload"
// @Success 200 {object} hubservice.UploadResult
// @Failure 400 {object} errors.APIError
// @Failure 401 {object} errors.APIError
// @Failure 403 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /iot/device-upload [post]
// @Security BearerAuth
func (h *UploadHandlers) DeviceUpload(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	// Keep the raw body for the batch archive
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, errors.NewValidationError("failed to read request body", err).WithRequestID(requestID))
		return
	}

	var req hubservice.UploadRequest
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	result, err := h.hubservice.ProcessBatchUpload(r.Context(), &req, raw)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// @Summary Device heartbeat
// @Description Refresh a device's heartbeat, status, and firmware version; returns pending commands
// @Tags iot
// @Accept json
// @Produce json
// @Param heartbeat body hubservice.HeartbeatRequest true "Heartbeat payload"
// @Success 200 {object} hubservice.HeartbeatResult
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /iot/device-heartbeat [post]
// @Security BearerAuth
func (h *UploadHandlers) DeviceHeartbeat(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req hubservice.HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	result, err := h.hubservice.ProcessHeartbeat(r.Context(), &req)
	if err != nil {
		respondWithServiceError(w, requestID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
