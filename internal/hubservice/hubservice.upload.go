// FilePath: internal/hubservice/hubservice.upload.go
package hubservice

import (
	"context"
	"time"

	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// BatchMetadata describes one device upload batch.
type BatchMetadata struct {
	BatchID          string    `json:"batch_id"`
	CreatedAt        time.Time `json:"created_at"`
	TransactionCount int       `json:"transaction_count"`
}

// UploadTransaction is one interaction as submitted by a device.
type UploadTransaction struct {
	InteractionID string                   `json:"interaction_id"`
	Timestamp     time.Time                `json:"timestamp"`
	Customer      models.CustomerData      `json:"customer_data"`
	Items         []models.TransactionItem `json:"items"`
	Transcript    string                   `json:"transcript"`
}

// UploadRequest is the device batch upload payload.
type UploadRequest struct {
	DeviceID      string               `json:"device_id"`
	StoreID       int64                `json:"store_id"`
	BatchMetadata BatchMetadata        `json:"batch_metadata"`
	Transactions  []UploadTransaction  `json:"transactions"`
	HealthMetrics *models.HealthSample `json:"health_metrics,omitempty"`
}

// UploadResult echoes what was accepted.
type UploadResult struct {
	DeviceID          string    `json:"device_id"`
	StoreID           int64     `json:"store_id"`
	BatchID           string    `json:"batch_id"`
	TransactionsCount int       `json:"transactions_count"`
	ProcessedAt       time.Time `json:"processed_at"`
}

// HeartbeatRequest is the lightweight device check-in payload.
type HeartbeatRequest struct {
	DeviceID        string               `json:"device_id"`
	Status          models.DeviceStatus  `json:"status"`
	FirmwareVersion string               `json:"firmware_version,omitempty"`
	HealthMetrics   *models.HealthSample `json:"health_metrics,omitempty"`
}

// HeartbeatResult carries the pending command queue back to the device so
// a separate poll round-trip is not required.
type HeartbeatResult struct {
	DeviceID        string                  `json:"device_id"`
	ReceivedAt      time.Time               `json:"received_at"`
	PendingCommands []*models.DeviceCommand `json:"pending_commands"`
}

// ProcessBatchUpload validates and ingests one device batch: transaction
// rows plus items, the raw batch archive, a heartbeat refresh, and an
// optional health sample with inline threshold evaluation.
//
// Resubmission is not idempotent: there is no dedup key on interactions,
// so replaying an identical batch inserts the same rows again.
func (s *HubService) ProcessBatchUpload(ctx context.Context, req *UploadRequest, raw []byte) (*UploadResult, error) {
	if req.DeviceID == "" {
		return nil, errors.NewValidationError("device_id is required", nil)
	}
	if req.StoreID == 0 {
		return nil, errors.NewValidationError("store_id is required", nil)
	}
	if len(req.Transactions) == 0 {
		return nil, errors.NewValidationError("transactions must not be empty", nil)
	}

	device, err := s.Devices.Get(ctx, req.DeviceID)
	if err != nil {
		return nil, err
	}
	if device.StoreID != req.StoreID {
		return nil, errors.NewAuthorizationError("device is not assigned to this store", nil)
	}
	if !device.Active {
		return nil, errors.NewAuthorizationError("device is not active", nil)
	}

	batchID := req.BatchMetadata.BatchID
	if batchID == "" {
		batchID = nuts.NID("batch", 12)
	}

	for i := range req.Transactions {
		upload := &req.Transactions[i]

		interactionID := upload.InteractionID
		if interactionID == "" {
			interactionID = nuts.NID("int", 12)
		}

		tx := &models.Transaction{
			InteractionID: interactionID,
			DeviceID:      req.DeviceID,
			StoreID:       req.StoreID,
			Timestamp:     upload.Timestamp,
			Customer:      upload.Customer,
			Transcript:    upload.Transcript,
		}
		if tx.Timestamp.IsZero() {
			tx.Timestamp = time.Now().UTC()
		}

		if err := s.Transactions.Insert(ctx, tx); err != nil {
			return nil, err
		}

		if len(upload.Items) > 0 {
			items := make([]models.TransactionItem, len(upload.Items))
			copy(items, upload.Items)
			for j := range items {
				items[j].InteractionID = interactionID
			}
			if err := s.Transactions.InsertItems(ctx, items); err != nil {
				return nil, err
			}
		}
	}

	// Archive failures never fail an accepted batch
	if err := s.Archive.Store(ctx, req.DeviceID, batchID, raw); err != nil {
		nuts.L.Warnf("[UploadService] Failed to archive batch %s for device %s: %v", batchID, req.DeviceID, err)
	}

	now := time.Now().UTC()
	if err := s.Devices.UpdateHeartbeat(ctx, req.DeviceID, now, models.DeviceOnline); err != nil {
		nuts.L.Warnf("[UploadService] Failed to update heartbeat for device %s: %v", req.DeviceID, err)
	}

	if req.HealthMetrics != nil {
		s.ingestHealthSample(ctx, req.DeviceID, req.HealthMetrics)
	}

	nuts.L.Infof("[UploadService] Processed batch %s from device %s: %d transactions", batchID, req.DeviceID, len(req.Transactions))

	return &UploadResult{
		DeviceID:          req.DeviceID,
		StoreID:           req.StoreID,
		BatchID:           batchID,
		TransactionsCount: len(req.Transactions),
		ProcessedAt:       now,
	}, nil
}

// ProcessHeartbeat handles a device check-in: heartbeat/status/firmware
// refresh, optional health sample, and the pending command queue.
func (s *HubService) ProcessHeartbeat(ctx context.Context, req *HeartbeatRequest) (*HeartbeatResult, error) {
	if req.DeviceID == "" {
		return nil, errors.NewValidationError("device_id is required", nil)
	}

	status := req.Status
	switch status {
	case "":
		status = models.DeviceOnline
	case models.DeviceOnline, models.DeviceOffline, models.DeviceMaintenance, models.DeviceError:
	default:
		return nil, errors.NewValidationError("invalid device status", nil)
	}

	if _, err := s.Devices.Get(ctx, req.DeviceID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.Devices.UpdateHeartbeat(ctx, req.DeviceID, now, status); err != nil {
		return nil, err
	}

	if req.FirmwareVersion != "" {
		if err := s.Devices.UpdateFirmware(ctx, req.DeviceID, req.FirmwareVersion); err != nil {
			nuts.L.Warnf("[UploadService] Failed to update firmware version for device %s: %v", req.DeviceID, err)
		}
	}

	if req.HealthMetrics != nil {
		s.ingestHealthSample(ctx, req.DeviceID, req.HealthMetrics)
	}

	pending, err := s.Commands.ListByDevice(ctx, req.DeviceID, models.CommandFilters{Status: "pending"})
	if err != nil {
		nuts.L.Warnf("[UploadService] Failed to list pending commands for device %s: %v", req.DeviceID, err)
		pending = []*models.DeviceCommand{}
	}

	return &HeartbeatResult{
		DeviceID:        req.DeviceID,
		ReceivedAt:      now,
		PendingCommands: pending,
	}, nil
}

// ingestHealthSample stores a sample and runs threshold evaluation inline.
// Failures are logged; health ingest never fails the enclosing request.
func (s *HubService) ingestHealthSample(ctx context.Context, deviceID string, sample *models.HealthSample) {
	sample.DeviceID = deviceID
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	}

	if err := s.Health.InsertSample(ctx, sample); err != nil {
		nuts.L.Warnf("[UploadService] Failed to insert health sample for device %s: %v", deviceID, err)
		return
	}

	for _, candidate := range s.evaluator.Evaluate(sample) {
		if _, err := s.alertWriter.Write(ctx, candidate); err != nil {
			nuts.L.Errorf("[UploadService] Failed to write alert for device %s: %v", deviceID, err)
		}
	}
}
