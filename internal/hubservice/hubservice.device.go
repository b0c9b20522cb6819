// FilePath: internal/hubservice/hubservice.device.go
package hubservice

import (
	"context"
	"regexp"
	"time"

	"github.com/itsatony/struccy"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

var macAddressPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)

// RegisterDevice registers a new edge device against an existing store.
func (s *HubService) RegisterDevice(ctx context.Context, device *models.Device) error {
	if device.MACAddress == "" {
		return errors.NewValidationError("mac_address is required", nil)
	}
	if !macAddressPattern.MatchString(device.MACAddress) {
		return errors.NewValidationError("mac_address is not a valid MAC address", nil)
	}
	if device.StoreID == 0 {
		return errors.NewValidationError("store_id is required", nil)
	}

	// The assigned store must exist before a device can report against it
	if _, err := s.Stores.Get(ctx, device.StoreID); err != nil {
		if errors.IsNotFound(err) {
			return errors.NewValidationError("store does not exist", err)
		}
		return err
	}

	if existing, err := s.Devices.GetByMAC(ctx, device.MACAddress); err == nil && existing != nil {
		return errors.NewConflictError("device with this MAC address is already registered", nil)
	}

	if device.DeviceID == "" {
		device.DeviceID = nuts.NID("dev", 12)
	}

	now := time.Now().UTC()
	device.CreatedAt = now
	device.UpdatedAt = now
	device.LastHeartbeat = now
	device.Active = true
	if device.Status == "" {
		device.Status = models.DeviceOffline
	}

	nuts.L.Infof("[DeviceService] Registering device %s for store %d", device.DeviceID, device.StoreID)
	return s.Devices.Create(ctx, device)
}

// GetDevice retrieves a device with role-based field filtering
func (s *HubService) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	device, err := s.Devices.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	roles := GetUserRoles(ctx)

	filteredMap, err := struccy.StructToMapFieldsWithReadXS(device, roles)
	if err != nil {
		return nil, errors.NewInternalError("failed to filter device fields", err)
	}
	filtered := &models.Device{}
	_, err = struccy.MergeMapStringFieldsToStruct(filtered, filteredMap, roles)
	if err != nil {
		return nil, errors.NewInternalError("failed to map filtered fields to device struct", err)
	}

	return filtered, nil
}

// UpdateDevice updates an existing device with role-based access control
func (s *HubService) UpdateDevice(ctx context.Context, device *models.Device) error {
	existing, err := s.Devices.Get(ctx, device.DeviceID)
	if err != nil {
		return err
	}

	roles := GetUserRoles(ctx)

	updatedFields, _, err := struccy.UpdateStructFields(existing, device, roles, true, true)
	if err != nil {
		return errors.NewAuthorizationError("unauthorized field update", err)
	}

	device.UpdatedAt = time.Now().UTC()

	nuts.L.Infof("[DeviceService] Updating device %s, fields changed: %v", device.DeviceID, updatedFields)
	return s.Devices.Update(ctx, device)
}

// ListDevices retrieves a paginated, filtered device list with role-based
// field filtering
func (s *HubService) ListDevices(ctx context.Context, filters models.DeviceFilters, offset, limit int) ([]*models.Device, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	devices, err := s.Devices.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, err
	}

	roles := GetUserRoles(ctx)
	filtered := make([]*models.Device, 0, len(devices))

	for _, device := range devices {
		filteredMap, err := struccy.StructToMapFieldsWithReadXS(device, roles)
		if err != nil {
			nuts.L.Warnf("[DeviceService] Failed to filter device %s: %v", device.DeviceID, err)
			continue
		}
		filteredDevice := &models.Device{}
		_, err = struccy.MergeMapStringFieldsToStruct(filteredDevice, filteredMap, roles)
		if err != nil {
			nuts.L.Warnf("[DeviceService] Failed to map filtered fields for device %s: %v", device.DeviceID, err)
			continue
		}
		filtered = append(filtered, filteredDevice)
	}

	return filtered, nil
}

// GetDeviceStatus builds the dashboard status composite: device, store
// location, latest health sample, and open alerts.
func (s *HubService) GetDeviceStatus(ctx context.Context, id string) (*models.DeviceStatusReport, error) {
	device, err := s.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &models.DeviceStatusReport{
		Device:       device,
		ActiveAlerts: []*models.Alert{},
		OnlineStatus: determineOnlineStatus(device.LastHeartbeat),
		LastActivity: device.LastHeartbeat,
	}

	if store, err := s.Stores.Get(ctx, device.StoreID); err != nil {
		nuts.L.Warnf("[DeviceService] Failed to resolve store %d for device %s: %v", device.StoreID, id, err)
	} else {
		report.Location = models.Location{StoreName: store.Name, City: store.City, Region: store.Region}
	}

	if latest, err := s.Health.GetLatestSample(ctx, id); err != nil {
		nuts.L.Warnf("[DeviceService] Failed to get latest health sample for device %s: %v", id, err)
	} else {
		report.LatestHealth = latest
		if latest.Timestamp.After(report.LastActivity) {
			report.LastActivity = latest.Timestamp
		}
	}

	if alerts, err := s.Alerts.ListActiveByDevice(ctx, id); err != nil {
		nuts.L.Warnf("[DeviceService] Failed to list active alerts for device %s: %v", id, err)
	} else {
		report.ActiveAlerts = alerts
	}

	return report, nil
}

// DecommissionDevice removes a device and cascades over all of its data.
func (s *HubService) DecommissionDevice(ctx context.Context, id string) error {
	if _, err := s.Devices.Get(ctx, id); err != nil {
		return err
	}

	nuts.L.Infof("[DeviceService] Decommissioning device %s", id)
	return s.Cleanup.DecommissionDevice(ctx, id)
}

// SendDeviceCommand inserts a pending command row for device-side polling.
// Fire-and-forget: there is no delivery confirmation.
func (s *HubService) SendDeviceCommand(ctx context.Context, deviceID string, commandType models.CommandType, parameters models.JSON) (*models.DeviceCommand, error) {
	switch commandType {
	case models.CommandRestart, models.CommandUpdateFirmware, models.CommandAdjustSettings, models.CommandRunDiagnostics:
	default:
		return nil, errors.NewValidationError("unknown command type", nil)
	}

	if _, err := s.Devices.Get(ctx, deviceID); err != nil {
		return nil, err
	}

	cmd := &models.DeviceCommand{
		CommandID:   nuts.NID("cmd", 12),
		DeviceID:    deviceID,
		CommandType: commandType,
		Parameters:  parameters,
		Status:      "pending",
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Commands.Create(ctx, cmd); err != nil {
		return nil, err
	}

	nuts.L.Infof("[DeviceService] Queued %s command %s for device %s", commandType, cmd.CommandID, deviceID)
	return cmd, nil
}

// ListDeviceCommands returns a device's command queue, optionally filtered
// by status (device-side polling uses status=pending).
func (s *HubService) ListDeviceCommands(ctx context.Context, deviceID string, filters models.CommandFilters) ([]*models.DeviceCommand, error) {
	if _, err := s.Devices.Get(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.Commands.ListByDevice(ctx, deviceID, filters)
}

// ListAlerts returns alerts matching the given filters.
func (s *HubService) ListAlerts(ctx context.Context, filters models.AlertFilters, offset, limit int) ([]*models.Alert, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Alerts.List(ctx, filters, offset, limit)
}

// AcknowledgeAlert marks an alert as seen by an operator. Acknowledged
// alerts leave the active set, so the same condition may alert again.
func (s *HubService) AcknowledgeAlert(ctx context.Context, id string) error {
	return s.Alerts.UpdateStatus(ctx, id, models.AlertAcknowledged)
}

// ResolveAlert closes an alert.
func (s *HubService) ResolveAlert(ctx context.Context, id string) error {
	return s.Alerts.UpdateStatus(ctx, id, models.AlertResolved)
}

// determineOnlineStatus derives the coarse presence state from the last
// heartbeat: fresh heartbeats are online, stale ones degrade to away and
// then offline.
func determineOnlineStatus(lastHeartbeat time.Time) string {
	sinceLastHeartbeat := time.Since(lastHeartbeat)

	switch {
	case sinceLastHeartbeat < 5*time.Minute:
		return "online"
	case sinceLastHeartbeat < 15*time.Minute:
		return "away"
	default:
		return "offline"
	}
}
