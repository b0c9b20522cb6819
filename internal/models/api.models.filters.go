// FilePath: internal/models/api.models.filters.go
package models

import "time"

// DeviceFilters defines the available filter options for the device registry
type DeviceFilters struct {
	StoreID  int64        `json:"store_id" schema:"store_id"`
	Status   DeviceStatus `json:"status" schema:"status"`
	Active   *bool        `json:"active" schema:"active"`
	Firmware string       `json:"firmware_version" schema:"firmware_version"`
}

// AlertFilters defines the available filter options for alerts
type AlertFilters struct {
	DeviceID string        `json:"device_id" schema:"device_id"`
	Status   AlertStatus   `json:"status" schema:"status"`
	Severity AlertSeverity `json:"severity" schema:"severity"`
	Type     AlertType     `json:"alert_type" schema:"alert_type"`
	Since    *time.Time    `json:"since" schema:"since"`
}

// CommandFilters defines the available filter options for device commands
type CommandFilters struct {
	Status string `json:"status" schema:"status"`
}
