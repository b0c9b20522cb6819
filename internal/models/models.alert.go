// FilePath: internal/models/models.alert.go
package models

import "time"

// AlertType enumerates the health conditions the hub raises alerts for.
type AlertType string

const (
	AlertTemperature  AlertType = "temperature"
	AlertDiskFull     AlertType = "disk_full"
	AlertNetworkDown  AlertType = "network_down"
	AlertUploadFailed AlertType = "upload_failed"
	AlertCPUHigh      AlertType = "cpu_high"
	AlertMemoryHigh   AlertType = "memory_high"
)

// AlertSeverity grades an alert.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus is the operator-facing lifecycle of an alert.
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// Alert is one row in device_alerts. At most one active alert exists
// per (device_id, alert_type) pair, enforced by a partial unique index
// on the table; inserts that hit the index are silently dropped.
type Alert struct {
	AlertID   string        `json:"alert_id" db:"alert_id"`
	DeviceID  string        `json:"device_id" db:"device_id"`
	AlertType AlertType     `json:"alert_type" db:"alert_type"`
	Severity  AlertSeverity `json:"severity" db:"severity"`
	Message   string        `json:"message" db:"message"`
	Status    AlertStatus   `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}
