// FilePath: internal/models/models.composite.go
package models

import "time"

// DeviceStatusReport combines a device with its latest telemetry and any
// active alerts, as served by the dashboard status endpoint.
type DeviceStatusReport struct {
	Device       *Device       `json:"device"`
	Location     Location      `json:"location"`
	LatestHealth *HealthSample `json:"latest_health,omitempty"`
	ActiveAlerts []*Alert      `json:"active_alerts"`
	OnlineStatus string        `json:"online_status"`
	LastActivity time.Time     `json:"last_activity"`
}
