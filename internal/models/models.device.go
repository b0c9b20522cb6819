// FilePath: internal/models/models.device.go
package models

import "time"

// DeviceStatus is the lifecycle status reported by an edge device.
type DeviceStatus string

const (
	DeviceOnline      DeviceStatus = "online"
	DeviceOffline     DeviceStatus = "offline"
	DeviceMaintenance DeviceStatus = "maintenance"
	DeviceError       DeviceStatus = "error"
)

// Device is one registered edge device in device_master.
// Location is never stored on the row; it is resolved from the
// assigned store during event enrichment.
type Device struct {
	DeviceID        string       `json:"device_id" db:"device_id"`
	StoreID         int64        `json:"store_id" db:"store_id"`
	MACAddress      string       `json:"mac_address" db:"mac_address"`
	Status          DeviceStatus `json:"status" db:"status"`
	Active          bool         `json:"active" db:"active"`
	LastHeartbeat   time.Time    `json:"last_heartbeat" db:"last_heartbeat"`
	FirmwareVersion string       `json:"firmware_version" db:"firmware_version"`
	HardwareRev     string       `json:"hardware_revision" db:"hardware_revision"`
	InstallerName   string       `json:"installer_name,omitempty" db:"installer_name" readxs:"admin,system"`
	APIKeyHash      string       `json:"-" db:"api_key_hash" readxs:"system" writexs:"system"`
	NetworkType     string       `json:"network_type" db:"network_type" readxs:"admin,system,device" writexs:"admin,system,device"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}

// Store is the sari-sari store a device is installed in.
type Store struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Barangay string `json:"barangay" db:"barangay"`
	City     string `json:"city" db:"city"`
	Region   string `json:"region" db:"region"`
}

// Location is the store metadata denormalized onto device events.
type Location struct {
	StoreName string `json:"store_name"`
	City      string `json:"city"`
	Region    string `json:"region"`
}

// DeviceEvent is a fully enriched device change event as dispatched to
// hub consumers. Events are built complete before dispatch; consumers
// never observe a partially populated Location.
type DeviceEvent struct {
	Device
	Location Location `json:"location"`
}

// CommandType enumerates the commands a device will act on.
type CommandType string

const (
	CommandRestart        CommandType = "restart"
	CommandUpdateFirmware CommandType = "update_firmware"
	CommandAdjustSettings CommandType = "adjust_settings"
	CommandRunDiagnostics CommandType = "run_diagnostics"
)

// DeviceCommand is a pending command row picked up by device-side polling.
// There is no acknowledgement protocol; status moves past "pending" only
// when the device reports back on its next poll cycle.
type DeviceCommand struct {
	CommandID   string      `json:"command_id" db:"command_id"`
	DeviceID    string      `json:"device_id" db:"device_id"`
	CommandType CommandType `json:"command_type" db:"command_type"`
	Parameters  JSON        `json:"parameters,omitempty" db:"parameters"`
	Status      string      `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}
