// FilePath: internal/models/models.health.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSON is a wrapper around map[string]interface{} for database storage
type JSON map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &j)
}

// HealthSample is one point-in-time snapshot of a device's resource
// utilization. Samples are immutable once written; one row per
// reporting interval per device.
type HealthSample struct {
	DeviceID         string    `json:"device_id" db:"device_id"`
	Timestamp        time.Time `json:"timestamp" db:"timestamp"`
	CPUUsage         float64   `json:"cpu_usage" db:"cpu_usage"`
	MemoryUsage      float64   `json:"memory_usage" db:"memory_usage"`
	DiskUsage        float64   `json:"disk_usage" db:"disk_usage"`
	Temperature      float64   `json:"temperature" db:"temperature"`
	NetworkLatencyMS float64   `json:"network_latency_ms" db:"network_latency_ms"`
	AudioInputLevel  float64   `json:"audio_input_level" db:"audio_input_level"`
	UptimeSeconds    int64     `json:"uptime_seconds" db:"uptime_seconds"`
	ErrorCount24h    int       `json:"error_count_24h" db:"error_count_24h"`
}

// HealthAggregate is a bucketed rollup of health samples for one device.
type HealthAggregate struct {
	DeviceID       string    `json:"device_id" db:"device_id"`
	Bucket         time.Time `json:"bucket" db:"bucket"`
	AvgCPU         float64   `json:"avg_cpu" db:"avg_cpu"`
	MaxCPU         float64   `json:"max_cpu" db:"max_cpu"`
	AvgMemory      float64   `json:"avg_memory" db:"avg_memory"`
	MaxTemperature float64   `json:"max_temperature" db:"max_temperature"`
	AvgLatencyMS   float64   `json:"avg_latency_ms" db:"avg_latency_ms"`
	SampleCount    int       `json:"sample_count" db:"sample_count"`
}
