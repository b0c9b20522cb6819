// FilePath: internal/events/events.thresholds.go
package events

import (
	"fmt"

	"github.com/insightpulse/scout-hub/internal/config"
	"github.com/insightpulse/scout-hub/internal/models"
)

// AlertCandidate is one threshold violation found in a health sample. It
// becomes an alert row only if no active alert of the same (device, type)
// pair already exists.
type AlertCandidate struct {
	DeviceID string
	Type     models.AlertType
	Severity models.AlertSeverity
	Message  string
}

// Evaluator checks health samples against the configured alert bands.
// Evaluation is stateless; repeated violations for the same condition are
// absorbed downstream by the alert writer's dedup insert.
type Evaluator struct {
	t config.ThresholdConfig
}

func NewEvaluator(t config.ThresholdConfig) *Evaluator {
	return &Evaluator{t: t}
}

// Evaluate returns at most one candidate per band. A sample at or above
// the critical cutoff yields a critical candidate, otherwise at or above
// the high cutoff yields a high one. Multiple bands may fire for a single
// sample. Network latency has a single high-severity cutoff.
func (e *Evaluator) Evaluate(s *models.HealthSample) []AlertCandidate {
	var candidates []AlertCandidate

	switch {
	case s.CPUUsage >= e.t.CPUCritical:
		candidates = append(candidates, AlertCandidate{
			DeviceID: s.DeviceID,
			Type:     models.AlertCPUHigh,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("Critical CPU usage: %.1f%%", s.CPUUsage),
		})
	case s.CPUUsage >= e.t.CPUHigh:
		candidates = append(candidates, AlertCandidate{
			DeviceID: s.DeviceID,
			Type:     models.AlertCPUHigh,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("High CPU usage: %.1f%%", s.CPUUsage),
		})
	}

	switch {
	case s.MemoryUsage >= e.t.MemoryCritical:
		candidates = append(candidates, AlertCandidate{
			DeviceID: s.DeviceID,
			Type:     models.AlertMemoryHigh,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("Critical memory usage: %.1f%%", s.MemoryUsage),
		})
	case s.MemoryUsage >= e.t.MemoryHigh:
		candidates = append(candidates, AlertCandidate{
			DeviceID: s.DeviceID,
			Type:     models.AlertMemoryHigh,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("High memory usage: %.1f%%", s.MemoryUsage),
		})
	}

	switch {
	case s.Temperature >= e.t.TemperatureCritical:
		candidates = append(candidates, AlertCandidate{
			DeviceID: s.DeviceID,
			Type:     models.AlertTemperature,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("Critical temperature: %.1f°C", s.Temperature),
		})
	case s.Temperature >= e.t.TemperatureHigh:
		candidates = append(candidates, AlertCandidate{
			DeviceID: s.DeviceID,
			Type:     models.AlertTemperature,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("High temperature: %.1f°C", s.Temperature),
		})
	}

	switch {
	case s.DiskUsage >= e.t.DiskCritical:
		candidates = append(candidates, AlertCandidate{
			DeviceID: s.DeviceID,
			Type:     models.AlertDiskFull,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("Critical disk usage: %.1f%%", s.DiskUsage),
		})
	case s.DiskUsage >= e.t.DiskHigh:
		candidates = append(candidates, AlertCandidate{
			DeviceID: s.DeviceID,
			Type:     models.AlertDiskFull,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("High disk usage: %.1f%%", s.DiskUsage),
		})
	}

	if s.NetworkLatencyMS >= e.t.NetworkLatencyMS {
		candidates = append(candidates, AlertCandidate{
			DeviceID: s.DeviceID,
			Type:     models.AlertNetworkDown,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("High network latency: %.0fms", s.NetworkLatencyMS),
		})
	}

	return candidates
}
