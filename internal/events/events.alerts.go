// FilePath: internal/events/events.alerts.go
package events

import (
	"context"
	"time"

	"github.com/insightpulse/scout-hub/internal/models"
	"github.com/insightpulse/scout-hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// AlertWriter persists alert candidates. Deduplication lives in the
// database: the insert lands against the partial unique index on
// (device_id, alert_type) WHERE status = 'active', so a candidate for an
// already-alerted condition is dropped without a read-check race. The
// existing alert keeps its original severity; escalation is not applied.
type AlertWriter struct {
	alerts repository.AlertRepository
}

func NewAlertWriter(alerts repository.AlertRepository) *AlertWriter {
	return &AlertWriter{alerts: alerts}
}

// Write inserts the candidate as an active alert. Returns true if a new
// row was created, false if an active alert of the same pair absorbed it.
func (w *AlertWriter) Write(ctx context.Context, c AlertCandidate) (bool, error) {
	now := time.Now().UTC()
	alert := &models.Alert{
		AlertID:   nuts.NID("alert", 12),
		DeviceID:  c.DeviceID,
		AlertType: c.Type,
		Severity:  c.Severity,
		Message:   c.Message,
		Status:    models.AlertActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	inserted, err := w.alerts.CreateIfAbsent(ctx, alert)
	if err != nil {
		return false, err
	}

	if !inserted {
		nuts.L.Debugf("[AlertWriter] Dropped duplicate %s alert for device %s", c.Type, c.DeviceID)
	} else {
		nuts.L.Infof("[AlertWriter] Created %s/%s alert for device %s: %s", c.Type, c.Severity, c.DeviceID, c.Message)
	}
	return inserted, nil
}
