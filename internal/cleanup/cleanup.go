// FilePath: internal/cleanup/cleanup.go
package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/insightpulse/scout-hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// CleanupService coordinates the decommission cascade for a device: all
// dependent data goes first, the registry row last.
type CleanupService struct {
	devices      repository.DeviceRepository
	health       repository.HealthRepository
	alerts       repository.AlertRepository
	transactions repository.TransactionRepository
	commands     repository.CommandRepository
	archive      repository.ArchiveRepository
	events       *nuts.EventEmitter
}

// New creates a new CleanupService
func New(
	devices repository.DeviceRepository,
	health repository.HealthRepository,
	alerts repository.AlertRepository,
	transactions repository.TransactionRepository,
	commands repository.CommandRepository,
	archive repository.ArchiveRepository,
) *CleanupService {
	return &CleanupService{
		devices:      devices,
		health:       health,
		alerts:       alerts,
		transactions: transactions,
		commands:     commands,
		archive:      archive,
		events:       nuts.NewEventEmitter(),
	}
}

// DecommissionDevice deletes a device and all of its associated data.
// Health samples live in the telemetry database and archived batches on
// disk, so the cascade cannot be a single transaction; app-DB deletions
// run inside one, the rest are deleted first and are safe to re-run.
func (s *CleanupService) DecommissionDevice(ctx context.Context, deviceID string) error {
	if err := s.health.DeleteByDeviceID(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to delete health data: %w", err)
	}
	s.events.Emit("health.deleted", deviceID)

	if err := s.archive.DeleteByDeviceID(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to delete archived batches: %w", err)
	}
	s.events.Emit("archive.deleted", deviceID)

	tx, err := s.devices.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	if err := s.alerts.DeleteByDeviceID(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to delete alerts: %w", err)
	}
	s.events.Emit("alerts.deleted", deviceID)

	if err := s.commands.DeleteByDeviceID(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to delete commands: %w", err)
	}
	s.events.Emit("commands.deleted", deviceID)

	if err := s.transactions.DeleteByDeviceID(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to delete interactions: %w", err)
	}
	s.events.Emit("transactions.deleted", deviceID)

	if err := s.devices.Delete(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.events.Emit("device.deleted", deviceID)
	nuts.L.Infof("[Cleanup] Decommissioned device %s", deviceID)
	return nil
}

// PurgeOldHealthData removes raw health samples older than the cutoff.
// The hourly rollup is unaffected.
func (s *CleanupService) PurgeOldHealthData(ctx context.Context, before time.Time) error {
	if err := s.health.DeleteOldData(ctx, before); err != nil {
		return fmt.Errorf("failed to purge old health data: %w", err)
	}
	s.events.Emit("health.purged", before.Format(time.RFC3339))
	return nil
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id string)) {
	s.events.On(event, "cleanup_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}
