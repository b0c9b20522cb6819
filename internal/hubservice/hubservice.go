// FilePath: internal/hubservice/hubservice.go
package hubservice

import (
	"context"

	"github.com/insightpulse/scout-hub/internal/cleanup"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/events"
	"github.com/insightpulse/scout-hub/internal/repository"
)

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Devices      repository.DeviceRepository
	Stores       repository.StoreRepository
	Health       repository.HealthRepository
	Alerts       repository.AlertRepository
	Transactions repository.TransactionRepository
	Commands     repository.CommandRepository
	Archive      repository.ArchiveRepository
	Cleanup      *cleanup.CleanupService

	evaluator   *events.Evaluator
	alertWriter *events.AlertWriter
}

// New creates a new HubService instance
func New(
	devices repository.DeviceRepository,
	stores repository.StoreRepository,
	health repository.HealthRepository,
	alerts repository.AlertRepository,
	transactions repository.TransactionRepository,
	commands repository.CommandRepository,
	archive repository.ArchiveRepository,
	evaluator *events.Evaluator,
) *HubService {
	svc := &HubService{
		Devices:      devices,
		Stores:       stores,
		Health:       health,
		Alerts:       alerts,
		Transactions: transactions,
		Commands:     commands,
		Archive:      archive,
		evaluator:    evaluator,
		alertWriter:  events.NewAlertWriter(alerts),
	}
	svc.Cleanup = cleanup.New(devices, health, alerts, transactions, commands, archive)
	return svc
}

// Validate checks if all required repositories are initialized
func (s *HubService) Validate() error {
	if s.Devices == nil {
		return ErrMissingRepository("devices")
	}
	if s.Stores == nil {
		return ErrMissingRepository("stores")
	}
	if s.Health == nil {
		return ErrMissingRepository("health")
	}
	if s.Alerts == nil {
		return ErrMissingRepository("alerts")
	}
	if s.Transactions == nil {
		return ErrMissingRepository("transactions")
	}
	if s.Commands == nil {
		return ErrMissingRepository("commands")
	}
	if s.Archive == nil {
		return ErrMissingRepository("archive")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

// GetUserRoles retrieves the caller's roles as set by the auth middleware.
func GetUserRoles(ctx context.Context) []string {
	if roles := ctx.Value("user_roles"); roles != nil {
		if r, ok := roles.([]string); ok {
			return r
		}
	}
	return []string{"guest"}
}
