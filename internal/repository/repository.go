// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// DeviceRepository defines the interface for device registry operations
type DeviceRepository interface {
	database.Repository
	Create(ctx context.Context, device *models.Device) error
	Get(ctx context.Context, id string) (*models.Device, error)
	GetByMAC(ctx context.Context, mac string) (*models.Device, error)
	Update(ctx context.Context, device *models.Device) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters models.DeviceFilters, offset, limit int) ([]*models.Device, error)
	UpdateHeartbeat(ctx context.Context, id string, at time.Time, status models.DeviceStatus) error
	UpdateFirmware(ctx context.Context, id string, version string) error
}

// StoreRepository resolves store metadata for event enrichment
type StoreRepository interface {
	Get(ctx context.Context, id int64) (*models.Store, error)
}

// HealthRepository defines the interface for health sample storage
type HealthRepository interface {
	database.Repository
	InsertSample(ctx context.Context, sample *models.HealthSample) error
	GetSamples(ctx context.Context, deviceID string, start, end time.Time) ([]models.HealthSample, error)
	GetLatestSample(ctx context.Context, deviceID string) (*models.HealthSample, error)
	GetAggregates(ctx context.Context, deviceID string, start, end time.Time, interval string) ([]models.HealthAggregate, error)
	DeleteByDeviceID(ctx context.Context, deviceID string) error
	DeleteOldData(ctx context.Context, before time.Time) error
}

// AlertRepository defines the interface for device alert operations.
// CreateIfAbsent is the dedup write: the insert lands against a partial
// unique index on (device_id, alert_type) WHERE status = 'active', and a
// conflicting insert reports inserted=false instead of an error.
type AlertRepository interface {
	database.Repository
	CreateIfAbsent(ctx context.Context, alert *models.Alert) (inserted bool, err error)
	Get(ctx context.Context, id string) (*models.Alert, error)
	List(ctx context.Context, filters models.AlertFilters, offset, limit int) ([]*models.Alert, error)
	ListActiveByDevice(ctx context.Context, deviceID string) ([]*models.Alert, error)
	UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error
	DeleteByDeviceID(ctx context.Context, deviceID string) error
}

// TransactionRepository defines the interface for sales interactions
type TransactionRepository interface {
	database.Repository
	Insert(ctx context.Context, tx *models.Transaction) error
	InsertItems(ctx context.Context, items []models.TransactionItem) error
	Get(ctx context.Context, interactionID string) (*models.Transaction, error)
	GetItems(ctx context.Context, interactionID string) ([]models.TransactionItem, error)
	CountByDevice(ctx context.Context, deviceID string) (int64, error)
	DeleteByDeviceID(ctx context.Context, deviceID string) error
}

// CommandRepository defines the interface for the device command channel
type CommandRepository interface {
	database.Repository
	Create(ctx context.Context, cmd *models.DeviceCommand) error
	ListByDevice(ctx context.Context, deviceID string, filters models.CommandFilters) ([]*models.DeviceCommand, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	DeleteByDeviceID(ctx context.Context, deviceID string) error
}

// ArchiveRepository stores accepted raw upload batches for audit/replay
type ArchiveRepository interface {
	Store(ctx context.Context, deviceID, batchID string, payload []byte) error
	DeleteByDeviceID(ctx context.Context, deviceID string) error
}
