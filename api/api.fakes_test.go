// FilePath: api/api.fakes_test.go
package api

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
)

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }
func (fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

type memDeviceRepo struct {
	mu      sync.Mutex
	devices map[string]*models.Device
}

func newMemDeviceRepo() *memDeviceRepo {
	return &memDeviceRepo{devices: map[string]*models.Device{}}
}

func (r *memDeviceRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return fakeTx{}, nil
}

func (r *memDeviceRepo) Create(ctx context.Context, device *models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.devices[device.DeviceID]; exists {
		return errors.NewConflictError("device already exists", nil)
	}
	cp := *device
	r.devices[device.DeviceID] = &cp
	return nil
}

func (r *memDeviceRepo) Get(ctx context.Context, id string) (*models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	device, ok := r.devices[id]
	if !ok {
		return nil, errors.NewNotFoundError("device not found", nil)
	}
	cp := *device
	return &cp, nil
}

func (r *memDeviceRepo) GetByMAC(ctx context.Context, mac string) (*models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, device := range r.devices {
		if device.MACAddress == mac {
			cp := *device
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("device not found", nil)
}

func (r *memDeviceRepo) Update(ctx context.Context, device *models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[device.DeviceID]; !ok {
		return errors.NewNotFoundError("device not found", nil)
	}
	cp := *device
	r.devices[device.DeviceID] = &cp
	return nil
}

func (r *memDeviceRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[id]; !ok {
		return errors.NewNotFoundError("device not found", nil)
	}
	delete(r.devices, id)
	return nil
}

func (r *memDeviceRepo) List(ctx context.Context, filters models.DeviceFilters, offset, limit int) ([]*models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Device{}
	for _, device := range r.devices {
		if filters.StoreID != 0 && device.StoreID != filters.StoreID {
			continue
		}
		if filters.Status != "" && device.Status != filters.Status {
			continue
		}
		cp := *device
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memDeviceRepo) UpdateHeartbeat(ctx context.Context, id string, at time.Time, status models.DeviceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	device, ok := r.devices[id]
	if !ok {
		return errors.NewNotFoundError("device not found", nil)
	}
	device.LastHeartbeat = at
	device.Status = status
	return nil
}

func (r *memDeviceRepo) UpdateFirmware(ctx context.Context, id string, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	device, ok := r.devices[id]
	if !ok {
		return errors.NewNotFoundError("device not found", nil)
	}
	device.FirmwareVersion = version
	return nil
}

type memStoreRepo struct {
	stores map[int64]*models.Store
}

func (r *memStoreRepo) Get(ctx context.Context, id int64) (*models.Store, error) {
	store, ok := r.stores[id]
	if !ok {
		return nil, errors.NewNotFoundError("store not found", nil)
	}
	return store, nil
}

type memHealthRepo struct {
	mu      sync.Mutex
	samples []models.HealthSample
}

func (r *memHealthRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return fakeTx{}, nil
}

func (r *memHealthRepo) InsertSample(ctx context.Context, sample *models.HealthSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, *sample)
	return nil
}

func (r *memHealthRepo) GetSamples(ctx context.Context, deviceID string, start, end time.Time) ([]models.HealthSample, error) {
	return nil, nil
}

func (r *memHealthRepo) GetLatestSample(ctx context.Context, deviceID string) (*models.HealthSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.samples) - 1; i >= 0; i-- {
		if r.samples[i].DeviceID == deviceID {
			cp := r.samples[i]
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("no samples", nil)
}

func (r *memHealthRepo) GetAggregates(ctx context.Context, deviceID string, start, end time.Time, interval string) ([]models.HealthAggregate, error) {
	return nil, nil
}

func (r *memHealthRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.samples[:0]
	for _, s := range r.samples {
		if s.DeviceID != deviceID {
			kept = append(kept, s)
		}
	}
	r.samples = kept
	return nil
}

func (r *memHealthRepo) DeleteOldData(ctx context.Context, before time.Time) error {
	return nil
}

func (r *memHealthRepo) count(deviceID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.samples {
		if s.DeviceID == deviceID {
			n++
		}
	}
	return n
}

type memAlertRepo struct {
	mu     sync.Mutex
	alerts []*models.Alert
}

func (r *memAlertRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return fakeTx{}, nil
}

func (r *memAlertRepo) CreateIfAbsent(ctx context.Context, alert *models.Alert) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.alerts {
		if existing.DeviceID == alert.DeviceID && existing.AlertType == alert.AlertType && existing.Status == models.AlertActive {
			return false, nil
		}
	}
	cp := *alert
	r.alerts = append(r.alerts, &cp)
	return true, nil
}

func (r *memAlertRepo) Get(ctx context.Context, id string) (*models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.AlertID == id {
			return alert, nil
		}
	}
	return nil, errors.NewNotFoundError("alert not found", nil)
}

func (r *memAlertRepo) List(ctx context.Context, filters models.AlertFilters, offset, limit int) ([]*models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Alert{}
	for _, alert := range r.alerts {
		if filters.DeviceID != "" && alert.DeviceID != filters.DeviceID {
			continue
		}
		if filters.Status != "" && alert.Status != filters.Status {
			continue
		}
		out = append(out, alert)
	}
	return out, nil
}

func (r *memAlertRepo) ListActiveByDevice(ctx context.Context, deviceID string) ([]*models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Alert{}
	for _, alert := range r.alerts {
		if alert.DeviceID == deviceID && alert.Status == models.AlertActive {
			out = append(out, alert)
		}
	}
	return out, nil
}

func (r *memAlertRepo) UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.AlertID == id {
			alert.Status = status
			return nil
		}
	}
	return errors.NewNotFoundError("alert not found", nil)
}

func (r *memAlertRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	return nil
}

type memTransactionRepo struct {
	mu           sync.Mutex
	transactions []*models.Transaction
	items        map[string][]models.TransactionItem
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{items: map[string][]models.TransactionItem{}}
}

func (r *memTransactionRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return fakeTx{}, nil
}

// Insert appends unconditionally, like the real table: no dedup key.
func (r *memTransactionRepo) Insert(ctx context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tx
	r.transactions = append(r.transactions, &cp)
	return nil
}

func (r *memTransactionRepo) InsertItems(ctx context.Context, items []models.TransactionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		r.items[item.InteractionID] = append(r.items[item.InteractionID], item)
	}
	return nil
}

func (r *memTransactionRepo) Get(ctx context.Context, interactionID string) (*models.Transaction, error) {
	return nil, errors.NewNotFoundError("interaction not found", nil)
}

func (r *memTransactionRepo) GetItems(ctx context.Context, interactionID string) ([]models.TransactionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[interactionID], nil
}

func (r *memTransactionRepo) CountByDevice(ctx context.Context, deviceID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, tx := range r.transactions {
		if tx.DeviceID == deviceID {
			n++
		}
	}
	return n, nil
}

func (r *memTransactionRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	return nil
}

type memCommandRepo struct {
	mu       sync.Mutex
	commands []*models.DeviceCommand
}

func (r *memCommandRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return fakeTx{}, nil
}

func (r *memCommandRepo) Create(ctx context.Context, cmd *models.DeviceCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cmd
	r.commands = append(r.commands, &cp)
	return nil
}

func (r *memCommandRepo) ListByDevice(ctx context.Context, deviceID string, filters models.CommandFilters) ([]*models.DeviceCommand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.DeviceCommand{}
	for _, cmd := range r.commands {
		if cmd.DeviceID != deviceID {
			continue
		}
		if filters.Status != "" && cmd.Status != filters.Status {
			continue
		}
		out = append(out, cmd)
	}
	return out, nil
}

func (r *memCommandRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cmd := range r.commands {
		if cmd.CommandID == id {
			cmd.Status = status
			return nil
		}
	}
	return errors.NewNotFoundError("command not found", nil)
}

func (r *memCommandRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	return nil
}

type memArchiveRepo struct {
	mu      sync.Mutex
	batches map[string][]byte
}

func newMemArchiveRepo() *memArchiveRepo {
	return &memArchiveRepo{batches: map[string][]byte{}}
}

func (r *memArchiveRepo) Store(ctx context.Context, deviceID, batchID string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[deviceID+"/"+batchID] = payload
	return nil
}

func (r *memArchiveRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	return nil
}
