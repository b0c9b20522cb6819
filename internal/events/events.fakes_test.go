// FilePath: internal/events/events.fakes_test.go
package events

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/models"
	"github.com/insightpulse/scout-hub/internal/repository"
)

type fakeStoreRepo struct {
	stores map[int64]*models.Store
	err    error
	calls  int
}

func (f *fakeStoreRepo) Get(ctx context.Context, id int64) (*models.Store, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	store, ok := f.stores[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return store, nil
}

type fakeTransactionRepo struct {
	items map[string][]models.TransactionItem
	err   error
}

func (f *fakeTransactionRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactionRepo) Insert(ctx context.Context, tx *models.Transaction) error {
	return nil
}

func (f *fakeTransactionRepo) InsertItems(ctx context.Context, items []models.TransactionItem) error {
	return nil
}

func (f *fakeTransactionRepo) Get(ctx context.Context, interactionID string) (*models.Transaction, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeTransactionRepo) GetItems(ctx context.Context, interactionID string) ([]models.TransactionItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[interactionID], nil
}

func (f *fakeTransactionRepo) CountByDevice(ctx context.Context, deviceID string) (int64, error) {
	return 0, nil
}

func (f *fakeTransactionRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	return nil
}

// fakeAlertRepo mimics the partial unique index: one active alert per
// (device_id, alert_type) pair.
type fakeAlertRepo struct {
	mu      sync.Mutex
	active  map[string]*models.Alert
	inserts int
	err     error
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{active: map[string]*models.Alert{}}
}

func (f *fakeAlertRepo) key(deviceID string, alertType models.AlertType) string {
	return deviceID + "|" + string(alertType)
}

func (f *fakeAlertRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	return nil, nil
}

func (f *fakeAlertRepo) CreateIfAbsent(ctx context.Context, alert *models.Alert) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	k := f.key(alert.DeviceID, alert.AlertType)
	if _, exists := f.active[k]; exists {
		return false, nil
	}
	f.active[k] = alert
	f.inserts++
	return true, nil
}

func (f *fakeAlertRepo) Get(ctx context.Context, id string) (*models.Alert, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeAlertRepo) List(ctx context.Context, filters models.AlertFilters, offset, limit int) ([]*models.Alert, error) {
	return nil, nil
}

func (f *fakeAlertRepo) ListActiveByDevice(ctx context.Context, deviceID string) ([]*models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Alert
	for _, a := range f.active {
		if a.DeviceID == deviceID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlertRepo) UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error {
	return nil
}

func (f *fakeAlertRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	return nil
}

// fakeListener is an in-memory stand-in for the pq listener.
type fakeListener struct {
	mu        sync.Mutex
	listening map[string]bool
	listenErr error
	notify    chan *pq.Notification
	closed    bool
}

func newFakeListener() *fakeListener {
	return &fakeListener{
		listening: map[string]bool{},
		notify:    make(chan *pq.Notification, 16),
	}
}

func (f *fakeListener) Listen(channel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listenErr != nil {
		return f.listenErr
	}
	f.listening[channel] = true
	return nil
}

func (f *fakeListener) Unlisten(channel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.listening, channel)
	return nil
}

func (f *fakeListener) NotificationChannel() <-chan *pq.Notification {
	return f.notify
}

func (f *fakeListener) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.notify)
	}
	return nil
}

func (f *fakeListener) send(channel, payload string) {
	f.notify <- &pq.Notification{Channel: channel, Extra: payload}
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}
