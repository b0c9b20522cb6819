// FilePath: internal/events/events.normalizer_test.go
package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightpulse/scout-hub/internal/models"
)

func testNormalizer(stores *fakeStoreRepo, txs *fakeTransactionRepo) *Normalizer {
	if stores == nil {
		stores = &fakeStoreRepo{stores: map[int64]*models.Store{}}
	}
	if txs == nil {
		txs = &fakeTransactionRepo{}
	}
	cache := NewStoreCache(nil, stores, time.Minute)
	return NewNormalizer(cache, txs)
}

func TestNormalizeDeviceOfflineToOnline(t *testing.T) {
	n := testNormalizer(&fakeStoreRepo{stores: map[int64]*models.Store{
		7: {ID: 7, Name: "Aling Nena Store", City: "Quezon City", Region: "NCR"},
	}}, nil)

	payload := `{
		"op": "UPDATE",
		"old": {"device_id": "dev-001", "store_id": 7, "status": "offline"},
		"new": {"device_id": "dev-001", "store_id": 7, "status": "online"}
	}`

	change, err := n.NormalizeDevice(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.True(t, change.CameOnline, "offline to online is an online edge")
	assert.False(t, change.WentOffline)
	assert.Equal(t, models.DeviceOnline, change.Event.Status)
	assert.Equal(t, "Aling Nena Store", change.Event.Location.StoreName)
	assert.Equal(t, "NCR", change.Event.Location.Region)
}

func TestNormalizeDeviceOnlineToOnlineFiresNeitherEdge(t *testing.T) {
	n := testNormalizer(nil, nil)

	payload := `{
		"op": "UPDATE",
		"old": {"device_id": "dev-001", "store_id": 7, "status": "online"},
		"new": {"device_id": "dev-001", "store_id": 7, "status": "online"}
	}`

	change, err := n.NormalizeDevice(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.False(t, change.CameOnline)
	assert.False(t, change.WentOffline)
}

func TestNormalizeDeviceOnlineToOffline(t *testing.T) {
	n := testNormalizer(nil, nil)

	payload := `{
		"op": "UPDATE",
		"old": {"device_id": "dev-001", "store_id": 7, "status": "online"},
		"new": {"device_id": "dev-001", "store_id": 7, "status": "offline"}
	}`

	change, err := n.NormalizeDevice(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.False(t, change.CameOnline)
	assert.True(t, change.WentOffline)
}

func TestNormalizeDeviceInsertOnlineFiresOnlineEdge(t *testing.T) {
	n := testNormalizer(nil, nil)

	payload := `{
		"op": "INSERT",
		"old": null,
		"new": {"device_id": "dev-002", "store_id": 7, "status": "online"}
	}`

	change, err := n.NormalizeDevice(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.True(t, change.CameOnline)
	assert.False(t, change.WentOffline)
}

func TestNormalizeDeviceEnrichmentFailureStillDispatches(t *testing.T) {
	// Unknown store: location stays zero-valued but the event is returned.
	n := testNormalizer(&fakeStoreRepo{stores: map[int64]*models.Store{}}, nil)

	payload := `{
		"op": "UPDATE",
		"old": {"device_id": "dev-001", "store_id": 99, "status": "offline"},
		"new": {"device_id": "dev-001", "store_id": 99, "status": "online"}
	}`

	change, err := n.NormalizeDevice(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, change)

	assert.Equal(t, models.Location{}, change.Event.Location)
	assert.True(t, change.CameOnline)
}

func TestNormalizeDeviceDeleteIgnored(t *testing.T) {
	n := testNormalizer(nil, nil)

	payload := `{"op": "DELETE", "old": {"device_id": "dev-001"}, "new": null}`

	change, err := n.NormalizeDevice(context.Background(), payload)
	require.NoError(t, err)
	assert.Nil(t, change)
}

func TestNormalizeDeviceMalformedPayload(t *testing.T) {
	n := testNormalizer(nil, nil)

	_, err := n.NormalizeDevice(context.Background(), `not json`)
	assert.Error(t, err)
}

func TestNormalizeHealthInsert(t *testing.T) {
	n := testNormalizer(nil, nil)

	payload := `{
		"op": "INSERT",
		"old": null,
		"new": {"device_id": "dev-001", "cpu_usage": 97.2, "memory_usage": 40, "temperature": 55}
	}`

	sample, err := n.NormalizeHealth(payload)
	require.NoError(t, err)
	require.NotNil(t, sample)

	assert.Equal(t, "dev-001", sample.DeviceID)
	assert.Equal(t, 97.2, sample.CPUUsage)
}

func TestNormalizeHealthIgnoresUpdates(t *testing.T) {
	n := testNormalizer(nil, nil)

	payload := `{"op": "UPDATE", "old": {}, "new": {"device_id": "dev-001"}}`

	sample, err := n.NormalizeHealth(payload)
	require.NoError(t, err)
	assert.Nil(t, sample)
}

func TestNormalizeAlertInsertAndUpdate(t *testing.T) {
	n := testNormalizer(nil, nil)

	insert := `{"op": "INSERT", "new": {"alert_id": "alert_x", "device_id": "dev-001", "alert_type": "cpu_high", "severity": "critical", "status": "active"}}`
	alert, err := n.NormalizeAlert(insert)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, models.AlertCPUHigh, alert.AlertType)

	update := `{"op": "UPDATE", "old": {"status": "active"}, "new": {"alert_id": "alert_x", "device_id": "dev-001", "alert_type": "cpu_high", "severity": "critical", "status": "acknowledged"}}`
	alert, err = n.NormalizeAlert(update)
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, models.AlertAcknowledged, alert.Status)
}

func TestNormalizeTransactionAttachesItems(t *testing.T) {
	txs := &fakeTransactionRepo{items: map[string][]models.TransactionItem{
		"int-001": {
			{InteractionID: "int-001", BrandName: "Lucky Me", ProductName: "Pancit Canton", Quantity: 2, Confidence: 0.93},
		},
	}}
	n := testNormalizer(nil, txs)

	payload := `{
		"op": "INSERT",
		"new": {
			"interaction_id": "int-001",
			"device_id": "dev-001",
			"store_id": 7,
			"transaction_date": "2026-08-01T10:30:00Z",
			"facial_id": "face-22",
			"gender": "female",
			"age": 34,
			"emotional_state": "neutral",
			"transcription_text": "pabili po ng pancit canton"
		}
	}`

	event, err := n.NormalizeTransaction(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, event)

	assert.Equal(t, "int-001", event.InteractionID)
	assert.Equal(t, int64(7), event.StoreID)
	assert.Equal(t, "face-22", event.Customer.FacialID)
	assert.Equal(t, 34, event.Customer.Age)
	require.Len(t, event.Items, 1)
	assert.Equal(t, "Pancit Canton", event.Items[0].ProductName)
}

func TestNormalizeTransactionItemLookupFailureYieldsEmptyItems(t *testing.T) {
	txs := &fakeTransactionRepo{err: assert.AnError}
	n := testNormalizer(nil, txs)

	payload := `{"op": "INSERT", "new": {"interaction_id": "int-002", "device_id": "dev-001", "store_id": 7}}`

	event, err := n.NormalizeTransaction(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Empty(t, event.Items)
}
