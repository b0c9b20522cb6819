// FilePath: internal/repository/postgres/postgres.alert_test.go
package postgres

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
)

type mockDB struct {
	db *sqlx.DB
}

func (m *mockDB) Close() error                   { return m.db.Close() }
func (m *mockDB) Ping(ctx context.Context) error { return m.db.PingContext(ctx) }
func (m *mockDB) GetDB() *sqlx.DB                { return m.db }

func newMockDB(t *testing.T) (*mockDB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	// "postgres" driver name so sqlx rebinds named params to $1..$n
	db := sqlx.NewDb(raw, "postgres")
	t.Cleanup(func() { db.Close() })
	return &mockDB{db: db}, mock
}

func testAlert() *models.Alert {
	now := time.Now().UTC()
	return &models.Alert{
		AlertID:   "alert_cpu_1",
		DeviceID:  "dev-001",
		AlertType: models.AlertCPUHigh,
		Severity:  models.SeverityCritical,
		Message:   "Critical CPU usage: 97.0%",
		Status:    models.AlertActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateIfAbsentInsertsNewAlert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)
	alert := testAlert()

	mock.ExpectExec("INSERT INTO device_alerts").
		WithArgs(alert.AlertID, alert.DeviceID, alert.AlertType, alert.Severity,
			alert.Message, alert.Status, alert.CreatedAt, alert.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := repo.CreateIfAbsent(context.Background(), alert)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAbsentDropsDuplicateActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	// ON CONFLICT DO NOTHING: the partial index absorbs the insert
	mock.ExpectExec("INSERT INTO device_alerts").
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.CreateIfAbsent(context.Background(), testAlert())
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAbsentPropagatesDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	mock.ExpectExec("INSERT INTO device_alerts").
		WillReturnError(assert.AnError)

	inserted, err := repo.CreateIfAbsent(context.Background(), testAlert())
	assert.Error(t, err)
	assert.False(t, inserted)
}

func TestUpdateStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	mock.ExpectExec("UPDATE device_alerts SET status").
		WithArgs(models.AlertResolved, "alert_missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "alert_missing", models.AlertResolved)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateStatusMarksAcknowledged(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	mock.ExpectExec("UPDATE device_alerts SET status").
		WithArgs(models.AlertAcknowledged, "alert_cpu_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "alert_cpu_1", models.AlertAcknowledged)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveByDevice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"alert_id", "device_id", "alert_type", "severity", "message", "status", "created_at", "updated_at",
	}).AddRow("alert_cpu_1", "dev-001", "cpu_high", "critical", "Critical CPU usage: 97.0%", "active", now, now)

	mock.ExpectQuery("SELECT \\* FROM device_alerts WHERE device_id").
		WithArgs("dev-001").
		WillReturnRows(rows)

	alerts, err := repo.ListActiveByDevice(context.Background(), "dev-001")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertCPUHigh, alerts[0].AlertType)
	assert.Equal(t, models.AlertActive, alerts[0].Status)
}

func TestGetAlertNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	mock.ExpectQuery("SELECT \\* FROM device_alerts WHERE alert_id").
		WithArgs("alert_missing").
		WillReturnRows(sqlmock.NewRows([]string{"alert_id"}))

	_, err := repo.Get(context.Background(), "alert_missing")
	assert.True(t, errors.IsNotFound(err))
}
