// FilePath: internal/repository/postgres/postgres.alert.go
package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
)

type AlertRepo struct {
	PostgresBaseRepo
}

func NewAlertRepository(db database.DB) *AlertRepo {
	repo := &PostgresBaseRepo{db: db}
	return &AlertRepo{PostgresBaseRepo: *repo}
}

// CreateIfAbsent inserts an alert unless an active alert of the same
// (device_id, alert_type) already exists. The uniqueness is enforced by
// the partial unique index device_alerts_active_uniq; ON CONFLICT DO
// NOTHING turns the constraint hit into inserted=false, so concurrent
// evaluators cannot produce duplicate active alerts.
func (r *AlertRepo) CreateIfAbsent(ctx context.Context, alert *models.Alert) (bool, error) {
	query := `
		INSERT INTO device_alerts (
			alert_id, device_id, alert_type, severity, message, status,
			created_at, updated_at
		) VALUES (
			:alert_id, :device_id, :alert_type, :severity, :message, :status,
			:created_at, :updated_at
		)
		ON CONFLICT (device_id, alert_type) WHERE status = 'active' DO NOTHING`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, alert)
	if err != nil {
		return false, errors.NewDatabaseError("failed to create alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewDatabaseError("failed to get rows affected", err)
	}

	return rows > 0, nil
}

func (r *AlertRepo) Get(ctx context.Context, id string) (*models.Alert, error) {
	alert := &models.Alert{}
	query := `SELECT * FROM device_alerts WHERE alert_id = $1`

	err := r.db.GetDB().GetContext(ctx, alert, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("alert not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get alert", err)
	}
	return alert, nil
}

func (r *AlertRepo) List(ctx context.Context, filters models.AlertFilters, offset, limit int) ([]*models.Alert, error) {
	alerts := []*models.Alert{}
	query := `SELECT * FROM device_alerts WHERE 1=1`
	args := []interface{}{}

	if filters.DeviceID != "" {
		args = append(args, filters.DeviceID)
		query += ` AND device_id = $` + strconv.Itoa(len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filters.Severity != "" {
		args = append(args, filters.Severity)
		query += ` AND severity = $` + strconv.Itoa(len(args))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		query += ` AND alert_type = $` + strconv.Itoa(len(args))
	}
	if filters.Since != nil {
		args = append(args, *filters.Since)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}

	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	err := r.db.GetDB().SelectContext(ctx, &alerts, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list alerts", err)
	}

	return alerts, nil
}

func (r *AlertRepo) ListActiveByDevice(ctx context.Context, deviceID string) ([]*models.Alert, error) {
	alerts := []*models.Alert{}
	query := `SELECT * FROM device_alerts WHERE device_id = $1 AND status = 'active' ORDER BY created_at DESC`

	err := r.db.GetDB().SelectContext(ctx, &alerts, query, deviceID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list active alerts", err)
	}
	return alerts, nil
}

func (r *AlertRepo) UpdateStatus(ctx context.Context, id string, status models.AlertStatus) error {
	query := `UPDATE device_alerts SET status = $1, updated_at = NOW() WHERE alert_id = $2`

	result, err := r.db.GetDB().ExecContext(ctx, query, status, id)
	if err != nil {
		return errors.NewDatabaseError("failed to update alert status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("alert not found", nil)
	}

	return nil
}

func (r *AlertRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	query := `DELETE FROM device_alerts WHERE device_id = $1`

	_, err := r.db.GetDB().ExecContext(ctx, query, deviceID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete device alerts", err)
	}
	return nil
}
