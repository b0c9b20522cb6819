// FilePath: internal/repository/postgres/postgres.device.go
package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
	"github.com/lib/pq"
)

type DeviceRepo struct {
	PostgresBaseRepo
}

func NewDeviceRepository(db database.DB) *DeviceRepo {
	repo := &PostgresBaseRepo{db: db}
	return &DeviceRepo{PostgresBaseRepo: *repo}
}

func (r *DeviceRepo) Create(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO device_master (
			device_id, store_id, mac_address, status, active,
			last_heartbeat, firmware_version, hardware_revision,
			installer_name, api_key_hash, network_type,
			created_at, updated_at
		) VALUES (
			:device_id, :store_id, :mac_address, :status, :active,
			:last_heartbeat, :firmware_version, :hardware_revision,
			:installer_name, :api_key_hash, :network_type,
			:created_at, :updated_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, device)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.NewConflictError("device already registered", err)
		}
		return errors.NewDatabaseError("failed to create device", err)
	}
	return nil
}

func (r *DeviceRepo) Get(ctx context.Context, id string) (*models.Device, error) {
	device := &models.Device{}
	query := `SELECT * FROM device_master WHERE device_id = $1`

	err := r.db.GetDB().GetContext(ctx, device, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("device not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get device", err)
	}
	return device, nil
}

func (r *DeviceRepo) GetByMAC(ctx context.Context, mac string) (*models.Device, error) {
	device := &models.Device{}
	query := `SELECT * FROM device_master WHERE mac_address = $1`

	err := r.db.GetDB().GetContext(ctx, device, query, mac)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("device not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get device by mac", err)
	}
	return device, nil
}

func (r *DeviceRepo) Update(ctx context.Context, device *models.Device) error {
	query := `
		UPDATE device_master SET
			store_id = :store_id,
			status = :status,
			active = :active,
			firmware_version = :firmware_version,
			hardware_revision = :hardware_revision,
			installer_name = :installer_name,
			network_type = :network_type,
			updated_at = :updated_at
		WHERE device_id = :device_id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, device)
	if err != nil {
		return errors.NewDatabaseError("failed to update device", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}

	return nil
}

func (r *DeviceRepo) UpdateHeartbeat(ctx context.Context, id string, at time.Time, status models.DeviceStatus) error {
	query := `UPDATE device_master SET last_heartbeat = $1, status = $2, updated_at = $1 WHERE device_id = $3`
	result, err := r.db.GetDB().ExecContext(ctx, query, at, status, id)
	if err != nil {
		return errors.NewDatabaseError("failed to update heartbeat", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}
	return nil
}

func (r *DeviceRepo) UpdateFirmware(ctx context.Context, id string, version string) error {
	query := `UPDATE device_master SET firmware_version = $1, updated_at = NOW() WHERE device_id = $2`
	result, err := r.db.GetDB().ExecContext(ctx, query, version, id)
	if err != nil {
		return errors.NewDatabaseError("failed to update firmware version", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}
	return nil
}

func (r *DeviceRepo) List(ctx context.Context, filters models.DeviceFilters, offset, limit int) ([]*models.Device, error) {
	devices := []*models.Device{}
	query := `SELECT * FROM device_master WHERE 1=1`
	args := []interface{}{}

	if filters.StoreID != 0 {
		args = append(args, filters.StoreID)
		query += ` AND store_id = $` + strconv.Itoa(len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filters.Active != nil {
		args = append(args, *filters.Active)
		query += ` AND active = $` + strconv.Itoa(len(args))
	}
	if filters.Firmware != "" {
		args = append(args, filters.Firmware)
		query += ` AND firmware_version = $` + strconv.Itoa(len(args))
	}

	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	err := r.db.GetDB().SelectContext(ctx, &devices, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list devices", err)
	}

	return devices, nil
}

func (r *DeviceRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM device_master WHERE device_id = $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete device", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}

	return nil
}
