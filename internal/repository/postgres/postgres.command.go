// FilePath: internal/repository/postgres/postgres.command.go
package postgres

import (
	"context"

	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
)

type CommandRepo struct {
	PostgresBaseRepo
}

func NewCommandRepository(db database.DB) *CommandRepo {
	repo := &PostgresBaseRepo{db: db}
	return &CommandRepo{PostgresBaseRepo: *repo}
}

func (r *CommandRepo) Create(ctx context.Context, cmd *models.DeviceCommand) error {
	query := `
		INSERT INTO device_commands (
			command_id, device_id, command_type, parameters, status, created_at
		) VALUES (
			:command_id, :device_id, :command_type, :parameters, :status, :created_at
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, cmd)
	if err != nil {
		return errors.NewDatabaseError("failed to create device command", err)
	}
	return nil
}

func (r *CommandRepo) ListByDevice(ctx context.Context, deviceID string, filters models.CommandFilters) ([]*models.DeviceCommand, error) {
	commands := []*models.DeviceCommand{}
	query := `SELECT * FROM device_commands WHERE device_id = $1`
	args := []interface{}{deviceID}

	if filters.Status != "" {
		args = append(args, filters.Status)
		query += ` AND status = $2`
	}
	query += ` ORDER BY created_at ASC`

	err := r.db.GetDB().SelectContext(ctx, &commands, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list device commands", err)
	}
	return commands, nil
}

func (r *CommandRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE device_commands SET status = $1 WHERE command_id = $2`

	result, err := r.db.GetDB().ExecContext(ctx, query, status, id)
	if err != nil {
		return errors.NewDatabaseError("failed to update command status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	if rows == 0 {
		return errors.NewNotFoundError("command not found", nil)
	}

	return nil
}

func (r *CommandRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	query := `DELETE FROM device_commands WHERE device_id = $1`

	_, err := r.db.GetDB().ExecContext(ctx, query, deviceID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete device commands", err)
	}
	return nil
}
