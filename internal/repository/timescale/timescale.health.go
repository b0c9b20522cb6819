// FilePath: internal/repository/timescale/timescale.health.go
package timescale

import (
	"context"
	"time"

	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

type HealthRepo struct {
	TimeScaleBaseRepo
}

func NewHealthRepository(db database.DB) (*HealthRepo, error) {
	repo := &HealthRepo{TimeScaleBaseRepo: TimeScaleBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *HealthRepo) initializeSchema() error {
	// Create hypertable for health samples
	queries := []string{
		`CREATE TABLE IF NOT EXISTS device_health_metrics (
			device_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			cpu_usage DOUBLE PRECISION NOT NULL,
			memory_usage DOUBLE PRECISION NOT NULL,
			disk_usage DOUBLE PRECISION NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			network_latency_ms DOUBLE PRECISION NOT NULL,
			audio_input_level DOUBLE PRECISION NOT NULL,
			uptime_seconds BIGINT NOT NULL,
			error_count_24h INTEGER NOT NULL
		)`,
		`SELECT create_hypertable('device_health_metrics', 'timestamp',
			chunk_time_interval => INTERVAL '1 day',
			if_not_exists => TRUE
		)`,
		`CREATE MATERIALIZED VIEW IF NOT EXISTS device_health_hourly
			WITH (timescaledb.continuous) AS
			SELECT device_id,
				time_bucket('1 hour', timestamp) AS bucket,
				AVG(cpu_usage) as avg_cpu,
				MAX(cpu_usage) as max_cpu,
				AVG(memory_usage) as avg_memory,
				MAX(temperature) as max_temperature,
				AVG(network_latency_ms) as avg_latency_ms,
				COUNT(*) as sample_count
			FROM device_health_metrics
			GROUP BY device_id, time_bucket('1 hour', timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_health_device_timestamp
         ON device_health_metrics(device_id, timestamp DESC)`,
	}

	for _, query := range queries {
		_, err := r.db.GetDB().Exec(query)
		if err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}

	r.setupRetentionPolicy()
	return nil
}

func (r *HealthRepo) setupRetentionPolicy() {
	// Raw samples kept for 90 days; the hourly rollup survives past that
	query := `
		SELECT add_retention_policy('device_health_metrics',
			INTERVAL '90 days',
			if_not_exists => TRUE
		)`

	_, err := r.db.GetDB().Exec(query)
	if err != nil {
		nuts.L.Errorf("[TelemetryDB] Failed to set up retention policy: %v", err)
	}
}

func (r *HealthRepo) InsertSample(ctx context.Context, sample *models.HealthSample) error {
	query := `
		INSERT INTO device_health_metrics (
			device_id, timestamp, cpu_usage, memory_usage, disk_usage,
			temperature, network_latency_ms, audio_input_level,
			uptime_seconds, error_count_24h
		) VALUES (
			:device_id, :timestamp, :cpu_usage, :memory_usage, :disk_usage,
			:temperature, :network_latency_ms, :audio_input_level,
			:uptime_seconds, :error_count_24h
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, sample)
	if err != nil {
		return errors.NewDatabaseError("failed to insert health sample", err)
	}
	return nil
}

func (r *HealthRepo) GetSamples(ctx context.Context, deviceID string, start, end time.Time) ([]models.HealthSample, error) {
	samples := []models.HealthSample{}
	query := `
		SELECT * FROM device_health_metrics
		WHERE device_id = $1 AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp DESC`

	err := r.db.GetDB().SelectContext(ctx, &samples, query, deviceID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get health samples", err)
	}
	return samples, nil
}

func (r *HealthRepo) GetLatestSample(ctx context.Context, deviceID string) (*models.HealthSample, error) {
	sample := &models.HealthSample{}
	query := `
		SELECT * FROM device_health_metrics
		WHERE device_id = $1
		ORDER BY timestamp DESC
		LIMIT 1`

	err := r.db.GetDB().GetContext(ctx, sample, query, deviceID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get latest health sample", err)
	}
	return sample, nil
}

func (r *HealthRepo) GetAggregates(ctx context.Context, deviceID string, start, end time.Time, interval string) ([]models.HealthAggregate, error) {
	if interval != "hour" {
		return nil, errors.NewValidationError("invalid interval", nil)
	}

	aggregates := []models.HealthAggregate{}
	query := `
		SELECT device_id, bucket, avg_cpu, max_cpu, avg_memory,
		       max_temperature, avg_latency_ms, sample_count
		FROM device_health_hourly
		WHERE device_id = $1 AND bucket BETWEEN $2 AND $3
		ORDER BY bucket DESC`

	err := r.db.GetDB().SelectContext(ctx, &aggregates, query, deviceID, start, end)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get health aggregates", err)
	}
	return aggregates, nil
}

func (r *HealthRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	query := `DELETE FROM device_health_metrics WHERE device_id = $1`

	_, err := r.db.GetDB().ExecContext(ctx, query, deviceID)
	if err != nil {
		return errors.NewDatabaseError("failed to delete device health data", err)
	}
	return nil
}

func (r *HealthRepo) DeleteOldData(ctx context.Context, before time.Time) error {
	query := `DELETE FROM device_health_metrics WHERE timestamp < $1`

	result, err := r.db.GetDB().ExecContext(ctx, query, before)
	if err != nil {
		return errors.NewDatabaseError("failed to delete old data", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}

	nuts.L.Infof("[TelemetryDB] Deleted %d old health samples before %v", rows, before)
	return nil
}
