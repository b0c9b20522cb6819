// FilePath: internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/insightpulse/scout-hub/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

// DB is an interface that both the app DB and the telemetry DB implement
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
}

// PostgresDB represents the application database connection (registry,
// stores, alerts, transactions, commands)
type PostgresDB struct {
	db *sqlx.DB
}

// TelemetryDB represents the TimescaleDB connection holding the
// device_health_metrics hypertable
type TelemetryDB struct {
	db *sqlx.DB
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Repository represents common repository operations
type Repository interface {
	BeginTx(ctx context.Context) (Transaction, error)
}

func dsn(cfg config.PostgresConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
}

// NewPostgresDB creates a new application database connection
func NewPostgresDB(cfg config.PostgresConfig) (DB, error) {
	db, err := sqlx.Connect("postgres", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}

	nuts.L.Infof("[PostgresDB] Connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return &PostgresDB{db: db}, nil
}

// NewTelemetryDB creates a new telemetry database connection and
// verifies the TimescaleDB extension is installed
func NewTelemetryDB(cfg config.PostgresConfig) (DB, error) {
	db, err := sqlx.Connect("postgres", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("error connecting to TelemetryDB: %w", err)
	}

	var hasTimescaleDB bool
	err = db.Get(&hasTimescaleDB, "SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'timescaledb')")
	if err != nil || !hasTimescaleDB {
		return nil, fmt.Errorf("TimescaleDB extension not available")
	}

	nuts.L.Infof("[TelemetryDB] Connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return &TelemetryDB{db: db}, nil
}

// NewChangefeedListener opens a LISTEN/NOTIFY connection against the app
// database. Row-level triggers publish JSON change payloads on the scout_*
// notification channels; the events hub consumes them.
func NewChangefeedListener(cfg config.PostgresConfig) *pq.Listener {
	return pq.NewListener(dsn(cfg), 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			nuts.L.Warnf("[Changefeed] Listener event %d: %v", ev, err)
		}
	})
}

// Implementation of DB interface for PostgresDB
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresDB) GetDB() *sqlx.DB {
	return p.db
}

// Implementation of DB interface for TelemetryDB
func (t *TelemetryDB) Close() error {
	return t.db.Close()
}

func (t *TelemetryDB) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

func (t *TelemetryDB) GetDB() *sqlx.DB {
	return t.db
}
