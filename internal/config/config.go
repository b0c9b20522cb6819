// FilePath: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Events     EventsConfig
	Archive    ArchiveConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

type DatabaseConfig struct {
	TelemetryDB PostgresConfig `mapstructure:"telemetrydb"`
	AppDB       PostgresConfig `mapstructure:"postgres_app"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig carries the static API key allowlists. Device keys may only
// call the ingest endpoints; admin keys get the full dashboard surface.
type AuthConfig struct {
	DeviceKeys []string `mapstructure:"device_keys"`
	AdminKeys  []string `mapstructure:"admin_keys"`
}

// EventsConfig tunes the events hub: alert thresholds, reconnection
// policy, and the store-metadata cache used by event enrichment.
type EventsConfig struct {
	Thresholds           ThresholdConfig `mapstructure:"thresholds"`
	ReconnectMaxAttempts int             `mapstructure:"reconnect_max_attempts"`
	ReconnectBaseDelay   time.Duration   `mapstructure:"reconnect_base_delay"`
	ReconnectMaxDelay    time.Duration   `mapstructure:"reconnect_max_delay"`
	StoreCacheTTL        time.Duration   `mapstructure:"store_cache_ttl"`
}

// ThresholdConfig holds the health alert bands. Each band has a high and
// a critical cutoff except network latency, which only has one.
type ThresholdConfig struct {
	CPUHigh             float64 `mapstructure:"cpu_high"`
	CPUCritical         float64 `mapstructure:"cpu_critical"`
	MemoryHigh          float64 `mapstructure:"memory_high"`
	MemoryCritical      float64 `mapstructure:"memory_critical"`
	TemperatureHigh     float64 `mapstructure:"temperature_high"`
	TemperatureCritical float64 `mapstructure:"temperature_critical"`
	DiskHigh            float64 `mapstructure:"disk_high"`
	DiskCritical        float64 `mapstructure:"disk_critical"`
	NetworkLatencyMS    float64 `mapstructure:"network_latency_ms"`
}

type ArchiveConfig struct {
	BasePath string `mapstructure:"base_path"`
	Enabled  bool   `mapstructure:"enabled"`
}

type MonitoringConfig struct {
	LogLevel           string `mapstructure:"log_level"`
	PrometheusEndpoint string `mapstructure:"prometheus_endpoint"`
	LokiEndpoint       string `mapstructure:"loki_endpoint"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("server.max_upload_bytes", 10*1024*1024) // 10MB batch uploads

	// Database defaults
	viper.SetDefault("database.telemetrydb.sslmode", "disable")
	viper.SetDefault("database.postgres_app.sslmode", "disable")

	// Redis defaults
	viper.SetDefault("redis.db", 0)

	// Alert threshold defaults; percent for cpu/memory/disk, Celsius for
	// temperature, milliseconds for latency
	viper.SetDefault("events.thresholds.cpu_high", 80.0)
	viper.SetDefault("events.thresholds.cpu_critical", 95.0)
	viper.SetDefault("events.thresholds.memory_high", 85.0)
	viper.SetDefault("events.thresholds.memory_critical", 95.0)
	viper.SetDefault("events.thresholds.temperature_high", 70.0)
	viper.SetDefault("events.thresholds.temperature_critical", 80.0)
	viper.SetDefault("events.thresholds.disk_high", 80.0)
	viper.SetDefault("events.thresholds.disk_critical", 90.0)
	viper.SetDefault("events.thresholds.network_latency_ms", 3000.0)

	// Reconnection defaults
	viper.SetDefault("events.reconnect_max_attempts", 5)
	viper.SetDefault("events.reconnect_base_delay", "1s")
	viper.SetDefault("events.reconnect_max_delay", "30s")
	viper.SetDefault("events.store_cache_ttl", "10m")

	// Archive defaults
	viper.SetDefault("archive.enabled", true)
	viper.SetDefault("archive.base_path", "/var/lib/scout-hub/batches")

	// Monitoring defaults
	viper.SetDefault("monitoring.log_level", "info")
	viper.SetDefault("monitoring.prometheus_endpoint", "http://localhost:9090")
	viper.SetDefault("monitoring.loki_endpoint", "http://localhost:3100")
}

func validateConfig(config *Config) error {
	if config.Database.AppDB.Host == "" {
		return fmt.Errorf("postgres app host is required")
	}
	if config.Database.TelemetryDB.Host == "" {
		return fmt.Errorf("telemetrydb host is required")
	}
	if len(config.Auth.DeviceKeys) == 0 && len(config.Auth.AdminKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}
	if config.Events.ReconnectMaxAttempts <= 0 {
		return fmt.Errorf("reconnect_max_attempts must be positive")
	}
	return nil
}
