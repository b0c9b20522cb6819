// FilePath: internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/insightpulse/scout-hub/api"
	"github.com/insightpulse/scout-hub/internal/config"
	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/events"
	"github.com/insightpulse/scout-hub/internal/hubservice"
	"github.com/insightpulse/scout-hub/internal/models"
	"github.com/insightpulse/scout-hub/internal/monitoring"
	"github.com/insightpulse/scout-hub/internal/repository/archive"
	"github.com/insightpulse/scout-hub/internal/repository/postgres"
	"github.com/insightpulse/scout-hub/internal/repository/timescale"
	nuts "github.com/vaudience/go-nuts"
)

// Server wires configuration, storage, the events hub, and the HTTP API
// into one process.
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
	hub        *events.Hub

	appDB database.DB
	tsdb  database.DB
	rdb   *redis.Client
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{config: cfg}
}

// Start wires all dependencies and begins listening for requests
func (s *Server) Start() error {
	s.tsdb = initTelemetryDB(s.config.Database.TelemetryDB)
	s.appDB = initAppDB(s.config.Database.AppDB)
	s.rdb = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", s.config.Redis.Host, s.config.Redis.Port),
		Password: s.config.Redis.Password,
		DB:       s.config.Redis.DB,
	})

	// Repositories
	devices := postgres.NewDeviceRepository(s.appDB)
	stores := postgres.NewStoreRepository(s.appDB)
	alerts := postgres.NewAlertRepository(s.appDB)
	transactions := postgres.NewTransactionRepository(s.appDB)
	commands := postgres.NewCommandRepository(s.appDB)

	health, err := timescale.NewHealthRepository(s.tsdb)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize health repository: %v", err)
	}

	batchArchive, err := archive.NewArchiveRepository(s.config.Archive)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize batch archive: %v", err)
	}

	evaluator := events.NewEvaluator(s.config.Events.Thresholds)

	s.hubservice = hubservice.New(devices, stores, health, alerts, transactions, commands, batchArchive, evaluator)
	if err := s.hubservice.Validate(); err != nil {
		nuts.L.Fatalf("[Server] Invalid hub service wiring: %v", err)
	}

	s.monitoring = monitoring.NewService(monitoring.Config{
		PrometheusEndpoint: s.config.Monitoring.PrometheusEndpoint,
		LokiEndpoint:       s.config.Monitoring.LokiEndpoint,
	})

	// Events hub over the app-DB changefeed
	cache := events.NewStoreCache(s.rdb, stores, s.config.Events.StoreCacheTTL)
	normalizer := events.NewNormalizer(cache, transactions)
	listener := database.NewChangefeedListener(s.config.Database.AppDB)
	s.hub = events.NewHub(
		s.config.Events,
		listener,
		normalizer,
		evaluator,
		events.NewAlertWriter(alerts),
		s.hubCallbacks(),
	)

	if err := s.hub.Initialize(context.Background()); err != nil {
		// The reconnection supervisor keeps retrying in the background
		nuts.L.Warnf("[Server] Events hub failed to initialize: %v", err)
	}

	s.setupCleanupHandlers()

	router := api.NewRouter(s.hubservice, s.config, s.handleHealth(), s.handleMetrics())
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// hubCallbacks routes hub events into logs and monitoring counters.
func (s *Server) hubCallbacks() events.Callbacks {
	return events.Callbacks{
		OnDeviceOnline: func(e models.DeviceEvent) {
			nuts.L.Infof("[Hub] Device %s came online (%s, %s)", e.DeviceID, e.Location.StoreName, e.Location.City)
			s.monitoring.RecordEvent("device_online", map[string]string{"device_id": e.DeviceID})
		},
		OnDeviceOffline: func(e models.DeviceEvent) {
			nuts.L.Warnf("[Hub] Device %s went offline (%s, %s)", e.DeviceID, e.Location.StoreName, e.Location.City)
			s.monitoring.RecordEvent("device_offline", map[string]string{"device_id": e.DeviceID})
		},
		OnAlert: func(a models.Alert) {
			nuts.L.Warnf("[Hub] Alert %s for device %s: %s/%s %s", a.AlertID, a.DeviceID, a.AlertType, a.Severity, a.Message)
			s.monitoring.RecordEvent("alert_dispatched", map[string]string{
				"device_id": a.DeviceID,
				"type":      string(a.AlertType),
				"severity":  string(a.Severity),
			})
		},
		OnTransaction: func(e models.TransactionEvent) {
			s.monitoring.RecordEvent("transaction_dispatched", map[string]string{"device_id": e.DeviceID})
		},
		OnError: func(err error) {
			s.monitoring.RecordEvent("hub_error", nil)
		},
		OnConnectionStateChange: func(state events.ConnectionState) {
			s.monitoring.RecordEvent("hub_state_"+string(state.Status), nil)
		},
	}
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	if err := s.hub.Cleanup(); err != nil {
		nuts.L.Warnf("[Server] Events hub cleanup error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if err := s.rdb.Close(); err != nil {
		nuts.L.Warnf("[Server] Redis close error: %v", err)
	}
	if err := s.appDB.Close(); err != nil {
		nuts.L.Warnf("[Server] AppDB close error: %v", err)
	}
	if err := s.tsdb.Close(); err != nil {
		nuts.L.Warnf("[Server] TelemetryDB close error: %v", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// handleHealth reports liveness plus the hub's connection state
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":         "ok",
			"version":        nuts.GetVersion(),
			"uptime_seconds": int64(monitoring.Uptime().Seconds()),
			"changefeed":     s.hub.ConnectionState(),
		})
	}
}

// handleMetrics exposes the in-process event counters
func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(s.monitoring.Snapshot())
	}
}

func (s *Server) setupCleanupHandlers() {
	s.hubservice.Cleanup.OnCleanup("device.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Device %s and all associated data deleted", id)
		s.monitoring.RecordEvent("device_decommission", map[string]string{
			"device_id": id,
		})
	})

	s.hubservice.Cleanup.OnCleanup("health.deleted", func(id string) {
		s.monitoring.RecordEvent("health_data_deletion", map[string]string{
			"device_id": id,
		})
	})

	s.hubservice.Cleanup.OnCleanup("archive.deleted", func(id string) {
		s.monitoring.RecordEvent("archive_deletion", map[string]string{
			"device_id": id,
		})
	})

	s.hubservice.Cleanup.OnCleanup("transactions.deleted", func(id string) {
		s.monitoring.RecordEvent("transaction_deletion", map[string]string{
			"device_id": id,
		})
	})
}

func initTelemetryDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewTelemetryDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to TelemetryDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping TelemetryDB: %v", err)
	}
	return wrappedDB
}

func initAppDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to AppDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping AppDB: %v", err)
	}
	return wrappedDB
}
