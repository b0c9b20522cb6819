// FilePath: api/api.router.go
package api

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/insightpulse/scout-hub/api/middleware"
	"github.com/insightpulse/scout-hub/api/resources"
	"github.com/insightpulse/scout-hub/internal/config"
	"github.com/insightpulse/scout-hub/internal/hubservice"
)

type Router struct {
	router         *mux.Router
	handler        http.Handler
	auth           *middleware.APIKeyMiddleware
	resources      *resources.Resources
	maxUploadBytes int64
}

func NewRouter(svc *hubservice.HubService, cfg *config.Config, health, metrics http.HandlerFunc) *Router {
	r := &Router{
		router:         mux.NewRouter(),
		auth:           middleware.NewAPIKeyMiddleware(cfg.Auth),
		resources:      resources.NewResources(svc),
		maxUploadBytes: cfg.Server.MaxUploadBytes,
	}
	r.resources.SetHealthCheck(health)
	r.resources.SetMetrics(metrics)

	r.setupRoutes()

	// CORS for the dashboard plus combined access logging
	r.handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(handlers.CombinedLoggingHandler(os.Stdout, r.router))

	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/metrics", r.resources.Metrics).Methods(http.MethodGet)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	// Device ingest surface
	iot := protected.PathPrefix("/iot").Subrouter()
	iot.Use(r.auth.RequireRoles(middleware.RoleDevice))
	iot.Use(limitBody(r.maxUploadBytes))
	iot.HandleFunc("/device-upload", r.resources.Upload.DeviceUpload).Methods(http.MethodPost)
	iot.HandleFunc("/device-heartbeat", r.resources.Upload.DeviceHeartbeat).Methods(http.MethodPost)

	// Device registry (admin surface)
	devices := protected.PathPrefix("/devices").Subrouter()
	devices.Use(r.auth.RequireRoles(middleware.RoleAdmin))
	devices.HandleFunc("", r.resources.Devices.ListDevices).Methods(http.MethodGet)
	devices.HandleFunc("", r.resources.Devices.RegisterDevice).Methods(http.MethodPost)
	devices.HandleFunc("/{id}", r.resources.Devices.GetDevice).Methods(http.MethodGet)
	devices.HandleFunc("/{id}", r.resources.Devices.UpdateDevice).Methods(http.MethodPut)
	devices.HandleFunc("/{id}", r.resources.Devices.DecommissionDevice).Methods(http.MethodDelete)
	devices.HandleFunc("/{id}/status", r.resources.Devices.GetDeviceStatus).Methods(http.MethodGet)
	devices.HandleFunc("/{id}/commands", r.resources.Devices.SendCommand).Methods(http.MethodPost)

	// Command polling is device-facing as well as admin-visible
	commands := protected.PathPrefix("/devices").Subrouter()
	commands.Use(r.auth.RequireRoles(middleware.RoleDevice, middleware.RoleAdmin))
	commands.HandleFunc("/{id}/commands", r.resources.Devices.ListCommands).Methods(http.MethodGet)

	// Alerts (admin surface)
	alerts := protected.PathPrefix("/alerts").Subrouter()
	alerts.Use(r.auth.RequireRoles(middleware.RoleAdmin))
	alerts.HandleFunc("", r.resources.Alerts.ListAlerts).Methods(http.MethodGet)
	alerts.HandleFunc("/{id}/acknowledge", r.resources.Alerts.AcknowledgeAlert).Methods(http.MethodPost)
	alerts.HandleFunc("/{id}/resolve", r.resources.Alerts.ResolveAlert).Methods(http.MethodPost)
}

// limitBody caps request bodies; oversized uploads fail on read.
func limitBody(n int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			req.Body = http.MaxBytesReader(w, req.Body, n)
			next.ServeHTTP(w, req)
		})
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}
