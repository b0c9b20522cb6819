// FilePath: internal/monitoring/monitoring.go
package monitoring

import (
	"sync"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	PrometheusEndpoint string
	LokiEndpoint       string
}

// Service records service-level events. Counters are in-process; the
// Prometheus/Loki endpoints are reserved for the scrape/push integration.
type Service struct {
	config Config

	mu       sync.Mutex
	counters map[string]int64
}

// NewService creates a new monitoring service
func NewService(config Config) *Service {
	return &Service{
		config:   config,
		counters: map[string]int64{},
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.mu.Lock()
	s.counters[eventName]++
	count := s.counters[eventName]
	s.mu.Unlock()

	nuts.L.Debugf("[Monitoring] Event %s (count %d) labels: %v", eventName, count, labels)
}

// EventCount returns how often an event was recorded since startup.
func (s *Service) EventCount(eventName string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[eventName]
}

// Snapshot returns a copy of all counters, for the health endpoint.
func (s *Service) Snapshot() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		out[k] = v
	}
	return out
}

// Uptime helpers

var startedAt = time.Now()

// Uptime returns the time since process start.
func Uptime() time.Duration {
	return time.Since(startedAt)
}
