// FilePath: internal/events/events.reconnect.go
package events

import (
	"context"
	"time"

	nuts "github.com/vaudience/go-nuts"
)

// ConnectionStatus is the coarse state of the hub's changefeed link.
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusReconnecting ConnectionStatus = "reconnecting"
	StatusAbandoned    ConnectionStatus = "abandoned"
)

// ConnectionState is the observable state of the connection state machine.
// Attempt is meaningful only while reconnecting and counts from zero.
type ConnectionState struct {
	Status  ConnectionStatus `json:"status"`
	Attempt int              `json:"attempt,omitempty"`
}

// ReconnectSupervisor retries channel setup with exponential backoff. The
// attempt counter resets only on a fully successful subscribe; after
// maxAttempts consecutive failures the supervisor abandons and stops.
// Every transition is reported through onState.
type ReconnectSupervisor struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	subscribe   func() error
	onState     func(ConnectionState)
}

func NewReconnectSupervisor(maxAttempts int, baseDelay, maxDelay time.Duration, subscribe func() error, onState func(ConnectionState)) *ReconnectSupervisor {
	return &ReconnectSupervisor{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		subscribe:   subscribe,
		onState:     onState,
	}
}

// Delay computes the backoff before retry attempt n (counted from zero):
// min(baseDelay * 2^n, maxDelay).
func (s *ReconnectSupervisor) Delay(attempt int) time.Duration {
	d := s.baseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= s.maxDelay {
			return s.maxDelay
		}
	}
	if d > s.maxDelay {
		return s.maxDelay
	}
	return d
}

// Run drives the reconnect loop until subscribe succeeds, the context is
// canceled, or the attempt ceiling is hit. Returns true on reconnection.
func (s *ReconnectSupervisor) Run(ctx context.Context) bool {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		s.onState(ConnectionState{Status: StatusReconnecting, Attempt: attempt})

		delay := s.Delay(attempt)
		nuts.L.Infof("[EventsHub] Reconnect attempt %d/%d in %v", attempt+1, s.maxAttempts, delay)

		select {
		case <-ctx.Done():
			s.onState(ConnectionState{Status: StatusDisconnected})
			return false
		case <-time.After(delay):
		}

		if err := s.subscribe(); err != nil {
			nuts.L.Warnf("[EventsHub] Reconnect attempt %d failed: %v", attempt+1, err)
			continue
		}

		s.onState(ConnectionState{Status: StatusConnected})
		nuts.L.Infof("[EventsHub] Reconnected after %d attempt(s)", attempt+1)
		return true
	}

	s.onState(ConnectionState{Status: StatusAbandoned})
	nuts.L.Errorf("[EventsHub] Abandoning reconnection after %d failed attempts", s.maxAttempts)
	return false
}
