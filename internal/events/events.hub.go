// FilePath: internal/events/events.hub.go
package events

import (
	"context"
	"sync"

	"github.com/lib/pq"

	"github.com/insightpulse/scout-hub/internal/config"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Callbacks are the consumer hooks fired by the hub's dispatch loop. Every
// callback is optional; nil is a no-op. Callbacks run synchronously on the
// dispatch goroutine, so a slow consumer delays subsequent events on this
// hub, and a panicking consumer takes the loop down with it.
type Callbacks struct {
	OnDeviceStatusChange    func(models.DeviceEvent)
	OnHealthUpdate          func(models.HealthSample)
	OnAlert                 func(models.Alert)
	OnTransaction           func(models.TransactionEvent)
	OnDeviceOnline          func(models.DeviceEvent)
	OnDeviceOffline         func(models.DeviceEvent)
	OnError                 func(error)
	OnConnectionStateChange func(ConnectionState)
}

// Hub owns the changefeed subscriptions and fans normalized events out to
// consumer callbacks. It holds no authoritative state beyond the set of
// open channels and the connection state machine.
type Hub struct {
	cfg        config.EventsConfig
	listener   Listener
	normalizer *Normalizer
	evaluator  *Evaluator
	writer     *AlertWriter
	callbacks  Callbacks

	mu      sync.Mutex
	state   ConnectionState
	running bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewHub(cfg config.EventsConfig, listener Listener, normalizer *Normalizer, evaluator *Evaluator, writer *AlertWriter, callbacks Callbacks) *Hub {
	return &Hub{
		cfg:        cfg,
		listener:   listener,
		normalizer: normalizer,
		evaluator:  evaluator,
		writer:     writer,
		callbacks:  callbacks,
		state:      ConnectionState{Status: StatusDisconnected},
	}
}

// Initialize opens all watched channels and starts the dispatch loop. If
// any channel fails to open, the error is returned and reported, and the
// reconnection supervisor takes over in the background.
func (h *Hub) Initialize(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return errors.NewInternalError("events hub is closed", nil)
	}
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.mu.Unlock()

	if err := h.subscribeAll(); err != nil {
		h.reportError(err)
		h.setState(ConnectionState{Status: StatusDisconnected})

		supervisor := NewReconnectSupervisor(
			h.cfg.ReconnectMaxAttempts,
			h.cfg.ReconnectBaseDelay,
			h.cfg.ReconnectMaxDelay,
			h.subscribeAll,
			h.setState,
		)
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			if supervisor.Run(runCtx) {
				h.startDispatch(runCtx)
			}
		}()
		return err
	}

	h.setState(ConnectionState{Status: StatusConnected})
	h.startDispatch(runCtx)
	nuts.L.Infof("[EventsHub] Subscribed to %d changefeed channels", len(watchedChannels))
	return nil
}

// subscribeAll opens every watched channel, tearing the partial set back
// down if any fails.
func (h *Hub) subscribeAll() error {
	opened := make([]string, 0, len(watchedChannels))
	for _, channel := range watchedChannels {
		err := h.listener.Listen(channel)
		if err != nil && err != pq.ErrChannelAlreadyOpen {
			for _, open := range opened {
				if uerr := h.listener.Unlisten(open); uerr != nil {
					nuts.L.Warnf("[EventsHub] Failed to unlisten %s during teardown: %v", open, uerr)
				}
			}
			return errors.NewInternalError("failed to open changefeed channel "+channel, err)
		}
		opened = append(opened, channel)
	}
	return nil
}

func (h *Hub) startDispatch(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running || h.closed {
		return
	}
	h.running = true

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.dispatchLoop(ctx)
	}()
}

func (h *Hub) dispatchLoop(ctx context.Context) {
	notifications := h.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			if n == nil {
				// The driver dropped and re-established its connection;
				// LISTENs were replayed but notifications in the gap are lost.
				nuts.L.Warnf("[EventsHub] Changefeed connection re-established, events may have been missed")
				continue
			}
			h.route(ctx, n)
		}
	}
}

// route maps one notification to its normalizer, then dispatches. Events
// are fully enriched before the first callback observes them.
func (h *Hub) route(ctx context.Context, n *pq.Notification) {
	switch n.Channel {
	case ChannelDeviceStatus:
		change, err := h.normalizer.NormalizeDevice(ctx, n.Extra)
		if err != nil {
			h.reportError(err)
			return
		}
		if change == nil {
			return
		}
		if cb := h.callbacks.OnDeviceStatusChange; cb != nil {
			cb(change.Event)
		}
		if change.CameOnline {
			if cb := h.callbacks.OnDeviceOnline; cb != nil {
				cb(change.Event)
			}
		}
		if change.WentOffline {
			if cb := h.callbacks.OnDeviceOffline; cb != nil {
				cb(change.Event)
			}
		}

	case ChannelHealthMetrics:
		sample, err := h.normalizer.NormalizeHealth(n.Extra)
		if err != nil {
			h.reportError(err)
			return
		}
		if sample == nil {
			return
		}
		if cb := h.callbacks.OnHealthUpdate; cb != nil {
			cb(*sample)
		}
		for _, candidate := range h.evaluator.Evaluate(sample) {
			if _, err := h.writer.Write(ctx, candidate); err != nil {
				h.reportError(err)
			}
		}

	case ChannelAlerts:
		alert, err := h.normalizer.NormalizeAlert(n.Extra)
		if err != nil {
			h.reportError(err)
			return
		}
		if alert == nil {
			return
		}
		if cb := h.callbacks.OnAlert; cb != nil {
			cb(*alert)
		}

	case ChannelTransactions:
		event, err := h.normalizer.NormalizeTransaction(ctx, n.Extra)
		if err != nil {
			h.reportError(err)
			return
		}
		if event == nil {
			return
		}
		if cb := h.callbacks.OnTransaction; cb != nil {
			cb(*event)
		}

	default:
		nuts.L.Debugf("[EventsHub] Ignoring notification on unknown channel %q", n.Channel)
	}
}

// ConnectionState returns the current state of the changefeed link.
func (h *Hub) ConnectionState() ConnectionState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Hub) setState(state ConnectionState) {
	h.mu.Lock()
	if h.state == state {
		h.mu.Unlock()
		return
	}
	h.state = state
	cb := h.callbacks.OnConnectionStateChange
	h.mu.Unlock()

	nuts.L.Infof("[EventsHub] Connection state: %s (attempt %d)", state.Status, state.Attempt)
	if cb != nil {
		cb(state)
	}
}

func (h *Hub) reportError(err error) {
	nuts.L.Errorf("[EventsHub] %v", err)
	if cb := h.callbacks.OnError; cb != nil {
		cb(err)
	}
}

// Cleanup closes the listener and waits for in-flight dispatch to finish.
// Idempotent; safe to call with no channels open.
func (h *Hub) Cleanup() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	cancel := h.cancel
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	err := h.listener.Close()
	h.wg.Wait()

	h.setState(ConnectionState{Status: StatusDisconnected})
	nuts.L.Infof("[EventsHub] Cleaned up")
	return err
}
