// FilePath: internal/events/events.changefeed.go
package events

import (
	"github.com/lib/pq"
)

// Notification channels published by the row-level triggers on the app
// database. Payloads are JSON envelopes: {"op": ..., "old": ..., "new": ...}.
const (
	ChannelDeviceStatus  = "scout_device_status"
	ChannelHealthMetrics = "scout_health_metrics"
	ChannelAlerts        = "scout_alerts"
	ChannelTransactions  = "scout_transactions"
)

// watchedChannels is the full set the hub subscribes to on Initialize.
var watchedChannels = []string{
	ChannelDeviceStatus,
	ChannelHealthMetrics,
	ChannelAlerts,
	ChannelTransactions,
}

// Listener is the subset of *pq.Listener the hub depends on. Tests
// substitute an in-memory implementation.
type Listener interface {
	Listen(channel string) error
	Unlisten(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Close() error
}
