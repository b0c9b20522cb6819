// FilePath: internal/events/events.normalizer.go
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
	"github.com/insightpulse/scout-hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// changePayload is the JSON envelope published by the row-level triggers.
// old is null for inserts, new is null for deletes.
type changePayload struct {
	Op  string          `json:"op"`
	Old json.RawMessage `json:"old"`
	New json.RawMessage `json:"new"`
}

const (
	opInsert = "INSERT"
	opUpdate = "UPDATE"
	opDelete = "DELETE"
)

// DeviceChange is a normalized device registry change. The event is
// complete at construction: location enrichment happens here, before any
// callback can observe it. CameOnline/WentOffline are edge-triggered so a
// heartbeat refresh that keeps status online fires neither.
type DeviceChange struct {
	Event       models.DeviceEvent
	CameOnline  bool
	WentOffline bool
}

// Normalizer maps raw change payloads to typed domain events and performs
// the follow-up reads that make them self-contained.
type Normalizer struct {
	cache        *StoreCache
	transactions repository.TransactionRepository
}

func NewNormalizer(cache *StoreCache, transactions repository.TransactionRepository) *Normalizer {
	return &Normalizer{cache: cache, transactions: transactions}
}

func parsePayload(raw string) (*changePayload, error) {
	var p changePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, errors.NewValidationError("malformed change payload", err)
	}
	return &p, nil
}

// NormalizeDevice handles all operations on the device registry. Returns
// nil for deletes, which carry no new row to dispatch.
func (n *Normalizer) NormalizeDevice(ctx context.Context, raw string) (*DeviceChange, error) {
	p, err := parsePayload(raw)
	if err != nil {
		return nil, err
	}
	if p.Op == opDelete || len(p.New) == 0 {
		return nil, nil
	}

	var device models.Device
	if err := json.Unmarshal(p.New, &device); err != nil {
		return nil, errors.NewValidationError("malformed device row", err)
	}

	var old models.Device
	if len(p.Old) > 0 {
		if err := json.Unmarshal(p.Old, &old); err != nil {
			return nil, errors.NewValidationError("malformed device row", err)
		}
	}

	change := &DeviceChange{
		Event: models.DeviceEvent{Device: device},
	}

	wasOnline := old.Status == models.DeviceOnline
	isOnline := device.Status == models.DeviceOnline
	change.CameOnline = !wasOnline && isOnline
	change.WentOffline = wasOnline && !isOnline

	// Enrichment failures leave the location zero-valued; the event still
	// dispatches.
	loc, err := n.cache.Location(ctx, device.StoreID)
	if err != nil {
		nuts.L.Warnf("[Normalizer] Store lookup failed for device %s (store %d): %v", device.DeviceID, device.StoreID, err)
	} else {
		change.Event.Location = loc
	}

	return change, nil
}

// NormalizeHealth handles inserts on the health metrics stream.
func (n *Normalizer) NormalizeHealth(raw string) (*models.HealthSample, error) {
	p, err := parsePayload(raw)
	if err != nil {
		return nil, err
	}
	if p.Op != opInsert || len(p.New) == 0 {
		return nil, nil
	}

	var sample models.HealthSample
	if err := json.Unmarshal(p.New, &sample); err != nil {
		return nil, errors.NewValidationError("malformed health sample", err)
	}
	return &sample, nil
}

// NormalizeAlert handles inserts and updates on the alerts table.
func (n *Normalizer) NormalizeAlert(raw string) (*models.Alert, error) {
	p, err := parsePayload(raw)
	if err != nil {
		return nil, err
	}
	if (p.Op != opInsert && p.Op != opUpdate) || len(p.New) == 0 {
		return nil, nil
	}

	var alert models.Alert
	if err := json.Unmarshal(p.New, &alert); err != nil {
		return nil, errors.NewValidationError("malformed alert row", err)
	}
	return &alert, nil
}

// interactionRow mirrors the flat column layout of sales_interactions as
// published by the trigger; it folds into the nested event shape below.
type interactionRow struct {
	InteractionID string    `json:"interaction_id"`
	DeviceID      string    `json:"device_id"`
	StoreID       int64     `json:"store_id"`
	Date          time.Time `json:"transaction_date"`
	FacialID      string    `json:"facial_id"`
	Gender        string    `json:"gender"`
	Age           int       `json:"age"`
	Emotion       string    `json:"emotional_state"`
	Transcript    string    `json:"transcription_text"`
}

// NormalizeTransaction handles inserts on sales interactions, attaching
// the item list before the event is dispatched.
func (n *Normalizer) NormalizeTransaction(ctx context.Context, raw string) (*models.TransactionEvent, error) {
	p, err := parsePayload(raw)
	if err != nil {
		return nil, err
	}
	if p.Op != opInsert || len(p.New) == 0 {
		return nil, nil
	}

	var row interactionRow
	if err := json.Unmarshal(p.New, &row); err != nil {
		return nil, errors.NewValidationError("malformed interaction row", err)
	}

	tx := models.Transaction{
		InteractionID: row.InteractionID,
		DeviceID:      row.DeviceID,
		StoreID:       row.StoreID,
		Timestamp:     row.Date,
		Customer: models.CustomerData{
			FacialID: row.FacialID,
			Gender:   row.Gender,
			Age:      row.Age,
			Emotion:  row.Emotion,
		},
		Transcript: row.Transcript,
	}

	event := &models.TransactionEvent{Transaction: tx, Items: []models.TransactionItem{}}

	items, err := n.transactions.GetItems(ctx, tx.InteractionID)
	if err != nil {
		nuts.L.Warnf("[Normalizer] Item lookup failed for interaction %s: %v", tx.InteractionID, err)
	} else {
		event.Items = items
	}

	return event, nil
}
