// FilePath: internal/models/models.transaction.go
package models

import "time"

// CustomerData carries the anonymized customer attributes captured by a
// device during one interaction.
type CustomerData struct {
	FacialID string `json:"facial_id" db:"facial_id"`
	Gender   string `json:"gender" db:"gender"`
	Age      int    `json:"age" db:"age"`
	Emotion  string `json:"emotion" db:"emotional_state"`
}

// TransactionItem is one recognized line item of an interaction.
type TransactionItem struct {
	InteractionID string  `json:"interaction_id,omitempty" db:"interaction_id"`
	BrandName     string  `json:"brand_name" db:"brand_name"`
	ProductName   string  `json:"product_name" db:"product_name"`
	Quantity      int     `json:"quantity" db:"quantity"`
	Confidence    float64 `json:"confidence" db:"confidence_score"`
}

// Transaction is one customer interaction as stored in sales_interactions.
type Transaction struct {
	InteractionID string       `json:"interaction_id" db:"interaction_id"`
	DeviceID      string       `json:"device_id" db:"device_id"`
	StoreID       int64        `json:"store_id" db:"store_id"`
	Timestamp     time.Time    `json:"timestamp" db:"transaction_date"`
	Customer      CustomerData `json:"customer_data"`
	Transcript    string       `json:"transcript" db:"transcription_text"`
}

// TransactionEvent is the enriched event dispatched to hub consumers.
// Items are fetched and attached before dispatch, so the slice is
// complete (possibly empty) by the time OnTransaction fires.
type TransactionEvent struct {
	Transaction
	Items []TransactionItem `json:"items"`
}
