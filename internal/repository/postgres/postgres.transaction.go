// FilePath: internal/repository/postgres/postgres.transaction.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
)

type TransactionRepo struct {
	PostgresBaseRepo
}

func NewTransactionRepository(db database.DB) *TransactionRepo {
	repo := &PostgresBaseRepo{db: db}
	return &TransactionRepo{PostgresBaseRepo: *repo}
}

// Insert writes one sales interaction. There is no dedup key on
// interaction_id, so replaying a batch inserts additional rows; upstream
// device retry suppression is the only guard.
func (r *TransactionRepo) Insert(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO sales_interactions (
			interaction_id, device_id, store_id, transaction_date,
			facial_id, gender, age, emotional_state, transcription_text
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	_, err := r.db.GetDB().ExecContext(ctx, query,
		tx.InteractionID, tx.DeviceID, tx.StoreID, tx.Timestamp,
		tx.Customer.FacialID, tx.Customer.Gender, tx.Customer.Age,
		tx.Customer.Emotion, tx.Transcript,
	)
	if err != nil {
		return errors.NewDatabaseError("failed to insert interaction", err)
	}
	return nil
}

func (r *TransactionRepo) InsertItems(ctx context.Context, items []models.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO transaction_items (
			interaction_id, brand_name, product_name, quantity, confidence_score
		) VALUES (
			:interaction_id, :brand_name, :product_name, :quantity, :confidence_score
		)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, items)
	if err != nil {
		return errors.NewDatabaseError("failed to insert transaction items", err)
	}
	return nil
}

func (r *TransactionRepo) Get(ctx context.Context, interactionID string) (*models.Transaction, error) {
	tx := &models.Transaction{}
	query := `
		SELECT interaction_id, device_id, store_id, transaction_date,
		       facial_id, gender, age, emotional_state, transcription_text
		FROM sales_interactions WHERE interaction_id = $1`

	row := r.db.GetDB().QueryRowxContext(ctx, query, interactionID)
	err := row.Scan(
		&tx.InteractionID, &tx.DeviceID, &tx.StoreID, &tx.Timestamp,
		&tx.Customer.FacialID, &tx.Customer.Gender, &tx.Customer.Age,
		&tx.Customer.Emotion, &tx.Transcript,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("interaction not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get interaction", err)
	}
	return tx, nil
}

func (r *TransactionRepo) GetItems(ctx context.Context, interactionID string) ([]models.TransactionItem, error) {
	items := []models.TransactionItem{}
	query := `
		SELECT interaction_id, brand_name, product_name, quantity, confidence_score
		FROM transaction_items WHERE interaction_id = $1`

	err := r.db.GetDB().SelectContext(ctx, &items, query, interactionID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to get transaction items", err)
	}
	return items, nil
}

func (r *TransactionRepo) CountByDevice(ctx context.Context, deviceID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM sales_interactions WHERE device_id = $1`

	err := r.db.GetDB().GetContext(ctx, &count, query, deviceID)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to count interactions", err)
	}
	return count, nil
}

func (r *TransactionRepo) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	queries := []string{
		`DELETE FROM transaction_items WHERE interaction_id IN
			(SELECT interaction_id FROM sales_interactions WHERE device_id = $1)`,
		`DELETE FROM sales_interactions WHERE device_id = $1`,
	}
	for _, query := range queries {
		if _, err := r.db.GetDB().ExecContext(ctx, query, deviceID); err != nil {
			return errors.NewDatabaseError("failed to delete device interactions", err)
		}
	}
	return nil
}
