// FilePath: internal/repository/postgres/postgres.store.go
package postgres

import (
	"context"
	"database/sql"

	"github.com/insightpulse/scout-hub/internal/database"
	"github.com/insightpulse/scout-hub/internal/errors"
	"github.com/insightpulse/scout-hub/internal/models"
)

type StoreRepo struct {
	PostgresBaseRepo
}

func NewStoreRepository(db database.DB) *StoreRepo {
	repo := &PostgresBaseRepo{db: db}
	return &StoreRepo{PostgresBaseRepo: *repo}
}

func (r *StoreRepo) Get(ctx context.Context, id int64) (*models.Store, error) {
	store := &models.Store{}
	query := `SELECT id, name, barangay, city, region FROM stores WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, store, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("store not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get store", err)
	}
	return store, nil
}
