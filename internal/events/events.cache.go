// FilePath: internal/events/events.cache.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/insightpulse/scout-hub/internal/models"
	"github.com/insightpulse/scout-hub/internal/repository"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// StoreCache resolves store locations for event enrichment. Lookups hit
// Redis first; on a miss the store row is read from Postgres and cached
// with a TTL. Redis being down degrades to plain Postgres reads.
type StoreCache struct {
	rdb    *redis.Client
	stores repository.StoreRepository
	ttl    time.Duration
}

func NewStoreCache(rdb *redis.Client, stores repository.StoreRepository, ttl time.Duration) *StoreCache {
	return &StoreCache{rdb: rdb, stores: stores, ttl: ttl}
}

func storeKey(storeID int64) string {
	return fmt.Sprintf("scout:store:%d", storeID)
}

// Location returns the denormalized location for a store.
func (c *StoreCache) Location(ctx context.Context, storeID int64) (models.Location, error) {
	key := storeKey(storeID)

	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			var loc models.Location
			if err := json.Unmarshal([]byte(cached), &loc); err == nil {
				return loc, nil
			}
			nuts.L.Warnf("[StoreCache] Corrupt cache entry for store %d, refetching", storeID)
		} else if err != redis.Nil {
			nuts.L.Warnf("[StoreCache] Redis get failed for store %d: %v", storeID, err)
		}
	}

	store, err := c.stores.Get(ctx, storeID)
	if err != nil {
		return models.Location{}, err
	}

	loc := models.Location{
		StoreName: store.Name,
		City:      store.City,
		Region:    store.Region,
	}

	if c.rdb != nil {
		if data, err := json.Marshal(loc); err == nil {
			if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
				nuts.L.Warnf("[StoreCache] Redis set failed for store %d: %v", storeID, err)
			}
		}
	}

	return loc, nil
}

// Invalidate drops the cached entry for a store.
func (c *StoreCache) Invalidate(ctx context.Context, storeID int64) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, storeKey(storeID)).Err(); err != nil {
		nuts.L.Warnf("[StoreCache] Redis del failed for store %d: %v", storeID, err)
	}
}
