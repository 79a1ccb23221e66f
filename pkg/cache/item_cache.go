package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached items.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "item"
)

// CachedItem is the denormalized item read model stored in Redis. It backs
// the public verify page and item lookups so those reads skip Postgres.
// Fields are stored as a Redis hash keyed by the item's unique identifier.
type CachedItem struct {
	ItemID       string    `json:"item_id"`
	Name         string    `json:"name"`
	Serial       string    `json:"serial"`
	Owner        string    `json:"owner"`
	Manufacturer string    `json:"manufacturer"`
	ClaimedAt    time.Time `json:"claimed_at"`
}

// ItemCache provides structured read/write operations for item cache entries.
// Key format: "item:{itemID}"
type ItemCache struct {
	client *RedisClient
}

// NewItemCache creates a new ItemCache backed by the given RedisClient.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r}
}

// Get retrieves a cached item by its unique identifier.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ItemCache) Get(ctx context.Context, itemID string) (*CachedItem, error) {
	key := c.key(itemID)
	vals, err := c.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	claimedAtUnix, err := strconv.ParseInt(vals["claimed_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse claimed_at: %w", err)
	}

	return &CachedItem{
		ItemID:       vals["item_id"],
		Name:         vals["name"],
		Serial:       vals["serial"],
		Owner:        vals["owner"],
		Manufacturer: vals["manufacturer"],
		ClaimedAt:    time.Unix(claimedAtUnix, 0).UTC(),
	}, nil
}

// Set writes a cached item as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key := c.key(item.ItemID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"item_id", item.ItemID,
		"name", item.Name,
		"serial", item.Serial,
		"owner", item.Owner,
		"manufacturer", item.Manufacturer,
		"claimed_at", strconv.FormatInt(item.ClaimedAt.Unix(), 10),
	)
	pipe.Expire(ctx, key, ItemCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached item. Used when ownership changes so stale owners
// are never served longer than one round trip to Postgres.
func (c *ItemCache) Delete(ctx context.Context, itemID string) error {
	if err := c.client.Client().Del(ctx, c.key(itemID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "item:{itemID}"
func (c *ItemCache) key(itemID string) string {
	return fmt.Sprintf("%s:%s", itemCacheKeyPrefix, itemID)
}
