package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"sharecircle/internal/domain"
)

const itemTTL = time.Hour

// ItemCache is a read-through cache for item lookups. Every status
// transition deletes the key, so a cached row can be stale only in its
// non-status fields, which never change after creation.
type ItemCache struct {
	client *redis.Client
}

// NewItemCache connects to redis at addr and verifies the connection.
func NewItemCache(ctx context.Context, addr string) (*ItemCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &ItemCache{client: client}, nil
}

// Get returns the cached item or nil on a miss.
func (c *ItemCache) Get(ctx context.Context, id string) (*domain.Item, error) {
	data, err := c.client.Get(ctx, "item:"+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var item domain.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Set stores the item under its id.
func (c *ItemCache) Set(ctx context.Context, item *domain.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "item:"+item.ID, data, itemTTL).Err()
}

// Delete drops the cached item, if any.
func (c *ItemCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "item:"+id).Err()
}

// Close releases the underlying client.
func (c *ItemCache) Close() error {
	return c.client.Close()
}
