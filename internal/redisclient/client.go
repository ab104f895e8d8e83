package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stocktrack/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	catalogKey   = "catalog:all"
	availableKey = "catalog:available"
)

// Client is a read-through cache for the product catalog. Every stock
// mutation invalidates it, so cached listings are at most one TTL stale.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetCatalog retrieves the cached product listing. A miss returns
// (nil, nil).
func (c *Client) GetCatalog(ctx context.Context, availableOnly bool) ([]models.Product, error) {
	data, err := c.rdb.Get(ctx, key(availableOnly)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode cached catalog: %w", err)
	}
	return products, nil
}

// SetCatalog caches a product listing with the configured TTL
func (c *Client) SetCatalog(ctx context.Context, availableOnly bool, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return c.rdb.Set(ctx, key(availableOnly), data, c.ttl).Err()
}

// InvalidateCatalog drops both cached listings
func (c *Client) InvalidateCatalog(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey, availableKey).Err()
}

func key(availableOnly bool) string {
	if availableOnly {
		return availableKey
	}
	return catalogKey
}
