package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ProductCacheTTL bounds how long a product read model may be served
	// without a database round trip.
	ProductCacheTTL = time.Hour

	productKeyPrefix = "product"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = redis.Nil

// IsMiss reports whether err is a cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

// CachedProduct is the read model stored as a Redis hash.
type CachedProduct struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductCache reads and writes product hashes under "product:{id}".
type ProductCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewProductCache returns a ProductCache using ProductCacheTTL.
func NewProductCache(r *RedisClient) *ProductCache {
	return &ProductCache{client: r, ttl: ProductCacheTTL}
}

// Get returns the cached product or ErrMiss.
func (c *ProductCache) Get(ctx context.Context, id uuid.UUID) (*CachedProduct, error) {
	vals, err := c.client.Client().HGetAll(ctx, key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, ErrMiss
	}
	return decodeProduct(vals)
}

// Set writes p and its TTL in one pipeline.
func (c *ProductCache) Set(ctx context.Context, p *CachedProduct) error {
	k := key(p.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, k)
	pipe.HSet(ctx, k,
		"id", p.ID.String(),
		"name", p.Name,
		"description", p.Description,
		"category", p.Category,
		"price_cents", strconv.FormatInt(p.PriceCents, 10),
		"available", strconv.FormatBool(p.Available),
		"created_at", p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at", p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, k, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete evicts a product. Deleting an absent key is not an error.
func (c *ProductCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Client().Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func key(id uuid.UUID) string {
	return productKeyPrefix + ":" + id.String()
}

func decodeProduct(vals map[string]string) (*CachedProduct, error) {
	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	price, err := strconv.ParseInt(vals["price_cents"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse price_cents: %w", err)
	}
	available, err := strconv.ParseBool(vals["available"])
	if err != nil {
		return nil, fmt.Errorf("cache parse available: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}
	return &CachedProduct{
		ID:          id,
		Name:        vals["name"],
		Description: vals["description"],
		Category:    vals["category"],
		PriceCents:  price,
		Available:   available,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
