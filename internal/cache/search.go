// Package cache provides the Redis-backed search result cache. Cached
// entries are keyed by a digest of the canonical criteria plus a generation
// counter; invalidation bumps the generation, so stale entries simply age
// out via TTL without a SCAN.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopfable/catalog/internal/domain"
	apperrors "github.com/shopfable/catalog/pkg/errors"
)

const (
	keyPrefix     = "catalog:search:"
	generationKey = "catalog:search:generation"
)

// SearchCache caches search results per canonical criteria. A miss is
// reported as ErrNotFound.
type SearchCache interface {
	Get(ctx context.Context, criteria domain.Criteria) ([]domain.Product, error)
	Set(ctx context.Context, criteria domain.Criteria, products []domain.Product) error
	Invalidate(ctx context.Context) error
}

// RedisSearchCache implements SearchCache on Redis.
type RedisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSearchCache creates a Redis-backed search cache.
func NewRedisSearchCache(client *redis.Client, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached result set for the criteria, or ErrNotFound.
func (c *RedisSearchCache) Get(ctx context.Context, criteria domain.Criteria) ([]domain.Product, error) {
	key, err := c.key(ctx, criteria)
	if err != nil {
		return nil, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get search result: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal cached search result: %w", err)
	}

	return products, nil
}

// Set stores the result set for the criteria with the configured TTL.
func (c *RedisSearchCache) Set(ctx context.Context, criteria domain.Criteria, products []domain.Product) error {
	key, err := c.key(ctx, criteria)
	if err != nil {
		return err
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal search result: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set search result: %w", err)
	}

	return nil
}

// Invalidate bumps the generation counter, orphaning every cached entry.
func (c *RedisSearchCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("redis bump search generation: %w", err)
	}
	return nil
}

func (c *RedisSearchCache) key(ctx context.Context, criteria domain.Criteria) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Result()
	if err != nil {
		if err != redis.Nil {
			return "", fmt.Errorf("redis get search generation: %w", err)
		}
		gen = "0"
	}

	payload, err := json.Marshal(criteria)
	if err != nil {
		return "", fmt.Errorf("marshal criteria: %w", err)
	}
	sum := sha256.Sum256(payload)

	return keyPrefix + gen + ":" + hex.EncodeToString(sum[:]), nil
}

// NoopSearchCache is used when Redis is not configured. Every Get is a miss.
type NoopSearchCache struct{}

func (NoopSearchCache) Get(context.Context, domain.Criteria) ([]domain.Product, error) {
	return nil, apperrors.ErrNotFound
}

func (NoopSearchCache) Set(context.Context, domain.Criteria, []domain.Product) error { return nil }

func (NoopSearchCache) Invalidate(context.Context) error { return nil }
