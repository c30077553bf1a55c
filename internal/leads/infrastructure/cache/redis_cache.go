// Package cache provides Redis-backed caching for lead enrichment lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fernwehr/salesloop/internal/leads/domain"
)

// ErrCacheMiss reports that no enrichment is cached for the email.
var ErrCacheMiss = errors.New("enrichment not cached")

// RedisEnrichmentCache stores enrichment results keyed by email with a TTL,
// keeping repeat lookups off the paid enrichment API.
type RedisEnrichmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEnrichmentCache(client *redis.Client, ttl time.Duration) *RedisEnrichmentCache {
	return &RedisEnrichmentCache{client: client, ttl: ttl}
}

func key(email string) string {
	return "salesloop:enrichment:" + email
}

func (c *RedisEnrichmentCache) Get(ctx context.Context, email string) (domain.Enrichment, error) {
	raw, err := c.client.Get(ctx, key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Enrichment{}, ErrCacheMiss
	}
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("read enrichment cache: %w", err)
	}

	var enrichment domain.Enrichment
	if err := json.Unmarshal(raw, &enrichment); err != nil {
		return domain.Enrichment{}, fmt.Errorf("decode cached enrichment: %w", err)
	}
	return enrichment, nil
}

func (c *RedisEnrichmentCache) Set(ctx context.Context, email string, enrichment domain.Enrichment) error {
	raw, err := json.Marshal(enrichment)
	if err != nil {
		return fmt.Errorf("encode enrichment: %w", err)
	}
	if err := c.client.Set(ctx, key(email), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write enrichment cache: %w", err)
	}
	return nil
}
