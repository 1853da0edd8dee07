package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userstore/user-service/internal/api/metrics"
	"github.com/userstore/user-service/internal/core/ports"
)

const (
	countsKey        = "counts:gender"
	defaultCountsTTL = 30 * time.Second
)

// CountsCache is a short-lived cache in front of the gender counts
// aggregation, keeping repeat dashboard polls off the collection. Entries
// expire after the configured TTL; the cache is never invalidated on
// writes, staleness is bounded by the TTL alone.
type CountsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCountsCache wraps the given Redis client. A non-positive ttl falls
// back to the default.
func NewCountsCache(client *redis.Client, ttl time.Duration) *CountsCache {
	if ttl <= 0 {
		ttl = defaultCountsTTL
	}
	return &CountsCache{client: client, ttl: ttl}
}

// Get returns the cached buckets and whether a cached value was present.
func (c *CountsCache) Get(ctx context.Context) ([]ports.GroupCount, bool, error) {
	raw, err := c.client.Get(ctx, countsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CountsCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("counts cache get: %w", err)
	}

	var counts []ports.GroupCount
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false, fmt.Errorf("counts cache decode: %w", err)
	}
	metrics.CountsCacheTotal.WithLabelValues("hit").Inc()
	return counts, true, nil
}

// Set stores the buckets under the counts key with the configured TTL.
func (c *CountsCache) Set(ctx context.Context, counts []ports.GroupCount) error {
	raw, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("counts cache encode: %w", err)
	}
	if err := c.client.Set(ctx, countsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("counts cache set: %w", err)
	}
	return nil
}
