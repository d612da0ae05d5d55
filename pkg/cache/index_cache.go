package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/schedgen/schedgen/internal/collision"
	"github.com/schedgen/schedgen/pkg/metrics"
)

// IndexCache stores precomputed collision.Index values in Redis, keyed by a
// caller-supplied content hash of the catalog and group partition that
// produced them (see internal/scheduling.ContentHash). A cache hit lets
// repeated /generate calls against an unchanged catalog skip
// collision.Build's O(groups^2 * items^2) scan; it never changes what the
// enumerator produces, only how long precomputation takes.
type IndexCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewIndexCache builds a cache backed by client. A nil client is accepted:
// every method becomes a no-op miss, so callers without Redis configured
// can still use an IndexCache unconditionally.
func NewIndexCache(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *IndexCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &IndexCache{client: client, ttl: ttl, metrics: m}
}

func (c *IndexCache) key(hash string) string {
	return "schedgen:collision-index:" + hash
}

// Get looks up a previously cached index. ok is false on both a genuine
// cache miss and a disabled cache; err is non-nil only for an actual Redis
// or decode failure.
func (c *IndexCache) Get(ctx context.Context, hash string) (idx collision.Index, ok bool, err error) {
	if c.client == nil {
		return collision.Index{}, false, nil
	}

	raw, err := c.client.Get(ctx, c.key(hash)).Bytes()
	if err != nil {
		if err == redis.Nil {
			c.metrics.RecordCacheLookup(false)
			return collision.Index{}, false, nil
		}
		return collision.Index{}, false, fmt.Errorf("cache: get collision index %s: %w", hash, err)
	}

	var pairs []collision.Exception
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return collision.Index{}, false, fmt.Errorf("cache: decode collision index %s: %w", hash, err)
	}

	c.metrics.RecordCacheLookup(true)
	return collision.FromPairs(pairs), true, nil
}

// Set stores idx under hash. A nil client makes this a no-op so callers
// never need to branch on whether caching is configured.
func (c *IndexCache) Set(ctx context.Context, hash string, idx collision.Index) error {
	if c.client == nil {
		return nil
	}

	payload, err := json.Marshal(idx.Pairs())
	if err != nil {
		return fmt.Errorf("cache: encode collision index %s: %w", hash, err)
	}
	if err := c.client.Set(ctx, c.key(hash), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set collision index %s: %w", hash, err)
	}
	return nil
}
