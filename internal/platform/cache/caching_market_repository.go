// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"fib_dashboard/internal/feature/candles/domain/entity"
	"fib_dashboard/internal/feature/candles/usecase"
)

// TTLFunc は書き込み時点のキャッシュ有効期間を返します。
type TTLFunc func() time.Duration

// FixedTTL は常に d を返す TTLFunc です。
func FixedTTL(d time.Duration) TTLFunc {
	return func() time.Duration { return d }
}

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// 値は msgpack でエンコードし、キーには End を含めません（次の更新時刻まで同じ結果を返します）。
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       TTLFunc
	namespace string
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If ttl is nil, it defaults to 5 minutes. If namespace is empty, it uses "bars".
// rdb が nil の場合はキャッシュを素通りします。
func NewCachingMarketRepository(rdb *redis.Client, ttl TTLFunc, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl == nil {
		ttl = FixedTTL(5 * time.Minute)
	}
	if namespace == "" {
		namespace = "bars"
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetTimeSeries checks the cache first, then falls back to the provider.
// 空の結果とエラーはキャッシュしません。
func (c *CachingMarketRepository) GetTimeSeries(ctx context.Context, q usecase.Query) ([]entity.PriceBar, error) {
	if c.rdb == nil {
		return c.inner.GetTimeSeries(ctx, q)
	}

	key := c.cacheKey(q)

	// 1) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out []entity.PriceBar
		if err := msgpack.Unmarshal(b, &out); err == nil {
			for i := range out {
				out[i].Time = out[i].Time.UTC()
			}
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && !errors.Is(err, redis.Nil):
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	// 2) Fallback to provider
	out, err := c.inner.GetTimeSeries(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// 3) Store in cache (best effort)
	if ttl := c.ttl(); ttl > 0 {
		if b, err := msgpack.Marshal(out); err == nil {
			if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
				slog.Warn("cache write failed", "key", key, "error", err)
			}
		}
	}

	return out, nil
}

// Invalidate は symbol の全時間足のキャッシュを削除します。
func (c *CachingMarketRepository) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, fmt.Sprintf("%s:%s:*", c.namespace, safe(symbol)))
}

// cacheKey generates a cache key for a specific query.
func (c *CachingMarketRepository) cacheKey(q usecase.Query) string {
	return fmt.Sprintf("%s:%s:%s:%d",
		c.namespace,
		safe(q.Symbol),
		safe(q.Interval),
		q.Start.Unix(),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMarketRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys and SCAN patterns.
var keyReplacer = strings.NewReplacer(" ", "_", ":", "_", "*", "_", "?", "_", "[", "_", "]", "_")

func safe(s string) string {
	return keyReplacer.Replace(s)
}
