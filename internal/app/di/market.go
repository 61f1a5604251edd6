// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"fib_dashboard/internal/app/config"
	"fib_dashboard/internal/feature/candles/usecase"
	"fib_dashboard/internal/platform/cache"
	"fib_dashboard/internal/platform/externalapi/yahoo"
	infrahttp "fib_dashboard/internal/platform/http"
)

// NewMarket creates a fully configured YahooMarket with HTTP client.
func NewMarket(cfg *config.Config) (*yahoo.YahooMarket, error) {
	ycfg := yahoo.Config{
		BaseURL:   cfg.Yahoo.BaseURL,
		Suffix:    cfg.Yahoo.Suffix,
		UserAgent: cfg.Yahoo.UserAgent,
		Timeout:   cfg.Yahoo.Timeout,
	}
	httpClient, err := infrahttp.NewHTTPClient(cfg.Yahoo.Timeout, cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	return yahoo.NewYahooMarket(ycfg, httpClient), nil
}

// NewCachedMarket は inner をRedisキャッシュでラップします。
// rdb が nil の場合はキャッシュを素通りします。TTLは次の更新時刻（cache.refresh_hour）までです。
func NewCachedMarket(cfg *config.Config, rdb *redis.Client, inner usecase.MarketRepository) (*cache.CachingMarketRepository, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	ttl := cache.UntilNextRefresh(cfg.Cache.RefreshHour, loc)
	return cache.NewCachingMarketRepository(rdb, ttl, inner, cfg.Cache.Namespace), nil
}
