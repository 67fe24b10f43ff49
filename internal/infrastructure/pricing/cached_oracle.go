package pricing

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// PriceSource is the upstream the cache sits in front of.
type PriceSource interface {
	GetUSDPrices(ctx context.Context, feedIDs []string) (map[string]decimal.Decimal, error)
}

// CachedOracle caches per-feed USD prices in Redis so bursts of quote
// requests don't hammer the upstream rate limit.
type CachedOracle struct {
	source PriceSource
	rdb    *redis.Client
	ttl    time.Duration
}

func NewCachedOracle(source PriceSource, rdb *redis.Client, ttl time.Duration) *CachedOracle {
	return &CachedOracle{source: source, rdb: rdb, ttl: ttl}
}

func priceKey(feedID string) string {
	return "price:usd:" + feedID
}

// GetUSDPrices serves cached prices where fresh and fetches the rest in one
// upstream call. A feed missing upstream stays absent and uncached.
func (o *CachedOracle) GetUSDPrices(ctx context.Context, feedIDs []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(feedIDs))
	var misses []string

	for _, id := range feedIDs {
		val, err := o.rdb.Get(ctx, priceKey(id)).Result()
		if err != nil {
			misses = append(misses, id)
			continue
		}
		price, err := decimal.NewFromString(val)
		if err != nil {
			misses = append(misses, id)
			continue
		}
		prices[id] = price
	}

	if len(misses) == 0 {
		return prices, nil
	}

	fetched, err := o.source.GetUSDPrices(ctx, misses)
	if err != nil {
		// serve what the cache had rather than failing the whole quote
		if len(prices) > 0 {
			return prices, nil
		}
		return nil, err
	}

	for id, price := range fetched {
		prices[id] = price
		o.rdb.Set(ctx, priceKey(id), price.String(), o.ttl)
	}
	return prices, nil
}
