package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// CostCache implements ports.CostCache using Redis. Costs are stored
// as decimal strings to avoid float round-tripping.
type CostCache struct {
	client *goredis.Client
	prefix string
}

// NewCostCache creates a new Redis-backed cost cache.
func NewCostCache(client *goredis.Client) *CostCache {
	return &CostCache{
		client: client,
		prefix: "cost:",
	}
}

func (c *CostCache) key(serviceCode, countryCode string) string {
	return c.prefix + serviceCode + ":" + countryCode
}

// Get retrieves the last known good cost for a pair.
// Returns found=false when no cost is cached.
func (c *CostCache) Get(ctx context.Context, serviceCode, countryCode string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, c.key(serviceCode, countryCode)).Result()
	if err != nil {
		if err == goredis.Nil {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("redis cost get: %w", err)
	}

	cost, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse cached cost %q: %w", val, err)
	}
	return cost, true, nil
}

// Set stores a cost with TTL, replacing any previous value for the pair.
func (c *CostCache) Set(ctx context.Context, serviceCode, countryCode string, cost decimal.Decimal, ttl time.Duration) error {
	err := c.client.Set(ctx, c.key(serviceCode, countryCode), cost.String(), ttl).Err()
	if err != nil {
		return fmt.Errorf("redis cost set: %w", err)
	}
	return nil
}
