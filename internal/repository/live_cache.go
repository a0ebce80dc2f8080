package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/YasirGaji/thegoldmetrics/pkg/gold"
	"github.com/redis/go-redis/v9"
)

const LivePriceKey = "goldmetrics:price:live"

// LivePriceCache keeps the last live report so dashboard refreshes do not
// spend the provider's monthly quota.
type LivePriceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLivePriceCache(client *redis.Client, ttl time.Duration) *LivePriceCache {
	return &LivePriceCache{client: client, ttl: ttl}
}

func (c *LivePriceCache) Get(ctx context.Context) (*gold.Report, error) {
	raw, err := c.client.Get(ctx, LivePriceKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report gold.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *LivePriceCache) Set(ctx context.Context, report *gold.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, LivePriceKey, raw, c.ttl).Err()
}

func (c *LivePriceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
