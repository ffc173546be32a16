package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coursehub/coursehub/internal/domain/analytics"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

const analyticsKey = "analytics:v1"

// AnalyticsCache keeps the last analytics snapshot in redis for a short TTL.
// The snapshot is already non-atomic across its counting queries, so bounded
// staleness does not change the contract. All failures are soft: a miss.
type AnalyticsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAnalyticsCache(rdb *redis.Client, ttl time.Duration) *AnalyticsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &AnalyticsCache{rdb: rdb, ttl: ttl}
}

func (c *AnalyticsCache) Get(ctx context.Context) (analytics.Summary, bool) {
	if c == nil || c.rdb == nil {
		return analytics.Summary{}, false
	}

	raw, err := c.rdb.Get(ctx, analyticsKey).Bytes()

	if err != nil {
		return analytics.Summary{}, false
	}

	var s analytics.Summary

	if err := json.Unmarshal(raw, &s); err != nil {
		return analytics.Summary{}, false
	}

	return s, true
}

func (c *AnalyticsCache) Set(ctx context.Context, s analytics.Summary) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(s)

	if err != nil {
		return
	}

	_ = c.rdb.Set(ctx, analyticsKey, raw, c.ttl).Err()
}

func (c *AnalyticsCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}

	_ = c.rdb.Del(ctx, analyticsKey).Err()
}
