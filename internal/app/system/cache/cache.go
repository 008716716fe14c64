// Package cache keeps the upcoming-events payload in Redis.
//
// A nil *Upcoming is valid and behaves as an always-missing cache, so the
// service runs unchanged when redis_addr is not configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// UpcomingKey is the Redis key holding the fetchUpcomingEvents payload.
const UpcomingKey = "clubhub:events:upcoming"

// NewRedis builds a client with short timeouts. It does not dial.
func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
}

// Upcoming caches the upcoming-events response.
type Upcoming struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewUpcoming returns nil when rdb is nil.
func NewUpcoming(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Upcoming {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Upcoming{rdb: rdb, ttl: ttl, log: logger}
}

// Get decodes the cached payload into v. It reports false on a miss or any
// Redis failure; failures are logged and never returned.
func (c *Upcoming) Get(ctx context.Context, v any) bool {
	if c == nil {
		return false
	}
	b, err := c.rdb.Get(ctx, UpcomingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.log.Warn("upcoming cache get failed", zap.Error(err))
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.log.Warn("upcoming cache decode failed", zap.Error(err))
		return false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

// Set stores v for the configured TTL.
func (c *Upcoming) Set(ctx context.Context, v any) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("upcoming cache encode failed", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, UpcomingKey, b, c.ttl).Err(); err != nil {
		c.log.Warn("upcoming cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached payload. Called after every event write.
func (c *Upcoming) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, UpcomingKey).Err(); err != nil {
		c.log.Warn("upcoming cache invalidate failed", zap.Error(err))
	}
}

// Healthy reports whether Redis answers a ping.
func (c *Upcoming) Healthy(ctx context.Context) bool {
	if c == nil {
		return false
	}
	return c.rdb.Ping(ctx).Err() == nil
}
