// Package cache holds the dashboard counters between writes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"
	"github.com/redis/go-redis/v9"
)

const statsKey = "complaints:stats"

// StatsCache stores per-status complaint counts. A miss is reported with ok=false.
type StatsCache interface {
	Get(ctx context.Context) (counts map[models.ComplaintStatus]int64, ok bool, err error)
	Set(ctx context.Context, counts map[models.ComplaintStatus]int64) error
	Invalidate(ctx context.Context) error
}

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

// Connect opens a client and verifies the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (c *RedisStatsCache) Get(ctx context.Context) (map[models.ComplaintStatus]int64, bool, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var counts map[models.ComplaintStatus]int64
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false, fmt.Errorf("corrupt stats cache entry: %w", err)
	}
	return counts, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, counts map[models.ComplaintStatus]int64) error {
	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, raw, c.ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsKey).Err()
}

// Ping is used by the health probe.
func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
