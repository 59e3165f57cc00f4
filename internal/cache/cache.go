// Package cache provides the freshness-windowed snapshot store behind
// the venue's simulated sync: writes always succeed, reads older than
// the window report stale and the caller falls back to its defaults.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrStale       = errors.New("cached value is stale or missing")
	ErrUnavailable = errors.New("cache unavailable")
)

// DefaultFreshness is the window after which a snapshot no longer counts
// as a usable copy of the authoritative data.
const DefaultFreshness = 5 * time.Minute

const keyPrefix = "buddybox:"

// Snapshots stores JSON payloads in Redis with the freshness window as
// TTL, so an expired key reads back as stale.
type Snapshots struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSnapshots(rdb *redis.Client, ttl time.Duration) *Snapshots {
	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	return &Snapshots{rdb: rdb, ttl: ttl}
}

func (c *Snapshots) Put(ctx context.Context, key string, v any) error {
	if c.rdb == nil {
		return ErrUnavailable
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyPrefix+key, data, c.ttl).Err()
}

func (c *Snapshots) Get(ctx context.Context, key string, dest any) error {
	if c.rdb == nil {
		return ErrUnavailable
	}
	data, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrStale
	}
	if err != nil {
		return ErrUnavailable
	}
	return json.Unmarshal(data, dest)
}
