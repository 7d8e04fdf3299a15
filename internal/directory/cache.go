package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/domain"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/telemetry"
)

const cacheKeyPrefix = "player:"

// cacheBackend is the subset of the redis client the cache uses
type cacheBackend interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedDirectory fronts a Directory with a Redis cache. Cache failures
// degrade to a direct lookup; only upstream failures surface to the caller.
type CachedDirectory struct {
	inner   Directory
	redis   cacheBackend
	ttl     time.Duration
	log     *logger.Logger
	latency *telemetry.Histogram
	hits    *telemetry.Counter
}

// NewCachedDirectory wraps a directory with a Redis lookup cache
func NewCachedDirectory(inner Directory, rdb cacheBackend, ttl time.Duration, log *logger.Logger) *CachedDirectory {
	d := &CachedDirectory{
		inner: inner,
		redis: rdb,
		ttl:   ttl,
		log:   log,
	}
	if h, err := telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "directory.lookup.duration",
		Description: "Player lookup latency",
		Unit:        "ms",
	}); err == nil {
		d.latency = h
	}
	if c, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "directory.lookup.cache_hits",
		Description: "Player lookups served from cache",
	}); err == nil {
		d.hits = c
	}
	return d
}

// Lookup resolves a player, preferring the cache
func (d *CachedDirectory) Lookup(ctx context.Context, tag string) (*Player, error) {
	tag = domain.NormalizeTag(tag)
	key := cacheKeyPrefix + tag

	start := time.Now()
	defer func() {
		if d.latency != nil {
			d.latency.Record(ctx, float64(time.Since(start).Milliseconds()))
		}
	}()

	if cached, err := d.redis.Get(ctx, key).Result(); err == nil {
		var player Player
		if err := json.Unmarshal([]byte(cached), &player); err == nil {
			if d.hits != nil {
				d.hits.Inc(ctx)
			}
			return &player, nil
		}
		// Unreadable entry; fall through and overwrite it
	} else if !errors.Is(err, redis.Nil) {
		d.log.Warn("player cache read failed, falling back to direct lookup",
			zap.String("tag", tag),
			zap.Error(err),
		)
	}

	player, err := d.inner.Lookup(ctx, tag)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(player); err == nil {
		if err := d.redis.Set(ctx, key, data, d.ttl).Err(); err != nil {
			d.log.Warn("player cache write failed",
				zap.String("tag", tag),
				zap.Error(err),
			)
		}
	}
	return player, nil
}

// InvalidatePlayer drops the cached record for a tag
func (d *CachedDirectory) InvalidatePlayer(ctx context.Context, tag string) error {
	key := cacheKeyPrefix + domain.NormalizeTag(tag)
	if err := d.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate player cache: %w", err)
	}
	return nil
}
