package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/models"
)

// ListCache stores encoded list responses per resource and query.
// Failures are logged and reported as misses; they never fail a request.
type ListCache interface {
	// Get decodes the cached page for canonical into dest and reports a hit.
	// The returned version must be passed to Set when the caller fills the
	// miss, so a page read before an invalidation is never served after it.
	// An empty version means the cache is unavailable.
	Get(ctx context.Context, resource models.Resource, canonical string, dest interface{}) (version string, hit bool)
	Set(ctx context.Context, resource models.Resource, version, canonical string, value interface{})
	// Invalidate makes every cached page of the given resources unreachable.
	Invalidate(ctx context.Context, resources ...models.Resource)
}

// KV is the subset of RedisClient used by the list cache.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// RedisListCache namespaces entries with a per-resource version counter.
// Bumping the counter orphans old entries, which then expire by TTL.
type RedisListCache struct {
	kv  KV
	ttl time.Duration
}

// NewRedisListCache creates a RedisListCache.
func NewRedisListCache(kv KV, ttl time.Duration) *RedisListCache {
	return &RedisListCache{kv: kv, ttl: ttl}
}

func versionKey(resource models.Resource) string {
	return fmt.Sprintf("list:%s:version", resource)
}

func entryKey(resource models.Resource, version, canonical string) string {
	return fmt.Sprintf("list:%s:v%s:%s", resource, version, canonical)
}

func (c *RedisListCache) version(ctx context.Context, resource models.Resource) (string, error) {
	v, err := c.kv.Get(ctx, versionKey(resource))
	if IsMiss(err) {
		return "0", nil
	}
	return v, err
}

func (c *RedisListCache) Get(ctx context.Context, resource models.Resource, canonical string, dest interface{}) (string, bool) {
	version, err := c.version(ctx, resource)
	if err != nil {
		log.Warn().Err(err).Str("resource", string(resource)).Msg("list cache version read failed")
		return "", false
	}
	raw, err := c.kv.Get(ctx, entryKey(resource, version, canonical))
	if err != nil {
		if !IsMiss(err) {
			log.Warn().Err(err).Str("resource", string(resource)).Msg("list cache read failed")
		}
		return version, false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Warn().Err(err).Str("resource", string(resource)).Msg("list cache entry corrupt")
		return version, false
	}
	return version, true
}

// Set stores value under the version returned by the Get that missed. An
// invalidation in between moves readers to a newer version, so the entry
// is unreachable; it is skipped outright when the counter already moved.
func (c *RedisListCache) Set(ctx context.Context, resource models.Resource, version, canonical string, value interface{}) {
	if version == "" {
		return
	}
	current, err := c.version(ctx, resource)
	if err != nil {
		log.Warn().Err(err).Str("resource", string(resource)).Msg("list cache version read failed")
		return
	}
	if current != version {
		log.Debug().Str("resource", string(resource)).Msg("list cache invalidated during read, not storing")
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("resource", string(resource)).Msg("list cache encode failed")
		return
	}
	if err := c.kv.Set(ctx, entryKey(resource, version, canonical), string(raw), c.ttl); err != nil {
		log.Warn().Err(err).Str("resource", string(resource)).Msg("list cache write failed")
	}
}

func (c *RedisListCache) Invalidate(ctx context.Context, resources ...models.Resource) {
	for _, r := range resources {
		if _, err := c.kv.Incr(ctx, versionKey(r)); err != nil {
			log.Warn().Err(err).Str("resource", string(r)).Msg("list cache invalidate failed")
		}
	}
}

// NopListCache never stores anything. It is used when Redis is not configured.
type NopListCache struct{}

func (NopListCache) Get(context.Context, models.Resource, string, interface{}) (string, bool) { return "", false }
func (NopListCache) Set(context.Context, models.Resource, string, string, interface{})        {}
func (NopListCache) Invalidate(context.Context, ...models.Resource)                           {}
