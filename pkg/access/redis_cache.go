package access

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/casekit/casekit/pkg/grants"
	"github.com/casekit/casekit/pkg/logger"
)

const (
	redisStampKey  = "casekit:modaccess:stamp"
	redisRolePref  = "casekit:modaccess:role:"
	redisKeyMargin = time.Minute
)

// RedisCacheOption configures a RedisModuleCache.
type RedisCacheOption func(*RedisModuleCache)

// WithRedisCacheTTL overrides the cache TTL.
func WithRedisCacheTTL(ttl time.Duration) RedisCacheOption {
	return func(c *RedisModuleCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedisCacheLogger sets a custom logger for the cache.
func WithRedisCacheLogger(log *slog.Logger) RedisCacheOption {
	return func(c *RedisModuleCache) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRedisFallbackTable replaces the built-in per-role fallback table.
func WithRedisFallbackTable(table map[grants.Role][]grants.Module) RedisCacheOption {
	return func(c *RedisModuleCache) {
		if table != nil {
			c.fallback = table
		}
	}
}

// RedisModuleCache is the ModuleAccess projection shared across instances
// through Redis. One set per role holds the reachable modules; a single
// stamp key with the TTL plays the role of the shared cachedAt timestamp,
// so the whole projection expires at once.
//
// Same contract as ModuleCache: refreshes are not mutually exclusive, and
// a failed refresh answers from the fallback table.
type RedisModuleCache struct {
	client   redis.UniversalClient
	store    grants.Store
	ttl      time.Duration
	log      *slog.Logger
	fallback map[grants.Role][]grants.Module
}

// NewRedisModuleCache creates a Redis-backed module-access cache.
func NewRedisModuleCache(client redis.UniversalClient, store grants.Store, opts ...RedisCacheOption) *RedisModuleCache {
	c := &RedisModuleCache{
		client:   client,
		store:    store,
		ttl:      DefaultCacheTTL,
		log:      slog.Default(),
		fallback: defaultModuleTable(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve answers from Redis when the stamp is alive, rebuilding the whole
// projection otherwise.
func (c *RedisModuleCache) Resolve(ctx context.Context, role grants.Role, module grants.Module) bool {
	if !c.populated(ctx) {
		if err := c.refresh(ctx); err != nil {
			return slices.Contains(c.fallback[role], module)
		}
	}

	ok, err := c.client.SIsMember(ctx, redisRolePref+role.String(), module.String()).Result()
	if err != nil {
		c.log.ErrorContext(ctx, "module access lookup failed, using fallback table",
			logger.Component("access.RedisModuleCache"),
			logger.Role(role), logger.Error(err))
		return slices.Contains(c.fallback[role], module)
	}
	return ok
}

// Modules returns the sorted module set reachable by the role.
func (c *RedisModuleCache) Modules(ctx context.Context, role grants.Role) []grants.Module {
	if !c.populated(ctx) {
		if err := c.refresh(ctx); err != nil {
			out := slices.Clone(c.fallback[role])
			slices.Sort(out)
			return out
		}
	}

	members, err := c.client.SMembers(ctx, redisRolePref+role.String()).Result()
	if err != nil {
		c.log.ErrorContext(ctx, "module access lookup failed, using fallback table",
			logger.Component("access.RedisModuleCache"),
			logger.Role(role), logger.Error(err))
		out := slices.Clone(c.fallback[role])
		slices.Sort(out)
		return out
	}

	out := make([]grants.Module, 0, len(members))
	for _, m := range members {
		out = append(out, grants.Module(m))
	}
	slices.Sort(out)
	return out
}

// Invalidate drops the stamp so the next call rebuilds the projection.
func (c *RedisModuleCache) Invalidate() {
	ctx := context.Background()
	if err := c.client.Del(ctx, redisStampKey).Err(); err != nil {
		c.log.Error("module access cache invalidation failed",
			logger.Component("access.RedisModuleCache"), logger.Error(err))
	}
}

func (c *RedisModuleCache) populated(ctx context.Context) bool {
	n, err := c.client.Exists(ctx, redisStampKey).Result()
	return err == nil && n > 0
}

func (c *RedisModuleCache) refresh(ctx context.Context) error {
	rows, err := c.store.ListAllGrants(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "module access cache refresh failed",
			logger.Component("access.RedisModuleCache"), logger.Error(err))
		return ErrCacheRefresh
	}

	byRole := make(map[grants.Role][]any)
	for _, g := range rows {
		if g.Allowed {
			byRole[g.Role] = append(byRole[g.Role], g.Module.String())
		}
	}

	pipe := c.client.TxPipeline()
	for _, role := range grants.KnownRoles() {
		key := redisRolePref + role.String()
		pipe.Del(ctx, key)
		if members := byRole[role]; len(members) > 0 {
			pipe.SAdd(ctx, key, members...)
			// Role sets outlive the stamp slightly so a reader that saw a
			// live stamp never hits an already-expired set.
			pipe.Expire(ctx, key, c.ttl+redisKeyMargin)
		}
	}
	pipe.Set(ctx, redisStampKey, time.Now().Unix(), c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		c.log.ErrorContext(ctx, "module access cache write failed",
			logger.Component("access.RedisModuleCache"), logger.Error(err))
		return ErrCacheRefresh
	}
	return nil
}
