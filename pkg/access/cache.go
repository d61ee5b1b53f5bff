package access

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/casekit/casekit/pkg/grants"
	"github.com/casekit/casekit/pkg/logger"
)

// DefaultCacheTTL bounds how long a module-access projection is trusted.
const DefaultCacheTTL = 5 * time.Minute

// ModuleAccess answers coarse "can this role ever reach this module"
// questions. Implementations must never be used for action-level checks.
type ModuleAccess interface {
	// Resolve reports whether the role has at least one allowed grant on
	// the module, for any action.
	Resolve(ctx context.Context, role grants.Role, module grants.Module) bool

	// Modules returns the set of modules reachable by the role, sorted.
	Modules(ctx context.Context, role grants.Role) []grants.Module

	// Invalidate forces the next call to rebuild from the grid,
	// regardless of TTL. Components that mutate the grid must call it
	// immediately after a successful write.
	Invalidate()
}

// CacheOption configures a ModuleCache.
type CacheOption func(*ModuleCache)

// WithCacheTTL overrides the cache TTL.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *ModuleCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheClock injects a clock, letting tests control expiry.
func WithCacheClock(clock func() time.Time) CacheOption {
	return func(c *ModuleCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithCacheLogger sets a custom logger for the cache.
func WithCacheLogger(log *slog.Logger) CacheOption {
	return func(c *ModuleCache) {
		if log != nil {
			c.log = log
		}
	}
}

// WithFallbackTable replaces the built-in per-role fallback table used when
// the grid cannot be read.
func WithFallbackTable(table map[grants.Role][]grants.Module) CacheOption {
	return func(c *ModuleCache) {
		if table != nil {
			c.fallback = table
		}
	}
}

// ModuleCache is an in-memory, time-bounded projection of the permission
// grid to "role → reachable modules". One full grid scan rebuilds the map
// for every role at once; a single cachedAt timestamp covers the whole
// cache, not one per role.
//
// Concurrent cache misses are not deduplicated: two nearly simultaneous
// callers may both trigger a full refetch. Both read the same grid and
// converge on the same map, so this is an accepted inefficiency, not a
// correctness bug.
type ModuleCache struct {
	store    grants.Store
	ttl      time.Duration
	clock    func() time.Time
	log      *slog.Logger
	fallback map[grants.Role][]grants.Module

	mu       sync.RWMutex
	modules  map[grants.Role]map[grants.Module]struct{}
	cachedAt time.Time
}

// NewModuleCache creates a cache in front of the grid store.
func NewModuleCache(store grants.Store, opts ...CacheOption) *ModuleCache {
	c := &ModuleCache{
		store:    store,
		ttl:      DefaultCacheTTL,
		clock:    time.Now,
		log:      slog.Default(),
		fallback: defaultModuleTable(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve answers from cache when fresh, otherwise rebuilds the whole
// projection first. On rebuild failure it answers from the fallback table;
// fine-grained checks elsewhere still fail closed.
func (c *ModuleCache) Resolve(ctx context.Context, role grants.Role, module grants.Module) bool {
	set, ok := c.roleModules(ctx, role)
	if !ok {
		return slices.Contains(c.fallback[role], module)
	}
	_, allowed := set[module]
	return allowed
}

// Modules returns the sorted module set reachable by the role.
func (c *ModuleCache) Modules(ctx context.Context, role grants.Role) []grants.Module {
	set, ok := c.roleModules(ctx, role)
	if !ok {
		out := slices.Clone(c.fallback[role])
		slices.Sort(out)
		return out
	}

	out := make([]grants.Module, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Invalidate clears the timestamp so the next call refetches the grid.
func (c *ModuleCache) Invalidate() {
	c.mu.Lock()
	c.cachedAt = time.Time{}
	c.mu.Unlock()
}

// roleModules returns the cached set for the role, refreshing when stale.
// ok is false only when the refresh failed and no cache exists.
func (c *ModuleCache) roleModules(ctx context.Context, role grants.Role) (map[grants.Module]struct{}, bool) {
	c.mu.RLock()
	if c.fresh() {
		set := c.modules[role]
		c.mu.RUnlock()
		return set, true
	}
	c.mu.RUnlock()

	return c.refresh(ctx, role)
}

// fresh must be called with c.mu held.
func (c *ModuleCache) fresh() bool {
	return c.modules != nil && !c.cachedAt.IsZero() && c.clock().Sub(c.cachedAt) < c.ttl
}

func (c *ModuleCache) refresh(ctx context.Context, role grants.Role) (map[grants.Module]struct{}, bool) {
	rows, err := c.store.ListAllGrants(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "module access cache refresh failed, using fallback table",
			logger.Component("access.ModuleCache"),
			logger.Role(role), logger.Error(err))
		return nil, false
	}

	rebuilt := make(map[grants.Role]map[grants.Module]struct{})
	for _, g := range rows {
		if !g.Allowed {
			continue
		}
		set, ok := rebuilt[g.Role]
		if !ok {
			set = make(map[grants.Module]struct{})
			rebuilt[g.Role] = set
		}
		set[g.Module] = struct{}{}
	}

	c.mu.Lock()
	c.modules = rebuilt
	c.cachedAt = c.clock()
	c.mu.Unlock()

	return rebuilt[role], true
}

// defaultModuleTable is the conservative per-role fallback used when the
// backend is unreachable, so total unavailability does not brick
// navigation entirely.
func defaultModuleTable() map[grants.Role][]grants.Module {
	return map[grants.Role][]grants.Module{
		grants.RoleAdministrator: {
			grants.ModuleStudents, grants.ModuleInventory, grants.ModulePurchases,
			grants.ModuleMedications, grants.ModuleAppointments,
			grants.ModuleNotifications, grants.ModuleReports, grants.ModuleSettings,
		},
		grants.RoleDirector: {
			grants.ModuleStudents, grants.ModuleReports, grants.ModuleNotifications,
		},
		grants.RoleCoordinator: {
			grants.ModuleStudents, grants.ModuleAppointments, grants.ModuleNotifications,
		},
		grants.RoleAssistant: {
			grants.ModuleStudents, grants.ModuleInventory,
		},
		grants.RoleSubject: {
			grants.ModuleAppointments,
		},
	}
}
